package tasks

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/olegbb/presskit/app/content"
	"github.com/olegbb/presskit/app/database"
)

// LintCorpusTask runs the corpus checks over the library, replaces the stored
// lint report, and prunes snapshots whose source files disappeared.
type LintCorpusTask struct {
	Task
	library  *content.Library
	linter   *content.Linter
	postRepo database.PostRepository
	lintRepo database.LintRepository
}

func NewLintCorpusTask(library *content.Library, linter *content.Linter,
	postRepo database.PostRepository, lintRepo database.LintRepository) *LintCorpusTask {
	return &LintCorpusTask{
		Task:     NewTask(TaskTypeLintCorpus, ""),
		library:  library,
		linter:   linter,
		postRepo: postRepo,
		lintRepo: lintRepo,
	}
}

func (t *LintCorpusTask) Execute(ctx context.Context) error {

	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	issues := t.linter.Run(t.library)

	dbIssues := make([]database.LintIssue, 0, len(issues))
	errorCount := 0
	warningCount := 0
	for _, issue := range issues {
		if issue.Severity == content.LintError {
			errorCount++
		} else {
			warningCount++
		}
		dbIssues = append(dbIssues, database.LintIssue{
			Slug:       issue.Slug,
			SourceFile: issue.SourceFile,
			Severity:   string(issue.Severity),
			Code:       issue.Code,
			Message:    issue.Message,
		})
	}

	if err := t.lintRepo.ReplaceIssues(dbIssues); err != nil {
		return fmt.Errorf("failed to store lint report: %w", err)
	}

	posts := t.library.GetPosts()
	keepSlugs := make([]string, 0, len(posts))
	for slug := range posts {
		keepSlugs = append(keepSlugs, slug)
	}

	pruned, err := t.postRepo.DeleteMissing(keepSlugs)
	if err != nil {
		return fmt.Errorf("failed to prune removed posts: %w", err)
	}

	slog.Info("Task completed",
		"type", "LintCorpus",
		"duration", t.GetDuration(),
		"errors", errorCount,
		"warnings", warningCount,
		"pruned", pruned)

	return nil
}
