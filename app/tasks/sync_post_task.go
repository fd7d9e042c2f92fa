package tasks

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/olegbb/presskit/app/content"
	"github.com/olegbb/presskit/app/database"
)

// SyncPostTask renders one parsed post and upserts its snapshot. Posts with
// invalid front matter are stored anyway; the lint report carries the
// violations while the admin surface can still inspect the post.
type SyncPostTask struct {
	Task
	Post     *content.Post
	library  *content.Library
	renderer *content.Renderer
	postRepo database.PostRepository
}

func NewSyncPostTask(post *content.Post, library *content.Library,
	renderer *content.Renderer, postRepo database.PostRepository) *SyncPostTask {
	return &SyncPostTask{
		Task:     NewTask(TaskTypeSyncPost, post.Slug),
		Post:     post,
		library:  library,
		renderer: renderer,
		postRepo: postRepo,
	}
}

func (t *SyncPostTask) Execute(ctx context.Context) error {

	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	html, unresolved, err := t.renderer.Run(t.Post, t.library.ResolveRef)
	if err != nil {
		return fmt.Errorf("failed to render post: %w", err)
	}

	if len(unresolved) > 0 {
		slog.Warn("Post has unresolved refs", "slug", t.Post.Slug, "targets", unresolved)
	}

	err = t.postRepo.UpsertPost(database.Post{
		Slug:        t.Post.Slug,
		SourceFile:  t.Post.SourceFile,
		SourceHash:  t.Post.SourceHash,
		Title:       t.Post.Title,
		URL:         t.Post.URL,
		Date:        t.Post.Date,
		Draft:       t.Post.Draft,
		Featured:    t.Post.Featured,
		Description: t.Post.Description,
		ContentHTML: html,
		Tags:        t.Post.Tags,
		Keywords:    t.Post.Keywords,
		FAQ:         t.Post.FAQ,
	})
	if err != nil {
		return fmt.Errorf("failed to store post: %w", err)
	}

	slog.Info("Task completed",
		"type", "SyncPost",
		"slug", t.Post.Slug,
		"duration", t.GetDuration(),
		"html_length", len(html),
		"unresolved_refs", len(unresolved))

	return nil
}
