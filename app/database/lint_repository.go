package database

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"
)

type LintRepo struct {
	db *DB
}

var _ LintRepository = (*LintRepo)(nil)

func NewLintRepository(db *DB) *LintRepo {
	return &LintRepo{db: db}
}

// ReplaceIssues swaps the stored lint report for the given one atomically.
// The report always reflects exactly one lint run.
func (r *LintRepo) ReplaceIssues(issues []LintIssue) error {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM lint_issues`); err != nil {
		return fmt.Errorf("failed to clear lint issues: %w", err)
	}

	for _, issue := range issues {
		_, err := tx.Exec(`
			INSERT INTO lint_issues (id, slug, source_file, severity, code, message)
			VALUES (?, ?, ?, ?, ?, ?)
		`, uuid.NewString(), issue.Slug, issue.SourceFile, issue.Severity, issue.Code, issue.Message)
		if err != nil {
			return fmt.Errorf("failed to insert lint issue: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit lint issues: %w", err)
	}

	return nil
}

func (r *LintRepo) GetIssues() ([]LintIssue, error) {
	rows, err := r.db.Query(`
		SELECT id, slug, source_file, severity, code, message, created_at
		FROM lint_issues
		ORDER BY severity, source_file, code
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to get lint issues: %w", err)
	}
	defer rows.Close()

	return collectIssues(rows)
}

func (r *LintRepo) GetIssuesForSlug(slug string) ([]LintIssue, error) {
	rows, err := r.db.Query(`
		SELECT id, slug, source_file, severity, code, message, created_at
		FROM lint_issues
		WHERE slug = ?
		ORDER BY severity, code
	`, slug)
	if err != nil {
		return nil, fmt.Errorf("failed to get lint issues for slug: %w", err)
	}
	defer rows.Close()

	return collectIssues(rows)
}

func (r *LintRepo) GetIssueCounts() (int, int, error) {
	var errorCount, warningCount int
	err := r.db.QueryRow(`
		SELECT COALESCE(SUM(CASE WHEN severity = 'error' THEN 1 ELSE 0 END), 0),
		       COALESCE(SUM(CASE WHEN severity = 'warning' THEN 1 ELSE 0 END), 0)
		FROM lint_issues
	`).Scan(&errorCount, &warningCount)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to get lint issue counts: %w", err)
	}
	return errorCount, warningCount, nil
}

func collectIssues(rows *sql.Rows) ([]LintIssue, error) {
	var issues []LintIssue
	for rows.Next() {
		var issue LintIssue
		err := rows.Scan(&issue.ID, &issue.Slug, &issue.SourceFile,
			&issue.Severity, &issue.Code, &issue.Message, &issue.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan lint issue row: %w", err)
		}
		issues = append(issues, issue)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating lint issue rows: %w", err)
	}

	return issues, nil
}
