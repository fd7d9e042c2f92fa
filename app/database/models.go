package database

import (
	"time"

	"github.com/olegbb/presskit/app/content"
)

// Post is the rendered snapshot of a corpus post.
type Post struct {
	ID          string
	Slug        string
	SourceFile  string
	SourceHash  string
	Title       string
	URL         string
	Date        time.Time
	Draft       bool
	Featured    bool
	Description string
	ContentHTML string
	Tags        []string
	Keywords    []string
	FAQ         []content.FAQEntry
	CreatedAt   time.Time
	UpdatedAt   time.Time
	SyncedAt    *time.Time
}

// LintIssue is one finding of the last corpus lint run.
type LintIssue struct {
	ID         string
	Slug       string
	SourceFile string
	Severity   string
	Code       string
	Message    string
	CreatedAt  time.Time
}
