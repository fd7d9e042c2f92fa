package database

import (
	"time"
)

// PublishedQuery narrows the public post listing.
type PublishedQuery struct {
	Tag          string
	FeaturedOnly bool
	Limit        int
	Now          time.Time
}

type PostRepository interface {
	GetPost(slug string) (*Post, error)
	GetAllPosts() ([]Post, error)
	GetPublishedPosts(query PublishedQuery) ([]Post, error)
	GetSourceHashes() (map[string]string, error)
	GetTagCounts(now time.Time) (map[string]int, error)
	GetPostCount() (int, error)
	GetPostStats() (total int, published int, drafts int, err error)

	UpsertPost(post Post) error
	DeleteMissing(keepSlugs []string) (int, error)
}

type LintRepository interface {
	GetIssues() ([]LintIssue, error)
	GetIssuesForSlug(slug string) ([]LintIssue, error)
	GetIssueCounts() (errors int, warnings int, err error)

	ReplaceIssues(issues []LintIssue) error
}
