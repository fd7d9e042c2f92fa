package content

import (
	"time"
)

// Post is a parsed Markdown source file. The slug is derived from the file
// path and is the post's stable identity; the URL is the served path and may
// be overridden by front matter.
type Post struct {
	Slug       string
	SourceFile string // path relative to the content directory
	SourceHash string // SHA-256 of the raw file bytes

	Title       string
	Date        time.Time
	Draft       bool
	URL         string
	Tags        []string
	Description string
	Keywords    []string
	FAQ         []FAQEntry
	Featured    bool

	Markdown []byte // body with front matter stripped
}

type FAQEntry struct {
	Question string `yaml:"question" json:"question"`
	Answer   string `yaml:"answer" json:"answer"`
}

// Published reports whether the post should appear on the public surface.
// Drafts and future-dated posts are held back.
func (p *Post) Published(now time.Time) bool {
	return !p.Draft && !p.Date.After(now)
}

type LintSeverity string

const (
	LintError   LintSeverity = "error"
	LintWarning LintSeverity = "warning"
)

const (
	LintCodeParseFailure       = "parse_failure"
	LintCodeInvalidFrontMatter = "invalid_front_matter"
	LintCodeDuplicateURL       = "duplicate_url"
	LintCodeBrokenRef          = "broken_ref"
	LintCodeMissingDescription = "missing_description"
)

type LintIssue struct {
	Severity   LintSeverity
	Code       string
	Slug       string
	SourceFile string
	Message    string
}
