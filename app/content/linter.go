package content

import (
	"fmt"
	"sort"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Linter runs the corpus-wide content checks: every file parses and carries
// the required front matter, URLs are unique across the corpus, every ref
// shortcode resolves, and FAQ entries are complete.
type Linter struct{}

func NewLinter() *Linter {
	return &Linter{}
}

func (l *Linter) Run(library *Library) []LintIssue {
	var issues []LintIssue

	issues = append(issues, l.checkParseErrors(library)...)

	posts := library.GetPosts()

	slugs := make([]string, 0, len(posts))
	for slug := range posts {
		slugs = append(slugs, slug)
	}
	sort.Strings(slugs)

	for _, slug := range slugs {
		post := posts[slug]
		issues = append(issues, l.checkFrontMatter(post)...)
		issues = append(issues, l.checkRefs(library, post)...)
	}

	issues = append(issues, l.checkDuplicateURLs(posts, slugs)...)

	return issues
}

func (l *Linter) checkParseErrors(library *Library) []LintIssue {
	parseErrors := library.GetParseErrors()

	files := make([]string, 0, len(parseErrors))
	for file := range parseErrors {
		files = append(files, file)
	}
	sort.Strings(files)

	issues := make([]LintIssue, 0, len(files))
	for _, file := range files {
		issues = append(issues, LintIssue{
			Severity:   LintError,
			Code:       LintCodeParseFailure,
			SourceFile: file,
			Message:    parseErrors[file],
		})
	}
	return issues
}

func (l *Linter) checkFrontMatter(post *Post) []LintIssue {
	var issues []LintIssue

	if err := Validate(post); err != nil {
		issues = append(issues, l.validationIssues(post, err)...)
	}

	if post.Description == "" {
		issues = append(issues, LintIssue{
			Severity:   LintWarning,
			Code:       LintCodeMissingDescription,
			Slug:       post.Slug,
			SourceFile: post.SourceFile,
			Message:    "post has no meta description",
		})
	}

	return issues
}

func (l *Linter) validationIssues(post *Post, err error) []LintIssue {
	fieldErrors, ok := err.(validation.Errors)
	if !ok {
		return []LintIssue{{
			Severity:   LintError,
			Code:       LintCodeInvalidFrontMatter,
			Slug:       post.Slug,
			SourceFile: post.SourceFile,
			Message:    err.Error(),
		}}
	}

	fields := make([]string, 0, len(fieldErrors))
	for field := range fieldErrors {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	issues := make([]LintIssue, 0, len(fields))
	for _, field := range fields {
		issues = append(issues, LintIssue{
			Severity:   LintError,
			Code:       LintCodeInvalidFrontMatter,
			Slug:       post.Slug,
			SourceFile: post.SourceFile,
			Message:    fmt.Sprintf("%s: %s", field, fieldErrors[field].Error()),
		})
	}
	return issues
}

func (l *Linter) checkRefs(library *Library, post *Post) []LintIssue {
	var issues []LintIssue

	for _, target := range ExtractRefs(post.Markdown) {
		if _, ok := library.ResolveRef(post.SourceFile, target); !ok {
			issues = append(issues, LintIssue{
				Severity:   LintError,
				Code:       LintCodeBrokenRef,
				Slug:       post.Slug,
				SourceFile: post.SourceFile,
				Message:    fmt.Sprintf("ref target '%s' does not resolve to a corpus file", target),
			})
		}
	}

	return issues
}

// checkDuplicateURLs flags every post participating in a URL collision, not
// just the later one, so sync order cannot decide which post "wins".
func (l *Linter) checkDuplicateURLs(posts map[string]*Post, slugs []string) []LintIssue {
	byURL := make(map[string][]*Post)
	for _, slug := range slugs {
		post := posts[slug]
		byURL[post.URL] = append(byURL[post.URL], post)
	}

	var issues []LintIssue
	for _, slug := range slugs {
		post := posts[slug]
		if group := byURL[post.URL]; len(group) > 1 {
			issues = append(issues, LintIssue{
				Severity:   LintError,
				Code:       LintCodeDuplicateURL,
				Slug:       post.Slug,
				SourceFile: post.SourceFile,
				Message:    fmt.Sprintf("url '%s' is shared by %d posts", post.URL, len(group)),
			})
		}
	}

	return issues
}
