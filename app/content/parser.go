package content

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/adrg/frontmatter"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// dateFormats lists accepted front-matter date layouts, most specific first.
// The corpus uses ISO-8601 with offset; the date-only form is a common
// shorthand in hand-edited files.
var dateFormats = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

type rawMeta struct {
	Title       string     `yaml:"title"`
	Date        string     `yaml:"date"`
	Draft       bool       `yaml:"draft"`
	URL         string     `yaml:"url"`
	Tags        []string   `yaml:"tags"`
	Description string     `yaml:"description"`
	Keywords    []string   `yaml:"keywords"`
	FAQ         []FAQEntry `yaml:"faq"`
	Featured    bool       `yaml:"featured"`
}

type Parser struct {
	titleCaser cases.Caser
}

func NewParser() *Parser {
	return &Parser{
		titleCaser: cases.Title(language.English),
	}
}

// Run parses one Markdown source file. relPath is the file's path relative
// to the content directory, using forward slashes.
func (p *Parser) Run(relPath string, data []byte) (*Post, error) {
	var meta rawMeta
	body, err := frontmatter.Parse(bytes.NewReader(data), &meta)
	if err != nil {
		return nil, fmt.Errorf("failed to parse front matter: %w", err)
	}

	post := &Post{
		Slug:        SlugFromPath(relPath),
		SourceFile:  relPath,
		SourceHash:  hashSource(data),
		Title:       meta.Title,
		Draft:       meta.Draft,
		URL:         meta.URL,
		Tags:        meta.Tags,
		Description: meta.Description,
		Keywords:    meta.Keywords,
		FAQ:         meta.FAQ,
		Featured:    meta.Featured,
		Markdown:    body,
	}

	if meta.Date != "" {
		date, err := parseDate(meta.Date)
		if err != nil {
			return nil, fmt.Errorf("failed to parse date %q: %w", meta.Date, err)
		}
		post.Date = date
	}

	if post.Title == "" {
		post.Title = p.titleFromPath(relPath)
	}

	// Front-matter url is the canonical path and overrides the path-derived
	// default.
	if post.URL == "" {
		post.URL = DefaultURL(relPath)
	}

	return post, nil
}

func parseDate(value string) (time.Time, error) {
	for _, format := range dateFormats {
		if date, err := time.Parse(format, value); err == nil {
			return date, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date format")
}

func hashSource(data []byte) string {
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}

// SlugFromPath derives the post's stable identity from its source path:
// "laravel/sanctum-auth.md" becomes "laravel-sanctum-auth".
func SlugFromPath(relPath string) string {
	trimmed := strings.TrimSuffix(relPath, path.Ext(relPath))
	trimmed = strings.ToLower(trimmed)

	replacer := strings.NewReplacer("/", "-", " ", "-", "_", "-")
	slug := replacer.Replace(trimmed)

	for strings.Contains(slug, "--") {
		slug = strings.ReplaceAll(slug, "--", "-")
	}

	return strings.Trim(slug, "-")
}

// DefaultURL derives the served path from the source path when front matter
// does not set one: "laravel/sanctum-auth.md" becomes "/laravel/sanctum-auth/".
func DefaultURL(relPath string) string {
	trimmed := strings.TrimSuffix(relPath, path.Ext(relPath))
	return "/" + trimmed + "/"
}

func (p *Parser) titleFromPath(relPath string) string {
	base := path.Base(relPath)
	base = strings.TrimSuffix(base, path.Ext(base))
	base = strings.ReplaceAll(base, "-", " ")
	base = strings.ReplaceAll(base, "_", " ")
	return p.titleCaser.String(base)
}
