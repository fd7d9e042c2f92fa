package content

import (
	"bytes"
	"fmt"
	"regexp"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	gmhtml "github.com/yuin/goldmark/renderer/html"
)

// refPattern matches Hugo-style ref shortcodes: {{< relref "page.md" >}} and
// {{< ref "page.md" >}}.
var refPattern = regexp.MustCompile(`\{\{<\s*(?:rel)?ref\s+"([^"]+)"\s*>\}\}`)

// RefResolver maps a shortcode target, referenced from the given source file,
// to the target post's canonical URL.
type RefResolver func(fromFile, target string) (string, bool)

type Renderer struct {
	md goldmark.Markdown
}

func NewRenderer() *Renderer {
	return &Renderer{
		md: goldmark.New(
			goldmark.WithExtensions(extension.GFM),
			goldmark.WithParserOptions(
				parser.WithAutoHeadingID(),
			),
			goldmark.WithRendererOptions(
				// Articles embed raw HTML (tables, embeds); keep it.
				gmhtml.WithUnsafe(),
			),
		),
	}
}

// Run converts the post body to HTML. Ref shortcodes are resolved first;
// targets the resolver cannot place are returned so the caller can surface
// them, and render as the literal path to keep the break visible.
func (r *Renderer) Run(post *Post, resolve RefResolver) (string, []string, error) {
	var unresolved []string

	markdown := refPattern.ReplaceAllFunc(post.Markdown, func(match []byte) []byte {
		target := string(refPattern.FindSubmatch(match)[1])

		if resolve != nil {
			if url, ok := resolve(post.SourceFile, target); ok {
				return []byte(url)
			}
		}

		unresolved = append(unresolved, target)
		return []byte(target)
	})

	var buf bytes.Buffer
	if err := r.md.Convert(markdown, &buf); err != nil {
		return "", nil, fmt.Errorf("failed to convert markdown: %w", err)
	}

	return buf.String(), unresolved, nil
}

// ExtractRefs returns the ref shortcode targets present in a post body,
// without rendering. Used by the linter for link-integrity checks.
func ExtractRefs(markdown []byte) []string {
	matches := refPattern.FindAllSubmatch(markdown, -1)
	if len(matches) == 0 {
		return nil
	}

	targets := make([]string, 0, len(matches))
	for _, match := range matches {
		targets = append(targets, string(match[1]))
	}
	return targets
}
