package content

import (
	"strings"
	"testing"
)

func TestRenderMarkdown(t *testing.T) {
	renderer := NewRenderer()
	post := &Post{
		SourceFile: "test.md",
		Markdown:   []byte("# Heading\n\nSome **bold** text.\n"),
	}

	html, unresolved, err := renderer.Run(post, nil)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	if !strings.Contains(html, "<h1") {
		t.Errorf("Expected rendered heading, got: %s", html)
	}
	if !strings.Contains(html, "<strong>bold</strong>") {
		t.Errorf("Expected bold text, got: %s", html)
	}
	if len(unresolved) != 0 {
		t.Errorf("Expected no unresolved refs, got: %v", unresolved)
	}
}

func TestRenderGFMTable(t *testing.T) {
	renderer := NewRenderer()
	post := &Post{
		SourceFile: "test.md",
		Markdown:   []byte("| Field | Type |\n|---|---|\n| title | string |\n"),
	}

	html, _, err := renderer.Run(post, nil)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	if !strings.Contains(html, "<table>") {
		t.Errorf("Expected GFM table to render, got: %s", html)
	}
}

func TestRenderRawHTMLPreserved(t *testing.T) {
	renderer := NewRenderer()
	post := &Post{
		SourceFile: "test.md",
		Markdown:   []byte("Text.\n\n<div class=\"note\">Careful!</div>\n"),
	}

	html, _, err := renderer.Run(post, nil)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	if !strings.Contains(html, `<div class="note">`) {
		t.Errorf("Expected raw HTML to be preserved, got: %s", html)
	}
}

func TestRenderResolvesRefs(t *testing.T) {
	renderer := NewRenderer()
	post := &Post{
		SourceFile: "guides/sanctum.md",
		Markdown:   []byte(`See [the sessions guide]({{< relref "sessions.md" >}}) for details.`),
	}

	resolver := func(fromFile, target string) (string, bool) {
		if fromFile != "guides/sanctum.md" {
			t.Errorf("Unexpected fromFile: %s", fromFile)
		}
		if target == "sessions.md" {
			return "/guides/sessions/", true
		}
		return "", false
	}

	html, unresolved, err := renderer.Run(post, resolver)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	if !strings.Contains(html, `href="/guides/sessions/"`) {
		t.Errorf("Expected resolved link, got: %s", html)
	}
	if len(unresolved) != 0 {
		t.Errorf("Expected no unresolved refs, got: %v", unresolved)
	}
}

func TestRenderUnresolvedRef(t *testing.T) {
	renderer := NewRenderer()
	post := &Post{
		SourceFile: "guides/sanctum.md",
		Markdown:   []byte(`See [missing]({{< relref "gone.md" >}}).`),
	}

	resolver := func(fromFile, target string) (string, bool) {
		return "", false
	}

	html, unresolved, err := renderer.Run(post, resolver)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	if len(unresolved) != 1 || unresolved[0] != "gone.md" {
		t.Errorf("Expected one unresolved ref 'gone.md', got: %v", unresolved)
	}
	// The literal path stays in the output so the break is visible
	if !strings.Contains(html, `href="gone.md"`) {
		t.Errorf("Expected literal target in output, got: %s", html)
	}
}

func TestRenderRefShortcodeVariants(t *testing.T) {
	renderer := NewRenderer()
	post := &Post{
		SourceFile: "a.md",
		Markdown:   []byte(`First {{< relref "b.md" >}} then {{<ref "c.md">}} and {{<  relref  "d.md"  >}}.`),
	}

	seen := map[string]bool{}
	resolver := func(fromFile, target string) (string, bool) {
		seen[target] = true
		return "/" + strings.TrimSuffix(target, ".md") + "/", true
	}

	if _, _, err := renderer.Run(post, resolver); err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	for _, target := range []string{"b.md", "c.md", "d.md"} {
		if !seen[target] {
			t.Errorf("Expected resolver to see target %q", target)
		}
	}
}

func TestExtractRefs(t *testing.T) {
	markdown := []byte(`One {{< relref "a.md" >}} two {{< ref "b/c.md" >}} none here.`)

	targets := ExtractRefs(markdown)
	if len(targets) != 2 {
		t.Fatalf("Expected 2 targets, got %d", len(targets))
	}
	if targets[0] != "a.md" || targets[1] != "b/c.md" {
		t.Errorf("Unexpected targets: %v", targets)
	}

	if got := ExtractRefs([]byte("no shortcodes")); got != nil {
		t.Errorf("Expected nil for no shortcodes, got: %v", got)
	}
}
