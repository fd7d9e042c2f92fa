package rss

import (
	"os"
	"strings"
	"testing"
	"time"

	"github.com/mmcdole/gofeed"

	"github.com/olegbb/presskit/app/cfg"
	"github.com/olegbb/presskit/app/database"
	"github.com/olegbb/presskit/app/site"
)

func setupTestConfig() {
	// Clear os.Args to prevent config parsing from failing
	oldArgs := os.Args
	os.Args = []string{"test"}
	defer func() { os.Args = oldArgs }()

	if os.Getenv("PORT") == "" {
		os.Setenv("PORT", "8080")
	}

	cfg.Load()
}

func testSiteConfig() *site.Config {
	return &site.Config{
		Title:       "Laravel Daily",
		Description: "Practical Laravel tutorials",
		Language:    "en",
		BaseUrl:     "https://blog.example.com",
	}
}

func testPosts() []database.Post {
	return []database.Post{
		{
			Slug:        "laravel-sanctum",
			Title:       "Laravel Sanctum in Practice",
			URL:         "/laravel-sanctum/",
			Date:        time.Date(2023, 7, 3, 10, 0, 0, 0, time.UTC),
			Description: "Token authentication for SPAs.",
			ContentHTML: "<p>Sanctum issues <strong>API tokens</strong>.</p>",
			Tags:        []string{"laravel", "auth"},
		},
		{
			Slug:  "queues",
			Title: "Queues & Workers",
			URL:   "/queues/",
			Date:  time.Date(2023, 7, 1, 12, 0, 0, 0, time.UTC),
		},
	}
}

func TestGenerateRSS(t *testing.T) {
	setupTestConfig()
	generator := NewGenerator()

	output, err := generator.Run(testSiteConfig(), testPosts())
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	if !strings.HasPrefix(output, `<?xml version="1.0" encoding="UTF-8"?>`) {
		t.Error("Expected XML declaration at start of output")
	}
	if !strings.Contains(output, `<rss version="2.0"`) {
		t.Error("Expected RSS 2.0 root element")
	}
	if !strings.Contains(output, `<atom:link href="https://blog.example.com/feed.xml" rel="self" type="application/rss+xml" />`) {
		t.Error("Expected self-referencing atom:link")
	}
	if !strings.Contains(output, "<guid isPermaLink=\"true\">https://blog.example.com/laravel-sanctum/</guid>") {
		t.Error("Expected permalink guid with absolute URL")
	}
	if !strings.Contains(output, "<content:encoded><![CDATA[<p>Sanctum issues <strong>API tokens</strong>.</p>]]></content:encoded>") {
		t.Error("Expected CDATA-wrapped content:encoded")
	}
	if !strings.Contains(output, "<title>Queues &amp; Workers</title>") {
		t.Error("Expected XML-escaped item title")
	}
	if !strings.Contains(output, "<description>No description available</description>") {
		t.Error("Expected description fallback for post without one")
	}
}

func TestGenerateRSSRoundTrip(t *testing.T) {
	setupTestConfig()
	generator := NewGenerator()

	output, err := generator.Run(testSiteConfig(), testPosts())
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	parsed, err := gofeed.NewParser().ParseString(output)
	if err != nil {
		t.Fatalf("Generated feed failed to parse: %v", err)
	}

	if parsed.Title != "Laravel Daily" {
		t.Errorf("Unexpected channel title: %s", parsed.Title)
	}
	if parsed.Description != "Practical Laravel tutorials" {
		t.Errorf("Unexpected channel description: %s", parsed.Description)
	}
	if parsed.Language != "en" {
		t.Errorf("Unexpected language: %s", parsed.Language)
	}

	if len(parsed.Items) != 2 {
		t.Fatalf("Expected 2 items, got %d", len(parsed.Items))
	}

	first := parsed.Items[0]
	if first.Title != "Laravel Sanctum in Practice" {
		t.Errorf("Unexpected item title: %s", first.Title)
	}
	if first.Link != "https://blog.example.com/laravel-sanctum/" {
		t.Errorf("Unexpected item link: %s", first.Link)
	}
	if first.PublishedParsed == nil || !first.PublishedParsed.Equal(time.Date(2023, 7, 3, 10, 0, 0, 0, time.UTC)) {
		t.Errorf("Unexpected pubDate: %v", first.PublishedParsed)
	}
	if len(first.Categories) != 2 {
		t.Errorf("Expected 2 categories, got %v", first.Categories)
	}
	if !strings.Contains(first.Content, "<strong>API tokens</strong>") {
		t.Errorf("Expected content:encoded HTML preserved, got: %s", first.Content)
	}
}

func TestGenerateRSSContentWithCDATATerminator(t *testing.T) {
	setupTestConfig()
	generator := NewGenerator()

	posts := testPosts()[:1]
	posts[0].ContentHTML = "<p>Matching <code>]]></code> in regex input.</p>"

	output, err := generator.Run(testSiteConfig(), posts)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	parsed, err := gofeed.NewParser().ParseString(output)
	if err != nil {
		t.Fatalf("Feed with ']]>' in content failed to parse: %v", err)
	}

	if !strings.Contains(parsed.Items[0].Content, "]]>") {
		t.Errorf("Expected ']]>' preserved in content, got: %s", parsed.Items[0].Content)
	}
}

func TestGenerateRSSEmptyCorpus(t *testing.T) {
	setupTestConfig()
	generator := NewGenerator()

	output, err := generator.Run(testSiteConfig(), nil)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	if strings.Contains(output, "<item>") {
		t.Error("Expected no items for an empty corpus")
	}
	if !strings.Contains(output, "<title>Laravel Daily</title>") {
		t.Error("Expected channel title even without posts")
	}
}

func TestGenerateRSSBaseURLFallback(t *testing.T) {
	setupTestConfig()
	generator := NewGenerator()

	siteConfig := testSiteConfig()
	siteConfig.BaseUrl = ""

	output, err := generator.Run(siteConfig, testPosts())
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	if !strings.Contains(output, "<link>http://localhost:8080</link>") {
		t.Error("Expected localhost fallback when no base URL is configured")
	}
}
