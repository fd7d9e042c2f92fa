package rss

import (
	"bytes"
	"cmp"
	"encoding/xml"
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/olegbb/presskit/app/cfg"
	"github.com/olegbb/presskit/app/database"
	"github.com/olegbb/presskit/app/site"
)

type Generator struct{}

func NewGenerator() *Generator {
	return &Generator{}
}

// Run renders the published posts as an RSS 2.0 document. Post URLs are
// site-relative; they are joined to the configured base URL here so the feed
// carries absolute links.
func (g *Generator) Run(siteConfig *site.Config, posts []database.Post) (string, error) {
	var buf bytes.Buffer

	buf.WriteString(`<?xml version="1.0" encoding="UTF-8"?>`)
	buf.WriteString("\n")
	buf.WriteString(`<rss version="2.0" xmlns:content="http://purl.org/rss/1.0/modules/content/" xmlns:atom="http://www.w3.org/2005/Atom">`)
	buf.WriteString("\n  <channel>\n")

	base := g.baseURL(siteConfig)

	g.writeElement(&buf, "title", siteConfig.Title, 4)
	g.writeElement(&buf, "link", base, 4)
	description := siteConfig.Description
	if description == "" {
		description = fmt.Sprintf("Articles from %s", siteConfig.Title)
	}
	g.writeElement(&buf, "description", description, 4)

	selfLink := base + "/feed.xml"
	buf.WriteString(fmt.Sprintf("    <atom:link href=\"%s\" rel=\"self\" type=\"application/rss+xml\" />\n",
		html.EscapeString(selfLink)))

	lastBuildDate := time.Now().In(time.Local)
	if len(posts) > 0 {
		lastBuildDate = posts[0].Date
	}

	g.writeElement(&buf, "lastBuildDate", lastBuildDate.Format(time.RFC1123Z), 4)
	g.writeElement(&buf, "generator", fmt.Sprintf("Presskit/%s", cfg.Get().Version), 4)
	if siteConfig.Language != "" {
		g.writeElement(&buf, "language", siteConfig.Language, 4)
	}

	for _, post := range posts {
		g.writeItem(&buf, base, post)
	}

	buf.WriteString("  </channel>\n</rss>")

	return buf.String(), nil
}

func (g *Generator) writeItem(buf *bytes.Buffer, base string, post database.Post) {
	buf.WriteString("    <item>\n")

	link := base + post.URL

	buf.WriteString(`      <guid isPermaLink="true">`)
	xml.EscapeText(buf, []byte(link))
	buf.WriteString("</guid>\n")

	g.writeElement(buf, "title", post.Title, 6)
	g.writeElement(buf, "link", link, 6)
	g.writeElement(buf, "description", cmp.Or(post.Description, "No description available"), 6)

	if post.ContentHTML != "" {
		buf.WriteString("      <content:encoded><![CDATA[")
		// A literal "]]>" in the HTML would terminate the CDATA section early
		buf.WriteString(strings.ReplaceAll(post.ContentHTML, "]]>", "]]]]><![CDATA[>"))
		buf.WriteString("]]></content:encoded>\n")
	}

	g.writeElement(buf, "pubDate", post.Date.Format(time.RFC1123Z), 6)

	for _, tag := range post.Tags {
		if tag != "" {
			g.writeElement(buf, "category", tag, 6)
		}
	}

	buf.WriteString("    </item>\n")
}

func (g *Generator) baseURL(siteConfig *site.Config) string {
	base := cmp.Or(cfg.Get().BaseUrl, siteConfig.BaseUrl)
	if base == "" {
		base = fmt.Sprintf("http://localhost:%s", cfg.Get().Port)
	}
	return strings.TrimSuffix(base, "/")
}

func (g *Generator) writeElement(buf *bytes.Buffer, tag, content string, indent int) {
	if content == "" {
		return
	}

	for i := 0; i < indent; i++ {
		buf.WriteByte(' ')
	}

	buf.WriteString("<")
	buf.WriteString(tag)
	buf.WriteString(">")
	xml.EscapeText(buf, []byte(content))
	buf.WriteString("</")
	buf.WriteString(tag)
	buf.WriteString(">\n")
}
