package api

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/olegbb/presskit/app/content"
	"github.com/olegbb/presskit/app/database"
	"github.com/olegbb/presskit/app/rss"
	"github.com/olegbb/presskit/app/site"
	"github.com/olegbb/presskit/app/tasks"
)

func NewHandler(postRepo database.PostRepository, lintRepo database.LintRepository,
	library *content.Library, renderer *content.Renderer, siteConfig *site.Config,
	scheduler tasks.TaskSchedulerInterface) *Handler {
	return &Handler{
		postRepo:   postRepo,
		lintRepo:   lintRepo,
		library:    library,
		renderer:   renderer,
		generator:  rss.NewGenerator(),
		siteConfig: siteConfig,
		scheduler:  scheduler,
	}
}

func published(post *database.Post, now time.Time) bool {
	return !post.Draft && !post.Date.After(now)
}

func postSummary(post database.Post) map[string]interface{} {
	return map[string]interface{}{
		"slug":        post.Slug,
		"title":       post.Title,
		"url":         post.URL,
		"date":        post.Date.Format(time.RFC3339),
		"tags":        post.Tags,
		"description": post.Description,
		"featured":    post.Featured,
	}
}

func (h *Handler) ListPosts(c *gin.Context) {
	query := database.PublishedQuery{
		Tag:          c.Query("tag"),
		FeaturedOnly: c.Query("featured") == "true",
		Now:          time.Now(),
	}

	if limitParam := c.Query("limit"); limitParam != "" {
		limit, err := strconv.Atoi(limitParam)
		if err != nil || limit < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid limit parameter"})
			return
		}
		query.Limit = limit
	}

	posts, err := h.postRepo.GetPublishedPosts(query)
	if err != nil {
		slog.Error("Database error", "operation", "get_published_posts", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	summaries := make([]map[string]interface{}, 0, len(posts))
	for _, post := range posts {
		summaries = append(summaries, postSummary(post))
	}

	c.JSON(http.StatusOK, gin.H{
		"posts": summaries,
		"total": len(summaries),
	})
}

func (h *Handler) GetPost(c *gin.Context) {
	slug := c.Param("slug")
	if slug == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing post slug"})
		return
	}

	post, err := h.postRepo.GetPost(slug)
	if err != nil {
		slog.Error("Database error", "operation", "get_post", "slug", slug, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	// Drafts and future-dated posts stay off the public surface.
	if post == nil || !published(post, time.Now()) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Post not found"})
		return
	}

	response := postSummary(*post)
	response["keywords"] = post.Keywords
	response["faq"] = post.FAQ
	response["html"] = post.ContentHTML

	c.JSON(http.StatusOK, response)
}

func (h *Handler) ListTags(c *gin.Context) {
	counts, err := h.postRepo.GetTagCounts(time.Now())
	if err != nil {
		slog.Error("Database error", "operation", "get_tag_counts", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"tags":  counts,
		"total": len(counts),
	})
}

func (h *Handler) GetFeed(c *gin.Context) {
	posts, err := h.postRepo.GetPublishedPosts(database.PublishedQuery{
		Limit: 50,
		Now:   time.Now(),
	})
	if err != nil {
		slog.Error("Database error", "operation", "get_published_posts", "error", err)
		c.Status(http.StatusInternalServerError)
		return
	}

	feed, err := h.generator.Run(h.siteConfig, posts)
	if err != nil {
		slog.Error("RSS generation error", "error", err)
		c.Status(http.StatusInternalServerError)
		return
	}

	c.Header("Content-Type", "application/rss+xml; charset=utf-8")
	c.Header("X-Feed-Items", strconv.Itoa(len(posts)))
	c.String(http.StatusOK, feed)
}

func (h *Handler) GetHealth(c *gin.Context) {
	health := map[string]interface{}{
		"timestamp": time.Now().In(time.Local).Format(time.RFC3339),
	}

	if postCount, err := h.postRepo.GetPostCount(); err == nil {
		health["posts"] = postCount
	}

	health["loaded_posts"] = h.library.GetPostCount()

	c.JSON(http.StatusOK, health)
}

func (h *Handler) GetStats(c *gin.Context) {
	stats := map[string]interface{}{
		"loaded_posts": h.library.GetPostCount(),
		"parse_errors": len(h.library.GetParseErrors()),
	}

	if total, publishedCount, drafts, err := h.postRepo.GetPostStats(); err == nil {
		stats["posts"] = map[string]interface{}{
			"total":     total,
			"published": publishedCount,
			"drafts":    drafts,
		}
	}

	if errorCount, warningCount, err := h.lintRepo.GetIssueCounts(); err == nil {
		stats["lint"] = map[string]interface{}{
			"errors":   errorCount,
			"warnings": warningCount,
		}
	}

	c.JSON(http.StatusOK, stats)
}

func (h *Handler) APIListPosts(c *gin.Context) {
	posts, err := h.postRepo.GetAllPosts()
	if err != nil {
		slog.Error("Database error", "operation", "get_all_posts", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	now := time.Now()
	summaries := make([]map[string]interface{}, 0, len(posts))
	for _, post := range posts {
		summary := postSummary(post)
		summary["draft"] = post.Draft
		summary["published"] = published(&post, now)
		summary["source_file"] = post.SourceFile
		summaries = append(summaries, summary)
	}

	c.JSON(http.StatusOK, gin.H{
		"posts": summaries,
		"total": len(summaries),
	})
}

func (h *Handler) APIGetPostDetails(c *gin.Context) {
	slug := c.Param("slug")
	if slug == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing post slug"})
		return
	}

	post, err := h.postRepo.GetPost(slug)
	if err != nil {
		slog.Error("Database error", "operation", "get_post", "slug", slug, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	if post == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Post not found in database"})
		return
	}

	details := map[string]interface{}{
		"slug":        post.Slug,
		"title":       post.Title,
		"url":         post.URL,
		"date":        post.Date.Format(time.RFC3339),
		"draft":       post.Draft,
		"featured":    post.Featured,
		"tags":        post.Tags,
		"keywords":    post.Keywords,
		"description": post.Description,
		"faq":         post.FAQ,
		"source": map[string]interface{}{
			"file":      post.SourceFile,
			"hash":      post.SourceHash,
			"synced_at": post.SyncedAt,
		},
		"created_at": post.CreatedAt,
		"updated_at": post.UpdatedAt,
	}

	if issues, err := h.lintRepo.GetIssuesForSlug(slug); err == nil {
		details["lint_issues"] = issues
	}

	c.JSON(http.StatusOK, details)
}

func (h *Handler) APIResyncPost(c *gin.Context) {
	slug := c.Param("slug")
	if slug == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing post slug"})
		return
	}

	post, err := h.library.GetPost(slug)
	if err != nil {
		slog.Error("Post not found in content directory", "slug", slug, "error", err)
		c.JSON(http.StatusNotFound, gin.H{"error": "Post not found in content directory"})
		return
	}

	syncTask := tasks.NewSyncPostTask(post, h.library, h.renderer, h.postRepo)
	if err := h.scheduler.EnqueueTask(syncTask); err != nil {
		slog.Error("Error enqueueing sync task", "slug", slug, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to enqueue sync task",
			"details": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Sync task enqueued successfully",
		"post": gin.H{
			"slug":  slug,
			"title": post.Title,
			"url":   post.URL,
		},
		"task": gin.H{
			"id":   syncTask.ID,
			"type": syncTask.Type,
		},
	})
}

func (h *Handler) APIGetLint(c *gin.Context) {
	issues, err := h.lintRepo.GetIssues()
	if err != nil {
		slog.Error("Database error", "operation", "get_lint_issues", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	errorCount := 0
	warningCount := 0
	for _, issue := range issues {
		if issue.Severity == string(content.LintError) {
			errorCount++
		} else {
			warningCount++
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"issues":   issues,
		"errors":   errorCount,
		"warnings": warningCount,
		"total":    len(issues),
	})
}

func (h *Handler) APIRelint(c *gin.Context) {
	lintTask := tasks.NewLintCorpusTask(h.library, content.NewLinter(), h.postRepo, h.lintRepo)
	if err := h.scheduler.EnqueueTask(lintTask); err != nil {
		slog.Error("Error enqueueing lint task", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to enqueue lint task",
			"details": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Lint task enqueued successfully",
		"task": gin.H{
			"id":   lintTask.ID,
			"type": lintTask.Type,
		},
	})
}
