package database

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/olegbb/presskit/app/content"
)

type PostRepo struct {
	db *DB
}

var _ PostRepository = (*PostRepo)(nil)

func NewPostRepository(db *DB) *PostRepo {
	return &PostRepo{db: db}
}

const postColumns = `id, slug, source_file, source_hash, title, url, date, draft, featured,
	description, content_html, tags, keywords, faq, created_at, updated_at, synced_at`

// UpsertPost inserts or replaces the rendered snapshot for a post, keyed by
// slug. created_at survives updates.
func (r *PostRepo) UpsertPost(post Post) error {
	tags, err := marshalList(post.Tags)
	if err != nil {
		return fmt.Errorf("failed to encode tags: %w", err)
	}
	keywords, err := marshalList(post.Keywords)
	if err != nil {
		return fmt.Errorf("failed to encode keywords: %w", err)
	}
	faq, err := marshalFAQ(post.FAQ)
	if err != nil {
		return fmt.Errorf("failed to encode faq: %w", err)
	}

	now := time.Now().UTC()

	_, err = r.db.Exec(`
		INSERT INTO posts (
			id, slug, source_file, source_hash, title, url, date, draft, featured,
			description, content_html, tags, keywords, faq, synced_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (slug) DO UPDATE SET
			source_file = excluded.source_file,
			source_hash = excluded.source_hash,
			title = excluded.title,
			url = excluded.url,
			date = excluded.date,
			draft = excluded.draft,
			featured = excluded.featured,
			description = excluded.description,
			content_html = excluded.content_html,
			tags = excluded.tags,
			keywords = excluded.keywords,
			faq = excluded.faq,
			updated_at = excluded.synced_at,
			synced_at = excluded.synced_at
	`, uuid.NewString(), post.Slug, post.SourceFile, post.SourceHash, post.Title, post.URL,
		post.Date.UTC(), post.Draft, post.Featured, post.Description, post.ContentHTML,
		tags, keywords, faq, now)

	if err != nil {
		return fmt.Errorf("failed to upsert post: %w", err)
	}

	return nil
}

func (r *PostRepo) GetPost(slug string) (*Post, error) {
	row := r.db.QueryRow(`
		SELECT `+postColumns+`
		FROM posts
		WHERE slug = ?
	`, slug)

	post, err := scanPost(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get post by slug: %w", err)
	}

	return post, nil
}

func (r *PostRepo) GetAllPosts() ([]Post, error) {
	rows, err := r.db.Query(`
		SELECT ` + postColumns + `
		FROM posts
		ORDER BY date DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to get posts: %w", err)
	}
	defer rows.Close()

	return collectPosts(rows)
}

func (r *PostRepo) GetPublishedPosts(query PublishedQuery) ([]Post, error) {
	sb := strings.Builder{}
	sb.WriteString(`
		SELECT ` + postColumns + `
		FROM posts
		WHERE draft = 0 AND date <= ?
	`)
	args := []interface{}{query.Now.UTC()}

	if query.Tag != "" {
		sb.WriteString(` AND EXISTS (SELECT 1 FROM json_each(posts.tags) WHERE json_each.value = ?)`)
		args = append(args, query.Tag)
	}
	if query.FeaturedOnly {
		sb.WriteString(` AND featured = 1`)
	}

	sb.WriteString(` ORDER BY date DESC`)

	if query.Limit > 0 {
		sb.WriteString(` LIMIT ?`)
		args = append(args, query.Limit)
	}

	rows, err := r.db.Query(sb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to get published posts: %w", err)
	}
	defer rows.Close()

	return collectPosts(rows)
}

// GetSourceHashes returns slug -> source hash for change detection during
// content re-scans.
func (r *PostRepo) GetSourceHashes() (map[string]string, error) {
	rows, err := r.db.Query(`SELECT slug, source_hash FROM posts`)
	if err != nil {
		return nil, fmt.Errorf("failed to get source hashes: %w", err)
	}
	defer rows.Close()

	hashes := make(map[string]string)
	for rows.Next() {
		var slug, hash string
		if err := rows.Scan(&slug, &hash); err != nil {
			return nil, fmt.Errorf("failed to scan source hash row: %w", err)
		}
		hashes[slug] = hash
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating source hash rows: %w", err)
	}

	return hashes, nil
}

func (r *PostRepo) GetTagCounts(now time.Time) (map[string]int, error) {
	rows, err := r.db.Query(`
		SELECT json_each.value, COUNT(*)
		FROM posts, json_each(posts.tags)
		WHERE posts.draft = 0 AND posts.date <= ?
		GROUP BY json_each.value
	`, now.UTC())
	if err != nil {
		return nil, fmt.Errorf("failed to get tag counts: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var tag string
		var count int
		if err := rows.Scan(&tag, &count); err != nil {
			return nil, fmt.Errorf("failed to scan tag row: %w", err)
		}
		counts[tag] = count
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating tag rows: %w", err)
	}

	return counts, nil
}

func (r *PostRepo) GetPostCount() (int, error) {
	var count int
	err := r.db.QueryRow(`SELECT COUNT(*) FROM posts`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to get post count: %w", err)
	}
	return count, nil
}

func (r *PostRepo) GetPostStats() (int, int, int, error) {
	var total, published, drafts int
	err := r.db.QueryRow(`
		SELECT COUNT(*),
		       COALESCE(SUM(CASE WHEN draft = 0 AND date <= ? THEN 1 ELSE 0 END), 0),
		       COALESCE(SUM(CASE WHEN draft = 1 THEN 1 ELSE 0 END), 0)
		FROM posts
	`, time.Now().UTC()).Scan(&total, &published, &drafts)
	if err != nil {
		return 0, 0, 0, fmt.Errorf("failed to get post stats: %w", err)
	}
	return total, published, drafts, nil
}

// DeleteMissing removes posts whose slugs are no longer present in the
// corpus. Returns the number of rows deleted.
func (r *PostRepo) DeleteMissing(keepSlugs []string) (int, error) {
	var result sql.Result
	var err error

	if len(keepSlugs) == 0 {
		result, err = r.db.Exec(`DELETE FROM posts`)
	} else {
		placeholders := strings.Repeat("?,", len(keepSlugs))
		placeholders = placeholders[:len(placeholders)-1]

		args := make([]interface{}, len(keepSlugs))
		for i, slug := range keepSlugs {
			args[i] = slug
		}

		result, err = r.db.Exec(`DELETE FROM posts WHERE slug NOT IN (`+placeholders+`)`, args...)
	}

	if err != nil {
		return 0, fmt.Errorf("failed to delete missing posts: %w", err)
	}

	deleted, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to count deleted posts: %w", err)
	}

	return int(deleted), nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanPost(row rowScanner) (*Post, error) {
	var post Post
	var tags, keywords, faq string

	err := row.Scan(
		&post.ID, &post.Slug, &post.SourceFile, &post.SourceHash, &post.Title, &post.URL,
		&post.Date, &post.Draft, &post.Featured, &post.Description, &post.ContentHTML,
		&tags, &keywords, &faq, &post.CreatedAt, &post.UpdatedAt, &post.SyncedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(tags), &post.Tags); err != nil {
		return nil, fmt.Errorf("failed to decode tags: %w", err)
	}
	if err := json.Unmarshal([]byte(keywords), &post.Keywords); err != nil {
		return nil, fmt.Errorf("failed to decode keywords: %w", err)
	}
	if err := json.Unmarshal([]byte(faq), &post.FAQ); err != nil {
		return nil, fmt.Errorf("failed to decode faq: %w", err)
	}

	return &post, nil
}

func collectPosts(rows *sql.Rows) ([]Post, error) {
	var posts []Post
	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan post row: %w", err)
		}
		posts = append(posts, *post)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating post rows: %w", err)
	}

	return posts, nil
}

func marshalList(values []string) (string, error) {
	if values == nil {
		values = []string{}
	}
	data, err := json.Marshal(values)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func marshalFAQ(entries []content.FAQEntry) (string, error) {
	if entries == nil {
		entries = []content.FAQEntry{}
	}
	data, err := json.Marshal(entries)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
