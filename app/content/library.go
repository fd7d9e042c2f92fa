package content

import (
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"
)

// Library scans the content directory and caches the parsed posts, keyed by
// slug. Files that fail to parse are kept separately so the linter can report
// them instead of the scan aborting.
type Library struct {
	contentDir string
	parser     *Parser

	mu          sync.RWMutex
	posts       map[string]*Post  // slug     -> post
	byFile      map[string]*Post  // rel path -> post
	parseErrors map[string]string // rel path -> error message
}

func NewLibrary(contentDir string) *Library {
	return &Library{
		contentDir:  contentDir,
		parser:      NewParser(),
		posts:       make(map[string]*Post),
		byFile:      make(map[string]*Post),
		parseErrors: make(map[string]string),
	}
}

// Run re-scans the content directory, replacing the cached corpus. Posts whose
// source files disappeared drop out of the cache.
func (l *Library) Run() error {
	if _, err := os.Stat(l.contentDir); os.IsNotExist(err) {
		return nil
	}

	posts := make(map[string]*Post)
	byFile := make(map[string]*Post)
	parseErrors := make(map[string]string)

	err := filepath.WalkDir(l.contentDir, func(p string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if d.IsDir() || !strings.HasSuffix(strings.ToLower(d.Name()), ".md") {
			return nil
		}

		rel, err := filepath.Rel(l.contentDir, p)
		if err != nil {
			return fmt.Errorf("failed to resolve relative path for %s: %w", p, err)
		}
		relPath := filepath.ToSlash(rel)

		data, err := os.ReadFile(p)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", relPath, err)
		}

		post, err := l.parser.Run(relPath, data)
		if err != nil {
			parseErrors[relPath] = err.Error()
			slog.Warn("Post failed to parse", "file", relPath, "error", err)
			return nil
		}

		posts[post.Slug] = post
		byFile[post.SourceFile] = post
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to scan content directory: %w", err)
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	l.posts = posts
	l.byFile = byFile
	l.parseErrors = parseErrors

	return nil
}

func (l *Library) GetPost(slug string) (*Post, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	post, ok := l.posts[slug]
	if !ok {
		return nil, fmt.Errorf("post with slug '%s' not found", slug)
	}
	return post, nil
}

func (l *Library) GetPosts() map[string]*Post {
	l.mu.RLock()
	defer l.mu.RUnlock()

	postsCopy := make(map[string]*Post, len(l.posts))
	for k, v := range l.posts {
		postsCopy[k] = v
	}
	return postsCopy
}

// GetPublishedPosts returns publishable posts ordered by date, newest first.
func (l *Library) GetPublishedPosts(now time.Time) []*Post {
	l.mu.RLock()
	defer l.mu.RUnlock()

	published := make([]*Post, 0, len(l.posts))
	for _, post := range l.posts {
		if post.Published(now) {
			published = append(published, post)
		}
	}

	sort.Slice(published, func(i, j int) bool {
		return published[i].Date.After(published[j].Date)
	})

	return published
}

func (l *Library) GetPostCount() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.posts)
}

func (l *Library) GetParseErrors() map[string]string {
	l.mu.RLock()
	defer l.mu.RUnlock()

	errorsCopy := make(map[string]string, len(l.parseErrors))
	for k, v := range l.parseErrors {
		errorsCopy[k] = v
	}
	return errorsCopy
}

// ResolveRef implements RefResolver against the cached corpus. Hugo resolves
// ref targets relative to the referencing page first, then from the content
// root; a leading slash anchors the target at the content root only.
func (l *Library) ResolveRef(fromFile, target string) (string, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if strings.HasPrefix(target, "/") {
		post, ok := l.byFile[strings.TrimPrefix(path.Clean(target), "/")]
		if !ok {
			return "", false
		}
		return post.URL, true
	}

	candidates := []string{
		path.Join(path.Dir(fromFile), target),
		path.Clean(target),
	}

	for _, candidate := range candidates {
		if post, ok := l.byFile[candidate]; ok {
			return post.URL, true
		}
	}

	return "", false
}
