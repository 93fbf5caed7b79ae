package echofield

import (
	"context"
	"sync"
	"time"

	"github.com/eringen/echofield/content"
)

// PostCache is an in-memory cache of every post and category with a TTL.
// It caches posts regardless of publication and applies the publication
// predicate on each read, so scheduled posts appear on time without an
// invalidation.
type PostCache struct {
	mu         sync.RWMutex
	posts      []content.Post
	categories []content.Category
	fetched    time.Time
	ttl        time.Duration
	store      *Store
}

// NewPostCache creates a PostCache backed by the given Store.
func NewPostCache(s *Store, ttl time.Duration) *PostCache {
	return &PostCache{store: s, ttl: ttl}
}

func (c *PostCache) valid() bool {
	return c.posts != nil && time.Since(c.fetched) < c.ttl
}

// Invalidate clears the cache so the next read triggers a fresh load.
func (c *PostCache) Invalidate() {
	c.mu.Lock()
	c.posts = nil
	c.categories = nil
	c.mu.Unlock()
}

// PostSaved and PostDeleted let the cache act as a store hook.
func (c *PostCache) PostSaved(context.Context, content.Post, string) { c.Invalidate() }
func (c *PostCache) PostDeleted(context.Context, content.Post)       { c.Invalidate() }

func (c *PostCache) load(ctx context.Context) error {
	if c.valid() {
		return nil
	}
	posts, err := c.store.ListAllPosts(ctx)
	if err != nil {
		return err
	}
	cats, err := c.store.ListCategories(ctx)
	if err != nil {
		return err
	}
	if posts == nil {
		posts = []content.Post{}
	}
	c.posts = posts
	c.categories = cats
	c.fetched = time.Now()
	return nil
}

// ensureLoaded returns cached posts and categories after ensuring the cache
// is fresh. It tries a read lock first; only takes a write lock if a reload
// is needed.
func (c *PostCache) ensureLoaded(ctx context.Context) ([]content.Post, []content.Category, error) {
	c.mu.RLock()
	if c.valid() {
		posts, cats := c.posts, c.categories
		c.mu.RUnlock()
		return posts, cats, nil
	}
	c.mu.RUnlock()

	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.load(ctx); err != nil {
		return nil, nil, err
	}
	return c.posts, c.categories, nil
}

// Published returns the posts visible at now, newest first.
func (c *PostCache) Published(ctx context.Context, now time.Time) ([]content.Post, error) {
	posts, _, err := c.ensureLoaded(ctx)
	if err != nil {
		return nil, err
	}
	visible := content.FilterPublished(posts, now)
	content.SortByPublication(visible)
	return visible, nil
}

// ForSlug applies the slug lookup rule to the published posts.
func (c *PostCache) ForSlug(ctx context.Context, now time.Time, slug string, lang content.Lang) ([]content.Post, error) {
	posts, err := c.Published(ctx, now)
	if err != nil {
		return nil, err
	}
	return content.MatchSlug(posts, slug, lang), nil
}

// ListCategories returns all categories ordered by name.
func (c *PostCache) ListCategories(ctx context.Context) ([]content.Category, error) {
	_, cats, err := c.ensureLoaded(ctx)
	return cats, err
}
