package content

import (
	"context"
	"errors"
	"sort"
	"time"
)

// ErrNotFound is returned when no post matches a lookup.
var ErrNotFound = errors.New("content: not found")

// Repository is the read side of post storage used by the resolver.
//
// Published returns the posts visible at now, newest first.
// ForSlug narrows Published to posts addressed by slug: when lang is set only
// that language's localized slug is matched, otherwise the canonical slug and
// every localized slug are.
type Repository interface {
	Published(ctx context.Context, now time.Time) ([]Post, error)
	ForSlug(ctx context.Context, now time.Time, slug string, lang Lang) ([]Post, error)
}

// FilterPublished returns the posts in posts that are visible at now,
// preserving order.
func FilterPublished(posts []Post, now time.Time) []Post {
	var out []Post
	for _, p := range posts {
		if p.IsPublished(now) {
			out = append(out, p)
		}
	}
	return out
}

// MatchSlug applies the ForSlug matching rule to an in-memory slice.
func MatchSlug(posts []Post, slug string, lang Lang) []Post {
	var out []Post
	for _, p := range posts {
		if lang != "" {
			if s := p.LocalizedSlug(lang); s != "" && s == slug {
				out = append(out, p)
			}
			continue
		}
		if p.HasSlug(slug) {
			out = append(out, p)
		}
	}
	return out
}

// SortByPublication orders posts by published_at then created_at, both
// descending, with ID descending as the final tie breaker. Posts without a
// publication date sort last.
func SortByPublication(posts []Post) {
	sort.SliceStable(posts, func(i, j int) bool {
		a, b := posts[i], posts[j]
		switch {
		case a.PublishedAt == nil && b.PublishedAt != nil:
			return false
		case a.PublishedAt != nil && b.PublishedAt == nil:
			return true
		case a.PublishedAt != nil && !a.PublishedAt.Equal(*b.PublishedAt):
			return a.PublishedAt.After(*b.PublishedAt)
		}
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.After(b.CreatedAt)
		}
		return a.ID > b.ID
	})
}

// InCategory returns the posts that belong to the category with slug in any language.
func InCategory(posts []Post, slug string) []Post {
	var out []Post
	for _, p := range posts {
		for _, c := range p.Categories {
			if c.Slug == slug || c.hasLocalizedSlug(slug) {
				out = append(out, p)
				break
			}
		}
	}
	return out
}

func (c Category) hasLocalizedSlug(slug string) bool {
	for _, s := range c.Slugs {
		if s != "" && s == slug {
			return true
		}
	}
	return false
}
