package content

import (
	"context"
	"time"
)

// Outcome is what the detail page should do with a requested slug.
type Outcome int

const (
	NotFound Outcome = iota
	Serve
	Redirect
)

func (o Outcome) String() string {
	switch o {
	case Serve:
		return "serve"
	case Redirect:
		return "redirect"
	default:
		return "not-found"
	}
}

// Resolution is the result of Resolver.Resolve. For Redirect, Slug is the
// canonical slug to send the client to with a permanent redirect.
type Resolution struct {
	Outcome Outcome
	Post    Post
	Slug    string
}

// Resolver maps a requested slug and active language to a post.
type Resolver struct {
	repo Repository
	now  func() time.Time
}

// NewResolver returns a Resolver reading from repo. A nil clock means time.Now.
func NewResolver(repo Repository, clock func() time.Time) *Resolver {
	if clock == nil {
		clock = time.Now
	}
	return &Resolver{repo: repo, now: clock}
}

// Published lists the posts visible now, newest first.
func (r *Resolver) Published(ctx context.Context) ([]Post, error) {
	return r.repo.Published(ctx, r.now())
}

// Resolve looks slug up in the active language first, then across every
// language. A match whose canonical form for active differs from slug yields
// a Redirect. Only genuine absence yields NotFound; err is reserved for
// storage failures.
func (r *Resolver) Resolve(ctx context.Context, slug string, active Lang) (Resolution, error) {
	now := r.now()

	exact, err := r.repo.ForSlug(ctx, now, slug, active)
	if err != nil {
		return Resolution{}, err
	}
	if len(exact) > 0 {
		post := exact[0]
		canonical := post.SlugFor(active)
		if slug != canonical {
			return Resolution{Outcome: Redirect, Post: post, Slug: canonical}, nil
		}
		return Resolution{Outcome: Serve, Post: post, Slug: canonical}, nil
	}

	cross, err := r.repo.ForSlug(ctx, now, slug, "")
	if err != nil {
		return Resolution{}, err
	}
	if len(cross) > 0 {
		post := cross[0]
		canonical := post.SlugFor(active)
		if canonical == slug {
			// The canonical slug itself, requested in a language with no
			// localized slug of its own.
			return Resolution{Outcome: Serve, Post: post, Slug: canonical}, nil
		}
		return Resolution{Outcome: Redirect, Post: post, Slug: canonical}, nil
	}

	return Resolution{Outcome: NotFound}, nil
}
