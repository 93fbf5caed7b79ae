package content

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryRepo struct {
	posts []Post
	err   error
}

func (m *memoryRepo) Published(_ context.Context, now time.Time) ([]Post, error) {
	if m.err != nil {
		return nil, m.err
	}
	posts := FilterPublished(m.posts, now)
	SortByPublication(posts)
	return posts, nil
}

func (m *memoryRepo) ForSlug(ctx context.Context, now time.Time, slug string, lang Lang) ([]Post, error) {
	posts, err := m.Published(ctx, now)
	if err != nil {
		return nil, err
	}
	return MatchSlug(posts, slug, lang), nil
}

var refNow = time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)

func at(t time.Time) *time.Time { return &t }

func localizedPost(id int64, slug, en, uk string, published *time.Time) Post {
	p := Post{ID: id, Slug: slug, Title: slug, PublishedAt: published, CreatedAt: refNow.Add(-48 * time.Hour)}
	if en != "" {
		p.SetLocalized(English, Localized{Slug: en})
	}
	if uk != "" {
		p.SetLocalized(Ukrainian, Localized{Slug: uk})
	}
	return p
}

func newTestResolver(posts ...Post) *Resolver {
	return NewResolver(&memoryRepo{posts: posts}, func() time.Time { return refNow })
}

func TestResolveServesCanonicalLocalizedSlug(t *testing.T) {
	post := localizedPost(1, "base", "hello-en", "hello-uk", at(refNow.Add(-24*time.Hour)))
	r := newTestResolver(post)

	res, err := r.Resolve(context.Background(), "hello-en", English)
	require.NoError(t, err)
	assert.Equal(t, Serve, res.Outcome)
	assert.Equal(t, int64(1), res.Post.ID)
}

func TestResolveRedirectsCrossLanguageSlug(t *testing.T) {
	post := localizedPost(1, "base", "hello-en", "hello-uk", at(refNow.Add(-24*time.Hour)))
	r := newTestResolver(post)

	res, err := r.Resolve(context.Background(), "hello-uk", English)
	require.NoError(t, err)
	assert.Equal(t, Redirect, res.Outcome)
	assert.Equal(t, "hello-en", res.Slug)

	res, err = r.Resolve(context.Background(), "hello-en", Ukrainian)
	require.NoError(t, err)
	assert.Equal(t, Redirect, res.Outcome)
	assert.Equal(t, "hello-uk", res.Slug)
}

func TestResolveRedirectsCanonicalSlugToLocalized(t *testing.T) {
	post := localizedPost(1, "base", "hello-en", "", at(refNow.Add(-time.Hour)))
	r := newTestResolver(post)

	res, err := r.Resolve(context.Background(), "base", English)
	require.NoError(t, err)
	assert.Equal(t, Redirect, res.Outcome)
	assert.Equal(t, "hello-en", res.Slug)
}

func TestResolveFallsBackToCanonicalSlug(t *testing.T) {
	post := localizedPost(1, "base", "hello-en", "", at(refNow.Add(-time.Hour)))
	r := newTestResolver(post)

	// No Ukrainian slug: the English one redirects to the canonical slug,
	// which is then served without a redirect loop.
	res, err := r.Resolve(context.Background(), "hello-en", Ukrainian)
	require.NoError(t, err)
	assert.Equal(t, Redirect, res.Outcome)
	assert.Equal(t, "base", res.Slug)

	res, err = r.Resolve(context.Background(), "base", Ukrainian)
	require.NoError(t, err)
	assert.Equal(t, Serve, res.Outcome)
}

func TestResolveFuturePostIsNotFound(t *testing.T) {
	post := localizedPost(1, "future-base", "future-en", "future-uk", at(refNow.Add(24*time.Hour)))
	r := newTestResolver(post)

	for _, slug := range []string{"future-base", "future-en", "future-uk"} {
		res, err := r.Resolve(context.Background(), slug, English)
		require.NoError(t, err)
		assert.Equal(t, NotFound, res.Outcome, slug)
	}
}

func TestResolveUnknownSlug(t *testing.T) {
	r := newTestResolver(localizedPost(1, "base", "", "", at(refNow.Add(-time.Hour))))

	res, err := r.Resolve(context.Background(), "missing", English)
	require.NoError(t, err)
	assert.Equal(t, NotFound, res.Outcome)
}

func TestResolvePropagatesStorageErrors(t *testing.T) {
	boom := errors.New("disk on fire")
	r := NewResolver(&memoryRepo{err: boom}, nil)

	_, err := r.Resolve(context.Background(), "any", English)
	assert.ErrorIs(t, err, boom)
}

func TestFilterPublished(t *testing.T) {
	posts := []Post{
		localizedPost(1, "past", "", "", at(refNow.Add(-time.Minute))),
		localizedPost(2, "exactly-now", "", "", at(refNow)),
		localizedPost(3, "draft", "", "", nil),
		localizedPost(4, "future", "", "", at(refNow.Add(time.Minute))),
	}

	for _, now := range []time.Time{refNow, refNow.Add(-time.Hour), refNow.Add(time.Hour)} {
		for _, p := range FilterPublished(posts, now) {
			require.NotNil(t, p.PublishedAt)
			assert.False(t, p.PublishedAt.After(now))
		}
	}

	got := FilterPublished(posts, refNow)
	require.Len(t, got, 2)
	assert.Equal(t, "past", got[0].Slug)
	assert.Equal(t, "exactly-now", got[1].Slug)
}

func TestMatchSlug(t *testing.T) {
	a := localizedPost(1, "a", "a-en", "a-uk", at(refNow))
	b := localizedPost(2, "b", "b-en", "b-uk", at(refNow))
	posts := []Post{a, b}

	got := MatchSlug(posts, "b-en", English)
	require.Len(t, got, 1)
	assert.Equal(t, int64(2), got[0].ID)

	assert.Empty(t, MatchSlug(posts, "a-uk", English))
	assert.Empty(t, MatchSlug(posts, "a", English))

	for _, slug := range []string{"a", "a-en", "a-uk"} {
		got := MatchSlug(posts, slug, "")
		require.Len(t, got, 1, slug)
		assert.Equal(t, int64(1), got[0].ID)
	}
}

func TestSortByPublication(t *testing.T) {
	same := refNow.Add(-time.Hour)
	older := localizedPost(1, "older", "", "", at(refNow.Add(-48*time.Hour)))
	tieFirst := localizedPost(2, "tie-first", "", "", at(same))
	tieSecond := localizedPost(3, "tie-second", "", "", at(same))
	tieSecond.CreatedAt = tieFirst.CreatedAt.Add(time.Minute)
	posts := []Post{older, tieFirst, tieSecond}

	SortByPublication(posts)

	assert.Equal(t, []string{"tie-second", "tie-first", "older"}, []string{posts[0].Slug, posts[1].Slug, posts[2].Slug})
}
