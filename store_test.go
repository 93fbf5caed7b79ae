package echofield

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eringen/echofield/content"
)

var testNow = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

func setupTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	s.now = func() time.Time { return testNow }
	t.Cleanup(func() { s.Close() })
	return s
}

func at(t time.Time) *time.Time { return &t }

func newPost(slug, slugEN, slugUK string, published *time.Time) content.Post {
	p := content.Post{Title: slug, Slug: slug, Content: "body of " + slug, PublishedAt: published}
	p.SetLocalized(content.English, content.Localized{Title: slug + " en", Slug: slugEN})
	p.SetLocalized(content.Ukrainian, content.Localized{Title: slug + " uk", Slug: slugUK})
	return p
}

func mustSave(t *testing.T, s *Store, p content.Post) content.Post {
	t.Helper()
	require.NoError(t, s.SavePost(context.Background(), &p))
	return p
}

type recordingHook struct {
	saved    []string // current/previous image pairs
	deleted  []int64
	lastPost content.Post
}

func (h *recordingHook) PostSaved(_ context.Context, p content.Post, previous string) {
	h.saved = append(h.saved, p.FeaturedImage+"|"+previous)
	h.lastPost = p
}

func (h *recordingHook) PostDeleted(_ context.Context, p content.Post) {
	h.deleted = append(h.deleted, p.ID)
}

func TestNewStoreMigratesTwice(t *testing.T) {
	path := filepath.Join(t.TempDir(), "twice.db")
	s, err := NewStore(path)
	require.NoError(t, err)
	require.NoError(t, s.Close())

	s, err = NewStore(path)
	require.NoError(t, err)
	defer s.Close()
	assert.NoError(t, s.Migrate())
}

func TestSaveAndGetPost(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	p := newPost("hello", "hello-en", "hello-uk", at(testNow.Add(-time.Hour)))
	p.FeaturedImage = "posts/featured/a.jpg"
	p = mustSave(t, s, p)
	require.NotZero(t, p.ID)

	got, err := s.GetPost(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "hello", got.Slug)
	assert.Equal(t, "hello-en", got.LocalizedSlug(content.English))
	assert.Equal(t, "hello-uk", got.LocalizedSlug(content.Ukrainian))
	assert.Equal(t, "hello uk", got.TitleFor(content.Ukrainian))
	assert.Equal(t, "posts/featured/a.jpg", got.FeaturedImage)
	require.NotNil(t, got.PublishedAt)
	assert.True(t, got.PublishedAt.Equal(testNow.Add(-time.Hour)))
	assert.True(t, got.CreatedAt.Equal(testNow))
}

func TestGetPostNotFound(t *testing.T) {
	s := setupTestStore(t)
	_, err := s.GetPost(context.Background(), 42)
	assert.ErrorIs(t, err, content.ErrNotFound)
}

func TestSavePostUpdateKeepsCreatedAt(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()
	p := mustSave(t, s, newPost("hello", "", "", nil))

	s.now = func() time.Time { return testNow.Add(time.Hour) }
	p.Title = "Changed"
	p.SetLocalized(content.English, content.Localized{Slug: "changed-en"})
	p = mustSave(t, s, p)

	got, err := s.GetPost(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Changed", got.Title)
	assert.Equal(t, "changed-en", got.LocalizedSlug(content.English))
	assert.True(t, got.CreatedAt.Equal(testNow))
	assert.True(t, got.UpdatedAt.Equal(testNow.Add(time.Hour)))
}

func TestSavePostUpdateMissing(t *testing.T) {
	s := setupTestStore(t)
	p := newPost("ghost", "", "", nil)
	p.ID = 99
	assert.ErrorIs(t, s.SavePost(context.Background(), &p), content.ErrNotFound)
}

func TestDuplicateSlug(t *testing.T) {
	s := setupTestStore(t)
	mustSave(t, s, newPost("hello", "hello-en", "", nil))

	dup := newPost("hello", "", "", nil)
	assert.ErrorIs(t, s.SavePost(context.Background(), &dup), ErrDuplicateSlug)

	dupEN := newPost("other", "hello-en", "", nil)
	assert.ErrorIs(t, s.SavePost(context.Background(), &dupEN), ErrDuplicateSlug)
}

func TestEmptyLocalizedSlugsDoNotCollide(t *testing.T) {
	s := setupTestStore(t)
	mustSave(t, s, newPost("one", "", "", nil))
	mustSave(t, s, newPost("two", "", "", nil))
}

func TestSlugTaken(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()
	p := mustSave(t, s, newPost("hello", "hello-en", "hello-uk", nil))

	for _, slug := range []string{"hello", "hello-en", "hello-uk"} {
		taken, err := s.SlugTaken(ctx, slug, 0)
		require.NoError(t, err)
		assert.True(t, taken, slug)

		taken, err = s.SlugTaken(ctx, slug, p.ID)
		require.NoError(t, err)
		assert.False(t, taken, "own slug %s", slug)
	}
	taken, err := s.SlugTaken(ctx, "free", 0)
	require.NoError(t, err)
	assert.False(t, taken)
}

func TestPublishedFiltersAndOrders(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	old := mustSave(t, s, newPost("old", "", "", at(testNow.Add(-48*time.Hour))))
	recent := mustSave(t, s, newPost("recent", "", "", at(testNow.Add(-time.Hour))))
	mustSave(t, s, newPost("draft", "", "", nil))
	mustSave(t, s, newPost("future", "", "", at(testNow.Add(24*time.Hour))))
	edge := mustSave(t, s, newPost("edge", "", "", at(testNow)))

	posts, err := s.Published(ctx, testNow)
	require.NoError(t, err)
	require.Len(t, posts, 3)
	assert.Equal(t, []int64{edge.ID, recent.ID, old.ID}, []int64{posts[0].ID, posts[1].ID, posts[2].ID})

	all, err := s.ListAllPosts(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 5)
	assert.Equal(t, "draft", all[len(all)-1].Slug, "drafts sort last")
}

func TestPublishedTieBreaksOnCreatedAt(t *testing.T) {
	s := setupTestStore(t)
	pub := at(testNow.Add(-time.Hour))
	first := mustSave(t, s, newPost("first", "", "", pub))
	s.now = func() time.Time { return testNow.Add(time.Minute) }
	second := mustSave(t, s, newPost("second", "", "", pub))

	posts, err := s.Published(context.Background(), testNow.Add(time.Hour))
	require.NoError(t, err)
	require.Len(t, posts, 2)
	assert.Equal(t, second.ID, posts[0].ID)
	assert.Equal(t, first.ID, posts[1].ID)
}

func TestForSlug(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()
	p := mustSave(t, s, newPost("hello", "hello-en", "hello-uk", at(testNow.Add(-time.Hour))))
	mustSave(t, s, newPost("hidden", "hidden-en", "", at(testNow.Add(time.Hour))))

	tests := []struct {
		slug string
		lang content.Lang
		want int
	}{
		{"hello-uk", content.Ukrainian, 1},
		{"hello-uk", content.English, 0},
		{"hello-uk", "", 1},
		{"hello", "", 1},
		{"hello", content.English, 0},
		{"hidden-en", "", 0},
		{"nope", "", 0},
	}
	for _, tt := range tests {
		posts, err := s.ForSlug(ctx, testNow, tt.slug, tt.lang)
		require.NoError(t, err)
		if assert.Len(t, posts, tt.want, "%s/%s", tt.slug, tt.lang) && tt.want == 1 {
			assert.Equal(t, p.ID, posts[0].ID)
		}
	}
}

func TestHooksRunAfterCommit(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()
	hook := &recordingHook{}
	s.AddHook(hook)

	p := newPost("hello", "", "", nil)
	p.FeaturedImage = "a.jpg"
	p = mustSave(t, s, p)
	p.FeaturedImage = "b.jpg"
	p = mustSave(t, s, p)

	assert.Equal(t, []string{"a.jpg|", "b.jpg|a.jpg"}, hook.saved)
	assert.Equal(t, p.ID, hook.lastPost.ID)

	dup := newPost("hello", "", "", nil)
	require.Error(t, s.SavePost(ctx, &dup))
	assert.Len(t, hook.saved, 2, "failed saves do not run hooks")

	require.NoError(t, s.DeletePost(ctx, p.ID))
	assert.Equal(t, []int64{p.ID}, hook.deleted)
	_, err := s.GetPost(ctx, p.ID)
	assert.ErrorIs(t, err, content.ErrNotFound)
}

func TestDeleteNonexistentPost(t *testing.T) {
	s := setupTestStore(t)
	assert.ErrorIs(t, s.DeletePost(context.Background(), 7), content.ErrNotFound)
}

func TestCategories(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	travel := content.Category{Name: "Travel", Slug: "travel",
		Names: map[content.Lang]string{content.Ukrainian: "Подорожі"},
		Slugs: map[content.Lang]string{content.Ukrainian: "podorozhi"}}
	require.NoError(t, s.SaveCategory(ctx, &travel))
	art := content.Category{Name: "Art", Slug: "art"}
	require.NoError(t, s.SaveCategory(ctx, &art))

	dup := content.Category{Name: "Again", Slug: "travel"}
	assert.ErrorIs(t, s.SaveCategory(ctx, &dup), ErrDuplicateSlug)

	cats, err := s.ListCategories(ctx)
	require.NoError(t, err)
	require.Len(t, cats, 2)
	assert.Equal(t, "Art", cats[0].Name)
	assert.Equal(t, "Подорожі", cats[1].NameFor(content.Ukrainian))
	assert.Equal(t, "travel", cats[1].SlugFor(content.English))

	p := newPost("trip", "", "", at(testNow.Add(-time.Hour)))
	p.Categories = []content.Category{{ID: travel.ID}, {ID: art.ID}}
	p = mustSave(t, s, p)

	got, err := s.GetPost(ctx, p.ID)
	require.NoError(t, err)
	require.Len(t, got.Categories, 2)
	assert.Equal(t, "Art", got.Categories[0].Name)
	assert.Equal(t, "podorozhi", got.Categories[1].SlugFor(content.Ukrainian))

	require.NoError(t, s.DeleteCategory(ctx, art.ID))
	got, err = s.GetPost(ctx, p.ID)
	require.NoError(t, err)
	require.Len(t, got.Categories, 1)
	assert.Equal(t, "travel", got.Categories[0].Slug)
}

func TestSavePostSkipsDeletedCategory(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	gone := content.Category{Name: "Gone", Slug: "gone"}
	require.NoError(t, s.SaveCategory(ctx, &gone))
	kept := content.Category{Name: "Kept", Slug: "kept"}
	require.NoError(t, s.SaveCategory(ctx, &kept))
	require.NoError(t, s.DeleteCategory(ctx, gone.ID))

	p := newPost("orphan", "", "", at(testNow.Add(-time.Hour)))
	p.Categories = []content.Category{{ID: gone.ID}, {ID: kept.ID}, {ID: kept.ID}}
	require.NoError(t, s.SavePost(ctx, &p))
	require.Len(t, p.Categories, 1)
	assert.Equal(t, kept.ID, p.Categories[0].ID)

	got, err := s.GetPost(ctx, p.ID)
	require.NoError(t, err)
	require.Len(t, got.Categories, 1)
	assert.Equal(t, "kept", got.Categories[0].Slug)
}

func TestPostCacheInvalidatesThroughHook(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()
	cache := NewPostCache(s, time.Hour)
	s.AddHook(cache)

	posts, err := cache.Published(ctx, testNow)
	require.NoError(t, err)
	assert.Empty(t, posts)

	mustSave(t, s, newPost("hello", "hello-en", "", at(testNow.Add(-time.Minute))))
	posts, err = cache.Published(ctx, testNow)
	require.NoError(t, err)
	assert.Len(t, posts, 1)

	found, err := cache.ForSlug(ctx, testNow, "hello-en", content.English)
	require.NoError(t, err)
	assert.Len(t, found, 1)
}

func TestPostCacheAppliesPredicateAtRead(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()
	cache := NewPostCache(s, time.Hour)

	mustSave(t, s, newPost("soon", "", "", at(testNow.Add(time.Hour))))

	posts, err := cache.Published(ctx, testNow)
	require.NoError(t, err)
	assert.Empty(t, posts)

	posts, err = cache.Published(ctx, testNow.Add(2*time.Hour))
	require.NoError(t, err)
	assert.Len(t, posts, 1, "scheduled post appears without invalidation")
}

func TestPostCacheOrdersNewestFirst(t *testing.T) {
	cache := NewPostCache(setupTestStore(t), time.Hour)
	older := newPost("older", "", "", at(testNow.Add(-48*time.Hour)))
	older.ID = 1
	newer := newPost("newer", "", "", at(testNow.Add(-time.Hour)))
	newer.ID = 2
	cache.posts = []content.Post{older, newer}
	cache.fetched = time.Now()

	posts, err := cache.Published(context.Background(), testNow)
	require.NoError(t, err)
	require.Len(t, posts, 2)
	assert.Equal(t, "newer", posts[0].Slug)
	assert.Equal(t, "older", posts[1].Slug)
	assert.Equal(t, "older", cache.posts[0].Slug, "cached slice is not reordered")
}

func TestCreateFixturesDeterministic(t *testing.T) {
	ctx := context.Background()
	seed := int64(7)

	a := setupTestStore(t)
	first, err := CreateFixtures(ctx, a, FixtureOptions{Count: 3, Bulk: 2, Seed: &seed, Now: testNow})
	require.NoError(t, err)
	require.Len(t, first, 5)

	b := setupTestStore(t)
	second, err := CreateFixtures(ctx, b, FixtureOptions{Count: 3, Bulk: 2, Seed: &seed, Now: testNow})
	require.NoError(t, err)

	for i := range first {
		assert.Equal(t, first[i].Slug, second[i].Slug)
		assert.Equal(t, first[i].LocalizedSlug(content.Ukrainian), second[i].LocalizedSlug(content.Ukrainian))
		assert.True(t, first[i].IsPublished(testNow))
		assert.Regexp(t, `-[a-z0-9]{6}$`, first[i].Slug)
	}

	posts, err := a.Published(ctx, testNow)
	require.NoError(t, err)
	assert.Len(t, posts, 5)
}
