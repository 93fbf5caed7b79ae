package echofield

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eringen/echofield/content"
)

func TestArticleJSONLDOmitsEmpty(t *testing.T) {
	a := New(SiteConfig{Name: "EchoField"}, ViewFuncs{})
	p := content.Post{Title: "Hi", Slug: "hi"}

	var data map[string]any
	require.NoError(t, json.Unmarshal([]byte(a.ArticleJSONLD(p, content.English, "https://x/hi/?lang=en", "")), &data))
	assert.Equal(t, "Article", data["@type"])
	assert.Equal(t, "Hi", data["headline"])
	assert.NotContains(t, data, "description")
	assert.NotContains(t, data, "datePublished")
	assert.NotContains(t, data, "image")

	pub := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	p.PublishedAt = &pub
	p.Content = "Body"
	require.NoError(t, json.Unmarshal([]byte(a.ArticleJSONLD(p, content.English, "https://x/hi/", "https://x/i@2x.webp")), &data))
	assert.Equal(t, "2026-01-02T03:04:05Z", data["datePublished"])
	assert.Equal(t, "Body", data["description"])
	assert.Equal(t, []any{"https://x/i@2x.webp"}, data["image"])
}

func TestCanonicalAndAlternates(t *testing.T) {
	a := New(SiteConfig{URL: "https://example.com"}, ViewFuncs{})

	assert.Equal(t, "https://example.com/?lang=uk", a.canonicalURL("/", content.Ukrainian))
	assert.Equal(t, "https://example.com/?lang=en&page=2", a.canonicalURL("/?page=2", content.English))
	assert.Equal(t, "https://cdn.example.com/a.webp", a.absoluteURL("https://cdn.example.com/a.webp"))

	alts := a.alternates("/hello/", map[content.Lang]string{content.Ukrainian: "/pryvit/"})
	require.Len(t, alts, 2)
	assert.Equal(t, "https://example.com/hello/?lang=en", alts[0].URL)
	assert.Equal(t, "https://example.com/pryvit/?lang=uk", alts[1].URL)
}
