// Package views holds the default templ components for the public blog and
// the admin screens. Sites can replace any of them through ViewFuncs.
package views

import "github.com/eringen/echofield/content"

// PageMeta carries per-page OpenGraph and SEO metadata into the <head> template.
type PageMeta struct {
	SiteName    string
	Title       string
	Description string
	URL         string // canonical + og:url
	OGType      string // "website" or "article"
	Image       string // og:image
	Lang        content.Lang
	Alternates  []Alternate
	JSONLD      string
}

// Alternate is one hreflang link.
type Alternate struct {
	Lang content.Lang
	URL  string
}

// LangLink is an entry in the language switcher.
type LangLink struct {
	Lang   content.Lang
	URL    string
	Active bool
}

// CategoryLink links to a category-filtered list.
type CategoryLink struct {
	Name   string
	URL    string
	Active bool
}

// Image is a featured image with its responsive WebP sources.
type Image struct {
	Src    string
	Srcset string
	Alt    string
}

// PostCard is a post as shown in the list.
type PostCard struct {
	Title      string
	URL        string
	Summary    string
	Date       string
	Categories []CategoryLink
	Image      Image
}

// ListPage is the paginated post list.
type ListPage struct {
	Meta       PageMeta
	Posts      []PostCard
	Categories []CategoryLink
	Languages  []LangLink
	Page       int
	TotalPages int
	PrevURL    string
	NextURL    string
}

// DetailPage is a single post.
type DetailPage struct {
	Meta       PageMeta
	Title      string
	HTML       string // sanitized
	Date       string
	Categories []CategoryLink
	Image      Image
	Languages  []LangLink
}

// AdminPostRow is a dashboard row.
type AdminPostRow struct {
	ID          int64
	Title       string
	Slug        string
	Status      string
	PublishedAt string
	URL         string
}

// AdminDashboardPage lists every post and category.
type AdminDashboardPage struct {
	Posts      []AdminPostRow
	Categories []content.Category
	Message    string
	CSRFToken  string
}

// AdminPostForm edits one post.
type AdminPostForm struct {
	Post        content.Post
	PublishedAt string // value for <input type="datetime-local">
	Categories  []content.Category
	Selected    map[int64]bool
	ImageURL    string
	Error       string
	CSRFToken   string
}
