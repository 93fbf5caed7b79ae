package echofield

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/eringen/echofield/content"
	"github.com/eringen/echofield/views"
)

// absoluteURL resolves a site path against the configured site URL.
func (a *App) absoluteURL(path string) string {
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}
	if path == "" || path == "/" {
		return BuildURL(a.Config.URL)
	}
	return BuildURL(a.Config.URL) + trimLeadingSlash(path)
}

// canonicalURL is the absolute URL of path with lang pinned in the query.
func (a *App) canonicalURL(path string, lang content.Lang) string {
	return withLang(a.absoluteURL(path), lang)
}

// alternates builds hreflang links for every language. perLang overrides the
// path per language, e.g. localized post slugs; other languages reuse path.
func (a *App) alternates(path string, perLang map[content.Lang]string) []views.Alternate {
	out := make([]views.Alternate, 0, len(content.Languages))
	for _, l := range content.Languages {
		p := path
		if lp, ok := perLang[l]; ok {
			p = lp
		}
		out = append(out, views.Alternate{Lang: l, URL: a.canonicalURL(p, l)})
	}
	return out
}

// languageLinks builds the switcher entries for the page at path.
func languageLinks(path string, perLang map[content.Lang]string, active content.Lang) []views.LangLink {
	out := make([]views.LangLink, 0, len(content.Languages))
	for _, l := range content.Languages {
		p := path
		if lp, ok := perLang[l]; ok {
			p = lp
		}
		out = append(out, views.LangLink{Lang: l, URL: withLang(p, l), Active: l == active})
	}
	return out
}

// postPath is the public path of post in lang.
func postPath(p content.Post, lang content.Lang) string {
	return "/" + PathEscape(p.SlugFor(lang)) + "/"
}

func postPaths(p content.Post) map[content.Lang]string {
	m := make(map[content.Lang]string, len(content.Languages))
	for _, l := range content.Languages {
		m[l] = postPath(p, l)
	}
	return m
}

// socialImageURL returns an absolute og:image URL for post, or "".
func (a *App) socialImageURL(ctx context.Context, p content.Post) string {
	if p.FeaturedImage == "" {
		return ""
	}
	return a.absoluteURL(a.Images.SocialImageURL(ctx, p.FeaturedImage))
}

// ArticleJSONLD renders the schema.org Article for post. Empty fields are
// omitted.
func (a *App) ArticleJSONLD(p content.Post, lang content.Lang, canonical, image string) string {
	data := map[string]any{
		"@context":         "https://schema.org",
		"@type":            "Article",
		"mainEntityOfPage": canonical,
		"headline":         p.TitleFor(lang),
		"description":      SEODescription(p.ContentFor(lang)),
		"inLanguage":       lang.String(),
	}
	if p.PublishedAt != nil {
		data["datePublished"] = p.PublishedAt.UTC().Format(time.RFC3339)
	}
	if !p.UpdatedAt.IsZero() {
		data["dateModified"] = p.UpdatedAt.UTC().Format(time.RFC3339)
	}
	author := a.Config.Author
	if author == "" {
		author = a.Config.Name
	}
	if author != "" {
		data["author"] = map[string]string{"@type": "Organization", "name": author}
	}
	if a.Config.Name != "" {
		data["publisher"] = map[string]string{"@type": "Organization", "name": a.Config.Name}
	}
	if image != "" {
		data["image"] = []string{image}
	}
	for k, v := range data {
		if s, ok := v.(string); ok && s == "" {
			delete(data, k)
		}
	}
	b, err := json.Marshal(data)
	if err != nil {
		return "{}"
	}
	return string(b)
}

// WebsiteJSONLD renders the schema.org WebSite for the list page.
func (a *App) WebsiteJSONLD(lang content.Lang) string {
	data := map[string]any{
		"@context":   "https://schema.org",
		"@type":      "WebSite",
		"name":       a.Config.Name,
		"url":        BuildURL(a.Config.URL),
		"inLanguage": lang.String(),
	}
	if a.Config.Description != "" {
		data["description"] = a.Config.Description
	}
	b, err := json.Marshal(data)
	if err != nil {
		return "{}"
	}
	return string(b)
}

func (a *App) pageMeta(c echo.Context, title, description, canonical, ogType string) views.PageMeta {
	if title == "" {
		title = a.Config.Name
	}
	return views.PageMeta{
		SiteName:    a.Config.Name,
		Title:       title,
		Description: description,
		URL:         canonical,
		OGType:      ogType,
		Lang:        ActiveLang(c),
	}
}
