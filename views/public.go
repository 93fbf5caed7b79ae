package views

import (
	"context"
	"strconv"
	"strings"

	"github.com/a-h/templ"

	"github.com/eringen/echofield/content"
)

func head(h *html, m PageMeta) {
	h.raw(`<!doctype html><html`)
	h.attr("lang", m.Lang.String())
	h.raw(`><head><meta charset="utf-8"><meta name="viewport" content="width=device-width, initial-scale=1">`)
	h.raw(`<title>`)
	h.text(m.Title)
	h.raw(`</title>`)
	if m.Description != "" {
		h.raw(`<meta name="description"`)
		h.attr("content", m.Description)
		h.raw(`>`)
	}
	if m.URL != "" {
		h.raw(`<link rel="canonical"`)
		h.attr("href", m.URL)
		h.raw(`><meta property="og:url"`)
		h.attr("content", m.URL)
		h.raw(`>`)
	}
	for _, a := range m.Alternates {
		h.raw(`<link rel="alternate"`)
		h.attr("hreflang", a.Lang.String())
		h.attr("href", a.URL)
		h.raw(`>`)
	}
	h.raw(`<meta property="og:title"`)
	h.attr("content", m.Title)
	h.raw(`><meta property="og:site_name"`)
	h.attr("content", m.SiteName)
	h.raw(`><meta property="og:type"`)
	h.attr("content", m.OGType)
	h.raw(`>`)
	if m.Image != "" {
		h.raw(`<meta property="og:image"`)
		h.attr("content", m.Image)
		h.raw(`>`)
	}
	if m.JSONLD != "" {
		// json.Marshal escapes '<' so the payload cannot close the script tag.
		h.raw(`<script type="application/ld+json">` + m.JSONLD + `</script>`)
	}
	h.raw(`<link rel="stylesheet" href="/public/style.css"></head><body>`)
}

func header(h *html, m PageMeta, langs []LangLink) {
	h.raw(`<header><a class="brand" href="/">`)
	h.text(m.SiteName)
	h.raw(`</a><nav class="langs">`)
	for _, l := range langs {
		h.raw(`<a`)
		h.attr("href", l.URL)
		h.attr("hreflang", l.Lang.String())
		if l.Active {
			h.raw(` aria-current="true"`)
		}
		h.raw(`>`)
		h.text(l.Lang.Name())
		h.raw(`</a>`)
	}
	h.raw(`</nav></header>`)
}

func foot(h *html) {
	h.raw(`</body></html>`)
}

func picture(h *html, img Image, class string) {
	if img.Src == "" {
		return
	}
	h.raw(`<picture`)
	h.attr("class", class)
	h.raw(`>`)
	if img.Srcset != "" {
		h.raw(`<source type="image/webp"`)
		h.attr("srcset", img.Srcset)
		h.raw(`>`)
	}
	h.raw(`<img loading="lazy"`)
	h.attr("src", img.Src)
	h.attr("alt", img.Alt)
	h.raw(`></picture>`)
}

func categoryLinks(h *html, links []CategoryLink) {
	if len(links) == 0 {
		return
	}
	h.raw(`<ul class="categories">`)
	for _, c := range links {
		h.raw(`<li><a`)
		h.attr("href", c.URL)
		if c.Active {
			h.raw(` class="active"`)
		}
		h.raw(`>`)
		h.text(c.Name)
		h.raw(`</a></li>`)
	}
	h.raw(`</ul>`)
}

// List renders the paginated post list.
func List(p ListPage) templ.Component {
	return component(func(_ context.Context, h *html) {
		lang := p.Meta.Lang
		head(h, p.Meta)
		header(h, p.Meta, p.Languages)
		h.raw(`<main><h1>`)
		h.text(T(lang, "posts"))
		h.raw(`</h1>`)
		categoryLinks(h, p.Categories)
		if len(p.Posts) == 0 {
			h.raw(`<p class="empty">`)
			h.text(T(lang, "no_posts"))
			h.raw(`</p>`)
		}
		for _, post := range p.Posts {
			h.raw(`<article class="card">`)
			picture(h, post.Image, "card-image")
			h.raw(`<h2><a`)
			h.attr("href", post.URL)
			h.raw(`>`)
			h.text(post.Title)
			h.raw(`</a></h2><time>`)
			h.text(post.Date)
			h.raw(`</time>`)
			categoryLinks(h, post.Categories)
			if post.Summary != "" {
				h.raw(`<p>`)
				h.text(post.Summary)
				h.raw(`</p>`)
			}
			h.raw(`</article>`)
		}
		if p.TotalPages > 1 {
			h.raw(`<nav class="pagination">`)
			if p.PrevURL != "" {
				h.raw(`<a rel="prev"`)
				h.attr("href", p.PrevURL)
				h.raw(`>`)
				h.text(T(lang, "newer"))
				h.raw(`</a>`)
			}
			h.raw(`<span>`)
			h.text(strings.Join([]string{T(lang, "page"), strconv.Itoa(p.Page), T(lang, "of"), strconv.Itoa(p.TotalPages)}, " "))
			h.raw(`</span>`)
			if p.NextURL != "" {
				h.raw(`<a rel="next"`)
				h.attr("href", p.NextURL)
				h.raw(`>`)
				h.text(T(lang, "older"))
				h.raw(`</a>`)
			}
			h.raw(`</nav>`)
		}
		h.raw(`</main>`)
		foot(h)
	})
}

// Detail renders a single post.
func Detail(p DetailPage) templ.Component {
	return component(func(_ context.Context, h *html) {
		head(h, p.Meta)
		header(h, p.Meta, p.Languages)
		h.raw(`<main><article class="post"><h1>`)
		h.text(p.Title)
		h.raw(`</h1><time>`)
		h.text(p.Date)
		h.raw(`</time>`)
		categoryLinks(h, p.Categories)
		picture(h, p.Image, "featured")
		h.raw(`<div class="content">`)
		h.raw(p.HTML)
		h.raw(`</div></article></main>`)
		foot(h)
	})
}

// NotFound renders the 404 page.
func NotFound(lang content.Lang) templ.Component {
	return component(func(_ context.Context, h *html) {
		head(h, PageMeta{Title: T(lang, "not_found"), Lang: lang, OGType: "website"})
		h.raw(`<main class="error"><h1>404</h1><p>`)
		h.text(T(lang, "not_found"))
		h.raw(`</p><a href="/">`)
		h.text(T(lang, "go_home"))
		h.raw(`</a></main>`)
		foot(h)
	})
}

// ServerError renders the 500 page.
func ServerError(lang content.Lang) templ.Component {
	return component(func(_ context.Context, h *html) {
		head(h, PageMeta{Title: T(lang, "server_err"), Lang: lang, OGType: "website"})
		h.raw(`<main class="error"><h1>500</h1><p>`)
		h.text(T(lang, "server_err"))
		h.raw(`</p></main>`)
		foot(h)
	})
}
