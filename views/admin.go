package views

import (
	"context"
	"strconv"

	"github.com/a-h/templ"

	"github.com/eringen/echofield/content"
)

func adminHead(h *html, title string) {
	h.raw(`<!doctype html><html lang="en"><head><meta charset="utf-8"><meta name="robots" content="noindex"><title>`)
	h.text(title)
	h.raw(`</title><link rel="stylesheet" href="/public/admin.css"></head><body class="admin">`)
}

func csrfField(h *html, token string) {
	h.raw(`<input type="hidden" name="_csrf"`)
	h.attr("value", token)
	h.raw(`>`)
}

func input(h *html, label, name, value string) {
	h.raw(`<label>`)
	h.text(label)
	h.raw(`<input type="text"`)
	h.attr("name", name)
	h.attr("value", value)
	h.raw(`></label>`)
}

func textarea(h *html, label, name, value string) {
	h.raw(`<label>`)
	h.text(label)
	h.raw(`<textarea rows="12"`)
	h.attr("name", name)
	h.raw(`>`)
	h.text(value)
	h.raw(`</textarea></label>`)
}

// AdminLogin renders the password form.
func AdminLogin(showError bool, csrfToken string) templ.Component {
	return component(func(_ context.Context, h *html) {
		adminHead(h, "Sign in")
		h.raw(`<main><h1>Sign in</h1>`)
		if showError {
			h.raw(`<p class="error">Wrong password.</p>`)
		}
		h.raw(`<form method="post" action="/admin/login/">`)
		csrfField(h, csrfToken)
		h.raw(`<label>Password<input type="password" name="password" autofocus></label><button>Sign in</button></form></main></body></html>`)
	})
}

// AdminDashboard lists posts with their editorial status, and categories.
func AdminDashboard(p AdminDashboardPage) templ.Component {
	return component(func(_ context.Context, h *html) {
		adminHead(h, "Posts")
		h.raw(`<main><header><h1>Posts</h1><a class="button" href="/admin/posts/new/">New post</a>`)
		h.raw(`<form method="post" action="/admin/logout/">`)
		csrfField(h, p.CSRFToken)
		h.raw(`<button>Sign out</button></form></header>`)
		if p.Message != "" {
			h.raw(`<p class="message">`)
			h.text(p.Message)
			h.raw(`</p>`)
		}
		h.raw(`<table><thead><tr><th>Title</th><th>Slug</th><th>Status</th><th>Published at</th><th></th></tr></thead><tbody>`)
		for _, row := range p.Posts {
			id := strconv.FormatInt(row.ID, 10)
			h.raw(`<tr><td><a`)
			h.attr("href", "/admin/posts/"+id+"/")
			h.raw(`>`)
			h.text(row.Title)
			h.raw(`</a></td><td><a target="_blank"`)
			h.attr("href", row.URL)
			h.raw(`>`)
			h.text(row.Slug)
			h.raw(`</a></td><td`)
			h.attr("class", "status-"+row.Status)
			h.raw(`>`)
			h.text(row.Status)
			h.raw(`</td><td>`)
			h.text(row.PublishedAt)
			h.raw(`</td><td><form method="post"`)
			h.attr("action", "/admin/posts/"+id+"/delete/")
			h.raw(`>`)
			csrfField(h, p.CSRFToken)
			h.raw(`<button class="danger">Delete</button></form></td></tr>`)
		}
		h.raw(`</tbody></table><h2>Categories</h2><ul>`)
		for _, c := range p.Categories {
			h.raw(`<li>`)
			h.text(c.Name + " (" + c.Slug + ")")
			h.raw(`<form method="post"`)
			h.attr("action", "/admin/categories/"+strconv.FormatInt(c.ID, 10)+"/delete/")
			h.raw(`>`)
			csrfField(h, p.CSRFToken)
			h.raw(`<button class="danger">Delete</button></form></li>`)
		}
		h.raw(`</ul><form method="post" action="/admin/categories/">`)
		csrfField(h, p.CSRFToken)
		input(h, "Name", "name", "")
		input(h, "Slug", "slug", "")
		for _, l := range content.Languages {
			input(h, "Name ("+l.String()+")", "name_"+l.String(), "")
			input(h, "Slug ("+l.String()+")", "slug_"+l.String(), "")
		}
		h.raw(`<button>Add category</button></form></main></body></html>`)
	})
}

// AdminPostFormPage renders the create/edit form for one post.
func AdminPostFormPage(f AdminPostForm) templ.Component {
	return component(func(_ context.Context, h *html) {
		title := "New post"
		if f.Post.ID != 0 {
			title = "Edit: " + f.Post.Title
		}
		adminHead(h, title)
		h.raw(`<main><h1>`)
		h.text(title)
		h.raw(`</h1>`)
		if f.Error != "" {
			h.raw(`<p class="error">`)
			h.text(f.Error)
			h.raw(`</p>`)
		}
		h.raw(`<form method="post" action="/admin/posts/" enctype="multipart/form-data">`)
		csrfField(h, f.CSRFToken)
		h.raw(`<input type="hidden" name="id"`)
		h.attr("value", strconv.FormatInt(f.Post.ID, 10))
		h.raw(`>`)
		input(h, "Title", "title", f.Post.Title)
		input(h, "Slug", "slug", f.Post.Slug)
		textarea(h, "Content (fallback)", "content", f.Post.Content)
		for _, l := range content.Languages {
			loc := f.Post.Localized[l]
			h.raw(`<fieldset><legend>`)
			h.text(l.Name())
			h.raw(`</legend>`)
			input(h, "Title", "title_"+l.String(), loc.Title)
			input(h, "Slug", "slug_"+l.String(), loc.Slug)
			textarea(h, "Content", "content_"+l.String(), loc.Content)
			h.raw(`</fieldset>`)
		}
		h.raw(`<label>Published at (UTC)<input type="datetime-local" name="published_at"`)
		h.attr("value", f.PublishedAt)
		h.raw(`></label><fieldset><legend>Categories</legend>`)
		for _, c := range f.Categories {
			h.raw(`<label><input type="checkbox" name="category"`)
			h.attr("value", strconv.FormatInt(c.ID, 10))
			if f.Selected[c.ID] {
				h.raw(` checked`)
			}
			h.raw(`>`)
			h.text(c.Name)
			h.raw(`</label>`)
		}
		h.raw(`</fieldset><fieldset><legend>Featured image</legend>`)
		if f.ImageURL != "" {
			h.raw(`<img class="thumb"`)
			h.attr("src", f.ImageURL)
			h.raw(` alt=""><label><input type="checkbox" name="remove_image" value="1">Remove image</label>`)
		}
		h.raw(`<input type="file" name="featured_image" accept="image/*"></fieldset><button>Save</button></form></main></body></html>`)
	})
}
