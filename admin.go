package echofield

import (
	"crypto/subtle"
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/eringen/echofield/content"
	"github.com/eringen/echofield/views"
)

const datetimeLocalLayout = "2006-01-02T15:04"

func (a *App) handleAdmin(c echo.Context) error {
	if !IsAdmin(c) {
		return Render(c, a.Views.AdminLogin(false, CsrfToken(c)))
	}
	return a.renderAdminDashboard(c, c.QueryParam("msg"))
}

func (a *App) handleAdminLogin(c echo.Context) error {
	ip := c.RealIP()
	if !a.loginLimiter.Check(ip) {
		return c.String(http.StatusTooManyRequests, "Too many login attempts. Try again later.")
	}
	pass := c.FormValue("password")
	if subtle.ConstantTimeCompare([]byte(pass), []byte(a.Config.AdminPassword)) == 1 {
		if err := setAdminSession(c); err != nil {
			return err
		}
		return c.Redirect(http.StatusSeeOther, "/admin/")
	}
	a.loginLimiter.Record(ip)
	a.Log.Warn().Str("ip", ip).Msg("failed admin login")
	return RenderStatus(c, http.StatusUnauthorized, a.Views.AdminLogin(true, CsrfToken(c)))
}

func handleAdminLogout(c echo.Context) error {
	if err := clearAdminSession(c); err != nil {
		return err
	}
	return c.Redirect(http.StatusSeeOther, "/admin/")
}

func (a *App) handleAdminNewPost(c echo.Context) error {
	return a.renderPostForm(c, http.StatusOK, content.Post{}, "")
}

func (a *App) handleAdminEditPost(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return echo.ErrNotFound
	}
	post, err := a.Store.GetPost(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return a.renderPostForm(c, http.StatusOK, post, "")
}

func (a *App) handleAdminSavePost(c echo.Context) error {
	ctx := c.Request().Context()

	post, err := a.postFromForm(c)
	if err != nil {
		return err
	}
	if msg := a.validatePost(c, post); msg != "" {
		return a.renderPostForm(c, http.StatusUnprocessableEntity, post, msg)
	}

	if c.FormValue("remove_image") != "" {
		post.FeaturedImage = ""
	}
	if fh, err := c.FormFile("featured_image"); err == nil && fh.Size > 0 {
		name, err := a.storeFeaturedImage(ctx, fh, post.Slug)
		if err != nil {
			return a.renderPostForm(c, http.StatusUnprocessableEntity, post, err.Error())
		}
		post.FeaturedImage = name
	}

	if err := a.Store.SavePost(ctx, &post); err != nil {
		if errors.Is(err, ErrDuplicateSlug) {
			return a.renderPostForm(c, http.StatusUnprocessableEntity, post, "A post with this slug already exists.")
		}
		return err
	}
	a.Log.Info().Int64("post", post.ID).Str("slug", post.Slug).Msg("post saved")
	return c.Redirect(http.StatusSeeOther, "/admin/?msg=saved")
}

// postFromForm builds the post described by the submitted form on top of
// the stored post when editing.
func (a *App) postFromForm(c echo.Context) (content.Post, error) {
	var post content.Post
	if id, _ := strconv.ParseInt(c.FormValue("id"), 10, 64); id > 0 {
		stored, err := a.Store.GetPost(c.Request().Context(), id)
		if err != nil {
			return post, err
		}
		post = stored
	}

	post.Title = strings.TrimSpace(c.FormValue("title"))
	post.Slug = strings.TrimSpace(c.FormValue("slug"))
	post.Content = c.FormValue("content")
	post.Localized = nil
	for _, l := range content.Languages {
		post.SetLocalized(l, content.Localized{
			Title:   strings.TrimSpace(c.FormValue("title_" + l.String())),
			Slug:    strings.TrimSpace(c.FormValue("slug_" + l.String())),
			Content: c.FormValue("content_" + l.String()),
		})
	}
	for _, l := range content.Languages {
		if post.Title == "" {
			post.Title = post.Localized[l].Title
		}
		if strings.TrimSpace(post.Content) == "" {
			post.Content = post.Localized[l].Content
		}
	}
	if post.Slug == "" {
		post.Slug = Slugify(post.Title)
	}

	post.PublishedAt = nil
	if raw := strings.TrimSpace(c.FormValue("published_at")); raw != "" {
		t, err := time.ParseInLocation(datetimeLocalLayout, raw, time.UTC)
		if err != nil {
			return post, echo.NewHTTPError(http.StatusBadRequest, "invalid published_at")
		}
		post.PublishedAt = &t
	}

	post.Categories = nil
	for _, raw := range c.Request().Form["category"] {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			continue
		}
		post.Categories = append(post.Categories, content.Category{ID: id})
	}
	return post, nil
}

// validatePost returns a message for the editor, or "" when post can be saved.
// Slugs must be unique across the canonical and every localized column, which
// the per-column indexes alone do not guarantee.
func (a *App) validatePost(c echo.Context, post content.Post) string {
	if post.Title == "" {
		return "Title is required."
	}
	slugs := []string{post.Slug}
	for _, l := range content.Languages {
		if s := post.LocalizedSlug(l); s != "" {
			slugs = append(slugs, s)
		}
	}
	for _, s := range slugs {
		if !ValidSlug(s) {
			return "Invalid slug " + strconv.Quote(s) + ": use lowercase letters, digits and hyphens."
		}
		taken, err := a.Store.SlugTaken(c.Request().Context(), s, post.ID)
		if err != nil {
			a.Log.Error().Err(err).Msg("slug check")
			return "Could not verify the slug."
		}
		if taken {
			return "A post with this slug already exists."
		}
	}
	return ""
}

func (a *App) handleAdminDeletePost(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return echo.ErrNotFound
	}
	if err := a.Store.DeletePost(c.Request().Context(), id); err != nil {
		return err
	}
	a.Log.Info().Int64("post", id).Msg("post deleted")
	return c.Redirect(http.StatusSeeOther, "/admin/?msg=deleted")
}

func (a *App) handleAdminSaveCategory(c echo.Context) error {
	cat := content.Category{
		Name:  strings.TrimSpace(c.FormValue("name")),
		Slug:  strings.TrimSpace(c.FormValue("slug")),
		Names: map[content.Lang]string{},
		Slugs: map[content.Lang]string{},
	}
	for _, l := range content.Languages {
		cat.Names[l] = strings.TrimSpace(c.FormValue("name_" + l.String()))
		cat.Slugs[l] = strings.TrimSpace(c.FormValue("slug_" + l.String()))
	}
	if cat.Slug == "" {
		cat.Slug = Slugify(cat.Name)
	}
	if cat.Name == "" || !ValidSlug(cat.Slug) {
		return a.redirectDashboard(c, "Category needs a name and a valid slug.")
	}
	if err := a.Store.SaveCategory(c.Request().Context(), &cat); err != nil {
		if errors.Is(err, ErrDuplicateSlug) {
			return a.redirectDashboard(c, "A category with this slug already exists.")
		}
		return err
	}
	a.Cache.Invalidate()
	return a.redirectDashboard(c, "category saved")
}

func (a *App) handleAdminDeleteCategory(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return echo.ErrNotFound
	}
	if err := a.Store.DeleteCategory(c.Request().Context(), id); err != nil {
		return err
	}
	a.Cache.Invalidate()
	return a.redirectDashboard(c, "category deleted")
}

func (a *App) redirectDashboard(c echo.Context, msg string) error {
	return c.Redirect(http.StatusSeeOther, "/admin/?msg="+url.QueryEscape(msg))
}

func (a *App) renderAdminDashboard(c echo.Context, msg string) error {
	ctx := c.Request().Context()
	posts, err := a.Store.ListAllPosts(ctx)
	if err != nil {
		return err
	}
	cats, err := a.Store.ListCategories(ctx)
	if err != nil {
		return err
	}
	now := a.now()
	rows := make([]views.AdminPostRow, 0, len(posts))
	for _, p := range posts {
		row := views.AdminPostRow{
			ID:     p.ID,
			Title:  p.Title,
			Slug:   p.Slug,
			Status: p.Status(now).String(),
			URL:    "/" + PathEscape(p.Slug) + "/",
		}
		if p.PublishedAt != nil {
			row.PublishedAt = p.PublishedAt.UTC().Format("2006-01-02 15:04")
		}
		rows = append(rows, row)
	}
	return Render(c, a.Views.AdminDashboard(views.AdminDashboardPage{
		Posts:      rows,
		Categories: cats,
		Message:    msg,
		CSRFToken:  CsrfToken(c),
	}))
}

func (a *App) renderPostForm(c echo.Context, code int, post content.Post, msg string) error {
	cats, err := a.Store.ListCategories(c.Request().Context())
	if err != nil {
		return err
	}
	form := views.AdminPostForm{
		Post:       post,
		Categories: cats,
		Selected:   make(map[int64]bool, len(post.Categories)),
		Error:      msg,
		CSRFToken:  CsrfToken(c),
	}
	for _, cat := range post.Categories {
		form.Selected[cat.ID] = true
	}
	if post.PublishedAt != nil {
		form.PublishedAt = post.PublishedAt.UTC().Format(datetimeLocalLayout)
	}
	if post.FeaturedImage != "" {
		form.ImageURL = a.Media.URL(post.FeaturedImage)
	}
	return RenderStatus(c, code, a.Views.AdminPostForm(form))
}
