package echofield

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/eringen/echofield/content"
	"github.com/eringen/echofield/views"
)

const dateLayout = "2006-01-02"

func (a *App) handleList(c echo.Context) error {
	ctx := c.Request().Context()
	lang := ActiveLang(c)

	posts, err := a.Resolver.Published(ctx)
	if err != nil {
		return err
	}
	categories, err := a.Cache.ListCategories(ctx)
	if err != nil {
		return err
	}

	category := c.QueryParam("category")
	if category != "" {
		posts = content.InCategory(posts, category)
	}

	page := 1
	if raw := c.QueryParam("page"); raw != "" {
		if page, err = strconv.Atoi(raw); err != nil || page < 1 {
			return echo.ErrNotFound
		}
	}
	size := a.Config.PageSize
	totalPages := max(1, (len(posts)+size-1)/size)
	if page > totalPages {
		return echo.ErrNotFound
	}
	start := (page - 1) * size
	end := min(start+size, len(posts))

	cards := make([]views.PostCard, 0, end-start)
	for _, p := range posts[start:end] {
		cards = append(cards, views.PostCard{
			Title:      p.TitleFor(lang),
			URL:        postPath(p, lang),
			Summary:    SEODescription(p.ContentFor(lang)),
			Date:       formatDate(p.PublishedAt),
			Categories: categoryLinks(p.Categories, lang, ""),
			Image:      a.featuredImage(ctx, p, lang),
		})
	}

	path := listPath(category, page)
	meta := a.pageMeta(c, a.Config.Name, a.Config.Description, a.canonicalURL(path, lang), "website")
	meta.Alternates = a.alternates(path, nil)
	meta.JSONLD = a.WebsiteJSONLD(lang)

	listPage := views.ListPage{
		Meta:       meta,
		Posts:      cards,
		Categories: append([]views.CategoryLink{{Name: views.T(lang, "all"), URL: "/", Active: category == ""}}, categoryLinks(categories, lang, category)...),
		Languages:  languageLinks(path, nil, lang),
		Page:       page,
		TotalPages: totalPages,
	}
	if page > 1 {
		listPage.PrevURL = listPath(category, page-1)
	}
	if page < totalPages {
		listPage.NextURL = listPath(category, page+1)
	}
	return Render(c, a.Views.List(listPage))
}

func (a *App) handleDetail(c echo.Context) error {
	ctx := c.Request().Context()
	lang := ActiveLang(c)

	slug, err := url.PathUnescape(c.Param("slug"))
	if err != nil {
		return echo.ErrNotFound
	}
	res, err := a.Resolver.Resolve(ctx, slug, lang)
	if err != nil {
		return err
	}

	switch res.Outcome {
	case content.Redirect:
		return c.Redirect(http.StatusMovedPermanently, "/"+PathEscape(res.Slug)+"/")
	case content.NotFound:
		return echo.ErrNotFound
	}

	p := res.Post
	path := postPath(p, lang)
	canonical := a.canonicalURL(path, lang)
	image := a.socialImageURL(ctx, p)

	meta := a.pageMeta(c, p.TitleFor(lang), SEODescription(p.ContentFor(lang)), canonical, "article")
	meta.Image = image
	meta.Alternates = a.alternates(path, postPaths(p))
	meta.JSONLD = a.ArticleJSONLD(p, lang, canonical, image)

	return Render(c, a.Views.Detail(views.DetailPage{
		Meta:       meta,
		Title:      p.TitleFor(lang),
		HTML:       RenderMarkdown(p.ContentFor(lang)),
		Date:       formatDate(p.PublishedAt),
		Categories: categoryLinks(p.Categories, lang, ""),
		Image:      a.featuredImage(ctx, p, lang),
		Languages:  languageLinks(path, postPaths(p), lang),
	}))
}

func (a *App) featuredImage(ctx context.Context, p content.Post, lang content.Lang) views.Image {
	if p.FeaturedImage == "" {
		return views.Image{}
	}
	return views.Image{
		Src:    a.Media.URL(p.FeaturedImage),
		Srcset: a.Images.Srcset(ctx, p.FeaturedImage),
		Alt:    p.TitleFor(lang),
	}
}

func categoryLinks(cats []content.Category, lang content.Lang, active string) []views.CategoryLink {
	out := make([]views.CategoryLink, 0, len(cats))
	for _, cat := range cats {
		slug := cat.SlugFor(lang)
		out = append(out, views.CategoryLink{
			Name:   cat.NameFor(lang),
			URL:    "/?category=" + url.QueryEscape(slug),
			Active: active != "" && (active == slug || active == cat.Slug),
		})
	}
	return out
}

func listPath(category string, page int) string {
	q := url.Values{}
	if category != "" {
		q.Set("category", category)
	}
	if page > 1 {
		q.Set("page", strconv.Itoa(page))
	}
	if len(q) == 0 {
		return "/"
	}
	return "/?" + q.Encode()
}

func formatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.UTC().Format(dateLayout)
}

func (a *App) handleSitemap(c echo.Context) error {
	posts, err := a.Resolver.Published(c.Request().Context())
	if err != nil {
		return err
	}
	return a.renderSitemap(c, posts)
}

func (a *App) handleFeed(c echo.Context) error {
	posts, err := a.Resolver.Published(c.Request().Context())
	if err != nil {
		return err
	}
	return a.renderRSS(c, posts, ActiveLang(c))
}

func (a *App) handleRobots(c echo.Context) error {
	body := fmt.Sprintf("User-agent: *\nAllow: /\nDisallow: /admin/\n\nSitemap: %s\n", a.absoluteURL("/sitemap.xml"))
	return c.String(http.StatusOK, body)
}

func (a *App) httpErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	lang := ActiveLang(c)
	var he *echo.HTTPError
	ok := errors.As(err, &he)
	if (ok && he.Code == http.StatusNotFound) || errors.Is(err, content.ErrNotFound) {
		_ = RenderStatus(c, http.StatusNotFound, a.Views.NotFound(lang))
		return
	}
	code := http.StatusInternalServerError
	if ok {
		code = he.Code
	}
	if code >= 500 {
		a.Log.Error().Err(err).
			Str("id", c.Response().Header().Get(echo.HeaderXRequestID)).
			Str("uri", c.Request().RequestURI).
			Msg("server error")
		_ = RenderStatus(c, code, a.Views.ServerError(lang))
		return
	}
	a.Echo.DefaultHTTPErrorHandler(err, c)
}
