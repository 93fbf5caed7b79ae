package echofield

import (
	"encoding/xml"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/eringen/echofield/content"
)

type sitemapURLSet struct {
	XMLName xml.Name     `xml:"urlset"`
	XMLNS   string       `xml:"xmlns,attr"`
	URLs    []sitemapURL `xml:"url"`
}

type sitemapURL struct {
	Loc        string `xml:"loc"`
	LastMod    string `xml:"lastmod,omitempty"`
	ChangeFreq string `xml:"changefreq,omitempty"`
	Priority   string `xml:"priority,omitempty"`
}

// renderSitemap lists the home page and every published post once per
// language, each under its localized slug.
func (a *App) renderSitemap(c echo.Context, posts []content.Post) error {
	urls := make([]sitemapURL, 0, 1+len(posts)*len(content.Languages))
	urls = append(urls, sitemapURL{Loc: BuildURL(a.Config.URL), ChangeFreq: "daily"})
	for _, p := range posts {
		lastMod := ""
		switch {
		case !p.UpdatedAt.IsZero():
			lastMod = p.UpdatedAt.UTC().Format(dateLayout)
		case p.PublishedAt != nil:
			lastMod = p.PublishedAt.UTC().Format(dateLayout)
		}
		for _, l := range content.Languages {
			urls = append(urls, sitemapURL{
				Loc:        a.canonicalURL(postPath(p, l), l),
				LastMod:    lastMod,
				ChangeFreq: "weekly",
				Priority:   "0.8",
			})
		}
	}
	sitemap := sitemapURLSet{
		XMLNS: "http://www.sitemaps.org/schemas/sitemap/0.9",
		URLs:  urls,
	}
	c.Response().Header().Set(echo.HeaderContentType, "application/xml; charset=utf-8")
	c.Response().WriteHeader(http.StatusOK)
	if _, err := c.Response().Write([]byte(xml.Header)); err != nil {
		return err
	}
	return xml.NewEncoder(c.Response()).Encode(sitemap)
}
