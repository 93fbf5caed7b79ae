package echofield

import (
	"encoding/xml"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/eringen/echofield/content"
)

const feedLimit = 50

type rssXML struct {
	XMLName xml.Name   `xml:"rss"`
	Version string     `xml:"version,attr"`
	Channel rssChannel `xml:"channel"`
}

type rssChannel struct {
	Title       string    `xml:"title"`
	Link        string    `xml:"link"`
	Description string    `xml:"description"`
	Language    string    `xml:"language"`
	Items       []rssItem `xml:"item"`
}

type rssItem struct {
	Title       string     `xml:"title"`
	Link        string     `xml:"link"`
	Description string     `xml:"description"`
	PubDate     string     `xml:"pubDate,omitempty"`
	GUID        string     `xml:"guid"`
	Enclosure   *enclosure `xml:"enclosure,omitempty"`
}

type enclosure struct {
	URL  string `xml:"url,attr"`
	Type string `xml:"type,attr"`
}

func (a *App) renderRSS(c echo.Context, posts []content.Post, lang content.Lang) error {
	ctx := c.Request().Context()
	if len(posts) > feedLimit {
		posts = posts[:feedLimit]
	}
	items := make([]rssItem, 0, len(posts))
	for _, p := range posts {
		link := a.canonicalURL(postPath(p, lang), lang)
		item := rssItem{
			Title:       p.TitleFor(lang),
			Link:        link,
			Description: SEODescription(p.ContentFor(lang)),
			GUID:        link,
		}
		if p.PublishedAt != nil {
			item.PubDate = p.PublishedAt.UTC().Format(time.RFC1123Z)
		}
		if img := a.socialImageURL(ctx, p); img != "" {
			item.Enclosure = &enclosure{URL: img, Type: mimeByName(img)}
		}
		items = append(items, item)
	}
	feed := rssXML{
		Version: "2.0",
		Channel: rssChannel{
			Title:       a.Config.Name,
			Link:        a.canonicalURL("/", lang),
			Description: a.Config.Description,
			Language:    lang.String(),
			Items:       items,
		},
	}
	c.Response().Header().Set(echo.HeaderContentType, "application/rss+xml; charset=utf-8")
	c.Response().WriteHeader(http.StatusOK)
	if _, err := c.Response().Write([]byte(xml.Header)); err != nil {
		return err
	}
	return xml.NewEncoder(c.Response()).Encode(feed)
}
