package echofield

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/labstack/echo/v4"
	"golang.org/x/text/language"

	"github.com/eringen/echofield/content"
)

const (
	langCookie     = "lang"
	langContextKey = "echofield.lang"
	langCookieAge  = 60 * 60 * 24 * 365
)

// The first tag doubles as the matcher's fallback; DefaultLang is applied
// separately when nothing matches.
var langMatcher = language.NewMatcher([]language.Tag{language.English, language.Ukrainian})

// languageMiddleware stores the active language on the context. An explicit
// ?lang= choice wins and is remembered in a cookie, then the cookie, then
// Accept-Language, then DefaultLang.
func (a *App) languageMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		lang, explicit := a.pickLang(c.Request())
		c.Set(langContextKey, lang)
		if explicit {
			a.setLangCookie(c, lang)
		}
		c.Response().Header().Set("Content-Language", lang.String())
		return next(c)
	}
}

func (a *App) pickLang(r *http.Request) (content.Lang, bool) {
	if l, err := content.ParseLang(r.URL.Query().Get("lang")); err == nil {
		return l, true
	}
	if ck, err := r.Cookie(langCookie); err == nil {
		if l, err := content.ParseLang(ck.Value); err == nil {
			return l, false
		}
	}
	if l, ok := matchAcceptLanguage(r.Header.Get("Accept-Language")); ok {
		return l, false
	}
	return a.Config.DefaultLang, false
}

func matchAcceptLanguage(header string) (content.Lang, bool) {
	if header == "" {
		return "", false
	}
	tags, _, err := language.ParseAcceptLanguage(header)
	if err != nil || len(tags) == 0 {
		return "", false
	}
	tag, _, conf := langMatcher.Match(tags...)
	if conf == language.No {
		return "", false
	}
	base, _ := tag.Base()
	l, err := content.ParseLang(base.String())
	if err != nil {
		return "", false
	}
	return l, true
}

func (a *App) setLangCookie(c echo.Context, lang content.Lang) {
	c.SetCookie(&http.Cookie{
		Name:     langCookie,
		Value:    lang.String(),
		Path:     "/",
		MaxAge:   langCookieAge,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   a.Config.CookieSecure,
	})
}

// ActiveLang returns the language resolved for this request.
func ActiveLang(c echo.Context) content.Lang {
	if l, ok := c.Get(langContextKey).(content.Lang); ok {
		return l
	}
	return content.English
}

// handleSetLang switches the remembered language and returns to next.
func (a *App) handleSetLang(c echo.Context) error {
	lang, err := content.ParseLang(c.FormValue("language"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "unsupported language")
	}
	a.setLangCookie(c, lang)
	return c.Redirect(http.StatusSeeOther, safeNext(c.FormValue("next")))
}

// safeNext keeps redirects on this site.
func safeNext(next string) string {
	if next == "" || !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.HasPrefix(next, "/\\") {
		return "/"
	}
	u, err := url.Parse(next)
	if err != nil || u.Host != "" || u.Scheme != "" {
		return "/"
	}
	return next
}

// withLang returns rawURL with its lang query parameter set to lang.
func withLang(rawURL string, lang content.Lang) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}
	q := u.Query()
	q.Set("lang", lang.String())
	u.RawQuery = q.Encode()
	return u.String()
}
