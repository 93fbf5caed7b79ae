package echofield

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/eringen/echofield/content"
	"github.com/eringen/echofield/imagevariant"
	"github.com/eringen/echofield/storage"
)

// SiteConfig holds all configuration for an echofield site.
type SiteConfig struct {
	Name        string // Site name (default "EchoField")
	URL         string // Canonical URL (default "http://localhost:3000")
	Description string // Site description for RSS and meta tags
	Author      string // Author/publisher name for JSON-LD

	Addr         string // Listen address (default ":3000")
	DatabasePath string // SQLite path (default "data/echofield.db")

	AdminPassword string // Required: admin login password
	SessionSecret string // Required: session encryption secret
	CookieSecure  bool   // Set true for HTTPS

	PostCacheTTL time.Duration // Post cache TTL (default 5min)
	PageSize     int           // Posts per list page (default 20)
	DefaultLang  content.Lang  // Fallback display language (default "en")

	Storage  string // "filesystem" (default) or "s3"
	MediaDir string // Filesystem media root (default "media")
	MediaURL string // Public URL prefix for media (default "/media/")
	S3       storage.S3Config

	Variants    []imagevariant.Variant // default 1x=1280, 2x=2048
	WebPQuality int                    // default 82
}

func (c *SiteConfig) setDefaults() {
	if c.Name == "" {
		c.Name = "EchoField"
	}
	if c.URL == "" {
		c.URL = "http://localhost:3000"
	}
	if c.Addr == "" {
		c.Addr = ":3000"
	}
	if c.DatabasePath == "" {
		c.DatabasePath = "data/echofield.db"
	}
	if c.PostCacheTTL == 0 {
		c.PostCacheTTL = 5 * time.Minute
	}
	if c.PageSize <= 0 {
		c.PageSize = 20
	}
	if !c.DefaultLang.Valid() {
		c.DefaultLang = content.English
	}
	if c.Storage == "" {
		c.Storage = "filesystem"
	}
	if c.MediaDir == "" {
		c.MediaDir = "media"
	}
	if c.MediaURL == "" {
		c.MediaURL = "/media/"
	}
	if c.S3.Prefix == "" {
		c.S3.Prefix = "media"
	}
	if len(c.Variants) == 0 {
		c.Variants = imagevariant.DefaultVariants
	}
	if c.WebPQuality == 0 {
		c.WebPQuality = imagevariant.DefaultQuality
	}
}

// Option configures additional App behavior.
type Option func(*App)

// WithCustomRoutes registers additional routes on the Echo instance.
// The callback receives the App before the server starts.
func WithCustomRoutes(fn func(*App)) Option {
	return func(a *App) {
		a.customRoutes = append(a.customRoutes, fn)
	}
}

// WithStaticDir sets the directory for user-owned static assets (default "public").
func WithStaticDir(dir string) Option {
	return func(a *App) {
		a.staticDir = dir
	}
}

// WithLogger sets the application logger.
func WithLogger(l zerolog.Logger) Option {
	return func(a *App) {
		a.Log = l
	}
}

// WithMediaStorage overrides the blob storage built from the config.
func WithMediaStorage(s storage.Storage) Option {
	return func(a *App) {
		a.Media = s
	}
}

// WithClock overrides the clock used for the publication predicate.
func WithClock(now func() time.Time) Option {
	return func(a *App) {
		a.now = now
	}
}
