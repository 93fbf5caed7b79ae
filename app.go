// Package echofield is a bilingual (English/Ukrainian) blog built with Go,
// Echo, and templ. It serves published posts under per-language slugs,
// keeps WebP variants of featured images in sync, and ships an admin for
// editing posts and categories.
package echofield

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/eringen/echofield/content"
	"github.com/eringen/echofield/imagevariant"
	"github.com/eringen/echofield/storage"
)

// App is the central echofield application. It wires together the store,
// cache, resolver, image variants, handlers, middleware, and templates.
type App struct {
	Config   SiteConfig
	Echo     *echo.Echo
	Store    *Store
	Cache    *PostCache
	Resolver *content.Resolver
	Images   *imagevariant.Synchronizer
	Media    storage.Storage
	Views    ViewFuncs
	Log      zerolog.Logger

	loginLimiter *LoginLimiter
	customRoutes []func(*App)
	staticDir    string
	serveMedia   bool
	now          func() time.Time
}

// New creates a new App with the given configuration and view functions.
// Nil entries in views fall back to DefaultViews.
func New(cfg SiteConfig, views ViewFuncs, opts ...Option) *App {
	cfg.setDefaults()
	views.fillDefaults()

	a := &App{
		Config:    cfg,
		Echo:      echo.New(),
		Views:     views,
		Log:       zerolog.Nop(),
		staticDir: "public",
		now:       time.Now,
	}
	a.Echo.HideBanner = true
	a.Echo.HidePort = true

	for _, opt := range opts {
		opt(a)
	}

	return a
}

// Init opens the database and media storage and registers middleware and
// routes. Start calls it; tests call it directly and drive a.Echo.
func (a *App) Init(ctx context.Context) error {
	if a.Config.AdminPassword == "" {
		return fmt.Errorf("echofield: AdminPassword is required")
	}
	if a.Config.SessionSecret == "" {
		return fmt.Errorf("echofield: SessionSecret is required")
	}

	store, err := NewStore(a.Config.DatabasePath)
	if err != nil {
		return fmt.Errorf("echofield: init store: %w", err)
	}
	a.Store = store

	if err := a.openMedia(ctx); err != nil {
		return fmt.Errorf("echofield: init media storage: %w", err)
	}

	a.Images = imagevariant.New(a.Media,
		imagevariant.WithVariants(a.Config.Variants),
		imagevariant.WithQuality(a.Config.WebPQuality),
		imagevariant.WithLogger(a.Log.With().Str("component", "imagevariant").Logger()),
	)
	a.Cache = NewPostCache(a.Store, a.Config.PostCacheTTL)
	a.Resolver = content.NewResolver(a.Cache, a.now)

	// Variants first so a failing hook can never leave a stale cache behind.
	a.Store.AddHook(variantHook{images: a.Images})
	a.Store.AddHook(a.Cache)

	a.loginLimiter = NewLoginLimiter(5, time.Minute)

	a.setupMiddleware()
	a.setupRoutes()
	for _, fn := range a.customRoutes {
		fn(a)
	}
	return nil
}

// Start initializes the app and serves until the server stops.
func (a *App) Start(ctx context.Context) error {
	if err := a.Init(ctx); err != nil {
		return err
	}
	a.Log.Info().Str("addr", a.Config.Addr).Str("storage", a.Config.Storage).Msg("echofield listening")
	if err := a.Echo.Start(a.Config.Addr); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (a *App) openMedia(ctx context.Context) error {
	if a.Media != nil {
		return nil
	}
	switch strings.ToLower(a.Config.Storage) {
	case "filesystem":
		fs, err := storage.NewFilesystem(a.Config.MediaDir, a.Config.MediaURL)
		if err != nil {
			return err
		}
		a.Media = fs
		a.serveMedia = true
	case "s3":
		s3, err := storage.NewS3(ctx, a.Config.S3)
		if err != nil {
			return err
		}
		a.Media = s3
	default:
		return fmt.Errorf("unknown storage backend %q", a.Config.Storage)
	}
	return nil
}

func (a *App) setupRoutes() {
	e := a.Echo

	e.Static("/public", a.staticDir)
	if a.serveMedia {
		e.Static(strings.TrimSuffix(a.Config.MediaURL, "/"), a.Config.MediaDir)
	}
	e.GET("/robots.txt", a.handleRobots)

	// Public routes
	e.GET("/sitemap.xml", a.handleSitemap)
	e.GET("/feed.xml", a.handleFeed)
	e.POST("/i18n/setlang/", a.handleSetLang)
	e.GET("/", a.handleList)
	e.GET("/:slug/", a.handleDetail)

	// Admin routes
	e.GET("/admin/", a.handleAdmin)
	e.POST("/admin/login/", a.handleAdminLogin)
	e.POST("/admin/logout/", handleAdminLogout)
	admin := e.Group("/admin", a.requireAdmin)
	admin.GET("/posts/new/", a.handleAdminNewPost)
	admin.GET("/posts/:id/", a.handleAdminEditPost)
	admin.POST("/posts/", a.handleAdminSavePost)
	admin.POST("/posts/:id/delete/", a.handleAdminDeletePost)
	admin.POST("/categories/", a.handleAdminSaveCategory)
	admin.POST("/categories/:id/delete/", a.handleAdminDeleteCategory)
}

// Close cleans up resources. Call this when the app is shutting down.
func (a *App) Close() error {
	if a.loginLimiter != nil {
		a.loginLimiter.Close()
	}
	if a.Store != nil {
		return a.Store.Close()
	}
	return nil
}

// variantHook runs the image variant synchronizer after post mutations.
// Failures are logged by the synchronizer and never reach the caller.
type variantHook struct {
	images *imagevariant.Synchronizer
}

func (h variantHook) PostSaved(ctx context.Context, post content.Post, previousImage string) {
	h.images.OnSave(ctx, post.FeaturedImage, previousImage)
}

func (h variantHook) PostDeleted(ctx context.Context, post content.Post) {
	h.images.OnDelete(ctx, post.FeaturedImage)
}
