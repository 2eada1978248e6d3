// Package kkumttre is the web site of the 꿈뜨레 community nonprofit, built
// with Go, Echo, and templ. It serves the informational pages, a writable
// board of notices, projects and donation news, and the donation account
// page.
//
// Posts and settings live as serialized snapshots in a durable key-value
// area (SQLite, Redis, or memory). Uploaded images are scaled down and
// embedded into posts as JPEG data URLs.
package kkumttre

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"time"

	"github.com/labstack/echo/v4"
	log "github.com/sirupsen/logrus"

	"github.com/kkumttre/kkumttre/board"
	"github.com/kkumttre/kkumttre/ingest"
	"github.com/kkumttre/kkumttre/settings"
	"github.com/kkumttre/kkumttre/storage"
)

// App is the central application. It wires together the storage backend,
// the stores, the image pipeline, handlers and middleware.
type App struct {
	Config   SiteConfig
	Echo     *echo.Echo
	Log      *log.Logger
	Board    *board.Store
	Settings *settings.Store
	Images   *ingest.Pipeline

	backend      storage.Backend
	ownsBackend  bool
	writeLimiter *WriteLimiter
	customRoutes []func(*App)
	now          func() time.Time
	ready        bool
}

// New creates an App with the given configuration.
func New(cfg SiteConfig, opts ...Option) *App {
	cfg.setDefaults()

	a := &App{
		Config:      cfg,
		Echo:        echo.New(),
		ownsBackend: true,
		now:         time.Now,
	}
	a.Echo.HideBanner = true

	for _, opt := range opts {
		opt(a)
	}

	return a
}

// Init opens storage and the stores, then installs middleware and routes.
// Start calls it when it has not run yet.
func (a *App) Init(ctx context.Context) error {
	if a.ready {
		return nil
	}
	if a.Log == nil {
		l, err := NewLogger(a.Config.LogLevel, a.Config.LogFile)
		if err != nil {
			return err
		}
		a.Log = l
	}
	if a.Config.SessionSecret == "" {
		secret := make([]byte, 32)
		if _, err := rand.Read(secret); err != nil {
			return fmt.Errorf("kkumttre: session secret: %w", err)
		}
		a.Config.SessionSecret = string(secret)
		a.Log.Warn("no session secret configured; flash messages will not survive a restart")
	}

	if a.backend == nil {
		b, err := storage.Open(ctx, a.Config.Storage)
		if err != nil {
			return fmt.Errorf("kkumttre: open storage: %w", err)
		}
		a.backend = b
		a.ownsBackend = true
	}

	var err error
	a.Board, err = board.Open(ctx, a.backend, a.Config.PostsKey, a.Log.WithField("store", "board"))
	if err != nil {
		return fmt.Errorf("kkumttre: open board: %w", err)
	}
	a.Settings, err = settings.Open(ctx, a.backend, a.Config.SettingsKey, a.Log.WithField("store", "settings"))
	if err != nil {
		return fmt.Errorf("kkumttre: open settings: %w", err)
	}

	a.Images = ingest.NewPipeline(a.Config.ImageMaxWidth, a.Config.ImageQuality)
	a.Images.MaxPixels = a.Config.ImageMaxPixels
	a.writeLimiter = NewWriteLimiter(a.Config.WriteLimit, a.Config.WriteWindow)

	a.setupMiddleware()
	a.setupRoutes()
	for _, fn := range a.customRoutes {
		fn(a)
	}

	a.Log.WithFields(log.Fields{
		"storage": a.Config.Storage.Driver,
		"posts":   len(a.Board.All()),
	}).Info("site initialized")
	a.ready = true
	return nil
}

// Start initializes the App if needed and serves HTTP until the server is shut down.
func (a *App) Start() error {
	if err := a.Init(context.Background()); err != nil {
		return err
	}
	a.Log.WithField("addr", a.Config.Addr).Info("listening")
	if err := a.Echo.Start(a.Config.Addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops the HTTP server gracefully.
func (a *App) Shutdown(ctx context.Context) error {
	return a.Echo.Shutdown(ctx)
}

func (a *App) setupRoutes() {
	e := a.Echo

	assets, _ := fs.Sub(EmbeddedAssets, "embedded")
	e.StaticFS("/public", assets)
	e.GET("/robots.txt", a.handleRobots)
	e.GET("/healthz", a.handleHealth)

	e.GET("/sitemap.xml", a.handleSitemap)
	e.GET("/feed.xml", a.handleFeed)

	e.GET("/", a.handleHome)
	e.GET("/intro/", redirectTo("/intro/greetings/"))
	e.GET("/intro/greetings/", a.handleGreetings)
	e.GET("/intro/history/", a.handleHistory)

	e.GET("/board/:type/", a.handleBoardList)
	e.GET("/board/:type/write/", a.handleWriteForm)
	e.POST("/board/:type/write/", a.handleWriteSubmit)
	e.GET("/board/:type/:id/", a.handlePost)
	e.POST("/board/:type/:id/delete/", a.handleDelete)

	e.GET("/donation/", redirectTo("/donation/account/"))
	e.GET("/donation/account/", a.handleAccount)
	e.POST("/donation/account/", a.handleAccountSave)
}

// Close releases the limiter and, unless it was injected, the storage backend.
func (a *App) Close() error {
	if a.writeLimiter != nil {
		a.writeLimiter.Stop()
	}
	if a.backend != nil && a.ownsBackend {
		return a.backend.Close()
	}
	return nil
}

// EnvOr returns the value of the environment variable key, or fallback if empty.
func EnvOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// MustEnv returns the value of the environment variable key, or fatally exits if empty.
func MustEnv(key string) string {
	v := os.Getenv(key)
	if v == "" {
		log.Fatalf("kkumttre: required environment variable %s is not set", key)
	}
	return v
}
