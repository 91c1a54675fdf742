// Package homesite is a personal website: a homepage, a markdown-backed
// blog with cookie-gated authoring, per-post view counters, request/IP
// logging, and a sitemap, served over Echo with a MongoDB content store.
//
// Users provide their own templ components via the ViewFuncs struct; the
// package handles handler logic, middleware, and persistence.
package homesite

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/a-h/templ"
	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/tdewolff/minify/v2"
	mhtml "github.com/tdewolff/minify/v2/html"

	"github.com/hmdev/homesite/visitlog"
)

// ViewFuncs holds user-provided templ components that the handlers call
// when rendering pages. This is the inversion-of-control mechanism that
// keeps the rendering layer outside this package.
type ViewFuncs struct {
	Home        func(cfg SiteConfig, posts []BlogPost, authenticated bool) templ.Component
	Post        func(cfg SiteConfig, post BlogPost, page PostPage) templ.Component
	Editor      func(cfg SiteConfig, form EditorForm) templ.Component
	NotFound    func(cfg SiteConfig) templ.Component
	ServerError func(cfg SiteConfig, message string) templ.Component
}

// App is the central application. It wires together the content store, the
// session gate, the request log, and the user-provided templates.
type App struct {
	Config SiteConfig
	Echo   *echo.Echo
	Store  ContentStore
	Views  ViewFuncs

	verifier      CredentialVerifier
	loginLimiter  *loginLimiter
	listing       *listingCache
	visits        *visitlog.Store
	visitIgnoreIP string
	customRoutes  []func(*App)
}

// New creates an App with the given configuration and view functions.
// A content store must be supplied with WithStore before Start.
func New(cfg SiteConfig, views ViewFuncs, opts ...Option) *App {
	cfg.setDefaults()

	a := &App{
		Config: cfg,
		Echo:   echo.New(),
		Views:  views,
	}

	for _, opt := range opts {
		opt(a)
	}

	return a
}

// Start finishes wiring and runs the HTTP server until it is shut down.
func (a *App) Start() error {
	if err := a.init(); err != nil {
		return err
	}
	if err := a.Echo.Start(a.Config.Addr); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Handler finishes wiring and returns the HTTP handler without starting a
// server, for tests and embedded use.
func (a *App) Handler() (http.Handler, error) {
	if err := a.init(); err != nil {
		return nil, err
	}
	return a.Echo, nil
}

// init validates required config and sets up middleware and routes. Kept
// separate from Start so tests can drive the echo instance directly.
func (a *App) init() error {
	if a.Store == nil {
		return fmt.Errorf("homesite: a content store is required (use WithStore)")
	}
	if a.Config.SessionSecret == "" {
		return fmt.Errorf("homesite: SessionSecret is required")
	}
	if a.verifier == nil {
		if a.Config.AdminUsername == "" || a.Config.AdminPassword == "" {
			return fmt.Errorf("homesite: AdminUsername and AdminPassword are required")
		}
		a.verifier = StaticVerifier{
			Username: a.Config.AdminUsername,
			Password: a.Config.AdminPassword,
		}
	}

	a.loginLimiter = newLoginLimiter(5, time.Minute)
	a.listing = newListingCache(a.Store, a.Config.ListingCacheTTL)

	a.setupMiddleware()
	a.setupRoutes()

	for _, fn := range a.customRoutes {
		fn(a)
	}
	return nil
}

func (a *App) setupMiddleware() {
	e := a.Echo

	e.IPExtractor = echo.ExtractIPFromXFFHeader(
		echo.TrustLoopback(true),
		echo.TrustLinkLocal(false),
		echo.TrustPrivateNet(true),
	)

	e.HTTPErrorHandler = a.httpErrorHandler

	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogStatus:  true,
		LogURI:     true,
		LogMethod:  true,
		LogLatency: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			c.Logger().Infof("%s %s -> %d (%s)", v.Method, v.URI, v.Status, v.Latency)
			return nil
		},
	}))

	e.Use(middleware.Recover())

	if a.visits != nil {
		e.Use(visitlog.Middleware(a.visits, a.visitIgnoreIP))
	}

	e.Use(middleware.GzipWithConfig(middleware.GzipConfig{
		Level: 5,
		Skipper: func(c echo.Context) bool {
			path := c.Request().URL.Path
			// the sitemap handler writes its own gzip stream
			return strings.HasPrefix(path, "/static/") || path == "/blog/sitemap.xml"
		},
	}))

	// No Content-Security-Policy: the templates are user-owned and inline
	// scripts/styles are common in them.
	e.Use(middleware.SecureWithConfig(middleware.SecureConfig{
		XSSProtection:      "1; mode=block",
		ContentTypeNosniff: "nosniff",
		XFrameOptions:      "SAMEORIGIN",
		ReferrerPolicy:     "strict-origin-when-cross-origin",
		HSTSMaxAge:         31536000,
	}))

	e.Use(session.Middleware(a.newSessionStore()))

	m := minify.New()
	m.AddFunc("text/html", mhtml.Minify)
	e.Use(echo.WrapMiddleware(m.Middleware))

	e.Use(cacheControlMiddleware)
}

func (a *App) setupRoutes() {
	e := a.Echo

	e.Static("/static", a.Config.StaticDir)
	e.GET("/robots.txt", a.handleRobots)

	e.GET("/", a.handleHome)

	e.GET("/blog/sitemap.xml", a.handleSitemap)
	e.GET("/blog/login", a.handleLogin)
	e.GET("/blog/logout", handleLogout)
	e.GET("/blog/new", a.handleNew)
	e.GET("/blog/edit/:slug", a.handleEdit)
	e.GET("/blog/delete/:slug", a.handleDelete)
	e.POST("/blog/submit", a.handleSubmit)
	e.POST("/blog/preview", a.handlePreview)

	e.GET("/blog/images", a.handleImageList)
	e.POST("/blog/images/upload", a.handleImageUpload)
	e.DELETE("/blog/images/:filename", a.handleImageDelete)

	e.GET("/blog/:slug", a.handlePost)
	e.GET("/blog/:slug/increase_counter", a.handleIncreaseCounter)
}

// httpErrorHandler translates the error taxonomy into HTTP responses:
// NotFound renders the 404 page, Forbidden stays a plain 403 (confirming
// the post exists, unlike a 404), Unavailable is an explicit 500, and
// anything else is logged and surfaced as a generic failure.
func (a *App) httpErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	switch {
	case errors.Is(err, ErrNotFound):
		_ = RenderStatus(c, http.StatusNotFound, a.Views.NotFound(a.Config))
		return
	case errors.Is(err, ErrForbidden):
		_ = c.String(http.StatusForbidden, "You don't have access to this blog.")
		return
	case errors.Is(err, ErrUnavailable):
		_ = RenderStatus(c, http.StatusInternalServerError,
			a.Views.ServerError(a.Config, "No connection to the blog database."))
		return
	}
	he, ok := err.(*echo.HTTPError)
	if ok && he.Code == http.StatusNotFound {
		_ = RenderStatus(c, http.StatusNotFound, a.Views.NotFound(a.Config))
		return
	}
	code := http.StatusInternalServerError
	if ok {
		code = he.Code
	}
	if code >= 500 {
		c.Logger().Errorf("server error: %v", err)
		_ = RenderStatus(c, code, a.Views.ServerError(a.Config, ""))
		return
	}
	a.Echo.DefaultHTTPErrorHandler(err, c)
}

// handleRobots generates robots.txt dynamically using the site URL.
func (a *App) handleRobots(c echo.Context) error {
	body := fmt.Sprintf(
		"User-agent: *\nAllow: /\nDisallow: /blog/new\nDisallow: /blog/edit/\nDisallow: /blog/delete/\n\nSitemap: %s/blog/sitemap.xml\n",
		a.Config.URL)
	return c.String(http.StatusOK, body)
}

// cacheControlMiddleware sets Cache-Control only where it is safe: static
// assets and the sitemap are shared-cacheable, authoring pages are not.
// Post pages carry no cache headers at all, since whether a response exists
// depends on the caller's session.
func cacheControlMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		path := c.Request().URL.Path
		switch {
		case strings.HasPrefix(path, "/static/"):
			c.Response().Header().Set("Cache-Control", "public, max-age=31536000, immutable")
		case path == "/blog/sitemap.xml" || path == "/robots.txt":
			c.Response().Header().Set("Cache-Control", "public, max-age=86400")
		case strings.HasPrefix(path, "/blog/new") ||
			strings.HasPrefix(path, "/blog/edit/") ||
			strings.HasPrefix(path, "/blog/delete/") ||
			strings.HasPrefix(path, "/blog/images") ||
			strings.HasPrefix(path, "/blog/login"):
			c.Response().Header().Set("Cache-Control", "no-store")
		}
		return next(c)
	}
}

// Close cleans up resources. Call when the app is shutting down.
func (a *App) Close() error {
	if a.visits != nil {
		a.visits.Close()
	}
	return nil
}

// EnvOr returns the value of the environment variable key, or fallback if
// empty.
func EnvOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
