package homesite

import (
	"time"

	"github.com/hmdev/homesite/visitlog"
)

// SiteLink is one entry of the homepage link list.
type SiteLink struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// SiteProject is one entry of the homepage project showcase.
type SiteProject struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	URL         string `json:"url"`
}

// SiteConfig holds all configuration for the site. It is built once at
// startup and passed into New; nothing mutates it afterwards.
type SiteConfig struct {
	Name        string // site name for titles and meta tags
	URL         string // canonical URL (default "http://localhost:3000")
	Description string
	Author      string

	Links    []SiteLink    // homepage link list
	Projects []SiteProject // homepage project showcase

	Addr string // listen address (default ":3000")

	AdminUsername string // required: authoring username
	AdminPassword string // required unless WithVerifier is used
	SessionSecret string // required: HMAC key for the session cookie
	CookieSecure  bool   // set true behind HTTPS

	StaticDir  string // user-owned static assets (default "static")
	UploadsDir string // editor image uploads (default "static/uploads")

	ListingCacheTTL time.Duration // anonymous listing cache TTL (default 1min)

	Production bool // gates analytics snippets in templates
}

func (c *SiteConfig) setDefaults() {
	if c.Name == "" {
		c.Name = "Home"
	}
	if c.URL == "" {
		c.URL = "http://localhost:3000"
	}
	if c.Addr == "" {
		c.Addr = ":3000"
	}
	if c.StaticDir == "" {
		c.StaticDir = "static"
	}
	if c.UploadsDir == "" {
		c.UploadsDir = c.StaticDir + "/uploads"
	}
	if c.ListingCacheTTL == 0 {
		c.ListingCacheTTL = time.Minute
	}
}

// Option configures additional App behavior.
type Option func(*App)

// WithStore injects the content store. Required before Start.
func WithStore(s ContentStore) Option {
	return func(a *App) {
		a.Store = s
	}
}

// WithVerifier replaces the default static credential check. Use this to
// plug in hashed or multi-user verification without reshaping handlers.
func WithVerifier(v CredentialVerifier) Option {
	return func(a *App) {
		a.verifier = v
	}
}

// WithVisitLog enables request logging to the given store. Requests from
// ignoreIP (the author's own address, typically) are skipped.
func WithVisitLog(s *visitlog.Store, ignoreIP string) Option {
	return func(a *App) {
		a.visits = s
		a.visitIgnoreIP = ignoreIP
	}
}

// WithCustomRoutes registers additional routes before the server starts.
func WithCustomRoutes(fn func(*App)) Option {
	return func(a *App) {
		a.customRoutes = append(a.customRoutes, fn)
	}
}
