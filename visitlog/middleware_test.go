package visitlog

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
)

func newLoggedEcho(t *testing.T, ignoreIP string) (*echo.Echo, *Store) {
	t.Helper()
	s := setupTestStore(t)

	e := echo.New()
	e.Use(Middleware(s, ignoreIP))
	e.GET("/*", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})
	return e, s
}

func get(e *echo.Echo, path, ip string) {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if ip != "" {
		req.Header.Set(echo.HeaderXRealIP, ip)
	}
	e.ServeHTTP(httptest.NewRecorder(), req)
}

func TestMiddlewareLogsRequests(t *testing.T) {
	e, s := newLoggedEcho(t, "")

	get(e, "/", "")
	get(e, "/blog/some-post-1", "")

	entries, err := s.Recent(10)
	if err != nil {
		t.Fatalf("Recent failed: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("entries = %d, want 2", len(entries))
	}
}

func TestMiddlewareSkipsStaticPaths(t *testing.T) {
	e, s := newLoggedEcho(t, "")

	get(e, "/static/style.css", "")
	get(e, "/scripts/app.js", "")
	get(e, "/favicon.ico", "")
	get(e, "/favicon.svg", "")

	entries, err := s.Recent(10)
	if err != nil {
		t.Fatalf("Recent failed: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("entries = %d, want 0 for asset paths", len(entries))
	}
}

func TestMiddlewareSkipsIgnoredIP(t *testing.T) {
	own := "203.0.113.99"
	e, s := newLoggedEcho(t, own)

	get(e, "/", own)
	get(e, "/", "203.0.113.1")

	entries, err := s.Recent(10)
	if err != nil {
		t.Fatalf("Recent failed: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("entries = %d, want 1", len(entries))
	}
	if entries[0].IP != "203.0.113.1" {
		t.Errorf("logged ip = %q, want the non-ignored visitor", entries[0].IP)
	}
}
