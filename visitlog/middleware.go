package visitlog

import (
	"strings"

	"github.com/labstack/echo/v4"
)

// Middleware logs every request to the store except static-asset paths and
// requests from ignoreIP. Logging failures never fail the request.
func Middleware(s *Store, ignoreIP string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			path := req.URL.Path
			if skipPath(path) || (ignoreIP != "" && c.RealIP() == ignoreIP) {
				return next(c)
			}
			if err := s.Add(req.Method, path, c.RealIP(), req.UserAgent()); err != nil {
				c.Logger().Errorf("visit log: %v", err)
			}
			return next(c)
		}
	}
}

func skipPath(path string) bool {
	return strings.HasPrefix(path, "/static") ||
		strings.HasPrefix(path, "/scripts") ||
		path == "/favicon.svg" ||
		path == "/favicon.ico"
}
