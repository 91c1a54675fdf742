package homesite

import (
	"compress/gzip"
	"encoding/xml"
	"net/http"

	"github.com/labstack/echo/v4"
)

type sitemapURLSet struct {
	XMLName xml.Name     `xml:"urlset"`
	XMLNS   string       `xml:"xmlns,attr"`
	URLs    []sitemapURL `xml:"url"`
}

type sitemapURL struct {
	Loc        string  `xml:"loc"`
	ChangeFreq string  `xml:"changefreq,omitempty"`
	Priority   float64 `xml:"priority,omitempty"`
}

// handleSitemap streams a gzip-compressed XML sitemap of the posts that are
// public and not hidden. Unlike the homepage listing, this fails closed
// with an explicit error when the store is down.
func (a *App) handleSitemap(c echo.Context) error {
	ctx := c.Request().Context()
	if !a.Store.Ready(ctx) {
		return ErrUnavailable
	}

	posts, err := a.Store.List(ctx, ListFilter{
		Public: BoolPtr(true),
		Hidden: BoolPtr(false),
	})
	if err != nil {
		return err
	}

	urls := make([]sitemapURL, 0, len(posts))
	for _, p := range posts {
		urls = append(urls, sitemapURL{
			Loc:        a.Config.URL + p.Link(),
			ChangeFreq: "daily",
			Priority:   0.7,
		})
	}
	sitemap := sitemapURLSet{
		XMLNS: "http://www.sitemaps.org/schemas/sitemap/0.9",
		URLs:  urls,
	}

	c.Response().Header().Set(echo.HeaderContentType, "application/xml; charset=utf-8")
	c.Response().Header().Set("Content-Encoding", "gzip")
	c.Response().WriteHeader(http.StatusOK)

	gz := gzip.NewWriter(c.Response())
	if _, err := gz.Write([]byte(xml.Header)); err != nil {
		return err
	}
	if err := xml.NewEncoder(gz).Encode(sitemap); err != nil {
		return err
	}
	return gz.Close()
}
