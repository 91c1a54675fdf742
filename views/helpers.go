package views

import (
	"encoding/json"
	"strings"

	"github.com/hmdev/homesite"
)

// WebsiteJsonLD produces a Schema.org WebSite JSON-LD block for the
// homepage head.
func WebsiteJsonLD(cfg homesite.SiteConfig) string {
	data := map[string]interface{}{
		"@context": "https://schema.org",
		"@type":    "WebSite",
		"name":     cfg.Name,
		"url":      strings.TrimSuffix(cfg.URL, "/") + "/",
	}
	if cfg.Description != "" {
		data["description"] = cfg.Description
	}
	if cfg.Author != "" {
		data["author"] = map[string]string{
			"@type": "Person",
			"name":  cfg.Author,
		}
	}
	b, err := json.Marshal(data)
	if err != nil {
		return "{}"
	}
	return string(b)
}

// BlogPostingJsonLD produces a Schema.org BlogPosting JSON-LD block for a
// post page. Only public posts should embed it; hidden or private pages
// are not meant for search engines.
func BlogPostingJsonLD(cfg homesite.SiteConfig, post homesite.BlogPost) string {
	postURL := strings.TrimSuffix(cfg.URL, "/") + post.Link()
	data := map[string]interface{}{
		"@context":      "https://schema.org",
		"@type":         "BlogPosting",
		"headline":      post.Title,
		"description":   post.Teaser,
		"datePublished": post.PublishedAt.Format("2006-01-02"),
		"url":           postURL,
		"mainEntityOfPage": map[string]string{
			"@type": "WebPage",
			"@id":   postURL,
		},
	}
	if cfg.Author != "" {
		data["author"] = map[string]string{
			"@type": "Person",
			"name":  cfg.Author,
		}
	}
	if cfg.Name != "" {
		data["publisher"] = map[string]string{
			"@type": "Organization",
			"name":  cfg.Name,
		}
	}
	b, err := json.Marshal(data)
	if err != nil {
		return "{}"
	}
	return string(b)
}
