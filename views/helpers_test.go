package views

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/hmdev/homesite"
)

func TestWebsiteJsonLD(t *testing.T) {
	cfg := homesite.SiteConfig{
		Name:        "My Site",
		URL:         "https://example.com",
		Description: "A personal site",
		Author:      "Jo Author",
	}

	var data map[string]interface{}
	if err := json.Unmarshal([]byte(WebsiteJsonLD(cfg)), &data); err != nil {
		t.Fatalf("output is not valid json: %v", err)
	}
	if data["@type"] != "WebSite" {
		t.Errorf("@type = %v, want WebSite", data["@type"])
	}
	if data["url"] != "https://example.com/" {
		t.Errorf("url = %v, want a trailing slash", data["url"])
	}
	if data["name"] != "My Site" {
		t.Errorf("name = %v, want My Site", data["name"])
	}
}

func TestBlogPostingJsonLD(t *testing.T) {
	cfg := homesite.SiteConfig{
		Name:   "My Site",
		URL:    "https://example.com/",
		Author: "Jo Author",
	}
	post := homesite.BlogPost{
		ID:          3,
		Title:       "A Post",
		Slug:        "a-post-3",
		Teaser:      "Teaser text.",
		Public:      true,
		PublishedAt: time.Date(2025, 4, 1, 12, 0, 0, 0, time.UTC),
	}

	var data map[string]interface{}
	if err := json.Unmarshal([]byte(BlogPostingJsonLD(cfg, post)), &data); err != nil {
		t.Fatalf("output is not valid json: %v", err)
	}
	if data["@type"] != "BlogPosting" {
		t.Errorf("@type = %v, want BlogPosting", data["@type"])
	}
	if data["url"] != "https://example.com/blog/a-post-3" {
		t.Errorf("url = %v, want the canonical post url", data["url"])
	}
	if data["datePublished"] != "2025-04-01" {
		t.Errorf("datePublished = %v, want 2025-04-01", data["datePublished"])
	}
}
