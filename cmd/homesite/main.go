// Command homesite runs the personal website server. All configuration
// comes from environment variables (optionally a .env file); the homepage
// link and project lists load from JSON files the way the rest of the
// static content is user-owned.
package main

import (
	"context"
	"encoding/json"
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/hmdev/homesite"
	"github.com/hmdev/homesite/mongostore"
	"github.com/hmdev/homesite/views"
	"github.com/hmdev/homesite/visitlog"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file, using system environment")
	}

	cfg := homesite.SiteConfig{
		Name:          homesite.EnvOr("SITE_NAME", "Home"),
		URL:           strings.TrimSuffix(homesite.EnvOr("SITE_URL", "http://localhost:3000"), "/"),
		Description:   os.Getenv("SITE_DESCRIPTION"),
		Author:        os.Getenv("SITE_AUTHOR"),
		Addr:          homesite.EnvOr("ADDR", ":3000"),
		AdminUsername: mustEnv("BLOG_USERNAME"),
		AdminPassword: mustEnv("BLOG_PASSWORD"),
		SessionSecret: mustEnv("COOKIE_SECRET"),
		CookieSecure:  strings.EqualFold(os.Getenv("COOKIE_SECURE"), "true"),
		StaticDir:     homesite.EnvOr("STATIC_DIR", "static"),
		Production:    os.Getenv("ENV") == "production",
	}
	loadJSON("LINKS_FILE", "meta/links.json", &cfg.Links)
	loadJSON("PROJECTS_FILE", "meta/projects.json", &cfg.Projects)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	store, err := mongostore.Open(ctx,
		homesite.EnvOr("MONGO_URL", "mongodb://localhost:27017"),
		homesite.EnvOr("MONGO_DATABASE", "blogs"),
	)
	cancel()
	if err != nil {
		log.Fatal("open content store: ", err)
	}
	defer store.Close(context.Background())

	opts := []homesite.Option{homesite.WithStore(store)}

	if path := homesite.EnvOr("VISIT_LOG_PATH", "data/visits.db"); path != "off" {
		visits, err := visitlog.Open(path)
		if err != nil {
			log.Fatal("open visit log: ", err)
		}
		defer visits.Close()
		stop := visits.StartCleanupScheduler(365, 24*time.Hour)
		defer stop()
		opts = append(opts, homesite.WithVisitLog(visits, os.Getenv("MY_IP")))
	}

	app := homesite.New(cfg, views.Default(), opts...)
	defer app.Close()

	log.Printf("starting homesite on %s", cfg.Addr)
	if err := app.Start(); err != nil {
		log.Fatal(err)
	}
}

func mustEnv(key string) string {
	v := os.Getenv(key)
	if v == "" {
		log.Fatalf("required environment variable %s is not set", key)
	}
	return v
}

// loadJSON fills dst from the file named by the env var (or its default
// path). A missing file is fine; malformed JSON is not.
func loadJSON(envKey, fallback string, dst interface{}) {
	path := homesite.EnvOr(envKey, fallback)
	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Fatalf("read %s: %v", path, err)
		}
		return
	}
	if err := json.Unmarshal(data, dst); err != nil {
		log.Fatalf("parse %s: %v", path, err)
	}
}
