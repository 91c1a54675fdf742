package mongostore

import (
	"context"
	"errors"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/hmdev/homesite"
)

// setupTestStore connects to the MongoDB named by MONGO_TEST_URL and uses a
// per-run database so parallel runs don't collide. The whole package is
// skipped when no server is available.
func setupTestStore(t *testing.T) *Store {
	t.Helper()
	uri := os.Getenv("MONGO_TEST_URL")
	if uri == "" {
		t.Skip("MONGO_TEST_URL not set; skipping mongo integration tests")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	dbName := fmt.Sprintf("homesite_test_%d", time.Now().UnixNano())
	s, err := Open(ctx, uri, dbName)
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	if !s.Ready(ctx) {
		t.Skipf("mongo at %s is not reachable", uri)
	}

	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = s.client.Database(dbName).Drop(ctx)
		_ = s.Close(ctx)
	})
	return s
}

func TestAllocateIDIsMonotonic(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	var last int64
	for i := 0; i < 5; i++ {
		id, err := s.AllocateID(ctx)
		if err != nil {
			t.Fatalf("AllocateID failed: %v", err)
		}
		if id <= last {
			t.Fatalf("AllocateID returned %d after %d, want strictly increasing ids", id, last)
		}
		last = id
	}
}

func TestInsertAndGet(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	post := homesite.BlogPost{
		ID:          1,
		Title:       "Test Post",
		Body:        "Some body.",
		HTML:        "<p>Some body.</p>",
		Slug:        "test-post-1",
		Teaser:      "Some body.",
		Public:      true,
		PublishedAt: time.Now().UTC().Truncate(time.Millisecond),
	}
	if err := s.Insert(ctx, post); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}

	got, err := s.Get(ctx, 1)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.Title != post.Title {
		t.Errorf("Title = %q, want %q", got.Title, post.Title)
	}
	if got.Slug != post.Slug {
		t.Errorf("Slug = %q, want %q", got.Slug, post.Slug)
	}
	if !got.Public {
		t.Errorf("Public = false, want true")
	}

	if _, err := s.Get(ctx, 99); !errors.Is(err, homesite.ErrNotFound) {
		t.Errorf("Get(99) error = %v, want ErrNotFound", err)
	}
}

func TestListFiltersAndOrders(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	posts := []homesite.BlogPost{
		{ID: 1, Title: "Public", Slug: "public-1", Public: true, Hidden: false},
		{ID: 2, Title: "Unlisted", Slug: "unlisted-2", Public: true, Hidden: true},
		{ID: 3, Title: "Private", Slug: "private-3", Public: false, Hidden: true},
	}
	for _, p := range posts {
		if err := s.Insert(ctx, p); err != nil {
			t.Fatalf("Insert failed: %v", err)
		}
	}

	all, err := s.List(ctx, homesite.ListFilter{})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("unfiltered list = %d posts, want 3", len(all))
	}
	for i, p := range all {
		if p.ID != int64(i+1) {
			t.Errorf("list[%d].ID = %d, want %d (id order)", i, p.ID, i+1)
		}
	}

	visible, err := s.List(ctx, homesite.ListFilter{Hidden: homesite.BoolPtr(false)})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(visible) != 1 || visible[0].ID != 1 {
		t.Errorf("visible list = %+v, want only post 1", visible)
	}

	sitemap, err := s.List(ctx, homesite.ListFilter{
		Public: homesite.BoolPtr(true),
		Hidden: homesite.BoolPtr(false),
	})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(sitemap) != 1 || sitemap[0].ID != 1 {
		t.Errorf("public visible list = %+v, want only post 1", sitemap)
	}
}

func TestUpdatePreservesViewCount(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	if err := s.Insert(ctx, homesite.BlogPost{ID: 1, Title: "Before", Slug: "before-1", Public: true}); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}
	for i := 0; i < 3; i++ {
		if err := s.IncrementViews(ctx, 1); err != nil {
			t.Fatalf("IncrementViews failed: %v", err)
		}
	}

	if err := s.Update(ctx, homesite.BlogPost{ID: 1, Title: "After", Slug: "after-1", Public: true}); err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	got, err := s.Get(ctx, 1)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.Title != "After" {
		t.Errorf("Title = %q, want After", got.Title)
	}
	if got.ViewCount != 3 {
		t.Errorf("ViewCount = %d, want 3 after update", got.ViewCount)
	}

	if err := s.Update(ctx, homesite.BlogPost{ID: 42, Title: "Ghost"}); !errors.Is(err, homesite.ErrNotFound) {
		t.Errorf("Update of missing post error = %v, want ErrNotFound", err)
	}
}

func TestDelete(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	if err := s.Insert(ctx, homesite.BlogPost{ID: 1, Slug: "gone-1"}); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}
	if err := s.Delete(ctx, 1); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := s.Get(ctx, 1); !errors.Is(err, homesite.ErrNotFound) {
		t.Errorf("Get after delete error = %v, want ErrNotFound", err)
	}
	if err := s.Delete(ctx, 1); !errors.Is(err, homesite.ErrNotFound) {
		t.Errorf("second Delete error = %v, want ErrNotFound", err)
	}
}

func TestIncrementViewsMissingPost(t *testing.T) {
	s := setupTestStore(t)

	if err := s.IncrementViews(context.Background(), 7); !errors.Is(err, homesite.ErrNotFound) {
		t.Errorf("IncrementViews error = %v, want ErrNotFound", err)
	}
}
