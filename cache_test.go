package homesite

import (
	"context"
	"errors"
	"testing"
	"time"
)

// countingStore records List calls; every other ContentStore method is
// unreachable from the listing cache.
type countingStore struct {
	calls int
	posts []BlogPost
	err   error
}

func (s *countingStore) List(ctx context.Context, filter ListFilter) ([]BlogPost, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return s.posts, nil
}

func (s *countingStore) Ready(ctx context.Context) bool                  { return true }
func (s *countingStore) AllocateID(ctx context.Context) (int64, error)   { return 0, nil }
func (s *countingStore) Get(ctx context.Context, id int64) (BlogPost, error) {
	return BlogPost{}, ErrNotFound
}
func (s *countingStore) Insert(ctx context.Context, post BlogPost) error { return nil }
func (s *countingStore) Update(ctx context.Context, post BlogPost) error { return nil }
func (s *countingStore) Delete(ctx context.Context, id int64) error      { return nil }
func (s *countingStore) IncrementViews(ctx context.Context, id int64) error {
	return nil
}
func (s *countingStore) Close(ctx context.Context) error { return nil }

func TestListingCacheServesFromCache(t *testing.T) {
	store := &countingStore{posts: []BlogPost{{ID: 1, Title: "One"}}}
	cache := newListingCache(store, time.Minute)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		posts, err := cache.List(ctx)
		if err != nil {
			t.Fatalf("List failed: %v", err)
		}
		if len(posts) != 1 || posts[0].Title != "One" {
			t.Fatalf("unexpected listing: %+v", posts)
		}
	}
	if store.calls != 1 {
		t.Errorf("store calls = %d, want 1", store.calls)
	}
}

func TestListingCacheInvalidate(t *testing.T) {
	store := &countingStore{posts: []BlogPost{{ID: 1}}}
	cache := newListingCache(store, time.Minute)
	ctx := context.Background()

	if _, err := cache.List(ctx); err != nil {
		t.Fatalf("List failed: %v", err)
	}
	cache.Invalidate()
	if _, err := cache.List(ctx); err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if store.calls != 2 {
		t.Errorf("store calls = %d, want 2 after invalidation", store.calls)
	}
}

func TestListingCacheExpires(t *testing.T) {
	store := &countingStore{posts: []BlogPost{{ID: 1}}}
	cache := newListingCache(store, 50*time.Millisecond)
	ctx := context.Background()

	if _, err := cache.List(ctx); err != nil {
		t.Fatalf("List failed: %v", err)
	}
	time.Sleep(80 * time.Millisecond)
	if _, err := cache.List(ctx); err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if store.calls != 2 {
		t.Errorf("store calls = %d, want 2 after the ttl elapsed", store.calls)
	}
}

func TestListingCacheDoesNotCacheErrors(t *testing.T) {
	store := &countingStore{err: errors.New("down")}
	cache := newListingCache(store, time.Minute)
	ctx := context.Background()

	if _, err := cache.List(ctx); err == nil {
		t.Fatalf("expected the store error to pass through")
	}
	store.err = nil
	store.posts = []BlogPost{{ID: 1}}
	posts, err := cache.List(ctx)
	if err != nil {
		t.Fatalf("List failed after recovery: %v", err)
	}
	if len(posts) != 1 {
		t.Errorf("listing = %+v, want the recovered post", posts)
	}
	if store.calls != 2 {
		t.Errorf("store calls = %d, want 2", store.calls)
	}
}
