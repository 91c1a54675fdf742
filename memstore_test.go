package homesite_test

import (
	"context"
	"sort"
	"sync"

	"github.com/hmdev/homesite"
)

// memStore is an in-memory ContentStore used by the handler tests. The
// ready flag can be flipped to simulate a lost database connection.
type memStore struct {
	mu     sync.Mutex
	posts  map[int64]homesite.BlogPost
	nextID int64
	ready  bool
}

func newMemStore() *memStore {
	return &memStore{posts: make(map[int64]homesite.BlogPost), ready: true}
}

func (s *memStore) setReady(ready bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ready = ready
}

func (s *memStore) seed(post homesite.BlogPost) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.posts[post.ID] = post
	if post.ID > s.nextID {
		s.nextID = post.ID
	}
}

func (s *memStore) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.posts)
}

func (s *memStore) viewCount(id int64) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.posts[id].ViewCount
}

func (s *memStore) Ready(ctx context.Context) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ready
}

func (s *memStore) AllocateID(ctx context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.ready {
		return 0, homesite.ErrUnavailable
	}
	s.nextID++
	return s.nextID, nil
}

func (s *memStore) List(ctx context.Context, filter homesite.ListFilter) ([]homesite.BlogPost, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.ready {
		return nil, homesite.ErrUnavailable
	}
	var out []homesite.BlogPost
	for _, p := range s.posts {
		if filter.Public != nil && p.Public != *filter.Public {
			continue
		}
		if filter.Hidden != nil && p.Hidden != *filter.Hidden {
			continue
		}
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *memStore) Get(ctx context.Context, id int64) (homesite.BlogPost, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.ready {
		return homesite.BlogPost{}, homesite.ErrUnavailable
	}
	p, ok := s.posts[id]
	if !ok {
		return homesite.BlogPost{}, homesite.ErrNotFound
	}
	return p, nil
}

func (s *memStore) Insert(ctx context.Context, post homesite.BlogPost) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.ready {
		return homesite.ErrUnavailable
	}
	s.posts[post.ID] = post
	return nil
}

func (s *memStore) Update(ctx context.Context, post homesite.BlogPost) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.ready {
		return homesite.ErrUnavailable
	}
	old, ok := s.posts[post.ID]
	if !ok {
		return homesite.ErrNotFound
	}
	post.ViewCount = old.ViewCount
	s.posts[post.ID] = post
	return nil
}

func (s *memStore) Delete(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.ready {
		return homesite.ErrUnavailable
	}
	if _, ok := s.posts[id]; !ok {
		return homesite.ErrNotFound
	}
	delete(s.posts, id)
	return nil
}

func (s *memStore) IncrementViews(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.ready {
		return homesite.ErrUnavailable
	}
	p, ok := s.posts[id]
	if !ok {
		return homesite.ErrNotFound
	}
	p.ViewCount++
	s.posts[id] = p
	return nil
}

func (s *memStore) Close(ctx context.Context) error { return nil }
