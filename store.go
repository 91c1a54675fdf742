package homesite

import "context"

// ListFilter narrows a listing by the stored visibility booleans. Nil fields
// match everything, so the zero value lists the whole collection.
type ListFilter struct {
	Public *bool
	Hidden *bool
}

// BoolPtr is a convenience for building ListFilter literals.
func BoolPtr(b bool) *bool { return &b }

// ContentStore owns durability for blog posts. Implementations must
// serialize conflicting writes at the storage layer; callers do no locking
// of their own.
//
// Error contract: Get, Update, Delete and IncrementViews return ErrNotFound
// when no record matches the id. Ready reports whether the backing
// connection is established; callers use it to pick between the degraded
// empty listing and an explicit unavailable failure.
type ContentStore interface {
	// Ready reports whether the store can currently serve requests.
	Ready(ctx context.Context) bool

	// AllocateID reserves the next post id atomically.
	AllocateID(ctx context.Context) (int64, error)

	// List returns matching posts in insertion (id) order.
	List(ctx context.Context, f ListFilter) ([]BlogPost, error)

	// Get returns the post with the given id.
	Get(ctx context.Context, id int64) (BlogPost, error)

	// Insert persists a new post. The caller has already set ID via
	// AllocateID and derived Slug from it.
	Insert(ctx context.Context, p BlogPost) error

	// Update rewrites every field of the stored post except ViewCount,
	// which is preserved as-is.
	Update(ctx context.Context, p BlogPost) error

	// Delete removes the post entirely. No soft delete, no history.
	Delete(ctx context.Context, id int64) error

	// IncrementViews adds one to the post's view counter.
	IncrementViews(ctx context.Context, id int64) error

	Close(ctx context.Context) error
}
