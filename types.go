package homesite

import (
	"errors"
	"time"
)

// BlogPost is the single content type persisted in the blogs collection.
// HTML and Teaser are derived from Title/Body at save time and never edited
// independently.
type BlogPost struct {
	ID          int64     `bson:"id"`
	Title       string    `bson:"title"`
	Body        string    `bson:"body"`
	HTML        string    `bson:"html"`
	Slug        string    `bson:"slug"`
	Teaser      string    `bson:"teaser"`
	Public      bool      `bson:"public"`
	Hidden      bool      `bson:"hidden"`
	ViewCount   int64     `bson:"viewCount"`
	PublishedAt time.Time `bson:"publishedAt"`
}

// Link points the reader of a post at /blog/<slug>.
func (p BlogPost) Link() string {
	return "/blog/" + p.Slug
}

// Visibility is the editor-facing name for a (Public, Hidden) pair.
// The mapping is a fixed lookup: "unlisted" posts are readable by anyone who
// has the URL but excluded from the default listing and the sitemap.
type Visibility string

const (
	VisibilityPublic   Visibility = "public"   // listed, indexable
	VisibilityUnlisted Visibility = "unlisted" // readable by URL, not listed
	VisibilityPrivate  Visibility = "private"  // session required
)

// Flags expands a visibility name into the stored boolean pair. Unknown
// values fall back to private, the most restrictive option.
func (v Visibility) Flags() (public, hidden bool) {
	switch v {
	case VisibilityPublic:
		return true, false
	case VisibilityUnlisted:
		return true, true
	default:
		return false, true
	}
}

// VisibilityOf is the reverse lookup used to prefill the editor form.
// The fourth combination {public:false, hidden:false} is representable in
// the store but unreachable from the form; it reads back as private.
func VisibilityOf(public, hidden bool) Visibility {
	switch {
	case public && !hidden:
		return VisibilityPublic
	case public && hidden:
		return VisibilityUnlisted
	default:
		return VisibilityPrivate
	}
}

// Error taxonomy handled at the handler boundary. NotFound and Forbidden are
// deliberately distinct: a 403 confirms the post exists.
var (
	ErrNotFound    = errors.New("homesite: post not found")
	ErrForbidden   = errors.New("homesite: access denied")
	ErrUnavailable = errors.New("homesite: content store unavailable")
)

// PostPage carries per-render state into the post view.
type PostPage struct {
	PreviousLink string
	Preview      bool
	CreatedAgo   string
}

// EditorForm prefills the authoring form, either empty/new or from an
// existing post. OldID is the string "new" for creates, the numeric id
// otherwise; it round-trips through the submit form unchanged.
type EditorForm struct {
	Title      string
	Body       string
	OldID      string
	Visibility Visibility
	Editing    bool
}

// Image describes one uploaded editor asset on disk.
type Image struct {
	Filename     string    `json:"filename"`
	OriginalName string    `json:"original_name,omitempty"`
	Width        int       `json:"width,omitempty"`
	Height       int       `json:"height,omitempty"`
	Size         int64     `json:"size"`
	ModTime      time.Time `json:"mod_time"`
	URL          string    `json:"url"`
}
