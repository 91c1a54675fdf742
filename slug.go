package homesite

import (
	"strconv"
	"strings"

	"github.com/gosimple/slug"
)

// Slugify normalizes a title to a lowercase hyphen-joined token sequence.
func Slugify(title string) string {
	return slug.Make(title)
}

// MakeSlug composes the external lookup key for a post. The numeric id is
// the authoritative part; the slugified title in front of it is cosmetic.
func MakeSlug(title string, id int64) string {
	return Slugify(title) + "-" + strconv.FormatInt(id, 10)
}

// ResolveID extracts the trailing numeric id from a slug. Distinct titles
// that normalize to the same text are never disambiguated by the text
// itself; lookup always goes through the id.
func ResolveID(s string) (int64, error) {
	if i := strings.LastIndexByte(s, '-'); i >= 0 {
		s = s[i+1:]
	}
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, ErrNotFound
	}
	return id, nil
}
