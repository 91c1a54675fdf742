package homesite

import (
	"bytes"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

// mdRenderer drops raw HTML in the source, so the stored output is
// sanitized without a second pass.
var mdRenderer = goldmark.New(
	goldmark.WithExtensions(extension.GFM),
)

// RenderHTML converts markdown to HTML. The result is stored on the post at
// save time; renderer upgrades only affect a post on its next edit.
func RenderHTML(md string) (string, error) {
	var buf bytes.Buffer
	if err := mdRenderer.Convert([]byte(md), &buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}
