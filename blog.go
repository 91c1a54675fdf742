package homesite

import (
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/labstack/echo/v4"
)

// Placeholder values substituted for missing form fields; submissions are
// never rejected for an absent title or body.
const (
	defaultTitle      = "Unknown"
	defaultBody       = "??? No content found"
	newPostBodyPrefil = "### Placeholder\nYour content goes here"
)

// handleHome serves the homepage with the post listing. Anonymous callers
// see non-hidden posts; an authenticated session sees everything. A store
// that is down degrades to an empty listing here instead of an error.
func (a *App) handleHome(c echo.Context) error {
	ctx := c.Request().Context()
	authenticated := isAuthenticated(c)

	var posts []BlogPost
	if a.Store.Ready(ctx) {
		var err error
		if authenticated {
			posts, err = a.Store.List(ctx, ListFilter{})
		} else {
			posts, err = a.listing.List(ctx)
		}
		if err != nil {
			c.Logger().Errorf("could not fetch posts: %v", err)
			posts = nil
		}
	}

	return Render(c, a.Views.Home(a.Config, posts, authenticated))
}

// handlePost serves a single post by slug. Resolution goes through the
// trailing numeric id; the text before it is cosmetic.
func (a *App) handlePost(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := ResolveID(c.Param("slug"))
	if err != nil {
		return err
	}
	if !a.Store.Ready(ctx) {
		return ErrUnavailable
	}

	post, err := a.Store.Get(ctx, id)
	if err != nil {
		return err
	}
	if !post.Public && !isAuthenticated(c) {
		return ErrForbidden
	}

	page := PostPage{
		PreviousLink: "/",
		CreatedAgo:   humanize.Time(post.PublishedAt),
	}
	return Render(c, a.Views.Post(a.Config, post, page))
}

// handleIncreaseCounter bumps the view counter, behind the same visibility
// check as reading the post.
func (a *App) handleIncreaseCounter(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := ResolveID(c.Param("slug"))
	if err != nil {
		return err
	}
	if !a.Store.Ready(ctx) {
		return ErrUnavailable
	}

	post, err := a.Store.Get(ctx, id)
	if err != nil {
		return err
	}
	if !post.Public && !isAuthenticated(c) {
		return ErrForbidden
	}

	if err := a.Store.IncrementViews(ctx, id); err != nil {
		return err
	}
	a.listing.Invalidate()
	return c.String(http.StatusOK, "OK!")
}

// handleNew serves the authoring form, optionally prefilled from query
// parameters (the preview round-trip uses this).
func (a *App) handleNew(c echo.Context) error {
	if !isAuthenticated(c) {
		return c.Redirect(http.StatusFound, "/blog/login")
	}
	if !a.Store.Ready(c.Request().Context()) {
		return ErrUnavailable
	}

	form := EditorForm{
		Title:      c.QueryParam("title"),
		Body:       c.QueryParam("data"),
		OldID:      "new",
		Visibility: VisibilityPrivate,
	}
	if form.Body == "" {
		form.Body = newPostBodyPrefil
	}
	return Render(c, a.Views.Editor(a.Config, form))
}

// handleEdit serves the authoring form prefilled from an existing post.
func (a *App) handleEdit(c echo.Context) error {
	if !isAuthenticated(c) {
		return c.Redirect(http.StatusFound, "/blog/login")
	}
	ctx := c.Request().Context()
	if !a.Store.Ready(ctx) {
		return ErrUnavailable
	}

	id, err := ResolveID(c.Param("slug"))
	if err != nil {
		return err
	}
	post, err := a.Store.Get(ctx, id)
	if err != nil {
		return err
	}

	form := EditorForm{
		Title:      post.Title,
		Body:       post.Body,
		OldID:      strconv.FormatInt(post.ID, 10),
		Visibility: VisibilityOf(post.Public, post.Hidden),
		Editing:    true,
	}
	return Render(c, a.Views.Editor(a.Config, form))
}

// handleDelete removes a post entirely and returns to the authoring form.
func (a *App) handleDelete(c echo.Context) error {
	if !isAuthenticated(c) {
		return c.Redirect(http.StatusFound, "/blog/login")
	}
	ctx := c.Request().Context()
	if !a.Store.Ready(ctx) {
		return ErrUnavailable
	}

	id, err := ResolveID(c.Param("slug"))
	if err != nil {
		return err
	}
	if _, err := a.Store.Get(ctx, id); err != nil {
		return err
	}
	if err := a.Store.Delete(ctx, id); err != nil {
		return err
	}
	a.listing.Invalidate()
	return c.Redirect(http.StatusFound, "/blog/new")
}

// handleSubmit creates or updates a post. The old_blog_id field
// disambiguates: "new" creates, a numeric id updates in place preserving
// the view counter. Derived fields (slug, HTML, teaser) are recomputed on
// every save; the publish timestamp is reset on every save as well.
func (a *App) handleSubmit(c echo.Context) error {
	if !isAuthenticated(c) {
		return c.Redirect(http.StatusFound, "/blog/login")
	}
	ctx := c.Request().Context()
	if !a.Store.Ready(ctx) {
		return ErrUnavailable
	}

	title := c.FormValue("blog_title")
	if title == "" {
		title = defaultTitle
	}
	body := c.FormValue("blog_data")
	if body == "" {
		body = defaultBody
	}
	public, hidden := Visibility(c.FormValue("blog_privacy")).Flags()

	html, err := RenderHTML(body)
	if err != nil {
		return err
	}

	post := BlogPost{
		Title:       title,
		Body:        body,
		HTML:        html,
		Teaser:      Teaser(title, body),
		Public:      public,
		Hidden:      hidden,
		PublishedAt: time.Now().UTC(),
	}

	oldID := c.FormValue("old_blog_id")
	if oldID == "" || oldID == "new" {
		id, err := a.Store.AllocateID(ctx)
		if err != nil {
			return err
		}
		post.ID = id
		post.Slug = MakeSlug(title, id)
		if err := a.Store.Insert(ctx, post); err != nil {
			return err
		}
	} else {
		id, err := strconv.ParseInt(oldID, 10, 64)
		if err != nil {
			return ErrNotFound
		}
		post.ID = id
		post.Slug = MakeSlug(title, id)
		if err := a.Store.Update(ctx, post); err != nil {
			return err
		}
	}

	a.listing.Invalidate()
	return c.Redirect(http.StatusFound, post.Link())
}

// handlePreview renders a submission through the same derivation pipeline
// as a save, without persisting anything. Nothing is enforced at this
// layer; the page is only reachable from the authoring UI.
func (a *App) handlePreview(c echo.Context) error {
	title := c.FormValue("blog_title")
	if title == "" {
		title = defaultTitle
	}
	body := c.FormValue("blog_data")
	if body == "" {
		body = defaultBody
	}

	html, err := RenderHTML(body)
	if err != nil {
		return err
	}

	post := BlogPost{
		ID:          1,
		Title:       title,
		Body:        body,
		HTML:        html,
		Teaser:      Teaser(title, body),
		Slug:        MakeSlug(title, 1),
		Public:      false,
		Hidden:      true,
		ViewCount:   69,
		PublishedAt: time.Now().UTC(),
	}
	page := PostPage{
		PreviousLink: "/blog/new?title=" + url.QueryEscape(title) + "&data=" + url.QueryEscape(body),
		Preview:      true,
		CreatedAgo:   humanize.Time(post.PublishedAt),
	}
	return Render(c, a.Views.Post(a.Config, post, page))
}
