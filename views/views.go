// Package views provides a plain default implementation of the homesite
// ViewFuncs. Sites normally replace these with their own templ templates;
// the defaults keep the binary usable out of the box and are what the
// handler tests render against.
package views

import (
	"context"
	"fmt"
	"html"
	"io"

	"github.com/a-h/templ"

	"github.com/hmdev/homesite"
)

// Default returns the built-in view set.
func Default() homesite.ViewFuncs {
	return homesite.ViewFuncs{
		Home:        Home,
		Post:        Post,
		Editor:      Editor,
		NotFound:    NotFound,
		ServerError: ServerError,
	}
}

// page wraps body in the shared HTML shell.
func page(cfg homesite.SiteConfig, title string, body func(w io.Writer) error) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if title == "" {
			title = cfg.Name
		} else {
			title = title + " | " + cfg.Name
		}
		if _, err := fmt.Fprintf(w,
			`<!DOCTYPE html><html lang="en"><head><meta charset="utf-8"><meta name="viewport" content="width=device-width, initial-scale=1"><title>%s</title><meta name="description" content="%s"><link rel="stylesheet" href="/static/style.css"></head><body><main>`,
			html.EscapeString(title), html.EscapeString(cfg.Description)); err != nil {
			return err
		}
		if err := body(w); err != nil {
			return err
		}
		_, err := io.WriteString(w, `</main></body></html>`)
		return err
	})
}

// Home renders the homepage: site intro, links, projects, and the post
// listing the caller is allowed to see.
func Home(cfg homesite.SiteConfig, posts []homesite.BlogPost, authenticated bool) templ.Component {
	return page(cfg, "", func(w io.Writer) error {
		fmt.Fprintf(w, `<h1>%s</h1>`, html.EscapeString(cfg.Name))
		if cfg.Description != "" {
			fmt.Fprintf(w, `<p>%s</p>`, html.EscapeString(cfg.Description))
		}
		if len(cfg.Links) > 0 {
			io.WriteString(w, `<ul class="links">`)
			for _, l := range cfg.Links {
				fmt.Fprintf(w, `<li><a href="%s" rel="me">%s</a></li>`,
					html.EscapeString(l.URL), html.EscapeString(l.Name))
			}
			io.WriteString(w, `</ul>`)
		}
		if len(cfg.Projects) > 0 {
			io.WriteString(w, `<h2>Projects</h2><ul class="projects">`)
			for _, p := range cfg.Projects {
				fmt.Fprintf(w, `<li><a href="%s">%s</a> %s</li>`,
					html.EscapeString(p.URL), html.EscapeString(p.Name), html.EscapeString(p.Description))
			}
			io.WriteString(w, `</ul>`)
		}
		io.WriteString(w, `<h2>Blog</h2>`)
		if len(posts) == 0 {
			io.WriteString(w, `<p>No posts yet.</p>`)
		} else {
			io.WriteString(w, `<ul class="posts">`)
			for _, p := range posts {
				fmt.Fprintf(w, `<li><a href="%s">%s</a>`, p.Link(), html.EscapeString(p.Title))
				if p.Teaser != "" {
					fmt.Fprintf(w, ` <span class="teaser">%s</span>`, html.EscapeString(p.Teaser))
				}
				fmt.Fprintf(w, ` <span class="views">%d views</span>`, p.ViewCount)
				if authenticated {
					fmt.Fprintf(w, ` <span class="visibility">%s</span> <a href="/blog/edit/%s">edit</a>`,
						homesite.VisibilityOf(p.Public, p.Hidden), p.Slug)
				}
				io.WriteString(w, `</li>`)
			}
			io.WriteString(w, `</ul>`)
		}
		if authenticated {
			io.WriteString(w, `<p><a href="/blog/new">New post</a> &middot; <a href="/blog/logout">Log out</a></p>`)
		}
		fmt.Fprintf(w, `<script type="application/ld+json">%s</script>`, WebsiteJsonLD(cfg))
		return nil
	})
}

// Post renders a single post. The stored HTML is written unescaped; it was
// sanitized at save time. Outside preview mode a tiny beacon bumps the view
// counter.
func Post(cfg homesite.SiteConfig, post homesite.BlogPost, pg homesite.PostPage) templ.Component {
	return page(cfg, post.Title, func(w io.Writer) error {
		if pg.Preview {
			io.WriteString(w, `<p class="preview-banner">Preview only, nothing is saved.</p>`)
		}
		fmt.Fprintf(w, `<p><a href="%s">&larr; Back</a></p>`, html.EscapeString(pg.PreviousLink))
		fmt.Fprintf(w, `<article><h1>%s</h1><p class="meta">%s &middot; %d views</p>`,
			html.EscapeString(post.Title), html.EscapeString(pg.CreatedAgo), post.ViewCount)
		if err := templ.Raw(post.HTML).Render(context.Background(), w); err != nil {
			return err
		}
		io.WriteString(w, `</article>`)
		if post.Public && !pg.Preview {
			fmt.Fprintf(w, `<script type="application/ld+json">%s</script>`, BlogPostingJsonLD(cfg, post))
		}
		if !pg.Preview {
			fmt.Fprintf(w, `<script>fetch("/blog/%s/increase_counter")</script>`, post.Slug)
		}
		return nil
	})
}

// Editor renders the authoring form for both create and edit.
func Editor(cfg homesite.SiteConfig, form homesite.EditorForm) templ.Component {
	heading := "New post"
	if form.Editing {
		heading = "Edit post"
	}
	return page(cfg, heading, func(w io.Writer) error {
		fmt.Fprintf(w, `<h1>%s</h1><form method="post" action="/blog/submit">`, heading)
		fmt.Fprintf(w, `<input type="hidden" name="old_blog_id" value="%s">`, html.EscapeString(form.OldID))
		fmt.Fprintf(w, `<label>Title <input type="text" name="blog_title" value="%s"></label>`,
			html.EscapeString(form.Title))
		fmt.Fprintf(w, `<label>Content <textarea name="blog_data" rows="20">%s</textarea></label>`,
			html.EscapeString(form.Body))
		io.WriteString(w, `<fieldset><legend>Visibility</legend>`)
		for _, v := range []homesite.Visibility{
			homesite.VisibilityPublic, homesite.VisibilityUnlisted, homesite.VisibilityPrivate,
		} {
			checked := ""
			if v == form.Visibility {
				checked = " checked"
			}
			fmt.Fprintf(w, `<label><input type="radio" name="blog_privacy" value="%s"%s> %s</label>`,
				v, checked, v)
		}
		io.WriteString(w, `</fieldset>`)
		io.WriteString(w, `<button type="submit">Publish</button>`)
		io.WriteString(w, `<button type="submit" formaction="/blog/preview">Preview</button>`)
		io.WriteString(w, `</form>`)
		return nil
	})
}

// NotFound renders the 404 page.
func NotFound(cfg homesite.SiteConfig) templ.Component {
	return page(cfg, "404 Not Found", func(w io.Writer) error {
		_, err := io.WriteString(w,
			`<h1>404 Not Found</h1><p>The page you were looking for was not found!</p><p><a href="/">Go home</a></p>`)
		return err
	})
}

// ServerError renders the 500 page, optionally with an explicit message.
func ServerError(cfg homesite.SiteConfig, message string) templ.Component {
	return page(cfg, "Something went wrong", func(w io.Writer) error {
		io.WriteString(w, `<h1>Something went wrong</h1>`)
		if message != "" {
			fmt.Fprintf(w, `<p>%s</p>`, html.EscapeString(message))
		}
		_, err := io.WriteString(w, `<p><a href="/">Go home</a></p>`)
		return err
	})
}
