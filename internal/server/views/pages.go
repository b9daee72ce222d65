package views

import (
	"net/url"
	"strings"

	g "maragu.dev/gomponents"
	. "maragu.dev/gomponents/html"

	"github.com/byteland/bytelog/pkg/interfaces"
)

// PostPage renders a loaded post. body must already be HTML.
func PostPage(site string, meta interfaces.PostMetadata, body []byte) g.Node {
	title := meta.Title
	if title == "" {
		title = meta.Slug
	}
	return Layout(
		PageConfig{Title: title, SiteTitle: site},
		Article(
			ID("post"),
			g.Attr("data-slug", meta.Slug),
			H1(g.Text(title)),
			byline(meta),
			tagLinks(meta.Tags),
			Div(Class("post-body"), g.Raw(string(body))),
		),
		P(A(Href("/blog"), g.Text("Back to all posts"))),
	)
}

// MessagePage renders a heading and a short explanation, used for every
// state other than a loaded post.
func MessagePage(site, heading, message string) g.Node {
	return Layout(
		PageConfig{Title: heading, SiteTitle: site},
		Section(
			ID("status"),
			H1(g.Text(heading)),
			P(g.Text(message)),
			P(A(Href("/blog"), g.Text("Back to all posts"))),
		),
	)
}

// ListPage renders the manifest entries, optionally narrowed to tag.
func ListPage(site string, posts interfaces.Manifest, tag string, tags []string) g.Node {
	heading := "All posts"
	if tag != "" {
		heading = "Posts tagged " + tag
	}

	var listing g.Node
	if len(posts) == 0 {
		listing = P(Class("empty"), g.Text("No posts yet."))
	} else {
		listing = Ul(
			ID("posts"),
			g.Map(posts, func(meta interfaces.PostMetadata) g.Node {
				title := meta.Title
				if title == "" {
					title = meta.Slug
				}
				return Li(
					A(Href(PostURL(meta.Slug)), g.Text(title)),
					g.If(meta.Date != "", Span(Class("date"), g.Text(" "+meta.Date))),
				)
			}),
		)
	}

	return Layout(
		PageConfig{Title: heading, SiteTitle: site},
		H1(g.Text(heading)),
		g.If(len(tags) > 0, Nav(
			Class("tags"),
			A(Href("/blog"), g.Text("all")),
			g.Map(tags, func(t string) g.Node {
				return g.Group([]g.Node{g.Text(" "), A(Href(TagURL(t)), g.Text(t))})
			}),
		)),
		listing,
	)
}

// PostURL is the site path of a post view.
func PostURL(slug string) string {
	return "/blog/" + url.PathEscape(slug)
}

// TagURL is the site path of the list page filtered by tag.
func TagURL(tag string) string {
	return "/blog?tag=" + url.QueryEscape(tag)
}

func byline(meta interfaces.PostMetadata) g.Node {
	parts := make([]string, 0, 2)
	if meta.Date != "" {
		parts = append(parts, meta.Date)
	}
	if meta.Author != "" {
		parts = append(parts, "by "+meta.Author)
	}
	if len(parts) == 0 {
		return nil
	}
	return P(Class("byline"), g.Text(strings.Join(parts, " ")))
}

func tagLinks(tags []string) g.Node {
	if len(tags) == 0 {
		return nil
	}
	return Ul(
		Class("tags"),
		g.Map(tags, func(t string) g.Node {
			return Li(A(Href(TagURL(t)), g.Text(t)))
		}),
	)
}
