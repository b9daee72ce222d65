package views

import (
	g "maragu.dev/gomponents"
	. "maragu.dev/gomponents/html"
)

// DefaultSiteTitle is used when PageConfig.SiteTitle is empty.
const DefaultSiteTitle = "ByteLog - ByteLand Blog"

type PageConfig struct {
	Title       string
	SiteTitle   string
	Description string
}

func (cfg PageConfig) documentTitle() string {
	site := cfg.SiteTitle
	if site == "" {
		site = DefaultSiteTitle
	}
	if cfg.Title == "" {
		return site
	}
	return cfg.Title + " | " + site
}

// Layout wraps content in a minimal HTML document.
func Layout(cfg PageConfig, content ...g.Node) g.Node {
	return Doctype(
		HTML(
			Lang("en"),
			Head(
				Meta(Charset("utf-8")),
				Meta(Name("viewport"), Content("width=device-width, initial-scale=1.0")),
				TitleEl(g.Text(cfg.documentTitle())),
				g.If(cfg.Description != "", Meta(Name("description"), Content(cfg.Description))),
			),
			Body(
				Header(
					Nav(A(Href("/blog"), g.Text("Blog"))),
				),
				Main(g.Group(content)),
			),
		),
	)
}
