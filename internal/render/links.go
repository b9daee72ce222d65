package render

import (
	"net/url"
	"path"
	"strings"

	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
)

var basePathKey = parser.NewContextKey()

// linkRewriter resolves relative link and image destinations against the
// directory the post was served from.
type linkRewriter struct{}

func (linkRewriter) Transform(doc *ast.Document, _ text.Reader, pc parser.Context) {
	base, _ := pc.Get(basePathKey).(string)
	if base == "" {
		return
	}

	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch node := n.(type) {
		case *ast.Link:
			node.Destination = []byte(ResolveLink(base, string(node.Destination)))
		case *ast.Image:
			node.Destination = []byte(ResolveLink(base, string(node.Destination)))
		}
		return ast.WalkContinue, nil
	})
}

// ResolveLink joins a relative destination onto base. Absolute URLs, rooted
// paths, fragments, queries and scheme links such as mailto: are returned as is.
func ResolveLink(base, dest string) string {
	if base == "" || dest == "" {
		return dest
	}
	switch dest[0] {
	case '/', '#', '?':
		return dest
	}
	if u, err := url.Parse(dest); err != nil || u.Scheme != "" || u.Host != "" {
		return dest
	}

	target, suffix := dest, ""
	if idx := strings.IndexAny(dest, "?#"); idx >= 0 {
		target, suffix = dest[:idx], dest[idx:]
	}
	resolved := path.Join(base, target)
	if strings.HasSuffix(target, "/") && !strings.HasSuffix(resolved, "/") {
		resolved += "/"
	}
	return resolved + suffix
}
