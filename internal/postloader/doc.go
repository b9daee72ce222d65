// Package postloader resolves blog posts at view time. A view fetches the
// manifest, finds the entry for a slug, fetches the raw markdown at the
// entry's contentPath and strips its frontmatter. Each failure class maps to
// its own sentinel error and View state.
package postloader
