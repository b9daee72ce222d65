// Package blogindex scans a directory of markdown posts and writes the JSON
// manifest the site uses to list and locate posts. Entries are ordered newest
// first by their frontmatter date. The artifact is rebuilt from scratch on
// every run and replaced atomically.
package blogindex
