package interfaces

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// Manifest keys written for every post. Extra frontmatter keys are emitted
// between the authored fields and contentPath.
const (
	KeyTitle       = "title"
	KeyDate        = "date"
	KeyTags        = "tags"
	KeyAuthor      = "author"
	KeySlug        = "slug"
	KeyContentPath = "contentPath"
)

// PostMetadata is one manifest entry. It is created once from a single
// markdown file and never mutated afterwards.
type PostMetadata struct {
	Title  string
	Date   string
	Tags   []string
	Author string
	Slug   string
	// ContentPath is the site-relative path of the raw markdown. It is derived
	// from the file location, never read from frontmatter.
	ContentPath string
	// Extra holds frontmatter keys outside the known set, passed through as-is.
	Extra map[string]string
}

// HasTag reports whether the post carries tag.
func (m PostMetadata) HasTag(tag string) bool {
	for _, candidate := range m.Tags {
		if candidate == tag {
			return true
		}
	}
	return false
}

// MarshalJSON writes the manifest object. Empty scalar fields are left out,
// tags is always an array.
func (m PostMetadata) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	first := true
	write := func(key string, value any) error {
		encoded, err := marshalUnescaped(value)
		if err != nil {
			return fmt.Errorf("manifest: encode %s: %w", key, err)
		}
		name, err := marshalUnescaped(key)
		if err != nil {
			return fmt.Errorf("manifest: encode key %s: %w", key, err)
		}
		if !first {
			buf.WriteByte(',')
		}
		first = false
		buf.Write(name)
		buf.WriteByte(':')
		buf.Write(encoded)
		return nil
	}

	scalars := []struct {
		key   string
		value string
	}{
		{KeyTitle, m.Title},
		{KeyDate, m.Date},
	}
	for _, field := range scalars {
		if field.value == "" {
			continue
		}
		if err := write(field.key, field.value); err != nil {
			return nil, err
		}
	}

	tags := m.Tags
	if tags == nil {
		tags = []string{}
	}
	if err := write(KeyTags, tags); err != nil {
		return nil, err
	}

	scalars = []struct {
		key   string
		value string
	}{
		{KeyAuthor, m.Author},
		{KeySlug, m.Slug},
	}
	for _, field := range scalars {
		if field.value == "" {
			continue
		}
		if err := write(field.key, field.value); err != nil {
			return nil, err
		}
	}

	keys := make([]string, 0, len(m.Extra))
	for key := range m.Extra {
		if IsKnownKey(key) {
			continue
		}
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		if err := write(key, m.Extra[key]); err != nil {
			return nil, err
		}
	}

	if m.ContentPath != "" {
		if err := write(KeyContentPath, m.ContentPath); err != nil {
			return nil, err
		}
	}

	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// marshalUnescaped encodes v leaving &, < and > as written.
func marshalUnescaped(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

// UnmarshalJSON reads a manifest object. Unknown keys land in Extra; values
// that are not JSON strings are kept in their raw JSON form.
func (m *PostMetadata) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	out := PostMetadata{}
	for key, value := range raw {
		switch key {
		case KeyTitle:
			out.Title = rawString(value)
		case KeyDate:
			out.Date = rawString(value)
		case KeyAuthor:
			out.Author = rawString(value)
		case KeySlug:
			out.Slug = rawString(value)
		case KeyContentPath:
			out.ContentPath = rawString(value)
		case KeyTags:
			var tags []string
			if err := json.Unmarshal(value, &tags); err != nil {
				return fmt.Errorf("manifest: decode tags: %w", err)
			}
			out.Tags = tags
		default:
			if out.Extra == nil {
				out.Extra = map[string]string{}
			}
			out.Extra[key] = rawString(value)
		}
	}
	if out.Tags == nil {
		out.Tags = []string{}
	}
	*m = out
	return nil
}

func rawString(value json.RawMessage) string {
	var s string
	if err := json.Unmarshal(value, &s); err == nil {
		return s
	}
	trimmed := strings.TrimSpace(string(value))
	if trimmed == "null" {
		return ""
	}
	return trimmed
}

// IsKnownKey reports whether key is one of the fixed manifest fields.
func IsKnownKey(key string) bool {
	switch key {
	case KeyTitle, KeyDate, KeyTags, KeyAuthor, KeySlug, KeyContentPath:
		return true
	default:
		return false
	}
}

// Manifest is the ordered post index, newest first.
type Manifest []PostMetadata

// Find returns the first entry whose slug equals slug.
func (m Manifest) Find(slug string) (PostMetadata, bool) {
	for _, entry := range m {
		if entry.Slug == slug {
			return entry, true
		}
	}
	return PostMetadata{}, false
}

// Tags returns every tag used across the manifest, de-duplicated and sorted.
func (m Manifest) Tags() []string {
	seen := map[string]struct{}{}
	tags := []string{}
	for _, entry := range m {
		for _, tag := range entry.Tags {
			if _, ok := seen[tag]; ok {
				continue
			}
			seen[tag] = struct{}{}
			tags = append(tags, tag)
		}
	}
	sort.Strings(tags)
	return tags
}

// FilterByTag returns the entries carrying tag, keeping manifest order. An
// empty tag returns the manifest unchanged.
func (m Manifest) FilterByTag(tag string) Manifest {
	if tag == "" {
		return m
	}
	out := Manifest{}
	for _, entry := range m {
		if entry.HasTag(tag) {
			out = append(out, entry)
		}
	}
	return out
}

// Post pairs resolved metadata with the frontmatter-free markdown body.
type Post struct {
	Metadata PostMetadata
	Body     string
}

// BasePath returns the directory portion of the post's content path, used to
// resolve relative links while rendering.
func (p Post) BasePath() string {
	idx := strings.LastIndex(p.Metadata.ContentPath, "/")
	if idx < 0 {
		return ""
	}
	return p.Metadata.ContentPath[:idx]
}

// IndexBuilder produces the manifest artifact from a posts directory.
type IndexBuilder interface {
	Build(ctx context.Context) (Manifest, error)
	Run(ctx context.Context) (Manifest, error)
}

// PostLoader resolves posts at view time.
type PostLoader interface {
	List(ctx context.Context) (Manifest, error)
	Load(ctx context.Context, slug string) (*Post, error)
}
