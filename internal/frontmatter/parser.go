package frontmatter

import (
	"sort"
	"strings"
)

const delimiter = "---"

// TagsKey is the one key whose value is split into a list.
const TagsKey = "tags"

// Mode selects how the block between the delimiters is decoded.
type Mode string

const (
	ModeLenient Mode = "lenient"
	ModeYAML    Mode = "yaml"
)

// Valid reports whether m names a known mode.
func (m Mode) Valid() bool {
	switch m {
	case ModeLenient, ModeYAML:
		return true
	default:
		return false
	}
}

// Metadata holds decoded frontmatter. Values are either string or []string
// (the latter only under TagsKey).
type Metadata map[string]any

// String returns the value stored under key, or "" when absent or not a string.
func (m Metadata) String(key string) string {
	value, ok := m[key].(string)
	if !ok {
		return ""
	}
	return value
}

// Tags returns the tags list, never nil.
func (m Metadata) Tags() []string {
	tags, ok := m[TagsKey].([]string)
	if !ok || tags == nil {
		return []string{}
	}
	return append([]string(nil), tags...)
}

// Has reports whether key was present in the block.
func (m Metadata) Has(key string) bool {
	_, ok := m[key]
	return ok
}

// Keys returns the metadata keys in sorted order.
func (m Metadata) Keys() []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// Document is the result of splitting a markdown source.
type Document struct {
	Metadata Metadata
	Body     string
	// Found is true when a delimited block was recognised.
	Found bool
}

// Parser splits markdown sources into metadata and body. The zero value
// parses in lenient mode.
type Parser struct {
	mode Mode
}

// NewParser returns a parser for mode. Unknown modes fall back to lenient.
func NewParser(mode Mode) *Parser {
	if !mode.Valid() {
		mode = ModeLenient
	}
	return &Parser{mode: mode}
}

// Mode reports the active decoding mode.
func (p *Parser) Mode() Mode {
	if p == nil || p.mode == "" {
		return ModeLenient
	}
	return p.mode
}

// Parse never fails. Text without a recognised block is returned unchanged
// as the body with empty metadata.
func (p *Parser) Parse(text string) Document {
	block, body, ok := split(text)
	if !ok {
		return Document{Metadata: Metadata{}, Body: text}
	}

	if p.Mode() == ModeYAML {
		if meta, err := decodeStructured(text); err == nil {
			return Document{Metadata: meta, Body: body, Found: true}
		}
	}

	return Document{Metadata: decodeLines(block), Body: body, Found: true}
}

// Strip returns only the body of text.
func (p *Parser) Strip(text string) string {
	return p.Parse(text).Body
}

var defaultParser = NewParser(ModeLenient)

// Parse splits text using the lenient rules.
func Parse(text string) Document {
	return defaultParser.Parse(text)
}

// Strip removes a leading frontmatter block from text using the lenient rules.
func Strip(text string) string {
	return defaultParser.Strip(text)
}

// split locates the block lines and the trimmed body. The first line must be
// exactly the delimiter; the block closes at the next delimiter line.
func split(text string) ([]string, string, bool) {
	lines := strings.Split(text, "\n")
	if len(lines) < 2 || !isDelimiter(lines[0]) {
		return nil, "", false
	}
	for i := 1; i < len(lines); i++ {
		if !isDelimiter(lines[i]) {
			continue
		}
		body := strings.Join(lines[i+1:], "\n")
		return lines[1:i], strings.TrimSpace(body), true
	}
	return nil, "", false
}

func isDelimiter(line string) bool {
	return strings.TrimSuffix(line, "\r") == delimiter
}

func decodeLines(lines []string) Metadata {
	meta := Metadata{}
	for _, line := range lines {
		key, value, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		key = strings.TrimSpace(key)
		if key == "" {
			continue
		}
		value = unquote(strings.TrimSpace(value))
		if key == TagsKey {
			meta[key] = SplitTags(value)
			continue
		}
		meta[key] = value
	}
	return meta
}

func unquote(value string) string {
	value = strings.TrimPrefix(value, `"`)
	return strings.TrimSuffix(value, `"`)
}

var tagReplacer = strings.NewReplacer("[", "", "]", "", `"`, "", "'", "")

// SplitTags turns a raw tags value such as `["a", "b"]` or `a, b` into a
// trimmed list. Empty pieces are dropped.
func SplitTags(raw string) []string {
	cleaned := tagReplacer.Replace(raw)
	tags := []string{}
	for _, piece := range strings.Split(cleaned, ",") {
		piece = strings.TrimSpace(piece)
		if piece == "" {
			continue
		}
		tags = append(tags, piece)
	}
	return tags
}
