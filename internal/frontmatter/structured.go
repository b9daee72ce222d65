package frontmatter

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	adrg "github.com/adrg/frontmatter"
)

// decodeStructured decodes the block as YAML (or TOML/JSON, depending on the
// delimiters adrg recognises) and normalises values to the lenient shapes.
func decodeStructured(text string) (Metadata, error) {
	raw := map[string]any{}
	if _, err := adrg.Parse(strings.NewReader(text), &raw); err != nil {
		return nil, fmt.Errorf("decode frontmatter: %w", err)
	}

	meta := make(Metadata, len(raw))
	for key, value := range raw {
		key = strings.TrimSpace(key)
		if key == "" {
			continue
		}
		if key == TagsKey {
			meta[key] = normaliseTags(value)
			continue
		}
		meta[key] = normaliseScalar(value)
	}
	return meta, nil
}

func normaliseTags(value any) []string {
	switch typed := value.(type) {
	case nil:
		return []string{}
	case string:
		return SplitTags(typed)
	case []string:
		return SplitTags(strings.Join(typed, ","))
	case []any:
		pieces := make([]string, 0, len(typed))
		for _, item := range typed {
			pieces = append(pieces, normaliseScalar(item))
		}
		return SplitTags(strings.Join(pieces, ","))
	default:
		return SplitTags(normaliseScalar(typed))
	}
}

func normaliseScalar(value any) string {
	switch typed := value.(type) {
	case nil:
		return ""
	case string:
		return typed
	case bool:
		return strconv.FormatBool(typed)
	case int:
		return strconv.Itoa(typed)
	case int64:
		return strconv.FormatInt(typed, 10)
	case float64:
		return strconv.FormatFloat(typed, 'f', -1, 64)
	case time.Time:
		if typed.Hour() == 0 && typed.Minute() == 0 && typed.Second() == 0 && typed.Nanosecond() == 0 {
			return typed.Format(time.DateOnly)
		}
		return typed.Format(time.RFC3339)
	default:
		return fmt.Sprint(typed)
	}
}
