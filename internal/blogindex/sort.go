package blogindex

import (
	"slices"
	"strings"
	"time"

	"github.com/araddon/dateparse"

	"github.com/byteland/bytelog/pkg/interfaces"
)

// ParseDate resolves a frontmatter date in UTC. Values dateparse cannot read
// resolve to the zero time so they sort after every dated post.
func ParseDate(value string) (time.Time, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, false
	}
	parsed, err := dateparse.ParseIn(value, time.UTC)
	if err != nil {
		return time.Time{}, false
	}
	return parsed, true
}

type keyedEntry struct {
	entry interfaces.PostMetadata
	at    time.Time
}

// SortManifest returns entries ordered by date descending. Equal dates keep
// their input order.
func SortManifest(entries []interfaces.PostMetadata) interfaces.Manifest {
	keyed := make([]keyedEntry, len(entries))
	for i, entry := range entries {
		at, _ := ParseDate(entry.Date)
		keyed[i] = keyedEntry{entry: entry, at: at}
	}

	slices.SortStableFunc(keyed, func(a, b keyedEntry) int {
		return b.at.Compare(a.at)
	})

	out := make(interfaces.Manifest, len(keyed))
	for i, item := range keyed {
		out[i] = item.entry
	}
	return out
}
