package testsupport

import (
	"os"
	"path/filepath"
	"testing"
)

func TestWriteTreeAndLoadGolden(t *testing.T) {
	root := t.TempDir()
	WriteTree(t, root, map[string]string{
		"posts/a.md":  "# A",
		"golden.json": `{"slug":"a","tags":["x"]}`,
	})

	if got := string(LoadFixture(t, filepath.Join(root, "posts", "a.md"))); got != "# A" {
		t.Fatalf("unexpected fixture %q", got)
	}

	var doc struct {
		Slug string   `json:"slug"`
		Tags []string `json:"tags"`
	}
	LoadGolden(t, filepath.Join(root, "golden.json"), &doc)
	if doc.Slug != "a" || len(doc.Tags) != 1 {
		t.Fatalf("unexpected golden %#v", doc)
	}

	if info, err := os.Stat(filepath.Join(root, "posts")); err != nil || !info.IsDir() {
		t.Fatalf("expected posts directory, got %v", err)
	}
}
