package blogcmd

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	goerrors "github.com/goliatone/go-errors"

	"github.com/byteland/bytelog/internal/blogindex"
	"github.com/byteland/bytelog/internal/postloader"
	"github.com/byteland/bytelog/pkg/interfaces"
)

type stubBuilder struct {
	cfg      blogindex.Config
	manifest interfaces.Manifest
	err      error
}

func (s *stubBuilder) Build(context.Context) (interfaces.Manifest, error) {
	return s.manifest, s.err
}

func (s *stubBuilder) Run(context.Context) (interfaces.Manifest, error) {
	return s.manifest, s.err
}

func TestBuildIndexHandlerMergesCommandOverDefaults(t *testing.T) {
	defaults := blogindex.Config{PostsDir: "public/posts", OutputPath: "public/blog-index.json", ContentPrefix: "posts"}
	stub := &stubBuilder{manifest: interfaces.Manifest{{Slug: "a"}}}
	var got interfaces.Manifest

	handler := NewBuildIndexHandler(defaults, func(cfg blogindex.Config) interfaces.IndexBuilder {
		stub.cfg = cfg
		return stub
	}, func(_ context.Context, manifest interfaces.Manifest) {
		got = manifest
	}, nil)

	if err := handler.Execute(context.Background(), BuildIndexCommand{OutputPath: "dist/index.json"}); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	want := blogindex.Config{PostsDir: "public/posts", OutputPath: "dist/index.json", ContentPrefix: "posts"}
	if stub.cfg != want {
		t.Fatalf("expected config %#v, got %#v", want, stub.cfg)
	}
	if len(got) != 1 || got[0].Slug != "a" {
		t.Fatalf("expected result callback with manifest, got %#v", got)
	}
}

func TestBuildIndexHandlerWrapsBuildErrors(t *testing.T) {
	handler := NewBuildIndexHandler(blogindex.DefaultConfig(), func(blogindex.Config) interfaces.IndexBuilder {
		return &stubBuilder{err: errors.New("disk full")}
	}, nil, nil)

	err := handler.Execute(context.Background(), BuildIndexCommand{})
	if !goerrors.IsCategory(err, goerrors.CategoryCommand) {
		t.Fatalf("expected command category, got %v", err)
	}
}

func TestBuildIndexHandlerRejectsInvalidCommand(t *testing.T) {
	called := false
	handler := NewBuildIndexHandler(blogindex.DefaultConfig(), func(blogindex.Config) interfaces.IndexBuilder {
		called = true
		return &stubBuilder{}
	}, nil, nil)

	err := handler.Execute(context.Background(), BuildIndexCommand{PostsDir: "  "})
	if !goerrors.IsCategory(err, goerrors.CategoryValidation) {
		t.Fatalf("expected validation category, got %v", err)
	}
	if called {
		t.Fatalf("expected builder not to be created for invalid command")
	}
}

func TestBuildIndexHandlerDefaultFactoryWritesArtifact(t *testing.T) {
	dir := t.TempDir()
	output := filepath.Join(dir, "blog-index.json")
	handler := NewBuildIndexHandler(blogindex.Config{PostsDir: filepath.Join(dir, "missing"), OutputPath: output}, nil, nil, nil)

	if err := handler.Execute(context.Background(), BuildIndexCommand{}); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if _, err := os.Stat(output); err != nil {
		t.Fatalf("expected artifact at %s: %v", output, err)
	}
}

type stubViewer struct {
	views map[string]postloader.View
}

func (s stubViewer) View(_ context.Context, slug string) postloader.View {
	if view, ok := s.views[slug]; ok {
		return view
	}
	return postloader.View{Slug: slug, State: postloader.StateNotFound, Err: postloader.ErrPostNotFound}
}

func TestLoadPostHandlerReportsViews(t *testing.T) {
	ready := postloader.View{
		Slug:  "hello",
		State: postloader.StateReady,
		Post:  &interfaces.Post{Metadata: interfaces.PostMetadata{Slug: "hello"}, Body: "# Hello"},
	}
	viewer := stubViewer{views: map[string]postloader.View{"hello": ready}}

	var seen []postloader.View
	handler := NewLoadPostHandler(viewer, func(_ context.Context, view postloader.View) {
		seen = append(seen, view)
	}, nil)

	if err := handler.Execute(context.Background(), LoadPostCommand{Slug: "hello"}); err != nil {
		t.Fatalf("Execute ready: %v", err)
	}

	err := handler.Execute(context.Background(), LoadPostCommand{Slug: "missing"})
	if !goerrors.IsCategory(err, goerrors.CategoryCommand) {
		t.Fatalf("expected command category for missing post, got %v", err)
	}

	if len(seen) != 2 {
		t.Fatalf("expected both views reported, got %d", len(seen))
	}
	if seen[0].Post == nil || seen[1].State != postloader.StateNotFound {
		t.Fatalf("unexpected views %#v", seen)
	}
}

func TestViewErrorUnwrapsCause(t *testing.T) {
	err := &ViewError{View: postloader.View{Slug: "x", State: postloader.StateIndexFailed, Err: postloader.ErrIndexUnavailable}}
	if !errors.Is(err, postloader.ErrIndexUnavailable) {
		t.Fatalf("expected ViewError to unwrap to its cause")
	}
	if err.Error() == "" {
		t.Fatalf("expected message")
	}
}
