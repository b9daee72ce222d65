package main

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

const manifest = `[{"title":"Hello","date":"2024-06-01","tags":["go"],"slug":"hello","contentPath":"/posts/hello.md"}]`

func newOrigin(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/blog-index.json", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(manifest))
	})
	mux.HandleFunc("/posts/hello.md", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("---\ntitle: Hello\n---\n\nSee [notes](notes.md).\n"))
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func TestRunPrintsStrippedMarkdown(t *testing.T) {
	origin := newOrigin(t)

	var stdout, stderr bytes.Buffer
	if err := run(context.Background(), []string{"--env-file", "", "--base-url", origin.URL, "hello"}, &stdout, &stderr); err != nil {
		t.Fatalf("run: %v", err)
	}
	if stdout.String() != "See [notes](notes.md).\n" {
		t.Fatalf("unexpected output %q", stdout.String())
	}
}

func TestRunPrintsHTML(t *testing.T) {
	origin := newOrigin(t)

	var stdout, stderr bytes.Buffer
	if err := run(context.Background(), []string{"--env-file", "", "--base-url", origin.URL, "--html", "hello"}, &stdout, &stderr); err != nil {
		t.Fatalf("run: %v", err)
	}
	if !strings.Contains(stdout.String(), `href="/posts/notes.md"`) {
		t.Fatalf("expected rewritten link, got %q", stdout.String())
	}
}

func TestRunReportsStateMessage(t *testing.T) {
	origin := newOrigin(t)

	var stdout, stderr bytes.Buffer
	err := run(context.Background(), []string{"--env-file", "", "--base-url", origin.URL, "missing"}, &stdout, &stderr)
	if err == nil || !strings.Contains(err.Error(), "The requested blog post could not be found.") {
		t.Fatalf("expected not found message, got %v", err)
	}
}

func TestRunListsManifest(t *testing.T) {
	origin := newOrigin(t)

	var stdout, stderr bytes.Buffer
	if err := run(context.Background(), []string{"--env-file", "", "--base-url", origin.URL, "--list"}, &stdout, &stderr); err != nil {
		t.Fatalf("run: %v", err)
	}
	if stdout.String() != "hello\t2024-06-01\tHello\n" {
		t.Fatalf("unexpected listing %q", stdout.String())
	}
}

func TestRunRequiresSlug(t *testing.T) {
	var stdout, stderr bytes.Buffer
	if err := run(context.Background(), []string{"--env-file", ""}, &stdout, &stderr); err == nil {
		t.Fatal("expected missing slug error")
	}
}
