package main

import (
	"bytes"
	"context"
	"io"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/byteland/bytelog/pkg/testsupport"
)

func freeAddr(t *testing.T) string {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	addr := ln.Addr().String()
	if err := ln.Close(); err != nil {
		t.Fatalf("close listener: %v", err)
	}
	return addr
}

func TestRunServesPostsOnAnyAddress(t *testing.T) {
	public := t.TempDir()
	testsupport.WriteTree(t, public, map[string]string{
		"posts/hello.md": "---\ntitle: Hello\ndate: 2024-06-01\nslug: hello\n---\n\n# Greetings\n",
	})
	addr := freeAddr(t)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	var stderr bytes.Buffer
	go func() {
		done <- run(ctx, []string{
			"--env-file", "",
			"--public-dir", public,
			"--posts-dir", filepath.Join(public, "posts"),
			"--output", filepath.Join(public, "blog-index.json"),
			"--addr", addr,
		}, &stderr)
	}()

	var status int
	var body string
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		resp, err := http.Get("http://" + addr + "/blog/hello")
		if err == nil {
			data, _ := io.ReadAll(resp.Body)
			_ = resp.Body.Close()
			status, body = resp.StatusCode, string(data)
			break
		}
		time.Sleep(20 * time.Millisecond)
	}

	cancel()
	if err := <-done; err != nil {
		t.Fatalf("run: %v", err)
	}
	if status != http.StatusOK || !strings.Contains(body, "Greetings") {
		t.Fatalf("GET /blog/hello = %d:\n%s", status, body)
	}
}

func TestRunBuildsIndexAndStopsWhenContextEnds(t *testing.T) {
	public := t.TempDir()
	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()

	var stderr bytes.Buffer
	err := run(ctx, []string{
		"--env-file", "",
		"--public-dir", public,
		"--posts-dir", filepath.Join(public, "posts"),
		"--output", filepath.Join(public, "blog-index.json"),
		"--addr", "127.0.0.1:0",
	}, &stderr)
	if err != nil {
		t.Fatalf("run: %v (stderr %s)", err, stderr.String())
	}

	if _, err := os.Stat(filepath.Join(public, "blog-index.json")); err != nil {
		t.Fatalf("expected manifest before serving: %v", err)
	}
}

func TestRunRejectsInvalidConfig(t *testing.T) {
	var stderr bytes.Buffer
	err := run(context.Background(), []string{"--env-file", "", "--addr", " "}, &stderr)
	if err == nil {
		t.Fatal("expected blank addr to fail validation")
	}
}
