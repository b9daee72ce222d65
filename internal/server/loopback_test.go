package server

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/byteland/bytelog/internal/postloader"
)

func newLoopbackServer(t *testing.T) *Server {
	t.Helper()
	loopback := &Loopback{}
	loader := postloader.NewLoader(postloader.Config{BaseURL: LoopbackBaseURL}, postloader.WithHTTPClient(loopback.Client()))
	srv, err := New(Config{PublicDir: "testdata/public", SiteTitle: "ByteLog"}, loader)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	loopback.Bind(srv.Handler())
	return srv
}

func TestLoopbackServesPostsFromOwnRoutes(t *testing.T) {
	srv := newLoopbackServer(t)

	rec := get(t, srv, "/blog/hello")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d:\n%s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), `id="welcome"`) {
		t.Fatalf("expected rendered post, got:\n%s", rec.Body.String())
	}

	rec = get(t, srv, "/blog")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `href="/blog/hello"`) {
		t.Fatalf("expected listing, got %d:\n%s", rec.Code, rec.Body.String())
	}
}

func TestLoopbackKeepsStatusCodes(t *testing.T) {
	srv := newLoopbackServer(t)

	rec := get(t, srv, "/blog/lost")
	if rec.Code != http.StatusBadGateway || !strings.Contains(rec.Body.String(), "Error Loading Post") {
		t.Fatalf("expected content failure for missing file, got %d:\n%s", rec.Code, rec.Body.String())
	}
}

func TestLoopbackRequiresHandler(t *testing.T) {
	req, err := http.NewRequestWithContext(context.Background(), http.MethodGet, LoopbackBaseURL+"/blog-index.json", nil)
	if err != nil {
		t.Fatalf("NewRequest: %v", err)
	}
	if _, err := (&Loopback{}).RoundTrip(req); !errors.Is(err, errLoopbackUnbound) {
		t.Fatalf("expected unbound error, got %v", err)
	}
}
