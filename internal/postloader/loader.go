package postloader

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/byteland/bytelog/internal/frontmatter"
	"github.com/byteland/bytelog/internal/logging"
	"github.com/byteland/bytelog/pkg/interfaces"
)

const (
	// DefaultManifestPath is where the index builder's artifact is served.
	DefaultManifestPath = "/blog-index.json"
	// DefaultTimeout bounds each of the two requests a view makes.
	DefaultTimeout = 10 * time.Second
)

var (
	// ErrIndexUnavailable covers transport failures, non-2xx responses and
	// undecodable manifests.
	ErrIndexUnavailable = errors.New("postloader: failed to load posts")
	// ErrPostNotFound is returned when no manifest entry carries the slug.
	ErrPostNotFound = errors.New("postloader: post not found")
	// ErrContentUnavailable covers failures fetching the post markdown.
	ErrContentUnavailable = errors.New("postloader: could not fetch content")
)

// StatusError reports a non-2xx response.
type StatusError struct {
	URL    string
	Status int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("GET %s: unexpected status %d %s", e.URL, e.Status, http.StatusText(e.Status))
}

// Config locates the site serving the manifest and post files.
type Config struct {
	BaseURL      string
	ManifestPath string
	Timeout      time.Duration
}

// Option customises a Loader.
type Option func(*Loader)

// WithHTTPClient routes requests through hc, typically an httptest server client.
func WithHTTPClient(hc *http.Client) Option {
	return func(l *Loader) {
		if hc != nil {
			l.httpClient = hc
		}
	}
}

// WithLogger sets the loader logger.
func WithLogger(logger interfaces.Logger) Option {
	return func(l *Loader) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// WithParser sets the frontmatter parser used to strip fetched posts.
func WithParser(parser *frontmatter.Parser) Option {
	return func(l *Loader) {
		if parser != nil {
			l.parser = parser
		}
	}
}

// Loader resolves a slug to a post with two sequential GETs: the manifest,
// then the post's contentPath. Nothing is cached between calls.
type Loader struct {
	cfg        Config
	httpClient *http.Client
	client     *resty.Client
	parser     *frontmatter.Parser
	logger     interfaces.Logger
}

var _ interfaces.PostLoader = (*Loader)(nil)

// NewLoader builds a loader for cfg.
func NewLoader(cfg Config, opts ...Option) *Loader {
	if strings.TrimSpace(cfg.ManifestPath) == "" {
		cfg.ManifestPath = DefaultManifestPath
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}

	l := &Loader{
		cfg:    cfg,
		parser: frontmatter.NewParser(frontmatter.ModeLenient),
		logger: logging.NoOp(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(l)
		}
	}

	client := resty.New()
	if l.httpClient != nil {
		client = resty.NewWithClient(l.httpClient)
	}
	l.client = client.
		SetBaseURL(strings.TrimRight(cfg.BaseURL, "/")).
		SetTimeout(cfg.Timeout).
		SetHeader("Accept", "application/json, text/markdown, text/plain, */*")
	return l
}

// List fetches the manifest alone.
func (l *Loader) List(ctx context.Context) (interfaces.Manifest, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	return l.fetchManifest(ctx)
}

// Load resolves slug to its metadata and frontmatter-free body.
func (l *Loader) Load(ctx context.Context, slug string) (*interfaces.Post, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if slug == "" {
		return nil, ErrPostNotFound
	}

	manifest, err := l.fetchManifest(ctx)
	if err != nil {
		return nil, err
	}

	meta, ok := manifest.Find(slug)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrPostNotFound, slug)
	}

	raw, err := l.get(ctx, meta.ContentPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrContentUnavailable, err)
	}

	return &interfaces.Post{
		Metadata: meta,
		Body:     l.parser.Strip(string(raw)),
	}, nil
}

func (l *Loader) fetchManifest(ctx context.Context) (interfaces.Manifest, error) {
	raw, err := l.get(ctx, l.cfg.ManifestPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrIndexUnavailable, err)
	}

	var manifest interfaces.Manifest
	if err := json.Unmarshal(raw, &manifest); err != nil {
		return nil, fmt.Errorf("%w: decode manifest: %w", ErrIndexUnavailable, err)
	}
	if manifest == nil {
		manifest = interfaces.Manifest{}
	}
	return manifest, nil
}

func (l *Loader) get(ctx context.Context, path string) ([]byte, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("empty request path")
	}

	resp, err := l.client.R().SetContext(ctx).Get(path)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, err
	}
	if !resp.IsSuccess() {
		return nil, &StatusError{URL: resp.Request.URL, Status: resp.StatusCode()}
	}
	return resp.Body(), nil
}
