package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/byteland/bytelog/internal/logging"
	"github.com/byteland/bytelog/internal/postloader"
	"github.com/byteland/bytelog/internal/render"
	"github.com/byteland/bytelog/internal/server/views"
	"github.com/byteland/bytelog/pkg/interfaces"
)

// DefaultShutdownTimeout bounds graceful shutdown in ListenAndServe.
const DefaultShutdownTimeout = 10 * time.Second

var ErrPublicDirRequired = errors.New("server: public directory is required")

// PostSource is the view-time side of the blog: the manifest and single
// post views. *postloader.Loader satisfies it.
type PostSource interface {
	List(ctx context.Context) (interfaces.Manifest, error)
	View(ctx context.Context, slug string) postloader.View
}

var _ PostSource = (*postloader.Loader)(nil)

// Config controls what the server exposes.
type Config struct {
	PublicDir string
	SiteTitle string
}

// Option customises a Server.
type Option func(*Server)

// WithLogger sets the logger used for requests and render failures.
func WithLogger(logger interfaces.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithRenderer replaces the default goldmark renderer.
func WithRenderer(renderer interfaces.MarkdownRenderer) Option {
	return func(s *Server) {
		if renderer != nil {
			s.renderer = renderer
		}
	}
}

// Server serves the public directory and the blog views.
type Server struct {
	cfg      Config
	posts    PostSource
	renderer interfaces.MarkdownRenderer
	logger   interfaces.Logger
	router   chi.Router
}

// New builds the router. posts is required.
func New(cfg Config, posts PostSource, opts ...Option) (*Server, error) {
	if strings.TrimSpace(cfg.PublicDir) == "" {
		return nil, ErrPublicDirRequired
	}
	if posts == nil {
		return nil, errors.New("server: post source is required")
	}
	if cfg.SiteTitle == "" {
		cfg.SiteTitle = views.DefaultSiteTitle
	}

	s := &Server{
		cfg:    cfg,
		posts:  posts,
		logger: logging.NoOp(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	if s.renderer == nil {
		s.renderer = render.NewGoldmarkRenderer(interfaces.RenderOptions{})
	}
	s.router = s.routes()
	return s, nil
}

// Handler exposes the router for embedding or tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RequestLogger(&middleware.DefaultLogFormatter{
		Logger:  printLogger{logger: s.logger},
		NoColor: true,
	}))
	r.Use(middleware.Recoverer)

	r.Get("/health", s.health)
	r.Get("/blog", s.listPosts)
	r.Get("/blog/", s.listPosts)
	r.Get("/blog/{slug}", s.showPost)
	r.Handle("/*", http.FileServer(http.Dir(s.cfg.PublicDir)))
	return r
}

// ListenAndServe serves on addr until ctx ends, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string, shutdownTimeout time.Duration) error {
	if shutdownTimeout <= 0 {
		shutdownTimeout = DefaultShutdownTimeout
	}
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server.listen", "addr", addr, "public_dir", s.cfg.PublicDir)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server: listen %s: %w", addr, err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	s.logger.Info("server.shutdown", "addr", addr)
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server: shutdown: %w", err)
	}
	return nil
}

// printLogger feeds chi's request log lines into the module logger.
type printLogger struct {
	logger interfaces.Logger
}

func (p printLogger) Print(v ...any) {
	p.logger.Info("server.request", "line", strings.TrimSpace(fmt.Sprint(v...)))
}
