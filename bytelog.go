package bytelog

import (
	"context"
	"io"
	"net/http"
	"strings"

	"github.com/byteland/bytelog/internal/blogindex"
	blogcmd "github.com/byteland/bytelog/internal/commands/blog"
	"github.com/byteland/bytelog/internal/frontmatter"
	"github.com/byteland/bytelog/internal/logging"
	"github.com/byteland/bytelog/internal/postloader"
	"github.com/byteland/bytelog/internal/render"
	"github.com/byteland/bytelog/internal/server"
	"github.com/byteland/bytelog/pkg/interfaces"
)

// Manifest exports the blog index type.
type Manifest = interfaces.Manifest

// PostMetadata exports a single manifest entry.
type PostMetadata = interfaces.PostMetadata

// Post exports a loaded post.
type Post = interfaces.Post

// PostView exports the outcome of a single post view.
type PostView = postloader.View

// PostState exports the view states.
type PostState = postloader.State

// Watcher exports the posts directory watcher.
type Watcher = blogindex.Watcher

// Server exports the site server.
type Server = server.Server

// BuildIndexCommand exports the index build command message.
type BuildIndexCommand = blogcmd.BuildIndexCommand

// LoadPostCommand exports the post load command message.
type LoadPostCommand = blogcmd.LoadPostCommand

var (
	ErrIndexUnavailable   = postloader.ErrIndexUnavailable
	ErrPostNotFound       = postloader.ErrPostNotFound
	ErrContentUnavailable = postloader.ErrContentUnavailable
	ErrManifestInvalid    = blogindex.ErrManifestInvalid
)

// Option customises New.
type Option func(*options)

type options struct {
	provider   interfaces.LoggerProvider
	logWriter  io.Writer
	httpClient *http.Client
}

// WithLoggerProvider replaces the provider built from Config.Logging.
func WithLoggerProvider(provider interfaces.LoggerProvider) Option {
	return func(o *options) {
		o.provider = provider
	}
}

// WithLogWriter sets where the console provider writes.
func WithLogWriter(w io.Writer) Option {
	return func(o *options) {
		o.logWriter = w
	}
}

// WithHTTPClient routes post loader requests through hc.
func WithHTTPClient(hc *http.Client) Option {
	return func(o *options) {
		o.httpClient = hc
	}
}

// Module is the top level façade: one configured index builder, post loader,
// renderer and logger provider.
type Module struct {
	cfg      Config
	provider interfaces.LoggerProvider
	parser   *frontmatter.Parser
	builder  *blogindex.Builder
	loader   *postloader.Loader
	renderer *render.GoldmarkRenderer
}

// New validates cfg and wires the runtime.
func New(cfg Config, opts ...Option) (*Module, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	o := options{}
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}

	provider := o.provider
	if provider == nil {
		var err error
		provider, err = NewLoggerProvider(cfg.Logging, o.logWriter)
		if err != nil {
			return nil, err
		}
	}

	parser := frontmatter.NewParser(frontmatter.Mode(strings.ToLower(strings.TrimSpace(cfg.Index.FrontmatterMode))))

	builder := blogindex.NewBuilder(indexConfig(cfg),
		blogindex.WithLogger(logging.BlogIndexLogger(provider)),
		blogindex.WithParser(parser),
	)

	loader := newLoader(cfg, cfg.Loader.BaseURL, provider, parser, o.httpClient)

	renderer := render.NewGoldmarkRenderer(interfaces.RenderOptions{
		Extensions: cfg.Render.Extensions,
		HardWraps:  cfg.Render.HardWraps,
		SafeMode:   cfg.Render.SafeMode,
	})

	return &Module{
		cfg:      cfg,
		provider: provider,
		parser:   parser,
		builder:  builder,
		loader:   loader,
		renderer: renderer,
	}, nil
}

func newLoader(cfg Config, baseURL string, provider interfaces.LoggerProvider, parser *frontmatter.Parser, hc *http.Client) *postloader.Loader {
	opts := []postloader.Option{
		postloader.WithLogger(logging.PostLoaderLogger(provider)),
		postloader.WithParser(parser),
	}
	if hc != nil {
		opts = append(opts, postloader.WithHTTPClient(hc))
	}
	return postloader.NewLoader(postloader.Config{
		BaseURL:      baseURL,
		ManifestPath: cfg.Loader.ManifestPath,
		Timeout:      cfg.Loader.Timeout.Std(),
	}, opts...)
}

func indexConfig(cfg Config) blogindex.Config {
	return blogindex.Config{
		PostsDir:      cfg.Index.PostsDir,
		OutputPath:    cfg.Index.OutputPath,
		ContentPrefix: cfg.Index.ContentPrefix,
	}
}

// Config returns the validated configuration.
func (m *Module) Config() Config {
	return m.cfg
}

// LoggerProvider exposes the provider every component logs through.
func (m *Module) LoggerProvider() interfaces.LoggerProvider {
	return m.provider
}

// Builder returns the index builder.
func (m *Module) Builder() interfaces.IndexBuilder {
	return m.builder
}

// Loader returns the post loader.
func (m *Module) Loader() interfaces.PostLoader {
	return m.loader
}

// Renderer returns the markdown renderer.
func (m *Module) Renderer() interfaces.MarkdownRenderer {
	return m.renderer
}

// BuildIndex scans the posts directory and writes the manifest artifact.
func (m *Module) BuildIndex(ctx context.Context) (Manifest, error) {
	return m.builder.Run(ctx)
}

// View loads slug and reports the outcome as a PostView.
func (m *Module) View(ctx context.Context, slug string) PostView {
	return m.loader.View(ctx, slug)
}

// Watcher returns a watcher that rebuilds the manifest when posts change.
func (m *Module) Watcher(onBuild func(Manifest, error)) *Watcher {
	opts := []blogindex.WatcherOption{
		blogindex.WithDebounce(m.cfg.Index.Debounce.Std()),
		blogindex.WithWatcherLogger(logging.BlogIndexLogger(m.provider)),
	}
	if onBuild != nil {
		opts = append(opts, blogindex.OnBuild(onBuild))
	}
	return blogindex.NewWatcher(m.builder, opts...)
}

// Server builds the site server. Its post loader reads the manifest and post
// files from the server's own routes in process, so views work on any
// listen address. Loader.BaseURL is not consulted.
func (m *Module) Server() (*Server, error) {
	loopback := &server.Loopback{}
	loader := newLoader(m.cfg, server.LoopbackBaseURL, m.provider, m.parser, loopback.Client())

	srv, err := server.New(server.Config{
		PublicDir: m.cfg.Server.PublicDir,
		SiteTitle: m.cfg.Server.SiteTitle,
	}, loader,
		server.WithLogger(logging.ServerLogger(m.provider)),
		server.WithRenderer(m.renderer),
	)
	if err != nil {
		return nil, err
	}
	loopback.Bind(srv.Handler())
	return srv, nil
}

// BuildIndexHandler returns the command handler for BuildIndexCommand. The
// module's index settings are the defaults a command may override.
func (m *Module) BuildIndexHandler(onResult func(context.Context, Manifest)) *blogcmd.BuildIndexHandler {
	logger := logging.CommandLogger(m.provider, "build_index")
	factory := func(cfg blogindex.Config) interfaces.IndexBuilder {
		return blogindex.NewBuilder(cfg,
			blogindex.WithLogger(logging.BlogIndexLogger(m.provider)),
			blogindex.WithParser(m.parser),
		)
	}
	return blogcmd.NewBuildIndexHandler(indexConfig(m.cfg), factory, onResult, logger)
}

// LoadPostHandler returns the command handler for LoadPostCommand.
func (m *Module) LoadPostHandler(onView func(context.Context, PostView)) *blogcmd.LoadPostHandler {
	return blogcmd.NewLoadPostHandler(m.loader, onView, logging.CommandLogger(m.provider, "load_post"))
}
