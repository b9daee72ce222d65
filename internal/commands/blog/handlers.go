package blogcmd

import (
	"context"
	"fmt"

	command "github.com/goliatone/go-command"

	"github.com/byteland/bytelog/internal/blogindex"
	"github.com/byteland/bytelog/internal/commands"
	"github.com/byteland/bytelog/internal/logging"
	"github.com/byteland/bytelog/internal/postloader"
	"github.com/byteland/bytelog/pkg/interfaces"
)

const (
	buildIndexOperation = "blog.build_index"
	loadPostOperation   = "blog.load_post"
)

var (
	_ command.Commander[BuildIndexCommand] = (*BuildIndexHandler)(nil)
	_ command.Commander[LoadPostCommand]   = (*LoadPostHandler)(nil)
)

// BuilderFactory returns the builder for a resolved configuration.
type BuilderFactory func(cfg blogindex.Config) interfaces.IndexBuilder

// BuildResultFunc receives the manifest produced by a successful build.
type BuildResultFunc func(ctx context.Context, manifest interfaces.Manifest)

// BuildIndexHandler runs the index builder for BuildIndexCommand.
type BuildIndexHandler struct {
	inner *commands.Handler[BuildIndexCommand]
}

// NewBuildIndexHandler binds the handler to defaults. Command fields override
// the matching default when set.
func NewBuildIndexHandler(defaults blogindex.Config, factory BuilderFactory, onResult BuildResultFunc, logger interfaces.Logger, opts ...commands.HandlerOption[BuildIndexCommand]) *BuildIndexHandler {
	if logger == nil {
		logger = logging.NoOp()
	}
	if factory == nil {
		factory = func(cfg blogindex.Config) interfaces.IndexBuilder {
			return blogindex.NewBuilder(cfg, blogindex.WithLogger(logger))
		}
	}

	exec := func(ctx context.Context, msg BuildIndexCommand) error {
		manifest, err := factory(resolveBuildConfig(defaults, msg)).Run(ctx)
		if err != nil {
			return err
		}
		if onResult != nil {
			onResult(ctx, manifest)
		}
		return nil
	}

	handlerOpts := []commands.HandlerOption[BuildIndexCommand]{
		commands.WithLogger[BuildIndexCommand](logger),
		commands.WithOperation[BuildIndexCommand](buildIndexOperation),
		commands.WithMessageFields[BuildIndexCommand](func(msg BuildIndexCommand) map[string]any {
			cfg := resolveBuildConfig(defaults, msg)
			return map[string]any{
				"posts_dir":      cfg.PostsDir,
				"output_path":    cfg.OutputPath,
				"content_prefix": cfg.ContentPrefix,
			}
		}),
		commands.WithTelemetry[BuildIndexCommand](commands.DefaultTelemetry[BuildIndexCommand](logger)),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &BuildIndexHandler{inner: commands.NewHandler[BuildIndexCommand](exec, handlerOpts...)}
}

// Execute satisfies command.Commander[BuildIndexCommand].
func (h *BuildIndexHandler) Execute(ctx context.Context, msg BuildIndexCommand) error {
	return h.inner.Execute(ctx, msg)
}

func resolveBuildConfig(defaults blogindex.Config, msg BuildIndexCommand) blogindex.Config {
	cfg := defaults
	if msg.PostsDir != "" {
		cfg.PostsDir = msg.PostsDir
	}
	if msg.OutputPath != "" {
		cfg.OutputPath = msg.OutputPath
	}
	if msg.ContentPrefix != "" {
		cfg.ContentPrefix = msg.ContentPrefix
	}
	return cfg
}

// PostViewer is the part of the post loader the command needs.
type PostViewer interface {
	View(ctx context.Context, slug string) postloader.View
}

// ViewFunc receives every view, ready or not.
type ViewFunc func(ctx context.Context, view postloader.View)

// ViewError is returned when a view did not reach StateReady.
type ViewError struct {
	View postloader.View
}

func (e *ViewError) Error() string {
	if e.View.Err != nil {
		return fmt.Sprintf("post %q %s: %v", e.View.Slug, e.View.State, e.View.Err)
	}
	return fmt.Sprintf("post %q %s", e.View.Slug, e.View.State)
}

func (e *ViewError) Unwrap() error {
	return e.View.Err
}

// LoadPostHandler resolves LoadPostCommand through the post loader.
type LoadPostHandler struct {
	inner *commands.Handler[LoadPostCommand]
}

// NewLoadPostHandler binds the handler to viewer. onView sees every outcome;
// the command fails with a ViewError unless the post is ready.
func NewLoadPostHandler(viewer PostViewer, onView ViewFunc, logger interfaces.Logger, opts ...commands.HandlerOption[LoadPostCommand]) *LoadPostHandler {
	if logger == nil {
		logger = logging.NoOp()
	}

	exec := func(ctx context.Context, msg LoadPostCommand) error {
		view := viewer.View(ctx, msg.Slug)
		if onView != nil {
			onView(ctx, view)
		}
		if !view.Ready() {
			return &ViewError{View: view}
		}
		return nil
	}

	handlerOpts := []commands.HandlerOption[LoadPostCommand]{
		commands.WithLogger[LoadPostCommand](logger),
		commands.WithOperation[LoadPostCommand](loadPostOperation),
		commands.WithMessageFields[LoadPostCommand](func(msg LoadPostCommand) map[string]any {
			return map[string]any{"slug": msg.Slug}
		}),
		commands.WithTelemetry[LoadPostCommand](commands.DefaultTelemetry[LoadPostCommand](logger)),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &LoadPostHandler{inner: commands.NewHandler[LoadPostCommand](exec, handlerOpts...)}
}

// Execute satisfies command.Commander[LoadPostCommand].
func (h *LoadPostHandler) Execute(ctx context.Context, msg LoadPostCommand) error {
	return h.inner.Execute(ctx, msg)
}
