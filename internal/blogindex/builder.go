package blogindex

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/goliatone/go-slug"
	"github.com/google/uuid"

	"github.com/byteland/bytelog/internal/frontmatter"
	"github.com/byteland/bytelog/internal/logging"
	"github.com/byteland/bytelog/pkg/interfaces"
)

const (
	DefaultPostsDir      = "public/posts"
	DefaultOutputPath    = "public/blog-index.json"
	DefaultContentPrefix = "posts"

	markdownExt = ".md"
)

var (
	// ErrPostsDirRequired is returned when the builder has no directory to scan.
	ErrPostsDirRequired = errors.New("blogindex: posts directory is required")
	// ErrOutputPathRequired is returned by Run when no artifact path is set.
	ErrOutputPathRequired = errors.New("blogindex: output path is required")
)

// Config locates the posts and the artifact.
type Config struct {
	PostsDir      string
	OutputPath    string
	ContentPrefix string
}

// DefaultConfig mirrors the site layout: posts under public/posts, manifest at
// public/blog-index.json.
func DefaultConfig() Config {
	return Config{
		PostsDir:      DefaultPostsDir,
		OutputPath:    DefaultOutputPath,
		ContentPrefix: DefaultContentPrefix,
	}
}

// Option customises a Builder.
type Option func(*Builder)

// WithLogger sets the builder logger.
func WithLogger(logger interfaces.Logger) Option {
	return func(b *Builder) {
		if logger != nil {
			b.logger = logger
		}
	}
}

// WithParser sets the frontmatter parser used for each post.
func WithParser(parser *frontmatter.Parser) Option {
	return func(b *Builder) {
		if parser != nil {
			b.parser = parser
		}
	}
}

// WithWriter replaces the artifact writer.
func WithWriter(writer ArtifactWriter) Option {
	return func(b *Builder) {
		if writer != nil {
			b.writer = writer
		}
	}
}

// WithClock overrides the time source used for build timings.
func WithClock(now func() time.Time) Option {
	return func(b *Builder) {
		if now != nil {
			b.now = now
		}
	}
}

// Builder produces the manifest from a posts directory.
type Builder struct {
	cfg    Config
	parser *frontmatter.Parser
	writer ArtifactWriter
	logger interfaces.Logger
	now    func() time.Time
}

var _ interfaces.IndexBuilder = (*Builder)(nil)

// NewBuilder returns a builder for cfg. Empty fields take the defaults from
// DefaultConfig.
func NewBuilder(cfg Config, opts ...Option) *Builder {
	defaults := DefaultConfig()
	if strings.TrimSpace(cfg.PostsDir) == "" {
		cfg.PostsDir = defaults.PostsDir
	}
	if strings.TrimSpace(cfg.OutputPath) == "" {
		cfg.OutputPath = defaults.OutputPath
	}
	if strings.TrimSpace(cfg.ContentPrefix) == "" {
		cfg.ContentPrefix = defaults.ContentPrefix
	}

	b := &Builder{
		cfg:    cfg,
		parser: frontmatter.NewParser(frontmatter.ModeLenient),
		logger: logging.NoOp(),
		now:    time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(b)
		}
	}
	if b.writer == nil {
		b.writer = NewFileWriter()
	}
	return b
}

// Config returns the resolved builder configuration.
func (b *Builder) Config() Config {
	return b.cfg
}

// Build scans the posts directory and returns the sorted manifest. A missing
// directory yields an empty manifest.
func (b *Builder) Build(ctx context.Context) (interfaces.Manifest, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if strings.TrimSpace(b.cfg.PostsDir) == "" {
		return nil, ErrPostsDirRequired
	}

	logger := logging.WithFields(b.logger, map[string]any{
		"build_id":  uuid.NewString(),
		"posts_dir": b.cfg.PostsDir,
	})

	entries, err := os.ReadDir(b.cfg.PostsDir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			logger.Warn("blogindex.build.posts_dir_missing")
			return interfaces.Manifest{}, nil
		}
		return nil, fmt.Errorf("blogindex: read posts directory %s: %w", b.cfg.PostsDir, err)
	}

	posts := make([]interfaces.PostMetadata, 0, len(entries))
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), markdownExt) {
			continue
		}

		meta, err := b.readPost(entry.Name())
		if err != nil {
			return nil, err
		}
		logging.WithPostContext(logger, meta.Slug, entry.Name(), meta.ContentPath).
			Debug("blogindex.build.post", "tags", len(meta.Tags))
		posts = append(posts, meta)
	}

	return SortManifest(posts), nil
}

// Run builds the manifest and writes it to the configured output path.
func (b *Builder) Run(ctx context.Context) (interfaces.Manifest, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if strings.TrimSpace(b.cfg.OutputPath) == "" {
		return nil, ErrOutputPathRequired
	}

	started := b.now()
	manifest, err := b.Build(ctx)
	if err != nil {
		b.logger.Error("blogindex.run.failed", "error", err)
		return nil, err
	}
	if err := b.writer.Write(ctx, b.cfg.OutputPath, manifest); err != nil {
		b.logger.Error("blogindex.run.write_failed", "output", b.cfg.OutputPath, "error", err)
		return nil, err
	}

	b.logger.Info("blogindex.run.completed",
		"posts", len(manifest),
		"output", b.cfg.OutputPath,
		"duration", b.now().Sub(started),
	)
	return manifest, nil
}

func (b *Builder) readPost(name string) (interfaces.PostMetadata, error) {
	raw, err := os.ReadFile(filepath.Join(b.cfg.PostsDir, name))
	if err != nil {
		return interfaces.PostMetadata{}, fmt.Errorf("blogindex: read post %s: %w", name, err)
	}

	doc := b.parser.Parse(string(raw))
	meta := MetadataFromFrontmatter(doc.Metadata)
	meta.ContentPath = ContentPath(b.cfg.ContentPrefix, name)
	if meta.Slug == "" {
		meta.Slug = SlugFromFileName(name)
	}
	return meta, nil
}

// MetadataFromFrontmatter copies the known keys into a PostMetadata and keeps
// every other key in Extra. contentPath is never taken from frontmatter.
func MetadataFromFrontmatter(meta frontmatter.Metadata) interfaces.PostMetadata {
	out := interfaces.PostMetadata{
		Title:  meta.String(interfaces.KeyTitle),
		Date:   meta.String(interfaces.KeyDate),
		Tags:   meta.Tags(),
		Author: meta.String(interfaces.KeyAuthor),
		Slug:   meta.String(interfaces.KeySlug),
	}
	for _, key := range meta.Keys() {
		if interfaces.IsKnownKey(key) {
			continue
		}
		if out.Extra == nil {
			out.Extra = map[string]string{}
		}
		out.Extra[key] = meta.String(key)
	}
	return out
}

// ContentPath returns the site-relative URL of a post file. Forward slashes
// are used on every platform.
func ContentPath(prefix, fileName string) string {
	prefix = strings.Trim(filepath.ToSlash(strings.TrimSpace(prefix)), "/")
	return "/" + path.Join(prefix, fileName)
}

// SlugFromFileName derives a slug for posts that do not declare one.
func SlugFromFileName(fileName string) string {
	base := strings.TrimSuffix(fileName, markdownExt)
	if normalized, err := slug.Normalize(base); err == nil && normalized != "" {
		return normalized
	}
	if base != "" {
		return base
	}
	return fileName
}
