package runtimeconfig

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	ErrPostsDirRequired        = errors.New("bytelog config: posts directory is required")
	ErrOutputPathRequired      = errors.New("bytelog config: manifest output path is required")
	ErrFrontmatterModeInvalid  = errors.New("bytelog config: frontmatter mode is invalid")
	ErrManifestPathInvalid     = errors.New("bytelog config: manifest path must start with /")
	ErrLoaderTimeoutInvalid    = errors.New("bytelog config: loader timeout must be positive")
	ErrServerAddrRequired      = errors.New("bytelog config: server address is required")
	ErrPublicDirRequired       = errors.New("bytelog config: public directory is required")
	ErrLoggingProviderRequired = errors.New("bytelog config: logging provider is required")
	ErrLoggingProviderUnknown  = errors.New("bytelog config: logging provider is invalid")
	ErrLoggingLevelInvalid     = errors.New("bytelog config: logging level is invalid")
	ErrLoggingFormatInvalid    = errors.New("bytelog config: logging format is invalid")
)

// Duration is a time.Duration that reads "10s"-style strings from config
// files and environment variables.
type Duration time.Duration

// Std returns the value as a time.Duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(strings.TrimSpace(string(text)))
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", string(text), err)
	}
	*d = Duration(parsed)
	return nil
}

// Config aggregates settings for the index builder, the post loader, the
// renderer, the site server and logging.
type Config struct {
	Index   IndexConfig   `json:"index" envPrefix:"INDEX_"`
	Loader  LoaderConfig  `json:"loader" envPrefix:"LOADER_"`
	Render  RenderConfig  `json:"render" envPrefix:"RENDER_"`
	Server  ServerConfig  `json:"server" envPrefix:"SERVER_"`
	Logging LoggingConfig `json:"logging" envPrefix:"LOG_"`
}

// IndexConfig drives the build-time manifest generation.
type IndexConfig struct {
	PostsDir        string   `json:"posts_dir" env:"POSTS_DIR"`
	OutputPath      string   `json:"output_path" env:"OUTPUT_PATH"`
	ContentPrefix   string   `json:"content_prefix" env:"CONTENT_PREFIX"`
	FrontmatterMode string   `json:"frontmatter_mode" env:"FRONTMATTER_MODE"`
	Watch           bool     `json:"watch" env:"WATCH"`
	Debounce        Duration `json:"debounce" env:"DEBOUNCE"`
}

// LoaderConfig locates the manifest at view time.
type LoaderConfig struct {
	BaseURL      string   `json:"base_url" env:"BASE_URL"`
	ManifestPath string   `json:"manifest_path" env:"MANIFEST_PATH"`
	Timeout      Duration `json:"timeout" env:"TIMEOUT"`
}

// RenderConfig selects goldmark behaviour.
type RenderConfig struct {
	Extensions []string `json:"extensions" env:"EXTENSIONS" envSeparator:","`
	HardWraps  bool     `json:"hard_wraps" env:"HARD_WRAPS"`
	SafeMode   bool     `json:"safe_mode" env:"SAFE_MODE"`
}

// ServerConfig controls the site server.
type ServerConfig struct {
	Addr            string   `json:"addr" env:"ADDR"`
	PublicDir       string   `json:"public_dir" env:"PUBLIC_DIR"`
	SiteTitle       string   `json:"site_title" env:"SITE_TITLE"`
	ShutdownTimeout Duration `json:"shutdown_timeout" env:"SHUTDOWN_TIMEOUT"`
}

// LoggingConfig captures provider-specific options for runtime logging.
type LoggingConfig struct {
	Provider  string   `json:"provider" env:"PROVIDER"`
	Level     string   `json:"level" env:"LEVEL"`
	Format    string   `json:"format" env:"FORMAT"`
	AddSource bool     `json:"add_source" env:"ADD_SOURCE"`
	Focus     []string `json:"focus" env:"FOCUS" envSeparator:","`
}

// DefaultConfig mirrors the site layout: posts under public/posts and the
// manifest at public/blog-index.json, served from public/.
func DefaultConfig() Config {
	return Config{
		Index: IndexConfig{
			PostsDir:        "public/posts",
			OutputPath:      "public/blog-index.json",
			ContentPrefix:   "posts",
			FrontmatterMode: "lenient",
			Debounce:        Duration(200 * time.Millisecond),
		},
		Loader: LoaderConfig{
			BaseURL:      "http://localhost:8080",
			ManifestPath: "/blog-index.json",
			Timeout:      Duration(10 * time.Second),
		},
		Render: RenderConfig{},
		Server: ServerConfig{
			Addr:            ":8080",
			PublicDir:       "public",
			SiteTitle:       "ByteLog - ByteLand Blog",
			ShutdownTimeout: Duration(10 * time.Second),
		},
		Logging: LoggingConfig{
			Provider: "console",
			Level:    "info",
		},
	}
}

// Validate performs consistency checks and returns the first violation.
func (cfg Config) Validate() error {
	if strings.TrimSpace(cfg.Index.PostsDir) == "" {
		return ErrPostsDirRequired
	}
	if strings.TrimSpace(cfg.Index.OutputPath) == "" {
		return ErrOutputPathRequired
	}
	switch strings.ToLower(strings.TrimSpace(cfg.Index.FrontmatterMode)) {
	case "", "lenient", "yaml":
	default:
		return fmt.Errorf("%w: %s", ErrFrontmatterModeInvalid, cfg.Index.FrontmatterMode)
	}
	if path := strings.TrimSpace(cfg.Loader.ManifestPath); path != "" && !strings.HasPrefix(path, "/") {
		return fmt.Errorf("%w: %s", ErrManifestPathInvalid, path)
	}
	if cfg.Loader.Timeout < 0 {
		return ErrLoaderTimeoutInvalid
	}
	if strings.TrimSpace(cfg.Server.Addr) == "" {
		return ErrServerAddrRequired
	}
	if strings.TrimSpace(cfg.Server.PublicDir) == "" {
		return ErrPublicDirRequired
	}

	provider := strings.ToLower(strings.TrimSpace(cfg.Logging.Provider))
	if provider == "" {
		return ErrLoggingProviderRequired
	}
	if provider != "console" && provider != "gologger" {
		return fmt.Errorf("%w: %s", ErrLoggingProviderUnknown, provider)
	}
	if level := strings.TrimSpace(cfg.Logging.Level); level != "" && !isSupportedLevel(level) {
		return fmt.Errorf("%w: %s", ErrLoggingLevelInvalid, level)
	}
	if provider == "gologger" {
		if format := strings.TrimSpace(cfg.Logging.Format); format != "" && !isSupportedFormat(format) {
			return fmt.Errorf("%w: %s", ErrLoggingFormatInvalid, format)
		}
	}
	return nil
}

func isSupportedLevel(level string) bool {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "trace", "debug", "info", "warn", "warning", "error", "fatal":
		return true
	default:
		return false
	}
}

func isSupportedFormat(format string) bool {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "json", "console", "pretty":
		return true
	default:
		return false
	}
}
