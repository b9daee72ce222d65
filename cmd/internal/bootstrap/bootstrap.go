package bootstrap

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/pflag"

	"github.com/byteland/bytelog"
)

// Flags holds the command line overrides shared by the bytelog binaries.
// Only flags the user actually set are applied over the loaded config.
type Flags struct {
	ConfigFile string
	EnvFile    string

	PostsDir        string
	OutputPath      string
	ContentPrefix   string
	FrontmatterMode string
	Watch           bool

	BaseURL      string
	ManifestPath string

	Addr      string
	PublicDir string

	LogProvider string
	LogLevel    string
	LogFormat   string

	fs *pflag.FlagSet
}

// RegisterFlags binds the shared flags to fs.
func RegisterFlags(fs *pflag.FlagSet) *Flags {
	f := &Flags{fs: fs}
	fs.StringVarP(&f.ConfigFile, "config", "c", "", "Path to a JSON-with-comments config file")
	fs.StringVar(&f.EnvFile, "env-file", ".env", "Dotenv file read before BYTELOG_* variables (skipped when missing)")

	fs.StringVar(&f.PostsDir, "posts-dir", "", "Directory scanned for markdown posts")
	fs.StringVarP(&f.OutputPath, "output", "o", "", "Path of the generated manifest")
	fs.StringVar(&f.ContentPrefix, "content-prefix", "", "Site path prefix used for contentPath")
	fs.StringVar(&f.FrontmatterMode, "frontmatter", "", "Frontmatter mode: lenient or yaml")
	fs.BoolVarP(&f.Watch, "watch", "w", false, "Rebuild the manifest when posts change")

	fs.StringVar(&f.BaseURL, "base-url", "", "Base URL of the site serving the manifest and posts")
	fs.StringVar(&f.ManifestPath, "manifest-path", "", "Site path of the manifest")

	fs.StringVar(&f.Addr, "addr", "", "Listen address of the site server")
	fs.StringVar(&f.PublicDir, "public-dir", "", "Directory served as the site root")

	fs.StringVar(&f.LogProvider, "log-provider", "", "Logging provider: console or gologger")
	fs.StringVar(&f.LogLevel, "log-level", "", "Minimum log level")
	fs.StringVar(&f.LogFormat, "log-format", "", "go-logger format: json, console or pretty")
	return f
}

// Apply copies every changed flag onto cfg.
func (f *Flags) Apply(cfg *bytelog.Config) {
	set := func(name string, dst *string, value string) {
		if f.fs != nil && f.fs.Changed(name) {
			*dst = strings.TrimSpace(value)
		}
	}
	set("posts-dir", &cfg.Index.PostsDir, f.PostsDir)
	set("output", &cfg.Index.OutputPath, f.OutputPath)
	set("content-prefix", &cfg.Index.ContentPrefix, f.ContentPrefix)
	set("frontmatter", &cfg.Index.FrontmatterMode, f.FrontmatterMode)
	set("base-url", &cfg.Loader.BaseURL, f.BaseURL)
	set("manifest-path", &cfg.Loader.ManifestPath, f.ManifestPath)
	set("addr", &cfg.Server.Addr, f.Addr)
	set("public-dir", &cfg.Server.PublicDir, f.PublicDir)
	set("log-provider", &cfg.Logging.Provider, f.LogProvider)
	set("log-level", &cfg.Logging.Level, f.LogLevel)
	set("log-format", &cfg.Logging.Format, f.LogFormat)
	if f.fs != nil && f.fs.Changed("watch") {
		cfg.Index.Watch = f.Watch
	}
}

// LoadConfig resolves defaults, the config file, the environment and
// finally the flags.
func (f *Flags) LoadConfig() (bytelog.Config, error) {
	cfg, err := bytelog.LoadConfig(bytelog.LoadOptions{
		ConfigFile: f.ConfigFile,
		EnvFile:    f.EnvFile,
		Override:   f.Apply,
	})
	if err != nil {
		return bytelog.Config{}, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

// BuildModule constructs the module for a binary. Console logs go to logs.
func BuildModule(cfg bytelog.Config, logs io.Writer) (*bytelog.Module, error) {
	module, err := bytelog.New(cfg, bytelog.WithLogWriter(logs))
	if err != nil {
		return nil, fmt.Errorf("initialise bytelog module: %w", err)
	}
	return module, nil
}
