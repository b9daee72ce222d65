package runtimeconfig

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected defaults to validate, got %v", err)
	}
	if cfg.Index.OutputPath != "public/blog-index.json" || cfg.Loader.ManifestPath != "/blog-index.json" {
		t.Fatalf("unexpected manifest locations %#v / %#v", cfg.Index, cfg.Loader)
	}
}

func TestValidateRejectsInvalidSettings(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
		want   error
	}{
		{"posts dir", func(c *Config) { c.Index.PostsDir = " " }, ErrPostsDirRequired},
		{"output path", func(c *Config) { c.Index.OutputPath = "" }, ErrOutputPathRequired},
		{"frontmatter mode", func(c *Config) { c.Index.FrontmatterMode = "toml" }, ErrFrontmatterModeInvalid},
		{"manifest path", func(c *Config) { c.Loader.ManifestPath = "blog-index.json" }, ErrManifestPathInvalid},
		{"loader timeout", func(c *Config) { c.Loader.Timeout = Duration(-time.Second) }, ErrLoaderTimeoutInvalid},
		{"server addr", func(c *Config) { c.Server.Addr = "" }, ErrServerAddrRequired},
		{"public dir", func(c *Config) { c.Server.PublicDir = "" }, ErrPublicDirRequired},
		{"provider missing", func(c *Config) { c.Logging.Provider = "" }, ErrLoggingProviderRequired},
		{"provider unknown", func(c *Config) { c.Logging.Provider = "zap" }, ErrLoggingProviderUnknown},
		{"level", func(c *Config) { c.Logging.Level = "loud" }, ErrLoggingLevelInvalid},
		{"format", func(c *Config) {
			c.Logging.Provider = "gologger"
			c.Logging.Format = "xml"
		}, ErrLoggingFormatInvalid},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tc.mutate(&cfg)
			if err := cfg.Validate(); !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestDecodeMergesJSONCOverDefaults(t *testing.T) {
	cfg := DefaultConfig()
	doc := []byte(`{
  // build settings
  "index": {"posts_dir": "content/posts", "debounce": "1s"},
  "loader": {"timeout": "3s"},
  "render": {"extensions": ["gfm"], "safe_mode": true,},
  "logging": {"provider": "gologger", "format": "pretty"},
}`)

	if err := Decode(&cfg, doc); err != nil {
		t.Fatalf("Decode: %v", err)
	}

	if cfg.Index.PostsDir != "content/posts" {
		t.Fatalf("expected posts dir override, got %q", cfg.Index.PostsDir)
	}
	if cfg.Index.OutputPath != "public/blog-index.json" {
		t.Fatalf("expected output path default kept, got %q", cfg.Index.OutputPath)
	}
	if cfg.Index.Debounce.Std() != time.Second || cfg.Loader.Timeout.Std() != 3*time.Second {
		t.Fatalf("unexpected durations %s %s", cfg.Index.Debounce.Std(), cfg.Loader.Timeout.Std())
	}
	if diff := cmp.Diff([]string{"gfm"}, cfg.Render.Extensions); diff != "" {
		t.Fatalf("extensions mismatch (-want +got):\n%s", diff)
	}
	if !cfg.Render.SafeMode || cfg.Logging.Provider != "gologger" || cfg.Logging.Format != "pretty" {
		t.Fatalf("unexpected merged config %#v", cfg)
	}
}

func TestDecodeRejectsUnknownKeys(t *testing.T) {
	cfg := DefaultConfig()
	if err := Decode(&cfg, []byte(`{"index": {"post_dir": "x"}}`)); err == nil {
		t.Fatal("expected unknown key to be rejected")
	}
}

func TestLoadLayersFileDotenvAndEnvironment(t *testing.T) {
	dir := t.TempDir()
	configFile := filepath.Join(dir, "bytelog.jsonc")
	envFile := filepath.Join(dir, ".env")

	writeFile(t, configFile, `{"server": {"addr": ":9000", "site_title": "From file"}}`)
	writeFile(t, envFile, "BYTELOG_SERVER_ADDR=:9100\nBYTELOG_LOG_LEVEL=debug\nBYTELOG_RENDER_EXTENSIONS=gfm,typographer\n")

	cfg, err := Load(LoadOptions{
		ConfigFile: configFile,
		EnvFile:    envFile,
		Environ: []string{
			"BYTELOG_SERVER_ADDR=:9200",
			"BYTELOG_LOADER_TIMEOUT=250ms",
			"UNRELATED=1",
		},
	})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Server.Addr != ":9200" {
		t.Fatalf("expected process environment to win, got %q", cfg.Server.Addr)
	}
	if cfg.Server.SiteTitle != "From file" {
		t.Fatalf("expected file value, got %q", cfg.Server.SiteTitle)
	}
	if cfg.Logging.Level != "debug" {
		t.Fatalf("expected dotenv level, got %q", cfg.Logging.Level)
	}
	if cfg.Loader.Timeout.Std() != 250*time.Millisecond {
		t.Fatalf("expected env timeout, got %s", cfg.Loader.Timeout.Std())
	}
	if diff := cmp.Diff([]string{"gfm", "typographer"}, cfg.Render.Extensions); diff != "" {
		t.Fatalf("extensions mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadSkipsMissingDotenvButNotMissingConfig(t *testing.T) {
	dir := t.TempDir()

	if _, err := Load(LoadOptions{EnvFile: filepath.Join(dir, ".env"), Environ: []string{}}); err != nil {
		t.Fatalf("expected missing dotenv to be skipped, got %v", err)
	}
	if _, err := Load(LoadOptions{ConfigFile: filepath.Join(dir, "missing.jsonc"), Environ: []string{}}); err == nil {
		t.Fatal("expected missing config file to fail")
	}
}

func TestLoadValidatesResult(t *testing.T) {
	_, err := Load(LoadOptions{Environ: []string{"BYTELOG_LOG_PROVIDER=zap"}})
	if !errors.Is(err, ErrLoggingProviderUnknown) {
		t.Fatalf("expected provider error, got %v", err)
	}
}

func TestLoadRejectsBadDuration(t *testing.T) {
	if _, err := Load(LoadOptions{Environ: []string{"BYTELOG_INDEX_DEBOUNCE=soon"}}); err == nil {
		t.Fatal("expected invalid duration to fail")
	}
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func TestLoadAppliesOverrideLast(t *testing.T) {
	cfg, err := Load(LoadOptions{
		Environ: []string{"BYTELOG_SERVER_ADDR=:9000"},
		Override: func(c *Config) {
			c.Server.Addr = ":9999"
		},
	})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Addr != ":9999" {
		t.Fatalf("expected override to win, got %q", cfg.Server.Addr)
	}

	_, err = Load(LoadOptions{
		Environ:  []string{},
		Override: func(c *Config) { c.Index.OutputPath = "" },
	})
	if !errors.Is(err, ErrOutputPathRequired) {
		t.Fatalf("expected override to be validated, got %v", err)
	}
}
