package bootstrap

import (
	"testing"

	"github.com/spf13/pflag"

	"github.com/byteland/bytelog"
)

func TestApplyOnlyCopiesChangedFlags(t *testing.T) {
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags := RegisterFlags(fs)
	if err := fs.Parse([]string{"--posts-dir", "content/posts", "-o", "dist/index.json", "--watch"}); err != nil {
		t.Fatalf("parse: %v", err)
	}

	cfg := bytelog.DefaultConfig()
	flags.Apply(&cfg)

	if cfg.Index.PostsDir != "content/posts" || cfg.Index.OutputPath != "dist/index.json" {
		t.Fatalf("expected flag overrides, got %#v", cfg.Index)
	}
	if !cfg.Index.Watch {
		t.Fatal("expected watch flag applied")
	}
	if cfg.Server.Addr != bytelog.DefaultConfig().Server.Addr {
		t.Fatalf("expected untouched addr, got %q", cfg.Server.Addr)
	}
	if cfg.Index.ContentPrefix != "posts" {
		t.Fatalf("expected default content prefix, got %q", cfg.Index.ContentPrefix)
	}
}

func TestLoadConfigValidatesFlags(t *testing.T) {
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags := RegisterFlags(fs)
	if err := fs.Parse([]string{"--env-file", "", "--log-provider", "syslog"}); err != nil {
		t.Fatalf("parse: %v", err)
	}

	if _, err := flags.LoadConfig(); err == nil {
		t.Fatal("expected invalid provider flag to fail validation")
	}
}
