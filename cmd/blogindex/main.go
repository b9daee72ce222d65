package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/pflag"

	"github.com/byteland/bytelog"
	"github.com/byteland/bytelog/cmd/internal/bootstrap"
)

var moduleBuilder = bootstrap.BuildModule

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "blogindex: %v\n", err)
		os.Exit(1)
	}
}

// run builds the manifest once and, with --watch, keeps rebuilding until
// ctx ends. A missing posts directory still produces an empty manifest.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	fs := pflag.NewFlagSet("blogindex", pflag.ContinueOnError)
	fs.SetOutput(stderr)
	flags := bootstrap.RegisterFlags(fs)
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil
		}
		return err
	}

	cfg, err := flags.LoadConfig()
	if err != nil {
		return err
	}
	module, err := moduleBuilder(cfg, stderr)
	if err != nil {
		return err
	}

	report := func(manifest bytelog.Manifest) {
		fmt.Fprintf(stdout, "Blog index generated with %d posts.\n", len(manifest))
		fmt.Fprintf(stdout, "Output file: %s\n", cfg.Index.OutputPath)
	}

	handler := module.BuildIndexHandler(func(_ context.Context, manifest bytelog.Manifest) {
		report(manifest)
	})
	if err := handler.Execute(ctx, bytelog.BuildIndexCommand{}); err != nil {
		return fmt.Errorf("generate blog index: %w", err)
	}

	if !cfg.Index.Watch {
		return nil
	}
	watcher := module.Watcher(func(manifest bytelog.Manifest, err error) {
		if err != nil {
			fmt.Fprintf(stderr, "blogindex: rebuild failed: %v\n", err)
			return
		}
		report(manifest)
	})
	return watcher.Watch(ctx)
}
