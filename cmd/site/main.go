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
	"golang.org/x/sync/errgroup"

	"github.com/byteland/bytelog"
	"github.com/byteland/bytelog/cmd/internal/bootstrap"
)

var moduleBuilder = bootstrap.BuildModule

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "site: %v\n", err)
		os.Exit(1)
	}
}

// run generates the manifest, then serves the public directory and the blog
// views until ctx ends. With --watch the manifest follows post edits.
func run(ctx context.Context, args []string, stderr io.Writer) error {
	fs := pflag.NewFlagSet("site", pflag.ContinueOnError)
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

	if err := module.BuildIndexHandler(nil).Execute(ctx, bytelog.BuildIndexCommand{}); err != nil {
		return fmt.Errorf("generate blog index: %w", err)
	}

	srv, err := module.Server()
	if err != nil {
		return err
	}

	group, ctx := errgroup.WithContext(ctx)
	group.Go(func() error {
		return srv.ListenAndServe(ctx, cfg.Server.Addr, cfg.Server.ShutdownTimeout.Std())
	})
	if cfg.Index.Watch {
		group.Go(func() error {
			return module.Watcher(nil).Watch(ctx)
		})
	}
	return group.Wait()
}
