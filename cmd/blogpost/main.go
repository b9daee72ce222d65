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
		fmt.Fprintf(os.Stderr, "blogpost: %v\n", err)
		os.Exit(1)
	}
}

// run fetches one post from a running site and prints its body, either the
// stripped markdown or, with --html, the rendered document fragment.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	fs := pflag.NewFlagSet("blogpost", pflag.ContinueOnError)
	fs.SetOutput(stderr)
	flags := bootstrap.RegisterFlags(fs)
	asHTML := fs.Bool("html", false, "Print rendered HTML instead of markdown")
	list := fs.BoolP("list", "l", false, "List manifest entries instead of loading a post")
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

	if *list {
		manifest, err := module.Loader().List(ctx)
		if err != nil {
			return err
		}
		for _, entry := range manifest {
			fmt.Fprintf(stdout, "%s\t%s\t%s\n", entry.Slug, entry.Date, entry.Title)
		}
		return nil
	}

	if fs.NArg() != 1 {
		return errors.New("expected exactly one slug argument")
	}

	var view bytelog.PostView
	handler := module.LoadPostHandler(func(_ context.Context, v bytelog.PostView) {
		view = v
	})
	if err := handler.Execute(ctx, bytelog.LoadPostCommand{Slug: fs.Arg(0)}); err != nil {
		if view.State.Message() != "" {
			return fmt.Errorf("%s: %s", view.State.Title(), view.State.Message())
		}
		return err
	}

	if !*asHTML {
		fmt.Fprintln(stdout, view.Post.Body)
		return nil
	}
	html, err := module.Renderer().Render([]byte(view.Post.Body), view.Post.BasePath())
	if err != nil {
		return fmt.Errorf("render %s: %w", view.Slug, err)
	}
	_, err = stdout.Write(html)
	return err
}
