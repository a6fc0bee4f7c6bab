package main

import (
	"context"
	"fmt"
	"io"

	"github.com/zhstats/genrep/internal/api"
	"github.com/zhstats/genrep/internal/config"
)

func runFetch(ctx context.Context, args []string, stdout io.Writer) error {
	fs := newFlagSet("fetch")
	fs.Duration("timeout", 0, "HTTP timeout per request")
	fs.Bool("check", false, "only check that the URL answers")
	if err := start(fs, args, map[string]string{"timeout": "api.timeout"}); err != nil {
		return err
	}
	defer shutdown()

	if fs.NArg() < 1 || fs.NArg() > 2 {
		return fmt.Errorf("%w: genrep fetch [flags] <url> [dir]", errUsage)
	}
	target, dir := fs.Arg(0), "."
	if fs.NArg() == 2 {
		dir = fs.Arg(1)
	}
	if !api.IsURL(target) {
		return fmt.Errorf("%w: %q is not an http(s) URL", errUsage, target)
	}
	phase.Set("fetch")

	client := api.New(config.GetAPIConfig())
	if check, _ := fs.GetBool("check"); check {
		if err := client.Healthcheck(ctx, target); err != nil {
			return err
		}
		fmt.Fprintf(stdout, "%s is reachable\n", target)
		return nil
	}

	paths, err := client.Fetch(ctx, target, dir)
	for _, p := range paths {
		fmt.Fprintln(stdout, p)
	}
	Logger.Info("Fetched replays", "url", target, "saved", len(paths))
	if err != nil {
		return fmt.Errorf("fetched %d replays with errors: %w", len(paths), err)
	}
	return nil
}
