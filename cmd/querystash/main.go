// Package main implements the querystash maintenance CLI.
//
// The tool inspects and maintains the on-disk cache configured in
// querystash.toml: entry statistics, expired-entry cleanup, and targeted
// invalidation. It can also list the blocks of a query library file.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/electwix/querystash/internal/cli"
	"github.com/electwix/querystash/internal/config"
	"github.com/electwix/querystash/internal/logging"
	"github.com/electwix/querystash/pkg/cachestore"
	"github.com/electwix/querystash/pkg/query"
)

func main() {
	code := run(context.Background(), os.Args[1:], os.Stdout, os.Stderr)
	os.Exit(code)
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	opts, err := cli.Parse(args)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			_, _ = fmt.Fprintln(stdout, err.Error())
			return 0
		}
		_, _ = fmt.Fprintln(stderr, err.Error())
		return 1
	}

	// Listing a query library needs no cache configuration.
	if opts.ListQueries != "" {
		return listQueries(stdout, stderr, opts.ListQueries)
	}

	settings, err := config.Load(opts.ConfigPath)
	if err != nil {
		_, _ = fmt.Fprintln(stderr, err.Error())
		return 1
	}

	logger := logging.New(logging.Options{
		Verbose: opts.Verbose || settings.Verbose,
		Writer:  stderr,
	})

	store, err := settings.OpenStore()
	if err != nil {
		_, _ = fmt.Fprintln(stderr, err.Error())
		return 1
	}

	switch {
	case opts.PurgeKey != "":
		store.Invalidate(ctx, opts.PurgeKey)
		logger.Info("entry invalidated", "key", opts.PurgeKey)
		return 0
	case opts.Cleanup:
		fs, ok := store.(*cachestore.FileStore)
		if !ok {
			_, _ = fmt.Fprintln(stderr, "cleanup requires the file store")
			return 1
		}
		removed := fs.Cleanup()
		_, _ = fmt.Fprintf(stdout, "removed %d expired entries\n", removed)
		return 0
	case opts.Stats:
		fs, ok := store.(*cachestore.FileStore)
		if !ok {
			_, _ = fmt.Fprintln(stderr, "stats requires the file store")
			return 1
		}
		total, expired, size := fs.Stats()
		_, _ = fmt.Fprintf(stdout, "entries: %d\nexpired: %d\nbytes:   %d\n", total, expired, size)
		return 0
	default:
		_, _ = fmt.Fprintln(stderr, "no action requested; try -stats, -cleanup, -purge, or -list-queries")
		return 1
	}
}

func listQueries(stdout, stderr io.Writer, path string) int {
	src, err := os.ReadFile(path)
	if err != nil {
		_, _ = fmt.Fprintln(stderr, err.Error())
		return 1
	}
	blocks, err := query.ParseLibrary(path, src)
	if err != nil {
		_, _ = fmt.Fprintln(stderr, err.Error())
		return 1
	}
	for _, blk := range blocks {
		policy := "uncached"
		if blk.Policy != nil {
			policy = "ttl=" + blk.Policy.Lifetime.String()
			if blk.Policy.ForceExecute {
				policy += " force"
			}
		}
		_, _ = fmt.Fprintf(stdout, "%s\t%s\t%s\n", blk.Name, blk.Kind, policy)
	}
	return 0
}
