// Package cli parses command-line options for the querystash tool.
package cli

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"
)

// Options holds the parsed command-line options.
type Options struct {
	ConfigPath  string
	Stats       bool
	Cleanup     bool
	PurgeKey    string
	ListQueries string
	Verbose     bool
	Args        []string
}

// Parse interprets args into Options.
func Parse(args []string) (Options, error) {
	const defaultConfig = "querystash.toml"

	opts := Options{
		ConfigPath: defaultConfig,
	}

	fs := flag.NewFlagSet("querystash", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&opts.ConfigPath, "config", opts.ConfigPath, "Path to configuration file")
	fs.StringVar(&opts.ConfigPath, "c", opts.ConfigPath, "Path to configuration file")
	fs.BoolVar(&opts.Stats, "stats", false, "Print cache entry counts and total size")
	fs.BoolVar(&opts.Cleanup, "cleanup", false, "Remove expired cache entries")
	fs.StringVar(&opts.PurgeKey, "purge", "", "Invalidate the entry stored under the given key")
	fs.StringVar(&opts.ListQueries, "list-queries", "", "Parse the given query library file and list its blocks")
	fs.BoolVar(&opts.Verbose, "verbose", false, "Enable verbose logging")
	fs.BoolVar(&opts.Verbose, "v", false, "Enable verbose logging")

	if err := fs.Parse(args); err != nil {
		usage := Usage(fs)
		if errors.Is(err, flag.ErrHelp) {
			return Options{}, fmt.Errorf("%w\n\n%s", err, usage)
		}
		return Options{}, fmt.Errorf("%w\n\n%s", err, usage)
	}

	opts.Args = fs.Args()
	return opts, nil
}

// Usage renders the flag set's defaults as a string.
func Usage(fs *flag.FlagSet) string {
	if fs == nil {
		return ""
	}
	var buf strings.Builder
	fmt.Fprintf(&buf, "Usage of %s:\n", fs.Name())
	out := fs.Output()
	fs.SetOutput(&buf)
	fs.PrintDefaults()
	fs.SetOutput(out)
	return buf.String()
}
