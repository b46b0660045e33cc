package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/simonhull/beatmap"
	"github.com/simonhull/beatmap/remote"
)

// usageError marks argument and flag problems.
type usageError struct{ err error }

func (e usageError) Error() string { return e.err.Error() }
func (e usageError) Unwrap() error { return e.err }

func isUsageError(err error) bool {
	var ue usageError
	return errors.As(err, &ue)
}

// flags shared by the loading commands.
type flags struct {
	config   string
	parallel int
	probe    bool
	strict   bool
	output   string
	verbose  bool
}

func newRootCmd(stdout io.Writer) *cobra.Command {
	f := &flags{}

	root := &cobra.Command{
		Use:           "beatmap-dump",
		Short:         "Inspect map bundles from directories, archives and remote keys",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(stdout)
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return usageError{err}
	})

	pf := root.PersistentFlags()
	pf.StringVar(&f.config, "config", "", "path to a YAML config file")
	pf.IntVar(&f.parallel, "parallel", 0, "difficulty decode parallelism (0 uses the config value)")
	pf.BoolVar(&f.probe, "probe", false, "probe the song file for its duration")
	pf.BoolVar(&f.strict, "strict", false, "fail on warnings other than rank overrides")
	pf.StringVarP(&f.output, "output", "o", "text", "output format: text or yaml")
	pf.BoolVarP(&f.verbose, "verbose", "v", false, "log loader activity to stderr")

	root.AddCommand(
		newInfoCmd(f),
		newResolveCmd(f),
		newKeyCmd(f),
		newVersionCmd(f),
	)
	return root
}

func newInfoCmd(f *flags) *cobra.Command {
	return &cobra.Command{
		Use:   "info <ref>",
		Short: "Print the info document of a bundle",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := f.load(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return f.write(cmd.OutOrStdout(), summarize(b, false))
		},
	}
}

func newResolveCmd(f *flags) *cobra.Command {
	return &cobra.Command{
		Use:   "resolve <ref>",
		Short: "Resolve every difficulty of a bundle and print counts",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := f.load(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return f.write(cmd.OutOrStdout(), summarize(b, true))
		},
	}
}

func newKeyCmd(f *flags) *cobra.Command {
	return &cobra.Command{
		Use:   "key <url>",
		Short: "Extract the map key from a remote reference",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			key, err := remote.ParseKey(args[0])
			if err != nil {
				return usageError{err}
			}
			return f.write(cmd.OutOrStdout(), keySummary{Ref: args[0], Key: key})
		},
	}
}

func newVersionCmd(f *flags) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  exactArgs(0),
		RunE: func(cmd *cobra.Command, _ []string) error {
			return f.write(cmd.OutOrStdout(), beatmap.GetVersionInfo())
		},
	}
}

func exactArgs(n int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := cobra.ExactArgs(n)(cmd, args); err != nil {
			return usageError{err}
		}
		return nil
	}
}

// load builds a Loader from the config file, env and flags, then loads ref.
func (f *flags) load(ctx context.Context, ref string) (*beatmap.Bundle, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := beatmap.LoadConfig(f.config)
	if err != nil {
		return nil, err
	}
	if f.parallel > 0 {
		cfg.Parallelism = f.parallel
	}
	if f.probe {
		cfg.ProbeAudio = true
	}
	if f.strict {
		cfg.Strict = true
	}
	// A single load never benefits from caching or watching.
	cfg.CacheSize = 0
	cfg.Watch = false

	opts := cfg.Options()
	if f.verbose {
		logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
		opts = append(opts, beatmap.WithLogger(logger))
	}

	l, err := beatmap.NewLoader(opts...)
	if err != nil {
		return nil, err
	}
	defer l.Close()

	return l.Load(ctx, ref)
}

func (f *flags) write(w io.Writer, v any) error {
	switch f.output {
	case "yaml":
		return writeYAML(w, v)
	case "text":
		return writeText(w, v)
	default:
		return usageError{fmt.Errorf("unknown output format %q", f.output)}
	}
}
