package beatmap

import (
	"io"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/simonhull/beatmap/internal/metrics"
	"github.com/simonhull/beatmap/remote"
)

// Option configures how bundles are loaded.
//
// Options use the functional options pattern:
//
//	bundle, err := beatmap.Open("maps/570",
//	    beatmap.WithParallelism(4),
//	    beatmap.WithAudioProbe(beatmap.OggVorbisProber{}),
//	)
type Option func(*loadOptions)

// loadOptions holds configuration for loading bundles.
type loadOptions struct {
	parallelism     int
	logger          *slog.Logger
	prober          Prober
	requireDuration bool
	strictParsing   bool // Fail on any warning
	ignoreWarnings  bool
	cacheSize       int // 0 disables the loader cache
	watch           bool
	fetcher         remote.Fetcher
	metrics         *Metrics
}

// defaultOptions returns the default configuration.
func defaultOptions() *loadOptions {
	return &loadOptions{
		parallelism: 1,
		logger:      slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

func applyOptions(opts []Option) *loadOptions {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// WithParallelism fetches and decodes up to n difficulty documents at once.
//
// Results are merged in document order afterwards, so the outcome is the
// same as a sequential load. Values below 2 load sequentially (the default).
func WithParallelism(n int) Option {
	return func(o *loadOptions) {
		o.parallelism = n
	}
}

// WithLogger sets the logger for debug events. By default nothing is logged.
func WithLogger(logger *slog.Logger) Option {
	return func(o *loadOptions) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithAudioProbe probes the info document's song file after resolution and
// records the estimate in Bundle.Duration.
//
// An unrecognized audio format leaves Bundle.DurationKnown false and adds a
// warning. A missing song file is an error.
func WithAudioProbe(p Prober) Option {
	return func(o *loadOptions) {
		o.prober = p
	}
}

// WithRequireDuration makes an unknown audio duration an error. It has no
// effect without WithAudioProbe.
func WithRequireDuration() Option {
	return func(o *loadOptions) {
		o.requireDuration = true
	}
}

// WithStrictParsing treats warnings as fatal errors.
//
// A difficulty that replaces an earlier one with the same characteristic and
// rank is always a warning, never an error, since later entries win by
// definition. Every other warning, such as an unknown audio duration, fails
// the load.
func WithStrictParsing() Option {
	return func(o *loadOptions) {
		o.strictParsing = true
	}
}

// WithIgnoreWarnings discards warnings. Bundle.Warnings will always be empty.
func WithIgnoreWarnings() Option {
	return func(o *loadOptions) {
		o.ignoreWarnings = true
	}
}

// WithCacheSize keeps up to n resolved bundles in a Loader. Repeated loads
// of the same location return the cached bundle until it is invalidated.
// Package-level functions ignore it.
func WithCacheSize(n int) Option {
	return func(o *loadOptions) {
		o.cacheSize = n
	}
}

// WithWatch invalidates cached directory and archive bundles when their
// files change on disk. It has no effect without WithCacheSize.
func WithWatch() Option {
	return func(o *loadOptions) {
		o.watch = true
	}
}

// WithFetcher sets the collaborator used to download remote references.
// Without it, remote references fail to load.
func WithFetcher(f remote.Fetcher) Option {
	return func(o *loadOptions) {
		o.fetcher = f
	}
}

// WithMetrics records loader metrics in m.
func WithMetrics(m *Metrics) Option {
	return func(o *loadOptions) {
		o.metrics = m
	}
}

// Metrics holds the Prometheus collectors for loading bundles.
type Metrics = metrics.Collectors

// NewMetrics registers loader collectors with reg. Create it once per
// registry and share it between loaders.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	return metrics.New(reg)
}
