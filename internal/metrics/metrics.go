// Package metrics exposes Prometheus collectors for bundle loading.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "beatmap"

// Collectors groups the loader metrics. A nil *Collectors records nothing.
type Collectors struct {
	bundlesLoaded   *prometheus.CounterVec
	loadFailures    *prometheus.CounterVec
	cacheRequests   *prometheus.CounterVec
	difficulties    *prometheus.CounterVec
	resolveDuration *prometheus.HistogramVec
	audioProbes     *prometheus.CounterVec
}

// New registers the loader collectors with reg.
func New(reg prometheus.Registerer) *Collectors {
	f := promauto.With(reg)
	return &Collectors{
		// Labels: origin (directory, archive, remote)
		bundlesLoaded: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "loader",
			Name:      "bundles_loaded_total",
			Help:      "Total bundles loaded successfully",
		}, []string{"origin"}),

		// Labels: origin, stage (info, resolve, audio, source)
		loadFailures: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "loader",
			Name:      "load_failures_total",
			Help:      "Total bundle loads that failed",
		}, []string{"origin", "stage"}),

		// Labels: result (hit, miss)
		cacheRequests: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "cache",
			Name:      "requests_total",
			Help:      "Bundle cache lookups by result",
		}, []string{"result"}),

		// Labels: major (schema major version)
		difficulties: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "resolve",
			Name:      "difficulties_decoded_total",
			Help:      "Difficulty documents decoded by schema major version",
		}, []string{"major"}),

		resolveDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "resolve",
			Name:      "duration_seconds",
			Help:      "Time to resolve every difficulty of a bundle",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}, []string{"origin"}),

		// Labels: result (known, unknown, error)
		audioProbes: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "audio",
			Name:      "probes_total",
			Help:      "Audio duration probes by result",
		}, []string{"result"}),
	}
}

// BundleLoaded records a successful load.
func (c *Collectors) BundleLoaded(origin string) {
	if c == nil {
		return
	}
	c.bundlesLoaded.WithLabelValues(origin).Inc()
}

// LoadFailed records a failed load at stage.
func (c *Collectors) LoadFailed(origin, stage string) {
	if c == nil {
		return
	}
	c.loadFailures.WithLabelValues(origin, stage).Inc()
}

// CacheLookup records a cache hit or miss.
func (c *Collectors) CacheLookup(hit bool) {
	if c == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	c.cacheRequests.WithLabelValues(result).Inc()
}

// DifficultyDecoded records one decoded difficulty document.
func (c *Collectors) DifficultyDecoded(major uint64) {
	if c == nil {
		return
	}
	c.difficulties.WithLabelValues(strconv.FormatUint(major, 10)).Inc()
}

// ObserveResolve records the time taken to resolve a bundle.
func (c *Collectors) ObserveResolve(origin string, d time.Duration) {
	if c == nil {
		return
	}
	c.resolveDuration.WithLabelValues(origin).Observe(d.Seconds())
}

// AudioProbed records a probe result: known, unknown or error.
func (c *Collectors) AudioProbed(result string) {
	if c == nil {
		return
	}
	c.audioProbes.WithLabelValues(result).Inc()
}
