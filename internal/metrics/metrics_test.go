package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollectors(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := New(reg)

	c.BundleLoaded("directory")
	c.BundleLoaded("directory")
	c.BundleLoaded("archive")
	c.LoadFailed("archive", "resolve")
	c.CacheLookup(true)
	c.CacheLookup(false)
	c.CacheLookup(false)
	c.DifficultyDecoded(2)
	c.DifficultyDecoded(1)
	c.DifficultyDecoded(2)
	c.ObserveResolve("directory", 15*time.Millisecond)
	c.AudioProbed("known")

	assert.Equal(t, 2.0, testutil.ToFloat64(c.bundlesLoaded.WithLabelValues("directory")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.bundlesLoaded.WithLabelValues("archive")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.loadFailures.WithLabelValues("archive", "resolve")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.cacheRequests.WithLabelValues("hit")))
	assert.Equal(t, 2.0, testutil.ToFloat64(c.cacheRequests.WithLabelValues("miss")))
	assert.Equal(t, 2.0, testutil.ToFloat64(c.difficulties.WithLabelValues("2")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.audioProbes.WithLabelValues("known")))

	count, err := testutil.GatherAndCount(reg, "beatmap_resolve_duration_seconds")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestCollectors_Nil(t *testing.T) {
	var c *Collectors
	assert.NotPanics(t, func() {
		c.BundleLoaded("directory")
		c.LoadFailed("directory", "info")
		c.CacheLookup(true)
		c.DifficultyDecoded(2)
		c.ObserveResolve("remote", time.Second)
		c.AudioProbed("error")
	})
}

func TestNew_DuplicateRegistrationPanics(t *testing.T) {
	reg := prometheus.NewRegistry()
	New(reg)
	assert.Panics(t, func() { New(reg) })
}
