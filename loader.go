package beatmap

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/simonhull/beatmap/internal/cache"
	"github.com/simonhull/beatmap/internal/registry"
	"github.com/simonhull/beatmap/internal/resolve"
	"github.com/simonhull/beatmap/remote"
	"github.com/simonhull/beatmap/source"
)

var (
	// ErrNoFetcher is returned for remote references when no fetcher is
	// configured.
	ErrNoFetcher = errors.New("no remote fetcher configured")

	// ErrUnknownDuration is returned with WithRequireDuration when the song
	// file's duration cannot be determined.
	ErrUnknownDuration = errors.New("audio duration unknown")
)

// Loader loads bundles with a fixed set of options and an optional cache of
// resolved bundles. A Loader is safe for concurrent use.
//
// The cache is owned by the Loader; two loaders never share entries.
// Entries stay until evicted, invalidated with Invalidate or Purge, or, with
// WithWatch, until their files change.
type Loader struct {
	opts  *loadOptions
	cache *cache.Cache[*Bundle]
}

// NewLoader creates a Loader.
//
//	loader, err := beatmap.NewLoader(beatmap.WithCacheSize(128), beatmap.WithWatch())
//	if err != nil {
//		return err
//	}
//	defer loader.Close()
func NewLoader(opts ...Option) (*Loader, error) {
	o := applyOptions(opts)
	l := &Loader{opts: o}
	if o.cacheSize > 0 {
		c, err := cache.New[*Bundle](o.cacheSize, o.logger)
		if err != nil {
			return nil, err
		}
		l.cache = c
	}
	return l, nil
}

// newTransientLoader backs the package-level functions. It never caches.
func newTransientLoader(opts []Option) *Loader {
	return &Loader{opts: applyOptions(opts)}
}

// Load loads ref after classifying it with DetectOrigin.
func (l *Loader) Load(ctx context.Context, ref string) (*Bundle, error) {
	origin, err := DetectOrigin(ref)
	if err != nil {
		l.opts.metrics.LoadFailed(OriginUnknown.String(), "detect")
		return nil, err
	}
	switch origin {
	case OriginArchive:
		return l.LoadArchive(ctx, ref)
	case OriginRemote:
		return l.LoadRemote(ctx, ref)
	default:
		return l.LoadDir(ctx, ref)
	}
}

// LoadDir loads the bundle in a directory. path is the directory or the
// info document inside it.
func (l *Loader) LoadDir(ctx context.Context, path string) (*Bundle, error) {
	st, err := os.Stat(path)
	if err != nil {
		l.opts.metrics.LoadFailed(OriginDirectory.String(), "source")
		return nil, &IOError{Op: "open", Name: path, Err: err}
	}
	dir, infoName := path, ""
	if !st.IsDir() {
		dir, infoName = filepath.Dir(path), filepath.Base(path)
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, &IOError{Op: "open", Name: path, Err: err}
	}
	key := "dir:" + abs
	watched := abs
	if !st.IsDir() {
		watched = filepath.Dir(abs)
	}

	return l.cached(ctx, key, func(c *cache.Cache[*Bundle]) error {
		return c.WatchDir(watched, key)
	}, func(ctx context.Context) (*Bundle, error) {
		b := &Bundle{Origin: OriginDirectory, Location: path}
		if err := l.load(ctx, source.Dir(dir), infoName, b); err != nil {
			return nil, err
		}
		return b, nil
	})
}

// LoadArchive loads the bundle packaged in the zip archive at path.
func (l *Loader) LoadArchive(ctx context.Context, path string) (*Bundle, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, &IOError{Op: "open", Name: path, Err: err}
	}
	key := "zip:" + abs

	return l.cached(ctx, key, func(c *cache.Cache[*Bundle]) error {
		return c.WatchFile(abs, key)
	}, func(ctx context.Context) (*Bundle, error) {
		a, err := source.OpenArchive(path)
		if err != nil {
			l.opts.metrics.LoadFailed(OriginArchive.String(), "source")
			return nil, err
		}
		defer a.Close()

		b := &Bundle{Origin: OriginArchive, Location: path}
		if err := l.load(ctx, a, "", b); err != nil {
			return nil, err
		}
		return b, nil
	})
}

// LoadRemote extracts the map key from ref, downloads the archive with the
// configured fetcher and loads it.
func (l *Loader) LoadRemote(ctx context.Context, ref string) (*Bundle, error) {
	origin := OriginRemote.String()
	key, err := remote.ParseKey(ref)
	if err != nil {
		l.opts.metrics.LoadFailed(origin, "reference")
		return nil, err
	}

	return l.cached(ctx, "remote:"+key, nil, func(ctx context.Context) (*Bundle, error) {
		if l.opts.fetcher == nil {
			l.opts.metrics.LoadFailed(origin, "fetch")
			return nil, &IOError{Op: "fetch", Name: key, Err: ErrNoFetcher}
		}
		data, err := l.opts.fetcher.Fetch(ctx, key)
		if err != nil {
			l.opts.metrics.LoadFailed(origin, "fetch")
			return nil, err
		}
		a, err := source.NewArchive(bytes.NewReader(data), int64(len(data)), key)
		if err != nil {
			l.opts.metrics.LoadFailed(origin, "source")
			return nil, err
		}

		b := &Bundle{Origin: OriginRemote, Location: ref, Key: key}
		if err := l.load(ctx, a, "", b); err != nil {
			return nil, err
		}
		return b, nil
	})
}

// LoadSource loads the bundle whose info document is in src. The result is
// never cached.
func (l *Loader) LoadSource(ctx context.Context, src source.Source) (*Bundle, error) {
	b := &Bundle{Origin: OriginUnknown, Location: src.Name()}
	if err := l.load(ctx, src, "", b); err != nil {
		return nil, err
	}
	return b, nil
}

// LoadMany loads refs concurrently, up to runtime.NumCPU() at a time.
// Results are in the same order as refs. The first failure cancels the
// remaining loads.
func (l *Loader) LoadMany(ctx context.Context, refs ...string) ([]*Bundle, error) {
	if len(refs) == 0 {
		return nil, nil
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())

	results := make([]*Bundle, len(refs))
	for i, ref := range refs {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			b, err := l.Load(ctx, ref)
			if err != nil {
				return fmt.Errorf("%s: %w", ref, err)
			}
			results[i] = b
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// Invalidate drops any cached bundle for ref. It reports whether one was
// present. ref is matched the way it was passed to a Load method.
func (l *Loader) Invalidate(ref string) bool {
	if l.cache == nil {
		return false
	}
	removed := false
	if abs, err := filepath.Abs(ref); err == nil {
		for _, prefix := range []string{"dir:", "zip:"} {
			if l.cache.Invalidate(prefix + abs) {
				removed = true
			}
		}
	}
	if key, err := remote.ParseKey(ref); err == nil && l.cache.Invalidate("remote:"+key) {
		removed = true
	}
	return removed
}

// Purge drops every cached bundle.
func (l *Loader) Purge() {
	if l.cache != nil {
		l.cache.Purge()
	}
}

// Cached returns the number of cached bundles.
func (l *Loader) Cached() int {
	if l.cache == nil {
		return 0
	}
	return l.cache.Len()
}

// Close stops watching files. The Loader stays usable.
func (l *Loader) Close() error {
	if l.cache == nil {
		return nil
	}
	return l.cache.Close()
}

// cached runs load through the cache when one is configured. watch, when
// non-nil, is registered before the load so no change is missed. A cached
// load is shared between callers and is not cancelled with ctx.
func (l *Loader) cached(ctx context.Context, key string, watch func(*cache.Cache[*Bundle]) error,
	load func(context.Context) (*Bundle, error)) (*Bundle, error) {

	if l.cache == nil {
		return load(ctx)
	}

	b, hit, err := l.cache.Get(ctx, key, func(ctx context.Context) (*Bundle, error) {
		if l.opts.watch && watch != nil {
			if err := watch(l.cache); err != nil {
				l.opts.logger.Warn("cannot watch bundle location",
					slog.String("key", key),
					slog.Any("error", err))
			}
		}
		return load(ctx)
	})
	l.opts.metrics.CacheLookup(hit)
	l.opts.logger.Debug("bundle cache lookup", slog.String("key", key), slog.Bool("hit", hit))
	if err != nil {
		return nil, err
	}
	return b, nil
}

// load reads the info document from src, resolves its difficulties and
// fills b. It records metrics for the outcome.
func (l *Loader) load(ctx context.Context, src source.Source, infoName string, b *Bundle) error {
	origin := b.Origin.String()
	stage, err := l.loadInto(ctx, src, infoName, b)
	if err != nil {
		l.opts.metrics.LoadFailed(origin, stage)
		l.opts.logger.Debug("bundle load failed",
			slog.String("location", b.Location),
			slog.String("stage", stage),
			slog.Any("error", err))
		return err
	}

	l.opts.metrics.BundleLoaded(origin)
	l.opts.logger.Debug("bundle loaded",
		slog.String("location", b.Location),
		slog.String("origin", origin),
		slog.Int("difficulties", b.Difficulties.Len()),
		slog.Int("warnings", len(b.Warnings)))
	return nil
}

func (l *Loader) loadInto(ctx context.Context, src source.Source, infoName string, b *Bundle) (string, error) {
	if err := ctx.Err(); err != nil {
		return "source", err
	}

	var data []byte
	var err error
	if infoName == "" {
		infoName, data, err = source.FindInfo(src)
	} else {
		data, err = source.ReadFile(src, infoName)
	}
	if err != nil {
		return "source", err
	}

	info, err := registry.DecodeInfo(infoName, data)
	if err != nil {
		return "info", err
	}
	l.opts.logger.Debug("decoded info",
		slog.String("source", src.Name()),
		slog.String("file", infoName),
		slog.String("version", info.SchemaVersion().String()))

	start := time.Now()
	res, err := resolve.Resolve(ctx, info, src, l.resolveOptions())
	l.opts.metrics.ObserveResolve(b.Origin.String(), time.Since(start))
	if err != nil {
		return "resolve", err
	}

	b.Info = info
	b.InfoFile = infoName
	b.Difficulties = DifficultyMap(res.Difficulties)
	b.Warnings = res.Warnings

	if l.opts.prober != nil {
		if err := l.probe(src, b); err != nil {
			return "audio", err
		}
	}
	if err := l.finish(b); err != nil {
		return "warnings", err
	}
	return "", nil
}

func (l *Loader) resolveOptions() resolve.Options {
	m := l.opts.metrics
	return resolve.Options{
		Parallelism: l.opts.parallelism,
		Logger:      l.opts.logger,
		OnDecoded: func(d Difficulty) {
			m.DifficultyDecoded(d.SchemaVersion().Major())
		},
	}
}

func (l *Loader) probe(src source.Source, b *Bundle) error {
	song := b.Info.SongFile()
	d, ok, err := probeEntry(src, song, l.opts.prober)
	if err != nil {
		l.opts.metrics.AudioProbed("error")
		return err
	}
	if !ok {
		l.opts.metrics.AudioProbed("unknown")
		if l.opts.requireDuration {
			return &IOError{Op: "probe", Name: song, Err: ErrUnknownDuration}
		}
		b.Warnings = append(b.Warnings, Warning{
			Stage:   "probe",
			Message: fmt.Sprintf("duration of %s is unknown", song),
		})
		return nil
	}

	l.opts.metrics.AudioProbed("known")
	l.opts.logger.Debug("probed audio",
		slog.String("file", song),
		slog.Duration("duration", d))
	b.Duration = d
	b.DurationKnown = true
	return nil
}

// finish applies the warning policy. Rank overrides are documented
// replacements and stay warnings under strict parsing.
func (l *Loader) finish(b *Bundle) error {
	if l.opts.strictParsing {
		for _, w := range b.Warnings {
			if w.Stage != resolve.StageResolve {
				return fmt.Errorf("strict parsing failed: %s", w)
			}
		}
	}
	if l.opts.ignoreWarnings {
		b.Warnings = nil
	}
	return nil
}
