// Package resolve assembles the difficulty documents referenced by an info
// document into a map keyed by characteristic and rank.
package resolve

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/simonhull/beatmap/internal/registry"
	"github.com/simonhull/beatmap/internal/types"
	"github.com/simonhull/beatmap/source"
)

// StageResolve is the Warning stage of a rank override.
const StageResolve = "resolve"

// Map is the resolved difficulty map.
type Map map[types.Characteristic]map[types.Rank]types.Difficulty

// DecodeFunc decodes one difficulty document.
type DecodeFunc func(document string, data []byte) (types.Difficulty, error)

// Options configures a resolution.
type Options struct {
	// Parallelism bounds concurrent fetch and decode. Values below 2 resolve
	// sequentially.
	Parallelism int

	// Logger receives debug events. Nil discards them.
	Logger *slog.Logger

	// Decode overrides the version-dispatched decoder.
	Decode DecodeFunc

	// OnDecoded is called once per successfully decoded entry. It may be
	// called concurrently.
	OnDecoded func(types.Difficulty)
}

// Result is a successful resolution.
type Result struct {
	Difficulties Map
	// Warnings records each entry that replaced an earlier one.
	Warnings []types.Warning
}

type entry struct {
	characteristic types.Characteristic
	ref            types.BeatmapRef
}

// Resolve fetches and decodes every difficulty info references from src,
// in document order. When two entries share a characteristic and rank the
// later one wins. The first failure in document order aborts the
// resolution; no partial result is returned.
func Resolve(ctx context.Context, info types.Info, src source.Source, opts Options) (*Result, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	decode := opts.Decode
	if decode == nil {
		decode = registry.DecodeDifficulty
	}

	sets := info.Sets()
	var entries []entry
	for _, set := range sets {
		for _, ref := range set.Beatmaps {
			entries = append(entries, entry{characteristic: set.Characteristic, ref: ref})
		}
	}

	load := func(ctx context.Context, e entry) (types.Difficulty, error) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		data, err := source.ReadFile(src, e.ref.Filename)
		if err != nil {
			return nil, err
		}
		diff, err := decode(e.ref.Filename, data)
		if err != nil {
			return nil, err
		}
		logger.Debug("decoded difficulty",
			slog.String("source", src.Name()),
			slog.String("file", e.ref.Filename),
			slog.String("characteristic", string(e.characteristic)),
			slog.Uint64("rank", uint64(e.ref.Rank)),
			slog.String("version", diff.SchemaVersion().String()))
		if opts.OnDecoded != nil {
			opts.OnDecoded(diff)
		}
		return diff, nil
	}

	decoded := make([]types.Difficulty, len(entries))
	if opts.Parallelism < 2 || len(entries) < 2 {
		for i, e := range entries {
			diff, err := load(ctx, e)
			if err != nil {
				return nil, wrap(e, err)
			}
			decoded[i] = diff
		}
	} else if err := loadParallel(ctx, entries, decoded, opts.Parallelism, load); err != nil {
		return nil, err
	}

	return merge(sets, entries, decoded, logger), nil
}

// loadParallel fills decoded by index. Entries after the lowest failing
// index are skipped; entries before it always run, so the reported error is
// the one the sequential path would report.
func loadParallel(ctx context.Context, entries []entry, decoded []types.Difficulty, limit int,
	load func(context.Context, entry) (types.Difficulty, error)) error {

	errs := make([]error, len(entries))
	var firstFailed atomic.Int64
	firstFailed.Store(int64(len(entries)))

	var g errgroup.Group
	g.SetLimit(limit)
	for i, e := range entries {
		g.Go(func() error {
			if int64(i) > firstFailed.Load() {
				return nil
			}
			diff, err := load(ctx, e)
			if err != nil {
				errs[i] = err
				for {
					cur := firstFailed.Load()
					if int64(i) >= cur || firstFailed.CompareAndSwap(cur, int64(i)) {
						break
					}
				}
				return nil
			}
			decoded[i] = diff
			return nil
		})
	}
	_ = g.Wait()

	for i, err := range errs {
		if err != nil {
			return wrap(entries[i], err)
		}
	}
	return nil
}

func merge(sets []types.SetRef, entries []entry, decoded []types.Difficulty, logger *slog.Logger) *Result {
	result := &Result{Difficulties: make(Map, len(sets))}
	for _, set := range sets {
		if _, ok := result.Difficulties[set.Characteristic]; !ok {
			result.Difficulties[set.Characteristic] = make(map[types.Rank]types.Difficulty, len(set.Beatmaps))
		}
	}

	for i, e := range entries {
		ranks := result.Difficulties[e.characteristic]
		if _, dup := ranks[e.ref.Rank]; dup {
			msg := fmt.Sprintf("%s rank %d redeclared by %s; later entry replaces earlier",
				e.characteristic, e.ref.Rank, e.ref.Filename)
			result.Warnings = append(result.Warnings, types.Warning{Stage: StageResolve, Message: msg})
			logger.Debug("rank override",
				slog.String("characteristic", string(e.characteristic)),
				slog.Uint64("rank", uint64(e.ref.Rank)),
				slog.String("file", e.ref.Filename))
		}
		ranks[e.ref.Rank] = decoded[i]
	}
	return result
}

func wrap(e entry, err error) error {
	var resErr *types.ResolutionError
	if errors.As(err, &resErr) {
		return err
	}
	return &types.ResolutionError{
		Characteristic: e.characteristic,
		Rank:           e.ref.Rank,
		Filename:       e.ref.Filename,
		Err:            err,
	}
}
