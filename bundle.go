package beatmap

import (
	"cmp"
	"context"
	"slices"
	"time"

	"github.com/simonhull/beatmap/internal/resolve"
	"github.com/simonhull/beatmap/source"
)

// Bundle is a resolved map: the info document and every difficulty
// document it references.
//
// A Bundle is built once and never modified by this package. Bundles
// returned from a Loader cache are shared between callers and must be
// treated as read-only.
type Bundle struct {
	// Info is the root info document.
	Info Info

	// Difficulties maps characteristic and rank to the decoded document.
	Difficulties DifficultyMap

	// Origin records where the bundle came from.
	Origin Origin

	// Location is the directory, archive path or remote reference passed
	// to the loader.
	Location string

	// Key is the remote map key. Empty for local bundles.
	Key string

	// InfoFile is the name the info document was read from.
	InfoFile string

	// Duration is the probed audio length. Valid only when DurationKnown.
	Duration      time.Duration
	DurationKnown bool

	// Warnings encountered while loading (non-fatal issues)
	Warnings []Warning
}

// DifficultyMap maps characteristic to rank to difficulty document.
type DifficultyMap map[Characteristic]map[Rank]Difficulty

// Get returns the difficulty for c and r.
func (m DifficultyMap) Get(c Characteristic, r Rank) (Difficulty, bool) {
	d, ok := m[c][r]
	return d, ok
}

// Len returns the total number of difficulties across characteristics.
func (m DifficultyMap) Len() int {
	n := 0
	for _, ranks := range m {
		n += len(ranks)
	}
	return n
}

// Characteristics returns the characteristics in lexical order.
func (m DifficultyMap) Characteristics() []Characteristic {
	out := make([]Characteristic, 0, len(m))
	for c := range m {
		out = append(out, c)
	}
	slices.Sort(out)
	return out
}

// Ranks returns the ranks of c in ascending order.
func (m DifficultyMap) Ranks(c Characteristic) []Rank {
	out := make([]Rank, 0, len(m[c]))
	for r := range m[c] {
		out = append(out, r)
	}
	slices.SortFunc(out, cmp.Compare[Rank])
	return out
}

// Open loads the bundle in a directory. path is either the directory or the
// info document inside it.
//
// Example:
//
//	bundle, err := beatmap.Open("maps/570")
//	if err != nil {
//		return err
//	}
//	fmt.Println(bundle.Difficulties.Len(), "difficulties")
func Open(path string, opts ...Option) (*Bundle, error) {
	return OpenContext(context.Background(), path, opts...)
}

// OpenContext is Open with cancellation. The context is checked before each
// difficulty document is fetched.
//
//	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
//	defer cancel()
//
//	bundle, err := beatmap.OpenContext(ctx, "maps/570/Info.dat")
func OpenContext(ctx context.Context, path string, opts ...Option) (*Bundle, error) {
	return newTransientLoader(opts).LoadDir(ctx, path)
}

// OpenArchive loads the bundle packaged in the zip archive at path.
func OpenArchive(path string, opts ...Option) (*Bundle, error) {
	return newTransientLoader(opts).LoadArchive(context.Background(), path)
}

// Load loads ref, which may be a directory, an info document path, a zip
// archive or a remote reference (see DetectOrigin). Remote references need
// WithFetcher.
func Load(ctx context.Context, ref string, opts ...Option) (*Bundle, error) {
	return newTransientLoader(opts).Load(ctx, ref)
}

// LoadMany loads several references concurrently. Results are in the same
// order as refs. The first failure cancels the rest and is returned alone.
//
// Example:
//
//	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
//	defer cancel()
//
//	bundles, err := beatmap.LoadMany(ctx, []string{"maps/570", "maps/571.zip"})
func LoadMany(ctx context.Context, refs []string, opts ...Option) ([]*Bundle, error) {
	return newTransientLoader(opts).LoadMany(ctx, refs...)
}

// Resolve decodes every difficulty info references from src. The returned
// bundle has OriginUnknown and no location.
//
// When two entries share a characteristic and rank the later one in
// document order wins. The first failure aborts the resolution with a
// *ResolutionError; no partial bundle is returned.
func Resolve(ctx context.Context, info Info, src source.Source, opts ...Option) (*Bundle, error) {
	l := newTransientLoader(opts)
	res, err := resolve.Resolve(ctx, info, src, l.resolveOptions())
	if err != nil {
		return nil, err
	}
	b := &Bundle{
		Info:         info,
		Difficulties: DifficultyMap(res.Difficulties),
		Warnings:     res.Warnings,
	}
	if err := l.finish(b); err != nil {
		return nil, err
	}
	return b, nil
}
