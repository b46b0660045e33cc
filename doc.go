// Package beatmap loads rhythm-game map bundles: an info document plus the
// per-difficulty documents it references.
//
// # Quick Start
//
// Loading a bundle from a directory:
//
//	bundle, err := beatmap.Open("maps/570")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	for _, c := range bundle.Difficulties.Characteristics() {
//		for _, r := range bundle.Difficulties.Ranks(c) {
//			d, _ := bundle.Difficulties.Get(c, r)
//			fmt.Printf("%s %d: %d notes\n", c, r, len(d.NoteList()))
//		}
//	}
//
// # Sources
//
// A bundle is read from a Source: loose files in a directory, entries in a
// zip archive, or an archive downloaded for a remote key. Names are matched
// exactly and case-sensitively against the filenames the info document
// declares.
//
//	bundle, err := beatmap.OpenArchive("570.zip")
//	bundle, err := beatmap.Load(ctx, "https://maps.example.com/beatmap/570",
//	    beatmap.WithFetcher(remote.NewClient("https://maps.example.com")))
//
// # Schema Revisions
//
// Every document carries its own major.minor.patch version. The major
// version selects the schema revision used to decode it:
//
//   - 1.x.x: snake_case keys, free-form integer rank, byte-range event values
//   - 2.x.x: underscore-prefixed keys, rank restricted to {1,3,5,7,9},
//     32-bit event values and editor bookmarks
//
// An unknown major version is a *SchemaVersionError. Decoding is strict: a
// missing key, a value of the wrong type or a value outside a closed
// enumeration is a *FieldDecodeError. Nothing is clamped or defaulted.
//
// Decoded documents are returned behind the Info and Difficulty interfaces;
// type switch on *InfoV1, *InfoV2, *DifficultyV1 or *DifficultyV2 to reach
// revision-specific fields.
//
// # Resolution
//
// Difficulties are resolved in document order. When two entries share a
// characteristic and rank, the later one wins and a Warning is recorded. The
// first failure aborts the load with a *ResolutionError and no bundle is
// returned. WithParallelism fetches and decodes concurrently without
// changing the result.
//
// # Error Handling
//
// beatmap distinguishes between fatal errors and warnings:
//
//   - Fatal errors prevent loading (missing documents, schema violations)
//   - Warnings indicate non-fatal issues (overridden ranks, unknown audio
//     duration)
//
// WithStrictParsing turns warnings into errors, except rank overrides, which
// are always reported as warnings. WithIgnoreWarnings drops them.
//
// # Caching
//
// A Loader created with WithCacheSize keeps resolved bundles per instance.
// Concurrent loads of the same location share one resolution. Entries are
// dropped with Invalidate or Purge, and with WithWatch when the files change.
//
// # Audio Duration
//
// WithAudioProbe(OggVorbisProber{}) estimates the song length from Ogg
// Vorbis container metadata. Formats it cannot read leave the duration
// unknown rather than zero.
package beatmap
