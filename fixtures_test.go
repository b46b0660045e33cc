package beatmap_test

import (
	"archive/zip"
	"bytes"
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/simonhull/beatmap"
	"github.com/simonhull/beatmap/internal/ogg/oggtest"
	"github.com/simonhull/beatmap/internal/rev2"
	"github.com/simonhull/beatmap/internal/types"
)

// difficultyJSON returns a revision 2 difficulty whose single note sits at
// marker, so documents can be told apart after resolution.
func difficultyJSON(marker float64) []byte {
	return []byte(fmt.Sprintf(`{
		"_version": "2.0.0",
		"_BPMChanges": [{"_BPM": 120, "_time": 0, "_beatsPerBar": 4, "_metronomeOffset": 4}],
		"_events": [{"_time": %[1]g, "_type": 0, "_value": 1}],
		"_notes": [{"_time": %[1]g, "_lineIndex": 1, "_lineLayer": 0, "_type": 1, "_cutDirection": 8}],
		"_obstacles": [{"_time": 4, "_lineIndex": 0, "_type": 0, "_duration": 1.5, "_width": 1}],
		"_bookmarks": []
	}`, marker))
}

func beatmapEntry(name types.DifficultyName, rank types.RankEnum, file string) rev2.DifficultyBeatmap {
	return rev2.DifficultyBeatmap{
		Difficulty:            name,
		DifficultyRank:        rank,
		BeatmapFilename:       file,
		NoteJumpMovementSpeed: 16,
	}
}

func beatmapSet(c types.Characteristic, beatmaps ...rev2.DifficultyBeatmap) rev2.DifficultyBeatmapSet {
	return rev2.DifficultyBeatmapSet{BeatmapCharacteristicName: c, DifficultyBeatmaps: beatmaps}
}

// infoJSON encodes a revision 2 info document referencing sets.
func infoJSON(t testing.TB, sets ...rev2.DifficultyBeatmapSet) []byte {
	t.Helper()
	info := &rev2.Info{
		Version:               types.MustParseVersion("2.0.0"),
		SongName:              "Test Song",
		SongAuthorName:        "Artist",
		LevelAuthorName:       "Mapper",
		BeatsPerMinute:        120,
		PreviewDuration:       10,
		SongFilename:          "song.egg",
		CoverImageFilename:    "cover.jpg",
		EnvironmentName:       types.EnvironmentDefault,
		DifficultyBeatmapSets: sets,
	}
	data, err := beatmap.EncodeInfo(info)
	require.NoError(t, err)
	return data
}

// standardFiles returns a bundle with Standard and OneSaber sets, each with
// Easy and Expert difficulties, plus a 10 second stereo Ogg Vorbis song.
func standardFiles(t testing.TB) map[string][]byte {
	t.Helper()
	return map[string][]byte{
		"Info.dat": infoJSON(t,
			beatmapSet(types.CharacteristicStandard,
				beatmapEntry(types.DifficultyEasy, types.RankEasy, "EasyStandard.dat"),
				beatmapEntry(types.DifficultyExpert, types.RankExpert, "ExpertStandard.dat")),
			beatmapSet(types.CharacteristicOneSaber,
				beatmapEntry(types.DifficultyEasy, types.RankEasy, "EasyOneSaber.dat"),
				beatmapEntry(types.DifficultyExpert, types.RankExpert, "ExpertOneSaber.dat")),
		),
		"EasyStandard.dat":   difficultyJSON(1),
		"ExpertStandard.dat": difficultyJSON(2),
		"EasyOneSaber.dat":   difficultyJSON(3),
		"ExpertOneSaber.dat": difficultyJSON(4),
		"song.egg":           oggtest.Vorbis(2, 44100, 441000),
	}
}

func writeDir(t testing.TB, files map[string][]byte) string {
	t.Helper()
	dir := t.TempDir()
	for name, data := range files {
		path := filepath.Join(dir, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, data, 0o644))
	}
	return dir
}

func zipBytes(t testing.TB, files map[string][]byte) []byte {
	t.Helper()
	buf := &bytes.Buffer{}
	zw := zip.NewWriter(buf)
	for name, data := range files {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write(data)
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func writeZip(t testing.TB, files map[string][]byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "bundle.zip")
	require.NoError(t, os.WriteFile(path, zipBytes(t, files), 0o644))
	return path
}

func noteTime(t testing.TB, d beatmap.Difficulty) float64 {
	t.Helper()
	notes := d.NoteList()
	require.Len(t, notes, 1)
	return notes[0].Time
}

// fakeFetcher serves archives from memory and counts requests.
type fakeFetcher struct {
	archives map[string][]byte
	calls    atomic.Int32
}

func (f *fakeFetcher) Fetch(ctx context.Context, key string) ([]byte, error) {
	f.calls.Add(1)
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, ok := f.archives[key]
	if !ok {
		return nil, &beatmap.IOError{Op: "fetch", Name: key, Err: fs.ErrNotExist}
	}
	return data, nil
}
