package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/simonhull/beatmap"
	"github.com/simonhull/beatmap/internal/ogg/oggtest"
	"github.com/simonhull/beatmap/internal/rev2"
	"github.com/simonhull/beatmap/internal/types"
)

const difficulty = `{
	"_version": "2.0.0",
	"_BPMChanges": [],
	"_events": [],
	"_notes": [
		{"_time": 1, "_lineIndex": 1, "_lineLayer": 0, "_type": 0, "_cutDirection": 1},
		{"_time": 2, "_lineIndex": 2, "_lineLayer": 1, "_type": 1, "_cutDirection": 8}
	],
	"_obstacles": [{"_time": 4, "_lineIndex": 0, "_type": 0, "_duration": 1, "_width": 1}],
	"_bookmarks": []
}`

func writeBundle(t *testing.T) string {
	t.Helper()
	info := &rev2.Info{
		Version:         types.MustParseVersion("2.0.0"),
		SongName:        "Dump Test",
		BeatsPerMinute:  120,
		SongFilename:    "song.egg",
		EnvironmentName: types.EnvironmentDefault,
		DifficultyBeatmapSets: []rev2.DifficultyBeatmapSet{{
			BeatmapCharacteristicName: types.CharacteristicStandard,
			DifficultyBeatmaps: []rev2.DifficultyBeatmap{{
				Difficulty:      types.DifficultyExpert,
				DifficultyRank:  types.RankExpert,
				BeatmapFilename: "Expert.dat",
			}},
		}},
	}
	data, err := beatmap.EncodeInfo(info)
	require.NoError(t, err)

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "Info.dat"), data, 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "Expert.dat"), []byte(difficulty), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "song.egg"), oggtest.Vorbis(2, 44100, 441000), 0o644))
	return dir
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd(&out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestResolveYAML(t *testing.T) {
	dir := writeBundle(t)

	out, err := run(t, "resolve", "--probe", "-o", "yaml", dir)
	require.NoError(t, err)

	var got bundleSummary
	require.NoError(t, yaml.Unmarshal([]byte(out), &got))
	assert.Equal(t, "directory", got.Origin)
	assert.Equal(t, "Info.dat", got.InfoFile)
	assert.Equal(t, "2.0.0", got.SchemaVersion)
	assert.Equal(t, "Dump Test", got.SongName)
	assert.Equal(t, "10s", got.Duration)
	require.Len(t, got.Sets, 1)
	require.Len(t, got.Sets[0].Difficulties, 1)

	d := got.Sets[0].Difficulties[0]
	assert.Equal(t, "Expert", d.Name)
	assert.Equal(t, uint32(7), d.Rank)
	require.NotNil(t, d.Notes)
	assert.Equal(t, 2, *d.Notes)
	assert.Equal(t, 1, *d.Obstacles)
	assert.Equal(t, 0, *d.BPMEvents)
}

func TestInfoText(t *testing.T) {
	dir := writeBundle(t)

	out, err := run(t, "info", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "(directory)")
	assert.Contains(t, out, "Song:     Dump Test")
	assert.Contains(t, out, "Standard")
	assert.Contains(t, out, "Expert.dat")
	assert.NotContains(t, out, "notes")
	assert.NotContains(t, out, "Duration")
}

func TestKey(t *testing.T) {
	out, err := run(t, "key", "https://maps.example.com/beatmap/570")
	require.NoError(t, err)
	assert.Equal(t, "570\n", out)

	_, err = run(t, "key", "ftp://maps.example.com/beatmap/570")
	require.Error(t, err)
	assert.True(t, isUsageError(err))
}

func TestVersion(t *testing.T) {
	out, err := run(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "beatmap-dump "+beatmap.Version)
}

func TestUsageErrors(t *testing.T) {
	_, err := run(t, "info")
	assert.True(t, isUsageError(err))

	_, err = run(t, "info", "--no-such-flag", "x")
	assert.True(t, isUsageError(err))

	_, err = run(t, "version", "-o", "json")
	assert.True(t, isUsageError(err))
}

func TestLoadError(t *testing.T) {
	_, err := run(t, "info", filepath.Join(t.TempDir(), "missing"))
	require.Error(t, err)
	assert.False(t, isUsageError(err))
}

func TestConfigFile(t *testing.T) {
	dir := writeBundle(t)
	cfg := filepath.Join(t.TempDir(), "beatmap.yaml")
	require.NoError(t, os.WriteFile(cfg, []byte("probe_audio: true\nparallelism: 2\n"), 0o644))

	out, err := run(t, "info", "--config", cfg, dir)
	require.NoError(t, err)
	assert.Contains(t, out, "Duration: 10s")
}
