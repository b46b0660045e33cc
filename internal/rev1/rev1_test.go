package rev1

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/simonhull/beatmap/internal/registry"
	"github.com/simonhull/beatmap/internal/types"
)

const infoJSON = `{
  "version": "1.0.0",
  "song_name": "Legacy",
  "song_sub_name": "",
  "song_author_name": "artist",
  "level_author_name": "mapper",
  "beats_per_minute": 95.5,
  "song_time_offset": 0,
  "shuffle": 0,
  "shuffle_period": 0.5,
  "preview_start_time": 8,
  "preview_duration": 10,
  "song_filename": "song.ogg",
  "cover_image_filename": "cover.png",
  "environment_name": "DefaultEnvironment",
  "custom_data": {
    "contributors": [],
    "custom_environment": "",
    "custom_environment_hash": ""
  },
  "difficulty_beatmap_sets": [
    {
      "beatmap_characteristic_name": "OneSaber",
      "difficulty_beatmaps": [
        {
          "difficulty": "Hard",
          "difficulty_rank": 4,
          "beatmap_filename": "Hard.dat",
          "note_jump_movement_speed": 12,
          "note_jump_start_beat_offset": 0,
          "custom_data": {"difficulty_label": "Four"}
        }
      ]
    }
  ]
}`

const difficultyJSON = `{
  "version": "1.5.0",
  "bpm_changes": [],
  "events": [{"time": 0.5, "type": 2, "value": 255}],
  "notes": [{"time": 1, "line_index": 2, "line_layer": 1, "type": 1, "cut_direction": 4}],
  "obstacles": [{"time": 3, "line_index": 0, "type": 0, "duration": 1, "width": 1}]
}`

func TestDecodeInfo(t *testing.T) {
	info, err := DecodeInfo("info.dat", []byte(infoJSON))
	require.NoError(t, err)

	assert.Equal(t, 95.5, info.BeatsPerMinute)
	assert.Equal(t, uint64(1), info.SchemaVersion().Major())

	sets := info.Sets()
	require.Len(t, sets, 1)
	assert.Equal(t, types.CharacteristicOneSaber, sets[0].Characteristic)
	// Free-form rank outside {1,3,5,7,9} is legal in this revision.
	assert.Equal(t, types.Rank(4), sets[0].Beatmaps[0].Rank)
	assert.Equal(t, "Four", info.DifficultyBeatmapSets[0].DifficultyBeatmaps[0].CustomData.DifficultyLabel)
}

func TestDecodeDifficulty(t *testing.T) {
	diff, err := DecodeDifficulty("Hard.dat", []byte(difficultyJSON))
	require.NoError(t, err)

	assert.Equal(t, uint8(255), diff.Events[0].Value)
	assert.Equal(t, types.CutUpLeft, diff.Notes[0].CutDirection)
	assert.Empty(t, diff.BPMChangeList())
	assert.Equal(t, types.ObstacleWall, diff.ObstacleList()[0].Type)
}

func TestRoundTrip(t *testing.T) {
	info, err := DecodeInfo("info.dat", []byte(infoJSON))
	require.NoError(t, err)
	data, err := EncodeInfo(info)
	require.NoError(t, err)
	again, err := DecodeInfo("info.dat", data)
	require.NoError(t, err)
	assert.Equal(t, info, again)

	diff, err := DecodeDifficulty("Hard.dat", []byte(difficultyJSON))
	require.NoError(t, err)
	data, err = EncodeDifficulty(diff)
	require.NoError(t, err)
	diffAgain, err := DecodeDifficulty("Hard.dat", data)
	require.NoError(t, err)
	assert.Equal(t, diff, diffAgain)
}

func TestDecode_Rejections(t *testing.T) {
	tests := []struct {
		name     string
		old, new string
	}{
		{name: "event value exceeds byte", old: `"value": 255`, new: `"value": 256`},
		{name: "line index 4", old: `"line_index": 2`, new: `"line_index": 4`},
		{name: "line index key case", old: `"line_index": 2`, new: `"line_index": 2, "Line_Index": 0`},
		{name: "note type 2", old: `"type": 1, "cut_direction"`, new: `"type": 2, "cut_direction"`},
		{name: "missing obstacles", old: `,
  "obstacles": [{"time": 3, "line_index": 0, "type": 0, "duration": 1, "width": 1}]`, new: ``},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := strings.Replace(difficultyJSON, tt.old, tt.new, 1)
			require.NotEqual(t, difficultyJSON, data)

			_, err := DecodeDifficulty("Hard.dat", []byte(data))
			var fieldErr *types.FieldDecodeError
			require.True(t, errors.As(err, &fieldErr), "got %T: %v", err, err)
		})
	}
}

func TestDecode_WrongMajor(t *testing.T) {
	data := strings.Replace(difficultyJSON, `"1.5.0"`, `"2.0.0"`, 1)
	_, err := DecodeDifficulty("Hard.dat", []byte(data))

	var versionErr *types.SchemaVersionError
	require.True(t, errors.As(err, &versionErr))
	assert.Equal(t, "2.0.0", versionErr.Version)
}

func TestRegistered(t *testing.T) {
	info, err := registry.DecodeInfo("info.dat", []byte(infoJSON))
	require.NoError(t, err)
	_, ok := info.(*Info)
	assert.True(t, ok)
}
