package rev2

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
  "_version": "2.0.0",
  "_songName": "Escape",
  "_songSubName": "ft. Summer Haze",
  "_songAuthorName": "Jaroslav Beck",
  "_levelAuthorName": "mapper",
  "_beatsPerMinute": 120,
  "_songTimeOffset": 0,
  "_shuffle": 0,
  "_shufflePeriod": 0.5,
  "_previewStartTime": 12,
  "_previewDuration": 10,
  "_songFilename": "song.egg",
  "_coverImageFilename": "cover.jpg",
  "_environmentName": "NiceEnvironment",
  "_customData": {
    "_contributors": [{"_role": "Lighter", "_name": "someone", "_iconPath": "icon.png"}],
    "_customEnvironment": "",
    "_customEnvironmentHash": "",
    "_editorSettings": {"unknown": "ignored"}
  },
  "_difficultyBeatmapSets": [
    {
      "_beatmapCharacteristicName": "Standard",
      "_difficultyBeatmaps": [
        {
          "_difficulty": "Easy",
          "_difficultyRank": 1,
          "_beatmapFilename": "EasyStandard.dat",
          "_noteJumpMovementSpeed": 10,
          "_noteJumpStartBeatOffset": 0,
          "_customData": {
            "_difficultyLabel": "Chill",
            "_editorOffset": 0,
            "_editorOldOffset": 0,
            "_colorLeft": {"r": 0.75, "g": 0.1, "b": 0},
            "_warning": [],
            "_information": ["first map"],
            "_suggestions": [],
            "_requirements": []
          }
        },
        {
          "_difficulty": "Expert",
          "_difficultyRank": 7,
          "_beatmapFilename": "ExpertStandard.dat",
          "_noteJumpMovementSpeed": 16,
          "_noteJumpStartBeatOffset": -0.25,
          "_customData": {
            "_difficultyLabel": "",
            "_editorOffset": 0,
            "_editorOldOffset": 0,
            "_warning": [],
            "_information": [],
            "_suggestions": ["Chroma"],
            "_requirements": []
          }
        }
      ]
    }
  ]
}`

const difficultyJSON = `{
  "_version": "2.0.0",
  "_BPMChanges": [{"_BPM": 140, "_time": 16.5, "_beatsPerBar": 4, "_metronomeOffset": 4}],
  "_events": [{"_time": 0, "_type": 1, "_value": 70000}],
  "_notes": [
    {"_time": 1.125, "_lineIndex": 0, "_lineLayer": 0, "_type": 0, "_cutDirection": 1},
    {"_time": 2, "_lineIndex": 3, "_lineLayer": 2, "_type": 3, "_cutDirection": 8}
  ],
  "_obstacles": [{"_time": 4, "_lineIndex": 1, "_type": 1, "_duration": 2.5, "_width": 2}],
  "_bookmarks": [{"_time": 8, "_name": "drop"}]
}`

func TestDecodeInfo(t *testing.T) {
	info, err := DecodeInfo("Info.dat", []byte(infoJSON))
	require.NoError(t, err)

	assert.Equal(t, "Escape", info.SongName)
	assert.Equal(t, types.EnvironmentNice, info.EnvironmentName)
	require.Len(t, info.CustomData.Contributors, 1)
	assert.Equal(t, "Lighter", info.CustomData.Contributors[0].Role)

	require.Len(t, info.DifficultyBeatmapSets, 1)
	beatmaps := info.DifficultyBeatmapSets[0].DifficultyBeatmaps
	require.Len(t, beatmaps, 2)

	require.NotNil(t, beatmaps[0].CustomData.ColorLeft)
	assert.Equal(t, 0.75, beatmaps[0].CustomData.ColorLeft.R)
	assert.Nil(t, beatmaps[0].CustomData.ColorRight, "absent color must stay nil")
	assert.Nil(t, beatmaps[1].CustomData.ColorLeft)
	assert.Equal(t, -0.25, beatmaps[1].NoteJumpStartBeatOffset)

	sets := info.Sets()
	require.Len(t, sets, 1)
	assert.Equal(t, types.CharacteristicStandard, sets[0].Characteristic)
	assert.Equal(t, types.BeatmapRef{Difficulty: types.DifficultyExpert, Rank: 7, Filename: "ExpertStandard.dat"}, sets[0].Beatmaps[1])
	assert.Equal(t, "song.egg", info.SongFile())
	assert.Equal(t, "cover.jpg", info.CoverFile())
}

func TestDecodeDifficulty(t *testing.T) {
	diff, err := DecodeDifficulty("ExpertStandard.dat", []byte(difficultyJSON))
	require.NoError(t, err)

	assert.Equal(t, uint32(70000), diff.Events[0].Value)
	assert.Equal(t, 1.125, diff.Notes[0].Time)
	assert.Equal(t, types.CutDot, diff.Notes[1].CutDirection)
	assert.Equal(t, types.ObstacleCeiling, diff.Obstacles[0].Type)
	assert.Equal(t, "drop", diff.Bookmarks[0].Name)

	notes := diff.NoteList()
	require.Len(t, notes, 2)
	assert.Equal(t, types.NoteBomb, notes[1].Type)
	assert.Equal(t, uint32(4), diff.BPMChangeList()[0].BeatsPerBar)
	assert.Equal(t, uint8(2), diff.ObstacleList()[0].Width)
}

func TestRoundTrip(t *testing.T) {
	t.Run("info", func(t *testing.T) {
		info, err := DecodeInfo("Info.dat", []byte(infoJSON))
		require.NoError(t, err)

		data, err := EncodeInfo(info)
		require.NoError(t, err)

		again, err := DecodeInfo("Info.dat", data)
		require.NoError(t, err)
		assert.Equal(t, info, again)
	})

	t.Run("difficulty", func(t *testing.T) {
		diff, err := DecodeDifficulty("d.dat", []byte(difficultyJSON))
		require.NoError(t, err)

		data, err := EncodeDifficulty(diff)
		require.NoError(t, err)

		again, err := DecodeDifficulty("d.dat", data)
		require.NoError(t, err)
		assert.Equal(t, diff, again)
	})

	t.Run("empty sequences", func(t *testing.T) {
		diff := &Difficulty{Version: types.MustParseVersion("2.0.0")}

		data, err := EncodeDifficulty(diff)
		require.NoError(t, err)

		again, err := DecodeDifficulty("d.dat", data)
		require.NoError(t, err)
		assert.Empty(t, again.Notes)
		assert.Empty(t, again.Bookmarks)
	})
}

func TestDecodeDifficulty_Rejections(t *testing.T) {
	tests := []struct {
		name      string
		old, new  string
		wantField string
	}{
		{name: "line index 4", old: `"_lineIndex": 3`, new: `"_lineIndex": 4`, wantField: "_notes[1]._lineIndex"},
		{name: "line layer 3", old: `"_lineLayer": 2`, new: `"_lineLayer": 3`, wantField: "_notes[1]._lineLayer"},
		{name: "note type 2", old: `"_type": 3`, new: `"_type": 2`, wantField: "_notes[1]._type"},
		{name: "cut direction 9", old: `"_cutDirection": 8`, new: `"_cutDirection": 9`, wantField: "_notes[1]._cutDirection"},
		{name: "obstacle type 2", old: `"_type": 1, "_duration"`, new: `"_type": 2, "_duration"`, wantField: "_obstacles[0]._type"},
		{name: "width overflow", old: `"_width": 2`, new: `"_width": 300`, wantField: "_width"},
		{name: "line index key case", old: `"_lineIndex": 3`, new: `"_lineIndex": 0, "_LineIndex": 3`, wantField: "_notes[1]._LineIndex"},
		{name: "negative bar count", old: `"_beatsPerBar": 4`, new: `"_beatsPerBar": -4`, wantField: "_beatsPerBar"},
		{name: "missing bookmarks", old: `,
  "_bookmarks": [{"_time": 8, "_name": "drop"}]`, new: ``, wantField: "_bookmarks"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := strings.Replace(difficultyJSON, tt.old, tt.new, 1)
			require.NotEqual(t, difficultyJSON, data, "fixture replacement did not apply")

			_, err := DecodeDifficulty("d.dat", []byte(data))
			var fieldErr *types.FieldDecodeError
			require.True(t, errors.As(err, &fieldErr), "got %T: %v", err, err)
			assert.Contains(t, fieldErr.Field, tt.wantField)
		})
	}
}

func TestDecodeInfo_Rejections(t *testing.T) {
	tests := []struct {
		name     string
		old, new string
	}{
		{name: "rank 2", old: `"_difficultyRank": 7`, new: `"_difficultyRank": 2`},
		{name: "unknown characteristic", old: `"Standard"`, new: `"ThreeSabers"`},
		{name: "unknown environment", old: `"NiceEnvironment"`, new: `"MoonEnvironment"`},
		{name: "unknown difficulty", old: `"_difficulty": "Expert"`, new: `"_difficulty": "Insane"`},
		{name: "partial color", old: `"b": 0}`, new: `"b": null}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := strings.Replace(infoJSON, tt.old, tt.new, 1)
			require.NotEqual(t, infoJSON, data)

			_, err := DecodeInfo("Info.dat", []byte(data))
			var fieldErr *types.FieldDecodeError
			require.True(t, errors.As(err, &fieldErr), "got %T: %v", err, err)
		})
	}
}

func TestDecode_VersionErrors(t *testing.T) {
	for _, version := range []string{"2.0", "two", "1.0.0"} {
		t.Run(version, func(t *testing.T) {
			data := strings.Replace(difficultyJSON, `"2.0.0"`, `"`+version+`"`, 1)
			_, err := DecodeDifficulty("d.dat", []byte(data))

			var versionErr *types.SchemaVersionError
			require.True(t, errors.As(err, &versionErr), "got %T: %v", err, err)
			assert.Equal(t, version, versionErr.Version)
		})
	}
}

func TestRegistered(t *testing.T) {
	rev := registry.Get(Major)
	require.NotNil(t, rev)

	diff, err := registry.DecodeDifficulty("d.dat", []byte(difficultyJSON))
	require.NoError(t, err)
	_, ok := diff.(*Difficulty)
	assert.True(t, ok)
}
