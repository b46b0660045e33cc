// Package rev2 implements schema revision 2: "_"-prefixed keys, difficulty
// rank restricted to {1,3,5,7,9}, 32-bit event values and editor bookmarks.
package rev2

import (
	"github.com/simonhull/beatmap/internal/types"
)

// Major is the schema major version this package decodes.
const Major = 2

// Info is a revision 2 info document.
type Info struct {
	Version               types.Version          `json:"_version"`
	SongName              string                 `json:"_songName"`
	SongSubName           string                 `json:"_songSubName"`
	SongAuthorName        string                 `json:"_songAuthorName"`
	LevelAuthorName       string                 `json:"_levelAuthorName"`
	BeatsPerMinute        float64                `json:"_beatsPerMinute"`
	SongTimeOffset        float64                `json:"_songTimeOffset"`
	Shuffle               float64                `json:"_shuffle"`
	ShufflePeriod         float64                `json:"_shufflePeriod"`
	PreviewStartTime      float64                `json:"_previewStartTime"`
	PreviewDuration       float64                `json:"_previewDuration"`
	SongFilename          string                 `json:"_songFilename"`
	CoverImageFilename    string                 `json:"_coverImageFilename"`
	EnvironmentName       types.Environment      `json:"_environmentName" validate:"enum"`
	CustomData            InfoCustomData         `json:"_customData"`
	DifficultyBeatmapSets []DifficultyBeatmapSet `json:"_difficultyBeatmapSets" validate:"dive"`
}

// InfoCustomData holds the editor extensions of an info document.
type InfoCustomData struct {
	Contributors          []Contributor `json:"_contributors" validate:"dive"`
	CustomEnvironment     string        `json:"_customEnvironment"`
	CustomEnvironmentHash string        `json:"_customEnvironmentHash"`
}

// Contributor credits one person who worked on the map.
type Contributor struct {
	Role     string `json:"_role"`
	Name     string `json:"_name"`
	IconPath string `json:"_iconPath"`
}

// DifficultyBeatmapSet groups the difficulties of one characteristic.
type DifficultyBeatmapSet struct {
	BeatmapCharacteristicName types.Characteristic `json:"_beatmapCharacteristicName" validate:"enum"`
	DifficultyBeatmaps        []DifficultyBeatmap  `json:"_difficultyBeatmaps" validate:"dive"`
}

// DifficultyBeatmap references one difficulty document.
type DifficultyBeatmap struct {
	Difficulty              types.DifficultyName `json:"_difficulty" validate:"enum"`
	DifficultyRank          types.RankEnum       `json:"_difficultyRank" validate:"enum"`
	BeatmapFilename         string               `json:"_beatmapFilename"`
	NoteJumpMovementSpeed   float64              `json:"_noteJumpMovementSpeed"`
	NoteJumpStartBeatOffset float64              `json:"_noteJumpStartBeatOffset"`
	CustomData              BeatmapCustomData    `json:"_customData"`
}

// BeatmapCustomData holds the editor extensions of one difficulty entry.
// The color overrides are nil when absent.
type BeatmapCustomData struct {
	DifficultyLabel string   `json:"_difficultyLabel"`
	EditorOffset    float64  `json:"_editorOffset"`
	EditorOldOffset float64  `json:"_editorOldOffset"`
	ColorLeft       *Color   `json:"_colorLeft,omitempty"`
	ColorRight      *Color   `json:"_colorRight,omitempty"`
	Warnings        []string `json:"_warning"`
	Information     []string `json:"_information"`
	Suggestions     []string `json:"_suggestions"`
	Requirements    []string `json:"_requirements"`
}

// Color is an RGB saber color override, each channel in [0, 1].
type Color struct {
	R float64 `json:"r"`
	G float64 `json:"g"`
	B float64 `json:"b"`
}

// SchemaVersion implements types.Info.
func (i *Info) SchemaVersion() types.Version { return i.Version }

// SongFile implements types.Info.
func (i *Info) SongFile() string { return i.SongFilename }

// CoverFile implements types.Info.
func (i *Info) CoverFile() string { return i.CoverImageFilename }

// Sets implements types.Info.
func (i *Info) Sets() []types.SetRef {
	sets := make([]types.SetRef, 0, len(i.DifficultyBeatmapSets))
	for _, set := range i.DifficultyBeatmapSets {
		ref := types.SetRef{
			Characteristic: set.BeatmapCharacteristicName,
			Beatmaps:       make([]types.BeatmapRef, 0, len(set.DifficultyBeatmaps)),
		}
		for _, b := range set.DifficultyBeatmaps {
			ref.Beatmaps = append(ref.Beatmaps, types.BeatmapRef{
				Difficulty: b.Difficulty,
				Rank:       types.Rank(b.DifficultyRank),
				Filename:   b.BeatmapFilename,
			})
		}
		sets = append(sets, ref)
	}
	return sets
}

// normalized returns a copy with every nil slice replaced by an empty one,
// so the encoded form decodes under the strict rules.
func (i *Info) normalized() *Info {
	out := *i
	out.CustomData.Contributors = nonNil(out.CustomData.Contributors)
	out.DifficultyBeatmapSets = make([]DifficultyBeatmapSet, len(i.DifficultyBeatmapSets))
	for si, set := range i.DifficultyBeatmapSets {
		set.DifficultyBeatmaps = append([]DifficultyBeatmap{}, set.DifficultyBeatmaps...)
		for bi := range set.DifficultyBeatmaps {
			cd := &set.DifficultyBeatmaps[bi].CustomData
			cd.Warnings = nonNil(cd.Warnings)
			cd.Information = nonNil(cd.Information)
			cd.Suggestions = nonNil(cd.Suggestions)
			cd.Requirements = nonNil(cd.Requirements)
		}
		out.DifficultyBeatmapSets[si] = set
	}
	return &out
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
