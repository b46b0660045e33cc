// Package rev1 implements schema revision 1: snake_case keys, a free-form
// integer difficulty rank, byte-range event values and no bookmarks.
package rev1

import "github.com/simonhull/beatmap/internal/types"

// Major is the schema major version this package decodes.
const Major = 1

// Info is a revision 1 info document.
type Info struct {
	Version               types.Version          `json:"version"`
	SongName              string                 `json:"song_name"`
	SongSubName           string                 `json:"song_sub_name"`
	SongAuthorName        string                 `json:"song_author_name"`
	LevelAuthorName       string                 `json:"level_author_name"`
	BeatsPerMinute        float64                `json:"beats_per_minute"`
	SongTimeOffset        float64                `json:"song_time_offset"`
	Shuffle               float64                `json:"shuffle"`
	ShufflePeriod         float64                `json:"shuffle_period"`
	PreviewStartTime      float64                `json:"preview_start_time"`
	PreviewDuration       float64                `json:"preview_duration"`
	SongFilename          string                 `json:"song_filename"`
	CoverImageFilename    string                 `json:"cover_image_filename"`
	EnvironmentName       types.Environment      `json:"environment_name" validate:"enum"`
	CustomData            InfoCustomData         `json:"custom_data"`
	DifficultyBeatmapSets []DifficultyBeatmapSet `json:"difficulty_beatmap_sets" validate:"dive"`
}

// InfoCustomData holds the editor extensions of an info document.
type InfoCustomData struct {
	Contributors          []Contributor `json:"contributors" validate:"dive"`
	CustomEnvironment     string        `json:"custom_environment"`
	CustomEnvironmentHash string        `json:"custom_environment_hash"`
}

// Contributor credits one person who worked on the map.
type Contributor struct {
	Role     string `json:"role"`
	Name     string `json:"name"`
	IconPath string `json:"icon_path"`
}

// DifficultyBeatmapSet groups the difficulties of one characteristic.
type DifficultyBeatmapSet struct {
	BeatmapCharacteristicName types.Characteristic `json:"beatmap_characteristic_name" validate:"enum"`
	DifficultyBeatmaps        []DifficultyBeatmap  `json:"difficulty_beatmaps" validate:"dive"`
}

// DifficultyBeatmap references one difficulty document. Any unsigned rank
// is accepted.
type DifficultyBeatmap struct {
	Difficulty              types.DifficultyName `json:"difficulty" validate:"enum"`
	DifficultyRank          uint32               `json:"difficulty_rank"`
	BeatmapFilename         string               `json:"beatmap_filename"`
	NoteJumpMovementSpeed   float64              `json:"note_jump_movement_speed"`
	NoteJumpStartBeatOffset float64              `json:"note_jump_start_beat_offset"`
	CustomData              BeatmapCustomData    `json:"custom_data"`
}

// BeatmapCustomData holds the editor extensions of one difficulty entry.
type BeatmapCustomData struct {
	DifficultyLabel string `json:"difficulty_label"`
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

func (i *Info) normalized() *Info {
	out := *i
	out.CustomData.Contributors = nonNil(out.CustomData.Contributors)
	out.DifficultyBeatmapSets = make([]DifficultyBeatmapSet, len(i.DifficultyBeatmapSets))
	for si, set := range i.DifficultyBeatmapSets {
		set.DifficultyBeatmaps = nonNil(set.DifficultyBeatmaps)
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
