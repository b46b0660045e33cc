package beatmap

import (
	"github.com/simonhull/beatmap/internal/rev1"
	"github.com/simonhull/beatmap/internal/rev2"
	"github.com/simonhull/beatmap/internal/types"
)

// Info is the revision-independent view of a decoded info document.
// Type switch on *InfoV1 or *InfoV2 to reach every field.
type Info = types.Info

// Difficulty is the revision-independent view of a decoded difficulty
// document. Type switch on *DifficultyV1 or *DifficultyV2.
type Difficulty = types.Difficulty

// Concrete document types for each schema revision.
type (
	InfoV1       = rev1.Info
	DifficultyV1 = rev1.Difficulty
	InfoV2       = rev2.Info
	DifficultyV2 = rev2.Difficulty
)

// SchemaVersion is the major.minor.patch version carried by every document.
type SchemaVersion = types.Version

// ParseSchemaVersion parses a three-component version string.
func ParseSchemaVersion(s string) (SchemaVersion, error) {
	return types.ParseVersion(s)
}

type (
	SetRef     = types.SetRef
	BeatmapRef = types.BeatmapRef
	Note       = types.Note
	Obstacle   = types.Obstacle
	BPMChange  = types.BPMChange
)

type (
	Characteristic = types.Characteristic
	DifficultyName = types.DifficultyName
	Environment    = types.Environment
	Rank           = types.Rank
	RankEnum       = types.RankEnum
	LineIndex      = types.LineIndex
	LineLayer      = types.LineLayer
	NoteType       = types.NoteType
	CutDirection   = types.CutDirection
	ObstacleType   = types.ObstacleType
)

// Re-export enumeration constants.
const (
	CharacteristicStandard  = types.CharacteristicStandard
	CharacteristicNoArrows  = types.CharacteristicNoArrows
	CharacteristicOneSaber  = types.CharacteristicOneSaber
	CharacteristicLawless   = types.CharacteristicLawless
	CharacteristicLightshow = types.CharacteristicLightshow

	DifficultyEasy       = types.DifficultyEasy
	DifficultyNormal     = types.DifficultyNormal
	DifficultyHard       = types.DifficultyHard
	DifficultyExpert     = types.DifficultyExpert
	DifficultyExpertPlus = types.DifficultyExpertPlus

	EnvironmentDefault    = types.EnvironmentDefault
	EnvironmentBigMirror  = types.EnvironmentBigMirror
	EnvironmentTriangle   = types.EnvironmentTriangle
	EnvironmentNice       = types.EnvironmentNice
	EnvironmentKDA        = types.EnvironmentKDA
	EnvironmentMonstercat = types.EnvironmentMonstercat

	RankEasy       = types.RankEasy
	RankNormal     = types.RankNormal
	RankHard       = types.RankHard
	RankExpert     = types.RankExpert
	RankExpertPlus = types.RankExpertPlus

	LineFarLeft  = types.LineFarLeft
	LineMidLeft  = types.LineMidLeft
	LineMidRight = types.LineMidRight
	LineFarRight = types.LineFarRight

	LayerBottom = types.LayerBottom
	LayerMiddle = types.LayerMiddle
	LayerTop    = types.LayerTop

	NoteRed  = types.NoteRed
	NoteBlue = types.NoteBlue
	NoteBomb = types.NoteBomb

	CutUp        = types.CutUp
	CutDown      = types.CutDown
	CutLeft      = types.CutLeft
	CutRight     = types.CutRight
	CutUpLeft    = types.CutUpLeft
	CutUpRight   = types.CutUpRight
	CutDownLeft  = types.CutDownLeft
	CutDownRight = types.CutDownRight
	CutDot       = types.CutDot

	ObstacleWall    = types.ObstacleWall
	ObstacleCeiling = types.ObstacleCeiling
)
