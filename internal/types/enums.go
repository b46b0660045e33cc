package types

import "fmt"

// Characteristic is the gameplay mode a difficulty set belongs to.
type Characteristic string

const (
	CharacteristicStandard  Characteristic = "Standard"
	CharacteristicNoArrows  Characteristic = "NoArrows"
	CharacteristicOneSaber  Characteristic = "OneSaber"
	CharacteristicLawless   Characteristic = "Lawless"
	CharacteristicLightshow Characteristic = "Lightshow"
)

// Valid reports whether c is one of the known characteristics.
func (c Characteristic) Valid() bool {
	switch c {
	case CharacteristicStandard, CharacteristicNoArrows, CharacteristicOneSaber,
		CharacteristicLawless, CharacteristicLightshow:
		return true
	}
	return false
}

// DifficultyName is the display difficulty of a beatmap.
type DifficultyName string

const (
	DifficultyEasy       DifficultyName = "Easy"
	DifficultyNormal     DifficultyName = "Normal"
	DifficultyHard       DifficultyName = "Hard"
	DifficultyExpert     DifficultyName = "Expert"
	DifficultyExpertPlus DifficultyName = "ExpertPlus"
)

// Valid reports whether d is one of the known difficulty names.
func (d DifficultyName) Valid() bool {
	switch d {
	case DifficultyEasy, DifficultyNormal, DifficultyHard, DifficultyExpert, DifficultyExpertPlus:
		return true
	}
	return false
}

// Environment selects the stage a map is played in.
type Environment string

const (
	EnvironmentDefault    Environment = "DefaultEnvironment"
	EnvironmentBigMirror  Environment = "BigMirrorEnvironment"
	EnvironmentTriangle   Environment = "TriangleEnvironment"
	EnvironmentNice       Environment = "NiceEnvironment"
	EnvironmentKDA        Environment = "KDAEnvironment"
	EnvironmentMonstercat Environment = "MonstercatEnvironment"
)

// Valid reports whether e is one of the known environments.
func (e Environment) Valid() bool {
	switch e {
	case EnvironmentDefault, EnvironmentBigMirror, EnvironmentTriangle,
		EnvironmentNice, EnvironmentKDA, EnvironmentMonstercat:
		return true
	}
	return false
}

// Rank orders difficulty documents within one characteristic. It is the
// common key type for both the free-form and the enumerated representation.
type Rank uint32

// RankEnum is the fixed set of ranks used by schema revision 2.
type RankEnum uint8

const (
	RankEasy       RankEnum = 1
	RankNormal     RankEnum = 3
	RankHard       RankEnum = 5
	RankExpert     RankEnum = 7
	RankExpertPlus RankEnum = 9
)

// Valid reports whether r is one of the enumerated ranks.
func (r RankEnum) Valid() bool {
	switch r {
	case RankEasy, RankNormal, RankHard, RankExpert, RankExpertPlus:
		return true
	}
	return false
}

func (r RankEnum) String() string {
	switch r {
	case RankEasy:
		return "Easy"
	case RankNormal:
		return "Normal"
	case RankHard:
		return "Hard"
	case RankExpert:
		return "Expert"
	case RankExpertPlus:
		return "ExpertPlus"
	default:
		return fmt.Sprintf("RankEnum(%d)", uint8(r))
	}
}

// LineIndex is the horizontal lane of a note or obstacle, left to right.
type LineIndex uint8

const (
	LineFarLeft LineIndex = iota
	LineMidLeft
	LineMidRight
	LineFarRight
)

// Valid reports whether i is within the four lanes.
func (i LineIndex) Valid() bool { return i <= LineFarRight }

func (i LineIndex) String() string {
	switch i {
	case LineFarLeft:
		return "FarLeft"
	case LineMidLeft:
		return "MidLeft"
	case LineMidRight:
		return "MidRight"
	case LineFarRight:
		return "FarRight"
	default:
		return fmt.Sprintf("LineIndex(%d)", uint8(i))
	}
}

// LineLayer is the vertical row of a note, bottom to top.
type LineLayer uint8

const (
	LayerBottom LineLayer = iota
	LayerMiddle
	LayerTop
)

// Valid reports whether l is within the three rows.
func (l LineLayer) Valid() bool { return l <= LayerTop }

func (l LineLayer) String() string {
	switch l {
	case LayerBottom:
		return "Bottom"
	case LayerMiddle:
		return "Middle"
	case LayerTop:
		return "Top"
	default:
		return fmt.Sprintf("LineLayer(%d)", uint8(l))
	}
}

// NoteType is the saber color of a note, or a bomb. Value 2 is unused.
type NoteType uint8

const (
	NoteRed  NoteType = 0
	NoteBlue NoteType = 1
	NoteBomb NoteType = 3
)

// Valid reports whether t is red, blue or bomb.
func (t NoteType) Valid() bool {
	return t == NoteRed || t == NoteBlue || t == NoteBomb
}

func (t NoteType) String() string {
	switch t {
	case NoteRed:
		return "Red"
	case NoteBlue:
		return "Blue"
	case NoteBomb:
		return "Bomb"
	default:
		return fmt.Sprintf("NoteType(%d)", uint8(t))
	}
}

// CutDirection is the direction a note must be cut in.
type CutDirection uint8

const (
	CutUp CutDirection = iota
	CutDown
	CutLeft
	CutRight
	CutUpLeft
	CutUpRight
	CutDownLeft
	CutDownRight
	CutDot
)

// Valid reports whether d is one of the eight directions or Dot.
func (d CutDirection) Valid() bool { return d <= CutDot }

func (d CutDirection) String() string {
	names := [...]string{"Up", "Down", "Left", "Right", "UpLeft", "UpRight", "DownLeft", "DownRight", "Dot"}
	if int(d) < len(names) {
		return names[d]
	}
	return fmt.Sprintf("CutDirection(%d)", uint8(d))
}

// ObstacleType distinguishes full-height walls from ceilings.
type ObstacleType uint8

const (
	ObstacleWall    ObstacleType = 0
	ObstacleCeiling ObstacleType = 1
)

// Valid reports whether t is a wall or a ceiling.
func (t ObstacleType) Valid() bool { return t <= ObstacleCeiling }

func (t ObstacleType) String() string {
	switch t {
	case ObstacleWall:
		return "Wall"
	case ObstacleCeiling:
		return "Ceiling"
	default:
		return fmt.Sprintf("ObstacleType(%d)", uint8(t))
	}
}
