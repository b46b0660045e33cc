package types

// Info is the revision-independent view of a decoded info document.
//
// Both schema revisions implement it; the concrete types carry every field
// of their own layout and are reachable with a type switch.
type Info interface {
	SchemaVersion() Version
	// Sets returns the difficulty sets in document order.
	Sets() []SetRef
	SongFile() string
	CoverFile() string
}

// Difficulty is the revision-independent view of a decoded difficulty
// document.
type Difficulty interface {
	SchemaVersion() Version
	NoteList() []Note
	ObstacleList() []Obstacle
	BPMChangeList() []BPMChange
}

// SetRef is one characteristic's list of referenced difficulty documents.
type SetRef struct {
	Characteristic Characteristic
	Beatmaps       []BeatmapRef
}

// BeatmapRef points at one difficulty document by filename.
type BeatmapRef struct {
	Difficulty DifficultyName
	Rank       Rank
	Filename   string
}

// Note is a note placement common to every revision.
type Note struct {
	Time         float64
	LineIndex    LineIndex
	LineLayer    LineLayer
	Type         NoteType
	CutDirection CutDirection
}

// Obstacle is a wall or ceiling common to every revision.
type Obstacle struct {
	Time      float64
	LineIndex LineIndex
	Type      ObstacleType
	Duration  float64
	Width     uint8
}

// BPMChange is a tempo change common to every revision.
type BPMChange struct {
	BPM             float64
	Time            float64
	BeatsPerBar     uint32
	MetronomeOffset uint32
}
