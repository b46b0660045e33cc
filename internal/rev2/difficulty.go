package rev2

import "github.com/simonhull/beatmap/internal/types"

// Difficulty is a revision 2 difficulty document.
type Difficulty struct {
	Version    types.Version `json:"_version"`
	BPMChanges []BPMChange   `json:"_BPMChanges" validate:"dive"`
	Events     []Event       `json:"_events" validate:"dive"`
	Notes      []Note        `json:"_notes" validate:"dive"`
	Obstacles  []Obstacle    `json:"_obstacles" validate:"dive"`
	Bookmarks  []Bookmark    `json:"_bookmarks" validate:"dive"`
}

// BPMChange sets a new tempo from Time (in beats) onwards.
type BPMChange struct {
	BPM             float64 `json:"_BPM"`
	Time            float64 `json:"_time"`
	BeatsPerBar     uint32  `json:"_beatsPerBar"`
	MetronomeOffset uint32  `json:"_metronomeOffset"`
}

// Event is a lighting or gameplay event.
type Event struct {
	Time  float64 `json:"_time"`
	Type  uint8   `json:"_type"`
	Value uint32  `json:"_value"`
}

// Note is a single note or bomb.
type Note struct {
	Time         float64            `json:"_time"`
	LineIndex    types.LineIndex    `json:"_lineIndex" validate:"enum"`
	LineLayer    types.LineLayer    `json:"_lineLayer" validate:"enum"`
	Type         types.NoteType     `json:"_type" validate:"enum"`
	CutDirection types.CutDirection `json:"_cutDirection" validate:"enum"`
}

// Obstacle is a wall or ceiling spanning Width lanes for Duration beats.
type Obstacle struct {
	Time      float64            `json:"_time"`
	LineIndex types.LineIndex    `json:"_lineIndex" validate:"enum"`
	Type      types.ObstacleType `json:"_type" validate:"enum"`
	Duration  float64            `json:"_duration"`
	Width     uint8              `json:"_width"`
}

// Bookmark is an editor-only marker.
type Bookmark struct {
	Time float64 `json:"_time"`
	Name string  `json:"_name"`
}

// SchemaVersion implements types.Difficulty.
func (d *Difficulty) SchemaVersion() types.Version { return d.Version }

// NoteList implements types.Difficulty.
func (d *Difficulty) NoteList() []types.Note {
	out := make([]types.Note, len(d.Notes))
	for i, n := range d.Notes {
		out[i] = types.Note(n)
	}
	return out
}

// ObstacleList implements types.Difficulty.
func (d *Difficulty) ObstacleList() []types.Obstacle {
	out := make([]types.Obstacle, len(d.Obstacles))
	for i, o := range d.Obstacles {
		out[i] = types.Obstacle{
			Time:      o.Time,
			LineIndex: o.LineIndex,
			Type:      o.Type,
			Duration:  o.Duration,
			Width:     o.Width,
		}
	}
	return out
}

// BPMChangeList implements types.Difficulty.
func (d *Difficulty) BPMChangeList() []types.BPMChange {
	out := make([]types.BPMChange, len(d.BPMChanges))
	for i, c := range d.BPMChanges {
		out[i] = types.BPMChange(c)
	}
	return out
}

func (d *Difficulty) normalized() *Difficulty {
	out := *d
	out.BPMChanges = nonNil(out.BPMChanges)
	out.Events = nonNil(out.Events)
	out.Notes = nonNil(out.Notes)
	out.Obstacles = nonNil(out.Obstacles)
	out.Bookmarks = nonNil(out.Bookmarks)
	return &out
}
