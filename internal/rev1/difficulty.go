package rev1

import "github.com/simonhull/beatmap/internal/types"

// Difficulty is a revision 1 difficulty document.
type Difficulty struct {
	Version    types.Version `json:"version"`
	BPMChanges []BPMChange   `json:"bpm_changes"`
	Events     []Event       `json:"events"`
	Notes      []Note        `json:"notes" validate:"dive"`
	Obstacles  []Obstacle    `json:"obstacles" validate:"dive"`
}

// BPMChange sets a new tempo from Time (in beats) onwards.
type BPMChange struct {
	BPM             float64 `json:"bpm"`
	Time            float64 `json:"time"`
	BeatsPerBar     uint32  `json:"beats_per_bar"`
	MetronomeOffset uint32  `json:"metronome_offset"`
}

// Event is a lighting or gameplay event. Value is limited to a byte.
type Event struct {
	Time  float64 `json:"time"`
	Type  uint8   `json:"type"`
	Value uint8   `json:"value"`
}

// Note is a single note or bomb.
type Note struct {
	Time         float64            `json:"time"`
	LineIndex    types.LineIndex    `json:"line_index" validate:"enum"`
	LineLayer    types.LineLayer    `json:"line_layer" validate:"enum"`
	Type         types.NoteType     `json:"type" validate:"enum"`
	CutDirection types.CutDirection `json:"cut_direction" validate:"enum"`
}

// Obstacle is a wall or ceiling spanning Width lanes for Duration beats.
type Obstacle struct {
	Time      float64            `json:"time"`
	LineIndex types.LineIndex    `json:"line_index" validate:"enum"`
	Type      types.ObstacleType `json:"type" validate:"enum"`
	Duration  float64            `json:"duration"`
	Width     uint8              `json:"width"`
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
		out[i] = types.Obstacle(o)
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
	return &out
}
