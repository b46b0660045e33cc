// Package registry maps schema major versions to the revision that decodes
// documents of that version.
package registry

import (
	"encoding/json"
	"slices"
	"sync"

	"github.com/simonhull/beatmap/internal/types"
)

// Revision is the interface every schema revision implements.
type Revision interface {
	// DecodeInfo strictly decodes an info document of this revision.
	DecodeInfo(document string, data []byte) (types.Info, error)

	// DecodeDifficulty strictly decodes a difficulty document of this revision.
	DecodeDifficulty(document string, data []byte) (types.Difficulty, error)

	// EncodeInfo and EncodeDifficulty marshal documents produced by this
	// revision back to its own key layout.
	EncodeInfo(info types.Info) ([]byte, error)
	EncodeDifficulty(diff types.Difficulty) ([]byte, error)
}

var (
	mu        sync.RWMutex
	revisions = make(map[uint64]Revision)
)

// Register registers a revision for a schema major version.
// This is called by revision packages during initialization (init functions).
func Register(major uint64, rev Revision) {
	mu.Lock()
	defer mu.Unlock()
	revisions[major] = rev
}

// Get returns the revision for a major version.
// Returns nil if no revision is registered for it.
func Get(major uint64) Revision {
	mu.RLock()
	defer mu.RUnlock()
	return revisions[major]
}

// Majors returns the registered major versions in ascending order.
func Majors() []uint64 {
	mu.RLock()
	defer mu.RUnlock()
	out := make([]uint64, 0, len(revisions))
	for m := range revisions {
		out = append(out, m)
	}
	slices.Sort(out)
	return out
}

// Sniff reads only the version field of a document: "_version", falling back
// to "version". No other field is decoded.
func Sniff(document string, data []byte) (types.Version, error) {
	var head struct {
		Underscored json.RawMessage `json:"_version"`
		Plain       json.RawMessage `json:"version"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return types.Version{}, &types.FieldDecodeError{Document: document, Reason: "malformed JSON", Err: err}
	}

	raw := head.Underscored
	if len(raw) == 0 || string(raw) == "null" {
		raw = head.Plain
	}
	if len(raw) == 0 || string(raw) == "null" {
		return types.Version{}, &types.SchemaVersionError{Document: document, Reason: "missing version field"}
	}

	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return types.Version{}, &types.SchemaVersionError{Document: document, Version: string(raw), Reason: "version is not a string"}
	}

	v, err := types.ParseVersion(s)
	if err != nil {
		if verr, ok := err.(*types.SchemaVersionError); ok {
			verr.Document = document
		}
		return types.Version{}, err
	}
	return v, nil
}

// Lookup sniffs the document version and returns the matching revision.
func Lookup(document string, data []byte) (types.Version, Revision, error) {
	v, err := Sniff(document, data)
	if err != nil {
		return types.Version{}, nil, err
	}
	rev := Get(v.Major())
	if rev == nil {
		return v, nil, &types.SchemaVersionError{
			Document: document,
			Version:  v.String(),
			Reason:   "unsupported major version",
		}
	}
	return v, rev, nil
}

// DecodeInfo decodes an info document with the revision its version selects.
func DecodeInfo(document string, data []byte) (types.Info, error) {
	_, rev, err := Lookup(document, data)
	if err != nil {
		return nil, err
	}
	return rev.DecodeInfo(document, data)
}

// DecodeDifficulty decodes a difficulty document with the revision its
// version selects.
func DecodeDifficulty(document string, data []byte) (types.Difficulty, error) {
	_, rev, err := Lookup(document, data)
	if err != nil {
		return nil, err
	}
	return rev.DecodeDifficulty(document, data)
}

// EncodeInfo encodes info with the revision matching its schema version.
func EncodeInfo(info types.Info) ([]byte, error) {
	rev, err := revisionFor(info.SchemaVersion())
	if err != nil {
		return nil, err
	}
	return rev.EncodeInfo(info)
}

// EncodeDifficulty encodes diff with the revision matching its schema version.
func EncodeDifficulty(diff types.Difficulty) ([]byte, error) {
	rev, err := revisionFor(diff.SchemaVersion())
	if err != nil {
		return nil, err
	}
	return rev.EncodeDifficulty(diff)
}

func revisionFor(v types.Version) (Revision, error) {
	rev := Get(v.Major())
	if rev == nil {
		return nil, &types.SchemaVersionError{Version: v.String(), Reason: "unsupported major version"}
	}
	return rev, nil
}
