package rev1

import (
	"encoding/json"
	"fmt"

	"github.com/simonhull/beatmap/internal/registry"
	"github.com/simonhull/beatmap/internal/strict"
	"github.com/simonhull/beatmap/internal/types"
)

func init() {
	registry.Register(Major, Revision{})
}

// Revision decodes and encodes revision 1 documents.
type Revision struct{}

// DecodeInfo implements registry.Revision.
func (Revision) DecodeInfo(document string, data []byte) (types.Info, error) {
	return DecodeInfo(document, data)
}

// DecodeDifficulty implements registry.Revision.
func (Revision) DecodeDifficulty(document string, data []byte) (types.Difficulty, error) {
	return DecodeDifficulty(document, data)
}

// EncodeInfo implements registry.Revision.
func (Revision) EncodeInfo(info types.Info) ([]byte, error) {
	i, ok := info.(*Info)
	if !ok {
		return nil, fmt.Errorf("rev1: cannot encode %T", info)
	}
	return EncodeInfo(i)
}

// EncodeDifficulty implements registry.Revision.
func (Revision) EncodeDifficulty(diff types.Difficulty) ([]byte, error) {
	d, ok := diff.(*Difficulty)
	if !ok {
		return nil, fmt.Errorf("rev1: cannot encode %T", diff)
	}
	return EncodeDifficulty(d)
}

// DecodeInfo strictly decodes a revision 1 info document.
func DecodeInfo(document string, data []byte) (*Info, error) {
	var info Info
	if err := strict.Decode(document, data, &info); err != nil {
		return nil, err
	}
	if err := checkMajor(document, info.Version); err != nil {
		return nil, err
	}
	return &info, nil
}

// DecodeDifficulty strictly decodes a revision 1 difficulty document.
func DecodeDifficulty(document string, data []byte) (*Difficulty, error) {
	var diff Difficulty
	if err := strict.Decode(document, data, &diff); err != nil {
		return nil, err
	}
	if err := checkMajor(document, diff.Version); err != nil {
		return nil, err
	}
	return &diff, nil
}

// EncodeInfo marshals info in the revision 1 key layout.
func EncodeInfo(info *Info) ([]byte, error) {
	if err := checkMajor("info", info.Version); err != nil {
		return nil, err
	}
	return json.Marshal(info.normalized())
}

// EncodeDifficulty marshals diff in the revision 1 key layout.
func EncodeDifficulty(diff *Difficulty) ([]byte, error) {
	if err := checkMajor("difficulty", diff.Version); err != nil {
		return nil, err
	}
	return json.Marshal(diff.normalized())
}

func checkMajor(document string, v types.Version) error {
	if v.Major() != Major {
		return &types.SchemaVersionError{
			Document: document,
			Version:  v.String(),
			Reason:   fmt.Sprintf("revision %d cannot decode major version %d", Major, v.Major()),
		}
	}
	return nil
}
