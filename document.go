package beatmap

import (
	"github.com/simonhull/beatmap/internal/registry"
	_ "github.com/simonhull/beatmap/internal/rev1" // Register schema revision 1
	_ "github.com/simonhull/beatmap/internal/rev2" // Register schema revision 2
	"github.com/simonhull/beatmap/source"
)

// DecodeInfo decodes an info document, selecting the schema revision from
// its version field. The version is checked before any other field.
//
// Decoding is strict: a missing or null required key, a value of the wrong
// JSON type, or a value outside a closed enumeration is a
// *FieldDecodeError. An unparseable or unsupported version is a
// *SchemaVersionError.
func DecodeInfo(data []byte) (Info, error) {
	return registry.DecodeInfo(source.InfoFilenames[0], data)
}

// DecodeDifficulty decodes a difficulty document. name identifies the
// document in errors.
func DecodeDifficulty(name string, data []byte) (Difficulty, error) {
	return registry.DecodeDifficulty(name, data)
}

// EncodeInfo encodes info with the key layout of its own revision.
func EncodeInfo(info Info) ([]byte, error) {
	return registry.EncodeInfo(info)
}

// EncodeDifficulty encodes diff with the key layout of its own revision.
func EncodeDifficulty(diff Difficulty) ([]byte, error) {
	return registry.EncodeDifficulty(diff)
}

// SupportedMajorVersions returns the schema major versions that can be
// decoded, in ascending order.
func SupportedMajorVersions() []uint64 {
	return registry.Majors()
}
