package beatmap

import (
	"github.com/simonhull/beatmap/internal/types"
)

// IOError is an alias to types.IOError.
// Returned when a named entry cannot be opened or read, or a remote archive
// cannot be fetched.
type IOError = types.IOError

// SchemaVersionError is an alias to types.SchemaVersionError.
// Returned when a version field is missing, malformed or unsupported.
type SchemaVersionError = types.SchemaVersionError

// FieldDecodeError is an alias to types.FieldDecodeError.
type FieldDecodeError = types.FieldDecodeError

// ResolutionError is an alias to types.ResolutionError.
// It wraps the first failure met while resolving a bundle's difficulties.
type ResolutionError = types.ResolutionError

// InvalidReferenceError is an alias to types.InvalidReferenceError.
type InvalidReferenceError = types.InvalidReferenceError

// Warning is an alias to types.Warning.
type Warning = types.Warning
