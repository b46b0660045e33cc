package types

import (
	"strconv"
	"strings"

	"golang.org/x/mod/semver"
)

// Version is a document schema version of the form major.minor.patch with
// optional pre-release and build suffixes.
//
// The zero Version is invalid; obtain one with ParseVersion or by decoding a
// document.
type Version struct {
	raw string
}

// ParseVersion parses a three-component semantic version such as "2.0.0".
//
// Shortened forms ("2", "2.0") and a leading "v" are rejected.
func ParseVersion(s string) (Version, error) {
	canonical := "v" + s
	if s == "" || !semver.IsValid(canonical) {
		return Version{}, &SchemaVersionError{Version: s, Reason: "not a semantic version"}
	}

	core := strings.TrimSuffix(canonical, semver.Build(canonical))
	core = strings.TrimSuffix(core, semver.Prerelease(core))
	if strings.Count(core, ".") != 2 {
		return Version{}, &SchemaVersionError{Version: s, Reason: "expected major.minor.patch"}
	}

	return Version{raw: s}, nil
}

// MustParseVersion is like ParseVersion but panics on error.
// It is intended for literals in tests and fixtures.
func MustParseVersion(s string) Version {
	v, err := ParseVersion(s)
	if err != nil {
		panic(err)
	}
	return v
}

// Major returns the major component, or 0 for the zero Version.
func (v Version) Major() uint64 {
	if v.raw == "" {
		return 0
	}
	major, err := strconv.ParseUint(strings.TrimPrefix(semver.Major("v"+v.raw), "v"), 10, 64)
	if err != nil {
		return 0
	}
	return major
}

// IsZero reports whether v was never set.
func (v Version) IsZero() bool {
	return v.raw == ""
}

// String returns the version exactly as it was written in the document.
func (v Version) String() string {
	return v.raw
}

// Compare orders versions by semantic version precedence.
func (v Version) Compare(other Version) int {
	return semver.Compare("v"+v.raw, "v"+other.raw)
}

// MarshalText implements encoding.TextMarshaler.
func (v Version) MarshalText() ([]byte, error) {
	return []byte(v.raw), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (v *Version) UnmarshalText(text []byte) error {
	parsed, err := ParseVersion(string(text))
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}
