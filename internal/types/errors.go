package types

import "fmt"

// IOError is returned when a named entry cannot be read from a source or a
// remote archive cannot be fetched.
type IOError struct {
	Op   string // "open", "read", "fetch", "probe"
	Name string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Name, e.Err)
}

func (e *IOError) Unwrap() error { return e.Err }

// SchemaVersionError is returned when a document's version field is missing,
// malformed, or names a major version with no registered revision.
type SchemaVersionError struct {
	Document string
	Version  string
	Reason   string
}

func (e *SchemaVersionError) Error() string {
	doc := e.Document
	if doc == "" {
		doc = "document"
	}
	if e.Version == "" {
		return fmt.Sprintf("%s: schema version: %s", doc, e.Reason)
	}
	return fmt.Sprintf("%s: schema version %q: %s", doc, e.Version, e.Reason)
}

// FieldDecodeError is returned when a required key is missing, has the wrong
// JSON type, or holds a value outside its closed enumeration.
type FieldDecodeError struct {
	Document string
	Field    string // JSON key path, e.g. "_notes[3]._cutDirection"
	Reason   string
	Err      error
}

func (e *FieldDecodeError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("%s: %s", e.Document, e.Reason)
	}
	return fmt.Sprintf("%s: field %s: %s", e.Document, e.Field, e.Reason)
}

func (e *FieldDecodeError) Unwrap() error { return e.Err }

// ResolutionError wraps the first failure met while resolving the difficulty
// documents an info document references.
type ResolutionError struct {
	Characteristic Characteristic
	Rank           Rank
	Filename       string
	Err            error
}

func (e *ResolutionError) Error() string {
	return fmt.Sprintf("resolve %s rank %d (%s): %v", e.Characteristic, e.Rank, e.Filename, e.Err)
}

func (e *ResolutionError) Unwrap() error { return e.Err }

// InvalidReferenceError is returned for a remote reference from which no
// map key can be extracted.
type InvalidReferenceError struct {
	Ref    string
	Reason string
}

func (e *InvalidReferenceError) Error() string {
	return fmt.Sprintf("invalid reference %q: %s", e.Ref, e.Reason)
}

// Warning represents a non-fatal issue encountered while loading a bundle.
//
// Warnings are collected in Bundle.Warnings. Examples include a difficulty
// that replaced an earlier one with the same characteristic and rank, or an
// audio file whose duration could not be determined.
type Warning struct {
	// Stage where the warning occurred
	Stage string // "resolve", "probe", "cache"

	// Warning message
	Message string
}

// String returns a human-readable warning message.
func (w Warning) String() string {
	return fmt.Sprintf("%s: %s", w.Stage, w.Message)
}
