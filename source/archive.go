package source

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"

	"github.com/simonhull/beatmap/internal/types"
)

// DefaultMaxEntrySize caps the uncompressed size of a single archive entry.
const DefaultMaxEntrySize = int64(256 * 1024 * 1024)

// Archive is a Source over the entries of a zip archive.
type Archive struct {
	name    string
	entries map[string]*zip.File
	names   []string
	closer  io.Closer

	// MaxEntrySize rejects entries whose declared uncompressed size is
	// larger. Zero disables the check.
	MaxEntrySize int64
}

// NewArchive indexes the zip archive in r. name identifies it in errors.
//
// Entry names that are not UTF-8 are decoded as CP437, the zip default.
// Directory entries are skipped. When two entries share a name the first
// one is kept.
func NewArchive(r io.ReaderAt, size int64, name string) (*Archive, error) {
	zr, err := zip.NewReader(r, size)
	if err != nil {
		return nil, &types.IOError{Op: "read", Name: name, Err: fmt.Errorf("zip: %w", err)}
	}

	a := &Archive{
		name:         name,
		entries:      make(map[string]*zip.File, len(zr.File)),
		MaxEntrySize: DefaultMaxEntrySize,
	}
	for _, f := range zr.File {
		if f.FileInfo().IsDir() {
			continue
		}
		entryName := f.Name
		if f.NonUTF8 && !utf8.ValidString(entryName) {
			decoded, err := charmap.CodePage437.NewDecoder().String(entryName)
			if err == nil {
				entryName = decoded
			}
		}
		if _, dup := a.entries[entryName]; dup {
			continue
		}
		a.entries[entryName] = f
		a.names = append(a.names, entryName)
	}
	return a, nil
}

// OpenArchive opens and indexes the zip file at path. Close releases it.
func OpenArchive(path string) (*Archive, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &types.IOError{Op: "open", Name: path, Err: err}
	}
	st, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, &types.IOError{Op: "open", Name: path, Err: err}
	}

	a, err := NewArchive(f, st.Size(), path)
	if err != nil {
		f.Close()
		return nil, err
	}
	a.closer = f
	return a, nil
}

// Name implements Source.
func (a *Archive) Name() string { return a.name }

// Names returns the entry names in archive order.
func (a *Archive) Names() []string {
	return append([]string(nil), a.names...)
}

// Open implements Source.
func (a *Archive) Open(name string) (io.ReadCloser, error) {
	f, ok := a.entries[name]
	if !ok {
		return nil, notFound(name)
	}
	if a.MaxEntrySize > 0 && f.UncompressedSize64 > uint64(a.MaxEntrySize) {
		return nil, &types.IOError{
			Op:   "open",
			Name: name,
			Err:  fmt.Errorf("entry size %d exceeds limit %d", f.UncompressedSize64, a.MaxEntrySize),
		}
	}

	rc, err := f.Open()
	if err != nil {
		return nil, &types.IOError{Op: "open", Name: name, Err: err}
	}
	return rc, nil
}

// Close releases the underlying file when the archive was opened with
// OpenArchive.
func (a *Archive) Close() error {
	if a.closer == nil {
		return nil
	}
	return a.closer.Close()
}
