package source

import (
	"errors"
	"io"
	"io/fs"
	"os"
	"path"
	"strings"
	"sync"

	"github.com/simonhull/beatmap/internal/types"
)

// FS is a Source over an fs.FS. Names are checked against directory
// listings so that case-insensitive file systems still match exactly.
type FS struct {
	fsys fs.FS
	name string

	mu       sync.Mutex
	listings map[string]map[string]bool
}

// FromFS returns a Source reading from fsys. name identifies it in errors.
func FromFS(fsys fs.FS, name string) *FS {
	return &FS{
		fsys:     fsys,
		name:     name,
		listings: make(map[string]map[string]bool),
	}
}

// Dir returns a Source resolving names relative to dir.
// Names may not escape dir.
func Dir(dir string) *FS {
	return FromFS(os.DirFS(dir), dir)
}

// Name implements Source.
func (s *FS) Name() string { return s.name }

// Open implements Source. Files opened from a directory also implement
// io.ReaderAt.
func (s *FS) Open(name string) (io.ReadCloser, error) {
	if !fs.ValidPath(name) || name == "." {
		return nil, &types.IOError{Op: "open", Name: name, Err: fs.ErrInvalid}
	}

	exists, err := s.exactMatch(name)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, notFound(name)
	}

	f, err := s.fsys.Open(name)
	if err != nil {
		return nil, &types.IOError{Op: "open", Name: name, Err: err}
	}
	if st, err := f.Stat(); err == nil && st.IsDir() {
		f.Close()
		return nil, &types.IOError{Op: "open", Name: name, Err: fs.ErrInvalid}
	}
	return f, nil
}

// exactMatch reports whether every element of name appears verbatim in its
// parent's listing.
func (s *FS) exactMatch(name string) (bool, error) {
	dir := "."
	for _, elem := range strings.Split(name, "/") {
		entries, err := s.listing(dir)
		if err != nil {
			return false, err
		}
		if !entries[elem] {
			return false, nil
		}
		dir = path.Join(dir, elem)
	}
	return true, nil
}

func (s *FS) listing(dir string) (map[string]bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if l, ok := s.listings[dir]; ok {
		return l, nil
	}

	entries, err := fs.ReadDir(s.fsys, dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			l := map[string]bool{}
			s.listings[dir] = l
			return l, nil
		}
		return nil, &types.IOError{Op: "read", Name: dir, Err: err}
	}

	l := make(map[string]bool, len(entries))
	for _, e := range entries {
		l[e.Name()] = true
	}
	s.listings[dir] = l
	return l, nil
}
