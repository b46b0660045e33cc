// Package source provides uniform access to the named documents of a map
// bundle, whether they are loose files in a directory or entries in a zip
// archive.
//
// Every implementation resolves names by exact, case-sensitive match.
package source

import (
	"errors"
	"fmt"
	"io"
	"io/fs"

	"github.com/simonhull/beatmap/internal/types"
)

// InfoFilenames are the conventional names of the root info document, in
// lookup order.
var InfoFilenames = []string{"Info.dat", "info.dat"}

// Source yields named byte streams.
type Source interface {
	// Open returns the stream for name. A missing name yields an
	// *types.IOError wrapping fs.ErrNotExist.
	Open(name string) (io.ReadCloser, error)

	// Name identifies the source in logs and errors.
	Name() string
}

// ReadFile reads the whole stream for name.
func ReadFile(src Source, name string) ([]byte, error) {
	rc, err := src.Open(name)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, &types.IOError{Op: "read", Name: name, Err: err}
	}
	return data, nil
}

// FindInfo locates and reads the root info document, trying each of
// InfoFilenames in turn. It returns the name that matched.
func FindInfo(src Source) (string, []byte, error) {
	for _, name := range InfoFilenames {
		data, err := ReadFile(src, name)
		if err == nil {
			return name, data, nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return "", nil, err
		}
	}
	return "", nil, &types.IOError{
		Op:   "open",
		Name: InfoFilenames[0],
		Err:  fmt.Errorf("no info document in %s: %w", src.Name(), fs.ErrNotExist),
	}
}

func notFound(name string) error {
	return &types.IOError{Op: "open", Name: name, Err: fs.ErrNotExist}
}
