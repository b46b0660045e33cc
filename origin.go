package beatmap

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/simonhull/beatmap/remote"
)

// Origin identifies where a bundle was loaded from.
type Origin uint8

const (
	OriginUnknown Origin = iota
	OriginDirectory
	OriginArchive
	OriginRemote
)

func (o Origin) String() string {
	switch o {
	case OriginDirectory:
		return "directory"
	case OriginArchive:
		return "archive"
	case OriginRemote:
		return "remote"
	default:
		return "unknown"
	}
}

var zipMagic = [][]byte{
	[]byte("PK\x03\x04"),
	[]byte("PK\x05\x06"), // empty archive
}

// DetectOrigin classifies ref:
//   - an existing directory, or a .dat file inside one, is OriginDirectory
//   - an existing file with a .zip extension or zip magic is OriginArchive
//   - anything remote.ParseKey accepts is OriginRemote
//
// Local paths take precedence, so a directory named "570" is loaded from
// disk rather than fetched.
func DetectOrigin(ref string) (Origin, error) {
	st, err := os.Stat(ref)
	switch {
	case err == nil && st.IsDir():
		return OriginDirectory, nil
	case err == nil:
		return detectFile(ref)
	case !errors.Is(err, fs.ErrNotExist):
		return OriginUnknown, &IOError{Op: "stat", Name: ref, Err: err}
	}

	if _, perr := remote.ParseKey(ref); perr == nil {
		return OriginRemote, nil
	} else if strings.Contains(ref, "://") {
		return OriginUnknown, perr
	}
	return OriginUnknown, &IOError{Op: "open", Name: ref, Err: fs.ErrNotExist}
}

func detectFile(path string) (Origin, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".dat":
		return OriginDirectory, nil
	case ".zip":
		return OriginArchive, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return OriginUnknown, &IOError{Op: "open", Name: path, Err: err}
	}
	defer f.Close()

	header := make([]byte, 4)
	if _, err := f.ReadAt(header, 0); err == nil {
		for _, magic := range zipMagic {
			if bytes.Equal(header, magic) {
				return OriginArchive, nil
			}
		}
	}
	return OriginUnknown, &IOError{
		Op:   "detect",
		Name: path,
		Err:  fmt.Errorf("not an info document or zip archive"),
	}
}
