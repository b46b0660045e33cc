package beatmap

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetectOrigin(t *testing.T) {
	dir := t.TempDir()
	write := func(name string, data []byte) string {
		t.Helper()
		path := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(path, data, 0o644))
		return path
	}

	tests := []struct {
		name string
		ref  string
		want Origin
	}{
		{name: "directory", ref: dir, want: OriginDirectory},
		{name: "info document", ref: write("Info.dat", []byte("{}")), want: OriginDirectory},
		{name: "uppercase dat", ref: write("INFO.DAT", []byte("{}")), want: OriginDirectory},
		{name: "zip extension", ref: write("map.zip", []byte("anything")), want: OriginArchive},
		{name: "zip magic", ref: write("map.bin", []byte("PK\x03\x04rest")), want: OriginArchive},
		{name: "empty zip magic", ref: write("empty.bin", []byte("PK\x05\x06rest")), want: OriginArchive},
		{name: "bare key", ref: "1a2b", want: OriginRemote},
		{name: "beatmap url", ref: "https://example.com/beatmap/570", want: OriginRemote},
		{name: "download url", ref: "https://example.com/api/download/key/570/", want: OriginRemote},
		{name: "scheme key", ref: "beatsaver://570", want: OriginRemote},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DetectOrigin(tt.ref)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDetectOrigin_Errors(t *testing.T) {
	dir := t.TempDir()
	unknown := filepath.Join(dir, "song.egg")
	require.NoError(t, os.WriteFile(unknown, []byte("OggS"), 0o644))

	_, err := DetectOrigin(unknown)
	var ioErr *IOError
	require.True(t, errors.As(err, &ioErr), "got %v", err)
	assert.Equal(t, "detect", ioErr.Op)

	_, err = DetectOrigin(filepath.Join(dir, "missing", "Info.dat"))
	assert.ErrorIs(t, err, fs.ErrNotExist)

	_, err = DetectOrigin("ftp://example.com/beatmap/570")
	var refErr *InvalidReferenceError
	assert.True(t, errors.As(err, &refErr), "got %T: %v", err, err)
}

func TestOrigin_String(t *testing.T) {
	names := map[Origin]string{
		OriginUnknown:   "unknown",
		OriginDirectory: "directory",
		OriginArchive:   "archive",
		OriginRemote:    "remote",
		Origin(42):      "unknown",
	}
	for o, want := range names {
		assert.Equal(t, want, o.String(), "Origin(%d)", o)
	}
}
