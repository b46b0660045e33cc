package beatmap

import (
	"bytes"
	"errors"
	"io"
	"io/fs"
	"math"
	"time"

	"github.com/simonhull/beatmap/internal/ogg"
	"github.com/simonhull/beatmap/source"
)

// Prober estimates the playable duration of an audio stream.
type Prober interface {
	// Probe returns the duration and true, or false when no usable audio
	// stream is recognized. Errors are reserved for streams that look
	// usable but cannot be read.
	Probe(r io.ReaderAt, size int64, name string) (time.Duration, bool, error)
}

// ChannelCorrection multiplies the per-channel duration computed from
// container metadata. The value 2.0 compensates for a channel divisor that
// is counted twice; it matches observed behavior but has not been validated
// against a corpus of real files.
const ChannelCorrection = 2.0

// maxProbeSeconds is the longest duration a time.Duration can hold.
const maxProbeSeconds = float64(math.MaxInt64) / float64(time.Second)

// OggVorbisProber reads the first Vorbis stream of an Ogg container and
// computes (samples / sample rate) / channels * ChannelCorrection. A
// duration too large for time.Duration is reported as unknown.
type OggVorbisProber struct{}

// Probe implements Prober.
func (OggVorbisProber) Probe(r io.ReaderAt, size int64, name string) (time.Duration, bool, error) {
	meta, err := ogg.ReadMetadata(r, size, name)
	switch {
	case errors.Is(err, ogg.ErrNotOgg), errors.Is(err, ogg.ErrNoVorbis), errors.Is(err, ogg.ErrNoGranule):
		return 0, false, nil
	case err != nil:
		return 0, false, err
	}

	seconds := float64(meta.Samples) / float64(meta.SampleRate) / float64(meta.Channels) * ChannelCorrection
	// A granule this large cannot be a real song length.
	if seconds >= maxProbeSeconds {
		return 0, false, nil
	}
	return time.Duration(seconds * float64(time.Second)), true, nil
}

// probeEntry opens name from src and probes it. Directory files are read in
// place; archive entries are buffered first.
func probeEntry(src source.Source, name string, p Prober) (time.Duration, bool, error) {
	rc, err := src.Open(name)
	if err != nil {
		return 0, false, err
	}
	defer rc.Close()

	if f, ok := rc.(interface {
		io.ReaderAt
		Stat() (fs.FileInfo, error)
	}); ok {
		if st, err := f.Stat(); err == nil {
			return wrapProbe(name)(p.Probe(f, st.Size(), name))
		}
	}

	data, err := io.ReadAll(rc)
	if err != nil {
		return 0, false, &IOError{Op: "read", Name: name, Err: err}
	}
	return wrapProbe(name)(p.Probe(bytes.NewReader(data), int64(len(data)), name))
}

func wrapProbe(name string) func(time.Duration, bool, error) (time.Duration, bool, error) {
	return func(d time.Duration, ok bool, err error) (time.Duration, bool, error) {
		if err != nil {
			return 0, false, &IOError{Op: "probe", Name: name, Err: err}
		}
		return d, ok, nil
	}
}
