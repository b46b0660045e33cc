package ogg

import (
	encbinary "encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/simonhull/beatmap/internal/binary"
)

const (
	codecVorbis = "vorbis"
	codecOpus   = "opus"

	// maxStreams bounds the number of beginning-of-stream pages examined.
	maxStreams = 16
)

var (
	// ErrNotOgg is returned when the input does not start with an Ogg page.
	ErrNotOgg = errors.New("ogg: not an Ogg stream")

	// ErrNoVorbis is returned when no logical stream carries Vorbis audio.
	ErrNoVorbis = errors.New("ogg: no Vorbis stream")

	// ErrNoGranule is returned when no page of the Vorbis stream records a
	// granule position.
	ErrNoGranule = errors.New("ogg: no granule position for stream")
)

// Metadata describes the first Vorbis stream of an Ogg file.
type Metadata struct {
	Serial     uint32
	Channels   int
	SampleRate int
	// Samples is the granule position of the stream's last page that records
	// one. It is never negative.
	Samples        int64
	BitrateNominal int
}

// ReadMetadata reads the identification header of the first Vorbis stream
// in r and the granule position of that stream's last page.
func ReadMetadata(r io.ReaderAt, size int64, name string) (*Metadata, error) {
	sr := binary.NewSafeReader(r, size, name)

	if size < pageHeaderSize {
		return nil, ErrNotOgg
	}

	// Beginning-of-stream pages for every logical stream come first, each
	// holding only its identification packet.
	offset := int64(0)
	var codecs []string
	for i := 0; i < maxStreams && offset < size; i++ {
		page, next, err := readPage(sr, offset)
		if err != nil {
			if i == 0 {
				if errors.Is(err, ErrNotOgg) {
					return nil, err
				}
				return nil, fmt.Errorf("%w: %v", ErrNotOgg, err)
			}
			break
		}
		if !page.BOS() {
			break
		}
		offset = next

		packets := page.packets()
		if len(packets) == 0 || page.HeaderType&flagContinued != 0 {
			continue
		}
		codec := detectCodec(packets[0])
		codecs = append(codecs, codec)
		if codec != codecVorbis {
			continue
		}

		meta, err := parseIdentification(packets[0])
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		meta.Serial = page.SerialNumber

		samples, err := lastGranulePosition(sr, page.SerialNumber)
		if err != nil {
			return nil, err
		}
		meta.Samples = samples
		return meta, nil
	}

	return nil, fmt.Errorf("%w (found codecs %v)", ErrNoVorbis, codecs)
}

// detectCodec identifies a stream from its first packet.
func detectCodec(firstPacket []byte) string {
	if len(firstPacket) >= 8 && string(firstPacket[0:8]) == "OpusHead" {
		return codecOpus
	}
	if len(firstPacket) >= 7 && firstPacket[0] == 0x01 && string(firstPacket[1:7]) == codecVorbis {
		return codecVorbis
	}
	return "unknown"
}

// parseIdentification parses the Vorbis identification header (packet type
// 0x01): version, channels, sample rate and bitrates.
func parseIdentification(data []byte) (*Metadata, error) {
	if len(data) < 30 {
		return nil, fmt.Errorf("identification header too short: %d bytes", len(data))
	}
	if version := encbinary.LittleEndian.Uint32(data[7:11]); version != 0 {
		return nil, fmt.Errorf("unsupported Vorbis version: %d", version)
	}

	meta := &Metadata{
		Channels:       int(data[11]),
		SampleRate:     int(encbinary.LittleEndian.Uint32(data[12:16])),
		BitrateNominal: int(int32(encbinary.LittleEndian.Uint32(data[20:24]))),
	}
	if meta.Channels == 0 {
		return nil, fmt.Errorf("identification header declares zero channels")
	}
	if meta.SampleRate == 0 {
		return nil, fmt.Errorf("identification header declares zero sample rate")
	}
	return meta, nil
}
