// Package ogg reads the container metadata of Ogg Vorbis streams: channel
// count, sample rate and total sample count.
package ogg

import (
	"bytes"
	encbinary "encoding/binary"
	"fmt"

	"github.com/simonhull/beatmap/internal/binary"
)

const (
	flagContinued = 0x01
	flagBOS       = 0x02

	pageHeaderSize = 27
	// maxPageSize bounds one page: header, 255 lacing values, 255*255 bytes.
	maxPageSize = pageHeaderSize + 255 + 255*255
)

var capturePattern = []byte("OggS")

// Page represents an Ogg page.
type Page struct {
	HeaderType      byte   // Bit flags: 0x01=continued, 0x02=BOS, 0x04=EOS
	GranulePosition int64  // Position in samples
	SerialNumber    uint32 // Logical bitstream identifier
	SequenceNumber  uint32 // Page sequence number
	Segments        []byte // Lacing values
	Data            []byte // Page payload (one or more packets)
}

// BOS reports whether this page begins a logical stream.
func (p *Page) BOS() bool { return p.HeaderType&flagBOS != 0 }

// readPage reads the Ogg page at offset and returns it with the offset of
// the following page.
func readPage(sr *binary.SafeReader, offset int64) (*Page, int64, error) {
	header := make([]byte, pageHeaderSize)
	if err := sr.ReadAt(header, offset, "Ogg page header"); err != nil {
		return nil, 0, err
	}
	if !bytes.Equal(header[:4], capturePattern) {
		return nil, 0, fmt.Errorf("%w: no capture pattern at offset %d", ErrNotOgg, offset)
	}
	if header[4] != 0 {
		return nil, 0, fmt.Errorf("unsupported Ogg version %d at offset %d", header[4], offset)
	}

	granule, err := binary.ReadLE[uint64](sr, offset+6, "granule position")
	if err != nil {
		return nil, 0, err
	}
	serial, err := binary.ReadLE[uint32](sr, offset+14, "serial number")
	if err != nil {
		return nil, 0, err
	}
	sequence, err := binary.ReadLE[uint32](sr, offset+18, "sequence number")
	if err != nil {
		return nil, 0, err
	}

	segments := make([]byte, header[26])
	if err := sr.ReadAt(segments, offset+pageHeaderSize, "segment table"); err != nil {
		return nil, 0, err
	}
	dataSize := 0
	for _, seg := range segments {
		dataSize += int(seg)
	}

	dataOffset := offset + pageHeaderSize + int64(len(segments))
	data := make([]byte, dataSize)
	if dataSize > 0 {
		if err := sr.ReadAt(data, dataOffset, "page data"); err != nil {
			return nil, 0, err
		}
	}

	page := &Page{
		HeaderType:      header[5],
		GranulePosition: int64(granule),
		SerialNumber:    serial,
		SequenceNumber:  sequence,
		Segments:        segments,
		Data:            data,
	}
	return page, dataOffset + int64(dataSize), nil
}

// packets splits a page's payload at lacing values below 255. The last
// element is incomplete when the final lacing value is 255.
func (p *Page) packets() [][]byte {
	var packets [][]byte
	start, pos := 0, 0
	for _, seg := range p.Segments {
		pos += int(seg)
		if seg < 255 {
			packets = append(packets, p.Data[start:pos])
			start = pos
		}
	}
	if start < len(p.Data) {
		packets = append(packets, p.Data[start:])
	}
	return packets
}

// lastGranulePosition searches backwards from the end of the stream for the
// last page of the logical stream serial that carries a granule position.
// Each pass scans a region twice the size of the previous one, ending where
// the previous region began, so every byte is read about once. Negative
// granules other than the unset marker are treated as unset.
func lastGranulePosition(sr *binary.SafeReader, serial uint32) (int64, error) {
	size := sr.Size()
	window := int64(maxPageSize)

	// Capture patterns starting at or after end have been checked.
	for end := size; end > 0; window *= 2 {
		start := max(end-window, 0)
		// Extend past end so a header that starts before end is complete.
		stop := min(end+pageHeaderSize-1, size)
		buf := make([]byte, stop-start)
		if err := sr.ReadAt(buf, start, "search region"); err != nil {
			return 0, err
		}

		limit := int(end - start)
		for i := bytes.LastIndex(buf, capturePattern); i >= 0; i = bytes.LastIndex(buf[:i], capturePattern) {
			if i >= limit || i+pageHeaderSize > len(buf) {
				continue
			}
			h := buf[i : i+pageHeaderSize]
			if h[4] != 0 {
				continue
			}
			granule := int64(encbinary.LittleEndian.Uint64(h[6:14]))
			if encbinary.LittleEndian.Uint32(h[14:18]) != serial || granule < 0 {
				continue
			}
			return granule, nil
		}
		end = start
	}
	return 0, ErrNoGranule
}
