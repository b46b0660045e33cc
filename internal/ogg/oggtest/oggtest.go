// Package oggtest builds minimal Ogg streams for tests.
package oggtest

import (
	"bytes"
	"encoding/binary"
)

// Stream accumulates Ogg pages.
type Stream struct {
	buf bytes.Buffer
}

// Page appends one page. The CRC field is left zero.
func (s *Stream) Page(headerType byte, granule int64, serial, sequence uint32, data []byte) *Stream {
	buf := &s.buf
	buf.WriteString("OggS")
	buf.WriteByte(0x00)
	buf.WriteByte(headerType)
	binary.Write(buf, binary.LittleEndian, uint64(granule))
	binary.Write(buf, binary.LittleEndian, serial)
	binary.Write(buf, binary.LittleEndian, sequence)
	binary.Write(buf, binary.LittleEndian, uint32(0))

	var segments []byte
	remaining := len(data)
	for remaining >= 255 {
		segments = append(segments, 255)
		remaining -= 255
	}
	segments = append(segments, byte(remaining))

	buf.WriteByte(byte(len(segments)))
	buf.Write(segments)
	buf.Write(data)
	return s
}

// Bytes returns the stream so far.
func (s *Stream) Bytes() []byte {
	return append([]byte(nil), s.buf.Bytes()...)
}

// VorbisIdentification returns a Vorbis identification header packet.
func VorbisIdentification(channels byte, sampleRate uint32) []byte {
	h := &bytes.Buffer{}
	h.WriteByte(0x01)
	h.WriteString("vorbis")
	binary.Write(h, binary.LittleEndian, uint32(0))      // version
	h.WriteByte(channels)                                // channels
	binary.Write(h, binary.LittleEndian, sampleRate)     // sample rate
	binary.Write(h, binary.LittleEndian, uint32(0))      // bitrate maximum
	binary.Write(h, binary.LittleEndian, uint32(128000)) // bitrate nominal
	binary.Write(h, binary.LittleEndian, uint32(0))      // bitrate minimum
	h.WriteByte(0xB8)                                    // blocksizes
	h.WriteByte(0x01)                                    // framing
	return h.Bytes()
}

// OpusHead returns an Opus identification header packet.
func OpusHead(channels byte) []byte {
	h := &bytes.Buffer{}
	h.WriteString("OpusHead")
	h.WriteByte(1)
	h.WriteByte(channels)
	binary.Write(h, binary.LittleEndian, uint16(312))
	binary.Write(h, binary.LittleEndian, uint32(48000))
	binary.Write(h, binary.LittleEndian, int16(0))
	h.WriteByte(0)
	return h.Bytes()
}

// Vorbis returns a single-stream Ogg Vorbis file whose last page records
// samples as its granule position.
func Vorbis(channels byte, sampleRate uint32, samples int64) []byte {
	const serial = 12345
	s := &Stream{}
	s.Page(0x02, 0, serial, 0, VorbisIdentification(channels, sampleRate))
	s.Page(0x00, 0, serial, 1, []byte("\x03vorbis\x00\x00\x00\x00\x00\x00\x00\x00\x01"))
	s.Page(0x00, 0, serial, 2, []byte("\x05vorbis\x01"))
	s.Page(0x00, samples/2, serial, 3, make([]byte, 200))
	s.Page(0x04, samples, serial, 4, make([]byte, 100))
	return s.Bytes()
}

// Opus returns a single-stream Ogg Opus file.
func Opus(samples int64) []byte {
	const serial = 54321
	s := &Stream{}
	s.Page(0x02, 0, serial, 0, OpusHead(2))
	s.Page(0x00, 0, serial, 1, []byte("OpusTags\x00\x00\x00\x00\x00\x00\x00\x00"))
	s.Page(0x04, samples, serial, 2, make([]byte, 100))
	return s.Bytes()
}
