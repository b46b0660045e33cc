// Package binary provides bounds-checked little-endian reads over an
// io.ReaderAt.
package binary

import (
	"encoding/binary"
	"fmt"
	"io"
)

// OutOfBoundsError is returned when a read would run past the end of the
// stream.
type OutOfBoundsError struct {
	Name   string
	What   string
	Offset int64
	Length int
	Size   int64
}

func (e *OutOfBoundsError) Error() string {
	if e.Offset < 0 || e.Offset >= e.Size {
		return fmt.Sprintf("%s: offset %d out of bounds (size %d) while reading %s",
			e.Name, e.Offset, e.Size, e.What)
	}
	return fmt.Sprintf("%s: read of %d bytes at offset %d would exceed size %d while reading %s",
		e.Name, e.Length, e.Offset, e.Size, e.What)
}

// SafeReader wraps io.ReaderAt with bounds checking and descriptive errors.
type SafeReader struct {
	r    io.ReaderAt
	name string
	size int64
}

// NewSafeReader creates a SafeReader over size bytes of r.
func NewSafeReader(r io.ReaderAt, size int64, name string) *SafeReader {
	return &SafeReader{r: r, size: size, name: name}
}

// Size returns the readable length.
func (sr *SafeReader) Size() int64 { return sr.size }

// ReadAt fills b from offset off. what describes the field for errors.
func (sr *SafeReader) ReadAt(b []byte, off int64, what string) error {
	if off < 0 || off >= sr.size || off+int64(len(b)) > sr.size {
		return &OutOfBoundsError{Name: sr.name, What: what, Offset: off, Length: len(b), Size: sr.size}
	}

	n, err := sr.r.ReadAt(b, off)
	if err != nil && err != io.EOF {
		return fmt.Errorf("%s: read %s at offset %d: %w", sr.name, what, off, err)
	}
	if n < len(b) {
		return fmt.Errorf("%s: short read for %s at offset %d: got %d bytes, expected %d",
			sr.name, what, off, n, len(b))
	}
	return nil
}

// ReadLE reads a little-endian value of type T at off.
func ReadLE[T uint8 | uint16 | uint32 | uint64](sr *SafeReader, off int64, what string) (T, error) {
	var zero T
	buf := make([]byte, binary.Size(zero))
	if err := sr.ReadAt(buf, off, what); err != nil {
		return zero, err
	}

	switch any(zero).(type) {
	case uint8:
		return T(buf[0]), nil
	case uint16:
		return T(binary.LittleEndian.Uint16(buf)), nil
	case uint32:
		return T(binary.LittleEndian.Uint32(buf)), nil
	default:
		return T(binary.LittleEndian.Uint64(buf)), nil
	}
}
