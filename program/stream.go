package program

import (
	"errors"
	"fmt"
	"os"
)

// ErrRead is returned when a source file cannot be read.
var ErrRead = errors.New("can't open file")

// Stream is a sanitized instruction stream. It only holds symbols of the
// default ISA.
type Stream []byte

// Sanitize drops every byte that is not an instruction symbol, keeping the
// relative order of the rest. Line breaks are dropped too, so runs of
// identical instructions are never split by formatting.
func Sanitize(src []byte) Stream {
	out := make(Stream, 0, len(src))
	for _, b := range src {
		if DefaultISA.Contains(b) {
			out = append(out, b)
		}
	}

	return out
}

// String returns the stream as text.
func (s Stream) String() string {
	return string(s)
}

// LoadFile reads a source file and sanitizes it.
func LoadFile(path string) (Stream, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRead, err)
	}

	return Sanitize(data), nil
}
