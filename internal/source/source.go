// Package source normalizes photo input given either as a buffer or as a stream
package source

import (
	"io"
)

const (
	KindBytes  = "bytes"
	KindStream = "stream"
)

// Source holds exactly one of the two input shapes
type Source struct {
	buf    []byte
	stream io.Reader
}

func FromBytes(b []byte) Source {
	return Source{buf: b}
}

func FromReader(r io.Reader) Source {
	return Source{stream: r}
}

func (s Source) Kind() string {
	if s.stream != nil {
		return KindStream
	}
	return KindBytes
}

// Bytes returns one contiguous buffer. A stream is drained completely: metadata probing
// and the two independent resize paths both need random access to the same bytes.
func (s Source) Bytes() ([]byte, error) {
	if s.stream == nil {
		return s.buf, nil
	}
	return io.ReadAll(s.stream)
}
