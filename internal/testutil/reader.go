package testutil

import "io"

// OneByteReader delivers its contents one byte per Read call.
//
// The input stager buffers lines internally; feeding it through a reader
// that dribbles bytes exercises the refill path the way a slow pipe or an
// interactive terminal would.
type OneByteReader struct {
	data []byte
	pos  int
}

// NewOneByteReader creates a reader over data.
func NewOneByteReader(data string) *OneByteReader {
	return &OneByteReader{data: []byte(data)}
}

// Read copies at most one byte into p.
func (r *OneByteReader) Read(p []byte) (int, error) {
	if r.pos >= len(r.data) {
		return 0, io.EOF
	}
	if len(p) == 0 {
		return 0, nil
	}
	p[0] = r.data[r.pos]
	r.pos++
	return 1, nil
}
