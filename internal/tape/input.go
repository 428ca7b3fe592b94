package tape

import (
	"bufio"
	"errors"
	"fmt"
	"io"
)

// ErrEndOfInput reports that the input stream had no more lines when a
// refill was attempted. The target cell is left unchanged; the driver
// decides the resulting cell value convention.
var ErrEndOfInput = errors.New("tape: end of input")

// InputStager serves one input byte at a time from a line-oriented stream.
//
// Bytes are delivered in stream order, line terminators included; line
// boundaries only affect refill granularity. The stager writes into
// whatever cell it is handed and has no awareness of tape capacity or
// growth - cell residency is the caller's responsibility.
//
// The line buffer is lazily initialized: no read happens before the first
// FetchByte call.
type InputStager struct {
	r    *bufio.Reader
	line []byte
	pos  int
}

// NewInputStager creates a stager reading from r.
func NewInputStager(r io.Reader) *InputStager {
	return &InputStager{r: bufio.NewReader(r)}
}

// FetchByte writes the next input byte into cells[index].
//
// When the line buffer is exhausted, one line (terminator included) is read
// from the stream first. At end of stream FetchByte returns ErrEndOfInput
// and leaves the cell untouched. Any other read failure is returned
// wrapped. A final line without a terminator is still served in full.
func (s *InputStager) FetchByte(cells []byte, index int) error {
	if s.pos == len(s.line) {
		line, err := s.r.ReadBytes('\n')
		if len(line) == 0 {
			if err == nil || errors.Is(err, io.EOF) {
				return ErrEndOfInput
			}
			return fmt.Errorf("tape: reading input line: %w", err)
		}
		// A partial final line arrives together with io.EOF; serve the
		// bytes now, the next refill reports end of input.
		s.line = line
		s.pos = 0
	}

	cells[index] = s.line[s.pos]
	s.pos++
	return nil
}
