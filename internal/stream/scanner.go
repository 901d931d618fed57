package stream

import (
	"bufio"
	"io"
	"strconv"
	"strings"
)

// Scanner reads frames back out of an SSE byte stream. It is the consumer
// side of Frame.Encode and is used by the tail CLI and tests.
type Scanner struct {
	r *bufio.Reader
}

// NewScanner creates a Scanner over r.
func NewScanner(r io.Reader) *Scanner {
	return &Scanner{r: bufio.NewReader(r)}
}

// Next returns the next complete frame, including heartbeats. It returns
// io.EOF when the stream ends cleanly.
func (s *Scanner) Next() (Frame, error) {
	var fr Frame
	seen := false
	for {
		line, err := s.r.ReadString('\n')
		if err != nil {
			if err == io.EOF && seen {
				return fr, nil
			}
			return Frame{}, err
		}
		line = strings.TrimRight(line, "\r\n")
		if line == "" {
			if !seen {
				continue
			}
			return fr, nil
		}
		seen = true
		switch {
		case strings.HasPrefix(line, ":"):
			fr.Comment = strings.TrimSpace(line[1:])
		case strings.HasPrefix(line, "id:"):
			if n, err := strconv.ParseUint(strings.TrimSpace(line[3:]), 10, 64); err == nil {
				fr.ID = n
				fr.HasID = true
			}
		case strings.HasPrefix(line, "retry:"):
			if n, err := strconv.Atoi(strings.TrimSpace(line[6:])); err == nil {
				fr.RetryMs = n
			}
		case strings.HasPrefix(line, "event:"):
			fr.Event = strings.TrimSpace(line[6:])
		case strings.HasPrefix(line, "data:"):
			fr.Data = []byte(strings.TrimSpace(line[5:]))
		}
	}
}
