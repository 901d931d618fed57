package stream

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
)

// EventError marks a frame carrying an in-band failure notification. An empty
// Event field is the default message event.
const EventError = "error"

// Frame is one unit of the server-to-consumer wire format: either a comment
// (heartbeat) or an event with an optional id, retry hint and discriminator.
type Frame struct {
	ID      uint64
	HasID   bool
	RetryMs int
	Event   string
	Data    json.RawMessage
	Comment string
}

// IsHeartbeat reports whether the frame is a comment-only keep-alive.
func (f Frame) IsHeartbeat() bool { return len(f.Data) == 0 && f.Comment != "" }

// Encode writes the frame in SSE wire format: optional "id:", "retry:" and
// "event:" lines, one "data:" line, terminated by a blank line. Comment-only
// frames encode as ": <comment>".
func (f Frame) Encode(w io.Writer) error {
	if f.IsHeartbeat() {
		_, err := fmt.Fprintf(w, ": %s\n\n", f.Comment)
		return err
	}
	if f.HasID {
		if _, err := fmt.Fprintf(w, "id: %d\n", f.ID); err != nil {
			return err
		}
	}
	if f.RetryMs > 0 {
		if _, err := fmt.Fprintf(w, "retry: %d\n", f.RetryMs); err != nil {
			return err
		}
	}
	if f.Event != "" {
		if _, err := fmt.Fprintf(w, "event: %s\n", f.Event); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintf(w, "data: %s\n\n", f.Data); err != nil {
		return err
	}
	return nil
}

// ParseCursor interprets a Last-Event-ID header value as a resumption cursor.
// Anything that is not a non-negative integer is treated as absent.
func ParseCursor(header string) (uint64, bool) {
	if header == "" {
		return 0, false
	}
	n, err := strconv.ParseUint(header, 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}
