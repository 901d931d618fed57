package hub

import (
	"encoding/json"
	"errors"
)

// Envelope is the channel-addressed, timestamped wrapper around one event
// payload submitted by a producer. It is immutable once constructed.
type Envelope struct {
	Channel   string                 `json:"channel"`
	Data      json.RawMessage        `json:"data"`
	Filters   map[string]interface{} `json:"filters,omitempty"`
	Timestamp int64                  `json:"timestamp"`
	Service   string                 `json:"service"`
}

// ErrEmptyChannel rejects envelopes without a routing key.
var ErrEmptyChannel = errors.New("envelope channel must not be empty")

// Validate checks the envelope for the one structural requirement the
// gateway enforces: a non-empty channel. The channel hierarchy itself is
// advisory and opaque to the core.
func (e Envelope) Validate() error {
	if e.Channel == "" {
		return ErrEmptyChannel
	}
	return nil
}
