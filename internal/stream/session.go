package stream

import (
	"context"
	"encoding/json"
	"io"
	"time"

	"github.com/google/uuid"

	"github.com/beaconstream/beacon/internal/metrics"
	logpkg "github.com/beaconstream/beacon/pkg/log"
)

// Source supplies the serialized event payloads a session streams. Next
// blocks until an event is available, the source fails, or ctx is done.
type Source interface {
	Next(ctx context.Context) (json.RawMessage, error)
}

// Options configures a Session.
type Options struct {
	// LastEventID is the raw resumption cursor from the request, if any.
	LastEventID string
	// Heartbeat is the idle interval after which a comment frame is sent.
	Heartbeat time.Duration
	// RetryHintMs is the reconnection delay advice attached to data frames.
	RetryHintMs int
	Logger      logpkg.Logger
}

// Session owns one consumer connection: it pulls payloads from a Source,
// frames them with a strictly increasing id, pads idle stretches with
// heartbeats and converts per-iteration source failures into in-band error
// frames. A session holds no state beyond the connection's lifetime.
type Session struct {
	id        string
	src       Source
	logger    logpkg.Logger
	heartbeat time.Duration
	retryHint int
	nextID    uint64
}

// NewSession creates a session for one connection. The first emitted frame id
// is cursor+1 when a valid resumption cursor is supplied, otherwise 1.
func NewSession(src Source, opts Options) *Session {
	next := uint64(1)
	if c, ok := ParseCursor(opts.LastEventID); ok {
		next = c + 1
	}
	logger := opts.Logger
	if logger == nil {
		logger = logpkg.NewLogger(logpkg.WithLevel(logpkg.ErrorLevel))
	}
	sid := uuid.NewString()
	return &Session{
		id:        sid,
		src:       src,
		logger:    logger.WithComponent("session").With(logpkg.Str("session_id", sid)),
		heartbeat: opts.Heartbeat,
		retryHint: opts.RetryHintMs,
		nextID:    next,
	}
}

// ID returns the session's identifier used in logs.
func (s *Session) ID() string { return s.id }

type sourceResult struct {
	data json.RawMessage
	err  error
}

// Run streams frames to w until ctx is done or a write fails. flush is called
// after every frame so intermediaries see events immediately; it may be nil.
// A nil return means the consumer went away; a non-nil return is a write
// failure.
func (s *Session) Run(ctx context.Context, w io.Writer, flush func()) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	if flush == nil {
		flush = func() {}
	}

	results := make(chan sourceResult)
	go func() {
		for {
			data, err := s.src.Next(ctx)
			if ctx.Err() != nil {
				return
			}
			select {
			case results <- sourceResult{data: data, err: err}:
			case <-ctx.Done():
				return
			}
		}
	}()

	metrics.ActiveSessions.Inc()
	defer metrics.ActiveSessions.Dec()
	s.logger.Info("session started", logpkg.Uint64("next_id", s.nextID))

	hb := time.NewTimer(s.heartbeat)
	defer hb.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("session closed", logpkg.Uint64("next_id", s.nextID))
			return nil
		case <-hb.C:
			if err := (Frame{Comment: "heartbeat"}).Encode(w); err != nil {
				s.logger.WithError(err).Warn("heartbeat write failed")
				return err
			}
			flush()
			metrics.FramesEmitted.WithLabelValues("heartbeat").Inc()
			hb.Reset(s.heartbeat)
		case res := <-results:
			var fr Frame
			if res.err != nil {
				// Per-iteration failures self-heal: report in-band and keep
				// the loop alive without consuming an id.
				fr = Frame{Event: EventError, Data: errorPayload(res.err)}
				s.logger.WithError(res.err).Warn("source failure reported in-band")
			} else {
				fr = Frame{ID: s.nextID, HasID: true, RetryMs: s.retryHint, Data: res.data}
			}
			if err := fr.Encode(w); err != nil {
				s.logger.WithError(err).Warn("frame write failed")
				return err
			}
			flush()
			if res.err != nil {
				metrics.FramesEmitted.WithLabelValues("error").Inc()
			} else {
				metrics.FramesEmitted.WithLabelValues("data").Inc()
				s.nextID++
			}
			resetTimer(hb, s.heartbeat)
		}
	}
}

// errorPayload builds the synthetic failure body carried by error frames.
func errorPayload(err error) json.RawMessage {
	b, _ := json.Marshal(map[string]interface{}{
		"message":   "System error: " + err.Error(),
		"logLevel":  "ERROR",
		"logType":   "SYSTEM",
		"timestamp": time.Now().UnixMilli(),
	})
	return b
}

func resetTimer(t *time.Timer, d time.Duration) {
	if !t.Stop() {
		select {
		case <-t.C:
		default:
		}
	}
	t.Reset(d)
}
