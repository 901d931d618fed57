package stream

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"testing"
	"time"
)

// stubSource replays a fixed script, then blocks until ctx is done.
type stubSource struct {
	script []sourceResult
	idx    int
}

func (s *stubSource) Next(ctx context.Context) (json.RawMessage, error) {
	if s.idx < len(s.script) {
		r := s.script[s.idx]
		s.idx++
		return r.data, r.err
	}
	<-ctx.Done()
	return nil, ctx.Err()
}

func payload(n int) json.RawMessage {
	return json.RawMessage(fmt.Sprintf(`{"n":%d}`, n))
}

// runSession runs a session over an io.Pipe and returns a scanner over the
// consumer side plus a cancel for the connection.
func runSession(t *testing.T, src Source, opts Options) (*Scanner, context.CancelFunc) {
	t.Helper()
	if opts.Heartbeat == 0 {
		opts.Heartbeat = time.Hour
	}
	ctx, cancel := context.WithCancel(context.Background())
	pr, pw := io.Pipe()
	sess := NewSession(src, opts)
	go func() {
		_ = sess.Run(ctx, pw, nil)
		_ = pw.Close()
	}()
	t.Cleanup(cancel)
	return NewScanner(pr), cancel
}

func TestSessionIDsStartAtOne(t *testing.T) {
	src := &stubSource{script: []sourceResult{{data: payload(1)}, {data: payload(2)}}}
	sc, _ := runSession(t, src, Options{RetryHintMs: 5000})
	for want := uint64(1); want <= 2; want++ {
		fr, err := sc.Next()
		if err != nil {
			t.Fatalf("next: %v", err)
		}
		if !fr.HasID || fr.ID != want {
			t.Fatalf("frame id: got %+v, want %d", fr, want)
		}
		if fr.RetryMs != 5000 {
			t.Fatalf("retry hint: %d", fr.RetryMs)
		}
	}
}

func TestSessionResumesFromCursor(t *testing.T) {
	src := &stubSource{script: []sourceResult{{data: payload(1)}}}
	sc, _ := runSession(t, src, Options{LastEventID: "41"})
	fr, err := sc.Next()
	if err != nil {
		t.Fatalf("next: %v", err)
	}
	if fr.ID != 42 {
		t.Fatalf("resumed id: %d, want 42", fr.ID)
	}
}

func TestSessionInvalidCursorTreatedAsAbsent(t *testing.T) {
	for _, cursor := range []string{"-1", "garbage", "9.9"} {
		src := &stubSource{script: []sourceResult{{data: payload(1)}}}
		sc, cancel := runSession(t, src, Options{LastEventID: cursor})
		fr, err := sc.Next()
		if err != nil {
			t.Fatalf("cursor %q: %v", cursor, err)
		}
		if fr.ID != 1 {
			t.Fatalf("cursor %q: first id %d, want 1", cursor, fr.ID)
		}
		cancel()
	}
}

func TestSessionErrorFrameDoesNotConsumeID(t *testing.T) {
	src := &stubSource{script: []sourceResult{
		{data: payload(1)},
		{err: errors.New("synthesis failed")},
		{data: payload(2)},
	}}
	sc, _ := runSession(t, src, Options{})

	fr, _ := sc.Next()
	if fr.ID != 1 {
		t.Fatalf("first id: %d", fr.ID)
	}

	fr, err := sc.Next()
	if err != nil {
		t.Fatalf("next: %v", err)
	}
	if fr.Event != EventError || fr.HasID {
		t.Fatalf("expected id-less error frame, got %+v", fr)
	}
	var body map[string]interface{}
	if err := json.Unmarshal(fr.Data, &body); err != nil {
		t.Fatalf("error payload: %v", err)
	}
	if body["message"] != "System error: synthesis failed" {
		t.Fatalf("error message: %v", body["message"])
	}

	fr, _ = sc.Next()
	if fr.ID != 2 {
		t.Fatalf("id after error frame: %d, want 2", fr.ID)
	}
}

func TestSessionEmitsHeartbeatWhenIdle(t *testing.T) {
	src := &stubSource{script: []sourceResult{{data: payload(1)}}}
	sc, _ := runSession(t, src, Options{Heartbeat: 30 * time.Millisecond})

	fr, _ := sc.Next()
	if !fr.HasID {
		t.Fatalf("expected data frame first, got %+v", fr)
	}
	// Source is now idle; the next two units must be heartbeats.
	for i := 0; i < 2; i++ {
		fr, err := sc.Next()
		if err != nil {
			t.Fatalf("next: %v", err)
		}
		if !fr.IsHeartbeat() {
			t.Fatalf("expected heartbeat, got %+v", fr)
		}
	}
}

func TestSessionStopsOnDisconnect(t *testing.T) {
	src := &stubSource{}
	ctx, cancel := context.WithCancel(context.Background())
	sess := NewSession(src, Options{Heartbeat: time.Hour})
	done := make(chan error, 1)
	go func() { done <- sess.Run(ctx, io.Discard, nil) }()
	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("disconnect should end the session cleanly: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("session did not stop after cancellation")
	}
}

// failWriter fails every write, standing in for a closed connection.
type failWriter struct{}

func (failWriter) Write([]byte) (int, error) { return 0, errors.New("broken pipe") }

func TestSessionStopsOnWriteFailure(t *testing.T) {
	src := &stubSource{script: []sourceResult{{data: payload(1)}}}
	sess := NewSession(src, Options{Heartbeat: time.Hour})
	done := make(chan error, 1)
	go func() { done <- sess.Run(context.Background(), failWriter{}, nil) }()
	select {
	case err := <-done:
		if err == nil {
			t.Fatalf("expected write error")
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("session did not stop after write failure")
	}
}
