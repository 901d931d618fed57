package httpserver

import (
	"net/http"
	"strings"

	"github.com/beaconstream/beacon/internal/stream"
	"github.com/beaconstream/beacon/internal/synth"
)

// authorizeStream checks the bearer credential on stream endpoints. It
// returns 0 when the request may proceed: auth is opt-in, so with no
// configured secret every request is allowed. A missing credential is 401, a
// mismatched one 403.
func (s *Server) authorizeStream(r *http.Request) int {
	if s.cfg.StreamToken == "" {
		return 0
	}
	h := r.Header.Get("Authorization")
	if h == "" {
		return http.StatusUnauthorized
	}
	token, ok := strings.CutPrefix(h, "Bearer ")
	if !ok || token != s.cfg.StreamToken {
		return http.StatusForbidden
	}
	return 0
}

// startSession sets the SSE response headers and runs a session over src
// until the consumer disconnects. No frame is written before authorization
// has passed in the caller.
func (s *Server) startSession(w http.ResponseWriter, r *http.Request, src stream.Source) {
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)

	flush := func() {}
	if f, ok := w.(http.Flusher); ok {
		f.Flush()
		flush = f.Flush
	}

	sess := stream.NewSession(src, stream.Options{
		LastEventID: r.Header.Get("Last-Event-ID"),
		Heartbeat:   s.cfg.HeartbeatInterval(),
		RetryHintMs: s.cfg.RetryHintMs,
		Logger:      s.logger,
	})
	_ = sess.Run(r.Context(), w, flush)
}

// handleLogStream streams synthesized pipeline logs to one consumer.
func (s *Server) handleLogStream(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if status := s.authorizeStream(r); status != 0 {
		w.WriteHeader(status)
		return
	}
	s.startSession(w, r, synth.NewSource(s.gen, s.cfg.EventInterval()))
}

// handleSubscribe streams published envelopes for one channel to one
// consumer.
func (s *Server) handleSubscribe(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if status := s.authorizeStream(r); status != 0 {
		w.WriteHeader(status)
		return
	}
	channel := r.URL.Query().Get("channel")
	if channel == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "channel query parameter is required"})
		return
	}
	sub, err := s.hub.Subscribe(channel, r.URL.Query().Get("filter"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	defer sub.Close()
	s.startSession(w, r, sub)
}
