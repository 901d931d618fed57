package httpserver

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/beaconstream/beacon/internal/hub"
	"github.com/beaconstream/beacon/internal/metrics"
	logpkg "github.com/beaconstream/beacon/pkg/log"
)

// handlePublish accepts one envelope from a producer and fans it out to the
// subscribers currently matching its channel.
func (s *Server) handlePublish(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if s.cfg.ServiceToken != "" {
		token := r.Header.Get("X-Service-Token")
		if token == "" {
			metrics.PublishesAccepted.WithLabelValues("rejected").Inc()
			writeJSON(w, http.StatusUnauthorized, map[string]interface{}{"success": false, "error": "missing service token"})
			return
		}
		if token != s.cfg.ServiceToken {
			metrics.PublishesAccepted.WithLabelValues("rejected").Inc()
			writeJSON(w, http.StatusForbidden, map[string]interface{}{"success": false, "error": "invalid service token"})
			return
		}
	}
	if s.limiter != nil && !s.limiter.Allow() {
		metrics.PublishesAccepted.WithLabelValues("throttled").Inc()
		writeJSON(w, http.StatusTooManyRequests, map[string]interface{}{"success": false, "error": "rate limit exceeded"})
		return
	}

	var env hub.Envelope
	if err := json.NewDecoder(r.Body).Decode(&env); err != nil {
		metrics.PublishesAccepted.WithLabelValues("invalid").Inc()
		writeJSON(w, http.StatusBadRequest, map[string]interface{}{"success": false, "error": "malformed envelope"})
		return
	}
	if err := env.Validate(); err != nil {
		metrics.PublishesAccepted.WithLabelValues("invalid").Inc()
		writeJSON(w, http.StatusBadRequest, map[string]interface{}{"success": false, "error": err.Error()})
		return
	}
	if env.Timestamp == 0 {
		env.Timestamp = time.Now().UnixMilli()
	}

	delivered := s.hub.Publish(env)
	metrics.PublishesAccepted.WithLabelValues("ok").Inc()
	s.logger.Debug("publish accepted",
		logpkg.Str("channel", env.Channel),
		logpkg.Str("service", env.Service),
		logpkg.Int("delivered", delivered),
	)
	writeJSON(w, http.StatusOK, map[string]interface{}{"success": true, "delivered": delivered})
}
