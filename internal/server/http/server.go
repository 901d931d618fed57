package httpserver

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"

	"github.com/beaconstream/beacon/internal/config"
	"github.com/beaconstream/beacon/internal/hub"
	"github.com/beaconstream/beacon/internal/synth"
	logpkg "github.com/beaconstream/beacon/pkg/log"
)

// Server is the gateway HTTP surface: the SSE stream endpoints, the publish
// endpoint consumed by producer SDKs, health, and metrics.
type Server struct {
	cfg     config.Config
	hub     *hub.Hub
	gen     *synth.Generator
	limiter *rate.Limiter
	logger  logpkg.Logger
	srv     *http.Server
	lis     net.Listener
}

// New wires the gateway routes.
func New(cfg config.Config, logger logpkg.Logger) *Server {
	if logger == nil {
		logger = logpkg.NewLogger(logpkg.WithLevel(logpkg.ErrorLevel))
	}
	mux := http.NewServeMux()
	s := &Server{
		cfg:    cfg,
		hub:    hub.New(cfg.SubscriberBuffer, logger),
		gen:    synth.NewGenerator(),
		logger: logger.WithComponent("http"),
		srv:    &http.Server{Handler: cors(mux)},
	}
	if cfg.PublishRatePerSec > 0 {
		burst := cfg.PublishBurst
		if burst < 1 {
			burst = 1
		}
		s.limiter = rate.NewLimiter(rate.Limit(cfg.PublishRatePerSec), burst)
	}
	mux.HandleFunc("/", s.handleRoot)
	mux.HandleFunc("/health", s.handleHealth)
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/logs/stream", s.handleLogStream)
	mux.HandleFunc("/api/sse/subscribe", s.handleSubscribe)
	mux.HandleFunc("/api/sse/publish", s.handlePublish)
	return s
}

// Hub exposes the server's distribution point.
func (s *Server) Hub() *hub.Hub { return s.hub }

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	l, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	s.lis = l
	s.logger.Info("http server listening", logpkg.Str("addr", l.Addr().String()))
	errCh := make(chan error, 1)
	go func() { errCh <- s.srv.Serve(l) }()
	select {
	case <-ctx.Done():
		cctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.srv.Shutdown(cctx)
		return nil
	case err := <-errCh:
		return err
	}
}

// Close releases the listener.
func (s *Server) Close() {
	if s.lis != nil {
		_ = s.lis.Close()
	}
}

func cors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, Cache-Control, Last-Event-ID, X-Service-Token")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Beacon gateway is running",
		"service": s.cfg.ServiceName,
		"endpoints": map[string]string{
			"health":      "/health",
			"logs_stream": "/logs/stream",
			"subscribe":   "/api/sse/subscribe",
			"publish":     "/api/sse/publish",
			"metrics":     "/metrics",
		},
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"service":   s.cfg.ServiceName,
	})
}
