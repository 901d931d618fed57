// Package httpserver provides the Beacon gateway's HTTP surface: resumable
// SSE stream endpoints (synthesized logs and hub subscriptions), the envelope
// publish endpoint consumed by producer SDKs, and health/metrics routes.
//
// Example:
//
//	cfg := config.Default()
//	s := httpserver.New(cfg, logger)
//	ctx, cancel := context.WithCancel(context.Background())
//	defer cancel()
//	_ = s.ListenAndServe(ctx, cfg.HTTPAddr)
package httpserver
