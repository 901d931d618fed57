// Package publisher is the producer-side SDK for the Beacon gateway. It
// delivers channel-addressed event envelopes over HTTP with bounded retries
// and linear backoff, and offers typed helpers for the common channel
// families (logs, metrics, workflow events, alerts).
//
// Delivery failure is reported, never raised: Publish always returns a
// Result, and HealthCheck always returns a Health. The only error path is
// caller misuse at construction time.
//
// Example:
//
//	pub, err := publisher.New("http://localhost:8000", token, "etl-service")
//	if err != nil {
//	    return err
//	}
//	res := pub.PublishLog(ctx, "ws1", "wf2", map[string]interface{}{
//	    "level":   "ERROR",
//	    "message": "DQF pre-check returned empty status",
//	})
//	if !res.Success {
//	    // escalate or drop; the SDK has already retried
//	}
package publisher
