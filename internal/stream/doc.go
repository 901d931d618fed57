// Package stream implements the resumable SSE session protocol: the frame
// wire format, Last-Event-ID resumption cursors, heartbeat keep-alives and
// the per-connection session loop that turns a Source of payloads into a
// correctly framed text stream.
//
// Example:
//
//	sess := stream.NewSession(src, stream.Options{
//	    LastEventID: r.Header.Get("Last-Event-ID"),
//	    Heartbeat:   25 * time.Second,
//	    RetryHintMs: 5000,
//	    Logger:      logger,
//	})
//	_ = sess.Run(r.Context(), w, flusher.Flush)
package stream
