// Package client provides the `beacon client` command group.
//
// The commands talk to a Beacon gateway over HTTP to follow event streams
// and publish events from a terminal. They are primarily intended for
// developers and operators.
//
// # Address configuration
//
// The gateway base URL is discovered by the application that embeds the
// commands via a BaseURLFunc. When using the standalone binary, it reads
// BEACON_GATEWAY_URL and defaults to http://localhost:8000.
//
// Usage
//
//	# Follow the synthetic log stream
//	beacon client tail
//
//	# Resume after event 41 with a bearer token
//	beacon client tail --token secret --last-event-id 41
//
//	# Subscribe to a channel with a server-side filter
//	beacon client tail --channel logs:ws1 --filter 'data.level == "ERROR"'
//
//	# Publish an event
//	beacon client publish \
//	    --channel logs:ws1:wf2 \
//	    --data '{"message":"deploy finished","level":"INFO"}' \
//	    --token svc-secret --service deploy-bot
//
//	beacon client health
//
// Notes
//
//   - tail prints one JSON line per event: {"id": N, "data": ...}, with an
//     "event" key on error frames. Heartbeat comments are skipped.
//   - publish exits non-zero when the gateway rejects the event or all
//     delivery attempts fail; the decoded result is printed either way.
package client
