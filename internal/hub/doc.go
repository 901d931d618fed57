// Package hub implements the gateway's in-memory distribution point: it
// matches published envelopes to live subscriber sessions by channel, with
// optional CEL filter expressions per subscriber. No envelope is persisted or
// replayed.
package hub
