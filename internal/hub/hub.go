package hub

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/beaconstream/beacon/internal/metrics"
	logpkg "github.com/beaconstream/beacon/pkg/log"
)

// Hub matches published envelopes to live subscribers by channel. It holds no
// history: an envelope is delivered to the subscribers present at publish
// time and discarded.
type Hub struct {
	mu     sync.RWMutex
	subs   map[string]*subscriber
	bufLen int
	logger logpkg.Logger
}

type subscriber struct {
	id      string
	channel string
	filter  celFilter
	ch      chan Envelope
}

// New creates a hub. bufLen is the per-subscriber queue length; a slow
// subscriber drops its oldest queued envelope rather than blocking the
// publisher.
func New(bufLen int, logger logpkg.Logger) *Hub {
	if bufLen <= 0 {
		bufLen = 64
	}
	if logger == nil {
		logger = logpkg.NewLogger(logpkg.WithLevel(logpkg.ErrorLevel))
	}
	return &Hub{
		subs:   map[string]*subscriber{},
		bufLen: bufLen,
		logger: logger.WithComponent("hub"),
	}
}

// Subscription is one consumer's registration. It implements the session
// Source interface: Next yields the serialized envelope.
type Subscription struct {
	id   string
	hub  *Hub
	ch   chan Envelope
	once sync.Once
}

// Subscribe registers a consumer for a channel. Matching is exact or by
// hierarchical prefix: a subscription to "logs:ws1" also receives
// "logs:ws1:wf2". filterExpr is an optional CEL expression; a malformed
// expression is caller misuse and returns an error.
func (h *Hub) Subscribe(channel, filterExpr string) (*Subscription, error) {
	if channel == "" {
		return nil, ErrEmptyChannel
	}
	f, err := newCELFilter(filterExpr)
	if err != nil {
		return nil, fmt.Errorf("invalid filter expression: %w", err)
	}
	sub := &subscriber{
		id:      uuid.NewString(),
		channel: channel,
		filter:  f,
		ch:      make(chan Envelope, h.bufLen),
	}
	h.mu.Lock()
	h.subs[sub.id] = sub
	h.mu.Unlock()
	h.logger.Info("subscriber registered",
		logpkg.Str("subscriber_id", sub.id),
		logpkg.Str("channel", channel),
		logpkg.Bool("filtered", f.enabled),
	)
	return &Subscription{id: sub.id, hub: h, ch: sub.ch}, nil
}

// Close deregisters the subscription. Safe to call more than once.
func (s *Subscription) Close() {
	s.once.Do(func() {
		s.hub.mu.Lock()
		delete(s.hub.subs, s.id)
		s.hub.mu.Unlock()
		s.hub.logger.Info("subscriber deregistered", logpkg.Str("subscriber_id", s.id))
	})
}

// Next blocks until an envelope is queued for this subscription, then returns
// it serialized for the wire. It returns ctx.Err() when the consumer goes
// away.
func (s *Subscription) Next(ctx context.Context) (json.RawMessage, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case env := <-s.ch:
		b, err := json.Marshal(env)
		if err != nil {
			return nil, fmt.Errorf("marshal envelope: %w", err)
		}
		return b, nil
	}
}

// Publish fans env out to every matching subscriber and returns the number of
// deliveries. Publishing to a channel nobody subscribed to delivers zero.
func (h *Hub) Publish(env Envelope) int {
	h.mu.RLock()
	matched := make([]*subscriber, 0, 4)
	for _, sub := range h.subs {
		if !channelMatches(sub.channel, env.Channel) {
			continue
		}
		if !sub.filter.Eval(env) {
			continue
		}
		matched = append(matched, sub)
	}
	h.mu.RUnlock()

	delivered := 0
	for _, sub := range matched {
		select {
		case sub.ch <- env:
			delivered++
		default:
			// Queue full: shed the oldest envelope for this subscriber.
			select {
			case <-sub.ch:
				metrics.SubscriberDrops.Inc()
			default:
			}
			select {
			case sub.ch <- env:
				delivered++
			default:
			}
		}
	}
	if delivered > 0 {
		metrics.EventsDelivered.Add(float64(delivered))
	}
	h.logger.Debug("envelope published",
		logpkg.Str("channel", env.Channel),
		logpkg.Str("service", env.Service),
		logpkg.Int("delivered", delivered),
	)
	return delivered
}

// Subscribers returns the number of live subscriptions.
func (h *Hub) Subscribers() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs)
}

// channelMatches reports whether a subscription to sub should receive an
// envelope addressed to ch: exact match, or ch nested under sub in the
// ":"-separated hierarchy.
func channelMatches(sub, ch string) bool {
	if sub == ch {
		return true
	}
	return strings.HasPrefix(ch, sub+":")
}
