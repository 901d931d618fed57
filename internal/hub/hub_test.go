package hub

import (
	"context"
	"encoding/json"
	"testing"
	"time"
)

func testEnvelope(channel string, data string) Envelope {
	return Envelope{
		Channel:   channel,
		Data:      json.RawMessage(data),
		Timestamp: time.Now().UnixMilli(),
		Service:   "test-service",
	}
}

func TestPublishDeliversToExactMatch(t *testing.T) {
	h := New(8, nil)
	sub, err := h.Subscribe("logs:ws1:wf2", "")
	if err != nil {
		t.Fatalf("subscribe: %v", err)
	}
	defer sub.Close()

	if n := h.Publish(testEnvelope("logs:ws1:wf2", `{"m":"hi"}`)); n != 1 {
		t.Fatalf("delivered: %d", n)
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	b, err := sub.Next(ctx)
	if err != nil {
		t.Fatalf("next: %v", err)
	}
	var env Envelope
	if err := json.Unmarshal(b, &env); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if env.Channel != "logs:ws1:wf2" || env.Service != "test-service" {
		t.Fatalf("envelope: %+v", env)
	}
}

func TestPublishDeliversToPrefixSubscriber(t *testing.T) {
	h := New(8, nil)
	sub, _ := h.Subscribe("logs:ws1", "")
	defer sub.Close()

	if n := h.Publish(testEnvelope("logs:ws1:wf2", `{}`)); n != 1 {
		t.Fatalf("prefix match delivered: %d", n)
	}
	// A sibling workspace must not match.
	if n := h.Publish(testEnvelope("logs:ws10:wf2", `{}`)); n != 0 {
		t.Fatalf("sibling channel delivered: %d", n)
	}
	// Neither does a different topic family.
	if n := h.Publish(testEnvelope("metrics:ws1", `{}`)); n != 0 {
		t.Fatalf("unrelated channel delivered: %d", n)
	}
}

func TestPublishWithNoSubscribers(t *testing.T) {
	h := New(8, nil)
	if n := h.Publish(testEnvelope("alerts:u1", `{}`)); n != 0 {
		t.Fatalf("delivered: %d", n)
	}
}

func TestSubscriptionCloseStopsDelivery(t *testing.T) {
	h := New(8, nil)
	sub, _ := h.Subscribe("alerts:u1", "")
	sub.Close()
	sub.Close() // idempotent
	if n := h.Publish(testEnvelope("alerts:u1", `{}`)); n != 0 {
		t.Fatalf("delivered after close: %d", n)
	}
	if h.Subscribers() != 0 {
		t.Fatalf("subscribers: %d", h.Subscribers())
	}
}

func TestCELFilterSelectsEnvelopes(t *testing.T) {
	h := New(8, nil)
	sub, err := h.Subscribe("logs:ws1", `data.level == "ERROR"`)
	if err != nil {
		t.Fatalf("subscribe: %v", err)
	}
	defer sub.Close()

	if n := h.Publish(testEnvelope("logs:ws1:wf1", `{"level":"INFO"}`)); n != 0 {
		t.Fatalf("INFO should not match: %d", n)
	}
	if n := h.Publish(testEnvelope("logs:ws1:wf1", `{"level":"ERROR"}`)); n != 1 {
		t.Fatalf("ERROR should match: %d", n)
	}
}

func TestCELFilterOnEnvelopeMetadata(t *testing.T) {
	h := New(8, nil)
	sub, err := h.Subscribe("metrics:ws1", `service == "etl" && filters["region"] == "eu"`)
	if err != nil {
		t.Fatalf("subscribe: %v", err)
	}
	defer sub.Close()

	env := testEnvelope("metrics:ws1", `{}`)
	env.Service = "etl"
	env.Filters = map[string]interface{}{"region": "eu"}
	if n := h.Publish(env); n != 1 {
		t.Fatalf("metadata filter should match: %d", n)
	}
	env.Filters["region"] = "us"
	if n := h.Publish(env); n != 0 {
		t.Fatalf("mismatched hint should not match: %d", n)
	}
}

func TestInvalidFilterExpressionRejected(t *testing.T) {
	h := New(8, nil)
	if _, err := h.Subscribe("logs:ws1", "this is not CEL ((("); err == nil {
		t.Fatalf("expected error for malformed filter")
	}
}

func TestEmptyChannelRejected(t *testing.T) {
	h := New(8, nil)
	if _, err := h.Subscribe("", ""); err == nil {
		t.Fatalf("expected error for empty channel")
	}
	if err := (Envelope{}).Validate(); err != ErrEmptyChannel {
		t.Fatalf("validate: %v", err)
	}
}

func TestSlowSubscriberDropsOldest(t *testing.T) {
	h := New(2, nil)
	sub, _ := h.Subscribe("logs:ws1", "")
	defer sub.Close()

	for i := 0; i < 5; i++ {
		h.Publish(testEnvelope("logs:ws1", `{"n":`+string(rune('0'+i))+`}`))
	}
	// Queue holds the newest two envelopes; publisher never blocked.
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	b, err := sub.Next(ctx)
	if err != nil {
		t.Fatalf("next: %v", err)
	}
	var env Envelope
	_ = json.Unmarshal(b, &env)
	if string(env.Data) != `{"n":3}` {
		t.Fatalf("expected oldest surviving envelope {\"n\":3}, got %s", env.Data)
	}
}
