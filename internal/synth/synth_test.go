package synth

import (
	"context"
	"encoding/json"
	"math/rand"
	"strings"
	"testing"
	"time"
)

func fixedGenerator(seed int64, at time.Time) *Generator {
	return &Generator{
		rnd: rand.New(rand.NewSource(seed)),
		now: func() time.Time { return at },
	}
}

func TestEntryShape(t *testing.T) {
	at := time.Date(2025, time.September, 11, 15, 10, 0, 0, time.UTC)
	g := fixedGenerator(1, at)
	e := g.Entry()

	if e.Message == "" || e.Message != e.Description {
		t.Fatalf("message/description mismatch: %+v", e)
	}
	if e.Duration != "0 sec" {
		t.Fatalf("duration: %q", e.Duration)
	}
	if e.Time != "Sep 11 2025 at 03:10 PM" {
		t.Fatalf("time format: %q", e.Time)
	}
	if !strings.HasSuffix(e.ISOTime, "000") {
		t.Fatalf("isoTime: %q", e.ISOTime)
	}
	if e.Meta.Timestamp != at.UnixMilli() {
		t.Fatalf("meta timestamp: %d", e.Meta.Timestamp)
	}
}

func TestTemplatesFillPlaceholders(t *testing.T) {
	at := time.Now()
	g := fixedGenerator(42, at)
	// Enough draws to hit every template kind.
	for i := 0; i < 200; i++ {
		e := g.Entry()
		if strings.Contains(e.Message, "%s") || strings.Contains(e.Message, "%d") || strings.Contains(e.Message, "%.2f") {
			t.Fatalf("unfilled placeholder in %q", e.Message)
		}
	}
}

func TestEntryPoolMembership(t *testing.T) {
	g := fixedGenerator(7, time.Now())
	e := g.Entry()
	if !contains(logLevels, e.LogLevel) {
		t.Fatalf("logLevel: %q", e.LogLevel)
	}
	if !contains(logTypes, e.LogType) {
		t.Fatalf("logType: %q", e.LogType)
	}
	if !contains(stageNames, e.StageName) {
		t.Fatalf("stageName: %q", e.StageName)
	}
	if !contains(execIDs, e.Meta.ExecID) {
		t.Fatalf("execID: %q", e.Meta.ExecID)
	}
}

func TestSourceFirstEntryImmediate(t *testing.T) {
	src := NewSource(NewGenerator(), time.Hour)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	b, err := src.Next(ctx)
	if err != nil {
		t.Fatalf("next: %v", err)
	}
	var e Entry
	if err := json.Unmarshal(b, &e); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
}

func TestSourcePausesBetweenEntries(t *testing.T) {
	src := NewSource(NewGenerator(), 30*time.Millisecond)
	ctx := context.Background()
	if _, err := src.Next(ctx); err != nil {
		t.Fatalf("next: %v", err)
	}
	start := time.Now()
	if _, err := src.Next(ctx); err != nil {
		t.Fatalf("next: %v", err)
	}
	if elapsed := time.Since(start); elapsed < 25*time.Millisecond {
		t.Fatalf("second entry arrived too early: %v", elapsed)
	}
}

func TestSourceHonorsCancellation(t *testing.T) {
	src := NewSource(NewGenerator(), time.Hour)
	if _, err := src.Next(context.Background()); err != nil {
		t.Fatalf("next: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := src.Next(ctx); err != context.Canceled {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func contains(pool []string, v string) bool {
	for _, p := range pool {
		if p == v {
			return true
		}
	}
	return false
}
