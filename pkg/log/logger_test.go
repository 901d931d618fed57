package log

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

func newTestLogger(level Level, f Formatter) (Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	l := NewLogger(WithLevel(level), WithFormatter(f), WithOutput(NewWriterOutput(&buf)))
	return l, &buf
}

func TestJSONFormatterFields(t *testing.T) {
	l, buf := newTestLogger(InfoLevel, &JSONFormatter{})
	l.Info("publish ok", Str("channel", "logs:ws1:wf2"), Int("delivered", 3))
	var m map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &m); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if m["msg"] != "publish ok" {
		t.Fatalf("msg: %v", m["msg"])
	}
	if m["level"] != "INFO" {
		t.Fatalf("level: %v", m["level"])
	}
	if m["channel"] != "logs:ws1:wf2" {
		t.Fatalf("channel: %v", m["channel"])
	}
	if m["delivered"] != float64(3) {
		t.Fatalf("delivered: %v", m["delivered"])
	}
}

func TestLevelGating(t *testing.T) {
	l, buf := newTestLogger(WarnLevel, &TextFormatter{})
	l.Debug("dropped")
	l.Info("dropped")
	if buf.Len() != 0 {
		t.Fatalf("expected no output, got %q", buf.String())
	}
	l.Warn("kept")
	if !strings.Contains(buf.String(), "kept") {
		t.Fatalf("missing warn entry: %q", buf.String())
	}
}

func TestWithFieldsPersist(t *testing.T) {
	l, buf := newTestLogger(InfoLevel, &TextFormatter{})
	l = l.WithComponent("hub").With(Str("channel", "alerts:u1"))
	l.Info("subscribed")
	out := buf.String()
	if !strings.Contains(out, "component=hub") || !strings.Contains(out, "channel=alerts:u1") {
		t.Fatalf("missing persistent fields: %q", out)
	}
}

func TestWithErrorField(t *testing.T) {
	l, buf := newTestLogger(InfoLevel, &TextFormatter{})
	l.WithError(errors.New("boom")).Error("publish failed")
	if !strings.Contains(buf.String(), "error=boom") {
		t.Fatalf("missing error field: %q", buf.String())
	}
}

func TestParseLevel(t *testing.T) {
	cases := map[string]Level{"debug": DebugLevel, "INFO": InfoLevel, "Warn": WarnLevel, "error": ErrorLevel}
	for in, want := range cases {
		got, err := ParseLevel(in)
		if err != nil {
			t.Fatalf("ParseLevel(%q): %v", in, err)
		}
		if got != want {
			t.Fatalf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
	if _, err := ParseLevel("verbose"); err == nil {
		t.Fatalf("expected error for unknown level")
	}
}

func TestApplyConfig(t *testing.T) {
	l, err := ApplyConfig(&Config{Level: "error", Format: "json"})
	if err != nil {
		t.Fatalf("ApplyConfig: %v", err)
	}
	if l.GetLevel() != ErrorLevel {
		t.Fatalf("level: %v", l.GetLevel())
	}
	if _, err := ApplyConfig(&Config{Format: "xml"}); err == nil {
		t.Fatalf("expected error for unknown format")
	}
}
