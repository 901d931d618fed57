// Package synth generates synthetic pipeline log entries for the demo stream
// endpoint. It is a stand-in for a real event source and implements the
// stream.Source interface via NewSource.
package synth

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"sync"
	"time"
)

// timeLayout renders timestamps like "Sep 11 2025 at 03:10 PM".
const timeLayout = "Jan 02 2006 at 03:04 PM"

// Meta carries the entry's execution identifiers.
type Meta struct {
	ExecID     string `json:"execID"`
	PipelineID string `json:"pipelineID"`
	Timestamp  int64  `json:"timestamp"`
}

// Entry is one synthetic pipeline log record.
type Entry struct {
	Description string `json:"description"`
	Duration    string `json:"duration"`
	ISOTime     string `json:"isoTime"`
	LogLevel    string `json:"logLevel"`
	LogType     string `json:"logType"`
	Message     string `json:"message"`
	Meta        Meta   `json:"meta"`
	StageName   string `json:"stageName"`
	Time        string `json:"time"`
}

// Generator produces random log entries. Safe for concurrent use.
type Generator struct {
	mu  sync.Mutex
	rnd *rand.Rand
	now func() time.Time
}

// NewGenerator creates a generator seeded from the clock.
func NewGenerator() *Generator {
	return &Generator{
		rnd: rand.New(rand.NewSource(time.Now().UnixNano())),
		now: time.Now,
	}
}

// Entry synthesizes one log entry.
func (g *Generator) Entry() Entry {
	g.mu.Lock()
	defer g.mu.Unlock()

	now := g.now().UTC()
	tpl := messageTemplates[g.rnd.Intn(len(messageTemplates))]

	var message string
	switch tpl.kind {
	case kindPipeline:
		message = fmt.Sprintf(tpl.text, pipelineIDs[g.rnd.Intn(len(pipelineIDs))])
	case kindStep:
		message = fmt.Sprintf(tpl.text, 1+g.rnd.Intn(10))
	case kindTag:
		message = fmt.Sprintf(tpl.text, fmt.Sprintf("v%d.%d", 1+g.rnd.Intn(5), g.rnd.Intn(11)))
	case kindDuration:
		message = fmt.Sprintf(tpl.text, 100+g.rnd.Float64()*2900)
	default:
		message = tpl.text
	}

	return Entry{
		Description: message,
		Duration:    "0 sec",
		ISOTime:     now.Format("2006-01-02T15:04:05.000000") + "000",
		LogLevel:    logLevels[g.rnd.Intn(len(logLevels))],
		LogType:     logTypes[g.rnd.Intn(len(logTypes))],
		Message:     message,
		Meta: Meta{
			ExecID:     execIDs[g.rnd.Intn(len(execIDs))],
			PipelineID: pipelineIDs[g.rnd.Intn(len(pipelineIDs))],
			Timestamp:  now.UnixMilli(),
		},
		StageName: stageNames[g.rnd.Intn(len(stageNames))],
		Time:      now.Format(timeLayout),
	}
}

// Source paces entries at a fixed interval and serializes them for a stream
// session.
type Source struct {
	gen      *Generator
	interval time.Duration
	started  bool
}

// NewSource wraps gen as a paced stream source.
func NewSource(gen *Generator, interval time.Duration) *Source {
	return &Source{gen: gen, interval: interval}
}

// Next returns the next serialized entry. The first entry is produced
// immediately; later calls wait out the inter-event interval first. It
// returns ctx.Err() when the consumer goes away during the pause.
func (s *Source) Next(ctx context.Context) (json.RawMessage, error) {
	if s.started {
		t := time.NewTimer(s.interval)
		defer t.Stop()
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-t.C:
		}
	}
	s.started = true
	b, err := json.Marshal(s.gen.Entry())
	if err != nil {
		return nil, fmt.Errorf("marshal entry: %w", err)
	}
	return b, nil
}
