package hub

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/google/cel-go/cel"
)

// celFilter wraps a compiled CEL program evaluated against published
// envelopes. When disabled, Eval always returns true.
type celFilter struct {
	prog    cel.Program
	enabled bool
}

func newCELFilter(expr string) (celFilter, error) {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return celFilter{enabled: false}, nil
	}
	env, err := cel.NewEnv(
		cel.Variable("channel", cel.StringType),
		cel.Variable("service", cel.StringType),
		cel.Variable("ts_ms", cel.IntType),
		// Parsed event payload (map/list/values) for field filtering
		cel.Variable("data", cel.DynType),
		// Producer-supplied targeting hints
		cel.Variable("filters", cel.MapType(cel.StringType, cel.DynType)),
		// Current time in ms for windowed filters
		cel.Variable("now_ms", cel.IntType),
	)
	if err != nil {
		return celFilter{}, err
	}
	ast, iss := env.Parse(expr)
	if iss != nil && iss.Err() != nil {
		return celFilter{}, iss.Err()
	}
	checked, iss2 := env.Check(ast)
	if iss2 != nil && iss2.Err() != nil {
		return celFilter{}, iss2.Err()
	}
	prog, err := env.Program(checked)
	if err != nil {
		return celFilter{}, err
	}
	return celFilter{prog: prog, enabled: true}, nil
}

// Eval evaluates the compiled expression against an envelope. When disabled,
// returns true. Evaluation errors count as non-matches.
func (f celFilter) Eval(env Envelope) bool {
	if !f.enabled {
		return true
	}
	var data any
	_ = json.Unmarshal(env.Data, &data)
	filters := env.Filters
	if filters == nil {
		filters = map[string]interface{}{}
	}
	out, _, err := f.prog.Eval(map[string]any{
		"channel": env.Channel,
		"service": env.Service,
		"ts_ms":   env.Timestamp,
		"data":    data,
		"filters": filters,
		"now_ms":  time.Now().UnixMilli(),
	})
	if err != nil {
		return false
	}
	b, ok := out.Value().(bool)
	return ok && b
}
