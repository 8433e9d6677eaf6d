package infer

import "github.com/lua2cpp/lua2cpp/internal/types"

// Direction names which way one propagation event flowed.
type Direction string

const (
	ArgToParam Direction = "arg_to_param"
	ParamToArg Direction = "param_to_arg"
)

// PropagationEvent is one inter-procedural type flow recorded during
// pass 3 (spec.md §4.5 pass 3), grounded on
// lua2c/analyzers/propagation_logger.py's per-event record: which
// function/parameter was involved, which symbol supplied or received
// the type, and what it changed from/to.
type PropagationEvent struct {
	Direction  Direction
	Function   string
	ParamIndex int
	Symbol     string
	From       types.Type
	To         types.Type
}

// PropagationLog accumulates every propagation event across pass 3's
// fixed-point iterations. Querying it after a run makes property 7
// (§8, call-site symmetry) directly testable by replaying the log, and
// feeds `--verbose`/the JSON report.
type PropagationLog struct {
	events []PropagationEvent
}

func (l *PropagationLog) record(ev PropagationEvent) {
	l.events = append(l.events, ev)
}

// Events returns every recorded propagation event, in recording order.
func (l *PropagationLog) Events() []PropagationEvent {
	return l.events
}
