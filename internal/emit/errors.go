package emit

import "fmt"

// Error reports an emitter failure (spec.md §7 "Emitter errors").
// Unlike diag.Diagnostic (info/warning, non-fatal), an Error always
// aborts the module (spec.md §4.7 "Failure semantics": the emitter
// never recovers from an unknown AST node kind).
type Error struct {
	Module string
	Line   int
	Msg    string
}

func (e *Error) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("%s:%d: %s", e.Module, e.Line, e.Msg)
	}
	return fmt.Sprintf("%s: %s", e.Module, e.Msg)
}

func (em *Emitter) errorf(line int, format string, a ...any) {
	panic(&Error{Module: em.ModulePath, Line: line, Msg: fmt.Sprintf(format, a...)})
}
