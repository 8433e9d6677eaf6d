// Package diag implements the diagnostic taxonomy (spec.md §7) and the
// Log used to accumulate and print them, grounded on the teacher's
// logger/logger.go (verbosity-gated I/W/E) and term/print.go (bordered,
// colored summaries).
package diag

import (
	"errors"
	"fmt"
	"strings"
)

// ErrDynamicRequire names the condition of a require() call whose
// argument is not a string literal (spec.md §9(iii) Open Question). No
// package returns it: dependency extraction (internal/pipeline's
// collectRequires) skips such calls, and the emitter lowers them as
// ordinary dynamic calls.
var ErrDynamicRequire = errors.New("require() argument is not a string literal")

// Severity is one of the three levels pass 4 surfaces (spec.md §4.5).
type Severity int

const (
	Info Severity = iota
	Warning
	Error
)

func (s Severity) String() string {
	switch s {
	case Info:
		return "INFO"
	case Warning:
		return "WARN"
	case Error:
		return "ERROR"
	}
	return "?"
}

// Kind names the specific condition a Diagnostic reports, so callers
// (tests, CLI summaries) can match on it without parsing Message.
type Kind string

const (
	KindUnknownType       Kind = "unknown_type"
	KindUndecidedShape    Kind = "undecided_shape"
	KindUntypedParam      Kind = "untyped_param"
	KindMixedTableUsage   Kind = "mixed_table_usage"
	KindSparseArray       Kind = "sparse_array"
	KindArrayElemUnknown  Kind = "array_elem_unknown"
	KindIncompatibleUnion Kind = "incompatible_union"
	KindDynamicCallSite   Kind = "dynamic_call_site"
)

// Diagnostic is one reported condition, module- and line-scoped when
// available (§7: "enough context — file, line if available, kind").
type Diagnostic struct {
	Severity   Severity
	Kind       Kind
	Module     string
	Line       int
	Message    string
	Suggestion string // one-line actionable follow-up, when one applies
}

func (d Diagnostic) String() string {
	loc := d.Module
	if d.Line > 0 {
		loc = fmt.Sprintf("%s:%d", d.Module, d.Line)
	}
	s := fmt.Sprintf("[%s] %s: %s", d.Severity, loc, d.Message)
	if d.Suggestion != "" {
		s += " (" + d.Suggestion + ")"
	}
	return s
}

// Log accumulates diagnostics for one pipeline run, verbosity-gated the
// way the teacher's logger gates on consts.Debug.
type Log struct {
	Verbose bool
	entries []Diagnostic
}

// NewLog returns an empty diagnostic log.
func NewLog(verbose bool) *Log {
	return &Log{Verbose: verbose}
}

func (l *Log) add(sev Severity, kind Kind, module string, line int, suggestion, format string, a ...any) {
	l.entries = append(l.entries, Diagnostic{
		Severity:   sev,
		Kind:       kind,
		Module:     module,
		Line:       line,
		Message:    fmt.Sprintf(format, a...),
		Suggestion: suggestion,
	})
}

func (l *Log) Infof(module string, line int, kind Kind, format string, a ...any) {
	l.add(Info, kind, module, line, "", format, a...)
}

func (l *Log) Warnf(module string, line int, kind Kind, format string, a ...any) {
	l.add(Warning, kind, module, line, "", format, a...)
}

func (l *Log) Errorf(module string, line int, kind Kind, format string, a ...any) {
	l.add(Error, kind, module, line, "", format, a...)
}

// InfofSuggest and WarnfSuggest attach a one-line actionable suggestion
// to the diagnostic (SUPPLEMENTED FEATURES #2, `lua2c/analyzers/type_validator.py`'s
// per-diagnostic suggestion string).
func (l *Log) InfofSuggest(module string, line int, kind Kind, suggestion, format string, a ...any) {
	l.add(Info, kind, module, line, suggestion, format, a...)
}

func (l *Log) WarnfSuggest(module string, line int, kind Kind, suggestion, format string, a ...any) {
	l.add(Warning, kind, module, line, suggestion, format, a...)
}

// All returns every accumulated diagnostic, in recording order.
func (l *Log) All() []Diagnostic { return l.entries }

// BySeverity filters the log to one severity.
func (l *Log) BySeverity(sev Severity) []Diagnostic {
	var out []Diagnostic
	for _, d := range l.entries {
		if d.Severity == sev {
			out = append(out, d)
		}
	}
	return out
}

// HasErrors reports whether any Error-severity diagnostic was recorded.
func (l *Log) HasErrors() bool { return len(l.BySeverity(Error)) > 0 }

// Summary renders a bordered, per-severity count block in the teacher's
// addBorder style (term/print.go), without the teacher's ANSI coloring
// since report output may be redirected to a file.
func (l *Log) Summary() string {
	counts := map[Severity]int{}
	for _, d := range l.entries {
		counts[d.Severity]++
	}
	lines := []string{
		fmt.Sprintf("info:    %d", counts[Info]),
		fmt.Sprintf("warning: %d", counts[Warning]),
		fmt.Sprintf("error:   %d", counts[Error]),
	}
	return addBorder(strings.Join(lines, "\n"), "diagnostics")
}

func addBorder(s, title string) string {
	lines := strings.Split(s, "\n")
	longest := 4
	for _, l := range lines {
		if len(l) > longest {
			longest = len(l)
		}
	}
	w := longest + 6
	if titleW := len(title); w < titleW {
		w = titleW
	}
	result := "+- " + title + " " + strings.Repeat("-", w-len(title)-3) + "+\n"
	for _, l := range lines {
		blankWidth := w - len(l)
		blank := strings.Repeat(" ", blankWidth/2)
		moreBlank := strings.Repeat(" ", blankWidth%2)
		result += "|" + blank + l + blank + moreBlank + "|\n"
	}
	result += "+" + strings.Repeat("-", w) + "+"
	return result
}
