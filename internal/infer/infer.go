// Package infer implements the four-pass type-inference engine (spec.md
// §4.5, the hardest part of the pipeline), grounded on
// lua2c/analyzers/type_inference.py (intra-procedural walk, merge-by-
// seen-kinds) and lua2c/analyzers/propagation_logger.py (inter-procedural
// propagation bookkeeping).
package infer

import (
	"github.com/lua2cpp/lua2cpp/internal/ast"
	"github.com/lua2cpp/lua2cpp/internal/diag"
	"github.com/lua2cpp/lua2cpp/internal/registry"
	"github.com/lua2cpp/lua2cpp/internal/scope"
	"github.com/lua2cpp/lua2cpp/internal/tableshape"
	"github.com/lua2cpp/lua2cpp/internal/types"
)

// MaxIterations caps pass 3's fixed-point loop (spec.md §4.5 pass 3
// default, §5 "bounded by the iteration cap").
const MaxIterations = 10

// Engine owns the per-module symbol table, function registry,
// table-shape store and inferred-type map for one pipeline invocation
// (spec.md §5 "shared-resource policy"). A fresh Engine must be created
// per module; nothing here is safe to reuse across modules.
type Engine struct {
	Module      string
	Registry    *registry.Registry
	Diag        *diag.Log
	Scopes      *scope.Stack
	Propagation *PropagationLog

	// inferredTypes and seenKinds mirror the original TypeInference's
	// flat name -> Type / name -> {Kind} dictionaries (type_inference.py
	// _merge_type): inference is keyed by plain symbol name, not by
	// scope-qualified identity (spec.md §4.5 pass 3 "inferred_types[n]").
	// seenOrder additionally records first-seen order per symbol, since a
	// Go map iteration would otherwise scramble the Variant's subtype
	// order between runs (spec.md §4.1, §5 ordering guarantee (iv)).
	inferredTypes map[string]types.Type
	seenKinds     map[string]map[types.Kind]bool
	seenOrder     map[string][]types.Kind
	tables        map[string]*tableshape.Record

	currentFunc []string // call-site "caller" stack; "main" denotes chunk top level
}

// New returns an Engine ready to run all four passes over one chunk.
func New(moduleName string, reg *registry.Registry, log *diag.Log) *Engine {
	return &Engine{
		Module:        moduleName,
		Registry:      reg,
		Diag:          log,
		Scopes:        scope.New(),
		Propagation:   &PropagationLog{},
		inferredTypes: map[string]types.Type{},
		seenKinds:     map[string]map[types.Kind]bool{},
		seenOrder:     map[string][]types.Kind{},
		tables:        map[string]*tableshape.Record{},
	}
}

// Run executes all four passes over chunk in order (spec.md §5 ordering
// guarantee (i)).
func (e *Engine) Run(chunk *ast.Chunk) {
	e.collectSignatures(chunk.Block)
	e.currentFunc = []string{"main"}
	e.inferBlock(chunk.Block)
	e.propagate()
	e.validate()
}

// TypeOf returns the current inferred type for a symbol name, or
// Unknown if never observed.
func (e *Engine) TypeOf(name string) types.Type {
	if t, ok := e.inferredTypes[name]; ok {
		return t
	}
	return types.New(types.Unknown)
}

// TableOf returns (creating if absent) the table-shape record for name.
func (e *Engine) TableOf(name string) *tableshape.Record {
	r, ok := e.tables[name]
	if !ok {
		r = tableshape.New()
		e.tables[name] = r
	}
	return r
}

// HasTable reports whether name has ever been observed as a table.
func (e *Engine) HasTable(name string) bool {
	_, ok := e.tables[name]
	return ok
}

// AllSymbols returns every symbol name inference ever touched, in a
// stable (sorted) order for deterministic pass-4 reporting.
func (e *Engine) AllSymbols() []string {
	out := make([]string, 0, len(e.seenKinds))
	for name := range e.seenKinds {
		out = append(out, name)
	}
	sortStrings(out)
	return out
}

func sortStrings(s []string) {
	for i := 1; i < len(s); i++ {
		for j := i; j > 0 && s[j-1] > s[j]; j-- {
			s[j-1], s[j] = s[j], s[j-1]
		}
	}
}

func sortInts(s []int) {
	for i := 1; i < len(s); i++ {
		for j := i; j > 0 && s[j-1] > s[j]; j-- {
			s[j-1], s[j] = s[j], s[j-1]
		}
	}
}

// mergeType folds a newly observed kind into symbol's seen-kind set and
// recomputes its inferred type (type_inference.py _merge_type). A lone
// Nil observation never upgrades the type past Unknown (spec.md §4.5
// pass 2 "Assignments of Nil alone do not upgrade a type").
func (e *Engine) mergeType(name string, t types.Type) {
	seen, ok := e.seenKinds[name]
	if !ok {
		seen = map[types.Kind]bool{}
		e.seenKinds[name] = seen
	}
	observe := func(k types.Kind) {
		if seen[k] {
			return
		}
		seen[k] = true
		e.seenOrder[name] = append(e.seenOrder[name], k)
	}
	if t.Kind == types.Variant {
		for _, sub := range t.Subtypes {
			observe(sub.Kind)
		}
	} else if t.Kind != types.Unknown {
		observe(t.Kind)
	}

	order := e.seenOrder[name]
	switch len(order) {
	case 0:
		e.inferredTypes[name] = types.New(types.Unknown)
	case 1:
		only := order[0]
		if only == types.Nil {
			e.inferredTypes[name] = types.New(types.Unknown)
		} else {
			e.inferredTypes[name] = types.New(only)
		}
	default:
		subtypes := make([]types.Type, len(order))
		for i, k := range order {
			subtypes[i] = types.New(k)
		}
		e.inferredTypes[name] = types.NewVariant(subtypes...)
	}
}

func (e *Engine) caller() string {
	if len(e.currentFunc) == 0 {
		return "main"
	}
	return e.currentFunc[len(e.currentFunc)-1]
}
