// Package registry implements the function-signature registry and call
// graph (spec.md §3, §4.3), grounded on the original
// lua2c/analyzers/function_registry.py.
package registry

import (
	"fmt"

	"github.com/lua2cpp/lua2cpp/internal/tableshape"
	"github.com/lua2cpp/lua2cpp/internal/types"
)

// CallSite records one concrete invocation (§3, §4.3). ArgSymbols[i] is
// the argument's symbol name when argument i is a bare identifier, and
// "" otherwise — the distinction that makes bidirectional propagation
// possible (§4.3).
type CallSite struct {
	Caller     string
	ArgSymbols []string
	Line       int
}

// ArgSymbol reports whether argument i at this call site is a bare
// name, returning it and true, or ("", false) otherwise.
func (c CallSite) ArgSymbol(i int) (string, bool) {
	if i < 0 || i >= len(c.ArgSymbols) {
		return "", false
	}
	name := c.ArgSymbols[i]
	return name, name != ""
}

// Signature is a function's registered parameter list, inferred
// per-parameter table shape, return type and call sites (§3, §4.3).
type Signature struct {
	Name           string
	ParamNames     []string
	ParamTypes     map[int]types.Type
	ParamTableInfo map[int]*tableshape.Record
	ReturnType     *types.Type
	IsLocal        bool
	AlwaysVariadic bool // set by the emitter's library table for print/io.write/string.format
	CallSites      []CallSite
}

func newSignature(name string, params []string, isLocal bool) *Signature {
	return &Signature{
		Name:           name,
		ParamNames:     params,
		ParamTypes:     map[int]types.Type{},
		ParamTableInfo: map[int]*tableshape.Record{},
		IsLocal:        isLocal,
	}
}

// ParamIndex returns the index of a named parameter, or -1.
func (s *Signature) ParamIndex(name string) int {
	for i, n := range s.ParamNames {
		if n == name {
			return i
		}
	}
	return -1
}

// Registry maintains name -> Signature and the reverse call graph
// (callee -> set(callers)), per §4.3.
type Registry struct {
	signatures map[string]*Signature
	callGraph  map[string]map[string]bool
	// order preserves first-registration order so that pass 3 traversal
	// is deterministic (§4.5 ordering guarantees, §5).
	order []string
}

// New returns an empty registry.
func New() *Registry {
	return &Registry{
		signatures: map[string]*Signature{},
		callGraph:  map[string]map[string]bool{},
	}
}

// Register creates (or overwrites) a function signature. Duplicate
// parameter names within one signature are rejected (§3, §4.3).
func (r *Registry) Register(name string, paramNames []string, isLocal bool) (*Signature, error) {
	seen := map[string]bool{}
	for _, p := range paramNames {
		if seen[p] {
			return nil, fmt.Errorf("registry: function %q has duplicate parameter %q", name, p)
		}
		seen[p] = true
	}
	sig := newSignature(name, paramNames, isLocal)
	if _, existed := r.signatures[name]; !existed {
		r.order = append(r.order, name)
	}
	r.signatures[name] = sig
	if r.callGraph[name] == nil {
		r.callGraph[name] = map[string]bool{}
	}
	return sig, nil
}

// Has reports whether name is registered.
func (r *Registry) Has(name string) bool {
	_, ok := r.signatures[name]
	return ok
}

// Get returns the signature for name, or nil.
func (r *Registry) Get(name string) *Signature {
	return r.signatures[name]
}

// RecordCallSite records that caller invoked callee with the given
// argument symbol names. A callee seen for the first time is
// auto-registered as a zero-parameter stub (forward references are
// legal, §4.3).
func (r *Registry) RecordCallSite(caller, callee string, argSymbols []string, line int) {
	sig, ok := r.signatures[callee]
	if !ok {
		sig, _ = r.Register(callee, nil, false)
	}
	sig.CallSites = append(sig.CallSites, CallSite{Caller: caller, ArgSymbols: argSymbols, Line: line})

	if r.callGraph[callee] == nil {
		r.callGraph[callee] = map[string]bool{}
	}
	r.callGraph[callee][caller] = true
}

// ParamName returns the name of parameter i of f, or "".
func (r *Registry) ParamName(f string, i int) string {
	sig := r.signatures[f]
	if sig == nil || i < 0 || i >= len(sig.ParamNames) {
		return ""
	}
	return sig.ParamNames[i]
}

// ParamType returns the inferred type of parameter i of f.
func (r *Registry) ParamType(f string, i int) types.Type {
	sig := r.signatures[f]
	if sig == nil {
		return types.New(types.Unknown)
	}
	if t, ok := sig.ParamTypes[i]; ok {
		return t
	}
	return types.New(types.Unknown)
}

// Callers returns the (unordered) set of functions observed calling f.
func (r *Registry) Callers(f string) []string {
	set := r.callGraph[f]
	out := make([]string, 0, len(set))
	for c := range set {
		out = append(out, c)
	}
	return out
}

// CallSites returns every recorded call site for f, in recording order.
func (r *Registry) CallSites(f string) []CallSite {
	sig := r.signatures[f]
	if sig == nil {
		return nil
	}
	return sig.CallSites
}

// FunctionsWithParamInfo returns, in registration order, every function
// name that has at least one parameter with table-shape info attached —
// mirrors get_functions_with_param_info in the original registry.
func (r *Registry) FunctionsWithParamInfo() []string {
	var out []string
	for _, name := range r.order {
		if sig := r.signatures[name]; sig != nil && len(sig.ParamTableInfo) > 0 {
			out = append(out, name)
		}
	}
	return out
}

// AllFunctions returns every registered function name in registration
// order — the deterministic traversal order pass 3 relies on (§4.5, §5).
func (r *Registry) AllFunctions() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// Stats mirrors the original registry's print_statistics: small summary
// counters returned by ComputeStats (SPEC_FULL.md Supplemented Features
// #4). The CLI does not print them.
type Stats struct {
	TotalFunctions    int
	TotalParameters   int
	TypedParameters   int
	UntypedParameters int
	TotalCallSites    int
}

// ComputeStats gathers registry-wide counters.
func (r *Registry) ComputeStats() Stats {
	var s Stats
	s.TotalFunctions = len(r.signatures)
	for _, sig := range r.signatures {
		s.TotalParameters += len(sig.ParamNames)
		s.TypedParameters += len(sig.ParamTableInfo)
		s.TotalCallSites += len(sig.CallSites)
	}
	s.UntypedParameters = s.TotalParameters - s.TypedParameters
	return s
}
