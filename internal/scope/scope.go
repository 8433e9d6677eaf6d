// Package scope implements the lexical scope stack and symbol table
// (spec.md §3, §4.2). It mirrors the teacher's funcInfo scope-level
// bookkeeping (compiler/codegen/func_info.go enterScope/exitScope) but
// tracks inferred types rather than register slots, matching the
// original lua2c scope/symbol_table split.
package scope

import (
	"fmt"

	"github.com/lua2cpp/lua2cpp/internal/tableshape"
	"github.com/lua2cpp/lua2cpp/internal/types"
)

// Symbol is a local, global, parameter or function binding (§3).
type Symbol struct {
	Name         string
	ScopeID      int
	IsGlobal     bool
	IsFunction   bool
	IsParameter  bool
	ParamIndex   int // -1 unless IsParameter
	InferredType types.Type
	TableInfo    *tableshape.Record
}

func (s *Symbol) String() string {
	return fmt.Sprintf("Symbol(%s, scope=%d, global=%v, func=%v, type=%s)",
		s.Name, s.ScopeID, s.IsGlobal, s.IsFunction, s.InferredType.Kind)
}

// Scope is one lexical block. The outermost scope has no parent and is
// never popped (§3 invariants).
type Scope struct {
	id       int
	parent   *Scope
	symbols  map[string]*Symbol
}

// Stack is the scope stack used while walking a function body or chunk.
// It is always non-empty: New() creates the global scope immediately.
type Stack struct {
	global  *Scope
	current *Scope
	nextID  int
}

// New creates a stack containing only the global scope.
func New() *Stack {
	s := &Stack{}
	s.global = &Scope{id: 0, symbols: map[string]*Symbol{}}
	s.current = s.global
	s.nextID = 1
	return s
}

// Global returns the outermost scope.
func (s *Stack) Global() *Scope { return s.global }

// Current returns the innermost scope.
func (s *Stack) Current() *Scope { return s.current }

// Push opens a new nested scope whose parent is the current scope.
func (s *Stack) Push() *Scope {
	sc := &Scope{id: s.nextID, parent: s.current, symbols: map[string]*Symbol{}}
	s.nextID++
	s.current = sc
	return sc
}

// Pop closes the current scope. Popping the global scope is a
// programming error (§4.2) and panics, mirroring funcInfo.freeReg's
// "usedRegs <= 0" panic for the analogous invariant violation.
func (s *Stack) Pop() {
	if s.current.parent == nil {
		panic("scope: cannot pop global scope")
	}
	s.current = s.current.parent
}

// Define adds a symbol to the current scope. Redefining a name already
// present in the *same* scope is an error; shadowing a name from an
// outer scope is legal (§4.2).
func (s *Stack) Define(name string, sym *Symbol) (*Symbol, error) {
	if _, exists := s.current.symbols[name]; exists {
		return nil, fmt.Errorf("scope: %q already defined in this scope", name)
	}
	sym.Name = name
	sym.ScopeID = s.current.id
	s.current.symbols[name] = sym
	return sym, nil
}

// DefineGlobal adds a symbol directly to the global scope, regardless of
// the current scope (used for `x = v` assignments to undeclared names).
func (s *Stack) DefineGlobal(name string, sym *Symbol) *Symbol {
	if existing, ok := s.global.symbols[name]; ok {
		return existing
	}
	sym.Name = name
	sym.ScopeID = s.global.id
	sym.IsGlobal = true
	s.global.symbols[name] = sym
	return sym
}

// Lookup walks the parent chain starting at the current scope and
// returns the innermost matching binding, or nil.
func (s *Stack) Lookup(name string) *Symbol {
	for sc := s.current; sc != nil; sc = sc.parent {
		if sym, ok := sc.symbols[name]; ok {
			return sym
		}
	}
	return nil
}

// LookupLocal looks only in the current scope.
func (s *Stack) LookupLocal(name string) *Symbol {
	return s.current.symbols[name]
}

// IsLocal reports whether name resolves to a non-global binding.
func (s *Stack) IsLocal(name string) bool {
	sym := s.Lookup(name)
	return sym != nil && !sym.IsGlobal
}

// IsGlobalName reports whether name resolves to a global binding.
func (s *Stack) IsGlobalName(name string) bool {
	sym := s.Lookup(name)
	return sym != nil && sym.IsGlobal
}

// Depth returns the nesting depth of the current scope (0 = global).
func (s *Stack) Depth() int {
	d := 0
	for sc := s.current; sc.parent != nil; sc = sc.parent {
		d++
	}
	return d
}
