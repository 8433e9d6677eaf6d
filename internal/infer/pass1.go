package infer

import (
	"github.com/lua2cpp/lua2cpp/internal/ast"
	"github.com/lua2cpp/lua2cpp/internal/scope"
	"github.com/lua2cpp/lua2cpp/internal/types"
)

// collectSignatures is pass 1 (spec.md §4.5 pass 1): register every
// function definition's name and parameters before any type inference
// runs, so forward references and recursion resolve during pass 2.
func (e *Engine) collectSignatures(b *ast.Block) {
	for _, stat := range b.Stats {
		e.collectSignaturesStat(stat)
	}
}

func (e *Engine) collectSignaturesStat(s ast.Stat) {
	switch st := s.(type) {
	case *ast.LocalFunctionStat:
		if _, err := e.Registry.Register(st.Name, st.Fn.ParList, true); err != nil {
			e.Diag.Errorf(e.Module, st.Line, "duplicate_parameter", "%v", err)
		}
		// Defined before the body is visited so recursive calls inside
		// it resolve to a function symbol rather than an undefined name
		// (spec.md §4.5 pass 1).
		e.Scopes.Define(st.Name, &scope.Symbol{IsFunction: true, InferredType: types.New(types.Function)})
		e.collectSignatures(st.Fn.Block)
	case *ast.FunctionStat:
		name := functionStatName(st)
		if _, err := e.Registry.Register(name, st.Fn.ParList, !st.IsMethod && isLocalTarget(st.Target)); err != nil {
			e.Diag.Errorf(e.Module, st.Line, "duplicate_parameter", "%v", err)
		}
		e.collectSignatures(st.Fn.Block)
	case *ast.DoStat:
		e.collectSignatures(st.Body)
	case *ast.WhileStat:
		e.collectSignatures(st.Body)
	case *ast.RepeatStat:
		e.collectSignatures(st.Body)
	case *ast.NumericForStat:
		e.collectSignatures(st.Body)
	case *ast.GenericForStat:
		e.collectSignatures(st.Body)
	case *ast.IfStat:
		for _, clause := range st.Clauses {
			if clause.Body != nil {
				e.collectSignatures(clause.Body)
			}
		}
	}
}

// functionStatName derives a dotted registry name for `function a.b.c()`
// or `function a:c()` forms from the target prefix-expression.
func functionStatName(st *ast.FunctionStat) string {
	name, _ := dottedName(st.Target)
	return name
}

// dottedName flattens a NameExp/IndexExp chain into "a.b.c"; it reports
// ok=false when a non-literal key breaks the chain (e.g. a[expr()].c).
func dottedName(e ast.Exp) (string, bool) {
	switch n := e.(type) {
	case *ast.NameExp:
		return n.Name, true
	case *ast.IndexExp:
		base, ok := dottedName(n.Obj)
		if !ok {
			return "", false
		}
		key, ok := n.Key.(*ast.StringExp)
		if !ok {
			return "", false
		}
		return base + "." + key.Str, true
	}
	return "", false
}

func isLocalTarget(e ast.Exp) bool {
	_, isName := e.(*ast.NameExp)
	return isName
}
