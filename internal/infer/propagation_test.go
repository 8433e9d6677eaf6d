package infer

import (
	"testing"

	"github.com/lua2cpp/lua2cpp/internal/ast"
)

// Property 7 — call-site symmetry: an arg->param propagation for f's sole
// parameter must be replayable from the log after a run that passes a
// typed argument to a previously-untyped parameter.
func TestPropagationLogRecordsArgToParam(t *testing.T) {
	e := newEngine()
	fBody := &ast.Block{}
	chunk := &ast.Chunk{Block: &ast.Block{Stats: []ast.Stat{
		&ast.LocalFunctionStat{Name: "f", Fn: &ast.FuncDefExp{ParList: []string{"a"}, Block: fBody}},
		&ast.LocalAssignStat{Names: []string{"x"}, Exps: []ast.Exp{num(3)}},
		&ast.CallStat{Call: &ast.CallExp{Fn: name("f"), Args: []ast.Exp{name("x")}}},
	}}}
	e.Run(chunk)

	var sawArgToParam bool
	for _, ev := range e.Propagation.Events() {
		if ev.Direction == ArgToParam && ev.Function == "f" && ev.Symbol == "x" {
			sawArgToParam = true
		}
	}
	if !sawArgToParam {
		t.Fatalf("expected an arg_to_param event for f/x, got %v", e.Propagation.Events())
	}
}

// A call site passing more arguments than f declares parameters is
// ordinary, legal Lua (the extras are discarded) — propagateArgsToParams
// must never record a ParamTableInfo entry past len(ParamNames), or the
// registry invariant "every key in param_table_info is a valid index"
// (spec.md:77) breaks.
func TestPropagateArgsToParamsIgnoresExtraArgs(t *testing.T) {
	e := newEngine()
	fBody := &ast.Block{}
	chunk := &ast.Chunk{Block: &ast.Block{Stats: []ast.Stat{
		&ast.LocalFunctionStat{Name: "f", Fn: &ast.FuncDefExp{ParList: []string{"a"}, Block: fBody}},
		&ast.LocalAssignStat{Names: []string{"x", "y"}, Exps: []ast.Exp{
			&ast.TableConstructorExp{Fields: []ast.Field{{Kind: ast.FieldPositional, Val: num(1)}}},
			&ast.TableConstructorExp{Fields: []ast.Field{{Kind: ast.FieldPositional, Val: num(2)}}},
		}},
		&ast.CallStat{Call: &ast.CallExp{Fn: name("f"), Args: []ast.Exp{name("x"), name("y")}}},
	}}}
	e.Run(chunk)

	sig := e.Registry.Get("f")
	if _, ok := sig.ParamTableInfo[1]; ok {
		t.Fatalf("ParamTableInfo has key 1 but f declares only 1 parameter: %v", sig.ParamTableInfo)
	}
	if _, ok := sig.ParamTableInfo[0]; !ok {
		t.Fatalf("expected ParamTableInfo to still record f's sole declared parameter")
	}
}
