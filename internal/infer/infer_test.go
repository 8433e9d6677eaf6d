package infer

import (
	"testing"

	"github.com/lua2cpp/lua2cpp/internal/ast"
	"github.com/lua2cpp/lua2cpp/internal/diag"
	"github.com/lua2cpp/lua2cpp/internal/registry"
	"github.com/lua2cpp/lua2cpp/internal/types"
)

func name(n string) *ast.NameExp { return &ast.NameExp{Name: n} }
func num(v float64) *ast.NumberExp { return &ast.NumberExp{Value: v} }
func str(v string) *ast.StringExp { return &ast.StringExp{Str: v} }

func newEngine() *Engine {
	return New("test", registry.New(), diag.NewLog(false))
}

// S1 — local x = 1; local y = x + 2 -> both Number.
func TestS1PureArithmeticSpecialization(t *testing.T) {
	e := newEngine()
	chunk := &ast.Chunk{
		Name: "test",
		Block: &ast.Block{Stats: []ast.Stat{
			&ast.LocalAssignStat{Names: []string{"x"}, Exps: []ast.Exp{num(1)}},
			&ast.LocalAssignStat{Names: []string{"y"}, Exps: []ast.Exp{
				&ast.BinopExp{Op: ast.OpAdd, Left: name("x"), Right: num(2)},
			}},
		}},
	}
	e.Run(chunk)

	if got := e.TypeOf("x"); got.Kind != types.Number {
		t.Fatalf("x = %v, want Number", got.Kind)
	}
	if got := e.TypeOf("y"); got.Kind != types.Number {
		t.Fatalf("y = %v, want Number", got.Kind)
	}
}

// S3 — t[1]=10; t.name="x" -> mixed usage warning, classified as map.
func TestS3PromotedToMapWarns(t *testing.T) {
	e := newEngine()
	chunk := &ast.Chunk{Block: &ast.Block{Stats: []ast.Stat{
		&ast.LocalAssignStat{Names: []string{"t"}, Exps: []ast.Exp{&ast.TableConstructorExp{}}},
		&ast.AssignStat{
			Targets: []ast.Exp{&ast.IndexExp{Obj: name("t"), Key: num(1)}},
			Exps:    []ast.Exp{num(10)},
		},
		&ast.AssignStat{
			Targets: []ast.Exp{&ast.IndexExp{Obj: name("t"), Key: str("name")}},
			Exps:    []ast.Exp{str("x")},
		},
	}}}
	e.Run(chunk)

	rec := e.TableOf("t")
	if rec.IsArray() {
		t.Fatal("expected t to be classified as map after a string key")
	}
	found := false
	for _, d := range e.Diag.BySeverity(diag.Warning) {
		if d.Kind == diag.KindMixedTableUsage {
			found = true
		}
	}
	if !found {
		t.Fatal("expected a mixed array/map usage warning")
	}
}

// S4 — local function f(a) return a + 1 end; local x = 3; f(x)
// -> signature(f).param_type[0] = Number after pass 3.
func TestS4InterProceduralPropagation(t *testing.T) {
	e := newEngine()
	fBody := &ast.Block{RetExps: []ast.Exp{
		&ast.BinopExp{Op: ast.OpAdd, Left: name("a"), Right: num(1)},
	}}
	chunk := &ast.Chunk{Block: &ast.Block{Stats: []ast.Stat{
		&ast.LocalFunctionStat{Name: "f", Fn: &ast.FuncDefExp{ParList: []string{"a"}, Block: fBody}},
		&ast.LocalAssignStat{Names: []string{"x"}, Exps: []ast.Exp{num(3)}},
		&ast.CallStat{Call: &ast.CallExp{Fn: name("f"), Args: []ast.Exp{name("x")}}},
	}}}
	e.Run(chunk)

	got := e.Registry.ParamType("f", 0)
	if got.Kind != types.Number {
		t.Fatalf("param_type[0] = %v, want Number", got.Kind)
	}
}

// S5 — local function f(a) end; f(1); f("hello")
// -> signature(f).param_type[0] is Variant(Number, String), with a warning.
func TestS5ConflictingCallSitesYieldVariant(t *testing.T) {
	e := newEngine()
	chunk := &ast.Chunk{Block: &ast.Block{Stats: []ast.Stat{
		&ast.LocalFunctionStat{Name: "f", Fn: &ast.FuncDefExp{ParList: []string{"a"}, Block: &ast.Block{}}},
		&ast.LocalAssignStat{Names: []string{"one"}, Exps: []ast.Exp{num(1)}},
		&ast.LocalAssignStat{Names: []string{"greet"}, Exps: []ast.Exp{str("hello")}},
		&ast.CallStat{Call: &ast.CallExp{Fn: name("f"), Args: []ast.Exp{name("one")}}},
		&ast.CallStat{Call: &ast.CallExp{Fn: name("f"), Args: []ast.Exp{name("greet")}}},
	}}}
	e.Run(chunk)

	got := e.Registry.ParamType("f", 0)
	if got.Kind != types.Variant {
		t.Fatalf("param_type[0].Kind = %v, want Variant", got.Kind)
	}
	if len(got.Subtypes) != 2 || got.Subtypes[0].Kind != types.Number || got.Subtypes[1].Kind != types.String {
		t.Fatalf("param_type[0] = %+v, want Variant(Number, String) in observed order", got)
	}
}

// Nil-alone assignment must not upgrade past Unknown (spec.md §4.5 pass 2).
func TestNilAloneStaysUnknown(t *testing.T) {
	e := newEngine()
	chunk := &ast.Chunk{Block: &ast.Block{Stats: []ast.Stat{
		&ast.LocalAssignStat{Names: []string{"x"}, Exps: []ast.Exp{&ast.NilExp{}}},
	}}}
	e.Run(chunk)
	if got := e.TypeOf("x"); got.Kind != types.Unknown {
		t.Fatalf("x = %v, want Unknown", got.Kind)
	}
}

// and/or return join(lhs, rhs), not Boolean (spec.md §4.5 pass 2).
func TestAndOrReturnsJoinNotBoolean(t *testing.T) {
	e := newEngine()
	result := e.inferExp(&ast.BinopExp{
		Op:    ast.OpOr,
		Left:  num(1),
		Right: str("x"),
	})
	if result.Kind != types.Variant {
		t.Fatalf("or result = %v, want Variant(Number, String)", result.Kind)
	}
}

// Shadowing: a local redeclared in a nested scope is accepted, and the
// outer x still resolves at the top level once the inner scope is popped.
// Inferred types are recorded per name, not per scope, so the inner and
// outer observations of x are merged into one recorded type.
func TestShadowingDuringInference(t *testing.T) {
	e := newEngine()
	inner := &ast.Block{Stats: []ast.Stat{
		&ast.LocalAssignStat{Names: []string{"x"}, Exps: []ast.Exp{str("inner")}},
	}}
	chunk := &ast.Chunk{Block: &ast.Block{Stats: []ast.Stat{
		&ast.LocalAssignStat{Names: []string{"x"}, Exps: []ast.Exp{num(1)}},
		&ast.DoStat{Body: inner},
	}}}
	e.Run(chunk)
	if !e.Scopes.IsLocal("x") && e.Scopes.Lookup("x") == nil {
		t.Fatal("expected x to still resolve at the top level after the nested scope closed")
	}
}
