package parser

import (
	"testing"

	"github.com/lua2cpp/lua2cpp/internal/ast"
)

func mustParse(t *testing.T, src string) *ast.Chunk {
	t.Helper()
	c, err := Parse(src, "test", "test")
	if err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}
	return c
}

func TestParseLocalAssign(t *testing.T) {
	c := mustParse(t, "local x = 1\n")
	if len(c.Block.Stats) != 1 {
		t.Fatalf("expected 1 statement, got %d", len(c.Block.Stats))
	}
	stat, ok := c.Block.Stats[0].(*ast.LocalAssignStat)
	if !ok {
		t.Fatalf("expected LocalAssignStat, got %T", c.Block.Stats[0])
	}
	if len(stat.Names) != 1 || stat.Names[0] != "x" {
		t.Fatalf("names = %v, want [x]", stat.Names)
	}
	if num, ok := stat.Exps[0].(*ast.NumberExp); !ok || num.Value != 1 {
		t.Fatalf("exps[0] = %#v, want NumberExp(1)", stat.Exps[0])
	}
}

func TestParseIfElseif(t *testing.T) {
	src := `
if x == 1 then
  return 1
elseif x == 2 then
  return 2
else
  return 0
end
`
	c := mustParse(t, src)
	stat, ok := c.Block.Stats[0].(*ast.IfStat)
	if !ok {
		t.Fatalf("expected IfStat, got %T", c.Block.Stats[0])
	}
	if len(stat.Clauses) != 3 {
		t.Fatalf("expected 3 clauses, got %d", len(stat.Clauses))
	}
	if stat.Clauses[2].Cond != nil {
		t.Fatal("expected trailing else clause to have a nil condition")
	}
}

func TestParseNumericFor(t *testing.T) {
	c := mustParse(t, "for i = 1, 10, 2 do end")
	stat, ok := c.Block.Stats[0].(*ast.NumericForStat)
	if !ok {
		t.Fatalf("expected NumericForStat, got %T", c.Block.Stats[0])
	}
	if stat.Name != "i" || stat.Step == nil {
		t.Fatalf("got %+v", stat)
	}
}

func TestParseGenericFor(t *testing.T) {
	c := mustParse(t, "for k, v in pairs(t) do end")
	stat, ok := c.Block.Stats[0].(*ast.GenericForStat)
	if !ok {
		t.Fatalf("expected GenericForStat, got %T", c.Block.Stats[0])
	}
	if len(stat.Names) != 2 {
		t.Fatalf("names = %v", stat.Names)
	}
}

func TestParseFunctionDefAndCall(t *testing.T) {
	c := mustParse(t, "local function add(a, b) return a + b end\nadd(1, 2)")
	if len(c.Block.Stats) != 2 {
		t.Fatalf("expected 2 statements, got %d", len(c.Block.Stats))
	}
	if _, ok := c.Block.Stats[0].(*ast.LocalFunctionStat); !ok {
		t.Fatalf("expected LocalFunctionStat, got %T", c.Block.Stats[0])
	}
	callStat, ok := c.Block.Stats[1].(*ast.CallStat)
	if !ok {
		t.Fatalf("expected CallStat, got %T", c.Block.Stats[1])
	}
	if _, ok := callStat.Call.(*ast.CallExp); !ok {
		t.Fatalf("expected CallExp, got %T", callStat.Call)
	}
}

func TestParseMethodCallStat(t *testing.T) {
	c := mustParse(t, "obj:method(1)")
	callStat, ok := c.Block.Stats[0].(*ast.CallStat)
	if !ok {
		t.Fatalf("expected CallStat, got %T", c.Block.Stats[0])
	}
	if _, ok := callStat.Call.(*ast.MethodCallExp); !ok {
		t.Fatalf("expected MethodCallExp, got %T", callStat.Call)
	}
}

func TestParseTableConstructorMixedFields(t *testing.T) {
	c := mustParse(t, "local t = {1, 2, name = 'x', [3+1] = true}")
	stat := c.Block.Stats[0].(*ast.LocalAssignStat)
	table := stat.Exps[0].(*ast.TableConstructorExp)
	if len(table.Fields) != 4 {
		t.Fatalf("expected 4 fields, got %d", len(table.Fields))
	}
	if table.Fields[0].Kind != ast.FieldPositional || table.Fields[1].Kind != ast.FieldPositional {
		t.Fatalf("expected first two fields positional")
	}
	if table.Fields[2].Kind != ast.FieldNamed {
		t.Fatalf("expected third field named")
	}
	if table.Fields[3].Kind != ast.FieldKeyed {
		t.Fatalf("expected fourth field keyed")
	}
}

func TestParseBinaryPrecedence(t *testing.T) {
	// 1 + 2 * 3 must parse as 1 + (2 * 3)
	c := mustParse(t, "local x = 1 + 2 * 3")
	stat := c.Block.Stats[0].(*ast.LocalAssignStat)
	add, ok := stat.Exps[0].(*ast.BinopExp)
	if !ok || add.Op != ast.OpAdd {
		t.Fatalf("expected top-level '+', got %#v", stat.Exps[0])
	}
	if _, ok := add.Left.(*ast.NumberExp); !ok {
		t.Fatalf("expected left operand to be a plain number literal")
	}
	mul, ok := add.Right.(*ast.BinopExp)
	if !ok || mul.Op != ast.OpMul {
		t.Fatalf("expected right operand to be '*', got %#v", add.Right)
	}
}

func TestParsePowRightAssociative(t *testing.T) {
	// 2 ^ 3 ^ 2 must parse as 2 ^ (3 ^ 2)
	c := mustParse(t, "local x = 2 ^ 3 ^ 2")
	stat := c.Block.Stats[0].(*ast.LocalAssignStat)
	outer := stat.Exps[0].(*ast.BinopExp)
	if outer.Op != ast.OpPow {
		t.Fatalf("expected outer '^', got %#v", outer)
	}
	if _, ok := outer.Right.(*ast.BinopExp); !ok {
		t.Fatalf("expected right-associative nesting on the right operand")
	}
}

func TestParseLongStringAndComment(t *testing.T) {
	src := "--[[ skip this ]]\nlocal s = [[hello]]"
	c := mustParse(t, src)
	stat := c.Block.Stats[0].(*ast.LocalAssignStat)
	strExp, ok := stat.Exps[0].(*ast.StringExp)
	if !ok || strExp.Str != "hello" {
		t.Fatalf("got %#v, want StringExp(hello)", stat.Exps[0])
	}
}

func TestParseIndexAssignment(t *testing.T) {
	c := mustParse(t, "t.x = 1\nt[1] = 2")
	if len(c.Block.Stats) != 2 {
		t.Fatalf("expected 2 statements, got %d", len(c.Block.Stats))
	}
	for _, s := range c.Block.Stats {
		assign, ok := s.(*ast.AssignStat)
		if !ok {
			t.Fatalf("expected AssignStat, got %T", s)
		}
		if _, ok := assign.Targets[0].(*ast.IndexExp); !ok {
			t.Fatalf("expected IndexExp target, got %T", assign.Targets[0])
		}
	}
}

func TestParseSyntaxError(t *testing.T) {
	_, err := Parse("local x = ", "bad", "bad")
	if err == nil {
		t.Fatal("expected a syntax error")
	}
}
