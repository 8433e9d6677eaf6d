package emit

import (
	"strconv"
	"strings"

	"github.com/lua2cpp/lua2cpp/internal/ast"
	"github.com/lua2cpp/lua2cpp/internal/types"
)

// cppKeywords are C++ reserved words that collide with legal Lua
// identifiers; emitted names that hit one get a trailing underscore.
var cppKeywords = map[string]bool{
	"class": true, "new": true, "delete": true, "operator": true,
	"template": true, "namespace": true, "this": true, "public": true,
	"private": true, "protected": true, "friend": true, "union": true,
	"typename": true, "export": true, "struct": true, "virtual": true,
}

func safeIdent(name string) string {
	if cppKeywords[name] {
		return name + "_"
	}
	return name
}

// emitExp lowers one expression to C++ text, driven by the type
// information C5 attached to its operands (spec.md §4.7 "Expression
// lowering").
func (em *Emitter) emitExp(e ast.Exp) string {
	switch n := e.(type) {
	case *ast.NilExp:
		return "lua2cpp::nil()"
	case *ast.TrueExp:
		return "true"
	case *ast.FalseExp:
		return "false"
	case *ast.VarargExp:
		return "lua2cpp::varargs()"
	case *ast.NumberExp:
		return formatNumber(n.Value)
	case *ast.StringExp:
		return em.pool.Name(em.pool.Intern(n.Str))
	case *ast.UnopExp:
		return em.emitUnop(n)
	case *ast.BinopExp:
		return em.emitBinop(n)
	case *ast.TableConstructorExp:
		return em.emitTableConstructor(n)
	case *ast.FuncDefExp:
		return em.emitLambda(n)
	case *ast.NameExp:
		return em.emitName(n)
	case *ast.ParenExp:
		return "(" + em.emitExp(n.Exp) + ")"
	case *ast.IndexExp:
		return em.emitIndex(n)
	case *ast.CallExp:
		return em.emitCall(n)
	case *ast.MethodCallExp:
		return em.emitMethodCall(n)
	}
	em.errorf(ast.Line(e), "emit: unsupported expression node %T", e)
	return ""
}

func formatNumber(v float64) string {
	s := strconv.FormatFloat(v, 'g', -1, 64)
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}
	return s
}

// emitName lowers a name reference, picking up the §9(ii) Open Question
// resolution: in project mode a global becomes a state-struct member
// (so every module sharing the state sees the same slot); outside
// project mode (single-file/library builds, which have no shared state
// to carry it) a global instead reads through a runtime environment
// lookup.
func (em *Emitter) emitName(n *ast.NameExp) string {
	if n.Name == "arg" {
		em.usesArg = true
		return "state->arg"
	}
	if isStdlibModuleName(n.Name) {
		return "state->" + n.Name
	}
	if em.Infer.Scopes.IsGlobalName(n.Name) {
		if em.Opts.ProjectMode {
			em.usedGlobals[n.Name] = true
			return "state->globals." + safeIdent(n.Name)
		}
		return "lua2cpp::get_global(state, " + em.pool.Name(em.pool.Intern(n.Name)) + ")"
	}
	return safeIdent(n.Name)
}

func isStdlibModuleName(name string) bool {
	for _, m := range StandardLibraries {
		if m == name {
			return true
		}
	}
	return false
}

func (em *Emitter) emitUnop(n *ast.UnopExp) string {
	operand := em.emitExp(n.Exp)
	t := em.typeOfExp(n.Exp)
	switch n.Op {
	case ast.UnopMinus:
		if t.Kind == types.Number {
			return "(-(" + operand + "))"
		}
		return "lua2cpp::neg(" + operand + ")"
	case ast.UnopNot:
		if t.Kind == types.Boolean {
			return "(!(" + operand + "))"
		}
		return "lua2cpp::lnot(" + operand + ")"
	case ast.UnopLen:
		return "lua2cpp::len(" + operand + ")"
	case ast.UnopBNot:
		return "lua2cpp::bnot(" + operand + ")"
	}
	em.errorf(n.Line, "emit: unsupported unary operator %d", n.Op)
	return ""
}

var arithNative = map[int]string{
	ast.OpAdd: "+", ast.OpSub: "-", ast.OpMul: "*", ast.OpDiv: "/",
}

var compareNative = map[int]string{
	ast.OpEq: "==", ast.OpNe: "!=", ast.OpLt: "<", ast.OpLe: "<=", ast.OpGt: ">", ast.OpGe: ">=",
}

var runtimeHelper = map[int]string{
	ast.OpAdd: "lua2cpp::add", ast.OpSub: "lua2cpp::sub", ast.OpMul: "lua2cpp::mul", ast.OpDiv: "lua2cpp::div",
	ast.OpIDiv: "lua2cpp::idiv", ast.OpMod: "lua2cpp::mod", ast.OpPow: "lua2cpp::pow",
	ast.OpEq: "lua2cpp::eq", ast.OpNe: "lua2cpp::ne", ast.OpLt: "lua2cpp::lt",
	ast.OpLe: "lua2cpp::le", ast.OpGt: "lua2cpp::gt", ast.OpGe: "lua2cpp::ge",
	ast.OpBAnd: "lua2cpp::band", ast.OpBOr: "lua2cpp::bor", ast.OpBXor: "lua2cpp::bxor",
	ast.OpShl: "lua2cpp::shl", ast.OpShr: "lua2cpp::shr",
}

func (em *Emitter) emitBinop(n *ast.BinopExp) string {
	switch n.Op {
	case ast.OpAnd:
		return em.emitShortCircuit(n, false)
	case ast.OpOr:
		return em.emitShortCircuit(n, true)
	case ast.OpConcat:
		return "lua2cpp::concat(" + em.emitExp(n.Left) + ", " + em.emitExp(n.Right) + ")"
	}

	left := em.emitExp(n.Left)
	right := em.emitExp(n.Right)
	lt := em.typeOfExp(n.Left)
	rt := em.typeOfExp(n.Right)
	bothNumber := lt.Kind == types.Number && rt.Kind == types.Number

	if ast.IsArith(n.Op) {
		if op, ok := arithNative[n.Op]; ok && bothNumber {
			return "(" + left + " " + op + " " + right + ")"
		}
		if helper, ok := runtimeHelper[n.Op]; ok {
			return helper + "(" + left + ", " + right + ")"
		}
	}
	if ast.IsCompare(n.Op) {
		bothString := lt.Kind == types.String && rt.Kind == types.String
		if op, ok := compareNative[n.Op]; ok && (bothNumber || bothString) {
			return "(" + left + " " + op + " " + right + ")"
		}
		return runtimeHelper[n.Op] + "(" + left + ", " + right + ")"
	}
	if ast.IsBitwise(n.Op) {
		return runtimeHelper[n.Op] + "(" + left + ", " + right + ")"
	}
	em.errorf(n.Line, "emit: unsupported binary operator %d", n.Op)
	return ""
}

// emitShortCircuit lowers and/or (spec.md §4.7): a ternary when both
// sides are pure, an IIFE capturing the left operand once when either
// side could have side effects — so a call on the left is never
// evaluated twice.
func (em *Emitter) emitShortCircuit(n *ast.BinopExp, isOr bool) string {
	left := em.emitExp(n.Left)
	right := em.emitExp(n.Right)
	if isPure(n.Left) && isPure(n.Right) {
		if isOr {
			return "(lua2cpp::truthy(" + left + ") ? (" + left + ") : (" + right + "))"
		}
		return "(lua2cpp::truthy(" + left + ") ? (" + right + ") : (" + left + "))"
	}
	cond := "lua2cpp::truthy(__lhs)"
	if isOr {
		return "([&]{ auto __lhs = " + left + "; return " + cond + " ? __lhs : (" + right + "); }())"
	}
	return "([&]{ auto __lhs = " + left + "; return " + cond + " ? (" + right + ") : __lhs; }())"
}

// isPure reports whether e can be evaluated twice without observable
// effect — used to pick and/or's cheaper ternary lowering.
func isPure(e ast.Exp) bool {
	switch n := e.(type) {
	case *ast.NilExp, *ast.TrueExp, *ast.FalseExp, *ast.NumberExp, *ast.StringExp, *ast.NameExp, *ast.VarargExp:
		return true
	case *ast.UnopExp:
		return isPure(n.Exp)
	case *ast.BinopExp:
		return isPure(n.Left) && isPure(n.Right)
	case *ast.ParenExp:
		return isPure(n.Exp)
	case *ast.IndexExp:
		return isPure(n.Obj) && isPure(n.Key)
	}
	return false
}

func (em *Emitter) emitTableConstructor(n *ast.TableConstructorExp) string {
	var entries []string
	nextIndex := 1
	for _, f := range n.Fields {
		switch f.Kind {
		case ast.FieldPositional:
			entries = append(entries, "{lua2cpp::box("+strconv.Itoa(nextIndex)+"), lua2cpp::box("+em.emitExp(f.Val)+")}")
			nextIndex++
		case ast.FieldNamed:
			key := f.Key.(*ast.StringExp).Str
			entries = append(entries, "{lua2cpp::box(std::string(\""+key+"\")), lua2cpp::box("+em.emitExp(f.Val)+")}")
		case ast.FieldKeyed:
			entries = append(entries, "{lua2cpp::box("+em.emitExp(f.Key)+"), lua2cpp::box("+em.emitExp(f.Val)+")}")
		}
	}
	return "lua2cpp::make_table({" + strings.Join(entries, ", ") + "})"
}

// emitLambda lowers an anonymous function literal to a C++ lambda.
// Named module-level functions (LocalFunctionStat/FunctionStat) take the
// dedicated free-function path in stmt.go instead; only function
// literals that appear as plain expressions (table fields, call
// arguments, `local f = function() ... end`) reach here.
func (em *Emitter) emitLambda(n *ast.FuncDefExp) string {
	params := []string{StateTypeName(em.Opts.ProjectName) + "* state"}
	for _, p := range n.ParList {
		params = append(params, "auto " + safeIdent(p))
	}
	if n.IsVararg {
		params = append(params, "auto... varargs")
	}
	body := &buffer{}
	body.push()
	for _, s := range n.Block.Stats {
		em.emitStat(body, s)
	}
	if len(n.Block.RetExps) > 0 {
		body.line("return %s;", em.emitExpListAsValue(n.Block.RetExps))
	}
	body.pop()
	return "[=](" + strings.Join(params, ", ") + ") -> luaValue {\n" + body.String() + "    }"
}

func (em *Emitter) typeOfExp(e ast.Exp) types.Type {
	if n, ok := e.(*ast.NameExp); ok {
		return em.Infer.TypeOf(n.Name)
	}
	if _, ok := e.(*ast.NumberExp); ok {
		return types.New(types.Number)
	}
	if _, ok := e.(*ast.StringExp); ok {
		return types.New(types.String)
	}
	if _, ok := e.(*ast.TrueExp); ok {
		return types.New(types.Boolean)
	}
	if _, ok := e.(*ast.FalseExp); ok {
		return types.New(types.Boolean)
	}
	if n, ok := e.(*ast.BinopExp); ok && ast.IsArith(n.Op) {
		lt, rt := em.typeOfExp(n.Left), em.typeOfExp(n.Right)
		if lt.Kind == types.Number && rt.Kind == types.Number {
			return types.New(types.Number)
		}
	}
	if n, ok := e.(*ast.ParenExp); ok {
		return em.typeOfExp(n.Exp)
	}
	return types.New(types.Unknown)
}

// emitExpListAsValue lowers a return/assignment expression list to a
// single C++ expression: one value returns directly, multiple values
// are packed into a boxed table (the emitted runtime's stand-in for
// Lua's multiple-return-value semantics).
func (em *Emitter) emitExpListAsValue(exps []ast.Exp) string {
	if len(exps) == 1 {
		return em.emitExp(exps[0])
	}
	var parts []string
	for _, e := range exps {
		parts = append(parts, em.emitExp(e))
	}
	return "lua2cpp::pack({" + strings.Join(parts, ", ") + "})"
}

func (em *Emitter) emitIndex(n *ast.IndexExp) string {
	if obj, ok := n.Obj.(*ast.NameExp); ok && isStdlibModuleName(obj.Name) {
		if key, ok := n.Key.(*ast.StringExp); ok {
			if fn, ok := em.Libs.Lookup(obj.Name, key.Str); ok {
				em.markLibraryUsed(obj.Name, fn.Name)
				return "state->" + obj.Name + "." + fn.CppName
			}
		}
	}
	return "lua2cpp::index(" + em.emitExp(n.Obj) + ", " + em.emitExp(n.Key) + ")"
}

func (em *Emitter) markLibraryUsed(module, name string) {
	m := em.usedLibrary[module]
	if m == nil {
		m = map[string]bool{}
		em.usedLibrary[module] = m
	}
	m[name] = true
}
