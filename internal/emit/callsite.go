package emit

import (
	"strings"

	"github.com/lua2cpp/lua2cpp/internal/ast"
	"github.com/lua2cpp/lua2cpp/internal/diag"
	"github.com/lua2cpp/lua2cpp/internal/naming"
)

// emitCall lowers a CallExp per the call-site strategy table (spec.md
// §4.7): each call is classified once and dispatched to the matching
// emitted shape.
func (em *Emitter) emitCall(n *ast.CallExp) string {
	if name, ok := dottedTargetName(n.Fn); ok {
		if name == "require" && em.Opts.ProjectMode {
			if lit, ok := soleStringLiteral(n.Args); ok {
				return "state->modules[\"" + requireModuleName(lit) + "\"](state)"
			}
		}
		if em.localFuncs[name] {
			return em.emitLocalCall(name, n.Args)
		}
		if fn, ok := em.Libs.Standalone(name); ok {
			em.usedStandalone[name] = true
			return em.emitLibraryCall("state->"+fn.CppName, fn, n.Args)
		}
	}
	if idx, ok := n.Fn.(*ast.IndexExp); ok {
		if obj, ok := idx.Obj.(*ast.NameExp); ok && isStdlibModuleName(obj.Name) {
			if key, ok := idx.Key.(*ast.StringExp); ok {
				if fn, ok := em.Libs.Lookup(obj.Name, key.Str); ok {
					em.markLibraryUsed(obj.Name, fn.Name)
					return em.emitLibraryCall("state->"+obj.Name+"."+fn.CppName, fn, n.Args)
				}
			}
		}
	}
	em.Diag.Infof(em.ModulePath, n.Line, diag.KindDynamicCallSite,
		"call to a dynamic value falls back to boxed-argument dispatch")
	return em.emitDefaultCall(em.emitExp(n.Fn), n.Args)
}

// emitMethodCall lowers obj:method(args) as obj["method"](obj, args...)
// (spec.md §4.7 "Method invocation").
func (em *Emitter) emitMethodCall(n *ast.MethodCallExp) string {
	objText := em.emitExp(n.Obj)
	key := em.pool.Name(em.pool.Intern(n.Method))
	callee := "lua2cpp::index(" + objText + ", " + key + ")"
	args := append([]ast.Exp{n.Obj}, n.Args...)
	return em.emitDefaultCall(callee, args)
}

// emitLocalCall handles the "Local function" strategy: a direct C++
// call, materializing a temporary for any literal/non-lvalue argument so
// reference parameters still bind (spec.md §4.7 table, row 1).
func (em *Emitter) emitLocalCall(name string, args []ast.Exp) string {
	parts := []string{"state"}
	for _, a := range args {
		parts = append(parts, em.materializeArg(a))
	}
	return naming.FunctionName(em.ModulePath, name) + "(" + strings.Join(parts, ", ") + ")"
}

// materializeArg wraps a non-lvalue argument (anything but a bare name)
// in a temporary-binding helper so it can still be passed where the
// callee expects a reference-capable parameter.
func (em *Emitter) materializeArg(a ast.Exp) string {
	text := em.emitExp(a)
	if _, ok := a.(*ast.NameExp); ok {
		return text
	}
	return "lua2cpp::temp(" + text + ")"
}

// emitLibraryCall handles both the "Static library" and "Variadic
// library" rows: a fully-typed signature calls natively with its
// arguments passed straight through; a variadic one collects arguments
// into a boxed vector (spec.md §4.7 table, rows 2-3). string.format's
// first argument is kept separate from the variadic tail.
func (em *Emitter) emitLibraryCall(callee string, fn *Function, args []ast.Exp) string {
	if !fn.AlwaysVariadic {
		var parts []string
		for _, a := range args {
			parts = append(parts, em.emitExp(a))
		}
		return callee + "(" + strings.Join(parts, ", ") + ")"
	}
	if fn.Module == "string" && fn.Name == "format" && len(args) > 0 {
		rest := em.boxArgs(args[1:])
		return callee + "(" + em.emitExp(args[0]) + ", {" + rest + "})"
	}
	return callee + "({" + em.boxArgs(args) + "})"
}

// emitDefaultCall handles the fallback row: the callee is itself a
// value, invoked with every argument boxed (spec.md §4.7 table, row 5).
func (em *Emitter) emitDefaultCall(callee string, args []ast.Exp) string {
	return "(" + callee + ")({" + em.boxArgs(args) + "})"
}

func (em *Emitter) boxArgs(args []ast.Exp) string {
	var parts []string
	for _, a := range args {
		parts = append(parts, "lua2cpp::box("+em.emitExp(a)+")")
	}
	return strings.Join(parts, ", ")
}

func soleStringLiteral(args []ast.Exp) (string, bool) {
	if len(args) != 1 {
		return "", false
	}
	s, ok := args[0].(*ast.StringExp)
	if !ok {
		return "", false
	}
	return s.Str, true
}
