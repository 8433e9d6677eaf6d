package emit

import (
	"strings"
	"testing"

	"github.com/lua2cpp/lua2cpp/internal/diag"
	"github.com/lua2cpp/lua2cpp/internal/infer"
	"github.com/lua2cpp/lua2cpp/internal/parser"
	"github.com/lua2cpp/lua2cpp/internal/registry"
)

func compile(t *testing.T, src string, opts Options) *ModuleOutput {
	t.Helper()
	chunk, err := parser.Parse(src, "test", "test")
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	reg := registry.New()
	log := diag.NewLog(false)
	eng := infer.New("test", reg, log)
	eng.Run(chunk)

	em := New("test", reg, eng, log, opts)
	out, err := em.EmitModule(chunk)
	if err != nil {
		t.Fatalf("emit error: %v", err)
	}
	return out
}

func TestEmitArithmeticSpecializesNative(t *testing.T) {
	out := compile(t, "local x = 1\nlocal y = x + 2\n", Options{ProjectName: "test"})
	if !strings.Contains(out.Body, "double x = 1.0;") {
		t.Fatalf("expected specialized double declaration, got:\n%s", out.Body)
	}
	if !strings.Contains(out.Body, "(x + 2.0)") {
		t.Fatalf("expected native '+' for two numbers, got:\n%s", out.Body)
	}
}

func TestEmitStringConcatUsesRuntimeHelper(t *testing.T) {
	out := compile(t, `local s = "a" .. "b"`, Options{ProjectName: "test"})
	if !strings.Contains(out.Body, "lua2cpp::concat(") {
		t.Fatalf("expected concat helper, got:\n%s", out.Body)
	}
}

func TestEmitModuleFunctionForwardDeclared(t *testing.T) {
	out := compile(t, "local function add(a, b) return a + b end\n", Options{ProjectName: "test"})
	if !strings.Contains(out.Header, "_l2c__test__export") {
		t.Fatalf("expected module export forward declaration in header, got:\n%s", out.Header)
	}
	if !strings.Contains(out.Body, "_l2c__test_add") {
		t.Fatalf("expected mangled function name in body, got:\n%s", out.Body)
	}
}

func TestEmitLocalCallMaterializesLiteralArg(t *testing.T) {
	out := compile(t, "local function id(x) return x end\nlocal y = id(1)\n", Options{ProjectName: "test"})
	if !strings.Contains(out.Body, "lua2cpp::temp(1.0)") {
		t.Fatalf("expected a materialized temporary for the literal argument, got:\n%s", out.Body)
	}
}

func TestEmitPrintIsVariadicStandaloneCall(t *testing.T) {
	out := compile(t, `print("hi", 1)`, Options{ProjectName: "test"})
	if !out.UsedStandalone["print"] {
		t.Fatal("expected print to be recorded as a used standalone function")
	}
	if !strings.Contains(out.Body, "state->print({") {
		t.Fatalf("expected boxed-vector call shape for print, got:\n%s", out.Body)
	}
}

func TestEmitStaticLibraryCall(t *testing.T) {
	out := compile(t, `local n = math.sqrt(4)`, Options{ProjectName: "test"})
	if !out.UsedLibrary["math"]["sqrt"] {
		t.Fatal("expected math.sqrt to be recorded as used")
	}
	if !strings.Contains(out.Body, "state->math.math_sqrt(4.0)") {
		t.Fatalf("expected static library call shape, got:\n%s", out.Body)
	}
}

func TestEmitRequireInProjectMode(t *testing.T) {
	out := compile(t, `local u = require("utils")`, Options{ProjectName: "proj", ProjectMode: true})
	if !strings.Contains(out.Body, `state->modules["utils"](state)`) {
		t.Fatalf("expected module registry lookup, got:\n%s", out.Body)
	}
}

func TestEmitNumericForLiteralStep(t *testing.T) {
	out := compile(t, "for i = 1, 10 do end\n", Options{ProjectName: "test"})
	if !strings.Contains(out.Body, "i <= 10") {
		t.Fatalf("expected a native <= loop condition for a positive step, got:\n%s", out.Body)
	}
}

func TestEmitNumericForNegativeLiteralStep(t *testing.T) {
	out := compile(t, "for i = 10, 1, -1 do end\n", Options{ProjectName: "test"})
	if !strings.Contains(out.Body, "i >= 1") {
		t.Fatalf("expected a native >= loop condition for a negative step, got:\n%s", out.Body)
	}
}

func TestEmitNumericForDynamicStepUsesHelper(t *testing.T) {
	out := compile(t, "local s = 1\nfor i = 1, 10, s do end\n", Options{ProjectName: "test"})
	if !strings.Contains(out.Body, "lua2cpp_for_step_cond(i, 10.0, s)") {
		t.Fatalf("expected the step-sign-safe helper for a non-literal step, got:\n%s", out.Body)
	}
}

func TestEmitOrShortCircuitPureTernary(t *testing.T) {
	out := compile(t, "local x = 1\nlocal y = x or 2\n", Options{ProjectName: "test"})
	if !strings.Contains(out.Body, "lua2cpp::truthy(x) ? (x) : (2.0)") {
		t.Fatalf("expected a plain ternary for pure operands, got:\n%s", out.Body)
	}
}

func TestEmitLibModeOmitsArg(t *testing.T) {
	out := compile(t, "local x = 1\n", Options{ProjectName: "test", Lib: true})
	if strings.Contains(out.Body, "state->arg") {
		t.Fatalf("--lib mode should never reference state->arg, got:\n%s", out.Body)
	}
}

func TestEmitGlobalInProjectModeUsesStateStruct(t *testing.T) {
	out := compile(t, "x = 1\n", Options{ProjectName: "proj", ProjectMode: true})
	if !out.UsedGlobals["x"] {
		t.Fatal("expected x to be recorded as a used global")
	}
	if !strings.Contains(out.Body, "state->globals.x = 1.0;") {
		t.Fatalf("expected a state-struct global assignment, got:\n%s", out.Body)
	}
}

func TestEmitGlobalOutsideProjectModeUsesRuntimeLookup(t *testing.T) {
	out := compile(t, "x = 1\nlocal y = x\n", Options{ProjectName: "test"})
	if !strings.Contains(out.Body, "lua2cpp::set_global(state,") {
		t.Fatalf("expected a runtime set_global call for the assignment, got:\n%s", out.Body)
	}
	if !strings.Contains(out.Body, "lua2cpp::get_global(state,") {
		t.Fatalf("expected a runtime get_global call for the read, got:\n%s", out.Body)
	}
}

func TestEmitNonLiteralRequireFallsBackToDefaultCall(t *testing.T) {
	// require() on a non-literal argument falls through every named
	// strategy (not a local function, not a library call, not a literal
	// require) straight to the default fallback rather than panicking —
	// dependency extraction also skips it, so no module edge is recorded
	// for it either.
	out := compile(t, "local mod = \"m\"\nlocal u = require(mod)\n", Options{ProjectName: "proj", ProjectMode: true})
	if !strings.Contains(out.Body, "(require)({") {
		t.Fatalf("expected the default fallback call shape, got:\n%s", out.Body)
	}
}
