package registry

import "testing"

func TestRegisterAndGet(t *testing.T) {
	r := New()
	sig, err := r.Register("add", []string{"a", "b"}, true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := r.Get("add"); got != sig {
		t.Fatal("Get did not return the registered signature")
	}
	if !r.Has("add") {
		t.Fatal("expected Has(add) to be true")
	}
}

func TestRegisterDuplicateParamFails(t *testing.T) {
	r := New()
	if _, err := r.Register("f", []string{"x", "x"}, true); err == nil {
		t.Fatal("expected an error for duplicate parameter names")
	}
}

// §4.3 — a callee referenced before its definition is auto-registered as
// a zero-parameter stub, so forward references never fail registration.
func TestForwardReferenceAutoRegisters(t *testing.T) {
	r := New()
	r.RecordCallSite("main", "helper", []string{"x"}, 10)

	if !r.Has("helper") {
		t.Fatal("expected helper to be auto-registered")
	}
	sites := r.CallSites("helper")
	if len(sites) != 1 || sites[0].Caller != "main" || sites[0].Line != 10 {
		t.Fatalf("unexpected call sites: %+v", sites)
	}
	callers := r.Callers("helper")
	if len(callers) != 1 || callers[0] != "main" {
		t.Fatalf("unexpected callers: %+v", callers)
	}
}

func TestCallSiteArgSymbol(t *testing.T) {
	cs := CallSite{ArgSymbols: []string{"x", "", "y"}}
	if name, ok := cs.ArgSymbol(0); !ok || name != "x" {
		t.Fatalf("ArgSymbol(0) = (%q, %v)", name, ok)
	}
	if _, ok := cs.ArgSymbol(1); ok {
		t.Fatal("expected ArgSymbol(1) to report false for a non-identifier argument")
	}
	if _, ok := cs.ArgSymbol(5); ok {
		t.Fatal("expected an out-of-range index to report false")
	}
}

func TestParamIndex(t *testing.T) {
	r := New()
	r.Register("f", []string{"a", "b", "c"}, true)
	if i := r.Get("f").ParamIndex("b"); i != 1 {
		t.Fatalf("ParamIndex(b) = %d, want 1", i)
	}
	if i := r.Get("f").ParamIndex("missing"); i != -1 {
		t.Fatalf("ParamIndex(missing) = %d, want -1", i)
	}
}

func TestAllFunctionsPreservesRegistrationOrder(t *testing.T) {
	r := New()
	r.Register("z", nil, true)
	r.Register("a", nil, true)
	r.Register("m", nil, true)

	got := r.AllFunctions()
	want := []string{"z", "a", "m"}
	if len(got) != len(want) {
		t.Fatalf("AllFunctions() = %v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("AllFunctions() = %v, want %v", got, want)
		}
	}
}

func TestComputeStats(t *testing.T) {
	r := New()
	r.Register("f", []string{"a", "b"}, true)
	r.RecordCallSite("main", "f", []string{"1", "2"}, 5)

	stats := r.ComputeStats()
	if stats.TotalFunctions != 1 {
		t.Fatalf("TotalFunctions = %d, want 1", stats.TotalFunctions)
	}
	if stats.TotalParameters != 2 {
		t.Fatalf("TotalParameters = %d, want 2", stats.TotalParameters)
	}
	if stats.TotalCallSites != 1 {
		t.Fatalf("TotalCallSites = %d, want 1", stats.TotalCallSites)
	}
}
