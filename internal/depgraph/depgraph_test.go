package depgraph

import "testing"

// S7 — main requires utils, utils requires helper, helper has no deps.
// Expected order: helper, utils, main.
func TestTopologicalOrder(t *testing.T) {
	modules := []ModuleInfo{
		{Name: "main", Requires: []Requirement{{Module: "utils", Line: 1}}},
		{Name: "utils", Requires: []Requirement{{Module: "helper", Line: 1}}},
		{Name: "helper"},
	}
	g := BuildGraph(modules)
	order, err := g.TopologicalSort()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{"helper", "utils", "main"}
	if len(order) != len(want) {
		t.Fatalf("order = %v, want %v", order, want)
	}
	for i, name := range want {
		if order[i] != name {
			t.Fatalf("order = %v, want %v", order, want)
		}
	}
}

// S6 — a requires b, b requires a: resolution must fail, reporting a
// concrete cycle.
func TestCycleDetected(t *testing.T) {
	modules := []ModuleInfo{
		{Name: "a", Requires: []Requirement{{Module: "b", Line: 1}}},
		{Name: "b", Requires: []Requirement{{Module: "a", Line: 1}}},
	}
	g := BuildGraph(modules)
	_, err := g.TopologicalSort()
	if err == nil {
		t.Fatal("expected a cycle error")
	}
	cycleErr, ok := err.(*CycleError)
	if !ok {
		t.Fatalf("expected *CycleError, got %T", err)
	}
	if len(cycleErr.Cycle) < 2 {
		t.Fatalf("expected a concrete cycle, got %v", cycleErr.Cycle)
	}
}

func TestUnresolvedRequireFails(t *testing.T) {
	modules := []ModuleInfo{
		{Name: "main", Requires: []Requirement{{Module: "missing", Line: 3}}},
	}
	if _, err := Resolve(modules); err == nil {
		t.Fatal("expected an error for an unresolved require")
	}
}

func TestPathToModuleName(t *testing.T) {
	cases := map[string]string{
		"utils.lua":        "utils",
		"a/b.lua":          "a__b",
		"src/core/util.lua": "src__core__util",
	}
	for in, want := range cases {
		if got := PathToModuleName(in); got != want {
			t.Errorf("PathToModuleName(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestRequireLiteralToModuleName(t *testing.T) {
	if got := RequireLiteralToModuleName("a.b.c"); got != "a__b__c" {
		t.Errorf("got %q", got)
	}
}

func TestModulesAndDependents(t *testing.T) {
	modules := []ModuleInfo{
		{Name: "main", Requires: []Requirement{{Module: "utils", Line: 1}}},
		{Name: "utils"},
	}
	g := BuildGraph(modules)
	names := g.Modules()
	if len(names) != 2 || names[0] != "main" || names[1] != "utils" {
		t.Fatalf("Modules() = %v, want insertion order [main utils]", names)
	}
	if !g.Dependents("utils")["main"] {
		t.Fatalf("expected main to be a dependent of utils")
	}
}
