package tui

import (
	"strings"
	"testing"

	"github.com/lua2cpp/lua2cpp/internal/depgraph"
)

func testGraph(t *testing.T) *depgraph.Graph {
	t.Helper()
	modules := []depgraph.ModuleInfo{
		{Name: "main", Requires: []depgraph.Requirement{{Module: "utils", Line: 1}}},
		{Name: "utils", Requires: []depgraph.Requirement{{Module: "helper", Line: 1}}},
		{Name: "helper"},
	}
	return depgraph.BuildGraph(modules)
}

func TestNewBrowserBuildsOneNodePerModule(t *testing.T) {
	b := NewBrowser(testGraph(t))
	children := b.tree.GetRoot().GetChildren()
	if len(children) != 3 {
		t.Fatalf("expected 3 module nodes, got %d", len(children))
	}
	names := map[string]bool{}
	for _, c := range children {
		names[c.GetText()] = true
	}
	for _, want := range []string{"main", "utils", "helper"} {
		if !names[want] {
			t.Fatalf("expected a node for %q, got %v", want, names)
		}
	}
}

func TestShowDetailListsDepsAndDependents(t *testing.T) {
	b := NewBrowser(testGraph(t))
	b.showDetail("utils")
	text := b.detail.GetText(true)
	if !strings.Contains(text, "helper") {
		t.Fatalf("expected utils' dependency helper in detail, got:\n%s", text)
	}
	if !strings.Contains(text, "main") {
		t.Fatalf("expected utils' dependent main in detail, got:\n%s", text)
	}
}

func TestShowDetailNoDepsOrDependents(t *testing.T) {
	b := NewBrowser(testGraph(t))
	b.showDetail("helper")
	text := b.detail.GetText(true)
	if !strings.Contains(text, "requires: (none)") {
		t.Fatalf("expected helper to have no requires, got:\n%s", text)
	}
}
