// Package tui implements the interactive module dependency-graph
// browser (`lua2cpp graph`, SPEC_FULL.md DOMAIN STACK), replacing the
// teacher's REPL/term interactive surface with one over the compile
// pipeline's own data instead of a Lua value stack. Built on
// `github.com/rivo/tview` over `github.com/gdamore/tcell/v2`, the pack's
// terminal-UI stack (carried from `_examples/dshills-keystorm`'s direct
// tcell usage up one layer of abstraction, since a tree browser is
// exactly tview's stock widget rather than something worth hand-rolling
// against raw tcell cells).
package tui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"github.com/lua2cpp/lua2cpp/internal/depgraph"
)

// Browser is one running instance of the graph browser.
type Browser struct {
	app    *tview.Application
	tree   *tview.TreeView
	detail *tview.TextView
	graph  *depgraph.Graph
}

// NewBrowser builds (but does not yet run) a browser over g.
func NewBrowser(g *depgraph.Graph) *Browser {
	root := tview.NewTreeNode("modules").
		SetColor(tcell.ColorYellow).
		SetSelectable(false)

	names := g.Modules()
	sort.Strings(names)
	for _, name := range names {
		root.AddChild(newModuleNode(name))
	}

	tree := tview.NewTreeView().
		SetRoot(root).
		SetCurrentNode(root)
	tree.SetBorder(true).SetTitle(" dependency graph ")

	detail := tview.NewTextView().
		SetDynamicColors(true).
		SetWordWrap(true)
	detail.SetBorder(true).SetTitle(" module ")

	b := &Browser{
		app:    tview.NewApplication(),
		tree:   tree,
		detail: detail,
		graph:  g,
	}

	tree.SetSelectedFunc(func(node *tview.TreeNode) {
		name, ok := node.GetReference().(string)
		if !ok {
			node.SetExpanded(!node.IsExpanded())
			return
		}
		b.showDetail(name)
		node.SetExpanded(!node.IsExpanded())
	})

	return b
}

func newModuleNode(name string) *tview.TreeNode {
	return tview.NewTreeNode(name).
		SetReference(name).
		SetColor(tcell.ColorGreen).
		SetSelectable(true)
}

// showDetail renders name's dependencies and dependents into the
// detail pane (spec.md §3's graph, surfaced for human inspection).
func (b *Browser) showDetail(name string) {
	var lines []string
	lines = append(lines, fmt.Sprintf("[yellow]%s[-]", name))

	deps := sortedNames(b.graph.Dependencies(name))
	if len(deps) == 0 {
		lines = append(lines, "requires: (none)")
	} else {
		lines = append(lines, "requires:")
		for _, d := range deps {
			lines = append(lines, "  - "+d)
		}
	}

	dependents := sortedNames(b.graph.Dependents(name))
	if len(dependents) == 0 {
		lines = append(lines, "required by: (none)")
	} else {
		lines = append(lines, "required by:")
		for _, d := range dependents {
			lines = append(lines, "  - "+d)
		}
	}

	b.detail.SetText(strings.Join(lines, "\n"))
}

func sortedNames(m map[string]bool) []string {
	out := make([]string, 0, len(m))
	for name := range m {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Run displays the browser full-screen until the user quits (Escape or
// 'q'), mirroring the teacher's REPL's single top-level input loop but
// driven by tview's event loop instead of a line reader.
func (b *Browser) Run() error {
	flex := tview.NewFlex().
		AddItem(b.tree, 0, 1, true).
		AddItem(b.detail, 0, 2, false)

	b.app.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		if event.Key() == tcell.KeyEscape || event.Rune() == 'q' {
			b.app.Stop()
			return nil
		}
		return event
	})

	return b.app.SetRoot(flex, true).SetFocus(b.tree).Run()
}
