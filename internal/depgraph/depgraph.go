// Package depgraph extracts require() edges, builds the module
// dependency graph and topologically sorts it (spec.md §3, §4.6),
// grounded on lua2c/module_system/dependency_resolver.py.
package depgraph

import (
	"fmt"
	"path"
	"strings"
)

// ModuleInfo describes one discovered Lua module (§3).
type ModuleInfo struct {
	Name         string
	AbsPath      string
	RelPath      string
	Requires     []Requirement
}

// Requirement is one require("literal") edge, with its source line.
type Requirement struct {
	Module string
	Line   int
}

// PathToModuleName derives a module name from a project-relative path,
// per spec.md §3: "a/b.lua" -> "a__b", "b.lua" -> "b".
func PathToModuleName(relPath string) string {
	clean := strings.ReplaceAll(relPath, "\\", "/")
	clean = strings.TrimSuffix(clean, ".lua")
	dir, base := path.Split(clean)
	dir = strings.Trim(dir, "/")
	if dir == "" {
		return base
	}
	return strings.ReplaceAll(dir, "/", "__") + "__" + base
}

// RequireLiteralToModuleName maps a require() string literal ("a.b.c")
// to its module name ("a__b__c"), per spec.md §4.6 step 2.
func RequireLiteralToModuleName(literal string) string {
	return strings.ReplaceAll(literal, ".", "__")
}

// Graph holds forward and reverse module dependency edges (§3).
type Graph struct {
	forward map[string]map[string]bool // m -> required(m)
	reverse map[string]map[string]bool // m -> dependents(m)
	all     map[string]bool
	// insertion tracks first-seen order so that topological ties break
	// by insertion order (§4.6 ordering guarantee).
	insertion []string
}

// NewGraph returns an empty dependency graph.
func NewGraph() *Graph {
	return &Graph{
		forward: map[string]map[string]bool{},
		reverse: map[string]map[string]bool{},
		all:     map[string]bool{},
	}
}

// AddModule registers a module with no edges yet, if not already present.
func (g *Graph) AddModule(name string) {
	if g.all[name] {
		return
	}
	g.all[name] = true
	g.forward[name] = map[string]bool{}
	g.reverse[name] = map[string]bool{}
	g.insertion = append(g.insertion, name)
}

// AddDependency records that from depends on to (to must be emitted
// first).
func (g *Graph) AddDependency(from, to string) {
	g.AddModule(from)
	g.AddModule(to)
	g.forward[from][to] = true
	g.reverse[to][from] = true
}

// Dependencies returns the modules that `m` requires.
func (g *Graph) Dependencies(m string) map[string]bool { return g.forward[m] }

// Dependents returns the modules that require `m`.
func (g *Graph) Dependents(m string) map[string]bool { return g.reverse[m] }

// Modules returns every registered module name, in insertion order
// (internal/tui's graph browser walks this to build its tree).
func (g *Graph) Modules() []string {
	out := make([]string, len(g.insertion))
	copy(out, g.insertion)
	return out
}

// CycleError reports a concrete dependency cycle found during sort.
type CycleError struct {
	Cycle []string
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("circular module dependency: %s", strings.Join(e.Cycle, " -> "))
}

// TopologicalSort returns modules ordered so that every dependency
// appears strictly before its dependents (§4.6, §8 property 3), using
// Kahn's algorithm; ties break by insertion order. On a non-empty
// residual it reports one concrete cycle via DFS (§4.6 step 5).
func (g *Graph) TopologicalSort() ([]string, error) {
	inDegree := map[string]int{}
	for m := range g.all {
		inDegree[m] = len(g.forward[m])
	}

	var queue []string
	for _, m := range g.insertion {
		if inDegree[m] == 0 {
			queue = append(queue, m)
		}
	}

	var result []string
	for len(queue) > 0 {
		m := queue[0]
		queue = queue[1:]
		result = append(result, m)

		// Deterministic dependent order: walk insertion order rather
		// than a map's iteration order.
		for _, dependent := range g.insertion {
			if !g.reverse[m][dependent] {
				continue
			}
			inDegree[dependent]--
			if inDegree[dependent] == 0 {
				queue = append(queue, dependent)
			}
		}
	}

	if len(result) != len(g.all) {
		return nil, &CycleError{Cycle: g.findCycle()}
	}
	return result, nil
}

func (g *Graph) findCycle() []string {
	visited := map[string]bool{}
	onStack := map[string]bool{}
	var path []string
	var cycle []string

	var dfs func(m string) bool
	dfs = func(m string) bool {
		visited[m] = true
		onStack[m] = true
		path = append(path, m)

		for _, dep := range g.insertion {
			if !g.forward[m][dep] {
				continue
			}
			if !visited[dep] {
				if dfs(dep) {
					return true
				}
			} else if onStack[dep] {
				start := indexOf(path, dep)
				cycle = append(append([]string{}, path[start:]...), dep)
				return true
			}
		}

		onStack[m] = false
		path = path[:len(path)-1]
		return false
	}

	for _, m := range g.insertion {
		if !visited[m] {
			if dfs(m) {
				return cycle
			}
		}
	}
	return nil
}

func indexOf(s []string, v string) int {
	for i, x := range s {
		if x == v {
			return i
		}
	}
	return -1
}

// Resolve builds ModuleInfo for every file, validates that every
// require resolves to a known module (§4.6 step 3), and returns the
// name -> ModuleInfo map. modules supplies (name, paths, requires)
// for each .lua file found; extracting requires from the AST is the
// caller's job (internal/pipeline), keeping this package AST-agnostic.
func Resolve(modules []ModuleInfo) (map[string]ModuleInfo, error) {
	byName := make(map[string]ModuleInfo, len(modules))
	for _, m := range modules {
		byName[m.Name] = m
	}
	for _, m := range modules {
		for _, req := range m.Requires {
			if _, ok := byName[req.Module]; !ok {
				return nil, fmt.Errorf(
					"module %q requires %q (line %d) but it does not exist in the project",
					m.Name, req.Module, req.Line)
			}
		}
	}
	return byName, nil
}

// BuildGraph constructs a Graph from resolved ModuleInfo, in the same
// insertion order as `modules` (the order Resolve's caller supplied).
func BuildGraph(modules []ModuleInfo) *Graph {
	g := NewGraph()
	for _, m := range modules {
		g.AddModule(m.Name)
	}
	for _, m := range modules {
		for _, req := range m.Requires {
			g.AddDependency(m.Name, req.Module)
		}
	}
	return g
}
