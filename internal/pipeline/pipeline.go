// Package pipeline implements the compilation driver (spec.md §4.8,
// C8): per module, parse -> C5 (which drives C2-C4) -> C7; per project,
// C6 first, then per-module emission in topological order, then the
// project state header and main driver. Grounded on
// original_source/lua2c/module_system/dependency_resolver.py's
// "resolve_project" two-pass shape (collect every module, then walk
// each one's AST for require() edges before validating and sorting)
// and the teacher's main.go/run.go straight-line read-compile-run
// sequence.
package pipeline

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/lua2cpp/lua2cpp/internal/ast"
	"github.com/lua2cpp/lua2cpp/internal/depgraph"
	"github.com/lua2cpp/lua2cpp/internal/diag"
	"github.com/lua2cpp/lua2cpp/internal/emit"
	"github.com/lua2cpp/lua2cpp/internal/infer"
	"github.com/lua2cpp/lua2cpp/internal/parser"
	"github.com/lua2cpp/lua2cpp/internal/project"
	"github.com/lua2cpp/lua2cpp/internal/registry"
)

// skipDirs names the directories project discovery never descends
// into (spec.md §6 "--main project mode").
var skipDirs = map[string]bool{
	".git": true, "node_modules": true, "__pycache__": true,
	"venv": true, ".venv": true, "build": true, "dist": true,
}

// Options configures one pipeline run, independent of single-file vs
// project mode (spec.md §6 CLI surface minus the paths themselves).
type Options struct {
	Lib         bool
	Verbose     bool
	ProjectName string

	// Overrides comes from a loaded lua2cpp.json (internal/project) and
	// is applied to every module's and the project's library registry
	// before emission, letting a manifest rename a standard-library
	// call's emitted C++ symbol.
	Overrides []project.Override
}

// FileResult is one module's compiled output plus the diagnostics pass
// 4 raised while producing it (spec.md §7 "Semantic diagnostics ...
// do not abort compilation").
type FileResult struct {
	Module      string
	Output      *emit.ModuleOutput
	Diagnostics []diag.Diagnostic
	FromCache   bool
}

// ProjectResult is a whole project build: every module's output, in
// topological order, plus the shared state header and main driver
// text (spec.md §4.7 "Project state header" / "Main driver").
type ProjectResult struct {
	ProjectName string // basename the state header and main driver are written under
	Files       []*FileResult
	Order       []string
	StateHeader string
	MainDriver  string
	Stats       Stats
}

// Stats mirrors the original's per-run summary (lua2c/cli/main.py
// print_statistics / SUPPLEMENTED FEATURES #6): what the CLI prints
// at the end of a build.
type Stats struct {
	ModulesCompiled int
	ModulesCached   int
	Warnings        int
	Errors          int
}

// Pipeline is one long-lived driver: its Cache persists content-hash
// memoized module outputs across repeated CompileFile/CompileProject
// calls (e.g. a watch loop or the TUI re-running a build), mirroring
// the teacher's main.go sha256-keyed cache but kept in-process rather
// than written to os.TempDir, the same way stdlib/lib_re.go's and
// lib_json.go's go_lru_cacher instances memoize in memory rather than
// on disk.
type Pipeline struct {
	Cache *Cache
}

// New returns a Pipeline with a fresh, empty cache.
func New() *Pipeline {
	return &Pipeline{Cache: NewCache(64)}
}

// CompileFile implements single-file (non-project) mode: one module,
// no dependency graph, no module registry, but still the full output
// set spec.md §6 names for standalone mode (state header, module
// header/body and — unless --lib — a main driver).
func (p *Pipeline) CompileFile(path string, opts Options) (*ProjectResult, error) {
	source, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("pipeline: reading %s: %w", path, err)
	}
	moduleName := opts.ProjectName
	if moduleName == "" {
		moduleName = depgraph.PathToModuleName(filepath.Base(path))
	}
	eopts := emit.Options{ProjectMode: false, Lib: opts.Lib, ProjectName: moduleName}
	fr, err := p.compileModule(moduleName, string(source), eopts, opts.Verbose, opts.Overrides)
	if err != nil {
		return nil, err
	}

	usage := emit.NewUsageSet()
	usage.Merge(fr.Output)
	libs := emit.NewLibraryRegistry()
	for _, ov := range opts.Overrides {
		libs.Override(ov.Module, ov.Name, ov.CppName)
	}

	result := &ProjectResult{ProjectName: moduleName, Files: []*FileResult{fr}, Order: []string{moduleName}}
	result.Stats.ModulesCompiled = 1
	if fr.FromCache {
		result.Stats.ModulesCached = 1
	}
	for _, d := range fr.Diagnostics {
		if d.Severity == diag.Warning {
			result.Stats.Warnings++
		} else if d.Severity == diag.Error {
			result.Stats.Errors++
		}
	}

	result.StateHeader = emit.GenerateStateHeader(eopts, usage, libs)
	if !opts.Lib {
		result.MainDriver = emit.GenerateMainDriver(eopts, usage, libs, result.Order, moduleName)
	}
	return result, nil
}

// compileModule runs one module through lex/parse -> C5 -> C7,
// serving a cached result when the source text and options are
// unchanged since a prior call on this Pipeline.
func (p *Pipeline) compileModule(moduleName, source string, eopts emit.Options, verbose bool, overrides []project.Override) (*FileResult, error) {
	if out, ok := p.Cache.Get(source, eopts); ok {
		return &FileResult{Module: moduleName, Output: out, FromCache: true}, nil
	}

	chunk, err := parser.Parse(source, moduleName, moduleName)
	if err != nil {
		return nil, fmt.Errorf("pipeline: %w", err)
	}

	reg := registry.New()
	log := diag.NewLog(verbose)
	eng := infer.New(moduleName, reg, log)
	eng.Run(chunk)

	em := emit.New(moduleName, reg, eng, log, eopts)
	for _, ov := range overrides {
		em.Libs.Override(ov.Module, ov.Name, ov.CppName)
	}
	out, err := em.EmitModule(chunk)
	if err != nil {
		return nil, fmt.Errorf("pipeline: module %q: %w", moduleName, err)
	}

	p.Cache.Put(source, eopts, out)
	return &FileResult{Module: moduleName, Output: out, Diagnostics: log.All()}, nil
}

// CompileProject implements project mode: discover every .lua file
// under root, extract require() edges, resolve and topologically sort
// the dependency graph (C6), emit each module in that order, then the
// shared state header and main driver (spec.md §4.6, §4.8).
func (p *Pipeline) CompileProject(root, mainFile string, opts Options) (*ProjectResult, error) {
	files, err := discoverLuaFiles(root)
	if err != nil {
		return nil, fmt.Errorf("pipeline: discovering project files: %w", err)
	}

	// Each file is parsed once here (to extract its require() edges)
	// and, on a cache miss, again inside compileModule — duplicate work
	// for the sake of a simpler cache key (source text + options,
	// independent of how the caller reached it).
	type parsed struct {
		info   depgraph.ModuleInfo
		source string
	}
	modules := make([]parsed, 0, len(files))
	for _, relPath := range files {
		absPath := filepath.Join(root, relPath)
		source, err := os.ReadFile(absPath)
		if err != nil {
			return nil, fmt.Errorf("pipeline: reading %s: %w", absPath, err)
		}
		name := depgraph.PathToModuleName(filepath.ToSlash(relPath))
		chunk, err := parser.Parse(string(source), name, name)
		if err != nil {
			return nil, fmt.Errorf("pipeline: %w", err)
		}
		modules = append(modules, parsed{
			info: depgraph.ModuleInfo{
				Name: name, AbsPath: absPath, RelPath: relPath,
				Requires: collectRequires(chunk.Block),
			},
			source: string(source),
		})
	}

	infos := make([]depgraph.ModuleInfo, len(modules))
	bySource := make(map[string]parsed, len(modules))
	for i, m := range modules {
		infos[i] = m.info
		bySource[m.info.Name] = m
	}

	if _, err := depgraph.Resolve(infos); err != nil {
		return nil, fmt.Errorf("pipeline: %w", err)
	}
	graph := depgraph.BuildGraph(infos)
	order, err := graph.TopologicalSort()
	if err != nil {
		return nil, fmt.Errorf("pipeline: %w", err)
	}

	projectName := opts.ProjectName
	if projectName == "" {
		projectName = filepath.Base(filepath.Clean(root))
	}
	mainRel, err := filepath.Rel(root, mainFile)
	if err != nil {
		mainRel = mainFile
	}
	mainModule := depgraph.PathToModuleName(filepath.ToSlash(mainRel))

	usage := emit.NewUsageSet()
	libs := emit.NewLibraryRegistry()
	for _, ov := range opts.Overrides {
		libs.Override(ov.Module, ov.Name, ov.CppName)
	}
	result := &ProjectResult{ProjectName: projectName, Order: order}

	for _, name := range order {
		m, ok := bySource[name]
		if !ok {
			return nil, fmt.Errorf("pipeline: internal error: module %q missing after sort", name)
		}
		eopts := emit.Options{ProjectMode: true, Lib: opts.Lib, ProjectName: projectName}
		fr, err := p.compileModule(name, m.source, eopts, opts.Verbose, opts.Overrides)
		if err != nil {
			// A project build aborts entirely on any module error
			// rather than emitting half the tree (spec.md §7
			// "Propagation policy").
			return nil, err
		}
		result.Files = append(result.Files, fr)
		usage.Merge(fr.Output)
		result.Stats.ModulesCompiled++
		if fr.FromCache {
			result.Stats.ModulesCached++
		}
		for _, d := range fr.Diagnostics {
			if d.Severity == diag.Warning {
				result.Stats.Warnings++
			} else if d.Severity == diag.Error {
				result.Stats.Errors++
			}
		}
	}

	result.StateHeader = emit.GenerateStateHeader(emit.Options{ProjectMode: true, Lib: opts.Lib, ProjectName: projectName}, usage, libs)
	result.MainDriver = emit.GenerateMainDriver(emit.Options{ProjectMode: true, Lib: opts.Lib, ProjectName: projectName}, usage, libs, order, mainModule)
	return result, nil
}

// Graph discovers a project's modules and resolves their dependency
// graph without compiling any of them (spec.md §4.6), for tooling
// like `lua2cpp graph` that only needs the module structure.
func (p *Pipeline) Graph(root string) (*depgraph.Graph, error) {
	files, err := discoverLuaFiles(root)
	if err != nil {
		return nil, fmt.Errorf("pipeline: discovering project files: %w", err)
	}

	infos := make([]depgraph.ModuleInfo, 0, len(files))
	for _, relPath := range files {
		absPath := filepath.Join(root, relPath)
		source, err := os.ReadFile(absPath)
		if err != nil {
			return nil, fmt.Errorf("pipeline: reading %s: %w", absPath, err)
		}
		name := depgraph.PathToModuleName(filepath.ToSlash(relPath))
		chunk, err := parser.Parse(string(source), name, name)
		if err != nil {
			return nil, fmt.Errorf("pipeline: %w", err)
		}
		infos = append(infos, depgraph.ModuleInfo{
			Name: name, AbsPath: absPath, RelPath: relPath,
			Requires: collectRequires(chunk.Block),
		})
	}

	if _, err := depgraph.Resolve(infos); err != nil {
		return nil, fmt.Errorf("pipeline: %w", err)
	}
	return depgraph.BuildGraph(infos), nil
}

// discoverLuaFiles walks root for *.lua files, returning paths relative
// to root, skipping the directories spec.md §6 names.
func discoverLuaFiles(root string) ([]string, error) {
	var out []string
	err := filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			if path != root && skipDirs[info.Name()] {
				return filepath.SkipDir
			}
			return nil
		}
		if !strings.HasSuffix(path, ".lua") {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		out = append(out, rel)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// collectRequires walks a module's block for require("literal") calls
// (spec.md §4.6 step 2), grounded on dependency_resolver.py's
// visit_node: a generic recursive descent over every statement and
// expression shape internal/ast defines, rather than a single
// syntactic position, since require() is legal anywhere an expression
// is.
func collectRequires(b *ast.Block) []depgraph.Requirement {
	var reqs []depgraph.Requirement
	var walkBlock func(*ast.Block)
	var walkStat func(ast.Stat)
	var walkExp func(ast.Exp)

	walkExp = func(e ast.Exp) {
		switch n := e.(type) {
		case nil:
			return
		case *ast.CallExp:
			if name, ok := n.Fn.(*ast.NameExp); ok && name.Name == "require" {
				if len(n.Args) == 1 {
					if s, ok := n.Args[0].(*ast.StringExp); ok {
						reqs = append(reqs, depgraph.Requirement{
							Module: depgraph.RequireLiteralToModuleName(s.Str),
							Line:   n.Line,
						})
					}
				}
			}
			walkExp(n.Fn)
			for _, a := range n.Args {
				walkExp(a)
			}
		case *ast.MethodCallExp:
			walkExp(n.Obj)
			for _, a := range n.Args {
				walkExp(a)
			}
		case *ast.UnopExp:
			walkExp(n.Exp)
		case *ast.BinopExp:
			walkExp(n.Left)
			walkExp(n.Right)
		case *ast.ParenExp:
			walkExp(n.Exp)
		case *ast.IndexExp:
			walkExp(n.Obj)
			walkExp(n.Key)
		case *ast.TableConstructorExp:
			for _, f := range n.Fields {
				walkExp(f.Key)
				walkExp(f.Val)
			}
		case *ast.FuncDefExp:
			walkBlock(n.Block)
		}
	}

	walkStat = func(s ast.Stat) {
		switch st := s.(type) {
		case *ast.LocalAssignStat:
			for _, e := range st.Exps {
				walkExp(e)
			}
		case *ast.AssignStat:
			for _, e := range st.Targets {
				walkExp(e)
			}
			for _, e := range st.Exps {
				walkExp(e)
			}
		case *ast.LocalFunctionStat:
			walkBlock(st.Fn.Block)
		case *ast.FunctionStat:
			walkExp(st.Target)
			walkBlock(st.Fn.Block)
		case *ast.CallStat:
			walkExp(st.Call)
		case *ast.DoStat:
			walkBlock(st.Body)
		case *ast.WhileStat:
			walkExp(st.Cond)
			walkBlock(st.Body)
		case *ast.RepeatStat:
			walkBlock(st.Body)
			walkExp(st.Cond)
		case *ast.IfStat:
			for _, c := range st.Clauses {
				walkExp(c.Cond)
				walkBlock(c.Body)
			}
		case *ast.NumericForStat:
			walkExp(st.Start)
			walkExp(st.Stop)
			walkExp(st.Step)
			walkBlock(st.Body)
		case *ast.GenericForStat:
			for _, e := range st.Exps {
				walkExp(e)
			}
			walkBlock(st.Body)
		}
	}

	walkBlock = func(blk *ast.Block) {
		if blk == nil {
			return
		}
		for _, s := range blk.Stats {
			walkStat(s)
		}
		for _, e := range blk.RetExps {
			walkExp(e)
		}
	}

	walkBlock(b)
	return reqs
}
