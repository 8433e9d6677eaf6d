package emit

import (
	"github.com/lua2cpp/lua2cpp/internal/ast"
	"github.com/lua2cpp/lua2cpp/internal/depgraph"
	"github.com/lua2cpp/lua2cpp/internal/diag"
	"github.com/lua2cpp/lua2cpp/internal/infer"
	"github.com/lua2cpp/lua2cpp/internal/naming"
	"github.com/lua2cpp/lua2cpp/internal/registry"
)

// StateTypeName returns the runtime struct name every emitted function
// in this project takes a pointer to: `<project>_lua_State` (spec.md
// §4.7, §6), bit-exact so two lua2cpp-compiled projects linked
// together never collide on a generic `lua_State` struct.
func StateTypeName(projectName string) string {
	return projectName + "_lua_State"
}

// RuntimeHeader is the support header the generated code links against;
// its contents (luaValue, lua2cpp:: helper namespace) are outside this
// tool's output (spec.md §6's project state header "include of the
// runtime header").
const RuntimeHeader = "lua2cpp_runtime.hpp"

// Options configures one EmitModule call (spec.md §6 CLI surface).
type Options struct {
	ProjectMode bool   // --main project mode vs single-file
	Lib         bool   // --lib: omit the arg state-struct member
	ProjectName string // sanitized project (or single-file output basename) name
}

// ModuleOutput holds the two files C7 produces per module (spec.md §4.7
// "one .cpp ... and one .hpp ... per module").
type ModuleOutput struct {
	HeaderPath string
	Header     string
	BodyPath   string
	Body       string

	// UsedStandalone and UsedLibrary feed the project (or single-file)
	// state-struct/main-driver generator: every standalone function and
	// library method this module actually called.
	UsedStandalone map[string]bool
	UsedLibrary    map[string]map[string]bool
	UsedGlobals    map[string]bool
	UsesArg        bool
}

// Emitter lowers one module's AST, plus its finalized C5 analyses, into
// C++ text (spec.md §4.7). A fresh Emitter must be created per module —
// nothing here is safe to reuse, the same discipline infer.Engine
// documents for its own per-module state.
type Emitter struct {
	ModulePath string
	Opts       Options
	Registry   *registry.Registry
	Infer      *infer.Engine
	Diag       *diag.Log
	Libs       *LibraryRegistry

	pool           *stringPool
	usedStandalone map[string]bool
	usedLibrary    map[string]map[string]bool
	usedGlobals    map[string]bool
	usesArg        bool
	localFuncs     map[string]bool // module-level function statements, for call-site classification
}

// New returns an Emitter for one module.
func New(modulePath string, reg *registry.Registry, eng *infer.Engine, log *diag.Log, opts Options) *Emitter {
	return &Emitter{
		ModulePath:     modulePath,
		Opts:           opts,
		Registry:       reg,
		Infer:          eng,
		Diag:           log,
		Libs:           NewLibraryRegistry(),
		pool:           newStringPool(),
		usedStandalone: map[string]bool{},
		usedLibrary:    map[string]map[string]bool{},
		usedGlobals:    map[string]bool{},
		localFuncs:     map[string]bool{},
	}
}

// EmitModule runs one Emitter over chunk and returns its header/body
// text, recovering emitter aborts into a returned error (spec.md §4.7
// "aborts the module with a clear message").
func (em *Emitter) EmitModule(chunk *ast.Chunk) (out *ModuleOutput, err error) {
	defer func() {
		if r := recover(); r != nil {
			if e, ok := r.(*Error); ok {
				err = e
				return
			}
			panic(r)
		}
	}()

	em.collectLocalFuncs(chunk.Block)

	exportName := naming.ModuleExportName(em.ModulePath)
	var moduleFns []string // C++ text for each module-level function definition
	var fwdDecls []string

	bodyBuf := &buffer{}
	for _, s := range chunk.Block.Stats {
		if fnText, fwd, ok := em.tryEmitModuleFunction(s); ok {
			moduleFns = append(moduleFns, fnText)
			fwdDecls = append(fwdDecls, fwd)
			continue
		}
		em.emitStat(bodyBuf, s)
	}
	if len(chunk.Block.RetExps) > 0 {
		bodyBuf.line("return %s;", em.emitExpListAsValue(chunk.Block.RetExps))
	} else {
		bodyBuf.line("return lua2cpp::make_table({});")
	}

	body := &buffer{}
	body.line("// Auto-generated from %s", em.ModulePath+".lua")
	body.line("#include \"%s_state.hpp\"", em.Opts.ProjectName)
	body.line("#include \"%s_module.hpp\"", em.ModulePath)
	body.blank()

	for idx, lit := range em.pool.Entries() {
		body.line("static const std::string %s = %s;", em.pool.Name(idx), quoteCpp(lit))
	}
	if len(em.pool.Entries()) > 0 {
		body.blank()
	}

	for _, fwd := range fwdDecls {
		body.line("%s", fwd)
	}
	if len(fwdDecls) > 0 {
		body.blank()
	}

	for _, fn := range moduleFns {
		body.sb.WriteString(fn)
		body.blank()
	}

	body.line("luaValue %s(%s* state) {", exportName, StateTypeName(em.Opts.ProjectName))
	body.push()
	body.sb.WriteString(bodyBuf.String())
	body.pop()
	body.line("}")

	header := &buffer{}
	header.line("#pragma once")
	header.line("#include \"%s\"", RuntimeHeader)
	header.line("#include \"%s_state.hpp\"", em.Opts.ProjectName)
	header.blank()
	header.line("luaValue %s(%s* state);", exportName, StateTypeName(em.Opts.ProjectName))

	return &ModuleOutput{
		HeaderPath:     em.ModulePath + "_module.hpp",
		Header:         header.String(),
		BodyPath:       em.ModulePath + "_module.cpp",
		Body:           body.String(),
		UsedStandalone: em.usedStandalone,
		UsedLibrary:    em.usedLibrary,
		UsedGlobals:    em.usedGlobals,
		UsesArg:        em.usesArg,
	}, nil
}

// collectLocalFuncs records every module-level function-statement name
// so call-site classification can tell "Local function" apart from
// "Default fallback" (spec.md §4.7 call-site strategy table).
func (em *Emitter) collectLocalFuncs(b *ast.Block) {
	for _, s := range b.Stats {
		switch st := s.(type) {
		case *ast.LocalFunctionStat:
			em.localFuncs[st.Name] = true
		case *ast.FunctionStat:
			if name, ok := dottedTargetName(st.Target); ok {
				em.localFuncs[name] = true
			}
		}
	}
}

func dottedTargetName(e ast.Exp) (string, bool) {
	if n, ok := e.(*ast.NameExp); ok {
		return n.Name, true
	}
	return "", false
}

func quoteCpp(s string) string {
	out := make([]byte, 0, len(s)+2)
	out = append(out, '"')
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch c {
		case '"', '\\':
			out = append(out, '\\', c)
		case '\n':
			out = append(out, '\\', 'n')
		case '\t':
			out = append(out, '\\', 't')
		case '\r':
			out = append(out, '\\', 'r')
		default:
			out = append(out, c)
		}
	}
	out = append(out, '"')
	return string(out)
}

// requireModuleName resolves a require("literal") argument to a module
// name (spec.md §4.7 "Require" strategy), using the same literal-to-name
// mapping internal/depgraph's resolver applies.
func requireModuleName(literal string) string {
	return depgraph.RequireLiteralToModuleName(literal)
}
