package emit

import (
	"sort"
	"strings"

	"github.com/lua2cpp/lua2cpp/internal/types"
)

// UsageSet is what one or more EmitModule calls accumulate: every
// standalone function and library method actually referenced, so the
// project (or single-file) state struct only carries pointers for what
// the program uses (spec.md §4.7 "only the methods the program calls").
type UsageSet struct {
	Standalone map[string]bool
	Library    map[string]map[string]bool
	Globals    map[string]bool
	UsesArg    bool
}

// NewUsageSet returns an empty usage accumulator.
func NewUsageSet() *UsageSet {
	return &UsageSet{Standalone: map[string]bool{}, Library: map[string]map[string]bool{}, Globals: map[string]bool{}}
}

// Merge folds one module's usage into the project-wide accumulator.
func (u *UsageSet) Merge(out *ModuleOutput) {
	for name := range out.UsedStandalone {
		u.Standalone[name] = true
	}
	for module, fns := range out.UsedLibrary {
		dst := u.Library[module]
		if dst == nil {
			dst = map[string]bool{}
			u.Library[module] = dst
		}
		for fn := range fns {
			dst[fn] = true
		}
	}
	for name := range out.UsedGlobals {
		u.Globals[name] = true
	}
	if out.UsesArg {
		u.UsesArg = true
	}
}

func sortedKeys(m map[string]bool) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func fieldType(fn *Function, projectName string) string {
	ret := "luaValue"
	if !fn.AlwaysVariadic && fn.ReturnType.CanSpecialize() {
		ret = fn.ReturnType.CppType()
	}
	params := []string{StateTypeName(projectName) + "*"}
	if fn.AlwaysVariadic {
		params = append(params, "std::vector<luaValue>")
	} else {
		for _, p := range fn.Params {
			pt := types.LuaValueName
			if p.CanSpecialize() {
				pt = p.CppType()
			}
			params = append(params, pt)
		}
	}
	return ret + " (*)(" + strings.Join(params, ", ") + ")"
}

// GenerateStateHeader emits `<project>_state.hpp` (spec.md §6 "Project
// state header"): one aggregate struct with arg, standalone function
// pointers, per-library nested structs, and — in project mode — the
// module registry map, in that field order (spec.md §4.7 "State
// struct").
func GenerateStateHeader(opts Options, usage *UsageSet, libs *LibraryRegistry) string {
	b := &buffer{}
	b.line("#pragma once")
	b.line("#include \"%s\"", RuntimeHeader)
	b.line("#include <functional>")
	b.line("#include <map>")
	b.line("#include <string>")
	b.line("#include <vector>")
	b.blank()
	b.line("struct %s {", StateTypeName(opts.ProjectName))
	b.push()

	if !opts.Lib {
		b.line("std::vector<luaValue> arg;")
	}

	for _, name := range sortedKeys(usage.Standalone) {
		fn, ok := libs.Standalone(name)
		if !ok {
			continue
		}
		b.line("%s %s;", fieldType(fn, opts.ProjectName), fn.Name)
	}

	for _, module := range StandardLibraries {
		fnNames, used := usage.Library[module]
		if !used || len(fnNames) == 0 {
			continue
		}
		b.line("struct {")
		b.push()
		for _, fname := range sortedKeys(fnNames) {
			fn, ok := libs.Lookup(module, fname)
			if !ok {
				continue
			}
			b.line("%s %s;", fieldType(fn, opts.ProjectName), fn.Name)
		}
		b.pop()
		b.line("} %s;", module)
	}

	if opts.ProjectMode && len(usage.Globals) > 0 {
		b.line("struct {")
		b.push()
		for _, name := range sortedKeys(usage.Globals) {
			b.line("luaValue %s;", safeIdent(name))
		}
		b.pop()
		b.line("} globals;")
	}

	if opts.ProjectMode {
		b.line("std::map<std::string, luaValue(*)(%s*)> modules;", StateTypeName(opts.ProjectName))
	}

	b.pop()
	b.line("};")
	return b.String()
}
