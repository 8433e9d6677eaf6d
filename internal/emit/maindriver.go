package emit

import "github.com/lua2cpp/lua2cpp/internal/naming"

// GenerateMainDriver emits `<project>_main.cpp` (spec.md §6 "Main
// driver"): constructs the state, populates arg, installs every used
// library/standalone function pointer, installs the module registry in
// dependency order (project mode only), and calls the main module's
// export.
func GenerateMainDriver(opts Options, usage *UsageSet, libs *LibraryRegistry, moduleOrder []string, mainModule string) string {
	b := &buffer{}
	b.line("// Auto-generated main driver for %s", opts.ProjectName)
	b.line("#include \"%s\"", RuntimeHeader)
	b.line("#include \"%s_state.hpp\"", opts.ProjectName)
	for _, mod := range moduleOrder {
		b.line("#include \"%s_module.hpp\"", mod)
	}
	b.blank()

	b.line("int main(int argc, char** argv) {")
	b.push()
	b.line("%s state;", StateTypeName(opts.ProjectName))
	b.blank()

	if !opts.Lib {
		b.line("// argv[1..argc-1] becomes state.arg[0..], Lua's 1-based argv indexing")
		b.line("for (int i = 1; i < argc; ++i) {")
		b.push()
		b.line("state.arg.push_back(lua2cpp::box(std::string(argv[i])));")
		b.pop()
		b.line("}")
		b.blank()
	}

	for _, name := range sortedKeys(usage.Standalone) {
		fn, ok := libs.Standalone(name)
		if !ok {
			continue
		}
		b.line("state.%s = &lua2cpp::stdlib::%s;", fn.Name, fn.CppName)
	}
	for _, module := range StandardLibraries {
		fnNames, used := usage.Library[module]
		if !used {
			continue
		}
		for _, fname := range sortedKeys(fnNames) {
			fn, ok := libs.Lookup(module, fname)
			if !ok {
				continue
			}
			b.line("state.%s.%s = &lua2cpp::stdlib::%s;", module, fn.Name, fn.CppName)
		}
	}
	b.blank()

	if opts.ProjectMode {
		for _, mod := range moduleOrder {
			if mod == mainModule {
				continue
			}
			b.line("state.modules[\"%s\"] = &%s;", mod, naming.ModuleExportName(mod))
		}
		b.blank()
	}

	b.line("%s(&state);", naming.ModuleExportName(mainModule))
	b.line("return 0;")
	b.pop()
	b.line("}")
	return b.String()
}
