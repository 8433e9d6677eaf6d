// Package emit implements the C++ code emitter (spec.md §4.7, C7),
// grounded on lua2c/generators/{cpp_emitter.py, expr_generator.py,
// stmt_generator.py} for the overall shape (type-driven expression
// lowering, a strategy table for call sites, forward declarations before
// definitions) and on the teacher's compiler/codegen package for the
// Go-side discipline of walking a finished AST with a small amount of
// per-module bookkeeping (func_info.go's constant pool is the direct
// ancestor of stringPool below).
package emit

import "github.com/lua2cpp/lua2cpp/internal/types"

// Function is one standard-library or standalone entry's metadata,
// grounded on lua2c/core/library_registry.py's LibraryFunction.
type Function struct {
	Module         string
	Name           string
	ReturnType     types.Type
	Params         []types.Type
	CppName        string
	AlwaysVariadic bool
}

// StandardLibraries lists the module names the call-site classifier and
// state-struct generator recognize (spec.md §4.7 "one nested struct per
// used standard library"). package/debug/coroutine are kept queryable
// here (SUPPLEMENTED FEATURES #3) but, like every other library, only
// gain a state-struct field when a program actually calls into them.
var StandardLibraries = []string{"coroutine", "debug", "io", "math", "os", "package", "string", "table"}

// LibraryRegistry mirrors LibraryFunctionRegistry: a lookup table of
// known standard-library functions plus the handful of standalone
// globals (print, tostring, ...) that become bare function pointers on
// the state struct instead of nested-struct members.
type LibraryRegistry struct {
	functions  map[string]map[string]*Function
	standalone map[string]*Function
}

// NewLibraryRegistry returns a registry pre-populated with the Lua 5.x
// standard library surface.
func NewLibraryRegistry() *LibraryRegistry {
	r := &LibraryRegistry{
		functions:  map[string]map[string]*Function{},
		standalone: map[string]*Function{},
	}
	r.initIO()
	r.initString()
	r.initMath()
	r.initTable()
	r.initOS()
	r.initPackage()
	r.initDebug()
	r.initCoroutine()
	r.initStandalone()
	return r
}

func (r *LibraryRegistry) add(f *Function) {
	m := r.functions[f.Module]
	if m == nil {
		m = map[string]*Function{}
		r.functions[f.Module] = m
	}
	m[f.Name] = f
}

func n(k types.Kind) types.Type { return types.New(k) }

func (r *LibraryRegistry) initIO() {
	for _, f := range []*Function{
		{Module: "io", Name: "close", ReturnType: n(types.Boolean), CppName: "io_close"},
		{Module: "io", Name: "flush", ReturnType: n(types.Boolean), CppName: "io_flush"},
		{Module: "io", Name: "open", ReturnType: n(types.Table), Params: []types.Type{n(types.String), n(types.String)}, CppName: "io_open"},
		{Module: "io", Name: "read", ReturnType: n(types.String), CppName: "io_read", AlwaysVariadic: true},
		{Module: "io", Name: "type", ReturnType: n(types.String), Params: []types.Type{n(types.Variant)}, CppName: "io_type"},
		{Module: "io", Name: "write", ReturnType: n(types.Boolean), CppName: "io_write", AlwaysVariadic: true},
	} {
		r.add(f)
	}
}

func (r *LibraryRegistry) initString() {
	for _, f := range []*Function{
		{Module: "string", Name: "byte", ReturnType: n(types.Number), Params: []types.Type{n(types.String), n(types.Number), n(types.Number)}, CppName: "string_byte"},
		{Module: "string", Name: "char", ReturnType: n(types.String), CppName: "string_char", AlwaysVariadic: true},
		{Module: "string", Name: "find", ReturnType: n(types.Variant), Params: []types.Type{n(types.String), n(types.String), n(types.Number), n(types.Boolean)}, CppName: "string_find"},
		{Module: "string", Name: "format", ReturnType: n(types.String), CppName: "string_format", AlwaysVariadic: true},
		{Module: "string", Name: "gmatch", ReturnType: n(types.Function), Params: []types.Type{n(types.String), n(types.String)}, CppName: "string_gmatch"},
		{Module: "string", Name: "gsub", ReturnType: n(types.String), CppName: "string_gsub", AlwaysVariadic: true},
		{Module: "string", Name: "len", ReturnType: n(types.Number), Params: []types.Type{n(types.String)}, CppName: "string_len"},
		{Module: "string", Name: "lower", ReturnType: n(types.String), Params: []types.Type{n(types.String)}, CppName: "string_lower"},
		{Module: "string", Name: "match", ReturnType: n(types.Variant), Params: []types.Type{n(types.String), n(types.String), n(types.Number)}, CppName: "string_match"},
		{Module: "string", Name: "rep", ReturnType: n(types.String), Params: []types.Type{n(types.String), n(types.Number), n(types.String)}, CppName: "string_rep"},
		{Module: "string", Name: "reverse", ReturnType: n(types.String), Params: []types.Type{n(types.String)}, CppName: "string_reverse"},
		{Module: "string", Name: "sub", ReturnType: n(types.String), Params: []types.Type{n(types.String), n(types.Number), n(types.Number)}, CppName: "string_sub"},
		{Module: "string", Name: "upper", ReturnType: n(types.String), Params: []types.Type{n(types.String)}, CppName: "string_upper"},
	} {
		r.add(f)
	}
}

func (r *LibraryRegistry) initMath() {
	unary := []string{"abs", "acos", "asin", "ceil", "cos", "cosh", "deg", "exp", "floor", "rad", "sin", "sinh", "sqrt", "tan", "tanh"}
	for _, name := range unary {
		r.add(&Function{Module: "math", Name: name, ReturnType: n(types.Number), Params: []types.Type{n(types.Number)}, CppName: "math_" + name})
	}
	for _, f := range []*Function{
		{Module: "math", Name: "atan", ReturnType: n(types.Number), Params: []types.Type{n(types.Number), n(types.Number)}, CppName: "math_atan"},
		{Module: "math", Name: "fmod", ReturnType: n(types.Number), Params: []types.Type{n(types.Number), n(types.Number)}, CppName: "math_fmod"},
		{Module: "math", Name: "log", ReturnType: n(types.Number), Params: []types.Type{n(types.Number), n(types.Number)}, CppName: "math_log"},
		{Module: "math", Name: "max", ReturnType: n(types.Number), CppName: "math_max", AlwaysVariadic: true},
		{Module: "math", Name: "min", ReturnType: n(types.Number), CppName: "math_min", AlwaysVariadic: true},
		{Module: "math", Name: "modf", ReturnType: n(types.Number), Params: []types.Type{n(types.Number)}, CppName: "math_modf"},
		{Module: "math", Name: "random", ReturnType: n(types.Number), CppName: "math_random", AlwaysVariadic: true},
		{Module: "math", Name: "randomseed", ReturnType: n(types.Number), Params: []types.Type{n(types.Number)}, CppName: "math_randomseed"},
		{Module: "math", Name: "tointeger", ReturnType: n(types.Number), Params: []types.Type{n(types.Variant)}, CppName: "math_tointeger"},
		{Module: "math", Name: "type", ReturnType: n(types.String), Params: []types.Type{n(types.Variant)}, CppName: "math_type"},
		{Module: "math", Name: "ult", ReturnType: n(types.Boolean), Params: []types.Type{n(types.Number), n(types.Number)}, CppName: "math_ult"},
	} {
		r.add(f)
	}
}

func (r *LibraryRegistry) initTable() {
	for _, f := range []*Function{
		{Module: "table", Name: "concat", ReturnType: n(types.String), CppName: "table_concat", AlwaysVariadic: true},
		{Module: "table", Name: "insert", ReturnType: n(types.Boolean), CppName: "table_insert", AlwaysVariadic: true},
		{Module: "table", Name: "move", ReturnType: n(types.Table), CppName: "table_move", AlwaysVariadic: true},
		{Module: "table", Name: "pack", ReturnType: n(types.Table), CppName: "table_pack", AlwaysVariadic: true},
		{Module: "table", Name: "remove", ReturnType: n(types.Variant), Params: []types.Type{n(types.Table), n(types.Number)}, CppName: "table_remove"},
		{Module: "table", Name: "sort", ReturnType: n(types.Boolean), Params: []types.Type{n(types.Table), n(types.Function)}, CppName: "table_sort"},
		{Module: "table", Name: "unpack", ReturnType: n(types.Variant), CppName: "table_unpack", AlwaysVariadic: true},
	} {
		r.add(f)
	}
}

func (r *LibraryRegistry) initOS() {
	for _, f := range []*Function{
		{Module: "os", Name: "clock", ReturnType: n(types.Number), CppName: "os_clock"},
		{Module: "os", Name: "date", ReturnType: n(types.String), Params: []types.Type{n(types.String), n(types.Number)}, CppName: "os_date"},
		{Module: "os", Name: "difftime", ReturnType: n(types.Number), Params: []types.Type{n(types.Number), n(types.Number)}, CppName: "os_difftime"},
		{Module: "os", Name: "execute", ReturnType: n(types.Boolean), Params: []types.Type{n(types.String)}, CppName: "os_execute"},
		{Module: "os", Name: "exit", ReturnType: n(types.Boolean), CppName: "os_exit", AlwaysVariadic: true},
		{Module: "os", Name: "getenv", ReturnType: n(types.String), Params: []types.Type{n(types.String)}, CppName: "os_getenv"},
		{Module: "os", Name: "remove", ReturnType: n(types.Boolean), Params: []types.Type{n(types.String)}, CppName: "os_remove"},
		{Module: "os", Name: "rename", ReturnType: n(types.Boolean), Params: []types.Type{n(types.String), n(types.String)}, CppName: "os_rename"},
		{Module: "os", Name: "time", ReturnType: n(types.Number), Params: []types.Type{n(types.Table)}, CppName: "os_time"},
		{Module: "os", Name: "tmpname", ReturnType: n(types.String), CppName: "os_tmpname"},
	} {
		r.add(f)
	}
}

func (r *LibraryRegistry) initPackage() {
	for _, f := range []*Function{
		{Module: "package", Name: "loadlib", ReturnType: n(types.Function), Params: []types.Type{n(types.String), n(types.String)}, CppName: "package_loadlib"},
		{Module: "package", Name: "searchpath", ReturnType: n(types.String), Params: []types.Type{n(types.String), n(types.String), n(types.String), n(types.String)}, CppName: "package_searchpath"},
		{Module: "package", Name: "seeall", ReturnType: n(types.Boolean), Params: []types.Type{n(types.Table)}, CppName: "package_seeall"},
	} {
		r.add(f)
	}
}

func (r *LibraryRegistry) initDebug() {
	for _, f := range []*Function{
		{Module: "debug", Name: "debug", ReturnType: n(types.Boolean), CppName: "debug_debug"},
		{Module: "debug", Name: "getfenv", ReturnType: n(types.Table), Params: []types.Type{n(types.Variant)}, CppName: "debug_getfenv"},
		{Module: "debug", Name: "gethook", ReturnType: n(types.Variant), Params: []types.Type{n(types.Variant)}, CppName: "debug_gethook"},
		{Module: "debug", Name: "getinfo", ReturnType: n(types.Table), Params: []types.Type{n(types.Variant), n(types.String)}, CppName: "debug_getinfo"},
		{Module: "debug", Name: "getlocal", ReturnType: n(types.Variant), Params: []types.Type{n(types.Variant), n(types.Variant)}, CppName: "debug_getlocal"},
		{Module: "debug", Name: "getmetatable", ReturnType: n(types.Table), Params: []types.Type{n(types.Variant)}, CppName: "debug_getmetatable"},
		{Module: "debug", Name: "getregistry", ReturnType: n(types.Table), CppName: "debug_getregistry"},
		{Module: "debug", Name: "getupvalue", ReturnType: n(types.Variant), Params: []types.Type{n(types.Variant), n(types.Number)}, CppName: "debug_getupvalue"},
		{Module: "debug", Name: "getuservalue", ReturnType: n(types.Variant), Params: []types.Type{n(types.Variant), n(types.Number)}, CppName: "debug_getuservalue"},
		{Module: "debug", Name: "setfenv", ReturnType: n(types.Boolean), Params: []types.Type{n(types.Variant), n(types.Variant)}, CppName: "debug_setfenv"},
		{Module: "debug", Name: "sethook", ReturnType: n(types.Boolean), Params: []types.Type{n(types.Variant), n(types.String), n(types.Number)}, CppName: "debug_sethook"},
		{Module: "debug", Name: "setlocal", ReturnType: n(types.String), Params: []types.Type{n(types.Variant), n(types.Variant), n(types.Variant)}, CppName: "debug_setlocal"},
		{Module: "debug", Name: "setmetatable", ReturnType: n(types.Table), Params: []types.Type{n(types.Variant), n(types.Variant)}, CppName: "debug_setmetatable"},
		{Module: "debug", Name: "setupvalue", ReturnType: n(types.Boolean), Params: []types.Type{n(types.Variant), n(types.Number), n(types.Variant)}, CppName: "debug_setupvalue"},
		{Module: "debug", Name: "setuservalue", ReturnType: n(types.Boolean), Params: []types.Type{n(types.Variant), n(types.Variant), n(types.Number)}, CppName: "debug_setuservalue"},
		{Module: "debug", Name: "traceback", ReturnType: n(types.String), Params: []types.Type{n(types.Variant), n(types.String), n(types.Number)}, CppName: "debug_traceback"},
		{Module: "debug", Name: "upvalueid", ReturnType: n(types.Variant), Params: []types.Type{n(types.Variant), n(types.Number)}, CppName: "debug_upvalueid"},
		{Module: "debug", Name: "upvaluejoin", ReturnType: n(types.Boolean), Params: []types.Type{n(types.Variant), n(types.Number), n(types.Variant), n(types.Number)}, CppName: "debug_upvaluejoin"},
	} {
		r.add(f)
	}
}

func (r *LibraryRegistry) initCoroutine() {
	for _, f := range []*Function{
		{Module: "coroutine", Name: "create", ReturnType: n(types.Function), Params: []types.Type{n(types.Function)}, CppName: "coroutine_create"},
		{Module: "coroutine", Name: "isyieldable", ReturnType: n(types.Boolean), CppName: "coroutine_isyieldable"},
		{Module: "coroutine", Name: "resume", ReturnType: n(types.Variant), CppName: "coroutine_resume", AlwaysVariadic: true},
		{Module: "coroutine", Name: "running", ReturnType: n(types.Variant), CppName: "coroutine_running"},
		{Module: "coroutine", Name: "status", ReturnType: n(types.String), Params: []types.Type{n(types.Variant)}, CppName: "coroutine_status"},
		{Module: "coroutine", Name: "wrap", ReturnType: n(types.Function), Params: []types.Type{n(types.Function)}, CppName: "coroutine_wrap"},
		{Module: "coroutine", Name: "yield", ReturnType: n(types.Variant), CppName: "coroutine_yield", AlwaysVariadic: true},
	} {
		r.add(f)
	}
}

// initStandalone registers the non-namespaced globals (spec.md §4.7
// "function pointers for each standalone library function in use").
func (r *LibraryRegistry) initStandalone() {
	for _, f := range []*Function{
		{Name: "print", ReturnType: n(types.Unknown), CppName: "print", AlwaysVariadic: true},
		{Name: "tostring", ReturnType: n(types.String), Params: []types.Type{n(types.Variant)}, CppName: "tostring"},
		{Name: "tonumber", ReturnType: n(types.Number), CppName: "tonumber", AlwaysVariadic: true},
		{Name: "type", ReturnType: n(types.String), Params: []types.Type{n(types.Variant)}, CppName: "type"},
		{Name: "pairs", ReturnType: n(types.Function), Params: []types.Type{n(types.Table)}, CppName: "pairs"},
		{Name: "ipairs", ReturnType: n(types.Function), Params: []types.Type{n(types.Table)}, CppName: "ipairs"},
		{Name: "next", ReturnType: n(types.Variant), CppName: "next", AlwaysVariadic: true},
		{Name: "assert", ReturnType: n(types.Unknown), CppName: "assert", AlwaysVariadic: true},
		{Name: "error", ReturnType: n(types.Unknown), CppName: "error", AlwaysVariadic: true},
		{Name: "pcall", ReturnType: n(types.Variant), CppName: "pcall", AlwaysVariadic: true},
		{Name: "xpcall", ReturnType: n(types.Variant), CppName: "xpcall", AlwaysVariadic: true},
		{Name: "select", ReturnType: n(types.Variant), CppName: "select", AlwaysVariadic: true},
		{Name: "setmetatable", ReturnType: n(types.Table), Params: []types.Type{n(types.Table), n(types.Table)}, CppName: "setmetatable"},
		{Name: "getmetatable", ReturnType: n(types.Table), Params: []types.Type{n(types.Variant)}, CppName: "getmetatable"},
		{Name: "rawget", ReturnType: n(types.Variant), Params: []types.Type{n(types.Table), n(types.Variant)}, CppName: "rawget"},
		{Name: "rawset", ReturnType: n(types.Table), CppName: "rawset", AlwaysVariadic: true},
		{Name: "rawequal", ReturnType: n(types.Boolean), Params: []types.Type{n(types.Variant), n(types.Variant)}, CppName: "rawequal"},
		{Name: "rawlen", ReturnType: n(types.Number), Params: []types.Type{n(types.Variant)}, CppName: "rawlen"},
		{Name: "unpack", ReturnType: n(types.Variant), CppName: "unpack", AlwaysVariadic: true},
		{Name: "collectgarbage", ReturnType: n(types.Unknown), CppName: "collectgarbage", AlwaysVariadic: true},
	} {
		r.standalone[f.Name] = f
	}
}

// IsStandardLibrary reports whether module is a recognized library
// namespace (lua2c's is_standard_library).
func (r *LibraryRegistry) IsStandardLibrary(module string) bool {
	_, ok := r.functions[module]
	return ok
}

// Lookup returns library function (module, name)'s metadata.
func (r *LibraryRegistry) Lookup(module, name string) (*Function, bool) {
	m, ok := r.functions[module]
	if !ok {
		return nil, false
	}
	f, ok := m[name]
	return f, ok
}

// Standalone returns a non-namespaced global's metadata.
func (r *LibraryRegistry) Standalone(name string) (*Function, bool) {
	f, ok := r.standalone[name]
	return f, ok
}

// Override replaces (module, name)'s emitted C++ runtime symbol,
// letting a project manifest (internal/project) point a standard
// library call at a custom runtime binding instead of the default
// `lua2cpp::stdlib::` one. The module name "standalone" addresses the
// non-namespaced globals (print, tostring, ...). Reports whether the
// function was found.
func (r *LibraryRegistry) Override(module, name, cppName string) bool {
	fn, ok := r.Lookup(module, name)
	if !ok && module == "standalone" {
		fn, ok = r.Standalone(name)
	}
	if !ok {
		return false
	}
	fn.CppName = cppName
	return true
}
