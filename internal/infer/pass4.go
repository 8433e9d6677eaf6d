package infer

import "github.com/lua2cpp/lua2cpp/internal/types"

// validate is pass 4 (spec.md §4.5 pass 4): surfaces Info/Warning
// diagnostics over the now-frozen inference state. Nothing here mutates
// inferredTypes, tables or the registry — pass 4 and the emitter treat
// them as read-only (spec.md §5 "shared-resource policy").
func (e *Engine) validate() {
	e.validateSymbols()
	e.validateTables()
	e.validateCallSites()
}

func (e *Engine) validateSymbols() {
	for _, name := range e.AllSymbols() {
		t := e.TypeOf(name)
		if t.Kind == types.Unknown {
			e.Diag.InfofSuggest(e.Module, 0, "unknown_type",
				"give it an initial literal assignment so its type can be inferred",
				"symbol %q never resolved past unknown", name)
			continue
		}
		if t.Kind == types.Variant && variantMixesTableAndScalar(t) {
			e.Diag.WarnfSuggest(e.Module, 0, "incompatible_union",
				"split the scalar and table uses into distinct variables",
				"symbol %q combines table with a scalar type", name)
		}
	}
}

func variantMixesTableAndScalar(t types.Type) bool {
	hasTable, hasScalar := false, false
	for _, s := range t.Subtypes {
		switch s.Kind {
		case types.Table:
			hasTable = true
		case types.Number, types.String, types.Boolean:
			hasScalar = true
		}
	}
	return hasTable && hasScalar
}

func (e *Engine) validateTables() {
	names := make([]string, 0, len(e.tables))
	for name := range e.tables {
		names = append(names, name)
	}
	sortStrings(names)

	for _, name := range names {
		rec := e.tables[name]
		if rec.IsMixed() {
			e.Diag.WarnfSuggest(e.Module, 0, "mixed_table_usage",
				"use two separate tables instead of one array+map hybrid",
				"table %q is used as both array and map", name)
		}
		if rec.IsSparse() {
			e.Diag.WarnfSuggest(e.Module, 0, "sparse_array",
				"fill the gaps or switch to a map keyed by the same indices",
				"table %q has non-contiguous numeric keys", name)
		}
		if !rec.HasValueType() {
			e.Diag.Infof(e.Module, 0, "undecided_shape", "table %q's element type could not be determined", name)
		}
	}
}

func (e *Engine) validateCallSites() {
	for _, fname := range e.Registry.AllFunctions() {
		sig := e.Registry.Get(fname)
		paramIndices := make([]int, 0, len(sig.ParamTableInfo))
		for i := range sig.ParamTableInfo {
			paramIndices = append(paramIndices, i)
		}
		sortInts(paramIndices)
		for _, i := range paramIndices {
			rec := sig.ParamTableInfo[i]
			if rec.IsArray() && !rec.HasValueType() {
				e.Diag.Warnf(e.Module, 0, "array_elem_unknown",
					"parameter %d of %q is array-typed but its element type is still unknown", i, fname)
			}
		}
		for _, cs := range sig.CallSites {
			for i := range cs.ArgSymbols {
				if i >= len(sig.ParamNames) {
					continue
				}
				name, ok := cs.ArgSymbol(i)
				if !ok {
					continue
				}
				if e.TypeOf(name).Kind == types.Unknown {
					continue
				}
				if _, hasParamInfo := sig.ParamTableInfo[i]; !hasParamInfo {
					e.Diag.Infof(e.Module, cs.Line, "untyped_param",
						"call to %q passes a typed argument at position %d but the parameter has no inferred type", fname, i)
				}
			}
		}
	}
}
