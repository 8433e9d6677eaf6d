package infer

import (
	"github.com/lua2cpp/lua2cpp/internal/tableshape"
	"github.com/lua2cpp/lua2cpp/internal/types"
)

// propagate is pass 3 (spec.md §4.5 pass 3): alternates arg→param and
// param→arg sub-passes over the registry's table-shape records until
// neither changes anything or MaxIterations is hit. Traversal order is
// always registry.AllFunctions() / recorded call-site order, so results
// are deterministic across runs (spec.md §5 ordering guarantee (iii)).
func (e *Engine) propagate() {
	for iter := 1; iter <= MaxIterations; iter++ {
		changedArgToParam := e.propagateArgsToParams()
		changedParamToArg := e.propagateParamsToArgs()
		if !changedArgToParam && !changedParamToArg {
			return
		}
	}
}

func (e *Engine) propagateArgsToParams() bool {
	changed := false
	for _, fname := range e.Registry.AllFunctions() {
		sig := e.Registry.Get(fname)
		for _, cs := range sig.CallSites {
			for i := range cs.ArgSymbols {
				if i >= len(sig.ParamNames) {
					// Extra call-site argument beyond the callee's declared
					// parameters: legal Lua, discarded at the call — never a
					// valid ParamTableInfo/ParamTypes key (spec.md:77).
					continue
				}
				name, ok := cs.ArgSymbol(i)
				if !ok {
					continue
				}
				argT := e.TypeOf(name)
				if argT.Kind == types.Unknown {
					continue
				}
				rec, ok := sig.ParamTableInfo[i]
				if !ok {
					rec = tableshape.New()
					sig.ParamTableInfo[i] = rec
				}
				before := rec.ValueType
				hadValue := rec.HasValueType()
				rec.MergeValueType(argT)
				if !hadValue || !types.Equal(before, rec.ValueType) {
					changed = true
					e.Propagation.record(PropagationEvent{
						Direction:  ArgToParam,
						Function:   fname,
						ParamIndex: i,
						Symbol:     name,
						From:       before,
						To:         rec.ValueType,
					})
				}
				sig.ParamTypes[i] = rec.ValueType
			}
		}
	}
	return changed
}

func (e *Engine) propagateParamsToArgs() bool {
	changed := false
	for _, fname := range e.Registry.AllFunctions() {
		sig := e.Registry.Get(fname)
		for i := range sig.ParamNames {
			rec, ok := sig.ParamTableInfo[i]
			if !ok || !rec.HasValueType() {
				continue
			}
			for _, cs := range sig.CallSites {
				name, ok := cs.ArgSymbol(i)
				if !ok {
					continue
				}
				existing := e.TypeOf(name)
				if existing.Kind == types.Unknown {
					e.mergeType(name, rec.ValueType)
					changed = true
					e.Propagation.record(PropagationEvent{
						Direction:  ParamToArg,
						Function:   fname,
						ParamIndex: i,
						Symbol:     name,
						From:       existing,
						To:         e.TypeOf(name),
					})
					continue
				}
				joined := types.Join(existing, rec.ValueType)
				if !types.Equal(joined, existing) {
					e.mergeType(name, rec.ValueType)
					changed = true
					e.Propagation.record(PropagationEvent{
						Direction:  ParamToArg,
						Function:   fname,
						ParamIndex: i,
						Symbol:     name,
						From:       existing,
						To:         e.TypeOf(name),
					})
				}
			}
		}
	}
	return changed
}
