package infer

import (
	"github.com/lua2cpp/lua2cpp/internal/ast"
	"github.com/lua2cpp/lua2cpp/internal/scope"
	"github.com/lua2cpp/lua2cpp/internal/types"
)

// inferBlock is pass 2 (spec.md §4.5 pass 2): walk every statement and
// expression, computing types via the lattice and feeding the table-
// shape analyzer and function registry as it goes.
func (e *Engine) inferBlock(b *ast.Block) {
	for _, s := range b.Stats {
		e.inferStat(s)
	}
	for _, ret := range b.RetExps {
		e.inferExp(ret)
	}
}

func (e *Engine) inferStat(s ast.Stat) {
	switch st := s.(type) {
	case *ast.LocalAssignStat:
		e.inferLocalAssign(st)
	case *ast.AssignStat:
		e.inferAssign(st)
	case *ast.LocalFunctionStat:
		e.mergeType(st.Name, types.New(types.Function))
		e.inferFuncBody(st.Name, st.Fn)
	case *ast.FunctionStat:
		name := functionStatName(st)
		e.mergeType(name, types.New(types.Function))
		e.inferFuncBody(name, st.Fn)
	case *ast.CallStat:
		e.inferExp(st.Call)
	case *ast.DoStat:
		e.Scopes.Push()
		e.inferBlock(st.Body)
		e.Scopes.Pop()
	case *ast.WhileStat:
		e.inferExp(st.Cond)
		e.Scopes.Push()
		e.inferBlock(st.Body)
		e.Scopes.Pop()
	case *ast.RepeatStat:
		e.Scopes.Push()
		e.inferBlock(st.Body)
		e.inferExp(st.Cond)
		e.Scopes.Pop()
	case *ast.IfStat:
		for _, clause := range st.Clauses {
			if clause.Cond != nil {
				e.inferExp(clause.Cond)
			}
			if clause.Body != nil {
				e.Scopes.Push()
				e.inferBlock(clause.Body)
				e.Scopes.Pop()
			}
		}
	case *ast.NumericForStat:
		e.inferExp(st.Start)
		e.inferExp(st.Stop)
		if st.Step != nil {
			e.inferExp(st.Step)
		}
		e.Scopes.Push()
		e.Scopes.Define(st.Name, &scope.Symbol{InferredType: types.New(types.Number)})
		e.mergeType(st.Name, types.New(types.Number))
		e.inferBlock(st.Body)
		e.Scopes.Pop()
	case *ast.GenericForStat:
		for _, exp := range st.Exps {
			e.inferExp(exp)
		}
		e.Scopes.Push()
		for _, n := range st.Names {
			e.Scopes.Define(n, &scope.Symbol{})
		}
		e.inferBlock(st.Body)
		e.Scopes.Pop()
	case *ast.ReturnStat:
		for _, exp := range st.Exps {
			e.inferExp(exp)
		}
	case *ast.BreakStat, *ast.EmptyStat:
		// no type information.
	}
}

func (e *Engine) inferLocalAssign(st *ast.LocalAssignStat) {
	vals := make([]types.Type, len(st.Names))
	for i, exp := range st.Exps {
		t := e.inferExp(exp)
		if i < len(vals) {
			vals[i] = t
		}
		if i < len(st.Names) {
			e.maybeObserveTableAssign(st.Names[i], exp, t)
		}
	}
	for i, name := range st.Names {
		e.Scopes.Define(name, &scope.Symbol{})
		e.mergeType(name, vals[i])
	}
}

func (e *Engine) inferAssign(st *ast.AssignStat) {
	for i, target := range st.Targets {
		var val types.Type
		var rhs ast.Exp
		if i < len(st.Exps) {
			rhs = st.Exps[i]
			val = e.inferExp(rhs)
		} else {
			val = types.New(types.Unknown)
		}

		switch t := target.(type) {
		case *ast.NameExp:
			if !e.Scopes.IsLocal(t.Name) && e.Scopes.Lookup(t.Name) == nil {
				e.Scopes.DefineGlobal(t.Name, &scope.Symbol{})
			}
			e.mergeType(t.Name, val)
			e.maybeObserveTableAssign(t.Name, rhs, val)
		case *ast.IndexExp:
			e.inferExp(t.Obj)
			e.inferExp(t.Key)
			e.observeTableIndex(t, val)
		}
	}
}

// maybeObserveTableAssign seeds a table-shape record the first time a
// symbol is bound to a table-constructor expression, so later indexing
// of that symbol has a record to attach to.
func (e *Engine) maybeObserveTableAssign(name string, rhs ast.Exp, _ types.Type) {
	if _, ok := rhs.(*ast.TableConstructorExp); ok {
		e.TableOf(name)
	}
}

// observeTableIndex feeds the table-shape analyzer (spec.md §4.4) from
// an index expression `t[k]` (read) or `t[k] = v` (write, val != zero).
func (e *Engine) observeTableIndex(idx *ast.IndexExp, val types.Type) {
	name, ok := tableBaseName(idx.Obj)
	if !ok {
		return
	}
	rec := e.TableOf(name)
	switch k := idx.Key.(type) {
	case *ast.NumberExp:
		rec.ObserveNumericKey(int64(k.Value))
	case *ast.StringExp:
		rec.ObserveStringKey(k.Str)
	}
	if val.Kind != types.Unknown {
		rec.MergeValueType(val)
	}
}

func tableBaseName(e ast.Exp) (string, bool) {
	n, ok := e.(*ast.NameExp)
	if !ok {
		return "", false
	}
	return n.Name, true
}

// inferFuncBody walks a function's body under a fresh nested scope with
// its parameters bound as Unknown (pass 3 fills parameter types later),
// tracking funcName as the caller for any call sites recorded inside.
func (e *Engine) inferFuncBody(funcName string, fn *ast.FuncDefExp) {
	e.Scopes.Push()
	for i, p := range fn.ParList {
		e.Scopes.Define(p, &scope.Symbol{IsParameter: true, ParamIndex: i})
	}
	e.currentFunc = append(e.currentFunc, funcName)
	e.inferBlock(fn.Block)
	e.currentFunc = e.currentFunc[:len(e.currentFunc)-1]
	e.Scopes.Pop()
}

// inferExp computes an expression's type per the lattice rules of
// spec.md §4.5 pass 2.
func (e *Engine) inferExp(exp ast.Exp) types.Type {
	switch n := exp.(type) {
	case *ast.NilExp:
		return types.NewConstant(types.Nil)
	case *ast.TrueExp, *ast.FalseExp:
		return types.NewConstant(types.Boolean)
	case *ast.NumberExp:
		return types.NewConstant(types.Number)
	case *ast.StringExp:
		return types.NewConstant(types.String)
	case *ast.VarargExp:
		return types.New(types.Unknown)
	case *ast.NameExp:
		return e.TypeOf(n.Name)
	case *ast.ParenExp:
		return e.inferExp(n.Exp)
	case *ast.UnopExp:
		return e.inferUnop(n)
	case *ast.BinopExp:
		return e.inferBinop(n)
	case *ast.TableConstructorExp:
		e.inferTableConstructor(n)
		return types.New(types.Table)
	case *ast.FuncDefExp:
		return types.New(types.Function)
	case *ast.IndexExp:
		e.inferExp(n.Obj)
		e.inferExp(n.Key)
		e.observeTableIndex(n, types.New(types.Unknown))
		return types.New(types.Unknown)
	case *ast.CallExp:
		return e.inferCall(n)
	case *ast.MethodCallExp:
		e.inferExp(n.Obj)
		for _, a := range n.Args {
			e.inferExp(a)
		}
		return types.New(types.Unknown)
	}
	return types.New(types.Unknown)
}

func (e *Engine) inferUnop(n *ast.UnopExp) types.Type {
	operand := e.inferExp(n.Exp)
	switch n.Op {
	case ast.UnopMinus:
		return operand // preserves operand type, §4.5 pass 2.
	case ast.UnopNot:
		return types.New(types.Boolean)
	case ast.UnopLen:
		return types.New(types.Number)
	case ast.UnopBNot:
		return types.New(types.Unknown)
	}
	return types.New(types.Unknown)
}

func (e *Engine) inferBinop(n *ast.BinopExp) types.Type {
	switch {
	case ast.IsArith(n.Op):
		left := e.inferExp(n.Left)
		right := e.inferExp(n.Right)
		if left.Kind == types.Number && right.Kind == types.Number {
			return types.New(types.Number)
		}
		return types.New(types.Unknown)
	case n.Op == ast.OpConcat:
		e.inferExp(n.Left)
		e.inferExp(n.Right)
		return types.New(types.String)
	case ast.IsCompare(n.Op):
		e.inferExp(n.Left)
		e.inferExp(n.Right)
		return types.New(types.Boolean)
	case n.Op == ast.OpAnd || n.Op == ast.OpOr:
		left := e.inferExp(n.Left)
		right := e.inferExp(n.Right)
		return types.Join(left, right)
	case ast.IsBitwise(n.Op):
		e.inferExp(n.Left)
		e.inferExp(n.Right)
		return types.New(types.Unknown)
	}
	return types.New(types.Unknown)
}

func (e *Engine) inferTableConstructor(n *ast.TableConstructorExp) {
	for _, f := range n.Fields {
		switch f.Kind {
		case ast.FieldPositional:
			e.inferExp(f.Val)
		case ast.FieldNamed:
			e.inferExp(f.Val)
		case ast.FieldKeyed:
			e.inferExp(f.Key)
			e.inferExp(f.Val)
		}
	}
}

// inferCall infers a call expression, recording a call site on the
// registry when the callee is a plain name (spec.md §4.5 pass 2 "Calls:
// walk function expression and arguments; record a call site with
// arg_symbols[i] = Some(name) iff argument i is a bare name").
func (e *Engine) inferCall(n *ast.CallExp) types.Type {
	e.inferExp(n.Fn)
	argSymbols := make([]string, len(n.Args))
	for i, a := range n.Args {
		e.inferExp(a)
		if name, ok := a.(*ast.NameExp); ok {
			argSymbols[i] = name.Name
		}
	}
	if callee, ok := n.Fn.(*ast.NameExp); ok {
		e.Registry.RecordCallSite(e.caller(), callee.Name, argSymbols, n.Line)
	}
	return types.New(types.Unknown)
}
