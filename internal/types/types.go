// Package types implements the closed type lattice (spec.md §3, §4.1):
// a small value type with no mutable state, a join operator, and the
// C++ type-name mapping the emitter reads from.
package types

// Kind is the closed enumeration of type categories a Lua value can take
// after inference.
type Kind int

const (
	Unknown Kind = iota
	Nil
	Boolean
	Number
	String
	Table
	Function
	Variant
)

func (k Kind) String() string {
	switch k {
	case Unknown:
		return "unknown"
	case Nil:
		return "nil"
	case Boolean:
		return "boolean"
	case Number:
		return "number"
	case String:
		return "string"
	case Table:
		return "table"
	case Function:
		return "function"
	case Variant:
		return "variant"
	}
	return "?"
}

// Type is a single point in the lattice. Variant carries an ordered,
// de-duplicated list of subtypes; construction always flattens nested
// variants (§3 invariants).
type Type struct {
	Kind       Kind
	IsConstant bool
	Subtypes   []Type
}

// New constructs a concrete (non-variant) type.
func New(k Kind) Type { return Type{Kind: k} }

// NewConstant constructs a concrete type with the is_constant flag set,
// used for literal-origin types (pass 2, §4.5).
func NewConstant(k Kind) Type { return Type{Kind: k, IsConstant: true} }

// NewVariant builds a flattened, de-duplicated Variant from subtypes,
// preserving first-seen (insertion) order — the tie-break §4.1 requires
// so that emitted C++ type names never reorder between runs.
func NewVariant(subtypes ...Type) Type {
	var flat []Type
	seen := make(map[Kind]bool)
	var walk func(t Type)
	walk = func(t Type) {
		if t.Kind == Variant {
			for _, s := range t.Subtypes {
				walk(s)
			}
			return
		}
		if !seen[t.Kind] {
			seen[t.Kind] = true
			flat = append(flat, Type{Kind: t.Kind})
		}
	}
	for _, t := range subtypes {
		walk(t)
	}
	if len(flat) == 1 {
		return flat[0]
	}
	return Type{Kind: Variant, Subtypes: flat}
}

// Equal compares two types structurally, ignoring IsConstant.
func Equal(a, b Type) bool {
	if a.Kind != b.Kind {
		return false
	}
	if a.Kind != Variant {
		return true
	}
	if len(a.Subtypes) != len(b.Subtypes) {
		return false
	}
	for i := range a.Subtypes {
		if a.Subtypes[i].Kind != b.Subtypes[i].Kind {
			return false
		}
	}
	return true
}

// Join implements the lattice join (§4.1): identical types are
// idempotent, Unknown is the identity, and any other combination
// produces a flattened Variant. Join is commutative and associative by
// construction.
func Join(a, b Type) Type {
	if a.Kind == Unknown {
		return b
	}
	if b.Kind == Unknown {
		return a
	}
	if Equal(a, b) {
		return a
	}
	return NewVariant(a, b)
}

// CanSpecialize reports whether t can use a concrete native C++ type
// instead of the boxed carrier (§4.1): true only for Number, String and
// Boolean.
func (t Type) CanSpecialize() bool {
	switch t.Kind {
	case Number, String, Boolean:
		return true
	}
	return false
}

// LuaValueName is the C++ name of the generic boxed carrier used when
// specialization is impossible.
const LuaValueName = "luaValue"

// CppType maps a Type to the C++ type name the emitter should declare
// (§3, §4.1).
func (t Type) CppType() string {
	switch t.Kind {
	case Number:
		return "double"
	case String:
		return "std::string"
	case Boolean:
		return "bool"
	case Nil, Table, Function, Unknown:
		return "auto"
	case Variant:
		return LuaValueName
	}
	return "auto"
}
