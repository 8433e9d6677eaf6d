package ast

// Binary and unary operator codes. Kept independent of the lexer's token
// kinds (unlike the teacher, which dot-imports lexer tokens straight into
// codegen) so that internal/types and internal/infer never need to import
// internal/lexer.
const (
	OpAdd = iota
	OpSub
	OpMul
	OpDiv
	OpIDiv
	OpMod
	OpPow
	OpConcat
	OpEq
	OpNe
	OpLt
	OpLe
	OpGt
	OpGe
	OpAnd
	OpOr
	OpBAnd
	OpBOr
	OpBXor
	OpShl
	OpShr
)

const (
	UnopMinus = iota
	UnopNot
	UnopLen
	UnopBNot
)

// IsArith reports whether op is one of the arithmetic operators that
// follow Number×Number→Number specialization rules (§4.5 pass 2).
func IsArith(op int) bool {
	switch op {
	case OpAdd, OpSub, OpMul, OpDiv, OpIDiv, OpMod, OpPow:
		return true
	}
	return false
}

// IsCompare reports whether op is a relational/equality operator.
func IsCompare(op int) bool {
	switch op {
	case OpEq, OpNe, OpLt, OpLe, OpGt, OpGe:
		return true
	}
	return false
}

// IsBitwise reports whether op is a Lua 5.4 bitwise operator. Full
// bitwise lowering is a Non-goal (spec.md §1); the lattice still needs to
// classify these for pass 2.
func IsBitwise(op int) bool {
	switch op {
	case OpBAnd, OpBOr, OpBXor, OpShl, OpShr:
		return true
	}
	return false
}
