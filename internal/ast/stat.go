package ast

// Stat is any statement node.
type Stat interface {
	statNode()
}

// Block ::= {stat} [retstat]
type Block struct {
	Stats    []Stat
	RetExps  []Exp // nil when the block has no return statement
	LastLine int
}

// Chunk is the top-level block of one source file.
type Chunk struct {
	Block *Block
	Name  string // module name, e.g. "utils" or "a__b"
}

type LocalAssignStat struct {
	Line    int
	Names   []string
	Attribs []string // Lua 5.4 <const>/<close> attributes, parsed but not lowered
	Exps    []Exp
}

type AssignStat struct {
	Line    int
	Targets []Exp // NameExp or IndexExp
	Exps    []Exp
}

// LocalFunctionStat ::= local function Name funcbody
type LocalFunctionStat struct {
	Line int
	Name string
	Fn   *FuncDefExp
}

// FunctionStat ::= function funcname funcbody
// funcname may be a dotted/colon path (a.b.c or a.b:c); Target captures
// the assignable prefix expression and IsMethod marks the ':' sugar form
// (an implicit "self" parameter is prepended to Fn.ParList by the parser).
type FunctionStat struct {
	Line     int
	Target   Exp // NameExp or IndexExp
	IsMethod bool
	Fn       *FuncDefExp
}

type CallStat struct {
	Line int
	Call Exp // *CallExp or *MethodCallExp
}

type DoStat struct {
	Body *Block
}

type WhileStat struct {
	Line int
	Cond Exp
	Body *Block
}

type RepeatStat struct {
	Line int
	Body *Block
	Cond Exp
}

type IfClause struct {
	Cond Exp // nil for the trailing else
	Body *Block
}

type IfStat struct {
	Line    int
	Clauses []IfClause
}

// NumericForStat ::= for Name '=' exp ',' exp [',' exp] do block end
type NumericForStat struct {
	Line     int
	Name     string
	Start    Exp
	Stop     Exp
	Step     Exp // nil means literal step of 1
	Body     *Block
}

// GenericForStat ::= for namelist in explist do block end
type GenericForStat struct {
	Line    int
	Names   []string
	Exps    []Exp
	Body    *Block
}

type ReturnStat struct {
	Line int
	Exps []Exp
}

type BreakStat struct{ Line int }

type EmptyStat struct{}

func (*LocalAssignStat) statNode()   {}
func (*AssignStat) statNode()        {}
func (*LocalFunctionStat) statNode() {}
func (*FunctionStat) statNode()      {}
func (*CallStat) statNode()          {}
func (*DoStat) statNode()            {}
func (*WhileStat) statNode()         {}
func (*RepeatStat) statNode()        {}
func (*IfStat) statNode()            {}
func (*NumericForStat) statNode()    {}
func (*GenericForStat) statNode()    {}
func (*ReturnStat) statNode()        {}
func (*BreakStat) statNode()         {}
func (*EmptyStat) statNode()         {}
