package parser

import (
	"github.com/lua2cpp/lua2cpp/internal/ast"
	"github.com/lua2cpp/lua2cpp/internal/lexer"
)

// explist ::= exp {',' exp}
func (p *parser) parseExpList() []ast.Exp {
	exps := make([]ast.Exp, 0, 4)
	exps = append(exps, p.parseExp())
	for p.lex.LookAhead() == lexer.SEP_COMMA {
		p.lex.NextToken()
		exps = append(exps, p.parseExp())
	}
	return exps
}

/*
Lua operator precedence, lowest to highest (Lua 5.x reference manual):

	or
	and
	<     >     <=    >=    ~=    ==
	|
	~
	&
	<<    >>
	..
	+     -
	*     /     //    %
	unary operators (not # - ~)
	^
*/
func (p *parser) parseExp() ast.Exp { return p.parseExpOr() }

func (p *parser) parseExpOr() ast.Exp {
	exp := p.parseExpAnd()
	for p.lex.LookAhead() == lexer.OP_OR {
		line, _, _ := p.lex.NextToken()
		exp = &ast.BinopExp{Line: line, Op: ast.OpOr, Left: exp, Right: p.parseExpAnd()}
	}
	return exp
}

func (p *parser) parseExpAnd() ast.Exp {
	exp := p.parseExpCompare()
	for p.lex.LookAhead() == lexer.OP_AND {
		line, _, _ := p.lex.NextToken()
		exp = &ast.BinopExp{Line: line, Op: ast.OpAnd, Left: exp, Right: p.parseExpCompare()}
	}
	return exp
}

var compareOps = map[int]int{
	lexer.OP_LT: ast.OpLt, lexer.OP_GT: ast.OpGt,
	lexer.OP_LE: ast.OpLe, lexer.OP_GE: ast.OpGe,
	lexer.OP_EQ: ast.OpEq, lexer.OP_NE: ast.OpNe,
}

func (p *parser) parseExpCompare() ast.Exp {
	exp := p.parseExpBOr()
	for {
		op, ok := compareOps[p.lex.LookAhead()]
		if !ok {
			return exp
		}
		line, _, _ := p.lex.NextToken()
		exp = &ast.BinopExp{Line: line, Op: op, Left: exp, Right: p.parseExpBOr()}
	}
}

func (p *parser) parseExpBOr() ast.Exp {
	exp := p.parseExpBXor()
	for p.lex.LookAhead() == lexer.OP_BOR {
		line, _, _ := p.lex.NextToken()
		exp = &ast.BinopExp{Line: line, Op: ast.OpBOr, Left: exp, Right: p.parseExpBXor()}
	}
	return exp
}

func (p *parser) parseExpBXor() ast.Exp {
	exp := p.parseExpBAnd()
	for p.lex.LookAhead() == lexer.OP_BNOT {
		line, _, _ := p.lex.NextToken()
		exp = &ast.BinopExp{Line: line, Op: ast.OpBXor, Left: exp, Right: p.parseExpBAnd()}
	}
	return exp
}

func (p *parser) parseExpBAnd() ast.Exp {
	exp := p.parseExpShift()
	for p.lex.LookAhead() == lexer.OP_BAND {
		line, _, _ := p.lex.NextToken()
		exp = &ast.BinopExp{Line: line, Op: ast.OpBAnd, Left: exp, Right: p.parseExpShift()}
	}
	return exp
}

func (p *parser) parseExpShift() ast.Exp {
	exp := p.parseExpConcat()
	for {
		switch p.lex.LookAhead() {
		case lexer.OP_SHL:
			line, _, _ := p.lex.NextToken()
			exp = &ast.BinopExp{Line: line, Op: ast.OpShl, Left: exp, Right: p.parseExpConcat()}
		case lexer.OP_SHR:
			line, _, _ := p.lex.NextToken()
			exp = &ast.BinopExp{Line: line, Op: ast.OpShr, Left: exp, Right: p.parseExpConcat()}
		default:
			return exp
		}
	}
}

// .. is right-associative.
func (p *parser) parseExpConcat() ast.Exp {
	exp := p.parseExpAdd()
	if p.lex.LookAhead() == lexer.OP_CONCAT {
		line, _, _ := p.lex.NextToken()
		return &ast.BinopExp{Line: line, Op: ast.OpConcat, Left: exp, Right: p.parseExpConcat()}
	}
	return exp
}

func (p *parser) parseExpAdd() ast.Exp {
	exp := p.parseExpMul()
	for {
		switch p.lex.LookAhead() {
		case lexer.OP_ADD:
			line, _, _ := p.lex.NextToken()
			exp = &ast.BinopExp{Line: line, Op: ast.OpAdd, Left: exp, Right: p.parseExpMul()}
		case lexer.OP_MINUS:
			line, _, _ := p.lex.NextToken()
			exp = &ast.BinopExp{Line: line, Op: ast.OpSub, Left: exp, Right: p.parseExpMul()}
		default:
			return exp
		}
	}
}

func (p *parser) parseExpMul() ast.Exp {
	exp := p.parseExpUnary()
	for {
		var op int
		switch p.lex.LookAhead() {
		case lexer.OP_MUL:
			op = ast.OpMul
		case lexer.OP_DIV:
			op = ast.OpDiv
		case lexer.OP_IDIV:
			op = ast.OpIDiv
		case lexer.OP_MOD:
			op = ast.OpMod
		default:
			return exp
		}
		line, _, _ := p.lex.NextToken()
		exp = &ast.BinopExp{Line: line, Op: op, Left: exp, Right: p.parseExpUnary()}
	}
}

func (p *parser) parseExpUnary() ast.Exp {
	var op int
	switch p.lex.LookAhead() {
	case lexer.OP_NOT:
		op = ast.UnopNot
	case lexer.OP_LEN:
		op = ast.UnopLen
	case lexer.OP_MINUS:
		op = ast.UnopMinus
	case lexer.OP_BNOT:
		op = ast.UnopBNot
	default:
		return p.parseExpPow()
	}
	line, _, _ := p.lex.NextToken()
	return &ast.UnopExp{Line: line, Op: op, Exp: p.parseExpUnary()}
}

// ^ is right-associative and binds tighter than unary on its right side.
func (p *parser) parseExpPow() ast.Exp {
	exp := p.parseExp0()
	if p.lex.LookAhead() == lexer.OP_POW {
		line, _, _ := p.lex.NextToken()
		return &ast.BinopExp{Line: line, Op: ast.OpPow, Left: exp, Right: p.parseExpUnary()}
	}
	return exp
}

func (p *parser) parseExp0() ast.Exp {
	switch p.lex.LookAhead() {
	case lexer.VARARG:
		line, _, _ := p.lex.NextToken()
		return &ast.VarargExp{Line: line}
	case lexer.KW_NIL:
		line, _, _ := p.lex.NextToken()
		return &ast.NilExp{Line: line}
	case lexer.KW_TRUE:
		line, _, _ := p.lex.NextToken()
		return &ast.TrueExp{Line: line}
	case lexer.KW_FALSE:
		line, _, _ := p.lex.NextToken()
		return &ast.FalseExp{Line: line}
	case lexer.STRING:
		line, _, token := p.lex.NextToken()
		return &ast.StringExp{Line: line, Str: token}
	case lexer.NUMBER:
		return p.parseNumberExp()
	case lexer.SEP_LCURLY:
		return p.parseTableConstructorExp()
	case lexer.KW_FUNCTION:
		p.lex.NextToken()
		return p.parseFuncDefExp()
	default:
		return p.parsePrefixExp()
	}
}

func (p *parser) parseNumberExp() ast.Exp {
	line, _, token := p.lex.NextToken()
	v, ok := parseNumberLiteral(token)
	if !ok {
		p.errorf("malformed number near %q", token)
	}
	return &ast.NumberExp{Line: line, Value: v}
}

// functiondef ::= function funcbody
// funcbody ::= '(' [parlist] ')' block end
func (p *parser) parseFuncDefExp() *ast.FuncDefExp {
	line := p.lex.Line()
	p.expect(lexer.SEP_LPAREN)
	parList, isVararg := p.parseParList()
	p.expect(lexer.SEP_RPAREN)
	block := p.parseBlock()
	lastLine, _ := p.expect(lexer.KW_END)
	return &ast.FuncDefExp{Line: line, LastLine: lastLine, ParList: parList, IsVararg: isVararg, Block: block}
}

// parlist ::= namelist [',' '...'] | '...'
func (p *parser) parseParList() (names []string, isVararg bool) {
	switch p.lex.LookAhead() {
	case lexer.SEP_RPAREN:
		return nil, false
	case lexer.VARARG:
		p.lex.NextToken()
		return nil, true
	}

	_, name := p.expectIdentifier()
	names = append(names, name)
	for p.lex.LookAhead() == lexer.SEP_COMMA {
		p.lex.NextToken()
		if p.lex.LookAhead() == lexer.IDENTIFIER {
			_, name := p.expectIdentifier()
			names = append(names, name)
		} else {
			p.expect(lexer.VARARG)
			isVararg = true
			break
		}
	}
	return
}

// tableconstructor ::= '{' [fieldlist] '}'
func (p *parser) parseTableConstructorExp() *ast.TableConstructorExp {
	line := p.lex.Line()
	p.expect(lexer.SEP_LCURLY)
	fields := p.parseFieldList()
	lastLine, _ := p.expect(lexer.SEP_RCURLY)
	return &ast.TableConstructorExp{Line: line, LastLine: lastLine, Fields: fields}
}

// fieldlist ::= field {fieldsep field} [fieldsep]
// fieldsep  ::= ',' | ';'
func (p *parser) parseFieldList() []ast.Field {
	var fields []ast.Field
	for p.lex.LookAhead() != lexer.SEP_RCURLY {
		fields = append(fields, p.parseField())
		switch p.lex.LookAhead() {
		case lexer.SEP_COMMA, lexer.SEP_SEMI:
			p.lex.NextToken()
		default:
			return fields
		}
	}
	return fields
}

// field ::= '[' exp ']' '=' exp | Name '=' exp | exp
func (p *parser) parseField() ast.Field {
	if p.lex.LookAhead() == lexer.SEP_LBRACK {
		p.lex.NextToken()
		key := p.parseExp()
		p.expect(lexer.SEP_RBRACK)
		p.expect(lexer.OP_ASSIGN)
		return ast.Field{Kind: ast.FieldKeyed, Key: key, Val: p.parseExp()}
	}

	if p.lex.LookAhead() == lexer.IDENTIFIER && p.lex.LookAhead2() == lexer.OP_ASSIGN {
		line, name := p.expectIdentifier()
		p.expect(lexer.OP_ASSIGN)
		return ast.Field{Kind: ast.FieldNamed, Key: &ast.StringExp{Line: line, Str: name}, Val: p.parseExp()}
	}

	return ast.Field{Kind: ast.FieldPositional, Val: p.parseExp()}
}
