package parser

import (
	"github.com/lua2cpp/lua2cpp/internal/ast"
	"github.com/lua2cpp/lua2cpp/internal/lexer"
)

/*
prefixexp ::= Name
            | '(' exp ')'
            | prefixexp '[' exp ']'
            | prefixexp '.' Name
            | prefixexp [':' Name] args
*/
func (p *parser) parsePrefixExp() ast.Exp {
	var exp ast.Exp
	if p.lex.LookAhead() == lexer.IDENTIFIER {
		line, name := p.expectIdentifier()
		exp = &ast.NameExp{Line: line, Name: name}
	} else {
		exp = p.parseParensExp()
	}
	return p.finishPrefixExp(exp)
}

func (p *parser) parseParensExp() ast.Exp {
	p.expect(lexer.SEP_LPAREN)
	exp := p.parseExp()
	p.expect(lexer.SEP_RPAREN)

	switch exp.(type) {
	case *ast.VarargExp, *ast.CallExp, *ast.MethodCallExp, *ast.NameExp, *ast.IndexExp:
		return &ast.ParenExp{Exp: exp}
	}
	return exp
}

func (p *parser) finishPrefixExp(exp ast.Exp) ast.Exp {
	for {
		switch p.lex.LookAhead() {
		case lexer.SEP_LBRACK:
			p.lex.NextToken()
			key := p.parseExp()
			line, _ := p.expect(lexer.SEP_RBRACK)
			exp = &ast.IndexExp{Line: line, Obj: exp, Key: key}
		case lexer.SEP_DOT:
			p.lex.NextToken()
			line, name := p.expectIdentifier()
			exp = &ast.IndexExp{Line: line, Obj: exp, Key: &ast.StringExp{Line: line, Str: name}}
		case lexer.SEP_COLON:
			p.lex.NextToken()
			line, method := p.expectIdentifier()
			args := p.parseArgs()
			exp = &ast.MethodCallExp{Line: line, LastLine: p.lex.Line(), Obj: exp, Method: method, Args: args}
		case lexer.SEP_LPAREN, lexer.STRING, lexer.SEP_LCURLY:
			line := p.lex.Line()
			args := p.parseArgs()
			exp = &ast.CallExp{Line: line, LastLine: p.lex.Line(), Fn: exp, Args: args}
		default:
			return exp
		}
	}
}

// args ::= '(' [explist] ')' | tableconstructor | LiteralString
func (p *parser) parseArgs() (args []ast.Exp) {
	switch p.lex.LookAhead() {
	case lexer.SEP_LPAREN:
		p.lex.NextToken()
		if p.lex.LookAhead() != lexer.SEP_RPAREN {
			args = p.parseExpList()
		}
		p.expect(lexer.SEP_RPAREN)
	case lexer.SEP_LCURLY:
		args = []ast.Exp{p.parseTableConstructorExp()}
	default:
		line, str := p.expect(lexer.STRING)
		args = []ast.Exp{&ast.StringExp{Line: line, Str: str}}
	}
	return
}
