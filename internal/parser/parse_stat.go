package parser

import (
	"github.com/lua2cpp/lua2cpp/internal/ast"
	"github.com/lua2cpp/lua2cpp/internal/lexer"
)

var emptyStat = &ast.EmptyStat{}

/*
stat ::=  ';'
        | break
        | do block end
        | while exp do block end
        | repeat block until exp
        | if exp then block {elseif exp then block} [else block] end
        | for Name '=' exp ',' exp [',' exp] do block end
        | for namelist in explist do block end
        | function funcname funcbody
        | local function Name funcbody
        | local namelist ['=' explist]
        | varlist '=' explist
        | functioncall
*/
func (p *parser) parseStat() ast.Stat {
	switch p.lex.LookAhead() {
	case lexer.SEP_SEMI:
		p.lex.NextToken()
		return emptyStat
	case lexer.SEP_LABEL:
		p.skipLabel()
		return emptyStat
	case lexer.KW_GOTO:
		p.errorf("goto is not supported")
		return nil
	case lexer.KW_BREAK:
		line, _ := p.expect(lexer.KW_BREAK)
		return &ast.BreakStat{Line: line}
	case lexer.KW_DO:
		return p.parseDoStat()
	case lexer.KW_WHILE:
		return p.parseWhileStat()
	case lexer.KW_REPEAT:
		return p.parseRepeatStat()
	case lexer.KW_IF:
		return p.parseIfStat()
	case lexer.KW_FOR:
		return p.parseForStat()
	case lexer.KW_FUNCTION:
		return p.parseFuncDefStat()
	case lexer.KW_LOCAL:
		return p.parseLocalStat()
	default:
		return p.parseAssignOrCallStat()
	}
}

func (p *parser) skipLabel() {
	p.expect(lexer.SEP_LABEL)
	p.expectIdentifier()
	p.expect(lexer.SEP_LABEL)
}

func (p *parser) parseDoStat() *ast.DoStat {
	p.expect(lexer.KW_DO)
	body := p.parseBlock()
	p.expect(lexer.KW_END)
	return &ast.DoStat{Body: body}
}

// while exp do block end
func (p *parser) parseWhileStat() *ast.WhileStat {
	line, _ := p.expect(lexer.KW_WHILE)
	cond := p.parseExp()
	p.expect(lexer.KW_DO)
	body := p.parseBlock()
	p.expect(lexer.KW_END)
	return &ast.WhileStat{Line: line, Cond: cond, Body: body}
}

// repeat block until exp
func (p *parser) parseRepeatStat() *ast.RepeatStat {
	line, _ := p.expect(lexer.KW_REPEAT)
	body := p.parseBlock()
	p.expect(lexer.KW_UNTIL)
	cond := p.parseExp()
	return &ast.RepeatStat{Line: line, Body: body, Cond: cond}
}

// if exp then block {elseif exp then block} [else block] end
func (p *parser) parseIfStat() *ast.IfStat {
	line, _ := p.expect(lexer.KW_IF)
	var clauses []ast.IfClause

	cond := p.parseExp()
	p.expect(lexer.KW_THEN)
	clauses = append(clauses, ast.IfClause{Cond: cond, Body: p.parseBlock()})

	for p.lex.LookAhead() == lexer.KW_ELSEIF {
		p.lex.NextToken()
		cond := p.parseExp()
		p.expect(lexer.KW_THEN)
		clauses = append(clauses, ast.IfClause{Cond: cond, Body: p.parseBlock()})
	}

	if p.lex.LookAhead() == lexer.KW_ELSE {
		p.lex.NextToken()
		clauses = append(clauses, ast.IfClause{Cond: nil, Body: p.parseBlock()})
	}

	p.expect(lexer.KW_END)
	return &ast.IfStat{Line: line, Clauses: clauses}
}

// for Name '=' exp ',' exp [',' exp] do block end
// for namelist in explist do block end
func (p *parser) parseForStat() ast.Stat {
	line, _ := p.expect(lexer.KW_FOR)
	_, name := p.expectIdentifier()
	if p.lex.LookAhead() == lexer.OP_ASSIGN {
		return p.finishForNumStat(line, name)
	}
	return p.finishForInStat(line, name)
}

func (p *parser) finishForNumStat(line int, varName string) *ast.NumericForStat {
	p.expect(lexer.OP_ASSIGN)
	start := p.parseExp()
	p.expect(lexer.SEP_COMMA)
	stop := p.parseExp()

	var step ast.Exp
	if p.lex.LookAhead() == lexer.SEP_COMMA {
		p.lex.NextToken()
		step = p.parseExp()
	}

	p.expect(lexer.KW_DO)
	body := p.parseBlock()
	p.expect(lexer.KW_END)
	return &ast.NumericForStat{Line: line, Name: varName, Start: start, Stop: stop, Step: step, Body: body}
}

func (p *parser) finishForInStat(line int, name0 string) *ast.GenericForStat {
	names := p.finishNameList(name0)
	p.expect(lexer.KW_IN)
	exps := p.parseExpList()
	p.expect(lexer.KW_DO)
	body := p.parseBlock()
	p.expect(lexer.KW_END)
	return &ast.GenericForStat{Line: line, Names: names, Exps: exps, Body: body}
}

func (p *parser) finishNameList(name0 string) []string {
	names := []string{name0}
	for p.lex.LookAhead() == lexer.SEP_COMMA {
		p.lex.NextToken()
		_, name := p.expectIdentifier()
		names = append(names, name)
	}
	return names
}

// local function Name funcbody
// local namelist ['=' explist]
func (p *parser) parseLocalStat() ast.Stat {
	line, _ := p.expect(lexer.KW_LOCAL)
	if p.lex.LookAhead() == lexer.KW_FUNCTION {
		return p.finishLocalFuncDefStat(line)
	}
	return p.finishLocalAssignStat(line)
}

func (p *parser) finishLocalFuncDefStat(line int) *ast.LocalFunctionStat {
	p.expect(lexer.KW_FUNCTION)
	_, name := p.expectIdentifier()
	fn := p.parseFuncDefExp()
	return &ast.LocalFunctionStat{Line: line, Name: name, Fn: fn}
}

// namelist ::= Name ['<' attrib '>'] {',' Name ['<' attrib '>']}
func (p *parser) finishLocalAssignStat(line int) *ast.LocalAssignStat {
	var names []string
	var attribs []string

	name0, attrib0 := p.parseAttribName()
	names = append(names, name0)
	attribs = append(attribs, attrib0)
	for p.lex.LookAhead() == lexer.SEP_COMMA {
		p.lex.NextToken()
		name, attrib := p.parseAttribName()
		names = append(names, name)
		attribs = append(attribs, attrib)
	}

	var exps []ast.Exp
	if p.lex.LookAhead() == lexer.OP_ASSIGN {
		p.lex.NextToken()
		exps = p.parseExpList()
	}
	return &ast.LocalAssignStat{Line: line, Names: names, Attribs: attribs, Exps: exps}
}

func (p *parser) parseAttribName() (name, attrib string) {
	_, name = p.expectIdentifier()
	if p.lex.LookAhead() == lexer.OP_LT {
		p.lex.NextToken()
		_, attrib = p.expectIdentifier()
		p.expect(lexer.OP_GT)
	}
	return
}

// varlist '=' explist | functioncall
func (p *parser) parseAssignOrCallStat() ast.Stat {
	line := p.lex.Line()
	exp := p.parsePrefixExp()
	if call, ok := exp.(*ast.CallExp); ok && p.lex.LookAhead() != lexer.OP_ASSIGN && p.lex.LookAhead() != lexer.SEP_COMMA {
		return &ast.CallStat{Line: call.Line, Call: call}
	}
	if call, ok := exp.(*ast.MethodCallExp); ok && p.lex.LookAhead() != lexer.OP_ASSIGN && p.lex.LookAhead() != lexer.SEP_COMMA {
		return &ast.CallStat{Line: call.Line, Call: call}
	}
	return p.parseAssignStat(line, exp)
}

// varlist ::= var {',' var}
func (p *parser) parseAssignStat(line int, var0 ast.Exp) *ast.AssignStat {
	targets := []ast.Exp{p.checkVar(var0)}
	for p.lex.LookAhead() == lexer.SEP_COMMA {
		p.lex.NextToken()
		targets = append(targets, p.checkVar(p.parsePrefixExp()))
	}
	p.expect(lexer.OP_ASSIGN)
	exps := p.parseExpList()
	return &ast.AssignStat{Line: line, Targets: targets, Exps: exps}
}

func (p *parser) checkVar(exp ast.Exp) ast.Exp {
	switch exp.(type) {
	case *ast.NameExp, *ast.IndexExp:
		return exp
	}
	p.errorf("syntax error: not an assignable expression")
	return nil
}

// function funcname funcbody
// funcname ::= Name {'.' Name} [':' Name]
func (p *parser) parseFuncDefStat() *ast.FunctionStat {
	line, _ := p.expect(lexer.KW_FUNCTION)
	target, isMethod := p.parseFuncName()
	fn := p.parseFuncDefExp()
	if isMethod {
		fn.ParList = append([]string{"self"}, fn.ParList...)
	}
	return &ast.FunctionStat{Line: line, Target: target, IsMethod: isMethod, Fn: fn}
}

func (p *parser) parseFuncName() (target ast.Exp, isMethod bool) {
	line, name := p.expectIdentifier()
	target = &ast.NameExp{Line: line, Name: name}

	for p.lex.LookAhead() == lexer.SEP_DOT {
		p.lex.NextToken()
		line, name := p.expectIdentifier()
		target = &ast.IndexExp{Line: line, Obj: target, Key: &ast.StringExp{Line: line, Str: name}}
	}

	if p.lex.LookAhead() == lexer.SEP_COLON {
		p.lex.NextToken()
		line, name := p.expectIdentifier()
		target = &ast.IndexExp{Line: line, Obj: target, Key: &ast.StringExp{Line: line, Str: name}}
		isMethod = true
	}
	return
}
