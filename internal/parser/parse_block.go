package parser

import (
	"github.com/lua2cpp/lua2cpp/internal/ast"
	"github.com/lua2cpp/lua2cpp/internal/lexer"
)

// block ::= {stat} [retstat]
func (p *parser) parseBlock() *ast.Block {
	return &ast.Block{
		Stats:    p.parseStats(),
		RetExps:  p.parseRetExps(),
		LastLine: p.lex.Line(),
	}
}

func (p *parser) parseStats() []ast.Stat {
	stats := make([]ast.Stat, 0, 8)
	for !isBlockFollow(p.lex.LookAhead()) {
		stat := p.parseStat()
		if _, ok := stat.(*ast.EmptyStat); !ok {
			stats = append(stats, stat)
		}
	}
	return stats
}

func isBlockFollow(kind int) bool {
	switch kind {
	case lexer.EOF, lexer.KW_END, lexer.KW_ELSE, lexer.KW_ELSEIF, lexer.KW_UNTIL, lexer.KW_RETURN:
		return true
	}
	return false
}

// retstat ::= return [explist] [';']
func (p *parser) parseRetExps() []ast.Exp {
	if p.lex.LookAhead() != lexer.KW_RETURN {
		return nil
	}
	p.lex.NextToken()
	switch p.lex.LookAhead() {
	case lexer.EOF, lexer.KW_END, lexer.KW_ELSE, lexer.KW_ELSEIF, lexer.KW_UNTIL:
		return []ast.Exp{}
	case lexer.SEP_SEMI:
		p.lex.NextToken()
		return []ast.Exp{}
	default:
		exps := p.parseExpList()
		if p.lex.LookAhead() == lexer.SEP_SEMI {
			p.lex.NextToken()
		}
		return exps
	}
}
