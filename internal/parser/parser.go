// Package parser implements a recursive-descent parser that turns Lua
// 5.x source text into an internal/ast tree. Adapted from the
// teacher's compiler/parser package (the precedence-climbing shape of
// parseExpN, the prefixexp/var/functioncall suffix loop, block/stat
// dispatch by lookahead) but re-targeted at standard Lua grammar
// instead of the teacher's own "lk" dialect (no `shy`/`fn`/`class`,
// real `local`/`function`/`then`/`do`/`end`/`repeat`/`until`).
package parser

import (
	"fmt"

	"github.com/lua2cpp/lua2cpp/internal/ast"
	"github.com/lua2cpp/lua2cpp/internal/lexer"
)

// ParseError reports a syntax error with its source position.
type ParseError struct {
	ChunkName string
	Line      int
	Msg       string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s:%d: %s", e.ChunkName, e.Line, e.Msg)
}

type parser struct {
	lex       *lexer.Lexer
	chunkName string
}

// Parse parses chunk (the full source text of one Lua file) into a
// Chunk named moduleName. Syntax errors are recovered as a *ParseError
// return rather than a panic, so the pipeline driver (internal/pipeline)
// can report them as ordinary errors.
func Parse(chunk, chunkName, moduleName string) (c *ast.Chunk, err error) {
	defer func() {
		if r := recover(); r != nil {
			if pe, ok := r.(*ParseError); ok {
				err = pe
				return
			}
			panic(r)
		}
	}()

	p := &parser{lex: lexer.NewLexer(chunk, chunkName), chunkName: chunkName}
	block := p.parseBlock()
	p.expect(lexer.EOF)
	return &ast.Chunk{Block: block, Name: moduleName}, nil
}

func (p *parser) errorf(f string, a ...interface{}) {
	panic(&ParseError{ChunkName: p.chunkName, Line: p.lex.Line(), Msg: fmt.Sprintf(f, a...)})
}

func (p *parser) expect(kind int) (line int, token string) {
	line, actualKind, token := p.lex.NextToken()
	if actualKind != kind {
		p.errorf("unexpected token %q", token)
	}
	return line, token
}

func (p *parser) expectIdentifier() (line int, name string) {
	return p.lex.NextIdentifier()
}
