// Package parser implements a recursive descent parser for GLSL
package parser

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/raymyers/glslmod/pkg/glsl"
	"github.com/raymyers/glslmod/pkg/lexer"
	"github.com/raymyers/glslmod/pkg/preproc"
)

// Parser parses GLSL source code into a glsl tree. A Parser is used for a
// single call and is not safe for concurrent use.
type Parser struct {
	tokens    []lexer.Token
	pos       int
	curToken  lexer.Token
	peekToken lexer.Token
	err       *SyntaxError

	version    glsl.Version
	directives []string
}

// New creates a new Parser over the tokens of l
func New(l *lexer.Lexer) *Parser {
	p := &Parser{
		tokens:  l.All(),
		version: glsl.Version{Number: glsl.DefaultVersion, Core: true},
	}
	p.pos = -1
	p.nextToken()
	return p
}

// Parse parses a complete shader
func Parse(source string) (*glsl.Tree, error) {
	return run(source, false, (*Parser).ParseTree)
}

// ParseExpression parses a single statement or expression. The trailing
// semicolon is optional.
func ParseExpression(source string) (glsl.Node, error) {
	return run(source, true, (*Parser).ParseSingle)
}

// ParseExpressionList parses a sequence of statements
func ParseExpressionList(source string) ([]glsl.Node, error) {
	return run(source, true, (*Parser).ParseStatements)
}

// PreprocessParse runs the preprocessor over source with the given macros,
// then parses the result. Macros defined by the shader are written back
// into macros.
func PreprocessParse(source string, macros map[string]string) (*glsl.Tree, error) {
	text, err := preproc.Preprocess(source, macros)
	if err != nil {
		if pe, ok := err.(*preproc.Error); ok {
			return nil, &SyntaxError{Line: pe.Line, Column: 1, Msg: pe.Msg}
		}
		return nil, err
	}
	return Parse(text)
}

// run parses source with fn, turning the first error into a *SyntaxError
func run[T any](source string, snippet bool, fn func(*Parser) T) (result T, err error) {
	p := New(lexer.New(source))
	if snippet {
		p.terminate()
	}
	defer func() {
		if r := recover(); r != nil {
			if _, ok := r.(bailout); !ok {
				panic(r)
			}
			var zero T
			result, err = zero, p.err
		}
	}()
	p.checkIllegal()
	return fn(p), nil
}

// ParseTree parses every root item up to the end of input
func (p *Parser) ParseTree() *glsl.Tree {
	tree := glsl.NewTree()
	for !p.curTokenIs(lexer.TokenEOF) {
		if p.curTokenIs(lexer.TokenSemicolon) {
			p.nextToken()
			continue
		}
		if p.skipDirective() {
			continue
		}
		for _, item := range p.parseDeclaration() {
			tree.Body = append(tree.Body, item.(glsl.Decl))
		}
	}
	tree.Version = p.version
	tree.Directives = p.directives
	return tree
}

// ParseSingle parses exactly one statement
func (p *Parser) ParseSingle() glsl.Node {
	if p.curTokenIs(lexer.TokenEOF) {
		p.fail("expected expression, got EOF")
	}
	nodes := p.parseStatement()
	if !p.curTokenIs(lexer.TokenEOF) {
		p.fail("too many tokens provided")
	}
	return glsl.NewGroup(nodes)
}

// ParseStatements parses statements up to the end of input
func (p *Parser) ParseStatements() []glsl.Node {
	var nodes []glsl.Node
	for !p.curTokenIs(lexer.TokenEOF) {
		nodes = append(nodes, p.parseStatement()...)
	}
	return nodes
}

func (p *Parser) nextToken() {
	if p.pos < len(p.tokens)-1 {
		p.pos++
	}
	p.curToken = p.tokens[p.pos]
	p.peekToken = p.peekAt(1)
}

// peekAt returns the token offset positions past the current one
func (p *Parser) peekAt(offset int) lexer.Token {
	idx := p.pos + offset
	if idx >= len(p.tokens) {
		return p.tokens[len(p.tokens)-1]
	}
	return p.tokens[idx]
}

// terminate appends the optional final semicolon of a snippet
func (p *Parser) terminate() {
	n := len(p.tokens)
	if n < 2 {
		return
	}
	last := p.tokens[n-2]
	switch last.Type {
	case lexer.TokenSemicolon, lexer.TokenRBrace, lexer.TokenColon, lexer.TokenDirective:
		return
	}
	semi := lexer.Token{Type: lexer.TokenSemicolon, Literal: ";", Line: last.Line, Column: last.Column + len(last.Literal)}
	p.tokens = append(p.tokens[:n-1], semi, p.tokens[n-1])
	p.curToken = p.tokens[p.pos]
	p.peekToken = p.peekAt(1)
}

func (p *Parser) checkIllegal() {
	for _, tok := range p.tokens {
		if tok.Type == lexer.TokenIllegal {
			p.failAt(tok, fmt.Sprintf("illegal character %q", tok.Literal))
		}
	}
}

func (p *Parser) fail(msg string) {
	p.failAt(p.curToken, msg)
}

func (p *Parser) failAt(tok lexer.Token, msg string) {
	p.err = &SyntaxError{Line: tok.Line, Column: tok.Column, Token: tok.Literal, Msg: msg}
	panic(bailout{})
}

func (p *Parser) curTokenIs(t lexer.TokenType) bool {
	return p.curToken.Type == t
}

func (p *Parser) peekTokenIs(t lexer.TokenType) bool {
	return p.peekToken.Type == t
}

// expect consumes a token of type t or fails
func (p *Parser) expect(t lexer.TokenType) lexer.Token {
	tok := p.curToken
	if tok.Type != t {
		p.fail(fmt.Sprintf("expected %s, got %s", t, tok.Type))
	}
	p.nextToken()
	return tok
}

// skipDirective records a directive line and reports whether one was consumed
func (p *Parser) skipDirective() bool {
	if !p.curTokenIs(lexer.TokenDirective) {
		return false
	}
	tok := p.curToken
	fields := strings.Fields(strings.TrimPrefix(tok.Literal, "#"))
	if len(fields) > 0 && fields[0] == "version" {
		p.parseVersion(tok, fields[1:])
	} else {
		p.directives = append(p.directives, tok.Literal)
	}
	p.nextToken()
	return true
}

func (p *Parser) parseVersion(tok lexer.Token, args []string) {
	if len(args) == 0 {
		p.failAt(tok, "missing version number")
	}
	n, err := strconv.Atoi(args[0])
	if err != nil {
		p.failAt(tok, fmt.Sprintf("invalid version number %q", args[0]))
	}
	core := true
	if len(args) > 1 {
		switch args[1] {
		case "core":
		case "compatibility":
			core = false
		default:
			p.failAt(tok, fmt.Sprintf("unknown profile %q", args[1]))
		}
	}
	p.version = glsl.Version{Number: n, Core: core}
}
