package parser

import (
	"fmt"

	"github.com/raymyers/glslmod/pkg/glsl"
	"github.com/raymyers/glslmod/pkg/lexer"
)

var jumps = map[lexer.TokenType]glsl.JumpKind{
	lexer.TokenBreak:    glsl.JumpBreak,
	lexer.TokenContinue: glsl.JumpContinue,
	lexer.TokenDiscard:  glsl.JumpDiscard,
}

// parseStatement parses one statement. Declarations of several names and
// directive lines make the result length differ from one.
func (p *Parser) parseStatement() []glsl.Node {
	if kind, ok := jumps[p.curToken.Type]; ok {
		p.nextToken()
		p.expect(lexer.TokenSemicolon)
		return []glsl.Node{&glsl.Jump{Kind: kind}}
	}

	switch p.curToken.Type {
	case lexer.TokenDirective:
		p.skipDirective()
		return nil
	case lexer.TokenLBrace:
		return []glsl.Node{&glsl.Compound{Children: p.parseBlock()}}
	case lexer.TokenSemicolon:
		p.nextToken()
		return []glsl.Node{&glsl.Empty{}}
	case lexer.TokenIf:
		return []glsl.Node{p.parseSelection()}
	case lexer.TokenSwitch:
		return []glsl.Node{p.parseSwitch()}
	case lexer.TokenCase:
		p.nextToken()
		label := &glsl.CaseLabel{Value: p.parseExpression()}
		p.expect(lexer.TokenColon)
		return []glsl.Node{label}
	case lexer.TokenDefault:
		p.nextToken()
		p.expect(lexer.TokenColon)
		return []glsl.Node{&glsl.CaseLabel{}}
	case lexer.TokenWhile:
		return []glsl.Node{p.parseWhile()}
	case lexer.TokenDo:
		return []glsl.Node{p.parseDoWhile()}
	case lexer.TokenFor:
		return []glsl.Node{p.parseFor()}
	case lexer.TokenReturn:
		return []glsl.Node{p.parseReturn()}
	}

	if p.isDeclarationStart() {
		return p.parseDeclaration()
	}
	expr := p.parseExpression()
	p.expect(lexer.TokenSemicolon)
	return []glsl.Node{expr}
}

// parseBlock parses { statements } and returns the statements
func (p *Parser) parseBlock() []glsl.Node {
	p.expect(lexer.TokenLBrace)
	var nodes []glsl.Node
	for !p.curTokenIs(lexer.TokenRBrace) {
		if p.curTokenIs(lexer.TokenEOF) {
			p.fail("expected }, got EOF")
		}
		nodes = append(nodes, p.parseStatement()...)
	}
	p.nextToken()
	return nodes
}

// parseBody parses the body of an if or loop. A braced body is flattened
// into its statements.
func (p *Parser) parseBody() []glsl.Node {
	if p.curTokenIs(lexer.TokenLBrace) {
		return p.parseBlock()
	}
	return p.parseStatement()
}

func (p *Parser) parseCondition() glsl.Node {
	p.expect(lexer.TokenLParen)
	cond := p.parseExpression()
	p.expect(lexer.TokenRParen)
	return cond
}

func (p *Parser) parseSelection() *glsl.Selection {
	p.expect(lexer.TokenIf)
	sel := &glsl.Selection{Cond: p.parseCondition()}
	sel.Then = p.parseBody()
	if p.curTokenIs(lexer.TokenElse) {
		p.nextToken()
		sel.Else = p.parseBody()
	}
	return sel
}

func (p *Parser) parseSwitch() *glsl.Switch {
	p.expect(lexer.TokenSwitch)
	sw := &glsl.Switch{Cond: p.parseCondition()}
	sw.Branches = p.parseBlock()
	return sw
}

func (p *Parser) parseWhile() *glsl.While {
	p.expect(lexer.TokenWhile)
	loop := &glsl.While{Cond: p.parseCondition(), Kind: glsl.LoopWhile}
	loop.Body = p.parseBody()
	return loop
}

func (p *Parser) parseDoWhile() *glsl.While {
	p.expect(lexer.TokenDo)
	loop := &glsl.While{Body: p.parseBody(), Kind: glsl.LoopDoWhile}
	p.expect(lexer.TokenWhile)
	loop.Cond = p.parseCondition()
	p.expect(lexer.TokenSemicolon)
	return loop
}

func (p *Parser) parseFor() *glsl.For {
	p.expect(lexer.TokenFor)
	p.expect(lexer.TokenLParen)
	loop := &glsl.For{}

	switch {
	case p.curTokenIs(lexer.TokenSemicolon):
		p.nextToken()
	case p.isDeclarationStart():
		decls := p.parseDeclaration()
		if len(decls) != 1 {
			p.fail(fmt.Sprintf("expected a single declaration in for initializer, got %d", len(decls)))
		}
		loop.Init = decls[0]
	default:
		loop.Init = p.parseExpression()
		p.expect(lexer.TokenSemicolon)
	}

	if !p.curTokenIs(lexer.TokenSemicolon) {
		loop.Cond = p.parseExpression()
	}
	p.expect(lexer.TokenSemicolon)

	if !p.curTokenIs(lexer.TokenRParen) {
		loop.Incr = p.parseExpression()
	}
	p.expect(lexer.TokenRParen)

	loop.Body = p.parseBody()
	return loop
}

func (p *Parser) parseReturn() *glsl.Return {
	p.expect(lexer.TokenReturn)
	ret := &glsl.Return{}
	if !p.curTokenIs(lexer.TokenSemicolon) {
		ret.Value = p.parseExpression()
	}
	p.expect(lexer.TokenSemicolon)
	return ret
}
