package parser

import (
	"fmt"

	"github.com/raymyers/glslmod/pkg/glsl"
	"github.com/raymyers/glslmod/pkg/lexer"
)

var assignOps = map[lexer.TokenType]glsl.AssignOp{
	lexer.TokenAssign:        glsl.OpAssign,
	lexer.TokenStarAssign:    glsl.OpMulAssign,
	lexer.TokenSlashAssign:   glsl.OpDivAssign,
	lexer.TokenPercentAssign: glsl.OpModAssign,
	lexer.TokenPlusAssign:    glsl.OpAddAssign,
	lexer.TokenMinusAssign:   glsl.OpSubAssign,
	lexer.TokenShlAssign:     glsl.OpShlAssign,
	lexer.TokenShrAssign:     glsl.OpShrAssign,
	lexer.TokenAndAssign:     glsl.OpAndAssign,
	lexer.TokenXorAssign:     glsl.OpXorAssign,
	lexer.TokenOrAssign:      glsl.OpOrAssign,
}

// Logical levels, loosest first. Each level collects a chain of its own
// operator into one N-ary node.
var logicalLevels = []struct {
	tok lexer.TokenType
	op  glsl.LogicalOp
}{
	{lexer.TokenOr, glsl.OpOr},
	{lexer.TokenXor, glsl.OpXor},
	{lexer.TokenAnd, glsl.OpAnd},
	{lexer.TokenPipe, glsl.OpBitOr},
	{lexer.TokenCaret, glsl.OpBitXor},
	{lexer.TokenAmpersand, glsl.OpBitAnd},
}

type binaryLevel map[lexer.TokenType]func(left, right glsl.Node) glsl.Node

func compare(op glsl.CompareOp) func(left, right glsl.Node) glsl.Node {
	return func(left, right glsl.Node) glsl.Node {
		return &glsl.Compare{Left: left, Op: op, Right: right}
	}
}

func operation(op glsl.OperationOp) func(left, right glsl.Node) glsl.Node {
	return func(left, right glsl.Node) glsl.Node {
		return &glsl.Operation{Left: left, Op: op, Right: right}
	}
}

// Left associative binary levels below the logical ones, loosest first
var binaryLevels = []binaryLevel{
	{lexer.TokenEq: compare(glsl.OpEq), lexer.TokenNe: compare(glsl.OpNe)},
	{
		lexer.TokenLt: compare(glsl.OpLt), lexer.TokenGt: compare(glsl.OpGt),
		lexer.TokenLe: compare(glsl.OpLe), lexer.TokenGe: compare(glsl.OpGe),
	},
	{lexer.TokenShl: operation(glsl.OpShl), lexer.TokenShr: operation(glsl.OpShr)},
	{lexer.TokenPlus: operation(glsl.OpAdd), lexer.TokenMinus: operation(glsl.OpSub)},
	{
		lexer.TokenStar: operation(glsl.OpMul), lexer.TokenSlash: operation(glsl.OpDiv),
		lexer.TokenPercent: operation(glsl.OpMod),
	},
}

var prefixOps = map[lexer.TokenType]glsl.UnaryOp{
	lexer.TokenIncrement: glsl.OpPreIncrement,
	lexer.TokenDecrement: glsl.OpPreDecrement,
	lexer.TokenPlus:      glsl.OpPlus,
	lexer.TokenMinus:     glsl.OpMinus,
	lexer.TokenNot:       glsl.OpNot,
	lexer.TokenTilde:     glsl.OpBitNot,
}

var constantKinds = map[lexer.TokenType]glsl.ConstantKind{
	lexer.TokenIntConst:    glsl.ConstInt,
	lexer.TokenUintConst:   glsl.ConstUint,
	lexer.TokenFloatConst:  glsl.ConstFloat,
	lexer.TokenDoubleConst: glsl.ConstDouble,
	lexer.TokenBoolConst:   glsl.ConstBool,
}

// parseExpression parses a full expression. GLSL's comma operator is not
// supported.
func (p *Parser) parseExpression() glsl.Node {
	return p.parseAssignment()
}

func (p *Parser) parseAssignment() glsl.Node {
	left := p.parseConditional()
	op, ok := assignOps[p.curToken.Type]
	if !ok {
		return left
	}
	p.nextToken()
	return &glsl.Assignment{Left: left, Op: op, Right: p.parseAssignment()}
}

func (p *Parser) parseConditional() glsl.Node {
	cond := p.parseLogical(0)
	if !p.curTokenIs(lexer.TokenQuestion) {
		return cond
	}
	p.nextToken()
	then := p.parseAssignment()
	p.expect(lexer.TokenColon)
	return &glsl.Conditional{Cond: cond, Then: then, Else: p.parseConditional()}
}

func (p *Parser) parseLogical(level int) glsl.Node {
	if level == len(logicalLevels) {
		return p.parseBinary(0)
	}
	lv := logicalLevels[level]
	first := p.parseLogical(level + 1)
	if !p.curTokenIs(lv.tok) {
		return first
	}
	operands := []glsl.Node{first}
	for p.curTokenIs(lv.tok) {
		p.nextToken()
		operands = append(operands, p.parseLogical(level+1))
	}
	return &glsl.Logical{Op: lv.op, Operands: operands}
}

func (p *Parser) parseBinary(level int) glsl.Node {
	if level == len(binaryLevels) {
		return p.parseUnary()
	}
	left := p.parseBinary(level + 1)
	for {
		build, ok := binaryLevels[level][p.curToken.Type]
		if !ok {
			return left
		}
		p.nextToken()
		left = build(left, p.parseBinary(level+1))
	}
}

func (p *Parser) parseUnary() glsl.Node {
	if op, ok := prefixOps[p.curToken.Type]; ok {
		p.nextToken()
		return &glsl.Unary{Op: op, Expr: p.parseUnary()}
	}
	return p.parsePostfix()
}

func (p *Parser) parsePostfix() glsl.Node {
	expr := p.parsePrimary()
	for {
		switch p.curToken.Type {
		case lexer.TokenLBracket:
			p.nextToken()
			index := p.parseExpression()
			p.expect(lexer.TokenRBracket)
			expr = &glsl.ArrayIndex{Expr: expr, Index: index}
		case lexer.TokenLParen:
			expr = &glsl.Invocation{Callee: expr, Args: p.parseArguments()}
		case lexer.TokenDot:
			p.nextToken()
			field := p.expect(lexer.TokenIdent)
			expr = &glsl.FieldSelect{Expr: expr, Field: field.Literal}
		case lexer.TokenIncrement:
			p.nextToken()
			expr = &glsl.Unary{Op: glsl.OpPostIncrement, Expr: expr}
		case lexer.TokenDecrement:
			p.nextToken()
			expr = &glsl.Unary{Op: glsl.OpPostDecrement, Expr: expr}
		default:
			return expr
		}
	}
}

func (p *Parser) parseArguments() []glsl.Node {
	p.expect(lexer.TokenLParen)
	var args []glsl.Node
	if p.curToken.Literal == "void" && p.peekTokenIs(lexer.TokenRParen) {
		p.nextToken()
	}
	for !p.curTokenIs(lexer.TokenRParen) {
		args = append(args, p.parseAssignment())
		if !p.curTokenIs(lexer.TokenComma) {
			break
		}
		p.nextToken()
	}
	p.expect(lexer.TokenRParen)
	return args
}

func (p *Parser) parsePrimary() glsl.Node {
	tok := p.curToken
	if kind, ok := constantKinds[tok.Type]; ok {
		p.nextToken()
		return &glsl.Constant{Kind: kind, Value: tok.Literal}
	}

	switch tok.Type {
	case lexer.TokenLParen:
		p.nextToken()
		expr := p.parseExpression()
		p.expect(lexer.TokenRParen)
		return expr
	case lexer.TokenIdent:
		if b, ok := glsl.LookupBuiltin(tok.Literal); ok {
			p.nextToken()
			return p.parseConstructor(b)
		}
		// S[](...) constructs an array of a named type
		if p.peekTokenIs(lexer.TokenLBracket) && p.peekAt(2).Type == lexer.TokenRBracket {
			p.nextToken()
			return p.parseConstructor(&glsl.NamedType{Name: tok.Literal})
		}
		p.nextToken()
		return &glsl.Variable{Name: tok.Literal}
	case lexer.TokenEOF:
		p.fail("unexpected end of input")
	}
	p.fail(fmt.Sprintf("unexpected token %s", tok.Type))
	return nil
}

// parseConstructor parses the array suffix of a constructor type. The
// argument list follows as a postfix call.
func (p *Parser) parseConstructor(spec glsl.TypeSpecifier) glsl.Node {
	spec = p.wrapArray(spec, p.parseArrayDims())
	if !p.curTokenIs(lexer.TokenLParen) {
		p.fail(fmt.Sprintf("expected ( after type %s, got %s", glsl.TypeSource(spec), p.curToken.Type))
	}
	return &glsl.PrimitiveConstructor{Type: spec}
}
