package parser

import (
	"fmt"

	"github.com/raymyers/glslmod/pkg/glsl"
	"github.com/raymyers/glslmod/pkg/lexer"
)

var storageQualifiers = map[lexer.TokenType]glsl.StorageQualifier{
	lexer.TokenConst:     glsl.Const,
	lexer.TokenIn:        glsl.In,
	lexer.TokenOut:       glsl.Out,
	lexer.TokenInout:     glsl.Inout,
	lexer.TokenCentroid:  glsl.Centroid,
	lexer.TokenPatch:     glsl.Patch,
	lexer.TokenSample:    glsl.Sample,
	lexer.TokenUniform:   glsl.Uniform,
	lexer.TokenBuffer:    glsl.Buffer,
	lexer.TokenShared:    glsl.Shared,
	lexer.TokenCoherent:  glsl.Coherent,
	lexer.TokenVolatile:  glsl.Volatile,
	lexer.TokenRestrict:  glsl.Restrict,
	lexer.TokenReadonly:  glsl.Readonly,
	lexer.TokenWriteonly: glsl.Writeonly,
}

var precisionQualifiers = map[lexer.TokenType]glsl.PrecisionQualifier{
	lexer.TokenHighp:   glsl.Highp,
	lexer.TokenMediump: glsl.Mediump,
	lexer.TokenLowp:    glsl.Lowp,
}

var interpolationQualifiers = map[lexer.TokenType]glsl.InterpolationQualifier{
	lexer.TokenSmooth:        glsl.Smooth,
	lexer.TokenFlat:          glsl.Flat,
	lexer.TokenNoperspective: glsl.Noperspective,
}

func isQualifier(t lexer.TokenType) bool {
	if _, ok := storageQualifiers[t]; ok {
		return true
	}
	if _, ok := precisionQualifiers[t]; ok {
		return true
	}
	if _, ok := interpolationQualifiers[t]; ok {
		return true
	}
	switch t {
	case lexer.TokenLayout, lexer.TokenInvariant, lexer.TokenPrecise, lexer.TokenSubroutine:
		return true
	}
	return false
}

func isBuiltinType(tok lexer.Token) bool {
	if tok.Type != lexer.TokenIdent {
		return false
	}
	_, ok := glsl.LookupBuiltin(tok.Literal)
	return ok
}

// isDeclarationStart decides whether the statement at the current token is a
// declaration rather than an expression
func (p *Parser) isDeclarationStart() bool {
	switch {
	case isQualifier(p.curToken.Type):
		return true
	case p.curTokenIs(lexer.TokenPrecision), p.curTokenIs(lexer.TokenStruct):
		return true
	case !p.curTokenIs(lexer.TokenIdent):
		return false
	}

	// TypeName name, or TypeName[...] name
	offset := 1
	for p.peekAt(offset).Type == lexer.TokenLBracket {
		depth := 0
		for {
			switch p.peekAt(offset).Type {
			case lexer.TokenLBracket:
				depth++
			case lexer.TokenRBracket:
				depth--
			case lexer.TokenEOF:
				return false
			}
			offset++
			if depth == 0 {
				break
			}
		}
	}
	return p.peekAt(offset).Type == lexer.TokenIdent
}

// parseDeclaration parses a declaration, including function definitions and
// prototypes. An init-declarator list yields one node per name.
func (p *Parser) parseDeclaration() []glsl.Node {
	if p.curTokenIs(lexer.TokenPrecision) {
		return []glsl.Node{p.parsePrecision()}
	}

	quals := p.parseQualifiers()

	// layout(local_size_x = 1) in;
	if p.curTokenIs(lexer.TokenSemicolon) {
		if len(quals) == 0 {
			p.fail("expected declaration")
		}
		p.nextToken()
		return []glsl.Node{&glsl.Declaration{Qualifiers: quals}}
	}

	// invariant gl_Position, gl_PointSize;
	if len(quals) > 0 && p.curTokenIs(lexer.TokenIdent) && !isBuiltinType(p.curToken) &&
		(p.peekTokenIs(lexer.TokenSemicolon) || p.peekTokenIs(lexer.TokenComma)) {
		return []glsl.Node{p.parseIdentifierList(quals)}
	}

	var spec glsl.TypeSpecifier
	if len(quals) > 0 && p.curTokenIs(lexer.TokenIdent) && p.peekTokenIs(lexer.TokenLBrace) {
		name := p.expect(lexer.TokenIdent).Literal
		spec = p.parseStructBody(name, true)
		spec = p.wrapArray(spec, p.parseArrayDims())
	} else {
		spec = p.parseTypeSpecifier()
	}

	if p.curTokenIs(lexer.TokenSemicolon) {
		if _, ok := spec.(*glsl.StructSpecifier); !ok {
			p.fail(fmt.Sprintf("expected identifier, got %s", p.curToken.Type))
		}
		p.nextToken()
		return []glsl.Node{glsl.NewStruct(&glsl.SpecifiedType{Specifier: spec, Qualifiers: quals})}
	}

	name := p.expect(lexer.TokenIdent)
	if p.curTokenIs(lexer.TokenLParen) {
		return []glsl.Node{p.parseFunction(&glsl.SpecifiedType{Specifier: spec, Qualifiers: quals}, name.Literal)}
	}

	var nodes []glsl.Node
	for {
		n := &glsl.New{
			Type: &glsl.SpecifiedType{Specifier: p.wrapArray(spec, p.parseArrayDims()), Qualifiers: quals},
			Name: name.Literal,
		}
		if p.curTokenIs(lexer.TokenAssign) {
			p.nextToken()
			n.Init = p.parseInitializer()
		}
		nodes = append(nodes, n)
		if !p.curTokenIs(lexer.TokenComma) {
			break
		}
		p.nextToken()
		name = p.expect(lexer.TokenIdent)
	}
	p.expect(lexer.TokenSemicolon)
	return nodes
}

func (p *Parser) parsePrecision() *glsl.Precision {
	p.expect(lexer.TokenPrecision)
	prec, ok := precisionQualifiers[p.curToken.Type]
	if !ok {
		p.fail(fmt.Sprintf("expected precision qualifier, got %s", p.curToken.Type))
	}
	p.nextToken()
	spec := p.parseTypeSpecifier()
	p.expect(lexer.TokenSemicolon)
	return &glsl.Precision{Precision: prec, Type: spec}
}

func (p *Parser) parseIdentifierList(quals []glsl.TypeQualifier) *glsl.Declaration {
	decl := &glsl.Declaration{Qualifiers: quals}
	for {
		decl.Names = append(decl.Names, p.expect(lexer.TokenIdent).Literal)
		if !p.curTokenIs(lexer.TokenComma) {
			break
		}
		p.nextToken()
	}
	p.expect(lexer.TokenSemicolon)
	return decl
}

func (p *Parser) parseQualifiers() []glsl.TypeQualifier {
	var quals []glsl.TypeQualifier
	for {
		t := p.curToken.Type
		if q, ok := storageQualifiers[t]; ok {
			quals = append(quals, q)
			p.nextToken()
			continue
		}
		if q, ok := precisionQualifiers[t]; ok {
			quals = append(quals, q)
			p.nextToken()
			continue
		}
		if q, ok := interpolationQualifiers[t]; ok {
			quals = append(quals, q)
			p.nextToken()
			continue
		}
		switch t {
		case lexer.TokenInvariant:
			quals = append(quals, glsl.InvariantQualifier{})
			p.nextToken()
		case lexer.TokenPrecise:
			quals = append(quals, glsl.PreciseQualifier{})
			p.nextToken()
		case lexer.TokenLayout:
			quals = append(quals, p.parseLayout())
		case lexer.TokenSubroutine:
			quals = append(quals, p.parseSubroutine())
		default:
			return quals
		}
	}
}

func (p *Parser) parseLayout() *glsl.LayoutQualifier {
	p.expect(lexer.TokenLayout)
	p.expect(lexer.TokenLParen)
	layout := &glsl.LayoutQualifier{}
	for {
		if p.curTokenIs(lexer.TokenShared) {
			p.nextToken()
			layout.IDs = append(layout.IDs, glsl.LayoutID{Shared: true})
		} else {
			id := glsl.LayoutID{Name: p.expect(lexer.TokenIdent).Literal}
			if p.curTokenIs(lexer.TokenAssign) {
				p.nextToken()
				id.Value = p.parseConditional()
			}
			layout.IDs = append(layout.IDs, id)
		}
		if !p.curTokenIs(lexer.TokenComma) {
			break
		}
		p.nextToken()
	}
	p.expect(lexer.TokenRParen)
	return layout
}

func (p *Parser) parseSubroutine() *glsl.SubroutineQualifier {
	p.expect(lexer.TokenSubroutine)
	sub := &glsl.SubroutineQualifier{}
	if !p.curTokenIs(lexer.TokenLParen) {
		return sub
	}
	p.nextToken()
	for {
		sub.TypeNames = append(sub.TypeNames, p.expect(lexer.TokenIdent).Literal)
		if !p.curTokenIs(lexer.TokenComma) {
			break
		}
		p.nextToken()
	}
	p.expect(lexer.TokenRParen)
	return sub
}

// parseTypeSpecifier parses a builtin, named or struct type with any array
// dimensions written after it
func (p *Parser) parseTypeSpecifier() glsl.TypeSpecifier {
	var spec glsl.TypeSpecifier
	switch {
	case p.curTokenIs(lexer.TokenStruct):
		p.nextToken()
		name := ""
		if p.curTokenIs(lexer.TokenIdent) {
			name = p.curToken.Literal
			p.nextToken()
		}
		spec = p.parseStructBody(name, false)
	case p.curTokenIs(lexer.TokenIdent):
		if b, ok := glsl.LookupBuiltin(p.curToken.Literal); ok {
			spec = b
		} else {
			spec = &glsl.NamedType{Name: p.curToken.Literal}
		}
		p.nextToken()
	default:
		p.fail(fmt.Sprintf("expected type specifier, got %s", p.curToken.Type))
	}
	return p.wrapArray(spec, p.parseArrayDims())
}

func (p *Parser) parseStructBody(name string, block bool) *glsl.StructSpecifier {
	s := &glsl.StructSpecifier{Name: name, Block: block}
	p.expect(lexer.TokenLBrace)
	for !p.curTokenIs(lexer.TokenRBrace) {
		quals := p.parseQualifiers()
		spec := p.parseTypeSpecifier()
		for {
			fieldName := p.expect(lexer.TokenIdent).Literal
			s.Fields = append(s.Fields, &glsl.StructField{
				Type: &glsl.SpecifiedType{Specifier: p.wrapArray(spec, p.parseArrayDims()), Qualifiers: quals},
				Name: fieldName,
			})
			if !p.curTokenIs(lexer.TokenComma) {
				break
			}
			p.nextToken()
		}
		p.expect(lexer.TokenSemicolon)
	}
	p.expect(lexer.TokenRBrace)
	return s
}

// parseArrayDims parses zero or more [size] suffixes. A nil entry is an
// unsized dimension.
func (p *Parser) parseArrayDims() []glsl.Node {
	var dims []glsl.Node
	for p.curTokenIs(lexer.TokenLBracket) {
		p.nextToken()
		if p.curTokenIs(lexer.TokenRBracket) {
			p.nextToken()
			dims = append(dims, nil)
			continue
		}
		dims = append(dims, p.parseConditional())
		p.expect(lexer.TokenRBracket)
	}
	return dims
}

// wrapArray applies dims outside spec, first dimension outermost
func (p *Parser) wrapArray(spec glsl.TypeSpecifier, dims []glsl.Node) glsl.TypeSpecifier {
	for i := len(dims) - 1; i >= 0; i-- {
		spec = &glsl.ArrayType{Elem: spec, Size: dims[i]}
	}
	return spec
}

func (p *Parser) parseFunction(ret *glsl.SpecifiedType, name string) *glsl.Function {
	fn := &glsl.Function{Header: &glsl.FunctionHeader{Name: name, ReturnType: ret}}
	p.expect(lexer.TokenLParen)

	// f() and f(void) both take no parameters
	if p.curToken.Literal == "void" && p.peekTokenIs(lexer.TokenRParen) {
		p.nextToken()
	}
	for !p.curTokenIs(lexer.TokenRParen) {
		quals := p.parseQualifiers()
		spec := p.parseTypeSpecifier()
		param := &glsl.Parameter{}
		if p.curTokenIs(lexer.TokenIdent) {
			param.Name = p.curToken.Literal
			p.nextToken()
			spec = p.wrapArray(spec, p.parseArrayDims())
		}
		param.Type = &glsl.SpecifiedType{Specifier: spec, Qualifiers: quals}
		fn.Header.Params = append(fn.Header.Params, param)
		if !p.curTokenIs(lexer.TokenComma) {
			break
		}
		p.nextToken()
	}
	p.expect(lexer.TokenRParen)

	if p.curTokenIs(lexer.TokenSemicolon) {
		p.nextToken()
		return fn
	}
	if !p.curTokenIs(lexer.TokenLBrace) {
		p.fail(fmt.Sprintf("expected { or ;, got %s", p.curToken.Type))
	}
	fn.Body = p.parseBlock()
	if fn.Body == nil {
		fn.Body = []glsl.Node{}
	}
	return fn
}

// parseInitializer parses an assignment expression or a braced initializer list
func (p *Parser) parseInitializer() glsl.Node {
	if !p.curTokenIs(lexer.TokenLBrace) {
		return p.parseAssignment()
	}
	p.nextToken()
	list := &glsl.InitializerList{}
	for !p.curTokenIs(lexer.TokenRBrace) {
		list.Values = append(list.Values, p.parseInitializer())
		if !p.curTokenIs(lexer.TokenComma) {
			break
		}
		p.nextToken()
	}
	p.expect(lexer.TokenRBrace)
	return list
}
