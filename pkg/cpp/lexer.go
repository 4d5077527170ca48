// Package cpp implements the GLSL preprocessor: object and function-like
// macros, token pasting and conditional compilation. Directives that the
// shader compiler itself consumes (#version, #extension, #include, #pragma,
// #line) pass through untouched.
package cpp

import "strings"

// TokenType represents the type of a preprocessing token.
type TokenType int

const (
	PP_EOF TokenType = iota
	PP_IDENTIFIER
	PP_NUMBER
	PP_PUNCTUATOR
	PP_HASH        // # at line start (directive marker)
	PP_HASHHASH    // ## (token pasting)
	PP_NEWLINE     // significant for directive boundaries
	PP_WHITESPACE  // preserved for output spacing
	PP_PLACEHOLDER // empty result of a paste
)

var ppTokenNames = []string{"EOF", "IDENTIFIER", "NUMBER", "PUNCTUATOR", "HASH", "HASHHASH", "NEWLINE", "WHITESPACE", "PLACEHOLDER"}

func (t TokenType) String() string {
	if int(t) < len(ppTokenNames) {
		return ppTokenNames[t]
	}
	return "UNKNOWN"
}

// SourceLoc is a position in the shader source.
type SourceLoc struct {
	Line   int
	Column int
}

// Token represents a preprocessing token.
type Token struct {
	Type TokenType
	Text string
	Loc  SourceLoc
}

// Lexer splits shader source into preprocessing tokens.
type Lexer struct {
	input  string
	pos    int
	line   int
	column int
	atBOL  bool // only whitespace seen since the last newline
}

// NewLexer creates a new preprocessor lexer.
func NewLexer(input string) *Lexer {
	return &Lexer{input: input, line: 1, column: 1, atBOL: true}
}

// NextToken returns the next preprocessing token.
func (l *Lexer) NextToken() Token {
	l.skipContinuations()

	loc := l.loc()
	c := l.peek()
	switch {
	case l.pos >= len(l.input):
		return Token{Type: PP_EOF, Loc: loc}
	case c == '\n':
		l.advance()
		l.atBOL = true
		return Token{Type: PP_NEWLINE, Text: "\n", Loc: loc}
	case isSpace(c):
		return l.scanWhile(PP_WHITESPACE, isSpace)
	case c == '/' && l.peekAt(1) == '/':
		for l.pos < len(l.input) && l.peek() != '\n' {
			l.advance()
		}
		return Token{Type: PP_WHITESPACE, Text: " ", Loc: loc}
	case c == '/' && l.peekAt(1) == '*':
		return l.scanBlockComment()
	}

	if c == '#' {
		bol := l.atBOL
		l.atBOL = false
		l.advance()
		if l.peek() == '#' {
			l.advance()
			return Token{Type: PP_HASHHASH, Text: "##", Loc: loc}
		}
		if bol {
			return Token{Type: PP_HASH, Text: "#", Loc: loc}
		}
		return Token{Type: PP_PUNCTUATOR, Text: "#", Loc: loc}
	}

	l.atBOL = false
	switch {
	case isDigit(c) || (c == '.' && isDigit(l.peekAt(1))):
		return l.scanNumber()
	case isIdentStart(c):
		return l.scanWhile(PP_IDENTIFIER, isIdentContinue)
	}
	return l.scanPunctuator()
}

// AllTokens returns all tokens from the input, ending with PP_EOF.
func (l *Lexer) AllTokens() []Token {
	var tokens []Token
	for {
		tok := l.NextToken()
		tokens = append(tokens, tok)
		if tok.Type == PP_EOF {
			return tokens
		}
	}
}

// skipContinuations drops backslash-newline pairs. The line counter still
// advances so later tokens keep their source line.
func (l *Lexer) skipContinuations() {
	for l.peek() == '\\' {
		switch {
		case l.peekAt(1) == '\n':
			l.pos += 2
		case l.peekAt(1) == '\r' && l.peekAt(2) == '\n':
			l.pos += 3
		default:
			return
		}
		l.line++
		l.column = 1
	}
}

func (l *Lexer) loc() SourceLoc {
	return SourceLoc{Line: l.line, Column: l.column}
}

func (l *Lexer) peek() byte {
	return l.peekAt(0)
}

func (l *Lexer) peekAt(offset int) byte {
	if l.pos+offset >= len(l.input) {
		return 0
	}
	return l.input[l.pos+offset]
}

func (l *Lexer) advance() {
	if l.pos >= len(l.input) {
		return
	}
	if l.input[l.pos] == '\n' {
		l.line++
		l.column = 1
	} else {
		l.column++
	}
	l.pos++
}

func (l *Lexer) scanWhile(t TokenType, accept func(byte) bool) Token {
	loc := l.loc()
	var sb strings.Builder
	for l.pos < len(l.input) {
		l.skipContinuations()
		if !accept(l.peek()) || l.pos >= len(l.input) {
			break
		}
		sb.WriteByte(l.peek())
		l.advance()
	}
	return Token{Type: t, Text: sb.String(), Loc: loc}
}

// scanBlockComment replaces a block comment with one space, or with the
// newlines it spans so that line numbers stay aligned
func (l *Lexer) scanBlockComment() Token {
	loc := l.loc()
	l.advance()
	l.advance()
	newlines := 0
	for l.pos < len(l.input) {
		if l.peek() == '*' && l.peekAt(1) == '/' {
			l.advance()
			l.advance()
			break
		}
		if l.peek() == '\n' {
			newlines++
		}
		l.advance()
	}
	if newlines > 0 {
		return Token{Type: PP_WHITESPACE, Text: strings.Repeat("\n", newlines), Loc: loc}
	}
	return Token{Type: PP_WHITESPACE, Text: " ", Loc: loc}
}

// scanNumber reads a preprocessing number, which is looser than a GLSL
// literal: 1.0e-3lf, 0xFFu and 1.5f all lex as a single token
func (l *Lexer) scanNumber() Token {
	loc := l.loc()
	start := l.pos
	for l.pos < len(l.input) {
		c := l.peek()
		if (c == 'e' || c == 'E') && (l.peekAt(1) == '+' || l.peekAt(1) == '-') {
			l.advance()
			l.advance()
			continue
		}
		if !isIdentContinue(c) && c != '.' {
			break
		}
		l.advance()
	}
	return Token{Type: PP_NUMBER, Text: l.input[start:l.pos], Loc: loc}
}

var punctuators = []string{
	"<<=", ">>=",
	"++", "--", "<<", ">>", "<=", ">=", "==", "!=", "&&", "||", "^^",
	"*=", "/=", "%=", "+=", "-=", "&=", "^=", "|=",
}

func (l *Lexer) scanPunctuator() Token {
	loc := l.loc()
	rest := l.input[l.pos:]
	for _, p := range punctuators {
		if strings.HasPrefix(rest, p) {
			for range p {
				l.advance()
			}
			return Token{Type: PP_PUNCTUATOR, Text: p, Loc: loc}
		}
	}
	start := l.pos
	l.advance()
	return Token{Type: PP_PUNCTUATOR, Text: l.input[start:l.pos], Loc: loc}
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\r' || c == '\f' || c == '\v'
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isIdentStart(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || c == '_'
}

func isIdentContinue(c byte) bool {
	return isIdentStart(c) || isDigit(c)
}

// TokensToString converts a slice of tokens back to source text.
func TokensToString(tokens []Token) string {
	var sb strings.Builder
	for _, tok := range tokens {
		sb.WriteString(tok.Text)
	}
	return sb.String()
}
