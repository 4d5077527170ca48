// Package lexer tokenizes GLSL source code
package lexer

import (
	"strings"
)

// Lexer tokenizes GLSL source code
type Lexer struct {
	input     string
	pos       int  // current position in input
	readPos   int  // next reading position
	ch        byte // current character
	line      int
	column    int
	lineStart bool // only whitespace seen since the last newline
}

// New creates a new Lexer for the given input
func New(input string) *Lexer {
	l := &Lexer{input: input, line: 1, column: 0, lineStart: true}
	l.readChar()
	return l
}

func (l *Lexer) readChar() {
	if l.ch == '\n' {
		l.line++
		l.column = 0
		l.lineStart = true
	}
	if l.readPos >= len(l.input) {
		l.ch = 0 // EOF
	} else {
		l.ch = l.input[l.readPos]
	}
	l.pos = l.readPos
	l.readPos++
	l.column++
}

func (l *Lexer) peekChar() byte {
	if l.readPos >= len(l.input) {
		return 0
	}
	return l.input[l.readPos]
}

func (l *Lexer) peekCharAt(offset int) byte {
	idx := l.readPos + offset
	if idx >= len(l.input) {
		return 0
	}
	return l.input[idx]
}

// All consumes the input and returns every token, ending with TokenEOF
func (l *Lexer) All() []Token {
	var tokens []Token
	for {
		tok := l.NextToken()
		tokens = append(tokens, tok)
		if tok.Type == TokenEOF {
			return tokens
		}
	}
}

// NextToken returns the next token from the input
func (l *Lexer) NextToken() Token {
	l.skipWhitespaceAndComments()

	tok := Token{Line: l.line, Column: l.column}

	if l.ch == '#' && l.lineStart {
		tok.Type = TokenDirective
		tok.Literal = l.readDirective()
		return tok
	}
	l.lineStart = false

	switch l.ch {
	case 0:
		tok.Type = TokenEOF
		tok.Literal = ""
		return tok
	case '+':
		tok = l.either('+', TokenIncrement, '=', TokenPlusAssign, TokenPlus)
	case '-':
		tok = l.either('-', TokenDecrement, '=', TokenMinusAssign, TokenMinus)
	case '*':
		tok = l.oneOrAssign(TokenStar, TokenStarAssign)
	case '/':
		tok = l.oneOrAssign(TokenSlash, TokenSlashAssign)
	case '%':
		tok = l.oneOrAssign(TokenPercent, TokenPercentAssign)
	case '=':
		tok = l.oneOrAssign(TokenAssign, TokenEq)
	case '!':
		tok = l.oneOrAssign(TokenNot, TokenNe)
	case '<':
		tok = l.shift('<', TokenLt, TokenLe, TokenShl, TokenShlAssign)
	case '>':
		tok = l.shift('>', TokenGt, TokenGe, TokenShr, TokenShrAssign)
	case '&':
		tok = l.either('&', TokenAnd, '=', TokenAndAssign, TokenAmpersand)
	case '|':
		tok = l.either('|', TokenOr, '=', TokenOrAssign, TokenPipe)
	case '^':
		tok = l.either('^', TokenXor, '=', TokenXorAssign, TokenCaret)
	case '~':
		tok = l.newToken(TokenTilde, "~")
	case '?':
		tok = l.newToken(TokenQuestion, "?")
	case ':':
		tok = l.newToken(TokenColon, ":")
	case '(':
		tok = l.newToken(TokenLParen, "(")
	case ')':
		tok = l.newToken(TokenRParen, ")")
	case '{':
		tok = l.newToken(TokenLBrace, "{")
	case '}':
		tok = l.newToken(TokenRBrace, "}")
	case '[':
		tok = l.newToken(TokenLBracket, "[")
	case ']':
		tok = l.newToken(TokenRBracket, "]")
	case ';':
		tok = l.newToken(TokenSemicolon, ";")
	case ',':
		tok = l.newToken(TokenComma, ",")
	case '.':
		if isDigit(l.peekChar()) {
			tok.Type, tok.Literal = l.readNumber()
			return tok
		}
		tok = l.newToken(TokenDot, ".")
	default:
		if isLetter(l.ch) {
			tok.Literal = l.readIdentifier()
			tok.Type = LookupIdent(tok.Literal)
			return tok
		} else if isDigit(l.ch) {
			tok.Type, tok.Literal = l.readNumber()
			return tok
		}
		tok = l.newToken(TokenIllegal, string(l.ch))
	}

	l.readChar()
	return tok
}

func (l *Lexer) newToken(tokenType TokenType, literal string) Token {
	return Token{Type: tokenType, Literal: literal, Line: l.line, Column: l.column - len(literal) + 1}
}

// oneOrAssign lexes a one character operator that may be followed by '='
func (l *Lexer) oneOrAssign(single, withEq TokenType) Token {
	if l.peekChar() == '=' {
		first := l.ch
		l.readChar()
		return l.newToken(withEq, string(first)+"=")
	}
	return l.newToken(single, string(l.ch))
}

// either lexes ch, ch+a or ch+b
func (l *Lexer) either(a byte, withA TokenType, b byte, withB TokenType, single TokenType) Token {
	first := l.ch
	switch l.peekChar() {
	case a:
		l.readChar()
		return l.newToken(withA, string(first)+string(a))
	case b:
		l.readChar()
		return l.newToken(withB, string(first)+string(b))
	}
	return l.newToken(single, string(first))
}

// shift lexes <, <=, <<, <<= and the '>' equivalents
func (l *Lexer) shift(ch byte, single, withEq, double, doubleEq TokenType) Token {
	if l.peekChar() == ch {
		l.readChar()
		if l.peekChar() == '=' {
			l.readChar()
			return l.newToken(doubleEq, string(ch)+string(ch)+"=")
		}
		return l.newToken(double, string(ch)+string(ch))
	}
	if l.peekChar() == '=' {
		l.readChar()
		return l.newToken(withEq, string(ch)+"=")
	}
	return l.newToken(single, string(ch))
}

func (l *Lexer) skipWhitespaceAndComments() {
	for {
		switch {
		case l.ch == ' ' || l.ch == '\t' || l.ch == '\n' || l.ch == '\r' || l.ch == '\f' || l.ch == '\v':
			l.readChar()
		case l.ch == '/' && l.peekChar() == '/':
			for l.ch != '\n' && l.ch != 0 {
				l.readChar()
			}
		case l.ch == '/' && l.peekChar() == '*':
			l.readChar() // consume /
			l.readChar() // consume *
			for l.ch != 0 && !(l.ch == '*' && l.peekChar() == '/') {
				l.readChar()
			}
			if l.ch != 0 {
				l.readChar() // consume *
				l.readChar() // consume /
			}
		default:
			return
		}
	}
}

// readDirective reads a preprocessor line, joining backslash continuations
func (l *Lexer) readDirective() string {
	var sb strings.Builder
	for l.ch != 0 && l.ch != '\n' {
		if l.ch == '\\' && (l.peekChar() == '\n' || (l.peekChar() == '\r' && l.peekCharAt(1) == '\n')) {
			for l.ch != '\n' {
				l.readChar()
			}
			l.readChar()
			sb.WriteByte(' ')
			continue
		}
		sb.WriteByte(l.ch)
		l.readChar()
	}
	return strings.TrimRight(sb.String(), " \t\r")
}

func (l *Lexer) readIdentifier() string {
	pos := l.pos
	for isLetter(l.ch) || isDigit(l.ch) {
		l.readChar()
	}
	return l.input[pos:l.pos]
}

// readNumber reads an integer or floating point literal, suffix included
func (l *Lexer) readNumber() (TokenType, string) {
	pos := l.pos

	if l.ch == '0' && (l.peekChar() == 'x' || l.peekChar() == 'X') {
		l.readChar()
		l.readChar()
		for isHexDigit(l.ch) {
			l.readChar()
		}
		return l.intSuffix(pos)
	}

	isFloat := false
	for isDigit(l.ch) {
		l.readChar()
	}
	if l.ch == '.' {
		isFloat = true
		l.readChar()
		for isDigit(l.ch) {
			l.readChar()
		}
	}
	if l.ch == 'e' || l.ch == 'E' {
		next := l.peekChar()
		if isDigit(next) || ((next == '+' || next == '-') && isDigit(l.peekCharAt(1))) {
			isFloat = true
			l.readChar()
			if l.ch == '+' || l.ch == '-' {
				l.readChar()
			}
			for isDigit(l.ch) {
				l.readChar()
			}
		}
	}

	if !isFloat {
		return l.intSuffix(pos)
	}

	switch {
	case (l.ch == 'l' && l.peekChar() == 'f') || (l.ch == 'L' && l.peekChar() == 'F'):
		l.readChar()
		l.readChar()
		return TokenDoubleConst, l.input[pos:l.pos]
	case l.ch == 'f' || l.ch == 'F':
		l.readChar()
	}
	return TokenFloatConst, l.input[pos:l.pos]
}

func (l *Lexer) intSuffix(pos int) (TokenType, string) {
	if l.ch == 'u' || l.ch == 'U' {
		l.readChar()
		return TokenUintConst, l.input[pos:l.pos]
	}
	return TokenIntConst, l.input[pos:l.pos]
}

func isLetter(ch byte) bool {
	return 'a' <= ch && ch <= 'z' || 'A' <= ch && ch <= 'Z' || ch == '_'
}

func isDigit(ch byte) bool {
	return '0' <= ch && ch <= '9'
}

func isHexDigit(ch byte) bool {
	return isDigit(ch) || 'a' <= ch && ch <= 'f' || 'A' <= ch && ch <= 'F'
}
