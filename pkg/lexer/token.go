package lexer

// TokenType represents the type of a token
type TokenType int

const (
	// Special tokens
	TokenEOF TokenType = iota
	TokenIllegal
	TokenDirective // #version 330 core, #extension ..., whole line

	// Literals
	TokenIdent       // main, vec3, FragColor
	TokenIntConst    // 42, 0x2A, 052
	TokenUintConst   // 42u
	TokenFloatConst  // 1.0, .5, 1e3, 2.0f
	TokenDoubleConst // 1.0lf
	TokenBoolConst   // true, false

	// Keywords
	TokenStruct     // struct
	TokenIf         // if
	TokenElse       // else
	TokenWhile      // while
	TokenDo         // do
	TokenFor        // for
	TokenBreak      // break
	TokenContinue   // continue
	TokenDiscard    // discard
	TokenReturn     // return
	TokenSwitch     // switch
	TokenCase       // case
	TokenDefault    // default
	TokenSubroutine // subroutine
	TokenPrecision  // precision
	TokenLayout     // layout
	TokenInvariant  // invariant
	TokenPrecise    // precise

	// Storage qualifiers
	TokenConst     // const
	TokenIn        // in
	TokenOut       // out
	TokenInout     // inout
	TokenCentroid  // centroid
	TokenPatch     // patch
	TokenSample    // sample
	TokenUniform   // uniform
	TokenBuffer    // buffer
	TokenShared    // shared
	TokenCoherent  // coherent
	TokenVolatile  // volatile
	TokenRestrict  // restrict
	TokenReadonly  // readonly
	TokenWriteonly // writeonly

	// Precision qualifiers
	TokenHighp   // highp
	TokenMediump // mediump
	TokenLowp    // lowp

	// Interpolation qualifiers
	TokenSmooth        // smooth
	TokenFlat          // flat
	TokenNoperspective // noperspective

	// Operators
	TokenPlus      // +
	TokenMinus     // -
	TokenStar      // *
	TokenSlash     // /
	TokenPercent   // %
	TokenAssign    // =
	TokenEq        // ==
	TokenNe        // !=
	TokenLt        // <
	TokenLe        // <=
	TokenGt        // >
	TokenGe        // >=
	TokenAnd       // &&
	TokenOr        // ||
	TokenXor       // ^^
	TokenNot       // !
	TokenAmpersand // &
	TokenPipe      // |
	TokenCaret     // ^
	TokenTilde     // ~
	TokenShl       // <<
	TokenShr       // >>
	TokenQuestion  // ?
	TokenColon     // :

	// Compound assignment operators
	TokenPlusAssign    // +=
	TokenMinusAssign   // -=
	TokenStarAssign    // *=
	TokenSlashAssign   // /=
	TokenPercentAssign // %=
	TokenAndAssign     // &=
	TokenOrAssign      // |=
	TokenXorAssign     // ^=
	TokenShlAssign     // <<=
	TokenShrAssign     // >>=

	// Increment/decrement
	TokenIncrement // ++
	TokenDecrement // --

	// Delimiters
	TokenLParen    // (
	TokenRParen    // )
	TokenLBrace    // {
	TokenRBrace    // }
	TokenLBracket  // [
	TokenRBracket  // ]
	TokenSemicolon // ;
	TokenComma     // ,
	TokenDot       // .
)

var tokenNames = map[TokenType]string{
	TokenEOF:           "EOF",
	TokenIllegal:       "ILLEGAL",
	TokenDirective:     "DIRECTIVE",
	TokenIdent:         "IDENT",
	TokenIntConst:      "INTCONSTANT",
	TokenUintConst:     "UINTCONSTANT",
	TokenFloatConst:    "FLOATCONSTANT",
	TokenDoubleConst:   "DOUBLECONSTANT",
	TokenBoolConst:     "BOOLCONSTANT",
	TokenStruct:        "struct",
	TokenIf:            "if",
	TokenElse:          "else",
	TokenWhile:         "while",
	TokenDo:            "do",
	TokenFor:           "for",
	TokenBreak:         "break",
	TokenContinue:      "continue",
	TokenDiscard:       "discard",
	TokenReturn:        "return",
	TokenSwitch:        "switch",
	TokenCase:          "case",
	TokenDefault:       "default",
	TokenSubroutine:    "subroutine",
	TokenPrecision:     "precision",
	TokenLayout:        "layout",
	TokenInvariant:     "invariant",
	TokenPrecise:       "precise",
	TokenConst:         "const",
	TokenIn:            "in",
	TokenOut:           "out",
	TokenInout:         "inout",
	TokenCentroid:      "centroid",
	TokenPatch:         "patch",
	TokenSample:        "sample",
	TokenUniform:       "uniform",
	TokenBuffer:        "buffer",
	TokenShared:        "shared",
	TokenCoherent:      "coherent",
	TokenVolatile:      "volatile",
	TokenRestrict:      "restrict",
	TokenReadonly:      "readonly",
	TokenWriteonly:     "writeonly",
	TokenHighp:         "highp",
	TokenMediump:       "mediump",
	TokenLowp:          "lowp",
	TokenSmooth:        "smooth",
	TokenFlat:          "flat",
	TokenNoperspective: "noperspective",
	TokenPlus:          "+",
	TokenMinus:         "-",
	TokenStar:          "*",
	TokenSlash:         "/",
	TokenPercent:       "%",
	TokenAssign:        "=",
	TokenEq:            "==",
	TokenNe:            "!=",
	TokenLt:            "<",
	TokenLe:            "<=",
	TokenGt:            ">",
	TokenGe:            ">=",
	TokenAnd:           "&&",
	TokenOr:            "||",
	TokenXor:           "^^",
	TokenNot:           "!",
	TokenAmpersand:     "&",
	TokenPipe:          "|",
	TokenCaret:         "^",
	TokenTilde:         "~",
	TokenShl:           "<<",
	TokenShr:           ">>",
	TokenQuestion:      "?",
	TokenColon:         ":",
	TokenPlusAssign:    "+=",
	TokenMinusAssign:   "-=",
	TokenStarAssign:    "*=",
	TokenSlashAssign:   "/=",
	TokenPercentAssign: "%=",
	TokenAndAssign:     "&=",
	TokenOrAssign:      "|=",
	TokenXorAssign:     "^=",
	TokenShlAssign:     "<<=",
	TokenShrAssign:     ">>=",
	TokenIncrement:     "++",
	TokenDecrement:     "--",
	TokenLParen:        "(",
	TokenRParen:        ")",
	TokenLBrace:        "{",
	TokenRBrace:        "}",
	TokenLBracket:      "[",
	TokenRBracket:      "]",
	TokenSemicolon:     ";",
	TokenComma:         ",",
	TokenDot:           ".",
}

func (t TokenType) String() string {
	if name, ok := tokenNames[t]; ok {
		return name
	}
	return "UNKNOWN"
}

// Token represents a lexical token
type Token struct {
	Type    TokenType
	Literal string
	Line    int
	Column  int
}

// Builtin type names (vec3, sampler2D, ...) are not keywords here. They lex
// as TokenIdent and the parser resolves them against the glsl type catalog.
var keywords = map[string]TokenType{
	"true":          TokenBoolConst,
	"false":         TokenBoolConst,
	"struct":        TokenStruct,
	"if":            TokenIf,
	"else":          TokenElse,
	"while":         TokenWhile,
	"do":            TokenDo,
	"for":           TokenFor,
	"break":         TokenBreak,
	"continue":      TokenContinue,
	"discard":       TokenDiscard,
	"return":        TokenReturn,
	"switch":        TokenSwitch,
	"case":          TokenCase,
	"default":       TokenDefault,
	"subroutine":    TokenSubroutine,
	"precision":     TokenPrecision,
	"layout":        TokenLayout,
	"invariant":     TokenInvariant,
	"precise":       TokenPrecise,
	"const":         TokenConst,
	"in":            TokenIn,
	"out":           TokenOut,
	"inout":         TokenInout,
	"centroid":      TokenCentroid,
	"patch":         TokenPatch,
	"sample":        TokenSample,
	"uniform":       TokenUniform,
	"buffer":        TokenBuffer,
	"shared":        TokenShared,
	"coherent":      TokenCoherent,
	"volatile":      TokenVolatile,
	"restrict":      TokenRestrict,
	"readonly":      TokenReadonly,
	"writeonly":     TokenWriteonly,
	"highp":         TokenHighp,
	"mediump":       TokenMediump,
	"lowp":          TokenLowp,
	"smooth":        TokenSmooth,
	"flat":          TokenFlat,
	"noperspective": TokenNoperspective,
}

// LookupIdent returns the token type for an identifier (keyword or IDENT)
func LookupIdent(ident string) TokenType {
	if tok, ok := keywords[ident]; ok {
		return tok
	}
	return TokenIdent
}

// IsAssignment reports whether t is = or one of the compound assignment operators
func (t TokenType) IsAssignment() bool {
	switch t {
	case TokenAssign, TokenPlusAssign, TokenMinusAssign, TokenStarAssign, TokenSlashAssign,
		TokenPercentAssign, TokenAndAssign, TokenOrAssign, TokenXorAssign, TokenShlAssign, TokenShrAssign:
		return true
	}
	return false
}
