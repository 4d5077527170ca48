package cpp

import (
	"fmt"
	"strings"
)

// DirectiveType identifies a preprocessing directive.
type DirectiveType int

const (
	DIR_EMPTY DirectiveType = iota // a lone #
	DIR_DEFINE
	DIR_UNDEF
	DIR_IF
	DIR_IFDEF
	DIR_IFNDEF
	DIR_ELIF
	DIR_ELSE
	DIR_ENDIF
	DIR_ERROR
	DIR_PASSTHROUGH // handled by the shader compiler, kept verbatim
)

var directiveTypes = map[string]DirectiveType{
	"define":    DIR_DEFINE,
	"undef":     DIR_UNDEF,
	"if":        DIR_IF,
	"ifdef":     DIR_IFDEF,
	"ifndef":    DIR_IFNDEF,
	"elif":      DIR_ELIF,
	"else":      DIR_ELSE,
	"endif":     DIR_ENDIF,
	"error":     DIR_ERROR,
	"version":   DIR_PASSTHROUGH,
	"extension": DIR_PASSTHROUGH,
	"include":   DIR_PASSTHROUGH,
	"pragma":    DIR_PASSTHROUGH,
	"line":      DIR_PASSTHROUGH,
}

// Directive is a parsed directive line.
type Directive struct {
	Type DirectiveType
	Name string
	Loc  SourceLoc

	Identifier   string // macro name of #define, #undef, #ifdef and #ifndef
	FunctionLike bool   // #define NAME( with no space before the parenthesis
	Params       []string
	Body         []Token // replacement list of #define
	Expression   []Token // condition of #if and #elif
	Message      string  // text of #error
}

// ParseDirectiveFromTokens parses the tokens following a # at the start of
// a line. A trailing newline token is ignored.
func ParseDirectiveFromTokens(tokens []Token, loc SourceLoc) (*Directive, error) {
	if n := len(tokens); n > 0 && tokens[n-1].Type == PP_NEWLINE {
		tokens = tokens[:n-1]
	}
	dir := &Directive{Loc: loc}
	i := skipBlank(tokens, 0)
	if i >= len(tokens) {
		return dir, nil
	}
	if tokens[i].Type != PP_IDENTIFIER {
		return nil, fmt.Errorf("invalid preprocessing directive #%s", tokens[i].Text)
	}
	dir.Name = tokens[i].Text
	typ, ok := directiveTypes[dir.Name]
	if !ok {
		return nil, fmt.Errorf("invalid preprocessing directive #%s", dir.Name)
	}
	dir.Type = typ
	rest := tokens[i+1:]

	switch typ {
	case DIR_DEFINE:
		return dir, parseDefine(dir, rest)
	case DIR_UNDEF, DIR_IFDEF, DIR_IFNDEF:
		name, err := singleIdentifier(dir.Name, rest)
		if err != nil {
			return nil, err
		}
		dir.Identifier = name
	case DIR_IF, DIR_ELIF:
		dir.Expression = trimWhitespace(rest)
		if len(dir.Expression) == 0 {
			return nil, fmt.Errorf("#%s with no expression", dir.Name)
		}
	case DIR_ERROR:
		dir.Message = strings.TrimSpace(TokensToString(rest))
	}
	return dir, nil
}

func singleIdentifier(directive string, tokens []Token) (string, error) {
	tokens = trimWhitespace(tokens)
	if len(tokens) == 0 {
		return "", fmt.Errorf("no macro name given in #%s directive", directive)
	}
	if tokens[0].Type != PP_IDENTIFIER {
		return "", fmt.Errorf("macro names must be identifiers")
	}
	if len(tokens) > 1 {
		return "", fmt.Errorf("extra tokens at end of #%s directive", directive)
	}
	return tokens[0].Text, nil
}

func parseDefine(dir *Directive, tokens []Token) error {
	i := skipBlank(tokens, 0)
	if i >= len(tokens) {
		return fmt.Errorf("no macro name given in #define directive")
	}
	if tokens[i].Type != PP_IDENTIFIER {
		return fmt.Errorf("macro names must be identifiers")
	}
	dir.Identifier = tokens[i].Text
	i++

	if i < len(tokens) && tokens[i].Text == "(" {
		dir.FunctionLike = true
		end, err := parseParams(dir, tokens, i+1)
		if err != nil {
			return err
		}
		i = end
	}
	dir.Body = trimWhitespace(tokens[i:])
	return nil
}

// parseParams reads a parameter list starting after its opening
// parenthesis and returns the index after the closing one.
func parseParams(dir *Directive, tokens []Token, i int) (int, error) {
	seen := make(map[string]bool)
	i = skipBlank(tokens, i)
	if i < len(tokens) && tokens[i].Text == ")" {
		return i + 1, nil
	}
	for {
		i = skipBlank(tokens, i)
		if i >= len(tokens) || tokens[i].Type != PP_IDENTIFIER {
			return 0, fmt.Errorf("expected parameter name in macro %s", dir.Identifier)
		}
		name := tokens[i].Text
		if seen[name] {
			return 0, fmt.Errorf("duplicate macro parameter %q", name)
		}
		seen[name] = true
		dir.Params = append(dir.Params, name)

		i = skipBlank(tokens, i+1)
		switch {
		case i < len(tokens) && tokens[i].Text == ")":
			return i + 1, nil
		case i < len(tokens) && tokens[i].Text == ",":
			i++
		default:
			return 0, fmt.Errorf("expected ',' or ')' in parameter list of macro %s", dir.Identifier)
		}
	}
}
