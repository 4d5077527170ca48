package cpp

import (
	"errors"
	"fmt"
)

// Expander handles macro expansion.
type Expander struct {
	macros  *MacroTable
	hideset map[string]bool // macros currently being expanded
}

// NewExpander creates a new macro expander.
func NewExpander(macros *MacroTable) *Expander {
	return &Expander{
		macros:  macros,
		hideset: make(map[string]bool),
	}
}

// Expand expands all macros in the token stream. Newlines swallowed by a
// function-like invocation that spans lines are emitted after its
// expansion so the output keeps the input's line count.
func (e *Expander) Expand(tokens []Token) ([]Token, error) {
	return e.expandTokens(tokens)
}

func (e *Expander) expandTokens(tokens []Token) ([]Token, error) {
	var result []Token
	for i := 0; i < len(tokens); i++ {
		tok := tokens[i]
		m := e.macros.Lookup(tok.Text)
		if tok.Type != PP_IDENTIFIER || m == nil || e.hideset[tok.Text] {
			result = append(result, tok)
			continue
		}

		switch m.Kind {
		case MacroBuiltin:
			result = append(result, m.BuiltinFunc(tok.Loc)...)
		case MacroObject:
			expanded, err := e.substitute(m, nil, tok.Loc)
			if err != nil {
				return nil, atLine(tok.Loc.Line, err)
			}
			result = append(result, expanded...)
		case MacroFunction:
			open := skipBlank(tokens, i+1)
			if open >= len(tokens) || tokens[open].Text != "(" {
				// a function-like macro name without arguments is left alone
				result = append(result, tok)
				continue
			}
			args, end, err := e.parseArguments(tokens, open, m)
			if err != nil {
				return nil, atLine(tok.Loc.Line, err)
			}
			expanded, err := e.substitute(m, args, tok.Loc)
			if err != nil {
				return nil, atLine(tok.Loc.Line, err)
			}
			result = append(result, expanded...)
			for _, t := range tokens[i:end] {
				if t.Type == PP_NEWLINE {
					result = append(result, t)
				}
			}
			i = end
		}
	}
	return result, nil
}

// atLine attaches a source line to err unless an inner expansion already did.
func atLine(line int, err error) error {
	var ppErr *Error
	if errors.As(err, &ppErr) {
		return err
	}
	return &Error{Line: line, Msg: err.Error()}
}

// substitute replaces parameters in the macro body, pastes ## operands and
// rescans the result with the macro hidden. Arguments are expanded before
// the macro is hidden, so F(F(1)) expands both calls.
func (e *Expander) substitute(m *Macro, args [][]Token, loc SourceLoc) ([]Token, error) {
	params := make(map[string][]Token, len(m.Params))
	for i, name := range m.Params {
		params[name] = args[i]
	}

	var body []Token
	repl := m.Replacement
	for i, tok := range repl {
		arg, isParam := params[tok.Text]
		if tok.Type != PP_IDENTIFIER || !isParam {
			tok.Loc = loc
			body = append(body, tok)
			continue
		}
		// operands of ## are substituted unexpanded
		if pasteOperand(repl, i) {
			if len(arg) == 0 {
				body = append(body, Token{Type: PP_PLACEHOLDER, Loc: loc})
			}
			body = append(body, relocate(arg, loc)...)
			continue
		}
		expanded, err := e.expandTokens(arg)
		if err != nil {
			return nil, err
		}
		body = append(body, relocate(expanded, loc)...)
	}

	pasted, err := pasteTokens(body)
	if err != nil {
		return nil, fmt.Errorf("macro %s: %w", m.Name, err)
	}
	e.hideset[m.Name] = true
	defer delete(e.hideset, m.Name)
	return e.expandTokens(pasted)
}

// parseArguments parses the arguments of a function-like macro invocation.
// open indexes the opening parenthesis; the returned index is the closing one.
func (e *Expander) parseArguments(tokens []Token, open int, m *Macro) ([][]Token, int, error) {
	var args [][]Token
	var current []Token
	depth := 0
	for i := open + 1; i < len(tokens); i++ {
		tok := tokens[i]
		if tok.Type == PP_NEWLINE {
			tok = Token{Type: PP_WHITESPACE, Text: " ", Loc: tok.Loc}
		}
		switch {
		case tok.Text == "(":
			depth++
		case tok.Text == ")" && depth > 0:
			depth--
		case tok.Text == ")":
			args = append(args, trimWhitespace(current))
			// m() passes one empty argument, which matches zero parameters
			if len(m.Params) == 0 && len(args) == 1 && len(args[0]) == 0 {
				args = nil
			}
			if len(args) != len(m.Params) {
				return nil, 0, fmt.Errorf("macro %s requires %d arguments, got %d", m.Name, len(m.Params), len(args))
			}
			return args, i, nil
		case tok.Text == "," && depth == 0 && tok.Type == PP_PUNCTUATOR:
			args = append(args, trimWhitespace(current))
			current = nil
			continue
		}
		current = append(current, tok)
	}
	return nil, 0, fmt.Errorf("unterminated argument list invoking macro %s", m.Name)
}

// pasteTokens joins the operands around each ## and relexes the result.
func pasteTokens(tokens []Token) ([]Token, error) {
	var result []Token
	for i := 0; i < len(tokens); i++ {
		tok := tokens[i]
		if tok.Type != PP_HASHHASH {
			result = append(result, tok)
			continue
		}
		for len(result) > 0 && result[len(result)-1].Type == PP_WHITESPACE {
			result = result[:len(result)-1]
		}
		next := skipBlank(tokens, i+1)
		if len(result) == 0 || next >= len(tokens) {
			return nil, fmt.Errorf("'##' cannot appear at either end of a macro expansion")
		}
		left, right := result[len(result)-1], tokens[next]
		result = append(result[:len(result)-1], relex(left.Text+right.Text, left.Loc)...)
		i = next
	}

	filtered := result[:0]
	for _, tok := range result {
		if tok.Type != PP_PLACEHOLDER {
			filtered = append(filtered, tok)
		}
	}
	return filtered, nil
}

// relex splits pasted text back into tokens. An empty paste yields a
// placeholder so that a following ## still has a left operand.
func relex(text string, loc SourceLoc) []Token {
	if text == "" {
		return []Token{{Type: PP_PLACEHOLDER, Loc: loc}}
	}
	var tokens []Token
	for _, tok := range NewLexer(text).AllTokens() {
		if tok.Type == PP_EOF {
			break
		}
		tok.Loc = loc
		tokens = append(tokens, tok)
	}
	return tokens
}

// pasteOperand reports whether the token at i is next to a ##, ignoring
// whitespace.
func pasteOperand(tokens []Token, i int) bool {
	if next := skipBlank(tokens, i+1); next < len(tokens) && tokens[next].Type == PP_HASHHASH {
		return true
	}
	prev := i - 1
	for prev >= 0 && tokens[prev].Type == PP_WHITESPACE {
		prev--
	}
	return prev >= 0 && tokens[prev].Type == PP_HASHHASH
}

func relocate(tokens []Token, loc SourceLoc) []Token {
	out := make([]Token, len(tokens))
	for i, tok := range tokens {
		tok.Loc = loc
		out[i] = tok
	}
	return out
}

// skipBlank returns the index of the first token at or after i that is not
// whitespace or a newline.
func skipBlank(tokens []Token, i int) int {
	for i < len(tokens) && (tokens[i].Type == PP_WHITESPACE || tokens[i].Type == PP_NEWLINE) {
		i++
	}
	return i
}

// trimWhitespace removes leading and trailing whitespace from a token slice.
func trimWhitespace(tokens []Token) []Token {
	start := 0
	for start < len(tokens) && tokens[start].Type == PP_WHITESPACE {
		start++
	}
	end := len(tokens)
	for end > start && tokens[end-1].Type == PP_WHITESPACE {
		end--
	}
	if start >= end {
		return nil
	}
	return tokens[start:end]
}

// ExpandString expands macros in a string.
func (e *Expander) ExpandString(input string) (string, error) {
	tokens := NewLexer(input).AllTokens()
	expanded, err := e.Expand(tokens[:len(tokens)-1])
	if err != nil {
		return "", err
	}
	return TokensToString(expanded), nil
}
