package cpp

import (
	"fmt"
	"strings"
)

// Error is a preprocessing failure at a source line.
type Error struct {
	Line int
	Msg  string
}

func (e *Error) Error() string {
	return fmt.Sprintf("line %d: %s", e.Line, e.Msg)
}

// Preprocessor is the main driver for GLSL preprocessing.
type Preprocessor struct {
	macros      *MacroTable
	conditional *ConditionalProcessor
	expander    *Expander

	out     strings.Builder
	line    int     // current output line
	pending []Token // active text lines not yet expanded
}

// NewPreprocessor creates a preprocessor over the given macros. The table
// is updated by #define and #undef as the source is processed.
func NewPreprocessor(macros *MacroTable) *Preprocessor {
	return &Preprocessor{
		macros:      macros,
		conditional: NewConditionalProcessor(macros),
		expander:    NewExpander(macros),
	}
}

// Macros returns the macro table.
func (p *Preprocessor) Macros() *MacroTable {
	return p.macros
}

// Preprocess expands macros and resolves conditionals in source. The
// output has a line for every input line, so positions reported against
// it match the original text.
func (p *Preprocessor) Preprocess(source string) (string, error) {
	p.out.Reset()
	p.line = 1
	p.pending = nil

	lex := NewLexer(source)
	var line []Token
	for {
		tok := lex.NextToken()
		if tok.Type != PP_EOF {
			line = append(line, tok)
		}
		if tok.Type == PP_NEWLINE || (tok.Type == PP_EOF && len(line) > 0) {
			if err := p.processLine(line); err != nil {
				return "", err
			}
			line = nil
		}
		if tok.Type == PP_EOF {
			if err := p.flush(); err != nil {
				return "", err
			}
			if err := p.conditional.CheckBalanced(); err != nil {
				return "", &Error{Line: tok.Loc.Line, Msg: err.Error()}
			}
			p.emit(tok.Loc.Line, "")
			return p.out.String(), nil
		}
	}
}

func (p *Preprocessor) processLine(tokens []Token) error {
	first := 0
	for first < len(tokens) && tokens[first].Type == PP_WHITESPACE {
		first++
	}
	if first < len(tokens) && tokens[first].Type == PP_HASH {
		if err := p.flush(); err != nil {
			return err
		}
		return p.processDirective(tokens, first)
	}
	if p.conditional.IsActive() {
		// text lines are expanded together so invocations may span lines
		p.pending = append(p.pending, tokens...)
	}
	return nil
}

func (p *Preprocessor) flush() error {
	if len(p.pending) == 0 {
		return nil
	}
	start := p.pending[0].Loc.Line
	expanded, err := p.expander.Expand(p.pending)
	p.pending = nil
	if err != nil {
		return atLine(start, err)
	}
	p.emit(start, TokensToString(expanded))
	return nil
}

// emit writes text starting at source line at, padding with blank lines
// for consumed directives and skipped groups.
func (p *Preprocessor) emit(at int, text string) {
	for p.line < at {
		p.out.WriteByte('\n')
		p.line++
	}
	p.out.WriteString(text)
	p.line += strings.Count(text, "\n")
}

func (p *Preprocessor) processDirective(tokens []Token, hash int) error {
	loc := tokens[hash].Loc
	dir, err := ParseDirectiveFromTokens(tokens[hash+1:], loc)
	if err != nil {
		// unknown directives in skipped groups are ignored
		if !p.conditional.IsActive() {
			return nil
		}
		return &Error{Line: loc.Line, Msg: err.Error()}
	}
	if err := p.directive(dir, tokens); err != nil {
		return atLine(loc.Line, err)
	}
	return nil
}

func (p *Preprocessor) directive(dir *Directive, tokens []Token) error {
	// conditionals are tracked even inside skipped groups
	switch dir.Type {
	case DIR_IF:
		return p.conditional.ProcessIf(dir.Expression)
	case DIR_IFDEF:
		p.conditional.ProcessIfdef(dir.Identifier)
		return nil
	case DIR_IFNDEF:
		p.conditional.ProcessIfndef(dir.Identifier)
		return nil
	case DIR_ELIF:
		return p.conditional.ProcessElif(dir.Expression)
	case DIR_ELSE:
		return p.conditional.ProcessElse()
	case DIR_ENDIF:
		return p.conditional.ProcessEndif()
	}

	if !p.conditional.IsActive() {
		return nil
	}
	switch dir.Type {
	case DIR_DEFINE:
		return p.macros.DefineFromDirective(dir)
	case DIR_UNDEF:
		p.macros.Undefine(dir.Identifier)
	case DIR_ERROR:
		return fmt.Errorf("#error %s", dir.Message)
	case DIR_PASSTHROUGH:
		p.emit(dir.Loc.Line, TokensToString(tokens))
	}
	return nil
}

// PreprocessString preprocesses source with the given object-like macros
// predefined.
func PreprocessString(source string, defines map[string]string) (string, error) {
	mt := NewMacroTable()
	for name, value := range defines {
		if err := mt.DefineSimple(name, value); err != nil {
			return "", err
		}
	}
	return NewPreprocessor(mt).Preprocess(source)
}
