package cpp

import (
	"fmt"
	"strconv"
	"strings"
)

// condState tracks one level of #if nesting.
type condState struct {
	active    bool // the current branch is included
	seenElse  bool
	anyActive bool // some branch at this level was taken
	parent    bool // the enclosing level is included
}

// ConditionalProcessor handles conditional compilation directives.
type ConditionalProcessor struct {
	macros   *MacroTable
	expander *Expander
	stack    []condState
}

// NewConditionalProcessor creates a new conditional processor.
func NewConditionalProcessor(macros *MacroTable) *ConditionalProcessor {
	return &ConditionalProcessor{
		macros:   macros,
		expander: NewExpander(macros),
	}
}

// IsActive reports whether lines at the current position are included.
func (cp *ConditionalProcessor) IsActive() bool {
	return len(cp.stack) == 0 || cp.stack[len(cp.stack)-1].active
}

func (cp *ConditionalProcessor) push(taken bool) {
	parent := cp.IsActive()
	taken = parent && taken
	cp.stack = append(cp.stack, condState{active: taken, anyActive: taken, parent: parent})
}

// ProcessIf handles #if.
func (cp *ConditionalProcessor) ProcessIf(expr []Token) error {
	if !cp.IsActive() {
		cp.push(false)
		return nil
	}
	result, err := cp.Evaluate(expr)
	if err != nil {
		return fmt.Errorf("#if: %w", err)
	}
	cp.push(result)
	return nil
}

// ProcessIfdef handles #ifdef.
func (cp *ConditionalProcessor) ProcessIfdef(name string) {
	cp.push(cp.macros.IsDefined(name))
}

// ProcessIfndef handles #ifndef.
func (cp *ConditionalProcessor) ProcessIfndef(name string) {
	cp.push(!cp.macros.IsDefined(name))
}

// ProcessElif handles #elif.
func (cp *ConditionalProcessor) ProcessElif(expr []Token) error {
	if len(cp.stack) == 0 {
		return fmt.Errorf("#elif without #if")
	}
	state := &cp.stack[len(cp.stack)-1]
	if state.seenElse {
		return fmt.Errorf("#elif after #else")
	}
	if state.anyActive || !state.parent {
		state.active = false
		return nil
	}
	result, err := cp.Evaluate(expr)
	if err != nil {
		return fmt.Errorf("#elif: %w", err)
	}
	state.active = result
	state.anyActive = result
	return nil
}

// ProcessElse handles #else.
func (cp *ConditionalProcessor) ProcessElse() error {
	if len(cp.stack) == 0 {
		return fmt.Errorf("#else without #if")
	}
	state := &cp.stack[len(cp.stack)-1]
	if state.seenElse {
		return fmt.Errorf("#else after #else")
	}
	state.seenElse = true
	state.active = state.parent && !state.anyActive
	state.anyActive = state.anyActive || state.active
	return nil
}

// ProcessEndif handles #endif.
func (cp *ConditionalProcessor) ProcessEndif() error {
	if len(cp.stack) == 0 {
		return fmt.Errorf("#endif without #if")
	}
	cp.stack = cp.stack[:len(cp.stack)-1]
	return nil
}

// Depth returns the nesting depth of conditionals.
func (cp *ConditionalProcessor) Depth() int {
	return len(cp.stack)
}

// CheckBalanced returns an error if there are unclosed conditionals.
func (cp *ConditionalProcessor) CheckBalanced() error {
	if len(cp.stack) > 0 {
		return fmt.Errorf("unterminated conditional directive, %d level(s) unclosed", len(cp.stack))
	}
	return nil
}

// Evaluate evaluates an #if expression. defined is resolved first, then
// macros are expanded and remaining identifiers count as 0.
func (cp *ConditionalProcessor) Evaluate(tokens []Token) (bool, error) {
	resolved, err := cp.resolveDefined(tokens)
	if err != nil {
		return false, err
	}
	expanded, err := cp.expander.Expand(resolved)
	if err != nil {
		return false, err
	}

	var operands []Token
	for _, tok := range expanded {
		switch tok.Type {
		case PP_WHITESPACE, PP_NEWLINE:
			continue
		case PP_IDENTIFIER:
			tok = Token{Type: PP_NUMBER, Text: "0", Loc: tok.Loc}
		}
		operands = append(operands, tok)
	}
	if len(operands) == 0 {
		return false, fmt.Errorf("empty expression")
	}

	ev := &evaluator{tokens: operands}
	value, err := ev.conditional()
	if err != nil {
		return false, err
	}
	if ev.pos < len(ev.tokens) {
		return false, fmt.Errorf("unexpected token after expression: %s", ev.tokens[ev.pos].Text)
	}
	return value != 0, nil
}

func (cp *ConditionalProcessor) resolveDefined(tokens []Token) ([]Token, error) {
	var result []Token
	for i := 0; i < len(tokens); i++ {
		tok := tokens[i]
		if tok.Type != PP_IDENTIFIER || tok.Text != "defined" {
			result = append(result, tok)
			continue
		}
		i = skipBlank(tokens, i+1)
		paren := i < len(tokens) && tokens[i].Text == "("
		if paren {
			i = skipBlank(tokens, i+1)
		}
		if i >= len(tokens) || tokens[i].Type != PP_IDENTIFIER {
			return nil, fmt.Errorf("operator \"defined\" requires an identifier")
		}
		name := tokens[i].Text
		if paren {
			i = skipBlank(tokens, i+1)
			if i >= len(tokens) || tokens[i].Text != ")" {
				return nil, fmt.Errorf("missing ')' after \"defined\"")
			}
		}
		value := "0"
		if cp.macros.IsDefined(name) {
			value = "1"
		}
		result = append(result, Token{Type: PP_NUMBER, Text: value, Loc: tok.Loc})
	}
	return result, nil
}

type binaryOp func(l, r int64) (int64, error)

func boolInt(b bool) int64 {
	if b {
		return 1
	}
	return 0
}

func pure(f func(l, r int64) int64) binaryOp {
	return func(l, r int64) (int64, error) { return f(l, r), nil }
}

// Binary levels from loosest to tightest.
var evalLevels = []map[string]binaryOp{
	{"||": pure(func(l, r int64) int64 { return boolInt(l != 0 || r != 0) })},
	{"&&": pure(func(l, r int64) int64 { return boolInt(l != 0 && r != 0) })},
	{"|": pure(func(l, r int64) int64 { return l | r })},
	{"^": pure(func(l, r int64) int64 { return l ^ r })},
	{"&": pure(func(l, r int64) int64 { return l & r })},
	{
		"==": pure(func(l, r int64) int64 { return boolInt(l == r) }),
		"!=": pure(func(l, r int64) int64 { return boolInt(l != r) }),
	},
	{
		"<":  pure(func(l, r int64) int64 { return boolInt(l < r) }),
		">":  pure(func(l, r int64) int64 { return boolInt(l > r) }),
		"<=": pure(func(l, r int64) int64 { return boolInt(l <= r) }),
		">=": pure(func(l, r int64) int64 { return boolInt(l >= r) }),
	},
	{
		"<<": pure(func(l, r int64) int64 { return l << uint64(r) }),
		">>": pure(func(l, r int64) int64 { return l >> uint64(r) }),
	},
	{
		"+": pure(func(l, r int64) int64 { return l + r }),
		"-": pure(func(l, r int64) int64 { return l - r }),
	},
	{
		"*": pure(func(l, r int64) int64 { return l * r }),
		"/": func(l, r int64) (int64, error) {
			if r == 0 {
				return 0, fmt.Errorf("division by zero")
			}
			return l / r, nil
		},
		"%": func(l, r int64) (int64, error) {
			if r == 0 {
				return 0, fmt.Errorf("division by zero")
			}
			return l % r, nil
		},
	},
}

// evaluator parses and evaluates preprocessor constant expressions.
type evaluator struct {
	tokens []Token
	pos    int
}

func (ev *evaluator) peek() string {
	if ev.pos >= len(ev.tokens) {
		return ""
	}
	return ev.tokens[ev.pos].Text
}

func (ev *evaluator) match(text string) bool {
	if ev.pos < len(ev.tokens) && ev.tokens[ev.pos].Type == PP_PUNCTUATOR && ev.tokens[ev.pos].Text == text {
		ev.pos++
		return true
	}
	return false
}

func (ev *evaluator) conditional() (int64, error) {
	cond, err := ev.binary(0)
	if err != nil || !ev.match("?") {
		return cond, err
	}
	then, err := ev.conditional()
	if err != nil {
		return 0, err
	}
	if !ev.match(":") {
		return 0, fmt.Errorf("expected ':' in conditional expression")
	}
	els, err := ev.conditional()
	if err != nil {
		return 0, err
	}
	if cond != 0 {
		return then, nil
	}
	return els, nil
}

func (ev *evaluator) binary(level int) (int64, error) {
	if level == len(evalLevels) {
		return ev.unary()
	}
	left, err := ev.binary(level + 1)
	if err != nil {
		return 0, err
	}
	for {
		op, ok := evalLevels[level][ev.peek()]
		if !ok || ev.tokens[ev.pos].Type != PP_PUNCTUATOR {
			return left, nil
		}
		ev.pos++
		right, err := ev.binary(level + 1)
		if err != nil {
			return 0, err
		}
		if left, err = op(left, right); err != nil {
			return 0, err
		}
	}
}

func (ev *evaluator) unary() (int64, error) {
	for _, op := range []string{"+", "-", "!", "~"} {
		if !ev.match(op) {
			continue
		}
		v, err := ev.unary()
		if err != nil {
			return 0, err
		}
		switch op {
		case "-":
			return -v, nil
		case "!":
			return boolInt(v == 0), nil
		case "~":
			return ^v, nil
		}
		return v, nil
	}
	return ev.primary()
}

func (ev *evaluator) primary() (int64, error) {
	if ev.pos >= len(ev.tokens) {
		return 0, fmt.Errorf("unexpected end of expression")
	}
	if ev.match("(") {
		v, err := ev.conditional()
		if err != nil {
			return 0, err
		}
		if !ev.match(")") {
			return 0, fmt.Errorf("expected ')'")
		}
		return v, nil
	}
	tok := ev.tokens[ev.pos]
	if tok.Type != PP_NUMBER {
		return 0, fmt.Errorf("unexpected token in expression: %s", tok.Text)
	}
	ev.pos++
	return parseInteger(tok.Text)
}

// parseInteger parses a decimal, octal or hex integer with an optional
// unsigned suffix.
func parseInteger(text string) (int64, error) {
	digits := strings.TrimRight(text, "uU")
	v, err := strconv.ParseInt(digits, 0, 64)
	if err != nil {
		u, uerr := strconv.ParseUint(digits, 0, 64)
		if uerr != nil {
			return 0, fmt.Errorf("invalid integer constant %s", text)
		}
		return int64(u), nil
	}
	return v, nil
}
