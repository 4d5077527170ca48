package parser

import "fmt"

// SyntaxError reports malformed source or a malformed injected snippet.
// Token is the literal of the offending token, empty at end of input.
type SyntaxError struct {
	Line   int
	Column int
	Token  string
	Msg    string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("line %d, col %d: %s", e.Line, e.Column, e.Msg)
}

// bailout unwinds the parser after the first error
type bailout struct{}
