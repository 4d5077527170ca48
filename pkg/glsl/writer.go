package glsl

import (
	"fmt"
	"io"
	"strings"
)

// Printer writes GLSL source for a tree or a single node
type Printer struct {
	w      io.Writer
	indent int
}

// NewPrinter creates a new GLSL printer
func NewPrinter(w io.Writer) *Printer {
	return &Printer{w: w, indent: 0}
}

// Write renders tree as GLSL source to w
func Write(w io.Writer, tree *Tree) error {
	_, err := io.WriteString(w, String(tree))
	return err
}

// String renders tree as GLSL source
func String(tree *Tree) string {
	var sb strings.Builder
	NewPrinter(&sb).PrintTree(tree)
	return sb.String()
}

// Source renders the canonical text of a single node. Statements carry
// their terminator, expressions do not.
func Source(n Node) string {
	var sb strings.Builder
	p := NewPrinter(&sb)
	if isStatement(n) {
		p.printStmt(n)
	} else {
		p.printExpr(n)
	}
	return strings.TrimSuffix(sb.String(), "\n")
}

// StatementSource renders n as a statement, so expressions get their
// semicolon too.
func StatementSource(n Node) string {
	var sb strings.Builder
	NewPrinter(&sb).printStmt(n)
	return strings.TrimSuffix(sb.String(), "\n")
}

// TypeSource renders a type specifier with its array dimensions: vec3, float[4]
func TypeSource(spec TypeSpecifier) string {
	var sb strings.Builder
	p := NewPrinter(&sb)
	p.printSpecifier(spec)
	p.printDims(spec)
	return sb.String()
}

// PrintTree prints the version line, the directives and every root item
func (p *Printer) PrintTree(t *Tree) {
	fmt.Fprintf(p.w, "#version %d", t.Version.Number)
	switch {
	case !t.Version.Core:
		fmt.Fprint(p.w, " compatibility")
	case t.Version.Number >= 150:
		fmt.Fprint(p.w, " core")
	}
	fmt.Fprint(p.w, "\n\n")

	for _, d := range t.Directives {
		fmt.Fprintln(p.w, d)
	}
	if len(t.Directives) > 0 {
		fmt.Fprintln(p.w)
	}

	for _, item := range t.Body {
		p.printStmt(item)
		if fn, ok := item.(*Function); ok && !fn.IsPrototype() {
			fmt.Fprintln(p.w)
		}
	}
}

func (p *Printer) writeIndent() {
	fmt.Fprint(p.w, strings.Repeat("\t", p.indent))
}

func isStatement(n Node) bool {
	switch n.(type) {
	case *Compound, *Group, *Empty, *CaseLabel, *Jump, *Return, *For, *While, *Switch, *Selection,
		*Precision, *Declaration, *New, *Struct, *Function:
		return true
	}
	return false
}

// printBlock prints a braced statement list without a trailing newline
func (p *Printer) printBlock(stmts []Node) {
	fmt.Fprintln(p.w, "{")
	p.indent++
	for _, stmt := range stmts {
		p.printStmt(stmt)
	}
	p.indent--
	p.writeIndent()
	fmt.Fprint(p.w, "}")
}

func (p *Printer) printStmt(stmt Node) {
	if g, ok := stmt.(*Group); ok {
		for _, child := range g.Children {
			p.printStmt(child)
		}
		return
	}
	p.writeIndent()
	switch s := stmt.(type) {
	case *Compound:
		p.printBlock(s.Children)
		fmt.Fprintln(p.w)
	case *Empty:
		fmt.Fprintln(p.w, ";")
	case *CaseLabel:
		if s.Value == nil {
			fmt.Fprintln(p.w, "default:")
		} else {
			fmt.Fprint(p.w, "case ")
			p.printExpr(s.Value)
			fmt.Fprintln(p.w, ":")
		}
	case *Jump:
		fmt.Fprintf(p.w, "%s;\n", s.Kind)
	case *Return:
		fmt.Fprint(p.w, "return")
		if s.Value != nil {
			fmt.Fprint(p.w, " ")
			p.printExpr(s.Value)
		}
		fmt.Fprintln(p.w, ";")
	case *For:
		fmt.Fprint(p.w, "for (")
		if s.Init != nil {
			p.printForInit(s.Init)
		}
		fmt.Fprint(p.w, "; ")
		if s.Cond != nil {
			p.printExpr(s.Cond)
		}
		fmt.Fprint(p.w, "; ")
		if s.Incr != nil {
			p.printExpr(s.Incr)
		}
		fmt.Fprint(p.w, ") ")
		p.printBlock(s.Body)
		fmt.Fprintln(p.w)
	case *While:
		if s.Kind == LoopDoWhile {
			fmt.Fprint(p.w, "do ")
			p.printBlock(s.Body)
			fmt.Fprint(p.w, " while (")
			p.printExpr(s.Cond)
			fmt.Fprintln(p.w, ");")
			return
		}
		fmt.Fprint(p.w, "while (")
		p.printExpr(s.Cond)
		fmt.Fprint(p.w, ") ")
		p.printBlock(s.Body)
		fmt.Fprintln(p.w)
	case *Switch:
		fmt.Fprint(p.w, "switch (")
		p.printExpr(s.Cond)
		fmt.Fprintln(p.w, ") {")
		p.indent++
		for _, b := range s.Branches {
			if _, ok := b.(*CaseLabel); ok {
				p.printStmt(b)
				continue
			}
			p.indent++
			p.printStmt(b)
			p.indent--
		}
		p.indent--
		p.writeIndent()
		fmt.Fprintln(p.w, "}")
	case *Selection:
		p.printSelection(s)
		fmt.Fprintln(p.w)
	case *Precision:
		fmt.Fprintf(p.w, "precision %s ", s.Precision)
		p.printSpecifier(s.Type)
		p.printDims(s.Type)
		fmt.Fprintln(p.w, ";")
	case *Declaration:
		for i, q := range s.Qualifiers {
			if i > 0 {
				fmt.Fprint(p.w, " ")
			}
			p.printQualifier(q)
		}
		if len(s.Names) > 0 {
			fmt.Fprintf(p.w, " %s", strings.Join(s.Names, ", "))
		}
		fmt.Fprintln(p.w, ";")
	case *New:
		p.printNew(s)
		fmt.Fprintln(p.w, ";")
	case *Struct:
		p.printTyped(s.Type, "")
		fmt.Fprintln(p.w, ";")
	case *Function:
		p.printFunction(s)
	default:
		p.printExpr(stmt)
		fmt.Fprintln(p.w, ";")
	}
}

func (p *Printer) printSelection(s *Selection) {
	fmt.Fprint(p.w, "if (")
	p.printExpr(s.Cond)
	fmt.Fprint(p.w, ") ")
	p.printBlock(s.Then)
	if len(s.Else) == 0 {
		return
	}
	fmt.Fprint(p.w, " else ")
	if len(s.Else) == 1 {
		if next, ok := s.Else[0].(*Selection); ok {
			p.printSelection(next)
			return
		}
	}
	p.printBlock(s.Else)
}

func (p *Printer) printForInit(init Node) {
	if n, ok := init.(*New); ok {
		p.printNew(n)
		return
	}
	p.printExpr(init)
}

func (p *Printer) printNew(n *New) {
	p.printTyped(n.Type, n.Name)
	if n.Init != nil {
		fmt.Fprint(p.w, " = ")
		p.printExpr(n.Init)
	}
}

func (p *Printer) printFunction(f *Function) {
	p.printTyped(f.Header.ReturnType, "")
	fmt.Fprintf(p.w, " %s(", f.Header.Name)
	for i, param := range f.Header.Params {
		if i > 0 {
			fmt.Fprint(p.w, ", ")
		}
		p.printTyped(param.Type, param.Name)
	}
	if f.IsPrototype() {
		fmt.Fprintln(p.w, ");")
		return
	}
	fmt.Fprint(p.w, ") ")
	p.printBlock(f.Body)
	fmt.Fprintln(p.w)
}

// printTyped prints qualifiers, the base type, the optional name and the
// array dimensions, in that order
func (p *Printer) printTyped(t *SpecifiedType, name string) {
	p.printQualifiers(t.Qualifiers)
	p.printSpecifier(t.Specifier)
	if name != "" {
		fmt.Fprintf(p.w, " %s", name)
	}
	p.printDims(t.Specifier)
}

func (p *Printer) printQualifiers(quals []TypeQualifier) {
	for _, q := range quals {
		p.printQualifier(q)
		fmt.Fprint(p.w, " ")
	}
}

func (p *Printer) printQualifier(q TypeQualifier) {
	switch q := q.(type) {
	case StorageQualifier:
		fmt.Fprint(p.w, q.String())
	case PrecisionQualifier:
		fmt.Fprint(p.w, q.String())
	case InterpolationQualifier:
		fmt.Fprint(p.w, q.String())
	case InvariantQualifier:
		fmt.Fprint(p.w, "invariant")
	case PreciseQualifier:
		fmt.Fprint(p.w, "precise")
	case *SubroutineQualifier:
		fmt.Fprint(p.w, "subroutine")
		if len(q.TypeNames) > 0 {
			fmt.Fprintf(p.w, "(%s)", strings.Join(q.TypeNames, ", "))
		}
	case *LayoutQualifier:
		fmt.Fprint(p.w, "layout(")
		for i, id := range q.IDs {
			if i > 0 {
				fmt.Fprint(p.w, ", ")
			}
			switch {
			case id.Shared:
				fmt.Fprint(p.w, "shared")
			case id.Value != nil:
				fmt.Fprintf(p.w, "%s = ", id.Name)
				p.printExpr(id.Value)
			default:
				fmt.Fprint(p.w, id.Name)
			}
		}
		fmt.Fprint(p.w, ")")
	default:
		fmt.Fprintf(p.w, "/* unknown qualifier %T */", q)
	}
}

// printSpecifier prints the element type of spec, without array dimensions
func (p *Printer) printSpecifier(spec TypeSpecifier) {
	switch s := BaseSpecifier(spec).(type) {
	case BuiltinType:
		fmt.Fprint(p.w, s.String())
	case *NamedType:
		fmt.Fprint(p.w, s.Name)
	case *StructSpecifier:
		p.printStructBody(s)
	default:
		fmt.Fprintf(p.w, "/* unknown type %T */", spec)
	}
}

func (p *Printer) printDims(spec TypeSpecifier) {
	for {
		arr, ok := spec.(*ArrayType)
		if !ok {
			return
		}
		fmt.Fprint(p.w, "[")
		if arr.Size != nil {
			p.printExpr(arr.Size)
		}
		fmt.Fprint(p.w, "]")
		spec = arr.Elem
	}
}

func (p *Printer) printStructBody(s *StructSpecifier) {
	if !s.Block {
		fmt.Fprint(p.w, "struct ")
	}
	if s.Name != "" {
		fmt.Fprintf(p.w, "%s ", s.Name)
	}
	fmt.Fprintln(p.w, "{")
	p.indent++
	for _, field := range s.Fields {
		p.writeIndent()
		p.printTyped(field.Type, field.Name)
		fmt.Fprintln(p.w, ";")
	}
	p.indent--
	p.writeIndent()
	fmt.Fprint(p.w, "}")
}

// Expression precedence, loosest first
const (
	precAssign = iota + 1
	precConditional
	precOr
	precXor
	precAnd
	precBitOr
	precBitXor
	precBitAnd
	precEquality
	precRelational
	precShift
	precAdditive
	precMultiplicative
	precUnary
	precPostfix
	precPrimary
)

func precedence(n Node) int {
	switch e := n.(type) {
	case *Assignment:
		return precAssign
	case *Conditional:
		return precConditional
	case *Logical:
		return [...]int{precBitAnd, precBitXor, precBitOr, precAnd, precXor, precOr}[e.Op]
	case *Compare:
		if e.Op == OpEq || e.Op == OpNe {
			return precEquality
		}
		return precRelational
	case *Operation:
		switch e.Op {
		case OpShl, OpShr:
			return precShift
		case OpAdd, OpSub:
			return precAdditive
		}
		return precMultiplicative
	case *Unary:
		if e.Op.IsPostfix() {
			return precPostfix
		}
		return precUnary
	case *FieldSelect, *ArrayIndex, *Invocation:
		return precPostfix
	}
	return precPrimary
}

// printOperand parenthesizes n when it binds looser than min
func (p *Printer) printOperand(n Node, min int) {
	if precedence(n) < min {
		fmt.Fprint(p.w, "(")
		p.printExpr(n)
		fmt.Fprint(p.w, ")")
		return
	}
	p.printExpr(n)
}

func (p *Printer) printBinary(left Node, op string, right Node, prec int) {
	p.printOperand(left, prec)
	fmt.Fprintf(p.w, " %s ", op)
	p.printOperand(right, prec+1)
}

func (p *Printer) printList(nodes []Node) {
	for i, n := range nodes {
		if i > 0 {
			fmt.Fprint(p.w, ", ")
		}
		p.printOperand(n, precAssign)
	}
}

func (p *Printer) printExpr(expr Node) {
	switch e := expr.(type) {
	case *Constant:
		fmt.Fprint(p.w, e.Value)
	case *Variable:
		fmt.Fprint(p.w, e.Name)
	case *FieldSelect:
		if _, ok := e.Expr.(*Constant); ok {
			fmt.Fprint(p.w, "(")
			p.printExpr(e.Expr)
			fmt.Fprint(p.w, ")")
		} else {
			p.printOperand(e.Expr, precPostfix)
		}
		fmt.Fprintf(p.w, ".%s", e.Field)
	case *ArrayIndex:
		p.printOperand(e.Expr, precPostfix)
		fmt.Fprint(p.w, "[")
		p.printExpr(e.Index)
		fmt.Fprint(p.w, "]")
	case *Invocation:
		p.printOperand(e.Callee, precPostfix)
		fmt.Fprint(p.w, "(")
		p.printList(e.Args)
		fmt.Fprint(p.w, ")")
	case *PrimitiveConstructor:
		p.printSpecifier(e.Type)
		p.printDims(e.Type)
	case *Unary:
		p.printUnary(e)
	case *Operation:
		p.printBinary(e.Left, e.Op.String(), e.Right, precedence(e))
	case *Compare:
		p.printBinary(e.Left, e.Op.String(), e.Right, precedence(e))
	case *Logical:
		prec := precedence(e)
		for i, operand := range e.Operands {
			if i > 0 {
				fmt.Fprintf(p.w, " %s ", e.Op)
			}
			p.printOperand(operand, prec+1)
		}
	case *Assignment:
		p.printOperand(e.Left, precUnary)
		fmt.Fprintf(p.w, " %s ", e.Op)
		p.printOperand(e.Right, precAssign)
	case *Conditional:
		p.printOperand(e.Cond, precConditional+1)
		fmt.Fprint(p.w, " ? ")
		p.printOperand(e.Then, precConditional)
		fmt.Fprint(p.w, " : ")
		p.printOperand(e.Else, precConditional)
	case *InitializerList:
		fmt.Fprint(p.w, "{")
		p.printList(e.Values)
		fmt.Fprint(p.w, "}")
	default:
		fmt.Fprintf(p.w, "/* unknown expr %T */", expr)
	}
}

func (p *Printer) printUnary(u *Unary) {
	if u.Op.IsPostfix() {
		p.printOperand(u.Expr, precPostfix)
		fmt.Fprint(p.w, u.Op.String())
		return
	}
	fmt.Fprint(p.w, u.Op.String())
	// - -x would lex as a decrement
	if inner, ok := u.Expr.(*Unary); ok && !inner.Op.IsPostfix() {
		fmt.Fprint(p.w, "(")
		p.printExpr(inner)
		fmt.Fprint(p.w, ")")
		return
	}
	p.printOperand(u.Expr, precUnary)
}
