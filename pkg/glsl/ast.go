// Package glsl defines the GLSL syntax tree, its type grammar and the
// source writer that turns a tree back into shader text.
package glsl

import (
	"strconv"
	"strings"
)

// Node is the base interface for all AST nodes
type Node interface {
	implGlslNode()
}

// Decl is the interface for items that may appear at the root of a Tree
type Decl interface {
	Node
	implGlslDecl()
}

// UnaryOp represents unary operators
type UnaryOp int

const (
	OpPreIncrement  UnaryOp = iota // ++x
	OpPreDecrement                 // --x
	OpPostIncrement                // x++
	OpPostDecrement                // x--
	OpPlus                         // +x
	OpMinus                        // -x
	OpNot                          // !x
	OpBitNot                       // ~x
)

func (op UnaryOp) String() string {
	names := []string{"++", "--", "++", "--", "+", "-", "!", "~"}
	if int(op) < len(names) {
		return names[op]
	}
	return "?"
}

// IsPostfix reports whether the operator is written after its operand
func (op UnaryOp) IsPostfix() bool {
	return op == OpPostIncrement || op == OpPostDecrement
}

// OperationOp represents arithmetic and shift operators
type OperationOp int

const (
	OpAdd OperationOp = iota
	OpSub
	OpMul
	OpDiv
	OpMod
	OpShl // <<
	OpShr // >>
)

func (op OperationOp) String() string {
	names := []string{"+", "-", "*", "/", "%", "<<", ">>"}
	if int(op) < len(names) {
		return names[op]
	}
	return "?"
}

// CompareOp represents equality and relational operators
type CompareOp int

const (
	OpEq CompareOp = iota
	OpNe
	OpLt
	OpGt
	OpLe
	OpGe
)

func (op CompareOp) String() string {
	names := []string{"==", "!=", "<", ">", "<=", ">="}
	if int(op) < len(names) {
		return names[op]
	}
	return "?"
}

// LogicalOp represents the N-ary bitwise and logical reductions
type LogicalOp int

const (
	OpBitAnd LogicalOp = iota // &
	OpBitXor                  // ^
	OpBitOr                   // |
	OpAnd                     // &&
	OpXor                     // ^^
	OpOr                      // ||
)

func (op LogicalOp) String() string {
	names := []string{"&", "^", "|", "&&", "^^", "||"}
	if int(op) < len(names) {
		return names[op]
	}
	return "?"
}

// AssignOp represents the assignment operators
type AssignOp int

const (
	OpAssign AssignOp = iota
	OpMulAssign
	OpDivAssign
	OpModAssign
	OpAddAssign
	OpSubAssign
	OpShlAssign
	OpShrAssign
	OpAndAssign
	OpXorAssign
	OpOrAssign
)

func (op AssignOp) String() string {
	names := []string{"=", "*=", "/=", "%=", "+=", "-=", "<<=", ">>=", "&=", "^=", "|="}
	if int(op) < len(names) {
		return names[op]
	}
	return "?"
}

// ConstantKind is the type of a literal
type ConstantKind int

const (
	ConstInt ConstantKind = iota
	ConstUint
	ConstFloat
	ConstDouble
	ConstBool
)

// JumpKind is break, continue or discard
type JumpKind int

const (
	JumpBreak JumpKind = iota
	JumpContinue
	JumpDiscard
)

func (k JumpKind) String() string {
	names := []string{"break", "continue", "discard"}
	if int(k) < len(names) {
		return names[k]
	}
	return "?"
}

// LoopKind distinguishes while from do-while
type LoopKind int

const (
	LoopWhile LoopKind = iota
	LoopDoWhile
)

// Compound is a braced statement block
type Compound struct {
	Children []Node
}

// Group is a run of statements written one after another without braces.
// Locals it declares stay visible to the statements that follow it.
type Group struct {
	Children []Node
}

// NewGroup wraps nodes as a single statement: Empty when there are none,
// the node itself when there is one, and a flattened Group otherwise.
func NewGroup(nodes []Node) Node {
	switch len(nodes) {
	case 0:
		return &Empty{}
	case 1:
		return nodes[0]
	}
	g := &Group{}
	for _, n := range nodes {
		if inner, ok := n.(*Group); ok {
			g.Children = append(g.Children, inner.Children...)
		} else {
			g.Children = append(g.Children, n)
		}
	}
	return g
}

// Empty is the empty statement
type Empty struct{}

// Constant is a numeric or boolean literal, kept as written
type Constant struct {
	Kind  ConstantKind
	Value string
}

// Variable is an identifier reference
type Variable struct {
	Name string
}

// FieldSelect is expr.field, including swizzles
type FieldSelect struct {
	Expr  Node
	Field string
}

// ArrayIndex is expr[index]
type ArrayIndex struct {
	Expr  Node
	Index Node
}

// Invocation is a function call or constructor call
type Invocation struct {
	Callee Node
	Args   []Node
}

// PrimitiveConstructor is the callee of a type constructor: vec3(...), float[](...)
type PrimitiveConstructor struct {
	Type TypeSpecifier
}

// Unary is a prefix or postfix unary expression
type Unary struct {
	Op   UnaryOp
	Expr Node
}

// Operation is an arithmetic or shift expression
type Operation struct {
	Left  Node
	Op    OperationOp
	Right Node
}

// Compare is an equality or relational expression
type Compare struct {
	Left  Node
	Op    CompareOp
	Right Node
}

// Logical is a chain of the same bitwise or logical operator: a & b & c
type Logical struct {
	Op       LogicalOp
	Operands []Node
}

// Assignment is left op right
type Assignment struct {
	Left  Node
	Op    AssignOp
	Right Node
}

// Conditional is cond ? then : else
type Conditional struct {
	Cond Node
	Then Node
	Else Node
}

// InitializerList is a braced aggregate initializer: {a, b, c}
type InitializerList struct {
	Values []Node
}

// CaseLabel is case value: or default: when Value is nil
type CaseLabel struct {
	Value Node
}

// Jump is break, continue or discard
type Jump struct {
	Kind JumpKind
}

// Return is a return statement. Value is nil for a bare return.
type Return struct {
	Value Node
}

// For is a for loop. Init, Cond and Incr may be nil.
type For struct {
	Init Node
	Cond Node
	Incr Node
	Body []Node
}

// While is a while or do-while loop
type While struct {
	Cond Node
	Body []Node
	Kind LoopKind
}

// Switch holds labels and statements interleaved in source order
type Switch struct {
	Cond     Node
	Branches []Node
}

// Selection is if/else. An empty Else means no else branch.
type Selection struct {
	Cond Node
	Then []Node
	Else []Node
}

// Precision is a default precision statement: precision highp float
type Precision struct {
	Precision PrecisionQualifier
	Type      TypeSpecifier
}

// Declaration is qualifiers applied to existing names, or to nothing:
// invariant gl_Position; layout(local_size_x = 8) in;
type Declaration struct {
	Qualifiers []TypeQualifier
	Names      []string
}

// New declares a single named variable with an optional initializer
type New struct {
	Type *SpecifiedType
	Name string
	Init Node
}

// Struct declares a struct or an interface block without an instance name
type Struct struct {
	Type *SpecifiedType
}

// NewStruct creates a struct declaration. It panics if t does not specify a struct.
func NewStruct(t *SpecifiedType) *Struct {
	if _, ok := t.Specifier.(*StructSpecifier); !ok {
		panic("glsl: struct declaration requires a struct specifier")
	}
	return &Struct{Type: t}
}

// Specifier returns the struct body of the declaration
func (s *Struct) Specifier() *StructSpecifier {
	return s.Type.Specifier.(*StructSpecifier)
}

// Parameter is one function parameter. Name may be empty in prototypes.
type Parameter struct {
	Type *SpecifiedType
	Name string
}

// FunctionHeader is a function signature
type FunctionHeader struct {
	Name       string
	ReturnType *SpecifiedType
	Params     []*Parameter
}

// Function is a function definition, or a prototype when Body is nil
type Function struct {
	Header *FunctionHeader
	Body   []Node
}

// IsPrototype reports whether the function has no body
func (f *Function) IsPrototype() bool {
	return f.Body == nil
}

// Constructors for literals

func IntConstant(v int) *Constant {
	return &Constant{Kind: ConstInt, Value: itoa(v)}
}

func UintConstant(v uint) *Constant {
	return &Constant{Kind: ConstUint, Value: utoa(v) + "u"}
}

func FloatConstant(v float64) *Constant {
	return &Constant{Kind: ConstFloat, Value: ftoa(v)}
}

func BoolConstant(v bool) *Constant {
	if v {
		return &Constant{Kind: ConstBool, Value: "true"}
	}
	return &Constant{Kind: ConstBool, Value: "false"}
}

func itoa(v int) string {
	return strconv.Itoa(v)
}

func utoa(v uint) string {
	return strconv.FormatUint(uint64(v), 10)
}

// ftoa formats v so that it still lexes as a floating point literal
func ftoa(v float64) string {
	s := strconv.FormatFloat(v, 'g', -1, 64)
	if !strings.ContainsAny(s, ".eEnN") {
		s += ".0"
	}
	return s
}

// Marker methods for interface implementation
func (*Compound) implGlslNode()             {}
func (*Group) implGlslNode()                {}
func (*Empty) implGlslNode()                {}
func (*Constant) implGlslNode()             {}
func (*Variable) implGlslNode()             {}
func (*FieldSelect) implGlslNode()          {}
func (*ArrayIndex) implGlslNode()           {}
func (*Invocation) implGlslNode()           {}
func (*PrimitiveConstructor) implGlslNode() {}
func (*Unary) implGlslNode()                {}
func (*Operation) implGlslNode()            {}
func (*Compare) implGlslNode()              {}
func (*Logical) implGlslNode()              {}
func (*Assignment) implGlslNode()           {}
func (*Conditional) implGlslNode()          {}
func (*InitializerList) implGlslNode()      {}
func (*CaseLabel) implGlslNode()            {}
func (*Jump) implGlslNode()                 {}
func (*Return) implGlslNode()               {}
func (*For) implGlslNode()                  {}
func (*While) implGlslNode()                {}
func (*Switch) implGlslNode()               {}
func (*Selection) implGlslNode()            {}

func (*Precision) implGlslNode()   {}
func (*Precision) implGlslDecl()   {}
func (*Declaration) implGlslNode() {}
func (*Declaration) implGlslDecl() {}
func (*New) implGlslNode()         {}
func (*New) implGlslDecl()         {}
func (*Struct) implGlslNode()      {}
func (*Struct) implGlslDecl()      {}
func (*Function) implGlslNode()    {}
func (*Function) implGlslDecl()    {}
