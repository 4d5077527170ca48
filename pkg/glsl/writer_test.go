package glsl

import (
	"bytes"
	"testing"
)

func v(name string) *Variable { return &Variable{Name: name} }

func TestSourceExpressions(t *testing.T) {
	tests := []struct {
		name     string
		node     Node
		expected string
	}{
		{
			name:     "looser left operand",
			node:     &Operation{Left: &Operation{Left: v("a"), Op: OpAdd, Right: v("b")}, Op: OpMul, Right: v("c")},
			expected: "(a + b) * c",
		},
		{
			name:     "right operand of equal precedence",
			node:     &Operation{Left: v("a"), Op: OpSub, Right: &Operation{Left: v("b"), Op: OpSub, Right: v("c")}},
			expected: "a - (b - c)",
		},
		{
			name:     "left associative chain",
			node:     &Operation{Left: &Operation{Left: v("a"), Op: OpSub, Right: v("b")}, Op: OpSub, Right: v("c")},
			expected: "a - b - c",
		},
		{
			name:     "relational over additive",
			node:     &Compare{Left: &Operation{Left: v("a"), Op: OpAdd, Right: v("b")}, Op: OpLt, Right: v("c")},
			expected: "a + b < c",
		},
		{
			name:     "double negation",
			node:     &Unary{Op: OpMinus, Expr: &Unary{Op: OpMinus, Expr: v("x")}},
			expected: "-(-x)",
		},
		{
			name:     "negated sum",
			node:     &Unary{Op: OpMinus, Expr: &Operation{Left: v("a"), Op: OpAdd, Right: v("b")}},
			expected: "-(a + b)",
		},
		{
			name:     "postfix increment",
			node:     &Unary{Op: OpPostIncrement, Expr: v("i")},
			expected: "i++",
		},
		{
			name:     "swizzle of literal",
			node:     &FieldSelect{Expr: FloatConstant(1), Field: "x"},
			expected: "(1.0).x",
		},
		{
			name:     "swizzle of call",
			node:     &FieldSelect{Expr: &Invocation{Callee: v("f"), Args: nil}, Field: "xy"},
			expected: "f().xy",
		},
		{
			name: "nested conditional in else",
			node: &Conditional{Cond: v("a"), Then: v("b"),
				Else: &Conditional{Cond: v("c"), Then: v("d"), Else: v("e")}},
			expected: "a ? b : c ? d : e",
		},
		{
			name: "conditional as condition",
			node: &Conditional{Cond: &Conditional{Cond: v("a"), Then: v("b"), Else: v("c")},
				Then: v("d"), Else: v("e")},
			expected: "(a ? b : c) ? d : e",
		},
		{
			name: "or inside and",
			node: &Logical{Op: OpAnd, Operands: []Node{v("a"),
				&Logical{Op: OpOr, Operands: []Node{v("b"), v("c")}}}},
			expected: "a && (b || c)",
		},
		{
			name: "and inside or",
			node: &Logical{Op: OpOr, Operands: []Node{
				&Logical{Op: OpAnd, Operands: []Node{v("a"), v("b")}}, v("c")}},
			expected: "a && b || c",
		},
		{
			name:     "chained assignment",
			node:     &Assignment{Left: v("x"), Op: OpAddAssign, Right: &Assignment{Left: v("y"), Op: OpAssign, Right: IntConstant(1)}},
			expected: "x += y = 1",
		},
		{
			name: "vector constructor",
			node: &Invocation{Callee: &PrimitiveConstructor{Type: Vec3},
				Args: []Node{FloatConstant(1), FloatConstant(2.5), FloatConstant(3)}},
			expected: "vec3(1.0, 2.5, 3.0)",
		},
		{
			name: "array constructor",
			node: &Invocation{Callee: &PrimitiveConstructor{Type: &ArrayType{Elem: Float}},
				Args: []Node{FloatConstant(1), FloatConstant(2)}},
			expected: "float[](1.0, 2.0)",
		},
		{
			name:     "index expression",
			node:     &ArrayIndex{Expr: v("a"), Index: &Operation{Left: v("i"), Op: OpAdd, Right: IntConstant(1)}},
			expected: "a[i + 1]",
		},
		{
			name:     "initializer list",
			node:     &InitializerList{Values: []Node{IntConstant(1), UintConstant(2), BoolConstant(true)}},
			expected: "{1, 2u, true}",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Source(tt.node); got != tt.expected {
				t.Errorf("Source() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestSourceStatements(t *testing.T) {
	location := &LayoutQualifier{IDs: []LayoutID{{Name: "location", Value: IntConstant(0)}}}
	header := &FunctionHeader{Name: "f", ReturnType: Type(Float), Params: []*Parameter{{Type: Type(Vec2), Name: "uv"}}}

	tests := []struct {
		name     string
		node     Node
		expected string
	}{
		{
			name:     "output variable",
			node:     &New{Type: &SpecifiedType{Specifier: Vec4, Qualifiers: []TypeQualifier{Out}}, Name: "color"},
			expected: "out vec4 color;",
		},
		{
			name: "qualified array",
			node: &New{Type: &SpecifiedType{Specifier: &ArrayType{Elem: Float, Size: IntConstant(4)},
				Qualifiers: []TypeQualifier{location, Uniform}}, Name: "w"},
			expected: "layout(location = 0) uniform float w[4];",
		},
		{
			name:     "initialized local",
			node:     &New{Type: &SpecifiedType{Specifier: Float, Qualifiers: []TypeQualifier{Const, Highp}}, Name: "k", Init: FloatConstant(0.5)},
			expected: "const highp float k = 0.5;",
		},
		{
			name:     "invariant declaration",
			node:     &Declaration{Qualifiers: []TypeQualifier{InvariantQualifier{}}, Names: []string{"gl_Position", "v"}},
			expected: "invariant gl_Position, v;",
		},
		{
			name: "layout only declaration",
			node: &Declaration{Qualifiers: []TypeQualifier{
				&LayoutQualifier{IDs: []LayoutID{{Name: "local_size_x", Value: IntConstant(8)}, {Shared: true}, {Name: "std140"}}}, In}},
			expected: "layout(local_size_x = 8, shared, std140) in;",
		},
		{
			name:     "default precision",
			node:     &Precision{Precision: Mediump, Type: Float},
			expected: "precision mediump float;",
		},
		{
			name: "struct",
			node: NewStruct(Type(&StructSpecifier{Name: "Light", Fields: []*StructField{
				{Type: Type(Vec3), Name: "pos"}, {Type: Type(&ArrayType{Elem: Float, Size: IntConstant(2)}), Name: "k"}}})),
			expected: "struct Light {\n\tvec3 pos;\n\tfloat k[2];\n};",
		},
		{
			name: "interface block",
			node: NewStruct(&SpecifiedType{Qualifiers: []TypeQualifier{Uniform}, Specifier: &StructSpecifier{
				Name: "Matrices", Block: true, Fields: []*StructField{{Type: Type(Mat4), Name: "mvp"}}}}),
			expected: "uniform Matrices {\n\tmat4 mvp;\n};",
		},
		{
			name:     "prototype",
			node:     &Function{Header: header},
			expected: "float f(vec2 uv);",
		},
		{
			name:     "definition",
			node:     &Function{Header: header, Body: []Node{&Return{Value: FloatConstant(1)}}},
			expected: "float f(vec2 uv) {\n\treturn 1.0;\n}",
		},
		{
			name: "subroutine parameter qualifiers",
			node: &Function{Header: &FunctionHeader{Name: "g", ReturnType: &SpecifiedType{Specifier: Void,
				Qualifiers: []TypeQualifier{&SubroutineQualifier{TypeNames: []string{"A", "B"}}}},
				Params: []*Parameter{{Type: &SpecifiedType{Specifier: Float, Qualifiers: []TypeQualifier{Inout}}}}}},
			expected: "subroutine(A, B) void g(inout float);",
		},
		{
			name: "else if chain",
			node: &Selection{Cond: v("a"), Then: []Node{&Jump{Kind: JumpBreak}},
				Else: []Node{&Selection{Cond: v("b"), Then: []Node{&Jump{Kind: JumpContinue}},
					Else: []Node{&Jump{Kind: JumpDiscard}}}}},
			expected: "if (a) {\n\tbreak;\n} else if (b) {\n\tcontinue;\n} else {\n\tdiscard;\n}",
		},
		{
			name: "do while",
			node: &While{Kind: LoopDoWhile, Cond: &Compare{Left: v("i"), Op: OpLt, Right: IntConstant(4)},
				Body: []Node{&Unary{Op: OpPostIncrement, Expr: v("i")}}},
			expected: "do {\n\ti++;\n} while (i < 4);",
		},
		{
			name: "for loop",
			node: &For{
				Init: &New{Type: Type(Int), Name: "i", Init: IntConstant(0)},
				Cond: &Compare{Left: v("i"), Op: OpLt, Right: IntConstant(4)},
				Incr: &Unary{Op: OpPostIncrement, Expr: v("i")},
				Body: []Node{&Assignment{Left: v("x"), Op: OpAddAssign, Right: v("i")}},
			},
			expected: "for (int i = 0; i < 4; i++) {\n\tx += i;\n}",
		},
		{
			name:     "empty for",
			node:     &For{},
			expected: "for (; ; ) {\n}",
		},
		{
			name: "switch",
			node: &Switch{Cond: v("x"), Branches: []Node{
				&CaseLabel{Value: IntConstant(1)}, &Jump{Kind: JumpBreak},
				&CaseLabel{}, &Return{}}},
			expected: "switch (x) {\n\tcase 1:\n\t\tbreak;\n\tdefault:\n\t\treturn;\n}",
		},
		{
			name:     "nested compound",
			node:     &Compound{Children: []Node{&Empty{}, &Compound{}}},
			expected: "{\n\t;\n\t{\n\t}\n}",
		},
		{
			name:     "group has no braces",
			node:     &Group{Children: []Node{&New{Type: Type(Float), Name: "a"}, &Return{}}},
			expected: "float a;\nreturn;",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Source(tt.node); got != tt.expected {
				t.Errorf("Source() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestStatementSource(t *testing.T) {
	tests := []struct {
		name     string
		node     Node
		expected string
	}{
		{"expression gets a semicolon", &Assignment{Left: v("a"), Op: OpAssign, Right: IntConstant(1)}, "a = 1;"},
		{"declaration", &New{Type: Type(Float), Name: "a"}, "float a;"},
		{"block", &Compound{Children: []Node{&Jump{Kind: JumpBreak}}}, "{\n\tbreak;\n}"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := StatementSource(tt.node); got != tt.expected {
				t.Errorf("StatementSource() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestNewGroup(t *testing.T) {
	a := &Assignment{Left: v("a"), Op: OpAssign, Right: IntConstant(1)}
	b := &Assignment{Left: v("b"), Op: OpAssign, Right: IntConstant(2)}
	c := &Return{}

	if _, ok := NewGroup(nil).(*Empty); !ok {
		t.Errorf("NewGroup(nil) = %T, want *Empty", NewGroup(nil))
	}
	if got := NewGroup([]Node{a}); got != Node(a) {
		t.Errorf("NewGroup of one node = %v, want the node itself", got)
	}
	g, ok := NewGroup([]Node{&Group{Children: []Node{a, b}}, c}).(*Group)
	if !ok {
		t.Fatalf("NewGroup of three nodes is not a *Group")
	}
	if len(g.Children) != 3 || g.Children[0] != Node(a) || g.Children[2] != Node(c) {
		t.Errorf("nested group not flattened: %v", g.Children)
	}
}

func TestWriteTree(t *testing.T) {
	tree := &Tree{
		Version:    Version{Number: 330, Core: true},
		Directives: []string{"#extension GL_ARB_explicit_attrib_location : enable"},
		Body: []Decl{
			&New{Type: &SpecifiedType{Specifier: Vec4, Qualifiers: []TypeQualifier{Out}}, Name: "color"},
			&Function{Header: &FunctionHeader{Name: "main", ReturnType: Type(Void)}, Body: []Node{
				&Assignment{Left: v("color"), Op: OpAssign, Right: &Invocation{
					Callee: &PrimitiveConstructor{Type: Vec4}, Args: []Node{FloatConstant(1)}}},
			}},
		},
	}
	want := "#version 330 core\n\n" +
		"#extension GL_ARB_explicit_attrib_location : enable\n\n" +
		"out vec4 color;\n" +
		"void main() {\n\tcolor = vec4(1.0);\n}\n\n"

	var buf bytes.Buffer
	if err := Write(&buf, tree); err != nil {
		t.Fatalf("Write error: %v", err)
	}
	if buf.String() != want {
		t.Errorf("Write() = %q, want %q", buf.String(), want)
	}
}

func TestWriteVersion(t *testing.T) {
	tests := []struct {
		version  Version
		expected string
	}{
		{Version{Number: 110, Core: true}, "#version 110\n\n"},
		{Version{Number: 120, Core: false}, "#version 120 compatibility\n\n"},
		{Version{Number: 150, Core: true}, "#version 150 core\n\n"},
		{Version{Number: 450, Core: false}, "#version 450 compatibility\n\n"},
	}
	for _, tt := range tests {
		if got := String(&Tree{Version: tt.version}); got != tt.expected {
			t.Errorf("String(%+v) = %q, want %q", tt.version, got, tt.expected)
		}
	}
}

func TestConstantHelpers(t *testing.T) {
	tests := []struct {
		c        *Constant
		kind     ConstantKind
		expected string
	}{
		{IntConstant(-3), ConstInt, "-3"},
		{UintConstant(7), ConstUint, "7u"},
		{FloatConstant(2), ConstFloat, "2.0"},
		{FloatConstant(0.25), ConstFloat, "0.25"},
		{FloatConstant(1e21), ConstFloat, "1e+21"},
		{BoolConstant(false), ConstBool, "false"},
	}
	for _, tt := range tests {
		if tt.c.Kind != tt.kind || tt.c.Value != tt.expected {
			t.Errorf("got %v %q, want %v %q", tt.c.Kind, tt.c.Value, tt.kind, tt.expected)
		}
	}
}

func TestNewStructRejectsOtherTypes(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("NewStruct(float) did not panic")
		}
	}()
	NewStruct(Type(Float))
}

func TestTypeSource(t *testing.T) {
	tests := []struct {
		spec     TypeSpecifier
		expected string
	}{
		{Vec3, "vec3"},
		{&NamedType{Name: "Light"}, "Light"},
		{&ArrayType{Elem: Float, Size: IntConstant(4)}, "float[4]"},
		{&ArrayType{Elem: &ArrayType{Elem: Vec2, Size: IntConstant(2)}}, "vec2[][2]"},
	}
	for _, tt := range tests {
		if got := TypeSource(tt.spec); got != tt.expected {
			t.Errorf("TypeSource(%#v) = %q, want %q", tt.spec, got, tt.expected)
		}
	}
}
