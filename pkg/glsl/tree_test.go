package glsl

import (
	"testing"
)

func field(name string, quals ...TypeQualifier) *New {
	return &New{Type: &SpecifiedType{Specifier: Vec4, Qualifiers: quals}, Name: name}
}

func fn(name string, body []Node) *Function {
	return &Function{Header: &FunctionHeader{Name: name, ReturnType: Type(Void)}, Body: body}
}

func TestMainFunction(t *testing.T) {
	proto := fn("main", nil)
	def := fn("main", []Node{})
	tree := &Tree{Body: []Decl{fn("helper", []Node{}), proto, def}}

	got, ok := tree.MainFunction()
	if !ok || got != def {
		t.Errorf("MainFunction() = %v, %v; want the definition", got, ok)
	}
	if len(tree.Functions()) != 3 {
		t.Errorf("Functions() returned %d functions, want 3", len(tree.Functions()))
	}

	if _, ok := (&Tree{Body: []Decl{proto}}).MainFunction(); ok {
		t.Error("a prototype alone should not count as main")
	}
}

func TestFields(t *testing.T) {
	color := field("color", Out)
	tree := &Tree{Body: []Decl{
		&Precision{Precision: Highp, Type: Float},
		field("pos", In),
		color,
		fn("main", []Node{}),
	}}

	fields := tree.Fields()
	if len(fields) != 2 || fields[0].Name != "pos" || fields[1].Name != "color" {
		t.Errorf("Fields() = %v", fields)
	}
	if got, ok := tree.Field("color"); !ok || got != color {
		t.Errorf("Field(color) = %v, %v", got, ok)
	}
	if _, ok := tree.Field("missing"); ok {
		t.Error("Field(missing) found something")
	}
}

func TestInsert(t *testing.T) {
	tests := []struct {
		name     string
		index    int
		expected []string
	}{
		{"front", 0, []string{"x", "a", "b"}},
		{"middle", 1, []string{"a", "x", "b"}},
		{"end", 2, []string{"a", "b", "x"}},
		{"negative clamps to front", -4, []string{"x", "a", "b"}},
		{"past end clamps to end", 9, []string{"a", "b", "x"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tree := &Tree{Body: []Decl{field("a"), field("b")}}
			tree.Insert(tt.index, field("x"))
			var names []string
			for _, f := range tree.Fields() {
				names = append(names, f.Name)
			}
			if len(names) != len(tt.expected) {
				t.Fatalf("got %v, want %v", names, tt.expected)
			}
			for i := range names {
				if names[i] != tt.expected[i] {
					t.Errorf("got %v, want %v", names, tt.expected)
					break
				}
			}
		})
	}
}

func TestOutputsToInputs(t *testing.T) {
	placed := &LayoutQualifier{IDs: []LayoutID{{Name: "location", Value: IntConstant(2)}}}
	tree := &Tree{Body: []Decl{
		field("color", Out),
		field("normal", Flat, Out),
		field("placed", placed, Out),
		field("tint", Uniform),
		&Declaration{Qualifiers: []TypeQualifier{InvariantQualifier{}, Out}, Names: []string{"normal"}},
	}}
	tree.OutputsToInputs()

	want := []string{
		"in vec4 color;",
		"flat in vec4 normal;",
		"layout(location = 2) in vec4 placed;",
		"uniform vec4 tint;",
		"invariant in normal;",
	}
	for i, item := range tree.Body {
		if got := Source(item); got != want[i] {
			t.Errorf("item %d = %q, want %q", i, got, want[i])
		}
	}
}

func TestNewTree(t *testing.T) {
	tree := NewTree()
	if tree.Version != (Version{Number: DefaultVersion, Core: true}) {
		t.Errorf("NewTree().Version = %+v", tree.Version)
	}
	if got := String(tree); got != "#version 110\n\n" {
		t.Errorf("String(NewTree()) = %q", got)
	}
}
