package glsl

import (
	"testing"
)

func variableNames(seq func(func(Node) bool)) []string {
	var names []string
	for n := range seq {
		if v, ok := n.(*Variable); ok {
			names = append(names, v.Name)
		}
	}
	return names
}

func TestStreamOrder(t *testing.T) {
	// a + f(b)[c]
	expr := &Operation{
		Left: v("a"),
		Op:   OpAdd,
		Right: &ArrayIndex{
			Expr:  &Invocation{Callee: v("f"), Args: []Node{v("b")}},
			Index: v("c"),
		},
	}
	got := variableNames(Stream(expr))
	want := []string{"a", "f", "b", "c"}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}

	count := 0
	for range Stream(expr) {
		count++
	}
	if count != 7 {
		t.Errorf("visited %d nodes, want 7", count)
	}
}

func TestStreamGroup(t *testing.T) {
	group := NewGroup([]Node{
		&Assignment{Left: v("a"), Op: OpAssign, Right: v("b")},
		&Return{Value: v("c")},
	})
	got := variableNames(Stream(group))
	if len(got) != 3 || got[0] != "a" || got[1] != "b" || got[2] != "c" {
		t.Errorf("got %v, want [a b c]", got)
	}
}

func TestStreamTypeNodes(t *testing.T) {
	// layout(location = L) uniform float w[N] = init;
	layout := &LayoutQualifier{IDs: []LayoutID{{Name: "location", Value: v("L")}}}
	decl := &New{
		Type: &SpecifiedType{Specifier: &ArrayType{Elem: Float, Size: v("N")},
			Qualifiers: []TypeQualifier{layout, Uniform}},
		Name: "w",
		Init: v("init"),
	}
	got := variableNames(Stream(decl))
	want := []string{"L", "N", "init"}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}

func TestStreamTreeStopsEarly(t *testing.T) {
	tree := &Tree{Body: []Decl{
		fn("main", []Node{
			&Selection{Cond: v("a"), Then: []Node{&Return{Value: v("b")}}, Else: []Node{&Jump{Kind: JumpDiscard}}},
			&CaseLabel{},
		}),
		field("x"),
	}}

	var seen []Node
	for n := range StreamTree(tree) {
		seen = append(seen, n)
		if _, ok := n.(*Return); ok {
			break
		}
	}
	if _, ok := seen[len(seen)-1].(*Return); !ok {
		t.Fatalf("iteration did not stop at the return: %v", seen)
	}

	jumps := 0
	for n := range StreamTree(tree) {
		if _, ok := n.(*Jump); ok {
			jumps++
		}
	}
	if jumps != 1 {
		t.Errorf("found %d jumps, want 1", jumps)
	}
}
