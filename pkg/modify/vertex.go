package modify

import (
	"cmp"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/raymyers/glslmod/pkg/glsl"
	"github.com/raymyers/glslmod/pkg/parser"
)

// Attribute is a vertex input a Vertex modification expects at a slot
type Attribute struct {
	Index int
	Type  string
	Name  string
}

// Vertex binds expected vertex attributes to the shader's inputs before
// running the Simple steps. Placeholders naming an expected attribute
// resolve to the input actually bound at its slot.
type Vertex struct {
	Simple
	Attributes []Attribute
}

func (m *Vertex) Inject(tree *glsl.Tree, params Params) error {
	names, err := m.bind(tree)
	if err != nil {
		return err
	}
	return m.inject(tree, params, Chain(names, Identity))
}

// bind maps each expected attribute name to the bound input name, declaring
// the inputs that are missing
func (m *Vertex) bind(tree *glsl.Tree) (map[string]string, error) {
	if len(m.Attributes) == 0 {
		return nil, nil
	}
	inputs := vertexInputs(tree)
	attrs := slices.SortedStableFunc(slices.Values(m.Attributes), func(a, b Attribute) int {
		return cmp.Compare(a.Index, b.Index)
	})

	names := make(map[string]string, len(attrs))
	var missing []glsl.Decl
	for _, attr := range attrs {
		want := strings.TrimSpace(attr.Type)
		field, ok := inputs[attr.Index]
		if !ok {
			decl, err := declareInput(attr.Index, want, attr.Name)
			if err != nil {
				return nil, err
			}
			missing = append(missing, decl)
			names[attr.Name] = attr.Name
			continue
		}
		if found := glsl.TypeSource(field.Type.Specifier); found != want {
			return nil, &AttributeTypeMismatchError{Index: attr.Index, Expected: want, Found: found}
		}
		names[attr.Name] = field.Name
	}
	tree.Insert(0, missing...)
	return names, nil
}

// vertexInputs returns the root in variables by slot. A variable's slot is
// its layout location, or its position among the in variables without one.
// The first variable claiming a slot keeps it.
func vertexInputs(tree *glsl.Tree) map[int]*glsl.New {
	inputs := make(map[int]*glsl.New)
	ordinal := 0
	for _, f := range tree.Fields() {
		if !f.Type.HasStorage(glsl.In) {
			continue
		}
		slot, ok := location(f.Type)
		if !ok {
			slot = ordinal
			ordinal++
		}
		if _, taken := inputs[slot]; !taken {
			inputs[slot] = f
		}
	}
	return inputs
}

func location(t *glsl.SpecifiedType) (int, bool) {
	loc, ok := t.Layout("location")
	if !ok {
		return 0, false
	}
	return intValue(loc)
}

func declareInput(index int, typ, name string) (glsl.Decl, error) {
	node, err := parser.ParseExpression(fmt.Sprintf("layout(location = %d) in %s %s", index, typ, name))
	if err != nil {
		return nil, err
	}
	decl, ok := node.(*glsl.New)
	if !ok {
		return nil, fmt.Errorf("attribute %d: %q is not a single variable declaration", index, typ+" "+name)
	}
	return decl, nil
}

func intValue(n glsl.Node) (int, bool) {
	c, ok := n.(*glsl.Constant)
	if !ok || (c.Kind != glsl.ConstInt && c.Kind != glsl.ConstUint) {
		return 0, false
	}
	v, err := strconv.ParseInt(strings.TrimRight(c.Value, "uU"), 0, 64)
	if err != nil {
		return 0, false
	}
	return int(v), true
}
