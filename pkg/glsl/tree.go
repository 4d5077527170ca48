package glsl

// DefaultVersion is the version assumed when a shader has no #version line
const DefaultVersion = 110

// Version is the #version statement of a shader
type Version struct {
	Number int
	Core   bool
}

// Tree is a parsed shader: version, directives and root items in source order
type Tree struct {
	Version    Version
	Directives []string
	Body       []Decl
}

// NewTree creates an empty tree with the default version
func NewTree() *Tree {
	return &Tree{Version: Version{Number: DefaultVersion, Core: true}}
}

// Functions returns the function definitions and prototypes in body order
func (t *Tree) Functions() []*Function {
	var funcs []*Function
	for _, item := range t.Body {
		if fn, ok := item.(*Function); ok {
			funcs = append(funcs, fn)
		}
	}
	return funcs
}

// MainFunction returns the first main function that has a body
func (t *Tree) MainFunction() (*Function, bool) {
	for _, fn := range t.Functions() {
		if fn.Header.Name == "main" && !fn.IsPrototype() {
			return fn, true
		}
	}
	return nil, false
}

// Fields returns the root level variable declarations in body order
func (t *Tree) Fields() []*New {
	var fields []*New
	for _, item := range t.Body {
		if n, ok := item.(*New); ok {
			fields = append(fields, n)
		}
	}
	return fields
}

// Field returns the root level variable named name
func (t *Tree) Field(name string) (*New, bool) {
	for _, f := range t.Fields() {
		if f.Name == name {
			return f, true
		}
	}
	return nil, false
}

// Insert inserts items into the body at index, clamped to the body bounds
func (t *Tree) Insert(index int, items ...Decl) {
	if index < 0 {
		index = 0
	}
	if index > len(t.Body) {
		index = len(t.Body)
	}
	body := make([]Decl, 0, len(t.Body)+len(items))
	body = append(body, t.Body[:index]...)
	body = append(body, items...)
	body = append(body, t.Body[index:]...)
	t.Body = body
}

// OutputsToInputs turns every out declaration of t into an in declaration,
// so the outputs of one stage can be declared as inputs of the next. Other
// qualifiers, layouts included, are kept.
func (t *Tree) OutputsToInputs() {
	for n := range StreamTree(t) {
		switch d := n.(type) {
		case *New:
			swapStorage(d.Type.Qualifiers, Out, In)
		case *Struct:
			swapStorage(d.Type.Qualifiers, Out, In)
		case *Declaration:
			swapStorage(d.Qualifiers, Out, In)
		}
	}
}

func swapStorage(quals []TypeQualifier, from, to StorageQualifier) {
	for i, q := range quals {
		if sq, ok := q.(StorageQualifier); ok && sq == from {
			quals[i] = to
		}
	}
}
