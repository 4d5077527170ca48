package glsl

import "iter"

// Stream yields n and all of its descendants in pre-order. Array sizes,
// layout values and initializers are visited as part of their owner.
func Stream(n Node) iter.Seq[Node] {
	return func(yield func(Node) bool) {
		walk(n, yield)
	}
}

// StreamTree yields every root item of t and its descendants in pre-order
func StreamTree(t *Tree) iter.Seq[Node] {
	return func(yield func(Node) bool) {
		for _, item := range t.Body {
			if !walk(item, yield) {
				return
			}
		}
	}
}

func walk(n Node, yield func(Node) bool) bool {
	if n == nil {
		return true
	}
	if !yield(n) {
		return false
	}
	for _, child := range children(n) {
		if !walk(child, yield) {
			return false
		}
	}
	return true
}

func children(n Node) []Node {
	switch e := n.(type) {
	case *Compound:
		return e.Children
	case *Group:
		return e.Children
	case *FieldSelect:
		return []Node{e.Expr}
	case *ArrayIndex:
		return []Node{e.Expr, e.Index}
	case *Invocation:
		return append([]Node{e.Callee}, e.Args...)
	case *PrimitiveConstructor:
		return typeNodes(e.Type)
	case *Unary:
		return []Node{e.Expr}
	case *Operation:
		return []Node{e.Left, e.Right}
	case *Compare:
		return []Node{e.Left, e.Right}
	case *Logical:
		return e.Operands
	case *Assignment:
		return []Node{e.Left, e.Right}
	case *Conditional:
		return []Node{e.Cond, e.Then, e.Else}
	case *InitializerList:
		return e.Values
	case *CaseLabel:
		return []Node{e.Value}
	case *Return:
		return []Node{e.Value}
	case *For:
		return append([]Node{e.Init, e.Cond, e.Incr}, e.Body...)
	case *While:
		return append([]Node{e.Cond}, e.Body...)
	case *Switch:
		return append([]Node{e.Cond}, e.Branches...)
	case *Selection:
		nodes := append([]Node{e.Cond}, e.Then...)
		return append(nodes, e.Else...)
	case *Declaration:
		return qualifierNodes(e.Qualifiers)
	case *New:
		return append(specifiedNodes(e.Type), e.Init)
	case *Struct:
		return specifiedNodes(e.Type)
	case *Function:
		nodes := specifiedNodes(e.Header.ReturnType)
		for _, param := range e.Header.Params {
			nodes = append(nodes, specifiedNodes(param.Type)...)
		}
		return append(nodes, e.Body...)
	}
	return nil
}

func specifiedNodes(t *SpecifiedType) []Node {
	if t == nil {
		return nil
	}
	return append(qualifierNodes(t.Qualifiers), typeNodes(t.Specifier)...)
}

func qualifierNodes(quals []TypeQualifier) []Node {
	var nodes []Node
	for _, q := range quals {
		if lq, ok := q.(*LayoutQualifier); ok {
			for _, id := range lq.IDs {
				if id.Value != nil {
					nodes = append(nodes, id.Value)
				}
			}
		}
	}
	return nodes
}

func typeNodes(spec TypeSpecifier) []Node {
	var nodes []Node
	for {
		switch s := spec.(type) {
		case *ArrayType:
			if s.Size != nil {
				nodes = append(nodes, s.Size)
			}
			spec = s.Elem
			continue
		case *StructSpecifier:
			for _, f := range s.Fields {
				nodes = append(nodes, specifiedNodes(f.Type)...)
			}
		}
		return nodes
	}
}
