package modify

import (
	"github.com/raymyers/glslmod/pkg/glsl"
	"github.com/raymyers/glslmod/pkg/parser"
)

// FunctionEdit splices Code into the body of a function
type FunctionEdit struct {
	Name string
	// Params is the required parameter count, or AnyParams
	Params int
	// Head inserts at the start of the body instead of the end
	Head bool
	Code string
}

// Simple raises the version, adds includes and declarations, and edits
// function bodies. Output and Uniform are root level snippets; both go to
// the start of the body with the uniform snippet first.
type Simple struct {
	Base
	Version   int
	Includes  []string
	Output    string
	Uniform   string
	Functions []FunctionEdit
}

func (m *Simple) Inject(tree *glsl.Tree, params Params) error {
	return m.inject(tree, params, Identity)
}

func (m *Simple) inject(tree *glsl.Tree, params Params, r Resolver) error {
	if params.AllowVersionRaise && tree.Version.Number < m.Version {
		tree.Version.Number = m.Version
	}

	for _, include := range m.Includes {
		tree.Directives = append(tree.Directives, "#include "+include)
	}

	// output first so that the uniform snippet ends up in front of it
	for _, code := range []string{m.Output, m.Uniform} {
		if code == "" {
			continue
		}
		snippet, err := parseDecls(code, r)
		if err != nil {
			return err
		}
		tree.Insert(0, snippet.Body...)
	}

	for _, edit := range m.Functions {
		if err := edit.apply(tree, r); err != nil {
			return err
		}
	}
	return nil
}

func (e FunctionEdit) apply(tree *glsl.Tree, r Resolver) error {
	fn := e.target(tree)
	if fn == nil {
		return &TargetNotFoundError{Function: e.Name, Params: e.Params}
	}

	nodes, err := parser.ParseExpressionList(FillPlaceholders(e.Code, r))
	if err != nil {
		return err
	}
	insert := glsl.NewGroup(nodes)

	if e.Head {
		fn.Body = append([]glsl.Node{insert}, fn.Body...)
	} else {
		fn.Body = append(fn.Body, insert)
	}
	return nil
}

// target returns the first defined function matching the edit
func (e FunctionEdit) target(tree *glsl.Tree) *glsl.Function {
	for _, fn := range tree.Functions() {
		if fn.Header.Name != e.Name || fn.IsPrototype() {
			continue
		}
		if e.Params != AnyParams && len(fn.Header.Params) != e.Params {
			continue
		}
		return fn
	}
	return nil
}
