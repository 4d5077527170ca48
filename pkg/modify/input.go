package modify

import (
	"github.com/raymyers/glslmod/pkg/glsl"
	"github.com/raymyers/glslmod/pkg/inject"
)

// Input parses Source as root level declarations and inserts them into the
// tree, at the start of the body unless Point is set. Directives in Source
// are appended to the tree's directives.
type Input struct {
	Base
	Source string
	Point  *inject.Point
}

func (m *Input) Inject(tree *glsl.Tree, _ Params) error {
	snippet, err := parseDecls(m.Source, Identity)
	if err != nil {
		return err
	}
	if m.Point != nil {
		inject.Insert(tree, *m.Point, snippet.Body...)
	} else {
		tree.Insert(0, snippet.Body...)
	}
	tree.Directives = append(tree.Directives, snippet.Directives...)
	return nil
}
