package modify

import "github.com/raymyers/glslmod/pkg/glsl"

// Replace substitutes another shader for the one it is registered on. It
// never touches the tree: the Manager short-circuits a shader whose only
// modification is a Replace.
type Replace struct {
	Base
	Target string
}

func (m *Replace) Inject(*glsl.Tree, Params) error { return nil }
