// Package modify implements the shader modifications that rewrite a parsed
// tree, and the Manager that applies them per shader in priority order.
package modify

import (
	"github.com/raymyers/glslmod/pkg/glsl"
	"github.com/raymyers/glslmod/pkg/parser"
)

// AnyParams matches a function with any number of parameters
const AnyParams = -1

// Modification is one registered rewrite of a shader tree
type Modification interface {
	ID() string
	// Priority orders modifications on a shader. Lower runs first.
	Priority() int
	Inject(tree *glsl.Tree, params Params) error
}

// Params carries the per-run options a modification may consult
type Params struct {
	AllowVersionRaise bool
}

// Base holds the identity and priority shared by every modification
type Base struct {
	Name  string
	Order int
}

// ID returns the modification name
func (b Base) ID() string { return b.Name }

// Priority returns Order
func (b Base) Priority() int { return b.Order }

// parseDecls parses a root level snippet after placeholder substitution
func parseDecls(code string, r Resolver) (*glsl.Tree, error) {
	return parser.Parse(FillPlaceholders(code, r))
}
