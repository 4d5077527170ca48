// Package inject resolves symbolic injection points to insertion indices
// in the body of a tree
package inject

import (
	"fmt"
	"strings"

	"github.com/raymyers/glslmod/pkg/glsl"
)

// Point is a symbolic location in a tree body
type Point int

const (
	BeforeDeclarations Point = iota
	AfterDeclarations
	BeforeFunctions
	AfterFunctions
	BeforeMain
	AfterMain
)

var pointNames = [...]string{
	BeforeDeclarations: "BEFORE_DECLARATIONS",
	AfterDeclarations:  "AFTER_DECLARATIONS",
	BeforeFunctions:    "BEFORE_FUNCTIONS",
	AfterFunctions:     "AFTER_FUNCTIONS",
	BeforeMain:         "BEFORE_MAIN",
	AfterMain:          "AFTER_MAIN",
}

func (p Point) String() string {
	if p >= 0 && int(p) < len(pointNames) {
		return pointNames[p]
	}
	return fmt.Sprintf("Point(%d)", int(p))
}

// ParsePoint maps a point name such as BEFORE_MAIN to its Point. Case and
// the choice of '-' or '_' as separator do not matter.
func ParsePoint(name string) (Point, error) {
	norm := strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(name), "-", "_"))
	for i, n := range pointNames {
		if n == norm {
			return Point(i), nil
		}
	}
	return 0, fmt.Errorf("unknown injection point %q", name)
}

// MarshalText implements encoding.TextMarshaler
func (p Point) MarshalText() ([]byte, error) {
	if p < 0 || int(p) >= len(pointNames) {
		return nil, fmt.Errorf("unknown injection point %d", int(p))
	}
	return []byte(pointNames[p]), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (p *Point) UnmarshalText(text []byte) error {
	point, err := ParsePoint(string(text))
	if err != nil {
		return err
	}
	*p = point
	return nil
}

// ResolveIndex returns the body index that point refers to, or 0 when no
// item matches. The AFTER points scan for the first item of the other kind:
// AfterDeclarations is one past the first function and AfterFunctions is
// one past the first non-function.
func ResolveIndex(body []glsl.Decl, point Point) int {
	switch point {
	case BeforeDeclarations, BeforeFunctions:
		return indexOf(body, notFunction, 0)
	case AfterDeclarations:
		return indexOf(body, isFunction, 1)
	case AfterFunctions:
		return indexOf(body, notFunction, 1)
	case BeforeMain:
		return indexOf(body, isMain, 0)
	case AfterMain:
		return indexOf(body, isMain, 1)
	}
	return 0
}

// Insert places items into tree at point
func Insert(tree *glsl.Tree, point Point, items ...glsl.Decl) {
	tree.Insert(ResolveIndex(tree.Body, point), items...)
}

func indexOf(body []glsl.Decl, match func(glsl.Decl) bool, offset int) int {
	for i, item := range body {
		if match(item) {
			return i + offset
		}
	}
	return 0
}

func isFunction(d glsl.Decl) bool {
	_, ok := d.(*glsl.Function)
	return ok
}

func notFunction(d glsl.Decl) bool {
	return !isFunction(d)
}

func isMain(d glsl.Decl) bool {
	fn, ok := d.(*glsl.Function)
	return ok && fn.Header.Name == "main"
}
