package glsl

// TypeSpecifier is the interface for the type part of a declaration:
// a builtin, a named struct/typedef, an array or a struct body.
type TypeSpecifier interface {
	implTypeSpecifier()
}

// BuiltinType enumerates the GLSL builtin scalar, vector, matrix, sampler
// and image types
type BuiltinType int

const (
	Void BuiltinType = iota
	Float
	Double
	Int
	Uint
	Bool
	Vec2
	Vec3
	Vec4
	Dvec2
	Dvec3
	Dvec4
	Bvec2
	Bvec3
	Bvec4
	Ivec2
	Ivec3
	Ivec4
	Uvec2
	Uvec3
	Uvec4
	Mat2
	Mat3
	Mat4
	Mat2x2
	Mat2x3
	Mat2x4
	Mat3x2
	Mat3x3
	Mat3x4
	Mat4x2
	Mat4x3
	Mat4x4
	Dmat2
	Dmat3
	Dmat4
	Dmat2x2
	Dmat2x3
	Dmat2x4
	Dmat3x2
	Dmat3x3
	Dmat3x4
	Dmat4x2
	Dmat4x3
	Dmat4x4
	AtomicUint
	Sampler1D
	Sampler2D
	Sampler3D
	SamplerCube
	Sampler1DShadow
	Sampler2DShadow
	SamplerCubeShadow
	Sampler1DArray
	Sampler2DArray
	Sampler1DArrayShadow
	Sampler2DArrayShadow
	SamplerCubeArray
	SamplerCubeArrayShadow
	Sampler2DRect
	Sampler2DRectShadow
	SamplerBuffer
	Sampler2DMS
	Sampler2DMSArray
	Isampler1D
	Isampler2D
	Isampler3D
	IsamplerCube
	Isampler1DArray
	Isampler2DArray
	IsamplerCubeArray
	Isampler2DRect
	IsamplerBuffer
	Isampler2DMS
	Isampler2DMSArray
	Usampler1D
	Usampler2D
	Usampler3D
	UsamplerCube
	Usampler1DArray
	Usampler2DArray
	UsamplerCubeArray
	Usampler2DRect
	UsamplerBuffer
	Usampler2DMS
	Usampler2DMSArray
	Image1D
	Image2D
	Image3D
	Image2DRect
	ImageCube
	ImageBuffer
	Image1DArray
	Image2DArray
	ImageCubeArray
	Image2DMS
	Image2DMSArray
	Iimage1D
	Iimage2D
	Iimage3D
	Iimage2DRect
	IimageCube
	IimageBuffer
	Iimage1DArray
	Iimage2DArray
	IimageCubeArray
	Iimage2DMS
	Iimage2DMSArray
	Uimage1D
	Uimage2D
	Uimage3D
	Uimage2DRect
	UimageCube
	UimageBuffer
	Uimage1DArray
	Uimage2DArray
	UimageCubeArray
	Uimage2DMS
	Uimage2DMSArray
)

var builtinNames = []string{
	"void", "float", "double", "int", "uint", "bool",
	"vec2", "vec3", "vec4", "dvec2", "dvec3", "dvec4", "bvec2", "bvec3", "bvec4",
	"ivec2", "ivec3", "ivec4", "uvec2", "uvec3", "uvec4",
	"mat2", "mat3", "mat4",
	"mat2x2", "mat2x3", "mat2x4", "mat3x2", "mat3x3", "mat3x4", "mat4x2", "mat4x3", "mat4x4",
	"dmat2", "dmat3", "dmat4",
	"dmat2x2", "dmat2x3", "dmat2x4", "dmat3x2", "dmat3x3", "dmat3x4", "dmat4x2", "dmat4x3", "dmat4x4",
	"atomic_uint",
	"sampler1D", "sampler2D", "sampler3D", "samplerCube",
	"sampler1DShadow", "sampler2DShadow", "samplerCubeShadow",
	"sampler1DArray", "sampler2DArray", "sampler1DArrayShadow", "sampler2DArrayShadow",
	"samplerCubeArray", "samplerCubeArrayShadow",
	"sampler2DRect", "sampler2DRectShadow", "samplerBuffer", "sampler2DMS", "sampler2DMSArray",
	"isampler1D", "isampler2D", "isampler3D", "isamplerCube", "isampler1DArray", "isampler2DArray",
	"isamplerCubeArray", "isampler2DRect", "isamplerBuffer", "isampler2DMS", "isampler2DMSArray",
	"usampler1D", "usampler2D", "usampler3D", "usamplerCube", "usampler1DArray", "usampler2DArray",
	"usamplerCubeArray", "usampler2DRect", "usamplerBuffer", "usampler2DMS", "usampler2DMSArray",
	"image1D", "image2D", "image3D", "image2DRect", "imageCube", "imageBuffer",
	"image1DArray", "image2DArray", "imageCubeArray", "image2DMS", "image2DMSArray",
	"iimage1D", "iimage2D", "iimage3D", "iimage2DRect", "iimageCube", "iimageBuffer",
	"iimage1DArray", "iimage2DArray", "iimageCubeArray", "iimage2DMS", "iimage2DMSArray",
	"uimage1D", "uimage2D", "uimage3D", "uimage2DRect", "uimageCube", "uimageBuffer",
	"uimage1DArray", "uimage2DArray", "uimageCubeArray", "uimage2DMS", "uimage2DMSArray",
}

var builtinByName = func() map[string]BuiltinType {
	m := make(map[string]BuiltinType, len(builtinNames))
	for i, name := range builtinNames {
		m[name] = BuiltinType(i)
	}
	return m
}()

func (t BuiltinType) String() string {
	if int(t) >= 0 && int(t) < len(builtinNames) {
		return builtinNames[t]
	}
	return "?"
}

// LookupBuiltin returns the builtin type spelled name
func LookupBuiltin(name string) (BuiltinType, bool) {
	t, ok := builtinByName[name]
	return t, ok
}

// NamedType references a struct or typedef by name
type NamedType struct {
	Name string
}

// ArrayType wraps an element type. Size is nil for unsized arrays.
type ArrayType struct {
	Elem TypeSpecifier
	Size Node
}

// StructSpecifier is a struct body. Block is set for interface blocks
// (uniform Name { ... }), which are written without the struct keyword.
type StructSpecifier struct {
	Name   string
	Fields []*StructField
	Block  bool
}

// StructField is one member of a struct or interface block
type StructField struct {
	Type *SpecifiedType
	Name string
}

func (BuiltinType) implTypeSpecifier()      {}
func (*NamedType) implTypeSpecifier()       {}
func (*ArrayType) implTypeSpecifier()       {}
func (*StructSpecifier) implTypeSpecifier() {}

// SpecifiedType pairs a type specifier with its ordered qualifiers
type SpecifiedType struct {
	Specifier  TypeSpecifier
	Qualifiers []TypeQualifier
}

// Type returns an unqualified SpecifiedType for spec
func Type(spec TypeSpecifier) *SpecifiedType {
	return &SpecifiedType{Specifier: spec}
}

// HasStorage reports whether t carries storage qualifier s
func (t *SpecifiedType) HasStorage(s StorageQualifier) bool {
	for _, q := range t.Qualifiers {
		if sq, ok := q.(StorageQualifier); ok && sq == s {
			return true
		}
	}
	return false
}

// Layout returns the value of layout id name, if present
func (t *SpecifiedType) Layout(name string) (Node, bool) {
	for _, q := range t.Qualifiers {
		lq, ok := q.(*LayoutQualifier)
		if !ok {
			continue
		}
		for _, id := range lq.IDs {
			if id.Name == name {
				return id.Value, true
			}
		}
	}
	return nil, false
}

// BaseSpecifier strips any array wrappers from spec
func BaseSpecifier(spec TypeSpecifier) TypeSpecifier {
	for {
		arr, ok := spec.(*ArrayType)
		if !ok {
			return spec
		}
		spec = arr.Elem
	}
}

// TypeQualifier is the interface for storage, layout, precision,
// interpolation, invariant and precise qualifiers
type TypeQualifier interface {
	implTypeQualifier()
}

// StorageQualifier is a storage class keyword
type StorageQualifier int

const (
	Const StorageQualifier = iota
	In
	Out
	Inout
	Centroid
	Patch
	Sample
	Uniform
	Buffer
	Shared
	Coherent
	Volatile
	Restrict
	Readonly
	Writeonly
)

func (s StorageQualifier) String() string {
	names := []string{"const", "in", "out", "inout", "centroid", "patch", "sample", "uniform",
		"buffer", "shared", "coherent", "volatile", "restrict", "readonly", "writeonly"}
	if int(s) < len(names) {
		return names[s]
	}
	return "?"
}

// SubroutineQualifier is subroutine or subroutine(type, ...)
type SubroutineQualifier struct {
	TypeNames []string
}

// LayoutQualifier is layout(id, id = value, shared)
type LayoutQualifier struct {
	IDs []LayoutID
}

// LayoutID is one entry of a layout qualifier. Shared entries have no name.
type LayoutID struct {
	Name   string
	Value  Node
	Shared bool
}

// PrecisionQualifier is highp, mediump or lowp
type PrecisionQualifier int

const (
	Highp PrecisionQualifier = iota
	Mediump
	Lowp
)

func (p PrecisionQualifier) String() string {
	names := []string{"highp", "mediump", "lowp"}
	if int(p) < len(names) {
		return names[p]
	}
	return "?"
}

// InterpolationQualifier is smooth, flat or noperspective
type InterpolationQualifier int

const (
	Smooth InterpolationQualifier = iota
	Flat
	Noperspective
)

func (i InterpolationQualifier) String() string {
	names := []string{"smooth", "flat", "noperspective"}
	if int(i) < len(names) {
		return names[i]
	}
	return "?"
}

// InvariantQualifier is the invariant keyword
type InvariantQualifier struct{}

// PreciseQualifier is the precise keyword
type PreciseQualifier struct{}

func (StorageQualifier) implTypeQualifier()       {}
func (*SubroutineQualifier) implTypeQualifier()   {}
func (*LayoutQualifier) implTypeQualifier()       {}
func (PrecisionQualifier) implTypeQualifier()     {}
func (InterpolationQualifier) implTypeQualifier() {}
func (InvariantQualifier) implTypeQualifier()     {}
func (PreciseQualifier) implTypeQualifier()       {}
