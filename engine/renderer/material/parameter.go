package material

import (
	"github.com/Carmen-Shannon/oxy-gl/engine/light"
	"github.com/go-gl/mathgl/mgl32"
)

// ParameterType identifies the kind of value a ShaderParameter carries.
type ParameterType int

const (
	// ParameterTypeNone is the unset kind. It never reaches the binder; a nil ShaderParameter reports it.
	ParameterTypeNone ParameterType = iota

	// ParameterTypeMat4 is a 4x4 float matrix, written column-major.
	ParameterTypeMat4

	// ParameterTypeVec4 is a float vec4.
	ParameterTypeVec4

	// ParameterTypeVec3 is a float vec3.
	ParameterTypeVec3

	// ParameterTypeVec2 is a float vec2.
	ParameterTypeVec2

	// ParameterTypeFloat is a float scalar.
	ParameterTypeFloat

	// ParameterTypeInt is a signed integer scalar.
	ParameterTypeInt

	// ParameterTypeUint is an unsigned integer scalar.
	ParameterTypeUint

	// ParameterTypeBool is a boolean, written as a 0/1 integer.
	ParameterTypeBool

	// ParameterTypeSampler2D is a 2D texture bound through a texture unit.
	ParameterTypeSampler2D

	// ParameterTypeSampler3D is a 3D texture bound through a texture unit.
	ParameterTypeSampler3D

	// ParameterTypePointLight is a reference to a point light occupying a slot of an indexed light array.
	ParameterTypePointLight
)

// String returns the GLSL-flavoured name of the parameter kind.
func (t ParameterType) String() string {
	switch t {
	case ParameterTypeNone:
		return "none"
	case ParameterTypeMat4:
		return "mat4"
	case ParameterTypeVec4:
		return "vec4"
	case ParameterTypeVec3:
		return "vec3"
	case ParameterTypeVec2:
		return "vec2"
	case ParameterTypeFloat:
		return "float"
	case ParameterTypeInt:
		return "int"
	case ParameterTypeUint:
		return "uint"
	case ParameterTypeBool:
		return "bool"
	case ParameterTypeSampler2D:
		return "sampler2D"
	case ParameterTypeSampler3D:
		return "sampler3D"
	case ParameterTypePointLight:
		return "pointLight"
	default:
		return "unknown"
	}
}

// TypeOf returns the kind of a parameter, or ParameterTypeNone for nil.
//
// Parameters:
//   - p: the parameter to inspect, possibly nil
//
// Returns:
//   - ParameterType: the kind carried by p
func TypeOf(p ShaderParameter) ParameterType {
	if p == nil {
		return ParameterTypeNone
	}
	return p.Type()
}

// Texture is the borrowed view of a texture a sampler parameter binds. The parameter never
// owns the texture; its lifetime is managed by whoever created it.
type Texture interface {
	// Handle returns the native texture object handle.
	//
	// Returns:
	//   - uint32: the texture handle
	Handle() uint32
}

// ShaderParameter is a typed uniform value. The set of implementations is closed: only the
// value types declared in this package satisfy it, and each carries exactly the payload its
// kind requires.
type ShaderParameter interface {
	// Type returns the kind of value the parameter carries.
	//
	// Returns:
	//   - ParameterType: the parameter kind, never ParameterTypeNone
	Type() ParameterType

	isShaderParameter()
}

// Mat4Value carries a 4x4 matrix.
type Mat4Value struct{ Value mgl32.Mat4 }

// Vec4Value carries a vec4.
type Vec4Value struct{ Value mgl32.Vec4 }

// Vec3Value carries a vec3.
type Vec3Value struct{ Value mgl32.Vec3 }

// Vec2Value carries a vec2.
type Vec2Value struct{ Value mgl32.Vec2 }

// FloatValue carries a float scalar.
type FloatValue struct{ Value float32 }

// IntValue carries a signed integer scalar.
type IntValue struct{ Value int32 }

// UintValue carries an unsigned integer scalar.
type UintValue struct{ Value uint32 }

// BoolValue carries a boolean.
type BoolValue struct{ Value bool }

// Sampler2DValue carries a borrowed 2D texture.
type Sampler2DValue struct{ Texture Texture }

// Sampler3DValue carries a borrowed 3D texture.
type Sampler3DValue struct{ Texture Texture }

// PointLightValue carries a borrowed point light and the name of the uniform array it is written into.
type PointLightValue struct {
	// Light is the light whose index selects the array slot.
	Light light.PointLight

	// Array is the base name of the uniform array, e.g. "pointLights".
	Array string
}

var (
	_ ShaderParameter = Mat4Value{}
	_ ShaderParameter = Vec4Value{}
	_ ShaderParameter = Vec3Value{}
	_ ShaderParameter = Vec2Value{}
	_ ShaderParameter = FloatValue{}
	_ ShaderParameter = IntValue{}
	_ ShaderParameter = UintValue{}
	_ ShaderParameter = BoolValue{}
	_ ShaderParameter = Sampler2DValue{}
	_ ShaderParameter = Sampler3DValue{}
	_ ShaderParameter = PointLightValue{}
)

func (Mat4Value) Type() ParameterType       { return ParameterTypeMat4 }
func (Vec4Value) Type() ParameterType       { return ParameterTypeVec4 }
func (Vec3Value) Type() ParameterType       { return ParameterTypeVec3 }
func (Vec2Value) Type() ParameterType       { return ParameterTypeVec2 }
func (FloatValue) Type() ParameterType      { return ParameterTypeFloat }
func (IntValue) Type() ParameterType        { return ParameterTypeInt }
func (UintValue) Type() ParameterType       { return ParameterTypeUint }
func (BoolValue) Type() ParameterType       { return ParameterTypeBool }
func (Sampler2DValue) Type() ParameterType  { return ParameterTypeSampler2D }
func (Sampler3DValue) Type() ParameterType  { return ParameterTypeSampler3D }
func (PointLightValue) Type() ParameterType { return ParameterTypePointLight }

func (Mat4Value) isShaderParameter()       {}
func (Vec4Value) isShaderParameter()       {}
func (Vec3Value) isShaderParameter()       {}
func (Vec2Value) isShaderParameter()       {}
func (FloatValue) isShaderParameter()      {}
func (IntValue) isShaderParameter()        {}
func (UintValue) isShaderParameter()       {}
func (BoolValue) isShaderParameter()       {}
func (Sampler2DValue) isShaderParameter()  {}
func (Sampler3DValue) isShaderParameter()  {}
func (PointLightValue) isShaderParameter() {}

// Mat4 creates a mat4 parameter.
func Mat4(v mgl32.Mat4) ShaderParameter { return Mat4Value{Value: v} }

// Vec4 creates a vec4 parameter.
func Vec4(v mgl32.Vec4) ShaderParameter { return Vec4Value{Value: v} }

// Vec3 creates a vec3 parameter.
func Vec3(v mgl32.Vec3) ShaderParameter { return Vec3Value{Value: v} }

// Vec2 creates a vec2 parameter.
func Vec2(v mgl32.Vec2) ShaderParameter { return Vec2Value{Value: v} }

// Float creates a float parameter.
func Float(v float32) ShaderParameter { return FloatValue{Value: v} }

// Int creates an int parameter.
func Int(v int32) ShaderParameter { return IntValue{Value: v} }

// Uint creates a uint parameter.
func Uint(v uint32) ShaderParameter { return UintValue{Value: v} }

// Bool creates a bool parameter.
func Bool(v bool) ShaderParameter { return BoolValue{Value: v} }

// Sampler2D creates a 2D sampler parameter borrowing the given texture.
func Sampler2D(tex Texture) ShaderParameter { return Sampler2DValue{Texture: tex} }

// Sampler3D creates a 3D sampler parameter borrowing the given texture.
func Sampler3D(tex Texture) ShaderParameter { return Sampler3DValue{Texture: tex} }

// PointLight creates a point-light parameter written into the standard PointLightsUniform array.
func PointLight(l light.PointLight) ShaderParameter {
	return PointLightValue{Light: l, Array: PointLightsUniform}
}

// PointLightIn creates a point-light parameter written into a custom uniform array.
//
// Parameters:
//   - array: the base name of the uniform array
//   - l: the light to bind
//
// Returns:
//   - ShaderParameter: the point-light parameter
func PointLightIn(array string, l light.PointLight) ShaderParameter {
	return PointLightValue{Light: l, Array: array}
}
