package material

import (
	"fmt"
	"slices"

	"github.com/Carmen-Shannon/oxy-gl/engine/light"
	"github.com/go-gl/mathgl/mgl32"
)

// ParameterGroup maps uniform names to parameters: everything to upload for one draw call.
// Keys are unique and iteration follows insertion order, so texture-unit assignment during an
// upload is reproducible. Setting an existing name replaces its value in place.
//
// The zero value is an empty group ready to use.
type ParameterGroup struct {
	names  []string
	values map[string]ShaderParameter
}

// NewParameterGroup creates an empty ParameterGroup.
//
// Returns:
//   - *ParameterGroup: an empty group
func NewParameterGroup() *ParameterGroup {
	return &ParameterGroup{values: make(map[string]ShaderParameter)}
}

// Set stores a parameter under a uniform name. A nil parameter is rejected.
//
// Parameters:
//   - name: the uniform name
//   - p: the parameter value
//
// Returns:
//   - *ParameterGroup: the group, for chaining
func (g *ParameterGroup) Set(name string, p ShaderParameter) *ParameterGroup {
	if p == nil {
		panic(fmt.Sprintf("material: parameter %q has no value", name))
	}
	if g.values == nil {
		g.values = make(map[string]ShaderParameter)
	}
	if _, ok := g.values[name]; !ok {
		g.names = append(g.names, name)
	}
	g.values[name] = p
	return g
}

// Get returns the parameter stored under a name.
//
// Parameters:
//   - name: the uniform name
//
// Returns:
//   - ShaderParameter: the parameter, or nil
//   - bool: true if the name is present
func (g *ParameterGroup) Get(name string) (ShaderParameter, bool) {
	p, ok := g.values[name]
	return p, ok
}

// Delete removes a name from the group. Removing an absent name is a no-op.
//
// Parameters:
//   - name: the uniform name
func (g *ParameterGroup) Delete(name string) {
	if _, ok := g.values[name]; !ok {
		return
	}
	delete(g.values, name)
	g.names = slices.DeleteFunc(g.names, func(n string) bool { return n == name })
}

// Len returns the number of parameters in the group.
func (g *ParameterGroup) Len() int {
	return len(g.names)
}

// Names returns a copy of the uniform names in iteration order.
func (g *ParameterGroup) Names() []string {
	return slices.Clone(g.names)
}

// Each calls fn for every entry in insertion order.
//
// Parameters:
//   - fn: the visitor, receiving the uniform name and the parameter
func (g *ParameterGroup) Each(fn func(name string, p ShaderParameter)) {
	for _, name := range g.names {
		fn(name, g.values[name])
	}
}

// SetPointLights writes numberOfLights and one point-light reference per light. Each reference
// is keyed "pointLights[<index>]" so lights sharing an index replace one another.
//
// Parameters:
//   - lights: the lights to bind
//
// Returns:
//   - *ParameterGroup: the group, for chaining
func (g *ParameterGroup) SetPointLights(lights ...light.PointLight) *ParameterGroup {
	g.Set(NumberOfLightsUniform, Int(int32(len(lights))))
	for _, l := range lights {
		g.Set(fmt.Sprintf("%s[%d]", PointLightsUniform, l.Index()), PointLight(l))
	}
	return g
}

// SetModel writes the model matrix M.
func (g *ParameterGroup) SetModel(m mgl32.Mat4) *ParameterGroup {
	return g.Set(ModelUniform, Mat4(m))
}

// SetScreenSize writes screenSize in pixels.
func (g *ParameterGroup) SetScreenSize(width, height float32) *ParameterGroup {
	return g.Set(ScreenSizeUniform, Vec2(mgl32.Vec2{width, height}))
}

// SetState writes the application state flag.
func (g *ParameterGroup) SetState(state int32) *ParameterGroup {
	return g.Set(StateUniform, Int(state))
}
