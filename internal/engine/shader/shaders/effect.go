package shaders

import (
	"fmt"
	"sort"

	"github.com/Faultbox/meshglow/internal/engine/uniform"
)

// Uniform names shared by the effects, without the "u_" prefix.
const (
	Resolution = "resolution"
	Color      = "color"
	Seed       = "seed"
	Intensity  = "intensity"
)

// PaletteSize is the length of the color array the gradient reads.
const PaletteSize = 5

// UniformDecl declares one uniform an effect expects the host to register.
type UniformDecl struct {
	Name string
	Kind uniform.Kind
}

// Effect pairs a shader program with the uniforms it reads. The camera
// matrices and time are driven by the renderer and are not listed.
type Effect struct {
	Name     string
	Vertex   string
	Fragment string
	Uniforms []UniformDecl
}

// Has reports whether the effect declares the named uniform.
func (e Effect) Has(name string) bool {
	for _, u := range e.Uniforms {
		if u.Name == name {
			return true
		}
	}
	return false
}

// Built-in effects.
var (
	Gradient = Effect{
		Name:     "gradient",
		Vertex:   GradientVertexShader,
		Fragment: GradientFragmentShader,
		Uniforms: []UniformDecl{
			{Resolution, uniform.Vec2},
			{Color, uniform.Vec3Array},
			{Seed, uniform.Float},
			{Intensity, uniform.Float},
		},
	}

	UV = Effect{
		Name:     "uv",
		Vertex:   UVVertexShader,
		Fragment: UVFragmentShader,
		Uniforms: []UniformDecl{
			{Resolution, uniform.Vec2},
		},
	}
)

var effects = map[string]Effect{
	Gradient.Name: Gradient,
	UV.Name:       UV,
}

// Lookup returns the effect registered under name.
func Lookup(name string) (Effect, error) {
	e, ok := effects[name]
	if !ok {
		return Effect{}, fmt.Errorf("unknown effect %q (available: %v)", name, Names())
	}
	return e, nil
}

// Names lists the built-in effect names.
func Names() []string {
	names := make([]string, 0, len(effects))
	for name := range effects {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
