// Package shaders provides embedded GLSL shader sources.
package shaders

import _ "embed"

// GradientVertexShader displaces the plane with simplex noise and blends
// the palette colours into v_color.
//
//go:embed gradient.vert
var GradientVertexShader string

// GradientFragmentShader outputs v_color with optional grain.
//
//go:embed gradient.frag
var GradientFragmentShader string

// UVVertexShader is the vertex shader for the UV debug plane.
//
//go:embed uv.vert
var UVVertexShader string

// UVFragmentShader colours fragments by screen position and time.
//
//go:embed uv.frag
var UVFragmentShader string
