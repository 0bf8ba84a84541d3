// Package gpu defines the graphics context the engine renders through and
// its OpenGL implementation.
package gpu

import "errors"

// ErrContextUnavailable is returned when the requested graphics context
// cannot be created or initialized.
var ErrContextUnavailable = errors.New("graphics context unavailable")

// Stage identifies a shader stage.
type Stage uint8

const (
	StageVertex Stage = iota + 1
	StageFragment
)

// String returns the stage name used in diagnostics.
func (s Stage) String() string {
	switch s {
	case StageVertex:
		return "vertex"
	case StageFragment:
		return "fragment"
	default:
		return "unknown"
	}
}

// Opaque object handles. Zero is never a live object.
type (
	Shader  uint32
	Program uint32
	Buffer  uint32
)

// Location is a resolved uniform location; -1 marks a uniform the program
// does not expose.
type Location int32

// InvalidLocation is the location reported for missing or inactive uniforms.
const InvalidLocation Location = -1

// Valid reports whether the location refers to an active uniform.
func (l Location) Valid() bool {
	return l >= 0
}

// Context is the subset of a graphics API the renderer relies on.
// Implementations are not safe for concurrent use; all calls happen on the
// thread that owns the context.
type Context interface {
	CreateShader(stage Stage) Shader
	ShaderSource(s Shader, source string)
	// CompileShader compiles s and reports the compile status.
	CompileShader(s Shader) bool
	ShaderInfoLog(s Shader) string
	DeleteShader(s Shader)

	CreateProgram() Program
	AttachShader(p Program, s Shader)
	// LinkProgram links p and reports the link status.
	LinkProgram(p Program) bool
	ProgramInfoLog(p Program) string
	UseProgram(p Program)
	DeleteProgram(p Program)

	// AttribLocation returns -1 when the attribute is not active.
	AttribLocation(p Program, name string) int32
	UniformLocation(p Program, name string) Location

	// VertexBuffer and IndexBuffer create a buffer, bind it to its target and
	// fill it with static data.
	VertexBuffer(data []float32) Buffer
	IndexBuffer(data []uint32) Buffer
	DeleteBuffer(b Buffer)
	// VertexAttrib enables attribute index and points it at the bound vertex
	// buffer. stride and offset are in bytes.
	VertexAttrib(index uint32, size, stride, offset int)

	Viewport(x, y, width, height int)
	Clear(r, g, b, a float32)
	// DrawIndexed draws count indices from the bound index buffer as
	// triangles.
	DrawIndexed(count int)

	// Uniform uploads act on the program in use and return an error when the
	// driver rejects the call.
	Uniform1f(loc Location, v float32) error
	Uniform2f(loc Location, x, y float32) error
	Uniform3f(loc Location, x, y, z float32) error
	Uniform4f(loc Location, x, y, z, w float32) error
	Uniform3fv(loc Location, values []float32) error
	UniformMatrix4fv(loc Location, m []float32) error

	// ReadPixels returns width*height RGBA8 pixels, bottom row first.
	ReadPixels(x, y, width, height int) []byte
}
