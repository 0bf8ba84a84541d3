package gpu

import (
	"fmt"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"

	"github.com/Faultbox/meshglow/internal/logger"
)

// GL implements Context on OpenGL 4.1 core.
type GL struct {
	// Core profile refuses attribute setup without a bound vertex array.
	vao uint32
}

// NewGL loads the OpenGL function pointers for the current context.
// IMPORTANT: Must be called AFTER the OpenGL context is created and made
// current on this thread!
func NewGL() (*GL, error) {
	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrContextUnavailable, err)
	}

	version := gl.GoStr(gl.GetString(gl.VERSION))
	rendererName := gl.GoStr(gl.GetString(gl.RENDERER))
	logger.Info("OpenGL initialized",
		zap.String("version", version),
		zap.String("renderer", rendererName),
	)

	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LESS)

	g := &GL{}
	gl.GenVertexArrays(1, &g.vao)
	gl.BindVertexArray(g.vao)
	return g, nil
}

// Close releases the vertex array owned by the context wrapper.
func (g *GL) Close() {
	if g.vao != 0 {
		gl.DeleteVertexArrays(1, &g.vao)
		g.vao = 0
	}
}

func (g *GL) CreateShader(stage Stage) Shader {
	switch stage {
	case StageVertex:
		return Shader(gl.CreateShader(gl.VERTEX_SHADER))
	case StageFragment:
		return Shader(gl.CreateShader(gl.FRAGMENT_SHADER))
	default:
		return 0
	}
}

func (g *GL) ShaderSource(s Shader, source string) {
	csource, free := gl.Strs(source + "\x00")
	gl.ShaderSource(uint32(s), 1, csource, nil)
	free()
}

func (g *GL) CompileShader(s Shader) bool {
	gl.CompileShader(uint32(s))

	var status int32
	gl.GetShaderiv(uint32(s), gl.COMPILE_STATUS, &status)
	return status != gl.FALSE
}

func (g *GL) ShaderInfoLog(s Shader) string {
	var logLen int32
	gl.GetShaderiv(uint32(s), gl.INFO_LOG_LENGTH, &logLen)
	if logLen == 0 {
		return ""
	}
	log := make([]byte, logLen)
	gl.GetShaderInfoLog(uint32(s), logLen, nil, &log[0])
	return trimNul(log)
}

func (g *GL) DeleteShader(s Shader) {
	gl.DeleteShader(uint32(s))
}

func (g *GL) CreateProgram() Program {
	return Program(gl.CreateProgram())
}

func (g *GL) AttachShader(p Program, s Shader) {
	gl.AttachShader(uint32(p), uint32(s))
}

func (g *GL) LinkProgram(p Program) bool {
	gl.LinkProgram(uint32(p))

	var status int32
	gl.GetProgramiv(uint32(p), gl.LINK_STATUS, &status)
	return status != gl.FALSE
}

func (g *GL) ProgramInfoLog(p Program) string {
	var logLen int32
	gl.GetProgramiv(uint32(p), gl.INFO_LOG_LENGTH, &logLen)
	if logLen == 0 {
		return ""
	}
	log := make([]byte, logLen)
	gl.GetProgramInfoLog(uint32(p), logLen, nil, &log[0])
	return trimNul(log)
}

func (g *GL) UseProgram(p Program) {
	gl.UseProgram(uint32(p))
}

func (g *GL) DeleteProgram(p Program) {
	gl.DeleteProgram(uint32(p))
}

func (g *GL) AttribLocation(p Program, name string) int32 {
	return gl.GetAttribLocation(uint32(p), gl.Str(name+"\x00"))
}

func (g *GL) UniformLocation(p Program, name string) Location {
	return Location(gl.GetUniformLocation(uint32(p), gl.Str(name+"\x00")))
}

func (g *GL) VertexBuffer(data []float32) Buffer {
	var vbo uint32
	gl.GenBuffers(1, &vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, vbo)
	if len(data) > 0 {
		gl.BufferData(gl.ARRAY_BUFFER, len(data)*4, unsafe.Pointer(&data[0]), gl.STATIC_DRAW)
	}
	return Buffer(vbo)
}

func (g *GL) IndexBuffer(data []uint32) Buffer {
	var ebo uint32
	gl.GenBuffers(1, &ebo)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, ebo)
	if len(data) > 0 {
		gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(data)*4, unsafe.Pointer(&data[0]), gl.STATIC_DRAW)
	}
	return Buffer(ebo)
}

func (g *GL) DeleteBuffer(b Buffer) {
	id := uint32(b)
	gl.DeleteBuffers(1, &id)
}

func (g *GL) VertexAttrib(index uint32, size, stride, offset int) {
	gl.EnableVertexAttribArray(index)
	gl.VertexAttribPointerWithOffset(index, int32(size), gl.FLOAT, false, int32(stride), uintptr(offset))
}

func (g *GL) Viewport(x, y, width, height int) {
	gl.Viewport(int32(x), int32(y), int32(width), int32(height))
}

func (g *GL) Clear(red, green, blue, alpha float32) {
	gl.ClearColor(red, green, blue, alpha)
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
}

func (g *GL) DrawIndexed(count int) {
	gl.DrawElements(gl.TRIANGLES, int32(count), gl.UNSIGNED_INT, nil)
}

func (g *GL) Uniform1f(loc Location, v float32) error {
	clearErrors()
	gl.Uniform1f(int32(loc), v)
	return checkError("glUniform1f")
}

func (g *GL) Uniform2f(loc Location, x, y float32) error {
	clearErrors()
	gl.Uniform2f(int32(loc), x, y)
	return checkError("glUniform2f")
}

func (g *GL) Uniform3f(loc Location, x, y, z float32) error {
	clearErrors()
	gl.Uniform3f(int32(loc), x, y, z)
	return checkError("glUniform3f")
}

func (g *GL) Uniform4f(loc Location, x, y, z, w float32) error {
	clearErrors()
	gl.Uniform4f(int32(loc), x, y, z, w)
	return checkError("glUniform4f")
}

func (g *GL) Uniform3fv(loc Location, values []float32) error {
	if len(values) < 3 {
		return fmt.Errorf("glUniform3fv: need at least one vec3, got %d values", len(values))
	}
	clearErrors()
	gl.Uniform3fv(int32(loc), int32(len(values)/3), &values[0])
	return checkError("glUniform3fv")
}

func (g *GL) UniformMatrix4fv(loc Location, m []float32) error {
	if len(m) != 16 {
		return fmt.Errorf("glUniformMatrix4fv: need 16 values, got %d", len(m))
	}
	clearErrors()
	gl.UniformMatrix4fv(int32(loc), 1, false, &m[0])
	return checkError("glUniformMatrix4fv")
}

func (g *GL) ReadPixels(x, y, width, height int) []byte {
	if width <= 0 || height <= 0 {
		return nil
	}
	pixels := make([]byte, width*height*4)
	gl.PixelStorei(gl.PACK_ALIGNMENT, 1)
	gl.ReadPixels(int32(x), int32(y), int32(width), int32(height), gl.RGBA, gl.UNSIGNED_BYTE, unsafe.Pointer(&pixels[0]))
	return pixels
}

// getError reads one entry of the GL error queue.
var getError = gl.GetError

// maxQueuedErrors bounds the drain loops; a lost context can keep
// reporting errors forever.
const maxQueuedErrors = 32

// clearErrors empties the GL error queue so a following checkError only
// sees errors raised after this point.
func clearErrors() {
	for i := 0; i < maxQueuedErrors && getError() != gl.NO_ERROR; i++ {
	}
}

// checkError drains the GL error queue and reports the first error.
func checkError(op string) error {
	first := getError()
	if first == gl.NO_ERROR {
		return nil
	}
	clearErrors()
	return fmt.Errorf("%s: %s", op, errorName(first))
}

func errorName(code uint32) string {
	switch code {
	case gl.INVALID_ENUM:
		return "GL_INVALID_ENUM"
	case gl.INVALID_VALUE:
		return "GL_INVALID_VALUE"
	case gl.INVALID_OPERATION:
		return "GL_INVALID_OPERATION"
	case gl.OUT_OF_MEMORY:
		return "GL_OUT_OF_MEMORY"
	case gl.INVALID_FRAMEBUFFER_OPERATION:
		return "GL_INVALID_FRAMEBUFFER_OPERATION"
	default:
		return fmt.Sprintf("GL error 0x%04x", code)
	}
}

func trimNul(b []byte) string {
	for len(b) > 0 && b[len(b)-1] == 0 {
		b = b[:len(b)-1]
	}
	return string(b)
}

var _ Context = (*GL)(nil)
