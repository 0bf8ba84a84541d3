// Package gputest provides an in-memory gpu.Context that records every call,
// for testing code that renders without a real OpenGL context.
package gputest

import (
	"fmt"
	"slices"

	"github.com/Faultbox/meshglow/internal/engine/gpu"
)

// UniformCall is one recorded uniform upload.
type UniformCall struct {
	Op       string // "1f", "2f", "3f", "4f", "3fv", "matrix4fv"
	Location gpu.Location
	Values   []float32
}

// AttribCall is one recorded vertex attribute setup.
type AttribCall struct {
	Index                uint32
	Size, Stride, Offset int
}

// Fake is a recording gpu.Context. Configure the exported knobs before
// handing it to the code under test; inspect the recorded fields afterwards.
type Fake struct {
	// CompileErrors maps a stage to the info log its compilation fails with.
	CompileErrors map[gpu.Stage]string
	// LinkError, when set, fails LinkProgram with this info log.
	LinkError string
	// Uniforms lists the active uniforms by shader name. A nil map makes
	// every uniform active; otherwise unknown names resolve to -1.
	Uniforms map[string]gpu.Location
	// Attribs lists active attributes. A nil map resolves every attribute
	// to location 0.
	Attribs map[string]int32
	// UploadErrors fails uniform uploads at the given locations.
	UploadErrors map[gpu.Location]error
	// Pixels is returned by ReadPixels when set.
	Pixels []byte

	nextID       uint32
	nextLocation gpu.Location
	locations    map[string]gpu.Location

	ShaderSources   map[gpu.Shader]string
	ShaderStages    map[gpu.Shader]gpu.Stage
	Attached        map[gpu.Program][]gpu.Shader
	DeletedShaders  []gpu.Shader
	DeletedPrograms []gpu.Program
	DeletedBuffers  []gpu.Buffer
	CurrentProgram  gpu.Program

	VertexData    []float32
	IndexData     []uint32
	VertexBuffers []gpu.Buffer
	IndexBuffers  []gpu.Buffer
	AttribCalls   []AttribCall

	Viewports   [][4]int
	Clears      int
	Draws       []int
	UniformLog  []UniformCall
	ReadPixelsN int
}

// New returns an empty Fake where every uniform and attribute is active.
func New() *Fake {
	return &Fake{}
}

func (f *Fake) id() uint32 {
	f.nextID++
	return f.nextID
}

func (f *Fake) CreateShader(stage gpu.Stage) gpu.Shader {
	s := gpu.Shader(f.id())
	if f.ShaderStages == nil {
		f.ShaderStages = make(map[gpu.Shader]gpu.Stage)
	}
	f.ShaderStages[s] = stage
	return s
}

func (f *Fake) ShaderSource(s gpu.Shader, source string) {
	if f.ShaderSources == nil {
		f.ShaderSources = make(map[gpu.Shader]string)
	}
	f.ShaderSources[s] = source
}

func (f *Fake) CompileShader(s gpu.Shader) bool {
	_, failed := f.CompileErrors[f.ShaderStages[s]]
	return !failed
}

func (f *Fake) ShaderInfoLog(s gpu.Shader) string {
	return f.CompileErrors[f.ShaderStages[s]]
}

func (f *Fake) DeleteShader(s gpu.Shader) {
	f.DeletedShaders = append(f.DeletedShaders, s)
}

func (f *Fake) CreateProgram() gpu.Program {
	return gpu.Program(f.id())
}

func (f *Fake) AttachShader(p gpu.Program, s gpu.Shader) {
	if f.Attached == nil {
		f.Attached = make(map[gpu.Program][]gpu.Shader)
	}
	f.Attached[p] = append(f.Attached[p], s)
}

func (f *Fake) LinkProgram(p gpu.Program) bool {
	return f.LinkError == ""
}

func (f *Fake) ProgramInfoLog(p gpu.Program) string {
	return f.LinkError
}

func (f *Fake) UseProgram(p gpu.Program) {
	f.CurrentProgram = p
}

func (f *Fake) DeleteProgram(p gpu.Program) {
	f.DeletedPrograms = append(f.DeletedPrograms, p)
}

func (f *Fake) AttribLocation(p gpu.Program, name string) int32 {
	if f.Attribs == nil {
		return 0
	}
	if loc, ok := f.Attribs[name]; ok {
		return loc
	}
	return -1
}

func (f *Fake) UniformLocation(p gpu.Program, name string) gpu.Location {
	if f.Uniforms != nil {
		if loc, ok := f.Uniforms[name]; ok {
			return loc
		}
		return gpu.InvalidLocation
	}
	if f.locations == nil {
		f.locations = make(map[string]gpu.Location)
	}
	if loc, ok := f.locations[name]; ok {
		return loc
	}
	loc := f.nextLocation
	f.nextLocation++
	f.locations[name] = loc
	return loc
}

// LocationOf returns the location UniformLocation resolved (or would
// resolve) for a shader-side name.
func (f *Fake) LocationOf(name string) gpu.Location {
	return f.UniformLocation(0, name)
}

func (f *Fake) VertexBuffer(data []float32) gpu.Buffer {
	b := gpu.Buffer(f.id())
	f.VertexData = slices.Clone(data)
	f.VertexBuffers = append(f.VertexBuffers, b)
	return b
}

func (f *Fake) IndexBuffer(data []uint32) gpu.Buffer {
	b := gpu.Buffer(f.id())
	f.IndexData = slices.Clone(data)
	f.IndexBuffers = append(f.IndexBuffers, b)
	return b
}

func (f *Fake) DeleteBuffer(b gpu.Buffer) {
	f.DeletedBuffers = append(f.DeletedBuffers, b)
}

func (f *Fake) VertexAttrib(index uint32, size, stride, offset int) {
	f.AttribCalls = append(f.AttribCalls, AttribCall{Index: index, Size: size, Stride: stride, Offset: offset})
}

func (f *Fake) Viewport(x, y, width, height int) {
	f.Viewports = append(f.Viewports, [4]int{x, y, width, height})
}

func (f *Fake) Clear(r, g, b, a float32) {
	f.Clears++
}

func (f *Fake) DrawIndexed(count int) {
	f.Draws = append(f.Draws, count)
}

func (f *Fake) upload(op string, loc gpu.Location, values ...float32) error {
	if err, ok := f.UploadErrors[loc]; ok {
		return err
	}
	if !loc.Valid() {
		return fmt.Errorf("uniform%s: invalid location %d", op, loc)
	}
	f.UniformLog = append(f.UniformLog, UniformCall{Op: op, Location: loc, Values: slices.Clone(values)})
	return nil
}

func (f *Fake) Uniform1f(loc gpu.Location, v float32) error {
	return f.upload("1f", loc, v)
}

func (f *Fake) Uniform2f(loc gpu.Location, x, y float32) error {
	return f.upload("2f", loc, x, y)
}

func (f *Fake) Uniform3f(loc gpu.Location, x, y, z float32) error {
	return f.upload("3f", loc, x, y, z)
}

func (f *Fake) Uniform4f(loc gpu.Location, x, y, z, w float32) error {
	return f.upload("4f", loc, x, y, z, w)
}

func (f *Fake) Uniform3fv(loc gpu.Location, values []float32) error {
	return f.upload("3fv", loc, values...)
}

func (f *Fake) UniformMatrix4fv(loc gpu.Location, m []float32) error {
	return f.upload("matrix4fv", loc, m...)
}

func (f *Fake) ReadPixels(x, y, width, height int) []byte {
	f.ReadPixelsN++
	if f.Pixels != nil {
		return f.Pixels
	}
	return make([]byte, width*height*4)
}

// LastUniform returns the most recent upload at loc.
func (f *Fake) LastUniform(loc gpu.Location) (UniformCall, bool) {
	for i := len(f.UniformLog) - 1; i >= 0; i-- {
		if f.UniformLog[i].Location == loc {
			return f.UniformLog[i], true
		}
	}
	return UniformCall{}, false
}

// UploadsAt counts the uploads recorded at loc.
func (f *Fake) UploadsAt(loc gpu.Location) int {
	n := 0
	for _, c := range f.UniformLog {
		if c.Location == loc {
			n++
		}
	}
	return n
}

var _ gpu.Context = (*Fake)(nil)
