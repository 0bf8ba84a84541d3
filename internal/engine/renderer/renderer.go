// Package renderer draws a tessellated plane through a single shader program.
package renderer

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/Faultbox/meshglow/internal/engine/camera"
	"github.com/Faultbox/meshglow/internal/engine/gpu"
	"github.com/Faultbox/meshglow/internal/engine/mesh"
	"github.com/Faultbox/meshglow/internal/engine/shader"
	"github.com/Faultbox/meshglow/internal/engine/uniform"
	"github.com/Faultbox/meshglow/internal/logger"
	"github.com/Faultbox/meshglow/pkg/math"
)

// Names the shader contract fixes.
const (
	PositionAttrib   = "a_position"
	ProjectionMatrix = "projectionMatrix"
	ModelViewMatrix  = "modelViewMatrix"
	TimeUniform      = "time"
)

// ErrNotReady is returned by operations on a renderer that is not Ready.
var ErrNotReady = errors.New("renderer not ready")

// State is the renderer lifecycle state.
type State int

const (
	StateUninitialized State = iota
	StateLinked
	StateReady
	StateFailed
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateLinked:
		return "linked"
	case StateReady:
		return "ready"
	case StateFailed:
		return "failed"
	case StateClosed:
		return "closed"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Config holds renderer configuration. Zero values take the defaults.
type Config struct {
	Width  int // Target size, used for the projection aspect
	Height int

	WidthSegments  int     // Default 32
	HeightSegments int     // Default 32
	Scale          float32 // Default 1

	// AutoTime makes Render accumulate dt*TimeScalar into the "time"
	// uniform before drawing.
	AutoTime   bool
	TimeScalar float32 // Default 1

	Camera     camera.Camera // Default camera.Default()
	ClearColor [4]float32
}

func (c Config) withDefaults() Config {
	if c.WidthSegments == 0 {
		c.WidthSegments = mesh.DefaultSegments
	}
	if c.HeightSegments == 0 {
		c.HeightSegments = mesh.DefaultSegments
	}
	if c.Scale == 0 {
		c.Scale = mesh.DefaultScale
	}
	if c.TimeScalar == 0 {
		c.TimeScalar = 1
	}
	if c.Camera.IsZero() {
		c.Camera = camera.Default()
	}
	return c
}

// plane holds the uploaded geometry.
type plane struct {
	vertices gpu.Buffer
	indices  gpu.Buffer
	count    int
}

// Renderer owns one program, one plane and the uniforms registered against
// the program. It is driven from a single thread.
type Renderer struct {
	ctx    gpu.Context
	config Config
	state  State

	program  gpu.Program
	mesh     *mesh.Mesh
	plane    plane
	uniforms *uniform.Registry

	projection math.Mat4
	modelView  math.Mat4

	elapsed float32
}

// New compiles the shader pair, builds and uploads the plane and the camera
// matrices. On any failure the objects created so far are released and no
// renderer is returned.
func New(ctx gpu.Context, vertexSrc, fragmentSrc string, cfg Config) (*Renderer, error) {
	if ctx == nil {
		return nil, gpu.ErrContextUnavailable
	}

	r := &Renderer{
		ctx:    ctx,
		config: cfg.withDefaults(),
		state:  StateUninitialized,
	}

	if err := r.init(vertexSrc, fragmentSrc); err != nil {
		r.state = StateFailed
		r.release()
		logger.Error("renderer construction failed", zap.Error(err))
		return nil, err
	}

	r.state = StateReady
	logger.Info("renderer ready",
		zap.Int("vertices", r.mesh.VertexCount()),
		zap.Int("triangles", r.mesh.TriangleCount()),
		zap.Int("width", r.config.Width),
		zap.Int("height", r.config.Height),
	)
	return r, nil
}

func (r *Renderer) init(vertexSrc, fragmentSrc string) error {
	program, err := shader.CompileProgram(r.ctx, vertexSrc, fragmentSrc)
	if err != nil {
		return fmt.Errorf("failed to create shader program: %w", err)
	}
	r.program = program
	r.ctx.UseProgram(program)
	r.uniforms = uniform.NewRegistry(r.ctx, program)
	r.state = StateLinked

	r.mesh, err = mesh.NewPlane(mesh.Options{
		WidthSegments:  r.config.WidthSegments,
		HeightSegments: r.config.HeightSegments,
		Scale:          r.config.Scale,
	})
	if err != nil {
		return fmt.Errorf("failed to build plane: %w", err)
	}

	r.config.Camera.Projection(&r.projection, camera.Aspect(r.config.Width, r.config.Height))
	r.config.Camera.View(&r.modelView)
	if err := r.uploadMatrices(); err != nil {
		return err
	}

	r.createPlane()

	if r.config.AutoTime {
		if _, err := r.uniforms.Add(TimeUniform, uniform.Float); err != nil {
			return err
		}
	}
	return nil
}

// uploadMatrices registers the camera matrices and pushes their values.
// A shader that does not use one of them is tolerated.
func (r *Renderer) uploadMatrices() error {
	for _, m := range []struct {
		name string
		mat  *math.Mat4
	}{
		{ProjectionMatrix, &r.projection},
		{ModelViewMatrix, &r.modelView},
	} {
		if _, err := r.uniforms.Add(m.name, uniform.Mat4); err != nil {
			return err
		}
		err := r.uniforms.Update(m.name, m.mat.Slice()...)
		if errors.Is(err, uniform.ErrInactiveUniform) {
			continue
		}
		if err != nil {
			return fmt.Errorf("failed to upload %s: %w", m.name, err)
		}
	}
	return nil
}

// createPlane uploads the plane geometry and binds the position attribute.
// UV coordinates stay in the buffer but are not bound.
func (r *Renderer) createPlane() {
	r.plane.vertices = r.ctx.VertexBuffer(r.mesh.Interleaved())

	if loc := r.ctx.AttribLocation(r.program, PositionAttrib); loc >= 0 {
		r.ctx.VertexAttrib(uint32(loc), 3, mesh.VertexStride, 0)
	} else {
		logger.Warn("position attribute not active", zap.String("attrib", PositionAttrib))
	}

	r.plane.indices = r.ctx.IndexBuffer(r.mesh.Indices)
	r.plane.count = len(r.mesh.Indices)

	logger.Debug("plane created",
		zap.Uint32("vbo", uint32(r.plane.vertices)),
		zap.Uint32("ebo", uint32(r.plane.indices)),
		zap.Int("indices", r.plane.count),
	)
}

// State returns the lifecycle state.
func (r *Renderer) State() State {
	return r.state
}

// AddUniform registers name (shader side "u_"+name) with the given kind.
func (r *Renderer) AddUniform(name string, kind uniform.Kind) (*uniform.Uniform, error) {
	if r.state != StateReady {
		return nil, fmt.Errorf("%w: %s", ErrNotReady, r.state)
	}
	return r.uniforms.Add(name, kind)
}

// UpdateUniform pushes new values to a registered uniform.
func (r *Renderer) UpdateUniform(name string, values ...float32) error {
	if r.state != StateReady {
		return fmt.Errorf("%w: %s", ErrNotReady, r.state)
	}
	return r.uniforms.Update(name, values...)
}

// Uniforms returns the registry backing AddUniform and UpdateUniform.
func (r *Renderer) Uniforms() *uniform.Registry {
	return r.uniforms
}

// Viewport sets the rendering viewport. Sizes are not validated.
func (r *Renderer) Viewport(x, y, width, height int) {
	r.ctx.Viewport(x, y, width, height)
}

// SetClearColor changes the colour the frame is cleared to.
func (r *Renderer) SetClearColor(c [4]float32) {
	r.config.ClearColor = c
}

// Resize sets a full viewport and rebuilds the projection for the new
// aspect ratio. Non-positive sizes only update the viewport.
func (r *Renderer) Resize(width, height int) {
	r.Viewport(0, 0, width, height)
	if width <= 0 || height <= 0 || r.state != StateReady {
		return
	}

	r.config.Width = width
	r.config.Height = height
	r.config.Camera.Projection(&r.projection, camera.Aspect(width, height))
	err := r.uniforms.Update(ProjectionMatrix, r.projection.Slice()...)
	if err != nil && !errors.Is(err, uniform.ErrInactiveUniform) {
		logger.Warn("projection update failed", zap.Error(err))
	}

	logger.Debug("renderer resized",
		zap.Int("width", width),
		zap.Int("height", height),
	)
}

// Render draws the plane. dt is the frame time in seconds; it only matters
// when AutoTime is enabled.
func (r *Renderer) Render(dt float32) {
	if r.state != StateReady {
		return
	}

	if r.config.AutoTime {
		r.elapsed += dt * r.config.TimeScalar
		err := r.uniforms.Update(TimeUniform, r.elapsed)
		// Registration already warned about an unused time uniform.
		if err != nil && !errors.Is(err, uniform.ErrInactiveUniform) {
			logger.Warn("time uniform update failed", zap.Error(err))
		}
	}

	c := r.config.ClearColor
	r.ctx.Clear(c[0], c[1], c[2], c[3])
	r.ctx.DrawIndexed(r.plane.count)
}

// Elapsed returns the time accumulated by Render.
func (r *Renderer) Elapsed() float32 {
	return r.elapsed
}

// Mesh returns the CPU-side plane geometry.
func (r *Renderer) Mesh() *mesh.Mesh {
	return r.mesh
}

// Projection returns the current projection matrix.
func (r *Renderer) Projection() math.Mat4 {
	return r.projection
}

// ModelView returns the view matrix.
func (r *Renderer) ModelView() math.Mat4 {
	return r.modelView
}

// Program returns the linked program handle.
func (r *Renderer) Program() gpu.Program {
	return r.program
}

// Close releases the buffers and program.
func (r *Renderer) Close() {
	if r.state == StateClosed {
		return
	}
	logger.Info("closing renderer")
	r.release()
	r.state = StateClosed
}

func (r *Renderer) release() {
	if r.plane.vertices != 0 {
		r.ctx.DeleteBuffer(r.plane.vertices)
		r.plane.vertices = 0
	}
	if r.plane.indices != 0 {
		r.ctx.DeleteBuffer(r.plane.indices)
		r.plane.indices = 0
	}
	if r.program != 0 {
		r.ctx.DeleteProgram(r.program)
		r.program = 0
	}
}
