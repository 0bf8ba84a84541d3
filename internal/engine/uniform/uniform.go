// Package uniform maps named shader inputs to typed upload operations.
package uniform

import (
	"errors"
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/Faultbox/meshglow/internal/engine/gpu"
	"github.com/Faultbox/meshglow/internal/logger"
)

// Prefix is prepended to a registered name to form the shader-side name.
const Prefix = "u_"

var (
	// ErrUnknownUniform is returned when updating a name that was never
	// registered.
	ErrUnknownUniform = errors.New("unknown uniform")
	// ErrArityMismatch is returned when the value count does not fit the
	// uniform's kind.
	ErrArityMismatch = errors.New("value count does not match uniform kind")
	// ErrInactiveUniform is returned when setting a uniform the linked
	// program does not expose.
	ErrInactiveUniform = errors.New("uniform not active in program")
	// ErrInvalidKind is returned when registering with an unknown kind.
	ErrInvalidKind = errors.New("invalid uniform kind")
)

// Kind is the value shape of a uniform.
type Kind uint8

const (
	Float Kind = iota + 1
	Vec2
	Vec3
	Vec4
	// Vec3Array accepts any positive number of vec3 values.
	Vec3Array
	Mat4
)

// String returns the GLSL-like name of the kind.
func (k Kind) String() string {
	switch k {
	case Float:
		return "float"
	case Vec2:
		return "vec2"
	case Vec3:
		return "vec3"
	case Vec4:
		return "vec4"
	case Vec3Array:
		return "vec3[]"
	case Mat4:
		return "mat4"
	default:
		return fmt.Sprintf("Kind(%d)", uint8(k))
	}
}

// Valid reports whether k is one of the declared kinds.
func (k Kind) Valid() bool {
	return k >= Float && k <= Mat4
}

// accepts reports whether n values fit the kind.
func (k Kind) accepts(n int) bool {
	switch k {
	case Float:
		return n == 1
	case Vec2:
		return n == 2
	case Vec3:
		return n == 3
	case Vec4:
		return n == 4
	case Vec3Array:
		return n > 0 && n%3 == 0
	case Mat4:
		return n == 16
	default:
		return false
	}
}

// UpdateError reports a rejected value upload for one uniform.
type UpdateError struct {
	Name string
	Kind Kind
	Err  error
}

func (e *UpdateError) Error() string {
	return fmt.Sprintf("uniform %q (%s): %v", e.Name, e.Kind, e.Err)
}

func (e *UpdateError) Unwrap() error {
	return e.Err
}

// ShaderName returns the shader-side name for a registered name.
func ShaderName(name string) string {
	return Prefix + name
}

// Uniform is a registered shader input bound to one program.
type Uniform struct {
	Name       string
	ShaderName string
	Location   gpu.Location
	Kind       Kind

	ctx     gpu.Context
	program gpu.Program
}

// Program returns the program the location was resolved against.
func (u *Uniform) Program() gpu.Program {
	return u.program
}

// Set uploads values to the uniform. The program must be in use.
func (u *Uniform) Set(values ...float32) error {
	if !u.Kind.accepts(len(values)) {
		return &UpdateError{
			Name: u.Name,
			Kind: u.Kind,
			Err:  fmt.Errorf("%w: got %d values", ErrArityMismatch, len(values)),
		}
	}
	if !u.Location.Valid() {
		return &UpdateError{Name: u.Name, Kind: u.Kind, Err: ErrInactiveUniform}
	}

	var err error
	switch u.Kind {
	case Float:
		err = u.ctx.Uniform1f(u.Location, values[0])
	case Vec2:
		err = u.ctx.Uniform2f(u.Location, values[0], values[1])
	case Vec3:
		err = u.ctx.Uniform3f(u.Location, values[0], values[1], values[2])
	case Vec4:
		err = u.ctx.Uniform4f(u.Location, values[0], values[1], values[2], values[3])
	case Vec3Array:
		err = u.ctx.Uniform3fv(u.Location, values)
	case Mat4:
		err = u.ctx.UniformMatrix4fv(u.Location, values)
	}
	if err != nil {
		return &UpdateError{Name: u.Name, Kind: u.Kind, Err: err}
	}
	return nil
}

// Registry holds the uniforms registered against one program.
type Registry struct {
	ctx      gpu.Context
	program  gpu.Program
	uniforms map[string]*Uniform
}

// NewRegistry creates an empty registry for program.
func NewRegistry(ctx gpu.Context, program gpu.Program) *Registry {
	return &Registry{
		ctx:      ctx,
		program:  program,
		uniforms: make(map[string]*Uniform),
	}
}

// Add resolves "u_"+name in the program and registers it under name,
// replacing any previous registration. A uniform the program does not
// expose is still registered; setting it later fails with
// ErrInactiveUniform.
func (r *Registry) Add(name string, kind Kind) (*Uniform, error) {
	if !kind.Valid() {
		return nil, fmt.Errorf("%w: %q as %s", ErrInvalidKind, name, kind)
	}

	u := &Uniform{
		Name:       name,
		ShaderName: ShaderName(name),
		Kind:       kind,
		ctx:        r.ctx,
		program:    r.program,
	}
	u.Location = r.ctx.UniformLocation(r.program, u.ShaderName)
	if !u.Location.Valid() {
		logger.Warn("uniform not active in program",
			zap.String("uniform", u.ShaderName),
			zap.Uint32("program", uint32(r.program)),
		)
	}

	r.uniforms[name] = u
	return u, nil
}

// Update looks up name and uploads values.
func (r *Registry) Update(name string, values ...float32) error {
	u, ok := r.uniforms[name]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownUniform, name)
	}
	return u.Set(values...)
}

// Get returns the uniform registered under name.
func (r *Registry) Get(name string) (*Uniform, bool) {
	u, ok := r.uniforms[name]
	return u, ok
}

// Names returns the registered names in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.uniforms))
	for name := range r.uniforms {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of registered uniforms.
func (r *Registry) Len() int {
	return len(r.uniforms)
}
