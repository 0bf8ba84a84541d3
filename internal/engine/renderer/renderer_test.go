package renderer

import (
	"errors"
	gomath "math"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/Faultbox/meshglow/internal/engine/gpu"
	"github.com/Faultbox/meshglow/internal/engine/gpu/gputest"
	"github.com/Faultbox/meshglow/internal/engine/mesh"
	"github.com/Faultbox/meshglow/internal/engine/shader"
	"github.com/Faultbox/meshglow/internal/engine/uniform"
	"github.com/Faultbox/meshglow/internal/logger"
)

func newRenderer(t *testing.T, f *gputest.Fake, cfg Config) *Renderer {
	t.Helper()
	r, err := New(f, "vertex", "fragment", cfg)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	return r
}

func TestNewReady(t *testing.T) {
	f := gputest.New()
	r := newRenderer(t, f, Config{Width: 800, Height: 600})

	if r.State() != StateReady {
		t.Fatalf("expected ready, got %s", r.State())
	}
	if f.CurrentProgram != r.Program() {
		t.Errorf("program %d should be in use, current is %d", r.Program(), f.CurrentProgram)
	}

	// Default 32x32 plane.
	m := r.Mesh()
	if m.VertexCount() != 33*33 || m.TriangleCount() != 2*32*32 {
		t.Errorf("expected default 32x32 plane, got %d vertices %d triangles", m.VertexCount(), m.TriangleCount())
	}
	if len(f.VertexData) != 33*33*mesh.VertexFloats {
		t.Errorf("uploaded %d floats, want %d", len(f.VertexData), 33*33*mesh.VertexFloats)
	}
	if len(f.IndexData) != 6*32*32 {
		t.Errorf("uploaded %d indices, want %d", len(f.IndexData), 6*32*32)
	}
}

func TestNewBindsPositionOnly(t *testing.T) {
	f := gputest.New()
	f.Attribs = map[string]int32{PositionAttrib: 2}
	newRenderer(t, f, Config{Width: 100, Height: 100})

	if len(f.AttribCalls) != 1 {
		t.Fatalf("expected one attribute binding, got %v", f.AttribCalls)
	}
	want := gputest.AttribCall{Index: 2, Size: 3, Stride: 20, Offset: 0}
	if f.AttribCalls[0] != want {
		t.Errorf("attribute: got %+v, want %+v", f.AttribCalls[0], want)
	}
}

func TestNewUploadsMatrices(t *testing.T) {
	f := gputest.New()
	r := newRenderer(t, f, Config{Width: 100, Height: 100})

	proj, ok := f.LastUniform(f.LocationOf("u_projectionMatrix"))
	if !ok || proj.Op != "matrix4fv" {
		t.Fatalf("projection not uploaded as mat4: %+v", proj)
	}
	p := r.Projection()
	for i := range p {
		if proj.Values[i] != p[i] {
			t.Fatalf("projection[%d]: uploaded %f, have %f", i, proj.Values[i], p[i])
		}
	}

	// FOV 25 degrees, square aspect.
	if p[0] <= 0 || p[0] != p[5] {
		t.Errorf("square projection expected, got m[0]=%f m[5]=%f", p[0], p[5])
	}
	wantF := float32(1 / gomath.Tan(gomath.Pi*25/180/2))
	if gomath.Abs(float64(p[5]-wantF)) > 1e-4 {
		t.Errorf("m[5]: got %f, want %f", p[5], wantF)
	}

	mv, ok := f.LastUniform(f.LocationOf("u_modelViewMatrix"))
	if !ok || mv.Op != "matrix4fv" {
		t.Fatalf("model-view not uploaded as mat4: %+v", mv)
	}
	// Eye at z=1.2 looking at the origin.
	if v := r.ModelView(); gomath.Abs(float64(v[14]+1.2)) > 1e-6 {
		t.Errorf("model-view translation: got %f, want -1.2", v[14])
	}
}

func TestNewSingleCellPlane(t *testing.T) {
	f := gputest.New()
	r := newRenderer(t, f, Config{Width: 10, Height: 10, WidthSegments: 1, HeightSegments: 1})

	m := r.Mesh()
	if m.VertexCount() != 4 || m.TriangleCount() != 2 {
		t.Fatalf("expected 4 vertices and 2 triangles, got %d and %d", m.VertexCount(), m.TriangleCount())
	}

	// Corners from the cell formula with W=1: a=x+y*2, b=x+(y+1)*2, ...
	w := uint32(1)
	a, b, c, d := uint32(0), w+1, w+2, uint32(1)
	want := []uint32{a, b, d, b, c, d}
	for i := range want {
		if f.IndexData[i] != want[i] {
			t.Errorf("uploaded index %d: got %d, want %d", i, f.IndexData[i], want[i])
		}
	}
}

func TestNewTolerateMissingMatrices(t *testing.T) {
	f := gputest.New()
	f.Uniforms = map[string]gpu.Location{"u_time": 0}

	r, err := New(f, "v", "f", Config{Width: 10, Height: 10})
	if err != nil {
		t.Fatalf("inactive matrix uniforms should not fail construction: %v", err)
	}
	if r.State() != StateReady {
		t.Errorf("expected ready, got %s", r.State())
	}
}

func TestNewErrors(t *testing.T) {
	tests := []struct {
		name  string
		setup func(*gputest.Fake)
		cfg   Config
		check func(*testing.T, error)
	}{
		{
			name:  "vertex compile",
			setup: func(f *gputest.Fake) { f.CompileErrors = map[gpu.Stage]string{gpu.StageVertex: "vlog"} },
			check: func(t *testing.T, err error) {
				var ce *shader.CompileError
				if !errors.As(err, &ce) || ce.Stage != gpu.StageVertex || ce.Log != "vlog" {
					t.Errorf("expected vertex CompileError, got %v", err)
				}
			},
		},
		{
			name:  "fragment compile",
			setup: func(f *gputest.Fake) { f.CompileErrors = map[gpu.Stage]string{gpu.StageFragment: "flog"} },
			check: func(t *testing.T, err error) {
				var ce *shader.CompileError
				if !errors.As(err, &ce) || ce.Stage != gpu.StageFragment {
					t.Errorf("expected fragment CompileError, got %v", err)
				}
			},
		},
		{
			name:  "link",
			setup: func(f *gputest.Fake) { f.LinkError = "llog" },
			check: func(t *testing.T, err error) {
				var le *shader.LinkError
				if !errors.As(err, &le) || le.Log != "llog" {
					t.Errorf("expected LinkError, got %v", err)
				}
			},
		},
		{
			name:  "bad segments",
			setup: func(f *gputest.Fake) {},
			cfg:   Config{WidthSegments: -3},
			check: func(t *testing.T, err error) {
				if !errors.Is(err, mesh.ErrInvalidSegments) {
					t.Errorf("expected ErrInvalidSegments, got %v", err)
				}
			},
		},
		{
			name: "matrix upload rejected",
			setup: func(f *gputest.Fake) {
				f.UploadErrors = map[gpu.Location]error{f.LocationOf("u_projectionMatrix"): errors.New("GL_INVALID_OPERATION")}
			},
			check: func(t *testing.T, err error) {
				var ue *uniform.UpdateError
				if !errors.As(err, &ue) || ue.Name != ProjectionMatrix {
					t.Errorf("expected UpdateError for projection, got %v", err)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := gputest.New()
			tt.setup(f)

			r, err := New(f, "v", "f", tt.cfg)
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if r != nil {
				t.Error("a failed construction must not return a renderer")
			}
			tt.check(t, err)

			if len(f.Draws) != 0 {
				t.Error("nothing should be drawn")
			}
			if created := len(f.VertexBuffers) + len(f.IndexBuffers); created != len(f.DeletedBuffers) {
				t.Errorf("buffers leaked: created %d, deleted %d", created, len(f.DeletedBuffers))
			}
			if len(f.DeletedPrograms) != 1 {
				t.Errorf("program should be deleted exactly once, got %v", f.DeletedPrograms)
			}
		})
	}
}

func TestNewNilContext(t *testing.T) {
	r, err := New(nil, "v", "f", Config{})
	if !errors.Is(err, gpu.ErrContextUnavailable) {
		t.Fatalf("expected ErrContextUnavailable, got %v", err)
	}
	if r != nil {
		t.Error("expected nil renderer")
	}
}

func TestRenderDrawsFullIndexBuffer(t *testing.T) {
	f := gputest.New()
	r := newRenderer(t, f, Config{Width: 10, Height: 10, WidthSegments: 4, HeightSegments: 3})

	r.Render(0.016)
	r.Render(0.016)

	if len(f.Draws) != 2 {
		t.Fatalf("expected 2 draws, got %d", len(f.Draws))
	}
	if f.Draws[0] != 6*4*3 {
		t.Errorf("draw count: got %d, want %d", f.Draws[0], 6*4*3)
	}
	if f.Clears != 2 {
		t.Errorf("expected a clear per frame, got %d", f.Clears)
	}
}

func TestRenderWithoutAutoTimeLeavesTime(t *testing.T) {
	f := gputest.New()
	r := newRenderer(t, f, Config{Width: 10, Height: 10})

	r.Render(1)
	if r.Elapsed() != 0 {
		t.Errorf("elapsed should not advance without AutoTime, got %f", r.Elapsed())
	}
	if _, ok := r.Uniforms().Get(TimeUniform); ok {
		t.Error("time uniform should not be registered without AutoTime")
	}
}

func TestRenderAutoTime(t *testing.T) {
	f := gputest.New()
	r := newRenderer(t, f, Config{Width: 10, Height: 10, AutoTime: true, TimeScalar: 0.5})

	r.Render(1)
	r.Render(2)

	if r.Elapsed() != 1.5 {
		t.Errorf("elapsed: got %f, want 1.5", r.Elapsed())
	}
	call, ok := f.LastUniform(f.LocationOf("u_time"))
	if !ok || call.Op != "1f" || call.Values[0] != 1.5 {
		t.Errorf("time upload: got %+v", call)
	}
}

func TestRenderDrawsWhenTimeUpdateFails(t *testing.T) {
	f := gputest.New()
	f.UploadErrors = map[gpu.Location]error{f.LocationOf("u_time"): errors.New("rejected")}
	r := newRenderer(t, f, Config{Width: 10, Height: 10, AutoTime: true})

	r.Render(0.1)

	if len(f.Draws) != 1 {
		t.Errorf("a failed uniform update must not skip the draw, got %d draws", len(f.Draws))
	}
}

func TestRenderUnusedTimeDoesNotWarnPerFrame(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	logger.Log = zap.New(core)
	defer logger.Reset()

	f := gputest.New()
	f.Uniforms = map[string]gpu.Location{"u_projectionMatrix": 0, "u_modelViewMatrix": 1}
	r := newRenderer(t, f, Config{Width: 10, Height: 10, AutoTime: true})
	logs.TakeAll()

	for i := 0; i < 60; i++ {
		r.Render(0.016)
	}

	if len(f.Draws) != 60 {
		t.Errorf("expected 60 draws, got %d", len(f.Draws))
	}
	if n := logs.Len(); n != 0 {
		t.Errorf("expected no per-frame warnings, got %d", n)
	}
}

func TestUniformPassThrough(t *testing.T) {
	f := gputest.New()
	r := newRenderer(t, f, Config{Width: 10, Height: 10})

	u, err := r.AddUniform("resolution", uniform.Vec2)
	if err != nil {
		t.Fatalf("AddUniform failed: %v", err)
	}
	if err := r.UpdateUniform("resolution", 640, 480); err != nil {
		t.Fatalf("UpdateUniform failed: %v", err)
	}
	call, _ := f.LastUniform(u.Location)
	if call.Op != "2f" || call.Values[0] != 640 || call.Values[1] != 480 {
		t.Errorf("resolution upload: got %+v", call)
	}

	err = r.UpdateUniform("seed", 1)
	if !errors.Is(err, uniform.ErrUnknownUniform) {
		t.Errorf("expected ErrUnknownUniform, got %v", err)
	}

	// The frame still renders after a bad update.
	r.Render(0)
	if len(f.Draws) != 1 {
		t.Errorf("expected a draw after a failed update, got %d", len(f.Draws))
	}
}

func TestViewportPassThrough(t *testing.T) {
	f := gputest.New()
	r := newRenderer(t, f, Config{Width: 10, Height: 10})
	before := r.Projection()

	r.Viewport(5, 6, -1, 0)

	if len(f.Viewports) != 1 || f.Viewports[0] != [4]int{5, 6, -1, 0} {
		t.Errorf("viewport: got %v", f.Viewports)
	}
	if r.Projection() != before {
		t.Error("Viewport must not touch the projection")
	}
}

func TestResizeRecomputesProjection(t *testing.T) {
	f := gputest.New()
	r := newRenderer(t, f, Config{Width: 100, Height: 100})
	square := r.Projection()

	r.Resize(200, 100)

	wide := r.Projection()
	if gomath.Abs(float64(wide[0]*2-square[0])) > 1e-5 {
		t.Errorf("aspect 2 should halve m[0]: got %f, square %f", wide[0], square[0])
	}
	if wide[5] != square[5] {
		t.Errorf("m[5] should not depend on aspect: got %f, want %f", wide[5], square[5])
	}
	if f.Viewports[len(f.Viewports)-1] != [4]int{0, 0, 200, 100} {
		t.Errorf("viewport: got %v", f.Viewports)
	}
	call, _ := f.LastUniform(f.LocationOf("u_projectionMatrix"))
	if call.Values[0] != wide[0] {
		t.Errorf("resized projection not uploaded: got %f, want %f", call.Values[0], wide[0])
	}

	// Degenerate sizes only move the viewport.
	r.Resize(0, 0)
	if r.Projection() != wide {
		t.Error("zero size must not change the projection")
	}
}

func TestClose(t *testing.T) {
	f := gputest.New()
	r := newRenderer(t, f, Config{Width: 10, Height: 10})
	program := r.Program()

	r.Close()
	r.Close()

	if r.State() != StateClosed {
		t.Errorf("expected closed, got %s", r.State())
	}
	if len(f.DeletedBuffers) != 2 {
		t.Errorf("expected both buffers deleted once, got %v", f.DeletedBuffers)
	}
	if len(f.DeletedPrograms) != 1 || f.DeletedPrograms[0] != program {
		t.Errorf("expected program %d deleted once, got %v", program, f.DeletedPrograms)
	}

	r.Render(1)
	if len(f.Draws) != 0 {
		t.Error("a closed renderer must not draw")
	}
	if err := r.UpdateUniform(ProjectionMatrix, make([]float32, 16)...); !errors.Is(err, ErrNotReady) {
		t.Errorf("expected ErrNotReady, got %v", err)
	}
	if _, err := r.AddUniform("x", uniform.Float); !errors.Is(err, ErrNotReady) {
		t.Errorf("expected ErrNotReady, got %v", err)
	}
}

func TestStateString(t *testing.T) {
	tests := map[State]string{
		StateUninitialized: "uninitialized",
		StateLinked:        "linked",
		StateReady:         "ready",
		StateFailed:        "failed",
		StateClosed:        "closed",
	}
	for s, want := range tests {
		if s.String() != want {
			t.Errorf("State(%d): got %q, want %q", int(s), s.String(), want)
		}
	}
}
