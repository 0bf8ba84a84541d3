package mesh

import (
	"errors"
	"testing"
)

func TestNewPlaneCounts(t *testing.T) {
	tests := []struct{ w, h int }{
		{1, 1}, {1, 5}, {7, 1}, {3, 4}, {32, 32}, {100, 3},
	}

	for _, tt := range tests {
		m, err := NewPlane(Options{WidthSegments: tt.w, HeightSegments: tt.h, Scale: 1})
		if err != nil {
			t.Fatalf("%dx%d: NewPlane failed: %v", tt.w, tt.h, err)
		}

		wantVerts := (tt.w + 1) * (tt.h + 1)
		if m.VertexCount() != wantVerts {
			t.Errorf("%dx%d: expected %d vertices, got %d", tt.w, tt.h, wantVerts, m.VertexCount())
		}
		if m.TriangleCount() != 2*tt.w*tt.h {
			t.Errorf("%dx%d: expected %d triangles, got %d", tt.w, tt.h, 2*tt.w*tt.h, m.TriangleCount())
		}
		for i, idx := range m.Indices {
			if int(idx) >= wantVerts {
				t.Fatalf("%dx%d: index %d = %d out of range [0, %d)", tt.w, tt.h, i, idx, wantVerts)
			}
		}
	}
}

func TestNewPlaneUV(t *testing.T) {
	w, h := 4, 3
	m, err := NewPlane(Options{WidthSegments: w, HeightSegments: h, Scale: 1})
	if err != nil {
		t.Fatalf("NewPlane failed: %v", err)
	}

	for y := 0; y <= h; y++ {
		for x := 0; x <= w; x++ {
			v := m.At(x, y)
			if v.U != float32(x)/float32(w) || v.V != float32(y)/float32(h) {
				t.Errorf("(%d,%d): UV got (%f,%f), want (%f,%f)",
					x, y, v.U, v.V, float32(x)/float32(w), float32(y)/float32(h))
			}
		}
	}

	// Corners hit the UV boundaries exactly.
	if v := m.At(0, 0); v.U != 0 || v.V != 0 {
		t.Errorf("bottom-left UV: got (%f,%f)", v.U, v.V)
	}
	if v := m.At(w, h); v.U != 1 || v.V != 1 {
		t.Errorf("top-right UV: got (%f,%f)", v.U, v.V)
	}
}

func TestNewPlaneSpansUnitSquare(t *testing.T) {
	for _, scale := range []float32{1, 0.5, 2, 3} {
		m, err := NewPlane(Options{WidthSegments: 6, HeightSegments: 6, Scale: scale})
		if err != nil {
			t.Fatalf("scale %g: NewPlane failed: %v", scale, err)
		}

		first := m.Vertices[0]
		last := m.Vertices[len(m.Vertices)-1]
		if !near(first.X, -1) || !near(first.Y, -1) {
			t.Errorf("scale %g: first vertex at (%f,%f), want (-1,-1)", scale, first.X, first.Y)
		}
		if !near(last.X, 1) || !near(last.Y, 1) {
			t.Errorf("scale %g: last vertex at (%f,%f), want (1,1)", scale, last.X, last.Y)
		}
		for _, v := range m.Vertices {
			if v.Z != 0 {
				t.Fatalf("scale %g: plane should be flat, got z=%f", scale, v.Z)
			}
		}
	}
}

// The diagonal rule checked straight against the corner formula.
func TestNewPlaneWinding(t *testing.T) {
	w, h := 3, 2
	m, err := NewPlane(Options{WidthSegments: w, HeightSegments: h, Scale: 1})
	if err != nil {
		t.Fatalf("NewPlane failed: %v", err)
	}

	row := uint32(w + 1)
	i := 0
	for y := uint32(0); y < uint32(h); y++ {
		for x := uint32(0); x < uint32(w); x++ {
			a := x + y*row
			b := x + (y+1)*row
			c := x + 1 + (y+1)*row
			d := x + 1 + y*row
			want := []uint32{a, b, d, b, c, d}
			for j, idx := range want {
				if m.Indices[i+j] != idx {
					t.Fatalf("cell (%d,%d) index %d: got %d, want %d", x, y, j, m.Indices[i+j], idx)
				}
			}
			i += 6
		}
	}
}

func TestNewPlaneSingleCell(t *testing.T) {
	m, err := NewPlane(Options{WidthSegments: 1, HeightSegments: 1, Scale: 1})
	if err != nil {
		t.Fatalf("NewPlane failed: %v", err)
	}

	if m.VertexCount() != 4 || m.TriangleCount() != 2 {
		t.Fatalf("expected 4 vertices and 2 triangles, got %d and %d", m.VertexCount(), m.TriangleCount())
	}

	// a=0, b=x+(y+1)(W+1)=2, c=3, d=1
	a, b, c, d := uint32(0), uint32(0+1*2), uint32(1+1*2), uint32(1)
	want := []uint32{a, b, d, b, c, d}
	for i := range want {
		if m.Indices[i] != want[i] {
			t.Errorf("index %d: got %d, want %d", i, m.Indices[i], want[i])
		}
	}

	// Every triangle winds the same way (clockwise in XY for this rule).
	for tri := 0; tri < m.TriangleCount(); tri++ {
		p0 := m.Vertices[m.Indices[tri*3]]
		p1 := m.Vertices[m.Indices[tri*3+1]]
		p2 := m.Vertices[m.Indices[tri*3+2]]
		cross := (p1.X-p0.X)*(p2.Y-p0.Y) - (p1.Y-p0.Y)*(p2.X-p0.X)
		if cross >= 0 {
			t.Errorf("triangle %d: expected clockwise winding, signed area %f", tri, cross)
		}
	}
}

func TestNewPlaneInvalid(t *testing.T) {
	tests := []struct {
		name string
		opts Options
		want error
	}{
		{"zero width", Options{WidthSegments: 0, HeightSegments: 4, Scale: 1}, ErrInvalidSegments},
		{"negative height", Options{WidthSegments: 4, HeightSegments: -1, Scale: 1}, ErrInvalidSegments},
		{"zero scale", Options{WidthSegments: 4, HeightSegments: 4, Scale: 0}, ErrInvalidScale},
		{"negative scale", Options{WidthSegments: 4, HeightSegments: 4, Scale: -2}, ErrInvalidScale},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := NewPlane(tt.opts)
			if !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
			if m != nil {
				t.Error("expected nil mesh on error")
			}
		})
	}
}

func TestInterleaved(t *testing.T) {
	m, err := NewPlane(Options{WidthSegments: 2, HeightSegments: 1, Scale: 1})
	if err != nil {
		t.Fatalf("NewPlane failed: %v", err)
	}

	data := m.Interleaved()
	if len(data) != m.VertexCount()*VertexFloats {
		t.Fatalf("expected %d floats, got %d", m.VertexCount()*VertexFloats, len(data))
	}
	for i, v := range m.Vertices {
		got := data[i*VertexFloats : (i+1)*VertexFloats]
		want := []float32{v.X, v.Y, v.Z, v.U, v.V}
		for j := range want {
			if got[j] != want[j] {
				t.Errorf("vertex %d component %d: got %f, want %f", i, j, got[j], want[j])
			}
		}
	}
	if VertexStride != 20 {
		t.Errorf("VertexStride: got %d, want 20", VertexStride)
	}
}

func TestDefaultOptions(t *testing.T) {
	opts := DefaultOptions()
	if opts.WidthSegments != 32 || opts.HeightSegments != 32 || opts.Scale != 1 {
		t.Errorf("unexpected defaults: %+v", opts)
	}
}

func near(a, b float32) bool {
	d := a - b
	return d < 1e-5 && d > -1e-5
}
