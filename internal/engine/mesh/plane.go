// Package mesh builds the tessellated plane geometry the renderer draws.
package mesh

import (
	"errors"
	"fmt"
)

// VertexFloats is the number of interleaved floats per vertex (x, y, z, u, v).
const VertexFloats = 5

// VertexStride is the byte size of one interleaved vertex.
const VertexStride = VertexFloats * 4

// Default tessellation.
const (
	DefaultSegments = 32
	DefaultScale    = 1.0
)

var (
	ErrInvalidSegments = errors.New("segment counts must be at least 1")
	ErrInvalidScale    = errors.New("scale must be positive")
)

// Vertex is a plane vertex: position followed by texture coordinates.
type Vertex struct {
	X, Y, Z float32
	U, V    float32
}

// Options controls plane tessellation.
type Options struct {
	WidthSegments  int
	HeightSegments int
	Scale          float32
}

// DefaultOptions returns a 32x32 plane at scale 1.
func DefaultOptions() Options {
	return Options{
		WidthSegments:  DefaultSegments,
		HeightSegments: DefaultSegments,
		Scale:          DefaultScale,
	}
}

// Mesh holds plane geometry ready for GPU upload.
type Mesh struct {
	Vertices []Vertex // Row-major over a (W+1) x (H+1) grid
	Indices  []uint32 // Two triangles per cell

	WidthSegments  int
	HeightSegments int
}

// NewPlane tessellates the [-1,1] square into WidthSegments x HeightSegments
// cells. Every cell is split along the same diagonal: with a, b, c, d the
// cell corners (bottom-left, top-left, top-right, bottom-right) it emits the
// triangles (a, b, d) and (b, c, d).
func NewPlane(opts Options) (*Mesh, error) {
	w, h := opts.WidthSegments, opts.HeightSegments
	if w < 1 || h < 1 {
		return nil, fmt.Errorf("%w: got %dx%d", ErrInvalidSegments, w, h)
	}
	if opts.Scale <= 0 {
		return nil, fmt.Errorf("%w: got %g", ErrInvalidScale, opts.Scale)
	}

	scale := opts.Scale
	stepX := 2 / float32(w) / scale
	stepY := 2 / float32(h) / scale
	row := uint32(w + 1)

	m := &Mesh{
		Vertices:       make([]Vertex, 0, (w+1)*(h+1)),
		Indices:        make([]uint32, 0, w*h*6),
		WidthSegments:  w,
		HeightSegments: h,
	}

	for y := 0; y <= h; y++ {
		for x := 0; x <= w; x++ {
			m.Vertices = append(m.Vertices, Vertex{
				X: -1 + float32(x)*stepX*scale,
				Y: -1 + float32(y)*stepY*scale,
				Z: 0,
				U: float32(x) / float32(w),
				V: float32(y) / float32(h),
			})

			if x < w && y < h {
				ux, uy := uint32(x), uint32(y)
				a := ux + uy*row
				b := ux + (uy+1)*row
				c := ux + 1 + (uy+1)*row
				d := ux + 1 + uy*row

				m.Indices = append(m.Indices, a, b, d, b, c, d)
			}
		}
	}

	return m, nil
}

// TriangleCount returns the number of triangles in the index list.
func (m *Mesh) TriangleCount() int {
	return len(m.Indices) / 3
}

// VertexCount returns the number of vertices.
func (m *Mesh) VertexCount() int {
	return len(m.Vertices)
}

// Interleaved flattens the vertices into x, y, z, u, v order for upload.
func (m *Mesh) Interleaved() []float32 {
	out := make([]float32, 0, len(m.Vertices)*VertexFloats)
	for _, v := range m.Vertices {
		out = append(out, v.X, v.Y, v.Z, v.U, v.V)
	}
	return out
}

// At returns the vertex at grid column x, row y.
func (m *Mesh) At(x, y int) Vertex {
	return m.Vertices[x+y*(m.WidthSegments+1)]
}
