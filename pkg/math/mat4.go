package math

import "math"

// Epsilon is the tolerance LookAt uses to detect an eye placed on its target.
const Epsilon = 1e-6

// Mat4 is a 4x4 matrix in column-major order (OpenGL compatible).
// Layout: [m0 m4 m8  m12]
//
//	[m1 m5 m9  m13]
//	[m2 m6 m10 m14]
//	[m3 m7 m11 m15]
//
// The builders below write into a caller-owned matrix and return it, so a
// renderer can keep its matrices in fixed fields and refill them in place.
type Mat4 [16]float32

// Identity writes the identity matrix into out.
func Identity(out *Mat4) *Mat4 {
	*out = Mat4{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
	return out
}

// NewIdentity returns a fresh identity matrix.
func NewIdentity() Mat4 {
	var m Mat4
	Identity(&m)
	return m
}

// Perspective writes a symmetric perspective projection into out.
// fovY is in radians, aspect is width/height. A far plane of +Inf selects
// the infinite far plane form.
func Perspective(out *Mat4, fovY, aspect, near, far float32) *Mat4 {
	f := float32(1.0 / math.Tan(float64(fovY)/2.0))

	out[0] = f / aspect
	out[1] = 0
	out[2] = 0
	out[3] = 0
	out[4] = 0
	out[5] = f
	out[6] = 0
	out[7] = 0
	out[8] = 0
	out[9] = 0
	out[11] = -1
	out[12] = 0
	out[13] = 0
	out[15] = 0

	if !math.IsInf(float64(far), 1) {
		nf := 1.0 / (near - far)
		out[10] = (far + near) * nf
		out[14] = 2 * far * near * nf
	} else {
		out[10] = -1
		out[14] = -2 * near
	}
	return out
}

// LookAt writes a right-handed view matrix into out, placing the camera at
// eye and facing center with up as the reference direction.
//
// An eye sitting on center yields the identity matrix. A basis vector that
// collapses to zero length (up parallel to the view direction) is left as
// the zero vector.
func LookAt(out *Mat4, eye, center, up Vec3) *Mat4 {
	if abs(eye.X-center.X) < Epsilon &&
		abs(eye.Y-center.Y) < Epsilon &&
		abs(eye.Z-center.Z) < Epsilon {
		return Identity(out)
	}

	z := eye.Sub(center).Normalize()
	x := up.Cross(z).Normalize()
	y := z.Cross(x).Normalize()

	*out = Mat4{
		x.X, y.X, z.X, 0,
		x.Y, y.Y, z.Y, 0,
		x.Z, y.Z, z.Z, 0,
		-x.Dot(eye), -y.Dot(eye), -z.Dot(eye), 1,
	}
	return out
}

// Mul multiplies this matrix by another (m * other).
func (m Mat4) Mul(other Mat4) Mat4 {
	var result Mat4
	for col := 0; col < 4; col++ {
		for row := 0; row < 4; row++ {
			result[col*4+row] =
				m[0*4+row]*other[col*4+0] +
					m[1*4+row]*other[col*4+1] +
					m[2*4+row]*other[col*4+2] +
					m[3*4+row]*other[col*4+3]
		}
	}
	return result
}

// TransformPoint transforms a 3D point by this matrix (assumes w=1) and
// applies the perspective divide.
func (m Mat4) TransformPoint(p Vec3) Vec3 {
	x := m[0]*p.X + m[4]*p.Y + m[8]*p.Z + m[12]
	y := m[1]*p.X + m[5]*p.Y + m[9]*p.Z + m[13]
	z := m[2]*p.X + m[6]*p.Y + m[10]*p.Z + m[14]
	w := m[3]*p.X + m[7]*p.Y + m[11]*p.Z + m[15]
	if w != 0 && w != 1 {
		return Vec3{x / w, y / w, z / w}
	}
	return Vec3{x, y, z}
}

// Slice returns the matrix as a slice for uniform uploads.
func (m *Mat4) Slice() []float32 {
	return m[:]
}

func abs(x float32) float32 {
	if x < 0 {
		return -x
	}
	return x
}
