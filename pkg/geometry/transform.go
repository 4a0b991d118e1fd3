package geometry

import (
	"errors"
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// ErrSingularTransform is returned when a transform cannot be inverted
var ErrSingularTransform = errors.New("transform is singular")

// singularThreshold bounds the determinant of the column-normalized linear part
// below which a transform is treated as non-invertible
const singularThreshold = 1e-12

// Transform is an affine 4x4 transform
type Transform struct {
	m mgl64.Mat4
}

// IdentityTransform returns the transform that maps every point onto itself
func IdentityTransform() Transform {
	return Transform{m: mgl64.Ident4()}
}

// NewTransform composes translation * rotation * scale
func NewTransform(translation Vector3, rotation Quaternion, scale Vector3) Transform {
	t := mgl64.Translate3D(translation.X, translation.Y, translation.Z)
	s := mgl64.Scale3D(scale.X, scale.Y, scale.Z)
	return Transform{m: t.Mul4(rotation.mat4()).Mul4(s)}
}

// Translation returns a pure translation
func Translation(v Vector3) Transform {
	return Transform{m: mgl64.Translate3D(v.X, v.Y, v.Z)}
}

// UniformScale returns a pure scale by factor
func UniformScale(factor float64) Transform {
	return Transform{m: mgl64.Scale3D(factor, factor, factor)}
}

// Rotation returns a pure rotation
func Rotation(q Quaternion) Transform {
	return Transform{m: q.mat4()}
}

// TransformFromMatrix wraps a column-major matrix
func TransformFromMatrix(m mgl64.Mat4) Transform {
	return Transform{m: m}
}

// LookAt places an eye at eye looking towards center, with -Z as its forward axis
func LookAt(eye, center, up Vector3) Transform {
	view := mgl64.LookAtV(eye.vec(), center.vec(), up.vec())
	return Transform{m: view.Inv()}
}

// Matrix returns the column-major matrix
func (t Transform) Matrix() mgl64.Mat4 {
	if t.m == (mgl64.Mat4{}) {
		return mgl64.Ident4()
	}
	return t.m
}

// Mul returns t * child, the transform of child expressed in t's parent frame
func (t Transform) Mul(child Transform) Transform {
	return Transform{m: t.Matrix().Mul4(child.Matrix())}
}

// Det returns the determinant of the linear part
func (t Transform) Det() float64 {
	return t.Matrix().Det()
}

// linearInverse inverts the 3x3 linear part. Each basis column is normalized first
// so the singular test depends on shape, not on the overall scale.
func (t Transform) linearInverse() (mgl64.Mat3, bool) {
	linear := t.Matrix().Mat3()

	var norms [3]float64
	normalized := linear
	for i := 0; i < 3; i++ {
		col := linear.Col(i)
		n := col.Len()
		if n == 0 || math.IsNaN(n) || math.IsInf(n, 0) {
			return mgl64.Mat3{}, false
		}
		norms[i] = n
		normalized.SetCol(i, col.Mul(1/n))
	}

	d := normalized.Det()
	if math.IsNaN(d) || math.Abs(d) < singularThreshold {
		return mgl64.Mat3{}, false
	}

	// (L*D)^-1 = D^-1 * L^-1: row i picks up 1/norm_i
	inv := normalized.Inv()
	for i := 0; i < 3; i++ {
		inv.SetRow(i, inv.Row(i).Mul(1/norms[i]))
	}
	return inv, true
}

// Invertible reports whether Inverse would succeed
func (t Transform) Invertible() bool {
	_, ok := t.linearInverse()
	return ok
}

// Inverse returns the inverse transform or ErrSingularTransform
func (t Transform) Inverse() (Transform, error) {
	inv, ok := t.linearInverse()
	if !ok {
		return Transform{}, ErrSingularTransform
	}
	m := inv.Mat4()
	translation := inv.Mul3x1(t.Position().vec()).Mul(-1)
	m.SetCol(3, translation.Vec4(1))
	return Transform{m: m}, nil
}

// Point transforms a position (w = 1)
func (t Transform) Point(p Vector3) Vector3 {
	return fromVec(t.Matrix().Mul4x1(p.vec().Vec4(1)).Vec3())
}

// Direction transforms a free vector (w = 0); the result is not normalized
func (t Transform) Direction(d Vector3) Vector3 {
	return fromVec(t.Matrix().Mul4x1(d.vec().Vec4(0)).Vec3())
}

// Normal transforms a surface normal by the inverse transpose of the linear part
// and re-normalizes it. Translation never affects the result.
func (t Transform) Normal(n Vector3) (Vector3, error) {
	inv, ok := t.linearInverse()
	if !ok {
		return Vector3{}, ErrSingularTransform
	}
	return fromVec(inv.Transpose().Mul3x1(n.vec())).Normalize(), nil
}

// Position returns the translation component
func (t Transform) Position() Vector3 {
	return fromVec(t.Matrix().Col(3).Vec3())
}

// Forward returns the unit -Z axis of the transform
func (t Transform) Forward() Vector3 {
	return t.Direction(Vector3{Z: -1}).Normalize()
}

// ScaleFactors returns the length of each basis column
func (t Transform) ScaleFactors() Vector3 {
	m := t.Matrix()
	return Vector3{
		X: m.Col(0).Vec3().Len(),
		Y: m.Col(1).Vec3().Len(),
		Z: m.Col(2).Vec3().Len(),
	}
}

// ApproxEqual compares two transforms element-wise
func (t Transform) ApproxEqual(other Transform, eps float64) bool {
	return t.Matrix().ApproxEqualThreshold(other.Matrix(), eps)
}
