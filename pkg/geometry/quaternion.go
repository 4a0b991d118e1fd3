package geometry

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// ReferenceAxis is the local axis a plane's normal is aligned with
var ReferenceAxis = Vector3{X: 0, Y: 0, Z: 1}

// Quaternion is a rotation stored as a unit quaternion
type Quaternion struct {
	q mgl64.Quat
}

// QuaternionIdentity returns the rotation that does nothing
func QuaternionIdentity() Quaternion {
	return Quaternion{q: mgl64.QuatIdent()}
}

// NewQuaternion builds a quaternion from its scalar and vector parts and normalizes it
func NewQuaternion(w, x, y, z float64) Quaternion {
	return Quaternion{q: mgl64.Quat{W: w, V: mgl64.Vec3{x, y, z}}.Normalize()}
}

// QuaternionFromAxisAngle rotates by angle radians around axis
func QuaternionFromAxisAngle(axis Vector3, angle float64) Quaternion {
	return Quaternion{q: mgl64.QuatRotate(angle, axis.Normalize().vec())}
}

// parallelEpsilon is the cross product length below which two unit vectors are treated as parallel
const parallelEpsilon = 1e-12

// QuaternionBetween returns the shortest rotation taking from onto to.
// Both inputs are normalized first; opposite vectors turn half way around
// an arbitrary axis perpendicular to from.
func QuaternionBetween(from, to Vector3) Quaternion {
	f := from.Normalize().vec()
	t := to.Normalize().vec()

	axis := f.Cross(t)
	sin := axis.Len()
	cos := f.Dot(t)

	if sin < parallelEpsilon {
		if cos > 0 {
			return QuaternionIdentity()
		}
		return Quaternion{q: mgl64.QuatRotate(math.Pi, perpendicular(f))}
	}
	return Quaternion{q: mgl64.QuatRotate(math.Atan2(sin, cos), axis.Mul(1/sin)).Normalize()}
}

func perpendicular(v mgl64.Vec3) mgl64.Vec3 {
	axis := v.Cross(mgl64.Vec3{1, 0, 0})
	if axis.Len() < 1e-6 {
		axis = v.Cross(mgl64.Vec3{0, 1, 0})
	}
	return axis.Normalize()
}

// QuaternionFromNormal aligns ReferenceAxis with normal
func QuaternionFromNormal(normal Vector3) Quaternion {
	return QuaternionBetween(ReferenceAxis, normal)
}

// QuaternionFromBasis converts an orthonormal right-handed basis into a rotation.
// The basis vectors become the images of the X, Y and Z axes.
func QuaternionFromBasis(x, y, z Vector3) Quaternion {
	m := mgl64.Mat4FromCols(x.vec().Vec4(0), y.vec().Vec4(0), z.vec().Vec4(0), mgl64.Vec4{0, 0, 0, 1})
	return Quaternion{q: mgl64.Mat4ToQuat(m).Normalize()}
}

// QuaternionFromEulerDegrees composes rotations about X, then Y, then Z (q = qz*qy*qx)
func QuaternionFromEulerDegrees(x, y, z float64) Quaternion {
	qx := mgl64.QuatRotate(mgl64.DegToRad(x), mgl64.Vec3{1, 0, 0})
	qy := mgl64.QuatRotate(mgl64.DegToRad(y), mgl64.Vec3{0, 1, 0})
	qz := mgl64.QuatRotate(mgl64.DegToRad(z), mgl64.Vec3{0, 0, 1})
	return Quaternion{q: qz.Mul(qy).Mul(qx).Normalize()}
}

// W returns the scalar part
func (q Quaternion) W() float64 {
	return q.q.W
}

// V returns the vector part
func (q Quaternion) V() Vector3 {
	return fromVec(q.q.V)
}

// Mul composes two rotations; the result applies other first
func (q Quaternion) Mul(other Quaternion) Quaternion {
	return Quaternion{q: q.q.Mul(other.q).Normalize()}
}

// Inverse returns the opposite rotation
func (q Quaternion) Inverse() Quaternion {
	return Quaternion{q: q.q.Inverse()}
}

// Rotate applies the rotation to v
func (q Quaternion) Rotate(v Vector3) Vector3 {
	return fromVec(q.q.Rotate(v.vec()))
}

// Len returns the norm of the quaternion; rotations have length 1
func (q Quaternion) Len() float64 {
	return q.q.Len()
}

// IsZero reports whether q is the zero value rather than a rotation
func (q Quaternion) IsZero() bool {
	return q.q.W == 0 && q.q.V == (mgl64.Vec3{})
}

// ApproxEqual reports whether both quaternions represent the same rotation.
// q and -q are treated as equal.
func (q Quaternion) ApproxEqual(other Quaternion, eps float64) bool {
	return math.Abs(math.Abs(q.q.Dot(other.q))-1) <= eps
}

// Angle returns the rotation angle in radians
func (q Quaternion) Angle() float64 {
	w := math.Min(1, math.Abs(q.q.W))
	return 2 * math.Acos(w)
}

func (q Quaternion) mat4() mgl64.Mat4 {
	if q.IsZero() {
		return mgl64.Ident4()
	}
	return q.q.Mat4()
}
