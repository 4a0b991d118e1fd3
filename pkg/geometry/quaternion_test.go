package geometry

import (
	"math"
	"testing"
)

func TestQuaternionFromNormal(t *testing.T) {
	normals := []Vector3{
		NewVector3(0, 0, 1),
		NewVector3(0, 1, 0),
		NewVector3(1, 0, 0),
		NewVector3(0, 0, -1),
		NewVector3(1, 1, 1).Normalize(),
		NewVector3(-0.2, 0.9, 0.1).Normalize(),
		NewVector3(0.04, 0, -1).Normalize(),
		NewVector3(0, 0.001, -1).Normalize(),
		NewVector3(-0.01, 0.02, -1).Normalize(),
	}

	for _, n := range normals {
		q := QuaternionFromNormal(n)
		rotated := q.Rotate(ReferenceAxis)
		if !rotated.ApproxEqual(n, 1e-9) {
			t.Errorf("FromNormal failed for %v: reference axis maps to %v", n, rotated)
		}
		if math.Abs(q.Len()-1) > 1e-9 {
			t.Errorf("FromNormal for %v is not unit: %v", n, q.Len())
		}
	}
}

func TestQuaternionFromBasis(t *testing.T) {
	q := QuaternionFromBasis(NewVector3(1, 0, 0), NewVector3(0, 1, 0), NewVector3(0, 0, 1))
	if !q.ApproxEqual(QuaternionIdentity(), 1e-12) {
		t.Errorf("FromBasis of the identity basis: got %v %v", q.W(), q.V())
	}

	x := NewVector3(0, 1, 0)
	y := NewVector3(-1, 0, 0)
	z := NewVector3(0, 0, 1)
	q = QuaternionFromBasis(x, y, z)

	for _, pair := range [][2]Vector3{
		{NewVector3(1, 0, 0), x},
		{NewVector3(0, 1, 0), y},
		{NewVector3(0, 0, 1), z},
	} {
		if got := q.Rotate(pair[0]); !got.ApproxEqual(pair[1], 1e-9) {
			t.Errorf("FromBasis failed: %v maps to %v, expected %v", pair[0], got, pair[1])
		}
	}
}

func TestQuaternionFromEulerDegrees(t *testing.T) {
	q := QuaternionFromEulerDegrees(0, 0, 90)
	if got := q.Rotate(NewVector3(1, 0, 0)); !got.ApproxEqual(NewVector3(0, 1, 0), 1e-9) {
		t.Errorf("Euler Z failed: got %v", got)
	}

	q = QuaternionFromEulerDegrees(90, 0, 0)
	if got := q.Rotate(NewVector3(0, 1, 0)); !got.ApproxEqual(NewVector3(0, 0, 1), 1e-9) {
		t.Errorf("Euler X failed: got %v", got)
	}

	// X is applied before Y
	q = QuaternionFromEulerDegrees(90, 90, 0)
	if got := q.Rotate(NewVector3(0, 1, 0)); !got.ApproxEqual(NewVector3(1, 0, 0), 1e-9) {
		t.Errorf("Euler order failed: got %v", got)
	}
}

func TestQuaternionInverse(t *testing.T) {
	q := QuaternionFromAxisAngle(NewVector3(1, 2, 3), 0.7)
	v := NewVector3(4, -1, 2)

	back := q.Inverse().Rotate(q.Rotate(v))
	if !back.ApproxEqual(v, 1e-9) {
		t.Errorf("Inverse failed: expected %v, got %v", v, back)
	}
	if math.Abs(q.Angle()-0.7) > 1e-9 {
		t.Errorf("Angle failed: expected 0.7, got %v", q.Angle())
	}
}

func TestQuaternionApproxEqualSignInvariant(t *testing.T) {
	q := NewQuaternion(0.5, 0.5, 0.5, 0.5)
	neg := NewQuaternion(-0.5, -0.5, -0.5, -0.5)
	if !q.ApproxEqual(neg, 1e-12) {
		t.Errorf("q and -q should describe the same rotation")
	}
}
