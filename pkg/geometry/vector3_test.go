package geometry

import (
	"math"
	"testing"
)

func TestVector3Add(t *testing.T) {
	v1 := NewVector3(1, 2, 3)
	v2 := NewVector3(4, 5, 6)
	result := v1.Add(v2)

	expected := NewVector3(5, 7, 9)
	if result != expected {
		t.Errorf("Add failed: expected %v, got %v", expected, result)
	}
}

func TestVector3Sub(t *testing.T) {
	v1 := NewVector3(5, 7, 9)
	v2 := NewVector3(1, 2, 3)
	result := v1.Sub(v2)

	expected := NewVector3(4, 5, 6)
	if result != expected {
		t.Errorf("Sub failed: expected %v, got %v", expected, result)
	}
}

func TestVector3Length(t *testing.T) {
	v := NewVector3(3, 4, 0)
	length := v.Length()

	expected := 5.0
	if math.Abs(length-expected) > 1e-10 {
		t.Errorf("Length failed: expected %v, got %v", expected, length)
	}
}

func TestVector3Distance(t *testing.T) {
	v1 := NewVector3(0, 0, 0)
	v2 := NewVector3(3, 4, 0)
	distance := v1.Distance(v2)

	expected := 5.0
	if math.Abs(distance-expected) > 1e-10 {
		t.Errorf("Distance failed: expected %v, got %v", expected, distance)
	}
}

func TestVector3Normalize(t *testing.T) {
	v := NewVector3(3, 4, 0)
	normalized := v.Normalize()

	expectedLength := 1.0
	actualLength := normalized.Length()

	if math.Abs(actualLength-expectedLength) > 1e-10 {
		t.Errorf("Normalize failed: expected length %v, got %v", expectedLength, actualLength)
	}
}

func TestVector3Cross(t *testing.T) {
	v1 := NewVector3(1, 0, 0)
	v2 := NewVector3(0, 1, 0)
	result := v1.Cross(v2)

	expected := NewVector3(0, 0, 1)
	if result != expected {
		t.Errorf("Cross failed: expected %v, got %v", expected, result)
	}
}

func TestVector3Dot(t *testing.T) {
	v1 := NewVector3(1, 2, 3)
	v2 := NewVector3(4, 5, 6)
	result := v1.Dot(v2)

	expected := 32.0 // 1*4 + 2*5 + 3*6 = 32
	if math.Abs(result-expected) > 1e-10 {
		t.Errorf("Dot failed: expected %v, got %v", expected, result)
	}
}

func TestVector3Midpoint(t *testing.T) {
	a := NewVector3(0, 0, 0)
	b := NewVector3(1, 0, 0)

	expected := NewVector3(0.5, 0, 0)
	if a.Midpoint(b) != expected {
		t.Errorf("Midpoint failed: expected %v, got %v", expected, a.Midpoint(b))
	}
	if a.Midpoint(b) != b.Midpoint(a) {
		t.Errorf("Midpoint is not symmetric: %v vs %v", a.Midpoint(b), b.Midpoint(a))
	}
}

func TestSanitizeNormal(t *testing.T) {
	n, ok := SanitizeNormal(NewVector3(0, 0, 2))
	if !ok || n != NewVector3(0, 0, 1) {
		t.Errorf("SanitizeNormal failed: expected (0,0,1) ok, got %v %v", n, ok)
	}

	n, ok = SanitizeNormal(NewVector3(math.NaN(), 1, 0))
	if ok || n != Up {
		t.Errorf("SanitizeNormal NaN: expected Up fallback, got %v %v", n, ok)
	}

	n, ok = SanitizeNormal(Vector3{})
	if ok || n != Up {
		t.Errorf("SanitizeNormal zero: expected Up fallback, got %v %v", n, ok)
	}

	n, ok = SanitizeNormal(NewVector3(math.Inf(1), 0, 0))
	if ok || n != Up {
		t.Errorf("SanitizeNormal Inf: expected Up fallback, got %v %v", n, ok)
	}
}

func TestVector3Axis(t *testing.T) {
	v := NewVector3(1, 2, 3)
	for axis, expected := range []float64{1, 2, 3} {
		if v.Axis(axis) != expected {
			t.Errorf("Axis(%d) failed: expected %v, got %v", axis, expected, v.Axis(axis))
		}
	}

	replaced := v.WithAxis(1, 7)
	if replaced != NewVector3(1, 7, 3) {
		t.Errorf("WithAxis failed: got %v", replaced)
	}
}
