package geometry

import (
	"math"
	"testing"
)

func TestBoundingBoxExtend(t *testing.T) {
	bbox := NewBoundingBox()

	bbox.Extend(NewVector3(1, 2, 3))
	bbox.Extend(NewVector3(4, 5, 6))
	bbox.Extend(NewVector3(-1, 0, 2))

	expectedMin := NewVector3(-1, 0, 2)
	expectedMax := NewVector3(4, 5, 6)

	if bbox.Min != expectedMin {
		t.Errorf("Min failed: expected %v, got %v", expectedMin, bbox.Min)
	}
	if bbox.Max != expectedMax {
		t.Errorf("Max failed: expected %v, got %v", expectedMax, bbox.Max)
	}
}

func TestBoundingBoxSize(t *testing.T) {
	bbox := NewBoundingBox()
	bbox.Extend(NewVector3(0, 0, 0))
	bbox.Extend(NewVector3(10, 20, 30))

	size := bbox.Size()
	expected := NewVector3(10, 20, 30)

	if size != expected {
		t.Errorf("Size failed: expected %v, got %v", expected, size)
	}
}

func TestBoundingBoxCenter(t *testing.T) {
	bbox := NewBoundingBox()
	bbox.Extend(NewVector3(0, 0, 0))
	bbox.Extend(NewVector3(10, 20, 30))

	center := bbox.Center()
	expected := NewVector3(5, 10, 15)

	if center != expected {
		t.Errorf("Center failed: expected %v, got %v", expected, center)
	}
}

func TestBoundingBoxEmpty(t *testing.T) {
	bbox := NewBoundingBox()
	if !bbox.Empty() {
		t.Errorf("Empty failed: new box should be empty")
	}
	if bbox.Size() != (Vector3{}) {
		t.Errorf("Size of empty box: expected zero, got %v", bbox.Size())
	}

	bbox.Extend(NewVector3(1, 1, 1))
	if bbox.Empty() {
		t.Errorf("Empty failed: box with a point should not be empty")
	}
}

func TestBoundingBoxTransformed(t *testing.T) {
	bbox := NewBoundingBox()
	bbox.Extend(NewVector3(-1, -1, -1))
	bbox.Extend(NewVector3(1, 1, 1))

	moved := bbox.Transformed(Translation(NewVector3(10, 0, 0)).Mul(UniformScale(2)))

	if !moved.Min.ApproxEqual(NewVector3(8, -2, -2), 1e-10) {
		t.Errorf("Transformed min failed: got %v", moved.Min)
	}
	if !moved.Max.ApproxEqual(NewVector3(12, 2, 2), 1e-10) {
		t.Errorf("Transformed max failed: got %v", moved.Max)
	}
	if math.Abs(moved.Diagonal()-math.Sqrt(48)) > 1e-10 {
		t.Errorf("Diagonal failed: got %v", moved.Diagonal())
	}
}
