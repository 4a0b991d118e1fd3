// Package fragment lays out the planned cut slices of a bone fragment group.
package fragment

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/yosuahres/developmentVRSkripsi/pkg/geometry"
)

// Axis is the bounds axis slices are measured along
type Axis int

const (
	AxisX Axis = iota
	AxisY
	AxisZ
)

// ParseAxis accepts x, y or z; anything else falls back to x
func ParseAxis(s string) (Axis, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "x", "":
		return AxisX, true
	case "y":
		return AxisY, true
	case "z":
		return AxisZ, true
	}
	return AxisX, false
}

func (a Axis) String() string {
	return [...]string{"x", "y", "z"}[a]
}

// Slice is one cut, measured from the low end of the bounds along the plan axis
type Slice struct {
	Distance float64
	XDeg     float64
	YDeg     float64
	ZDeg     float64
}

// ParseSlice reads "<distance> <xDeg> <yDeg> <zDeg>"; missing angles default to zero
func ParseSlice(s string) (Slice, error) {
	fields := strings.Fields(s)
	if len(fields) == 0 || len(fields) > 4 {
		return Slice{}, fmt.Errorf("slice %q: expected distance and up to three angles", s)
	}
	values := make([]float64, 4)
	for i, f := range fields {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return Slice{}, fmt.Errorf("slice %q: %w", s, err)
		}
		values[i] = v
	}
	return Slice{Distance: values[0], XDeg: values[1], YDeg: values[2], ZDeg: values[3]}, nil
}

// Rotation returns the Euler rotation of the slice
func (s Slice) Rotation() geometry.Quaternion {
	return geometry.QuaternionFromEulerDegrees(s.XDeg, s.YDeg, s.ZDeg)
}

// Fragment is the bone piece between two cuts
type Fragment struct {
	Start Slice
	End   Slice
}

// Plan is the fragment layout of one case
type Plan struct {
	Axis      Axis
	Fragments []Fragment
}

// Pair groups consecutive slices into fragments; an odd trailing slice is an error
func Pair(axis Axis, slices []Slice) (Plan, error) {
	if len(slices)%2 != 0 {
		return Plan{}, fmt.Errorf("fragment plan has %d slices, expected pairs", len(slices))
	}
	plan := Plan{Axis: axis}
	for i := 0; i < len(slices); i += 2 {
		plan.Fragments = append(plan.Fragments, Fragment{Start: slices[i], End: slices[i+1]})
	}
	return plan, nil
}

// Placement is the pose of one slice in the surface frame
type Placement struct {
	Fragment    int
	Position    geometry.Vector3
	Orientation geometry.Quaternion
}

// base turns the plane normal towards the axis the slab is thin along
func (a Axis) base() geometry.Quaternion {
	switch a {
	case AxisY:
		return geometry.QuaternionFromNormal(geometry.NewVector3(0, 1, 0))
	case AxisZ:
		return geometry.QuaternionFromNormal(geometry.NewVector3(1, 0, 0))
	default:
		return geometry.QuaternionIdentity()
	}
}

// Place positions every slice of the plan inside bounds
func (p Plan) Place(bounds geometry.BoundingBox) []Placement {
	axis := int(p.Axis)
	center := bounds.Center()
	leftMost := center.WithAxis(axis, center.Axis(axis)-bounds.Size().Axis(axis)/2)

	var out []Placement
	for i, fragment := range p.Fragments {
		for _, slice := range []Slice{fragment.Start, fragment.End} {
			out = append(out, Placement{
				Fragment:    i,
				Position:    leftMost.WithAxis(axis, leftMost.Axis(axis)+slice.Distance),
				Orientation: slice.Rotation().Mul(p.Axis.base()),
			})
		}
	}
	return out
}
