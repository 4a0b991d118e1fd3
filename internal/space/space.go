// Package space converts hits between world space and the local frame of a surface anchor.
package space

import (
	"errors"
	"fmt"

	"github.com/yosuahres/developmentVRSkripsi/pkg/geometry"
)

// ErrDegenerateTransform is returned when the anchor transform cannot be inverted
var ErrDegenerateTransform = errors.New("degenerate anchor transform")

// ToLocal maps a world position and normal into the frame described by ancestor,
// the anchor's local-to-world transform.
func ToLocal(worldPoint, worldNormal geometry.Vector3, ancestor geometry.Transform) (geometry.Vector3, geometry.Vector3, error) {
	inverse, err := ancestor.Inverse()
	if err != nil {
		return geometry.Vector3{}, geometry.Vector3{}, fmt.Errorf("to local: %w", ErrDegenerateTransform)
	}
	normal, err := inverse.Normal(worldNormal)
	if err != nil {
		return geometry.Vector3{}, geometry.Vector3{}, fmt.Errorf("to local: %w", ErrDegenerateTransform)
	}
	return inverse.Point(worldPoint), normal, nil
}

// ToWorld is the inverse of ToLocal
func ToWorld(localPoint, localNormal geometry.Vector3, ancestor geometry.Transform) (geometry.Vector3, geometry.Vector3, error) {
	if !ancestor.Invertible() {
		return geometry.Vector3{}, geometry.Vector3{}, fmt.Errorf("to world: %w", ErrDegenerateTransform)
	}
	normal, err := ancestor.Normal(localNormal)
	if err != nil {
		return geometry.Vector3{}, geometry.Vector3{}, fmt.Errorf("to world: %w", ErrDegenerateTransform)
	}
	return ancestor.Point(localPoint), normal, nil
}

// PointToWorld maps a single local position; singular anchors still map, they just cannot be undone
func PointToWorld(localPoint geometry.Vector3, ancestor geometry.Transform) geometry.Vector3 {
	return ancestor.Point(localPoint)
}
