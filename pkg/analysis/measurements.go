package analysis

import (
	"fmt"
	"math"

	"github.com/yosuahres/developmentVRSkripsi/pkg/geometry"
	"github.com/yosuahres/developmentVRSkripsi/pkg/stl"
)

// SurfaceReport summarizes a loaded anatomical surface
type SurfaceReport struct {
	Name             string
	BoundingBox      geometry.BoundingBox
	Dimensions       geometry.Vector3
	Centroid         geometry.Vector3
	SurfaceArea      float64
	TriangleCount    int
	DegenerateFacets int
	MinEdgeLength    float64
	MaxEdgeLength    float64
	AvgEdgeLength    float64
}

// AnalyzeModel computes size and tessellation statistics for a surface
func AnalyzeModel(model *stl.Model) *SurfaceReport {
	result := &SurfaceReport{
		Name:          model.Name,
		BoundingBox:   model.BoundingBox(),
		SurfaceArea:   model.SurfaceArea(),
		TriangleCount: model.TriangleCount(),
		Centroid:      model.Centroid(),
	}
	result.Dimensions = result.BoundingBox.Size()

	minLength := math.MaxFloat64
	maxLength := 0.0
	totalLength := 0.0
	edges := 0

	for _, triangle := range model.Triangles {
		if triangle.Area() == 0 {
			result.DegenerateFacets++
		}
		for _, length := range triangle.EdgeLengths() {
			totalLength += length
			edges++
			if length < minLength {
				minLength = length
			}
			if length > maxLength {
				maxLength = length
			}
		}
	}

	if edges > 0 {
		result.MinEdgeLength = minLength
		result.MaxEdgeLength = maxLength
		result.AvgEdgeLength = totalLength / float64(edges)
	}

	return result
}

// NearestPoint returns the index of the candidate closest to point and its distance.
// Ties keep the earliest candidate. The index is -1 when candidates is empty.
func NearestPoint(candidates []geometry.Vector3, point geometry.Vector3) (int, float64) {
	nearest := -1
	minDistance := math.MaxFloat64

	for i, candidate := range candidates {
		distance := point.Distance(candidate)
		if distance < minDistance {
			minDistance = distance
			nearest = i
		}
	}

	if nearest < 0 {
		return -1, 0
	}
	return nearest, minDistance
}

// FormatMillimetres formats a physical length the way ruler labels show it
func FormatMillimetres(value float64) string {
	return fmt.Sprintf("%.1f mm", value)
}

// FormatMeasurement formats a measurement with appropriate units
func FormatMeasurement(value float64, unit string) string {
	if unit == "" {
		unit = "units"
	}
	return fmt.Sprintf("%.6f %s", value, unit)
}

// FormatVector formats a 3D vector
func FormatVector(v geometry.Vector3) string {
	return fmt.Sprintf("(%.6f, %.6f, %.6f)", v.X, v.Y, v.Z)
}
