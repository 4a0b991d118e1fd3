package main

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/yosuahres/developmentVRSkripsi/internal/loader"
	"github.com/yosuahres/developmentVRSkripsi/pkg/analysis"
)

var infoCase string

var infoCmd = &cobra.Command{
	Use:   "info [model]",
	Short: "Display information about the surfaces of a case",
	Long:  "Show dimensions, triangle count, surface area and edge statistics of every part.",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runInfo,
}

func init() {
	rootCmd.AddCommand(infoCmd)

	infoCmd.Flags().StringVar(&infoCase, "case", "", "case name from the configuration")
}

func runInfo(cmd *cobra.Command, args []string) error {
	f, err := loadConfig()
	if err != nil {
		return err
	}
	c, err := resolveCase(f, infoCase, args)
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	loaded, err := loader.LoadCase(ctx, c, nil)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Case: %s\n", loaded.Name)
	for _, p := range loaded.Parts {
		fmt.Fprintln(out)
		printReport(out, p, f.Planner.ModelScale)
	}
	return nil
}

func printReport(out io.Writer, p loader.Part, modelScale float64) {
	result := analysis.AnalyzeModel(p.Model)

	fmt.Fprintf(out, "%s: %s\n", p.Part, p.Path)
	if result.Name != "" {
		fmt.Fprintf(out, "  Name: %s\n", result.Name)
	}

	fmt.Fprintln(out, "  Model Statistics:")
	fmt.Fprintf(out, "    Triangles: %d\n", result.TriangleCount)
	if result.DegenerateFacets > 0 {
		fmt.Fprintf(out, "    Degenerate facets: %d\n", result.DegenerateFacets)
	}
	fmt.Fprintf(out, "    Surface Area: %.6f square units\n", result.SurfaceArea)

	fmt.Fprintln(out, "  Bounding Box:")
	fmt.Fprintf(out, "    Min: %s\n", analysis.FormatVector(result.BoundingBox.Min))
	fmt.Fprintf(out, "    Max: %s\n", analysis.FormatVector(result.BoundingBox.Max))
	fmt.Fprintf(out, "    Centroid: %s\n", analysis.FormatVector(result.Centroid))

	fmt.Fprintln(out, "  Dimensions:")
	fmt.Fprintf(out, "    Width (X): %s\n", analysis.FormatMeasurement(result.Dimensions.X, ""))
	fmt.Fprintf(out, "    Depth (Y): %s\n", analysis.FormatMeasurement(result.Dimensions.Y, ""))
	fmt.Fprintf(out, "    Height (Z): %s\n", analysis.FormatMeasurement(result.Dimensions.Z, ""))
	fmt.Fprintf(out, "    Diagonal: %s\n", analysis.FormatMeasurement(result.BoundingBox.Diagonal(), ""))
	if modelScale > 0 {
		fmt.Fprintf(out, "    Scene diagonal: %s\n", analysis.FormatMeasurement(result.BoundingBox.Diagonal()*modelScale, "scene units"))
	}

	fmt.Fprintln(out, "  Edge Lengths:")
	fmt.Fprintf(out, "    Minimum: %s\n", analysis.FormatMeasurement(result.MinEdgeLength, ""))
	fmt.Fprintf(out, "    Maximum: %s\n", analysis.FormatMeasurement(result.MaxEdgeLength, ""))
	fmt.Fprintf(out, "    Average: %s\n", analysis.FormatMeasurement(result.AvgEdgeLength, ""))
}
