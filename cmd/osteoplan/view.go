package main

import (
	"github.com/spf13/cobra"

	"github.com/yosuahres/developmentVRSkripsi/internal/app"
)

var (
	viewCase  string
	viewWatch bool
)

var viewCmd = &cobra.Command{
	Use:   "view [model]",
	Short: "Open a case in the planner window",
	Long: `Open a case in the raylib planner window. Click the surface to place
markers; the help panel lists the keys for rulers, spawning and part display.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runView,
}

func init() {
	rootCmd.AddCommand(viewCmd)

	viewCmd.Flags().StringVar(&viewCase, "case", "", "case name from the configuration")
	viewCmd.Flags().BoolVarP(&viewWatch, "watch", "w", true, "reload models when their files change")
}

func runView(cmd *cobra.Command, args []string) error {
	f, err := loadConfig()
	if err != nil {
		return err
	}
	c, err := resolveCase(f, viewCase, args)
	if err != nil {
		return err
	}
	return app.Run(cmd.Context(), app.Options{
		Case:    c,
		Planner: f.Planner,
		Watch:   viewWatch,
	})
}
