package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/yosuahres/developmentVRSkripsi/internal/config"
	"github.com/yosuahres/developmentVRSkripsi/version"
)

var (
	configFile string
	logLevel   string
	logFormat  string
)

var rootCmd = &cobra.Command{
	Use:   "osteoplan",
	Short: "Plan osteotomy cuts on jaw surface models",
	Long: `osteoplan places osteotomy-plane markers and rulers on STL or OpenSCAD
models of a mandible and maxilla. Cases are described in a git-config style
file; a single model can be opened directly.`,
	Version:       version.GetFullVersion(),
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		logger, err := newLogger(logLevel, logFormat)
		if err != nil {
			return err
		}
		slog.SetDefault(logger)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "case configuration file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "debug, info, warn or error")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "text", "text or json")
}

func newLogger(level, format string) (*slog.Logger, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return nil, fmt.Errorf("invalid log level %q", level)
	}
	opts := &slog.HandlerOptions{Level: lvl}
	switch strings.ToLower(format) {
	case "text":
		return slog.New(slog.NewTextHandler(os.Stderr, opts)), nil
	case "json":
		return slog.New(slog.NewJSONHandler(os.Stderr, opts)), nil
	}
	return nil, fmt.Errorf("invalid log format %q", format)
}

// loadConfig reads --config, or returns the defaults when none was given
func loadConfig() (*config.File, error) {
	if configFile == "" {
		f := config.Default()
		if err := f.CheckInit("."); err != nil {
			return nil, err
		}
		return f, nil
	}
	return config.Read(configFile)
}

// resolveCase picks the case named by --case, or wraps a model path given as argument
func resolveCase(f *config.File, caseName string, args []string) (*config.CaseConfig, error) {
	switch {
	case caseName != "" && len(args) > 0:
		return nil, fmt.Errorf("give either --case or a model file, not both")
	case caseName != "":
		return f.FindCase(caseName)
	case len(args) == 1:
		return config.SingleModel(args[0]), nil
	}
	cases := f.Cases()
	if len(cases) == 1 {
		return cases[0], nil
	}
	return nil, fmt.Errorf("no case selected; use --case or give a model file")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
