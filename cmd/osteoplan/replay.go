package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"

	"github.com/yosuahres/developmentVRSkripsi/internal/config"
	"github.com/yosuahres/developmentVRSkripsi/internal/loader"
	"github.com/yosuahres/developmentVRSkripsi/internal/script"
	"github.com/yosuahres/developmentVRSkripsi/internal/workspace"
	"github.com/yosuahres/developmentVRSkripsi/pkg/watcher"
)

var (
	replayCase  string
	replayWatch bool
)

var replayCmd = &cobra.Command{
	Use:   "replay <script> [model]",
	Short: "Replay a gesture script against a case without a window",
	Long: `Replay planning gestures (taps, spawns, rulers, part display) from a script
and print the resulting markers and rulers. With --watch the replay runs again
whenever the script or one of the case files changes.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runReplay,
}

func init() {
	rootCmd.AddCommand(replayCmd)

	replayCmd.Flags().StringVar(&replayCase, "case", "", "case name from the configuration")
	replayCmd.Flags().BoolVarP(&replayWatch, "watch", "w", false, "replay again when the script or models change")
}

func runReplay(cmd *cobra.Command, args []string) error {
	f, err := loadConfig()
	if err != nil {
		return err
	}
	c, err := resolveCase(f, replayCase, args[1:])
	if err != nil {
		return err
	}
	scriptFile := args[0]
	out := cmd.OutOrStdout()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()

	if !replayWatch {
		return replay(ctx, out, scriptFile, c, f.Planner)
	}

	files, err := loader.Sources(c)
	if err != nil {
		return err
	}
	fw, err := watcher.NewFileWatcher(300*time.Millisecond, slog.Default())
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer fw.Close()
	if err := fw.Watch(append(files, scriptFile)...); err != nil {
		return fmt.Errorf("failed to watch files: %w", err)
	}

	changed := make(chan string, 1)
	go func() {
		err := fw.Run(ctx, func(path string) {
			select {
			case changed <- path:
			default:
			}
		})
		if err != nil && ctx.Err() == nil {
			slog.Error("file watcher stopped", "error", err)
		}
	}()

	for {
		if err := replay(ctx, out, scriptFile, c, f.Planner); err != nil {
			fmt.Fprintf(out, "Error: %v\n", err)
		}
		fmt.Fprintf(out, "\nWatching %d file(s), press Ctrl+C to stop\n", len(fw.Files()))
		select {
		case <-ctx.Done():
			return nil
		case path := <-changed:
			fmt.Fprintf(out, "\n%s changed\n\n", path)
		}
	}
}

// replay loads the case fresh so every run starts from an empty plan
func replay(ctx context.Context, out io.Writer, scriptFile string, c *config.CaseConfig, planner config.PlannerConfig) error {
	fh, err := os.Open(scriptFile)
	if err != nil {
		return err
	}
	steps, err := script.Parse(fh)
	fh.Close()
	if err != nil {
		return fmt.Errorf("%s: %w", scriptFile, err)
	}

	loaded, err := loader.LoadCase(ctx, c, nil)
	if err != nil {
		return err
	}
	ws, err := workspace.Open(loaded, planner, nil)
	if err != nil {
		return err
	}

	r := &script.Runner{Session: ws.Session, Camera: ws.Graph, Plan: c.Plan, Out: out}
	if err := r.Run(steps); err != nil {
		return err
	}
	fmt.Fprintln(out)
	script.Summary(out, ws.Session)
	return nil
}
