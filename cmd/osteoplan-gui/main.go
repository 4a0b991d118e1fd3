package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/widget"
	"github.com/spf13/cobra"

	"github.com/yosuahres/developmentVRSkripsi/internal/config"
	"github.com/yosuahres/developmentVRSkripsi/internal/loader"
	"github.com/yosuahres/developmentVRSkripsi/internal/workspace"
	"github.com/yosuahres/developmentVRSkripsi/version"
)

var (
	configFile string
	caseName   string
)

// App is the fyne planner window
type App struct {
	ctx    context.Context
	window fyne.Window
	cfg    *config.File
	logger *slog.Logger

	planner *Planner
}

var rootCmd = &cobra.Command{
	Use:     "osteoplan-gui [model]",
	Short:   "Osteotomy planner with a fyne interface",
	Version: version.GetFullVersion(),
	Args:    cobra.MaximumNArgs(1),
	RunE:    run,
}

func init() {
	rootCmd.Flags().StringVarP(&configFile, "config", "c", "", "case configuration file")
	rootCmd.Flags().StringVar(&caseName, "case", "", "case to open on start")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	cfg := config.Default()
	if configFile != "" {
		var err error
		if cfg, err = config.Read(configFile); err != nil {
			return err
		}
	} else if err := cfg.CheckInit("."); err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	a := app.New()
	w := a.NewWindow("Osteotomy planner")

	appInstance := &App{ctx: ctx, window: w, cfg: cfg, logger: slog.Default()}

	switch {
	case len(args) == 1:
		appInstance.openCase(config.SingleModel(args[0]))
	case caseName != "":
		c, err := cfg.FindCase(caseName)
		if err != nil {
			return err
		}
		appInstance.openCase(c)
	default:
		appInstance.showCaseList()
	}

	w.Resize(fyne.NewSize(1200, 800))
	w.ShowAndRun()
	if appInstance.planner != nil {
		appInstance.planner.Close()
	}
	return nil
}

func (a *App) showCaseList() {
	cases := a.cfg.Cases()

	title := widget.NewLabel("Osteotomy planner")
	title.TextStyle = fyne.TextStyle{Bold: true}

	list := widget.NewList(
		func() int { return len(cases) },
		func() fyne.CanvasObject { return widget.NewLabel("case") },
		func(i widget.ListItemID, o fyne.CanvasObject) {
			text := cases[i].Name
			if cases[i].Description != "" {
				text += " - " + cases[i].Description
			}
			o.(*widget.Label).SetText(text)
		},
	)
	list.OnSelected = func(i widget.ListItemID) {
		a.openCase(cases[i])
	}

	hint := "Select a case or open a single model"
	if len(cases) == 0 {
		hint = "No cases configured. Open an STL or OpenSCAD model"
	}

	openButton := widget.NewButton("Open Model", func() {
		a.showFileDialog()
	})

	content := container.NewBorder(
		container.NewVBox(container.NewCenter(title), container.NewCenter(widget.NewLabel(hint))),
		container.NewCenter(openButton),
		nil, nil,
		list,
	)
	a.window.SetContent(content)
}

func (a *App) showFileDialog() {
	dialog.ShowFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil {
			dialog.ShowError(err, a.window)
			return
		}
		if reader == nil {
			return
		}
		defer reader.Close()

		a.openCase(config.SingleModel(reader.URI().Path()))
	}, a.window)
}

// openCase loads c in the background and shows its state until it is ready
func (a *App) openCase(c *config.CaseConfig) {
	l := loader.New(c, a.logger)
	l.Start(a.ctx)

	progress := widget.NewProgressBarInfinite()
	a.window.SetContent(container.NewVBox(
		layout.NewSpacer(),
		container.NewCenter(widget.NewLabel(fmt.Sprintf("Loading %s: %s", c.Name, l.State()))),
		progress,
		layout.NewSpacer(),
	))

	go func() {
		<-l.Done()
		loaded, err := l.Result()
		fyne.Do(func() {
			progress.Stop()
			if err != nil {
				dialog.ShowError(err, a.window)
				a.showCaseList()
				return
			}
			ws, err := workspace.Open(loaded, a.cfg.Planner, a.logger)
			if err != nil {
				dialog.ShowError(err, a.window)
				a.showCaseList()
				return
			}
			if a.planner != nil {
				a.planner.Close()
			}
			a.planner = NewPlanner(a, c, ws)
			a.window.SetContent(a.planner.Content())
		})
	}()
}
