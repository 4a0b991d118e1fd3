package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"github.com/yosuahres/developmentVRSkripsi/internal/config"
	"github.com/yosuahres/developmentVRSkripsi/internal/loader"
	"github.com/yosuahres/developmentVRSkripsi/internal/part"
	"github.com/yosuahres/developmentVRSkripsi/internal/planview"
	"github.com/yosuahres/developmentVRSkripsi/internal/session"
	"github.com/yosuahres/developmentVRSkripsi/internal/tapphase"
	"github.com/yosuahres/developmentVRSkripsi/internal/workspace"
	"github.com/yosuahres/developmentVRSkripsi/pkg/analysis"
	"github.com/yosuahres/developmentVRSkripsi/pkg/geometry"
	"github.com/yosuahres/developmentVRSkripsi/pkg/viewer"
	"github.com/yosuahres/developmentVRSkripsi/pkg/watcher"
)

// Planner is the main screen of one open case
type Planner struct {
	app   *App
	c     *config.CaseConfig
	ws    *workspace.Workspace
	view  *viewer.SceneView
	style planview.Style

	status     *widget.Label
	planInfo   *widget.Label
	rulerList  *widget.Label
	rulerCheck *widget.Check
	tapMode    *widget.RadioGroup
	active     *widget.RadioGroup

	unsubscribe func()
	cancel      context.CancelFunc
}

// NewPlanner wires a workspace to a scene view and the command panel
func NewPlanner(a *App, c *config.CaseConfig, ws *workspace.Workspace) *Planner {
	ctx, cancel := context.WithCancel(a.ctx)
	p := &Planner{
		app:       a,
		c:         c,
		ws:        ws,
		view:      viewer.NewSceneView(),
		style:     planview.DefaultStyle(),
		status:    widget.NewLabel("Tap the surface to place a marker"),
		planInfo:  widget.NewLabel(""),
		rulerList: widget.NewLabel(""),
		cancel:    cancel,
	}
	p.status.Wrapping = fyne.TextWrapWord

	p.view.SetOnCameraChange(ws.Graph.SetCamera)
	p.view.SetOnTap(func(origin, direction geometry.Vector3) {
		p.report(ws.Session.Tap(origin, direction))
	})
	p.unsubscribe = ws.Session.Subscribe(func(frame session.Frame) {
		fyne.Do(func() { p.refresh(frame) })
	})

	if err := p.watch(ctx); err != nil {
		a.logger.Warn("auto-reload not available", "error", err)
	}
	return p
}

// Content builds the window content
func (p *Planner) Content() fyne.CanvasObject {
	s := p.ws.Session
	frame := s.Frame()

	p.tapMode = widget.NewRadioGroup([]string{tapphase.Single.String(), tapphase.TwoTap.String()}, func(value string) {
		mode, err := tapphase.ParseMode(value)
		if err == nil {
			s.SetTapMode(mode)
		}
	})
	p.tapMode.Horizontal = true
	p.tapMode.Selected = frame.TapMode.String()

	var partNames []string
	partRows := container.NewVBox()
	for _, state := range frame.Parts {
		partNames = append(partNames, state.Part.String())
		partRows.Add(p.partRow(state))
	}
	p.active = widget.NewRadioGroup(partNames, func(value string) {
		pt, err := part.Parse(value)
		if err != nil {
			return
		}
		if err := s.SetActivePart(pt); err != nil {
			p.status.SetText(err.Error())
		}
	})
	p.active.Selected = frame.ActivePart.String()

	rulerMode := widget.NewCheck("Ruler mode", func(on bool) {
		if s.IsRulerMode() != on {
			s.ToggleRulerMode()
		}
	})
	p.rulerCheck = widget.NewCheck("Show rulers", func(on bool) {
		if s.Frame().RulersVisible != on {
			s.ToggleRulerVisibility()
		}
	})
	p.rulerCheck.Checked = frame.RulersVisible

	buttons := container.NewGridWithColumns(2,
		widget.NewButton("Spawn marker", func() { p.report(s.SpawnMarkerAtCurrentTarget()) }),
		widget.NewButton("Remove last", func() {
			if m, ok := s.RemoveLastMarker(); ok {
				p.status.SetText("Removed marker " + m.ID)
			}
		}),
		widget.NewButton("Toggle markers", func() { s.ToggleAllMarkersVisible() }),
		widget.NewButton("Cancel tap", func() { s.CancelPendingTap() }),
		widget.NewButton("Ruler last two", func() {
			r, err := s.CreateRulerBetweenLastTwo()
			if err != nil {
				p.status.SetText(err.Error())
				return
			}
			p.status.SetText("Ruler " + r.Label())
		}),
		widget.NewButton("Clear rulers", func() { s.ClearAllRulers() }),
		widget.NewButton("Fragment plan", func() {
			placed, err := s.ApplyFragmentPlan(p.c.Plan)
			if err != nil {
				p.status.SetText(err.Error())
				return
			}
			p.status.SetText(fmt.Sprintf("Placed %d planned slice(s)", len(placed)))
		}),
		widget.NewButton("Reset view", func() { p.view.ResetCamera() }),
	)

	panel := container.NewVBox(
		widget.NewLabelWithStyle(p.c.Name, fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		widget.NewSeparator(),
		widget.NewLabel("Tap target:"),
		p.active,
		widget.NewLabel("Parts:"),
		partRows,
		widget.NewSeparator(),
		widget.NewLabel("Tap mode:"),
		p.tapMode,
		rulerMode,
		p.rulerCheck,
		buttons,
		widget.NewSeparator(),
		p.planInfo,
		p.rulerList,
		widget.NewSeparator(),
		p.status,
	)

	infoScroll := container.NewVScroll(panel)
	infoScroll.SetMinSize(fyne.NewSize(320, 0))

	p.refresh(frame)
	return container.NewBorder(nil, nil, nil, infoScroll, p.view)
}

func (p *Planner) partRow(state session.PartState) fyne.CanvasObject {
	s := p.ws.Session
	visible := widget.NewCheck("visible", func(on bool) {
		if err := s.SetPartVisible(state.Part, on); err != nil {
			p.status.SetText(err.Error())
		}
	})
	visible.Checked = state.Visible
	translucent := widget.NewCheck("translucent", func(on bool) {
		if err := s.SetPartOpacity(state.Part, on); err != nil {
			p.status.SetText(err.Error())
		}
	})
	translucent.Checked = state.Translucent()
	return container.NewHBox(widget.NewLabel(state.Part.String()), visible, translucent)
}

// refresh redraws the scene and the plan summary; runs on the fyne thread
func (p *Planner) refresh(frame session.Frame) {
	p.view.SetScene(planview.Build(p.ws.Graph, p.style))

	info := fmt.Sprintf("Markers: %d\nTap: %s", len(frame.Markers), frame.TapState)
	if frame.RulerMode {
		info += "\nRuler mode: tap near a marker, then the end point"
	}
	p.planInfo.SetText(info)

	var rulers []string
	for i, r := range frame.Rulers {
		rulers = append(rulers, fmt.Sprintf("Ruler %d: %s", i+1, r.Label()))
	}
	p.rulerList.SetText(strings.Join(rulers, "\n"))

	if p.rulerCheck != nil && p.rulerCheck.Checked != frame.RulersVisible {
		p.rulerCheck.Checked = frame.RulersVisible
		p.rulerCheck.Refresh()
	}
}

func (p *Planner) report(out session.Outcome) {
	switch out.Kind {
	case session.OutcomeMarkerPlaced:
		p.status.SetText("Marker at " + analysis.FormatVector(out.Marker.Position))
	case session.OutcomePending:
		p.status.SetText("First tap stored, tap again")
	case session.OutcomeRulerStart:
		p.status.SetText("Ruler start selected")
	case session.OutcomeRulerCreated:
		p.status.SetText("Ruler " + out.Ruler.Label())
	default:
		if out.Err != nil {
			p.status.SetText(out.Err.Error())
		}
	}
}

// watch reloads the case meshes when one of their files changes
func (p *Planner) watch(ctx context.Context) error {
	files, err := loader.Sources(p.c)
	if err != nil {
		return err
	}
	fw, err := watcher.NewFileWatcher(500*time.Millisecond, p.app.logger)
	if err != nil {
		return err
	}
	if err := fw.Watch(files...); err != nil {
		fw.Close()
		return err
	}

	go func() {
		defer fw.Close()
		err := fw.Run(ctx, func(path string) {
			loaded, err := loader.LoadCase(ctx, p.c, p.app.logger)
			fyne.Do(func() {
				if err != nil {
					p.status.SetText("Reload failed: " + err.Error())
					return
				}
				n := p.ws.Reload(loaded)
				p.status.SetText(fmt.Sprintf("Reloaded %d part(s) after %s changed", n, path))
			})
		})
		if err != nil && ctx.Err() == nil {
			p.app.logger.Error("file watcher stopped", "error", err)
		}
	}()
	return nil
}

// Close stops observing the session and watching files
func (p *Planner) Close() {
	p.unsubscribe()
	p.cancel()
}
