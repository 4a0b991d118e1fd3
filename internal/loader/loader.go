// Package loader reads the meshes of a case in the background, once.
package loader

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/yosuahres/developmentVRSkripsi/internal/config"
	"github.com/yosuahres/developmentVRSkripsi/internal/part"
	"github.com/yosuahres/developmentVRSkripsi/pkg/openscad"
	"github.com/yosuahres/developmentVRSkripsi/pkg/stl"
)

// ErrUnsupportedFile is returned for parts that are neither STL nor OpenSCAD
var ErrUnsupportedFile = errors.New("unsupported file type (expected .stl or .scad)")

// State is the progress of a load
type State int

const (
	NotStarted State = iota
	InProgress
	Loaded
	Failed
)

func (s State) String() string {
	switch s {
	case InProgress:
		return "in progress"
	case Loaded:
		return "loaded"
	case Failed:
		return "failed"
	default:
		return "not started"
	}
}

// Part is one loaded mesh of a case
type Part struct {
	Part  part.Part
	Path  string
	Model *stl.Model
}

// Case is a fully loaded case
type Case struct {
	Name  string
	Parts []Part
}

// Sources lists the files a case depends on, including OpenSCAD includes
func Sources(c *config.CaseConfig) ([]string, error) {
	var out []string
	for _, pf := range c.Parts {
		if !openscad.IsSource(pf.Path) {
			out = append(out, pf.Path)
			continue
		}
		deps, err := openscad.NewRenderer(filepath.Dir(pf.Path)).ResolveDependencies(pf.Path)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve dependencies: %w", err)
		}
		out = append(out, deps...)
	}
	return out, nil
}

// LoadPart reads one STL or OpenSCAD part
func LoadPart(ctx context.Context, pf config.PartFile, logger *slog.Logger) (Part, error) {
	switch strings.ToLower(filepath.Ext(pf.Path)) {
	case ".stl":
		model, err := stl.Parse(pf.Path)
		if err != nil {
			return Part{}, fmt.Errorf("failed to parse STL file: %w", err)
		}
		return Part{Part: pf.Part, Path: pf.Path, Model: model}, nil
	case ".scad":
		r := openscad.NewRenderer(filepath.Dir(pf.Path), openscad.WithLogger(logger))
		model, err := r.Render(ctx, pf.Path)
		if err != nil {
			return Part{}, fmt.Errorf("failed to render OpenSCAD file: %w", err)
		}
		return Part{Part: pf.Part, Path: pf.Path, Model: model}, nil
	default:
		return Part{}, fmt.Errorf("%s: %w", pf.Path, ErrUnsupportedFile)
	}
}

// LoadCase reads every part of c concurrently, keeping the configured order
func LoadCase(ctx context.Context, c *config.CaseConfig, logger *slog.Logger) (*Case, error) {
	if logger == nil {
		logger = slog.Default()
	}
	parts := make([]Part, len(c.Parts))

	g, ctx := errgroup.WithContext(ctx)
	for i, pf := range c.Parts {
		g.Go(func() error {
			p, err := LoadPart(ctx, pf, logger)
			if err != nil {
				return fmt.Errorf("%s: %w", pf.Part, err)
			}
			logger.Debug("part loaded", "case", c.Name, "part", pf.Part, "triangles", p.Model.TriangleCount())
			parts[i] = p
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to load case %s: %w", c.Name, err)
	}
	return &Case{Name: c.Name, Parts: parts}, nil
}

// Loader loads one case at most once; later Start calls are no-ops
type Loader struct {
	c      *config.CaseConfig
	logger *slog.Logger

	once   sync.Once
	done   chan struct{}
	mu     sync.Mutex
	state  State
	result *Case
	err    error
}

// New creates a loader for c
func New(c *config.CaseConfig, logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{c: c, logger: logger, done: make(chan struct{})}
}

// Start begins loading in the background. It reports whether this call started the load.
func (l *Loader) Start(ctx context.Context) bool {
	started := false
	l.once.Do(func() {
		started = true
		l.mu.Lock()
		l.state = InProgress
		l.mu.Unlock()

		go func() {
			begin := time.Now()
			result, err := LoadCase(ctx, l.c, l.logger)

			l.mu.Lock()
			if err != nil {
				l.state, l.err = Failed, err
				l.logger.Error("case load failed", "case", l.c.Name, "error", err)
			} else {
				l.state, l.result = Loaded, result
				l.logger.Info("case loaded", "case", l.c.Name, "parts", len(result.Parts), "elapsed", time.Since(begin))
			}
			l.mu.Unlock()
			close(l.done)
		}()
	})
	return started
}

// State returns the current state
func (l *Loader) State() State {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state
}

// Done is closed when the load has finished either way
func (l *Loader) Done() <-chan struct{} {
	return l.done
}

// Result returns the loaded case, or the failure reason once Failed
func (l *Loader) Result() (*Case, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	switch l.state {
	case Loaded:
		return l.result, nil
	case Failed:
		return nil, l.err
	default:
		return nil, fmt.Errorf("case %s is %s", l.c.Name, l.state)
	}
}

// Wait starts the load if needed and blocks until it finishes or ctx is done
func (l *Loader) Wait(ctx context.Context) (*Case, error) {
	l.Start(ctx)
	select {
	case <-l.done:
		return l.Result()
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
