// Package config reads planner settings and case definitions from gcfg (INI style) files.
//
//	[planner]
//	realWorldScale = 100
//	tapMode = two
//
//	[case "patient-01"]
//	description = left mandible resection
//	part = mandible:models/mandibula.stl
//	part = maxilla:models/maxilla.stl
//	fragmentOrientation = x
//	slice = 0.2 0 10 0
//	slice = 0.5 0 -10 0
package config

import (
	"fmt"
	"math"
	"path/filepath"
	"slices"
	"strings"

	"gopkg.in/gcfg.v1"

	"github.com/yosuahres/developmentVRSkripsi/internal/fragment"
	"github.com/yosuahres/developmentVRSkripsi/internal/part"
	"github.com/yosuahres/developmentVRSkripsi/internal/ruler"
	"github.com/yosuahres/developmentVRSkripsi/internal/session"
	"github.com/yosuahres/developmentVRSkripsi/internal/tapphase"
)

// PlannerConfig is the [planner] section
type PlannerConfig struct {
	RealWorldScale     float64
	TapMode            string
	SurfaceOffset      float64
	SpawnRadius        float64
	TranslucentOpacity float64
	// ModelScale converts STL units to scene units; zero means 1/RealWorldScale
	ModelScale float64
}

// CaseConfig is one [case "name"] section
type CaseConfig struct {
	Description         string
	Part                []string
	FragmentOrientation string
	Slice               []string

	// filled by CheckInit
	Name  string
	Parts []PartFile
	Plan  fragment.Plan
}

// PartFile is a model path tagged with its anatomical part
type PartFile struct {
	Part part.Part
	Path string
}

// File is the whole configuration file
type File struct {
	Planner PlannerConfig
	Case    map[string]*CaseConfig
}

// Default returns a configuration without cases
func Default() *File {
	d := session.DefaultConfig()
	return &File{
		Planner: PlannerConfig{
			RealWorldScale:     d.RealWorldScale,
			TapMode:            "single",
			SurfaceOffset:      d.SurfaceOffset,
			SpawnRadius:        d.SpawnRadius,
			TranslucentOpacity: d.TranslucentOpacity,
		},
	}
}

// CheckInit validates the planner section and fills derived defaults
func (p *PlannerConfig) CheckInit() error {
	if p.RealWorldScale <= 0 || math.IsNaN(p.RealWorldScale) {
		return fmt.Errorf("realWorldScale must be positive, but is %g", p.RealWorldScale)
	}
	if _, err := tapphase.ParseMode(p.TapMode); err != nil {
		return err
	}
	if p.SurfaceOffset < 0 {
		return fmt.Errorf("surfaceOffset must not be negative, but is %g", p.SurfaceOffset)
	}
	if p.SpawnRadius < 0 {
		return fmt.Errorf("spawnRadius must not be negative, but is %g", p.SpawnRadius)
	}
	if p.TranslucentOpacity <= 0 || p.TranslucentOpacity > 1 {
		return fmt.Errorf("translucentOpacity must be in range (0, 1], but is %g", p.TranslucentOpacity)
	}
	if p.ModelScale < 0 {
		return fmt.Errorf("modelScale must not be negative, but is %g", p.ModelScale)
	}
	if p.ModelScale == 0 {
		p.ModelScale = 1 / p.RealWorldScale
	}
	return nil
}

// Session converts the planner section to session settings
func (p PlannerConfig) Session() session.Config {
	mode, _ := tapphase.ParseMode(p.TapMode)
	scale := p.RealWorldScale
	if scale <= 0 {
		scale = ruler.DefaultRealWorldScale
	}
	return session.Config{
		RealWorldScale:     scale,
		TapMode:            mode,
		SurfaceOffset:      p.SurfaceOffset,
		SpawnRadius:        p.SpawnRadius,
		TranslucentOpacity: p.TranslucentOpacity,
	}
}

// CheckInit validates a case section. Relative part paths are resolved against dir.
func (c *CaseConfig) CheckInit(name, dir string) error {
	c.Name = name
	c.Parts = c.Parts[:0]

	seen := make(map[part.Part]bool)
	for _, entry := range c.Part {
		pf, err := ParsePart(entry)
		if err != nil {
			return fmt.Errorf("case '%s': %w", name, err)
		}
		if seen[pf.Part] {
			return fmt.Errorf("case '%s' lists %s twice", name, pf.Part)
		}
		seen[pf.Part] = true
		if dir != "" && !filepath.IsAbs(pf.Path) {
			pf.Path = filepath.Join(dir, pf.Path)
		}
		c.Parts = append(c.Parts, pf)
	}
	if len(c.Parts) == 0 {
		return fmt.Errorf("case '%s' needs at least one part", name)
	}

	axis := fragment.AxisX
	if c.FragmentOrientation != "" {
		var ok bool
		if axis, ok = fragment.ParseAxis(c.FragmentOrientation); !ok {
			return fmt.Errorf("case '%s' has unknown fragmentOrientation %q", name, c.FragmentOrientation)
		}
	}

	cuts := make([]fragment.Slice, 0, len(c.Slice))
	for _, entry := range c.Slice {
		s, err := fragment.ParseSlice(entry)
		if err != nil {
			return fmt.Errorf("case '%s': %w", name, err)
		}
		cuts = append(cuts, s)
	}
	plan, err := fragment.Pair(axis, cuts)
	if err != nil {
		return fmt.Errorf("case '%s': %w", name, err)
	}
	c.Plan = plan
	return nil
}

// ParsePart parses "<part>:<path>"
func ParsePart(s string) (PartFile, error) {
	name, path, ok := strings.Cut(s, ":")
	if !ok || strings.TrimSpace(path) == "" {
		return PartFile{}, fmt.Errorf("part entry %q must look like <part>:<path>", s)
	}
	p, err := part.Parse(name)
	if err != nil {
		return PartFile{}, err
	}
	return PartFile{Part: p, Path: strings.TrimSpace(path)}, nil
}

// CheckInit validates every section
func (f *File) CheckInit(dir string) error {
	if err := f.Planner.CheckInit(); err != nil {
		return fmt.Errorf("[planner]: %w", err)
	}
	for name, c := range f.Case {
		if err := c.CheckInit(name, dir); err != nil {
			return err
		}
	}
	return nil
}

// Cases returns the cases sorted by name
func (f *File) Cases() []*CaseConfig {
	out := make([]*CaseConfig, 0, len(f.Case))
	for _, c := range f.Case {
		out = append(out, c)
	}
	slices.SortFunc(out, func(a, b *CaseConfig) int {
		return strings.Compare(a.Name, b.Name)
	})
	return out
}

// FindCase looks a case up by name
func (f *File) FindCase(name string) (*CaseConfig, error) {
	c, ok := f.Case[name]
	if !ok {
		return nil, fmt.Errorf("case %q not found", name)
	}
	return c, nil
}

// Read loads fname over the defaults
func Read(fname string) (*File, error) {
	f := Default()
	if err := gcfg.ReadFileInto(f, fname); err != nil {
		return nil, fmt.Errorf("failed to read config %s: %w", fname, err)
	}
	if err := f.CheckInit(filepath.Dir(fname)); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", fname, err)
	}
	return f, nil
}

// ReadString parses an in-memory configuration; part paths stay as written
func ReadString(s string) (*File, error) {
	f := Default()
	if err := gcfg.ReadStringInto(f, s); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := f.CheckInit(""); err != nil {
		return nil, err
	}
	return f, nil
}

// SingleModel wraps one model path given on the command line as a case
func SingleModel(path string) *CaseConfig {
	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return &CaseConfig{
		Name:  name,
		Parts: []PartFile{{Part: part.Mandible, Path: path}},
		Plan:  fragment.Plan{Axis: fragment.AxisX},
	}
}
