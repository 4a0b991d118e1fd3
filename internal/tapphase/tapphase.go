// Package tapphase decides when taps on a surface are enough to place a marker.
package tapphase

import (
	"fmt"
	"strings"

	"github.com/yosuahres/developmentVRSkripsi/internal/raycast"
)

// Mode selects how many taps place one marker
type Mode int

const (
	Single Mode = iota
	TwoTap
)

func (m Mode) String() string {
	if m == TwoTap {
		return "two"
	}
	return "single"
}

// ParseMode accepts "single" or "two"
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "single", "one", "1", "":
		return Single, nil
	case "two", "two-tap", "2":
		return TwoTap, nil
	}
	return Single, fmt.Errorf("unknown tap mode %q", s)
}

// State is the phase of the current placement
type State int

const (
	AwaitingFirstTap State = iota
	AwaitingSecondTap
)

func (s State) String() string {
	if s == AwaitingSecondTap {
		return "awaiting second tap"
	}
	return "awaiting first tap"
}

// Kind tells the caller what a tap produced
type Kind int

const (
	// Pending means the tap was stored and is shown as a dot
	Pending Kind = iota
	// Place means enough hits were collected to create a marker
	Place
)

// Result is the outcome of one tap
type Result struct {
	Kind Kind
	Hits []raycast.Hit
}

// Machine tracks the pending first hit of a two-tap placement
type Machine struct {
	mode    Mode
	state   State
	pending raycast.Hit
}

// New returns a machine awaiting its first tap
func New(mode Mode) *Machine {
	return &Machine{mode: mode}
}

// Mode returns the current mode
func (m *Machine) Mode() Mode {
	return m.mode
}

// State returns the current phase
func (m *Machine) State() State {
	return m.state
}

// SetMode switches mode and discards any pending hit
func (m *Machine) SetMode(mode Mode) {
	m.mode = mode
	m.Cancel()
}

// Pending returns the stored first hit, if any
func (m *Machine) Pending() (raycast.Hit, bool) {
	if m.state != AwaitingSecondTap {
		return raycast.Hit{}, false
	}
	return m.pending, true
}

// Tap feeds one surface hit into the machine
func (m *Machine) Tap(hit raycast.Hit) Result {
	if m.mode == Single {
		m.Cancel()
		return Result{Kind: Place, Hits: []raycast.Hit{hit}}
	}

	if m.state == AwaitingFirstTap {
		m.pending = hit
		m.state = AwaitingSecondTap
		return Result{Kind: Pending, Hits: []raycast.Hit{hit}}
	}

	first := m.pending
	m.Cancel()
	return Result{Kind: Place, Hits: []raycast.Hit{first, hit}}
}

// Cancel returns to AwaitingFirstTap; calling it repeatedly is harmless
func (m *Machine) Cancel() {
	m.state = AwaitingFirstTap
	m.pending = raycast.Hit{}
}
