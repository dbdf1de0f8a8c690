package carousel

import (
	"errors"
	"fmt"
)

var (
	ErrNoBreakpoints     = errors.New("breakpoint table is empty")
	ErrBreakpointOrder   = errors.New("breakpoint min widths must be strictly ascending")
	ErrBreakpointVisible = errors.New("breakpoint visible count must be at least 1")
	ErrBreakpointWidth   = errors.New("breakpoint min width must not be negative")
	ErrUnknownMode       = errors.New("unknown loop mode")
)

// ConfigError reports a programmer error in the carousel configuration.
type ConfigError struct {
	Index int
	Err   error
}

func (e *ConfigError) Error() string {
	if e.Index < 0 {
		return fmt.Sprintf("carousel config: %v", e.Err)
	}
	return fmt.Sprintf("carousel config: breakpoint %d: %v", e.Index, e.Err)
}

func (e *ConfigError) Unwrap() error { return e.Err }

// Breakpoint maps a minimum viewport width to the number of items shown.
type Breakpoint struct {
	MinWidth int `toml:"min_width" json:"min_width"`
	Visible  int `toml:"visible" json:"visible"`
}

// Breakpoints is ordered ascending by MinWidth.
type Breakpoints []Breakpoint

// DefaultBreakpoints is the site layout: phones show one card, tablets two,
// desktops three.
var DefaultBreakpoints = Breakpoints{
	{MinWidth: 0, Visible: 1},
	{MinWidth: 640, Visible: 2},
	{MinWidth: 1024, Visible: 3},
}

// Validate checks the table is non-empty and strictly ascending.
func (b Breakpoints) Validate() error {
	if len(b) == 0 {
		return &ConfigError{Index: -1, Err: ErrNoBreakpoints}
	}
	for i, bp := range b {
		if bp.MinWidth < 0 {
			return &ConfigError{Index: i, Err: ErrBreakpointWidth}
		}
		if bp.Visible < 1 {
			return &ConfigError{Index: i, Err: ErrBreakpointVisible}
		}
		if i > 0 && bp.MinWidth <= b[i-1].MinWidth {
			return &ConfigError{Index: i, Err: ErrBreakpointOrder}
		}
	}
	return nil
}

// Resolve returns the visible count of the largest MinWidth <= width. Widths
// below the first entry use the first entry.
func (b Breakpoints) Resolve(width int) int {
	if len(b) == 0 {
		return 1
	}
	visible := b[0].Visible
	for _, bp := range b {
		if bp.MinWidth > width {
			break
		}
		visible = bp.Visible
	}
	if visible < 1 {
		return 1
	}
	return visible
}

// Mode selects how navigation stops are counted.
type Mode int

const (
	// ModeWindow stops at every sliding-window start: N - visible + 1 stops.
	ModeWindow Mode = iota
	// ModeItem stops at every item and wraps the visible slice: N stops.
	ModeItem
)

func (m Mode) String() string {
	switch m {
	case ModeItem:
		return "item"
	default:
		return "window"
	}
}

// ParseMode accepts "window" and "item". Empty means window.
func ParseMode(s string) (Mode, error) {
	switch s {
	case "", "window":
		return ModeWindow, nil
	case "item":
		return ModeItem, nil
	default:
		return ModeWindow, &ConfigError{Index: -1, Err: fmt.Errorf("%w %q", ErrUnknownMode, s)}
	}
}
