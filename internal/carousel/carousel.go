package carousel

import (
	"fmt"
	"math"
	"sync"
	"time"
)

const (
	DefaultTransition    = 450 * time.Millisecond
	DefaultDragThreshold = 0.25
)

// Item is one slot of the carousel. Key must be unique within an instance; the
// carousel uses it to follow an item across list replacements.
type Item interface {
	Key() string
}

// Transition describes the in-flight move between two stops.
type Transition struct {
	From     int           `json:"from"`
	To       int           `json:"to"`
	Started  time.Time     `json:"started"`
	Duration time.Duration `json:"duration"`
}

// Dot is one pagination indicator.
type Dot struct {
	Index  int  `json:"index"`
	Active bool `json:"active"`
}

type options struct {
	mode       Mode
	transition time.Duration
	threshold  float64
	now        func() time.Time
}

// Setting configures a carousel at construction.
type Setting func(*options)

func WithMode(m Mode) Setting {
	return func(o *options) { o.mode = m }
}

func WithTransition(d time.Duration) Setting {
	return func(o *options) { o.transition = d }
}

// WithDragThreshold sets the fraction of one card a drag must exceed to step.
func WithDragThreshold(f float64) Setting {
	return func(o *options) { o.threshold = f }
}

func WithClock(now func() time.Time) Setting {
	return func(o *options) { o.now = now }
}

// Carousel is a window over items that shows VisibleCount of them at a time.
// All methods are safe for concurrent use.
type Carousel[T Item] struct {
	mu          sync.Mutex
	items       []T
	breakpoints Breakpoints
	mode        Mode
	duration    time.Duration
	threshold   float64
	now         func() time.Time

	width      int
	visible    int
	index      int
	transition Transition
	dragging   bool
	dragOffset float64
}

// New builds a carousel for the given viewport width. The breakpoint table is
// validated here; an invalid table is a configuration error.
func New[T Item](items []T, breakpoints Breakpoints, width int, settings ...Setting) (*Carousel[T], error) {
	if err := breakpoints.Validate(); err != nil {
		return nil, err
	}
	o := options{
		mode:       ModeWindow,
		transition: DefaultTransition,
		threshold:  DefaultDragThreshold,
		now:        time.Now,
	}
	for _, s := range settings {
		s(&o)
	}
	if o.mode != ModeWindow && o.mode != ModeItem {
		return nil, &ConfigError{Index: -1, Err: fmt.Errorf("%w %d", ErrUnknownMode, int(o.mode))}
	}
	if o.threshold <= 0 || o.threshold > 1 || math.IsNaN(o.threshold) {
		return nil, &ConfigError{Index: -1, Err: fmt.Errorf("drag threshold %v outside (0, 1]", o.threshold)}
	}
	if o.transition < 0 {
		o.transition = 0
	}

	bps := make(Breakpoints, len(breakpoints))
	copy(bps, breakpoints)
	return &Carousel[T]{
		items:       append([]T(nil), items...),
		breakpoints: bps,
		mode:        o.mode,
		duration:    o.transition,
		threshold:   o.threshold,
		now:         o.now,
		width:       width,
		visible:     bps.Resolve(width),
	}, nil
}

// Resize recomputes the visible count and re-clamps the index so the window
// never reads past the end. It reports whether the visible count changed.
func (c *Carousel[T]) Resize(width int) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.width = width
	visible := c.breakpoints.Resolve(width)
	if visible == c.visible {
		return false
	}
	c.visible = visible
	if clamped := c.clamp(c.index); clamped != c.index {
		c.index = clamped
		c.transition = Transition{}
	}
	return true
}

// Next advances one stop, wrapping to the first. It is a no-op when every
// item already fits.
func (c *Carousel[T]) Next() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.step(1)
}

// Prev retreats one stop, wrapping to the last.
func (c *Carousel[T]) Prev() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.step(-1)
}

// GoTo moves to index after clamping it into the reachable stops.
func (c *Carousel[T]) GoTo(index int) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.items) == 0 {
		return false
	}
	return c.move(c.clamp(index))
}

// BeginDrag marks a drag in progress. Positions reported while dragging are
// visual only.
func (c *Carousel[T]) BeginDrag() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.items) == 0 {
		return
	}
	c.dragging = true
	c.dragOffset = 0
}

func (c *Carousel[T]) DragMove(deltaPx float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.dragging {
		c.dragOffset = deltaPx
	}
}

// CancelDrag abandons a drag without committing a step, for gestures whose
// release never arrives. It reports whether a drag was in progress.
func (c *Carousel[T]) CancelDrag() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	was := c.dragging
	c.dragging = false
	c.dragOffset = 0
	return was
}

// DragRelease ends a drag and commits at most one step. The drag must cover
// more than the threshold fraction of one card; a swipe to the left (negative
// delta) moves forward. It returns the step taken: -1, 0 or 1.
func (c *Carousel[T]) DragRelease(deltaPx, viewportPx float64) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.dragging = false
	c.dragOffset = 0
	if viewportPx <= 0 || math.IsNaN(deltaPx) || c.stops() <= 1 {
		return 0
	}
	card := viewportPx / float64(c.visible)
	if math.Abs(deltaPx)/card <= c.threshold {
		return 0
	}
	if deltaPx < 0 {
		if c.step(1) {
			return 1
		}
		return 0
	}
	if c.step(-1) {
		return -1
	}
	return 0
}

// SetItems replaces the list. The leading item is kept in place when its key
// survives the replacement; otherwise the index is clamped.
func (c *Carousel[T]) SetItems(items []T) {
	c.mu.Lock()
	defer c.mu.Unlock()

	target := c.index
	if c.index < len(c.items) {
		key := c.items[c.index].Key()
		for i, it := range items {
			if it.Key() == key {
				target = i
				break
			}
		}
	}
	c.items = append([]T(nil), items...)
	c.transition = Transition{}
	c.dragging = false
	c.dragOffset = 0
	c.index = c.clamp(target)
}

func (c *Carousel[T]) Index() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.index
}

func (c *Carousel[T]) VisibleCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.visible
}

func (c *Carousel[T]) Width() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.width
}

func (c *Carousel[T]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

func (c *Carousel[T]) Mode() Mode { return c.mode }

// Stops is the number of distinct values the index can take.
func (c *Carousel[T]) Stops() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stops()
}

// Dots derives the pagination indicators. len(Dots()) == Stops() always.
func (c *Carousel[T]) Dots() []Dot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.dots()
}

func (c *Carousel[T]) Animating() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.animating()
}

func (c *Carousel[T]) Dragging() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.dragging
}

func (c *Carousel[T]) stops() int {
	n := len(c.items)
	switch {
	case n == 0:
		return 0
	case n <= c.visible:
		return 1
	case c.mode == ModeItem:
		return n
	default:
		return n - c.visible + 1
	}
}

func (c *Carousel[T]) clamp(index int) int {
	maxIndex := c.stops() - 1
	if index > maxIndex {
		index = maxIndex
	}
	if index < 0 {
		index = 0
	}
	return index
}

func (c *Carousel[T]) step(delta int) bool {
	if len(c.items) <= c.visible {
		return false
	}
	stops := c.stops()
	return c.move(((c.index+delta)%stops + stops) % stops)
}

// move retargets any in-flight transition instead of queueing another one.
func (c *Carousel[T]) move(to int) bool {
	if to == c.index {
		return false
	}
	c.transition = Transition{
		From:     c.index,
		To:       to,
		Started:  c.now(),
		Duration: c.duration,
	}
	c.index = to
	return true
}

func (c *Carousel[T]) animating() bool {
	t := c.transition
	if t.Started.IsZero() || t.Duration <= 0 {
		return false
	}
	return c.now().Before(t.Started.Add(t.Duration))
}

func (c *Carousel[T]) dots() []Dot {
	stops := c.stops()
	dots := make([]Dot, stops)
	for i := range dots {
		dots[i] = Dot{Index: i, Active: i == c.index}
	}
	return dots
}
