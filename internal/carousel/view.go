package carousel

// Slot is one visible item and its position in the full list.
type Slot[T Item] struct {
	Position int `json:"position"`
	Item     T   `json:"item"`
}

// View is a consistent snapshot for renderers. Every field is derived from
// the same locked state, so the dots always agree with the index.
type View[T Item] struct {
	Items        []T        `json:"items"`
	Window       []Slot[T]  `json:"window"`
	Index        int        `json:"index"`
	VisibleCount int        `json:"visible_count"`
	Width        int        `json:"width"`
	Stops        int        `json:"stops"`
	Dots         []Dot      `json:"dots"`
	Offset       float64    `json:"offset"`
	Transition   Transition `json:"transition"`
	Animating    bool       `json:"animating"`
	Dragging     bool       `json:"dragging"`
	DragOffset   float64    `json:"drag_offset"`
	Empty        bool       `json:"empty"`
	CanNavigate  bool       `json:"can_navigate"`
	Mode         string     `json:"mode"`
}

// View snapshots the carousel.
func (c *Carousel[T]) View() View[T] {
	c.mu.Lock()
	defer c.mu.Unlock()

	stops := c.stops()
	return View[T]{
		Items:        append([]T(nil), c.items...),
		Window:       c.window(),
		Index:        c.index,
		VisibleCount: c.visible,
		Width:        c.width,
		Stops:        stops,
		Dots:         c.dots(),
		Offset:       c.offset(),
		Transition:   c.transition,
		Animating:    c.animating(),
		Dragging:     c.dragging,
		DragOffset:   c.dragOffset,
		Empty:        len(c.items) == 0,
		CanNavigate:  stops > 1,
		Mode:         c.mode.String(),
	}
}

// Offset maps the index to a track translation, in percent of the viewport.
func (c *Carousel[T]) Offset() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.offset()
}

func (c *Carousel[T]) offset() float64 {
	if c.index == 0 {
		return 0
	}
	return -float64(c.index) * 100 / float64(c.visible)
}

// window returns [index, index+visible) in window mode. Item mode wraps
// around the end of the list.
func (c *Carousel[T]) window() []Slot[T] {
	n := len(c.items)
	if n == 0 {
		return nil
	}
	count := min(c.visible, n)
	slots := make([]Slot[T], 0, count)
	for k := 0; k < count; k++ {
		pos := c.index + k
		if c.mode == ModeItem {
			pos %= n
		} else if pos >= n {
			break
		}
		slots = append(slots, Slot[T]{Position: pos, Item: c.items[pos]})
	}
	return slots
}
