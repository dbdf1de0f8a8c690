package preview

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/phaisonvs/portfolio-phaison-sub001/internal/carousel"
	"github.com/phaisonvs/portfolio-phaison-sub001/internal/store"
)

// Options configures the preview. Breakpoint widths are terminal columns.
type Options struct {
	Breakpoints      carousel.Breakpoints
	Mode             carousel.Mode
	DragThreshold    float64
	AutoplayInterval time.Duration
}

const minCardWidth = 16

type flushMsg struct{}

type autoplayMsg time.Time

// Model is the Bubble Tea model wrapping one carousel.
type Model struct {
	carousel *carousel.Carousel[store.Project]
	keys     keyMap
	help     help.Model
	interval time.Duration

	width    int
	height   int
	pending  int
	flushing bool

	paused    bool
	dragStart int
}

// New builds a preview model over projects. The carousel starts at width 0
// until the terminal reports its size.
func New(projects []store.Project, opts Options) (Model, error) {
	bps := opts.Breakpoints
	if len(bps) == 0 {
		bps = carousel.DefaultBreakpoints
	}
	settings := []carousel.Setting{carousel.WithMode(opts.Mode)}
	if opts.DragThreshold > 0 {
		settings = append(settings, carousel.WithDragThreshold(opts.DragThreshold))
	}
	c, err := carousel.New(projects, bps, 0, settings...)
	if err != nil {
		return Model{}, err
	}
	return Model{
		carousel: c,
		keys:     defaultKeyMap(),
		help:     help.New(),
		interval: opts.AutoplayInterval,
	}, nil
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return m.autoplayCmd()
}

func (m Model) autoplayCmd() tea.Cmd {
	if m.interval <= 0 {
		return nil
	}
	return tea.Tick(m.interval, func(t time.Time) tea.Msg {
		return autoplayMsg(t)
	})
}

func flushCmd() tea.Cmd {
	return tea.Tick(carousel.DefaultFrame, func(time.Time) tea.Msg {
		return flushMsg{}
	})
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		// Resizes within one frame collapse into the last width.
		m.height = msg.Height
		m.pending = msg.Width
		if m.flushing {
			return m, nil
		}
		m.flushing = true
		return m, flushCmd()

	case flushMsg:
		m.flushing = false
		m.width = m.pending
		m.help.Width = m.width
		m.carousel.Resize(m.width)
		return m, nil

	case autoplayMsg:
		if !m.paused && !m.carousel.Dragging() {
			m.carousel.Next()
		}
		return m, m.autoplayCmd()

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		m.handleMouse(msg)
		return m, nil
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Prev):
		m.carousel.Prev()
	case key.Matches(msg, m.keys.Next):
		m.carousel.Next()
	case key.Matches(msg, m.keys.GoTo):
		n, err := strconv.Atoi(msg.String())
		if err == nil {
			m.carousel.GoTo(n - 1)
		}
	case key.Matches(msg, m.keys.Autoplay):
		m.paused = !m.paused
	}
	return m, nil
}

func (m *Model) handleMouse(msg tea.MouseMsg) {
	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft {
			return
		}
		m.dragStart = msg.X
		m.carousel.BeginDrag()
	case tea.MouseActionMotion:
		if m.carousel.Dragging() {
			m.carousel.DragMove(float64(msg.X - m.dragStart))
		}
	case tea.MouseActionRelease:
		if m.carousel.Dragging() {
			m.carousel.DragRelease(float64(msg.X-m.dragStart), float64(m.width))
		}
	}
}

// View implements tea.Model.
func (m Model) View() string {
	v := m.carousel.View()
	var b strings.Builder

	status := "autoplay on"
	if m.paused || m.interval <= 0 {
		status = "autoplay off"
	}
	header := titleStyle.Render("Featured projects")
	if !v.Empty {
		header += mutedStyle.Render(fmt.Sprintf("  %d/%d · %s", v.Index+1, v.Stops, status))
	}
	b.WriteString(header + "\n\n")

	if v.Empty {
		b.WriteString(mutedStyle.Render("No projects to show yet.") + "\n\n")
		b.WriteString(m.help.View(m.keys))
		return b.String()
	}

	cardWidth := max(m.width/max(v.VisibleCount, 1), minCardWidth)
	cards := make([]string, 0, len(v.Window))
	for _, slot := range v.Window {
		cards = append(cards, renderCard(slot.Item, cardWidth))
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, cards...) + "\n\n")

	if v.CanNavigate {
		dots := make([]string, 0, len(v.Dots))
		for _, d := range v.Dots {
			if d.Active {
				dots = append(dots, dotActive)
			} else {
				dots = append(dots, dotInactive)
			}
		}
		b.WriteString(strings.Join(dots, " ") + "\n\n")
	}
	b.WriteString(m.help.View(m.keys))
	return b.String()
}

func renderCard(p store.Project, width int) string {
	// Border takes one column on each side.
	inner := width - 2
	var tags []string
	for _, t := range p.Tags {
		tags = append(tags, tagStyle.Render(t))
	}
	body := lipgloss.JoinVertical(lipgloss.Left,
		cardTitleStyle.Render(p.Title),
		"",
		p.Description,
		"",
		strings.Join(tags, " "),
	)
	return cardStyle.Width(inner).Render(body)
}

// Index reports the carousel position.
func (m Model) Index() int { return m.carousel.Index() }

// VisibleCount reports how many cards fit the current width.
func (m Model) VisibleCount() int { return m.carousel.VisibleCount() }

// Run starts the preview and blocks until the user quits or ctx is done.
func Run(ctx context.Context, projects []store.Project, opts Options) error {
	m, err := New(projects, opts)
	if err != nil {
		return err
	}
	p := tea.NewProgram(m,
		tea.WithContext(ctx),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)
	if _, err := p.Run(); err != nil && ctx.Err() == nil {
		return err
	}
	return nil
}
