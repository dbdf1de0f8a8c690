package preview

import "github.com/charmbracelet/lipgloss"

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7dd3fc"))
	mutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#64748b"))

	cardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#334155")).
			Padding(0, 1)
	cardTitleStyle = lipgloss.NewStyle().Bold(true)
	tagStyle       = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#e2e8f0")).
			Background(lipgloss.Color("#1e293b")).
			Padding(0, 1)

	dotActive   = lipgloss.NewStyle().Foreground(lipgloss.Color("#38bdf8")).Render("●")
	dotInactive = lipgloss.NewStyle().Foreground(lipgloss.Color("#475569")).Render("○")
)
