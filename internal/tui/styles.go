package tui

import "github.com/charmbracelet/lipgloss"

// Styles holds the reader's lipgloss styles.
type Styles struct {
	Title   lipgloss.Style
	Meta    lipgloss.Style
	Heading lipgloss.Style
	Code    lipgloss.Style
	Media   lipgloss.Style
	Sidebar lipgloss.Style
	TOC     lipgloss.Style
	Active  lipgloss.Style
	Help    lipgloss.Style
	Error   lipgloss.Style
}

// DefaultStyles returns the default palette.
func DefaultStyles() *Styles {
	var (
		primary = lipgloss.Color("#7C3AED")
		accent  = lipgloss.Color("#06B6D4")
		muted   = lipgloss.Color("#6C7086")
		fg      = lipgloss.Color("#CDD6F4")
		border  = lipgloss.Color("#45475A")
		failure = lipgloss.Color("#F38BA8")
	)
	return &Styles{
		Title:   lipgloss.NewStyle().Bold(true).Foreground(primary),
		Meta:    lipgloss.NewStyle().Foreground(muted),
		Heading: lipgloss.NewStyle().Bold(true).Foreground(accent),
		Code:    lipgloss.NewStyle().Foreground(muted),
		Media:   lipgloss.NewStyle().Italic(true).Foreground(primary),
		Sidebar: lipgloss.NewStyle().
			BorderStyle(lipgloss.NormalBorder()).
			BorderLeft(true).
			BorderForeground(border).
			PaddingLeft(1),
		TOC:    lipgloss.NewStyle().Foreground(fg),
		Active: lipgloss.NewStyle().Bold(true).Foreground(fg).Background(primary),
		Help:   lipgloss.NewStyle().Foreground(muted),
		Error:  lipgloss.NewStyle().Foreground(failure),
	}
}

func (s *Styles) line(l Line) string {
	switch l.Kind {
	case LineHeading:
		return s.Heading.Render(l.Text)
	case LineCode:
		return s.Code.Render(l.Text)
	case LineMedia:
		return s.Media.Render(l.Text)
	default:
		return l.Text
	}
}
