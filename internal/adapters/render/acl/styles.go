package acl

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/ht101996/tomahawk/internal/domain"
)

type styles struct {
	title    lipgloss.Style
	header   lipgloss.Style
	identity lipgloss.Style
	detail   lipgloss.Style
	label    lipgloss.Style
	section  lipgloss.Style
	empty    lipgloss.Style
	denied   lipgloss.Style
	asked    lipgloss.Style
	granted  lipgloss.Style
	pending  lipgloss.Style
}

func newStyles() styles {
	return styles{
		title:    lipgloss.NewStyle().Bold(true),
		header:   lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		identity: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39")),
		detail:   lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		label:    lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
		section:  lipgloss.NewStyle().MarginTop(1),
		empty:    lipgloss.NewStyle().Faint(true),
		denied:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("203")),
		asked:    lipgloss.NewStyle().Foreground(lipgloss.Color("221")),
		granted:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("114")),
		pending:  lipgloss.NewStyle().Faint(true),
	}
}

func (s styles) decision(decision domain.Decision) lipgloss.Style {
	switch decision {
	case domain.DecisionDeny:
		return s.denied
	case domain.DecisionAsk:
		return s.asked
	case domain.DecisionAllowStream, domain.DecisionAllowAll:
		return s.granted
	default:
		return s.pending
	}
}
