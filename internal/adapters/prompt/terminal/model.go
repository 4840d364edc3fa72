package terminal

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/ht101996/tomahawk/internal/domain"
)

type choice struct {
	key      string
	label    string
	decision domain.Decision
}

var choices = []choice{
	{key: "a", label: "allow all", decision: domain.DecisionAllowAll},
	{key: "s", label: "allow streaming", decision: domain.DecisionAllowStream},
	{key: "k", label: "ask every time", decision: domain.DecisionAsk},
	{key: "d", label: "deny", decision: domain.DecisionDeny},
}

type styles struct {
	title  lipgloss.Style
	peer   lipgloss.Style
	label  lipgloss.Style
	detail lipgloss.Style
	key    lipgloss.Style
	hint   lipgloss.Style
}

func newStyles() styles {
	return styles{
		title:  lipgloss.NewStyle().Bold(true),
		peer:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39")),
		label:  lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
		detail: lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		key:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("69")),
		hint:   lipgloss.NewStyle().Faint(true),
	}
}

type model struct {
	identity    domain.Identity
	transportID string
	accountID   string
	styles      styles

	decision domain.Decision
	done     bool
}

func newModel(identity domain.Identity, transportID, accountID string) model {
	return model{
		identity:    identity,
		transportID: transportID,
		accountID:   accountID,
		styles:      newStyles(),
	}
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch key := strings.ToLower(keyMsg.String()); key {
	case "esc", "ctrl+c", "q":
		m.decision = domain.DecisionUndecided
		m.done = true
		return m, tea.Quit
	default:
		for _, c := range choices {
			if c.key == key {
				m.decision = c.decision
				m.done = true
				return m, tea.Quit
			}
		}
		return m, nil
	}
}

func (m model) View() string {
	if m.done {
		return ""
	}

	s := m.styles
	who := m.accountID
	if who == "" {
		who = m.identity.DisplayName()
	}

	lines := []string{
		s.title.Render("Access request"),
		s.peer.Render(who) + s.detail.Render(" wants to access your collection"),
		s.label.Render("transport: ") + s.detail.Render(valueOrNone(m.transportID)),
	}
	if len(m.identity.KnownAccountIDs) > 0 {
		lines = append(lines, s.label.Render("known as: ")+s.detail.Render(strings.Join(m.identity.KnownAccountIDs, ", ")))
	}

	options := make([]string, 0, len(choices))
	for _, c := range choices {
		options = append(options, fmt.Sprintf("%s %s", s.key.Render("["+c.key+"]"), c.label))
	}
	lines = append(lines, "", strings.Join(options, "  "), s.hint.Render("esc to decide later"))

	return lipgloss.JoinVertical(lipgloss.Left, lines...) + "\n"
}

func valueOrNone(value string) string {
	if value == "" {
		return "none"
	}
	return value
}
