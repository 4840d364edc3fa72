package acl

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/ht101996/tomahawk/internal/domain"
)

type RenderOptions struct {
	// ShowIDs adds the stable identity id under each entry.
	ShowIDs bool
}

func renderView(identities []domain.Identity, opts RenderOptions, s styles) string {
	lines := []string{
		s.title.Render("Peer Access List"),
		s.header.Render(fmt.Sprintf("identities: %d", len(identities))),
	}

	if len(identities) == 0 {
		lines = append(lines, s.empty.Render("No peers have asked for access yet."))
		return lipgloss.JoinVertical(lipgloss.Left, lines...)
	}

	for _, identity := range identities {
		lines = append(lines, s.section.Render(renderIdentity(identity, opts, s)))
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func renderIdentity(identity domain.Identity, opts RenderOptions, s styles) string {
	heading := lipgloss.JoinHorizontal(
		lipgloss.Top,
		s.identity.Render(identity.DisplayName()),
		" ",
		s.decision(identity.Decision).Render("["+decisionLabel(identity.Decision)+"]"),
	)

	parts := []string{
		heading,
		keyLine("accounts", identity.KnownAccountIDs, s),
		keyLine("transports", identity.KnownTransportIDs, s),
	}
	if opts.ShowIDs {
		parts = append(parts, s.label.Render("id: ")+s.detail.Render(string(identity.ID)))
	}

	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func keyLine(label string, keys []string, s styles) string {
	value := "none"
	if len(keys) > 0 {
		value = strings.Join(keys, ", ")
	}

	return s.label.Render(label+": ") + s.detail.Render(value)
}

func decisionLabel(decision domain.Decision) string {
	switch decision {
	case domain.DecisionAllowStream:
		return "allow stream"
	case domain.DecisionAllowAll:
		return "allow all"
	default:
		return decision.String()
	}
}
