package acl

import (
	"errors"
	"io"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/ht101996/tomahawk/internal/domain"
)

var ErrUnexpectedRenderModel = errors.New("unexpected final bubbletea model type")

type renderReadyMsg struct{}

type model struct {
	identities []domain.Identity
	opts       RenderOptions
	styles     styles
	output     string
}

func newModel(identities []domain.Identity, opts RenderOptions) model {
	return model{
		identities: identities,
		opts:       opts,
		styles:     newStyles(),
	}
}

func (m model) Init() tea.Cmd {
	return func() tea.Msg {
		return renderReadyMsg{}
	}
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg.(type) {
	case renderReadyMsg:
		m.output = renderView(m.identities, m.opts, m.styles)
		return m, tea.Quit
	default:
		return m, nil
	}
}

func (m model) View() string {
	return m.output
}

// Render lays out the identity list for a terminal.
func Render(identities []domain.Identity, opts RenderOptions) (string, error) {
	p := tea.NewProgram(
		newModel(identities, opts),
		tea.WithInput(nil),
		tea.WithOutput(io.Discard),
	)

	finalModel, err := p.Run()
	if err != nil {
		return "", err
	}

	rendered, ok := finalModel.(model)
	if !ok {
		return "", ErrUnexpectedRenderModel
	}

	return rendered.View(), nil
}
