package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/ht101996/tomahawk/internal/domain"
)

type commandStateMsg struct {
	name  string
	state domain.CommandState
}

type commandDoneMsg struct {
	err error
}

// commandProgressModel follows one script command through the queue and
// quits once its results were delivered.
type commandProgressModel struct {
	spinner spinner.Model
	ctx     context.Context
	states  <-chan commandStateMsg
	wait    tea.Cmd

	name  string
	state domain.CommandState
	err   error
	done  bool
}

func newCommandProgressModel(ctx context.Context, states <-chan commandStateMsg, wait tea.Cmd) commandProgressModel {
	s := spinner.New(
		spinner.WithSpinner(spinner.Dot),
		spinner.WithStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("69"))),
	)

	return commandProgressModel{
		spinner: s,
		ctx:     ctx,
		states:  states,
		wait:    wait,
		state:   domain.CommandCreated,
	}
}

func (m commandProgressModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.wait, m.nextState())
}

func (m commandProgressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case commandStateMsg:
		m.name = msg.name
		m.state = msg.state
		return m, m.nextState()
	case commandDoneMsg:
		m.done = true
		m.err = msg.err
		return m, tea.Quit
	default:
		return m, nil
	}
}

func (m commandProgressModel) View() string {
	if m.done {
		return ""
	}

	return fmt.Sprintf("%s %s", m.spinner.View(), m.status())
}

func (m commandProgressModel) status() string {
	switch m.state {
	case domain.CommandRunning:
		return "running " + m.name
	case domain.CommandTimedOut:
		return m.name + " timed out"
	case domain.CommandFailed:
		return m.name + " failed"
	case domain.CommandCompleted:
		return m.name + " done"
	default:
		return "waiting in queue"
	}
}

// nextState waits for the next queue transition. It gives up with the
// command context so no listener outlives the program.
func (m commandProgressModel) nextState() tea.Cmd {
	return func() tea.Msg {
		select {
		case msg := <-m.states:
			return msg
		case <-m.ctx.Done():
			return nil
		}
	}
}

func runCommandProgress(ctx context.Context, output io.Writer, states <-chan commandStateMsg, wait func(context.Context) error) error {
	waitCmd := func() tea.Msg {
		return commandDoneMsg{err: wait(ctx)}
	}

	p := tea.NewProgram(
		newCommandProgressModel(ctx, states, waitCmd),
		tea.WithInput(nil),
		tea.WithOutput(output),
		tea.WithContext(ctx),
	)

	finalModel, err := p.Run()
	if err != nil {
		return err
	}

	result, ok := finalModel.(commandProgressModel)
	if !ok {
		return fmt.Errorf("unexpected final progress model type %T", finalModel)
	}

	return result.err
}
