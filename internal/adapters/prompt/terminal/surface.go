package terminal

import (
	"context"
	"fmt"
	"io"
	"sync"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/ht101996/tomahawk/internal/domain"
	"github.com/ht101996/tomahawk/internal/ports"
)

// Surface asks the local user for access decisions on a terminal.
type Surface struct {
	in     io.Reader
	out    io.Writer
	logger *log.Logger
	// one program owns the terminal at a time
	mu sync.Mutex
}

var _ ports.DecisionSurface = (*Surface)(nil)

func NewSurface(in io.Reader, out io.Writer, logger *log.Logger) *Surface {
	if logger == nil {
		logger = log.Default()
	}

	return &Surface{in: in, out: out, logger: logger}
}

// Present shows prompt in the background and responds with the key the
// user picked. A cancelled prompt is answered as undecided.
func (s *Surface) Present(ctx context.Context, prompt ports.Prompt) {
	go func() {
		prompt.Respond(s.ask(ctx, prompt))
	}()
}

func (s *Surface) ask(ctx context.Context, prompt ports.Prompt) domain.Decision {
	s.mu.Lock()
	defer s.mu.Unlock()

	if ctx.Err() != nil {
		return domain.DecisionUndecided
	}

	p := tea.NewProgram(
		newModel(prompt.Identity(), prompt.TransportID(), prompt.AccountID()),
		tea.WithInput(s.in),
		tea.WithOutput(s.out),
		tea.WithContext(ctx),
	)

	finalModel, err := p.Run()
	if err != nil {
		if ctx.Err() == nil {
			s.logger.Warn("access prompt failed", "account", prompt.AccountID(), "err", err)
		}
		return domain.DecisionUndecided
	}

	result, ok := finalModel.(model)
	if !ok {
		s.logger.Warn("unexpected final prompt model", "type", fmt.Sprintf("%T", finalModel))
		return domain.DecisionUndecided
	}

	return result.decision
}
