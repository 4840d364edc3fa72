package ports

import (
	"context"

	"github.com/ht101996/tomahawk/internal/domain"
)

// Prompt is one outstanding request for a user decision. Respond may be
// called from any goroutine; only the first call counts.
type Prompt interface {
	Identity() domain.Identity
	TransportID() string
	AccountID() string
	Respond(decision domain.Decision)
}

// DecisionSurface shows prompts to the user. Present must return without
// waiting for the answer. ctx is cancelled once the prompt is no longer
// wanted.
type DecisionSurface interface {
	Present(ctx context.Context, prompt Prompt)
}

// PromptObserver is told how many prompts are showing and waiting.
type PromptObserver interface {
	PendingPromptsChanged(active, queued int)
}
