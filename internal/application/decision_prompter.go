package application

import (
	"context"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/ht101996/tomahawk/internal/domain"
	"github.com/ht101996/tomahawk/internal/ports"
)

// promptHandler is the side of the registry the prompter reports to. All
// calls happen on the owner loop.
type promptHandler interface {
	recheck(transportID, accountID string) (domain.Decision, bool)
	finalize(prompt *pendingPrompt, decision domain.Decision)
	supersede(prompt *pendingPrompt, decision domain.Decision)
}

type pendingPrompt struct {
	seq         uint64
	identity    domain.Identity
	transportID string
	accountID   string

	answer func(seq uint64, decision domain.Decision)
	once   sync.Once
	cancel context.CancelFunc
	timer  ports.Timer
}

var _ ports.Prompt = (*pendingPrompt)(nil)

func (p *pendingPrompt) Identity() domain.Identity {
	return p.identity.Clone()
}

func (p *pendingPrompt) TransportID() string {
	return p.transportID
}

func (p *pendingPrompt) AccountID() string {
	return p.accountID
}

func (p *pendingPrompt) Respond(decision domain.Decision) {
	p.once.Do(func() {
		p.answer(p.seq, decision)
	})
}

func (p *pendingPrompt) release() {
	if p.timer != nil {
		p.timer.Stop()
	}
	if p.cancel != nil {
		p.cancel()
	}
}

// DecisionPrompter queues decision prompts and shows at most one at a
// time. It is confined to the owner loop of the registry that created it;
// post schedules work back onto that loop.
type DecisionPrompter struct {
	surface  ports.DecisionSurface
	observer ports.PromptObserver
	clock    ports.Clock
	timeout  time.Duration
	logger   *log.Logger
	post     func(func())
	handler  promptHandler

	ctx     context.Context
	queue   []*pendingPrompt
	active  *pendingPrompt
	nextSeq uint64
}

func newDecisionPrompter(surface ports.DecisionSurface, observer ports.PromptObserver, clock ports.Clock, timeout time.Duration, logger *log.Logger, post func(func()), handler promptHandler) *DecisionPrompter {
	return &DecisionPrompter{
		surface:  surface,
		observer: observer,
		clock:    clock,
		timeout:  timeout,
		logger:   logger,
		post:     post,
		handler:  handler,
		ctx:      context.Background(),
	}
}

func (p *DecisionPrompter) Interactive() bool {
	return p.surface != nil
}

// RequestDecision queues a prompt for identity. It reports false when no
// surface is available to show it.
func (p *DecisionPrompter) RequestDecision(identity domain.Identity, transportID, accountID string) bool {
	if p.surface == nil {
		return false
	}

	p.nextSeq++
	prompt := &pendingPrompt{
		seq:         p.nextSeq,
		identity:    identity.Clone(),
		transportID: transportID,
		accountID:   accountID,
	}
	prompt.answer = func(seq uint64, decision domain.Decision) {
		p.post(func() { p.answered(seq, decision) })
	}

	p.queue = append(p.queue, prompt)
	p.logger.Debug("queued decision prompt", "seq", prompt.seq, "transport", transportID, "account", accountID, "queued", len(p.queue))
	p.activateNext()
	return true
}

func (p *DecisionPrompter) Active() int {
	if p.active == nil {
		return 0
	}
	return 1
}

func (p *DecisionPrompter) Queued() int {
	return len(p.queue)
}

func (p *DecisionPrompter) start(ctx context.Context) {
	p.ctx = ctx
}

// stop cancels the active prompt and drops the queue without deciding.
func (p *DecisionPrompter) stop() {
	if p.active != nil {
		p.active.release()
		p.active = nil
	}
	p.queue = nil
	p.notify()
}

func (p *DecisionPrompter) activateNext() {
	for p.active == nil && len(p.queue) > 0 {
		next := p.queue[0]
		p.queue[0] = nil
		p.queue = p.queue[1:]

		if decision, ok := p.resolvedElsewhere(next); ok {
			p.logger.Debug("dropping superseded decision prompt", "seq", next.seq, "account", next.accountID, "decision", decision)
			p.handler.supersede(next, decision)
			continue
		}

		p.activate(next)
	}

	p.notify()
}

func (p *DecisionPrompter) resolvedElsewhere(prompt *pendingPrompt) (domain.Decision, bool) {
	transportIDs := prompt.identity.KnownTransportIDs
	if len(transportIDs) == 0 {
		transportIDs = []string{prompt.transportID}
	}

	for _, transportID := range transportIDs {
		if decision, ok := p.handler.recheck(transportID, prompt.accountID); ok {
			return decision, true
		}
	}

	return domain.DecisionUndecided, false
}

func (p *DecisionPrompter) activate(prompt *pendingPrompt) {
	ctx, cancel := context.WithCancel(p.ctx)
	prompt.cancel = cancel

	if p.timeout > 0 {
		seq := prompt.seq
		prompt.timer = p.clock.AfterFunc(p.timeout, func() {
			p.post(func() { p.expired(seq) })
		})
	}

	p.active = prompt
	p.logger.Debug("activating decision prompt", "seq", prompt.seq, "account", prompt.accountID)
	p.surface.Present(ctx, prompt)
}

func (p *DecisionPrompter) answered(seq uint64, decision domain.Decision) {
	prompt := p.take(seq)
	if prompt == nil {
		return
	}

	p.handler.finalize(prompt, decision)
	p.activateNext()
}

func (p *DecisionPrompter) expired(seq uint64) {
	prompt := p.take(seq)
	if prompt == nil {
		return
	}

	p.logger.Warn("decision prompt timed out", "account", prompt.accountID, "transport", prompt.transportID, "timeout", p.timeout)
	p.handler.finalize(prompt, domain.DecisionUndecided)
	p.activateNext()
}

// take detaches the active prompt if it carries seq. Late answers and
// timeouts for prompts that are already gone return nil.
func (p *DecisionPrompter) take(seq uint64) *pendingPrompt {
	if p.active == nil || p.active.seq != seq {
		return nil
	}

	prompt := p.active
	p.active = nil
	prompt.release()
	return prompt
}

func (p *DecisionPrompter) notify() {
	if p.observer == nil {
		return
	}
	p.observer.PendingPromptsChanged(p.Active(), p.Queued())
}
