package application

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/ht101996/tomahawk/internal/domain"
	"github.com/ht101996/tomahawk/internal/ports"
)

var errRegistryRunning = errors.New("acl registry is already running")

type RegistryOptions struct {
	Observer ports.PromptObserver
	Clock    ports.Clock
	Logger   *log.Logger
	NewID    func() string
	// PromptTimeout bounds how long one prompt may stay unanswered. Zero
	// waits indefinitely.
	PromptTimeout time.Duration
}

// AclRegistry decides whether remote peers may access the local
// collection. Every cache mutation and persistence write happens on the
// goroutine running Run; other goroutines talk to it by posting events.
type AclRegistry struct {
	store    ports.AuthorizationStore
	cache    *IdentityCache
	prompter *DecisionPrompter
	logger   *log.Logger
	newID    func() string

	events  *mailbox[func()]
	notices *mailbox[domain.Authorization]
	ctx     context.Context
	running atomic.Bool
	done    chan struct{}

	listenersMu  sync.Mutex
	listeners    map[uint64]func(domain.Authorization)
	nextListener uint64
}

// NewAclRegistry builds a registry over store. A nil surface puts the
// registry in headless mode where unknown peers are never prompted for.
func NewAclRegistry(store ports.AuthorizationStore, surface ports.DecisionSurface, opts RegistryOptions) *AclRegistry {
	if opts.Clock == nil {
		opts.Clock = ports.SystemClock{}
	}
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	if opts.NewID == nil {
		opts.NewID = uuid.NewString
	}

	r := &AclRegistry{
		store:     store,
		cache:     NewIdentityCache(nil),
		logger:    opts.Logger,
		newID:     opts.NewID,
		events:    newMailbox[func()](),
		notices:   newMailbox[domain.Authorization](),
		ctx:       context.Background(),
		done:      make(chan struct{}),
		listeners: map[uint64]func(domain.Authorization){},
	}
	r.prompter = newDecisionPrompter(surface, opts.Observer, opts.Clock, opts.PromptTimeout, opts.Logger, r.events.post, r)

	return r
}

// Run loads the persisted identities and then serves requests until ctx
// is done.
func (r *AclRegistry) Run(ctx context.Context) error {
	if !r.running.CompareAndSwap(false, true) {
		return errRegistryRunning
	}

	notified := make(chan struct{})
	go func() {
		defer close(notified)
		r.deliverNotices(r.done)
	}()
	defer func() {
		close(r.done)
		<-notified
	}()

	r.ctx = ctx
	r.load(ctx)
	r.prompter.start(ctx)
	defer r.prompter.stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-r.events.ready():
			for _, event := range r.events.take() {
				event()
			}
		}
	}
}

// IsAuthorizedUser hands req to the owner loop and returns a pending
// answer at once; the real answer arrives through Subscribe. Requests
// with SuppressNotification set are re-checks that only make sense on the
// loop itself, so they are answered pending without side effects.
func (r *AclRegistry) IsAuthorizedUser(req AuthorizationRequest) domain.Authorization {
	if !req.SuppressNotification {
		r.events.post(func() { r.authorize(req) })
	}

	return pendingAuthorization(req)
}

// Authorize runs req on the owner loop and waits for its immediate
// answer, which is still pending when the peer needs a prompt.
func (r *AclRegistry) Authorize(ctx context.Context, req AuthorizationRequest) (domain.Authorization, error) {
	return onLoop(ctx, r, func() domain.Authorization {
		return r.authorize(req)
	})
}

func (r *AclRegistry) Identities(ctx context.Context) ([]domain.Identity, error) {
	return onLoop(ctx, r, r.cache.Snapshot)
}

// Subscribe registers fn for result notifications. Results are delivered
// one at a time, in the order they were decided, on a goroutine separate
// from the owner loop, so fn may call back into the registry.
func (r *AclRegistry) Subscribe(fn func(domain.Authorization)) (unsubscribe func()) {
	r.listenersMu.Lock()
	defer r.listenersMu.Unlock()

	r.nextListener++
	id := r.nextListener
	r.listeners[id] = fn

	return func() {
		r.listenersMu.Lock()
		defer r.listenersMu.Unlock()
		delete(r.listeners, id)
	}
}

func (r *AclRegistry) Interactive() bool {
	return r.prompter.Interactive()
}

func onLoop[T any](ctx context.Context, r *AclRegistry, fn func() T) (T, error) {
	reply := make(chan T, 1)
	r.events.post(func() { reply <- fn() })

	var zero T
	select {
	case result := <-reply:
		return result, nil
	case <-ctx.Done():
		return zero, ctx.Err()
	case <-r.done:
		return zero, domain.ErrRegistryStopped
	}
}

func (r *AclRegistry) authorize(req AuthorizationRequest) domain.Authorization {
	if req.TransportID == "" && req.AccountID == "" {
		r.logger.Warn("denying authorization request without transport or account id")
		return r.resolved(req, domain.DecisionDeny)
	}

	candidate, merged, err := r.cache.Lookup(req.TransportID, req.AccountID)
	known := err == nil
	switch {
	case known:
		if merged {
			r.logger.Debug("merged peer keys into identity", "identity", candidate.ID, "transport", req.TransportID, "account", req.AccountID)
			r.persist()
		}
		if candidate.Decision.Decided() {
			return r.resolved(req, candidate.Decision)
		}
	case errors.Is(err, domain.ErrIdentityConflict):
		r.logger.Warn("ambiguous identity match, denying", "transport", req.TransportID, "account", req.AccountID, "err", err)
		return r.resolved(req, domain.DecisionDeny)
	}

	if req.SuppressNotification {
		return pendingAuthorization(req)
	}
	if !known {
		candidate = domain.NewIdentity(domain.IdentityID(r.newID()), req.TransportID, req.AccountID, domain.DecisionUndecided)
	}

	if req.GlobalPolicy.Decided() {
		if err := r.record(candidate, req.TransportID, req.AccountID, req.GlobalPolicy); err != nil {
			r.logger.Error("record global policy decision", "transport", req.TransportID, "account", req.AccountID, "err", err)
		}
		return r.resolved(req, req.GlobalPolicy)
	}

	if !r.prompter.RequestDecision(candidate, req.TransportID, req.AccountID) {
		r.logger.Debug("no decision surface, leaving peer undecided", "transport", req.TransportID, "account", req.AccountID)
	}

	return pendingAuthorization(req)
}

// record stores decision on the identity that now matches the keys, or
// inserts candidate when none does, and persists the cache.
func (r *AclRegistry) record(candidate domain.Identity, transportID, accountID string, decision domain.Decision) error {
	identity, _, err := r.cache.Lookup(transportID, accountID)
	switch {
	case err == nil:
		identity.Decision = decision
		err = r.cache.Update(identity)
	case errors.Is(err, domain.ErrIdentityNotFound):
		candidate.Absorb(transportID, accountID)
		candidate.Decision = decision
		err = r.cache.Insert(candidate)
	}
	if err != nil {
		return fmt.Errorf("record decision %s: %w", decision, err)
	}

	r.persist()
	return nil
}

func (r *AclRegistry) resolved(req AuthorizationRequest, decision domain.Decision) domain.Authorization {
	result := domain.Authorization{TransportID: req.TransportID, AccountID: req.AccountID, Decision: decision}
	if !req.SuppressNotification {
		r.emit(result)
	}

	return result
}

func (r *AclRegistry) recheck(transportID, accountID string) (domain.Decision, bool) {
	result := r.authorize(AuthorizationRequest{TransportID: transportID, AccountID: accountID, SuppressNotification: true})
	if result.Pending {
		return domain.DecisionUndecided, false
	}

	return result.Decision, true
}

func (r *AclRegistry) finalize(prompt *pendingPrompt, decision domain.Decision) {
	if !decision.Valid() {
		decision = domain.DecisionUndecided
	}

	if decision.Decided() {
		if err := r.record(prompt.identity, prompt.transportID, prompt.accountID, decision); err != nil {
			r.logger.Warn("decision not stored, denying", "transport", prompt.transportID, "account", prompt.accountID, "err", err)
			decision = domain.DecisionDeny
		}
	}

	r.emit(domain.Authorization{TransportID: prompt.transportID, AccountID: prompt.accountID, Decision: decision})
}

func (r *AclRegistry) supersede(prompt *pendingPrompt, decision domain.Decision) {
	r.emit(domain.Authorization{TransportID: prompt.transportID, AccountID: prompt.accountID, Decision: decision})
}

func (r *AclRegistry) emit(result domain.Authorization) {
	r.notices.post(result)
}

// deliverNotices hands emitted results to the listeners until stop is
// closed, then flushes what is left.
func (r *AclRegistry) deliverNotices(stop <-chan struct{}) {
	for {
		select {
		case <-r.notices.ready():
			r.dispatch(r.notices.take())
		case <-stop:
			r.dispatch(r.notices.take())
			return
		}
	}
}

func (r *AclRegistry) dispatch(results []domain.Authorization) {
	for _, result := range results {
		r.listenersMu.Lock()
		listeners := make([]func(domain.Authorization), 0, len(r.listeners))
		for _, fn := range r.listeners {
			listeners = append(listeners, fn)
		}
		r.listenersMu.Unlock()

		for _, fn := range listeners {
			fn(result)
		}
	}
}

func (r *AclRegistry) load(ctx context.Context) {
	identities, err := r.store.Load(ctx)
	if err != nil {
		r.logger.Warn("load acl identities, starting empty", "err", err)
		return
	}

	for _, identity := range identities {
		if err := r.cache.Insert(identity); err != nil {
			r.logger.Warn("dropping stored identity", "identity", identity.ID, "err", err)
		}
	}
	r.logger.Debug("loaded acl identities", "count", r.cache.Len())
}

// persist writes the whole cache. It ignores cancellation of the loop
// context so a decision taken during shutdown still reaches the store.
func (r *AclRegistry) persist() {
	if err := r.store.Save(context.WithoutCancel(r.ctx), r.cache.Snapshot()); err != nil {
		r.logger.Error("persist acl identities", "err", err)
	}
}

func pendingAuthorization(req AuthorizationRequest) domain.Authorization {
	return domain.Authorization{
		TransportID: req.TransportID,
		AccountID:   req.AccountID,
		Decision:    domain.DecisionUndecided,
		Pending:     true,
	}
}
