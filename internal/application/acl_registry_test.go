package application

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ht101996/tomahawk/internal/domain"
	"github.com/ht101996/tomahawk/internal/ports/fakeclock"
	"github.com/ht101996/tomahawk/internal/ports/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAclRegistryHeadlessUnknownPeerStaysPending(t *testing.T) {
	store := newInMemoryAuthorizationStore()
	h := startRegistry(t, store, nil, RegistryOptions{})

	result, err := h.registry.Authorize(context.Background(), AuthorizationRequest{TransportID: "dev-A", AccountID: "alice"})
	require.NoError(t, err)

	assert.True(t, result.Pending)
	assert.Equal(t, domain.DecisionUndecided, result.Decision)
	assert.False(t, h.registry.Interactive())
	assert.Empty(t, h.sync(t))
	assert.Zero(t, store.Saves())
	h.assertNoResult(t)
}

func TestAclRegistryCacheHitMergesAccountAndPersists(t *testing.T) {
	store := newInMemoryAuthorizationStore(domain.NewIdentity("x", "dev-A", "alice", domain.DecisionAllowStream))
	h := startRegistry(t, store, nil, RegistryOptions{})

	result, err := h.registry.Authorize(context.Background(), AuthorizationRequest{TransportID: "dev-A", AccountID: "bob"})
	require.NoError(t, err)

	assert.Equal(t, domain.Authorization{TransportID: "dev-A", AccountID: "bob", Decision: domain.DecisionAllowStream}, result)
	assert.Equal(t, result, h.nextResult(t))
	h.assertNoResult(t)

	assert.Equal(t, 1, store.Saves())
	stored := store.Stored()
	require.Len(t, stored, 1)
	assert.Equal(t, []string{"alice", "bob"}, stored[0].KnownAccountIDs)
}

func TestAclRegistryCacheHitWithoutGrowthDoesNotSave(t *testing.T) {
	store := newInMemoryAuthorizationStore(domain.NewIdentity("x", "dev-A", "alice", domain.DecisionDeny))
	h := startRegistry(t, store, nil, RegistryOptions{})

	result, err := h.registry.Authorize(context.Background(), AuthorizationRequest{TransportID: "dev-A", AccountID: "alice"})
	require.NoError(t, err)

	assert.Equal(t, domain.DecisionDeny, result.Decision)
	assert.False(t, result.Pending)
	assert.Zero(t, store.Saves())
}

func TestAclRegistrySuppressedRequestHasNoSideEffects(t *testing.T) {
	store := newInMemoryAuthorizationStore(domain.NewIdentity("x", "dev-A", "alice", domain.DecisionAllowAll))
	h := startRegistry(t, store, newRecordingSurface(), RegistryOptions{})

	result := h.registry.IsAuthorizedUser(AuthorizationRequest{TransportID: "dev-A", AccountID: "bob", SuppressNotification: true})

	assert.True(t, result.Pending)
	identities := h.sync(t)
	require.Len(t, identities, 1)
	assert.Equal(t, []string{"alice"}, identities[0].KnownAccountIDs)
	assert.Zero(t, store.Saves())
	h.assertNoResult(t)
}

func TestAclRegistryIsAuthorizedUserAnswersThroughNotification(t *testing.T) {
	store := newInMemoryAuthorizationStore(domain.NewIdentity("x", "dev-A", "alice", domain.DecisionAllowAll))
	h := startRegistry(t, store, nil, RegistryOptions{})

	result := h.registry.IsAuthorizedUser(AuthorizationRequest{TransportID: "dev-A", AccountID: "alice"})

	assert.True(t, result.Pending)
	assert.Equal(t, domain.Authorization{TransportID: "dev-A", AccountID: "alice", Decision: domain.DecisionAllowAll}, h.nextResult(t))
}

func TestAclRegistryGlobalPolicySeedsNewIdentity(t *testing.T) {
	store := newInMemoryAuthorizationStore()
	surface := newRecordingSurface()
	h := startRegistry(t, store, surface, RegistryOptions{NewID: sequentialIDs()})

	result, err := h.registry.Authorize(context.Background(), AuthorizationRequest{
		TransportID:  "dev-A",
		AccountID:    "alice",
		GlobalPolicy: domain.DecisionAllowStream,
	})
	require.NoError(t, err)

	assert.Equal(t, domain.DecisionAllowStream, result.Decision)
	assert.Equal(t, result, h.nextResult(t))
	assert.Equal(t, 1, store.Saves())
	assert.Equal(t, []domain.Identity{{
		ID:                "id-1",
		KnownTransportIDs: []string{"dev-A"},
		KnownAccountIDs:   []string{"alice"},
		Decision:          domain.DecisionAllowStream,
	}}, store.Stored())
	assert.Empty(t, surface.prompts)
}

func TestAclRegistryPromptAnswerIsStoredAndNotified(t *testing.T) {
	store := newInMemoryAuthorizationStore()
	surface := newRecordingSurface()
	h := startRegistry(t, store, surface, RegistryOptions{NewID: sequentialIDs()})

	result, err := h.registry.Authorize(context.Background(), AuthorizationRequest{TransportID: "dev-A", AccountID: "alice"})
	require.NoError(t, err)
	require.True(t, result.Pending)

	prompt := surface.next(t)
	assert.Equal(t, "dev-A", prompt.TransportID())
	assert.Equal(t, "alice", prompt.AccountID())
	assert.Equal(t, domain.IdentityID("id-1"), prompt.Identity().ID)

	prompt.Respond(domain.DecisionAllowAll)
	prompt.Respond(domain.DecisionDeny)

	assert.Equal(t, domain.Authorization{TransportID: "dev-A", AccountID: "alice", Decision: domain.DecisionAllowAll}, h.nextResult(t))
	identities := h.sync(t)
	require.Len(t, identities, 1)
	assert.Equal(t, domain.DecisionAllowAll, identities[0].Decision)
	assert.Equal(t, 1, store.Saves())
	h.assertNoResult(t)
}

func TestAclRegistryShowsOnePromptAtATimeAndSupersedesResolvedPeers(t *testing.T) {
	store := newInMemoryAuthorizationStore()
	surface := newRecordingSurface()
	// Counts are (active, queued). The last (0, 0) comes from stopping the
	// registry.
	observer := mocks.NewMockPromptObserver(t)
	observer.EXPECT().PendingPromptsChanged(1, 0).Return().Times(2)
	observer.EXPECT().PendingPromptsChanged(1, 1).Return().Once()
	observer.EXPECT().PendingPromptsChanged(1, 2).Return().Once()
	observer.EXPECT().PendingPromptsChanged(0, 0).Return().Times(2)
	h := startRegistry(t, store, surface, RegistryOptions{Observer: observer, NewID: sequentialIDs()})

	// The same account reaches us from two devices, then a second peer.
	h.registry.IsAuthorizedUser(AuthorizationRequest{TransportID: "dev-A", AccountID: "alice"})
	h.registry.IsAuthorizedUser(AuthorizationRequest{TransportID: "dev-B", AccountID: "alice"})
	h.registry.IsAuthorizedUser(AuthorizationRequest{TransportID: "dev-C", AccountID: "carol"})
	h.sync(t)

	first := surface.next(t)
	assert.Equal(t, "dev-A", first.TransportID())
	assert.Empty(t, surface.prompts)

	first.Respond(domain.DecisionAllowStream)

	assert.Equal(t, domain.Authorization{TransportID: "dev-A", AccountID: "alice", Decision: domain.DecisionAllowStream}, h.nextResult(t))
	assert.Equal(t, domain.Authorization{TransportID: "dev-B", AccountID: "alice", Decision: domain.DecisionAllowStream}, h.nextResult(t))

	third := surface.next(t)
	assert.Equal(t, "dev-C", third.TransportID())
	assert.Empty(t, surface.prompts)

	third.Respond(domain.DecisionDeny)
	assert.Equal(t, domain.Authorization{TransportID: "dev-C", AccountID: "carol", Decision: domain.DecisionDeny}, h.nextResult(t))

	identities := h.sync(t)
	require.Len(t, identities, 2)
	assert.Equal(t, []string{"dev-A", "dev-B"}, identities[0].KnownTransportIDs)
}

func TestAclRegistryDismissedPromptStoresNothing(t *testing.T) {
	store := newInMemoryAuthorizationStore()
	surface := newRecordingSurface()
	h := startRegistry(t, store, surface, RegistryOptions{})

	h.registry.IsAuthorizedUser(AuthorizationRequest{TransportID: "dev-A", AccountID: "alice"})
	surface.next(t).Respond(domain.DecisionUndecided)

	assert.Equal(t, domain.Authorization{TransportID: "dev-A", AccountID: "alice", Decision: domain.DecisionUndecided}, h.nextResult(t))
	assert.Empty(t, h.sync(t))
	assert.Zero(t, store.Saves())
}

func TestAclRegistryPromptTimeoutMovesToNextPrompt(t *testing.T) {
	clock := fakeclock.New(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
	store := newInMemoryAuthorizationStore()
	surface := newRecordingSurface()
	h := startRegistry(t, store, surface, RegistryOptions{Clock: clock, PromptTimeout: time.Minute})

	h.registry.IsAuthorizedUser(AuthorizationRequest{TransportID: "dev-A", AccountID: "alice"})
	h.registry.IsAuthorizedUser(AuthorizationRequest{TransportID: "dev-C", AccountID: "carol"})

	first := surface.next(t)
	clock.WaitForTimers(1)
	clock.Advance(time.Minute)

	assert.Equal(t, domain.Authorization{TransportID: "dev-A", AccountID: "alice", Decision: domain.DecisionUndecided}, h.nextResult(t))
	second := surface.next(t)
	assert.Equal(t, "dev-C", second.TransportID())

	// A late answer to the expired prompt changes nothing.
	first.Respond(domain.DecisionAllowAll)
	assert.Empty(t, h.sync(t))
	h.assertNoResult(t)
}

func TestAclRegistryAmbiguousMatchDenies(t *testing.T) {
	store := newInMemoryAuthorizationStore(
		domain.NewIdentity("x", "dev-A", "alice", domain.DecisionAllowAll),
		domain.NewIdentity("y", "dev-B", "bob", domain.DecisionAllowAll),
	)
	h := startRegistry(t, store, newRecordingSurface(), RegistryOptions{})

	result, err := h.registry.Authorize(context.Background(), AuthorizationRequest{TransportID: "dev-A", AccountID: "bob"})
	require.NoError(t, err)

	assert.Equal(t, domain.DecisionDeny, result.Decision)
	assert.Equal(t, result, h.nextResult(t))
	assert.Zero(t, store.Saves())
}

func TestAclRegistryEmptyRequestDenies(t *testing.T) {
	h := startRegistry(t, newInMemoryAuthorizationStore(), newRecordingSurface(), RegistryOptions{})

	result, err := h.registry.Authorize(context.Background(), AuthorizationRequest{})
	require.NoError(t, err)

	assert.Equal(t, domain.DecisionDeny, result.Decision)
	assert.False(t, result.Pending)
}

func TestAclRegistryLoadFailureStartsEmpty(t *testing.T) {
	store := mocks.NewMockAuthorizationStore(t)
	store.EXPECT().Load(mockAnyContext()).Return(nil, errors.New("disk on fire"))
	store.EXPECT().Save(mockAnyContext(), []domain.Identity{{
		ID:                "id-1",
		KnownTransportIDs: []string{"dev-A"},
		KnownAccountIDs:   []string{"alice"},
		Decision:          domain.DecisionDeny,
	}}).Return(nil).Once()

	h := startRegistry(t, store, nil, RegistryOptions{NewID: sequentialIDs()})

	result, err := h.registry.Authorize(context.Background(), AuthorizationRequest{TransportID: "dev-A", AccountID: "alice", GlobalPolicy: domain.DecisionDeny})
	require.NoError(t, err)
	assert.Equal(t, domain.DecisionDeny, result.Decision)
}

func TestAclRegistryLoadSkipsInvalidIdentities(t *testing.T) {
	store := newInMemoryAuthorizationStore(
		domain.Identity{ID: "empty", Decision: domain.DecisionAllowAll},
		domain.NewIdentity("x", "dev-A", "", domain.DecisionAllowAll),
	)
	h := startRegistry(t, store, nil, RegistryOptions{})

	identities := h.sync(t)
	require.Len(t, identities, 1)
	assert.Equal(t, domain.IdentityID("x"), identities[0].ID)
}

func TestAclRegistryUnsubscribeStopsNotifications(t *testing.T) {
	store := newInMemoryAuthorizationStore(domain.NewIdentity("x", "dev-A", "alice", domain.DecisionAllowAll))
	registry := NewAclRegistry(store, nil, RegistryOptions{Logger: discardLogger()})

	var seen []domain.Authorization
	unsubscribe := registry.Subscribe(func(result domain.Authorization) {
		seen = append(seen, result)
	})
	unsubscribe()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- registry.Run(ctx) }()

	_, err := registry.Authorize(context.Background(), AuthorizationRequest{TransportID: "dev-A", AccountID: "alice"})
	require.NoError(t, err)
	cancel()
	require.NoError(t, <-done)

	assert.Empty(t, seen)
}

func TestAclRegistryAuthorizeAfterStopFails(t *testing.T) {
	registry := NewAclRegistry(newInMemoryAuthorizationStore(), nil, RegistryOptions{Logger: discardLogger()})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- registry.Run(ctx) }()
	cancel()
	require.NoError(t, <-done)

	_, err := registry.Authorize(context.Background(), AuthorizationRequest{TransportID: "dev-A"})
	assert.ErrorIs(t, err, domain.ErrRegistryStopped)
	assert.Error(t, registry.Run(context.Background()))
}

func TestAclRegistryAnswerThatCannotBeStoredDenies(t *testing.T) {
	store := newInMemoryAuthorizationStore()
	surface := newRecordingSurface()
	h := startRegistry(t, store, surface, RegistryOptions{NewID: sequentialIDs()})
	ctx := context.Background()

	h.registry.IsAuthorizedUser(AuthorizationRequest{TransportID: "dev-A", AccountID: "alice"})
	prompt := surface.next(t)

	// While the user thinks, each half of the pair gets its own identity.
	_, err := h.registry.Authorize(ctx, AuthorizationRequest{TransportID: "dev-A", AccountID: "bob", GlobalPolicy: domain.DecisionAllowAll})
	require.NoError(t, err)
	_, err = h.registry.Authorize(ctx, AuthorizationRequest{TransportID: "dev-Z", AccountID: "alice", GlobalPolicy: domain.DecisionDeny})
	require.NoError(t, err)
	h.nextResult(t)
	h.nextResult(t)

	prompt.Respond(domain.DecisionAllowAll)

	assert.Equal(t, domain.Authorization{TransportID: "dev-A", AccountID: "alice", Decision: domain.DecisionDeny}, h.nextResult(t))
	identities := h.sync(t)
	require.Len(t, identities, 2)
	assert.Equal(t, []string{"bob"}, identities[0].KnownAccountIDs)
	assert.Equal(t, domain.DecisionAllowAll, identities[0].Decision)
	assert.Equal(t, []string{"dev-Z"}, identities[1].KnownTransportIDs)
	assert.Equal(t, domain.DecisionDeny, identities[1].Decision)
	assert.Equal(t, 2, store.Saves())
}

func TestAclRegistryListenerMayCallBackIntoRegistry(t *testing.T) {
	store := newInMemoryAuthorizationStore(domain.NewIdentity("x", "dev-A", "alice", domain.DecisionAllowAll))
	h := startRegistry(t, store, nil, RegistryOptions{})

	counts := make(chan int, 1)
	h.registry.Subscribe(func(domain.Authorization) {
		identities, err := h.registry.Identities(context.Background())
		assert.NoError(t, err)
		counts <- len(identities)
	})

	h.registry.IsAuthorizedUser(AuthorizationRequest{TransportID: "dev-A", AccountID: "alice"})

	select {
	case count := <-counts:
		assert.Equal(t, 1, count)
	case <-time.After(2 * time.Second):
		t.Fatal("listener did not get an answer from the registry")
	}
	assert.Equal(t, domain.DecisionAllowAll, h.nextResult(t).Decision)
}
