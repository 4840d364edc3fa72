package application

import (
	"context"
	"io"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/ht101996/tomahawk/internal/domain"
	"github.com/ht101996/tomahawk/internal/ports"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func mockAnyContext() interface{} {
	return mock.Anything
}

func discardLogger() *log.Logger {
	return log.New(io.Discard)
}

type inMemoryAuthorizationStore struct {
	mu         sync.Mutex
	identities []domain.Identity
	loadErr    error
	saveErr    error
	saves      int
}

func newInMemoryAuthorizationStore(identities ...domain.Identity) *inMemoryAuthorizationStore {
	return &inMemoryAuthorizationStore{identities: identities}
}

func (s *inMemoryAuthorizationStore) Load(context.Context) ([]domain.Identity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.loadErr != nil {
		return nil, s.loadErr
	}
	return cloneIdentities(s.identities), nil
}

func (s *inMemoryAuthorizationStore) Save(_ context.Context, identities []domain.Identity) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.saves++
	if s.saveErr != nil {
		return s.saveErr
	}
	s.identities = cloneIdentities(identities)
	return nil
}

func (s *inMemoryAuthorizationStore) Saves() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saves
}

func (s *inMemoryAuthorizationStore) Stored() []domain.Identity {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneIdentities(s.identities)
}

func cloneIdentities(identities []domain.Identity) []domain.Identity {
	out := make([]domain.Identity, 0, len(identities))
	for _, identity := range identities {
		out = append(out, identity.Clone())
	}
	return out
}

// recordingSurface hands every presented prompt to the test.
type recordingSurface struct {
	prompts chan ports.Prompt
}

func newRecordingSurface() *recordingSurface {
	return &recordingSurface{prompts: make(chan ports.Prompt, 16)}
}

func (s *recordingSurface) Present(_ context.Context, prompt ports.Prompt) {
	s.prompts <- prompt
}

func (s *recordingSurface) next(t *testing.T) ports.Prompt {
	t.Helper()
	select {
	case prompt := <-s.prompts:
		return prompt
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for prompt")
		return nil
	}
}

type registryHarness struct {
	registry *AclRegistry
	results  chan domain.Authorization
}

func startRegistry(t *testing.T, store ports.AuthorizationStore, surface ports.DecisionSurface, opts RegistryOptions) registryHarness {
	t.Helper()

	if opts.Logger == nil {
		opts.Logger = discardLogger()
	}
	registry := NewAclRegistry(store, surface, opts)
	results := make(chan domain.Authorization, 32)
	registry.Subscribe(func(result domain.Authorization) {
		results <- result
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- registry.Run(ctx)
	}()
	t.Cleanup(func() {
		cancel()
		require.NoError(t, <-done)
	})

	return registryHarness{registry: registry, results: results}
}

func (h registryHarness) nextResult(t *testing.T) domain.Authorization {
	t.Helper()
	select {
	case result := <-h.results:
		return result
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for authorization result")
		return domain.Authorization{}
	}
}

// sync waits for every event posted so far to be handled by the loop.
func (h registryHarness) sync(t *testing.T) []domain.Identity {
	t.Helper()
	identities, err := h.registry.Identities(context.Background())
	require.NoError(t, err)
	return identities
}

func (h registryHarness) assertNoResult(t *testing.T) {
	t.Helper()
	select {
	case result := <-h.results:
		t.Fatalf("unexpected authorization result %+v", result)
	default:
	}
}

func sequentialIDs() func() string {
	var mu sync.Mutex
	next := 0
	return func() string {
		mu.Lock()
		defer mu.Unlock()
		next++
		return "id-" + strconv.Itoa(next)
	}
}
