package domain

import (
	"fmt"
	"slices"
	"strings"
)

type IdentityID string

// Identity links every transport id and account id a peer has been seen
// with to a single trust decision.
type Identity struct {
	ID                IdentityID
	KnownTransportIDs []string
	KnownAccountIDs   []string
	Decision          Decision
}

func NewIdentity(id IdentityID, transportID, accountID string, decision Decision) Identity {
	identity := Identity{ID: id, Decision: decision}
	identity.Absorb(transportID, accountID)
	return identity
}

func (i Identity) Validate() error {
	if strings.TrimSpace(string(i.ID)) == "" {
		return fmt.Errorf("id is required")
	}
	if len(i.KnownTransportIDs) == 0 && len(i.KnownAccountIDs) == 0 {
		return ErrEmptyIdentityKeys
	}
	if !i.Decision.Valid() {
		return fmt.Errorf("%w: %d", ErrUnknownDecision, int(i.Decision))
	}

	return nil
}

func (i Identity) KnowsTransport(transportID string) bool {
	return transportID != "" && slices.Contains(i.KnownTransportIDs, transportID)
}

func (i Identity) KnowsAccount(accountID string) bool {
	return accountID != "" && slices.Contains(i.KnownAccountIDs, accountID)
}

// Absorb records transportID and accountID as keys of the identity and
// reports whether either key set grew. Empty keys are ignored.
func (i *Identity) Absorb(transportID, accountID string) bool {
	if i == nil {
		return false
	}

	changed := false
	if transportID != "" && !slices.Contains(i.KnownTransportIDs, transportID) {
		i.KnownTransportIDs = append(i.KnownTransportIDs, transportID)
		changed = true
	}
	if accountID != "" && !slices.Contains(i.KnownAccountIDs, accountID) {
		i.KnownAccountIDs = append(i.KnownAccountIDs, accountID)
		changed = true
	}

	return changed
}

func (i Identity) Clone() Identity {
	i.KnownTransportIDs = slices.Clone(i.KnownTransportIDs)
	i.KnownAccountIDs = slices.Clone(i.KnownAccountIDs)
	return i
}

// DisplayName returns the first account id, falling back to the first
// transport id and then the identity id.
func (i Identity) DisplayName() string {
	if len(i.KnownAccountIDs) > 0 {
		return i.KnownAccountIDs[0]
	}
	if len(i.KnownTransportIDs) > 0 {
		return i.KnownTransportIDs[0]
	}
	return string(i.ID)
}

// NormalizeKeys trims, deduplicates and drops empty keys in both key sets.
func (i *Identity) NormalizeKeys() {
	if i == nil {
		return
	}

	i.KnownTransportIDs = normalizeKeys(i.KnownTransportIDs)
	i.KnownAccountIDs = normalizeKeys(i.KnownAccountIDs)
}

func normalizeKeys(keys []string) []string {
	result := make([]string, 0, len(keys))
	seen := make(map[string]struct{}, len(keys))
	for _, key := range keys {
		trimmed := strings.TrimSpace(key)
		if trimmed == "" {
			continue
		}
		if _, ok := seen[trimmed]; ok {
			continue
		}
		seen[trimmed] = struct{}{}
		result = append(result, trimmed)
	}

	return result
}
