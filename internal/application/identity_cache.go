package application

import (
	"fmt"

	"github.com/ht101996/tomahawk/internal/domain"
)

// IdentityCache holds known identities in insertion order. It is not
// safe for concurrent use; AclRegistry confines it to its owner loop.
type IdentityCache struct {
	identities []domain.Identity
}

func NewIdentityCache(identities []domain.Identity) *IdentityCache {
	cache := &IdentityCache{identities: make([]domain.Identity, 0, len(identities))}
	for _, identity := range identities {
		cache.identities = append(cache.identities, identity.Clone())
	}

	return cache
}

// Lookup returns the identity that knows transportID or accountID and
// merges the other key into it. merged reports whether the identity
// grew. When the two keys point at different identities nothing is
// merged and ErrIdentityConflict is returned.
func (c *IdentityCache) Lookup(transportID, accountID string) (identity domain.Identity, merged bool, err error) {
	byTransport := -1
	byAccount := -1
	for i := range c.identities {
		if byTransport < 0 && c.identities[i].KnowsTransport(transportID) {
			byTransport = i
		}
		if byAccount < 0 && c.identities[i].KnowsAccount(accountID) {
			byAccount = i
		}
	}

	index := byTransport
	switch {
	case byTransport >= 0 && byAccount >= 0 && byTransport != byAccount:
		return domain.Identity{}, false, fmt.Errorf("%w: %s and %s", domain.ErrIdentityConflict,
			c.identities[byTransport].ID, c.identities[byAccount].ID)
	case byTransport < 0 && byAccount < 0:
		return domain.Identity{}, false, domain.ErrIdentityNotFound
	case byTransport < 0:
		index = byAccount
	}

	merged = c.identities[index].Absorb(transportID, accountID)
	return c.identities[index].Clone(), merged, nil
}

func (c *IdentityCache) Insert(identity domain.Identity) error {
	identity.NormalizeKeys()
	if err := identity.Validate(); err != nil {
		return fmt.Errorf("insert identity: %w", err)
	}

	c.identities = append(c.identities, identity.Clone())
	return nil
}

// Update replaces the cached identity with the same id.
func (c *IdentityCache) Update(identity domain.Identity) error {
	if err := identity.Validate(); err != nil {
		return fmt.Errorf("update identity: %w", err)
	}

	for i := range c.identities {
		if c.identities[i].ID == identity.ID {
			c.identities[i] = identity.Clone()
			return nil
		}
	}

	return fmt.Errorf("update identity %s: %w", identity.ID, domain.ErrIdentityNotFound)
}

func (c *IdentityCache) Snapshot() []domain.Identity {
	snapshot := make([]domain.Identity, 0, len(c.identities))
	for _, identity := range c.identities {
		snapshot = append(snapshot, identity.Clone())
	}

	return snapshot
}

func (c *IdentityCache) Len() int {
	return len(c.identities)
}
