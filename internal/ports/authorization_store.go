package ports

import (
	"context"

	"github.com/ht101996/tomahawk/internal/domain"
)

// AuthorizationStore persists the full identity set. Save overwrites
// whatever was stored before.
type AuthorizationStore interface {
	Load(ctx context.Context) ([]domain.Identity, error)
	Save(ctx context.Context, identities []domain.Identity) error
}
