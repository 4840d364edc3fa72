package ports

import (
	"context"

	"github.com/ht101996/tomahawk/internal/domain"
)

type Resolver interface {
	Artists(ctx context.Context, collection string) ([]domain.Artist, error)
	Albums(ctx context.Context, collection, artist string) ([]domain.Album, error)
	Tracks(ctx context.Context, collection, album string) ([]domain.Track, error)
}
