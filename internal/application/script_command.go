package application

import (
	"context"
	"fmt"
	"sync"

	"github.com/ht101996/tomahawk/internal/domain"
	"github.com/ht101996/tomahawk/internal/ports"
)

// ScriptCommand is one asynchronous request to a resolver backend.
// Exec must not block: it starts the work and calls complete exactly once
// when the backend answers, passing the backend error if there was one.
type ScriptCommand interface {
	Name() string
	Exec(ctx context.Context, complete func(err error))
	ReportFailure(err error)
}

// listCommand fetches one list from a resolver and hands it to deliver.
// deliver sees either the results or the failure, never both.
type listCommand[T any] struct {
	name    string
	fetch   func(ctx context.Context) ([]T, error)
	deliver func([]T, error)
	once    sync.Once
}

func (c *listCommand[T]) Name() string {
	return c.name
}

func (c *listCommand[T]) Exec(ctx context.Context, complete func(err error)) {
	go func() {
		results, err := c.fetch(ctx)
		if err != nil {
			complete(fmt.Errorf("%s: %w", c.name, err))
			return
		}

		c.finish(results, nil)
		complete(nil)
	}()
}

func (c *listCommand[T]) ReportFailure(err error) {
	c.finish(nil, err)
}

func (c *listCommand[T]) finish(results []T, err error) {
	c.once.Do(func() {
		if c.deliver != nil {
			c.deliver(results, err)
		}
	})
}

type AllArtists struct {
	listCommand[domain.Artist]
	Collection string
}

func NewAllArtists(resolver ports.Resolver, collection string, deliver func([]domain.Artist, error)) *AllArtists {
	cmd := &AllArtists{Collection: collection}
	cmd.name = "all-artists"
	cmd.deliver = deliver
	cmd.fetch = func(ctx context.Context) ([]domain.Artist, error) {
		return resolver.Artists(ctx, collection)
	}

	return cmd
}

func (c *AllArtists) Enqueue(queue *ScriptCommandQueue) {
	queue.Enqueue(c)
}

// AllAlbums lists the albums of Artist, or every album when Artist is
// empty.
type AllAlbums struct {
	listCommand[domain.Album]
	Collection string
	Artist     string
}

func NewAllAlbums(resolver ports.Resolver, collection, artist string, deliver func([]domain.Album, error)) *AllAlbums {
	cmd := &AllAlbums{Collection: collection, Artist: artist}
	cmd.name = "all-albums"
	cmd.deliver = deliver
	cmd.fetch = func(ctx context.Context) ([]domain.Album, error) {
		return resolver.Albums(ctx, collection, artist)
	}

	return cmd
}

func (c *AllAlbums) Enqueue(queue *ScriptCommandQueue) {
	queue.Enqueue(c)
}

type AllTracks struct {
	listCommand[domain.Track]
	Collection string
	Album      string
}

func NewAllTracks(resolver ports.Resolver, collection, album string, deliver func([]domain.Track, error)) *AllTracks {
	cmd := &AllTracks{Collection: collection, Album: album}
	cmd.name = "all-tracks"
	cmd.deliver = deliver
	cmd.fetch = func(ctx context.Context) ([]domain.Track, error) {
		return resolver.Tracks(ctx, collection, album)
	}

	return cmd
}

func (c *AllTracks) Enqueue(queue *ScriptCommandQueue) {
	queue.Enqueue(c)
}
