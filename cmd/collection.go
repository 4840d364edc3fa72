package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/ht101996/tomahawk/internal/application"
	"github.com/ht101996/tomahawk/internal/domain"
	"github.com/spf13/cobra"
)

const defaultCollection = "local"

func newCollectionCmd(app *app) *cobra.Command {
	var collection string

	cmd := &cobra.Command{
		Use:   "collection",
		Short: "Query the collection through the configured resolver",
	}
	cmd.PersistentFlags().StringVar(&collection, "collection", defaultCollection, "Collection to query")

	cmd.AddCommand(
		newCollectionArtistsCmd(app, &collection),
		newCollectionAlbumsCmd(app, &collection),
		newCollectionTracksCmd(app, &collection),
	)

	return cmd
}

func newCollectionArtistsCmd(app *app, collection *string) *cobra.Command {
	return &cobra.Command{
		Use:   "artists",
		Short: "List every artist",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runScriptCommand(cmd, app,
				func(deliver func([]domain.Artist, error)) queuedCommand {
					return application.NewAllArtists(app.resolver, *collection, deliver)
				},
				func(artist domain.Artist) string {
					return artist.Name
				},
			)
		},
	}
}

func newCollectionAlbumsCmd(app *app, collection *string) *cobra.Command {
	var artist string

	cmd := &cobra.Command{
		Use:   "albums",
		Short: "List albums, optionally for one artist",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runScriptCommand(cmd, app,
				func(deliver func([]domain.Album, error)) queuedCommand {
					return application.NewAllAlbums(app.resolver, *collection, artist, deliver)
				},
				func(album domain.Album) string {
					return fmt.Sprintf("%s\t%s", album.Artist, album.Title)
				},
			)
		},
	}
	cmd.Flags().StringVar(&artist, "artist", "", "Only list albums by this artist")

	return cmd
}

func newCollectionTracksCmd(app *app, collection *string) *cobra.Command {
	var album string

	cmd := &cobra.Command{
		Use:   "tracks",
		Short: "List the tracks of an album",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runScriptCommand(cmd, app,
				func(deliver func([]domain.Track, error)) queuedCommand {
					return application.NewAllTracks(app.resolver, *collection, album, deliver)
				},
				func(track domain.Track) string {
					return fmt.Sprintf("%s\t%s\t%s", track.Artist, track.Album, track.Title)
				},
			)
		},
	}
	cmd.Flags().StringVar(&album, "album", "", "Album to list")
	_ = cmd.MarkFlagRequired("album")

	return cmd
}

type queuedCommand interface {
	application.ScriptCommand
	Enqueue(*application.ScriptCommandQueue)
}

// runScriptCommand pushes one command through a fresh queue, shows its
// queue state while it runs and prints its results, one per line.
func runScriptCommand[T any](
	cmd *cobra.Command,
	app *app,
	newCommand func(deliver func([]T, error)) queuedCommand,
	format func(T) string,
) error {
	queue := application.NewScriptCommandQueue(app.clock, app.logger, app.cfg.Queue.Timeout)

	states := make(chan commandStateMsg, 8)
	queue.OnStateChange(func(c application.ScriptCommand, state domain.CommandState) {
		select {
		case states <- commandStateMsg{name: c.Name(), state: state}:
		default:
		}
	})

	ctx, cancel := context.WithCancel(cmd.Context())
	runErr := make(chan error, 1)
	go func() {
		runErr <- queue.Run(ctx)
	}()
	defer func() {
		cancel()
		<-runErr
	}()

	var results []T
	delivered := make(chan error, 1)
	command := newCommand(func(items []T, err error) {
		results = items
		delivered <- err
	})
	command.Enqueue(queue)

	err := runCommandProgress(ctx, cmd.ErrOrStderr(), states, func(ctx context.Context) error {
		select {
		case err := <-delivered:
			return err
		case <-ctx.Done():
			return ctx.Err()
		}
	})
	if errors.Is(err, domain.ErrCommandTimedOut) {
		return fmt.Errorf("%s: no resolver answer within %s: %w", command.Name(), app.cfg.Queue.Timeout, err)
	}
	if err != nil {
		return err
	}

	for _, item := range results {
		if _, err := fmt.Fprintln(cmd.OutOrStdout(), format(item)); err != nil {
			return err
		}
	}

	return nil
}
