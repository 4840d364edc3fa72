package exec

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/ht101996/tomahawk/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolverArtistsRunsArtistsVerb(t *testing.T) {
	t.Parallel()

	called := false
	resolver := &Resolver{
		command: "tomahawk-resolver",
		run: func(ctx context.Context, command string, args ...string) (string, string, error) {
			called = true
			assert.Equal(t, "tomahawk-resolver", command)
			assert.Equal(t, []string{"artists", "main"}, args)
			return `[{"name":"Nina Simone"},{"name":"Sun Ra"}]`, "", nil
		},
	}

	artists, err := resolver.Artists(context.Background(), "main")
	require.NoError(t, err)
	assert.True(t, called)
	assert.Equal(t, []domain.Artist{{Name: "Nina Simone"}, {Name: "Sun Ra"}}, artists)
}

func TestResolverAlbumsOmitsEmptyArtistFilter(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		artist   string
		wantArgs []string
	}{
		{name: "every album", wantArgs: []string{"albums", "main"}},
		{name: "one artist", artist: "Sun Ra", wantArgs: []string{"albums", "main", "Sun Ra"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			resolver := &Resolver{
				command: "tomahawk-resolver",
				run: func(ctx context.Context, command string, args ...string) (string, string, error) {
					assert.Equal(t, tt.wantArgs, args)
					return `[{"title":"Lanquidity","artist":"Sun Ra"}]`, "", nil
				},
			}

			albums, err := resolver.Albums(context.Background(), "main", tt.artist)
			require.NoError(t, err)
			assert.Equal(t, []domain.Album{{Title: "Lanquidity", Artist: "Sun Ra"}}, albums)
		})
	}
}

func TestResolverTracksTreatsEmptyOutputAsNoResults(t *testing.T) {
	t.Parallel()

	resolver := &Resolver{
		command: "tomahawk-resolver",
		run: func(ctx context.Context, command string, args ...string) (string, string, error) {
			assert.Equal(t, []string{"tracks", "main", "Lanquidity"}, args)
			return "\n", "", nil
		},
	}

	tracks, err := resolver.Tracks(context.Background(), "main", "Lanquidity")
	require.NoError(t, err)
	assert.Empty(t, tracks)
}

func TestResolverReturnsClearError(t *testing.T) {
	t.Parallel()

	resolver := &Resolver{
		command: "tomahawk-resolver",
		run: func(ctx context.Context, command string, args ...string) (string, string, error) {
			return "", "collection not found", errors.New("exit status 3")
		},
	}

	_, err := resolver.Artists(context.Background(), "missing")
	require.Error(t, err)
	assert.ErrorContains(t, err, "resolver artists")
	assert.ErrorContains(t, err, "missing")
	assert.ErrorContains(t, err, "collection not found")
}

func TestResolverRejectsMalformedOutput(t *testing.T) {
	t.Parallel()

	resolver := &Resolver{
		command: "tomahawk-resolver",
		run: func(ctx context.Context, command string, args ...string) (string, string, error) {
			return `{"name":`, "", nil
		},
	}

	_, err := resolver.Artists(context.Background(), "main")
	assert.ErrorContains(t, err, "decode resolver artists output")
}

func TestResolverWithoutCommandIsUnavailable(t *testing.T) {
	t.Parallel()

	_, err := NewResolver("  ").Artists(context.Background(), "main")
	assert.ErrorIs(t, err, ErrUnavailable)

	_, err = NewResolver("tomahawk-resolver-that-does-not-exist").Artists(context.Background(), "main")
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestResolverRunsRealExecutable(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("shell script resolver")
	}
	t.Parallel()

	script := filepath.Join(t.TempDir(), "resolver.sh")
	require.NoError(t, os.WriteFile(script, []byte("#!/bin/sh\necho '[{\"title\":\"'\"$3\"'\",\"artist\":\"x\",\"album\":\"'\"$3\"'\"}]'\n"), 0o755))

	tracks, err := NewResolver(script).Tracks(context.Background(), "main", "Pastel Blues")
	require.NoError(t, err)
	assert.Equal(t, []domain.Track{{Title: "Pastel Blues", Artist: "x", Album: "Pastel Blues"}}, tracks)
}
