package exec

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	osexec "os/exec"
	"strings"

	"github.com/ht101996/tomahawk/internal/domain"
	"github.com/ht101996/tomahawk/internal/ports"
)

var ErrUnavailable = errors.New("resolver command unavailable")

type runFunc func(ctx context.Context, command string, args ...string) (stdout string, stderr string, err error)

// Resolver asks an external executable for collection listings. The
// executable is called as `<command> <verb> <collection> [filter]` and
// must print a JSON array on stdout.
type Resolver struct {
	command string
	run     runFunc
}

var _ ports.Resolver = (*Resolver)(nil)

func NewResolver(command string) *Resolver {
	return &Resolver{command: strings.TrimSpace(command), run: runResolverCommand}
}

func (r *Resolver) Artists(ctx context.Context, collection string) ([]domain.Artist, error) {
	var artists []domain.Artist
	if err := r.query(ctx, &artists, "artists", collection); err != nil {
		return nil, err
	}
	return artists, nil
}

// Albums lists the albums of artist. An empty artist lists every album.
func (r *Resolver) Albums(ctx context.Context, collection, artist string) ([]domain.Album, error) {
	var albums []domain.Album
	if err := r.query(ctx, &albums, "albums", collection, artist); err != nil {
		return nil, err
	}
	return albums, nil
}

func (r *Resolver) Tracks(ctx context.Context, collection, album string) ([]domain.Track, error) {
	var tracks []domain.Track
	if err := r.query(ctx, &tracks, "tracks", collection, album); err != nil {
		return nil, err
	}
	return tracks, nil
}

func (r *Resolver) query(ctx context.Context, out any, verb, collection string, filter ...string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if r.command == "" {
		return ErrUnavailable
	}

	args := []string{verb, collection}
	for _, value := range filter {
		if value != "" {
			args = append(args, value)
		}
	}

	stdout, stderr, err := r.run(ctx, r.command, args...)
	if err != nil {
		return formatError(verb, collection, err, stderr)
	}

	if strings.TrimSpace(stdout) == "" {
		stdout = "[]"
	}
	if err := json.Unmarshal([]byte(stdout), out); err != nil {
		return fmt.Errorf("decode resolver %s output: %w", verb, err)
	}

	return nil
}

func runResolverCommand(ctx context.Context, command string, args ...string) (string, string, error) {
	path, err := osexec.LookPath(command)
	if err != nil {
		if errors.Is(err, osexec.ErrNotFound) {
			return "", "", ErrUnavailable
		}
		return "", "", fmt.Errorf("locate resolver command: %w", err)
	}

	cmd := osexec.CommandContext(ctx, path, args...)

	var stdout bytes.Buffer
	var stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err = cmd.Run()
	return stdout.String(), strings.TrimSpace(stderr.String()), err
}

func formatError(verb string, collection string, err error, stderr string) error {
	if stderr == "" {
		return fmt.Errorf("resolver %s %q: %w", verb, collection, err)
	}

	return fmt.Errorf("resolver %s %q: %w: %s", verb, collection, err, stderr)
}
