package cmd

import (
	"fmt"
	"io"
	"os"
	"time"

	charmLog "github.com/charmbracelet/log"
	aclrender "github.com/ht101996/tomahawk/internal/adapters/render/acl"
	sqliterepo "github.com/ht101996/tomahawk/internal/adapters/repo/sqlite"
	tomlrepo "github.com/ht101996/tomahawk/internal/adapters/repo/toml"
	execresolver "github.com/ht101996/tomahawk/internal/adapters/resolver/exec"
	"github.com/ht101996/tomahawk/internal/config"
	"github.com/ht101996/tomahawk/internal/domain"
	"github.com/ht101996/tomahawk/internal/ports"
	"github.com/spf13/viper"
)

const appName = "tomahawk"

type app struct {
	cfg         config.Config
	logger      *charmLog.Logger
	clock       ports.Clock
	resolver    ports.Resolver
	aclRenderer func([]domain.Identity, aclrender.RenderOptions) (string, error)
	openStore   func() (ports.AuthorizationStore, func() error, error)
}

func wireApp() (*app, error) {
	v := viper.New()
	cfg, err := config.Load(v)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	logger := newLogger(os.Stderr, cfg.Logging.Level)

	return &app{
		cfg:         cfg,
		logger:      logger,
		clock:       ports.SystemClock{},
		resolver:    execresolver.NewResolver(cfg.Resolver.Command),
		aclRenderer: aclrender.Render,
		openStore: func() (ports.AuthorizationStore, func() error, error) {
			return openAuthorizationStore(v, cfg, logger)
		},
	}, nil
}

// openAuthorizationStore opens the configured backend. The returned
// close func must be called once the store is no longer used.
func openAuthorizationStore(v *viper.Viper, cfg config.Config, logger *charmLog.Logger) (ports.AuthorizationStore, func() error, error) {
	switch cfg.ACL.Backend {
	case config.BackendSQLite:
		repo, err := sqliterepo.Open(cfg.ACL.SQLitePath, logger)
		if err != nil {
			return nil, nil, fmt.Errorf("wire sqlite acl store: %w", err)
		}
		return repo, repo.Close, nil
	default:
		repo, err := tomlrepo.NewRepository(v, logger)
		if err != nil {
			return nil, nil, fmt.Errorf("wire toml acl store: %w", err)
		}
		return repo, func() error { return nil }, nil
	}
}

func newLogger(stderr io.Writer, level charmLog.Level) *charmLog.Logger {
	if stderr == nil {
		stderr = io.Discard
	}

	return charmLog.NewWithOptions(stderr, charmLog.Options{
		Level:           level,
		Prefix:          appName,
		ReportTimestamp: true,
		TimeFormat:      time.RFC3339,
		Formatter:       charmLog.TextFormatter,
	})
}
