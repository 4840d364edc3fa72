package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/viper"
)

const (
	configName = "config"
	configType = "toml"
	configDir  = ".tomahawk"
	envPrefix  = "TOMAHAWK"

	BackendTOML   = "toml"
	BackendSQLite = "sqlite"

	KeyACLBackend       = "acl.backend"
	KeyACLPath          = "acl.path"
	KeyACLSQLitePath    = "acl.sqlite_path"
	KeyACLHeadless      = "acl.headless"
	KeyACLPromptTimeout = "acl.prompt_timeout"
	KeyQueueTimeout     = "queue.timeout"
	KeyResolverCommand  = "resolver.command"
	KeyLoggingLevel     = "logging.level"
)

var ErrInvalidConfig = errors.New("invalid config")

type Config struct {
	ACL      ACLConfig
	Queue    QueueConfig
	Resolver ResolverConfig
	Logging  LoggingConfig
}

type ACLConfig struct {
	Backend    string
	Path       string
	SQLitePath string
	Headless   bool
	// PromptTimeout of zero waits for the user indefinitely.
	PromptTimeout time.Duration
}

type QueueConfig struct {
	Timeout time.Duration
}

type ResolverConfig struct {
	Command string
}

type LoggingConfig struct {
	Level log.Level
}

// Load reads $HOME/.tomahawk/config.toml into v, applies TOMAHAWK_*
// environment overrides and returns the validated result. A missing
// config file leaves every key at its default.
func Load(v *viper.Viper) (Config, error) {
	if v == nil {
		v = viper.New()
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return Config{}, fmt.Errorf("resolve home directory: %w", err)
	}
	dir := filepath.Join(homeDir, configDir)

	v.SetConfigName(configName)
	v.SetConfigType(configType)
	v.AddConfigPath(dir)
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault(KeyACLBackend, BackendTOML)
	v.SetDefault(KeyACLPath, filepath.Join(dir, "acl.toml"))
	v.SetDefault(KeyACLSQLitePath, filepath.Join(dir, "acl.db"))
	v.SetDefault(KeyACLHeadless, false)
	v.SetDefault(KeyACLPromptTimeout, time.Duration(0))
	v.SetDefault(KeyQueueTimeout, 5*time.Second)
	v.SetDefault(KeyResolverCommand, "")
	v.SetDefault(KeyLoggingLevel, "info")

	if err := v.ReadInConfig(); err != nil {
		var configNotFound viper.ConfigFileNotFoundError
		if !errors.As(err, &configNotFound) {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
	}

	level, err := log.ParseLevel(v.GetString(KeyLoggingLevel))
	if err != nil {
		return Config{}, fmt.Errorf("%w: %s: %w", ErrInvalidConfig, KeyLoggingLevel, err)
	}

	cfg := Config{
		ACL: ACLConfig{
			Backend:       strings.ToLower(strings.TrimSpace(v.GetString(KeyACLBackend))),
			Path:          v.GetString(KeyACLPath),
			SQLitePath:    v.GetString(KeyACLSQLitePath),
			Headless:      v.GetBool(KeyACLHeadless),
			PromptTimeout: v.GetDuration(KeyACLPromptTimeout),
		},
		Queue:    QueueConfig{Timeout: v.GetDuration(KeyQueueTimeout)},
		Resolver: ResolverConfig{Command: strings.TrimSpace(v.GetString(KeyResolverCommand))},
		Logging:  LoggingConfig{Level: level},
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func (c Config) Validate() error {
	var errs []error

	switch c.ACL.Backend {
	case BackendTOML, BackendSQLite:
	default:
		errs = append(errs, fmt.Errorf("%w: %s must be %q or %q, got %q", ErrInvalidConfig, KeyACLBackend, BackendTOML, BackendSQLite, c.ACL.Backend))
	}
	if c.ACL.PromptTimeout < 0 {
		errs = append(errs, fmt.Errorf("%w: %s must not be negative", ErrInvalidConfig, KeyACLPromptTimeout))
	}
	if c.Queue.Timeout <= 0 {
		errs = append(errs, fmt.Errorf("%w: %s must be positive", ErrInvalidConfig, KeyQueueTimeout))
	}

	return errors.Join(errs...)
}
