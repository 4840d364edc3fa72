package toml

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/ht101996/tomahawk/internal/domain"
	"github.com/ht101996/tomahawk/internal/ports"
	toml "github.com/pelletier/go-toml/v2"
	"github.com/spf13/viper"
)

const (
	aclPathKey      = "acl.path"
	aclFileMode     = 0o600
	aclDirMode      = 0o700
	aclConfigDir    = ".tomahawk"
	aclConfigFile   = "acl.toml"
	tempFilePattern = ".acl-*.toml.tmp"
)

// Repository stores the identity set in a single TOML file.
type Repository struct {
	aclPath string
	logger  *log.Logger
	mu      *sync.RWMutex
}

var (
	lockRegistryMu sync.Mutex
	pathLockMap    = map[string]*sync.RWMutex{}
)

var _ ports.AuthorizationStore = (*Repository)(nil)

func NewRepository(cfg *viper.Viper, logger *log.Logger) (*Repository, error) {
	if cfg == nil {
		cfg = viper.New()
	}
	if logger == nil {
		logger = log.Default()
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("resolve home directory: %w", err)
	}
	cfg.SetDefault(aclPathKey, filepath.Join(homeDir, aclConfigDir, aclConfigFile))

	aclPath := cfg.GetString(aclPathKey)
	if aclPath == "" {
		return nil, errors.New("acl path is empty")
	}
	aclPath, err = normalizeACLPath(aclPath)
	if err != nil {
		return nil, err
	}

	return &Repository{aclPath: aclPath, logger: logger, mu: lockForPath(aclPath)}, nil
}

func (r *Repository) Path() string {
	return r.aclPath
}

// Load returns every identity record that decodes under the current
// version. Other records are dropped with a warning. A missing file is
// an empty set.
func (r *Repository) Load(ctx context.Context) ([]domain.Identity, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	file, err := r.readSchema()
	if err != nil {
		return nil, err
	}

	identities := make([]domain.Identity, 0, len(file.Identities))
	for i, raw := range file.Identities {
		identity, err := decodeRecord(raw)
		if err != nil {
			r.logger.Warn("skipping acl record", "path", r.aclPath, "index", i, "id", raw["id"], "err", err)
			continue
		}
		identities = append(identities, identity)
	}

	return identities, nil
}

// Save replaces the stored identity set with identities.
func (r *Repository) Save(ctx context.Context, identities []domain.Identity) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	file := fileSchema{Identities: make([]identitySchema, 0, len(identities))}
	for _, identity := range identities {
		file.Identities = append(file.Identities, toSchema(identity))
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}

	return r.writeSchema(file)
}

func (r *Repository) readSchema() (rawFileSchema, error) {
	data, err := os.ReadFile(r.aclPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return rawFileSchema{}, nil
		}
		return rawFileSchema{}, fmt.Errorf("read acl file: %w", err)
	}

	var file rawFileSchema
	if err := toml.Unmarshal(data, &file); err != nil {
		return rawFileSchema{}, fmt.Errorf("decode acl file: %w", err)
	}

	return file, nil
}

func normalizeACLPath(path string) (string, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolve acl path: %w", err)
	}

	return filepath.Clean(absPath), nil
}

func lockForPath(path string) *sync.RWMutex {
	lockRegistryMu.Lock()
	defer lockRegistryMu.Unlock()

	if mu, ok := pathLockMap[path]; ok {
		return mu
	}

	mu := &sync.RWMutex{}
	pathLockMap[path] = mu
	return mu
}

func (r *Repository) writeSchema(file fileSchema) error {
	file.applyDefaults()

	if err := os.MkdirAll(filepath.Dir(r.aclPath), aclDirMode); err != nil {
		return fmt.Errorf("create acl directory: %w", err)
	}

	data, err := toml.Marshal(file)
	if err != nil {
		return fmt.Errorf("encode acl file: %w", err)
	}

	tempFile, err := os.CreateTemp(filepath.Dir(r.aclPath), tempFilePattern)
	if err != nil {
		return fmt.Errorf("create temp acl file: %w", err)
	}

	tempName := tempFile.Name()
	cleanup := true
	defer func() {
		if cleanup {
			_ = os.Remove(tempName)
		}
	}()

	if _, err := tempFile.Write(data); err != nil {
		_ = tempFile.Close()
		return fmt.Errorf("write temp acl file: %w", err)
	}

	if err := tempFile.Chmod(aclFileMode); err != nil {
		_ = tempFile.Close()
		return fmt.Errorf("chmod temp acl file: %w", err)
	}

	if err := tempFile.Close(); err != nil {
		return fmt.Errorf("close temp acl file: %w", err)
	}

	if err := os.Rename(tempName, r.aclPath); err != nil {
		return fmt.Errorf("replace acl file: %w", err)
	}
	cleanup = false

	return nil
}
