package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/ht101996/tomahawk/internal/domain"
	"github.com/ht101996/tomahawk/internal/ports"
	_ "modernc.org/sqlite"
)

const (
	driverName = "sqlite"
	// recordVersion tags every row. Rows with another version are skipped
	// on load.
	recordVersion = 1
)

// Repository stores the identity set in one SQLite table, one row per
// identity in cache order.
type Repository struct {
	db     *sql.DB
	logger *log.Logger
}

var _ ports.AuthorizationStore = (*Repository)(nil)

func Open(path string, logger *log.Logger) (*Repository, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("sqlite path is required")
	}
	if logger == nil {
		logger = log.Default()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("create sqlite dir: %w", err)
	}

	db, err := sql.Open(driverName, path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	repo := &Repository{db: db, logger: logger}
	if err := repo.migrate(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}

	return repo, nil
}

func (r *Repository) Close() error {
	return r.db.Close()
}

func (r *Repository) migrate(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS acl_identities (
			position INTEGER NOT NULL PRIMARY KEY,
			id TEXT NOT NULL,
			version INTEGER NOT NULL,
			transport_ids_json TEXT NOT NULL DEFAULT '[]',
			account_ids_json TEXT NOT NULL DEFAULT '[]',
			decision INTEGER NOT NULL DEFAULT 0
		);`,
	}
	for _, stmt := range stmts {
		if _, err := r.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate sqlite: %w", err)
		}
	}

	return nil
}

// Save replaces every stored row with identities in a single transaction.
func (r *Repository) Save(ctx context.Context, identities []domain.Identity) (err error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin acl save: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, `DELETE FROM acl_identities`); err != nil {
		return fmt.Errorf("clear acl identities: %w", err)
	}

	for position, identity := range identities {
		transportIDs, marshalErr := marshalKeys(identity.KnownTransportIDs)
		if marshalErr != nil {
			err = marshalErr
			return err
		}
		accountIDs, marshalErr := marshalKeys(identity.KnownAccountIDs)
		if marshalErr != nil {
			err = marshalErr
			return err
		}

		_, err = tx.ExecContext(ctx, `
			INSERT INTO acl_identities(position, id, version, transport_ids_json, account_ids_json, decision)
			VALUES (?, ?, ?, ?, ?, ?)
		`,
			position,
			string(identity.ID),
			recordVersion,
			transportIDs,
			accountIDs,
			int(identity.Decision),
		)
		if err != nil {
			return fmt.Errorf("insert acl identity %s: %w", identity.ID, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit acl save: %w", err)
	}
	return nil
}

// Load returns the stored identities in position order, dropping rows
// with a foreign version or undecodable content.
func (r *Repository) Load(ctx context.Context) ([]domain.Identity, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, version, transport_ids_json, account_ids_json, decision
		FROM acl_identities
		ORDER BY position ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query acl identities: %w", err)
	}
	defer rows.Close()

	out := []domain.Identity{}
	for rows.Next() {
		var (
			id, transportRaw, accountRaw string
			version, decision            int
		)
		if err := rows.Scan(&id, &version, &transportRaw, &accountRaw, &decision); err != nil {
			return nil, fmt.Errorf("scan acl identity: %w", err)
		}

		identity, err := decodeRow(id, version, transportRaw, accountRaw, decision)
		if err != nil {
			r.logger.Warn("skipping acl row", "id", id, "err", err)
			continue
		}
		out = append(out, identity)
	}

	return out, rows.Err()
}

func decodeRow(id string, version int, transportRaw, accountRaw string, decision int) (domain.Identity, error) {
	if version != recordVersion {
		return domain.Identity{}, fmt.Errorf("unsupported identity version %d (current %d)", version, recordVersion)
	}

	identity := domain.Identity{ID: domain.IdentityID(id), Decision: domain.Decision(decision)}
	if err := json.Unmarshal([]byte(transportRaw), &identity.KnownTransportIDs); err != nil {
		return domain.Identity{}, fmt.Errorf("decode transport ids: %w", err)
	}
	if err := json.Unmarshal([]byte(accountRaw), &identity.KnownAccountIDs); err != nil {
		return domain.Identity{}, fmt.Errorf("decode account ids: %w", err)
	}

	identity.NormalizeKeys()
	if err := identity.Validate(); err != nil {
		return domain.Identity{}, err
	}

	return identity, nil
}

func marshalKeys(keys []string) (string, error) {
	if keys == nil {
		keys = []string{}
	}

	raw, err := json.Marshal(keys)
	if err != nil {
		return "", fmt.Errorf("encode identity keys: %w", err)
	}
	return string(raw), nil
}
