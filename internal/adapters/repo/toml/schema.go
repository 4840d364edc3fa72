package toml

import (
	"fmt"

	"github.com/ht101996/tomahawk/internal/domain"
	toml "github.com/pelletier/go-toml/v2"
)

// currentSchemaVersion tags every identity record. Records carrying any
// other version are skipped on load.
const currentSchemaVersion = 1

type fileSchema struct {
	Version    int              `toml:"version"`
	Identities []identitySchema `toml:"identities"`
}

func (s *fileSchema) applyDefaults() {
	if s.Version == 0 {
		s.Version = currentSchemaVersion
	}
}

// rawFileSchema is what Load decodes. Records stay untyped until their
// version has been checked, so a record of another shape only drops
// itself.
type rawFileSchema struct {
	Version    int              `toml:"version"`
	Identities []map[string]any `toml:"identities"`
}

type identitySchema struct {
	Version      int      `toml:"version"`
	ID           string   `toml:"id"`
	TransportIDs []string `toml:"transport_ids"`
	AccountIDs   []string `toml:"account_ids"`
	Decision     int      `toml:"decision"`
}

func toSchema(identity domain.Identity) identitySchema {
	return identitySchema{
		Version:      currentSchemaVersion,
		ID:           string(identity.ID),
		TransportIDs: nonNil(identity.KnownTransportIDs),
		AccountIDs:   nonNil(identity.KnownAccountIDs),
		Decision:     int(identity.Decision),
	}
}

func decodeRecord(raw map[string]any) (domain.Identity, error) {
	version, ok := raw["version"].(int64)
	if !ok || version != currentSchemaVersion {
		return domain.Identity{}, fmt.Errorf("unsupported identity version %v (current %d)", raw["version"], currentSchemaVersion)
	}

	data, err := toml.Marshal(raw)
	if err != nil {
		return domain.Identity{}, fmt.Errorf("encode identity record: %w", err)
	}
	var record identitySchema
	if err := toml.Unmarshal(data, &record); err != nil {
		return domain.Identity{}, fmt.Errorf("decode identity record: %w", err)
	}

	return fromSchema(record)
}

func fromSchema(record identitySchema) (domain.Identity, error) {
	if record.Version != currentSchemaVersion {
		return domain.Identity{}, fmt.Errorf("unsupported identity version %d (current %d)", record.Version, currentSchemaVersion)
	}

	identity := domain.Identity{
		ID:                domain.IdentityID(record.ID),
		KnownTransportIDs: record.TransportIDs,
		KnownAccountIDs:   record.AccountIDs,
		Decision:          domain.Decision(record.Decision),
	}
	identity.NormalizeKeys()
	if err := identity.Validate(); err != nil {
		return domain.Identity{}, err
	}

	return identity, nil
}

func nonNil(keys []string) []string {
	if keys == nil {
		return []string{}
	}
	return keys
}
