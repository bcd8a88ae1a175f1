package settings

import (
	"context"
	"encoding/json"

	"github.com/wintutor/wintutor/internal/domain"
	"github.com/wintutor/wintutor/internal/infrastructure/driver"
)

const keyPrefix = "settings:"

// KVSettingsRepository stores one JSON document per user. A missing or
// unreadable document resolves to the defaults.
type KVSettingsRepository struct {
	KeyValueDB driver.KeyValueDB
}

var _ domain.SettingsRepository = &KVSettingsRepository{}

func NewSettingsRepository(kv driver.KeyValueDB) *KVSettingsRepository {
	return &KVSettingsRepository{KeyValueDB: kv}
}

// Load read the stored document and merge it over the defaults, so new
// fields pick up their default value for documents written by older
// builds
func (repo *KVSettingsRepository) Load(ctx context.Context, userID string) (*domain.SettingsModel, error) {
	merged := domain.DefaultSettings()

	ok, err := repo.KeyValueDB.Exists(keyPrefix + userID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return merged, nil
	}
	raw, err := repo.KeyValueDB.Get(keyPrefix + userID)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(raw), merged); err != nil {
		// corrupt document, fall back to defaults
		return domain.DefaultSettings(), nil
	}
	if merged.CompletedLessons == nil {
		merged.CompletedLessons = []string{}
	}
	return merged, nil
}

// Save implement SettingsRepository
func (repo *KVSettingsRepository) Save(ctx context.Context, userID string, s *domain.SettingsModel) error {
	raw, err := json.Marshal(s)
	if err != nil {
		return err
	}
	return repo.KeyValueDB.Set(keyPrefix+userID, string(raw))
}
