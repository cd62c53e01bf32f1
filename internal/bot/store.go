package bot

import (
	"discord-automod-bot/internal/cache"
	"discord-automod-bot/internal/database"
	"discord-automod-bot/internal/models"
)

// configStore fronts the database config reads with the two-level cache so
// the hot per-message path almost never touches Postgres.
type configStore struct {
	db    *database.Database
	cache *cache.Cache
}

func newConfigStore(db *database.Database, c *cache.Cache) *configStore {
	return &configStore{db: db, cache: c}
}

func (s *configStore) GetRules(guildID string) ([]*models.Rule, error) {
	return s.cache.GetRules(guildID, func() ([]*models.Rule, error) {
		return s.db.GetRules(guildID)
	})
}

func (s *configStore) GetFilters(ruleID int64) ([]*models.RuleFilter, error) {
	return s.cache.GetFilters(ruleID, func() ([]*models.RuleFilter, error) {
		return s.db.GetFilters(ruleID)
	})
}

func (s *configStore) GetSettings(guildID string) (*models.Settings, error) {
	return s.cache.GetSettings(guildID, func() (*models.Settings, error) {
		return s.db.GetSettings(guildID)
	})
}

func (s *configStore) GetBadWords(guildID string) ([]*models.WordEntry, error) {
	return s.cache.GetBadWords(guildID, func() ([]*models.WordEntry, error) {
		return s.db.GetBadWords(guildID)
	})
}

func (s *configStore) GetLinks(guildID, listKind string) ([]string, error) {
	return s.cache.GetLinks(guildID, listKind, func() ([]string, error) {
		return s.db.GetLinks(guildID, listKind)
	})
}
