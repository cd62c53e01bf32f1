package automod

import (
	"context"

	"discord-automod-bot/internal/models"
)

// ConfigStore provides the per-guild moderation configuration. Reads go
// through here on every checked message, so implementations are expected to
// cache.
type ConfigStore interface {
	GetRules(guildID string) ([]*models.Rule, error)
	GetFilters(ruleID int64) ([]*models.RuleFilter, error)
	GetSettings(guildID string) (*models.Settings, error)
	GetBadWords(guildID string) ([]*models.WordEntry, error)
	GetLinks(guildID, listKind string) ([]string, error)
}

// Tracker records and counts short-lived per-user events for the
// frequency-based detectors. Implementations must make the
// track-then-count sequence safe under concurrent messages from the same
// user (serialized per key, or append-only storage counted by timestamp).
type Tracker interface {
	TrackEvent(ctx context.Context, guildID, userID, channelID, eventKind string, ts int64) error
	CountEventsSince(ctx context.Context, guildID, userID, channelID, eventKind string, since int64) (int, error)
}

// ViolationLog accumulates offenses for the escalating actions.
type ViolationLog interface {
	AddViolation(ctx context.Context, guildID, userID, ruleType string, ts int64) error
	CountViolationsSince(ctx context.Context, guildID, userID, ruleType string, since int64) (int, error)
}

// Janitor is the purge surface the sweeper runs against.
type Janitor interface {
	PurgeEventsBefore(ctx context.Context, cutoff int64) (int64, error)
	PurgeViolationsBefore(ctx context.Context, cutoff int64) (int64, error)
}
