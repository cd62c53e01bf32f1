package database

import (
	"database/sql"
	"strings"

	"discord-automod-bot/internal/models"
)

// GetSettings returns the guild settings, or an empty default when none are
// stored yet. Never returns nil with a nil error.
func (d *Database) GetSettings(guildID string) (*models.Settings, error) {
	s := &models.Settings{GuildID: guildID}
	var roles, channels string
	err := d.db.QueryRow(`
		SELECT default_log_channel, ignored_roles, ignored_channels, updated_at
		FROM automod_settings WHERE guild_id = $1
	`, guildID).Scan(&s.DefaultLogChannel, &roles, &channels, &s.UpdatedAt)
	if err == sql.ErrNoRows {
		return s, nil
	}
	if err != nil {
		return nil, err
	}
	s.IgnoredRoles = splitIDList(roles)
	s.IgnoredChannels = splitIDList(channels)
	return s, nil
}

// UpdateSettings upserts the full settings row. Callers must pass complete
// state (load via GetSettings, modify, write back); partial merges at call
// sites are how settings rows go stale.
func (d *Database) UpdateSettings(s *models.Settings) error {
	s.UpdatedAt = models.Now()
	_, err := d.db.Exec(`
		INSERT INTO automod_settings (guild_id, default_log_channel, ignored_roles, ignored_channels, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (guild_id) DO UPDATE SET
			default_log_channel = EXCLUDED.default_log_channel,
			ignored_roles = EXCLUDED.ignored_roles,
			ignored_channels = EXCLUDED.ignored_channels,
			updated_at = EXCLUDED.updated_at
	`, s.GuildID, s.DefaultLogChannel,
		strings.Join(s.IgnoredRoles, ","),
		strings.Join(s.IgnoredChannels, ","),
		s.UpdatedAt)
	return err
}

func splitIDList(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, ",")
}
