package cache

import (
	"strconv"

	"discord-automod-bot/internal/models"
)

// Typed accessors for guild automod configuration. Each takes a fetch
// closure so the cache stays decoupled from the database package.

func rulesKey(guildID string) string    { return "automod:rules:" + guildID }
func settingsKey(guildID string) string { return "automod:settings:" + guildID }
func wordsKey(guildID string) string    { return "automod:words:" + guildID }
func linksKey(guildID, kind string) string {
	return "automod:links:" + guildID + ":" + kind
}
func filtersKey(ruleID int64) string {
	return "automod:filters:" + strconv.FormatInt(ruleID, 10)
}

// GetRules returns the cached rule list for a guild.
func (c *Cache) GetRules(guildID string, fetch func() ([]*models.Rule, error)) ([]*models.Rule, error) {
	return getTyped(c, rulesKey(guildID), fetch)
}

// GetFilters returns the cached filter list for a rule.
func (c *Cache) GetFilters(ruleID int64, fetch func() ([]*models.RuleFilter, error)) ([]*models.RuleFilter, error) {
	return getTyped(c, filtersKey(ruleID), fetch)
}

// GetSettings returns the cached guild settings.
func (c *Cache) GetSettings(guildID string, fetch func() (*models.Settings, error)) (*models.Settings, error) {
	return getTyped(c, settingsKey(guildID), fetch)
}

// GetBadWords returns the cached word list for a guild.
func (c *Cache) GetBadWords(guildID string, fetch func() ([]*models.WordEntry, error)) ([]*models.WordEntry, error) {
	return getTyped(c, wordsKey(guildID), fetch)
}

// GetLinks returns the cached allow- or block-list domains for a guild.
func (c *Cache) GetLinks(guildID, listKind string, fetch func() ([]string, error)) ([]string, error) {
	return getTyped(c, linksKey(guildID, listKind), fetch)
}

// InvalidateGuild drops every cached config entry for a guild. Called by the
// operator commands after any rule/word/link/settings write. Filter entries
// for the guild's rules must be invalidated per rule via InvalidateRule.
func (c *Cache) InvalidateGuild(guildID string) {
	c.Delete(
		rulesKey(guildID),
		settingsKey(guildID),
		wordsKey(guildID),
		linksKey(guildID, models.LinkAllow),
		linksKey(guildID, models.LinkBlock),
	)
}

// InvalidateRule drops the cached filters for one rule.
func (c *Cache) InvalidateRule(ruleID int64) {
	c.Delete(filtersKey(ruleID))
}
