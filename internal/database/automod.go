package database

import (
	"database/sql"
	"discord-automod-bot/internal/models"
)

// Rule operations

// CreateRule inserts a new rule and returns its id.
func (d *Database) CreateRule(r *models.Rule) (int64, error) {
	now := models.Now()
	var id int64
	err := d.db.QueryRow(`
		INSERT INTO automod_rules (
			guild_id, rule_type, enabled, threshold, threshold_seconds,
			action, violation_count, mute_duration, custom_message, log_channel_id,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING id
	`, r.GuildID, string(r.RuleType), r.Enabled, r.Threshold, r.ThresholdSeconds,
		string(r.Action), r.ViolationCount, r.MuteDuration, r.CustomMessage, r.LogChannelID,
		now, now,
	).Scan(&id)
	if err != nil {
		return 0, err
	}
	r.ID = id
	r.CreatedAt = now
	r.UpdatedAt = now
	return id, nil
}

// GetRules returns all rules for a guild in insertion order. Evaluation
// order depends on this being stable.
func (d *Database) GetRules(guildID string) ([]*models.Rule, error) {
	rows, err := d.db.Query(`
		SELECT id, guild_id, rule_type, enabled, threshold, threshold_seconds,
			action, violation_count, mute_duration, custom_message, log_channel_id,
			created_at, updated_at
		FROM automod_rules WHERE guild_id = $1
		ORDER BY id ASC
	`, guildID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var rules []*models.Rule
	for rows.Next() {
		r, err := scanRule(rows)
		if err != nil {
			return nil, err
		}
		rules = append(rules, r)
	}
	return rules, rows.Err()
}

// GetRuleByID returns a single rule, or nil when it does not exist.
func (d *Database) GetRuleByID(ruleID int64) (*models.Rule, error) {
	row := d.db.QueryRow(`
		SELECT id, guild_id, rule_type, enabled, threshold, threshold_seconds,
			action, violation_count, mute_duration, custom_message, log_channel_id,
			created_at, updated_at
		FROM automod_rules WHERE id = $1
	`, ruleID)
	r, err := scanRule(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return r, err
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanRule(row rowScanner) (*models.Rule, error) {
	r := &models.Rule{}
	var ruleType, action string
	err := row.Scan(&r.ID, &r.GuildID, &ruleType, &r.Enabled, &r.Threshold,
		&r.ThresholdSeconds, &action, &r.ViolationCount, &r.MuteDuration,
		&r.CustomMessage, &r.LogChannelID, &r.CreatedAt, &r.UpdatedAt)
	if err != nil {
		return nil, err
	}
	r.RuleType = models.RuleType(ruleType)
	r.Action = models.Action(action)
	return r, nil
}

// UpdateRule writes the full rule row back. Callers mutate a copy loaded via
// GetRuleByID; there are no partial field updates.
func (d *Database) UpdateRule(r *models.Rule) error {
	r.UpdatedAt = models.Now()
	_, err := d.db.Exec(`
		UPDATE automod_rules
		SET enabled = $1, threshold = $2, threshold_seconds = $3, action = $4,
			violation_count = $5, mute_duration = $6, custom_message = $7,
			log_channel_id = $8, updated_at = $9
		WHERE id = $10
	`, r.Enabled, r.Threshold, r.ThresholdSeconds, string(r.Action),
		r.ViolationCount, r.MuteDuration, r.CustomMessage, r.LogChannelID,
		r.UpdatedAt, r.ID)
	return err
}

// DeleteRule removes a rule; its filters cascade at the schema level.
func (d *Database) DeleteRule(ruleID int64) error {
	_, err := d.db.Exec(`DELETE FROM automod_rules WHERE id = $1`, ruleID)
	return err
}

// Filter operations

func (d *Database) AddFilter(f *models.RuleFilter) (int64, error) {
	var id int64
	err := d.db.QueryRow(`
		INSERT INTO automod_filters (rule_id, filter_type, target_type, target_id)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`, f.RuleID, f.FilterType, f.TargetType, f.TargetID).Scan(&id)
	if err != nil {
		return 0, err
	}
	f.ID = id
	return id, nil
}

func (d *Database) GetFilters(ruleID int64) ([]*models.RuleFilter, error) {
	rows, err := d.db.Query(`
		SELECT id, rule_id, filter_type, target_type, target_id
		FROM automod_filters WHERE rule_id = $1
		ORDER BY id ASC
	`, ruleID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var filters []*models.RuleFilter
	for rows.Next() {
		f := &models.RuleFilter{}
		if err := rows.Scan(&f.ID, &f.RuleID, &f.FilterType, &f.TargetType, &f.TargetID); err != nil {
			return nil, err
		}
		filters = append(filters, f)
	}
	return filters, rows.Err()
}

func (d *Database) DeleteFilter(filterID int64) error {
	_, err := d.db.Exec(`DELETE FROM automod_filters WHERE id = $1`, filterID)
	return err
}

// Bad word operations

// AddBadWord upserts a word; re-adding changes only the match type.
func (d *Database) AddBadWord(guildID, word, matchType string) error {
	_, err := d.db.Exec(`
		INSERT INTO automod_badwords (guild_id, word, match_type, created_at)
		VALUES ($1, lower($2), $3, $4)
		ON CONFLICT (guild_id, word) DO UPDATE SET match_type = EXCLUDED.match_type
	`, guildID, word, matchType, models.Now())
	return err
}

func (d *Database) GetBadWords(guildID string) ([]*models.WordEntry, error) {
	rows, err := d.db.Query(`
		SELECT guild_id, word, match_type, created_at
		FROM automod_badwords WHERE guild_id = $1
		ORDER BY word ASC
	`, guildID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var words []*models.WordEntry
	for rows.Next() {
		w := &models.WordEntry{}
		if err := rows.Scan(&w.GuildID, &w.Word, &w.MatchType, &w.CreatedAt); err != nil {
			return nil, err
		}
		words = append(words, w)
	}
	return words, rows.Err()
}

func (d *Database) RemoveBadWord(guildID, word string) error {
	_, err := d.db.Exec(`
		DELETE FROM automod_badwords WHERE guild_id = $1 AND word = lower($2)
	`, guildID, word)
	return err
}

// Link list operations

func (d *Database) AddLink(guildID, domain, listKind string) error {
	_, err := d.db.Exec(`
		INSERT INTO automod_links (guild_id, domain, list_kind, created_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (guild_id, domain, list_kind) DO NOTHING
	`, guildID, models.NormalizeDomain(domain), listKind, models.Now())
	return err
}

func (d *Database) GetLinks(guildID, listKind string) ([]string, error) {
	rows, err := d.db.Query(`
		SELECT domain FROM automod_links
		WHERE guild_id = $1 AND list_kind = $2
		ORDER BY domain ASC
	`, guildID, listKind)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var domains []string
	for rows.Next() {
		var dom string
		if err := rows.Scan(&dom); err != nil {
			return nil, err
		}
		domains = append(domains, dom)
	}
	return domains, rows.Err()
}

func (d *Database) RemoveLink(guildID, domain, listKind string) error {
	_, err := d.db.Exec(`
		DELETE FROM automod_links
		WHERE guild_id = $1 AND domain = $2 AND list_kind = $3
	`, guildID, models.NormalizeDomain(domain), listKind)
	return err
}
