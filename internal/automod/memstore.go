package automod

import (
	"context"
	"sync"

	"discord-automod-bot/internal/models"
)

// MemStore is an in-memory implementation of ConfigStore, Tracker,
// ViolationLog, and Janitor. It backs the offline simulator and the
// deterministic window tests; it is not used in production.
type MemStore struct {
	mu sync.Mutex

	rules    map[string][]*models.Rule
	filters  map[int64][]*models.RuleFilter
	settings map[string]*models.Settings
	words    map[string][]*models.WordEntry
	links    map[string][]string // guildID+"/"+kind -> domains

	events     []*models.TrackedEvent
	violations []*models.ViolationRecord

	nextRuleID int64
}

func NewMemStore() *MemStore {
	return &MemStore{
		rules:    make(map[string][]*models.Rule),
		filters:  make(map[int64][]*models.RuleFilter),
		settings: make(map[string]*models.Settings),
		words:    make(map[string][]*models.WordEntry),
		links:    make(map[string][]string),
	}
}

// Configuration writes (used by tests and the simulator)

func (m *MemStore) AddRule(r *models.Rule) *models.Rule {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextRuleID++
	r.ID = m.nextRuleID
	m.rules[r.GuildID] = append(m.rules[r.GuildID], r)
	return r
}

func (m *MemStore) AddFilter(f *models.RuleFilter) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.filters[f.RuleID] = append(m.filters[f.RuleID], f)
}

func (m *MemStore) PutSettings(s *models.Settings) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.settings[s.GuildID] = s
}

func (m *MemStore) AddWord(w *models.WordEntry) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.words[w.GuildID] = append(m.words[w.GuildID], w)
}

func (m *MemStore) AddLinkDomain(guildID, kind, domain string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := guildID + "/" + kind
	m.links[key] = append(m.links[key], models.NormalizeDomain(domain))
}

// ConfigStore

func (m *MemStore) GetRules(guildID string) ([]*models.Rule, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]*models.Rule(nil), m.rules[guildID]...), nil
}

func (m *MemStore) GetFilters(ruleID int64) ([]*models.RuleFilter, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]*models.RuleFilter(nil), m.filters[ruleID]...), nil
}

func (m *MemStore) GetSettings(guildID string) (*models.Settings, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if s, ok := m.settings[guildID]; ok {
		return s, nil
	}
	return &models.Settings{GuildID: guildID}, nil
}

func (m *MemStore) GetBadWords(guildID string) ([]*models.WordEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]*models.WordEntry(nil), m.words[guildID]...), nil
}

func (m *MemStore) GetLinks(guildID, listKind string) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.links[guildID+"/"+listKind]...), nil
}

// Tracker

func (m *MemStore) TrackEvent(ctx context.Context, guildID, userID, channelID, eventKind string, ts int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, &models.TrackedEvent{
		GuildID:   guildID,
		UserID:    userID,
		ChannelID: channelID,
		EventKind: eventKind,
		Timestamp: ts,
	})
	return nil
}

func (m *MemStore) CountEventsSince(ctx context.Context, guildID, userID, channelID, eventKind string, since int64) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	count := 0
	for _, ev := range m.events {
		if ev.GuildID == guildID && ev.UserID == userID && ev.EventKind == eventKind && ev.Timestamp > since {
			if channelID == "" || ev.ChannelID == channelID {
				count++
			}
		}
	}
	return count, nil
}

// ViolationLog

func (m *MemStore) AddViolation(ctx context.Context, guildID, userID, ruleType string, ts int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.violations = append(m.violations, &models.ViolationRecord{
		GuildID:   guildID,
		UserID:    userID,
		RuleType:  models.RuleType(ruleType),
		Timestamp: ts,
	})
	return nil
}

func (m *MemStore) CountViolationsSince(ctx context.Context, guildID, userID, ruleType string, since int64) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	count := 0
	for _, v := range m.violations {
		if v.GuildID == guildID && v.UserID == userID && string(v.RuleType) == ruleType && v.Timestamp > since {
			count++
		}
	}
	return count, nil
}

// Janitor

func (m *MemStore) PurgeEventsBefore(ctx context.Context, cutoff int64) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	kept := m.events[:0]
	var removed int64
	for _, ev := range m.events {
		if ev.Timestamp < cutoff {
			removed++
		} else {
			kept = append(kept, ev)
		}
	}
	m.events = kept
	return removed, nil
}

func (m *MemStore) PurgeViolationsBefore(ctx context.Context, cutoff int64) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	kept := m.violations[:0]
	var removed int64
	for _, v := range m.violations {
		if v.Timestamp < cutoff {
			removed++
		} else {
			kept = append(kept, v)
		}
	}
	m.violations = kept
	return removed, nil
}
