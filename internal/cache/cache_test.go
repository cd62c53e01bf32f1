package cache

import (
	"errors"
	"testing"
	"time"

	"discord-automod-bot/internal/models"
)

func newL1Cache(t *testing.T) *Cache {
	t.Helper()
	c, err := NewCache(nil, Config{})
	if err != nil {
		t.Fatalf("NewCache: %v", err)
	}
	t.Cleanup(c.Close)
	return c
}

func TestGetRulesFetchOnce(t *testing.T) {
	c := newL1Cache(t)

	calls := 0
	fetch := func() ([]*models.Rule, error) {
		calls++
		return []*models.Rule{{ID: 1, GuildID: "g", RuleType: models.RuleAllCaps}}, nil
	}

	rules, err := c.GetRules("g", fetch)
	if err != nil {
		t.Fatalf("GetRules: %v", err)
	}
	if len(rules) != 1 || rules[0].ID != 1 {
		t.Fatalf("unexpected rules: %+v", rules)
	}

	// Ristretto admits asynchronously; give the set buffer a moment.
	time.Sleep(20 * time.Millisecond)

	if _, err := c.GetRules("g", fetch); err != nil {
		t.Fatalf("GetRules warm: %v", err)
	}
	if calls != 1 {
		t.Errorf("expected 1 fetch, got %d", calls)
	}
}

func TestFetchErrorPropagates(t *testing.T) {
	c := newL1Cache(t)

	wantErr := errors.New("db down")
	_, err := c.GetSettings("g", func() (*models.Settings, error) {
		return nil, wantErr
	})
	if !errors.Is(err, wantErr) {
		t.Errorf("expected the fetch error, got %v", err)
	}

	// A failed fetch must not poison the cache.
	s, err := c.GetSettings("g", func() (*models.Settings, error) {
		return &models.Settings{GuildID: "g"}, nil
	})
	if err != nil || s == nil || s.GuildID != "g" {
		t.Errorf("recovery fetch failed: %+v, %v", s, err)
	}
}

func TestInvalidateGuild(t *testing.T) {
	c := newL1Cache(t)

	calls := 0
	fetch := func() ([]*models.WordEntry, error) {
		calls++
		return []*models.WordEntry{{GuildID: "g", Word: "w", MatchType: models.MatchContains}}, nil
	}

	c.GetBadWords("g", fetch)
	time.Sleep(20 * time.Millisecond)
	c.InvalidateGuild("g")

	c.GetBadWords("g", fetch)
	if calls != 2 {
		t.Errorf("invalidation should force a refetch, calls = %d", calls)
	}
}

func TestInvalidateRule(t *testing.T) {
	c := newL1Cache(t)

	calls := 0
	fetch := func() ([]*models.RuleFilter, error) {
		calls++
		return nil, nil
	}

	c.GetFilters(7, fetch)
	time.Sleep(20 * time.Millisecond)
	c.InvalidateRule(7)

	c.GetFilters(7, fetch)
	if calls != 2 {
		t.Errorf("filter invalidation should force a refetch, calls = %d", calls)
	}
}

func BenchmarkGetRulesWarm(b *testing.B) {
	c, err := NewCache(nil, Config{})
	if err != nil {
		b.Fatal(err)
	}
	defer c.Close()

	fetch := func() ([]*models.Rule, error) {
		return []*models.Rule{{ID: 1, GuildID: "g"}}, nil
	}
	c.GetRules("g", fetch)
	time.Sleep(20 * time.Millisecond)

	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		c.GetRules("g", fetch)
	}
}
