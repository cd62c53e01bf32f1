package automod

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"discord-automod-bot/internal/models"

	"go.uber.org/zap"
)

// recordingPlatform captures enforcement calls instead of hitting Discord.
type recordingPlatform struct {
	notices  []string
	deleted  []string
	timeouts []string
	bans     []string

	auditChannels []string
	audits        []*AuditRecord

	failTimeout bool
}

func (p *recordingPlatform) SendTimedNotice(channelID, text string, retractAfter time.Duration) error {
	p.notices = append(p.notices, text)
	return nil
}

func (p *recordingPlatform) DeleteMessage(channelID, messageID string) error {
	p.deleted = append(p.deleted, messageID)
	return nil
}

func (p *recordingPlatform) TimeoutMember(guildID, userID string, duration time.Duration, reason string) error {
	if p.failTimeout {
		return errors.New("missing permissions")
	}
	p.timeouts = append(p.timeouts, userID)
	return nil
}

func (p *recordingPlatform) BanMember(guildID, userID, reason string) error {
	p.bans = append(p.bans, userID)
	return nil
}

func (p *recordingPlatform) SendAuditEmbed(channelID string, rec *AuditRecord) error {
	p.auditChannels = append(p.auditChannels, channelID)
	p.audits = append(p.audits, rec)
	return nil
}

func newTestEngine(store *MemStore, platform Platform) *Engine {
	return New(store, store, store, platform, zap.NewNop(), Options{})
}

func testMessage(id int) *Message {
	return &Message{
		GuildID:   "guild1",
		ChannelID: "chan1",
		MessageID: fmt.Sprintf("msg-%d", id),
		AuthorID:  "user1",
	}
}

func TestExemptions(t *testing.T) {
	store := NewMemStore()
	store.AddRule(&models.Rule{
		GuildID:  "guild1",
		RuleType: models.RuleCharacterCount,
		Enabled:  true,
		Action:   models.ActionDelete,
	})
	store.PutSettings(&models.Settings{
		GuildID:         "guild1",
		IgnoredRoles:    []string{"mod-role"},
		IgnoredChannels: []string{"staff-chan"},
	})
	engine := newTestEngine(store, &recordingPlatform{})

	long := make([]byte, 2500)
	for i := range long {
		long[i] = 'a'
	}

	tests := []struct {
		name   string
		mutate func(*Message)
		exempt bool
	}{
		{"plain user", func(m *Message) {}, false},
		{"bot author", func(m *Message) { m.AuthorBot = true }, true},
		{"guild owner", func(m *Message) { m.AuthorIsOwner = true }, true},
		{"administrator", func(m *Message) { m.AuthorIsAdmin = true }, true},
		{"ignored role", func(m *Message) { m.AuthorRoles = []string{"mod-role"} }, true},
		{"ignored channel", func(m *Message) { m.ChannelID = "staff-chan" }, true},
		{"other role", func(m *Message) { m.AuthorRoles = []string{"member"} }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := testMessage(1)
			msg.Content = string(long)
			tt.mutate(msg)

			rule, err := engine.CheckMessage(context.Background(), msg)
			if err != nil {
				t.Fatalf("CheckMessage failed: %v", err)
			}
			if tt.exempt && rule != nil {
				t.Errorf("expected exemption, got rule %s", rule.RuleType)
			}
			if !tt.exempt && rule == nil {
				t.Errorf("expected character_count to trigger")
			}
		})
	}
}

func TestFirstMatchWins(t *testing.T) {
	store := NewMemStore()
	first := store.AddRule(&models.Rule{
		GuildID:  "guild1",
		RuleType: models.RuleBadWords,
		Enabled:  true,
		Action:   models.ActionWarn,
	})
	store.AddRule(&models.Rule{
		GuildID:  "guild1",
		RuleType: models.RuleAllCaps,
		Enabled:  true,
		Action:   models.ActionDelete,
	})
	store.AddWord(&models.WordEntry{GuildID: "guild1", Word: "spoiler", MatchType: models.MatchContains})

	platform := &recordingPlatform{}
	engine := newTestEngine(store, platform)

	// Triggers both bad_words and all_caps; insertion order decides.
	msg := testMessage(1)
	msg.Content = "THIS IS A SPOILER MESSAGE"

	result := engine.ProcessMessage(context.Background(), msg)
	if result == nil {
		t.Fatal("expected a rule to trigger")
	}
	if result.Rule.ID != first.ID {
		t.Errorf("expected rule %d to win, got %d", first.ID, result.Rule.ID)
	}
	if len(platform.notices) != 1 {
		t.Errorf("expected 1 warn, got %d", len(platform.notices))
	}
	if len(platform.deleted) != 0 {
		t.Errorf("second rule's delete must not run, got %d deletes", len(platform.deleted))
	}
}

func TestDisabledRuleSkipped(t *testing.T) {
	store := NewMemStore()
	store.AddRule(&models.Rule{
		GuildID:  "guild1",
		RuleType: models.RuleAllCaps,
		Enabled:  false,
		Action:   models.ActionDelete,
	})
	engine := newTestEngine(store, &recordingPlatform{})

	msg := testMessage(1)
	msg.Content = "ALL CAPS SHOUTING HERE"

	rule, err := engine.CheckMessage(context.Background(), msg)
	if err != nil {
		t.Fatalf("CheckMessage failed: %v", err)
	}
	if rule != nil {
		t.Errorf("disabled rule must not trigger")
	}
}

func TestFilterScoping(t *testing.T) {
	store := NewMemStore()
	rule := store.AddRule(&models.Rule{
		GuildID:  "guild1",
		RuleType: models.RuleAllCaps,
		Enabled:  true,
		Action:   models.ActionDelete,
	})
	store.AddFilter(&models.RuleFilter{
		RuleID: rule.ID, FilterType: models.FilterAffected,
		TargetType: models.TargetChannel, TargetID: "general",
	})
	engine := newTestEngine(store, &recordingPlatform{})

	shout := "STOP SHOUTING IN HERE"

	msg := testMessage(1)
	msg.ChannelID = "general"
	msg.Content = shout
	if got, _ := engine.CheckMessage(context.Background(), msg); got == nil {
		t.Error("rule should apply in the affected channel")
	}

	msg = testMessage(2)
	msg.ChannelID = "random"
	msg.Content = shout
	if got, _ := engine.CheckMessage(context.Background(), msg); got != nil {
		t.Error("rule must not apply outside the affected channel")
	}
}

func TestIgnoredFilterOverridesAffected(t *testing.T) {
	store := NewMemStore()
	rule := store.AddRule(&models.Rule{
		GuildID:  "guild1",
		RuleType: models.RuleAllCaps,
		Enabled:  true,
		Action:   models.ActionDelete,
	})
	store.AddFilter(&models.RuleFilter{
		RuleID: rule.ID, FilterType: models.FilterAffected,
		TargetType: models.TargetRole, TargetID: "members",
	})
	store.AddFilter(&models.RuleFilter{
		RuleID: rule.ID, FilterType: models.FilterIgnored,
		TargetType: models.TargetRole, TargetID: "members",
	})
	engine := newTestEngine(store, &recordingPlatform{})

	msg := testMessage(1)
	msg.AuthorRoles = []string{"members"}
	msg.Content = "STOP SHOUTING IN HERE"

	if got, _ := engine.CheckMessage(context.Background(), msg); got != nil {
		t.Error("ignored filter must win over affected filter for the same role")
	}
}

func TestFastMessageSpamWindow(t *testing.T) {
	store := NewMemStore()
	store.AddRule(&models.Rule{
		GuildID:  "guild1",
		RuleType: models.RuleFastMessageSpam,
		Enabled:  true,
		Action:   models.ActionDelete,
	})
	platform := &recordingPlatform{}
	engine := newTestEngine(store, platform)

	var clock int64 = 1000
	engine.now = func() int64 { return clock }

	// Default threshold is 5 in 5 seconds. Four quick messages stay clean.
	for i := 0; i < 4; i++ {
		msg := testMessage(i)
		msg.Content = "hi"
		if result := engine.ProcessMessage(context.Background(), msg); result != nil {
			t.Fatalf("message %d should not trigger", i)
		}
		clock++
	}

	// Fifth message within the window trips the rule.
	msg := testMessage(5)
	msg.Content = "hi"
	result := engine.ProcessMessage(context.Background(), msg)
	if result == nil {
		t.Fatal("fifth message in window should trigger")
	}
	if result.Rule.RuleType != models.RuleFastMessageSpam {
		t.Errorf("wrong rule: %s", result.Rule.RuleType)
	}

	// After the window ages out, counting starts over.
	clock += 60
	msg = testMessage(6)
	msg.Content = "hi"
	if result := engine.ProcessMessage(context.Background(), msg); result != nil {
		t.Error("aged-out events must not count")
	}
}

func TestAutoMuteEscalation(t *testing.T) {
	store := NewMemStore()
	store.AddRule(&models.Rule{
		GuildID:        "guild1",
		RuleType:       models.RuleBadWords,
		Enabled:        true,
		Action:         models.ActionAutoMute,
		ViolationCount: 3,
	})
	store.AddWord(&models.WordEntry{GuildID: "guild1", Word: "badword", MatchType: models.MatchContains})

	platform := &recordingPlatform{}
	engine := newTestEngine(store, platform)

	outcomes := make([]string, 0, 3)
	for i := 1; i <= 3; i++ {
		msg := testMessage(i)
		msg.Content = "that is a badword right there"
		result := engine.ProcessMessage(context.Background(), msg)
		if result == nil {
			t.Fatalf("offense %d should trigger", i)
		}
		outcomes = append(outcomes, result.Outcome)
	}

	if outcomes[0] != "Violation 1/3" || outcomes[1] != "Violation 2/3" {
		t.Errorf("unexpected escalation outcomes: %v", outcomes)
	}
	if outcomes[2] != "Auto-muted (3 violations)" {
		t.Errorf("third offense should mute, got %q", outcomes[2])
	}
	if len(platform.timeouts) != 1 {
		t.Errorf("expected exactly 1 timeout, got %d", len(platform.timeouts))
	}
	if len(platform.deleted) != 3 {
		t.Errorf("every offense should be deleted, got %d", len(platform.deleted))
	}
}

func TestAutoMuteFailureOutcome(t *testing.T) {
	store := NewMemStore()
	store.AddRule(&models.Rule{
		GuildID:        "guild1",
		RuleType:       models.RuleBadWords,
		Enabled:        true,
		Action:         models.ActionAutoMute,
		ViolationCount: 1,
	})
	store.AddWord(&models.WordEntry{GuildID: "guild1", Word: "badword", MatchType: models.MatchContains})

	platform := &recordingPlatform{failTimeout: true}
	engine := newTestEngine(store, platform)

	msg := testMessage(1)
	msg.Content = "badword"
	result := engine.ProcessMessage(context.Background(), msg)
	if result == nil {
		t.Fatal("expected trigger")
	}
	if result.Outcome != "Mute failed" {
		t.Errorf("timeout failure must fold into the outcome, got %q", result.Outcome)
	}
}

func TestViolationDecay(t *testing.T) {
	store := NewMemStore()
	store.AddRule(&models.Rule{
		GuildID:        "guild1",
		RuleType:       models.RuleBadWords,
		Enabled:        true,
		Action:         models.ActionAutoMute,
		ViolationCount: 3,
	})
	store.AddWord(&models.WordEntry{GuildID: "guild1", Word: "badword", MatchType: models.MatchContains})

	platform := &recordingPlatform{}
	engine := newTestEngine(store, platform)

	var clock int64 = 1000
	engine.now = func() int64 { return clock }

	send := func(i int) *Result {
		msg := testMessage(i)
		msg.Content = "badword"
		return engine.ProcessMessage(context.Background(), msg)
	}

	send(1)
	send(2)

	// Wait out the violation window; the next offense counts as the first.
	clock += models.ViolationWindowSeconds + 1
	result := send(3)
	if result.Outcome != "Violation 1/3" {
		t.Errorf("decayed violations must not count, got %q", result.Outcome)
	}
	if len(platform.timeouts) != 0 {
		t.Errorf("no mute expected, got %d", len(platform.timeouts))
	}
}

func TestAuditRouting(t *testing.T) {
	tests := []struct {
		name        string
		ruleChannel string
		defChannel  string
		want        []string
	}{
		{"rule channel wins", "rule-log", "default-log", []string{"rule-log"}},
		{"default fallback", "", "default-log", []string{"default-log"}},
		{"no channel drops", "", "", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := NewMemStore()
			store.AddRule(&models.Rule{
				GuildID:      "guild1",
				RuleType:     models.RuleAllCaps,
				Enabled:      true,
				Action:       models.ActionDelete,
				LogChannelID: tt.ruleChannel,
			})
			store.PutSettings(&models.Settings{
				GuildID:           "guild1",
				DefaultLogChannel: tt.defChannel,
			})
			platform := &recordingPlatform{}
			engine := newTestEngine(store, platform)

			msg := testMessage(1)
			msg.Content = "STOP SHOUTING PLEASE"
			if result := engine.ProcessMessage(context.Background(), msg); result == nil {
				t.Fatal("expected trigger")
			}

			if len(platform.auditChannels) != len(tt.want) {
				t.Fatalf("expected %d audits, got %d", len(tt.want), len(platform.auditChannels))
			}
			for i, ch := range tt.want {
				if platform.auditChannels[i] != ch {
					t.Errorf("audit routed to %s, want %s", platform.auditChannels[i], ch)
				}
			}
		})
	}
}

func TestAuditContentTruncated(t *testing.T) {
	store := NewMemStore()
	store.AddRule(&models.Rule{
		GuildID:      "guild1",
		RuleType:     models.RuleCharacterCount,
		Enabled:      true,
		Action:       models.ActionDelete,
		LogChannelID: "log",
	})
	platform := &recordingPlatform{}
	engine := newTestEngine(store, platform)

	// 999 single-byte runes, then two-byte runes straddling the cut point.
	msg := testMessage(1)
	msg.Content = strings.Repeat("x", 999) + strings.Repeat("é", 2000)

	if result := engine.ProcessMessage(context.Background(), msg); result == nil {
		t.Fatal("expected trigger")
	}
	if len(platform.audits) != 1 {
		t.Fatalf("expected 1 audit, got %d", len(platform.audits))
	}
	content := platform.audits[0].Content
	if len(content) > auditContentLimit {
		t.Errorf("audit content not truncated: %d bytes", len(content))
	}
	if !utf8.ValidString(content) {
		t.Error("audit content is not valid UTF-8 after truncation")
	}
}

// failingStore wraps a MemStore and fails every config read.
type failingStore struct {
	*MemStore
}

func (f *failingStore) GetSettings(guildID string) (*models.Settings, error) {
	return nil, errors.New("connection refused")
}

func TestStoreFailureFailsClosed(t *testing.T) {
	store := NewMemStore()
	store.AddRule(&models.Rule{
		GuildID:  "guild1",
		RuleType: models.RuleAllCaps,
		Enabled:  true,
		Action:   models.ActionDelete,
	})
	platform := &recordingPlatform{}
	engine := New(&failingStore{store}, store, store, platform, zap.NewNop(), Options{})

	msg := testMessage(1)
	msg.Content = "STOP SHOUTING PLEASE"

	if result := engine.ProcessMessage(context.Background(), msg); result != nil {
		t.Error("store failure must pass the message unchecked")
	}
	if len(platform.deleted) != 0 {
		t.Error("no enforcement on store failure")
	}
}

func BenchmarkProcessMessageClean(b *testing.B) {
	store := NewMemStore()
	for _, rt := range []models.RuleType{
		models.RuleAllCaps, models.RuleBadWords, models.RuleMassMentions,
		models.RulePhishingLinks, models.RuleZalgo,
	} {
		store.AddRule(&models.Rule{
			GuildID: "guild1", RuleType: rt, Enabled: true, Action: models.ActionDelete,
		})
	}
	store.AddWord(&models.WordEntry{GuildID: "guild1", Word: "badword", MatchType: models.MatchContains})
	engine := newTestEngine(store, &recordingPlatform{})

	msg := testMessage(1)
	msg.Content = "just a perfectly normal chat message"

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		engine.ProcessMessage(context.Background(), msg)
	}
}
