package automod

import (
	"context"
	"testing"

	"discord-automod-bot/internal/models"
)

func TestCheckAllCaps(t *testing.T) {
	tests := []struct {
		name      string
		content   string
		threshold int
		want      bool
	}{
		{"short message never triggers", "HELP", 70, false},
		{"all caps", "THIS IS SHOUTING", 70, true},
		{"mostly lowercase", "this is Fine honestly", 70, false},
		{"exactly at threshold", "AAAAAAAbbb", 70, true},
		{"just under threshold", "AAAAAAbbbb", 70, false},
		{"no letters at all", "12345 67890 !!!", 70, false},
		{"digits do not dilute", "AAAAA11111", 70, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := checkAllCaps(tt.content, tt.threshold); got != tt.want {
				t.Errorf("checkAllCaps(%q, %d) = %v, want %v", tt.content, tt.threshold, got, tt.want)
			}
		})
	}
}

func TestCheckDuplicateText(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    bool
	}{
		{"normal text", "hello there, how are you", false},
		{"character run", "aaaaaaaa", true},
		{"character run of 7 is fine", "aaaaaaa", false},
		{"mixed-case run", "aAaAaAaA", true},
		{"mixed-case run of 7 is fine", "aAaAaAa", false},
		{"repeated word", "buy buy buy buy buy", true},
		{"four repeats is fine", "no no no no", false},
		{"repeats broken up", "go go stop go go stop go", false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := checkDuplicateText(tt.content); got != tt.want {
				t.Errorf("checkDuplicateText(%q) = %v, want %v", tt.content, got, tt.want)
			}
		})
	}
}

func TestCountEmoji(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    int
	}{
		{"no emoji", "plain text", 0},
		{"unicode emoji", "nice 👍 work 🎉", 2},
		{"custom emoji", "<:pepe:1234567890> and <a:dance:987654321>", 2},
		{"mixed", "🔥 <:kek:111222333> 🔥", 3},
		{"malformed custom emoji ignored", "<:unclosed 123>", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := countEmoji(tt.content); got != tt.want {
				t.Errorf("countEmoji(%q) = %d, want %d", tt.content, got, tt.want)
			}
		})
	}
}

func TestCheckZalgo(t *testing.T) {
	// A short base with stacked combining marks
	zalgo := "h̶̴̵e̶̴̵l̶̴̵p"

	tests := []struct {
		name    string
		content string
		want    bool
	}{
		{"plain text", "perfectly ordinary message", false},
		{"zalgo text", zalgo, true},
		{"accented but normal", "café résumé", false},
		{"single combining mark in long text", "café is how you type an accent in unicode text here", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := checkZalgo(tt.content); got != tt.want {
				t.Errorf("checkZalgo(%q) = %v, want %v", tt.content, got, tt.want)
			}
		})
	}
}

func TestCheckSpoilers(t *testing.T) {
	tests := []struct {
		name string
		msg  *Message
		want bool
	}{
		{"plain", &Message{Content: "nothing hidden"}, false},
		{"spoiler markup", &Message{Content: "the ending is ||secret||"}, true},
		{"spoiler attachment", &Message{Attachments: []Attachment{{Spoiler: true}}}, true},
		{"plain attachment", &Message{Attachments: []Attachment{{ContentType: "image/png"}}}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := checkSpoilers(tt.msg); got != tt.want {
				t.Errorf("checkSpoilers(%s) = %v, want %v", tt.name, got, tt.want)
			}
		})
	}
}

// checkDetector runs a single enabled rule against content and reports
// whether it triggered.
func checkDetector(t *testing.T, rule *models.Rule, prepare func(*MemStore), msg *Message) bool {
	t.Helper()
	store := NewMemStore()
	rule.GuildID = "guild1"
	rule.Enabled = true
	if rule.Action == "" {
		rule.Action = models.ActionDelete
	}
	store.AddRule(rule)
	if prepare != nil {
		prepare(store)
	}
	engine := newTestEngine(store, &recordingPlatform{})

	msg.GuildID = "guild1"
	if msg.ChannelID == "" {
		msg.ChannelID = "chan1"
	}
	if msg.AuthorID == "" {
		msg.AuthorID = "user1"
	}
	got, err := engine.CheckMessage(context.Background(), msg)
	if err != nil {
		t.Fatalf("CheckMessage failed: %v", err)
	}
	return got != nil
}

func TestBadWordMatchTypes(t *testing.T) {
	addWords := func(s *MemStore) {
		s.AddWord(&models.WordEntry{GuildID: "guild1", Word: "scam", MatchType: models.MatchExact})
		s.AddWord(&models.WordEntry{GuildID: "guild1", Word: "crypto", MatchType: models.MatchContains})
		s.AddWord(&models.WordEntry{GuildID: "guild1", Word: "fr*nudge", MatchType: models.MatchWildcard})
	}

	tests := []struct {
		name    string
		content string
		want    bool
	}{
		{"exact word present", "this is a scam folks", true},
		{"exact inside another word stays clean", "scampi recipe", false},
		{"exact case-insensitive", "SCAM alert", true},
		{"contains inside word", "cryptocurrency talk", true},
		{"wildcard spans text", "free nudge for everyone", true},
		{"wildcard prefix missing", "just a nudge", false},
		{"clean message", "completely harmless", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := checkDetector(t,
				&models.Rule{RuleType: models.RuleBadWords},
				addWords,
				&Message{Content: tt.content})
			if got != tt.want {
				t.Errorf("bad_words on %q = %v, want %v", tt.content, got, tt.want)
			}
		})
	}
}

func TestInviteAndMaskedLinks(t *testing.T) {
	tests := []struct {
		name     string
		ruleType models.RuleType
		content  string
		want     bool
	}{
		{"invite gg", models.RuleInviteLinks, "join discord.gg/abc123", true},
		{"invite long form", models.RuleInviteLinks, "https://discord.com/invite/xyz", true},
		{"no invite", models.RuleInviteLinks, "discord is fun", false},
		{"masked link", models.RuleMaskedLinks, "[click here](https://evil.example)", true},
		{"plain link not masked", models.RuleMaskedLinks, "https://example.com", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := checkDetector(t, &models.Rule{RuleType: tt.ruleType}, nil, &Message{Content: tt.content})
			if got != tt.want {
				t.Errorf("%s on %q = %v, want %v", tt.ruleType, tt.content, got, tt.want)
			}
		})
	}
}

func TestPhishingLinks(t *testing.T) {
	tests := []struct {
		content string
		want    bool
	}{
		{"claim your prize at https://discord-nitro.com/free", true},
		{"https://sub.discord-gift.com/claim", true},
		{"https://discord.com/channels/1/2", false},
		{"no links at all", false},
	}

	for _, tt := range tests {
		got := checkDetector(t, &models.Rule{RuleType: models.RulePhishingLinks}, nil, &Message{Content: tt.content})
		if got != tt.want {
			t.Errorf("phishing_links on %q = %v, want %v", tt.content, got, tt.want)
		}
	}
}

func TestLinksBlockList(t *testing.T) {
	prepare := func(s *MemStore) {
		s.AddLinkDomain("guild1", models.LinkBlock, "badsite.com")
	}

	tests := []struct {
		content string
		want    bool
	}{
		{"visit https://badsite.com/page", true},
		{"visit https://sub.badsite.com/page", true},
		{"visit https://goodsite.com", false},
	}

	for _, tt := range tests {
		got := checkDetector(t, &models.Rule{RuleType: models.RuleLinks}, prepare, &Message{Content: tt.content})
		if got != tt.want {
			t.Errorf("links on %q = %v, want %v", tt.content, got, tt.want)
		}
	}
}

func TestLinksAllowlistMode(t *testing.T) {
	prepare := func(s *MemStore) {
		s.AddLinkDomain("guild1", models.LinkAllow, "youtube.com")
	}
	// Threshold 1 switches the rule into allow-list mode.
	rule := func() *models.Rule {
		return &models.Rule{RuleType: models.RuleLinks, Threshold: 1}
	}

	if !checkDetector(t, rule(), prepare, &Message{Content: "see https://random.net/page"}) {
		t.Error("unlisted domain should flag in allow-list mode")
	}
	if checkDetector(t, rule(), prepare, &Message{Content: "see https://youtube.com/watch"}) {
		t.Error("allow-listed domain must pass")
	}
	// Empty allow-list disables the mode rather than blocking everything.
	if checkDetector(t, rule(), nil, &Message{Content: "see https://random.net/page"}) {
		t.Error("empty allow-list must not flag")
	}
}

func TestMassMentions(t *testing.T) {
	rule := &models.Rule{RuleType: models.RuleMassMentions}

	if checkDetector(t, rule, nil, &Message{Content: "hi", MentionUsers: 4}) {
		t.Error("4 mentions under default threshold 5")
	}
	if !checkDetector(t, &models.Rule{RuleType: models.RuleMassMentions}, nil,
		&Message{Content: "hi", MentionUsers: 3, MentionRoles: 2}) {
		t.Error("user and role mentions must count together")
	}
}

func TestImageSpamBurst(t *testing.T) {
	// A single message carrying threshold images triggers immediately.
	got := checkDetector(t, &models.Rule{RuleType: models.RuleImageSpam}, nil, &Message{
		Attachments: []Attachment{
			{ContentType: "image/png"},
			{ContentType: "image/jpeg"},
			{ContentType: "image/gif"},
		},
	})
	if !got {
		t.Error("3 images in one message should trigger the default threshold")
	}

	// Non-image attachments stay clean.
	got = checkDetector(t, &models.Rule{RuleType: models.RuleImageSpam}, nil, &Message{
		Attachments: []Attachment{{ContentType: "application/pdf"}},
	})
	if got {
		t.Error("non-image attachments must not count")
	}
}

func TestNewlinesAndCharacterCount(t *testing.T) {
	if !checkDetector(t, &models.Rule{RuleType: models.RuleNewlines, Threshold: 3}, nil,
		&Message{Content: "a\nb\nc\nd"}) {
		t.Error("3 newlines at threshold 3 should trigger")
	}
	if checkDetector(t, &models.Rule{RuleType: models.RuleNewlines, Threshold: 3}, nil,
		&Message{Content: "a\nb\nc"}) {
		t.Error("2 newlines under threshold 3 must pass")
	}

	if !checkDetector(t, &models.Rule{RuleType: models.RuleCharacterCount, Threshold: 10}, nil,
		&Message{Content: "elevenchars"}) {
		t.Error("11 runes over threshold 10 should trigger")
	}
	if checkDetector(t, &models.Rule{RuleType: models.RuleCharacterCount, Threshold: 10}, nil,
		&Message{Content: "tencharss!"}) {
		t.Error("exactly 10 runes must pass")
	}
}

func TestStickers(t *testing.T) {
	if !checkDetector(t, &models.Rule{RuleType: models.RuleStickers}, nil, &Message{StickerCount: 1}) {
		t.Error("any sticker should trigger the stickers rule")
	}
	if checkDetector(t, &models.Rule{RuleType: models.RuleStickers}, nil, &Message{Content: "hi"}) {
		t.Error("no sticker, no trigger")
	}
}

func BenchmarkCheckAllCaps(b *testing.B) {
	content := "THIS IS A FAIRLY LONG SHOUTED MESSAGE WITH MANY WORDS IN IT"
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		checkAllCaps(content, 70)
	}
}

func BenchmarkExtractHostnames(b *testing.B) {
	content := "check https://example.com/a and http://sub.test.org/b?q=1 out"
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		extractHostnames(content)
	}
}
