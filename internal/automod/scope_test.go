package automod

import (
	"testing"

	"discord-automod-bot/internal/models"
)

// Scope evaluation is read-only: asking twice about the same message must
// give the same answer both times.
func TestScopeEvaluationRepeatable(t *testing.T) {
	member := testMessage(1)
	member.AuthorRoles = []string{"mods"}

	tests := []struct {
		name    string
		filters []*models.RuleFilter
		msg     *Message
		want    bool
	}{
		{"no filters", nil, testMessage(1), true},
		{
			"affected role held",
			[]*models.RuleFilter{
				{FilterType: models.FilterAffected, TargetType: models.TargetRole, TargetID: "mods"},
			},
			member, true,
		},
		{
			"affected channel elsewhere",
			[]*models.RuleFilter{
				{FilterType: models.FilterAffected, TargetType: models.TargetChannel, TargetID: "general"},
			},
			testMessage(1), false,
		},
		{
			"ignored wins over affected",
			[]*models.RuleFilter{
				{FilterType: models.FilterAffected, TargetType: models.TargetRole, TargetID: "mods"},
				{FilterType: models.FilterIgnored, TargetType: models.TargetRole, TargetID: "mods"},
			},
			member, false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			first := ruleApplies(tt.filters, tt.msg)
			second := ruleApplies(tt.filters, tt.msg)
			if first != tt.want {
				t.Errorf("ruleApplies = %v, want %v", first, tt.want)
			}
			if first != second {
				t.Errorf("repeated call changed answer: %v then %v", first, second)
			}
		})
	}
}

func TestExemptRepeatable(t *testing.T) {
	settings := &models.Settings{
		GuildID:         "guild1",
		IgnoredChannels: []string{"chan1"},
	}
	msg := testMessage(1)

	first := exempt(msg, settings)
	second := exempt(msg, settings)
	if !first {
		t.Fatal("expected ignored channel to exempt the message")
	}
	if first != second {
		t.Errorf("repeated call changed answer: %v then %v", first, second)
	}
}
