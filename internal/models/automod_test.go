package models

import "testing"

func TestFormatRuleName(t *testing.T) {
	tests := []struct {
		in   RuleType
		want string
	}{
		{RuleAllCaps, "All Caps"},
		{RuleFastMessageSpam, "Fast Message Spam"},
		{RuleZalgo, "Zalgo"},
		{RuleLinksCooldown, "Links Cooldown"},
	}
	for _, tt := range tests {
		if got := FormatRuleName(tt.in); got != tt.want {
			t.Errorf("FormatRuleName(%s) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		in   int
		want string
	}{
		{45, "45s"},
		{60, "1m"},
		{300, "5m"},
		{3600, "1h"},
		{7200, "2h"},
		{86400, "1d"},
		{90000, "1d"},
	}
	for _, tt := range tests {
		if got := FormatDuration(tt.in); got != tt.want {
			t.Errorf("FormatDuration(%d) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestNormalizeDomain(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"youtube.com", "youtube.com"},
		{"https://youtube.com/watch?v=x", "youtube.com"},
		{"http://Example.COM/path", "example.com"},
		{"  spaced.net  ", "spaced.net"},
		{"https://bare.org", "bare.org"},
	}
	for _, tt := range tests {
		if got := NormalizeDomain(tt.in); got != tt.want {
			t.Errorf("NormalizeDomain(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestValidRuleType(t *testing.T) {
	for _, rt := range AllRuleTypes() {
		if !ValidRuleType(string(rt)) {
			t.Errorf("AllRuleTypes entry %q not valid", rt)
		}
	}
	if ValidRuleType("not_a_rule") {
		t.Error("unknown type accepted")
	}
}

func TestValidAction(t *testing.T) {
	for _, a := range []Action{
		ActionWarn, ActionDelete, ActionWarnDelete,
		ActionAutoMute, ActionAutoBan, ActionInstantMute, ActionInstantBan,
	} {
		if !ValidAction(string(a)) {
			t.Errorf("action %q not valid", a)
		}
	}
	if ValidAction("shadowban") {
		t.Error("unknown action accepted")
	}
}

func TestDefaultThreshold(t *testing.T) {
	// Frequency and count-based rules carry defaults; predicate rules return 0.
	if got := DefaultThreshold(RuleFastMessageSpam); got != 5 {
		t.Errorf("fast_message_spam default = %d, want 5", got)
	}
	if got := DefaultThreshold(RuleAllCaps); got != 70 {
		t.Errorf("all_caps default = %d, want 70", got)
	}
	if got := DefaultThreshold(RuleZalgo); got != 0 {
		t.Errorf("zalgo default = %d, want 0", got)
	}
}
