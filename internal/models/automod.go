package models

import (
	"fmt"
	"strings"
	"time"
)

// Now returns the current unix timestamp in seconds.
func Now() int64 {
	return time.Now().Unix()
}

// RuleType identifies one automod detector.
type RuleType string

const (
	RuleAllCaps          RuleType = "all_caps"
	RuleBadWords         RuleType = "bad_words"
	RuleNewlines         RuleType = "newlines"
	RuleDuplicateText    RuleType = "duplicate_text"
	RuleCharacterCount   RuleType = "character_count"
	RuleEmojiSpam        RuleType = "emoji_spam"
	RuleFastMessageSpam  RuleType = "fast_message_spam"
	RuleImageSpam        RuleType = "image_spam"
	RuleInviteLinks      RuleType = "invite_links"
	RulePhishingLinks    RuleType = "phishing_links"
	RuleLinks            RuleType = "links"
	RuleLinksCooldown    RuleType = "links_cooldown"
	RuleMassMentions     RuleType = "mass_mentions"
	RuleMentionsCooldown RuleType = "mentions_cooldown"
	RuleSpoilers         RuleType = "spoilers"
	RuleMaskedLinks      RuleType = "masked_links"
	RuleStickers         RuleType = "stickers"
	RuleStickerCooldown  RuleType = "sticker_cooldown"
	RuleZalgo            RuleType = "zalgo"
)

// Action is what the executor does once a rule triggers.
type Action string

const (
	ActionWarn        Action = "warn"
	ActionDelete      Action = "delete"
	ActionWarnDelete  Action = "warn_delete"
	ActionAutoMute    Action = "auto_mute"
	ActionAutoBan     Action = "auto_ban"
	ActionInstantMute Action = "instant_mute"
	ActionInstantBan  Action = "instant_ban"
)

// Rule is one configured detector + action pairing for a guild.
type Rule struct {
	ID               int64
	GuildID          string
	RuleType         RuleType
	Enabled          bool
	Threshold        int // 0 = use the rule-type default
	ThresholdSeconds int // 0 = use the rule-type default window
	Action           Action
	ViolationCount   int // offenses required before auto_mute/auto_ban fires
	MuteDuration     int // seconds, 0 = default 300
	CustomMessage    string
	LogChannelID     string
	CreatedAt        int64
	UpdatedAt        int64
}

// Filter scoping constants
const (
	FilterAffected = "affected"
	FilterIgnored  = "ignored"

	TargetRole    = "role"
	TargetChannel = "channel"
)

// RuleFilter restricts where/to-whom a rule applies.
type RuleFilter struct {
	ID         int64
	RuleID     int64
	FilterType string // affected | ignored
	TargetType string // role | channel
	TargetID   string
}

// Settings is the guild-wide automod configuration.
type Settings struct {
	GuildID           string
	DefaultLogChannel string
	IgnoredRoles      []string
	IgnoredChannels   []string
	UpdatedAt         int64
}

// Word match type constants
const (
	MatchContains = "contains"
	MatchExact    = "exact"
	MatchWildcard = "wildcard"
)

// WordEntry is one banned word for a guild.
type WordEntry struct {
	GuildID   string
	Word      string
	MatchType string
	CreatedAt int64
}

// Link list kinds
const (
	LinkAllow = "allow"
	LinkBlock = "block"
)

// LinkEntry is one allow- or block-listed domain for a guild.
type LinkEntry struct {
	GuildID   string
	Domain    string
	ListKind  string
	CreatedAt int64
}

// Event kind constants for the sliding-window tracker.
const (
	EventMessage = "message"
	EventImage   = "image"
	EventLink    = "link"
	EventMention = "mention"
	EventSticker = "sticker"
)

// TrackedEvent is one timestamped occurrence recorded by a frequency detector.
type TrackedEvent struct {
	ID        int64
	GuildID   string
	UserID    string
	ChannelID string
	EventKind string
	Timestamp int64
}

// ViolationRecord is one escalation-counted offense.
type ViolationRecord struct {
	ID        int64
	GuildID   string
	UserID    string
	RuleType  RuleType
	Timestamp int64
}

// DefaultThreshold returns the built-in threshold used when a rule
// has none stored. Rule types without a numeric threshold return 0.
func DefaultThreshold(rt RuleType) int {
	switch rt {
	case RuleAllCaps:
		return 70
	case RuleNewlines:
		return 10
	case RuleCharacterCount:
		return 2000
	case RuleEmojiSpam:
		return 10
	case RuleFastMessageSpam:
		return 5
	case RuleImageSpam:
		return 3
	case RuleMassMentions:
		return 5
	case RuleMentionsCooldown:
		return 5
	case RuleLinksCooldown:
		return 3
	case RuleStickerCooldown:
		return 3
	default:
		return 0
	}
}

// Default escalation and timing constants.
const (
	DefaultMuteDuration     = 300 // seconds
	DefaultMuteViolations   = 3
	DefaultBanViolations    = 5
	ViolationWindowSeconds  = 300
	TrackingRetentionSecs   = 3600
	DefaultLinkCooldownSecs = 30
)

// AllRuleTypes returns every rule type, in a stable order.
func AllRuleTypes() []RuleType {
	return []RuleType{
		RuleAllCaps,
		RuleBadWords,
		RuleNewlines,
		RuleDuplicateText,
		RuleCharacterCount,
		RuleEmojiSpam,
		RuleFastMessageSpam,
		RuleImageSpam,
		RuleInviteLinks,
		RulePhishingLinks,
		RuleLinks,
		RuleLinksCooldown,
		RuleMassMentions,
		RuleMentionsCooldown,
		RuleSpoilers,
		RuleMaskedLinks,
		RuleStickers,
		RuleStickerCooldown,
		RuleZalgo,
	}
}

// ValidRuleType reports whether s names a known rule type.
func ValidRuleType(s string) bool {
	for _, rt := range AllRuleTypes() {
		if string(rt) == s {
			return true
		}
	}
	return false
}

// ValidAction reports whether s names a known action.
func ValidAction(s string) bool {
	switch Action(s) {
	case ActionWarn, ActionDelete, ActionWarnDelete,
		ActionAutoMute, ActionAutoBan, ActionInstantMute, ActionInstantBan:
		return true
	}
	return false
}

// FormatRuleName renders "fast_message_spam" as "Fast Message Spam".
func FormatRuleName(rt RuleType) string {
	parts := strings.Split(string(rt), "_")
	for i, p := range parts {
		if p != "" {
			parts[i] = strings.ToUpper(p[:1]) + p[1:]
		}
	}
	return strings.Join(parts, " ")
}

// FormatAction renders an action for display.
func FormatAction(a Action) string {
	switch a {
	case ActionWarn:
		return "Warn"
	case ActionDelete:
		return "Delete"
	case ActionWarnDelete:
		return "Warn + Delete"
	case ActionAutoMute:
		return "Auto Mute"
	case ActionAutoBan:
		return "Auto Ban"
	case ActionInstantMute:
		return "Instant Mute"
	case ActionInstantBan:
		return "Instant Ban"
	default:
		return string(a)
	}
}

// FormatDuration renders 90 as "1m", 3661 as "1h", 90000 as "1d".
func FormatDuration(seconds int) string {
	switch {
	case seconds < 60:
		return fmt.Sprintf("%ds", seconds)
	case seconds < 3600:
		return fmt.Sprintf("%dm", seconds/60)
	case seconds < 86400:
		return fmt.Sprintf("%dh", seconds/3600)
	default:
		return fmt.Sprintf("%dd", seconds/86400)
	}
}

// NormalizeDomain strips scheme and path so "https://youtube.com/watch?v=x"
// and "youtube.com" both store as "youtube.com".
func NormalizeDomain(input string) string {
	d := strings.ToLower(strings.TrimSpace(input))
	d = strings.TrimPrefix(d, "https://")
	d = strings.TrimPrefix(d, "http://")
	if i := strings.IndexByte(d, '/'); i >= 0 {
		d = d[:i]
	}
	return strings.TrimSpace(d)
}
