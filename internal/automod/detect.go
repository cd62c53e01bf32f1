package automod

import (
	"context"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"discord-automod-bot/internal/models"

	"go.uber.org/zap"
)

var customEmojiPattern = regexp.MustCompile(`<a?:\w+:\d+>`)

// resolveThreshold returns the rule's stored threshold, falling back to the
// rule-type default when unset.
func resolveThreshold(rule *models.Rule) int {
	if rule.Threshold > 0 {
		return rule.Threshold
	}
	return models.DefaultThreshold(rule.RuleType)
}

// evaluate runs the detector for one rule. The frequency-based detectors
// record a tracker event as a side effect even when they do not trigger, so
// later messages count against accurate history. All other detectors are
// pure predicates over the message.
func (e *Engine) evaluate(ctx context.Context, rule *models.Rule, msg *Message) (bool, error) {
	threshold := resolveThreshold(rule)

	switch rule.RuleType {
	case models.RuleAllCaps:
		return checkAllCaps(msg.Content, threshold), nil
	case models.RuleBadWords:
		return e.checkBadWords(msg)
	case models.RuleNewlines:
		return strings.Count(msg.Content, "\n") >= threshold, nil
	case models.RuleDuplicateText:
		return checkDuplicateText(msg.Content), nil
	case models.RuleCharacterCount:
		return utf8.RuneCountInString(msg.Content) > threshold, nil
	case models.RuleEmojiSpam:
		return countEmoji(msg.Content) >= threshold, nil
	case models.RuleFastMessageSpam:
		return e.checkWindow(ctx, msg, models.EventMessage, msg.ChannelID, threshold, windowSeconds(rule, 5))
	case models.RuleImageSpam:
		return e.checkImageSpam(ctx, msg, threshold, windowSeconds(rule, 10))
	case models.RuleInviteLinks:
		return invitePattern.MatchString(msg.Content), nil
	case models.RulePhishingLinks:
		return e.checkPhishingLinks(msg.Content), nil
	case models.RuleLinks:
		return e.checkLinks(msg, rule.Threshold == 1)
	case models.RuleLinksCooldown:
		if !containsURL(msg.Content) {
			return false, nil
		}
		return e.checkWindow(ctx, msg, models.EventLink, "", threshold, windowSeconds(rule, models.DefaultLinkCooldownSecs))
	case models.RuleMassMentions:
		return msg.MentionUsers+msg.MentionRoles >= threshold, nil
	case models.RuleMentionsCooldown:
		if msg.MentionUsers == 0 && msg.MentionRoles == 0 {
			return false, nil
		}
		return e.checkWindow(ctx, msg, models.EventMention, "", threshold, windowSeconds(rule, 30))
	case models.RuleSpoilers:
		return checkSpoilers(msg), nil
	case models.RuleMaskedLinks:
		return maskedLinkPattern.MatchString(msg.Content), nil
	case models.RuleStickers:
		return msg.StickerCount > 0, nil
	case models.RuleStickerCooldown:
		if msg.StickerCount == 0 {
			return false, nil
		}
		return e.checkWindow(ctx, msg, models.EventSticker, "", threshold, windowSeconds(rule, 60))
	case models.RuleZalgo:
		return checkZalgo(msg.Content), nil
	default:
		// Rows written by a newer binary may carry types this one does not
		// know; treat them as never triggering.
		e.logger.Warn("unknown rule type", zap.String("rule_type", string(rule.RuleType)))
		return false, nil
	}
}

func windowSeconds(rule *models.Rule, def int) int {
	if rule.ThresholdSeconds > 0 {
		return rule.ThresholdSeconds
	}
	return def
}

// checkWindow records one event and reports whether the trailing window now
// holds at least threshold events. channelID narrows the count when set.
func (e *Engine) checkWindow(ctx context.Context, msg *Message, eventKind, channelID string, threshold, seconds int) (bool, error) {
	now := e.now()
	if err := e.tracker.TrackEvent(ctx, msg.GuildID, msg.AuthorID, msg.ChannelID, eventKind, now); err != nil {
		return false, err
	}
	count, err := e.tracker.CountEventsSince(ctx, msg.GuildID, msg.AuthorID, channelID, eventKind, now-int64(seconds))
	if err != nil {
		return false, err
	}
	return count >= threshold, nil
}

// checkAllCaps triggers when the upper-case share of alphabetic characters
// reaches the threshold percentage. Messages under 5 characters never
// trigger; a two-word shout is not worth policing.
func checkAllCaps(content string, threshold int) bool {
	if utf8.RuneCountInString(content) < 5 {
		return false
	}
	letters, uppers := 0, 0
	for _, r := range content {
		if r >= 'a' && r <= 'z' {
			letters++
		} else if r >= 'A' && r <= 'Z' {
			letters++
			uppers++
		}
	}
	if letters == 0 {
		return false
	}
	return uppers*100 >= threshold*letters
}

func (e *Engine) checkBadWords(msg *Message) (bool, error) {
	words, err := e.store.GetBadWords(msg.GuildID)
	if err != nil {
		return false, err
	}
	if len(words) == 0 {
		return false, nil
	}
	lower := strings.ToLower(msg.Content)
	for _, entry := range words {
		if matchWord(entry, msg.Content, lower) {
			return true, nil
		}
	}
	return false, nil
}

// checkDuplicateText triggers on a run of 8+ identical characters (folded,
// so "aA" counts as a run) or 5+ identical consecutive whitespace-delimited
// tokens (exact).
func checkDuplicateText(content string) bool {
	var prev rune
	run := 0
	for _, r := range content {
		r = unicode.ToLower(r)
		if r == prev {
			run++
			if run >= 8 {
				return true
			}
		} else {
			prev = r
			run = 1
		}
	}

	words := strings.Fields(content)
	streak := 1
	for i := 1; i < len(words); i++ {
		if words[i] == words[i-1] {
			streak++
			if streak >= 5 {
				return true
			}
		} else {
			streak = 1
		}
	}
	return false
}

// countEmoji counts unicode emoji runes plus custom emoji tokens
// (<:name:id> and <a:name:id>).
func countEmoji(content string) int {
	n := customEmojiPattern.FindAllStringIndex(content, -1)
	count := len(n)
	for _, r := range content {
		if isEmojiRune(r) {
			count++
		}
	}
	return count
}

// isEmojiRune covers the emoji blocks the platform renders as emoji. Skin
// tone modifiers and ZWJ sequence parts count individually, which matches
// how spammy walls of emoji read.
func isEmojiRune(r rune) bool {
	switch {
	case r >= 0x1F300 && r <= 0x1FAFF: // pictographs, transport, supplemental
		return true
	case r >= 0x1F1E6 && r <= 0x1F1FF: // regional indicators (flags)
		return true
	case r >= 0x2600 && r <= 0x27BF: // misc symbols, dingbats
		return true
	case r >= 0x2B00 && r <= 0x2BFF: // arrows and symbols
		return true
	case r == 0x2764: // heavy heart
		return true
	default:
		return false
	}
}

func (e *Engine) checkImageSpam(ctx context.Context, msg *Message, threshold, seconds int) (bool, error) {
	images := msg.ImageCount()
	if images == 0 {
		return false, nil
	}
	if images >= threshold {
		return true, nil
	}
	now := e.now()
	if err := e.tracker.TrackEvent(ctx, msg.GuildID, msg.AuthorID, msg.ChannelID, models.EventImage, now); err != nil {
		return false, err
	}
	count, err := e.tracker.CountEventsSince(ctx, msg.GuildID, msg.AuthorID, "", models.EventImage, now-int64(seconds))
	if err != nil {
		return false, err
	}
	return count >= threshold, nil
}

func (e *Engine) checkPhishingLinks(content string) bool {
	for _, host := range extractHostnames(content) {
		if hostMatchesAny(host, e.phishingDomains) {
			return true
		}
	}
	return false
}

// checkLinks flags hostnames on the guild block-list. In allow-list mode
// (threshold=1) any hostname absent from a non-empty allow-list also flags.
func (e *Engine) checkLinks(msg *Message, allowlistMode bool) (bool, error) {
	hosts := extractHostnames(msg.Content)
	if len(hosts) == 0 {
		return false, nil
	}

	blocked, err := e.store.GetLinks(msg.GuildID, models.LinkBlock)
	if err != nil {
		return false, err
	}
	var allowed []string
	if allowlistMode {
		allowed, err = e.store.GetLinks(msg.GuildID, models.LinkAllow)
		if err != nil {
			return false, err
		}
	}

	for _, host := range hosts {
		if hostMatchesAny(host, blocked) {
			return true, nil
		}
		if allowlistMode && len(allowed) > 0 && !hostMatchesAny(host, allowed) {
			return true, nil
		}
	}
	return false, nil
}

func checkSpoilers(msg *Message) bool {
	if strings.Contains(msg.Content, "||") {
		return true
	}
	for _, a := range msg.Attachments {
		if a.Spoiler {
			return true
		}
	}
	return false
}

// checkZalgo triggers on combining-mark density: more than 15 marks
// absolute, or marks exceeding 20% of the message's rune count.
func checkZalgo(content string) bool {
	marks := 0
	total := 0
	for _, r := range content {
		total++
		if unicode.In(r, unicode.Mn, unicode.Me) {
			marks++
		}
	}
	if marks == 0 {
		return false
	}
	return marks > 15 || marks*5 > total
}
