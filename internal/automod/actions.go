package automod

import (
	"context"
	"fmt"
	"time"
	"unicode/utf8"

	"discord-automod-bot/internal/models"

	"go.uber.org/zap"
)

// Platform is the chat-platform surface the executor drives. Every call is
// fallible; the executor checks results and folds failures into the audit
// outcome instead of raising them.
type Platform interface {
	// SendTimedNotice posts an author-addressed warning that the platform
	// implementation retracts after the given delay.
	SendTimedNotice(channelID, text string, retractAfter time.Duration) error
	DeleteMessage(channelID, messageID string) error
	TimeoutMember(guildID, userID string, duration time.Duration, reason string) error
	BanMember(guildID, userID, reason string) error
	SendAuditEmbed(channelID string, rec *AuditRecord) error
}

// AuditRecord describes one enforcement taken, routed to a log channel.
type AuditRecord struct {
	GuildID   string
	ChannelID string
	UserID    string
	RuleType  models.RuleType
	Outcome   string
	Content   string // truncated copy of the offending message
}

const (
	warnRetractAfter  = 5 * time.Second
	auditContentLimit = 1000
)

// executeAction runs the side-effect pipeline for a triggered rule and
// returns the human-readable outcome. Each step is attempted independently;
// a failed delete never blocks the mute that follows it.
func (e *Engine) executeAction(ctx context.Context, msg *Message, rule *models.Rule) string {
	var outcome string

	switch rule.Action {
	case models.ActionWarn:
		outcome = e.warnStep(msg, rule)

	case models.ActionDelete:
		outcome = e.deleteStep(msg)

	case models.ActionWarnDelete:
		w := e.warnStep(msg, rule)
		d := e.deleteStep(msg)
		outcome = w + " + " + d

	case models.ActionAutoMute:
		outcome = e.escalateStep(ctx, msg, rule, false)

	case models.ActionAutoBan:
		outcome = e.escalateStep(ctx, msg, rule, true)

	case models.ActionInstantMute:
		e.deleteStep(msg)
		if err := e.platform.TimeoutMember(msg.GuildID, msg.AuthorID, muteDuration(rule), muteReason(rule)); err != nil {
			e.logger.Warn("timeout failed", zap.String("guild_id", msg.GuildID), zap.String("user_id", msg.AuthorID), zap.Error(err))
			outcome = "Deleted (mute failed)"
		} else {
			outcome = "Deleted + Muted"
		}

	case models.ActionInstantBan:
		e.deleteStep(msg)
		if err := e.platform.BanMember(msg.GuildID, msg.AuthorID, banReason(rule)); err != nil {
			e.logger.Warn("ban failed", zap.String("guild_id", msg.GuildID), zap.String("user_id", msg.AuthorID), zap.Error(err))
			outcome = "Deleted (ban failed)"
		} else {
			outcome = "Deleted + Banned"
		}

	default:
		e.logger.Warn("unknown action", zap.String("action", string(rule.Action)))
		outcome = "None"
	}

	actionExecuted.WithLabelValues(string(rule.Action)).Inc()
	return outcome
}

// warnStep posts the ephemeral-style notice, auto-retracted after 5s.
func (e *Engine) warnStep(msg *Message, rule *models.Rule) string {
	text := rule.CustomMessage
	if text == "" {
		text = fmt.Sprintf("<@%s>, your message violated the %s rule.", msg.AuthorID, models.FormatRuleName(rule.RuleType))
	}
	if err := e.platform.SendTimedNotice(msg.ChannelID, text, warnRetractAfter); err != nil {
		e.logger.Warn("warn notice failed", zap.String("channel_id", msg.ChannelID), zap.Error(err))
		return "Warn failed"
	}
	return "Warned"
}

// deleteStep removes the offending message. A message already gone is not
// an error worth surfacing.
func (e *Engine) deleteStep(msg *Message) string {
	if err := e.platform.DeleteMessage(msg.ChannelID, msg.MessageID); err != nil {
		e.logger.Debug("delete failed", zap.String("message_id", msg.MessageID), zap.Error(err))
		return "Delete failed"
	}
	return "Deleted"
}

// escalateStep implements auto_mute/auto_ban: delete unconditionally, record
// the violation, and punish only once the accumulated count reaches the
// rule's requirement. The count decays on its own through the 300s window;
// no explicit reset happens after a successful punishment.
func (e *Engine) escalateStep(ctx context.Context, msg *Message, rule *models.Rule, ban bool) string {
	e.deleteStep(msg)

	count, err := e.recordAndCount(ctx, msg.GuildID, msg.AuthorID, rule.RuleType)
	if err != nil {
		e.logger.Error("violation accumulation failed", zap.String("guild_id", msg.GuildID), zap.Error(err))
		return "Deleted (violation tracking failed)"
	}

	required := rule.ViolationCount
	if required <= 0 {
		if ban {
			required = models.DefaultBanViolations
		} else {
			required = models.DefaultMuteViolations
		}
	}

	if count < required {
		return fmt.Sprintf("Violation %d/%d", count, required)
	}

	if ban {
		if err := e.platform.BanMember(msg.GuildID, msg.AuthorID, banReason(rule)); err != nil {
			e.logger.Warn("ban failed", zap.String("guild_id", msg.GuildID), zap.String("user_id", msg.AuthorID), zap.Error(err))
			return "Ban failed"
		}
		return fmt.Sprintf("Auto-banned (%d violations)", count)
	}
	if err := e.platform.TimeoutMember(msg.GuildID, msg.AuthorID, muteDuration(rule), muteReason(rule)); err != nil {
		e.logger.Warn("timeout failed", zap.String("guild_id", msg.GuildID), zap.String("user_id", msg.AuthorID), zap.Error(err))
		return "Mute failed"
	}
	return fmt.Sprintf("Auto-muted (%d violations)", count)
}

func muteDuration(rule *models.Rule) time.Duration {
	secs := rule.MuteDuration
	if secs <= 0 {
		secs = models.DefaultMuteDuration
	}
	return time.Duration(secs) * time.Second
}

func muteReason(rule *models.Rule) string {
	return "Automod: " + models.FormatRuleName(rule.RuleType)
}

func banReason(rule *models.Rule) string {
	return "Automod: " + models.FormatRuleName(rule.RuleType)
}

// emitAudit routes the audit record to the rule's log channel, falling back
// to the guild default. With neither configured the record is dropped.
func (e *Engine) emitAudit(msg *Message, rule *models.Rule, settings *models.Settings, outcome string) {
	channelID := rule.LogChannelID
	if channelID == "" && settings != nil {
		channelID = settings.DefaultLogChannel
	}
	if channelID == "" {
		return
	}

	content := truncateRunes(msg.Content, auditContentLimit)

	rec := &AuditRecord{
		GuildID:   msg.GuildID,
		ChannelID: msg.ChannelID,
		UserID:    msg.AuthorID,
		RuleType:  rule.RuleType,
		Outcome:   outcome,
		Content:   content,
	}
	if err := e.platform.SendAuditEmbed(channelID, rec); err != nil {
		e.logger.Warn("audit emit failed", zap.String("log_channel", channelID), zap.Error(err))
	}
}

// truncateRunes cuts s to at most max bytes without splitting a rune.
func truncateRunes(s string, max int) string {
	if len(s) <= max {
		return s
	}
	cut := max
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}
