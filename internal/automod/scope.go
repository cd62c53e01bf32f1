package automod

import (
	"discord-automod-bot/internal/models"
)

// exempt reports whether a message skips automod entirely: bot authors, the
// guild owner, administrators, and globally ignored roles/channels.
// Checked once per message, before any rule.
func exempt(msg *Message, settings *models.Settings) bool {
	if msg.AuthorBot || msg.AuthorIsOwner || msg.AuthorIsAdmin {
		return true
	}
	if settings == nil {
		return false
	}
	for _, roleID := range settings.IgnoredRoles {
		if msg.HasRole(roleID) {
			return true
		}
	}
	for _, channelID := range settings.IgnoredChannels {
		if channelID == msg.ChannelID {
			return true
		}
	}
	return false
}

// ruleApplies evaluates a rule's scoping filters against a message.
//
// Affected groups are opt-in: a non-empty affected-roles group requires the
// author to hold one of the listed roles, likewise affected-channels for the
// message's channel. Ignored groups are opt-out and always win over affected
// groups. A rule with no filters applies everywhere. Read-only: calling it
// twice on the same inputs yields the same answer.
func ruleApplies(filters []*models.RuleFilter, msg *Message) bool {
	var affectedRoles, affectedChannels, ignoredRoles, ignoredChannels []*models.RuleFilter
	for _, f := range filters {
		switch {
		case f.FilterType == models.FilterAffected && f.TargetType == models.TargetRole:
			affectedRoles = append(affectedRoles, f)
		case f.FilterType == models.FilterAffected && f.TargetType == models.TargetChannel:
			affectedChannels = append(affectedChannels, f)
		case f.FilterType == models.FilterIgnored && f.TargetType == models.TargetRole:
			ignoredRoles = append(ignoredRoles, f)
		case f.FilterType == models.FilterIgnored && f.TargetType == models.TargetChannel:
			ignoredChannels = append(ignoredChannels, f)
		}
	}

	if len(affectedRoles) > 0 {
		held := false
		for _, f := range affectedRoles {
			if msg.HasRole(f.TargetID) {
				held = true
				break
			}
		}
		if !held {
			return false
		}
	}

	if len(affectedChannels) > 0 {
		listed := false
		for _, f := range affectedChannels {
			if f.TargetID == msg.ChannelID {
				listed = true
				break
			}
		}
		if !listed {
			return false
		}
	}

	for _, f := range ignoredRoles {
		if msg.HasRole(f.TargetID) {
			return false
		}
	}

	for _, f := range ignoredChannels {
		if f.TargetID == msg.ChannelID {
			return false
		}
	}

	return true
}
