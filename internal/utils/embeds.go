package utils

import (
	"fmt"
	"time"

	"discord-automod-bot/internal/automod"
	"discord-automod-bot/internal/models"

	"github.com/bwmarrin/discordgo"
)

const violationColor = 0xED4245 // Discord red

// CreateAuditEmbed renders one enforcement into the embed posted to the
// guild's log channel.
func CreateAuditEmbed(rec *automod.AuditRecord) *discordgo.MessageEmbed {
	content := rec.Content
	if content == "" {
		content = "*(no text content)*"
	}

	return &discordgo.MessageEmbed{
		Title: "Automod Violation",
		Description: fmt.Sprintf("**Rule:** %s\n**Action:** %s",
			models.FormatRuleName(rec.RuleType), rec.Outcome),
		Color: violationColor,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "User", Value: fmt.Sprintf("<@%s>", rec.UserID), Inline: true},
			{Name: "Channel", Value: fmt.Sprintf("<#%s>", rec.ChannelID), Inline: true},
			{Name: "Message", Value: content},
		},
		Footer: &discordgo.MessageEmbedFooter{
			Text: fmt.Sprintf("User ID: %s", rec.UserID),
		},
		Timestamp: time.Now().Format(time.RFC3339),
	}
}

// CreateRuleEmbed renders one rule's configuration for the info command.
func CreateRuleEmbed(rule *models.Rule, filters []*models.RuleFilter) *discordgo.MessageEmbed {
	status := "Disabled"
	if rule.Enabled {
		status = "Enabled"
	}

	desc := fmt.Sprintf("**Status:** %s\n**Action:** %s", status, models.FormatAction(rule.Action))
	if rule.Threshold > 0 {
		desc += fmt.Sprintf("\n**Threshold:** %d", rule.Threshold)
	}
	if rule.ThresholdSeconds > 0 {
		desc += fmt.Sprintf("\n**Window:** %s", models.FormatDuration(rule.ThresholdSeconds))
	}
	if rule.Action == models.ActionAutoMute || rule.Action == models.ActionAutoBan {
		desc += fmt.Sprintf("\n**Violations Required:** %d", rule.ViolationCount)
	}
	if rule.MuteDuration > 0 {
		desc += fmt.Sprintf("\n**Mute Duration:** %s", models.FormatDuration(rule.MuteDuration))
	}
	if rule.LogChannelID != "" {
		desc += fmt.Sprintf("\n**Log Channel:** <#%s>", rule.LogChannelID)
	}

	embed := &discordgo.MessageEmbed{
		Title:       models.FormatRuleName(rule.RuleType),
		Description: desc,
		Color:       0x2F3136,
		Footer: &discordgo.MessageEmbedFooter{
			Text: fmt.Sprintf("Rule ID: %d", rule.ID),
		},
	}

	for _, f := range filters {
		name := f.FilterType + " " + f.TargetType
		mention := fmt.Sprintf("<#%s>", f.TargetID)
		if f.TargetType == models.TargetRole {
			mention = fmt.Sprintf("<@&%s>", f.TargetID)
		}
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name: name, Value: mention, Inline: true,
		})
	}

	return embed
}
