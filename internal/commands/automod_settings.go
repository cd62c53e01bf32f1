package commands

import (
	"fmt"
	"strings"

	"discord-automod-bot/internal/commands/framework"
	"discord-automod-bot/internal/models"
	"discord-automod-bot/internal/utils"

	"github.com/bwmarrin/discordgo"
)

func handleSettings(ctx *framework.SlashContext, deps *Deps, sub string, opts optMap) {
	guildID := ctx.GetGuildID()
	settings, err := deps.DB.GetSettings(guildID)
	if err != nil {
		utils.SendError(ctx.Session, ctx.Interaction, fmt.Sprintf("Lookup failed: %s", err.Error()))
		return
	}

	switch sub {
	case "logchannel":
		if opt, ok := opts["channel"]; ok {
			settings.DefaultLogChannel = opt.ChannelValue(ctx.Session).ID
		} else {
			settings.DefaultLogChannel = ""
		}
		if !saveSettings(ctx, deps, settings) {
			return
		}
		if settings.DefaultLogChannel == "" {
			utils.SendSuccess(ctx.Session, ctx.Interaction, "✅ Default log channel cleared.")
		} else {
			utils.SendSuccess(ctx.Session, ctx.Interaction, fmt.Sprintf(
				"✅ Violations now log to <#%s> by default.", settings.DefaultLogChannel))
		}

	case "ignore":
		applyExemption(ctx, deps, settings, opts, true)

	case "unignore":
		applyExemption(ctx, deps, settings, opts, false)

	case "show":
		showSettings(ctx, settings)
	}
}

func applyExemption(ctx *framework.SlashContext, deps *Deps, settings *models.Settings, opts optMap, ignore bool) {
	var verb string
	if opt, ok := opts["role"]; ok {
		id := opt.RoleValue(ctx.Session, ctx.GetGuildID()).ID
		if ignore {
			settings.IgnoredRoles = appendID(settings.IgnoredRoles, id)
			verb = fmt.Sprintf("✅ <@&%s> is now exempt from automod.", id)
		} else {
			settings.IgnoredRoles = removeID(settings.IgnoredRoles, id)
			verb = fmt.Sprintf("✅ <@&%s> is no longer exempt.", id)
		}
	} else if opt, ok := opts["channel"]; ok {
		id := opt.ChannelValue(ctx.Session).ID
		if ignore {
			settings.IgnoredChannels = appendID(settings.IgnoredChannels, id)
			verb = fmt.Sprintf("✅ <#%s> is now exempt from automod.", id)
		} else {
			settings.IgnoredChannels = removeID(settings.IgnoredChannels, id)
			verb = fmt.Sprintf("✅ <#%s> is no longer exempt.", id)
		}
	} else {
		utils.SendError(ctx.Session, ctx.Interaction, "Provide either a role or a channel.")
		return
	}

	if !saveSettings(ctx, deps, settings) {
		return
	}
	utils.SendSuccess(ctx.Session, ctx.Interaction, verb)
}

func saveSettings(ctx *framework.SlashContext, deps *Deps, settings *models.Settings) bool {
	settings.GuildID = ctx.GetGuildID()
	if err := deps.DB.UpdateSettings(settings); err != nil {
		utils.SendError(ctx.Session, ctx.Interaction, fmt.Sprintf("Failed to save settings: %s", err.Error()))
		return false
	}
	deps.Cache.InvalidateGuild(settings.GuildID)
	return true
}

func showSettings(ctx *framework.SlashContext, settings *models.Settings) {
	logChannel := "*(none)*"
	if settings.DefaultLogChannel != "" {
		logChannel = fmt.Sprintf("<#%s>", settings.DefaultLogChannel)
	}

	mentions := func(ids []string, prefix, suffix string) string {
		if len(ids) == 0 {
			return "*(none)*"
		}
		var b strings.Builder
		for _, id := range ids {
			b.WriteString(prefix + id + suffix + " ")
		}
		return strings.TrimSpace(b.String())
	}

	utils.SendEmbed(ctx.Session, ctx.Interaction, &discordgo.MessageEmbed{
		Title: "Automod Settings",
		Color: 0x2F3136,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Default Log Channel", Value: logChannel},
			{Name: "Ignored Roles", Value: mentions(settings.IgnoredRoles, "<@&", ">")},
			{Name: "Ignored Channels", Value: mentions(settings.IgnoredChannels, "<#", ">")},
		},
	})
}

func appendID(ids []string, id string) []string {
	for _, existing := range ids {
		if existing == id {
			return ids
		}
	}
	return append(ids, id)
}

func removeID(ids []string, id string) []string {
	out := ids[:0]
	for _, existing := range ids {
		if existing != id {
			out = append(out, existing)
		}
	}
	return out
}
