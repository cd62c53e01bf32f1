package commands

import (
	"fmt"
	"strings"

	"discord-automod-bot/internal/commands/framework"
	"discord-automod-bot/internal/models"
	"discord-automod-bot/internal/utils"

	"github.com/bwmarrin/discordgo"
)

func handleFilter(ctx *framework.SlashContext, deps *Deps, sub string, opts optMap) {
	switch sub {
	case "add":
		filterAdd(ctx, deps, opts)
	case "remove":
		filterRemove(ctx, deps, opts)
	}
}

func filterAdd(ctx *framework.SlashContext, deps *Deps, opts optMap) {
	rule := guildRule(ctx, deps, opts["rule_id"].IntValue())
	if rule == nil {
		return
	}

	f := &models.RuleFilter{
		RuleID:     rule.ID,
		FilterType: opts["kind"].StringValue(),
	}
	if opt, ok := opts["role"]; ok {
		f.TargetType = models.TargetRole
		f.TargetID = opt.RoleValue(ctx.Session, ctx.GetGuildID()).ID
	} else if opt, ok := opts["channel"]; ok {
		f.TargetType = models.TargetChannel
		f.TargetID = opt.ChannelValue(ctx.Session).ID
	} else {
		utils.SendError(ctx.Session, ctx.Interaction, "Provide either a role or a channel.")
		return
	}

	if _, err := deps.DB.AddFilter(f); err != nil {
		utils.SendError(ctx.Session, ctx.Interaction, fmt.Sprintf("Failed to save filter: %s", err.Error()))
		return
	}
	deps.Cache.InvalidateRule(rule.ID)

	mention := fmt.Sprintf("<#%s>", f.TargetID)
	if f.TargetType == models.TargetRole {
		mention = fmt.Sprintf("<@&%s>", f.TargetID)
	}
	utils.SendSuccess(ctx.Session, ctx.Interaction, fmt.Sprintf(
		"✅ Rule **%s** (ID %d) now has %s %s %s (filter %d).",
		models.FormatRuleName(rule.RuleType), rule.ID, f.FilterType, f.TargetType, mention, f.ID))
}

func filterRemove(ctx *framework.SlashContext, deps *Deps, opts optMap) {
	rule := guildRule(ctx, deps, opts["rule_id"].IntValue())
	if rule == nil {
		return
	}
	filterID := opts["filter_id"].IntValue()

	// Confirm the filter hangs off this guild's rule before deleting.
	filters, err := deps.DB.GetFilters(rule.ID)
	if err != nil {
		utils.SendError(ctx.Session, ctx.Interaction, fmt.Sprintf("Lookup failed: %s", err.Error()))
		return
	}
	found := false
	for _, f := range filters {
		if f.ID == filterID {
			found = true
			break
		}
	}
	if !found {
		utils.SendError(ctx.Session, ctx.Interaction, fmt.Sprintf("Rule %d has no filter %d.", rule.ID, filterID))
		return
	}

	if err := deps.DB.DeleteFilter(filterID); err != nil {
		utils.SendError(ctx.Session, ctx.Interaction, fmt.Sprintf("Failed to delete filter: %s", err.Error()))
		return
	}
	deps.Cache.InvalidateRule(rule.ID)
	utils.SendSuccess(ctx.Session, ctx.Interaction, fmt.Sprintf("✅ Removed filter %d from rule %d.", filterID, rule.ID))
}

func handleWord(ctx *framework.SlashContext, deps *Deps, sub string, opts optMap) {
	guildID := ctx.GetGuildID()

	switch sub {
	case "add":
		word := opts["word"].StringValue()
		matchType := models.MatchContains
		if opt, ok := opts["match"]; ok {
			matchType = opt.StringValue()
		}
		if err := deps.DB.AddBadWord(guildID, word, matchType); err != nil {
			utils.SendError(ctx.Session, ctx.Interaction, fmt.Sprintf("Failed to save word: %s", err.Error()))
			return
		}
		deps.Cache.InvalidateGuild(guildID)
		utils.SendSuccess(ctx.Session, ctx.Interaction, fmt.Sprintf("✅ Banned `%s` (%s match).", word, matchType))

	case "remove":
		word := opts["word"].StringValue()
		if err := deps.DB.RemoveBadWord(guildID, word); err != nil {
			utils.SendError(ctx.Session, ctx.Interaction, fmt.Sprintf("Failed to remove word: %s", err.Error()))
			return
		}
		deps.Cache.InvalidateGuild(guildID)
		utils.SendSuccess(ctx.Session, ctx.Interaction, fmt.Sprintf("✅ Unbanned `%s`.", word))

	case "list":
		words, err := deps.DB.GetBadWords(guildID)
		if err != nil {
			utils.SendError(ctx.Session, ctx.Interaction, fmt.Sprintf("Lookup failed: %s", err.Error()))
			return
		}
		if len(words) == 0 {
			utils.SendSuccess(ctx.Session, ctx.Interaction, "No banned words configured.")
			return
		}
		var b strings.Builder
		for _, w := range words {
			fmt.Fprintf(&b, "`%s` (%s)\n", w.Word, w.MatchType)
		}
		utils.SendEmbed(ctx.Session, ctx.Interaction, &discordgo.MessageEmbed{
			Title:       "Banned Words",
			Description: b.String(),
			Color:       0x2F3136,
			Footer:      &discordgo.MessageEmbedFooter{Text: fmt.Sprintf("%d words", len(words))},
		})
	}
}

func handleLink(ctx *framework.SlashContext, deps *Deps, sub string, opts optMap) {
	guildID := ctx.GetGuildID()

	switch sub {
	case "add":
		domain := models.NormalizeDomain(opts["domain"].StringValue())
		kind := opts["list"].StringValue()
		if domain == "" {
			utils.SendError(ctx.Session, ctx.Interaction, "That does not look like a domain.")
			return
		}
		if err := deps.DB.AddLink(guildID, domain, kind); err != nil {
			utils.SendError(ctx.Session, ctx.Interaction, fmt.Sprintf("Failed to save domain: %s", err.Error()))
			return
		}
		deps.Cache.InvalidateGuild(guildID)
		utils.SendSuccess(ctx.Session, ctx.Interaction, fmt.Sprintf("✅ Added `%s` to the %s list.", domain, kind))

	case "remove":
		domain := models.NormalizeDomain(opts["domain"].StringValue())
		kind := opts["list"].StringValue()
		if err := deps.DB.RemoveLink(guildID, domain, kind); err != nil {
			utils.SendError(ctx.Session, ctx.Interaction, fmt.Sprintf("Failed to remove domain: %s", err.Error()))
			return
		}
		deps.Cache.InvalidateGuild(guildID)
		utils.SendSuccess(ctx.Session, ctx.Interaction, fmt.Sprintf("✅ Removed `%s` from the %s list.", domain, kind))

	case "list":
		allow, err := deps.DB.GetLinks(guildID, models.LinkAllow)
		if err != nil {
			utils.SendError(ctx.Session, ctx.Interaction, fmt.Sprintf("Lookup failed: %s", err.Error()))
			return
		}
		block, err := deps.DB.GetLinks(guildID, models.LinkBlock)
		if err != nil {
			utils.SendError(ctx.Session, ctx.Interaction, fmt.Sprintf("Lookup failed: %s", err.Error()))
			return
		}

		format := func(domains []string) string {
			if len(domains) == 0 {
				return "*(empty)*"
			}
			return "`" + strings.Join(domains, "`\n`") + "`"
		}
		utils.SendEmbed(ctx.Session, ctx.Interaction, &discordgo.MessageEmbed{
			Title: "Link Lists",
			Color: 0x2F3136,
			Fields: []*discordgo.MessageEmbedField{
				{Name: "Allowed", Value: format(allow), Inline: true},
				{Name: "Blocked", Value: format(block), Inline: true},
			},
		})
	}
}
