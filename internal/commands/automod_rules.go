package commands

import (
	"fmt"
	"strings"

	"discord-automod-bot/internal/commands/framework"
	"discord-automod-bot/internal/models"
	"discord-automod-bot/internal/utils"

	"github.com/bwmarrin/discordgo"
)

type optMap = map[string]*discordgo.ApplicationCommandInteractionDataOption

func handleRule(ctx *framework.SlashContext, deps *Deps, sub string, opts optMap) {
	switch sub {
	case "add":
		ruleAdd(ctx, deps, opts)
	case "edit":
		ruleEdit(ctx, deps, opts)
	case "remove":
		ruleRemove(ctx, deps, opts)
	case "enable":
		ruleSetEnabled(ctx, deps, opts, true)
	case "disable":
		ruleSetEnabled(ctx, deps, opts, false)
	case "list":
		ruleList(ctx, deps)
	case "info":
		ruleInfo(ctx, deps, opts)
	}
}

// applyRuleOptions copies the shared config options onto a rule. Used by
// both add and edit so the two stay in sync.
func applyRuleOptions(ctx *framework.SlashContext, rule *models.Rule, opts optMap) {
	if opt, ok := opts["action"]; ok {
		rule.Action = models.Action(opt.StringValue())
	}
	if opt, ok := opts["threshold"]; ok {
		rule.Threshold = int(opt.IntValue())
	}
	if opt, ok := opts["window"]; ok {
		rule.ThresholdSeconds = int(opt.IntValue())
	}
	if opt, ok := opts["violations"]; ok {
		rule.ViolationCount = int(opt.IntValue())
	}
	if opt, ok := opts["mute_duration"]; ok {
		rule.MuteDuration = int(opt.IntValue())
	}
	if opt, ok := opts["log_channel"]; ok {
		rule.LogChannelID = opt.ChannelValue(ctx.Session).ID
	}
	if opt, ok := opts["custom_message"]; ok {
		rule.CustomMessage = opt.StringValue()
	}
}

func ruleAdd(ctx *framework.SlashContext, deps *Deps, opts optMap) {
	ruleType := opts["type"].StringValue()
	if !models.ValidRuleType(ruleType) {
		utils.SendError(ctx.Session, ctx.Interaction, "Unknown rule type.")
		return
	}

	rule := &models.Rule{
		GuildID:  ctx.GetGuildID(),
		RuleType: models.RuleType(ruleType),
		Enabled:  true,
	}
	applyRuleOptions(ctx, rule, opts)

	if _, err := deps.DB.CreateRule(rule); err != nil {
		utils.SendError(ctx.Session, ctx.Interaction, fmt.Sprintf("Failed to save rule: %s", err.Error()))
		return
	}
	deps.Cache.InvalidateGuild(ctx.GetGuildID())

	utils.SendSuccess(ctx.Session, ctx.Interaction, fmt.Sprintf(
		"✅ Added **%s** rule (ID %d) with action **%s**.",
		models.FormatRuleName(rule.RuleType), rule.ID, models.FormatAction(rule.Action)))
}

// guildRule loads a rule and verifies it belongs to the invoking guild.
func guildRule(ctx *framework.SlashContext, deps *Deps, ruleID int64) *models.Rule {
	rule, err := deps.DB.GetRuleByID(ruleID)
	if err != nil {
		utils.SendError(ctx.Session, ctx.Interaction, fmt.Sprintf("Lookup failed: %s", err.Error()))
		return nil
	}
	if rule == nil || rule.GuildID != ctx.GetGuildID() {
		utils.SendError(ctx.Session, ctx.Interaction, fmt.Sprintf("No rule with ID %d in this server.", ruleID))
		return nil
	}
	return rule
}

func ruleEdit(ctx *framework.SlashContext, deps *Deps, opts optMap) {
	rule := guildRule(ctx, deps, opts["id"].IntValue())
	if rule == nil {
		return
	}
	applyRuleOptions(ctx, rule, opts)

	if err := deps.DB.UpdateRule(rule); err != nil {
		utils.SendError(ctx.Session, ctx.Interaction, fmt.Sprintf("Failed to update rule: %s", err.Error()))
		return
	}
	deps.Cache.InvalidateGuild(ctx.GetGuildID())
	utils.SendSuccess(ctx.Session, ctx.Interaction, fmt.Sprintf(
		"✅ Updated **%s** rule (ID %d).", models.FormatRuleName(rule.RuleType), rule.ID))
}

func ruleRemove(ctx *framework.SlashContext, deps *Deps, opts optMap) {
	rule := guildRule(ctx, deps, opts["id"].IntValue())
	if rule == nil {
		return
	}

	if err := deps.DB.DeleteRule(rule.ID); err != nil {
		utils.SendError(ctx.Session, ctx.Interaction, fmt.Sprintf("Failed to delete rule: %s", err.Error()))
		return
	}
	deps.Cache.InvalidateGuild(ctx.GetGuildID())
	deps.Cache.InvalidateRule(rule.ID)
	utils.SendSuccess(ctx.Session, ctx.Interaction, fmt.Sprintf(
		"✅ Removed **%s** rule (ID %d).", models.FormatRuleName(rule.RuleType), rule.ID))
}

func ruleSetEnabled(ctx *framework.SlashContext, deps *Deps, opts optMap, enabled bool) {
	rule := guildRule(ctx, deps, opts["id"].IntValue())
	if rule == nil {
		return
	}

	rule.Enabled = enabled
	if err := deps.DB.UpdateRule(rule); err != nil {
		utils.SendError(ctx.Session, ctx.Interaction, fmt.Sprintf("Failed to update rule: %s", err.Error()))
		return
	}
	deps.Cache.InvalidateGuild(ctx.GetGuildID())

	state := "enabled"
	if !enabled {
		state = "disabled"
	}
	utils.SendSuccess(ctx.Session, ctx.Interaction, fmt.Sprintf(
		"✅ Rule **%s** (ID %d) %s.", models.FormatRuleName(rule.RuleType), rule.ID, state))
}

func ruleList(ctx *framework.SlashContext, deps *Deps) {
	rules, err := deps.DB.GetRules(ctx.GetGuildID())
	if err != nil {
		utils.SendError(ctx.Session, ctx.Interaction, fmt.Sprintf("Lookup failed: %s", err.Error()))
		return
	}
	if len(rules) == 0 {
		utils.SendSuccess(ctx.Session, ctx.Interaction, "No automod rules configured. Use `/automod rule add` to create one.")
		return
	}

	var b strings.Builder
	for _, r := range rules {
		state := "🟢"
		if !r.Enabled {
			state = "⚫"
		}
		fmt.Fprintf(&b, "%s `#%d` **%s** → %s\n",
			state, r.ID, models.FormatRuleName(r.RuleType), models.FormatAction(r.Action))
	}

	utils.SendEmbed(ctx.Session, ctx.Interaction, &discordgo.MessageEmbed{
		Title:       "Automod Rules",
		Description: b.String(),
		Color:       0x2F3136,
		Footer: &discordgo.MessageEmbedFooter{
			Text: fmt.Sprintf("%d rules • /automod rule info for details", len(rules)),
		},
	})
}

func ruleInfo(ctx *framework.SlashContext, deps *Deps, opts optMap) {
	rule := guildRule(ctx, deps, opts["id"].IntValue())
	if rule == nil {
		return
	}
	filters, err := deps.DB.GetFilters(rule.ID)
	if err != nil {
		utils.SendError(ctx.Session, ctx.Interaction, fmt.Sprintf("Lookup failed: %s", err.Error()))
		return
	}
	utils.SendEmbed(ctx.Session, ctx.Interaction, utils.CreateRuleEmbed(rule, filters))
}
