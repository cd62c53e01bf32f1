package commands

import (
	"discord-automod-bot/internal/commands/framework"
	"discord-automod-bot/internal/models"

	"github.com/bwmarrin/discordgo"
)

func ruleTypeChoices() []*discordgo.ApplicationCommandOptionChoice {
	types := models.AllRuleTypes()
	choices := make([]*discordgo.ApplicationCommandOptionChoice, 0, len(types))
	for _, rt := range types {
		choices = append(choices, &discordgo.ApplicationCommandOptionChoice{
			Name:  models.FormatRuleName(rt),
			Value: string(rt),
		})
	}
	return choices
}

var actionChoices = []*discordgo.ApplicationCommandOptionChoice{
	{Name: "Warn", Value: string(models.ActionWarn)},
	{Name: "Delete", Value: string(models.ActionDelete)},
	{Name: "Warn + Delete", Value: string(models.ActionWarnDelete)},
	{Name: "Auto Mute", Value: string(models.ActionAutoMute)},
	{Name: "Auto Ban", Value: string(models.ActionAutoBan)},
	{Name: "Instant Mute", Value: string(models.ActionInstantMute)},
	{Name: "Instant Ban", Value: string(models.ActionInstantBan)},
}

// ruleConfigOptions are shared between `rule add` and `rule edit`.
func ruleConfigOptions() []*discordgo.ApplicationCommandOption {
	return []*discordgo.ApplicationCommandOption{
		{
			Type:        discordgo.ApplicationCommandOptionInteger,
			Name:        "threshold",
			Description: "Detection threshold (count or percentage, rule dependent)",
		},
		{
			Type:        discordgo.ApplicationCommandOptionInteger,
			Name:        "window",
			Description: "Detection window in seconds (frequency rules)",
		},
		{
			Type:        discordgo.ApplicationCommandOptionInteger,
			Name:        "violations",
			Description: "Offenses before auto_mute/auto_ban fires",
		},
		{
			Type:        discordgo.ApplicationCommandOptionInteger,
			Name:        "mute_duration",
			Description: "Timeout length in seconds (default 300)",
		},
		{
			Type:        discordgo.ApplicationCommandOptionChannel,
			Name:        "log_channel",
			Description: "Channel for this rule's violation log",
			ChannelTypes: []discordgo.ChannelType{
				discordgo.ChannelTypeGuildText,
			},
		},
		{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        "custom_message",
			Description: "Custom warning text shown to the offender",
		},
	}
}

var Automod = &discordgo.ApplicationCommand{
	Name:        "automod",
	Description: "Configure automatic moderation",
	Options: []*discordgo.ApplicationCommandOption{
		{
			Type:        discordgo.ApplicationCommandOptionSubCommandGroup,
			Name:        "rule",
			Description: "Manage automod rules",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "add",
					Description: "Add an automod rule",
					Options: append([]*discordgo.ApplicationCommandOption{
						{
							Type:        discordgo.ApplicationCommandOptionString,
							Name:        "type",
							Description: "What the rule detects",
							Required:    true,
							Choices:     ruleTypeChoices(),
						},
						{
							Type:        discordgo.ApplicationCommandOptionString,
							Name:        "action",
							Description: "What happens when it triggers",
							Required:    true,
							Choices:     actionChoices,
						},
					}, ruleConfigOptions()...),
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "edit",
					Description: "Edit an existing rule",
					Options: append([]*discordgo.ApplicationCommandOption{
						{
							Type:        discordgo.ApplicationCommandOptionInteger,
							Name:        "id",
							Description: "Rule ID",
							Required:    true,
						},
						{
							Type:        discordgo.ApplicationCommandOptionString,
							Name:        "action",
							Description: "What happens when it triggers",
							Choices:     actionChoices,
						},
					}, ruleConfigOptions()...),
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "remove",
					Description: "Delete a rule and its filters",
					Options: []*discordgo.ApplicationCommandOption{
						{
							Type:        discordgo.ApplicationCommandOptionInteger,
							Name:        "id",
							Description: "Rule ID",
							Required:    true,
						},
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "enable",
					Description: "Enable a rule",
					Options: []*discordgo.ApplicationCommandOption{
						{
							Type:        discordgo.ApplicationCommandOptionInteger,
							Name:        "id",
							Description: "Rule ID",
							Required:    true,
						},
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "disable",
					Description: "Disable a rule without deleting it",
					Options: []*discordgo.ApplicationCommandOption{
						{
							Type:        discordgo.ApplicationCommandOptionInteger,
							Name:        "id",
							Description: "Rule ID",
							Required:    true,
						},
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "list",
					Description: "List this server's rules",
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "info",
					Description: "Show one rule's full configuration",
					Options: []*discordgo.ApplicationCommandOption{
						{
							Type:        discordgo.ApplicationCommandOptionInteger,
							Name:        "id",
							Description: "Rule ID",
							Required:    true,
						},
					},
				},
			},
		},
		{
			Type:        discordgo.ApplicationCommandOptionSubCommandGroup,
			Name:        "filter",
			Description: "Scope a rule to specific roles or channels",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "add",
					Description: "Add a role/channel filter to a rule",
					Options: []*discordgo.ApplicationCommandOption{
						{
							Type:        discordgo.ApplicationCommandOptionInteger,
							Name:        "rule_id",
							Description: "Rule ID",
							Required:    true,
						},
						{
							Type:        discordgo.ApplicationCommandOptionString,
							Name:        "kind",
							Description: "Whether the target is affected or ignored",
							Required:    true,
							Choices: []*discordgo.ApplicationCommandOptionChoice{
								{Name: "Affected", Value: models.FilterAffected},
								{Name: "Ignored", Value: models.FilterIgnored},
							},
						},
						{
							Type:        discordgo.ApplicationCommandOptionRole,
							Name:        "role",
							Description: "Target role",
						},
						{
							Type:        discordgo.ApplicationCommandOptionChannel,
							Name:        "channel",
							Description: "Target channel",
						},
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "remove",
					Description: "Remove a filter",
					Options: []*discordgo.ApplicationCommandOption{
						{
							Type:        discordgo.ApplicationCommandOptionInteger,
							Name:        "rule_id",
							Description: "Rule ID the filter belongs to",
							Required:    true,
						},
						{
							Type:        discordgo.ApplicationCommandOptionInteger,
							Name:        "filter_id",
							Description: "Filter ID (shown in rule info)",
							Required:    true,
						},
					},
				},
			},
		},
		{
			Type:        discordgo.ApplicationCommandOptionSubCommandGroup,
			Name:        "word",
			Description: "Manage the banned word list",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "add",
					Description: "Ban a word",
					Options: []*discordgo.ApplicationCommandOption{
						{
							Type:        discordgo.ApplicationCommandOptionString,
							Name:        "word",
							Description: "Word or wildcard pattern",
							Required:    true,
						},
						{
							Type:        discordgo.ApplicationCommandOptionString,
							Name:        "match",
							Description: "How the word is matched (default: contains)",
							Choices: []*discordgo.ApplicationCommandOptionChoice{
								{Name: "Contains", Value: models.MatchContains},
								{Name: "Exact", Value: models.MatchExact},
								{Name: "Wildcard", Value: models.MatchWildcard},
							},
						},
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "remove",
					Description: "Unban a word",
					Options: []*discordgo.ApplicationCommandOption{
						{
							Type:        discordgo.ApplicationCommandOptionString,
							Name:        "word",
							Description: "Word to remove",
							Required:    true,
						},
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "list",
					Description: "List banned words",
				},
			},
		},
		{
			Type:        discordgo.ApplicationCommandOptionSubCommandGroup,
			Name:        "link",
			Description: "Manage link allow/block lists",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "add",
					Description: "Add a domain to a list",
					Options: []*discordgo.ApplicationCommandOption{
						{
							Type:        discordgo.ApplicationCommandOptionString,
							Name:        "domain",
							Description: "Domain, e.g. example.com",
							Required:    true,
						},
						{
							Type:        discordgo.ApplicationCommandOptionString,
							Name:        "list",
							Description: "Which list",
							Required:    true,
							Choices: []*discordgo.ApplicationCommandOptionChoice{
								{Name: "Allow", Value: models.LinkAllow},
								{Name: "Block", Value: models.LinkBlock},
							},
						},
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "remove",
					Description: "Remove a domain from a list",
					Options: []*discordgo.ApplicationCommandOption{
						{
							Type:        discordgo.ApplicationCommandOptionString,
							Name:        "domain",
							Description: "Domain to remove",
							Required:    true,
						},
						{
							Type:        discordgo.ApplicationCommandOptionString,
							Name:        "list",
							Description: "Which list",
							Required:    true,
							Choices: []*discordgo.ApplicationCommandOptionChoice{
								{Name: "Allow", Value: models.LinkAllow},
								{Name: "Block", Value: models.LinkBlock},
							},
						},
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "list",
					Description: "Show both domain lists",
				},
			},
		},
		{
			Type:        discordgo.ApplicationCommandOptionSubCommandGroup,
			Name:        "settings",
			Description: "Guild-wide automod settings",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "logchannel",
					Description: "Set or clear the default violation log channel",
					Options: []*discordgo.ApplicationCommandOption{
						{
							Type:        discordgo.ApplicationCommandOptionChannel,
							Name:        "channel",
							Description: "Log channel (omit to clear)",
							ChannelTypes: []discordgo.ChannelType{
								discordgo.ChannelTypeGuildText,
							},
						},
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "ignore",
					Description: "Exempt a role or channel from all rules",
					Options: []*discordgo.ApplicationCommandOption{
						{
							Type:        discordgo.ApplicationCommandOptionRole,
							Name:        "role",
							Description: "Role to exempt",
						},
						{
							Type:        discordgo.ApplicationCommandOptionChannel,
							Name:        "channel",
							Description: "Channel to exempt",
						},
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "unignore",
					Description: "Remove a role or channel exemption",
					Options: []*discordgo.ApplicationCommandOption{
						{
							Type:        discordgo.ApplicationCommandOptionRole,
							Name:        "role",
							Description: "Role to stop exempting",
						},
						{
							Type:        discordgo.ApplicationCommandOptionChannel,
							Name:        "channel",
							Description: "Channel to stop exempting",
						},
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "show",
					Description: "Show the current settings",
				},
			},
		},
	},
}

// AutomodCmd dispatches the /automod subcommand tree. Everything here
// requires Manage Server.
func AutomodCmd(ctx framework.Context, deps *Deps) {
	member := ctx.GetMember()
	if member == nil || member.Permissions&discordgo.PermissionManageGuild == 0 {
		ctx.ReplyEphemeral("❌ You need Manage Server permissions to configure automod.")
		return
	}

	slashCtx, ok := ctx.(*framework.SlashContext)
	if !ok {
		return
	}
	data := slashCtx.Interaction.ApplicationCommandData()
	if len(data.Options) == 0 {
		return
	}
	group := data.Options[0]
	if len(group.Options) == 0 {
		return
	}
	sub := group.Options[0]
	opts := optionMap(sub.Options)

	switch group.Name {
	case "rule":
		handleRule(slashCtx, deps, sub.Name, opts)
	case "filter":
		handleFilter(slashCtx, deps, sub.Name, opts)
	case "word":
		handleWord(slashCtx, deps, sub.Name, opts)
	case "link":
		handleLink(slashCtx, deps, sub.Name, opts)
	case "settings":
		handleSettings(slashCtx, deps, sub.Name, opts)
	}
}

func optionMap(options []*discordgo.ApplicationCommandInteractionDataOption) map[string]*discordgo.ApplicationCommandInteractionDataOption {
	m := make(map[string]*discordgo.ApplicationCommandInteractionDataOption, len(options))
	for _, opt := range options {
		m[opt.Name] = opt
	}
	return m
}
