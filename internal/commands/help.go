package commands

import (
	"discord-automod-bot/internal/commands/framework"

	"github.com/bwmarrin/discordgo"
)

var Help = &discordgo.ApplicationCommand{
	Name:        "help",
	Description: "Show available commands",
}

func HelpCmd(ctx framework.Context) {
	embed := &discordgo.MessageEmbed{
		Title: "Automod Commands",
		Color: 0x2b2d31, // Dark theme background (clean/colorless look)
		Fields: []*discordgo.MessageEmbedField{
			{Name: "/automod rule add|edit|remove|enable|disable", Value: "Manage detection rules", Inline: false},
			{Name: "/automod rule list|info", Value: "Inspect configured rules", Inline: false},
			{Name: "/automod filter add|remove", Value: "Scope a rule to roles or channels", Inline: false},
			{Name: "/automod word add|remove|list", Value: "Manage the banned word list", Inline: false},
			{Name: "/automod link add|remove|list", Value: "Manage link allow/block lists", Inline: false},
			{Name: "/automod settings logchannel|ignore|unignore|show", Value: "Guild-wide settings and exemptions", Inline: false},
			{Name: "/ping", Value: "Check bot latency", Inline: false},
			{Name: "/stats", Value: "Show bot statistics", Inline: false},
		},
		Footer: &discordgo.MessageEmbedFooter{
			Text: "All configuration commands require Manage Server",
		},
	}

	ctx.ReplyEmbed(embed)
}
