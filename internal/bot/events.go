package bot

import (
	"context"
	"log"
	"strings"
	"time"

	"discord-automod-bot/internal/automod"
	"discord-automod-bot/internal/commands"
	"discord-automod-bot/internal/commands/framework"

	"github.com/bwmarrin/discordgo"
)

func (b *Bot) Ready(s *discordgo.Session, r *discordgo.Ready) {
	log.Printf("✓ Ready! Serving %d guilds", len(r.Guilds))
	s.UpdateWatchStatus(0, "for rule violations")
}

func (b *Bot) GuildCreate(s *discordgo.Session, g *discordgo.GuildCreate) {
	// Settings row is created lazily on first write; nothing to provision here
	// beyond warming the config cache for the guild.
	go func() {
		if _, err := b.store.GetSettings(g.ID); err != nil {
			log.Printf("⚠️  Failed to warm settings for guild %s: %v", g.ID, err)
		}
	}()
}

func (b *Bot) InteractionCreate(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.Type != discordgo.InteractionApplicationCommand {
		return
	}
	start := time.Now()
	defer func() {
		b.PerfMonitor.RecordCommand(time.Since(start))
	}()

	ctx := framework.NewSlashContext(s, i)
	deps := &commands.Deps{
		DB:        b.DB,
		Redis:     b.Redis,
		Cache:     b.Cache,
		Perf:      b.PerfMonitor.GetStats,
		StartTime: b.StartTime,
	}

	switch i.ApplicationCommandData().Name {
	case "automod":
		commands.AutomodCmd(ctx, deps)
	case "ping":
		commands.PingCmd(ctx, deps)
	case "stats":
		commands.StatsCmd(ctx, deps)
	case "help":
		commands.HelpCmd(ctx)
	}
}

// MessageCreate feeds every guild message through the automod engine.
func (b *Bot) MessageCreate(s *discordgo.Session, m *discordgo.MessageCreate) {
	if m.GuildID == "" || m.Author == nil {
		return
	}
	msg := b.buildMessage(s, m)

	// Enforcement runs off the gateway goroutine so a slow REST call never
	// stalls event dispatch.
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		b.Engine.ProcessMessage(ctx, msg)
	}()
}

func (b *Bot) buildMessage(s *discordgo.Session, m *discordgo.MessageCreate) *automod.Message {
	msg := &automod.Message{
		GuildID:      m.GuildID,
		ChannelID:    m.ChannelID,
		MessageID:    m.ID,
		AuthorID:     m.Author.ID,
		AuthorBot:    m.Author.Bot,
		Content:      m.Content,
		MentionUsers: len(m.Mentions),
		MentionRoles: len(m.MentionRoles),
		StickerCount: len(m.StickerItems),
	}

	if m.Member != nil {
		msg.AuthorRoles = m.Member.Roles
	}

	if g, err := s.State.Guild(m.GuildID); err == nil {
		msg.AuthorIsOwner = g.OwnerID == m.Author.ID
	}
	if perms, err := s.State.MessagePermissions(m.Message); err == nil {
		msg.AuthorIsAdmin = perms&discordgo.PermissionAdministrator != 0
	}

	for _, a := range m.Attachments {
		msg.Attachments = append(msg.Attachments, automod.Attachment{
			ContentType: a.ContentType,
			Spoiler:     strings.HasPrefix(a.Filename, "SPOILER_"),
		})
	}

	return msg
}
