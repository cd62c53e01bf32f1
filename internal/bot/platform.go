package bot

import (
	"time"

	"discord-automod-bot/internal/automod"
	"discord-automod-bot/internal/utils"

	"github.com/bwmarrin/discordgo"
)

// banDeleteDays is how far back a ban scrubs the member's messages.
const banDeleteDays = 1

// discordPlatform executes enforcement through the Discord REST API.
type discordPlatform struct {
	session *discordgo.Session
	monitor *PerformanceMonitor
}

var _ automod.Platform = (*discordPlatform)(nil)

func (p *discordPlatform) SendTimedNotice(channelID, text string, retractAfter time.Duration) error {
	m, err := p.session.ChannelMessageSend(channelID, text)
	if err != nil {
		p.monitor.IncrementErrors()
		return err
	}
	time.AfterFunc(retractAfter, func() {
		p.session.ChannelMessageDelete(channelID, m.ID)
	})
	return nil
}

func (p *discordPlatform) DeleteMessage(channelID, messageID string) error {
	if err := p.session.ChannelMessageDelete(channelID, messageID); err != nil {
		p.monitor.IncrementErrors()
		return err
	}
	return nil
}

func (p *discordPlatform) TimeoutMember(guildID, userID string, duration time.Duration, reason string) error {
	until := time.Now().Add(duration)
	if err := p.session.GuildMemberTimeout(guildID, userID, &until, discordgo.WithAuditLogReason(reason)); err != nil {
		p.monitor.IncrementErrors()
		return err
	}
	return nil
}

func (p *discordPlatform) BanMember(guildID, userID, reason string) error {
	if err := p.session.GuildBanCreateWithReason(guildID, userID, reason, banDeleteDays); err != nil {
		p.monitor.IncrementErrors()
		return err
	}
	return nil
}

func (p *discordPlatform) SendAuditEmbed(channelID string, rec *automod.AuditRecord) error {
	embed := utils.CreateAuditEmbed(rec)
	if _, err := p.session.ChannelMessageSendEmbed(channelID, embed); err != nil {
		p.monitor.IncrementErrors()
		return err
	}
	return nil
}
