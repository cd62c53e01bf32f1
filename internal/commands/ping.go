package commands

import (
	"fmt"
	"strconv"
	"sync"
	"time"

	"discord-automod-bot/internal/commands/framework"

	"github.com/bwmarrin/discordgo"
)

var Ping = &discordgo.ApplicationCommand{
	Name:        "ping",
	Description: "Check bot latency",
}

func PingCmd(ctx framework.Context, deps *Deps) {
	// Send initial response to make it feel snappy
	ctx.Reply("🏓 Pong! Calculating...")

	// Calculate latency from snowflake timestamp
	var timestamp int64
	if slashCtx, ok := ctx.(*framework.SlashContext); ok {
		// Interaction ID is a snowflake
		id, _ := strconv.ParseInt(slashCtx.Interaction.ID, 10, 64)
		timestamp = (id >> 22) + 1420070400000
	}
	botLatency := time.Since(time.Unix(0, timestamp*int64(time.Millisecond)))

	// Calculate API latency (heartbeat)
	apiLatency := ctx.GetSession().HeartbeatLatency()

	// Measure Database and Redis latency concurrently
	var dbLatency, redisLatency time.Duration
	var errDB, errRedis error
	var wg sync.WaitGroup

	wg.Add(2)

	go func() {
		defer wg.Done()
		startDB := time.Now()
		errDB = deps.DB.Ping()
		dbLatency = time.Since(startDB)
	}()

	go func() {
		defer wg.Done()
		if deps.Redis == nil {
			errRedis = fmt.Errorf("redis disabled")
			return
		}
		startRedis := time.Now()
		errRedis = deps.Redis.Ping()
		redisLatency = time.Since(startRedis)
	}()

	wg.Wait()

	dbStatus := fmt.Sprintf("`%dms`", dbLatency.Milliseconds())
	if errDB != nil {
		dbStatus = "`❌ Error`"
	}

	redisStatus := fmt.Sprintf("`%dms`", redisLatency.Milliseconds())
	if errRedis != nil {
		redisStatus = "`❌ Error`"
	}

	embed := &discordgo.MessageEmbed{
		Title: "🏓 Pong!",
		Color: 0x2F3136,
		Fields: []*discordgo.MessageEmbedField{
			{
				Name:   "Bot Latency",
				Value:  fmt.Sprintf("`%dms`", botLatency.Milliseconds()),
				Inline: true,
			},
			{
				Name:   "API Latency",
				Value:  fmt.Sprintf("`%dms`", apiLatency.Milliseconds()),
				Inline: true,
			},
			{
				Name:   "Database",
				Value:  dbStatus,
				Inline: true,
			},
			{
				Name:   "Redis",
				Value:  redisStatus,
				Inline: true,
			},
		},
		Footer: &discordgo.MessageEmbedFooter{
			Text:    fmt.Sprintf("Requested by %s", ctx.GetAuthor().Username),
			IconURL: ctx.GetAuthor().AvatarURL(""),
		},
		Timestamp: time.Now().Format(time.RFC3339),
	}

	// Edit the initial response with the embed
	ctx.EditReplyEmbed(embed)
}
