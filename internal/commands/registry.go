package commands

import (
	"time"

	"discord-automod-bot/internal/cache"
	"discord-automod-bot/internal/database"
	"discord-automod-bot/internal/redis"

	"github.com/bwmarrin/discordgo"
)

// Deps carries the shared services the command handlers operate on.
type Deps struct {
	DB        *database.Database
	Redis     *redis.Client
	Cache     *cache.Cache
	Perf      func() map[string]interface{}
	StartTime time.Time
}

var Commands = []*discordgo.ApplicationCommand{
	Automod,
	Ping,
	Stats,
	Help,
}
