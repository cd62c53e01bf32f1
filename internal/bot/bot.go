package bot

import (
	"context"
	"fmt"
	"log"
	"net/http"
	_ "net/http/pprof" // Register pprof handlers
	"os"
	"os/signal"
	"syscall"
	"time"

	"discord-automod-bot/internal/automod"
	"discord-automod-bot/internal/cache"
	"discord-automod-bot/internal/commands"
	"discord-automod-bot/internal/database"
	"discord-automod-bot/internal/redis"

	"github.com/bwmarrin/discordgo"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

type Bot struct {
	Session     *discordgo.Session
	DB          *database.Database
	Redis       *redis.Client
	Cache       *cache.Cache
	Engine      *automod.Engine
	Sweeper     *automod.Sweeper
	StartTime   time.Time
	Logger      *zap.Logger
	PerfMonitor *PerformanceMonitor

	store *configStore

	// MetricsAddr serves /metrics and pprof; empty means localhost:6060
	MetricsAddr string
}

// Config carries the optional engine tuning passed through from main.
type Config struct {
	PhishingDomains []string
	MetricsAddr     string
}

func New(token string, db *database.Database, rdb *redis.Client, cfg Config) (*Bot, error) {
	s, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, fmt.Errorf("session error: %w", err)
	}

	s.Identify.Intents = discordgo.IntentsGuilds |
		discordgo.IntentsGuildMessages |
		discordgo.IntentsGuildMembers |
		discordgo.IntentsMessageContent

	// Message content arrives on every guild message; compression off trades
	// bandwidth for lower gateway latency, same as the REST transport below.
	s.Identify.Compress = false

	perfMonitor := NewPerformanceMonitor()

	// Pooled keep-alive transport for the moderation REST calls (delete,
	// timeout, ban) so enforcement does not pay connection setup per call.
	s.Client.Transport = &PerfTransport{
		Base: &http.Transport{
			MaxIdleConns:          500,
			MaxIdleConnsPerHost:   100,
			IdleConnTimeout:       120 * time.Second,
			ForceAttemptHTTP2:     true,
			MaxConnsPerHost:       100,
			ResponseHeaderTimeout: 5 * time.Second,
			TLSHandshakeTimeout:   5 * time.Second,
			ExpectContinueTimeout: 1 * time.Second,
		},
		Monitor: perfMonitor,
	}

	logger, _ := zap.NewProduction()

	configCache, err := cache.NewCache(rdb, cache.Config{})
	if err != nil {
		return nil, fmt.Errorf("cache init error: %w", err)
	}

	store := newConfigStore(db, configCache)
	tracker, violations, janitor := selectStores(db, rdb)

	platform := &discordPlatform{session: s, monitor: perfMonitor}
	engine := automod.New(store, tracker, violations, platform, logger, automod.Options{
		PhishingDomains: cfg.PhishingDomains,
	})

	b := &Bot{
		Session:     s,
		DB:          db,
		Redis:       rdb,
		Cache:       configCache,
		Engine:      engine,
		Sweeper:     automod.NewSweeper(janitor, logger, automod.DefaultSweepInterval),
		StartTime:   time.Now(),
		Logger:      logger,
		PerfMonitor: perfMonitor,
		MetricsAddr: cfg.MetricsAddr,
		store:       store,
	}

	s.AddHandler(b.Ready)
	s.AddHandler(b.GuildCreate)
	s.AddHandler(b.InteractionCreate)
	s.AddHandler(b.MessageCreate)

	return b, nil
}

// selectStores picks Redis for the volatile sliding windows when available,
// with Postgres as both the fallback tracker and the durable violation log.
// The sweeper always runs against Postgres; Redis keys expire on their own.
func selectStores(db *database.Database, rdb *redis.Client) (automod.Tracker, automod.ViolationLog, automod.Janitor) {
	if rdb != nil {
		return rdb, db, db
	}
	return db, db, db
}

func (b *Bot) Start() error {
	log.Println("⚡ Connecting to Discord Gateway...")

	if err := b.Session.Open(); err != nil {
		log.Printf("❌ Failed to connect to Discord Gateway: %v", err)
		return fmt.Errorf("gateway connection failed: %w", err)
	}
	log.Println("✓ Connected to Discord Gateway")

	if b.Session.State.User == nil {
		u, err := b.Session.User("@me")
		if err != nil {
			return fmt.Errorf("failed to get bot user: %w", err)
		}
		b.Session.State.User = u
	}
	log.Printf("✓ Logged in as: %s (ID: %s)",
		b.Session.State.User.Username, b.Session.State.User.ID)

	go b.monitorHeartbeat()

	// Register commands
	log.Println("Registering commands...")
	if _, err := b.Session.ApplicationCommandBulkOverwrite(b.Session.State.User.ID, "", commands.Commands); err != nil {
		return fmt.Errorf("failed to register commands: %w", err)
	}
	log.Printf("✓ Registered %d commands", len(commands.Commands))

	// Start the expiry sweeper
	b.Sweeper.Start(context.Background())
	log.Println("✓ Expiry sweeper running (5m interval)")

	// Metrics + pprof server
	addr := b.MetricsAddr
	if addr == "" {
		addr = "localhost:6060"
	}
	go func() {
		http.Handle("/metrics", promhttp.Handler())
		log.Printf("Starting metrics/pprof server on %s", addr)
		log.Println(http.ListenAndServe(addr, nil))
	}()

	log.Println("\n🚀 Automod is running!")

	// Wait for interrupt
	sc := make(chan os.Signal, 1)
	signal.Notify(sc, syscall.SIGINT, syscall.SIGTERM, os.Interrupt)
	<-sc

	return b.Close()
}

func (b *Bot) Close() error {
	log.Println("Shutting down...")
	b.Sweeper.Stop()
	if b.Logger != nil {
		b.Logger.Sync()
	}
	if b.Cache != nil {
		b.Cache.Close()
	}
	return b.Session.Close()
}

// monitorHeartbeat logs WebSocket heartbeat latency periodically.
func (b *Bot) monitorHeartbeat() {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for range ticker.C {
		latency := b.Session.HeartbeatLatency()
		b.PerfMonitor.UpdateWSLatency(latency)
		if latency > 100*time.Millisecond {
			log.Printf("⚠️  High WebSocket latency: %v", latency)
		}
	}
}
