package database

import (
	"database/sql"
	"fmt"
	"sync"
	"time"

	_ "github.com/lib/pq"
)

type Database struct {
	db               *sql.DB
	PreparedPingStmt *sql.Stmt
	PreparedStmts    *PreparedStatements
	// Cache for ping results
	lastPingTime   time.Time
	lastPingError  error
	pingCacheMutex sync.RWMutex
}

type PostgresConfig struct {
	Host     string `json:"host"`
	Port     int    `json:"port"`
	User     string `json:"user"`
	Password string `json:"password"`
	Database string `json:"database"`
	SSLMode  string `json:"sslmode"`
}

const schema = `
-- Automod rules table
CREATE TABLE IF NOT EXISTS automod_rules (
    id SERIAL PRIMARY KEY,
    guild_id TEXT NOT NULL,
    rule_type TEXT NOT NULL,
    enabled BOOLEAN NOT NULL DEFAULT TRUE,
    threshold INTEGER DEFAULT 0,
    threshold_seconds INTEGER DEFAULT 0,
    action TEXT NOT NULL,
    violation_count INTEGER NOT NULL DEFAULT 1,
    mute_duration INTEGER DEFAULT 0,
    custom_message TEXT DEFAULT '',
    log_channel_id TEXT DEFAULT '',
    created_at BIGINT NOT NULL,
    updated_at BIGINT NOT NULL
);

-- Per-rule scoping filters (cascade on rule deletion)
CREATE TABLE IF NOT EXISTS automod_filters (
    id SERIAL PRIMARY KEY,
    rule_id INTEGER NOT NULL REFERENCES automod_rules(id) ON DELETE CASCADE,
    filter_type TEXT NOT NULL, -- 'affected' or 'ignored'
    target_type TEXT NOT NULL, -- 'role' or 'channel'
    target_id TEXT NOT NULL
);

-- Banned word lists
CREATE TABLE IF NOT EXISTS automod_badwords (
    id SERIAL PRIMARY KEY,
    guild_id TEXT NOT NULL,
    word TEXT NOT NULL,
    match_type TEXT NOT NULL DEFAULT 'contains',
    created_at BIGINT NOT NULL,
    UNIQUE(guild_id, word)
);

-- Domain allow/block lists
CREATE TABLE IF NOT EXISTS automod_links (
    id SERIAL PRIMARY KEY,
    guild_id TEXT NOT NULL,
    domain TEXT NOT NULL,
    list_kind TEXT NOT NULL, -- 'allow' or 'block'
    created_at BIGINT NOT NULL,
    UNIQUE(guild_id, domain, list_kind)
);

-- Escalation violation log (append-only, aged out by the sweeper)
CREATE TABLE IF NOT EXISTS automod_violations (
    id SERIAL PRIMARY KEY,
    guild_id TEXT NOT NULL,
    user_id TEXT NOT NULL,
    rule_type TEXT NOT NULL,
    timestamp BIGINT NOT NULL
);

-- Guild-wide automod settings
CREATE TABLE IF NOT EXISTS automod_settings (
    guild_id TEXT PRIMARY KEY,
    default_log_channel TEXT NOT NULL DEFAULT '',
    ignored_roles TEXT NOT NULL DEFAULT '',
    ignored_channels TEXT NOT NULL DEFAULT '',
    updated_at BIGINT NOT NULL
);

-- Sliding-window event tracking (append-only, aged out by the sweeper)
CREATE TABLE IF NOT EXISTS message_tracking (
    id SERIAL PRIMARY KEY,
    guild_id TEXT NOT NULL,
    user_id TEXT NOT NULL,
    channel_id TEXT NOT NULL,
    event_kind TEXT NOT NULL,
    timestamp BIGINT NOT NULL
);

-- Indexes for hot paths
CREATE INDEX IF NOT EXISTS idx_rules_guild ON automod_rules(guild_id);
CREATE INDEX IF NOT EXISTS idx_filters_rule ON automod_filters(rule_id);
CREATE INDEX IF NOT EXISTS idx_badwords_guild ON automod_badwords(guild_id);
CREATE INDEX IF NOT EXISTS idx_links_guild_kind ON automod_links(guild_id, list_kind);
CREATE INDEX IF NOT EXISTS idx_violations_guild_user ON automod_violations(guild_id, user_id, rule_type, timestamp);
CREATE INDEX IF NOT EXISTS idx_violations_timestamp ON automod_violations(timestamp);
CREATE INDEX IF NOT EXISTS idx_tracking_guild_user ON message_tracking(guild_id, user_id, event_kind, timestamp);
CREATE INDEX IF NOT EXISTS idx_tracking_timestamp ON message_tracking(timestamp);
`

func NewDatabase(cfg PostgresConfig) (*Database, error) {
	sslMode := cfg.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}
	connStr := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s tcp_user_timeout=1000",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.Database, sslMode)

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, err
	}

	if err := db.Ping(); err != nil {
		return nil, err
	}

	// Pool sized for one tracking write plus a handful of reads per message
	db.SetMaxOpenConns(100)
	db.SetMaxIdleConns(50)
	db.SetConnMaxIdleTime(5 * time.Minute)
	db.SetConnMaxLifetime(1 * time.Hour)

	// Execute schema
	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("failed to init schema: %w", err)
	}

	// Prepare the ping statement
	pingStmt, err := db.Prepare("SELECT 1")
	if err != nil {
		return nil, fmt.Errorf("failed to prepare ping statement: %w", err)
	}

	d := &Database{
		db:               db,
		PreparedPingStmt: pingStmt,
	}

	// Pre-warm connections by executing the prepared statement
	for i := 0; i < 20; i++ {
		var result int
		pingStmt.QueryRow().Scan(&result)
	}

	// Initialize prepared statements for the tracking hot path
	if err := d.InitPreparedStatements(); err != nil {
		return nil, fmt.Errorf("failed to init prepared statements: %w", err)
	}

	return d, nil
}

func (d *Database) Close() error {
	if d.PreparedPingStmt != nil {
		d.PreparedPingStmt.Close()
	}
	d.ClosePreparedStatements()
	return d.db.Close()
}

func (d *Database) Ping() error {
	// Use prepared statement for fastest possible ping
	var err error
	if d.PreparedPingStmt != nil {
		var result int
		err = d.PreparedPingStmt.QueryRow().Scan(&result)
	} else {
		err = d.db.Ping()
	}
	return err
}

// CachedPing returns the last ping result when fresh enough, refreshing at
// most once per maxAge. For health surfaces that poll more often than the
// database should be bothered.
func (d *Database) CachedPing(maxAge time.Duration) error {
	d.pingCacheMutex.RLock()
	if time.Since(d.lastPingTime) < maxAge {
		err := d.lastPingError
		d.pingCacheMutex.RUnlock()
		return err
	}
	d.pingCacheMutex.RUnlock()

	err := d.Ping()

	d.pingCacheMutex.Lock()
	d.lastPingTime = time.Now()
	d.lastPingError = err
	d.pingCacheMutex.Unlock()
	return err
}
