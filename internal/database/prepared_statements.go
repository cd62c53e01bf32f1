package database

import (
	"database/sql"
	"fmt"
	"sync"
)

// PreparedStatements holds the pre-compiled queries on the message hot path.
// Every checked message can cost one tracking write plus several window
// counts, so these skip per-call parse/plan overhead.
type PreparedStatements struct {
	mu sync.RWMutex
	db *sql.DB

	// Tracking queries
	trackEvent         *sql.Stmt
	countEvents        *sql.Stmt
	countEventsChannel *sql.Stmt

	// Violation queries
	addViolation    *sql.Stmt
	countViolations *sql.Stmt
}

// InitPreparedStatements pre-compiles the hot-path SQL statements.
func (d *Database) InitPreparedStatements() error {
	d.PreparedStmts = &PreparedStatements{db: d.db}

	var err error

	d.PreparedStmts.trackEvent, err = d.db.Prepare(`
		INSERT INTO message_tracking (guild_id, user_id, channel_id, event_kind, timestamp)
		VALUES ($1, $2, $3, $4, $5)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare trackEvent: %w", err)
	}

	d.PreparedStmts.countEvents, err = d.db.Prepare(`
		SELECT COUNT(*) FROM message_tracking
		WHERE guild_id = $1 AND user_id = $2 AND event_kind = $3 AND timestamp > $4
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare countEvents: %w", err)
	}

	d.PreparedStmts.countEventsChannel, err = d.db.Prepare(`
		SELECT COUNT(*) FROM message_tracking
		WHERE guild_id = $1 AND user_id = $2 AND channel_id = $3 AND event_kind = $4 AND timestamp > $5
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare countEventsChannel: %w", err)
	}

	d.PreparedStmts.addViolation, err = d.db.Prepare(`
		INSERT INTO automod_violations (guild_id, user_id, rule_type, timestamp)
		VALUES ($1, $2, $3, $4)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare addViolation: %w", err)
	}

	d.PreparedStmts.countViolations, err = d.db.Prepare(`
		SELECT COUNT(*) FROM automod_violations
		WHERE guild_id = $1 AND user_id = $2 AND rule_type = $3 AND timestamp > $4
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare countViolations: %w", err)
	}

	return nil
}

// ClosePreparedStatements releases all prepared statements.
func (d *Database) ClosePreparedStatements() {
	if d.PreparedStmts == nil {
		return
	}
	d.PreparedStmts.mu.Lock()
	defer d.PreparedStmts.mu.Unlock()

	for _, stmt := range []*sql.Stmt{
		d.PreparedStmts.trackEvent,
		d.PreparedStmts.countEvents,
		d.PreparedStmts.countEventsChannel,
		d.PreparedStmts.addViolation,
		d.PreparedStmts.countViolations,
	} {
		if stmt != nil {
			stmt.Close()
		}
	}
}
