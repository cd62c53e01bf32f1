package database

import (
	"context"
)

// Sliding-window event tracking. Append-only; counts are computed against a
// trailing window and stale rows are removed by the sweeper.

// TrackEvent appends one event occurrence.
func (d *Database) TrackEvent(ctx context.Context, guildID, userID, channelID, eventKind string, ts int64) error {
	_, err := d.PreparedStmts.trackEvent.ExecContext(ctx, guildID, userID, channelID, eventKind, ts)
	return err
}

// CountEventsSince counts events of one kind for a user after the cutoff.
// channelID narrows the count to one channel when non-empty.
func (d *Database) CountEventsSince(ctx context.Context, guildID, userID, channelID, eventKind string, since int64) (int, error) {
	var count int
	var err error
	if channelID != "" {
		err = d.PreparedStmts.countEventsChannel.QueryRowContext(ctx,
			guildID, userID, channelID, eventKind, since).Scan(&count)
	} else {
		err = d.PreparedStmts.countEvents.QueryRowContext(ctx,
			guildID, userID, eventKind, since).Scan(&count)
	}
	return count, err
}

// PurgeEventsBefore removes tracked events strictly older than the cutoff.
func (d *Database) PurgeEventsBefore(ctx context.Context, cutoff int64) (int64, error) {
	res, err := d.db.ExecContext(ctx, `DELETE FROM message_tracking WHERE timestamp < $1`, cutoff)
	if err != nil {
		return 0, err
	}
	n, _ := res.RowsAffected()
	return n, nil
}

// Violation accumulation for escalating actions.

// AddViolation appends one violation record.
func (d *Database) AddViolation(ctx context.Context, guildID, userID, ruleType string, ts int64) error {
	_, err := d.PreparedStmts.addViolation.ExecContext(ctx, guildID, userID, ruleType, ts)
	return err
}

// CountViolationsSince counts violations of one rule type for a user after
// the cutoff.
func (d *Database) CountViolationsSince(ctx context.Context, guildID, userID, ruleType string, since int64) (int, error) {
	var count int
	err := d.PreparedStmts.countViolations.QueryRowContext(ctx,
		guildID, userID, ruleType, since).Scan(&count)
	return count, err
}

// PurgeViolationsBefore removes violation records strictly older than the cutoff.
func (d *Database) PurgeViolationsBefore(ctx context.Context, cutoff int64) (int64, error) {
	res, err := d.db.ExecContext(ctx, `DELETE FROM automod_violations WHERE timestamp < $1`, cutoff)
	if err != nil {
		return 0, err
	}
	n, _ := res.RowsAffected()
	return n, nil
}
