package automod

import (
	"context"
	"testing"

	"discord-automod-bot/internal/models"

	"go.uber.org/zap"
)

func TestSweepPurgesBehindRetention(t *testing.T) {
	store := NewMemStore()
	ctx := context.Background()

	var now int64 = 100000

	// Events: one stale, one inside retention, one fresh.
	store.TrackEvent(ctx, "g", "u", "c", models.EventMessage, now-models.TrackingRetentionSecs-10)
	store.TrackEvent(ctx, "g", "u", "c", models.EventMessage, now-models.TrackingRetentionSecs+10)
	store.TrackEvent(ctx, "g", "u", "c", models.EventMessage, now)

	// Violations: one stale, one fresh.
	store.AddViolation(ctx, "g", "u", string(models.RuleBadWords), now-models.ViolationWindowSeconds-10)
	store.AddViolation(ctx, "g", "u", string(models.RuleBadWords), now-10)

	sweeper := NewSweeper(store, zap.NewNop(), DefaultSweepInterval)
	sweeper.now = func() int64 { return now }
	sweeper.Sweep(ctx)

	events, _ := store.CountEventsSince(ctx, "g", "u", "", models.EventMessage, 0)
	if events != 2 {
		t.Errorf("expected 2 events to survive, got %d", events)
	}
	violations, _ := store.CountViolationsSince(ctx, "g", "u", string(models.RuleBadWords), 0)
	if violations != 1 {
		t.Errorf("expected 1 violation to survive, got %d", violations)
	}
}

func TestSweepKeepsCountableHistoryIntact(t *testing.T) {
	// A record still inside the violation window must survive a sweep and
	// still count toward escalation afterwards.
	store := NewMemStore()
	ctx := context.Background()

	var now int64 = 100000
	store.AddViolation(ctx, "g", "u", string(models.RuleBadWords), now-models.ViolationWindowSeconds+1)

	sweeper := NewSweeper(store, zap.NewNop(), 0)
	sweeper.now = func() int64 { return now }
	sweeper.Sweep(ctx)

	count, _ := store.CountViolationsSince(ctx, "g", "u", string(models.RuleBadWords), now-models.ViolationWindowSeconds)
	if count != 1 {
		t.Errorf("in-window violation lost to sweep: count = %d", count)
	}
}

func TestSweeperStartStop(t *testing.T) {
	store := NewMemStore()
	sweeper := NewSweeper(store, zap.NewNop(), DefaultSweepInterval)

	sweeper.Start(context.Background())
	sweeper.Stop()

	// Stop with no Start is a no-op, not a panic.
	fresh := NewSweeper(store, zap.NewNop(), DefaultSweepInterval)
	fresh.Stop()
}
