package redis

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newTestClient(t *testing.T) *Client {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("failed to start miniredis: %v", err)
	}
	t.Cleanup(mr.Close)

	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })
	return &Client{client: rdb}
}

func TestTrackAndCountWindow(t *testing.T) {
	c := newTestClient(t)
	bg := context.Background()

	for _, ts := range []int64{100, 200, 300} {
		if err := c.TrackEvent(bg, "guild1", "user1", "chan1", "message", ts); err != nil {
			t.Fatalf("TrackEvent: %v", err)
		}
	}

	tests := []struct {
		name      string
		channelID string
		since     int64
		want      int
	}{
		{"all events", "", 0, 3},
		{"cutoff is exclusive", "", 100, 2},
		{"nothing newer", "", 300, 0},
		{"channel narrowed", "chan1", 0, 3},
		{"other channel empty", "chan2", 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := c.CountEventsSince(bg, "guild1", "user1", tt.channelID, "message", tt.since)
			if err != nil {
				t.Fatalf("CountEventsSince: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %d events, want %d", got, tt.want)
			}
		})
	}
}

// Every write trims members older than the retention window, so a key on a
// continuously active user stays bounded even though Expire keeps sliding.
func TestTrackEventTrimsStaleMembers(t *testing.T) {
	c := newTestClient(t)
	bg := context.Background()

	retention := int64(trackerRetention.Seconds())
	base := int64(1_000_000)

	// Two old events, one exactly at what will become the cutoff, then a
	// fresh event far enough ahead to age the first two out.
	stamps := []int64{base, base + 1, base + 2, base + 2 + retention}
	for _, ts := range stamps {
		if err := c.TrackEvent(bg, "guild1", "user1", "chan1", "message", ts); err != nil {
			t.Fatalf("TrackEvent: %v", err)
		}
	}

	for _, key := range []string{
		trackerKey("guild1", "user1", "message"),
		trackerChannelKey("guild1", "user1", "chan1", "message"),
	} {
		n, err := c.client.ZCard(bg, key).Result()
		if err != nil {
			t.Fatalf("ZCard(%s): %v", key, err)
		}
		// base and base+1 trimmed; base+2 sits on the cutoff and survives.
		if n != 2 {
			t.Errorf("key %s holds %d members, want 2", key, n)
		}
	}

	// The surviving history still counts.
	got, err := c.CountEventsSince(bg, "guild1", "user1", "", "message", base+1)
	if err != nil {
		t.Fatalf("CountEventsSince: %v", err)
	}
	if got != 2 {
		t.Errorf("got %d events after trim, want 2", got)
	}
}
