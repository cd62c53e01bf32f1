package redis

import (
	"context"
	"fmt"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"
)

// Windowed event tracking on sorted sets: one member per event, scored by
// its unix timestamp. Counting a trailing window is a ZCOUNT and purging is
// a ZREMRANGEBYSCORE, so reads never scan stale members.

const trackerRetention = time.Hour

// memberSeq disambiguates events recorded within the same nanosecond.
var memberSeq atomic.Uint64

func trackerKey(guildID, userID, eventKind string) string {
	return fmt.Sprintf("track:%s:%s:%s", guildID, userID, eventKind)
}

func trackerChannelKey(guildID, userID, channelID, eventKind string) string {
	return fmt.Sprintf("track:%s:%s:%s:%s", guildID, userID, channelID, eventKind)
}

// TrackEvent records one event occurrence under both the per-user and the
// per-user-per-channel key in a single round-trip. Each write also trims
// members that have aged out of the retention window, so keys on
// continuously active users stay bounded even though Expire keeps sliding.
func (c *Client) TrackEvent(ctx context.Context, guildID, userID, channelID, eventKind string, ts int64) error {
	member := strconv.FormatInt(time.Now().UnixNano(), 10) + "-" + strconv.FormatUint(memberSeq.Add(1), 10)
	score := float64(ts)
	// score < cutoff goes, matching the SQL purge's strict inequality
	cutoff := "(" + strconv.FormatInt(ts-int64(trackerRetention/time.Second), 10)

	pipe := c.client.Pipeline()

	key := trackerKey(guildID, userID, eventKind)
	pipe.ZAdd(ctx, key, redis.Z{Score: score, Member: member})
	pipe.ZRemRangeByScore(ctx, key, "-inf", cutoff)
	pipe.Expire(ctx, key, trackerRetention)

	chKey := trackerChannelKey(guildID, userID, channelID, eventKind)
	pipe.ZAdd(ctx, chKey, redis.Z{Score: score, Member: member})
	pipe.ZRemRangeByScore(ctx, chKey, "-inf", cutoff)
	pipe.Expire(ctx, chKey, trackerRetention)

	_, err := pipe.Exec(ctx)
	return err
}

// CountEventsSince counts events of one kind after the cutoff. A non-empty
// channelID narrows the count to that channel.
func (c *Client) CountEventsSince(ctx context.Context, guildID, userID, channelID, eventKind string, since int64) (int, error) {
	key := trackerKey(guildID, userID, eventKind)
	if channelID != "" {
		key = trackerChannelKey(guildID, userID, channelID, eventKind)
	}
	// timestamp > since, matching the SQL tracker's strict inequality
	min := "(" + strconv.FormatInt(since, 10)
	n, err := c.client.ZCount(ctx, key, min, "+inf").Result()
	if err != nil {
		return 0, err
	}
	return int(n), nil
}
