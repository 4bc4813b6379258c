package redis

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"tiered-quiz-service/internal/domain"
	"github.com/redis/go-redis/v9"
)

// Ledger keeps one hash per account and a sorted set for the leaderboard.
//   HSET ledger:user:{userID} user_name {name} points {points}
//   ZADD ledger:leaderboard {points} {userID}
// Each mutation runs as a Lua script so the existence check, the hash update
// and the sorted set update apply as one unit. Lua numbers are doubles, so
// totals cross the script boundary as strings and the hash field is the
// source of truth for points. Sorted set scores only order the scan.
type Ledger struct {
	client *redis.Client
}

func NewLedger(client *redis.Client) *Ledger {
	return &Ledger{client: client}
}

const leaderboardKey = "ledger:leaderboard"

var registerScript = redis.NewScript(`
if redis.call('EXISTS', KEYS[1]) == 1 then
	return 0
end
redis.call('HSET', KEYS[1], 'user_name', ARGV[2], 'points', '0')
redis.call('ZADD', KEYS[2], '0', ARGV[1])
return 1
`)

var addPointsScript = redis.NewScript(`
if redis.call('EXISTS', KEYS[1]) == 0 then
	return false
end
redis.call('HINCRBY', KEYS[1], 'points', ARGV[2])
local total = redis.call('HGET', KEYS[1], 'points')
redis.call('ZADD', KEYS[2], total, ARGV[1])
return total
`)

var removeScript = redis.NewScript(`
if redis.call('DEL', KEYS[1]) == 0 then
	return 0
end
redis.call('ZREM', KEYS[2], ARGV[1])
return 1
`)

func (l *Ledger) Register(ctx context.Context, userID, userName string) error {
	created, err := registerScript.Run(ctx, l.client, []string{l.userKey(userID), leaderboardKey}, userID, userName).Int64()
	if err != nil {
		return storeErr("register user", err)
	}
	if created == 0 {
		return domain.ErrDuplicateUser
	}
	return nil
}

func (l *Ledger) Remove(ctx context.Context, userID string) error {
	removed, err := removeScript.Run(ctx, l.client, []string{l.userKey(userID), leaderboardKey}, userID).Int64()
	if err != nil {
		return storeErr("delete user", err)
	}
	if removed == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (l *Ledger) ReadPoints(ctx context.Context, userID string) (int64, error) {
	points, err := l.client.HGet(ctx, l.userKey(userID), "points").Int64()
	if errors.Is(err, redis.Nil) {
		return 0, domain.ErrNotFound
	}
	if err != nil {
		return 0, storeErr("read points", err)
	}
	return points, nil
}

func (l *Ledger) AddPoints(ctx context.Context, userID string, delta int64) (int64, error) {
	total, err := addPointsScript.Run(ctx, l.client, []string{l.userKey(userID), leaderboardKey}, userID, delta).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, domain.ErrNotFound
	}
	if err != nil {
		return 0, storeErr("add points", err)
	}
	return total, nil
}

func (l *Ledger) Leaderboard(ctx context.Context) ([]domain.LeaderboardEntry, error) {
	ranked, err := l.client.ZRevRangeWithScores(ctx, leaderboardKey, 0, -1).Result()
	if err != nil {
		return nil, storeErr("leaderboard", err)
	}

	pipe := l.client.Pipeline()
	rows := make([]*redis.SliceCmd, len(ranked))
	for i, z := range ranked {
		rows[i] = pipe.HMGet(ctx, l.userKey(z.Member.(string)), "user_name", "points")
	}
	if len(ranked) > 0 {
		if _, err := pipe.Exec(ctx); err != nil {
			return nil, storeErr("leaderboard rows", err)
		}
	}

	entries := make([]domain.LeaderboardEntry, 0, len(ranked))
	for i, z := range ranked {
		fields := rows[i].Val()
		name, ok := fields[0].(string)
		if !ok {
			// removed between ZREVRANGE and HMGET
			continue
		}
		raw, _ := fields[1].(string)
		points, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, storeErr("leaderboard points", err)
		}
		entries = append(entries, domain.LeaderboardEntry{
			UserID:   z.Member.(string),
			UserName: name,
			Points:   points,
		})
	}
	domain.SortLeaderboard(entries)
	return entries, nil
}

func (l *Ledger) userKey(userID string) string {
	return "ledger:user:" + userID
}

func storeErr(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, domain.ErrStoreUnavailable, err)
}
