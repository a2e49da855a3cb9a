package cache

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/oggyb/skilllink/internal/config"
)

const (
	leaderboardKey      = "leaderboard:points"
	leaderboardBuiltKey = "leaderboard:points:built"
	counterTTL          = time.Hour
	// increments applied between a rebuild and the award commit can be
	// counted twice, so the set is rebuilt from the DB regularly.
	leaderboardTTL = 10 * time.Minute
)

type RedisCache struct {
	Client *redis.Client
}

// NewRedisCache initializes Redis client from config.
// Only Addr is mandatory, Password/DB are optional.
func NewRedisCache(cfg *config.Config) *RedisCache {
	opts := &redis.Options{
		Addr: cfg.Redis.Addr,
	}
	if cfg.Redis.Password != "" {
		opts.Password = cfg.Redis.Password
	}
	if cfg.Redis.DB != 0 {
		opts.DB = cfg.Redis.DB
	}
	return &RedisCache{Client: redis.NewClient(opts)}
}

func (c *RedisCache) Ping(ctx context.Context) error {
	return c.Client.Ping(ctx).Err()
}

func (c *RedisCache) Close() error {
	return c.Client.Close()
}

// KeyForRightSwipeCount generates the Redis key for a user's received right swipes.
func (c *RedisCache) KeyForRightSwipeCount(userID string) string {
	return fmt.Sprintf("swipes:right:count:%s", userID)
}

// SetRightSwipeCount stores the count and refreshes its TTL.
func (c *RedisCache) SetRightSwipeCount(ctx context.Context, userID string, count int64) error {
	return c.Client.Set(ctx, c.KeyForRightSwipeCount(userID), count, counterTTL).Err()
}

// GetRightSwipeCount returns the cached count. ok is false on a cache miss.
func (c *RedisCache) GetRightSwipeCount(ctx context.Context, userID string) (count int64, ok bool, err error) {
	key := c.KeyForRightSwipeCount(userID)
	val, err := c.Client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return 0, false, nil
	} else if err != nil {
		return 0, false, err
	}
	n, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return 0, false, nil
	}
	// refresh TTL on access
	_ = c.Client.Expire(ctx, key, counterTTL).Err()
	return n, true, nil
}

// InvalidateRightSwipeCount drops the cached count so the next read goes to the DB.
func (c *RedisCache) InvalidateRightSwipeCount(ctx context.Context, userID string) error {
	return c.Client.Del(ctx, c.KeyForRightSwipeCount(userID)).Err()
}

// LeaderboardEntry is one member of the points sorted set.
type LeaderboardEntry struct {
	UserID string
	Points int64
}

// AddPoints increments a user's score if the leaderboard is currently built.
// When it is not, the next rebuild picks the points up from the DB.
func (c *RedisCache) AddPoints(ctx context.Context, userID string, points int64) error {
	built, err := c.Client.Exists(ctx, leaderboardBuiltKey).Result()
	if err != nil || built == 0 {
		return err
	}
	return c.Client.ZIncrBy(ctx, leaderboardKey, float64(points), userID).Err()
}

// TopPoints returns the highest scores, best first, ties by smallest user id.
// ok is false when the leaderboard has to be rebuilt from the DB.
//
// Behavior:
//   - ZREVRANGE orders equal scores by member descending, so the limit alone
//     could cut a tie at the wrong end.
//   - When the page is full, every member scoring at least the last score is
//     read back, then sorted and trimmed.
func (c *RedisCache) TopPoints(ctx context.Context, limit int) (entries []LeaderboardEntry, ok bool, err error) {
	built, err := c.Client.Exists(ctx, leaderboardBuiltKey).Result()
	if err != nil || built == 0 {
		return nil, false, err
	}
	res, err := c.Client.ZRevRangeWithScores(ctx, leaderboardKey, 0, int64(limit-1)).Result()
	if err != nil {
		return nil, false, err
	}
	if len(res) == limit && limit > 0 {
		floor := strconv.FormatFloat(res[len(res)-1].Score, 'f', -1, 64)
		res, err = c.Client.ZRevRangeByScoreWithScores(ctx, leaderboardKey, &redis.ZRangeBy{
			Min: floor,
			Max: "+inf",
		}).Result()
		if err != nil {
			return nil, false, err
		}
	}

	out := make([]LeaderboardEntry, 0, len(res))
	for _, z := range res {
		member, _ := z.Member.(string)
		out = append(out, LeaderboardEntry{UserID: member, Points: int64(z.Score)})
	}
	slices.SortFunc(out, func(a, b LeaderboardEntry) int {
		if a.Points != b.Points {
			return cmp.Compare(b.Points, a.Points)
		}
		return strings.Compare(a.UserID, b.UserID)
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, true, nil
}

// ReplaceLeaderboard rebuilds the sorted set from authoritative totals.
func (c *RedisCache) ReplaceLeaderboard(ctx context.Context, entries []LeaderboardEntry) error {
	pipe := c.Client.TxPipeline()
	pipe.Del(ctx, leaderboardKey)
	if len(entries) > 0 {
		members := make([]redis.Z, 0, len(entries))
		for _, e := range entries {
			members = append(members, redis.Z{Score: float64(e.Points), Member: e.UserID})
		}
		pipe.ZAdd(ctx, leaderboardKey, members...)
		pipe.Expire(ctx, leaderboardKey, leaderboardTTL)
	}
	pipe.Set(ctx, leaderboardBuiltKey, "1", leaderboardTTL)
	_, err := pipe.Exec(ctx)
	return err
}
