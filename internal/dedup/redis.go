package dedup

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const redisSeenKey = "jobscout:seen_urls"

// RedisStore keeps the seen-URL set in a Redis sorted set scored by
// insertion time, so multiple scraper hosts can share one dedup view.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore parses redisURL and verifies connectivity.
func NewRedisStore(ctx context.Context, redisURL string) (*RedisStore, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("redis.ParseURL(%q): %w", redisURL, err)
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	return &RedisStore{client: client}, nil
}

func (s *RedisStore) Contains(ctx context.Context, url string) bool {
	err := s.client.ZScore(ctx, redisSeenKey, url).Err()
	if err == redis.Nil {
		return false
	}
	if err != nil {
		//treat an unreachable store as "not seen": a duplicate row beats a
		//silently dropped job
		log.Printf("⚠️ Redis lookup failed: %v", err)
		return false
	}
	return true
}

func (s *RedisStore) Add(ctx context.Context, urls []string) {
	if len(urls) == 0 {
		return
	}

	now := float64(time.Now().UnixMilli())
	members := make([]redis.Z, len(urls))
	for i, url := range urls {
		members[i] = redis.Z{Score: now, Member: url}
	}

	if err := s.client.ZAdd(ctx, redisSeenKey, members...).Err(); err != nil {
		log.Printf("⚠️ Redis add failed: %v", err)
		return
	}

	//expire old members on each write
	cutoff := time.Now().Add(-seenTTL).UnixMilli()
	if err := s.client.ZRemRangeByScore(ctx, redisSeenKey, "-inf", strconv.FormatInt(cutoff, 10)).Err(); err != nil {
		log.Printf("⚠️ Redis expiry sweep failed: %v", err)
	}
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}
