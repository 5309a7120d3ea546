package ledger

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

const (
	defaultRedisURL = "redis://localhost:6379/0"
	redisKeyPrefix  = "buckshot:"
)

// RedisService stores each match as JSON under <prefix>match:<id> and keeps
// a sorted set of match IDs scored by PlayedAt.
type RedisService struct {
	client      *redis.Client
	prefix      string
	recentLimit int
	log         logrus.FieldLogger
}

func NewRedisService(url string, recentLimit int, log logrus.FieldLogger) (*RedisService, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	if recentLimit <= 0 {
		recentLimit = defaultRecentLimit
	}
	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return &RedisService{
		client:      client,
		prefix:      redisKeyPrefix,
		recentLimit: recentLimit,
		log:         log,
	}, nil
}

func (s *RedisService) indexKey() string { return s.prefix + "matches" }

func (s *RedisService) matchKey(id string) string { return s.prefix + "match:" + id }

func (s *RedisService) Close() error { return s.client.Close() }

func (s *RedisService) RecordMatch(ctx context.Context, rec MatchRecord) error {
	if strings.TrimSpace(rec.MatchID) == "" {
		return nil
	}
	if rec.PlayedAt.IsZero() {
		rec.PlayedAt = time.Now().UTC()
	}
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encode match: %w", err)
	}

	created, err := s.client.SetNX(ctx, s.matchKey(rec.MatchID), data, 0).Result()
	if err != nil {
		return fmt.Errorf("store match: %w", err)
	}
	if !created {
		return nil
	}
	score := float64(rec.PlayedAt.UnixMilli())
	if err := s.client.ZAdd(ctx, s.indexKey(), redis.Z{Score: score, Member: rec.MatchID}).Err(); err != nil {
		return fmt.Errorf("index match: %w", err)
	}
	return s.trim(ctx)
}

func (s *RedisService) trim(ctx context.Context) error {
	stale, err := s.client.ZRevRange(ctx, s.indexKey(), int64(s.recentLimit), -1).Result()
	if err != nil {
		return fmt.Errorf("trim matches: %w", err)
	}
	if len(stale) == 0 {
		return nil
	}
	keys := make([]string, 0, len(stale))
	members := make([]any, 0, len(stale))
	for _, id := range stale {
		keys = append(keys, s.matchKey(id))
		members = append(members, id)
	}
	pipe := s.client.TxPipeline()
	pipe.Del(ctx, keys...)
	pipe.ZRem(ctx, s.indexKey(), members...)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("trim matches: %w", err)
	}
	s.log.WithField("dropped", len(stale)).Debug("trimmed match history")
	return nil
}

func (s *RedisService) ListRecent(ctx context.Context, limit int) ([]HistoryItem, error) {
	limit = clampLimit(limit, s.recentLimit)
	ids, err := s.client.ZRevRange(ctx, s.indexKey(), 0, int64(limit-1)).Result()
	if err != nil {
		return nil, fmt.Errorf("list matches: %w", err)
	}
	items := make([]HistoryItem, 0, len(ids))
	if len(ids) == 0 {
		return items, nil
	}
	keys := make([]string, 0, len(ids))
	for _, id := range ids {
		keys = append(keys, s.matchKey(id))
	}
	values, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("load matches: %w", err)
	}
	for i, v := range values {
		raw, ok := v.(string)
		if !ok {
			// Index entry without a record; skip it.
			continue
		}
		var rec MatchRecord
		if err := json.Unmarshal([]byte(raw), &rec); err != nil {
			s.log.WithError(err).WithField("match", ids[i]).Warn("skip unreadable match")
			continue
		}
		items = append(items, rec.historyItem())
	}
	return items, nil
}

func (s *RedisService) GetMatch(ctx context.Context, matchID string) (*MatchRecord, error) {
	raw, err := s.client.Get(ctx, s.matchKey(matchID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("load match: %w", err)
	}
	var rec MatchRecord
	if err := json.Unmarshal(raw, &rec); err != nil {
		return nil, fmt.Errorf("decode match: %w", err)
	}
	return &rec, nil
}
