package localstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/redis/go-redis/v9"
)

// ConnectRedis opens a client and verifies the server answers.
func ConnectRedis(ctx context.Context, addr string) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{Addr: addr})
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return rdb, nil
}

// RedisStore keeps each record as a JSON string under prediction_<gameId>.
type RedisStore struct {
	rdb *redis.Client
}

func NewRedisStore(rdb *redis.Client) *RedisStore {
	return &RedisStore{rdb: rdb}
}

func (s *RedisStore) Get(ctx context.Context, gameID string) (Record, bool, error) {
	if err := validateGameID(gameID); err != nil {
		return Record{}, false, err
	}
	b, err := s.rdb.Get(ctx, Key(gameID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return Record{}, false, nil
	}
	if err != nil {
		return Record{}, false, err
	}
	var r Record
	if err := json.Unmarshal(b, &r); err != nil {
		return Record{}, false, fmt.Errorf("decode %s: %w", Key(gameID), err)
	}
	return r, true, nil
}

func (s *RedisStore) Put(ctx context.Context, r Record) error {
	if err := validateGameID(r.GameID); err != nil {
		return err
	}
	b, err := json.Marshal(r)
	if err != nil {
		return err
	}
	return s.rdb.Set(ctx, Key(r.GameID), b, 0).Err()
}

// List scans prediction_* keys and returns the records ordered by game id.
func (s *RedisStore) List(ctx context.Context) ([]Record, error) {
	var records []Record
	iter := s.rdb.Scan(ctx, 0, KeyPrefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		gameID := strings.TrimPrefix(iter.Val(), KeyPrefix)
		r, ok, err := s.Get(ctx, gameID)
		if err != nil {
			return nil, err
		}
		if ok {
			records = append(records, r)
		}
	}
	if err := iter.Err(); err != nil {
		return nil, err
	}
	sort.Slice(records, func(i, j int) bool { return records[i].GameID < records[j].GameID })
	return records, nil
}

func (s *RedisStore) Delete(ctx context.Context, gameID string) error {
	if err := validateGameID(gameID); err != nil {
		return err
	}
	return s.rdb.Del(ctx, Key(gameID)).Err()
}

// Close releases the underlying client.
func (s *RedisStore) Close() error {
	return s.rdb.Close()
}
