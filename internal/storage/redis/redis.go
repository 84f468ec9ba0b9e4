// Package redis keeps interview records in a Redis list.
package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/spigell/talentscout/internal/profile"
	"github.com/spigell/talentscout/internal/storage"
)

// DefaultKey is the list the records are pushed to.
const DefaultKey = "talentscout:candidates"

const scanBatch = 100

type listClient interface {
	RPush(ctx context.Context, key string, values ...any) *goredis.IntCmd
	LRange(ctx context.Context, key string, start, stop int64) *goredis.StringSliceCmd
	LLen(ctx context.Context, key string) *goredis.IntCmd
}

// Store appends records with RPUSH, which is atomic per record.
type Store struct {
	client listClient
	closer func() error
	key    string
	now    func() time.Time
}

// New connects to addr and verifies the connection with PING.
func New(ctx context.Context, addr, key string) (*Store, error) {
	client := goredis.NewClient(&goredis.Options{Addr: addr})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("connect redis %s: %w", addr, err)
	}

	return newStore(client, client.Close, key), nil
}

func newStore(client listClient, closer func() error, key string) *Store {
	if key == "" {
		key = DefaultKey
	}
	return &Store{client: client, closer: closer, key: key, now: time.Now}
}

// Close closes the underlying client.
func (s *Store) Close() error {
	if s.closer == nil {
		return nil
	}
	return s.closer()
}

// Persist implements storage.Store.
func (s *Store) Persist(ctx context.Context, sessionID string, values profile.Values, transcript []storage.Message) error {
	data, err := storage.NewRecord(sessionID, values, transcript, s.now()).Encode()
	if err != nil {
		return err
	}

	if err := s.client.RPush(ctx, s.key, string(data)).Err(); err != nil {
		return fmt.Errorf("rpush %s: %w", s.key, err)
	}
	return nil
}

// LastProfile implements storage.Finder. The list is read from the tail in
// batches so the newest matching record wins.
func (s *Store) LastProfile(ctx context.Context, hashedEmail string) (*storage.StoredProfile, error) {
	if hashedEmail == "" {
		return nil, storage.ErrNotFound
	}

	length, err := s.client.LLen(ctx, s.key).Result()
	if errors.Is(err, goredis.Nil) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("llen %s: %w", s.key, err)
	}

	for stop := length - 1; stop >= 0; stop -= scanBatch {
		start := max(stop-scanBatch+1, 0)

		items, err := s.client.LRange(ctx, s.key, start, stop).Result()
		if err != nil {
			return nil, fmt.Errorf("lrange %s: %w", s.key, err)
		}

		for i := len(items) - 1; i >= 0; i-- {
			hashed, p, err := storage.DecodeProfile([]byte(items[i]))
			if err != nil || hashed != hashedEmail {
				continue
			}
			return p, nil
		}
	}

	return nil, storage.ErrNotFound
}
