// Package redis stores collections in Redis hashes, one hash per kind:
//
//	<prefix><kind>  →  { payload: <json>, version: <n> }
//
// Versioned writes use WATCH/MULTI/EXEC: the watched keys are checked
// inside the optimistic transaction and EXEC aborts if any of them
// changed, which maps onto storage.ErrVersionConflict.
package redis

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"strconv"

	"github.com/aanand-mishra/hostel-api/internal/config"
	"github.com/aanand-mishra/hostel-api/internal/storage"
	goredis "github.com/redis/go-redis/v9"
)

// Redis implements storage.Storage on top of a go-redis client.
type Redis struct {
	client *goredis.Client
	prefix string
}

// New connects to the server named in cfg.Redis and pings it.
func New(ctx context.Context, cfg *config.Config) (*Redis, error) {
	client := goredis.NewClient(&goredis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis.New: ping %s: %w", cfg.Redis.Addr, classify(err))
	}

	return NewWithClient(client, cfg.Redis.Prefix), nil
}

// NewWithClient wraps an existing client.
func NewWithClient(client *goredis.Client, prefix string) *Redis {
	return &Redis{client: client, prefix: prefix}
}

func (r *Redis) key(kind storage.Kind) string {
	return r.prefix + string(kind)
}

func (r *Redis) Get(ctx context.Context, kind storage.Kind) (storage.Collection, error) {
	fields, err := r.client.HGetAll(ctx, r.key(kind)).Result()
	if err != nil {
		return storage.Collection{}, fmt.Errorf("Get %s: %w", kind, classify(err))
	}

	col := storage.Collection{Kind: kind}
	if len(fields) == 0 {
		return col, nil
	}

	col.Version, err = strconv.ParseInt(fields["version"], 10, 64)
	if err != nil {
		return storage.Collection{}, fmt.Errorf("Get %s: bad version %q: %w", kind, fields["version"], err)
	}
	col.Data = []byte(fields["payload"])
	return col, nil
}

func (r *Redis) Put(ctx context.Context, cols ...storage.Collection) error {
	keys := make([]string, 0, len(cols))
	for _, c := range cols {
		keys = append(keys, r.key(c.Kind))
	}

	txf := func(tx *goredis.Tx) error {
		for _, c := range cols {
			current, err := tx.HGet(ctx, r.key(c.Kind), "version").Int64()
			if errors.Is(err, goredis.Nil) {
				current = 0
			} else if err != nil {
				return err
			}
			if current != c.Version {
				return fmt.Errorf("Put %s: have v%d, want v%d: %w",
					c.Kind, current, c.Version, storage.ErrVersionConflict)
			}
		}

		_, err := tx.TxPipelined(ctx, func(pipe goredis.Pipeliner) error {
			for _, c := range cols {
				pipe.HSet(ctx, r.key(c.Kind), "payload", c.Data, "version", c.Version+1)
			}
			return nil
		})
		return err
	}

	err := r.client.Watch(ctx, txf, keys...)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, storage.ErrVersionConflict):
		return err
	case errors.Is(err, goredis.TxFailedErr):
		return fmt.Errorf("Put: watched key changed: %w", storage.ErrVersionConflict)
	default:
		return fmt.Errorf("Put: %w", classify(err))
	}
}

func (r *Redis) Close() error {
	return r.client.Close()
}

// classify marks connection-level failures as transient.
func classify(err error) error {
	var netErr net.Error
	if errors.As(err, &netErr) || errors.Is(err, io.EOF) {
		return fmt.Errorf("%w: %v", storage.ErrUnavailable, err)
	}
	return err
}
