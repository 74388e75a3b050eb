// Package rdx keeps client state in Redis, for shared test devices and
// kiosks where the local disk is wiped between runs.
package rdx

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "merchant:state:"

type Store struct {
	Conn *redis.Client
}

// Connect dials addr and verifies the connection with a PING.
func Connect(ctx context.Context, addr string) (*Store, error) {
	conn := redis.NewClient(&redis.Options{
		Addr:        addr,
		DialTimeout: 3 * time.Second,
	})
	if err := conn.Ping(ctx).Err(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("rdx: ping %s: %w", addr, err)
	}
	log.Printf("[rdx] connected to %s", addr)
	return &Store{Conn: conn}, nil
}

func (s *Store) Get(ctx context.Context, key string) (string, bool, error) {
	v, err := s.Conn.Get(ctx, keyPrefix+key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("rdx: get %s: %w", key, err)
	}
	return v, true, nil
}

func (s *Store) Set(ctx context.Context, key, value string) error {
	if err := s.Conn.Set(ctx, keyPrefix+key, value, 0).Err(); err != nil {
		return fmt.Errorf("rdx: set %s: %w", key, err)
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, key string) error {
	if err := s.Conn.Del(ctx, keyPrefix+key).Err(); err != nil {
		return fmt.Errorf("rdx: del %s: %w", key, err)
	}
	return nil
}

func (s *Store) Close() error {
	return s.Conn.Close()
}
