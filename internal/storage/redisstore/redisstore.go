// internal/storage/redisstore/redisstore.go
//
// Package redisstore 以 Redis 實作 storage.Sessions；帳本仍由其他後端負責。
package redisstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"ledgerbank/internal/storage"
)

type Store struct {
	client *goredis.Client
	prefix string
}

var _ storage.Sessions = (*Store)(nil)

// Dial 建立 Redis 連線，Ping 成功後才回傳 client。
func Dial(addr, password string) (*goredis.Client, error) {
	client := goredis.NewClient(&goredis.Options{
		Addr:     addr,
		Password: password,
		DB:       0,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redisstore: ping %s: %w", addr, err)
	}
	return client, nil
}

// New 以既有 client 建立 session 儲存。
func New(client *goredis.Client) *Store {
	return &Store{
		client: client,
		prefix: "session:",
	}
}

func (r *Store) key(sessionID string) string {
	return r.prefix + sessionID
}

// Put 寫入 session → 帳號，不設過期時間，直到登出才刪除。
func (r *Store) Put(ctx context.Context, sessionID, account string) error {
	if sessionID == "" || account == "" {
		return fmt.Errorf("redisstore: missing session id or account")
	}
	return r.client.Set(ctx, r.key(sessionID), account, 0).Err()
}

func (r *Store) Get(ctx context.Context, sessionID string) (string, bool, error) {
	val, err := r.client.Get(ctx, r.key(sessionID)).Result()
	if errors.Is(err, goredis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("redisstore: get: %w", err)
	}
	return val, true, nil
}

func (r *Store) Delete(ctx context.Context, sessionID string) (bool, error) {
	n, err := r.client.Del(ctx, r.key(sessionID)).Result()
	if err != nil {
		return false, fmt.Errorf("redisstore: delete: %w", err)
	}
	return n > 0, nil
}
