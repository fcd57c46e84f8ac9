package store

import (
	"card-assist/internal/domain/entity"
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

const defaultMaxTxAttempts = 10

// RedisAccountStore keeps each account as a JSON document and applies
// updates with WATCH/MULTI so concurrent writers to one key never lose an
// update.
type RedisAccountStore struct {
	client        *redis.Client
	prefix        string
	maxTxAttempts int
}

func NewRedisAccountStore(client *redis.Client) *RedisAccountStore {
	return &RedisAccountStore{
		client:        client,
		prefix:        "account:",
		maxTxAttempts: defaultMaxTxAttempts,
	}
}

func (s *RedisAccountStore) key(userID string) string {
	return s.prefix + userID
}

func (s *RedisAccountStore) Get(ctx context.Context, userID string) (*entity.Account, error) {
	raw, err := s.client.Get(ctx, s.key(userID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, entity.ErrAccountNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("redis get account: %w", err)
	}
	return decodeAccount(raw)
}

func (s *RedisAccountStore) Update(ctx context.Context, userID string, fn func(*entity.Account) error) (*entity.Account, error) {
	key := s.key(userID)
	var committed *entity.Account

	txf := func(tx *redis.Tx) error {
		raw, err := tx.Get(ctx, key).Bytes()
		if errors.Is(err, redis.Nil) {
			return entity.ErrAccountNotFound
		}
		if err != nil {
			return err
		}
		acct, err := decodeAccount(raw)
		if err != nil {
			return err
		}
		if err := fn(acct); err != nil {
			return err
		}
		b, err := json.Marshal(acct)
		if err != nil {
			return fmt.Errorf("marshal account: %w", err)
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, b, 0)
			return nil
		})
		if err == nil {
			committed = acct
		}
		return err
	}

	for attempt := 0; attempt < s.maxTxAttempts; attempt++ {
		err := s.client.Watch(ctx, txf, key)
		if err == nil {
			return committed.Clone(), nil
		}
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		if errors.Is(err, entity.ErrAccountNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("redis update account: %w", err)
	}
	return nil, fmt.Errorf("redis update account %s: too much contention after %d attempts", userID, s.maxTxAttempts)
}

// Seed writes accounts with SETNX, leaving existing documents untouched.
func (s *RedisAccountStore) Seed(ctx context.Context, accounts ...*entity.Account) error {
	for _, a := range accounts {
		b, err := json.Marshal(a)
		if err != nil {
			return fmt.Errorf("marshal account: %w", err)
		}
		if err := s.client.SetNX(ctx, s.key(a.UserID), b, 0).Err(); err != nil {
			return fmt.Errorf("redis seed account %s: %w", a.UserID, err)
		}
	}
	return nil
}

func decodeAccount(raw []byte) (*entity.Account, error) {
	var acct entity.Account
	if err := json.Unmarshal(raw, &acct); err != nil {
		return nil, fmt.Errorf("decode account: %w", err)
	}
	if acct.Transactions == nil {
		acct.Transactions = []entity.Transaction{}
	}
	return &acct, nil
}
