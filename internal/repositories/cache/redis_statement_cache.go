// Package cache keeps consolidated income statements in Redis.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/SscSPs/lawfirm_ledger_app/internal/core/domain"
	portsrepo "github.com/SscSPs/lawfirm_ledger_app/internal/core/ports/repositories"
)

const keyPrefix = "lawfirm:statement:"

// RedisStatementCache stores statements as JSON under one key per competency month.
type RedisStatementCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStatementCache instantiates the cache. A zero ttl keeps entries until invalidated.
func NewRedisStatementCache(client *redis.Client, ttl time.Duration) *RedisStatementCache {
	return &RedisStatementCache{client: client, ttl: ttl}
}

var _ portsrepo.StatementCache = (*RedisStatementCache)(nil)

// Key returns the Redis key of a month.
func Key(month domain.CompetencyMonth) string {
	return keyPrefix + month.String()
}

func (c *RedisStatementCache) GetStatement(ctx context.Context, month domain.CompetencyMonth) (*domain.MonthlyIncomeStatement, bool, error) {
	payload, err := c.client.Get(ctx, Key(month)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("cache: get %s: %w", month, err)
	}
	var stmt domain.MonthlyIncomeStatement
	if err := json.Unmarshal(payload, &stmt); err != nil {
		// a payload that no longer decodes is dropped and treated as a miss
		_ = c.client.Del(ctx, Key(month)).Err()
		return nil, false, fmt.Errorf("cache: decode %s: %w", month, err)
	}
	return &stmt, true, nil
}

func (c *RedisStatementCache) SetStatement(ctx context.Context, statement domain.MonthlyIncomeStatement) error {
	raw, err := json.Marshal(statement)
	if err != nil {
		return fmt.Errorf("cache: encode %s: %w", statement.CompetencyMonth, err)
	}
	if err := c.client.Set(ctx, Key(statement.CompetencyMonth), raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("cache: set %s: %w", statement.CompetencyMonth, err)
	}
	return nil
}

func (c *RedisStatementCache) InvalidateStatement(ctx context.Context, month domain.CompetencyMonth) error {
	if err := c.client.Del(ctx, Key(month)).Err(); err != nil && !errors.Is(err, redis.Nil) {
		return fmt.Errorf("cache: delete %s: %w", month, err)
	}
	return nil
}
