package service

import (
	"context"
	"fmt"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/redis/go-redis/v9"
	"github.com/tablewiselabs/tablewise/internal/observability"
	"github.com/tablewiselabs/tablewise/internal/order/domain"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const allocatorMaxRetries = 5

// formatOrderNumber renders ORD-YYYYMMDD-NNNN. The sequence is zero padded
// to 4 digits and simply widens beyond 9999, it never wraps.
func formatOrderNumber(day string, seq int64) string {
	return fmt.Sprintf("ORD-%s-%04d", day, seq)
}

// CounterAllocator mints order numbers from the order_counters table. The
// whole read-modify-write collapses into one upsert with RETURNING, which
// the store serializes, so concurrent callers can never observe the same
// sequence value. Works on Postgres and SQLite.
type CounterAllocator struct {
	db      *gorm.DB
	log     *zap.Logger
	metrics *observability.Metrics
}

func NewCounterAllocator(db *gorm.DB, log *zap.Logger, metrics *observability.Metrics) *CounterAllocator {
	return &CounterAllocator{
		db:      db,
		log:     log.Named("order.allocator"),
		metrics: metrics,
	}
}

func (a *CounterAllocator) Allocate(ctx context.Context, tenantID snowflake.ID, day string) (string, error) {
	var lastErr error
	for attempt := 0; attempt < allocatorMaxRetries; attempt++ {
		if attempt > 0 {
			a.metrics.AllocatorRetries.Inc()
		}
		var seq int64
		err := a.db.WithContext(ctx).Raw(
			`INSERT INTO order_counters (tenant_id, day, seq)
			 VALUES (?, ?, 1)
			 ON CONFLICT (tenant_id, day)
			 DO UPDATE SET seq = order_counters.seq + 1
			 RETURNING seq`,
			tenantID, day,
		).Scan(&seq).Error
		if err == nil {
			return formatOrderNumber(day, seq), nil
		}
		lastErr = err
		a.log.Warn("order number allocation retry",
			zap.Int("attempt", attempt+1),
			zap.Error(err))
	}
	return "", fmt.Errorf("%w: %v", domain.ErrAllocationExhausted, lastErr)
}

// RedisAllocator mints order numbers with INCR on a per-(tenant, day) key.
// Keys expire two days after first use; the day component of the key keeps
// an expired counter from ever colliding with a live one.
type RedisAllocator struct {
	client  *redis.Client
	log     *zap.Logger
	metrics *observability.Metrics
}

func NewRedisAllocator(client *redis.Client, log *zap.Logger, metrics *observability.Metrics) *RedisAllocator {
	return &RedisAllocator{
		client:  client,
		log:     log.Named("order.allocator.redis"),
		metrics: metrics,
	}
}

func (a *RedisAllocator) Allocate(ctx context.Context, tenantID snowflake.ID, day string) (string, error) {
	key := fmt.Sprintf("orderno:%s:%s", tenantID, day)

	var lastErr error
	for attempt := 0; attempt < allocatorMaxRetries; attempt++ {
		if attempt > 0 {
			a.metrics.AllocatorRetries.Inc()
		}
		seq, err := a.client.Incr(ctx, key).Result()
		if err == nil {
			if seq == 1 {
				a.client.Expire(ctx, key, 48*time.Hour)
			}
			return formatOrderNumber(day, seq), nil
		}
		lastErr = err
		a.log.Warn("order number allocation retry",
			zap.Int("attempt", attempt+1),
			zap.Error(err))
	}
	return "", fmt.Errorf("%w: %v", domain.ErrAllocationExhausted, lastErr)
}
