package redis

import (
	"context"

	"github.com/redis/go-redis/v9"
	"github.com/tablewiselabs/tablewise/internal/config"
	"go.uber.org/fx"
)

var Module = fx.Module("redis",
	fx.Provide(NewClient),
)

// NewClient connects to the shared Redis instance. Redis is optional: it is
// only required when the order number allocator is configured to use it, so
// an empty address yields a nil client rather than an error.
func NewClient(cfg config.Config) (*redis.Client, error) {
	if cfg.Redis.Addr == "" {
		return nil, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, err
	}
	return client, nil
}
