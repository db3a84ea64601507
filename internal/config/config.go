package config

import (
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"go.uber.org/fx"
)

var Module = fx.Module("config",
	fx.Provide(Load),
)

// Config is the full service configuration. Values are sourced from the
// environment first, optionally seeded from a .env file and a yaml config
// file when present.
type Config struct {
	HTTPAddr string
	Env      string

	Database DatabaseConfig
	Redis    RedisConfig
	Gateway  GatewayConfig
	Orders   OrdersConfig
}

type DatabaseConfig struct {
	Driver string // "postgres" or "sqlite"
	DSN    string
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// GatewayConfig holds the payment gateway credentials. The webhook secret
// is the shared secret used for callback signature verification and must
// never be logged.
type GatewayConfig struct {
	BaseURL       string
	KeyID         string
	KeySecret     string
	WebhookSecret string
	Timeout       time.Duration
}

type OrdersConfig struct {
	// AllocatorBackend selects the order number allocator: "db" uses the
	// per-tenant-per-day counter table, "redis" uses INCR on the shared
	// Redis instance.
	AllocatorBackend string
}

func Load() (Config, error) {
	// Best effort; production deployments set real env vars.
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("TABLEWISE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("http.addr", ":8080")
	v.SetDefault("env", "development")
	v.SetDefault("database.driver", "postgres")
	v.SetDefault("database.dsn", "postgres://localhost:5432/tablewise?sslmode=disable")
	v.SetDefault("redis.addr", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("gateway.base_url", "https://api.razorpay.com/v1")
	v.SetDefault("gateway.timeout", 15*time.Second)
	v.SetDefault("orders.allocator_backend", "db")

	v.SetConfigName("tablewise")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("/etc/tablewise")
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return Config{}, err
		}
	} else {
		v.WatchConfig()
		v.OnConfigChange(func(fsnotify.Event) {})
	}

	cfg := Config{
		HTTPAddr: v.GetString("http.addr"),
		Env:      v.GetString("env"),
		Database: DatabaseConfig{
			Driver: v.GetString("database.driver"),
			DSN:    v.GetString("database.dsn"),
		},
		Redis: RedisConfig{
			Addr:     v.GetString("redis.addr"),
			Password: v.GetString("redis.password"),
			DB:       v.GetInt("redis.db"),
		},
		Gateway: GatewayConfig{
			BaseURL:       v.GetString("gateway.base_url"),
			KeyID:         v.GetString("gateway.key_id"),
			KeySecret:     v.GetString("gateway.key_secret"),
			WebhookSecret: v.GetString("gateway.webhook_secret"),
			Timeout:       v.GetDuration("gateway.timeout"),
		},
		Orders: OrdersConfig{
			AllocatorBackend: v.GetString("orders.allocator_backend"),
		},
	}
	return cfg, nil
}
