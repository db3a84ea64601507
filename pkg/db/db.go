// Package db provides the shared gorm database handle.
package db

import (
	"fmt"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/tablewiselabs/tablewise/internal/config"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	gormprometheus "gorm.io/plugin/prometheus"
)

var Module = fx.Module("db",
	fx.Provide(New),
)

func New(cfg config.Config, log *zap.Logger) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cfg.Database.Driver {
	case "postgres":
		dialector = postgres.Open(cfg.Database.DSN)
	case "sqlite":
		dialector = sqlite.Open(cfg.Database.DSN)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Database.Driver)
	}

	gdb, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	sqlDB, err := gdb.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(time.Hour)

	if cfg.Database.Driver == "postgres" {
		if err := gdb.Use(gormprometheus.New(gormprometheus.Config{
			DBName:          "tablewise",
			RefreshInterval: 15,
		})); err != nil {
			log.Warn("gorm prometheus plugin not registered", zap.Error(err))
		}
	}

	log.Info("database connected", zap.String("driver", cfg.Database.Driver))
	return gdb, nil
}
