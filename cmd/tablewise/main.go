package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/spf13/cobra"
	"github.com/tablewiselabs/tablewise/internal/clock"
	"github.com/tablewiselabs/tablewise/internal/config"
	"github.com/tablewiselabs/tablewise/internal/document"
	"github.com/tablewiselabs/tablewise/internal/migration"
	"github.com/tablewiselabs/tablewise/internal/observability"
	"github.com/tablewiselabs/tablewise/internal/order"
	"github.com/tablewiselabs/tablewise/internal/payment"
	"github.com/tablewiselabs/tablewise/internal/plan"
	"github.com/tablewiselabs/tablewise/internal/redis"
	"github.com/tablewiselabs/tablewise/internal/seed"
	"github.com/tablewiselabs/tablewise/internal/server"
	"github.com/tablewiselabs/tablewise/internal/subscription"
	"github.com/tablewiselabs/tablewise/internal/tenant"
	"github.com/tablewiselabs/tablewise/pkg/db"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:     "tablewise",
		Short:   "Tablewise POS settlement service",
		Version: readVersionFromEnv(),
	}
	root.AddCommand(newMigrateCmd(), newSeedCmd(), newServeCmd())
	return root
}

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply database migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMigrate()
		},
	}
}

func newSeedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Seed plans and demo tenant",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSeed()
		},
	}
}

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			runServe()
			return nil
		},
	}
}

func runMigrate() error {
	return runWithDB(func(cfg config.Config, gdb *gorm.DB) error {
		if cfg.Database.Driver != "postgres" {
			return migration.AutoMigrate(gdb)
		}
		sqlDB, err := gdb.DB()
		if err != nil {
			return err
		}
		return migration.RunMigrations(sqlDB)
	})
}

func runSeed() error {
	return runWithDB(func(cfg config.Config, gdb *gorm.DB) error {
		return seed.EnsureDemoData(gdb)
	})
}

func runWithDB(fn func(config.Config, *gorm.DB) error) error {
	app := fx.New(
		config.Module,
		observability.Module,
		db.Module,
		fx.Invoke(fn),
	)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	if err := app.Start(ctx); err != nil {
		return err
	}
	return app.Stop(context.Background())
}

func runServe() {
	app := fx.New(
		config.Module,
		observability.Module,
		fx.Provide(registerSnowflake),
		db.Module,
		clock.Module,
		redis.Module,

		tenant.Module,
		plan.Module,
		subscription.Module,
		order.Module,
		payment.Module,
		document.Module,

		fx.Provide(server.NewEngine),
		fx.Provide(server.NewServer),
		fx.Invoke(func(s *server.Server) { s.RegisterRoutes() }),
		fx.Invoke(server.RunHTTP),
	)
	app.Run()
}

func registerSnowflake() *snowflake.Node {
	node, err := snowflake.NewNode(1)
	if err != nil {
		panic(err)
	}
	return node
}

func readVersionFromEnv() string {
	if v := strings.TrimSpace(os.Getenv("APP_VERSION")); v != "" {
		return v
	}
	return "dev"
}
