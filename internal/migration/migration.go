package migration

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	orderdomain "github.com/tablewiselabs/tablewise/internal/order/domain"
	paymentdomain "github.com/tablewiselabs/tablewise/internal/payment/domain"
	plandomain "github.com/tablewiselabs/tablewise/internal/plan/domain"
	subdomain "github.com/tablewiselabs/tablewise/internal/subscription/domain"
	tenantdomain "github.com/tablewiselabs/tablewise/internal/tenant/domain"
	"gorm.io/gorm"
)

//go:embed migrations/*.sql
var embeddedMigrations embed.FS

const migrationsDir = "migrations"

// RunMigrations applies all embedded migrations under a Postgres advisory
// lock, so concurrently starting replicas cannot race each other.
func RunMigrations(db *sql.DB) error {
	if db == nil {
		return errors.New("migration database handle is required")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	unlock, err := acquireAdvisoryLock(ctx, db)
	if err != nil {
		return err
	}
	defer func() {
		_ = unlock(context.Background())
	}()

	sub, err := fs.Sub(embeddedMigrations, migrationsDir)
	if err != nil {
		return fmt.Errorf("open migrations: %w", err)
	}
	source, err := iofs.New(sub, ".")
	if err != nil {
		return fmt.Errorf("create migration source: %w", err)
	}
	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		return fmt.Errorf("create migration driver: %w", err)
	}
	migrator, err := migrate.NewWithInstance("iofs", source, "postgres", driver)
	if err != nil {
		return fmt.Errorf("create migrator: %w", err)
	}

	if err := migrator.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("apply migrations: %w", err)
	}
	return nil
}

// AutoMigrate builds the schema through gorm. Used for the sqlite driver
// and in tests; Postgres deployments run the SQL migrations instead.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&tenantdomain.Tenant{},
		&plandomain.Plan{},
		&subdomain.Subscription{},
		&orderdomain.Order{},
		&orderdomain.OrderLine{},
		&orderdomain.OrderCounter{},
		&paymentdomain.PaymentRecord{},
	)
}
