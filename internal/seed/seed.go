package seed

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gosimple/slug"
	"github.com/tablewiselabs/tablewise/internal/money"
	plandomain "github.com/tablewiselabs/tablewise/internal/plan/domain"
	tenantdomain "github.com/tablewiselabs/tablewise/internal/tenant/domain"
	"gorm.io/gorm"
)

const demoTenantName = "Spice Garden"

// EnsureDemoData seeds the plan catalogue and a demo tenant for local
// development. Idempotent: existing rows are left untouched.
func EnsureDemoData(db *gorm.DB) error {
	if db == nil {
		return errors.New("seed database handle is required")
	}

	node, err := snowflake.NewNode(1)
	if err != nil {
		return err
	}

	ctx := context.Background()
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := ensurePlans(ctx, tx, node); err != nil {
			return err
		}
		return ensureDemoTenant(ctx, tx, node)
	})
}

func ensurePlans(ctx context.Context, tx *gorm.DB, node *snowflake.Node) error {
	now := time.Now().UTC()
	plans := []plandomain.Plan{
		{Code: "starter", Name: "Starter", MonthlyPrice: money.FromMinor(99900), YearlyPrice: money.FromMinor(999000)},
		{Code: "standard", Name: "Standard", MonthlyPrice: money.FromMinor(199900), YearlyPrice: money.FromMinor(1999000)},
		{Code: "premium", Name: "Premium", MonthlyPrice: money.FromMinor(399900), YearlyPrice: money.FromMinor(3999000)},
	}
	for _, p := range plans {
		var existing plandomain.Plan
		err := tx.WithContext(ctx).Where("code = ?", p.Code).First(&existing).Error
		if err == nil {
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		p.ID = node.Generate()
		p.IsActive = true
		p.CreatedAt = now
		p.UpdatedAt = now
		if err := tx.WithContext(ctx).Create(&p).Error; err != nil {
			return err
		}
	}
	return nil
}

func ensureDemoTenant(ctx context.Context, tx *gorm.DB, node *snowflake.Node) error {
	tenantSlug := slug.Make(demoTenantName)

	var existing tenantdomain.Tenant
	err := tx.WithContext(ctx).Where("slug = ?", tenantSlug).First(&existing).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	now := time.Now().UTC()
	return tx.WithContext(ctx).Create(&tenantdomain.Tenant{
		ID:           node.Generate(),
		Name:         demoTenantName,
		Slug:         tenantSlug,
		BusinessName: "Spice Garden Restaurant Pvt Ltd",
		Address:      "12 MG Road, Bengaluru 560001",
		TaxID:        "29ABCDE1234F1Z5",
		Phone:        "+91 80 4567 8900",
		CreatedAt:    now,
		UpdatedAt:    now,
	}).Error
}
