package repository

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"github.com/tablewiselabs/tablewise/internal/subscription/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type subscriptionRepo struct {
	db *gorm.DB
}

func Provide(db *gorm.DB) domain.Repository {
	return &subscriptionRepo{db: db}
}

func (r *subscriptionRepo) FindByTenantID(ctx context.Context, db *gorm.DB, tenantID snowflake.ID) (*domain.Subscription, error) {
	if db == nil {
		db = r.db
	}
	var sub domain.Subscription
	if err := db.WithContext(ctx).
		Where("tenant_id = ?", tenantID).
		First(&sub).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrSubscriptionNotFound
		}
		return nil, err
	}
	return &sub, nil
}

func (r *subscriptionRepo) Upsert(ctx context.Context, db *gorm.DB, sub *domain.Subscription) error {
	if db == nil {
		db = r.db
	}
	return db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "tenant_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"plan_id", "status", "billing_cycle",
			"start_date", "end_date", "auto_renew", "updated_at",
		}),
	}).Create(sub).Error
}
