package repository

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"github.com/tablewiselabs/tablewise/internal/order/domain"
	"gorm.io/gorm"
)

type orderRepo struct {
	db *gorm.DB
}

func Provide(db *gorm.DB) domain.Repository {
	return &orderRepo{db: db}
}

func (r *orderRepo) Insert(ctx context.Context, db *gorm.DB, order *domain.Order) error {
	if db == nil {
		db = r.db
	}
	return db.WithContext(ctx).Create(order).Error
}

func (r *orderRepo) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.Order, error) {
	if db == nil {
		db = r.db
	}
	var order domain.Order
	if err := db.WithContext(ctx).Preload("Lines").First(&order, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrOrderNotFound
		}
		return nil, err
	}
	return &order, nil
}

func (r *orderRepo) FindByIDForTenant(ctx context.Context, db *gorm.DB, tenantID, id snowflake.ID) (*domain.Order, error) {
	if db == nil {
		db = r.db
	}
	var order domain.Order
	if err := db.WithContext(ctx).Preload("Lines").
		Where("tenant_id = ?", tenantID).
		First(&order, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrOrderNotFound
		}
		return nil, err
	}
	return &order, nil
}

func (r *orderRepo) Update(ctx context.Context, db *gorm.DB, order *domain.Order) error {
	if db == nil {
		db = r.db
	}
	return db.WithContext(ctx).Save(order).Error
}

func (r *orderRepo) ListByTenantDay(ctx context.Context, db *gorm.DB, tenantID snowflake.ID, day string) ([]domain.Order, error) {
	if db == nil {
		db = r.db
	}
	var orders []domain.Order
	if err := db.WithContext(ctx).Preload("Lines").
		Where("tenant_id = ? AND order_day = ?", tenantID, day).
		Order("order_number ASC").
		Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}
