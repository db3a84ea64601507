package repository

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"github.com/tablewiselabs/tablewise/internal/tenant/domain"
	"gorm.io/gorm"
)

type tenantRepo struct {
	db *gorm.DB
}

func Provide(db *gorm.DB) domain.Repository {
	return &tenantRepo{db: db}
}

func (r *tenantRepo) Insert(ctx context.Context, db *gorm.DB, tenant *domain.Tenant) error {
	if db == nil {
		db = r.db
	}
	return db.WithContext(ctx).Create(tenant).Error
}

func (r *tenantRepo) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.Tenant, error) {
	if db == nil {
		db = r.db
	}
	var tenant domain.Tenant
	if err := db.WithContext(ctx).First(&tenant, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrTenantNotFound
		}
		return nil, err
	}
	return &tenant, nil
}

func (r *tenantRepo) SetActive(ctx context.Context, db *gorm.DB, id snowflake.ID, active bool) error {
	if db == nil {
		db = r.db
	}
	res := db.WithContext(ctx).Model(&domain.Tenant{}).
		Where("id = ?", id).
		Update("is_active", active)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrTenantNotFound
	}
	return nil
}
