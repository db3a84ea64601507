package repository

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"github.com/tablewiselabs/tablewise/internal/plan/domain"
	"gorm.io/gorm"
)

type planRepo struct {
	db *gorm.DB
}

func Provide(db *gorm.DB) domain.Repository {
	return &planRepo{db: db}
}

func (r *planRepo) Insert(ctx context.Context, db *gorm.DB, plan *domain.Plan) error {
	if db == nil {
		db = r.db
	}
	return db.WithContext(ctx).Create(plan).Error
}

func (r *planRepo) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.Plan, error) {
	if db == nil {
		db = r.db
	}
	var plan domain.Plan
	if err := db.WithContext(ctx).First(&plan, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrPlanNotFound
		}
		return nil, err
	}
	return &plan, nil
}

func (r *planRepo) ListActive(ctx context.Context, db *gorm.DB) ([]domain.Plan, error) {
	if db == nil {
		db = r.db
	}
	var plans []domain.Plan
	if err := db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("monthly_price ASC").
		Find(&plans).Error; err != nil {
		return nil, err
	}
	return plans, nil
}
