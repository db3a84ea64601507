package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, order *Order) error
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Order, error)
	FindByIDForTenant(ctx context.Context, db *gorm.DB, tenantID, id snowflake.ID) (*Order, error)
	Update(ctx context.Context, db *gorm.DB, order *Order) error
	ListByTenantDay(ctx context.Context, db *gorm.DB, tenantID snowflake.ID, day string) ([]Order, error)
}
