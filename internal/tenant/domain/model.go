package domain

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

var (
	ErrTenantNotFound = errors.New("tenant not found")
	ErrInvalidTenant  = errors.New("invalid tenant")
)

// Tenant is one restaurant on the platform. BusinessName, Address, TaxID
// and Phone are display-only fields consumed by document rendering; only
// IsActive participates in settlement logic.
type Tenant struct {
	ID           snowflake.ID `json:"id" gorm:"primaryKey;autoIncrement:false"`
	Name         string       `json:"name" gorm:"type:varchar(255);not null"`
	Slug         string       `json:"slug" gorm:"type:varchar(255);not null;uniqueIndex"`
	BusinessName string       `json:"business_name" gorm:"type:varchar(255)"`
	Address      string       `json:"address" gorm:"type:text"`
	TaxID        string       `json:"tax_id" gorm:"type:varchar(32)"`
	Phone        string       `json:"phone" gorm:"type:varchar(32)"`
	IsActive     bool         `json:"is_active" gorm:"default:false"`
	CreatedAt    time.Time    `json:"created_at" gorm:"not null"`
	UpdatedAt    time.Time    `json:"updated_at" gorm:"not null"`
}

func (Tenant) TableName() string { return "tenants" }

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, tenant *Tenant) error
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Tenant, error)
	SetActive(ctx context.Context, db *gorm.DB, id snowflake.ID, active bool) error
}
