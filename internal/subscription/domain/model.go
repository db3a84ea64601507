package domain

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	plandomain "github.com/tablewiselabs/tablewise/internal/plan/domain"
	"gorm.io/gorm"
)

var ErrSubscriptionNotFound = errors.New("subscription not found")

type SubscriptionStatus string

const (
	SubscriptionStatusTrial     SubscriptionStatus = "trial"
	SubscriptionStatusActive    SubscriptionStatus = "active"
	SubscriptionStatusExpired   SubscriptionStatus = "expired"
	SubscriptionStatusCancelled SubscriptionStatus = "cancelled"
)

// Subscription is the billing relationship between the platform and one
// tenant. At most one row per tenant; plan activation upserts rather than
// inserts.
type Subscription struct {
	ID           snowflake.ID            `json:"id" gorm:"primaryKey;autoIncrement:false"`
	TenantID     snowflake.ID            `json:"tenant_id" gorm:"not null;uniqueIndex"`
	PlanID       snowflake.ID            `json:"plan_id" gorm:"not null"`
	Status       SubscriptionStatus      `json:"status" gorm:"type:varchar(20);not null"`
	BillingCycle plandomain.BillingCycle `json:"billing_cycle" gorm:"type:varchar(20);not null"`
	StartDate    time.Time               `json:"start_date" gorm:"not null"`
	EndDate      time.Time               `json:"end_date" gorm:"not null"`
	AutoRenew    bool                    `json:"auto_renew" gorm:"default:false"`
	CreatedAt    time.Time               `json:"created_at" gorm:"not null"`
	UpdatedAt    time.Time               `json:"updated_at" gorm:"not null"`
}

func (Subscription) TableName() string { return "subscriptions" }

type Repository interface {
	FindByTenantID(ctx context.Context, db *gorm.DB, tenantID snowflake.ID) (*Subscription, error)
	// Upsert writes the subscription keyed on tenant_id: insert when the
	// tenant has none, overwrite plan/status/dates when it does.
	Upsert(ctx context.Context, db *gorm.DB, sub *Subscription) error
}
