package domain

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/tablewiselabs/tablewise/internal/money"
	"gorm.io/gorm"
)

var (
	// ErrPlanNotFound is returned for any plan id that does not resolve
	// exactly. There is deliberately no fuzzy name fallback: activating
	// the wrong plan is worse than failing the purchase.
	ErrPlanNotFound = errors.New("plan not found")
	ErrInvalidCycle = errors.New("invalid billing cycle")
)

type BillingCycle string

const (
	BillingCycleMonthly BillingCycle = "monthly"
	BillingCycleYearly  BillingCycle = "yearly"
)

func ParseBillingCycle(s string) (BillingCycle, error) {
	switch BillingCycle(s) {
	case BillingCycleMonthly:
		return BillingCycleMonthly, nil
	case BillingCycleYearly:
		return BillingCycleYearly, nil
	}
	return "", ErrInvalidCycle
}

type Plan struct {
	ID           snowflake.ID `json:"id" gorm:"primaryKey;autoIncrement:false"`
	Code         string       `json:"code" gorm:"type:varchar(64);not null;uniqueIndex"`
	Name         string       `json:"name" gorm:"type:varchar(255);not null"`
	MonthlyPrice money.Amount `json:"monthly_price" gorm:"not null"`
	YearlyPrice  money.Amount `json:"yearly_price" gorm:"not null"`
	IsActive     bool         `json:"is_active" gorm:"default:true"`
	CreatedAt    time.Time    `json:"created_at" gorm:"not null"`
	UpdatedAt    time.Time    `json:"updated_at" gorm:"not null"`
}

func (Plan) TableName() string { return "plans" }

// PriceFor returns the plan price for a billing cycle.
func (p *Plan) PriceFor(cycle BillingCycle) (money.Amount, error) {
	switch cycle {
	case BillingCycleMonthly:
		return p.MonthlyPrice, nil
	case BillingCycleYearly:
		return p.YearlyPrice, nil
	}
	return 0, ErrInvalidCycle
}

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, plan *Plan) error
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Plan, error)
	ListActive(ctx context.Context, db *gorm.DB) ([]Plan, error)
}
