package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/tablewiselabs/tablewise/internal/money"
)

// LineInput is one validated cart line entering pricing.
type LineInput struct {
	ProductID snowflake.ID
	VariantID *snowflake.ID
	Name      string
	Quantity  int64
	UnitPrice money.Amount
}

// Totals is the pricing engine output. Total always equals
// Subtotal + Tax - Discount in minor units.
type Totals struct {
	Subtotal money.Amount
	Tax      money.Amount
	Discount money.Amount
	Total    money.Amount
}

type CreateOrderInput struct {
	TenantID     snowflake.ID
	Lines        []LineInput
	TaxRateBps   int64
	Discount     money.Amount
	TableID      *snowflake.ID
	CustomerID   *snowflake.ID
	CustomerName string
}

type Service interface {
	Create(ctx context.Context, input CreateOrderInput) (*Order, error)
	Get(ctx context.Context, tenantID, orderID snowflake.ID) (*Order, error)
	Transition(ctx context.Context, tenantID, orderID snowflake.ID, next OrderStatus) (*Order, error)
}

// NumberAllocator mints the next order number for a (tenant, day) pair.
// Implementations must be linearizable across concurrent callers.
type NumberAllocator interface {
	Allocate(ctx context.Context, tenantID snowflake.ID, day string) (string, error)
}
