package domain

import (
	"errors"
	"fmt"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/tablewiselabs/tablewise/internal/money"
	"gorm.io/datatypes"
)

var (
	ErrInvalidOrder        = errors.New("invalid order")
	ErrOrderNotFound       = errors.New("order not found")
	ErrAllocationExhausted = errors.New("order number allocation exhausted")
	ErrInvalidTransition   = errors.New("invalid order status transition")
	ErrOrderAlreadySettled = errors.New("order already settled")
	ErrOrderNotSettled     = errors.New("order payment not completed")
)

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusPreparing OrderStatus = "preparing"
	OrderStatusReady     OrderStatus = "ready"
	OrderStatusServed    OrderStatus = "served"
	OrderStatusCompleted OrderStatus = "completed"
	OrderStatusCancelled OrderStatus = "cancelled"
)

type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusCompleted PaymentStatus = "completed"
	PaymentStatusFailed    PaymentStatus = "failed"
	PaymentStatusRefunded  PaymentStatus = "refunded"
)

// Order is one billable transaction. Totals are computed once at creation
// and never re-derived; Total == Subtotal + Tax - Discount holds exactly in
// minor units. Cancellation is a status change, orders referenced by
// payment history are never deleted.
type Order struct {
	ID             snowflake.ID      `json:"id" gorm:"primaryKey;autoIncrement:false"`
	TenantID       snowflake.ID      `json:"tenant_id" gorm:"not null;index;uniqueIndex:idx_tenant_day_number,priority:1"`
	OrderDay       string            `json:"order_day" gorm:"type:varchar(8);not null;uniqueIndex:idx_tenant_day_number,priority:2"`
	OrderNumber    string            `json:"order_number" gorm:"type:varchar(32);not null;uniqueIndex:idx_tenant_day_number,priority:3"`
	Status         OrderStatus       `json:"status" gorm:"type:varchar(20);not null"`
	PaymentStatus  PaymentStatus     `json:"payment_status" gorm:"type:varchar(20);not null"`
	Subtotal       money.Amount      `json:"subtotal" gorm:"not null"`
	TaxRateBps     int64             `json:"tax_rate_bps" gorm:"not null"`
	TaxAmount      money.Amount      `json:"tax_amount" gorm:"not null"`
	DiscountAmount money.Amount      `json:"discount_amount" gorm:"not null"`
	TotalAmount    money.Amount      `json:"total_amount" gorm:"not null"`
	TableID        *snowflake.ID     `json:"table_id" gorm:"type:bigint"`
	CustomerID     *snowflake.ID     `json:"customer_id" gorm:"type:bigint"`
	CustomerName   string            `json:"customer_name" gorm:"type:varchar(255)"`
	Metadata       datatypes.JSONMap `json:"metadata" gorm:"type:jsonb"`
	Lines          []OrderLine       `json:"lines" gorm:"foreignKey:OrderID"`
	CreatedAt      time.Time         `json:"created_at" gorm:"not null"`
	UpdatedAt      time.Time         `json:"updated_at" gorm:"not null"`
}

func (Order) TableName() string { return "orders" }

// OrderLine is owned by exactly one order. UnitPrice already includes any
// variant price adjustment.
type OrderLine struct {
	ID           snowflake.ID  `json:"id" gorm:"primaryKey;autoIncrement:false"`
	OrderID      snowflake.ID  `json:"order_id" gorm:"not null;index"`
	ProductID    snowflake.ID  `json:"product_id" gorm:"not null"`
	VariantID    *snowflake.ID `json:"variant_id" gorm:"type:bigint"`
	Name         string        `json:"name" gorm:"type:varchar(255);not null"`
	Quantity     int64         `json:"quantity" gorm:"not null"`
	UnitPrice    money.Amount  `json:"unit_price" gorm:"not null"`
	LineSubtotal money.Amount  `json:"line_subtotal" gorm:"not null"`
}

func (OrderLine) TableName() string { return "order_lines" }

// OrderCounter backs the store-based order number allocator: one row per
// (tenant, day), bumped with a single atomic increment.
type OrderCounter struct {
	TenantID snowflake.ID `gorm:"primaryKey;autoIncrement:false"`
	Day      string       `gorm:"primaryKey;type:varchar(8)"`
	Seq      int64        `gorm:"not null"`
}

func (OrderCounter) TableName() string { return "order_counters" }

var legalTransitions = map[OrderStatus][]OrderStatus{
	OrderStatusPending:   {OrderStatusPreparing, OrderStatusCancelled},
	OrderStatusPreparing: {OrderStatusReady, OrderStatusCancelled},
	OrderStatusReady:     {OrderStatusServed, OrderStatusCancelled},
	OrderStatusServed:    {OrderStatusCompleted, OrderStatusCancelled},
	OrderStatusCompleted: {},
	OrderStatusCancelled: {},
}

// CanTransition reports whether moving the order from its current status
// to next is a legal edge. Cancelling a paid order requires a refund
// first, so the money trail never contradicts the order state.
func (o *Order) CanTransition(next OrderStatus) error {
	if next == OrderStatusCancelled &&
		o.PaymentStatus == PaymentStatusCompleted {
		return fmt.Errorf("%w: refund required before cancelling a paid order", ErrInvalidTransition)
	}
	for _, allowed := range legalTransitions[o.Status] {
		if allowed == next {
			return nil
		}
	}
	return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, o.Status, next)
}

// DayKey formats a calendar date as the YYYYMMDD key used by order
// numbering and the counter table.
func DayKey(t time.Time) string {
	return t.UTC().Format("20060102")
}
