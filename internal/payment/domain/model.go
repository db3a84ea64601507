package domain

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/tablewiselabs/tablewise/internal/money"
	plandomain "github.com/tablewiselabs/tablewise/internal/plan/domain"
	"gorm.io/gorm"
)

var (
	ErrGatewayUnavailable = errors.New("payment gateway unavailable")
	ErrGatewayRejected    = errors.New("payment gateway rejected request")
	ErrSignatureMismatch  = errors.New("payment signature mismatch")
	ErrSettlementFailed   = errors.New("settlement failed")
	ErrInvalidCallback    = errors.New("invalid payment callback")
	ErrRecordNotFound     = errors.New("payment record not found")
	ErrNothingToRefund    = errors.New("no completed payment to refund")
)

type PaymentMethod string

const (
	MethodCash   PaymentMethod = "cash"
	MethodCard   PaymentMethod = "card"
	MethodUPI    PaymentMethod = "upi"
	MethodWallet PaymentMethod = "wallet"
)

type RecordStatus string

const (
	RecordStatusPending   RecordStatus = "pending"
	RecordStatusCompleted RecordStatus = "completed"
	RecordStatusFailed    RecordStatus = "failed"
	RecordStatusRefunded  RecordStatus = "refunded"
)

// PaymentRecord is an append-only audit row. Settlement inserts exactly one
// completed record per gateway payment id; a refund appends a refunded
// record referencing the original instead of mutating it.
type PaymentRecord struct {
	ID               string        `json:"id" gorm:"type:varchar(26);primaryKey"`
	TenantID         snowflake.ID  `json:"tenant_id" gorm:"not null;index"`
	OrderID          *snowflake.ID `json:"order_id" gorm:"type:bigint;index"`
	Amount           money.Amount  `json:"amount" gorm:"not null"`
	Method           PaymentMethod `json:"method" gorm:"type:varchar(16);not null"`
	Status           RecordStatus  `json:"status" gorm:"type:varchar(16);not null"`
	GatewayOrderID   string        `json:"gateway_order_id" gorm:"type:varchar(64);index"`
	GatewayPaymentID string        `json:"gateway_payment_id" gorm:"type:varchar(64);uniqueIndex:idx_gateway_payment,where:gateway_payment_id <> ''"`
	RefundOfID       *string       `json:"refund_of_id" gorm:"type:varchar(26)"`
	CreatedAt        time.Time     `json:"created_at" gorm:"not null"`
}

func (PaymentRecord) TableName() string { return "payment_records" }

// GatewayOrder mirrors the payment provider's order object. It is never
// persisted beyond the id reference; Notes carries settlement routing
// metadata back through the callback.
type GatewayOrder struct {
	ID       string
	Amount   money.Amount
	Currency string
	Receipt  string
	Status   string
	Notes    map[string]string
}

// Callback is the signed payload the gateway redirects back with.
type Callback struct {
	GatewayOrderID   string
	GatewayPaymentID string
	Signature        string
}

// CustomerOrderSettlement settles a dine-in/takeaway order.
type CustomerOrderSettlement struct {
	TenantID snowflake.ID
	OrderID  snowflake.ID
	Method   PaymentMethod
	Callback Callback
}

// PlanPurchaseSettlement activates a tenant's plan subscription. PlanID and
// Cycle may be zero-valued, in which case they are recovered from the
// gateway order's notes.
type PlanPurchaseSettlement struct {
	TenantID snowflake.ID
	PlanID   snowflake.ID
	Cycle    plandomain.BillingCycle
	Callback Callback
}

type RecordRepository interface {
	Insert(ctx context.Context, db *gorm.DB, record *PaymentRecord) error
	FindByGatewayPaymentID(ctx context.Context, db *gorm.DB, gatewayPaymentID string) (*PaymentRecord, error)
	FindCompletedByOrderID(ctx context.Context, db *gorm.DB, orderID snowflake.ID) (*PaymentRecord, error)
	ListByOrderID(ctx context.Context, db *gorm.DB, orderID snowflake.ID) ([]PaymentRecord, error)
}
