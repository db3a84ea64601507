package domain

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"github.com/tablewiselabs/tablewise/internal/money"
)

// GatewayAdapter is the boundary to the external payment provider. It is
// injected everywhere it is needed; there is no package-level client.
type GatewayAdapter interface {
	CreateOrder(ctx context.Context, input CreateGatewayOrderInput) (*GatewayOrder, error)
	FetchOrder(ctx context.Context, gatewayOrderID string) (*GatewayOrder, error)
}

type CreateGatewayOrderInput struct {
	Amount   money.Amount
	Currency string
	Receipt  string
	Notes    map[string]string
}

// gateway receipt hard ceiling
const maxReceiptLen = 40

// DeriveReceipt builds a deterministic gateway receipt from the tenant slug
// and order number. A naive truncation of slug+number could collide across
// tenants sharing a suffix, so the hash of the full pair is always part of
// the receipt.
func DeriveReceipt(tenantSlug, orderNumber string) string {
	sum := sha256.Sum256([]byte(tenantSlug + "/" + orderNumber))
	digest := hex.EncodeToString(sum[:])[:12]

	prefix := tenantSlug
	if len(prefix) > 8 {
		prefix = prefix[:8]
	}
	receipt := fmt.Sprintf("rcpt-%s-%s", prefix, digest)
	if len(receipt) > maxReceiptLen {
		receipt = receipt[:maxReceiptLen]
	}
	return receipt
}
