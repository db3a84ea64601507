package verify

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tablewiselabs/tablewise/internal/payment/domain"
)

func sign(orderID, paymentID, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(orderID + "|" + paymentID))
	return hex.EncodeToString(mac.Sum(nil))
}

func TestCallbackValid(t *testing.T) {
	cb := domain.Callback{
		GatewayOrderID:   "order_N5lmAg8q1rQy3B",
		GatewayPaymentID: "pay_N5lmZr2tXwUv7K",
	}
	cb.Signature = sign(cb.GatewayOrderID, cb.GatewayPaymentID, "shhh")
	assert.NoError(t, Callback(cb, "shhh"))
}

func TestCallbackTamperedSignature(t *testing.T) {
	cb := domain.Callback{
		GatewayOrderID:   "order_N5lmAg8q1rQy3B",
		GatewayPaymentID: "pay_N5lmZr2tXwUv7K",
	}
	good := sign(cb.GatewayOrderID, cb.GatewayPaymentID, "shhh")

	// Flip one bit in the hex signature.
	raw, err := hex.DecodeString(good)
	require.NoError(t, err)
	raw[0] ^= 0x01
	cb.Signature = hex.EncodeToString(raw)

	assert.ErrorIs(t, Callback(cb, "shhh"), domain.ErrSignatureMismatch)
}

func TestCallbackWrongSecret(t *testing.T) {
	cb := domain.Callback{
		GatewayOrderID:   "order_a",
		GatewayPaymentID: "pay_b",
	}
	cb.Signature = sign(cb.GatewayOrderID, cb.GatewayPaymentID, "other")
	assert.ErrorIs(t, Callback(cb, "shhh"), domain.ErrSignatureMismatch)
}

func TestCallbackSwappedIDsRejected(t *testing.T) {
	sig := sign("order_a", "pay_b", "shhh")
	cb := domain.Callback{
		GatewayOrderID:   "pay_b",
		GatewayPaymentID: "order_a",
		Signature:        sig,
	}
	assert.ErrorIs(t, Callback(cb, "shhh"), domain.ErrSignatureMismatch)
}

func TestCallbackMissingFields(t *testing.T) {
	assert.ErrorIs(t, Callback(domain.Callback{}, "shhh"), domain.ErrInvalidCallback)
	assert.ErrorIs(t, Callback(domain.Callback{
		GatewayOrderID:   "order_a",
		GatewayPaymentID: "pay_b",
	}, "shhh"), domain.ErrInvalidCallback)
}

func TestCallbackRepeatable(t *testing.T) {
	cb := domain.Callback{
		GatewayOrderID:   "order_a",
		GatewayPaymentID: "pay_b",
	}
	cb.Signature = sign(cb.GatewayOrderID, cb.GatewayPaymentID, "shhh")
	for i := 0; i < 10; i++ {
		assert.NoError(t, Callback(cb, "shhh"))
	}
}
