// Package verify authenticates inbound payment callbacks.
package verify

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"

	"github.com/tablewiselabs/tablewise/internal/payment/domain"
)

// Callback recomputes the gateway's HMAC-SHA256 over
// "<gatewayOrderID>|<gatewayPaymentID>" and compares it to the supplied
// signature in constant time. It holds no state and mutates nothing, so it
// is safe to call concurrently and to retry.
func Callback(cb domain.Callback, sharedSecret string) error {
	if cb.GatewayOrderID == "" || cb.GatewayPaymentID == "" || cb.Signature == "" {
		return domain.ErrInvalidCallback
	}

	mac := hmac.New(sha256.New, []byte(sharedSecret))
	mac.Write([]byte(cb.GatewayOrderID + "|" + cb.GatewayPaymentID))
	expected := hex.EncodeToString(mac.Sum(nil))

	if !hmac.Equal([]byte(expected), []byte(cb.Signature)) {
		return domain.ErrSignatureMismatch
	}
	return nil
}
