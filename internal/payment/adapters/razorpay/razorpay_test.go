package razorpay

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tablewiselabs/tablewise/internal/config"
	"github.com/tablewiselabs/tablewise/internal/money"
	"github.com/tablewiselabs/tablewise/internal/observability"
	"github.com/tablewiselabs/tablewise/internal/payment/domain"
	"go.uber.org/zap"
)

func newTestAdapter(baseURL string) domain.GatewayAdapter {
	cfg := config.Config{Gateway: config.GatewayConfig{
		BaseURL:   baseURL,
		KeyID:     "rzp_test_key",
		KeySecret: "rzp_test_secret",
		Timeout:   5 * time.Second,
	}}
	return New(cfg, zap.NewNop(), observability.NewMetrics())
}

func TestCreateOrder(t *testing.T) {
	var gotPath, gotAuthUser string
	var gotBody map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuthUser, _, _ = r.BasicAuth()
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		assert.NotEmpty(t, r.Header.Get("X-Request-ID"))
		json.NewEncoder(w).Encode(map[string]any{
			"id":       "order_abc123",
			"amount":   79533,
			"currency": "INR",
			"receipt":  gotBody["receipt"],
			"status":   "created",
			"notes":    gotBody["notes"],
		})
	}))
	defer srv.Close()

	out, err := newTestAdapter(srv.URL).CreateOrder(context.Background(), domain.CreateGatewayOrderInput{
		Amount:   money.FromMinor(79533),
		Currency: "INR",
		Receipt:  "rcpt-spice-ga-deadbeef0123",
		Notes:    map[string]string{"target": "order", "order_id": "17"},
	})
	require.NoError(t, err)
	assert.Equal(t, "order_abc123", out.ID)
	assert.Equal(t, money.FromMinor(79533), out.Amount)
	assert.Equal(t, "created", out.Status)
	assert.Equal(t, "order", out.Notes["target"])

	assert.Equal(t, "/orders", gotPath)
	assert.Equal(t, "rzp_test_key", gotAuthUser)
	// Amounts cross the wire in minor units.
	assert.Equal(t, float64(79533), gotBody["amount"])
}

func TestCreateOrderValidation(t *testing.T) {
	// Validation failures never reach the network.
	a := newTestAdapter("http://gateway.invalid")

	_, err := a.CreateOrder(context.Background(), domain.CreateGatewayOrderInput{
		Amount: money.FromMinor(0),
	})
	assert.ErrorIs(t, err, domain.ErrGatewayRejected)

	_, err = a.CreateOrder(context.Background(), domain.CreateGatewayOrderInput{
		Amount:  money.FromMinor(100),
		Receipt: strings.Repeat("x", 41),
	})
	assert.ErrorIs(t, err, domain.ErrGatewayRejected)
}

func TestFetchOrder(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/orders/order_abc123", r.URL.Path)
		json.NewEncoder(w).Encode(map[string]any{
			"id":     "order_abc123",
			"amount": 199900,
			"status": "paid",
			"notes":  map[string]string{"billing_cycle": "monthly"},
		})
	}))
	defer srv.Close()

	out, err := newTestAdapter(srv.URL).FetchOrder(context.Background(), "order_abc123")
	require.NoError(t, err)
	assert.Equal(t, "paid", out.Status)
	assert.Equal(t, "monthly", out.Notes["billing_cycle"])
}

func TestGatewayErrorMapping(t *testing.T) {
	tests := []struct {
		name   string
		status int
		want   error
	}{
		{"server error is unavailable", http.StatusInternalServerError, domain.ErrGatewayUnavailable},
		{"bad gateway is unavailable", http.StatusBadGateway, domain.ErrGatewayUnavailable},
		{"bad request is rejected", http.StatusBadRequest, domain.ErrGatewayRejected},
		{"unauthorized is rejected", http.StatusUnauthorized, domain.ErrGatewayRejected},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
			}))
			defer srv.Close()

			_, err := newTestAdapter(srv.URL).FetchOrder(context.Background(), "order_x")
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestNetworkFailureIsUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	_, err := newTestAdapter(srv.URL).FetchOrder(context.Background(), "order_x")
	assert.ErrorIs(t, err, domain.ErrGatewayUnavailable)
}

func TestMalformedResponseIsUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not json"))
	}))
	defer srv.Close()

	_, err := newTestAdapter(srv.URL).FetchOrder(context.Background(), "order_x")
	assert.ErrorIs(t, err, domain.ErrGatewayUnavailable)
}

func TestDeriveReceipt(t *testing.T) {
	r1 := domain.DeriveReceipt("spice-garden", "ORD-20260901-0001")
	r2 := domain.DeriveReceipt("spice-garden", "ORD-20260901-0001")
	assert.Equal(t, r1, r2)
	assert.LessOrEqual(t, len(r1), 40)
	assert.True(t, strings.HasPrefix(r1, "rcpt-spice-ga"))

	// Tenants sharing a truncated slug prefix still get distinct receipts.
	other := domain.DeriveReceipt("spice-gardens-two", "ORD-20260901-0001")
	assert.NotEqual(t, r1, other)

	long := domain.DeriveReceipt(strings.Repeat("a", 100), "ORD-20260901-9999")
	assert.LessOrEqual(t, len(long), 40)
}
