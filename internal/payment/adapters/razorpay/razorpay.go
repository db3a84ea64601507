// Package razorpay implements the payment gateway adapter against the
// Razorpay Orders API.
package razorpay

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/google/uuid"
	"github.com/tablewiselabs/tablewise/internal/config"
	"github.com/tablewiselabs/tablewise/internal/money"
	"github.com/tablewiselabs/tablewise/internal/observability"
	"github.com/tablewiselabs/tablewise/internal/payment/domain"
	"go.uber.org/zap"
)

type Adapter struct {
	baseURL   string
	keyID     string
	keySecret string
	client    *http.Client
	log       *zap.Logger
	metrics   *observability.Metrics
}

func New(cfg config.Config, log *zap.Logger, metrics *observability.Metrics) domain.GatewayAdapter {
	return &Adapter{
		baseURL:   cfg.Gateway.BaseURL,
		keyID:     cfg.Gateway.KeyID,
		keySecret: cfg.Gateway.KeySecret,
		client:    &http.Client{Timeout: cfg.Gateway.Timeout},
		log:       log.Named("payment.gateway"),
		metrics:   metrics,
	}
}

type orderPayload struct {
	Amount   int64             `json:"amount"`
	Currency string            `json:"currency"`
	Receipt  string            `json:"receipt,omitempty"`
	Notes    map[string]string `json:"notes,omitempty"`
}

type orderResponse struct {
	ID       string            `json:"id"`
	Amount   int64             `json:"amount"`
	Currency string            `json:"currency"`
	Receipt  string            `json:"receipt"`
	Status   string            `json:"status"`
	Notes    map[string]string `json:"notes"`
}

func (a *Adapter) CreateOrder(ctx context.Context, input domain.CreateGatewayOrderInput) (*domain.GatewayOrder, error) {
	if input.Amount <= 0 {
		return nil, fmt.Errorf("%w: non-positive amount", domain.ErrGatewayRejected)
	}
	if len(input.Receipt) > 40 {
		return nil, fmt.Errorf("%w: receipt exceeds 40 chars", domain.ErrGatewayRejected)
	}

	body, err := json.Marshal(orderPayload{
		Amount:   input.Amount.Minor(),
		Currency: input.Currency,
		Receipt:  input.Receipt,
		Notes:    input.Notes,
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.baseURL+"/orders", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	out, err := a.do(req, "create_order")
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (a *Adapter) FetchOrder(ctx context.Context, gatewayOrderID string) (*domain.GatewayOrder, error) {
	if gatewayOrderID == "" {
		return nil, fmt.Errorf("%w: empty gateway order id", domain.ErrGatewayRejected)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.baseURL+"/orders/"+gatewayOrderID, nil)
	if err != nil {
		return nil, err
	}
	return a.do(req, "fetch_order")
}

func (a *Adapter) do(req *http.Request, operation string) (*domain.GatewayOrder, error) {
	req.SetBasicAuth(a.keyID, a.keySecret)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())

	resp, err := a.client.Do(req)
	if err != nil {
		a.metrics.GatewayCallsTotal.WithLabelValues(operation, "unavailable").Inc()
		return nil, fmt.Errorf("%w: %v", domain.ErrGatewayUnavailable, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		a.metrics.GatewayCallsTotal.WithLabelValues(operation, "unavailable").Inc()
		return nil, fmt.Errorf("%w: %v", domain.ErrGatewayUnavailable, err)
	}

	switch {
	case resp.StatusCode >= 500:
		a.metrics.GatewayCallsTotal.WithLabelValues(operation, "unavailable").Inc()
		a.log.Warn("gateway server error",
			zap.String("operation", operation),
			zap.Int("status", resp.StatusCode))
		return nil, fmt.Errorf("%w: status %d", domain.ErrGatewayUnavailable, resp.StatusCode)
	case resp.StatusCode >= 400:
		a.metrics.GatewayCallsTotal.WithLabelValues(operation, "rejected").Inc()
		a.log.Warn("gateway rejected request",
			zap.String("operation", operation),
			zap.Int("status", resp.StatusCode))
		return nil, fmt.Errorf("%w: status %d", domain.ErrGatewayRejected, resp.StatusCode)
	}

	var out orderResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		a.metrics.GatewayCallsTotal.WithLabelValues(operation, "unavailable").Inc()
		return nil, fmt.Errorf("%w: malformed response: %v", domain.ErrGatewayUnavailable, err)
	}

	a.metrics.GatewayCallsTotal.WithLabelValues(operation, "ok").Inc()
	return &domain.GatewayOrder{
		ID:       out.ID,
		Amount:   money.FromMinor(out.Amount),
		Currency: out.Currency,
		Receipt:  out.Receipt,
		Status:   out.Status,
		Notes:    out.Notes,
	}, nil
}
