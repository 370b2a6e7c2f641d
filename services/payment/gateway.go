package payment

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"venuebook/models"

	"go.uber.org/zap"
)

// Gateway status codes as returned by the status-query endpoint.
const (
	StatusComplete   = "COMPLETE"
	StatusPending    = "PENDING"
	StatusCanceled   = "CANCELED"
	StatusFullRefund = "FULL_REFUND"
	StatusNotFound   = "NOT_FOUND"
	StatusAmbiguous  = "AMBIGUOUS"
)

// ErrUnavailable marks transport or parse failures talking to the gateway.
// Callers must never read it as a confirmed payment failure.
var ErrUnavailable = errors.New("payment gateway unavailable")

// StatusResult is the gateway's answer for one transaction.
type StatusResult struct {
	Status string `json:"status"`
	RefID  string `json:"ref_id"`
}

// Definitive reports whether the status settles the transaction one way or
// the other; anything else leaves it open for a later retry.
func (r *StatusResult) Definitive() bool {
	switch r.Status {
	case StatusComplete, StatusCanceled, StatusFullRefund, StatusNotFound:
		return true
	}
	return false
}

// Gateway is the external payment processor's status-query endpoint. It is
// the source of truth for whether money moved, and is idempotently queryable.
type Gateway interface {
	CheckStatus(ctx context.Context, transactionRef string, amount models.Money) (*StatusResult, error)
}

// HTTPGateway queries the gateway over HTTPS with a bounded timeout.
type HTTPGateway struct {
	baseURL     string
	productCode string
	client      *http.Client
	logger      *zap.Logger
}

// NewHTTPGateway constructs a gateway client. timeout bounds the whole
// status-check round trip; an expired deadline surfaces as ErrUnavailable.
func NewHTTPGateway(baseURL, productCode string, timeout time.Duration, logger *zap.Logger) *HTTPGateway {
	return &HTTPGateway{
		baseURL:     baseURL,
		productCode: productCode,
		client:      &http.Client{Timeout: timeout},
		logger:      logger,
	}
}

func (g *HTTPGateway) CheckStatus(ctx context.Context, transactionRef string, amount models.Money) (*StatusResult, error) {
	q := url.Values{}
	q.Set("product_code", g.productCode)
	q.Set("total_amount", amount.String())
	q.Set("transaction_uuid", transactionRef)

	endpoint := g.baseURL + "/api/transaction/status/?" + q.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: building status request: %v", ErrUnavailable, err)
	}

	resp, err := g.client.Do(req)
	if err != nil {
		g.logger.Warn("gateway status request failed",
			zap.String("transaction", transactionRef), zap.Error(err))
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		g.logger.Warn("gateway returned non-OK status",
			zap.String("transaction", transactionRef), zap.Int("code", resp.StatusCode))
		return nil, fmt.Errorf("%w: gateway responded %d", ErrUnavailable, resp.StatusCode)
	}

	var result StatusResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("%w: decoding status response: %v", ErrUnavailable, err)
	}
	if result.Status == "" {
		return nil, fmt.Errorf("%w: empty status in gateway response", ErrUnavailable)
	}
	return &result, nil
}
