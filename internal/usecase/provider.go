package usecase

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"book-your-show/pkg/utils"
)

// PayerInfo carries the buyer's payment details through to the provider.
// The engine never stores these.
type PayerInfo struct {
	CardNumber  string `json:"card_number"`
	ExpiryDate  string `json:"expiry_date"`
	CVV         string `json:"cvv"`
	PhoneNumber string `json:"phone_number"`
}

type ProviderIntentRequest struct {
	ReservationID string    `json:"reservation_id"`
	Amount        float64   `json:"amount"`
	Payer         PayerInfo `json:"payer"`
}

type ProviderIntent struct {
	Reference string `json:"reference"`
}

// PaymentProvider opens payment intents with the external provider. The
// provider reports the outcome asynchronously via the callback webhook.
type PaymentProvider interface {
	CreateIntent(ctx context.Context, req ProviderIntentRequest) (*ProviderIntent, error)
}

type httpProvider struct {
	baseURL string
	client  *http.Client
	log     *zap.Logger
}

func NewHTTPProvider(config utils.ProviderConfig, log *zap.Logger) PaymentProvider {
	return &httpProvider{
		baseURL: config.BaseURL,
		client:  &http.Client{Timeout: time.Duration(config.TimeoutSec) * time.Second},
		log:     log.With(zap.String("component", "payment_provider")),
	}
}

func (p *httpProvider) CreateIntent(ctx context.Context, req ProviderIntentRequest) (*ProviderIntent, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("encode intent request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/intents", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build intent request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(httpReq)
	if err != nil {
		p.log.Error("Provider request failed", zap.Error(err))
		return nil, fmt.Errorf("%w: %v", ErrPaymentProvider, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		p.log.Error("Provider rejected intent", zap.Int("status", resp.StatusCode))
		return nil, fmt.Errorf("%w: provider returned status %d", ErrPaymentProvider, resp.StatusCode)
	}

	var intent ProviderIntent
	if err := json.NewDecoder(resp.Body).Decode(&intent); err != nil {
		return nil, fmt.Errorf("%w: decode intent response: %v", ErrPaymentProvider, err)
	}
	if intent.Reference == "" {
		return nil, fmt.Errorf("%w: empty intent reference", ErrPaymentProvider)
	}

	return &intent, nil
}
