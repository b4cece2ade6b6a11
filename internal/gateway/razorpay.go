package gateway

import (
	"clinigoal/backend/internal/config"
	"context"
	"errors"
	"fmt"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog/log"
)

// razorpayGateway implements PaymentGateway against the Razorpay orders API.
type razorpayGateway struct {
	client *resty.Client
}

type razorpayOrderResponse struct {
	ID       string `json:"id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Receipt  string `json:"receipt"`
	Status   string `json:"status"`
}

type razorpayErrorResponse struct {
	Error struct {
		Code        string `json:"code"`
		Description string `json:"description"`
	} `json:"error"`
}

// disabledGateway rejects order creation when no credentials are configured.
// Mirrors the offline mailer: the server still boots, the payment endpoints
// report the missing integration.
type disabledGateway struct{}

func (disabledGateway) CreateOrder(context.Context, int64, string, string) (string, error) {
	return "", errors.New("payment gateway is not configured")
}

// NewRazorpayGateway creates a Razorpay-backed PaymentGateway.
func NewRazorpayGateway(cfg config.RazorpayConfig) (PaymentGateway, error) {
	if cfg.KeyID == "" || cfg.KeySecret == "" {
		log.Warn().Msg("razorpay credentials not configured, order creation disabled")
		return disabledGateway{}, nil
	}

	client := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetBasicAuth(cfg.KeyID, cfg.KeySecret).
		SetHeader("Content-Type", "application/json")

	return &razorpayGateway{client: client}, nil
}

// CreateOrder registers an order with Razorpay. Razorpay takes amounts in the
// minor unit (paise), so the rupee amount is multiplied by 100.
func (g *razorpayGateway) CreateOrder(ctx context.Context, amount int64, currency, receipt string) (string, error) {
	if amount <= 0 {
		return "", errors.New("order amount must be positive")
	}
	if currency == "" {
		currency = "INR"
	}

	var order razorpayOrderResponse
	var apiErr razorpayErrorResponse

	resp, err := g.client.R().
		SetContext(ctx).
		SetBody(map[string]interface{}{
			"amount":   amount * 100,
			"currency": currency,
			"receipt":  receipt,
		}).
		SetResult(&order).
		SetError(&apiErr).
		Post("/v1/orders")
	if err != nil {
		log.Error().Err(err).Msg("razorpay order request failed")
		return "", err
	}
	if resp.IsError() {
		log.Error().Int("status", resp.StatusCode()).Str("code", apiErr.Error.Code).Str("description", apiErr.Error.Description).Msg("razorpay rejected order")
		return "", fmt.Errorf("razorpay order failed: %s", apiErr.Error.Description)
	}

	log.Info().Str("orderId", order.ID).Int64("amount", order.Amount).Msg("razorpay order created")
	return order.ID, nil
}
