// Package gateway talks to the external payment provider.
package gateway

import "context"

// PaymentGateway creates provider-side orders. Amount is in whole currency
// units; the implementation converts to the provider's minor unit.
type PaymentGateway interface {
	CreateOrder(ctx context.Context, amount int64, currency, receipt string) (orderID string, err error)
}
