package checkout

import (
	"fmt"

	"github.com/pawmart/cart-service/internal/cart"
	"github.com/pawmart/cart-service/internal/order"
)

// ShippingInfo is forwarded to order submission untouched; the cart
// core never interprets it.
type ShippingInfo struct {
	FullName      string `json:"full_name"`
	Email         string `json:"email"`
	Phone         string `json:"phone"`
	Address       string `json:"address"`
	City          string `json:"city"`
	Region        string `json:"region"`
	PostalCode    string `json:"postal_code"`
	PaymentMethod string `json:"payment_method"`
	Country       string `json:"country"`
}

type OutcomeKind string

const (
	OutcomeOrderCreated    OutcomeKind = "ORDER_CREATED"
	OutcomeStockShort      OutcomeKind = "STOCK_INSUFFICIENT"
	OutcomePaymentRejected OutcomeKind = "PAYMENT_REJECTED"
	OutcomeConnectionError OutcomeKind = "CONNECTION_ERROR"
	OutcomeEmptyCart       OutcomeKind = "EMPTY_CART"
)

func (k OutcomeKind) String() string {
	return string(k)
}

// Outcome is the single terminal result of one checkout run. Exactly
// one of the payload fields is set, matching Kind. Every kind except
// OutcomeOrderCreated is retryable by re-invoking Checkout from
// scratch; shortfall data is never reused across runs.
type Outcome struct {
	Kind       OutcomeKind      `json:"kind"`
	Order      *order.Order     `json:"order,omitempty"`
	Shortfalls []cart.Shortfall `json:"shortfalls,omitempty"`
	Reason     string           `json:"reason,omitempty"`
}

// PaymentError is a classified payment failure from order submission.
// Anything not wrapped in a PaymentError classifies as a connection
// error.
type PaymentError struct {
	Reason string
}

func (e *PaymentError) Error() string {
	return fmt.Sprintf("payment rejected: %s", e.Reason)
}
