package checkout

import (
	"context"

	"github.com/pawmart/cart-service/internal/cart"
	"github.com/pawmart/cart-service/internal/order"
)

// StockQuery is one (product, quantity) pair submitted for remote
// stock verification.
type StockQuery struct {
	ProductID int64 `json:"product_id"`
	Quantity  int   `json:"quantity"`
}

// StockResult is the backend's verdict. Shortfalls is non-empty iff
// Available is false.
type StockResult struct {
	Available  bool             `json:"available"`
	Shortfalls []cart.Shortfall `json:"shortfalls,omitempty"`
}

// StockChecker verifies cart contents against authoritative stock.
type StockChecker interface {
	Check(ctx context.Context, items []StockQuery) (StockResult, error)
}

// OrderItem is one line of an order submission, at the unit price
// captured when the product was added to the cart.
type OrderItem struct {
	ProductID int64   `json:"product_id"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unit_price"`
}

// OrderRequest is the full order submission payload.
type OrderRequest struct {
	UserID   string       `json:"user_id,omitempty"`
	Guest    bool         `json:"guest"`
	Shipping ShippingInfo `json:"shipping"`
	Items    []OrderItem  `json:"items"`
	Subtotal float64      `json:"subtotal"`
	Total    float64      `json:"total"`
}

// OrderPlacer submits an order. A classified payment failure is
// returned as *PaymentError; any other error counts as a connection
// failure.
type OrderPlacer interface {
	Place(ctx context.Context, req OrderRequest) (order.Order, error)
}
