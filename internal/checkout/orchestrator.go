package checkout

import (
	"context"
	"errors"

	"github.com/rs/zerolog/log"

	"github.com/pawmart/cart-service/internal/cart"
	"github.com/pawmart/cart-service/internal/session"
)

// Orchestrator runs the checkout pipeline: stock verification, then
// order submission, classifying every failure into one retryable
// outcome. It works on a cart snapshot passed by value and never
// mutates cart state — clearing after a created order is the caller's
// explicit step, so cart and order stay separately verifiable.
type Orchestrator struct {
	stock  StockChecker
	orders OrderPlacer
}

func NewOrchestrator(stock StockChecker, orders OrderPlacer) *Orchestrator {
	return &Orchestrator{stock: stock, orders: orders}
}

// Checkout executes one run. There is no partial commit: either the
// outcome carries a created order or no order exists, and no automatic
// retry happens inside.
func (o *Orchestrator) Checkout(ctx context.Context, sess session.Session, c cart.Cart, shipping ShippingInfo) Outcome {
	if c.IsEmpty() {
		return Outcome{Kind: OutcomeEmptyCart, Reason: "cart is empty"}
	}

	queries := make([]StockQuery, 0, len(c.Lines))
	for _, l := range c.Lines {
		queries = append(queries, StockQuery{ProductID: l.Product.ID, Quantity: l.Quantity})
	}

	result, err := o.stock.Check(ctx, queries)
	if err != nil {
		log.Warn().Err(err).Msg("checkout: stock check unreachable")
		return Outcome{Kind: OutcomeConnectionError, Reason: err.Error()}
	}
	if !result.Available || len(result.Shortfalls) > 0 {
		log.Info().Int("shortfalls", len(result.Shortfalls)).Msg("checkout: stock insufficient")
		return Outcome{Kind: OutcomeStockShort, Shortfalls: result.Shortfalls}
	}

	req := OrderRequest{
		UserID:   sess.UserID,
		Guest:    sess.Guest(),
		Shipping: shipping,
		Subtotal: c.Total(),
		Total:    c.Total(),
		Items:    make([]OrderItem, 0, len(c.Lines)),
	}
	for _, l := range c.Lines {
		req.Items = append(req.Items, OrderItem{
			ProductID: l.Product.ID,
			Quantity:  l.Quantity,
			UnitPrice: l.Product.UnitPrice,
		})
	}

	created, err := o.orders.Place(ctx, req)
	if err != nil {
		var payErr *PaymentError
		if errors.As(err, &payErr) {
			log.Info().Str("reason", payErr.Reason).Msg("checkout: payment rejected")
			return Outcome{Kind: OutcomePaymentRejected, Reason: payErr.Reason}
		}
		log.Warn().Err(err).Msg("checkout: order submission failed")
		return Outcome{Kind: OutcomeConnectionError, Reason: err.Error()}
	}

	log.Info().Stringer("order_id", created.ID).Str("order_number", created.OrderNumber).Float64("total", created.Total).Msg("checkout: order created")
	return Outcome{Kind: OutcomeOrderCreated, Order: &created}
}
