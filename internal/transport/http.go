package transport

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/pawmart/cart-service/internal/cart"
	"github.com/pawmart/cart-service/internal/cartsync"
	"github.com/pawmart/cart-service/internal/checkout"
	"github.com/pawmart/cart-service/internal/handler"
	"github.com/pawmart/cart-service/internal/order"
)

// NewRouter wires the cart core behind its HTTP facade.
func NewRouter(ctx context.Context, gw cartsync.Gateway, orchestrator *checkout.Orchestrator, archive order.Repository) *chi.Mux {
	r := chi.NewRouter()
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	carts := cart.NewManager()
	cartHandler := handler.NewCartHandler(ctx, carts, gw)
	checkoutHandler := handler.NewCheckoutHandler(carts, orchestrator, archive)

	r.Route("/cart", func(r chi.Router) {
		r.Get("/", cartHandler.GetCart)
		r.Delete("/", cartHandler.ClearCart)
		r.Post("/items", cartHandler.AddItem)
		r.Put("/items/{productID}", cartHandler.SetQuantity)
		r.Delete("/items/{productID}", cartHandler.RemoveItem)
		r.Post("/stale-check", cartHandler.StaleCheck)
		r.Post("/pull", cartHandler.PullCart)
	})
	r.Post("/checkout", checkoutHandler.Checkout)
	r.Get("/orders/{id}", checkoutHandler.GetOrder)

	return r
}
