package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/gofrs/uuid"
	"github.com/rs/zerolog/log"

	"github.com/pawmart/cart-service/internal/cart"
	"github.com/pawmart/cart-service/internal/checkout"
	"github.com/pawmart/cart-service/internal/order"
)

// CheckoutHandler runs the checkout pipeline for the session's cart
// and serves the order archive.
type CheckoutHandler struct {
	carts        *cart.Manager
	orchestrator *checkout.Orchestrator
	archive      order.Repository
}

func NewCheckoutHandler(carts *cart.Manager, orchestrator *checkout.Orchestrator, archive order.Repository) *CheckoutHandler {
	return &CheckoutHandler{carts: carts, orchestrator: orchestrator, archive: archive}
}

type checkoutRequest struct {
	Shipping checkout.ShippingInfo `json:"shipping"`
}

// Checkout verifies stock and submits the order. On success the cart
// is cleared and the order archived; a failed archive write is logged
// only, since the order already exists at the backend.
func (h *CheckoutHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	var req checkoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	sess := sessionFrom(r)
	store := h.carts.Get(cartKey(r, sess))

	outcome := h.orchestrator.Checkout(r.Context(), sess, store.Snapshot(), req.Shipping)
	if outcome.Kind == checkout.OutcomeOrderCreated {
		store.Clear()
		h.archiveOrder(r, outcome.Order)
	}

	respondWithJSON(w, statusForOutcome(outcome.Kind), outcome)
}

func (h *CheckoutHandler) archiveOrder(r *http.Request, o *order.Order) {
	if h.archive == nil || o == nil {
		return
	}
	if err := h.archive.Create(r.Context(), o); err != nil {
		log.Error().Err(err).Stringer("order_id", o.ID).Msg("failed to archive order")
	}
}

// GetOrder reads one order from the archive.
func (h *CheckoutHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	if h.archive == nil {
		respondWithError(w, http.StatusServiceUnavailable, "order archive is not configured")
		return
	}

	id, err := uuid.FromString(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid order id")
		return
	}

	o, err := h.archive.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, order.ErrOrderNotFound) {
			respondWithError(w, http.StatusNotFound, "order not found")
			return
		}
		log.Error().Err(err).Stringer("order_id", id).Msg("failed to get order")
		respondWithError(w, http.StatusInternalServerError, "failed to get order")
		return
	}
	respondWithJSON(w, http.StatusOK, o)
}

func statusForOutcome(kind checkout.OutcomeKind) int {
	switch kind {
	case checkout.OutcomeOrderCreated:
		return http.StatusOK
	case checkout.OutcomeEmptyCart:
		return http.StatusBadRequest
	case checkout.OutcomeStockShort:
		return http.StatusConflict
	case checkout.OutcomePaymentRejected:
		return http.StatusPaymentRequired
	case checkout.OutcomeConnectionError:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
