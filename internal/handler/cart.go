package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/pawmart/cart-service/internal/cart"
	"github.com/pawmart/cart-service/internal/cartsync"
	"github.com/pawmart/cart-service/internal/catalog"
	"github.com/pawmart/cart-service/internal/session"
)

// CartHandler exposes the cart core over HTTP. Each session key owns
// one store; for authenticated shoppers a background syncer mirrors
// every successful mutation to the remote cart store.
type CartHandler struct {
	carts  *cart.Manager
	gw     cartsync.Gateway
	syncer *cartsync.Syncer

	// baseCtx bounds the lifetime of background sync goroutines.
	baseCtx context.Context

	mu      sync.Mutex
	syncing map[string]bool
}

func NewCartHandler(ctx context.Context, carts *cart.Manager, gw cartsync.Gateway) *CartHandler {
	h := &CartHandler{
		carts:   carts,
		gw:      gw,
		baseCtx: ctx,
		syncing: make(map[string]bool),
	}
	if gw != nil {
		h.syncer = cartsync.NewSyncer(gw)
	}
	return h
}

// store returns the session's cart store, starting the background
// syncer the first time an authenticated shopper touches their cart.
func (h *CartHandler) store(r *http.Request, sess session.Session) *cart.Store {
	st := h.carts.Get(cartKey(r, sess))
	if h.syncer == nil || sess.Guest() {
		return st
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if !h.syncing[sess.UserID] {
		h.syncing[sess.UserID] = true
		ch, _ := st.Subscribe()
		go h.syncer.Run(h.baseCtx, sess, ch)
	}
	return st
}

type cartResponse struct {
	Lines     []cart.Line `json:"lines"`
	Total     float64     `json:"total"`
	ItemCount int         `json:"item_count"`
}

func toCartResponse(c cart.Cart) cartResponse {
	lines := c.Lines
	if lines == nil {
		lines = []cart.Line{}
	}
	return cartResponse{Lines: lines, Total: c.Total(), ItemCount: c.ItemCount()}
}

// GetCart returns the current snapshot.
func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r)
	respondWithJSON(w, http.StatusOK, toCartResponse(h.store(r, sess).Snapshot()))
}

type addItemRequest struct {
	Product  catalog.ProductRef `json:"product"`
	Quantity int                `json:"quantity"`
}

// AddItem adds a product snapshot to the cart, merging into an
// existing line.
func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	var req addItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}
	if req.Product.ID == 0 {
		respondWithError(w, http.StatusBadRequest, "product id is required")
		return
	}

	sess := sessionFrom(r)
	snapshot, err := h.store(r, sess).AddItem(req.Product, req.Quantity)
	if err != nil {
		h.respondMutationError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, toCartResponse(snapshot))
}

type setQuantityRequest struct {
	Quantity int `json:"quantity"`
}

// SetQuantity replaces a line's quantity; zero removes the line.
func (h *CartHandler) SetQuantity(w http.ResponseWriter, r *http.Request) {
	productID, err := strconv.ParseInt(chi.URLParam(r, "productID"), 10, 64)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid product id")
		return
	}

	var req setQuantityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	sess := sessionFrom(r)
	snapshot, err := h.store(r, sess).SetQuantity(productID, req.Quantity)
	if err != nil {
		h.respondMutationError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, toCartResponse(snapshot))
}

// RemoveItem drops a line; removing an absent line still succeeds.
func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	productID, err := strconv.ParseInt(chi.URLParam(r, "productID"), 10, 64)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid product id")
		return
	}

	sess := sessionFrom(r)
	respondWithJSON(w, http.StatusOK, toCartResponse(h.store(r, sess).RemoveItem(productID)))
}

// ClearCart empties the cart.
func (h *CartHandler) ClearCart(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r)
	respondWithJSON(w, http.StatusOK, toCartResponse(h.store(r, sess).Clear()))
}

type staleCheckRequest struct {
	Stock []struct {
		ProductID int64 `json:"product_id"`
		Available int   `json:"available"`
	} `json:"stock"`
}

// StaleCheck runs the stock validator against a posted snapshot so the
// UI can flag lines that went stale. The cart itself is not touched.
func (h *CartHandler) StaleCheck(w http.ResponseWriter, r *http.Request) {
	var req staleCheckRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	stock := make(map[int64]int, len(req.Stock))
	for _, s := range req.Stock {
		stock[s.ProductID] = s.Available
	}

	sess := sessionFrom(r)
	shortfalls := cart.Verify(h.store(r, sess).Snapshot(), stock)
	if shortfalls == nil {
		shortfalls = []cart.Shortfall{}
	}
	respondWithJSON(w, http.StatusOK, map[string]any{"shortfalls": shortfalls})
}

// PullCart fetches the remote cart and installs it wholesale. This is
// an explicit session action; it never runs automatically mid-edit.
func (h *CartHandler) PullCart(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r)
	if sess.Guest() {
		respondWithError(w, http.StatusUnauthorized, "cart sync requires an authenticated session")
		return
	}
	if h.gw == nil {
		respondWithError(w, http.StatusServiceUnavailable, "cart sync is not configured")
		return
	}

	remote, found, err := h.gw.Pull(r.Context(), sess.UserID)
	if err != nil {
		log.Warn().Err(err).Str("user_id", sess.UserID).Msg("cart pull failed")
		respondWithError(w, http.StatusBadGateway, "failed to fetch remote cart")
		return
	}
	if !found {
		respondWithJSON(w, http.StatusOK, toCartResponse(h.store(r, sess).Snapshot()))
		return
	}

	respondWithJSON(w, http.StatusOK, toCartResponse(h.store(r, sess).Replace(remote)))
}

func (h *CartHandler) respondMutationError(w http.ResponseWriter, err error) {
	var stockErr *cart.InsufficientStockError
	switch {
	case errors.As(err, &stockErr):
		respondWithJSON(w, http.StatusConflict, map[string]any{
			"error":      "insufficient stock",
			"product_id": stockErr.ProductID,
			"requested":  stockErr.Requested,
			"available":  stockErr.Available,
		})
	case errors.Is(err, cart.ErrLineNotFound):
		respondWithError(w, http.StatusNotFound, "no cart line for product")
	case errors.Is(err, cart.ErrInvalidQuantity):
		respondWithError(w, http.StatusBadRequest, "quantity must be greater than zero")
	default:
		respondWithError(w, http.StatusInternalServerError, err.Error())
	}
}
