package cartsync

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/pawmart/cart-service/internal/cart"
)

type pushRequest struct {
	UserID string `json:"user_id"`
	Items  []Item `json:"items"`
}

type pullRequest struct {
	UserID string `json:"user_id"`
}

type syncResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Items   []Item `json:"items,omitempty"`
}

// HTTPGateway talks to the remote cart API over JSON. A response with
// success=false is an error to the caller: a failed pull must never be
// presented as an empty cart.
type HTTPGateway struct {
	baseURL string
	client  *http.Client
}

func NewHTTPGateway(baseURL string, client *http.Client) *HTTPGateway {
	if client == nil {
		client = http.DefaultClient
	}
	return &HTTPGateway{baseURL: baseURL, client: client}
}

func (g *HTTPGateway) Push(ctx context.Context, userID string, c cart.Cart) error {
	var resp syncResponse
	err := g.post(ctx, "/cart/sync/push", pushRequest{UserID: userID, Items: itemsFromCart(c)}, &resp)
	if err != nil {
		return err
	}
	if !resp.Success {
		return fmt.Errorf("%w: %s", ErrRemoteRejected, resp.Message)
	}
	return nil
}

func (g *HTTPGateway) Pull(ctx context.Context, userID string) (cart.Cart, bool, error) {
	var resp syncResponse
	err := g.post(ctx, "/cart/sync/pull", pullRequest{UserID: userID}, &resp)
	if err != nil {
		return cart.Cart{}, false, err
	}
	if !resp.Success {
		return cart.Cart{}, false, fmt.Errorf("%w: %s", ErrRemoteRejected, resp.Message)
	}
	if len(resp.Items) == 0 {
		return cart.Cart{}, false, nil
	}
	return cartFromItems(resp.Items), true, nil
}

func (g *HTTPGateway) post(ctx context.Context, path string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		return fmt.Errorf("cart sync request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("cart sync request failed: unexpected status %d", resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
