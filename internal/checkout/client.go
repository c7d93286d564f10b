package checkout

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/gofrs/uuid"

	"github.com/pawmart/cart-service/internal/order"
)

// HTTPStockChecker calls the backend stock-check endpoint.
type HTTPStockChecker struct {
	baseURL string
	client  *http.Client
}

func NewHTTPStockChecker(baseURL string, client *http.Client) *HTTPStockChecker {
	if client == nil {
		client = http.DefaultClient
	}
	return &HTTPStockChecker{baseURL: baseURL, client: client}
}

type stockCheckRequest struct {
	Items []StockQuery `json:"items"`
}

func (c *HTTPStockChecker) Check(ctx context.Context, items []StockQuery) (StockResult, error) {
	payload, err := json.Marshal(stockCheckRequest{Items: items})
	if err != nil {
		return StockResult{}, fmt.Errorf("failed to encode stock check request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/stock/check", bytes.NewReader(payload))
	if err != nil {
		return StockResult{}, fmt.Errorf("failed to build stock check request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return StockResult{}, fmt.Errorf("stock check request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return StockResult{}, fmt.Errorf("stock check failed: unexpected status %d", resp.StatusCode)
	}

	var result StockResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return StockResult{}, fmt.Errorf("failed to decode stock check response: %w", err)
	}
	return result, nil
}

// HTTPOrderPlacer calls the backend order-creation endpoint and
// classifies failures into payment rejections and everything else.
type HTTPOrderPlacer struct {
	baseURL string
	client  *http.Client
}

func NewHTTPOrderPlacer(baseURL string, client *http.Client) *HTTPOrderPlacer {
	if client == nil {
		client = http.DefaultClient
	}
	return &HTTPOrderPlacer{baseURL: baseURL, client: client}
}

type orderResponse struct {
	ID          uuid.UUID `json:"id"`
	OrderNumber string    `json:"order_number"`
	CreatedAt   time.Time `json:"created_at"`
	Status      string    `json:"status"`
	Total       float64   `json:"total"`
}

type orderErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

const errCodePaymentRejected = "PAYMENT_REJECTED"

func (c *HTTPOrderPlacer) Place(ctx context.Context, orderReq OrderRequest) (order.Order, error) {
	payload, err := json.Marshal(orderReq)
	if err != nil {
		return order.Order{}, fmt.Errorf("failed to encode order request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/orders", bytes.NewReader(payload))
	if err != nil {
		return order.Order{}, fmt.Errorf("failed to build order request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return order.Order{}, fmt.Errorf("order submission failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusOK || resp.StatusCode == http.StatusCreated {
		var body orderResponse
		if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
			return order.Order{}, fmt.Errorf("failed to decode order response: %w", err)
		}
		created := order.Order{
			ID:          body.ID,
			OrderNumber: body.OrderNumber,
			UserID:      orderReq.UserID,
			Status:      body.Status,
			Subtotal:    orderReq.Subtotal,
			Total:       body.Total,
			CreatedAt:   body.CreatedAt,
		}
		for _, it := range orderReq.Items {
			created.Items = append(created.Items, order.Item{
				ProductID: it.ProductID,
				Quantity:  it.Quantity,
				UnitPrice: it.UnitPrice,
			})
		}
		return created, nil
	}

	var errBody orderErrorResponse
	if err := json.NewDecoder(resp.Body).Decode(&errBody); err == nil && errBody.Code == errCodePaymentRejected {
		return order.Order{}, &PaymentError{Reason: errBody.Message}
	}
	return order.Order{}, fmt.Errorf("order submission failed: unexpected status %d", resp.StatusCode)
}
