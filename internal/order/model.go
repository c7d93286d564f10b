package order

import (
	"time"

	"github.com/gofrs/uuid"
)

// Item is one purchased line at its price as captured in the cart.
type Item struct {
	ID        uuid.UUID `json:"id" db:"id"`
	OrderID   uuid.UUID `json:"order_id" db:"order_id"`
	ProductID int64     `json:"product_id" db:"product_id"`
	Quantity  int       `json:"quantity" db:"quantity"`
	UnitPrice float64   `json:"unit_price" db:"unit_price"`
}

// Order is the record of a successful checkout. It is created once by
// the order backend and never mutated here; status transitions belong
// to order management.
type Order struct {
	ID          uuid.UUID `json:"id" db:"id"`
	OrderNumber string    `json:"order_number" db:"order_number"`
	UserID      string    `json:"user_id" db:"user_id"`
	Status      string    `json:"status" db:"status"`
	Items       []Item    `json:"items" db:"-"`
	Subtotal    float64   `json:"subtotal" db:"subtotal"`
	Total       float64   `json:"total" db:"total"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}
