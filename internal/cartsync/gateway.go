// Package cartsync mirrors the authoritative local cart to a remote
// store, best effort. The local cart never depends on the mirror for
// correctness: pushes overwrite the whole remote copy (last-writer-
// wins, no merge), and a pull only ever happens as an explicit action.
package cartsync

import (
	"context"
	"errors"

	"github.com/pawmart/cart-service/internal/cart"
	"github.com/pawmart/cart-service/internal/catalog"
)

var ErrRemoteRejected = errors.New("remote cart store rejected the request")

// Gateway is the remote-store contract. Push replaces the remote cart
// with the given snapshot. Pull returns the remote cart and whether one
// exists; installing it into a store is the caller's explicit call.
type Gateway interface {
	Push(ctx context.Context, userID string, c cart.Cart) error
	Pull(ctx context.Context, userID string) (cart.Cart, bool, error)
}

// Item is the wire shape of one synced cart line.
type Item struct {
	ProductID int64   `json:"product_id"`
	Name      string  `json:"name"`
	UnitPrice float64 `json:"unit_price"`
	Quantity  int     `json:"quantity"`
	ImageURL  string  `json:"image_url,omitempty"`
}

func itemsFromCart(c cart.Cart) []Item {
	items := make([]Item, 0, len(c.Lines))
	for _, l := range c.Lines {
		items = append(items, Item{
			ProductID: l.Product.ID,
			Name:      l.Product.Name,
			UnitPrice: l.Product.UnitPrice,
			Quantity:  l.Quantity,
			ImageURL:  l.Product.ImageURL,
		})
	}
	return items
}

// cartFromItems rebuilds a cart from wire items. The remote store does
// not carry stock figures, so restored snapshots have unknown stock
// until the next catalog fetch or checkout-time check.
func cartFromItems(items []Item) cart.Cart {
	var c cart.Cart
	for _, it := range items {
		if it.Quantity <= 0 {
			continue
		}
		c.Lines = append(c.Lines, cart.Line{
			Product: catalog.ProductRef{
				ID:        it.ProductID,
				Name:      it.Name,
				UnitPrice: it.UnitPrice,
				Stock:     catalog.StockUnknown,
				ImageURL:  it.ImageURL,
			},
			Quantity: it.Quantity,
		})
	}
	return c
}
