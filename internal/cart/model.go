package cart

import "github.com/pawmart/cart-service/internal/catalog"

// Line is one product-quantity pair within a cart. A line only exists
// while its quantity is positive; there is never a stored zero line.
type Line struct {
	Product  catalog.ProductRef `json:"product"`
	Quantity int                `json:"quantity"`
}

// Subtotal is the line's contribution to the cart total.
func (l Line) Subtotal() float64 {
	return l.Product.UnitPrice * float64(l.Quantity)
}

// Cart is an ordered collection of lines, unique by product id.
// Cart values are snapshots: the store hands out copies with their own
// line slice, so a snapshot never changes under its holder.
type Cart struct {
	Lines []Line `json:"lines"`
}

// IsEmpty reports whether the cart has no lines.
func (c Cart) IsEmpty() bool {
	return len(c.Lines) == 0
}

// Total is the sum of unit price times quantity over all lines.
func (c Cart) Total() float64 {
	var total float64
	for _, l := range c.Lines {
		total += l.Subtotal()
	}
	return total
}

// ItemCount is the sum of quantities over all lines.
func (c Cart) ItemCount() int {
	var n int
	for _, l := range c.Lines {
		n += l.Quantity
	}
	return n
}

// QuantityOf returns the quantity of the line for productID, or 0 when
// no such line exists.
func (c Cart) QuantityOf(productID int64) int {
	for _, l := range c.Lines {
		if l.Product.ID == productID {
			return l.Quantity
		}
	}
	return 0
}

// Find returns the line for productID, if present.
func (c Cart) Find(productID int64) (Line, bool) {
	for _, l := range c.Lines {
		if l.Product.ID == productID {
			return l, true
		}
	}
	return Line{}, false
}

// clone returns a copy of the cart with its own line slice.
func (c Cart) clone() Cart {
	if len(c.Lines) == 0 {
		return Cart{}
	}
	lines := make([]Line, len(c.Lines))
	copy(lines, c.Lines)
	return Cart{Lines: lines}
}
