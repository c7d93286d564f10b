package cart

// Shortfall is the gap between requested and available quantity for one
// product, as reported by a stock snapshot. Shortfalls are computed on
// demand and never stored.
type Shortfall struct {
	ProductID   int64  `json:"product_id"`
	ProductName string `json:"product_name,omitempty"`
	Requested   int    `json:"requested"`
	Available   int    `json:"available"`
}

// Verify compares the cart against a stock snapshot and returns one
// Shortfall per line that cannot be satisfied. A product id missing
// from the snapshot counts as zero available. An empty result means the
// cart is fully satisfiable.
//
// Verify never mutates the cart: remediation is always an explicit
// store call by the shopper.
func Verify(c Cart, stock map[int64]int) []Shortfall {
	var shortfalls []Shortfall
	for _, l := range c.Lines {
		available := stock[l.Product.ID]
		if l.Quantity > available {
			shortfalls = append(shortfalls, Shortfall{
				ProductID:   l.Product.ID,
				ProductName: l.Product.Name,
				Requested:   l.Quantity,
				Available:   available,
			})
		}
	}
	return shortfalls
}
