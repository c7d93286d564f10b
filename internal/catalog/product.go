package catalog

// StockUnknown marks a product snapshot captured without a stock figure.
const StockUnknown = -1

// ProductRef is an immutable snapshot of a catalog product as known at
// the moment it was added to a cart. Staleness is expected: the real
// stock may have moved server-side since the snapshot was taken, and is
// only re-checked at checkout time.
type ProductRef struct {
	ID         int64             `json:"id"`
	Name       string            `json:"name"`
	UnitPrice  float64           `json:"unit_price"`
	Stock      int               `json:"stock"`
	ImageURL   string            `json:"image_url,omitempty"`
	Category   string            `json:"category,omitempty"`
	Attributes map[string]string `json:"attributes,omitempty"`
}

// StockKnown reports whether the snapshot carries a usable stock figure.
func (p ProductRef) StockKnown() bool {
	return p.Stock != StockUnknown
}
