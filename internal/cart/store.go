package cart

import (
	"sync"

	"github.com/pawmart/cart-service/internal/catalog"
)

// Store is the single owner of a shopper's cart state. Every mutation
// is a serialized transition from one immutable Cart snapshot to the
// next; concurrent callers never observe a half-applied update.
//
// Stock policy is hard-cap: a mutation that would push a line past the
// product's last-known stock is rejected with *InsufficientStockError
// and leaves the cart unchanged. Products whose snapshot carries no
// stock figure are never capped locally; the checkout-time stock check
// stays authoritative either way.
type Store struct {
	mu      sync.RWMutex
	cur     Cart
	subs    map[int]chan Cart
	nextSub int
}

// NewStore returns an empty cart store.
func NewStore() *Store {
	return &Store{subs: make(map[int]chan Cart)}
}

// AddItem merges quantity into the line for product.ID, creating the
// line if absent. The returned snapshot reflects the cart after the
// mutation; on error the cart is unchanged.
func (s *Store) AddItem(product catalog.ProductRef, quantity int) (Cart, error) {
	if quantity <= 0 {
		return s.Snapshot(), ErrInvalidQuantity
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.cur.clone()
	idx := -1
	for i, l := range next.Lines {
		if l.Product.ID == product.ID {
			idx = i
			break
		}
	}

	resulting := quantity
	if idx >= 0 {
		resulting += next.Lines[idx].Quantity
	}
	if product.StockKnown() && resulting > product.Stock {
		return s.cur.clone(), &InsufficientStockError{
			ProductID: product.ID,
			Requested: resulting,
			Available: product.Stock,
		}
	}

	if idx >= 0 {
		next.Lines[idx].Quantity = resulting
		next.Lines[idx].Product = product
	} else {
		next.Lines = append(next.Lines, Line{Product: product, Quantity: quantity})
	}

	s.commit(next)
	return next.clone(), nil
}

// SetQuantity replaces the quantity of the line for productID.
// A quantity of zero or less removes the line.
func (s *Store) SetQuantity(productID int64, quantity int) (Cart, error) {
	if quantity <= 0 {
		return s.RemoveItem(productID), nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	idx := -1
	for i, l := range s.cur.Lines {
		if l.Product.ID == productID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return s.cur.clone(), ErrLineNotFound
	}

	product := s.cur.Lines[idx].Product
	if product.StockKnown() && quantity > product.Stock {
		return s.cur.clone(), &InsufficientStockError{
			ProductID: productID,
			Requested: quantity,
			Available: product.Stock,
		}
	}

	next := s.cur.clone()
	next.Lines[idx].Quantity = quantity
	s.commit(next)
	return next.clone(), nil
}

// RemoveItem drops the line for productID. Removing an absent line is
// a no-op, not an error.
func (s *Store) RemoveItem(productID int64) Cart {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := -1
	for i, l := range s.cur.Lines {
		if l.Product.ID == productID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return s.cur.clone()
	}

	next := Cart{Lines: make([]Line, 0, len(s.cur.Lines)-1)}
	next.Lines = append(next.Lines, s.cur.Lines[:idx]...)
	next.Lines = append(next.Lines, s.cur.Lines[idx+1:]...)
	s.commit(next)
	return next.clone()
}

// Clear empties the cart.
func (s *Store) Clear() Cart {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.commit(Cart{})
	return Cart{}
}

// Replace installs a cart wholesale, e.g. one pulled from the remote
// store at session start. Callers decide when a replace is safe; the
// store itself never pulls.
func (s *Store) Replace(c Cart) Cart {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.commit(c.clone())
	return s.cur.clone()
}

// Snapshot returns the current cart.
func (s *Store) Snapshot() Cart {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cur.clone()
}

// Total returns the current cart total.
func (s *Store) Total() float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cur.Total()
}

// ItemCount returns the current summed quantity.
func (s *Store) ItemCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cur.ItemCount()
}

// QuantityOf returns the current quantity for productID, 0 if absent.
func (s *Store) QuantityOf(productID int64) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cur.QuantityOf(productID)
}

// Subscribe returns a channel that carries the latest cart snapshot
// after every successful mutation, and a cancel func that detaches it.
// The channel conflates: a slow consumer sees the newest state, never a
// backlog of intermediate ones.
func (s *Store) Subscribe() (<-chan Cart, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextSub
	s.nextSub++
	ch := make(chan Cart, 1)
	s.subs[id] = ch

	cancel := func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if sub, ok := s.subs[id]; ok {
			delete(s.subs, id)
			close(sub)
		}
	}
	return ch, cancel
}

// commit installs the new snapshot and notifies subscribers.
// Callers must hold s.mu.
func (s *Store) commit(next Cart) {
	s.cur = next
	for _, ch := range s.subs {
		select {
		case <-ch:
		default:
		}
		ch <- s.cur.clone()
	}
}
