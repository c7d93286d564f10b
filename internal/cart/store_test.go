package cart_test

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pawmart/cart-service/internal/cart"
	"github.com/pawmart/cart-service/internal/catalog"
)

func product(id int64, price float64, stock int) catalog.ProductRef {
	return catalog.ProductRef{ID: id, Name: "product", UnitPrice: price, Stock: stock}
}

func TestStore_AddItem(t *testing.T) {
	tests := []struct {
		name          string
		product       catalog.ProductRef
		quantity      int
		setup         func(s *cart.Store)
		wantErr       error
		wantQuantity  int
		wantTotal     float64
		wantItemCount int
	}{
		{
			name:          "new_line",
			product:       product(1, 1000, 5),
			quantity:      2,
			wantQuantity:  2,
			wantTotal:     2000,
			wantItemCount: 2,
		},
		{
			name:     "repeated_add_increments",
			product:  product(1, 1000, 5),
			quantity: 2,
			setup: func(s *cart.Store) {
				_, err := s.AddItem(product(1, 1000, 5), 3)
				require.NoError(t, err)
			},
			wantQuantity:  5,
			wantTotal:     5000,
			wantItemCount: 5,
		},
		{
			name:     "exceeds_stock_rejected",
			product:  product(1, 1000, 3),
			quantity: 4,
			wantErr:  cart.ErrInsufficientStock,
		},
		{
			name:     "increment_past_stock_rejected",
			product:  product(1, 1000, 3),
			quantity: 2,
			setup: func(s *cart.Store) {
				_, err := s.AddItem(product(1, 1000, 3), 2)
				require.NoError(t, err)
			},
			wantErr:      cart.ErrInsufficientStock,
			wantQuantity: 2,
		},
		{
			name:          "unknown_stock_never_capped",
			product:       product(1, 1000, catalog.StockUnknown),
			quantity:      100,
			wantQuantity:  100,
			wantTotal:     100000,
			wantItemCount: 100,
		},
		{
			name:     "zero_quantity_rejected",
			product:  product(1, 1000, 5),
			quantity: 0,
			wantErr:  cart.ErrInvalidQuantity,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := cart.NewStore()
			if tt.setup != nil {
				tt.setup(s)
			}

			before := s.Snapshot()
			snapshot, err := s.AddItem(tt.product, tt.quantity)

			if tt.wantErr != nil {
				assert.True(t, errors.Is(err, tt.wantErr))
				assert.Equal(t, before, snapshot, "failed mutation must leave the cart unchanged")
				assert.Equal(t, before, s.Snapshot())
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.wantQuantity, snapshot.QuantityOf(tt.product.ID))
			assert.Equal(t, tt.wantTotal, snapshot.Total())
			assert.Equal(t, tt.wantItemCount, snapshot.ItemCount())
		})
	}
}

func TestStore_AddItem_ReportsAvailable(t *testing.T) {
	s := cart.NewStore()

	_, err := s.AddItem(product(7, 500, 3), 4)

	var stockErr *cart.InsufficientStockError
	require.True(t, errors.As(err, &stockErr))
	assert.Equal(t, int64(7), stockErr.ProductID)
	assert.Equal(t, 4, stockErr.Requested)
	assert.Equal(t, 3, stockErr.Available)
}

func TestStore_AddItem_IncrementsAreAssociative(t *testing.T) {
	p := product(1, 250, 10)

	split := cart.NewStore()
	_, err := split.AddItem(p, 2)
	require.NoError(t, err)
	_, err = split.AddItem(p, 3)
	require.NoError(t, err)

	single := cart.NewStore()
	_, err = single.AddItem(p, 5)
	require.NoError(t, err)

	assert.Equal(t, single.Snapshot(), split.Snapshot())
}

func TestStore_SetQuantity(t *testing.T) {
	tests := []struct {
		name         string
		quantity     int
		wantErr      error
		wantQuantity int
	}{
		{name: "replace", quantity: 4, wantQuantity: 4},
		{name: "zero_removes", quantity: 0, wantQuantity: 0},
		{name: "negative_removes", quantity: -1, wantQuantity: 0},
		{name: "exceeds_stock", quantity: 6, wantErr: cart.ErrInsufficientStock, wantQuantity: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := cart.NewStore()
			_, err := s.AddItem(product(1, 1000, 5), 2)
			require.NoError(t, err)

			_, err = s.SetQuantity(1, tt.quantity)
			if tt.wantErr != nil {
				assert.True(t, errors.Is(err, tt.wantErr))
			} else {
				require.NoError(t, err)
			}
			assert.Equal(t, tt.wantQuantity, s.QuantityOf(1))
		})
	}
}

func TestStore_SetQuantity_UnknownLine(t *testing.T) {
	s := cart.NewStore()
	_, err := s.SetQuantity(42, 3)
	assert.True(t, errors.Is(err, cart.ErrLineNotFound))
}

func TestStore_SetQuantityZeroEqualsRemove(t *testing.T) {
	p := product(1, 1000, 5)

	viaSet := cart.NewStore()
	_, err := viaSet.AddItem(p, 2)
	require.NoError(t, err)
	_, err = viaSet.SetQuantity(1, 0)
	require.NoError(t, err)

	viaRemove := cart.NewStore()
	_, err = viaRemove.AddItem(p, 2)
	require.NoError(t, err)
	viaRemove.RemoveItem(1)

	assert.Equal(t, viaRemove.Snapshot(), viaSet.Snapshot())
	assert.True(t, viaSet.Snapshot().IsEmpty())
}

func TestStore_RemoveItem_AbsentIsNoop(t *testing.T) {
	s := cart.NewStore()
	_, err := s.AddItem(product(1, 1000, 5), 2)
	require.NoError(t, err)

	before := s.Snapshot()
	after := s.RemoveItem(99)

	assert.Equal(t, before, after)
}

func TestStore_RemoveItem_KeepsOrder(t *testing.T) {
	s := cart.NewStore()
	for _, id := range []int64{1, 2, 3} {
		_, err := s.AddItem(product(id, 100, 10), 1)
		require.NoError(t, err)
	}

	snapshot := s.RemoveItem(2)

	require.Len(t, snapshot.Lines, 2)
	assert.Equal(t, int64(1), snapshot.Lines[0].Product.ID)
	assert.Equal(t, int64(3), snapshot.Lines[1].Product.ID)
}

func TestStore_Clear_IsIdempotent(t *testing.T) {
	s := cart.NewStore()
	_, err := s.AddItem(product(1, 1000, 5), 2)
	require.NoError(t, err)

	first := s.Clear()
	second := s.Clear()

	assert.True(t, first.IsEmpty())
	assert.Equal(t, first, second)
	assert.Equal(t, 0, s.ItemCount())
	assert.Equal(t, 0.0, s.Total())
}

func TestStore_TotalInvariant(t *testing.T) {
	s := cart.NewStore()

	_, err := s.AddItem(product(1, 199.90, 10), 3)
	require.NoError(t, err)
	_, err = s.AddItem(product(2, 45.50, 20), 5)
	require.NoError(t, err)
	_, err = s.SetQuantity(1, 2)
	require.NoError(t, err)
	s.RemoveItem(2)
	_, err = s.AddItem(product(3, 12.00, catalog.StockUnknown), 7)
	require.NoError(t, err)

	snapshot := s.Snapshot()
	var want float64
	for _, l := range snapshot.Lines {
		require.Greater(t, l.Quantity, 0, "no line may ever hold quantity <= 0")
		want += l.Product.UnitPrice * float64(l.Quantity)
	}
	assert.Equal(t, want, snapshot.Total())
	assert.Equal(t, want, s.Total())
}

func TestStore_SnapshotIsDetached(t *testing.T) {
	s := cart.NewStore()
	_, err := s.AddItem(product(1, 1000, 5), 2)
	require.NoError(t, err)

	snapshot := s.Snapshot()
	_, err = s.AddItem(product(1, 1000, 5), 1)
	require.NoError(t, err)

	assert.Equal(t, 2, snapshot.QuantityOf(1), "held snapshot must not change under later mutations")
	assert.Equal(t, 3, s.QuantityOf(1))
}

func TestStore_ConcurrentAdds(t *testing.T) {
	s := cart.NewStore()
	p := product(1, 10, catalog.StockUnknown)

	const workers = 50
	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			_, _ = s.AddItem(p, 1)
		}()
	}
	wg.Wait()

	assert.Equal(t, workers, s.ItemCount())
	assert.Equal(t, float64(workers)*10, s.Total())
}

func TestStore_SubscribeConflates(t *testing.T) {
	s := cart.NewStore()
	ch, cancel := s.Subscribe()
	defer cancel()

	p := product(1, 100, catalog.StockUnknown)
	for i := 0; i < 5; i++ {
		_, err := s.AddItem(p, 1)
		require.NoError(t, err)
	}

	// A slow consumer reads exactly the newest state, not a backlog.
	latest := <-ch
	assert.Equal(t, 5, latest.QuantityOf(1))
	select {
	case extra := <-ch:
		t.Fatalf("expected conflated channel to be drained, got snapshot with %d items", extra.ItemCount())
	default:
	}
}

func TestStore_SubscribeIgnoresFailedMutations(t *testing.T) {
	s := cart.NewStore()
	_, err := s.AddItem(product(1, 100, 3), 3)
	require.NoError(t, err)

	ch, cancel := s.Subscribe()
	defer cancel()

	_, err = s.AddItem(product(1, 100, 3), 1)
	require.True(t, errors.Is(err, cart.ErrInsufficientStock))

	select {
	case <-ch:
		t.Fatal("failed mutation must not notify subscribers")
	default:
	}
}

func TestManager_SeparatesSessions(t *testing.T) {
	m := cart.NewManager()

	a := m.Get("user-a")
	b := m.Get("user-b")
	_, err := a.AddItem(product(1, 100, 5), 2)
	require.NoError(t, err)

	assert.Equal(t, 0, b.ItemCount())
	assert.Same(t, a, m.Get("user-a"))

	m.Drop("user-a")
	assert.NotSame(t, a, m.Get("user-a"))
}
