package cartsync

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/pawmart/cart-service/internal/cart"
)

const cartKeyPrefix = "cart:"

// RedisStore keeps each shopper's cart as one JSON value. A push is a
// plain SET of the full serialized cart, which gives last-writer-wins
// at the key without any merge logic.
type RedisStore struct {
	client *redis.Client
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func (r *RedisStore) Push(ctx context.Context, userID string, c cart.Cart) error {
	payload, err := json.Marshal(itemsFromCart(c))
	if err != nil {
		return fmt.Errorf("failed to serialize cart: %w", err)
	}

	if err := r.client.Set(ctx, cartKeyPrefix+userID, payload, 0).Err(); err != nil {
		return fmt.Errorf("failed to push cart to redis: %w", err)
	}
	return nil
}

func (r *RedisStore) Pull(ctx context.Context, userID string) (cart.Cart, bool, error) {
	payload, err := r.client.Get(ctx, cartKeyPrefix+userID).Bytes()
	if errors.Is(err, redis.Nil) {
		return cart.Cart{}, false, nil
	}
	if err != nil {
		return cart.Cart{}, false, fmt.Errorf("failed to pull cart from redis: %w", err)
	}

	var items []Item
	if err := json.Unmarshal(payload, &items); err != nil {
		return cart.Cart{}, false, fmt.Errorf("failed to decode remote cart: %w", err)
	}
	return cartFromItems(items), true, nil
}
