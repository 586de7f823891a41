package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"shopease-backend/internal/model"

	"github.com/redis/go-redis/v9"
)

// CartRepository stores one cart document per browser session. Each mutation
// is a read-modify-write of the whole document; truly simultaneous requests
// for one session resolve last-writer-wins.
type CartRepository interface {
	// Get returns nil, nil when the session has no cart yet.
	Get(ctx context.Context, sessionID string) (*model.Cart, error)
	Save(ctx context.Context, cart *model.Cart) error
	Delete(ctx context.Context, sessionID string) error
}

type cartRepoImpl struct {
	client *redis.Client
	ttl    time.Duration
}

func NewCartRepository(client *redis.Client, ttl time.Duration) CartRepository {
	return &cartRepoImpl{
		client: client,
		ttl:    ttl,
	}
}

func (r *cartRepoImpl) key(sessionID string) string {
	return fmt.Sprintf("cart:session:%s", sessionID)
}

func (r *cartRepoImpl) Get(ctx context.Context, sessionID string) (*model.Cart, error) {
	data, err := r.client.Get(ctx, r.key(sessionID)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var cart model.Cart
	if err := json.Unmarshal([]byte(data), &cart); err != nil {
		return nil, err
	}
	return &cart, nil
}

func (r *cartRepoImpl) Save(ctx context.Context, cart *model.Cart) error {
	cart.UpdatedAt = time.Now()

	data, err := json.Marshal(cart)
	if err != nil {
		return err
	}

	return r.client.Set(ctx, r.key(cart.SessionID), data, r.ttl).Err()
}

func (r *cartRepoImpl) Delete(ctx context.Context, sessionID string) error {
	return r.client.Del(ctx, r.key(sessionID)).Err()
}
