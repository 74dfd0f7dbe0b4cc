package repository

import (
	"context"
	"errors"

	"github.com/itaipu/go-shop/internal/cart/domain"
)

var ErrCartNotFound = errors.New("cart not found")

type CartRepository interface {
	CreateCart(ctx context.Context, cart *domain.Cart) error
	// GetCart loads the aggregate by its external identifier.
	GetCart(ctx context.Context, cartID string) (*domain.Cart, error)
	// UpdateCart persists the whole aggregate (total + item set) in a
	// single transaction.
	UpdateCart(ctx context.Context, cart *domain.Cart) error
}
