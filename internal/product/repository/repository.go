package repository

import (
	"context"
	"errors"

	"github.com/itaipu/go-shop/internal/product/domain"
)

var (
	ErrProductNotFound   = errors.New("product not found")
	ErrInsufficientStock = errors.New("insufficient stock")
)

type ProductRepository interface {
	GetAll(ctx context.Context) ([]*domain.Product, error)
	GetByID(ctx context.Context, id int64) (*domain.Product, error)
	GetByCategory(ctx context.Context, category string) ([]*domain.Product, error)
	SearchByName(ctx context.Context, name string) ([]*domain.Product, error)
	Create(ctx context.Context, product *domain.Product) error
	Update(ctx context.Context, product *domain.Product) error
	Delete(ctx context.Context, id int64) error
	// UpdateStock decrements stock by quantity, rejecting decrements that
	// would go negative.
	UpdateStock(ctx context.Context, id int64, quantity int) error
	Count(ctx context.Context) (int64, error)
}
