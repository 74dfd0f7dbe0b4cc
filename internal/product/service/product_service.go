package service

import (
	"context"
	"errors"

	"github.com/itaipu/go-shop/internal/apperr"
	"github.com/itaipu/go-shop/internal/product/domain"
	"github.com/itaipu/go-shop/internal/product/repository"
)

const homeCurrency = "BRL"

type ProductService struct {
	repo repository.ProductRepository
}

func NewProductService(repo repository.ProductRepository) *ProductService {
	return &ProductService{repo: repo}
}

func (s *ProductService) GetAllProducts(ctx context.Context) ([]*domain.Product, error) {
	products, err := s.repo.GetAll(ctx)
	if err != nil {
		return nil, apperr.Internal("failed to list products", err)
	}
	return products, nil
}

func (s *ProductService) GetProduct(ctx context.Context, id int64) (*domain.Product, error) {
	product, err := s.repo.GetByID(ctx, id)
	if errors.Is(err, repository.ErrProductNotFound) {
		return nil, apperr.NotFound("product not found")
	}
	if err != nil {
		return nil, apperr.Internal("failed to load product", err)
	}
	return product, nil
}

func (s *ProductService) GetProductsByCategory(ctx context.Context, category string) ([]*domain.Product, error) {
	products, err := s.repo.GetByCategory(ctx, category)
	if err != nil {
		return nil, apperr.Internal("failed to list products by category", err)
	}
	return products, nil
}

func (s *ProductService) SearchProducts(ctx context.Context, name string) ([]*domain.Product, error) {
	products, err := s.repo.SearchByName(ctx, name)
	if err != nil {
		return nil, apperr.Internal("failed to search products", err)
	}
	return products, nil
}

// CreateProduct persists a new product denominated in the home currency.
func (s *ProductService) CreateProduct(ctx context.Context, product *domain.Product) (*domain.Product, error) {
	if product.Stock < 0 {
		return nil, apperr.Invalid("stock must not be negative")
	}

	product.Currency = homeCurrency
	if err := s.repo.Create(ctx, product); err != nil {
		return nil, apperr.Internal("failed to create product", err)
	}
	return product, nil
}

// UpdateProduct replaces all mutable fields of an existing product.
func (s *ProductService) UpdateProduct(ctx context.Context, id int64, product *domain.Product) (*domain.Product, error) {
	if product.Stock < 0 {
		return nil, apperr.Invalid("stock must not be negative")
	}

	product.ID = id
	err := s.repo.Update(ctx, product)
	if errors.Is(err, repository.ErrProductNotFound) {
		return nil, apperr.NotFound("product not found")
	}
	if err != nil {
		return nil, apperr.Internal("failed to update product", err)
	}
	return product, nil
}

func (s *ProductService) DeleteProduct(ctx context.Context, id int64) error {
	err := s.repo.Delete(ctx, id)
	if errors.Is(err, repository.ErrProductNotFound) {
		return apperr.NotFound("product not found")
	}
	if err != nil {
		return apperr.Internal("failed to delete product", err)
	}
	return nil
}

// UpdateStock decrements a product's stock. No cart operation calls this;
// see the open question in DESIGN.md.
func (s *ProductService) UpdateStock(ctx context.Context, id int64, quantity int) error {
	err := s.repo.UpdateStock(ctx, id, quantity)
	if errors.Is(err, repository.ErrProductNotFound) {
		return apperr.NotFound("product not found")
	}
	if errors.Is(err, repository.ErrInsufficientStock) {
		return apperr.Invalid("insufficient stock")
	}
	if err != nil {
		return apperr.Internal("failed to update stock", err)
	}
	return nil
}
