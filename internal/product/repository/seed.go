package repository

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/itaipu/go-shop/internal/product/domain"
)

// SeedDefaults inserts the sample catalog when the products table is empty.
// Idempotent across restarts.
func (r *Repository) SeedDefaults(ctx context.Context) error {
	count, err := r.Count(ctx)
	if err != nil {
		return fmt.Errorf("check product count before seeding: %w", err)
	}
	if count > 0 {
		return nil
	}

	for _, p := range sampleProducts() {
		if err := r.Create(ctx, p); err != nil {
			return fmt.Errorf("seed product %q: %w", p.Name, err)
		}
	}
	return nil
}

func sampleProducts() []*domain.Product {
	mk := func(name, description, price, category string, stock int) *domain.Product {
		return &domain.Product{
			Name:        name,
			Description: description,
			Price:       decimal.RequireFromString(price),
			Category:    category,
			Stock:       stock,
			Currency:    "BRL",
		}
	}

	return []*domain.Product{
		mk("iPhone 15", "Apple smartphone with 128GB", "5999.99", "Electronics", 50),
		mk("Samsung Galaxy S24", "Samsung smartphone with 256GB", "4999.99", "Electronics", 30),
		mk("MacBook Air M2", "Apple notebook with the M2 chip", "8999.99", "Electronics", 20),
		mk("Dell Inspiron 15", "Dell notebook with Intel i7", "3999.99", "Electronics", 25),
		mk("Clean Code", "Book on writing maintainable code", "89.90", "Books", 100),
		mk("Design Patterns", "The classic catalog of design patterns", "79.90", "Books", 80),
		mk("Domain-Driven Design", "DDD in practice", "99.90", "Books", 60),
		mk("Smart TV 55\"", "Samsung 4K smart TV", "2999.99", "Home", 15),
		mk("Robot Vacuum", "Xiaomi automatic vacuum cleaner", "899.99", "Home", 40),
		mk("Espresso Machine", "Automatic espresso machine", "599.99", "Home", 35),
		mk("Nike Air Max Sneakers", "Comfortable running shoes", "399.99", "Sports", 70),
		mk("Mountain Bike", "Trail-ready bicycle", "1299.99", "Sports", 10),
		mk("Electric Treadmill", "Treadmill for home workouts", "2499.99", "Sports", 8),
	}
}
