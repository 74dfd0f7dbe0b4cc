package cache

import (
	"context"
	"errors"

	"github.com/itaipu/go-shop/internal/currency/domain"
)

var ErrCacheMiss = errors.New("quote not in cache")

type QuoteCache interface {
	Get(ctx context.Context, from, to string) (*domain.CurrencyQuote, error)
	Set(ctx context.Context, from, to string, quote *domain.CurrencyQuote) error
	Delete(ctx context.Context, from, to string) error
}
