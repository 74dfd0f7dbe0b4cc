package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/itaipu/go-shop/internal/apperr"
	"github.com/itaipu/go-shop/internal/currency/cache"
	"github.com/itaipu/go-shop/internal/currency/domain"
	"github.com/itaipu/go-shop/internal/currency/provider"
)

// QuoteProvider is the upstream exchange-rate dependency.
type QuoteProvider interface {
	GetQuote(ctx context.Context, from, to string) (*domain.CurrencyQuote, error)
}

var availableCurrencies = []string{
	"USD", "EUR", "BRL", "GBP", "JPY", "CAD", "AUD", "CHF", "CNY", "BTC", "ETH",
}

type CurrencyService struct {
	provider QuoteProvider
	cache    cache.QuoteCache
	sfg      singleflight.Group // Prevents duplicate upstream fetches for the same pair
}

func NewCurrencyService(provider QuoteProvider, cache cache.QuoteCache) *CurrencyService {
	return &CurrencyService{
		provider: provider,
		cache:    cache,
	}
}

// GetQuote normalizes the pair to upper case and returns its current quote,
// serving from cache when possible.
func (s *CurrencyService) GetQuote(ctx context.Context, from, to string) (*domain.CurrencyQuote, error) {
	from = strings.ToUpper(strings.TrimSpace(from))
	to = strings.ToUpper(strings.TrimSpace(to))
	pair := from + "-" + to

	v, err, _ := s.sfg.Do(pair, func() (interface{}, error) {
		quote, err := s.cache.Get(ctx, from, to)
		if err == nil {
			return quote, nil // quote is in cache
		}

		if !errors.Is(err, cache.ErrCacheMiss) {
			log.Printf("quote cache get error: %v", err) // log cache error but continue
		}

		quote, errGet := s.provider.GetQuote(ctx, from, to)
		if errors.Is(errGet, provider.ErrNoQuote) {
			return nil, apperr.NotFound("quote not found for pair " + pair)
		}
		if errGet != nil {
			return nil, apperr.Upstream("failed to fetch quote for pair "+pair, errGet)
		}

		// set cache
		go func() {
			setCtx, cancel := context.WithTimeout(context.Background(), time.Second)
			defer cancel()
			if errSet := s.cache.Set(setCtx, from, to, quote); errSet != nil {
				log.Printf("quote cache set error: %v", errSet)
			}
		}()

		return quote, nil
	})

	if err != nil {
		return nil, err
	}

	return v.(*domain.CurrencyQuote), nil
}

// GetMultipleQuotes resolves a comma-separated target list against one base
// currency, sequentially. The first failing target aborts the whole batch;
// no partial results are returned.
func (s *CurrencyService) GetMultipleQuotes(ctx context.Context, base, currencies string) ([]*domain.CurrencyQuote, error) {
	if strings.TrimSpace(currencies) == "" {
		return nil, apperr.Invalid("currencies list is empty")
	}

	var quotes []*domain.CurrencyQuote
	for _, target := range strings.Split(currencies, ",") {
		quote, err := s.GetQuote(ctx, base, strings.TrimSpace(target))
		if err != nil {
			return nil, fmt.Errorf("batch quotes for base %s: %w", base, err)
		}
		quotes = append(quotes, quote)
	}

	return quotes, nil
}

// AvailableCurrencies returns the supported currency codes. Pure, no I/O.
func (s *CurrencyService) AvailableCurrencies() []string {
	out := make([]string, len(availableCurrencies))
	copy(out, availableCurrencies)
	return out
}
