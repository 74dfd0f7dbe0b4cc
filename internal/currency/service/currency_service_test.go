package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/itaipu/go-shop/internal/apperr"
	"github.com/itaipu/go-shop/internal/currency/cache"
	"github.com/itaipu/go-shop/internal/currency/domain"
	"github.com/itaipu/go-shop/internal/currency/provider"
)

type providerMock struct {
	m      sync.Mutex
	quotes map[string]*domain.CurrencyQuote
	err    error
	calls  []string
}

func (p *providerMock) GetQuote(_ context.Context, from, to string) (*domain.CurrencyQuote, error) {
	p.m.Lock()
	defer p.m.Unlock()
	p.calls = append(p.calls, from+"-"+to)
	if p.err != nil {
		return nil, p.err
	}
	quote, ok := p.quotes[from+"-"+to]
	if !ok {
		return nil, provider.ErrNoQuote
	}
	return quote, nil
}

func (p *providerMock) callCount() int {
	p.m.Lock()
	defer p.m.Unlock()
	return len(p.calls)
}

type cacheMock struct {
	m      sync.Mutex
	quotes map[string]*domain.CurrencyQuote
	getErr error
	setErr error
	sets   int
}

func newCacheMock() *cacheMock {
	return &cacheMock{quotes: map[string]*domain.CurrencyQuote{}}
}

func (c *cacheMock) Get(_ context.Context, from, to string) (*domain.CurrencyQuote, error) {
	c.m.Lock()
	defer c.m.Unlock()
	if c.getErr != nil {
		return nil, c.getErr
	}
	quote, ok := c.quotes[from+"-"+to]
	if !ok {
		return nil, cache.ErrCacheMiss
	}
	return quote, nil
}

func (c *cacheMock) Set(_ context.Context, from, to string, quote *domain.CurrencyQuote) error {
	c.m.Lock()
	defer c.m.Unlock()
	c.sets++
	if c.setErr != nil {
		return c.setErr
	}
	c.quotes[from+"-"+to] = quote
	return nil
}

func (c *cacheMock) Delete(_ context.Context, from, to string) error {
	c.m.Lock()
	defer c.m.Unlock()
	delete(c.quotes, from+"-"+to)
	return nil
}

func (c *cacheMock) setCount() int {
	c.m.Lock()
	defer c.m.Unlock()
	return c.sets
}

func sampleQuote(from, to, bid string) *domain.CurrencyQuote {
	return &domain.CurrencyQuote{
		Code:   from,
		CodeIn: to,
		Name:   from + "/" + to,
		Bid:    decimal.RequireFromString(bid),
		Ask:    decimal.RequireFromString(bid),
	}
}

func TestGetQuote_CacheMissFetchesProvider(t *testing.T) {
	p := &providerMock{quotes: map[string]*domain.CurrencyQuote{
		"USD-BRL": sampleQuote("USD", "BRL", "5.12"),
	}}
	c := newCacheMock()
	sut := NewCurrencyService(p, c)

	quote, err := sut.GetQuote(context.Background(), "USD", "BRL")
	require.NoError(t, err)
	assert.Equal(t, "USD", quote.Code)
	assert.True(t, quote.Bid.Equal(decimal.RequireFromString("5.12")))
	assert.Equal(t, []string{"USD-BRL"}, p.calls)
}

func TestGetQuote_NormalizesPair(t *testing.T) {
	p := &providerMock{quotes: map[string]*domain.CurrencyQuote{
		"USD-BRL": sampleQuote("USD", "BRL", "5.12"),
	}}
	sut := NewCurrencyService(p, newCacheMock())

	quote, err := sut.GetQuote(context.Background(), " usd ", "brl")
	require.NoError(t, err)
	assert.Equal(t, "USD", quote.Code)
}

func TestGetQuote_CacheHitSkipsProvider(t *testing.T) {
	p := &providerMock{}
	c := newCacheMock()
	c.quotes["USD-BRL"] = sampleQuote("USD", "BRL", "5.00")
	sut := NewCurrencyService(p, c)

	quote, err := sut.GetQuote(context.Background(), "USD", "BRL")
	require.NoError(t, err)
	assert.True(t, quote.Bid.Equal(decimal.RequireFromString("5.00")))
	assert.Zero(t, p.callCount())
}

func TestGetQuote_CacheGetErrorFallsThrough(t *testing.T) {
	p := &providerMock{quotes: map[string]*domain.CurrencyQuote{
		"USD-BRL": sampleQuote("USD", "BRL", "5.12"),
	}}
	c := newCacheMock()
	c.getErr = errors.New("redis down")
	sut := NewCurrencyService(p, c)

	quote, err := sut.GetQuote(context.Background(), "USD", "BRL")
	require.NoError(t, err, "a broken cache must not break quote serving")
	assert.NotNil(t, quote)
	assert.Equal(t, 1, p.callCount())
}

func TestGetQuote_FillsCacheAsynchronously(t *testing.T) {
	p := &providerMock{quotes: map[string]*domain.CurrencyQuote{
		"USD-BRL": sampleQuote("USD", "BRL", "5.12"),
	}}
	c := newCacheMock()
	sut := NewCurrencyService(p, c)

	_, err := sut.GetQuote(context.Background(), "USD", "BRL")
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		return c.setCount() == 1
	}, time.Second, 10*time.Millisecond)
}

func TestGetQuote_UnknownPairIsNotFound(t *testing.T) {
	p := &providerMock{quotes: map[string]*domain.CurrencyQuote{}}
	sut := NewCurrencyService(p, newCacheMock())

	quote, err := sut.GetQuote(context.Background(), "USD", "XYZ")
	require.Error(t, err)
	assert.Nil(t, quote)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}

func TestGetQuote_ProviderFailureIsUpstream(t *testing.T) {
	p := &providerMock{err: errors.New("connection refused")}
	sut := NewCurrencyService(p, newCacheMock())

	quote, err := sut.GetQuote(context.Background(), "USD", "BRL")
	require.ErrorContains(t, err, "connection refused")
	assert.Nil(t, quote)
	assert.Equal(t, apperr.KindUpstream, apperr.KindOf(err))
}

func TestGetMultipleQuotes_SplitsAndTrims(t *testing.T) {
	p := &providerMock{quotes: map[string]*domain.CurrencyQuote{
		"USD-BRL": sampleQuote("USD", "BRL", "5.12"),
		"USD-EUR": sampleQuote("USD", "EUR", "0.92"),
	}}
	sut := NewCurrencyService(p, newCacheMock())

	quotes, err := sut.GetMultipleQuotes(context.Background(), "USD", "brl, eur")
	require.NoError(t, err)
	require.Len(t, quotes, 2)
	assert.Equal(t, "BRL", quotes[0].CodeIn)
	assert.Equal(t, "EUR", quotes[1].CodeIn)
}

func TestGetMultipleQuotes_EmptyListIsInvalid(t *testing.T) {
	sut := NewCurrencyService(&providerMock{}, newCacheMock())

	quotes, err := sut.GetMultipleQuotes(context.Background(), "USD", "  ")
	require.Error(t, err)
	assert.Nil(t, quotes)
	assert.Equal(t, apperr.KindInvalid, apperr.KindOf(err))
}

func TestGetMultipleQuotes_FirstFailureAbortsBatch(t *testing.T) {
	p := &providerMock{quotes: map[string]*domain.CurrencyQuote{
		"USD-BRL": sampleQuote("USD", "BRL", "5.12"),
		"USD-EUR": sampleQuote("USD", "EUR", "0.92"),
	}}
	sut := NewCurrencyService(p, newCacheMock())

	quotes, err := sut.GetMultipleQuotes(context.Background(), "USD", "BRL,XYZ,EUR")
	require.Error(t, err)
	assert.Nil(t, quotes, "no partial results on batch failure")
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err), "kind survives the batch wrap")
	assert.NotContains(t, p.calls, "USD-EUR", "targets after the failure are not fetched")
}

func TestAvailableCurrencies_ReturnsCopy(t *testing.T) {
	sut := NewCurrencyService(&providerMock{}, newCacheMock())

	first := sut.AvailableCurrencies()
	require.Contains(t, first, "BRL")
	first[0] = "ZZZ"

	second := sut.AvailableCurrencies()
	assert.NotContains(t, second, "ZZZ")
	assert.Len(t, second, 11)
}
