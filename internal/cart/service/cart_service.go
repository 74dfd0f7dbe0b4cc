package service

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/itaipu/go-shop/internal/apperr"
	"github.com/itaipu/go-shop/internal/cart/domain"
	"github.com/itaipu/go-shop/internal/cart/repository"
	currencydomain "github.com/itaipu/go-shop/internal/currency/domain"
	productdomain "github.com/itaipu/go-shop/internal/product/domain"
	productrepo "github.com/itaipu/go-shop/internal/product/repository"
)

const homeCurrency = "BRL"

// conversionTimeout bounds each quote lookup during total conversion.
// Expiry degrades to a missing currency entry, never a failed cart call.
const conversionTimeout = 2 * time.Second

var conversionTargets = []string{"USD", "EUR"}

// QuoteProvider resolves a single currency pair to a live quote.
type QuoteProvider interface {
	GetQuote(ctx context.Context, from, to string) (*currencydomain.CurrencyQuote, error)
}

// ProductReader is the slice of the product store the cart engine needs.
type ProductReader interface {
	GetByID(ctx context.Context, id int64) (*productdomain.Product, error)
}

// EventPublisher receives a snapshot after every successful cart mutation.
// Implementations are best-effort and must not fail the mutation.
type EventPublisher interface {
	CartUpdated(ctx context.Context, cart *domain.Cart)
}

// CartService owns all cart-aggregate mutation. It keeps one invariant
// above all: the cart total always equals the sum of the line item totals.
type CartService struct {
	carts    repository.CartRepository
	products ProductReader
	quotes   QuoteProvider
	events   EventPublisher
}

func NewCartService(
	carts repository.CartRepository,
	products ProductReader,
	quotes QuoteProvider,
	events EventPublisher,
) *CartService {
	return &CartService{
		carts:    carts,
		products: products,
		quotes:   quotes,
		events:   events,
	}
}

// CreateCart allocates an empty cart with a fresh external identifier and
// the home currency as default.
func (s *CartService) CreateCart(ctx context.Context) (*domain.Cart, error) {
	cart := &domain.Cart{
		ID:              uuid.NewString(),
		Items:           []domain.CartItem{},
		TotalPrice:      decimal.Zero,
		DefaultCurrency: homeCurrency,
	}

	if err := s.carts.CreateCart(ctx, cart); err != nil {
		return nil, apperr.Internal("failed to create cart", err)
	}

	return s.view(ctx, cart), nil
}

func (s *CartService) GetCart(ctx context.Context, cartID string) (*domain.Cart, error) {
	cart, err := s.loadCart(ctx, cartID)
	if err != nil {
		return nil, err
	}
	return s.view(ctx, cart), nil
}

// AddItem validates the requested quantity against current product stock,
// then either merges into the existing line item (keeping its original
// unit-price snapshot) or appends a new one snapshotting the product's
// current name, price and currency.
func (s *CartService) AddItem(ctx context.Context, cartID string, productID int64, quantity int) (*domain.Cart, error) {
	if quantity <= 0 {
		return nil, apperr.Invalid("quantity must be positive")
	}

	cart, err := s.loadCart(ctx, cartID)
	if err != nil {
		return nil, err
	}

	product, err := s.products.GetByID(ctx, productID)
	if errors.Is(err, productrepo.ErrProductNotFound) {
		return nil, apperr.NotFound("product not found")
	}
	if err != nil {
		return nil, apperr.Internal("failed to load product", err)
	}

	// The check is against this call's quantity only, not the quantity
	// already held by the cart. Stock is never decremented here either;
	// see DESIGN.md.
	if product.Stock < quantity {
		return nil, apperr.Invalid("insufficient stock")
	}

	if idx := findItem(cart, productID); idx >= 0 {
		item := &cart.Items[idx]
		item.Quantity += quantity
		item.TotalPrice = item.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity)))
	} else {
		cart.Items = append(cart.Items, domain.CartItem{
			ProductID:   productID,
			ProductName: product.Name,
			Quantity:    quantity,
			UnitPrice:   product.Price,
			TotalPrice:  product.Price.Mul(decimal.NewFromInt(int64(quantity))),
			Currency:    product.Currency,
		})
	}

	return s.saveAndView(ctx, cart)
}

// RemoveItem deletes the matching line item. Removing a product that is not
// in the cart is a no-op, not an error.
func (s *CartService) RemoveItem(ctx context.Context, cartID string, productID int64) (*domain.Cart, error) {
	cart, err := s.loadCart(ctx, cartID)
	if err != nil {
		return nil, err
	}

	if idx := findItem(cart, productID); idx >= 0 {
		cart.Items = append(cart.Items[:idx], cart.Items[idx+1:]...)
	}

	return s.saveAndView(ctx, cart)
}

// UpdateItemQuantity overwrites the line item's quantity, re-validating
// against current stock. The unit-price snapshot is preserved. A quantity
// of zero or less deletes the line item.
func (s *CartService) UpdateItemQuantity(ctx context.Context, cartID string, productID int64, quantity int) (*domain.Cart, error) {
	cart, err := s.loadCart(ctx, cartID)
	if err != nil {
		return nil, err
	}

	idx := findItem(cart, productID)
	if idx < 0 {
		return nil, apperr.NotFound("item not found in cart")
	}

	if quantity <= 0 {
		cart.Items = append(cart.Items[:idx], cart.Items[idx+1:]...)
		return s.saveAndView(ctx, cart)
	}

	product, err := s.products.GetByID(ctx, productID)
	if errors.Is(err, productrepo.ErrProductNotFound) {
		return nil, apperr.NotFound("product not found")
	}
	if err != nil {
		return nil, apperr.Internal("failed to load product", err)
	}
	if product.Stock < quantity {
		return nil, apperr.Invalid("insufficient stock")
	}

	item := &cart.Items[idx]
	item.Quantity = quantity
	item.TotalPrice = item.UnitPrice.Mul(decimal.NewFromInt(int64(quantity)))

	return s.saveAndView(ctx, cart)
}

func (s *CartService) ClearCart(ctx context.Context, cartID string) (*domain.Cart, error) {
	cart, err := s.loadCart(ctx, cartID)
	if err != nil {
		return nil, err
	}

	cart.Items = []domain.CartItem{}

	return s.saveAndView(ctx, cart)
}

func (s *CartService) loadCart(ctx context.Context, cartID string) (*domain.Cart, error) {
	cart, err := s.carts.GetCart(ctx, cartID)
	if errors.Is(err, repository.ErrCartNotFound) {
		return nil, apperr.NotFound("cart not found")
	}
	if err != nil {
		return nil, apperr.Internal("failed to load cart", err)
	}
	return cart, nil
}

func (s *CartService) saveAndView(ctx context.Context, cart *domain.Cart) (*domain.Cart, error) {
	recalculateTotal(cart)

	if err := s.carts.UpdateCart(ctx, cart); err != nil {
		return nil, apperr.Internal("failed to save cart", err)
	}

	s.events.CartUpdated(ctx, cart)

	return s.view(ctx, cart), nil
}

// view enriches the cart with derived totals in the fixed target
// currencies. Enrichment is best-effort: a failing quote lookup omits that
// currency and never fails the surrounding operation.
func (s *CartService) view(ctx context.Context, cart *domain.Cart) *domain.Cart {
	totals := []domain.CartTotal{}
	for _, target := range conversionTargets {
		if target == cart.DefaultCurrency {
			continue
		}

		quoteCtx, cancel := context.WithTimeout(ctx, conversionTimeout)
		quote, err := s.quotes.GetQuote(quoteCtx, cart.DefaultCurrency, target)
		cancel()
		if err != nil {
			log.Printf("cart %s: total conversion to %s skipped: %v", cart.ID, target, err)
			continue
		}

		totals = append(totals, domain.CartTotal{
			Currency: target,
			Total:    cart.TotalPrice.Mul(quote.Bid),
		})
	}
	cart.TotalsInOtherCurrencies = totals
	return cart
}

func recalculateTotal(cart *domain.Cart) {
	total := decimal.Zero
	for _, item := range cart.Items {
		total = total.Add(item.TotalPrice)
	}
	cart.TotalPrice = total
}

func findItem(cart *domain.Cart, productID int64) int {
	for i := range cart.Items {
		if cart.Items[i].ProductID == productID {
			return i
		}
	}
	return -1
}
