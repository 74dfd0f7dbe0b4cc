package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Cart is the aggregate root. TotalPrice is authoritative and always equals
// the sum of the line item totals; it is recomputed after every mutation and
// never set independently.
type Cart struct {
	// ID is the externally visible identifier, distinct from the storage
	// row key.
	ID                      string          `json:"id"`
	Items                   []CartItem      `json:"items"`
	TotalPrice              decimal.Decimal `json:"totalPrice"`
	DefaultCurrency         string          `json:"defaultCurrency"`
	TotalsInOtherCurrencies []CartTotal     `json:"totalsInOtherCurrencies"`
	CreatedAt               time.Time       `json:"-"`
	UpdatedAt               time.Time       `json:"-"`
}

// CartItem denormalizes the product's name, price and currency at the time
// the item was added. The snapshot is never refreshed from the catalog.
type CartItem struct {
	ProductID   int64           `json:"productId"`
	ProductName string          `json:"productName"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
	TotalPrice  decimal.Decimal `json:"totalPrice"`
	Currency    string          `json:"currency"`
}

// CartTotal is the cart total re-expressed in another currency. Derived on
// every read, never persisted.
type CartTotal struct {
	Currency string          `json:"currency"`
	Total    decimal.Decimal `json:"total"`
}
