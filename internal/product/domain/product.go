package domain

import "github.com/shopspring/decimal"

type Product struct {
	ID          int64           `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Category    string          `json:"category"`
	Stock       int             `json:"stock"`
	// Currency is the denomination of Price. It is fixed to the home
	// currency on create and not part of the public representation.
	Currency string `json:"-"`
}
