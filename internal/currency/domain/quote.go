package domain

import "github.com/shopspring/decimal"

// CurrencyQuote mirrors the upstream exchange-rate payload. The provider
// sends every numeric field as a JSON string ("bid":"0.1862"), which
// decimal.Decimal and the ,string tag decode directly.
type CurrencyQuote struct {
	Code       string          `json:"code"`
	CodeIn     string          `json:"codein"`
	Name       string          `json:"name"`
	High       decimal.Decimal `json:"high"`
	Low        decimal.Decimal `json:"low"`
	VarBid     decimal.Decimal `json:"varBid"`
	PctChange  decimal.Decimal `json:"pctChange"`
	Bid        decimal.Decimal `json:"bid"`
	Ask        decimal.Decimal `json:"ask"`
	Timestamp  int64           `json:"timestamp,string"`
	CreateDate string          `json:"create_date,omitempty"`
}
