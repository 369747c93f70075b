package models

import "github.com/shopspring/decimal"

// ProductCollection is the document collection holding products.
const ProductCollection = "products"

// Product represents a catalog entry. Code is assigned by the caller and never
// changes once the product is stored.
type Product struct {
	Code    string          `json:"code"`
	Name    string          `json:"name" binding:"required"`
	Brand   string          `json:"brand" binding:"required"`
	Price   decimal.Decimal `json:"price"`
	URL     string          `json:"url"`
	Deleted bool            `json:"deleted"`
	History []HistoryEntry  `json:"history"`
}
