package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// StockPosting — неизменяемая проводка прихода товара по строке закупки.
type StockPosting struct {
	ID              int64
	ProductID       int64
	PurchaseID      int64
	Quantity        int64
	PurchasePrice   decimal.Decimal
	ItemCost        decimal.Decimal
	ManufactureDate *time.Time
	ExpiryDate      *time.Time
	CreatedAt       time.Time
}

// StockMap — остатки по id товара.
type StockMap map[int64]int64

// Quantity возвращает остаток товара; для неизвестного id возвращает 0.
func (s StockMap) Quantity(productID int64) int64 {
	return s[productID]
}
