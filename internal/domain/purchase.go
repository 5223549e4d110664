package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Purchase — заголовок закупки.
type Purchase struct {
	ID           int64
	OrderNumber  string
	PurchaseDate time.Time
	CurrencyID   *int64
	ExchangeRate decimal.Decimal
	ExtraCost    decimal.Decimal
	Note         string
	CreatedAt    time.Time
	UpdatedAt    *time.Time
}

// PurchaseDetail — строка закупки. Создаётся только вместе с закупкой.
type PurchaseDetail struct {
	ID              int64
	PurchaseID      int64
	ProductID       int64
	Quantity        int64
	PurchasePrice   decimal.Decimal
	ItemCost        decimal.Decimal
	ManufactureDate *time.Time
	ExpiryDate      *time.Time
	CreatedAt       time.Time
}

// ItemCostPlaces — число знаков после запятой в долях дополнительных расходов.
const ItemCostPlaces = 8

// SplitExtraCost делит дополнительные расходы поровну между строками закупки.
// Доли усекаются до ItemCostPlaces знаков, остаток от усечения достаётся последней строке,
// так что сумма долей в точности равна extraCost.
func SplitExtraCost(extraCost decimal.Decimal, lines int) []decimal.Decimal {
	if lines <= 0 {
		return nil
	}

	share := extraCost.Div(decimal.NewFromInt(int64(lines))).Truncate(ItemCostPlaces)
	shares := make([]decimal.Decimal, lines)
	for i := range shares {
		shares[i] = share
	}
	shares[lines-1] = extraCost.Sub(share.Mul(decimal.NewFromInt(int64(lines - 1))))

	return shares
}
