package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Batch — партия товара с датами производства и годности. Принадлежит только своему товару.
type Batch struct {
	ID                   string
	CreatedDate          int64 // unix-время в секундах
	ManufactureDate      *time.Time
	ExpiryDate           *time.Time
	Quantity             int64
	PurchasePrice        decimal.Decimal
	SellingPrice         decimal.Decimal
	IsPromotion          bool
	PromotionPrice       *decimal.Decimal
	ManufacturingCountry string
	Note                 string
}
