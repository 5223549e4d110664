package converter

import (
	"time"

	"github.com/shopspring/decimal"
)

// DictionaryModel представляет запись таблиц brands, categories и currencies в PostgreSQL.
type DictionaryModel struct {
	ID          int64      `db:"id"`
	Name        string     `db:"name"`
	Description string     `db:"description"`
	CreatedAt   time.Time  `db:"created_at"`
	UpdatedAt   *time.Time `db:"updated_at"`
}

// ProductModel представляет запись таблицы products. Партии, изображения и вариант хранятся в JSONB.
type ProductModel struct {
	ID                   int64           `db:"id"`
	Name                 string          `db:"name"`
	Description          string          `db:"description"`
	SellingPrice         decimal.Decimal `db:"selling_price"`
	Weight               string          `db:"weight"`
	ManufacturingCountry string          `db:"manufacturing_country"`
	BrandID              *int64          `db:"brand_id"`
	CategoryID           *int64          `db:"category_id"`
	BrandName            *string         `db:"brand_name"`
	CategoryName         *string         `db:"category_name"`
	Variant              []byte          `db:"variant"`
	Images               []byte          `db:"images"`
	Batches              []byte          `db:"batches"`
	Version              int64           `db:"version"`
	CreatedAt            time.Time       `db:"created_at"`
	UpdatedAt            *time.Time      `db:"updated_at"`
}

// BatchModel — элемент JSON-массива products.batches.
type BatchModel struct {
	ID                   string           `json:"id"`
	CreatedDate          int64            `json:"createdDate"`
	ManufactureDate      *time.Time       `json:"manufactureDate,omitempty"`
	ExpiryDate           *time.Time       `json:"expiryDate,omitempty"`
	Quantity             int64            `json:"quantity"`
	PurchasePrice        decimal.Decimal  `json:"purchasePrice"`
	SellingPrice         decimal.Decimal  `json:"sellingPrice"`
	IsPromotion          bool             `json:"isPromotion"`
	PromotionPrice       *decimal.Decimal `json:"promotionPrice,omitempty"`
	ManufacturingCountry string           `json:"manufacturingCountry,omitempty"`
	Note                 string           `json:"note,omitempty"`
}

// ImageModel — элемент JSON-массива products.images.
type ImageModel struct {
	ID       string `json:"id"`
	URL      string `json:"url"`
	FileName string `json:"fileName"`
}

// VariantModel — значение products.variant.
type VariantModel struct {
	Type      string `json:"type"`
	ColorCode string `json:"colorCode,omitempty"`
	Size      string `json:"size,omitempty"`
}

// PurchaseModel представляет запись таблицы purchases.
type PurchaseModel struct {
	ID           int64           `db:"id"`
	OrderNumber  string          `db:"order_number"`
	PurchaseDate time.Time       `db:"purchase_date"`
	CurrencyID   *int64          `db:"currency_id"`
	ExchangeRate decimal.Decimal `db:"exchange_rate"`
	ExtraCost    decimal.Decimal `db:"extra_cost"`
	Note         string          `db:"note"`
	CreatedAt    time.Time       `db:"created_at"`
	UpdatedAt    *time.Time      `db:"updated_at"`
}

// PurchaseDetailModel представляет запись таблицы purchase_details.
type PurchaseDetailModel struct {
	ID              int64           `db:"id"`
	PurchaseID      int64           `db:"purchase_id"`
	ProductID       int64           `db:"product_id"`
	Quantity        int64           `db:"quantity"`
	PurchasePrice   decimal.Decimal `db:"purchase_price"`
	ItemCost        decimal.Decimal `db:"item_cost"`
	ManufactureDate *time.Time      `db:"manufacture_date"`
	ExpiryDate      *time.Time      `db:"expiry_date"`
	CreatedAt       time.Time       `db:"created_at"`
}

// StockPostingModel представляет запись таблицы stock_postings.
type StockPostingModel struct {
	ID              int64           `db:"id"`
	ProductID       int64           `db:"product_id"`
	PurchaseID      int64           `db:"purchase_id"`
	Quantity        int64           `db:"quantity"`
	PurchasePrice   decimal.Decimal `db:"purchase_price"`
	ItemCost        decimal.Decimal `db:"item_cost"`
	ManufactureDate *time.Time      `db:"manufacture_date"`
	ExpiryDate      *time.Time      `db:"expiry_date"`
	CreatedAt       time.Time       `db:"created_at"`
}

// OutboxEventModel представляет запись таблицы outbox_events.
type OutboxEventModel struct {
	ID          int64      `db:"id"`
	EventID     string     `db:"event_id"`
	EventType   string     `db:"event_type"`
	AggregateID int64      `db:"aggregate_id"`
	Payload     []byte     `db:"payload"`
	Status      string     `db:"status"`
	Attempts    int        `db:"attempts"`
	CreatedAt   time.Time  `db:"created_at"`
	ProcessedAt *time.Time `db:"processed_at"`
}
