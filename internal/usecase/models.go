package usecase

import (
	"time"

	"github.com/DRSN-tech/inventory-backend/internal/domain"
	"github.com/DRSN-tech/inventory-backend/pkg/pagination"
	"github.com/shopspring/decimal"
)

// LIST

// ListRes — страница результатов списочного запроса.
// TotalPages равен nil, если выборка выполнялась без пагинации.
type ListRes[T any] struct {
	Items      []T
	Page       int
	TotalPages *int
}

func NewListRes[T any](items []T, w pagination.Window, total int64) *ListRes[T] {
	return &ListRes[T]{
		Items:      items,
		Page:       w.Page,
		TotalPages: pagination.TotalPages(total, w),
	}
}

// CATALOG USECASE

// CreateDictionaryReq — запрос на создание записи справочника.
type CreateDictionaryReq struct {
	Kind        domain.DictionaryKind
	Name        string
	Description string
}

// UpdateDictionaryReq — частичное обновление записи справочника. nil-поля не меняются.
type UpdateDictionaryReq struct {
	Name        *string
	Description *string
}

// ListDictionaryReq — сырые параметры списка справочника.
type ListDictionaryReq struct {
	Kind        domain.DictionaryKind
	Page        int
	Limit       int
	Name        string
	Description string
}

// PRODUCT USECASE

// ProductImage представляет изображение, загруженное через multipart/form-data.
type ProductImage struct {
	Data     []byte // байты изображения
	MimeType string // Content-Type из multipart (image/jpeg)
	Size     int64  // фактический размер в байтах
	Name     string // оригинальное имя файла (для логов)
}

// BatchInput — поля новой партии.
type BatchInput struct {
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

// CreateProductReq — запрос на создание товара вместе с партиями и изображениями.
type CreateProductReq struct {
	Name                 string
	Description          string
	SellingPrice         decimal.Decimal
	Weight               string
	ManufacturingCountry string
	BrandID              *int64
	CategoryID           *int64
	Variant              *domain.Variant
	Batches              []BatchInput
	Images               []ProductImage
}

// UpdateProductReq — замена изменяемых полей товара. Images == nil оставляет изображения как есть,
// непустой список полностью заменяет набор.
type UpdateProductReq struct {
	Name                 *string
	Description          *string
	SellingPrice         *decimal.Decimal
	Weight               *string
	ManufacturingCountry *string
	BrandID              *int64
	CategoryID           *int64
	Variant              *domain.Variant
	Images               []ProductImage
}

// ListProductsReq — сырые параметры списка товаров.
type ListProductsReq struct {
	Page        int
	Limit       int
	Name        string
	Description string
	BrandID     *int64
	CategoryID  *int64
}

// ProductWithStock — товар с остатком на складе.
type ProductWithStock struct {
	Product       domain.Product
	TotalQuantity int64
}

// BATCH USECASE

// UpdateBatchReq — частичное обновление партии. nil-поля не меняются.
type UpdateBatchReq struct {
	ManufactureDate      *time.Time
	ExpiryDate           *time.Time
	Quantity             *int64
	PurchasePrice        *decimal.Decimal
	SellingPrice         *decimal.Decimal
	IsPromotion          *bool
	PromotionPrice       *decimal.Decimal
	ManufacturingCountry *string
	Note                 *string
}

// PURCHASE USECASE

// PurchaseLineReq — строка закупки.
type PurchaseLineReq struct {
	ProductID       int64
	Quantity        int64
	PurchasePrice   decimal.Decimal
	ManufactureDate *time.Time
	ExpiryDate      *time.Time
}

// CreatePurchaseReq — заголовок закупки и её строки.
type CreatePurchaseReq struct {
	PurchaseDate time.Time
	CurrencyID   *int64
	ExchangeRate decimal.Decimal
	ExtraCost    decimal.Decimal
	Note         string
	Lines        []PurchaseLineReq
}

// ListPurchasesReq — сырые параметры списка закупок.
type ListPurchasesReq struct {
	Page        int
	Limit       int
	OrderNumber string
	Note        string
	DateFrom    *time.Time
	DateTo      *time.Time
}

// PurchaseInfo — закупка со строками и проводками.
type PurchaseInfo struct {
	Purchase domain.Purchase
	Details  []domain.PurchaseDetail
	Postings []domain.StockPosting
}

// IMPORT USECASE

// ImportRow — строка файла импорта.
type ImportRow struct {
	Line            int
	Brand           string
	Category        string
	Name            string
	Description     string
	Price           decimal.Decimal
	Weight          string
	Qty             int64
	ManufactureDate *time.Time
	ExpiryDate      *time.Time
}

// ImportReq — разобранный файл импорта.
type ImportReq struct {
	Rows       []ImportRow
	CurrencyID *int64
}

// ImportRes — итог импорта.
type ImportRes struct {
	Imported    int
	Skipped     []int // номера пропущенных строк
	PurchaseID  int64
	OrderNumber string
}

// REPOSITORIES

// DictionaryFilter — фильтр списка справочника.
type DictionaryFilter struct {
	Window      pagination.Window
	Name        string
	Description string
}

// ProductFilter — фильтр списка товаров.
type ProductFilter struct {
	Window      pagination.Window
	Name        string
	Description string
	BrandID     *int64
	CategoryID  *int64
}

// PurchaseFilter — фильтр списка закупок.
type PurchaseFilter struct {
	Window      pagination.Window
	OrderNumber string
	Note        string
	DateFrom    *time.Time
	DateTo      *time.Time
}

// INFRASTUCTURE

// UploadImagesReq — запрос на загрузку изображений продукта.
type UploadImagesReq struct {
	Name   string
	Images []ProductImage
}

// UploadImagesRes — результат загрузки изображений.
type UploadImagesRes struct {
	Images []domain.Image
}

// WriteRawMessageReq — готовое сообщение для брокера.
type WriteRawMessageReq struct {
	Key       int64 // id агрегата, задаёт партицию
	EventID   string
	EventType OutboxEventType
	Payload   []byte
}

// MAPPERS

func NewProductWithStock(p domain.Product, qty int64) ProductWithStock {
	return ProductWithStock{
		Product:       p,
		TotalQuantity: qty,
	}
}

func NewUploadImagesReq(name string, images []ProductImage) *UploadImagesReq {
	return &UploadImagesReq{
		Name:   name,
		Images: images,
	}
}

func NewUploadImagesRes(images []domain.Image) *UploadImagesRes {
	return &UploadImagesRes{
		Images: images,
	}
}

func NewProductImage(data []byte, mimeType string, size int64, name string) *ProductImage {
	return &ProductImage{
		Data:     data,
		MimeType: mimeType,
		Size:     size,
		Name:     name,
	}
}

func NewWriteRawMessageReq(event *OutboxEvent) *WriteRawMessageReq {
	return &WriteRawMessageReq{
		Key:       event.AggregateID,
		EventID:   event.EventID,
		EventType: event.EventType,
		Payload:   event.Payload,
	}
}
