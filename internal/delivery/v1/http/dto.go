package http

import (
	"time"

	"github.com/DRSN-tech/inventory-backend/internal/domain"
	"github.com/DRSN-tech/inventory-backend/internal/usecase"
	"github.com/shopspring/decimal"
)

// LIST

type ListResponse[T any] struct {
	Data       []T  `json:"data"`
	Page       int  `json:"page"`
	TotalPages *int `json:"totalPages,omitempty"`
}

func toListResponse[S, T any](res *usecase.ListRes[S], mapper func(*S) T) ListResponse[T] {
	data := make([]T, 0, len(res.Items))
	for i := range res.Items {
		data = append(data, mapper(&res.Items[i]))
	}
	return ListResponse[T]{Data: data, Page: res.Page, TotalPages: res.TotalPages}
}

// DICTIONARIES

type DictionaryRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type DictionaryUpdateRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
}

type DictionaryResponse struct {
	ID          int64      `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   *time.Time `json:"updatedAt,omitempty"`
}

func toDictionaryResponse(d *domain.Dictionary) DictionaryResponse {
	return DictionaryResponse{
		ID:          d.ID,
		Name:        d.Name,
		Description: d.Description,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
}

// PRODUCTS

type VariantDTO struct {
	Type      string `json:"type"`
	ColorCode string `json:"colorCode,omitempty"`
	Size      string `json:"size,omitempty"`
}

type BatchRequest struct {
	ManufactureDate      string           `json:"manufactureDate"`
	ExpiryDate           string           `json:"expiryDate"`
	Quantity             int64            `json:"quantity"`
	PurchasePrice        decimal.Decimal  `json:"purchasePrice"`
	SellingPrice         decimal.Decimal  `json:"sellingPrice"`
	IsPromotion          bool             `json:"isPromotion"`
	PromotionPrice       *decimal.Decimal `json:"promotionPrice"`
	ManufacturingCountry string           `json:"manufacturingCountry"`
	Note                 string           `json:"note"`
}

type BatchUpdateRequest struct {
	ManufactureDate      *string          `json:"manufactureDate"`
	ExpiryDate           *string          `json:"expiryDate"`
	Quantity             *int64           `json:"quantity"`
	PurchasePrice        *decimal.Decimal `json:"purchasePrice"`
	SellingPrice         *decimal.Decimal `json:"sellingPrice"`
	IsPromotion          *bool            `json:"isPromotion"`
	PromotionPrice       *decimal.Decimal `json:"promotionPrice"`
	ManufacturingCountry *string          `json:"manufacturingCountry"`
	Note                 *string          `json:"note"`
}

// ProductRequest — JSON из поля "product" multipart-формы создания товара.
type ProductRequest struct {
	Name                 string          `json:"name"`
	Description          string          `json:"description"`
	SellingPrice         decimal.Decimal `json:"sellingPrice"`
	Weight               string          `json:"weight"`
	ManufacturingCountry string          `json:"manufacturingCountry"`
	BrandID              *int64          `json:"brandId"`
	CategoryID           *int64          `json:"categoryId"`
	Variant              *VariantDTO     `json:"variant"`
	Batches              []BatchRequest  `json:"batches"`
}

type ProductUpdateRequest struct {
	Name                 *string          `json:"name"`
	Description          *string          `json:"description"`
	SellingPrice         *decimal.Decimal `json:"sellingPrice"`
	Weight               *string          `json:"weight"`
	ManufacturingCountry *string          `json:"manufacturingCountry"`
	BrandID              *int64           `json:"brandId"`
	CategoryID           *int64           `json:"categoryId"`
	Variant              *VariantDTO      `json:"variant"`
}

type ImageResponse struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

type BatchResponse struct {
	ID                   string           `json:"id"`
	CreatedDate          int64            `json:"createdDate"`
	ManufactureDate      *string          `json:"manufactureDate"`
	ExpiryDate           *string          `json:"expiryDate"`
	Quantity             int64            `json:"quantity"`
	PurchasePrice        decimal.Decimal  `json:"purchasePrice"`
	SellingPrice         decimal.Decimal  `json:"sellingPrice"`
	IsPromotion          bool             `json:"isPromotion"`
	PromotionPrice       *decimal.Decimal `json:"promotionPrice,omitempty"`
	ManufacturingCountry string           `json:"manufacturingCountry,omitempty"`
	Note                 string           `json:"note,omitempty"`
}

type ProductResponse struct {
	ID                   int64           `json:"id"`
	Name                 string          `json:"name"`
	Description          string          `json:"description"`
	SellingPrice         decimal.Decimal `json:"sellingPrice"`
	Weight               string          `json:"weight"`
	ManufacturingCountry string          `json:"manufacturingCountry"`
	BrandID              *int64          `json:"brandId"`
	BrandName            string          `json:"brandName,omitempty"`
	CategoryID           *int64          `json:"categoryId"`
	CategoryName         string          `json:"categoryName,omitempty"`
	Variant              *VariantDTO     `json:"variant,omitempty"`
	Images               []ImageResponse `json:"images"`
	Batches              []BatchResponse `json:"batches"`
	TotalQuantity        *int64          `json:"totalQuantity,omitempty"`
	Version              int64           `json:"version"`
	CreatedAt            time.Time       `json:"createdAt"`
	UpdatedAt            *time.Time      `json:"updatedAt,omitempty"`
}

func (v *VariantDTO) toDomain() *domain.Variant {
	if v == nil {
		return nil
	}
	return &domain.Variant{
		Type:      domain.VariantType(v.Type),
		ColorCode: v.ColorCode,
		Size:      v.Size,
	}
}

func toVariantDTO(v *domain.Variant) *VariantDTO {
	if v == nil {
		return nil
	}
	return &VariantDTO{Type: string(v.Type), ColorCode: v.ColorCode, Size: v.Size}
}

func (b *BatchRequest) toInput() (*usecase.BatchInput, error) {
	manufacture, err := parseDate(b.ManufactureDate)
	if err != nil {
		return nil, err
	}
	expiry, err := parseDate(b.ExpiryDate)
	if err != nil {
		return nil, err
	}

	return &usecase.BatchInput{
		ManufactureDate:      manufacture,
		ExpiryDate:           expiry,
		Quantity:             b.Quantity,
		PurchasePrice:        b.PurchasePrice,
		SellingPrice:         b.SellingPrice,
		IsPromotion:          b.IsPromotion,
		PromotionPrice:       b.PromotionPrice,
		ManufacturingCountry: b.ManufacturingCountry,
		Note:                 b.Note,
	}, nil
}

func (b *BatchUpdateRequest) toUpdate() (*usecase.UpdateBatchReq, error) {
	req := &usecase.UpdateBatchReq{
		Quantity:             b.Quantity,
		PurchasePrice:        b.PurchasePrice,
		SellingPrice:         b.SellingPrice,
		IsPromotion:          b.IsPromotion,
		PromotionPrice:       b.PromotionPrice,
		ManufacturingCountry: b.ManufacturingCountry,
		Note:                 b.Note,
	}

	var err error
	if b.ManufactureDate != nil {
		if req.ManufactureDate, err = parseDate(*b.ManufactureDate); err != nil {
			return nil, err
		}
	}
	if b.ExpiryDate != nil {
		if req.ExpiryDate, err = parseDate(*b.ExpiryDate); err != nil {
			return nil, err
		}
	}
	return req, nil
}

func (p *ProductRequest) toCreate(images []usecase.ProductImage) (*usecase.CreateProductReq, error) {
	batches := make([]usecase.BatchInput, 0, len(p.Batches))
	for i := range p.Batches {
		input, err := p.Batches[i].toInput()
		if err != nil {
			return nil, err
		}
		batches = append(batches, *input)
	}

	return &usecase.CreateProductReq{
		Name:                 p.Name,
		Description:          p.Description,
		SellingPrice:         p.SellingPrice,
		Weight:               p.Weight,
		ManufacturingCountry: p.ManufacturingCountry,
		BrandID:              p.BrandID,
		CategoryID:           p.CategoryID,
		Variant:              p.Variant.toDomain(),
		Batches:              batches,
		Images:               images,
	}, nil
}

func (p *ProductUpdateRequest) toUpdate(images []usecase.ProductImage) *usecase.UpdateProductReq {
	return &usecase.UpdateProductReq{
		Name:                 p.Name,
		Description:          p.Description,
		SellingPrice:         p.SellingPrice,
		Weight:               p.Weight,
		ManufacturingCountry: p.ManufacturingCountry,
		BrandID:              p.BrandID,
		CategoryID:           p.CategoryID,
		Variant:              p.Variant.toDomain(),
		Images:               images,
	}
}

func toBatchResponse(b *domain.Batch) BatchResponse {
	return BatchResponse{
		ID:                   b.ID,
		CreatedDate:          b.CreatedDate,
		ManufactureDate:      formatDate(b.ManufactureDate),
		ExpiryDate:           formatDate(b.ExpiryDate),
		Quantity:             b.Quantity,
		PurchasePrice:        b.PurchasePrice,
		SellingPrice:         b.SellingPrice,
		IsPromotion:          b.IsPromotion,
		PromotionPrice:       b.PromotionPrice,
		ManufacturingCountry: b.ManufacturingCountry,
		Note:                 b.Note,
	}
}

func toProductResponse(p *domain.Product) ProductResponse {
	images := make([]ImageResponse, 0, len(p.Images))
	for _, img := range p.Images {
		images = append(images, ImageResponse{ID: img.ID, URL: img.URL})
	}
	batches := make([]BatchResponse, 0, len(p.Batches))
	for i := range p.Batches {
		batches = append(batches, toBatchResponse(&p.Batches[i]))
	}

	return ProductResponse{
		ID:                   p.ID,
		Name:                 p.Name,
		Description:          p.Description,
		SellingPrice:         p.SellingPrice,
		Weight:               p.Weight,
		ManufacturingCountry: p.ManufacturingCountry,
		BrandID:              p.BrandID,
		BrandName:            p.BrandName,
		CategoryID:           p.CategoryID,
		CategoryName:         p.CategoryName,
		Variant:              toVariantDTO(p.Variant),
		Images:               images,
		Batches:              batches,
		Version:              p.Version,
		CreatedAt:            p.CreatedAt,
		UpdatedAt:            p.UpdatedAt,
	}
}

func toProductWithStockResponse(p *usecase.ProductWithStock) ProductResponse {
	res := toProductResponse(&p.Product)
	qty := p.TotalQuantity
	res.TotalQuantity = &qty
	return res
}

// PURCHASES

type PurchaseLineRequest struct {
	ProductID       int64           `json:"productId"`
	Quantity        int64           `json:"quantity"`
	PurchasePrice   decimal.Decimal `json:"purchasePrice"`
	ManufactureDate string          `json:"manufactureDate"`
	ExpiryDate      string          `json:"expiryDate"`
}

type PurchaseRequest struct {
	PurchaseDate string                `json:"purchaseDate"`
	CurrencyID   *int64                `json:"currencyId"`
	ExchangeRate decimal.Decimal       `json:"exchangeRate"`
	ExtraCost    decimal.Decimal       `json:"extraCost"`
	Note         string                `json:"note"`
	Lines        []PurchaseLineRequest `json:"lines"`
}

type PurchaseLineResponse struct {
	ID              int64           `json:"id"`
	ProductID       int64           `json:"productId"`
	Quantity        int64           `json:"quantity"`
	PurchasePrice   decimal.Decimal `json:"purchasePrice"`
	ItemCost        decimal.Decimal `json:"itemCost"`
	ManufactureDate *string         `json:"manufactureDate"`
	ExpiryDate      *string         `json:"expiryDate"`
}

type PurchaseResponse struct {
	ID           int64                  `json:"id"`
	OrderNumber  string                 `json:"orderNumber"`
	PurchaseDate string                 `json:"purchaseDate"`
	CurrencyID   *int64                 `json:"currencyId"`
	ExchangeRate decimal.Decimal        `json:"exchangeRate"`
	ExtraCost    decimal.Decimal        `json:"extraCost"`
	Note         string                 `json:"note"`
	CreatedAt    time.Time              `json:"createdAt"`
	Details      []PurchaseLineResponse `json:"details,omitempty"`
	Postings     []PurchaseLineResponse `json:"postings,omitempty"`
}

func (p *PurchaseRequest) toCreate() (*usecase.CreatePurchaseReq, error) {
	req := &usecase.CreatePurchaseReq{
		CurrencyID:   p.CurrencyID,
		ExchangeRate: p.ExchangeRate,
		ExtraCost:    p.ExtraCost,
		Note:         p.Note,
		Lines:        make([]usecase.PurchaseLineReq, 0, len(p.Lines)),
	}

	purchaseDate, err := parseDate(p.PurchaseDate)
	if err != nil {
		return nil, err
	}
	if purchaseDate != nil {
		req.PurchaseDate = *purchaseDate
	}

	for _, line := range p.Lines {
		manufacture, err := parseDate(line.ManufactureDate)
		if err != nil {
			return nil, err
		}
		expiry, err := parseDate(line.ExpiryDate)
		if err != nil {
			return nil, err
		}
		req.Lines = append(req.Lines, usecase.PurchaseLineReq{
			ProductID:       line.ProductID,
			Quantity:        line.Quantity,
			PurchasePrice:   line.PurchasePrice,
			ManufactureDate: manufacture,
			ExpiryDate:      expiry,
		})
	}

	return req, nil
}

func toPurchaseResponse(p *domain.Purchase) PurchaseResponse {
	return PurchaseResponse{
		ID:           p.ID,
		OrderNumber:  p.OrderNumber,
		PurchaseDate: p.PurchaseDate.UTC().Format(dateLayout),
		CurrencyID:   p.CurrencyID,
		ExchangeRate: p.ExchangeRate,
		ExtraCost:    p.ExtraCost,
		Note:         p.Note,
		CreatedAt:    p.CreatedAt,
	}
}

func toPurchaseInfoResponse(info *usecase.PurchaseInfo) PurchaseResponse {
	res := toPurchaseResponse(&info.Purchase)

	res.Details = make([]PurchaseLineResponse, 0, len(info.Details))
	for _, d := range info.Details {
		res.Details = append(res.Details, PurchaseLineResponse{
			ID:              d.ID,
			ProductID:       d.ProductID,
			Quantity:        d.Quantity,
			PurchasePrice:   d.PurchasePrice,
			ItemCost:        d.ItemCost,
			ManufactureDate: formatDate(d.ManufactureDate),
			ExpiryDate:      formatDate(d.ExpiryDate),
		})
	}

	res.Postings = make([]PurchaseLineResponse, 0, len(info.Postings))
	for _, s := range info.Postings {
		res.Postings = append(res.Postings, PurchaseLineResponse{
			ID:              s.ID,
			ProductID:       s.ProductID,
			Quantity:        s.Quantity,
			PurchasePrice:   s.PurchasePrice,
			ItemCost:        s.ItemCost,
			ManufactureDate: formatDate(s.ManufactureDate),
			ExpiryDate:      formatDate(s.ExpiryDate),
		})
	}

	return res
}

// STOCK

type StockItem struct {
	ProductID     int64 `json:"productId"`
	TotalQuantity int64 `json:"totalQuantity"`
}

type StockResponse struct {
	Data []StockItem `json:"data"`
}

// IMPORT

type ImportResponse struct {
	Imported    int    `json:"imported"`
	Skipped     []int  `json:"skipped"`
	PurchaseID  int64  `json:"purchaseId,omitempty"`
	OrderNumber string `json:"orderNumber,omitempty"`
}

// HEALTH

type HealthResponse struct {
	Status string `json:"status"`
}
