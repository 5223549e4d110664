package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// VariantType — тип варианта товара.
type VariantType string

const (
	VariantColor VariantType = "color"
	VariantSize  VariantType = "size"
)

// Variant — метка варианта товара (цвет или размер).
type Variant struct {
	Type      VariantType
	ColorCode string
	Size      string
}

// Product описывает товар вместе со встроенными партиями и изображениями.
type Product struct {
	ID                   int64
	Name                 string
	Description          string
	SellingPrice         decimal.Decimal
	Weight               string
	ManufacturingCountry string
	BrandID              *int64
	CategoryID           *int64
	BrandName            string // заполняется при раскрытии ссылок
	CategoryName         string
	Variant              *Variant
	Images               []Image
	Batches              []Batch
	Version              int64 // токен оптимистичной блокировки
	CreatedAt            time.Time
	UpdatedAt            *time.Time
}

func NewProduct(name, description string, sellingPrice decimal.Decimal, weight string) *Product {
	return &Product{
		Name:         name,
		Description:  description,
		SellingPrice: sellingPrice,
		Weight:       weight,
		Images:       []Image{},
		Batches:      []Batch{},
	}
}

// FindBatch возвращает индекс партии с указанным id или -1.
func (p *Product) FindBatch(batchID string) int {
	for i := range p.Batches {
		if p.Batches[i].ID == batchID {
			return i
		}
	}
	return -1
}

// HasBatchDates проверяет, есть ли у товара партия с той же парой дат, не считая excludeID.
func (p *Product) HasBatchDates(manufacture, expiry *time.Time, excludeID string) bool {
	for _, b := range p.Batches {
		if b.ID == excludeID {
			continue
		}
		if sameDate(b.ManufactureDate, manufacture) && sameDate(b.ExpiryDate, expiry) {
			return true
		}
	}
	return false
}

// RemoveBatch удаляет партию по id. Возвращает false, если партии не было.
func (p *Product) RemoveBatch(batchID string) bool {
	idx := p.FindBatch(batchID)
	if idx < 0 {
		return false
	}
	p.Batches = append(p.Batches[:idx:idx], p.Batches[idx+1:]...)
	return true
}

// FindImage возвращает индекс изображения с указанным id или -1.
func (p *Product) FindImage(imageID string) int {
	for i := range p.Images {
		if p.Images[i].ID == imageID {
			return i
		}
	}
	return -1
}

// ImageKeys возвращает ключи всех изображений товара в хранилище.
func (p *Product) ImageKeys() []string {
	keys := make([]string, 0, len(p.Images))
	for _, img := range p.Images {
		keys = append(keys, img.FileName)
	}
	return keys
}

func sameDate(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.Equal(*b)
}

// Valid проверяет тип варианта.
func (v *Variant) Valid() bool {
	if v == nil {
		return true
	}
	return v.Type == VariantColor || v.Type == VariantSize
}
