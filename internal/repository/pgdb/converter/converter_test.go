package converter

import (
	"reflect"
	"testing"
	"time"

	"github.com/DRSN-tech/inventory-backend/internal/domain"
	"github.com/shopspring/decimal"
)

func TestProductConverterKeepsBatches(t *testing.T) {
	mnu := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	promo := decimal.RequireFromString("7.5")
	product := &domain.Product{
		ID:           7,
		Name:         "Lipstick A",
		SellingPrice: decimal.NewFromInt(10),
		Variant:      &domain.Variant{Type: domain.VariantColor, ColorCode: "#aa0000"},
		Batches: []domain.Batch{
			{ID: "b1", CreatedDate: 1700000000, ManufactureDate: &mnu, Quantity: 4, PurchasePrice: decimal.RequireFromString("2.10"), IsPromotion: true, PromotionPrice: &promo},
		},
		Images:  []domain.Image{{ID: "i1", URL: "http://s3/bucket/k", FileName: "k"}},
		Version: 3,
	}

	conv := ProductConverterImpl{}
	model, err := conv.ToModel(product)
	if err != nil {
		t.Fatalf("ToModel: %v", err)
	}
	got, err := conv.ToEntity(model)
	if err != nil {
		t.Fatalf("ToEntity: %v", err)
	}

	if len(got.Batches) != 1 {
		t.Fatalf("batches = %d", len(got.Batches))
	}
	b := got.Batches[0]
	if b.ID != "b1" || b.CreatedDate != 1700000000 || b.Quantity != 4 || !b.IsPromotion {
		t.Errorf("batch = %+v", b)
	}
	if !b.PurchasePrice.Equal(decimal.RequireFromString("2.1")) || b.PromotionPrice == nil || !b.PromotionPrice.Equal(promo) {
		t.Errorf("prices = %s / %v", b.PurchasePrice, b.PromotionPrice)
	}
	if b.ManufactureDate == nil || !b.ManufactureDate.Equal(mnu) || b.ExpiryDate != nil {
		t.Errorf("dates = %v / %v", b.ManufactureDate, b.ExpiryDate)
	}
	if !reflect.DeepEqual(got.Images, product.Images) {
		t.Errorf("images = %+v", got.Images)
	}
	if got.Variant == nil || *got.Variant != *product.Variant {
		t.Errorf("variant = %+v", got.Variant)
	}
}

func TestProductConverterEmptyCollections(t *testing.T) {
	got, err := ProductConverterImpl{}.ToEntity(&ProductModel{ID: 1, Batches: []byte("[]"), Images: []byte("[]")})
	if err != nil {
		t.Fatalf("ToEntity: %v", err)
	}
	if got.Batches == nil || got.Images == nil || got.Variant != nil {
		t.Errorf("product = %+v", got)
	}
}
