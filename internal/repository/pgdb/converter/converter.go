package converter

import (
	"encoding/json"
	"fmt"

	"github.com/DRSN-tech/inventory-backend/internal/domain"
	"github.com/DRSN-tech/inventory-backend/internal/usecase"
)

// DictionaryConverter преобразует записи справочников между domain и моделью PostgreSQL.
type DictionaryConverter interface {
	ToModel(entity *domain.Dictionary) *DictionaryModel
	ToEntity(kind domain.DictionaryKind, model *DictionaryModel) *domain.Dictionary
}

// ProductConverter преобразует сущности Product между domain и моделью PostgreSQL.
type ProductConverter interface {
	ToModel(entity *domain.Product) (*ProductModel, error)
	ToEntity(model *ProductModel) (*domain.Product, error)
}

// PurchaseConverter преобразует закупки, их строки и проводки.
type PurchaseConverter interface {
	ToEntity(model *PurchaseModel) *domain.Purchase
	DetailToEntity(model *PurchaseDetailModel) domain.PurchaseDetail
	PostingToEntity(model *StockPostingModel) domain.StockPosting
}

// OutboxEventConverter преобразует сущности OutboxEvent между usecase и моделью PostgreSQL.
type OutboxEventConverter interface {
	ToModel(entity *usecase.OutboxEvent) *OutboxEventModel
	ToEntity(model *OutboxEventModel) *usecase.OutboxEvent
	ToArrEntity(models []*OutboxEventModel) []*usecase.OutboxEvent
}

type DictionaryConverterImpl struct{}

func (DictionaryConverterImpl) ToModel(entity *domain.Dictionary) *DictionaryModel {
	if entity == nil {
		return nil
	}
	return &DictionaryModel{
		ID:          entity.ID,
		Name:        entity.Name,
		Description: entity.Description,
		CreatedAt:   entity.CreatedAt,
		UpdatedAt:   entity.UpdatedAt,
	}
}

func (DictionaryConverterImpl) ToEntity(kind domain.DictionaryKind, model *DictionaryModel) *domain.Dictionary {
	if model == nil {
		return nil
	}
	return &domain.Dictionary{
		ID:          model.ID,
		Kind:        kind,
		Name:        model.Name,
		Description: model.Description,
		CreatedAt:   model.CreatedAt,
		UpdatedAt:   model.UpdatedAt,
	}
}

type ProductConverterImpl struct{}

func (ProductConverterImpl) ToModel(entity *domain.Product) (*ProductModel, error) {
	if entity == nil {
		return nil, nil
	}

	batches := make([]BatchModel, 0, len(entity.Batches))
	for _, b := range entity.Batches {
		batches = append(batches, BatchModel{
			ID:                   b.ID,
			CreatedDate:          b.CreatedDate,
			ManufactureDate:      b.ManufactureDate,
			ExpiryDate:           b.ExpiryDate,
			Quantity:             b.Quantity,
			PurchasePrice:        b.PurchasePrice,
			SellingPrice:         b.SellingPrice,
			IsPromotion:          b.IsPromotion,
			PromotionPrice:       b.PromotionPrice,
			ManufacturingCountry: b.ManufacturingCountry,
			Note:                 b.Note,
		})
	}
	images := make([]ImageModel, 0, len(entity.Images))
	for _, img := range entity.Images {
		images = append(images, ImageModel{ID: img.ID, URL: img.URL, FileName: img.FileName})
	}

	batchesJSON, err := json.Marshal(batches)
	if err != nil {
		return nil, fmt.Errorf("marshal batches: %w", err)
	}
	imagesJSON, err := json.Marshal(images)
	if err != nil {
		return nil, fmt.Errorf("marshal images: %w", err)
	}

	var variantJSON []byte
	if entity.Variant != nil {
		variantJSON, err = json.Marshal(VariantModel{
			Type:      string(entity.Variant.Type),
			ColorCode: entity.Variant.ColorCode,
			Size:      entity.Variant.Size,
		})
		if err != nil {
			return nil, fmt.Errorf("marshal variant: %w", err)
		}
	}

	return &ProductModel{
		ID:                   entity.ID,
		Name:                 entity.Name,
		Description:          entity.Description,
		SellingPrice:         entity.SellingPrice,
		Weight:               entity.Weight,
		ManufacturingCountry: entity.ManufacturingCountry,
		BrandID:              entity.BrandID,
		CategoryID:           entity.CategoryID,
		Variant:              variantJSON,
		Images:               imagesJSON,
		Batches:              batchesJSON,
		Version:              entity.Version,
		CreatedAt:            entity.CreatedAt,
		UpdatedAt:            entity.UpdatedAt,
	}, nil
}

func (ProductConverterImpl) ToEntity(model *ProductModel) (*domain.Product, error) {
	if model == nil {
		return nil, nil
	}

	var batches []BatchModel
	if len(model.Batches) > 0 {
		if err := json.Unmarshal(model.Batches, &batches); err != nil {
			return nil, fmt.Errorf("unmarshal batches of product %d: %w", model.ID, err)
		}
	}
	var images []ImageModel
	if len(model.Images) > 0 {
		if err := json.Unmarshal(model.Images, &images); err != nil {
			return nil, fmt.Errorf("unmarshal images of product %d: %w", model.ID, err)
		}
	}

	product := &domain.Product{
		ID:                   model.ID,
		Name:                 model.Name,
		Description:          model.Description,
		SellingPrice:         model.SellingPrice,
		Weight:               model.Weight,
		ManufacturingCountry: model.ManufacturingCountry,
		BrandID:              model.BrandID,
		CategoryID:           model.CategoryID,
		Images:               make([]domain.Image, 0, len(images)),
		Batches:              make([]domain.Batch, 0, len(batches)),
		Version:              model.Version,
		CreatedAt:            model.CreatedAt,
		UpdatedAt:            model.UpdatedAt,
	}
	if model.BrandName != nil {
		product.BrandName = *model.BrandName
	}
	if model.CategoryName != nil {
		product.CategoryName = *model.CategoryName
	}

	if len(model.Variant) > 0 && string(model.Variant) != "null" {
		var v VariantModel
		if err := json.Unmarshal(model.Variant, &v); err != nil {
			return nil, fmt.Errorf("unmarshal variant of product %d: %w", model.ID, err)
		}
		product.Variant = &domain.Variant{Type: domain.VariantType(v.Type), ColorCode: v.ColorCode, Size: v.Size}
	}

	for _, b := range batches {
		product.Batches = append(product.Batches, domain.Batch{
			ID:                   b.ID,
			CreatedDate:          b.CreatedDate,
			ManufactureDate:      b.ManufactureDate,
			ExpiryDate:           b.ExpiryDate,
			Quantity:             b.Quantity,
			PurchasePrice:        b.PurchasePrice,
			SellingPrice:         b.SellingPrice,
			IsPromotion:          b.IsPromotion,
			PromotionPrice:       b.PromotionPrice,
			ManufacturingCountry: b.ManufacturingCountry,
			Note:                 b.Note,
		})
	}
	for _, img := range images {
		product.Images = append(product.Images, *domain.NewImage(img.ID, img.URL, img.FileName))
	}

	return product, nil
}

type PurchaseConverterImpl struct{}

func (PurchaseConverterImpl) ToEntity(model *PurchaseModel) *domain.Purchase {
	if model == nil {
		return nil
	}
	return &domain.Purchase{
		ID:           model.ID,
		OrderNumber:  model.OrderNumber,
		PurchaseDate: model.PurchaseDate,
		CurrencyID:   model.CurrencyID,
		ExchangeRate: model.ExchangeRate,
		ExtraCost:    model.ExtraCost,
		Note:         model.Note,
		CreatedAt:    model.CreatedAt,
		UpdatedAt:    model.UpdatedAt,
	}
}

func (PurchaseConverterImpl) DetailToEntity(model *PurchaseDetailModel) domain.PurchaseDetail {
	return domain.PurchaseDetail{
		ID:              model.ID,
		PurchaseID:      model.PurchaseID,
		ProductID:       model.ProductID,
		Quantity:        model.Quantity,
		PurchasePrice:   model.PurchasePrice,
		ItemCost:        model.ItemCost,
		ManufactureDate: model.ManufactureDate,
		ExpiryDate:      model.ExpiryDate,
		CreatedAt:       model.CreatedAt,
	}
}

func (PurchaseConverterImpl) PostingToEntity(model *StockPostingModel) domain.StockPosting {
	return domain.StockPosting{
		ID:              model.ID,
		ProductID:       model.ProductID,
		PurchaseID:      model.PurchaseID,
		Quantity:        model.Quantity,
		PurchasePrice:   model.PurchasePrice,
		ItemCost:        model.ItemCost,
		ManufactureDate: model.ManufactureDate,
		ExpiryDate:      model.ExpiryDate,
		CreatedAt:       model.CreatedAt,
	}
}

type OutboxEventConverterImpl struct{}

func (OutboxEventConverterImpl) ToModel(entity *usecase.OutboxEvent) *OutboxEventModel {
	if entity == nil {
		return nil
	}
	return &OutboxEventModel{
		ID:          entity.ID,
		EventID:     entity.EventID,
		EventType:   string(entity.EventType),
		AggregateID: entity.AggregateID,
		Payload:     entity.Payload,
		Status:      string(entity.Status),
		Attempts:    entity.Attempts,
		CreatedAt:   entity.CreatedAt,
		ProcessedAt: entity.ProcessedAt,
	}
}

func (OutboxEventConverterImpl) ToEntity(model *OutboxEventModel) *usecase.OutboxEvent {
	if model == nil {
		return nil
	}
	return &usecase.OutboxEvent{
		ID:          model.ID,
		EventID:     model.EventID,
		EventType:   usecase.OutboxEventType(model.EventType),
		AggregateID: model.AggregateID,
		Payload:     model.Payload,
		Status:      usecase.OutboxStatus(model.Status),
		Attempts:    model.Attempts,
		CreatedAt:   model.CreatedAt,
		ProcessedAt: model.ProcessedAt,
	}
}

func (c OutboxEventConverterImpl) ToArrEntity(models []*OutboxEventModel) []*usecase.OutboxEvent {
	out := make([]*usecase.OutboxEvent, 0, len(models))
	for _, m := range models {
		out = append(out, c.ToEntity(m))
	}
	return out
}
