package usecase

import (
	"github.com/DRSN-tech/inventory-backend/internal/domain"
	"github.com/DRSN-tech/inventory-backend/pkg/e"
	"github.com/shopspring/decimal"
)

// validatePrices проверяет, что переданные цены не отрицательны. nil пропускается.
func validatePrices(prices ...*decimal.Decimal) error {
	for _, price := range prices {
		if price != nil && price.IsNegative() {
			return e.ErrInvalidPrice
		}
	}
	return nil
}

// validateImages проверяет набор загружаемых изображений. maxImages <= 0 снимает ограничение.
func validateImages(images []ProductImage, maxImages int) error {
	if maxImages > 0 && len(images) > maxImages {
		return e.ErrTooManyImages
	}
	for _, img := range images {
		if len(img.Data) == 0 {
			return e.ErrEmptyImage
		}
		if !domain.IsSupportedImageType(img.MimeType) {
			return e.ErrUnsupportedMediaType
		}
	}
	return nil
}
