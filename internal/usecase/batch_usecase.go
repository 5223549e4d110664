package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/DRSN-tech/inventory-backend/internal/domain"
	"github.com/DRSN-tech/inventory-backend/pkg/e"
	"github.com/DRSN-tech/inventory-backend/pkg/jitter"
	"github.com/DRSN-tech/inventory-backend/pkg/logger"
	"github.com/google/uuid"
)

var batchBackoff = jitter.Backoff{
	Base:     20 * time.Millisecond,
	Max:      200 * time.Millisecond,
	Attempts: 3,
}

// BatchUseCase ведёт партии, встроенные в строку товара.
// Каждое изменение выполняется циклом «прочитать, проверить, записать с проверкой версии».
type BatchUseCase struct {
	productRepo ProductRepository
	logger      logger.Logger
	now         func() time.Time
}

func NewBatchUC(productRepo ProductRepository, logger logger.Logger) *BatchUseCase {
	return &BatchUseCase{
		productRepo: productRepo,
		logger:      logger,
		now:         time.Now,
	}
}

// AddBatch добавляет партию, если у товара нет партии с той же парой дат.
func (b *BatchUseCase) AddBatch(ctx context.Context, productID int64, req *BatchInput) (*domain.Product, error) {
	const op = "BatchUseCase.AddBatch"

	if err := validateBatchInput(req); err != nil {
		return nil, e.Wrap(op, err)
	}

	product, err := b.mutate(ctx, productID, func(p *domain.Product) (bool, error) {
		if p.HasBatchDates(req.ManufactureDate, req.ExpiryDate, "") {
			return false, e.ErrDuplicateBatch
		}
		p.Batches = append(p.Batches, newBatch(req, b.now()))
		return true, nil
	})
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	return product, nil
}

// UpdateBatch переносит в партию переданные поля. Смена дат проверяется на совпадение с другими партиями.
func (b *BatchUseCase) UpdateBatch(ctx context.Context, productID int64, batchID string, req *UpdateBatchReq) (*domain.Product, error) {
	const op = "BatchUseCase.UpdateBatch"

	if req.Quantity != nil && *req.Quantity < 0 {
		return nil, e.Wrap(op, e.ErrNegativeQuantity)
	}
	if err := validatePrices(req.PurchasePrice, req.SellingPrice, req.PromotionPrice); err != nil {
		return nil, e.Wrap(op, err)
	}

	product, err := b.mutate(ctx, productID, func(p *domain.Product) (bool, error) {
		idx := p.FindBatch(batchID)
		if idx < 0 {
			return false, e.ErrBatchNotFound
		}

		batch := p.Batches[idx]
		applyBatchUpdate(&batch, req)
		if (req.ManufactureDate != nil || req.ExpiryDate != nil) &&
			p.HasBatchDates(batch.ManufactureDate, batch.ExpiryDate, batchID) {
			return false, e.ErrDuplicateBatch
		}

		p.Batches[idx] = batch
		return true, nil
	})
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	return product, nil
}

// DeleteBatch удаляет партию. Отсутствующая партия не считается ошибкой, запись не выполняется.
func (b *BatchUseCase) DeleteBatch(ctx context.Context, productID int64, batchID string) (*domain.Product, error) {
	const op = "BatchUseCase.DeleteBatch"

	product, err := b.mutate(ctx, productID, func(p *domain.Product) (bool, error) {
		return p.RemoveBatch(batchID), nil
	})
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	return product, nil
}

// mutate загружает товар, применяет fn и сохраняет результат с проверкой версии.
// При конфликте версий цикл повторяется целиком.
func (b *BatchUseCase) mutate(ctx context.Context, productID int64, fn func(p *domain.Product) (bool, error)) (*domain.Product, error) {
	var result *domain.Product
	err := batchBackoff.Retry(ctx, isVersionConflict, func(attempt int) error {
		if attempt > 0 {
			b.logger.Debugf("product %d changed concurrently, retrying batch write (attempt %d)", productID, attempt)
		}

		product, err := b.productRepo.GetByID(ctx, productID)
		if err != nil {
			return err
		}

		changed, err := fn(product)
		if err != nil {
			return err
		}
		if !changed {
			result = product
			return nil
		}

		result, err = b.productRepo.Update(ctx, product)
		return err
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}

func isVersionConflict(err error) bool {
	return errors.Is(err, e.ErrConflict)
}

func newBatch(req *BatchInput, now time.Time) domain.Batch {
	return domain.Batch{
		ID:                   uuid.NewString(),
		CreatedDate:          now.Unix(),
		ManufactureDate:      req.ManufactureDate,
		ExpiryDate:           req.ExpiryDate,
		Quantity:             req.Quantity,
		PurchasePrice:        req.PurchasePrice,
		SellingPrice:         req.SellingPrice,
		IsPromotion:          req.IsPromotion,
		PromotionPrice:       req.PromotionPrice,
		ManufacturingCountry: req.ManufacturingCountry,
		Note:                 req.Note,
	}
}

func applyBatchUpdate(batch *domain.Batch, req *UpdateBatchReq) {
	if req.ManufactureDate != nil {
		batch.ManufactureDate = req.ManufactureDate
	}
	if req.ExpiryDate != nil {
		batch.ExpiryDate = req.ExpiryDate
	}
	if req.Quantity != nil {
		batch.Quantity = *req.Quantity
	}
	if req.PurchasePrice != nil {
		batch.PurchasePrice = *req.PurchasePrice
	}
	if req.SellingPrice != nil {
		batch.SellingPrice = *req.SellingPrice
	}
	if req.IsPromotion != nil {
		batch.IsPromotion = *req.IsPromotion
	}
	if req.PromotionPrice != nil {
		batch.PromotionPrice = req.PromotionPrice
	}
	if req.ManufacturingCountry != nil {
		batch.ManufacturingCountry = *req.ManufacturingCountry
	}
	if req.Note != nil {
		batch.Note = *req.Note
	}
}

func validateBatchInput(req *BatchInput) error {
	if req.Quantity < 0 {
		return e.ErrNegativeQuantity
	}
	return validatePrices(&req.PurchasePrice, &req.SellingPrice, req.PromotionPrice)
}

// buildBatches проверяет начальные партии товара на попарную уникальность дат.
func buildBatches(inputs []BatchInput, now time.Time) ([]domain.Batch, error) {
	holder := domain.Product{Batches: make([]domain.Batch, 0, len(inputs))}
	for i := range inputs {
		if err := validateBatchInput(&inputs[i]); err != nil {
			return nil, err
		}
		if holder.HasBatchDates(inputs[i].ManufactureDate, inputs[i].ExpiryDate, "") {
			return nil, e.ErrDuplicateBatch
		}
		holder.Batches = append(holder.Batches, newBatch(&inputs[i], now))
	}
	return holder.Batches, nil
}
