package usecase

import (
	"context"
	"time"

	"github.com/DRSN-tech/inventory-backend/internal/domain"
	"github.com/DRSN-tech/inventory-backend/pkg/e"
	"github.com/DRSN-tech/inventory-backend/pkg/logger"
)

const stockCacheWriteTimeout = 500 * time.Millisecond

// StockUseCase считает остатки по проводкам с кэшированием в Redis.
type StockUseCase struct {
	stockRepo StockRepository
	cacheRepo CacheRepository
	logger    logger.Logger
}

func NewStockUC(stockRepo StockRepository, cacheRepo CacheRepository, logger logger.Logger) *StockUseCase {
	return &StockUseCase{
		stockRepo: stockRepo,
		cacheRepo: cacheRepo,
		logger:    logger,
	}
}

// ComputeStock возвращает остаток по каждому запрошенному товару. Товары без проводок получают 0.
func (s *StockUseCase) ComputeStock(ctx context.Context, productIDs []int64) (domain.StockMap, error) {
	const op = "StockUseCase.ComputeStock"

	ids := uniqueIDs(productIDs)
	result := make(domain.StockMap, len(ids))
	if len(ids) == 0 {
		return result, nil
	}

	// Поиск остатков в кэше
	var misses []int64
	cached, err := s.cacheRepo.GetStock(ctx, ids)
	if err != nil {
		s.logger.Warnf("Stock cache is unavailable, falling back to database: %v", e.Wrap(op, err))
		misses = ids
	} else {
		for _, id := range ids {
			if qty, ok := cached[id]; ok {
				result[id] = qty
			} else {
				misses = append(misses, id)
			}
		}
	}

	if len(misses) == 0 {
		return result, nil
	}

	// Счётчики инвалидаций читаются строго до агрегации
	gens, err := s.cacheRepo.StockGenerations(ctx, misses)
	if err != nil {
		s.logger.Warnf("Stock cache generations are unavailable, skipping write-back: %v", e.Wrap(op, err))
	}

	// Одна агрегация по всем промахам
	fromDB, err := s.stockRepo.SumByProducts(ctx, misses)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	toCache := make(domain.StockMap, len(misses))
	for _, id := range misses {
		qty := fromDB.Quantity(id)
		result[id] = qty
		toCache[id] = qty
	}

	if len(gens) == 0 {
		return result, nil
	}

	// Фоновое добавление остатков в кэш
	go func() {
		bgCtx, cancel := context.WithTimeout(context.Background(), stockCacheWriteTimeout)
		defer cancel()

		if err := s.cacheRepo.SetStock(bgCtx, toCache, gens); err != nil {
			s.logger.Warnf("Failed to cache stock in background: %v", e.Wrap(op, err))
		}
	}()

	return result, nil
}

// InvalidateStock сбрасывает кэш остатков. Ошибка только логируется: запись истечёт по TTL.
func (s *StockUseCase) InvalidateStock(ctx context.Context, productIDs []int64) {
	const op = "StockUseCase.InvalidateStock"

	ids := uniqueIDs(productIDs)
	if len(ids) == 0 {
		return
	}

	if err := s.cacheRepo.DeleteStock(ctx, ids); err != nil {
		s.logger.Warnf("Failed to invalidate cached stock: %v", e.Wrap(op, err))
	}
}

// uniqueIDs убирает повторы, сохраняя порядок.
func uniqueIDs(ids []int64) []int64 {
	seen := make(map[int64]struct{}, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
