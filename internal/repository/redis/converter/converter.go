package converter

import (
	"sort"

	"github.com/DRSN-tech/inventory-backend/internal/domain"
)

// StockConverter преобразует остатки между доменом и моделью кэша.
type StockConverter interface {
	ToRedisModels(stock domain.StockMap) []StockRedisModel
	ToStockMap(models []StockRedisModel) domain.StockMap
}

type StockConverterImpl struct{}

// ToRedisModels возвращает модели в порядке возрастания id товара.
func (StockConverterImpl) ToRedisModels(stock domain.StockMap) []StockRedisModel {
	out := make([]StockRedisModel, 0, len(stock))
	for id, qty := range stock {
		out = append(out, StockRedisModel{ProductID: id, Quantity: qty})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ProductID < out[j].ProductID })
	return out
}

func (StockConverterImpl) ToStockMap(models []StockRedisModel) domain.StockMap {
	out := make(domain.StockMap, len(models))
	for _, m := range models {
		out[m.ProductID] = m.Quantity
	}
	return out
}
