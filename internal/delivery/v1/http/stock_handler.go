package http

import (
	"net/http"

	"github.com/DRSN-tech/inventory-backend/internal/usecase"
)

type StockHandler struct {
	stockUsecase usecase.StockUC
}

func NewStockHandler(stockUsecase usecase.StockUC) *StockHandler {
	return &StockHandler{stockUsecase: stockUsecase}
}

// getStock
//
//	@Summary	Остатки товаров
//	@Tags		stock
//	@Produce	json
//	@Param		ids	query		string	true	"Список id через запятую"
//	@Success	200	{object}	StockResponse
//	@Failure	400	{object}	ErrorResponse
//	@Router		/stock [get]
func (s *StockHandler) getStock(w http.ResponseWriter, r *http.Request) {
	ids, err := queryIDs(r, "ids")
	if err != nil {
		WriteError(w, err)
		return
	}

	stock, err := s.stockUsecase.ComputeStock(r.Context(), ids)
	if err != nil {
		WriteError(w, err)
		return
	}

	// Порядок ответа повторяет запрос, повторы схлопываются
	seen := make(map[int64]struct{}, len(ids))
	items := make([]StockItem, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		items = append(items, StockItem{ProductID: id, TotalQuantity: stock.Quantity(id)})
	}

	WriteSuccess(w, http.StatusOK, StockResponse{Data: items})
}
