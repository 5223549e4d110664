package http

import (
	"net/http"

	"github.com/DRSN-tech/inventory-backend/internal/usecase"
	"github.com/go-chi/chi/v5"
)

type BatchHandler struct {
	batchUsecase usecase.BatchUC
}

func NewBatchHandler(batchUsecase usecase.BatchUC) *BatchHandler {
	return &BatchHandler{batchUsecase: batchUsecase}
}

// addBatch
//
//	@Summary	Добавление партии
//	@Tags		batches
//	@Accept		json
//	@Produce	json
//	@Param		id		path		int				true	"ID товара"
//	@Param		body	body		BatchRequest	true	"Партия"
//	@Success	201		{object}	ProductResponse
//	@Failure	409		{object}	ErrorResponse	"Партия с такими датами уже есть"
//	@Router		/products/{id}/batches [post]
func (b *BatchHandler) addBatch(w http.ResponseWriter, r *http.Request) {
	productID, err := pathID(r, "id")
	if err != nil {
		WriteError(w, err)
		return
	}

	var body BatchRequest
	if err := decodeJSON(r.Body, &body); err != nil {
		WriteError(w, err)
		return
	}
	input, err := body.toInput()
	if err != nil {
		WriteError(w, err)
		return
	}

	product, err := b.batchUsecase.AddBatch(r.Context(), productID, input)
	if err != nil {
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusCreated, toProductResponse(product))
}

// updateBatch
//
//	@Summary	Обновление партии
//	@Tags		batches
//	@Accept		json
//	@Produce	json
//	@Param		id		path		int					true	"ID товара"
//	@Param		batchId	path		string				true	"ID партии"
//	@Param		body	body		BatchUpdateRequest	true	"Изменяемые поля"
//	@Success	200		{object}	ProductResponse
//	@Failure	404		{object}	ErrorResponse
//	@Router		/products/{id}/batches/{batchId} [put]
func (b *BatchHandler) updateBatch(w http.ResponseWriter, r *http.Request) {
	productID, err := pathID(r, "id")
	if err != nil {
		WriteError(w, err)
		return
	}

	var body BatchUpdateRequest
	if err := decodeJSON(r.Body, &body); err != nil {
		WriteError(w, err)
		return
	}
	req, err := body.toUpdate()
	if err != nil {
		WriteError(w, err)
		return
	}

	product, err := b.batchUsecase.UpdateBatch(r.Context(), productID, chi.URLParam(r, "batchId"), req)
	if err != nil {
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, toProductResponse(product))
}

// deleteBatch
//
//	@Summary	Удаление партии
//	@Tags		batches
//	@Produce	json
//	@Param		id		path		int		true	"ID товара"
//	@Param		batchId	path		string	true	"ID партии"
//	@Success	200		{object}	ProductResponse
//	@Failure	404		{object}	ErrorResponse
//	@Router		/products/{id}/batches/{batchId} [delete]
func (b *BatchHandler) deleteBatch(w http.ResponseWriter, r *http.Request) {
	productID, err := pathID(r, "id")
	if err != nil {
		WriteError(w, err)
		return
	}

	product, err := b.batchUsecase.DeleteBatch(r.Context(), productID, chi.URLParam(r, "batchId"))
	if err != nil {
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, toProductResponse(product))
}
