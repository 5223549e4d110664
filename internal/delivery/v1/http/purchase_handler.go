package http

import (
	"net/http"

	"github.com/DRSN-tech/inventory-backend/internal/usecase"
	"github.com/DRSN-tech/inventory-backend/pkg/pagination"
)

type PurchaseHandler struct {
	purchaseUsecase usecase.PurchaseUC
}

func NewPurchaseHandler(purchaseUsecase usecase.PurchaseUC) *PurchaseHandler {
	return &PurchaseHandler{purchaseUsecase: purchaseUsecase}
}

// createPurchase
//
//	@Summary		Проведение закупки
//	@Description	Создает закупку, строки и проводки прихода одной транзакцией
//	@Tags			purchases
//	@Accept			json
//	@Produce		json
//	@Param			body	body		PurchaseRequest	true	"Закупка"
//	@Success		201		{object}	PurchaseResponse
//	@Failure		400		{object}	ErrorResponse
//	@Failure		404		{object}	ErrorResponse	"Неизвестный товар или валюта"
//	@Router			/purchases [post]
func (p *PurchaseHandler) createPurchase(w http.ResponseWriter, r *http.Request) {
	var body PurchaseRequest
	if err := decodeJSON(r.Body, &body); err != nil {
		WriteError(w, err)
		return
	}
	req, err := body.toCreate()
	if err != nil {
		WriteError(w, err)
		return
	}

	info, err := p.purchaseUsecase.CreatePurchase(r.Context(), req)
	if err != nil {
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusCreated, toPurchaseInfoResponse(info))
}

// listPurchases
//
//	@Summary	Список закупок
//	@Tags		purchases
//	@Produce	json
//	@Param		page		query		int		false	"Номер страницы"
//	@Param		limit		query		int		false	"Размер страницы"
//	@Param		orderNumber	query		string	false	"Фильтр по номеру заказа"
//	@Param		note		query		string	false	"Фильтр по примечанию"
//	@Param		from		query		string	false	"Дата закупки от (YYYY-MM-DD)"
//	@Param		to			query		string	false	"Дата закупки до (YYYY-MM-DD)"
//	@Success	200			{object}	ListResponse[PurchaseResponse]
//	@Router		/purchases [get]
func (p *PurchaseHandler) listPurchases(w http.ResponseWriter, r *http.Request) {
	req := &usecase.ListPurchasesReq{
		OrderNumber: r.URL.Query().Get("orderNumber"),
		Note:        r.URL.Query().Get("note"),
	}

	var err error
	if req.Page, err = queryInt(r, "page", pagination.MaxPage); err != nil {
		WriteError(w, err)
		return
	}
	if req.Limit, err = queryInt(r, "limit", pagination.MaxLimit); err != nil {
		WriteError(w, err)
		return
	}
	if req.DateFrom, err = queryDate(r, "from"); err != nil {
		WriteError(w, err)
		return
	}
	if req.DateTo, err = queryDate(r, "to"); err != nil {
		WriteError(w, err)
		return
	}

	res, err := p.purchaseUsecase.ListPurchases(r.Context(), req)
	if err != nil {
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, toListResponse(res, toPurchaseResponse))
}

// getPurchase
//
//	@Summary	Закупка со строками и проводками
//	@Tags		purchases
//	@Produce	json
//	@Param		id	path		int	true	"ID закупки"
//	@Success	200	{object}	PurchaseResponse
//	@Failure	404	{object}	ErrorResponse
//	@Router		/purchases/{id} [get]
func (p *PurchaseHandler) getPurchase(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		WriteError(w, err)
		return
	}

	info, err := p.purchaseUsecase.GetPurchase(r.Context(), id)
	if err != nil {
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, toPurchaseInfoResponse(info))
}
