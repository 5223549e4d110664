package http

import (
	"net/http"

	"github.com/DRSN-tech/inventory-backend/internal/domain"
	"github.com/DRSN-tech/inventory-backend/internal/usecase"
	"github.com/DRSN-tech/inventory-backend/pkg/logger"
	"github.com/DRSN-tech/inventory-backend/pkg/pagination"
)

// DictionaryHandler обслуживает один справочник: бренды, категории или валюты.
type DictionaryHandler struct {
	catalogUC usecase.CatalogUC
	kind      domain.DictionaryKind
	logger    logger.Logger
}

func NewDictionaryHandler(catalogUC usecase.CatalogUC, kind domain.DictionaryKind, logger logger.Logger) *DictionaryHandler {
	return &DictionaryHandler{catalogUC: catalogUC, kind: kind, logger: logger}
}

// create
//
//	@Summary	Создание записи справочника
//	@Tags		dictionaries
//	@Accept		json
//	@Produce	json
//	@Param		kind	path		string				true	"brands, categories или currencies"
//	@Param		body	body		DictionaryRequest	true	"Запись"
//	@Success	201		{object}	DictionaryResponse
//	@Failure	400		{object}	ErrorResponse
//	@Failure	409		{object}	ErrorResponse
//	@Router		/{kind} [post]
func (h *DictionaryHandler) create(w http.ResponseWriter, r *http.Request) {
	var body DictionaryRequest
	if err := decodeJSON(r.Body, &body); err != nil {
		WriteError(w, err)
		return
	}

	item, err := h.catalogUC.Create(r.Context(), &usecase.CreateDictionaryReq{
		Kind:        h.kind,
		Name:        body.Name,
		Description: body.Description,
	})
	if err != nil {
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusCreated, toDictionaryResponse(item))
}

// list
//
//	@Summary	Список записей справочника
//	@Tags		dictionaries
//	@Produce	json
//	@Param		kind		path		string	true	"brands, categories или currencies"
//	@Param		page		query		int		false	"Номер страницы"
//	@Param		limit		query		int		false	"Размер страницы"
//	@Param		name		query		string	false	"Фильтр по имени"
//	@Param		description	query		string	false	"Фильтр по описанию"
//	@Success	200			{object}	ListResponse[DictionaryResponse]
//	@Router		/{kind} [get]
func (h *DictionaryHandler) list(w http.ResponseWriter, r *http.Request) {
	page, err := queryInt(r, "page", pagination.MaxPage)
	if err != nil {
		WriteError(w, err)
		return
	}
	limit, err := queryInt(r, "limit", pagination.MaxLimit)
	if err != nil {
		WriteError(w, err)
		return
	}

	q := r.URL.Query()
	res, err := h.catalogUC.List(r.Context(), &usecase.ListDictionaryReq{
		Kind:        h.kind,
		Page:        page,
		Limit:       limit,
		Name:        q.Get("name"),
		Description: q.Get("description"),
	})
	if err != nil {
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, toListResponse(res, toDictionaryResponse))
}

// get
//
//	@Summary	Запись справочника по id
//	@Tags		dictionaries
//	@Produce	json
//	@Param		kind	path		string	true	"brands, categories или currencies"
//	@Param		id		path		int		true	"ID"
//	@Success	200		{object}	DictionaryResponse
//	@Failure	404		{object}	ErrorResponse
//	@Router		/{kind}/{id} [get]
func (h *DictionaryHandler) get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		WriteError(w, err)
		return
	}

	item, err := h.catalogUC.GetByID(r.Context(), h.kind, id)
	if err != nil {
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, toDictionaryResponse(item))
}

// update
//
//	@Summary	Обновление записи справочника
//	@Tags		dictionaries
//	@Accept		json
//	@Produce	json
//	@Param		kind	path		string					true	"brands, categories или currencies"
//	@Param		id		path		int						true	"ID"
//	@Param		body	body		DictionaryUpdateRequest	true	"Изменяемые поля"
//	@Success	200		{object}	DictionaryResponse
//	@Failure	404		{object}	ErrorResponse
//	@Failure	409		{object}	ErrorResponse
//	@Router		/{kind}/{id} [put]
func (h *DictionaryHandler) update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		WriteError(w, err)
		return
	}

	var body DictionaryUpdateRequest
	if err := decodeJSON(r.Body, &body); err != nil {
		WriteError(w, err)
		return
	}

	item, err := h.catalogUC.Update(r.Context(), h.kind, id, &usecase.UpdateDictionaryReq{
		Name:        body.Name,
		Description: body.Description,
	})
	if err != nil {
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, toDictionaryResponse(item))
}

// delete
//
//	@Summary	Удаление записи справочника
//	@Tags		dictionaries
//	@Produce	json
//	@Param		kind	path		string	true	"brands, categories или currencies"
//	@Param		id		path		int		true	"ID"
//	@Success	200		{object}	MessageResponse
//	@Failure	404		{object}	ErrorResponse
//	@Failure	409		{object}	ErrorResponse	"Запись используется"
//	@Router		/{kind}/{id} [delete]
func (h *DictionaryHandler) delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		WriteError(w, err)
		return
	}

	if err := h.catalogUC.Delete(r.Context(), h.kind, id); err != nil {
		WriteError(w, err)
		return
	}

	h.logger.Infof("%s %d deleted", h.kind, id)
	WriteMessage(w, "deleted")
}
