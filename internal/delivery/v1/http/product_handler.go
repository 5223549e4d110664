package http

import (
	"net/http"
	"strings"

	"github.com/DRSN-tech/inventory-backend/internal/usecase"
	"github.com/DRSN-tech/inventory-backend/pkg/e"
	"github.com/DRSN-tech/inventory-backend/pkg/logger"
	"github.com/DRSN-tech/inventory-backend/pkg/pagination"
	"github.com/go-chi/chi/v5"
)

// Лимиты загрузки изображений для multipart-запросов товара.
type UploadLimits struct {
	MaxImages    int
	MaxImageSize int64
}

// maxRequestSize ограничивает тело multipart-запроса целиком.
func (l UploadLimits) maxRequestSize() int64 {
	images := int64(l.MaxImages)
	if images <= 0 {
		images = 1
	}
	return images*l.MaxImageSize + 1<<20
}

type ProductHandler struct {
	productUsecase usecase.ProductUC
	limits         UploadLimits
	logger         logger.Logger
}

func NewProductHandler(productUsecase usecase.ProductUC, limits UploadLimits, logger logger.Logger) *ProductHandler {
	return &ProductHandler{productUsecase: productUsecase, limits: limits, logger: logger}
}

// createProduct
//
//	@Summary		Создание товара
//	@Description	Создает товар с начальными партиями и изображениями
//	@Tags			products
//	@Accept			multipart/form-data
//	@Produce		json
//	@Param			product	formData	string	true	"JSON ProductRequest"
//	@Param			images	formData	file	false	"Изображения товара"
//	@Success		201		{object}	ProductResponse
//	@Failure		400		{object}	ErrorResponse	"Ошибка валидации"
//	@Failure		409		{object}	ErrorResponse	"Товар с таким именем уже есть"
//	@Router			/products [post]
func (p *ProductHandler) createProduct(w http.ResponseWriter, r *http.Request) {
	var body ProductRequest
	images, err := p.parseProductForm(w, r, &body)
	if err != nil {
		WriteError(w, err)
		return
	}

	req, err := body.toCreate(images)
	if err != nil {
		WriteError(w, err)
		return
	}

	product, err := p.productUsecase.CreateProduct(r.Context(), req)
	if err != nil {
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusCreated, toProductResponse(product))
}

// listProducts
//
//	@Summary	Список товаров с остатками
//	@Tags		products
//	@Produce	json
//	@Param		page		query		int		false	"Номер страницы"
//	@Param		limit		query		int		false	"Размер страницы"
//	@Param		name		query		string	false	"Фильтр по имени"
//	@Param		description	query		string	false	"Фильтр по описанию"
//	@Param		brandId		query		int		false	"Бренд"
//	@Param		categoryId	query		int		false	"Категория"
//	@Success	200			{object}	ListResponse[ProductResponse]
//	@Router		/products [get]
func (p *ProductHandler) listProducts(w http.ResponseWriter, r *http.Request) {
	req := &usecase.ListProductsReq{
		Name:        r.URL.Query().Get("name"),
		Description: r.URL.Query().Get("description"),
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
	if req.BrandID, err = queryID(r, "brandId"); err != nil {
		WriteError(w, err)
		return
	}
	if req.CategoryID, err = queryID(r, "categoryId"); err != nil {
		WriteError(w, err)
		return
	}

	res, err := p.productUsecase.ListProductsWithStock(r.Context(), req)
	if err != nil {
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, toListResponse(res, toProductWithStockResponse))
}

// getProduct
//
//	@Summary	Товар с остатком
//	@Tags		products
//	@Produce	json
//	@Param		id	path		int	true	"ID товара"
//	@Success	200	{object}	ProductResponse
//	@Failure	404	{object}	ErrorResponse
//	@Router		/products/{id} [get]
func (p *ProductHandler) getProduct(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		WriteError(w, err)
		return
	}

	product, err := p.productUsecase.GetProduct(r.Context(), id)
	if err != nil {
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, toProductWithStockResponse(product))
}

// updateProduct
//
//	@Summary		Обновление товара
//	@Description	Переданные изображения полностью заменяют текущие
//	@Tags			products
//	@Accept			multipart/form-data
//	@Produce		json
//	@Param			id		path		int		true	"ID товара"
//	@Param			product	formData	string	true	"JSON ProductUpdateRequest"
//	@Param			images	formData	file	false	"Новые изображения"
//	@Success		200		{object}	ProductResponse
//	@Failure		404		{object}	ErrorResponse
//	@Failure		409		{object}	ErrorResponse
//	@Router			/products/{id} [put]
func (p *ProductHandler) updateProduct(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		WriteError(w, err)
		return
	}

	var body ProductUpdateRequest
	images, err := p.parseProductForm(w, r, &body)
	if err != nil {
		WriteError(w, err)
		return
	}

	product, err := p.productUsecase.UpdateProduct(r.Context(), id, body.toUpdate(images))
	if err != nil {
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, toProductResponse(product))
}

// deleteProduct
//
//	@Summary	Удаление товара
//	@Tags		products
//	@Produce	json
//	@Param		id	path		int	true	"ID товара"
//	@Success	200	{object}	MessageResponse
//	@Failure	404	{object}	ErrorResponse
//	@Failure	409	{object}	ErrorResponse	"По товару есть проводки"
//	@Router		/products/{id} [delete]
func (p *ProductHandler) deleteProduct(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		WriteError(w, err)
		return
	}

	if err := p.productUsecase.DeleteProduct(r.Context(), id); err != nil {
		WriteError(w, err)
		return
	}

	p.logger.Infof("product %d deleted", id)
	WriteMessage(w, "deleted")
}

// uploadImages
//
//	@Summary	Добавление изображений товара
//	@Tags		products
//	@Accept		multipart/form-data
//	@Produce	json
//	@Param		id		path		int		true	"ID товара"
//	@Param		images	formData	file	true	"Изображения"
//	@Success	200		{object}	ProductResponse
//	@Failure	400		{object}	ErrorResponse
//	@Router		/products/{id}/images [put]
func (p *ProductHandler) uploadImages(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		WriteError(w, err)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, p.limits.maxRequestSize())
	if err := ensureMultipartForm(r, maxMultipartMemory); err != nil {
		WriteError(w, err)
		return
	}

	images, err := parseImages(r.MultipartForm.File["images"], p.limits.MaxImages, p.limits.MaxImageSize)
	if err != nil {
		WriteError(w, err)
		return
	}
	if len(images) == 0 {
		WriteError(w, e.ErrImagesMalformed)
		return
	}

	product, err := p.productUsecase.UploadImages(r.Context(), id, images)
	if err != nil {
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, toProductResponse(product))
}

// deleteImage
//
//	@Summary	Удаление изображения товара
//	@Tags		products
//	@Produce	json
//	@Param		id		path		int		true	"ID товара"
//	@Param		imageId	path		string	true	"ID изображения"
//	@Success	200		{object}	ProductResponse
//	@Failure	404		{object}	ErrorResponse
//	@Router		/products/{id}/images/{imageId} [delete]
func (p *ProductHandler) deleteImage(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		WriteError(w, err)
		return
	}

	product, err := p.productUsecase.DeleteImage(r.Context(), id, chi.URLParam(r, "imageId"))
	if err != nil {
		WriteError(w, err)
		return
	}

	p.logger.Debugf("image %s removed from product %d", chi.URLParam(r, "imageId"), id)

	WriteSuccess(w, http.StatusOK, toProductResponse(product))
}

// parseProductForm разбирает multipart-форму: JSON товара в поле "product" и файлы в "images".
func (p *ProductHandler) parseProductForm(w http.ResponseWriter, r *http.Request, dst any) ([]usecase.ProductImage, error) {
	r.Body = http.MaxBytesReader(w, r.Body, p.limits.maxRequestSize())
	if err := ensureMultipartForm(r, maxMultipartMemory); err != nil {
		return nil, err
	}

	raw := strings.TrimSpace(r.FormValue("product"))
	if raw == "" {
		return nil, e.Wrap("product field is empty", e.ErrStatusBadRequest)
	}
	if err := decodeJSON(strings.NewReader(raw), dst); err != nil {
		return nil, err
	}

	return parseImages(r.MultipartForm.File["images"], p.limits.MaxImages, p.limits.MaxImageSize)
}
