package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/DRSN-tech/inventory-backend/internal/domain"
	"github.com/DRSN-tech/inventory-backend/pkg/e"
	"github.com/DRSN-tech/inventory-backend/pkg/logger"
	"github.com/DRSN-tech/inventory-backend/pkg/pagination"
)

// ProductRules — настраиваемые правила каталога товаров.
type ProductRules struct {
	UniqueByWeight bool // имя уникально только вместе с весом
	MaxImages      int
	DefaultLimit   int
}

// ProductUseCase собирает товар из строки каталога, изображений в S3 и остатков.
type ProductUseCase struct {
	productRepo ProductRepository
	dictRepo    DictionaryRepository
	txManager   TxManager
	imagesInfra ImagesInfra
	stock       StockUC
	rules       ProductRules
	logger      logger.Logger
	now         func() time.Time
}

func NewProductUC(
	productRepo ProductRepository,
	dictRepo DictionaryRepository,
	txManager TxManager,
	imagesInfra ImagesInfra,
	stock StockUC,
	rules ProductRules,
	logger logger.Logger,
) *ProductUseCase {
	return &ProductUseCase{
		productRepo: productRepo,
		dictRepo:    dictRepo,
		txManager:   txManager,
		imagesInfra: imagesInfra,
		stock:       stock,
		rules:       rules,
		logger:      logger,
		now:         time.Now,
	}
}

// CreateProduct создаёт товар с начальными партиями и изображениями.
// Строка и ссылки на изображения фиксируются одной транзакцией; при ошибке загруженные объекты удаляются в фоне.
func (p *ProductUseCase) CreateProduct(ctx context.Context, req *CreateProductReq) (*domain.Product, error) {
	const op = "ProductUseCase.CreateProduct"

	// Валидация данных
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, e.Wrap(op, e.ErrNameRequired)
	}
	if err := validatePrices(&req.SellingPrice); err != nil {
		return nil, e.Wrap(op, err)
	}
	if !req.Variant.Valid() {
		return nil, e.Wrap(op, e.ErrInvalidVariant)
	}
	if err := validateImages(req.Images, p.rules.MaxImages); err != nil {
		return nil, e.Wrap(op, err)
	}
	batches, err := buildBatches(req.Batches, p.now())
	if err != nil {
		return nil, e.Wrap(op, err)
	}
	if err := p.checkReferences(ctx, req.BrandID, req.CategoryID); err != nil {
		return nil, e.Wrap(op, err)
	}
	if err := p.ensureUniqueName(ctx, name, req.Weight, 0); err != nil {
		return nil, e.Wrap(op, err)
	}

	product := domain.NewProduct(name, strings.TrimSpace(req.Description), req.SellingPrice, req.Weight)
	product.ManufacturingCountry = req.ManufacturingCountry
	product.BrandID = req.BrandID
	product.CategoryID = req.CategoryID
	product.Variant = req.Variant
	product.Batches = batches

	var uploaded []string
	err = p.txManager.Do(ctx, func(ctx context.Context) error {
		created, err := p.productRepo.Create(ctx, product)
		if err != nil {
			return err
		}

		if len(req.Images) > 0 {
			imagesRes, err := p.uploadImages(ctx, created.ID, req.Images)
			if err != nil {
				return err
			}
			uploaded = imageKeys(imagesRes.Images)

			created.Images = imagesRes.Images
			if created, err = p.productRepo.Update(ctx, created); err != nil {
				return err
			}
		}

		product = created
		return nil
	})
	if err != nil {
		if len(uploaded) > 0 {
			p.logger.Warnf(
				"Cleaning up orphaned images after transaction failure. product_name: %s, error: %v",
				name,
				e.Wrap(op, err),
			)
			p.imagesInfra.CleanupImages(uploaded)
		}
		return nil, e.Wrap(op, err)
	}

	return product, nil
}

// UpdateProduct заменяет переданные поля товара. Новый набор изображений полностью заменяет старый,
// старые объекты удаляются из хранилища после записи строки.
func (p *ProductUseCase) UpdateProduct(ctx context.Context, id int64, req *UpdateProductReq) (*domain.Product, error) {
	const op = "ProductUseCase.UpdateProduct"

	if err := validatePrices(req.SellingPrice); err != nil {
		return nil, e.Wrap(op, err)
	}
	if !req.Variant.Valid() {
		return nil, e.Wrap(op, e.ErrInvalidVariant)
	}
	if err := validateImages(req.Images, p.rules.MaxImages); err != nil {
		return nil, e.Wrap(op, err)
	}

	product, err := p.productRepo.GetByID(ctx, id)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	nameChanged, err := applyProductUpdate(product, req)
	if err != nil {
		return nil, e.Wrap(op, err)
	}
	if err := p.checkReferences(ctx, req.BrandID, req.CategoryID); err != nil {
		return nil, e.Wrap(op, err)
	}
	if nameChanged {
		if err := p.ensureUniqueName(ctx, product.Name, product.Weight, id); err != nil {
			return nil, e.Wrap(op, err)
		}
	}

	var replaced, uploaded []string
	if len(req.Images) > 0 {
		imagesRes, err := p.uploadImages(ctx, id, req.Images)
		if err != nil {
			return nil, e.Wrap(op, err)
		}
		uploaded = imageKeys(imagesRes.Images)
		replaced = product.ImageKeys()
		product.Images = imagesRes.Images
	}

	updated, err := p.productRepo.Update(ctx, product)
	if err != nil {
		p.imagesInfra.CleanupImages(uploaded)
		return nil, e.Wrap(op, err)
	}

	if len(replaced) > 0 {
		if err := p.imagesInfra.DeleteImages(ctx, replaced); err != nil {
			p.logger.Warnf("Failed to delete replaced images of product %d: %v", id, e.Wrap(op, err))
		}
	}

	return updated, nil
}

// DeleteProduct удаляет товар, а после коммита и все его изображения. Ошибки удаления изображений только логируются.
func (p *ProductUseCase) DeleteProduct(ctx context.Context, id int64) error {
	const op = "ProductUseCase.DeleteProduct"

	var imageKeys []string
	err := p.txManager.Do(ctx, func(ctx context.Context) error {
		product, err := p.productRepo.GetByID(ctx, id)
		if err != nil {
			return err
		}

		// Проводки по товару отменяют удаление раньше, чем будут затронуты изображения
		if err := p.productRepo.Delete(ctx, id); err != nil {
			return err
		}

		imageKeys = product.ImageKeys()
		return nil
	})
	if err != nil {
		return e.Wrap(op, err)
	}

	if len(imageKeys) > 0 {
		if err := p.imagesInfra.DeleteImages(ctx, imageKeys); err != nil {
			p.logger.Warnf("Failed to delete images of product %d: %v", id, e.Wrap(op, err))
		}
	}

	return nil
}

// GetProduct возвращает товар с текущим остатком.
func (p *ProductUseCase) GetProduct(ctx context.Context, id int64) (*ProductWithStock, error) {
	const op = "ProductUseCase.GetProduct"

	product, err := p.productRepo.GetByID(ctx, id)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	stock, err := p.stock.ComputeStock(ctx, []int64{id})
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	res := NewProductWithStock(*product, stock.Quantity(id))
	return &res, nil
}

// ListProductsWithStock возвращает страницу товаров, каждый с остатком на складе.
func (p *ProductUseCase) ListProductsWithStock(ctx context.Context, req *ListProductsReq) (*ListRes[ProductWithStock], error) {
	const op = "ProductUseCase.ListProductsWithStock"

	window := pagination.ResolveWithDefault(req.Page, req.Limit, p.rules.DefaultLimit)
	products, total, err := p.productRepo.List(ctx, ProductFilter{
		Window:      window,
		Name:        strings.TrimSpace(req.Name),
		Description: strings.TrimSpace(req.Description),
		BrandID:     req.BrandID,
		CategoryID:  req.CategoryID,
	})
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	ids := make([]int64, 0, len(products))
	for _, product := range products {
		ids = append(ids, product.ID)
	}

	stock, err := p.stock.ComputeStock(ctx, ids)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	items := make([]ProductWithStock, 0, len(products))
	for _, product := range products {
		items = append(items, NewProductWithStock(product, stock.Quantity(product.ID)))
	}

	return NewListRes(items, window, total), nil
}

// UploadImages добавляет изображения к товару.
func (p *ProductUseCase) UploadImages(ctx context.Context, id int64, images []ProductImage) (*domain.Product, error) {
	const op = "ProductUseCase.UploadImages"

	if len(images) == 0 {
		return nil, e.Wrap(op, e.ErrImagesMalformed)
	}
	if err := validateImages(images, 0); err != nil {
		return nil, e.Wrap(op, err)
	}

	product, err := p.productRepo.GetByID(ctx, id)
	if err != nil {
		return nil, e.Wrap(op, err)
	}
	if p.rules.MaxImages > 0 && len(product.Images)+len(images) > p.rules.MaxImages {
		return nil, e.Wrap(op, e.ErrTooManyImages)
	}

	imagesRes, err := p.uploadImages(ctx, id, images)
	if err != nil {
		return nil, e.Wrap(op, err)
	}
	product.Images = append(product.Images, imagesRes.Images...)

	updated, err := p.productRepo.Update(ctx, product)
	if err != nil {
		p.imagesInfra.CleanupImages(imageKeys(imagesRes.Images))
		return nil, e.Wrap(op, err)
	}

	return updated, nil
}

// DeleteImage открепляет изображение от товара и удаляет объект из хранилища.
func (p *ProductUseCase) DeleteImage(ctx context.Context, id int64, imageID string) (*domain.Product, error) {
	const op = "ProductUseCase.DeleteImage"

	product, err := p.productRepo.GetByID(ctx, id)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	idx := product.FindImage(imageID)
	if idx < 0 {
		return nil, e.Wrap(op, e.ErrImageNotFound)
	}
	key := product.Images[idx].FileName
	product.Images = append(product.Images[:idx:idx], product.Images[idx+1:]...)

	updated, err := p.productRepo.Update(ctx, product)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	// Повторная попытка удаления уходит в фон
	if err := p.imagesInfra.DeleteImages(ctx, []string{key}); err != nil {
		p.logger.Warnf("Failed to delete image %s, scheduling cleanup: %v", key, e.Wrap(op, err))
		p.imagesInfra.CleanupImages([]string{key})
	}

	return updated, nil
}

// uploadImages сохраняет изображения товара в MinIO.
func (p *ProductUseCase) uploadImages(ctx context.Context, productID int64, images []ProductImage) (*UploadImagesRes, error) {
	return p.imagesInfra.UploadImages(ctx, NewUploadImagesReq(productImagesPrefix(productID), images))
}

// ensureUniqueName проверяет уникальность имени (и веса в строгом режиме), не считая excludeID.
func (p *ProductUseCase) ensureUniqueName(ctx context.Context, name, weight string, excludeID int64) error {
	var byWeight *string
	if p.rules.UniqueByWeight {
		byWeight = &weight
	}

	exists, err := p.productRepo.ExistsByName(ctx, name, byWeight, excludeID)
	if err != nil {
		return err
	}
	if exists {
		return e.ErrDuplicateName
	}
	return nil
}

// checkReferences проверяет, что указанные бренд и категория существуют.
func (p *ProductUseCase) checkReferences(ctx context.Context, brandID, categoryID *int64) error {
	refs := []struct {
		kind domain.DictionaryKind
		id   *int64
	}{
		{domain.KindBrand, brandID},
		{domain.KindCategory, categoryID},
	}

	for _, ref := range refs {
		if ref.id == nil {
			continue
		}
		if _, err := p.dictRepo.GetByID(ctx, ref.kind, *ref.id); err != nil {
			if errors.Is(err, e.ErrNotFound) {
				return fmt.Errorf("%w: %s %d", e.ErrEntityNotFound, ref.kind, *ref.id)
			}
			return err
		}
	}
	return nil
}

// applyProductUpdate переносит переданные поля. Возвращает true, если изменились имя или вес.
func applyProductUpdate(product *domain.Product, req *UpdateProductReq) (bool, error) {
	changed := false

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return false, e.ErrNameRequired
		}
		changed = changed || name != product.Name
		product.Name = name
	}
	if req.Weight != nil {
		changed = changed || *req.Weight != product.Weight
		product.Weight = *req.Weight
	}
	if req.Description != nil {
		product.Description = strings.TrimSpace(*req.Description)
	}
	if req.SellingPrice != nil {
		product.SellingPrice = *req.SellingPrice
	}
	if req.ManufacturingCountry != nil {
		product.ManufacturingCountry = *req.ManufacturingCountry
	}
	if req.BrandID != nil {
		product.BrandID = req.BrandID
	}
	if req.CategoryID != nil {
		product.CategoryID = req.CategoryID
	}
	if req.Variant != nil {
		product.Variant = req.Variant
	}

	return changed, nil
}

func productImagesPrefix(productID int64) string {
	return fmt.Sprintf("products/%d", productID)
}

func imageKeys(images []domain.Image) []string {
	keys := make([]string, 0, len(images))
	for _, img := range images {
		keys = append(keys, img.FileName)
	}
	return keys
}
