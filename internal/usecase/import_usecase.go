package usecase

import (
	"context"
	"errors"
	"strings"

	"github.com/DRSN-tech/inventory-backend/internal/domain"
	"github.com/DRSN-tech/inventory-backend/pkg/e"
	"github.com/DRSN-tech/inventory-backend/pkg/logger"
	"github.com/shopspring/decimal"
)

// ImportUseCase загружает строки таблицы: находит бренды и категории по имени,
// создаёт недостающие товары и проводит все строки одной закупкой.
type ImportUseCase struct {
	dictRepo    DictionaryRepository
	productRepo ProductRepository
	purchases   PurchaseUC
	logger      logger.Logger
}

func NewImportUC(dictRepo DictionaryRepository, productRepo ProductRepository, purchases PurchaseUC, logger logger.Logger) *ImportUseCase {
	return &ImportUseCase{
		dictRepo:    dictRepo,
		productRepo: productRepo,
		purchases:   purchases,
		logger:      logger,
	}
}

// Import проводит строки файла. Строки с неизвестным брендом или категорией,
// без имени или без количества пропускаются и попадают в Skipped.
// Если закупку провести не удалось, созданные импортом товары удаляются.
func (i *ImportUseCase) Import(ctx context.Context, req *ImportReq) (_ *ImportRes, err error) {
	const op = "ImportUseCase.Import"

	if len(req.Rows) == 0 {
		return nil, e.Wrap(op, e.ErrEmptyImport)
	}
	if err := checkCurrency(ctx, i.dictRepo, req.CurrencyID); err != nil {
		return nil, e.Wrap(op, err)
	}

	var created []int64
	defer func() {
		if err != nil {
			i.discardProducts(ctx, created)
		}
	}()

	resolver := newDictResolver(i.dictRepo)
	res := &ImportRes{Skipped: []int{}}
	lines := make([]PurchaseLineReq, 0, len(req.Rows))

	for _, row := range req.Rows {
		name := strings.TrimSpace(row.Name)
		if name == "" || row.Qty <= 0 {
			res.Skipped = append(res.Skipped, row.Line)
			continue
		}

		brand, err := resolver.resolve(ctx, domain.KindBrand, row.Brand)
		if err != nil {
			return nil, e.Wrap(op, err)
		}
		category, err := resolver.resolve(ctx, domain.KindCategory, row.Category)
		if err != nil {
			return nil, e.Wrap(op, err)
		}
		if brand == nil || category == nil {
			i.logger.Warnf("import row %d skipped: unknown brand %q or category %q", row.Line, row.Brand, row.Category)
			res.Skipped = append(res.Skipped, row.Line)
			continue
		}

		product, isNew, err := i.findOrCreateProduct(ctx, name, row, brand.ID, category.ID)
		if err != nil {
			return nil, e.Wrap(op, err)
		}
		if isNew {
			created = append(created, product.ID)
		}

		lines = append(lines, PurchaseLineReq{
			ProductID:       product.ID,
			Quantity:        row.Qty,
			PurchasePrice:   decimal.Zero,
			ManufactureDate: row.ManufactureDate,
			ExpiryDate:      row.ExpiryDate,
		})
	}

	if len(lines) == 0 {
		return res, nil
	}

	info, err := i.purchases.CreatePurchase(ctx, &CreatePurchaseReq{
		CurrencyID:   req.CurrencyID,
		ExchangeRate: decimal.NewFromInt(1),
		ExtraCost:    decimal.Zero,
		Note:         "excel import",
		Lines:        lines,
	})
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	res.Imported = len(lines)
	res.PurchaseID = info.Purchase.ID
	res.OrderNumber = info.Purchase.OrderNumber
	return res, nil
}

// findOrCreateProduct ищет товар по имени и создаёт его, если такого нет.
func (i *ImportUseCase) findOrCreateProduct(ctx context.Context, name string, row ImportRow, brandID, categoryID int64) (*domain.Product, bool, error) {
	product, err := i.productRepo.GetByName(ctx, name)
	if err == nil {
		return product, false, nil
	}
	if !errors.Is(err, e.ErrNotFound) {
		return nil, false, err
	}

	product = domain.NewProduct(name, strings.TrimSpace(row.Description), row.Price, strings.TrimSpace(row.Weight))
	product.BrandID = &brandID
	product.CategoryID = &categoryID

	created, err := i.productRepo.Create(ctx, product)
	if err != nil {
		return nil, false, err
	}

	i.logger.Infof("import row %d: created product %q id=%d", row.Line, name, created.ID)
	return created, true, nil
}

// discardProducts удаляет товары, созданные неудавшимся импортом. Ошибки только логируются.
func (i *ImportUseCase) discardProducts(ctx context.Context, ids []int64) {
	const op = "ImportUseCase.discardProducts"

	ctx = context.WithoutCancel(ctx)
	for _, id := range ids {
		if err := i.productRepo.Delete(ctx, id); err != nil {
			i.logger.Errorf(e.Wrap(op, err), "failed to remove product id=%d created by failed import", id)
			continue
		}
		i.logger.Infof("import rolled back: product id=%d removed", id)
	}
}

// dictResolver находит записи справочников по имени и запоминает результат на время импорта.
type dictResolver struct {
	repo  DictionaryRepository
	cache map[domain.DictionaryKind]map[string]*domain.Dictionary
}

func newDictResolver(repo DictionaryRepository) *dictResolver {
	return &dictResolver{
		repo:  repo,
		cache: make(map[domain.DictionaryKind]map[string]*domain.Dictionary),
	}
}

// resolve возвращает nil без ошибки, если записи с таким именем нет.
func (r *dictResolver) resolve(ctx context.Context, kind domain.DictionaryKind, name string) (*domain.Dictionary, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, nil
	}

	byName, ok := r.cache[kind]
	if !ok {
		byName = make(map[string]*domain.Dictionary)
		r.cache[kind] = byName
	}
	if item, ok := byName[name]; ok {
		return item, nil
	}

	item, err := r.repo.GetByName(ctx, kind, name)
	if err != nil {
		if !errors.Is(err, e.ErrNotFound) {
			return nil, err
		}
		item = nil
	}

	byName[name] = item
	return item, nil
}
