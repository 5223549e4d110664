package usecase

import (
	"context"
	"strings"

	"github.com/DRSN-tech/inventory-backend/internal/domain"
	"github.com/DRSN-tech/inventory-backend/pkg/e"
	"github.com/DRSN-tech/inventory-backend/pkg/logger"
	"github.com/DRSN-tech/inventory-backend/pkg/pagination"
)

// CatalogUseCase управляет справочниками: брендами, категориями и валютами.
type CatalogUseCase struct {
	dictRepo     DictionaryRepository
	defaultLimit int
	logger       logger.Logger
}

func NewCatalogUC(dictRepo DictionaryRepository, defaultLimit int, logger logger.Logger) *CatalogUseCase {
	return &CatalogUseCase{
		dictRepo:     dictRepo,
		defaultLimit: defaultLimit,
		logger:       logger,
	}
}

// Create добавляет запись в справочник. Имя обязательно и уникально в пределах справочника.
func (c *CatalogUseCase) Create(ctx context.Context, req *CreateDictionaryReq) (*domain.Dictionary, error) {
	const op = "CatalogUseCase.Create"

	if !req.Kind.Valid() {
		return nil, e.Wrap(op, e.ErrUnknownDictionary)
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, e.Wrap(op, e.ErrNameRequired)
	}

	if err := c.ensureUniqueName(ctx, req.Kind, name, 0); err != nil {
		return nil, e.Wrap(op, err)
	}

	item, err := c.dictRepo.Create(ctx, domain.NewDictionary(req.Kind, name, strings.TrimSpace(req.Description)))
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	c.logger.Debugf("%s: created %s id=%d", op, req.Kind, item.ID)
	return item, nil
}

// List возвращает страницу справочника с фильтром по подстроке имени и описания.
func (c *CatalogUseCase) List(ctx context.Context, req *ListDictionaryReq) (*ListRes[domain.Dictionary], error) {
	const op = "CatalogUseCase.List"

	if !req.Kind.Valid() {
		return nil, e.Wrap(op, e.ErrUnknownDictionary)
	}

	window := pagination.ResolveWithDefault(req.Page, req.Limit, c.defaultLimit)
	items, total, err := c.dictRepo.List(ctx, req.Kind, DictionaryFilter{
		Window:      window,
		Name:        strings.TrimSpace(req.Name),
		Description: strings.TrimSpace(req.Description),
	})
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	return NewListRes(items, window, total), nil
}

func (c *CatalogUseCase) GetByID(ctx context.Context, kind domain.DictionaryKind, id int64) (*domain.Dictionary, error) {
	const op = "CatalogUseCase.GetByID"

	if !kind.Valid() {
		return nil, e.Wrap(op, e.ErrUnknownDictionary)
	}

	item, err := c.dictRepo.GetByID(ctx, kind, id)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	return item, nil
}

// Update переносит в запись только переданные поля.
func (c *CatalogUseCase) Update(ctx context.Context, kind domain.DictionaryKind, id int64, req *UpdateDictionaryReq) (*domain.Dictionary, error) {
	const op = "CatalogUseCase.Update"

	if !kind.Valid() {
		return nil, e.Wrap(op, e.ErrUnknownDictionary)
	}

	item, err := c.dictRepo.GetByID(ctx, kind, id)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, e.Wrap(op, e.ErrNameRequired)
		}
		if name != item.Name {
			if err := c.ensureUniqueName(ctx, kind, name, id); err != nil {
				return nil, e.Wrap(op, err)
			}
		}
		item.Name = name
	}
	if req.Description != nil {
		item.Description = strings.TrimSpace(*req.Description)
	}

	updated, err := c.dictRepo.Update(ctx, item)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	return updated, nil
}

func (c *CatalogUseCase) Delete(ctx context.Context, kind domain.DictionaryKind, id int64) error {
	const op = "CatalogUseCase.Delete"

	if !kind.Valid() {
		return e.Wrap(op, e.ErrUnknownDictionary)
	}

	if err := c.dictRepo.Delete(ctx, kind, id); err != nil {
		return e.Wrap(op, err)
	}

	return nil
}

func (c *CatalogUseCase) ensureUniqueName(ctx context.Context, kind domain.DictionaryKind, name string, excludeID int64) error {
	exists, err := c.dictRepo.ExistsByName(ctx, kind, name, excludeID)
	if err != nil {
		return err
	}
	if exists {
		return e.ErrDuplicateName
	}
	return nil
}
