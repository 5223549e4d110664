package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/DRSN-tech/inventory-backend/internal/domain"
	"github.com/DRSN-tech/inventory-backend/pkg/e"
	"github.com/DRSN-tech/inventory-backend/pkg/jitter"
	"github.com/DRSN-tech/inventory-backend/pkg/logger"
	"github.com/DRSN-tech/inventory-backend/pkg/orderno"
	"github.com/DRSN-tech/inventory-backend/pkg/pagination"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Повтор проведения при совпадении сгенерированного номера заказа.
var purchaseBackoff = jitter.Backoff{
	Base:     5 * time.Millisecond,
	Max:      100 * time.Millisecond,
	Attempts: 5,
}

func isOrderNumberCollision(err error) bool {
	return errors.Is(err, e.ErrDuplicateOrderNumber)
}

// PurchaseUseCase проводит закупки: заголовок, строки, проводки и событие outbox в одной транзакции.
type PurchaseUseCase struct {
	purchaseRepo PurchaseRepository
	stockRepo    StockRepository
	productRepo  ProductRepository
	dictRepo     DictionaryRepository
	outboxRepo   OutboxRepository
	txManager    TxManager
	encoder      EventEncoder
	stock        StockUC
	defaultLimit int
	logger       logger.Logger
	now          func() time.Time
}

func NewPurchaseUC(
	purchaseRepo PurchaseRepository,
	stockRepo StockRepository,
	productRepo ProductRepository,
	dictRepo DictionaryRepository,
	outboxRepo OutboxRepository,
	txManager TxManager,
	encoder EventEncoder,
	stock StockUC,
	defaultLimit int,
	logger logger.Logger,
) *PurchaseUseCase {
	return &PurchaseUseCase{
		purchaseRepo: purchaseRepo,
		stockRepo:    stockRepo,
		productRepo:  productRepo,
		dictRepo:     dictRepo,
		outboxRepo:   outboxRepo,
		txManager:    txManager,
		encoder:      encoder,
		stock:        stock,
		defaultLimit: defaultLimit,
		logger:       logger,
		now:          time.Now,
	}
}

// CreatePurchase проводит закупку. Дополнительные расходы делятся поровну между строками.
// При совпадении номера заказа закупка создаётся заново с новым номером.
func (p *PurchaseUseCase) CreatePurchase(ctx context.Context, req *CreatePurchaseReq) (*PurchaseInfo, error) {
	const op = "PurchaseUseCase.CreatePurchase"

	// Валидация данных
	if err := p.normalize(req); err != nil {
		return nil, e.Wrap(op, err)
	}
	if err := p.checkReferences(ctx, req); err != nil {
		return nil, e.Wrap(op, err)
	}

	var info *PurchaseInfo
	err := purchaseBackoff.Retry(ctx, isOrderNumberCollision, func(attempt int) error {
		if attempt > 0 {
			p.logger.Debugf("%s: order number collision, retrying (attempt %d)", op, attempt)
		}
		var err error
		info, err = p.post(ctx, req)
		return err
	})
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	// Удаление из кэша устаревших остатков
	ids := make([]int64, 0, len(req.Lines))
	for _, line := range req.Lines {
		ids = append(ids, line.ProductID)
	}
	p.stock.InvalidateStock(ctx, ids)

	p.logger.Infof("purchase %s posted: id=%d lines=%d", info.Purchase.OrderNumber, info.Purchase.ID, len(info.Details))
	return info, nil
}

// post выполняет одну попытку проведения закупки.
func (p *PurchaseUseCase) post(ctx context.Context, req *CreatePurchaseReq) (*PurchaseInfo, error) {
	var info *PurchaseInfo

	err := p.txManager.Do(ctx, func(ctx context.Context) error {
		purchase, err := p.purchaseRepo.Create(ctx, &domain.Purchase{
			OrderNumber:  orderno.Generate(p.now()),
			PurchaseDate: req.PurchaseDate,
			CurrencyID:   req.CurrencyID,
			ExchangeRate: req.ExchangeRate,
			ExtraCost:    req.ExtraCost,
			Note:         req.Note,
		})
		if err != nil {
			return err
		}

		itemCosts := domain.SplitExtraCost(req.ExtraCost, len(req.Lines))
		details := make([]domain.PurchaseDetail, 0, len(req.Lines))
		for i, line := range req.Lines {
			details = append(details, domain.PurchaseDetail{
				PurchaseID:      purchase.ID,
				ProductID:       line.ProductID,
				Quantity:        line.Quantity,
				PurchasePrice:   line.PurchasePrice,
				ItemCost:        itemCosts[i],
				ManufactureDate: line.ManufactureDate,
				ExpiryDate:      line.ExpiryDate,
			})
		}
		if details, err = p.purchaseRepo.CreateDetails(ctx, details); err != nil {
			return err
		}

		postings := make([]domain.StockPosting, 0, len(details))
		for _, d := range details {
			postings = append(postings, domain.StockPosting{
				ProductID:       d.ProductID,
				PurchaseID:      purchase.ID,
				Quantity:        d.Quantity,
				PurchasePrice:   d.PurchasePrice,
				ItemCost:        d.ItemCost,
				ManufactureDate: d.ManufactureDate,
				ExpiryDate:      d.ExpiryDate,
			})
		}
		if postings, err = p.stockRepo.CreatePostings(ctx, postings); err != nil {
			return err
		}

		info = &PurchaseInfo{
			Purchase: *purchase,
			Details:  details,
			Postings: postings,
		}

		// Событие публикуется воркером outbox после коммита
		eventID := uuid.NewString()
		payload, err := p.encoder.EncodePurchasePosted(eventID, info)
		if err != nil {
			return err
		}
		_, err = p.outboxRepo.Create(ctx, NewOutboxEvent(eventID, PurchasePosted, purchase.ID, payload))
		return err
	})
	if err != nil {
		return nil, err
	}

	return info, nil
}

// ListPurchases возвращает страницу заголовков закупок.
func (p *PurchaseUseCase) ListPurchases(ctx context.Context, req *ListPurchasesReq) (*ListRes[domain.Purchase], error) {
	const op = "PurchaseUseCase.ListPurchases"

	window := pagination.ResolveWithDefault(req.Page, req.Limit, p.defaultLimit)
	items, total, err := p.purchaseRepo.List(ctx, PurchaseFilter{
		Window:      window,
		OrderNumber: strings.TrimSpace(req.OrderNumber),
		Note:        strings.TrimSpace(req.Note),
		DateFrom:    req.DateFrom,
		DateTo:      req.DateTo,
	})
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	return NewListRes(items, window, total), nil
}

// GetPurchase возвращает закупку со строками и проводками.
func (p *PurchaseUseCase) GetPurchase(ctx context.Context, id int64) (*PurchaseInfo, error) {
	const op = "PurchaseUseCase.GetPurchase"

	purchase, err := p.purchaseRepo.GetByID(ctx, id)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	details, err := p.purchaseRepo.GetDetails(ctx, id)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	postings, err := p.stockRepo.GetPostingsByPurchase(ctx, id)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	return &PurchaseInfo{
		Purchase: *purchase,
		Details:  details,
		Postings: postings,
	}, nil
}

// normalize проверяет запрос и подставляет значения по умолчанию.
func (p *PurchaseUseCase) normalize(req *CreatePurchaseReq) error {
	if len(req.Lines) == 0 {
		return e.ErrEmptyPurchaseLines
	}

	for _, line := range req.Lines {
		if line.ProductID <= 0 {
			return e.ErrInvalidProductID
		}
		if line.Quantity <= 0 {
			return e.ErrInvalidQuantity
		}
		if line.PurchasePrice.IsNegative() {
			return e.ErrInvalidPrice
		}
	}

	switch {
	case req.ExchangeRate.IsZero():
		req.ExchangeRate = decimal.NewFromInt(1)
	case req.ExchangeRate.IsNegative():
		return e.ErrInvalidExchangeRate
	}
	if req.ExtraCost.IsNegative() {
		return e.ErrInvalidPrice
	}
	if req.PurchaseDate.IsZero() {
		req.PurchaseDate = p.now()
	}
	req.Note = strings.TrimSpace(req.Note)

	return nil
}

// checkReferences проверяет валюту и все товары закупки.
func (p *PurchaseUseCase) checkReferences(ctx context.Context, req *CreatePurchaseReq) error {
	if err := checkCurrency(ctx, p.dictRepo, req.CurrencyID); err != nil {
		return err
	}

	ids := make([]int64, 0, len(req.Lines))
	for _, line := range req.Lines {
		ids = append(ids, line.ProductID)
	}

	missing, err := p.productRepo.MissingIDs(ctx, uniqueIDs(ids))
	if err != nil {
		return err
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: ids %v", e.ErrProductNotFound, missing)
	}

	return nil
}

// checkCurrency проверяет, что валюта существует. Пустая ссылка допустима.
func checkCurrency(ctx context.Context, dictRepo DictionaryRepository, currencyID *int64) error {
	if currencyID == nil {
		return nil
	}

	if _, err := dictRepo.GetByID(ctx, domain.KindCurrency, *currencyID); err != nil {
		if errors.Is(err, e.ErrNotFound) {
			return fmt.Errorf("%w: id %d", e.ErrCurrencyNotFound, *currencyID)
		}
		return err
	}

	return nil
}
