package usecase

import (
	"context"

	"github.com/DRSN-tech/inventory-backend/internal/domain"
)

type DictionaryRepository interface {
	Create(ctx context.Context, item *domain.Dictionary) (*domain.Dictionary, error)
	GetByID(ctx context.Context, kind domain.DictionaryKind, id int64) (*domain.Dictionary, error)
	GetByName(ctx context.Context, kind domain.DictionaryKind, name string) (*domain.Dictionary, error)
	ExistsByName(ctx context.Context, kind domain.DictionaryKind, name string, excludeID int64) (bool, error)
	List(ctx context.Context, kind domain.DictionaryKind, filter DictionaryFilter) ([]domain.Dictionary, int64, error)
	Update(ctx context.Context, item *domain.Dictionary) (*domain.Dictionary, error)
	Delete(ctx context.Context, kind domain.DictionaryKind, id int64) error
}

type ProductRepository interface {
	Create(ctx context.Context, product *domain.Product) (*domain.Product, error)
	GetByID(ctx context.Context, id int64) (*domain.Product, error)
	GetByName(ctx context.Context, name string) (*domain.Product, error)
	// ExistsByName ищет товар с тем же именем (и весом, если weight != nil), не считая excludeID.
	ExistsByName(ctx context.Context, name string, weight *string, excludeID int64) (bool, error)
	// MissingIDs возвращает id из списка, которых нет в каталоге.
	MissingIDs(ctx context.Context, ids []int64) ([]int64, error)
	List(ctx context.Context, filter ProductFilter) ([]domain.Product, int64, error)
	// Update сохраняет товар, если его версия не изменилась, иначе e.ErrConflict.
	Update(ctx context.Context, product *domain.Product) (*domain.Product, error)
	Delete(ctx context.Context, id int64) error
}

type PurchaseRepository interface {
	Create(ctx context.Context, purchase *domain.Purchase) (*domain.Purchase, error)
	CreateDetails(ctx context.Context, details []domain.PurchaseDetail) ([]domain.PurchaseDetail, error)
	GetByID(ctx context.Context, id int64) (*domain.Purchase, error)
	GetDetails(ctx context.Context, purchaseID int64) ([]domain.PurchaseDetail, error)
	List(ctx context.Context, filter PurchaseFilter) ([]domain.Purchase, int64, error)
}

type StockRepository interface {
	CreatePostings(ctx context.Context, postings []domain.StockPosting) ([]domain.StockPosting, error)
	GetPostingsByPurchase(ctx context.Context, purchaseID int64) ([]domain.StockPosting, error)
	// SumByProducts суммирует проводки одним сгруппированным запросом.
	SumByProducts(ctx context.Context, productIDs []int64) (domain.StockMap, error)
}

type OutboxRepository interface {
	Create(ctx context.Context, event *OutboxEvent) (*OutboxEvent, error)
	GetAndMarkAsProcessing(ctx context.Context, limit int) ([]*OutboxEvent, error)
	MarkAsProcessed(ctx context.Context, id int64) error
	MarkAsFailed(ctx context.Context, id int64) error
	ReleaseToPending(ctx context.Context, ids []int64) error
}

type CacheRepository interface {
	// GetStock возвращает только найденные в кэше остатки.
	GetStock(ctx context.Context, productIDs []int64) (domain.StockMap, error)
	// StockGenerations возвращает счётчики инвалидаций, их читают до запроса остатков в БД.
	StockGenerations(ctx context.Context, productIDs []int64) (map[int64]int64, error)
	// SetStock пишет только те остатки, чей счётчик с тех пор не изменился.
	SetStock(ctx context.Context, stock domain.StockMap, gens map[int64]int64) error
	// DeleteStock сбрасывает остатки и увеличивает счётчики.
	DeleteStock(ctx context.Context, productIDs []int64) error
}

// BlobStore — хранилище бинарных объектов.
type BlobStore interface {
	Put(ctx context.Context, data []byte, contentType string, key string) (url string, storageKey string, err error)
	Delete(ctx context.Context, storageKey string) error
}
