package usecase

import (
	"context"

	"github.com/DRSN-tech/inventory-backend/internal/domain"
)

type CatalogUC interface {
	Create(ctx context.Context, req *CreateDictionaryReq) (*domain.Dictionary, error)
	List(ctx context.Context, req *ListDictionaryReq) (*ListRes[domain.Dictionary], error)
	GetByID(ctx context.Context, kind domain.DictionaryKind, id int64) (*domain.Dictionary, error)
	Update(ctx context.Context, kind domain.DictionaryKind, id int64, req *UpdateDictionaryReq) (*domain.Dictionary, error)
	Delete(ctx context.Context, kind domain.DictionaryKind, id int64) error
}

type ProductUC interface {
	CreateProduct(ctx context.Context, req *CreateProductReq) (*domain.Product, error)
	UpdateProduct(ctx context.Context, id int64, req *UpdateProductReq) (*domain.Product, error)
	DeleteProduct(ctx context.Context, id int64) error
	GetProduct(ctx context.Context, id int64) (*ProductWithStock, error)
	ListProductsWithStock(ctx context.Context, req *ListProductsReq) (*ListRes[ProductWithStock], error)
	UploadImages(ctx context.Context, id int64, images []ProductImage) (*domain.Product, error)
	DeleteImage(ctx context.Context, id int64, imageID string) (*domain.Product, error)
}

type BatchUC interface {
	AddBatch(ctx context.Context, productID int64, req *BatchInput) (*domain.Product, error)
	UpdateBatch(ctx context.Context, productID int64, batchID string, req *UpdateBatchReq) (*domain.Product, error)
	DeleteBatch(ctx context.Context, productID int64, batchID string) (*domain.Product, error)
}

type PurchaseUC interface {
	CreatePurchase(ctx context.Context, req *CreatePurchaseReq) (*PurchaseInfo, error)
	ListPurchases(ctx context.Context, req *ListPurchasesReq) (*ListRes[domain.Purchase], error)
	GetPurchase(ctx context.Context, id int64) (*PurchaseInfo, error)
}

type StockUC interface {
	ComputeStock(ctx context.Context, productIDs []int64) (domain.StockMap, error)
	InvalidateStock(ctx context.Context, productIDs []int64)
}

type ImportUC interface {
	Import(ctx context.Context, req *ImportReq) (*ImportRes, error)
}
