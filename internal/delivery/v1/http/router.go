package http

import (
	"time"

	_ "github.com/DRSN-tech/inventory-backend/docs" // Импорт сгенерированных файлов
	"github.com/DRSN-tech/inventory-backend/internal/domain"
	"github.com/DRSN-tech/inventory-backend/internal/usecase"
	"github.com/DRSN-tech/inventory-backend/pkg/logger"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger/v2"
)

const requestTimeout = 60 * time.Second

// Handlers — зависимости, из которых собираются обработчики API.
type Handlers struct {
	Catalog  usecase.CatalogUC
	Products usecase.ProductUC
	Batches  usecase.BatchUC
	Purchase usecase.PurchaseUC
	Stock    usecase.StockUC
	Import   usecase.ImportUC
	Parser   ImportParser
	Health   HealthReporter
	Limits   UploadLimits
}

type Router struct {
	router *chi.Mux
	logger logger.Logger
}

func NewRouter(router *chi.Mux, logger logger.Logger) *Router {
	return &Router{router: router, logger: logger}
}

func (r *Router) Init(h Handlers) {
	r.router.Use(middleware.RequestID, middleware.RealIP, middleware.Recoverer)
	r.router.Use(requestLogger(r.logger))
	r.router.Use(middleware.Timeout(requestTimeout))

	r.router.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"), // ссылка на JSON
	))

	healthHandler := NewHealthHandler(h.Health)
	r.router.Get("/healthz", healthHandler.healthz)

	r.router.Route("/api/v1", func(v1 chi.Router) {
		for _, kind := range []domain.DictionaryKind{domain.KindBrand, domain.KindCategory, domain.KindCurrency} {
			registerDictionaryRoutes(v1, NewDictionaryHandler(h.Catalog, kind, r.logger))
		}

		registerProductRoutes(v1, NewProductHandler(h.Products, h.Limits, r.logger), NewBatchHandler(h.Batches))
		registerPurchaseRoutes(v1, NewPurchaseHandler(h.Purchase))

		v1.Get("/stock", NewStockHandler(h.Stock).getStock)
		v1.Post("/import/excel", NewImportHandler(h.Import, h.Parser, h.Limits.MaxImageSize).importExcel)
		v1.Get("/healthz", healthHandler.healthz)
	})
}

func registerDictionaryRoutes(router chi.Router, handler *DictionaryHandler) {
	router.Route("/"+string(handler.kind), func(d chi.Router) {
		d.Post("/", handler.create)
		d.Get("/", handler.list)
		d.Get("/{id}", handler.get)
		d.Put("/{id}", handler.update)
		d.Delete("/{id}", handler.delete)
	})
}

func registerProductRoutes(router chi.Router, prHandler *ProductHandler, batchHandler *BatchHandler) {
	router.Route("/products", func(pr chi.Router) {
		pr.Post("/", prHandler.createProduct)
		pr.Get("/", prHandler.listProducts)
		pr.Get("/{id}", prHandler.getProduct)
		pr.Put("/{id}", prHandler.updateProduct)
		pr.Delete("/{id}", prHandler.deleteProduct)

		pr.Put("/{id}/images", prHandler.uploadImages)
		pr.Delete("/{id}/images/{imageId}", prHandler.deleteImage)

		pr.Post("/{id}/batches", batchHandler.addBatch)
		pr.Put("/{id}/batches/{batchId}", batchHandler.updateBatch)
		pr.Delete("/{id}/batches/{batchId}", batchHandler.deleteBatch)
	})
}

func registerPurchaseRoutes(router chi.Router, handler *PurchaseHandler) {
	router.Route("/purchases", func(pu chi.Router) {
		pu.Post("/", handler.createPurchase)
		pu.Get("/", handler.listPurchases)
		pu.Get("/{id}", handler.getPurchase)
	})
}
