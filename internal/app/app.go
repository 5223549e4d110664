package app

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	config "github.com/DRSN-tech/inventory-backend/internal/cfg"
	v1Grpc "github.com/DRSN-tech/inventory-backend/internal/delivery/v1/grpc"
	v1Http "github.com/DRSN-tech/inventory-backend/internal/delivery/v1/http"
	"github.com/DRSN-tech/inventory-backend/internal/infrastructure/excel"
	"github.com/DRSN-tech/inventory-backend/internal/infrastructure/kafka"
	minioInfra "github.com/DRSN-tech/inventory-backend/internal/infrastructure/minio"
	s3Repo "github.com/DRSN-tech/inventory-backend/internal/repository/minio"
	"github.com/DRSN-tech/inventory-backend/internal/repository/pgdb"
	pgdbConv "github.com/DRSN-tech/inventory-backend/internal/repository/pgdb/converter"
	"github.com/DRSN-tech/inventory-backend/internal/repository/redis"
	redisConv "github.com/DRSN-tech/inventory-backend/internal/repository/redis/converter"
	"github.com/DRSN-tech/inventory-backend/internal/usecase"
	"github.com/DRSN-tech/inventory-backend/pkg/clients"
	"github.com/DRSN-tech/inventory-backend/pkg/closer"
	"github.com/DRSN-tech/inventory-backend/pkg/e"
	"github.com/DRSN-tech/inventory-backend/pkg/logger"
	"github.com/DRSN-tech/inventory-backend/pkg/postgres"
	"github.com/DRSN-tech/inventory-backend/pkg/tr"
	"github.com/go-chi/chi/v5"
	"github.com/jimlawless/whereami"
)

const (
	initTimeout     = 10 * time.Second
	shutdownTimeout = 15 * time.Second
	topicTimeout    = 10 * time.Second
)

// App собирает зависимости сервиса и управляет его жизненным циклом.
type App struct {
	cfg    *config.Config
	logger logger.Logger
	closer *closer.Closer

	httpSrv      *v1Http.Server
	grpcSrv      *v1Grpc.GRPCServer
	probe        *v1Grpc.HealthProbe
	outboxWorker *kafka.OutboxWorker
	imagesInfra  *minioInfra.MinioInfrastructure

	// отменяется при остановке, прерывает фоновые задачи
	bgCtx    context.Context
	bgCancel context.CancelFunc
}

// NewApp подключается к PostgreSQL, Redis, MinIO и Kafka и собирает слои приложения.
// При ошибке уже открытые ресурсы закрываются.
func NewApp(cfg *config.Config, logger logger.Logger) (_ *App, err error) {
	bgCtx, bgCancel := context.WithCancel(context.Background())
	a := &App{
		cfg:      cfg,
		logger:   logger,
		closer:   closer.NewCloser(0),
		bgCtx:    bgCtx,
		bgCancel: bgCancel,
	}
	defer func() {
		if err != nil {
			bgCancel()
			if cerr := a.closer.Close(context.Background()); cerr != nil {
				logger.Warnf("cleanup after failed init: %v", cerr)
			}
		}
	}()

	initCtx, cancel := context.WithTimeout(context.Background(), initTimeout)
	defer cancel()

	// === PostgreSQL ===
	db, err := initPGDB(initCtx, logger, cfg)
	if err != nil {
		return nil, err
	}
	a.closer.AddFunc("postgres", db.Close)

	dictConv := &pgdbConv.DictionaryConverterImpl{}
	prConv := &pgdbConv.ProductConverterImpl{}
	purchaseConv := &pgdbConv.PurchaseConverterImpl{}
	outboxConv := &pgdbConv.OutboxEventConverterImpl{}

	dictRepo := pgdb.NewDictionaryRepo(db.Pool, dictConv)
	productRepo := pgdb.NewProductRepo(db.Pool, prConv)
	purchaseRepo := pgdb.NewPurchaseRepo(db.Pool, purchaseConv)
	stockRepo := pgdb.NewStockRepo(db.Pool, purchaseConv)
	outboxRepo := pgdb.NewOutboxEventRepo(db.Pool, outboxConv)
	txManager := tr.NewManager(db.Pool)

	// === Redis ===
	redisClient := clients.NewRedisClient(cfg.Redis)
	if err := redisClient.Ping(initCtx); err != nil {
		logger.Errorf(err, "failed to connect to redis")
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}
	a.closer.Add("redis", redisClient.Close)
	cacheRepo := redis.NewCacheRepo(redisClient, &redisConv.StockConverterImpl{}, cfg.Redis, logger)

	// === MinIO ===
	minioClient, err := clients.NewMinIOClient(cfg.Minio)
	if err != nil {
		logger.Errorf(err, "failed to initialize minio client")
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}
	if err := clients.EnsureBucket(initCtx, minioClient, cfg.Minio.BucketName); err != nil {
		logger.Errorf(err, "failed to initialize MinIO bucket")
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}
	imageRepo := s3Repo.NewImageRepo(minioClient, cfg.Minio)
	a.imagesInfra = minioInfra.NewMinioInfrastructure(imageRepo, cfg.Minio.UploadImagesLimit, logger, bgCtx)

	// === Kafka ===
	producer := kafka.NewProducer(logger, cfg.Kafka)
	a.closer.Add("kafka producer", func(context.Context) error { return producer.Close() })
	topicCtx, topicCancel := context.WithTimeout(initCtx, topicTimeout)
	defer topicCancel()
	if err := producer.EnsureTopic(topicCtx); err != nil {
		// Топик может создать сам брокер, outbox дождётся его доступности
		logger.Warnf("failed to ensure kafka topic %s: %v", cfg.Kafka.Topic, err)
	}
	a.outboxWorker = kafka.NewOutboxWorker(
		outboxRepo,
		logger,
		producer,
		db.Dsn,
		cfg.Kafka.OutboxBatchSize,
		cfg.Kafka.OutboxInterval,
		cfg.Kafka.OutboxMaxAttempts,
	)

	// === Usecases ===
	stockUC := usecase.NewStockUC(stockRepo, cacheRepo, logger)
	catalogUC := usecase.NewCatalogUC(dictRepo, cfg.Catalog.DefaultPageLimit, logger)
	batchUC := usecase.NewBatchUC(productRepo, logger)
	productUC := usecase.NewProductUC(
		productRepo,
		dictRepo,
		txManager,
		a.imagesInfra,
		stockUC,
		usecase.ProductRules{
			UniqueByWeight: cfg.Catalog.UniqueByWeight,
			MaxImages:      cfg.Catalog.MaxImages,
			DefaultLimit:   cfg.Catalog.DefaultPageLimit,
		},
		logger,
	)
	purchaseUC := usecase.NewPurchaseUC(
		purchaseRepo,
		stockRepo,
		productRepo,
		dictRepo,
		outboxRepo,
		txManager,
		kafka.NewProtoEncoder(),
		stockUC,
		cfg.Catalog.DefaultPageLimit,
		logger,
	)
	importUC := usecase.NewImportUC(dictRepo, productRepo, purchaseUC, logger)

	// === Delivery ===
	a.probe = v1Grpc.NewHealthProbe(db, cfg.Health.Interval, logger).
		WithOptional("redis", redisClient)
	a.grpcSrv = v1Grpc.NewGRPCServer(cfg.Grpc, logger)
	a.grpcSrv.RegisterServices(a.probe)

	r := chi.NewRouter()
	v1Http.NewRouter(r, logger).Init(v1Http.Handlers{
		Catalog:  catalogUC,
		Products: productUC,
		Batches:  batchUC,
		Purchase: purchaseUC,
		Stock:    stockUC,
		Import:   importUC,
		Parser:   excel.NewParser(),
		Health:   a.probe,
		Limits: v1Http.UploadLimits{
			MaxImages:    cfg.Catalog.MaxImages,
			MaxImageSize: cfg.Minio.MaxImageSize,
		},
	})
	a.httpSrv = v1Http.NewServer(r, cfg.Http)

	return a, nil
}

// Run запускает серверы и фоновые задачи и блокируется до сигнала остановки или падения сервера.
func (a *App) Run() error {
	go a.probe.Run(a.bgCtx)
	a.outboxWorker.Start(a.bgCtx)

	grpcErrCh := make(chan error, 1)
	go func() {
		a.logger.Infof("gRPC server starting on %s:%s", a.cfg.Grpc.NetworkMode, a.cfg.Grpc.Port)
		if err := a.grpcSrv.Start(); err != nil {
			grpcErrCh <- err
		}
	}()

	errCh := make(chan error, 1)
	go func() {
		a.logger.Infof("HTTP server started on port %s", a.cfg.Http.Port)
		if err := a.httpSrv.Run(); err != nil {
			errCh <- err
		}
	}()

	// === Ожидание сигнала или ошибки ===
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(shutdown)

	var appErr error
	select {
	case appErr = <-errCh:
		a.logger.Errorf(appErr, "HTTP server fatal error")
	case appErr = <-grpcErrCh:
		a.logger.Errorf(appErr, "gRPC server fatal error")
	case <-shutdown:
		a.logger.Infof("Received shutdown signal, stopping gracefully...")
	}

	if err := a.stop(); err != nil {
		a.logger.Errorf(err, "shutdown finished with errors")
		if appErr == nil {
			appErr = err
		}
	}

	a.logger.Infof("Application shutdown complete")
	return appErr
}

// stop останавливает приём запросов, затем фоновые задачи, затем закрывает клиенты.
func (a *App) stop() error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	var errs []error
	if err := a.httpSrv.Stop(ctx); err != nil {
		errs = append(errs, e.Wrap("http server", err))
	} else {
		a.logger.Infof("HTTP server stopped")
	}

	if err := a.grpcSrv.Stop(ctx); err != nil && !errors.Is(err, context.DeadlineExceeded) {
		errs = append(errs, e.Wrap("grpc server", err))
	}

	if err := a.imagesInfra.WaitForCleanup(ctx); err != nil {
		a.logger.Warnf("MinIO cleanup did not finish before shutdown, some objects may remain: %v", err)
	}

	a.bgCancel()
	a.outboxWorker.Stop()

	if err := a.closer.Close(ctx); err != nil {
		errs = append(errs, err)
	}

	return errors.Join(errs...)
}

func initPGDB(ctx context.Context, logger logger.Logger, cfg *config.Config) (*postgres.PgDatabase, error) {
	db, err := postgres.Connect(ctx, cfg.Db)
	if err != nil {
		logger.Errorf(err, "failed to connect to database")
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	if err := db.RunMigrations(logger); err != nil {
		db.Close()
		logger.Errorf(err, "failed to run migrations")
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return db, nil
}
