package cfg

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/DRSN-tech/inventory-backend/pkg/e"
	"github.com/DRSN-tech/inventory-backend/pkg/logger"
	"github.com/jimlawless/whereami"
)

var ErrMissingEnvVariable = errors.New("required env variable is not set")

type Config struct {
	Minio   *MinIOCfg
	Http    *HTTPConfig
	Grpc    *GRPCConfig
	Db      *PGDBCfg
	Redis   *RedisCfg
	Kafka   *KafkaCfg
	Catalog *CatalogCfg
	Health  *HealthCfg
}

type KafkaCfg struct {
	Topic             string
	Brokers           []string
	NetworkMode       string
	Partitions        int
	ReplicationFactor int
	OutboxBatchSize   int           // сколько событий outbox забирается за раз
	OutboxInterval    time.Duration // период опроса outbox без уведомлений
	OutboxMaxAttempts int           // после стольких отказов брокера событие переходит в failed
}

type MinIOCfg struct {
	MinioEndpoint     string // Адрес конечной точки Minio
	PublicURL         string // Базовый адрес, по которому клиенты скачивают изображения
	BucketName        string // Название конкретного бакета в Minio
	MinioRootUser     string // Имя пользователя для доступа к Minio
	MinioRootPassword string // Пароль для доступа к Minio
	MinioUseSSL       bool
	UploadImagesLimit int   // Сколько изображений загружается в S3 одновременно
	MaxImageSize      int64 // Максимальный размер одного изображения в байтах
}

type HTTPConfig struct {
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

type GRPCConfig struct {
	Port        string
	NetworkMode string
}

type PGDBCfg struct {
	Host           string
	Port           string
	User           string
	Password       string
	DBName         string
	SSLMode        string
	MaxConns       int32
	MinConns       int32
	MigrationsPath string
}

type RedisCfg struct {
	Addr        string
	Password    string
	User        string
	DB          int
	MaxRetries  int
	DialTimeout time.Duration
	Timeout     time.Duration
	StockTTL    time.Duration
}

// CatalogCfg — правила каталога товаров.
type CatalogCfg struct {
	UniqueByWeight   bool // уникальность товара по паре имя + вес вместо одного имени
	DefaultPageLimit int
	MaxImages        int // максимум изображений у одного товара
}

type HealthCfg struct {
	Interval time.Duration
}

// Load читает конфигурацию из окружения. Все некорректные и отсутствующие
// переменные собираются в одну ошибку, чтобы их можно было исправить за один раз.
func Load(log logger.Logger) (*Config, error) {
	env := &envReader{}

	c := &Config{
		Db:      loadPGDBCfg(env),
		Http:    loadHTTPConfig(env),
		Grpc:    loadGRPCConfig(env),
		Redis:   loadRedisCfg(env),
		Minio:   loadMinIOCfg(env),
		Kafka:   loadKafkaCfg(env),
		Catalog: loadCatalogCfg(env),
		Health:  loadHealthCfg(env),
	}

	if err := env.err(); err != nil {
		log.Errorf(err, "invalid configuration")
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return c, nil
}

func loadKafkaCfg(env *envReader) *KafkaCfg {
	const (
		defaultPartitions        = 3
		defaultReplicationFactor = 1
		defaultNetworkMode       = "tcp"
		defaultOutboxBatchSize   = 50
		defaultOutboxInterval    = 5 * time.Second
		defaultOutboxMaxAttempts = 5
	)

	return &KafkaCfg{
		Brokers:           env.list("KAFKA_BROKERS"),
		Topic:             env.required("KAFKA_TOPIC"),
		Partitions:        env.positiveInt("KAFKA_PARTITIONS", defaultPartitions),
		ReplicationFactor: env.positiveInt("REPLICATION_FACTOR", defaultReplicationFactor),
		NetworkMode:       env.str("KAFKA_NETWORK_MODE", defaultNetworkMode),
		OutboxBatchSize:   env.positiveInt("OUTBOX_BATCH_SIZE", defaultOutboxBatchSize),
		OutboxInterval:    env.duration("OUTBOX_INTERVAL", defaultOutboxInterval),
		OutboxMaxAttempts: env.positiveInt("OUTBOX_MAX_ATTEMPTS", defaultOutboxMaxAttempts),
	}
}

func loadMinIOCfg(env *envReader) *MinIOCfg {
	const (
		defaultEndpoint          = "minio:9000"
		defaultPublicURL         = "http://localhost:9000"
		defaultUploadImagesLimit = 10
		defaultMaxImageSize      = 10 << 20
	)

	return &MinIOCfg{
		MinioEndpoint:     env.str("MINIO_ENDPOINT", defaultEndpoint),
		PublicURL:         strings.TrimRight(env.str("MINIO_PUBLIC_URL", defaultPublicURL), "/"),
		BucketName:        env.required("BUCKET_NAME"),
		MinioRootUser:     os.Getenv("MINIO_ROOT_USER"),
		MinioRootPassword: os.Getenv("MINIO_ROOT_PASSWORD"),
		MinioUseSSL:       env.bool("MINIO_USE_SSL", false),
		UploadImagesLimit: env.positiveInt("UPLOAD_IMAGES_LIMIT", defaultUploadImagesLimit),
		MaxImageSize:      int64(env.positiveInt("MAX_IMAGE_SIZE", defaultMaxImageSize)),
	}
}

func loadHTTPConfig(env *envReader) *HTTPConfig {
	return &HTTPConfig{
		Port:         env.str("HTTP_PORT", "8080"),
		ReadTimeout:  env.duration("HTTP_READ_TIMEOUT", 5*time.Second),
		WriteTimeout: env.duration("HTTP_WRITE_TIMEOUT", 10*time.Second),
		IdleTimeout:  env.duration("KEEP_ALIVE", 60*time.Second),
	}
}

func loadGRPCConfig(env *envReader) *GRPCConfig {
	return &GRPCConfig{
		Port:        env.str("GRPC_PORT", "8091"),
		NetworkMode: env.str("GRPC_NETWORK_MODE", "tcp"),
	}
}

func loadPGDBCfg(env *envReader) *PGDBCfg {
	const (
		defaultMaxConns       = 8
		defaultMinConns       = 1
		defaultMigrationsPath = "db/migrations"
	)

	return &PGDBCfg{
		Host:           env.str("POSTGRES_HOST", "localhost"),
		Port:           env.str("POSTGRES_PORT", "5432"),
		User:           env.required("POSTGRES_USER"),
		Password:       env.required("POSTGRES_PASSWORD"),
		DBName:         env.required("POSTGRES_DB"),
		SSLMode:        env.str("SSL_MODE", "disable"),
		MaxConns:       int32(env.positiveInt("POSTGRES_MAX_CONNS", defaultMaxConns)),
		MinConns:       int32(env.int("POSTGRES_MIN_CONNS", defaultMinConns)),
		MigrationsPath: env.str("MIGRATIONS_PATH", defaultMigrationsPath),
	}
}

func loadRedisCfg(env *envReader) *RedisCfg {
	readTimeout := env.duration("READ_TIMEOUT", 3*time.Second)
	writeTimeout := env.duration("WRITE_TIMEOUT", 3*time.Second)

	return &RedisCfg{
		Addr:        env.str("REDIS_ADDR", "localhost:6379"),
		Password:    os.Getenv("REDIS_PASSWORD"),
		User:        os.Getenv("REDIS_USER"),
		DB:          env.int("REDIS_DB_ID", 0),
		MaxRetries:  env.int("MAX_RETRIES", 3),
		DialTimeout: env.duration("DIAL_TIMEOUT", 5*time.Second),
		Timeout:     max(readTimeout, writeTimeout),
		StockTTL:    env.duration("STOCK_TTL", time.Minute),
	}
}

func loadCatalogCfg(env *envReader) *CatalogCfg {
	return &CatalogCfg{
		UniqueByWeight:   env.bool("PRODUCT_UNIQUE_BY_WEIGHT", false),
		DefaultPageLimit: env.positiveInt("DEFAULT_PAGE_LIMIT", 10),
		MaxImages:        env.positiveInt("MAX_PRODUCT_IMAGES", 10),
	}
}

func loadHealthCfg(env *envReader) *HealthCfg {
	return &HealthCfg{Interval: env.duration("HEALTH_INTERVAL", 10*time.Second)}
}

// envReader читает переменные окружения и копит ошибки разбора.
// При ошибке возвращается значение по умолчанию, а сама ошибка попадает в err().
type envReader struct {
	errs []error
}

func (r *envReader) fail(key string, err error) {
	r.errs = append(r.errs, fmt.Errorf("%s: %w", key, err))
}

func (r *envReader) err() error {
	return errors.Join(r.errs...)
}

// str возвращает значение переменной или значение по умолчанию.
func (r *envReader) str(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}

	return defaultValue
}

func (r *envReader) required(key string) string {
	v := os.Getenv(key)
	if v == "" {
		r.fail(key, ErrMissingEnvVariable)
	}
	return v
}

// list разбирает обязательный список через запятую, пустые элементы отбрасываются.
func (r *envReader) list(key string) []string {
	var out []string
	for _, item := range strings.Split(os.Getenv(key), ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	if len(out) == 0 {
		r.fail(key, ErrMissingEnvVariable)
	}
	return out
}

func (r *envReader) int(key string, defaultValue int) int {
	v := os.Getenv(key)
	if v == "" {
		return defaultValue
	}

	n, err := strconv.Atoi(v)
	if err != nil {
		r.fail(key, e.ErrIncorrectEnvVariable)
		return defaultValue
	}

	return n
}

func (r *envReader) positiveInt(key string, defaultValue int) int {
	n := r.int(key, defaultValue)
	if n <= 0 {
		r.fail(key, fmt.Errorf("%w: must be positive", e.ErrIncorrectEnvVariable))
		return defaultValue
	}
	return n
}

func (r *envReader) bool(key string, defaultValue bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return defaultValue
	}

	b, err := strconv.ParseBool(v)
	if err != nil {
		r.fail(key, e.ErrIncorrectEnvVariable)
		return defaultValue
	}

	return b
}

// duration разбирает значения вида 500ms, 10s, 1m.
func (r *envReader) duration(key string, defaultValue time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return defaultValue
	}

	d, err := time.ParseDuration(v)
	if err != nil || d < 0 {
		r.fail(key, e.ErrIncorrectEnvVariable)
		return defaultValue
	}

	return d
}
