package cfg

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/DRSN-tech/inventory-backend/pkg/e"
)

type nopLogger struct{}

func (nopLogger) Debugf(string, ...any)        {}
func (nopLogger) Infof(string, ...any)         {}
func (nopLogger) Warnf(string, ...any)         {}
func (nopLogger) Errorf(error, string, ...any) {}

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("POSTGRES_USER", "inventory")
	t.Setenv("POSTGRES_PASSWORD", "secret")
	t.Setenv("POSTGRES_DB", "inventory")
	t.Setenv("BUCKET_NAME", "products")
	t.Setenv("KAFKA_BROKERS", "kafka-1:9092,kafka-2:9092")
	t.Setenv("KAFKA_TOPIC", "inventory.purchases")
}

func TestLoadDefaults(t *testing.T) {
	setRequired(t)

	c, err := Load(nopLogger{})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if c.Http.Port != "8080" || c.Grpc.Port != "8091" {
		t.Fatalf("ports = %s/%s", c.Http.Port, c.Grpc.Port)
	}
	if c.Db.MigrationsPath != "db/migrations" || c.Db.MaxConns != 8 {
		t.Fatalf("db = %+v", c.Db)
	}
	if len(c.Kafka.Brokers) != 2 || c.Kafka.Brokers[1] != "kafka-2:9092" {
		t.Fatalf("brokers = %v", c.Kafka.Brokers)
	}
	if c.Kafka.OutboxInterval != 5*time.Second || c.Kafka.OutboxBatchSize != 50 || c.Kafka.OutboxMaxAttempts != 5 {
		t.Fatalf("outbox = %d/%s/%d", c.Kafka.OutboxBatchSize, c.Kafka.OutboxInterval, c.Kafka.OutboxMaxAttempts)
	}
	if c.Redis.StockTTL != time.Minute || c.Redis.Timeout != 3*time.Second {
		t.Fatalf("redis = %+v", c.Redis)
	}
	if c.Catalog.UniqueByWeight || c.Catalog.DefaultPageLimit != 10 {
		t.Fatalf("catalog = %+v", c.Catalog)
	}
	if c.Minio.MaxImageSize != 10<<20 {
		t.Fatalf("max image size = %d", c.Minio.MaxImageSize)
	}
	if c.Health.Interval != 10*time.Second {
		t.Fatalf("health interval = %s", c.Health.Interval)
	}
}

func TestLoadOverrides(t *testing.T) {
	setRequired(t)
	t.Setenv("PRODUCT_UNIQUE_BY_WEIGHT", "true")
	t.Setenv("MINIO_PUBLIC_URL", "https://cdn.example.com/")
	t.Setenv("STOCK_TTL", "30s")
	t.Setenv("WRITE_TIMEOUT", "7s")

	c, err := Load(nopLogger{})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if !c.Catalog.UniqueByWeight {
		t.Fatal("UniqueByWeight not applied")
	}
	if c.Minio.PublicURL != "https://cdn.example.com" {
		t.Fatalf("public url = %s", c.Minio.PublicURL)
	}
	if c.Redis.StockTTL != 30*time.Second || c.Redis.Timeout != 7*time.Second {
		t.Fatalf("redis = %+v", c.Redis)
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  string
	}{
		{"missing db user", "POSTGRES_USER", ""},
		{"missing topic", "KAFKA_TOPIC", ""},
		{"bad page limit", "DEFAULT_PAGE_LIMIT", "0"},
		{"bad int", "POSTGRES_MAX_CONNS", "many"},
		{"bad duration", "HEALTH_INTERVAL", "soon"},
		{"bad bool", "MINIO_USE_SSL", "maybe"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setRequired(t)
			t.Setenv(tt.key, tt.val)

			if _, err := Load(nopLogger{}); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestLoadReportsEveryInvalidVariable(t *testing.T) {
	setRequired(t)
	t.Setenv("BUCKET_NAME", "")
	t.Setenv("STOCK_TTL", "-1s")
	t.Setenv("KAFKA_PARTITIONS", "three")

	_, err := Load(nopLogger{})
	if err == nil {
		t.Fatal("expected error")
	}
	for _, key := range []string{"BUCKET_NAME", "STOCK_TTL", "KAFKA_PARTITIONS"} {
		if !strings.Contains(err.Error(), key) {
			t.Errorf("error does not mention %s: %v", key, err)
		}
	}
	if !errors.Is(err, ErrMissingEnvVariable) || !errors.Is(err, e.ErrIncorrectEnvVariable) {
		t.Fatalf("err = %v", err)
	}
}

func TestEnvReaderList(t *testing.T) {
	t.Setenv("BROKERS", " a:1 , ,b:2,")
	env := &envReader{}

	got := env.list("BROKERS")
	if len(got) != 2 || got[0] != "a:1" || got[1] != "b:2" {
		t.Fatalf("list = %v", got)
	}
	if env.err() != nil {
		t.Fatalf("err = %v", env.err())
	}

	t.Setenv("BROKERS", " , ")
	if env.list("BROKERS"); !errors.Is(env.err(), ErrMissingEnvVariable) {
		t.Fatalf("err = %v", env.err())
	}
}
