package pgdb

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/DRSN-tech/inventory-backend/internal/domain"
	"github.com/DRSN-tech/inventory-backend/internal/repository/pgdb/converter"
	"github.com/DRSN-tech/inventory-backend/pkg/e"
	"github.com/DRSN-tech/inventory-backend/pkg/postgres"
	embeddedpostgres "github.com/fergusstrange/embedded-postgres"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

const (
	embeddedPort = 54329
	embeddedUser = "inventory"
)

type nopLogger struct{}

func (nopLogger) Debugf(string, ...any)        {}
func (nopLogger) Infof(string, ...any)         {}
func (nopLogger) Warnf(string, ...any)         {}
func (nopLogger) Errorf(error, string, ...any) {}

// startPostgres поднимает временный PostgreSQL и применяет миграции.
// Запускается только с INVENTORY_PG_TESTS=1: первый старт скачивает бинарники.
func startPostgres(t *testing.T) *pgxpool.Pool {
	t.Helper()
	if testing.Short() || os.Getenv("INVENTORY_PG_TESTS") != "1" {
		t.Skip("set INVENTORY_PG_TESTS=1 to run PostgreSQL tests")
	}

	db := embeddedpostgres.NewDatabase(embeddedpostgres.DefaultConfig().
		Port(embeddedPort).
		Username(embeddedUser).
		Password(embeddedUser).
		Database(embeddedUser).
		RuntimePath(t.TempDir()).
		StartTimeout(time.Minute))
	if err := db.Start(); err != nil {
		t.Fatalf("start embedded postgres: %v", err)
	}
	t.Cleanup(func() {
		if err := db.Stop(); err != nil {
			t.Logf("stop embedded postgres: %v", err)
		}
	})

	dsn := fmt.Sprintf("host=localhost port=%d user=%s password=%s dbname=%s sslmode=disable",
		embeddedPort, embeddedUser, embeddedUser, embeddedUser)

	dir, err := filepath.Abs("../../../db/migrations")
	if err != nil {
		t.Fatal(err)
	}
	if err := postgres.Migrate(dsn, dir, nopLogger{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	pool, err := pgxpool.New(context.Background(), dsn)
	if err != nil {
		t.Fatalf("pool: %v", err)
	}
	t.Cleanup(pool.Close)

	return pool
}

func TestPostgresLedger(t *testing.T) {
	pool := startPostgres(t)
	ctx := context.Background()

	dicts := NewDictionaryRepo(pool, &converter.DictionaryConverterImpl{})
	products := NewProductRepo(pool, &converter.ProductConverterImpl{})
	purchases := NewPurchaseRepo(pool, &converter.PurchaseConverterImpl{})
	stock := NewStockRepo(pool, &converter.PurchaseConverterImpl{})

	t.Run("dictionary uniqueness", func(t *testing.T) {
		if _, err := dicts.Create(ctx, domain.NewDictionary(domain.KindBrand, "Acme", "")); err != nil {
			t.Fatalf("create: %v", err)
		}
		_, err := dicts.Create(ctx, domain.NewDictionary(domain.KindBrand, "Acme", "again"))
		if !errors.Is(err, e.ErrDuplicateName) {
			t.Fatalf("duplicate err = %v", err)
		}
	})

	currency, err := dicts.Create(ctx, domain.NewDictionary(domain.KindCurrency, "USD", ""))
	if err != nil {
		t.Fatalf("currency: %v", err)
	}

	product, err := products.Create(ctx, domain.NewProduct("Tea", "green", decimal.RequireFromString("4.50"), "100g"))
	if err != nil {
		t.Fatalf("product: %v", err)
	}

	purchase, err := purchases.Create(ctx, &domain.Purchase{
		OrderNumber:  "PO-1",
		PurchaseDate: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		CurrencyID:   &currency.ID,
		ExchangeRate: decimal.NewFromInt(1),
		ExtraCost:    decimal.NewFromInt(10),
	})
	if err != nil {
		t.Fatalf("purchase: %v", err)
	}

	t.Run("postings are summed per product", func(t *testing.T) {
		_, err := stock.CreatePostings(ctx, []domain.StockPosting{
			{ProductID: product.ID, PurchaseID: purchase.ID, Quantity: 5, PurchasePrice: decimal.NewFromInt(2), ItemCost: decimal.NewFromInt(1)},
			{ProductID: product.ID, PurchaseID: purchase.ID, Quantity: 7, PurchasePrice: decimal.NewFromInt(2), ItemCost: decimal.NewFromInt(1)},
		})
		if err != nil {
			t.Fatalf("postings: %v", err)
		}

		sums, err := stock.SumByProducts(ctx, []int64{product.ID, product.ID + 1000})
		if err != nil {
			t.Fatalf("sum: %v", err)
		}
		if got := sums.Quantity(product.ID); got != 12 {
			t.Fatalf("quantity = %d, want 12", got)
		}
		if _, ok := sums[product.ID+1000]; ok {
			t.Fatal("product without postings must be absent")
		}
	})

	t.Run("item cost keeps every digit", func(t *testing.T) {
		costs := domain.SplitExtraCost(decimal.RequireFromString("0.0001"), 3)
		in := make([]domain.StockPosting, 0, len(costs))
		for _, cost := range costs {
			in = append(in, domain.StockPosting{ProductID: product.ID, PurchaseID: purchase.ID, Quantity: 1, ItemCost: cost})
		}

		out, err := stock.CreatePostings(ctx, in)
		if err != nil {
			t.Fatalf("postings: %v", err)
		}
		sum := decimal.Zero
		for i, p := range out {
			if !p.ItemCost.Equal(costs[i]) {
				t.Errorf("item cost %d = %s, want %s", i, p.ItemCost, costs[i])
			}
			sum = sum.Add(p.ItemCost)
		}
		if !sum.Equal(decimal.RequireFromString("0.0001")) {
			t.Errorf("sum = %s, want 0.0001", sum)
		}
	})

	t.Run("duplicate order number", func(t *testing.T) {
		_, err := purchases.Create(ctx, &domain.Purchase{
			OrderNumber:  "PO-1",
			PurchaseDate: time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC),
			ExchangeRate: decimal.NewFromInt(1),
		})
		if !errors.Is(err, e.ErrDuplicateOrderNumber) {
			t.Fatalf("err = %v", err)
		}
	})

	t.Run("referenced currency cannot be deleted", func(t *testing.T) {
		err := dicts.Delete(ctx, domain.KindCurrency, currency.ID)
		if !errors.Is(err, e.ErrReferenced) {
			t.Fatalf("err = %v", err)
		}
	})
}
