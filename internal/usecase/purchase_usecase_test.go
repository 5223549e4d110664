package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/DRSN-tech/inventory-backend/internal/domain"
	"github.com/DRSN-tech/inventory-backend/pkg/e"
	"github.com/shopspring/decimal"
)

func TestCreatePurchaseSplitsExtraCost(t *testing.T) {
	env := newEnv(ProductRules{})
	ctx := context.Background()

	usd, err := env.catalog.Create(ctx, &CreateDictionaryReq{Kind: domain.KindCurrency, Name: "USD"})
	if err != nil {
		t.Fatalf("create currency: %v", err)
	}
	lipstick, err := env.products.CreateProduct(ctx, &CreateProductReq{Name: "Lipstick A", SellingPrice: decimal.NewFromInt(10)})
	if err != nil {
		t.Fatalf("create product: %v", err)
	}

	line := PurchaseLineReq{ProductID: lipstick.ID, Quantity: 5, PurchasePrice: decimal.NewFromInt(2)}
	info, err := env.purchases.CreatePurchase(ctx, &CreatePurchaseReq{
		CurrencyID:   &usd.ID,
		ExchangeRate: decimal.NewFromInt(1),
		ExtraCost:    decimal.NewFromInt(30),
		Lines:        []PurchaseLineReq{line, line},
	})
	if err != nil {
		t.Fatalf("CreatePurchase: %v", err)
	}

	if len(info.Details) != 2 || len(info.Postings) != 2 {
		t.Fatalf("details = %d, postings = %d, want 2 and 2", len(info.Details), len(info.Postings))
	}
	for _, posting := range info.Postings {
		if !posting.ItemCost.Equal(decimal.NewFromInt(15)) {
			t.Errorf("itemCost = %s, want 15", posting.ItemCost)
		}
		if posting.PurchaseID != info.Purchase.ID {
			t.Errorf("posting purchase id = %d, want %d", posting.PurchaseID, info.Purchase.ID)
		}
	}
	if !strings.HasPrefix(info.Purchase.OrderNumber, "PO-") {
		t.Errorf("order number = %q", info.Purchase.OrderNumber)
	}

	stock, err := env.stock.ComputeStock(ctx, []int64{lipstick.ID})
	if err != nil {
		t.Fatalf("ComputeStock: %v", err)
	}
	if got := stock.Quantity(lipstick.ID); got != 10 {
		t.Errorf("stock = %d, want 10", got)
	}

	env.db.mu.Lock()
	events := append([]OutboxEvent(nil), env.db.st.outbox...)
	env.db.mu.Unlock()
	if len(events) != 1 || events[0].EventType != PurchasePosted || events[0].AggregateID != info.Purchase.ID {
		t.Errorf("outbox events = %+v", events)
	}
}

func TestCreatePurchaseUnevenSplitSumsToExtraCost(t *testing.T) {
	env := newEnv(ProductRules{})
	ctx := context.Background()
	product := env.db.putProduct(domain.Product{Name: "Soap"})

	line := PurchaseLineReq{ProductID: product.ID, Quantity: 1, PurchasePrice: decimal.NewFromInt(1)}
	for _, extraCost := range []string{"10", "0.0001"} {
		c := decimal.RequireFromString(extraCost)
		info, err := env.purchases.CreatePurchase(ctx, &CreatePurchaseReq{
			ExtraCost: c,
			Lines:     []PurchaseLineReq{line, line, line},
		})
		if err != nil {
			t.Fatalf("CreatePurchase(%s): %v", extraCost, err)
		}

		sum := decimal.Zero
		for i, posting := range info.Postings {
			if !posting.ItemCost.Equal(info.Details[i].ItemCost) {
				t.Errorf("extraCost %s: posting %d itemCost %s differs from detail %s", extraCost, i, posting.ItemCost, info.Details[i].ItemCost)
			}
			sum = sum.Add(posting.ItemCost)
		}
		if !sum.Equal(c) {
			t.Errorf("extraCost %s: itemCost sum = %s", extraCost, sum)
		}
	}
}

func TestCreatePurchaseValidation(t *testing.T) {
	env := newEnv(ProductRules{})
	ctx := context.Background()
	product := env.db.putProduct(domain.Product{Name: "Soap"})

	valid := func() PurchaseLineReq {
		return PurchaseLineReq{ProductID: product.ID, Quantity: 1, PurchasePrice: decimal.NewFromInt(1)}
	}

	tests := []struct {
		name string
		req  CreatePurchaseReq
		want error
	}{
		{"no lines", CreatePurchaseReq{}, e.ErrValidation},
		{"zero quantity", CreatePurchaseReq{Lines: []PurchaseLineReq{{ProductID: product.ID}}}, e.ErrValidation},
		{"missing product id", CreatePurchaseReq{Lines: []PurchaseLineReq{{Quantity: 1}}}, e.ErrValidation},
		{"negative rate", CreatePurchaseReq{ExchangeRate: decimal.NewFromInt(-1), Lines: []PurchaseLineReq{valid()}}, e.ErrValidation},
		{"negative extra cost", CreatePurchaseReq{ExtraCost: decimal.NewFromInt(-1), Lines: []PurchaseLineReq{valid()}}, e.ErrValidation},
		{"unknown product", CreatePurchaseReq{Lines: []PurchaseLineReq{{ProductID: 404, Quantity: 1}}}, e.ErrNotFound},
		{"unknown currency", CreatePurchaseReq{CurrencyID: ptr(int64(404)), Lines: []PurchaseLineReq{valid()}}, e.ErrNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.purchases.CreatePurchase(ctx, &tt.req)
			if !errors.Is(err, tt.want) {
				t.Fatalf("err = %v, want %v", err, tt.want)
			}
		})
	}

	if env.db.purchasesCount() != 0 || env.db.postingsCount() != 0 {
		t.Error("rejected purchases must not write anything")
	}
}

func TestCreatePurchaseDefaults(t *testing.T) {
	env := newEnv(ProductRules{})
	ctx := context.Background()
	product := env.db.putProduct(domain.Product{Name: "Soap"})

	info, err := env.purchases.CreatePurchase(ctx, &CreatePurchaseReq{
		Lines: []PurchaseLineReq{{ProductID: product.ID, Quantity: 3}},
	})
	if err != nil {
		t.Fatalf("CreatePurchase: %v", err)
	}
	if !info.Purchase.ExchangeRate.Equal(decimal.NewFromInt(1)) {
		t.Errorf("exchange rate = %s, want 1", info.Purchase.ExchangeRate)
	}
	if info.Purchase.PurchaseDate.IsZero() {
		t.Error("purchase date must default to now")
	}
	if !info.Postings[0].ItemCost.IsZero() {
		t.Errorf("itemCost = %s, want 0", info.Postings[0].ItemCost)
	}
}

func TestCreatePurchaseRollsBackOnPostingFailure(t *testing.T) {
	env := newEnv(ProductRules{})
	ctx := context.Background()
	product := env.db.putProduct(domain.Product{Name: "Soap"})
	env.db.failPostings = e.Dependency(errors.New("disk full"))

	_, err := env.purchases.CreatePurchase(ctx, &CreatePurchaseReq{
		Lines: []PurchaseLineReq{{ProductID: product.ID, Quantity: 3}},
	})
	if !errors.Is(err, e.ErrDependency) {
		t.Fatalf("err = %v, want dependency failure", err)
	}
	if env.db.purchasesCount() != 0 || env.db.postingsCount() != 0 {
		t.Error("failed purchase must leave no header and no postings")
	}
}

func TestCreatePurchaseRetriesOrderNumberCollision(t *testing.T) {
	env := newEnv(ProductRules{})
	ctx := context.Background()
	product := env.db.putProduct(domain.Product{Name: "Soap"})
	env.db.orderCollisions = 2

	info, err := env.purchases.CreatePurchase(ctx, &CreatePurchaseReq{
		Lines: []PurchaseLineReq{{ProductID: product.ID, Quantity: 1}},
	})
	if err != nil {
		t.Fatalf("CreatePurchase: %v", err)
	}
	if env.db.purchasesCount() != 1 || info.Purchase.ID == 0 {
		t.Errorf("purchases = %d", env.db.purchasesCount())
	}

	env.db.orderCollisions = purchaseBackoff.Attempts
	_, err = env.purchases.CreatePurchase(ctx, &CreatePurchaseReq{
		Lines: []PurchaseLineReq{{ProductID: product.ID, Quantity: 1}},
	})
	if !errors.Is(err, e.ErrConflict) {
		t.Errorf("exhausted retries: err = %v", err)
	}
}

func TestCreatePurchaseInvalidatesStockCache(t *testing.T) {
	env := newEnv(ProductRules{})
	ctx := context.Background()
	product := env.db.putProduct(domain.Product{Name: "Soap"})
	env.cache.stock[product.ID] = 99

	if _, err := env.purchases.CreatePurchase(ctx, &CreatePurchaseReq{
		Lines: []PurchaseLineReq{{ProductID: product.ID, Quantity: 4}},
	}); err != nil {
		t.Fatalf("CreatePurchase: %v", err)
	}

	stock, err := env.stock.ComputeStock(ctx, []int64{product.ID})
	if err != nil {
		t.Fatalf("ComputeStock: %v", err)
	}
	if got := stock.Quantity(product.ID); got != 4 {
		t.Errorf("stock = %d, want 4 after invalidation", got)
	}
}

func TestGetAndListPurchases(t *testing.T) {
	env := newEnv(ProductRules{})
	ctx := context.Background()
	product := env.db.putProduct(domain.Product{Name: "Soap"})

	var lastID int64
	for i := 0; i < 3; i++ {
		info, err := env.purchases.CreatePurchase(ctx, &CreatePurchaseReq{
			PurchaseDate: time.Date(2024, 5, i+1, 0, 0, 0, 0, time.UTC),
			Note:         "weekly",
			Lines:        []PurchaseLineReq{{ProductID: product.ID, Quantity: 2}},
		})
		if err != nil {
			t.Fatalf("CreatePurchase %d: %v", i, err)
		}
		lastID = info.Purchase.ID
	}

	got, err := env.purchases.GetPurchase(ctx, lastID)
	if err != nil {
		t.Fatalf("GetPurchase: %v", err)
	}
	if len(got.Details) != 1 || len(got.Postings) != 1 {
		t.Errorf("details = %d, postings = %d", len(got.Details), len(got.Postings))
	}

	if _, err := env.purchases.GetPurchase(ctx, 404); !errors.Is(err, e.ErrNotFound) {
		t.Errorf("missing purchase: err = %v", err)
	}

	list, err := env.purchases.ListPurchases(ctx, &ListPurchasesReq{Page: 1, Limit: 2, Note: "WEEK"})
	if err != nil {
		t.Fatalf("ListPurchases: %v", err)
	}
	if len(list.Items) != 2 || list.TotalPages == nil || *list.TotalPages != 2 {
		t.Errorf("len = %d, totalPages = %v", len(list.Items), list.TotalPages)
	}
}
