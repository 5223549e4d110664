package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DRSN-tech/inventory-backend/internal/domain"
)

func TestComputeStock(t *testing.T) {
	env := newEnv(ProductRules{})
	ctx := context.Background()

	env.db.st.postings = []domain.StockPosting{
		{ProductID: 1, Quantity: 4},
		{ProductID: 1, Quantity: 6},
		{ProductID: 2, Quantity: 3},
		{ProductID: 9, Quantity: 100},
	}

	stock, err := env.stock.ComputeStock(ctx, []int64{1, 2, 3, 1})
	if err != nil {
		t.Fatalf("ComputeStock: %v", err)
	}

	want := map[int64]int64{1: 10, 2: 3, 3: 0}
	for id, qty := range want {
		if got := stock.Quantity(id); got != qty {
			t.Errorf("product %d: stock = %d, want %d", id, got, qty)
		}
	}
	if len(stock) != 3 {
		t.Errorf("stock has %d entries, want 3", len(stock))
	}
}

func TestComputeStockPrefersCache(t *testing.T) {
	env := newEnv(ProductRules{})
	ctx := context.Background()

	env.db.st.postings = []domain.StockPosting{{ProductID: 1, Quantity: 4}}
	env.cache.stock[1] = 42

	stock, err := env.stock.ComputeStock(ctx, []int64{1})
	if err != nil {
		t.Fatalf("ComputeStock: %v", err)
	}
	if stock.Quantity(1) != 42 {
		t.Errorf("stock = %d, want cached 42", stock.Quantity(1))
	}
}

func TestComputeStockFallsBackWhenCacheFails(t *testing.T) {
	env := newEnv(ProductRules{})
	ctx := context.Background()

	env.db.st.postings = []domain.StockPosting{{ProductID: 1, Quantity: 4}}
	env.cache.getErr = errors.New("redis down")

	stock, err := env.stock.ComputeStock(ctx, []int64{1})
	if err != nil {
		t.Fatalf("ComputeStock: %v", err)
	}
	if stock.Quantity(1) != 4 {
		t.Errorf("stock = %d, want 4", stock.Quantity(1))
	}
}

func TestComputeStockEmpty(t *testing.T) {
	env := newEnv(ProductRules{})

	stock, err := env.stock.ComputeStock(context.Background(), nil)
	if err != nil {
		t.Fatalf("ComputeStock: %v", err)
	}
	if len(stock) != 0 {
		t.Errorf("stock = %v, want empty", stock)
	}
}

// pausedStockRepo останавливает SumByProducts после чтения, пока тест не разрешит продолжить.
type pausedStockRepo struct {
	fakeStockRepo
	read   chan struct{}
	resume chan struct{}
}

func (r pausedStockRepo) SumByProducts(ctx context.Context, ids []int64) (domain.StockMap, error) {
	sums, err := r.fakeStockRepo.SumByProducts(ctx, ids)
	close(r.read)
	<-r.resume
	return sums, err
}

func TestComputeStockSkipsWriteBackAfterInvalidation(t *testing.T) {
	env := newEnv(ProductRules{})
	ctx := context.Background()
	product := env.db.putProduct(domain.Product{Name: "Soap"})

	env.cache.written = make(chan struct{}, 1)
	repo := pausedStockRepo{
		fakeStockRepo: fakeStockRepo{env.db},
		read:          make(chan struct{}),
		resume:        make(chan struct{}),
	}
	listing := NewStockUC(repo, env.cache, nopLogger{})

	type result struct {
		stock domain.StockMap
		err   error
	}
	done := make(chan result, 1)
	go func() {
		stock, err := listing.ComputeStock(ctx, []int64{product.ID})
		done <- result{stock, err}
	}()

	// Закупка проводится между чтением остатков и записью их в кэш
	<-repo.read
	if _, err := env.purchases.CreatePurchase(ctx, &CreatePurchaseReq{
		Lines: []PurchaseLineReq{{ProductID: product.ID, Quantity: 10}},
	}); err != nil {
		t.Fatalf("CreatePurchase: %v", err)
	}
	close(repo.resume)

	res := <-done
	if res.err != nil {
		t.Fatalf("ComputeStock: %v", res.err)
	}
	if got := res.stock.Quantity(product.ID); got != 0 {
		t.Fatalf("stock read before purchase = %d, want 0", got)
	}

	select {
	case <-env.cache.written:
	case <-time.After(time.Second):
		t.Fatal("background cache write did not finish")
	}

	stock, err := env.stock.ComputeStock(ctx, []int64{product.ID})
	if err != nil {
		t.Fatalf("ComputeStock: %v", err)
	}
	if got := stock.Quantity(product.ID); got != 10 {
		t.Fatalf("stock = %d, want 10", got)
	}
}

func TestComputeStockCachesUnchangedProducts(t *testing.T) {
	env := newEnv(ProductRules{})
	ctx := context.Background()

	env.db.st.postings = []domain.StockPosting{{ProductID: 1, Quantity: 4}}
	env.cache.written = make(chan struct{}, 1)

	if _, err := env.stock.ComputeStock(ctx, []int64{1}); err != nil {
		t.Fatalf("ComputeStock: %v", err)
	}
	select {
	case <-env.cache.written:
	case <-time.After(time.Second):
		t.Fatal("background cache write did not finish")
	}

	env.cache.mu.Lock()
	defer env.cache.mu.Unlock()
	if qty, ok := env.cache.stock[1]; !ok || qty != 4 {
		t.Fatalf("cached stock = %d (present %v), want 4", qty, ok)
	}
}
