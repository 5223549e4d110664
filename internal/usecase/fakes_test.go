package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/DRSN-tech/inventory-backend/internal/domain"
	"github.com/DRSN-tech/inventory-backend/pkg/e"
	"github.com/DRSN-tech/inventory-backend/pkg/pagination"
)

type nopLogger struct{}

func (nopLogger) Debugf(string, ...any)        {}
func (nopLogger) Infof(string, ...any)         {}
func (nopLogger) Warnf(string, ...any)         {}
func (nopLogger) Errorf(error, string, ...any) {}

// memState — снимок всех таблиц in-memory базы.
type memState struct {
	dicts     map[domain.DictionaryKind]map[int64]domain.Dictionary
	products  map[int64]domain.Product
	purchases map[int64]domain.Purchase
	details   []domain.PurchaseDetail
	postings  []domain.StockPosting
	outbox    []OutboxEvent
	nextID    int64
}

func (s memState) clone() memState {
	out := memState{
		dicts:     make(map[domain.DictionaryKind]map[int64]domain.Dictionary, len(s.dicts)),
		products:  make(map[int64]domain.Product, len(s.products)),
		purchases: make(map[int64]domain.Purchase, len(s.purchases)),
		details:   append([]domain.PurchaseDetail(nil), s.details...),
		postings:  append([]domain.StockPosting(nil), s.postings...),
		outbox:    append([]OutboxEvent(nil), s.outbox...),
		nextID:    s.nextID,
	}
	for kind, items := range s.dicts {
		m := make(map[int64]domain.Dictionary, len(items))
		for id, item := range items {
			m[id] = item
		}
		out.dicts[kind] = m
	}
	for id, p := range s.products {
		out.products[id] = cloneProduct(p)
	}
	for id, p := range s.purchases {
		out.purchases[id] = p
	}
	return out
}

func cloneProduct(p domain.Product) domain.Product {
	p.Batches = append([]domain.Batch{}, p.Batches...)
	p.Images = append([]domain.Image{}, p.Images...)
	return p
}

// memDB — in-memory хранилище, общее для всех фейковых репозиториев.
type memDB struct {
	mu sync.Mutex
	st memState

	failPostings        error
	failCommit          error
	orderCollisions     int
	beforeProductUpdate func(db *memDB)
	productUpdates      int
}

func newMemDB() *memDB {
	return &memDB{st: memState{
		dicts:     make(map[domain.DictionaryKind]map[int64]domain.Dictionary),
		products:  make(map[int64]domain.Product),
		purchases: make(map[int64]domain.Purchase),
	}}
}

func (db *memDB) id() int64 {
	db.st.nextID++
	return db.st.nextID
}

// putProduct кладёт товар напрямую, минуя проверки.
func (db *memDB) putProduct(p domain.Product) domain.Product {
	db.mu.Lock()
	defer db.mu.Unlock()

	if p.ID == 0 {
		p.ID = db.id()
	}
	if p.Batches == nil {
		p.Batches = []domain.Batch{}
	}
	if p.Images == nil {
		p.Images = []domain.Image{}
	}
	p.Version = 1
	db.st.products[p.ID] = cloneProduct(p)
	return p
}

func (db *memDB) putDict(kind domain.DictionaryKind, name string) domain.Dictionary {
	db.mu.Lock()
	defer db.mu.Unlock()

	item := domain.Dictionary{ID: db.id(), Kind: kind, Name: name, CreatedAt: time.Now()}
	if db.st.dicts[kind] == nil {
		db.st.dicts[kind] = make(map[int64]domain.Dictionary)
	}
	db.st.dicts[kind][item.ID] = item
	return item
}

func (db *memDB) product(id int64) (domain.Product, bool) {
	db.mu.Lock()
	defer db.mu.Unlock()
	p, ok := db.st.products[id]
	return cloneProduct(p), ok
}

func (db *memDB) postingsCount() int {
	db.mu.Lock()
	defer db.mu.Unlock()
	return len(db.st.postings)
}

func (db *memDB) purchasesCount() int {
	db.mu.Lock()
	defer db.mu.Unlock()
	return len(db.st.purchases)
}

// fakeTx откатывает состояние memDB, если fn вернула ошибку.
type fakeTx struct{ db *memDB }

func (t fakeTx) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	t.db.mu.Lock()
	snapshot := t.db.st.clone()
	t.db.mu.Unlock()

	err := fn(ctx)
	if err == nil {
		t.db.mu.Lock()
		err = t.db.failCommit
		t.db.mu.Unlock()
	}
	if err != nil {
		t.db.mu.Lock()
		t.db.st = snapshot
		t.db.mu.Unlock()
		return err
	}
	return nil
}

func window[T any](items []T, w pagination.Window) []T {
	if !w.Paged {
		return items
	}
	if w.Offset >= len(items) {
		return []T{}
	}
	end := w.Offset + w.Limit
	if end > len(items) {
		end = len(items)
	}
	return items[w.Offset:end]
}

func containsFold(s, sub string) bool {
	return sub == "" || strings.Contains(strings.ToLower(s), strings.ToLower(sub))
}

// DICTIONARIES

type fakeDictRepo struct{ db *memDB }

func (r fakeDictRepo) Create(_ context.Context, item *domain.Dictionary) (*domain.Dictionary, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	for _, existing := range r.db.st.dicts[item.Kind] {
		if existing.Name == item.Name {
			return nil, e.ErrDuplicateName
		}
	}
	created := *item
	created.ID = r.db.id()
	created.CreatedAt = time.Now()
	if r.db.st.dicts[item.Kind] == nil {
		r.db.st.dicts[item.Kind] = make(map[int64]domain.Dictionary)
	}
	r.db.st.dicts[item.Kind][created.ID] = created
	return &created, nil
}

func (r fakeDictRepo) GetByID(_ context.Context, kind domain.DictionaryKind, id int64) (*domain.Dictionary, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	item, ok := r.db.st.dicts[kind][id]
	if !ok {
		return nil, e.ErrEntityNotFound
	}
	return &item, nil
}

func (r fakeDictRepo) GetByName(_ context.Context, kind domain.DictionaryKind, name string) (*domain.Dictionary, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	for _, item := range r.db.st.dicts[kind] {
		if item.Name == name {
			return &item, nil
		}
	}
	return nil, e.ErrEntityNotFound
}

func (r fakeDictRepo) ExistsByName(_ context.Context, kind domain.DictionaryKind, name string, excludeID int64) (bool, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	for _, item := range r.db.st.dicts[kind] {
		if item.Name == name && item.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (r fakeDictRepo) List(_ context.Context, kind domain.DictionaryKind, f DictionaryFilter) ([]domain.Dictionary, int64, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	items := make([]domain.Dictionary, 0)
	for _, item := range r.db.st.dicts[kind] {
		if containsFold(item.Name, f.Name) && containsFold(item.Description, f.Description) {
			items = append(items, item)
		}
	}
	sort.Slice(items, func(i, j int) bool { return items[i].ID < items[j].ID })
	return window(items, f.Window), int64(len(items)), nil
}

func (r fakeDictRepo) Update(_ context.Context, item *domain.Dictionary) (*domain.Dictionary, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	if _, ok := r.db.st.dicts[item.Kind][item.ID]; !ok {
		return nil, e.ErrEntityNotFound
	}
	now := time.Now()
	updated := *item
	updated.UpdatedAt = &now
	r.db.st.dicts[item.Kind][item.ID] = updated
	return &updated, nil
}

func (r fakeDictRepo) Delete(_ context.Context, kind domain.DictionaryKind, id int64) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	if _, ok := r.db.st.dicts[kind][id]; !ok {
		return e.ErrEntityNotFound
	}
	delete(r.db.st.dicts[kind], id)
	return nil
}

// PRODUCTS

type fakeProductRepo struct{ db *memDB }

func (r fakeProductRepo) Create(_ context.Context, p *domain.Product) (*domain.Product, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	for _, existing := range r.db.st.products {
		if existing.Name == p.Name && existing.Weight == p.Weight {
			return nil, e.ErrDuplicateName
		}
	}
	created := cloneProduct(*p)
	created.ID = r.db.id()
	created.Version = 1
	created.CreatedAt = time.Now()
	r.db.st.products[created.ID] = cloneProduct(created)
	return &created, nil
}

func (r fakeProductRepo) GetByID(_ context.Context, id int64) (*domain.Product, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	p, ok := r.db.st.products[id]
	if !ok {
		return nil, e.ErrProductNotFound
	}
	out := cloneProduct(p)
	return &out, nil
}

func (r fakeProductRepo) GetByName(_ context.Context, name string) (*domain.Product, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	for _, p := range r.db.st.products {
		if p.Name == name {
			out := cloneProduct(p)
			return &out, nil
		}
	}
	return nil, e.ErrProductNotFound
}

func (r fakeProductRepo) ExistsByName(_ context.Context, name string, weight *string, excludeID int64) (bool, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	for _, p := range r.db.st.products {
		if p.ID == excludeID || p.Name != name {
			continue
		}
		if weight == nil || p.Weight == *weight {
			return true, nil
		}
	}
	return false, nil
}

func (r fakeProductRepo) MissingIDs(_ context.Context, ids []int64) ([]int64, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	var missing []int64
	for _, id := range ids {
		if _, ok := r.db.st.products[id]; !ok {
			missing = append(missing, id)
		}
	}
	return missing, nil
}

func (r fakeProductRepo) List(_ context.Context, f ProductFilter) ([]domain.Product, int64, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	items := make([]domain.Product, 0)
	for _, p := range r.db.st.products {
		if !containsFold(p.Name, f.Name) || !containsFold(p.Description, f.Description) {
			continue
		}
		if f.BrandID != nil && (p.BrandID == nil || *p.BrandID != *f.BrandID) {
			continue
		}
		if f.CategoryID != nil && (p.CategoryID == nil || *p.CategoryID != *f.CategoryID) {
			continue
		}
		items = append(items, cloneProduct(p))
	}
	sort.Slice(items, func(i, j int) bool { return items[i].ID < items[j].ID })
	return window(items, f.Window), int64(len(items)), nil
}

func (r fakeProductRepo) Update(_ context.Context, p *domain.Product) (*domain.Product, error) {
	r.db.mu.Lock()
	hook := r.db.beforeProductUpdate
	r.db.productUpdates++
	r.db.mu.Unlock()

	if hook != nil {
		hook(r.db)
	}

	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	stored, ok := r.db.st.products[p.ID]
	if !ok {
		return nil, e.ErrProductNotFound
	}
	if stored.Version != p.Version {
		return nil, e.ErrConflict
	}

	now := time.Now()
	updated := cloneProduct(*p)
	updated.Version++
	updated.UpdatedAt = &now
	r.db.st.products[p.ID] = cloneProduct(updated)
	return &updated, nil
}

func (r fakeProductRepo) Delete(_ context.Context, id int64) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	if _, ok := r.db.st.products[id]; !ok {
		return e.ErrProductNotFound
	}
	for _, posting := range r.db.st.postings {
		if posting.ProductID == id {
			return e.ErrReferenced
		}
	}
	delete(r.db.st.products, id)
	return nil
}

// PURCHASES

type fakePurchaseRepo struct{ db *memDB }

func (r fakePurchaseRepo) Create(_ context.Context, p *domain.Purchase) (*domain.Purchase, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	if r.db.orderCollisions > 0 {
		r.db.orderCollisions--
		return nil, e.ErrDuplicateOrderNumber
	}
	for _, existing := range r.db.st.purchases {
		if existing.OrderNumber == p.OrderNumber {
			return nil, e.ErrDuplicateOrderNumber
		}
	}
	created := *p
	created.ID = r.db.id()
	created.CreatedAt = time.Now()
	r.db.st.purchases[created.ID] = created
	return &created, nil
}

func (r fakePurchaseRepo) CreateDetails(_ context.Context, details []domain.PurchaseDetail) ([]domain.PurchaseDetail, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	out := make([]domain.PurchaseDetail, 0, len(details))
	for _, d := range details {
		d.ID = r.db.id()
		d.CreatedAt = time.Now()
		r.db.st.details = append(r.db.st.details, d)
		out = append(out, d)
	}
	return out, nil
}

func (r fakePurchaseRepo) GetByID(_ context.Context, id int64) (*domain.Purchase, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	p, ok := r.db.st.purchases[id]
	if !ok {
		return nil, e.ErrPurchaseNotFound
	}
	return &p, nil
}

func (r fakePurchaseRepo) GetDetails(_ context.Context, purchaseID int64) ([]domain.PurchaseDetail, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	out := make([]domain.PurchaseDetail, 0)
	for _, d := range r.db.st.details {
		if d.PurchaseID == purchaseID {
			out = append(out, d)
		}
	}
	return out, nil
}

func (r fakePurchaseRepo) List(_ context.Context, f PurchaseFilter) ([]domain.Purchase, int64, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	items := make([]domain.Purchase, 0)
	for _, p := range r.db.st.purchases {
		if containsFold(p.OrderNumber, f.OrderNumber) && containsFold(p.Note, f.Note) {
			items = append(items, p)
		}
	}
	sort.Slice(items, func(i, j int) bool { return items[i].ID < items[j].ID })
	return window(items, f.Window), int64(len(items)), nil
}

// STOCK

type fakeStockRepo struct{ db *memDB }

func (r fakeStockRepo) CreatePostings(_ context.Context, postings []domain.StockPosting) ([]domain.StockPosting, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	if r.db.failPostings != nil {
		return nil, r.db.failPostings
	}
	out := make([]domain.StockPosting, 0, len(postings))
	for _, p := range postings {
		p.ID = r.db.id()
		p.CreatedAt = time.Now()
		r.db.st.postings = append(r.db.st.postings, p)
		out = append(out, p)
	}
	return out, nil
}

func (r fakeStockRepo) GetPostingsByPurchase(_ context.Context, purchaseID int64) ([]domain.StockPosting, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	out := make([]domain.StockPosting, 0)
	for _, p := range r.db.st.postings {
		if p.PurchaseID == purchaseID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r fakeStockRepo) SumByProducts(_ context.Context, ids []int64) (domain.StockMap, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	wanted := make(map[int64]bool, len(ids))
	for _, id := range ids {
		wanted[id] = true
	}
	out := make(domain.StockMap)
	for _, p := range r.db.st.postings {
		if wanted[p.ProductID] {
			out[p.ProductID] += p.Quantity
		}
	}
	return out, nil
}

// OUTBOX

type fakeOutboxRepo struct{ db *memDB }

func (r fakeOutboxRepo) Create(_ context.Context, event *OutboxEvent) (*OutboxEvent, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	created := *event
	created.ID = r.db.id()
	r.db.st.outbox = append(r.db.st.outbox, created)
	return &created, nil
}

func (r fakeOutboxRepo) GetAndMarkAsProcessing(context.Context, int) ([]*OutboxEvent, error) {
	return nil, nil
}

func (r fakeOutboxRepo) MarkAsProcessed(context.Context, int64) error {
	return nil
}

func (r fakeOutboxRepo) MarkAsFailed(context.Context, int64) error {
	return nil
}

func (r fakeOutboxRepo) ReleaseToPending(context.Context, []int64) error {
	return nil
}

type fakeEncoder struct{}

func (fakeEncoder) EncodePurchasePosted(eventID string, info *PurchaseInfo) ([]byte, error) {
	return []byte(fmt.Sprintf("%s:%d", eventID, info.Purchase.ID)), nil
}

// CACHE

type fakeCache struct {
	mu      sync.Mutex
	stock   domain.StockMap
	gens    map[int64]int64
	getErr  error
	deleted []int64
	// written получает сигнал после каждой фоновой записи, если задан.
	written chan struct{}
}

func newFakeCache() *fakeCache {
	return &fakeCache{stock: make(domain.StockMap), gens: make(map[int64]int64)}
}

func (c *fakeCache) StockGenerations(_ context.Context, ids []int64) (map[int64]int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.getErr != nil {
		return nil, c.getErr
	}
	out := make(map[int64]int64, len(ids))
	for _, id := range ids {
		out[id] = c.gens[id]
	}
	return out, nil
}

func (c *fakeCache) GetStock(_ context.Context, ids []int64) (domain.StockMap, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.getErr != nil {
		return nil, c.getErr
	}
	out := make(domain.StockMap)
	for _, id := range ids {
		if qty, ok := c.stock[id]; ok {
			out[id] = qty
		}
	}
	return out, nil
}

func (c *fakeCache) SetStock(_ context.Context, stock domain.StockMap, gens map[int64]int64) error {
	c.mu.Lock()
	for id, qty := range stock {
		if gen, ok := gens[id]; ok && gen == c.gens[id] {
			c.stock[id] = qty
		}
	}
	c.mu.Unlock()

	if c.written != nil {
		c.written <- struct{}{}
	}
	return nil
}

func (c *fakeCache) DeleteStock(_ context.Context, ids []int64) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, id := range ids {
		delete(c.stock, id)
		c.gens[id]++
		c.deleted = append(c.deleted, id)
	}
	return nil
}

// IMAGES

type fakeImages struct {
	mu        sync.Mutex
	stored    map[string]bool
	seq       int
	uploadErr error
	deleteErr error
	cleaned   []string
}

func newFakeImages() *fakeImages {
	return &fakeImages{stored: make(map[string]bool)}
}

func (f *fakeImages) UploadImages(_ context.Context, req *UploadImagesReq) (*UploadImagesRes, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.uploadErr != nil {
		return nil, f.uploadErr
	}
	images := make([]domain.Image, 0, len(req.Images))
	for _, img := range req.Images {
		f.seq++
		key := fmt.Sprintf("%s/%d-%s", req.Name, f.seq, img.Name)
		f.stored[key] = true
		images = append(images, domain.Image{ID: key, URL: "http://blob/" + key, FileName: key})
	}
	return NewUploadImagesRes(images), nil
}

func (f *fakeImages) DeleteImages(_ context.Context, keys []string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.deleteErr != nil {
		return f.deleteErr
	}
	for _, key := range keys {
		delete(f.stored, key)
	}
	return nil
}

func (f *fakeImages) CleanupImages(keys []string) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, key := range keys {
		delete(f.stored, key)
		f.cleaned = append(f.cleaned, key)
	}
}

func (f *fakeImages) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.stored)
}

// env собирает все сервисы поверх одной memDB.
type env struct {
	db        *memDB
	cache     *fakeCache
	images    *fakeImages
	catalog   *CatalogUseCase
	stock     *StockUseCase
	products  *ProductUseCase
	batches   *BatchUseCase
	purchases *PurchaseUseCase
	imports   *ImportUseCase
}

func newEnv(rules ProductRules) *env {
	db := newMemDB()
	cache := newFakeCache()
	images := newFakeImages()
	log := nopLogger{}

	dictRepo := fakeDictRepo{db}
	productRepo := fakeProductRepo{db}
	tx := fakeTx{db}

	stock := NewStockUC(fakeStockRepo{db}, cache, log)
	purchases := NewPurchaseUC(fakePurchaseRepo{db}, fakeStockRepo{db}, productRepo, dictRepo, fakeOutboxRepo{db}, tx, fakeEncoder{}, stock, 10, log)

	return &env{
		db:        db,
		cache:     cache,
		images:    images,
		catalog:   NewCatalogUC(dictRepo, 10, log),
		stock:     stock,
		products:  NewProductUC(productRepo, dictRepo, tx, images, stock, rules, log),
		batches:   NewBatchUC(productRepo, log),
		purchases: purchases,
		imports:   NewImportUC(dictRepo, productRepo, purchases, log),
	}
}

func ptr[T any](v T) *T { return &v }

func date(s string) *time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return &t
}
