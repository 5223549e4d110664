package minio

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/DRSN-tech/inventory-backend/internal/usecase"
	"github.com/DRSN-tech/inventory-backend/pkg/e"
)

type nopLogger struct{}

func (nopLogger) Debugf(string, ...any)        {}
func (nopLogger) Infof(string, ...any)         {}
func (nopLogger) Warnf(string, ...any)         {}
func (nopLogger) Errorf(error, string, ...any) {}

type memStore struct {
	mu        sync.Mutex
	objects   map[string][]byte
	failPut   string // имя файла, на котором Put падает
	deleteErr int    // сколько первых Delete завершаются ошибкой
}

func newMemStore() *memStore {
	return &memStore{objects: make(map[string][]byte)}
}

func (s *memStore) Put(_ context.Context, data []byte, _ string, key string) (string, string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failPut != "" && string(data) == s.failPut {
		return "", "", e.Dependency(errors.New("put failed"))
	}
	s.objects[key] = data
	return "http://blob/bucket/" + key, key, nil
}

func (s *memStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.deleteErr > 0 {
		s.deleteErr--
		return e.Dependency(errors.New("delete failed"))
	}
	delete(s.objects, key)
	return nil
}

func (s *memStore) len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.objects)
}

func image(data string) usecase.ProductImage {
	return usecase.ProductImage{Data: []byte(data), MimeType: "image/png", Size: int64(len(data)), Name: data + ".png"}
}

func TestUploadImagesKeepsOrder(t *testing.T) {
	store := newMemStore()
	infra := NewMinioInfrastructure(store, 2, nopLogger{}, context.Background())

	req := usecase.NewUploadImagesReq("products/7", []usecase.ProductImage{image("a"), image("b"), image("c")})
	res, err := infra.UploadImages(context.Background(), req)
	if err != nil {
		t.Fatalf("UploadImages: %v", err)
	}
	if len(res.Images) != 3 {
		t.Fatalf("got %d images, want 3", len(res.Images))
	}
	for i, want := range []string{"a", "b", "c"} {
		img := res.Images[i]
		if !strings.HasPrefix(img.FileName, "products/7/") || !strings.HasSuffix(img.FileName, ".png") {
			t.Errorf("image %d key = %q", i, img.FileName)
		}
		if img.URL != "http://blob/bucket/"+img.FileName {
			t.Errorf("image %d url = %q", i, img.URL)
		}
		if string(store.objects[img.FileName]) != want {
			t.Errorf("image %d stored %q, want %q", i, store.objects[img.FileName], want)
		}
	}
}

func TestUploadImagesFailureCleansUp(t *testing.T) {
	store := newMemStore()
	store.failPut = "b"
	infra := NewMinioInfrastructure(store, 1, nopLogger{}, context.Background())

	_, err := infra.UploadImages(context.Background(), usecase.NewUploadImagesReq("products/1",
		[]usecase.ProductImage{image("a"), image("b"), image("c")}))
	if !errors.Is(err, e.ErrDependency) {
		t.Fatalf("err = %v, want ErrDependency", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := infra.WaitForCleanup(ctx); err != nil {
		t.Fatalf("WaitForCleanup: %v", err)
	}
	if n := store.len(); n != 0 {
		t.Errorf("%d objects left after cleanup", n)
	}
}

func TestUploadImagesUnsupportedType(t *testing.T) {
	infra := NewMinioInfrastructure(newMemStore(), 2, nopLogger{}, context.Background())
	img := image("a")
	img.MimeType = "application/pdf"

	_, err := infra.UploadImages(context.Background(), usecase.NewUploadImagesReq("products/1", []usecase.ProductImage{img}))
	if !errors.Is(err, e.ErrUnsupportedMediaType) {
		t.Fatalf("err = %v, want ErrUnsupportedMediaType", err)
	}
}

func TestDeleteImagesContinuesOnError(t *testing.T) {
	store := newMemStore()
	store.objects["k1"] = []byte("1")
	store.objects["k2"] = []byte("2")
	store.deleteErr = 1
	infra := NewMinioInfrastructure(store, 1, nopLogger{}, context.Background())

	err := infra.DeleteImages(context.Background(), []string{"k1", "k2"})
	if !errors.Is(err, e.ErrDependency) {
		t.Fatalf("err = %v, want ErrDependency", err)
	}
	if _, ok := store.objects["k2"]; ok {
		t.Error("k2 should be deleted after k1 failed")
	}
}

func TestCleanupRetries(t *testing.T) {
	store := newMemStore()
	store.objects["k1"] = []byte("1")
	store.deleteErr = 2
	infra := NewMinioInfrastructure(store, 1, nopLogger{}, context.Background())
	infra.cleanupBackoff = time.Millisecond

	infra.CleanupImages([]string{"k1"})

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := infra.WaitForCleanup(ctx); err != nil {
		t.Fatalf("WaitForCleanup: %v", err)
	}
	if store.len() != 0 {
		t.Error("k1 should be deleted on the third attempt")
	}
}
