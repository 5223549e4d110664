package minio

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"
	"sync"
	"time"

	"github.com/DRSN-tech/inventory-backend/internal/domain"
	"github.com/DRSN-tech/inventory-backend/internal/infrastructure"
	"github.com/DRSN-tech/inventory-backend/internal/usecase"
	"github.com/DRSN-tech/inventory-backend/pkg/e"
	"github.com/DRSN-tech/inventory-backend/pkg/jitter"
	"github.com/DRSN-tech/inventory-backend/pkg/logger"

	"github.com/google/uuid"
)

const (
	cleanupAttempts = 3
	cleanupTimeout  = 30 * time.Second
)

// MinioInfrastructure управляет загрузкой и очисткой изображений товаров.
type MinioInfrastructure struct {
	store             usecase.BlobStore
	logger            logger.Logger
	shutdownCtx       context.Context
	wg                sync.WaitGroup
	uploadImagesLimit int
	cleanupBackoff    time.Duration
}

func NewMinioInfrastructure(store usecase.BlobStore, uploadImagesLimit int, logger logger.Logger, shutdownCtx context.Context) *MinioInfrastructure {
	if uploadImagesLimit <= 0 {
		uploadImagesLimit = 1
	}

	return &MinioInfrastructure{
		store:             store,
		logger:            logger,
		shutdownCtx:       shutdownCtx,
		uploadImagesLimit: uploadImagesLimit,
		cleanupBackoff:    time.Second,
	}
}

// UploadImages загружает изображения параллельно с ограничением одновременных операций.
// Порядок результата совпадает с порядком req.Images. При первой ошибке остальные загрузки
// отменяются, а уже загруженные объекты удаляются в фоне.
func (m *MinioInfrastructure) UploadImages(ctx context.Context, req *usecase.UploadImagesReq) (*usecase.UploadImagesRes, error) {
	const op = "MinioInfrastructure.UploadImages"
	if len(req.Images) == 0 {
		return usecase.NewUploadImagesRes([]domain.Image{}), nil
	}

	// Отмена остальных загрузок при первой ошибке
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var (
		images   = make([]*domain.Image, len(req.Images))
		errOnce  sync.Once
		firstErr error
		sem      = make(chan struct{}, m.uploadImagesLimit)
		wg       sync.WaitGroup
	)

	for i, image := range req.Images {
		wg.Add(1)
		go func() {
			defer wg.Done()

			select {
			case sem <- struct{}{}:
			case <-ctx.Done():
				return
			}
			defer func() { <-sem }()

			img, err := m.uploadOne(ctx, req.Name, image)
			if err != nil {
				errOnce.Do(func() {
					firstErr = err
					cancel()
				})
				return
			}
			images[i] = img
		}()
	}
	wg.Wait()

	uploaded := make([]domain.Image, 0, len(images))
	for _, img := range images {
		if img != nil {
			uploaded = append(uploaded, *img)
		}
	}

	if firstErr == nil && len(uploaded) != len(req.Images) {
		firstErr = ctx.Err()
	}
	if firstErr != nil {
		keys := make([]string, 0, len(uploaded))
		for _, img := range uploaded {
			keys = append(keys, img.FileName)
		}
		m.CleanupImages(keys)
		return nil, e.Wrap(op, firstErr)
	}

	return usecase.NewUploadImagesRes(uploaded), nil
}

func (m *MinioInfrastructure) uploadOne(ctx context.Context, prefix string, image usecase.ProductImage) (*domain.Image, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	imageID := uuid.NewString()
	objKey, err := infrastructure.ImageObjectKey(prefix, imageID, image.MimeType)
	if err != nil {
		return nil, fmt.Errorf("invalid mime type %s for %s: %w", image.MimeType, image.Name, err)
	}

	url, key, err := m.store.Put(ctx, image.Data, image.MimeType, objKey)
	if err != nil {
		return nil, fmt.Errorf("upload %s failed: %w", image.Name, err)
	}

	return domain.NewImage(imageID, url, key), nil
}

// DeleteImages удаляет объекты синхронно. Ошибки по отдельным ключам не прерывают удаление остальных.
func (m *MinioInfrastructure) DeleteImages(ctx context.Context, keys []string) error {
	const op = "MinioInfrastructure.DeleteImages"

	var errs []error
	for _, key := range keys {
		if err := m.store.Delete(ctx, key); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", key, err))
		}
	}

	if len(errs) > 0 {
		return e.Wrap(op, errors.Join(errs...))
	}
	return nil
}

// CleanupImages запускает фоновую очистку указанных ключей.
func (m *MinioInfrastructure) CleanupImages(keys []string) {
	if len(keys) == 0 {
		return
	}
	m.wg.Add(1)
	go m.cleanupUploadedKeys(keys)
}

// cleanupUploadedKeys удаляет объекты с экспоненциальной задержкой и jitter.
func (m *MinioInfrastructure) cleanupUploadedKeys(keys []string) {
	defer m.wg.Done()
	const op = "MinioInfrastructure.cleanupUploadedKeys"
	m.logger.Infof("%s: cleaning up %d keys under %s", op, len(keys), commonDir(keys))

	ctx, cancel := context.WithTimeout(m.shutdownCtx, cleanupTimeout)
	defer cancel()

	for _, key := range keys {
		for attempt := 0; attempt < cleanupAttempts; attempt++ {
			err := m.store.Delete(ctx, key)
			if err == nil {
				break
			}

			if attempt == cleanupAttempts-1 {
				m.logger.Errorf(err, "%s: giving up on key=%s", op, key)
				break
			}

			delay := jitter.ExponentialBackoff(m.cleanupBackoff, 8*m.cleanupBackoff, attempt, jitter.DefaultJitter)
			if err := jitter.Sleep(ctx, delay); err != nil {
				m.logger.Warnf("cleanup interrupted by shutdown, key=%v", key)
				return
			}
		}
	}
}

// WaitForCleanup ожидает завершения всех фоновых задач очистки с учётом таймаута завершения приложения.
func (m *MinioInfrastructure) WaitForCleanup(shutdownTimeoutCtx context.Context) error {
	done := make(chan struct{})
	go func() {
		m.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-shutdownTimeoutCtx.Done():
		return fmt.Errorf("minio cleanup timeout during shutdown: %w", shutdownTimeoutCtx.Err())
	}
}

func commonDir(keys []string) string {
	dir := path.Dir(keys[0])
	for _, k := range keys[1:] {
		if !strings.HasPrefix(k, dir+"/") {
			return "/"
		}
	}
	return dir
}
