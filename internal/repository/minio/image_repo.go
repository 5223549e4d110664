package minio

import (
	"bytes"
	"context"

	"github.com/DRSN-tech/inventory-backend/internal/cfg"
	"github.com/DRSN-tech/inventory-backend/pkg/e"
	"github.com/jimlawless/whereami"
	"github.com/minio/minio-go/v7"
)

// ImageRepo реализует хранилище бинарных объектов поверх MinIO.
type ImageRepo struct {
	mc  *minio.Client
	cfg *cfg.MinIOCfg
}

func NewImageRepo(mc *minio.Client, cfg *cfg.MinIOCfg) *ImageRepo {
	return &ImageRepo{
		mc:  mc,
		cfg: cfg,
	}
}

// Put загружает объект под ключом key и возвращает его публичный адрес и ключ хранения.
func (i *ImageRepo) Put(ctx context.Context, data []byte, contentType string, key string) (string, string, error) {
	info, err := i.mc.PutObject(ctx, i.cfg.BucketName, key, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", "", e.Wrap(whereami.WhereAmI(), e.Dependency(err))
	}

	return publicURL(i.cfg.PublicURL, i.cfg.BucketName, info.Key), info.Key, nil
}

// Delete удаляет объект из MinIO по указанному ключу.
func (i *ImageRepo) Delete(ctx context.Context, key string) error {
	if err := i.mc.RemoveObject(ctx, i.cfg.BucketName, key, minio.RemoveObjectOptions{}); err != nil {
		return e.Wrap(whereami.WhereAmI(), e.Dependency(err))
	}

	return nil
}

func publicURL(base, bucket, key string) string {
	return base + "/" + bucket + "/" + key
}
