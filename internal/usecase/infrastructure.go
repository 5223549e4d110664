package usecase

import "context"

type ImagesInfra interface {
	UploadImages(ctx context.Context, req *UploadImagesReq) (*UploadImagesRes, error)
	// DeleteImages синхронно удаляет объекты, не останавливаясь на ошибках.
	DeleteImages(ctx context.Context, keys []string) error
	// CleanupImages удаляет объекты в фоне с повторами.
	CleanupImages(keys []string)
}

type MessageProducer interface {
	WriteRawMessage(ctx context.Context, req *WriteRawMessageReq) error
}

// EventEncoder сериализует доменные события для outbox.
type EventEncoder interface {
	EncodePurchasePosted(eventID string, info *PurchaseInfo) ([]byte, error)
}

// TxManager выполняет функцию в транзакции БД.
type TxManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}
