package usecase

import "time"

type OutboxStatus string

const (
	Pending    OutboxStatus = "pending"
	Processing OutboxStatus = "processing"
	Processed  OutboxStatus = "processed"
	// Failed — событие, которое брокер отклонил MaxAttempts раз. Повторно не забирается.
	Failed OutboxStatus = "failed"
)

type OutboxEventType string

const (
	PurchasePosted OutboxEventType = "purchase.posted"
)

// OutboxEvent — событие, записанное в той же транзакции, что и изменение данных.
type OutboxEvent struct {
	ID          int64
	EventID     string
	EventType   OutboxEventType
	AggregateID int64
	Payload     []byte
	Status      OutboxStatus
	Attempts    int // сколько раз событие забиралось на отправку, включая текущий
	CreatedAt   time.Time
	ProcessedAt *time.Time
}

func NewOutboxEvent(eventID string, eventType OutboxEventType, aggregateID int64, payload []byte) *OutboxEvent {
	return &OutboxEvent{
		EventID:     eventID,
		EventType:   eventType,
		AggregateID: aggregateID,
		Payload:     payload,
		Status:      Pending,
		CreatedAt:   time.Now().UTC(),
	}
}
