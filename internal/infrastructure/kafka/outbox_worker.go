package kafka

import (
	"context"
	"errors"
	"io"
	"net"
	"sync"
	"syscall"
	"time"

	"github.com/DRSN-tech/inventory-backend/internal/usecase"
	"github.com/DRSN-tech/inventory-backend/pkg/e"
	"github.com/DRSN-tech/inventory-backend/pkg/jitter"
	"github.com/DRSN-tech/inventory-backend/pkg/logger"
	"github.com/jackc/pgx/v5"
	"github.com/segmentio/kafka-go"
)

const outboxChannel = "outbox_pending"

// OutboxWorker переносит события из outbox в Kafka. Выборка запускается по уведомлению
// LISTEN outbox_pending и по таймеру.
type OutboxWorker struct {
	repo        usecase.OutboxRepository
	logger      logger.Logger
	producer    usecase.MessageProducer
	stop        chan struct{}
	wake        chan struct{}
	wg          sync.WaitGroup
	dbConnStr   string
	batchSize   int
	interval    time.Duration
	maxAttempts int
}

func NewOutboxWorker(
	repo usecase.OutboxRepository,
	logger logger.Logger,
	producer usecase.MessageProducer,
	dbConnStr string,
	batchSize int,
	interval time.Duration,
	maxAttempts int,
) *OutboxWorker {
	if batchSize <= 0 {
		batchSize = 10
	}
	if interval <= 0 {
		interval = 5 * time.Second
	}
	if maxAttempts <= 0 {
		maxAttempts = 5
	}

	return &OutboxWorker{
		repo:        repo,
		logger:      logger,
		producer:    producer,
		stop:        make(chan struct{}),
		wake:        make(chan struct{}, 1),
		dbConnStr:   dbConnStr,
		batchSize:   batchSize,
		interval:    interval,
		maxAttempts: maxAttempts,
	}
}

func (w *OutboxWorker) Start(ctx context.Context) {
	w.wg.Add(2)
	go func() {
		defer w.wg.Done()
		w.run(ctx)
	}()

	go func() {
		defer w.wg.Done()
		w.listenOutboxNotifications(ctx)
	}()
}

func (w *OutboxWorker) Stop() {
	close(w.stop)
	w.wg.Wait()
}

func (w *OutboxWorker) run(ctx context.Context) {
	w.logger.Infof("Draining pending outbox events on startup...")
	w.drain(ctx)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.logger.Infof("Outbox worker stopped by context cancellation")
			return
		case <-w.stop:
			return
		case <-ticker.C:
			w.drain(ctx)
		case <-w.wake:
			w.drain(ctx)
		}
	}
}

// notify будит цикл выборки, не блокируясь, если он уже разбужен.
func (w *OutboxWorker) notify() {
	select {
	case w.wake <- struct{}{}:
	default:
	}
}

func (w *OutboxWorker) drain(ctx context.Context) {
	for {
		hasMore, err := w.processBatch(ctx)
		if err != nil {
			w.logger.Warnf("outbox batch failed: %v", err)
			return
		}
		if !hasMore {
			return
		}
	}
}

func (w *OutboxWorker) listenOutboxNotifications(ctx context.Context) {
	var conn *pgx.Conn

	connect := func() error {
		c, err := pgx.Connect(ctx, w.dbConnStr)
		if err != nil {
			return e.Wrap("failed to connect for LISTEN", err)
		}

		if _, err := c.Exec(ctx, "LISTEN "+outboxChannel); err != nil {
			c.Close(ctx)
			return e.Wrap("failed to LISTEN", err)
		}

		conn = c
		w.logger.Infof("Subscribed to '%s' channel", outboxChannel)
		return nil
	}

	if err := connect(); err != nil {
		w.logger.Warnf("Initial LISTEN connect failed, falling back to polling: %v", err)
		return
	}
	defer func() {
		if conn != nil {
			conn.Close(context.Background())
		}
	}()

	for attempt := 0; ; {
		select {
		case <-ctx.Done():
			return
		case <-w.stop:
			return
		default:
		}

		if conn == nil {
			if err := connect(); err != nil {
				w.logger.Warnf("Reconnect failed: %v", err)
				if jitter.Sleep(ctx, jitter.ExponentialBackoff(time.Second, 30*time.Second, attempt, jitter.DefaultJitter)) != nil {
					return
				}
				attempt++
				continue
			}
			attempt = 0
		}

		waitCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
		notif, err := conn.WaitForNotification(waitCtx)
		cancel()

		if err != nil {
			if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
				continue
			}
			w.logger.Warnf("LISTEN connection lost: %v. Reconnecting...", err)
			conn.Close(ctx)
			conn = nil
			continue
		}

		if notif != nil && notif.Channel == outboxChannel {
			w.logger.Debugf("Received outbox notification")
			w.notify()
		}
	}
}

// processBatch публикует одну пачку. Событие, отклонённое брокером, остаётся в processing
// и забирается повторно по таймауту зависания, а после maxAttempts отказов переходит в failed.
// При недоступности брокера остаток пачки сразу возвращается в pending,
// а выборка прекращается до следующего тика.
func (w *OutboxWorker) processBatch(ctx context.Context) (bool, error) {
	events, err := w.repo.GetAndMarkAsProcessing(ctx, w.batchSize)
	if err != nil {
		return false, err
	}

	if len(events) == 0 {
		return false, nil
	}

	for i, event := range events {
		err := w.producer.WriteRawMessage(ctx, usecase.NewWriteRawMessageReq(event))
		if err != nil {
			if isRetryableError(err) {
				w.release(events[i:])
				return false, e.Wrap("broker unavailable", err)
			}
			w.reject(ctx, event, err)
			continue
		}

		if err := w.repo.MarkAsProcessed(ctx, event.ID); err != nil {
			w.logger.Warnf("mark processed failed: %v", err)
		}
	}

	return len(events) == w.batchSize, nil
}

func (w *OutboxWorker) reject(ctx context.Context, event *usecase.OutboxEvent, err error) {
	if event.Attempts < w.maxAttempts {
		w.logger.Errorf(err, "event %s rejected by broker, attempt %d of %d", event.EventID, event.Attempts, w.maxAttempts)
		return
	}

	w.logger.Errorf(err, "event %s rejected by broker %d times, moving to failed", event.EventID, event.Attempts)
	if err := w.repo.MarkAsFailed(ctx, event.ID); err != nil {
		w.logger.Warnf("move event %s to failed: %v", event.EventID, err)
	}
}

func (w *OutboxWorker) release(events []*usecase.OutboxEvent) {
	ids := make([]int64, 0, len(events))
	for _, ev := range events {
		ids = append(ids, ev.ID)
	}

	// Контекст воркера может быть уже отменён, а события нужно вернуть в любом случае
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := w.repo.ReleaseToPending(ctx, ids); err != nil {
		w.logger.Warnf("release %d outbox events failed, they wait for reclaim: %v", len(ids), err)
	}
}

// isRetryableError отделяет временную недоступность брокера от отказа в приёме сообщения.
func isRetryableError(err error) bool {
	if err == nil {
		return false
	}

	var kerr kafka.Error
	if errors.As(err, &kerr) {
		return kerr.Temporary()
	}

	var nerr net.Error
	if errors.As(err, &nerr) {
		return true
	}

	return errors.Is(err, syscall.ECONNREFUSED) ||
		errors.Is(err, syscall.ECONNRESET) ||
		errors.Is(err, io.ErrUnexpectedEOF) ||
		errors.Is(err, context.DeadlineExceeded)
}
