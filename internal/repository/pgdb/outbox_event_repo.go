package pgdb

import (
	"context"

	"github.com/DRSN-tech/inventory-backend/internal/repository/pgdb/converter"
	"github.com/DRSN-tech/inventory-backend/internal/usecase"
	"github.com/DRSN-tech/inventory-backend/pkg/e"
	"github.com/DRSN-tech/inventory-backend/pkg/tr"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jimlawless/whereami"
)

// OutboxEventRepo хранит события, записанные в одной транзакции с изменениями склада.
type OutboxEventRepo struct {
	pool *pgxpool.Pool
	conv converter.OutboxEventConverter
}

func NewOutboxEventRepo(pool *pgxpool.Pool, conv converter.OutboxEventConverter) *OutboxEventRepo {
	return &OutboxEventRepo{
		pool: pool,
		conv: conv,
	}
}

// Create пишет событие. Вызывается только внутри транзакции, иначе e.ErrTransactionNotFound.
func (o *OutboxEventRepo) Create(ctx context.Context, event *usecase.OutboxEvent) (*usecase.OutboxEvent, error) {
	tx, err := tr.TxFromCtx(ctx)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	model := o.conv.ToModel(event)
	query := `
		INSERT INTO outbox_events (
			event_id,
			event_type,
			aggregate_id,
			payload,
			status,
			created_at
		) VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at;
	`

	if err := tx.QueryRow(ctx, query,
		model.EventID,
		model.EventType,
		model.AggregateID,
		model.Payload,
		model.Status,
		model.CreatedAt,
	).Scan(&model.ID, &model.CreatedAt); err != nil {
		if postgresDuplicate(err) {
			return nil, e.Wrap(whereami.WhereAmI(), e.ErrConflict)
		}
		return nil, e.Wrap(whereami.WhereAmI(), e.Dependency(err))
	}

	if _, err := tx.Exec(ctx, "NOTIFY outbox_pending;"); err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), e.Dependency(err))
	}

	return o.conv.ToEntity(model), nil
}

// GetAndMarkAsProcessing забирает пачку ожидающих событий и увеличивает их attempts.
// События, зависшие в processing дольше пяти минут, забираются повторно.
func (o *OutboxEventRepo) GetAndMarkAsProcessing(ctx context.Context, limit int) ([]*usecase.OutboxEvent, error) {
	query := `
		UPDATE outbox_events
		SET status = $1, processing_started_at = NOW(), attempts = attempts + 1
		WHERE id IN (
			SELECT id FROM outbox_events
			WHERE status = $2
			   OR (status = $1 AND processing_started_at < NOW() - INTERVAL '5 minutes')
			ORDER BY created_at
			LIMIT $3
			FOR UPDATE SKIP LOCKED
		)
		RETURNING id, event_id, event_type, aggregate_id, payload, status, attempts, created_at, processed_at
	`

	rows, err := tr.QuerierFromCtx(ctx, o.pool).Query(ctx, query, usecase.Processing, usecase.Pending, limit)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), e.Dependency(err))
	}
	defer rows.Close()

	var models []*converter.OutboxEventModel
	for rows.Next() {
		var model converter.OutboxEventModel
		if err := rows.Scan(
			&model.ID,
			&model.EventID,
			&model.EventType,
			&model.AggregateID,
			&model.Payload,
			&model.Status,
			&model.Attempts,
			&model.CreatedAt,
			&model.ProcessedAt,
		); err != nil {
			return nil, e.Wrap(whereami.WhereAmI(), e.Dependency(err))
		}
		models = append(models, &model)
	}
	if err := rows.Err(); err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), e.Dependency(err))
	}

	return o.conv.ToArrEntity(models), nil
}

func (o *OutboxEventRepo) MarkAsProcessed(ctx context.Context, id int64) error {
	query := `
		UPDATE outbox_events
		SET status = $1, processed_at = NOW()
		WHERE id = $2 AND status = $3
	`

	// Ноль затронутых строк: событие уже обработано другим воркером
	if _, err := tr.QuerierFromCtx(ctx, o.pool).Exec(ctx, query, usecase.Processed, id, usecase.Processing); err != nil {
		return e.Wrap(whereami.WhereAmI(), e.Dependency(err))
	}

	return nil
}

// MarkAsFailed переводит событие в failed: выборка его больше не забирает.
func (o *OutboxEventRepo) MarkAsFailed(ctx context.Context, id int64) error {
	query := `
		UPDATE outbox_events
		SET status = $1, processing_started_at = NULL
		WHERE id = $2 AND status = $3
	`

	if _, err := tr.QuerierFromCtx(ctx, o.pool).Exec(ctx, query, usecase.Failed, id, usecase.Processing); err != nil {
		return e.Wrap(whereami.WhereAmI(), e.Dependency(err))
	}

	return nil
}

// ReleaseToPending возвращает забранные, но не отправленные события в очередь,
// не дожидаясь таймаута зависания. Попытка при этом не засчитывается.
func (o *OutboxEventRepo) ReleaseToPending(ctx context.Context, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}

	query := `
		UPDATE outbox_events
		SET status = $1, processing_started_at = NULL, attempts = GREATEST(attempts - 1, 0)
		WHERE id = ANY($2) AND status = $3
	`

	if _, err := tr.QuerierFromCtx(ctx, o.pool).Exec(ctx, query, usecase.Pending, ids, usecase.Processing); err != nil {
		return e.Wrap(whereami.WhereAmI(), e.Dependency(err))
	}

	return nil
}
