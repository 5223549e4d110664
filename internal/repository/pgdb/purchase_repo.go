package pgdb

import (
	"context"
	"errors"

	"github.com/DRSN-tech/inventory-backend/internal/domain"
	"github.com/DRSN-tech/inventory-backend/internal/repository/pgdb/converter"
	"github.com/DRSN-tech/inventory-backend/internal/usecase"
	"github.com/DRSN-tech/inventory-backend/pkg/e"
	"github.com/DRSN-tech/inventory-backend/pkg/tr"
	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jimlawless/whereami"
)

const orderNumberConstraint = "purchases_order_number_key"

var (
	purchaseColumns = []string{
		"id", "order_number", "purchase_date", "currency_id", "exchange_rate", "extra_cost", "note", "created_at", "updated_at",
	}
	detailColumns = []string{
		"id", "purchase_id", "product_id", "quantity", "purchase_price", "item_cost", "manufacture_date", "expiry_date", "created_at",
	}
)

// PurchaseRepo реализует репозиторий закупок и их строк поверх PostgreSQL.
type PurchaseRepo struct {
	pool *pgxpool.Pool
	conv converter.PurchaseConverter
}

func NewPurchaseRepo(pool *pgxpool.Pool, conv converter.PurchaseConverter) *PurchaseRepo {
	return &PurchaseRepo{
		pool: pool,
		conv: conv,
	}
}

// Create вставляет заголовок закупки. Повтор номера заказа возвращается как e.ErrDuplicateOrderNumber.
func (p *PurchaseRepo) Create(ctx context.Context, purchase *domain.Purchase) (*domain.Purchase, error) {
	query, args, err := psql.Insert("purchases").
		Columns("order_number", "purchase_date", "currency_id", "exchange_rate", "extra_cost", "note").
		Values(purchase.OrderNumber, purchase.PurchaseDate, purchase.CurrencyID, purchase.ExchangeRate, purchase.ExtraCost, purchase.Note).
		Suffix("RETURNING id, order_number, purchase_date, currency_id, exchange_rate, extra_cost, note, created_at, updated_at").
		ToSql()
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	model, err := scanPurchase(tr.QuerierFromCtx(ctx, p.pool).QueryRow(ctx, query, args...))
	if err != nil {
		switch {
		case postgresDuplicate(err) && constraintName(err) == orderNumberConstraint:
			return nil, e.Wrap(whereami.WhereAmI(), e.ErrDuplicateOrderNumber)
		case postgresForeignKey(err):
			return nil, e.Wrap(whereami.WhereAmI(), e.ErrCurrencyNotFound)
		}
		return nil, e.Wrap(whereami.WhereAmI(), e.Dependency(err))
	}

	return p.conv.ToEntity(model), nil
}

// CreateDetails вставляет все строки закупки одним запросом.
func (p *PurchaseRepo) CreateDetails(ctx context.Context, details []domain.PurchaseDetail) ([]domain.PurchaseDetail, error) {
	if len(details) == 0 {
		return []domain.PurchaseDetail{}, nil
	}

	builder := psql.Insert("purchase_details").
		Columns("purchase_id", "product_id", "quantity", "purchase_price", "item_cost", "manufacture_date", "expiry_date")
	for _, d := range details {
		builder = builder.Values(d.PurchaseID, d.ProductID, d.Quantity, d.PurchasePrice, d.ItemCost, d.ManufactureDate, d.ExpiryDate)
	}

	query, args, err := builder.Suffix("RETURNING id, purchase_id, product_id, quantity, purchase_price, item_cost, manufacture_date, expiry_date, created_at").ToSql()
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	rows, err := tr.QuerierFromCtx(ctx, p.pool).Query(ctx, query, args...)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), e.Dependency(err))
	}

	out, err := p.scanDetails(rows)
	if err != nil {
		if postgresForeignKey(err) {
			return nil, e.Wrap(whereami.WhereAmI(), e.ErrProductNotFound)
		}
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return out, nil
}

func (p *PurchaseRepo) GetByID(ctx context.Context, id int64) (*domain.Purchase, error) {
	query, args, err := psql.Select(purchaseColumns...).From("purchases").Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	model, err := scanPurchase(tr.QuerierFromCtx(ctx, p.pool).QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, e.Wrap(whereami.WhereAmI(), e.ErrPurchaseNotFound)
		}
		return nil, e.Wrap(whereami.WhereAmI(), e.Dependency(err))
	}

	return p.conv.ToEntity(model), nil
}

func (p *PurchaseRepo) GetDetails(ctx context.Context, purchaseID int64) ([]domain.PurchaseDetail, error) {
	query, args, err := psql.Select(detailColumns...).From("purchase_details").
		Where(sq.Eq{"purchase_id": purchaseID}).
		OrderBy("id").
		ToSql()
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	rows, err := tr.QuerierFromCtx(ctx, p.pool).Query(ctx, query, args...)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), e.Dependency(err))
	}

	out, err := p.scanDetails(rows)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return out, nil
}

// List возвращает страницу заголовков закупок, новые первыми.
func (p *PurchaseRepo) List(ctx context.Context, filter usecase.PurchaseFilter) ([]domain.Purchase, int64, error) {
	where := sq.And{textFilter(map[string]string{
		"order_number": filter.OrderNumber,
		"note":         filter.Note,
	})}
	if filter.DateFrom != nil {
		where = append(where, sq.GtOrEq{"purchase_date": *filter.DateFrom})
	}
	if filter.DateTo != nil {
		where = append(where, sq.LtOrEq{"purchase_date": *filter.DateTo})
	}
	q := tr.QuerierFromCtx(ctx, p.pool)

	countQuery, countArgs, err := psql.Select("COUNT(*)").From("purchases").Where(where).ToSql()
	if err != nil {
		return nil, 0, e.Wrap(whereami.WhereAmI(), err)
	}
	var total int64
	if err := q.QueryRow(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, e.Wrap(whereami.WhereAmI(), e.Dependency(err))
	}

	query, args, err := applyWindow(
		psql.Select(purchaseColumns...).From("purchases").Where(where).OrderBy("purchase_date DESC", "id DESC"),
		filter.Window,
	).ToSql()
	if err != nil {
		return nil, 0, e.Wrap(whereami.WhereAmI(), err)
	}

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, e.Wrap(whereami.WhereAmI(), e.Dependency(err))
	}
	defer rows.Close()

	items := make([]domain.Purchase, 0)
	for rows.Next() {
		model, err := scanPurchase(rows)
		if err != nil {
			return nil, 0, e.Wrap(whereami.WhereAmI(), e.Dependency(err))
		}
		items = append(items, *p.conv.ToEntity(model))
	}
	if err := rows.Err(); err != nil {
		return nil, 0, e.Wrap(whereami.WhereAmI(), e.Dependency(err))
	}

	return items, total, nil
}

func (p *PurchaseRepo) scanDetails(rows pgx.Rows) ([]domain.PurchaseDetail, error) {
	defer rows.Close()

	out := make([]domain.PurchaseDetail, 0)
	for rows.Next() {
		var m converter.PurchaseDetailModel
		if err := rows.Scan(
			&m.ID, &m.PurchaseID, &m.ProductID, &m.Quantity, &m.PurchasePrice, &m.ItemCost,
			&m.ManufactureDate, &m.ExpiryDate, &m.CreatedAt,
		); err != nil {
			return nil, e.Dependency(err)
		}
		out = append(out, p.conv.DetailToEntity(&m))
	}
	if err := rows.Err(); err != nil {
		return nil, e.Dependency(err)
	}

	return out, nil
}

func scanPurchase(row pgx.Row) (*converter.PurchaseModel, error) {
	var m converter.PurchaseModel
	if err := row.Scan(
		&m.ID, &m.OrderNumber, &m.PurchaseDate, &m.CurrencyID, &m.ExchangeRate, &m.ExtraCost,
		&m.Note, &m.CreatedAt, &m.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &m, nil
}
