package pgdb

import (
	"context"

	"github.com/DRSN-tech/inventory-backend/internal/domain"
	"github.com/DRSN-tech/inventory-backend/internal/repository/pgdb/converter"
	"github.com/DRSN-tech/inventory-backend/pkg/e"
	"github.com/DRSN-tech/inventory-backend/pkg/tr"
	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jimlawless/whereami"
)

const postingReturning = "RETURNING id, product_id, purchase_id, quantity, purchase_price, item_cost, manufacture_date, expiry_date, created_at"

// StockRepo хранит неизменяемые проводки прихода и считает по ним остатки.
type StockRepo struct {
	pool *pgxpool.Pool
	conv converter.PurchaseConverter
}

func NewStockRepo(pool *pgxpool.Pool, conv converter.PurchaseConverter) *StockRepo {
	return &StockRepo{
		pool: pool,
		conv: conv,
	}
}

// CreatePostings вставляет все проводки закупки одним запросом.
func (s *StockRepo) CreatePostings(ctx context.Context, postings []domain.StockPosting) ([]domain.StockPosting, error) {
	if len(postings) == 0 {
		return []domain.StockPosting{}, nil
	}

	builder := psql.Insert("stock_postings").
		Columns("product_id", "purchase_id", "quantity", "purchase_price", "item_cost", "manufacture_date", "expiry_date")
	for _, p := range postings {
		builder = builder.Values(p.ProductID, p.PurchaseID, p.Quantity, p.PurchasePrice, p.ItemCost, p.ManufactureDate, p.ExpiryDate)
	}

	query, args, err := builder.Suffix(postingReturning).ToSql()
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	rows, err := tr.QuerierFromCtx(ctx, s.pool).Query(ctx, query, args...)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), e.Dependency(err))
	}

	out, err := s.scanPostings(rows)
	if err != nil {
		if postgresForeignKey(err) {
			return nil, e.Wrap(whereami.WhereAmI(), e.ErrProductNotFound)
		}
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return out, nil
}

func (s *StockRepo) GetPostingsByPurchase(ctx context.Context, purchaseID int64) ([]domain.StockPosting, error) {
	query, args, err := psql.Select(
		"id", "product_id", "purchase_id", "quantity", "purchase_price", "item_cost", "manufacture_date", "expiry_date", "created_at",
	).From("stock_postings").Where(sq.Eq{"purchase_id": purchaseID}).OrderBy("id").ToSql()
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	rows, err := tr.QuerierFromCtx(ctx, s.pool).Query(ctx, query, args...)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), e.Dependency(err))
	}

	out, err := s.scanPostings(rows)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return out, nil
}

// SumByProducts суммирует количество по проводкам одним сгруппированным запросом.
// Товары без проводок в результат не попадают.
func (s *StockRepo) SumByProducts(ctx context.Context, productIDs []int64) (domain.StockMap, error) {
	result := make(domain.StockMap, len(productIDs))
	if len(productIDs) == 0 {
		return result, nil
	}

	query := `
		SELECT product_id, COALESCE(SUM(quantity), 0)::BIGINT
		FROM stock_postings
		WHERE product_id = ANY($1)
		GROUP BY product_id
	`

	rows, err := tr.QuerierFromCtx(ctx, s.pool).Query(ctx, query, productIDs)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), e.Dependency(err))
	}
	defer rows.Close()

	for rows.Next() {
		var (
			productID int64
			qty       int64
		)
		if err := rows.Scan(&productID, &qty); err != nil {
			return nil, e.Wrap(whereami.WhereAmI(), e.Dependency(err))
		}
		result[productID] = qty
	}
	if err := rows.Err(); err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), e.Dependency(err))
	}

	return result, nil
}

func (s *StockRepo) scanPostings(rows pgx.Rows) ([]domain.StockPosting, error) {
	defer rows.Close()

	out := make([]domain.StockPosting, 0)
	for rows.Next() {
		var m converter.StockPostingModel
		if err := rows.Scan(
			&m.ID, &m.ProductID, &m.PurchaseID, &m.Quantity, &m.PurchasePrice, &m.ItemCost,
			&m.ManufactureDate, &m.ExpiryDate, &m.CreatedAt,
		); err != nil {
			return nil, e.Dependency(err)
		}
		out = append(out, s.conv.PostingToEntity(&m))
	}
	if err := rows.Err(); err != nil {
		return nil, e.Dependency(err)
	}

	return out, nil
}
