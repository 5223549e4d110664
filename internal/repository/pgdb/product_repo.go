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

const productReturning = `RETURNING id, name, description, selling_price, weight, manufacturing_country,
	brand_id, category_id,
	(SELECT name FROM brands WHERE brands.id = products.brand_id),
	(SELECT name FROM categories WHERE categories.id = products.category_id),
	variant, images, batches, version, created_at, updated_at`

var productColumns = []string{
	"p.id", "p.name", "p.description", "p.selling_price", "p.weight", "p.manufacturing_country",
	"p.brand_id", "p.category_id", "b.name", "c.name", "p.variant", "p.images", "p.batches",
	"p.version", "p.created_at", "p.updated_at",
}

// ProductRepo реализует репозиторий товаров поверх PostgreSQL.
// Партии и изображения хранятся в JSONB-колонках строки товара, запись защищена колонкой version.
type ProductRepo struct {
	pool *pgxpool.Pool
	conv converter.ProductConverter
}

func NewProductRepo(pool *pgxpool.Pool, conv converter.ProductConverter) *ProductRepo {
	return &ProductRepo{
		pool: pool,
		conv: conv,
	}
}

func (p *ProductRepo) Create(ctx context.Context, product *domain.Product) (*domain.Product, error) {
	model, err := p.conv.ToModel(product)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	query, args, err := psql.Insert("products").
		Columns(
			"name", "description", "selling_price", "weight", "manufacturing_country",
			"brand_id", "category_id", "variant", "images", "batches",
		).
		Values(
			model.Name, model.Description, model.SellingPrice, model.Weight, model.ManufacturingCountry,
			model.BrandID, model.CategoryID, model.Variant, model.Images, model.Batches,
		).
		Suffix(productReturning).
		ToSql()
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	created, err := p.scanOne(tr.QuerierFromCtx(ctx, p.pool).QueryRow(ctx, query, args...))
	if err != nil {
		switch {
		case postgresDuplicate(err):
			return nil, e.Wrap(whereami.WhereAmI(), e.ErrDuplicateName)
		case postgresForeignKey(err):
			return nil, e.Wrap(whereami.WhereAmI(), e.ErrEntityNotFound)
		}
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return created, nil
}

func (p *ProductRepo) GetByID(ctx context.Context, id int64) (*domain.Product, error) {
	return p.getOne(ctx, sq.Eq{"p.id": id})
}

func (p *ProductRepo) GetByName(ctx context.Context, name string) (*domain.Product, error) {
	return p.getOne(ctx, sq.Eq{"p.name": name})
}

func (p *ProductRepo) getOne(ctx context.Context, where sq.Sqlizer) (*domain.Product, error) {
	query, args, err := selectProducts().Where(where).OrderBy("p.id").Limit(1).ToSql()
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	product, err := p.scanOne(tr.QuerierFromCtx(ctx, p.pool).QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, e.Wrap(whereami.WhereAmI(), e.ErrProductNotFound)
		}
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return product, nil
}

func (p *ProductRepo) ExistsByName(ctx context.Context, name string, weight *string, excludeID int64) (bool, error) {
	where := sq.And{sq.Eq{"name": name}, sq.NotEq{"id": excludeID}}
	if weight != nil {
		where = append(where, sq.Eq{"weight": *weight})
	}

	query, args, err := psql.Select("1").From("products").Where(where).
		Prefix("SELECT EXISTS (").Suffix(")").
		ToSql()
	if err != nil {
		return false, e.Wrap(whereami.WhereAmI(), err)
	}

	var exists bool
	if err := tr.QuerierFromCtx(ctx, p.pool).QueryRow(ctx, query, args...).Scan(&exists); err != nil {
		return false, e.Wrap(whereami.WhereAmI(), e.Dependency(err))
	}

	return exists, nil
}

func (p *ProductRepo) MissingIDs(ctx context.Context, ids []int64) ([]int64, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	rows, err := tr.QuerierFromCtx(ctx, p.pool).Query(ctx, `SELECT id FROM products WHERE id = ANY($1)`, ids)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), e.Dependency(err))
	}
	defer rows.Close()

	found := make(map[int64]struct{}, len(ids))
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, e.Wrap(whereami.WhereAmI(), e.Dependency(err))
		}
		found[id] = struct{}{}
	}
	if err := rows.Err(); err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), e.Dependency(err))
	}

	var missing []int64
	for _, id := range ids {
		if _, ok := found[id]; !ok {
			missing = append(missing, id)
		}
	}
	return missing, nil
}

// List возвращает страницу товаров и число товаров, подходящих под фильтр.
func (p *ProductRepo) List(ctx context.Context, filter usecase.ProductFilter) ([]domain.Product, int64, error) {
	where := sq.And{textFilter(map[string]string{
		"p.name":        filter.Name,
		"p.description": filter.Description,
	})}
	if filter.BrandID != nil {
		where = append(where, sq.Eq{"p.brand_id": *filter.BrandID})
	}
	if filter.CategoryID != nil {
		where = append(where, sq.Eq{"p.category_id": *filter.CategoryID})
	}
	q := tr.QuerierFromCtx(ctx, p.pool)

	countQuery, countArgs, err := psql.Select("COUNT(*)").From("products p").Where(where).ToSql()
	if err != nil {
		return nil, 0, e.Wrap(whereami.WhereAmI(), err)
	}
	var total int64
	if err := q.QueryRow(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, e.Wrap(whereami.WhereAmI(), e.Dependency(err))
	}

	query, args, err := applyWindow(selectProducts().Where(where).OrderBy("p.id"), filter.Window).ToSql()
	if err != nil {
		return nil, 0, e.Wrap(whereami.WhereAmI(), err)
	}

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, e.Wrap(whereami.WhereAmI(), e.Dependency(err))
	}
	defer rows.Close()

	items := make([]domain.Product, 0)
	for rows.Next() {
		product, err := p.scanOne(rows)
		if err != nil {
			return nil, 0, e.Wrap(whereami.WhereAmI(), err)
		}
		items = append(items, *product)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, e.Wrap(whereami.WhereAmI(), e.Dependency(err))
	}

	return items, total, nil
}

// Update записывает товар, только если версия в БД совпадает с product.Version.
// Иначе возвращает e.ErrConflict, а для удалённого товара e.ErrProductNotFound.
func (p *ProductRepo) Update(ctx context.Context, product *domain.Product) (*domain.Product, error) {
	model, err := p.conv.ToModel(product)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	query, args, err := psql.Update("products").
		SetMap(map[string]any{
			"name":                  model.Name,
			"description":           model.Description,
			"selling_price":         model.SellingPrice,
			"weight":                model.Weight,
			"manufacturing_country": model.ManufacturingCountry,
			"brand_id":              model.BrandID,
			"category_id":           model.CategoryID,
			"variant":               model.Variant,
			"images":                model.Images,
			"batches":               model.Batches,
			"version":               sq.Expr("version + 1"),
			"updated_at":            sq.Expr("NOW()"),
		}).
		Where(sq.Eq{"id": model.ID, "version": model.Version}).
		Suffix(productReturning).
		ToSql()
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	q := tr.QuerierFromCtx(ctx, p.pool)
	updated, err := p.scanOne(q.QueryRow(ctx, query, args...))
	if err == nil {
		return updated, nil
	}

	switch {
	case postgresDuplicate(err):
		return nil, e.Wrap(whereami.WhereAmI(), e.ErrDuplicateName)
	case postgresForeignKey(err):
		return nil, e.Wrap(whereami.WhereAmI(), e.ErrEntityNotFound)
	case !errors.Is(err, pgx.ErrNoRows):
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	// Ни одна строка не обновлена: товар удалён или версия ушла вперёд
	var exists bool
	if err := q.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM products WHERE id = $1)`, model.ID).Scan(&exists); err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), e.Dependency(err))
	}
	if !exists {
		return nil, e.Wrap(whereami.WhereAmI(), e.ErrProductNotFound)
	}
	return nil, e.Wrap(whereami.WhereAmI(), e.ErrConflict)
}

// Delete удаляет товар. Товар с проводками не удаляется: e.ErrReferenced.
func (p *ProductRepo) Delete(ctx context.Context, id int64) error {
	tag, err := tr.QuerierFromCtx(ctx, p.pool).Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		if postgresForeignKey(err) {
			return e.Wrap(whereami.WhereAmI(), e.ErrReferenced)
		}
		return e.Wrap(whereami.WhereAmI(), e.Dependency(err))
	}
	if tag.RowsAffected() == 0 {
		return e.Wrap(whereami.WhereAmI(), e.ErrProductNotFound)
	}

	return nil
}

// scanOne читает строку товара. Ошибки драйвера помечаются как e.ErrDependency,
// pgx.ErrNoRows и ошибки ограничений остаются различимы через errors.Is/As.
func (p *ProductRepo) scanOne(row pgx.Row) (*domain.Product, error) {
	var model converter.ProductModel
	if err := row.Scan(
		&model.ID, &model.Name, &model.Description, &model.SellingPrice, &model.Weight, &model.ManufacturingCountry,
		&model.BrandID, &model.CategoryID, &model.BrandName, &model.CategoryName,
		&model.Variant, &model.Images, &model.Batches, &model.Version, &model.CreatedAt, &model.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		return nil, e.Dependency(err)
	}

	return p.conv.ToEntity(&model)
}

func selectProducts() sq.SelectBuilder {
	return psql.Select(productColumns...).
		From("products p").
		LeftJoin("brands b ON b.id = p.brand_id").
		LeftJoin("categories c ON c.id = p.category_id")
}
