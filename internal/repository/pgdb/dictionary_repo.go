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

var dictionaryColumns = []string{"id", "name", "description", "created_at", "updated_at"}

// DictionaryRepo реализует репозиторий брендов, категорий и валют поверх PostgreSQL.
// Каждому справочнику соответствует таблица с тем же именем.
type DictionaryRepo struct {
	pool *pgxpool.Pool
	conv converter.DictionaryConverter
}

func NewDictionaryRepo(pool *pgxpool.Pool, conv converter.DictionaryConverter) *DictionaryRepo {
	return &DictionaryRepo{pool: pool, conv: conv}
}

// Create добавляет запись. Нарушение уникальности имени возвращается как e.ErrDuplicateName.
func (d *DictionaryRepo) Create(ctx context.Context, item *domain.Dictionary) (*domain.Dictionary, error) {
	table, err := tableFor(item.Kind)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	query, args, err := psql.Insert(table).
		Columns("name", "description").
		Values(item.Name, item.Description).
		Suffix("RETURNING id, name, description, created_at, updated_at").
		ToSql()
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	var model converter.DictionaryModel
	if err := tr.QuerierFromCtx(ctx, d.pool).QueryRow(ctx, query, args...).
		Scan(&model.ID, &model.Name, &model.Description, &model.CreatedAt, &model.UpdatedAt); err != nil {
		if postgresDuplicate(err) {
			return nil, e.Wrap(whereami.WhereAmI(), e.ErrDuplicateName)
		}
		return nil, e.Wrap(whereami.WhereAmI(), e.Dependency(err))
	}

	return d.conv.ToEntity(item.Kind, &model), nil
}

func (d *DictionaryRepo) GetByID(ctx context.Context, kind domain.DictionaryKind, id int64) (*domain.Dictionary, error) {
	return d.getOne(ctx, kind, sq.Eq{"id": id})
}

func (d *DictionaryRepo) GetByName(ctx context.Context, kind domain.DictionaryKind, name string) (*domain.Dictionary, error) {
	return d.getOne(ctx, kind, sq.Eq{"name": name})
}

func (d *DictionaryRepo) getOne(ctx context.Context, kind domain.DictionaryKind, where sq.Sqlizer) (*domain.Dictionary, error) {
	table, err := tableFor(kind)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	query, args, err := psql.Select(dictionaryColumns...).From(table).Where(where).Limit(1).ToSql()
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	var model converter.DictionaryModel
	if err := tr.QuerierFromCtx(ctx, d.pool).QueryRow(ctx, query, args...).
		Scan(&model.ID, &model.Name, &model.Description, &model.CreatedAt, &model.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, e.Wrap(whereami.WhereAmI(), e.ErrEntityNotFound)
		}
		return nil, e.Wrap(whereami.WhereAmI(), e.Dependency(err))
	}

	return d.conv.ToEntity(kind, &model), nil
}

func (d *DictionaryRepo) ExistsByName(ctx context.Context, kind domain.DictionaryKind, name string, excludeID int64) (bool, error) {
	table, err := tableFor(kind)
	if err != nil {
		return false, e.Wrap(whereami.WhereAmI(), err)
	}

	query, args, err := psql.Select("1").From(table).
		Where(sq.Eq{"name": name}).
		Where(sq.NotEq{"id": excludeID}).
		Prefix("SELECT EXISTS (").Suffix(")").
		ToSql()
	if err != nil {
		return false, e.Wrap(whereami.WhereAmI(), err)
	}

	var exists bool
	if err := tr.QuerierFromCtx(ctx, d.pool).QueryRow(ctx, query, args...).Scan(&exists); err != nil {
		return false, e.Wrap(whereami.WhereAmI(), e.Dependency(err))
	}

	return exists, nil
}

// List возвращает страницу справочника и общее число записей, подходящих под фильтр.
func (d *DictionaryRepo) List(ctx context.Context, kind domain.DictionaryKind, filter usecase.DictionaryFilter) ([]domain.Dictionary, int64, error) {
	table, err := tableFor(kind)
	if err != nil {
		return nil, 0, e.Wrap(whereami.WhereAmI(), err)
	}

	where := textFilter(map[string]string{
		"name":        filter.Name,
		"description": filter.Description,
	})
	q := tr.QuerierFromCtx(ctx, d.pool)

	countQuery, countArgs, err := psql.Select("COUNT(*)").From(table).Where(where).ToSql()
	if err != nil {
		return nil, 0, e.Wrap(whereami.WhereAmI(), err)
	}
	var total int64
	if err := q.QueryRow(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, e.Wrap(whereami.WhereAmI(), e.Dependency(err))
	}

	query, args, err := applyWindow(
		psql.Select(dictionaryColumns...).From(table).Where(where).OrderBy("id"),
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

	items := make([]domain.Dictionary, 0)
	for rows.Next() {
		var model converter.DictionaryModel
		if err := rows.Scan(&model.ID, &model.Name, &model.Description, &model.CreatedAt, &model.UpdatedAt); err != nil {
			return nil, 0, e.Wrap(whereami.WhereAmI(), e.Dependency(err))
		}
		items = append(items, *d.conv.ToEntity(kind, &model))
	}
	if err := rows.Err(); err != nil {
		return nil, 0, e.Wrap(whereami.WhereAmI(), e.Dependency(err))
	}

	return items, total, nil
}

func (d *DictionaryRepo) Update(ctx context.Context, item *domain.Dictionary) (*domain.Dictionary, error) {
	table, err := tableFor(item.Kind)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	query, args, err := psql.Update(table).
		Set("name", item.Name).
		Set("description", item.Description).
		Set("updated_at", sq.Expr("NOW()")).
		Where(sq.Eq{"id": item.ID}).
		Suffix("RETURNING id, name, description, created_at, updated_at").
		ToSql()
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	var model converter.DictionaryModel
	if err := tr.QuerierFromCtx(ctx, d.pool).QueryRow(ctx, query, args...).
		Scan(&model.ID, &model.Name, &model.Description, &model.CreatedAt, &model.UpdatedAt); err != nil {
		switch {
		case errors.Is(err, pgx.ErrNoRows):
			return nil, e.Wrap(whereami.WhereAmI(), e.ErrEntityNotFound)
		case postgresDuplicate(err):
			return nil, e.Wrap(whereami.WhereAmI(), e.ErrDuplicateName)
		}
		return nil, e.Wrap(whereami.WhereAmI(), e.Dependency(err))
	}

	return d.conv.ToEntity(item.Kind, &model), nil
}

// Delete удаляет запись. Валюта, на которую ссылаются закупки, не удаляется: e.ErrReferenced.
func (d *DictionaryRepo) Delete(ctx context.Context, kind domain.DictionaryKind, id int64) error {
	table, err := tableFor(kind)
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	query, args, err := psql.Delete(table).Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	tag, err := tr.QuerierFromCtx(ctx, d.pool).Exec(ctx, query, args...)
	if err != nil {
		if postgresForeignKey(err) {
			return e.Wrap(whereami.WhereAmI(), e.ErrReferenced)
		}
		return e.Wrap(whereami.WhereAmI(), e.Dependency(err))
	}
	if tag.RowsAffected() == 0 {
		return e.Wrap(whereami.WhereAmI(), e.ErrEntityNotFound)
	}

	return nil
}

func tableFor(kind domain.DictionaryKind) (string, error) {
	if !kind.Valid() {
		return "", e.ErrUnknownDictionary
	}
	return string(kind), nil
}
