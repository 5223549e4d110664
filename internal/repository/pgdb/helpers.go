package pgdb

import (
	"errors"
	"sort"
	"strings"

	"github.com/DRSN-tech/inventory-backend/pkg/pagination"
	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgconn"
)

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// postgresDuplicate сообщает о нарушении уникального индекса.
func postgresDuplicate(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation
}

// postgresForeignKey сообщает о нарушении внешнего ключа.
func postgresForeignKey(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgForeignKeyViolation
}

// constraintName возвращает имя нарушенного ограничения.
func constraintName(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.ConstraintName
	}
	return ""
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLike экранирует спецсимволы шаблона LIKE.
func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

// textFilter превращает непустые текстовые поля в `column ILIKE '%value%'`, объединённые через AND.
func textFilter(fields map[string]string) sq.And {
	columns := make([]string, 0, len(fields))
	for column, value := range fields {
		if strings.TrimSpace(value) != "" {
			columns = append(columns, column)
		}
	}
	sort.Strings(columns)

	cond := sq.And{}
	for _, column := range columns {
		cond = append(cond, sq.ILike{column: "%" + escapeLike(strings.TrimSpace(fields[column])) + "%"})
	}
	return cond
}

// applyWindow ограничивает выборку окном страницы. Без пагинации запрос не меняется.
func applyWindow(b sq.SelectBuilder, w pagination.Window) sq.SelectBuilder {
	if !w.Paged {
		return b
	}
	return b.Limit(uint64(w.Limit)).Offset(uint64(w.Offset))
}
