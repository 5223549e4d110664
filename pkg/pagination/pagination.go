// Package pagination переводит сырые page/limit в окно выборки.
package pagination

// DefaultLimit используется, когда передан только page.
const DefaultLimit = 10

// Верхние границы page и limit: Offset = (page-1)*limit не должен переполнять int.
const (
	MaxPage  = 1_000_000
	MaxLimit = 1000
)

// Window описывает режим выполнения списочного запроса.
// При Paged == false возвращается весь отфильтрованный набор.
type Window struct {
	Paged  bool
	Page   int
	Limit  int
	Offset int
}

// Resolve строит окно: page и limit, оба отсутствующие (<= 0), означают выборку без пагинации.
func Resolve(page, limit int) Window {
	return ResolveWithDefault(page, limit, DefaultLimit)
}

// ResolveWithDefault то же, что Resolve, но с настраиваемым лимитом по умолчанию.
// Значения больше MaxPage и MaxLimit приводятся к границам.
func ResolveWithDefault(page, limit, defaultLimit int) Window {
	if page <= 0 && limit <= 0 {
		return Window{}
	}

	if defaultLimit <= 0 {
		defaultLimit = DefaultLimit
	}
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = defaultLimit
	}
	page = min(page, MaxPage)
	limit = min(limit, MaxLimit)

	return Window{
		Paged:  true,
		Page:   page,
		Limit:  limit,
		Offset: (page - 1) * limit,
	}
}

// TotalPages возвращает ceil(total/limit) для постраничного окна и nil для выборки без пагинации.
func TotalPages(total int64, w Window) *int {
	if !w.Paged || w.Limit <= 0 {
		return nil
	}

	pages := int((total + int64(w.Limit) - 1) / int64(w.Limit))
	return &pages
}
