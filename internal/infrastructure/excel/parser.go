// Package excel разбирает xlsx-файлы импорта остатков.
package excel

import (
	"io"
	"math"
	"strings"
	"time"

	"github.com/360EntSecGroup-Skylar/excelize"
	"github.com/DRSN-tech/inventory-backend/internal/usecase"
	"github.com/DRSN-tech/inventory-backend/pkg/e"
	"github.com/araddon/dateparse"
	"github.com/shopspring/decimal"
	"github.com/spf13/cast"
)

// Колонки файла импорта. Имена сравниваются без учёта регистра и пробелов.
const (
	colBrand           = "brand"
	colCategory        = "category"
	colName            = "name"
	colDescription     = "description"
	colPrice           = "price"
	colWeight          = "weight"
	colQty             = "qty"
	colManufactureDate = "manufacturedate"
	colExpireDate      = "expiredate"
)

var headerAliases = map[string]string{
	"expirydate": colExpireDate,
	"quantity":   colQty,
}

// Начало отсчёта дат Excel (система 1900 с ошибкой високосного 1900 года).
var excelEpoch = time.Date(1899, 12, 30, 0, 0, 0, 0, time.UTC)

// Серийные номера больше этого считаются не датой Excel, а записью вида 20240305.
const maxExcelSerial = 100000

// Parser читает первый лист книги: первая строка содержит заголовок, дальше по строке на позицию.
type Parser struct{}

func NewParser() *Parser {
	return &Parser{}
}

// Parse возвращает непустые строки листа. Line хранит номер строки в файле, начиная с 1.
// Нечитаемые числа превращаются в ноль, нечитаемые даты в nil: такие строки отсеивает импорт.
func (p *Parser) Parse(r io.Reader) ([]usecase.ImportRow, error) {
	const op = "excel.Parser.Parse"

	book, err := excelize.OpenReader(r)
	if err != nil {
		return nil, e.Wrap(op, e.ErrImportMalformed)
	}

	sheet := firstSheet(book)
	if sheet == "" {
		return nil, e.Wrap(op, e.ErrEmptyImport)
	}

	rows := book.GetRows(sheet)
	if len(rows) < 2 {
		return nil, e.Wrap(op, e.ErrEmptyImport)
	}

	columns := indexHeader(rows[0])
	if _, ok := columns[colName]; !ok {
		return nil, e.Wrap(op, e.ErrImportHeader)
	}
	if _, ok := columns[colQty]; !ok {
		return nil, e.Wrap(op, e.ErrImportHeader)
	}

	out := make([]usecase.ImportRow, 0, len(rows)-1)
	for i, cells := range rows[1:] {
		if blank(cells) {
			continue
		}

		get := func(col string) string {
			idx, ok := columns[col]
			if !ok || idx >= len(cells) {
				return ""
			}
			return strings.TrimSpace(cells[idx])
		}

		out = append(out, usecase.ImportRow{
			Line:            i + 2,
			Brand:           get(colBrand),
			Category:        get(colCategory),
			Name:            get(colName),
			Description:     get(colDescription),
			Price:           parseDecimal(get(colPrice)),
			Weight:          get(colWeight),
			Qty:             parseQty(get(colQty)),
			ManufactureDate: parseDate(get(colManufactureDate)),
			ExpiryDate:      parseDate(get(colExpireDate)),
		})
	}

	if len(out) == 0 {
		return nil, e.Wrap(op, e.ErrEmptyImport)
	}

	return out, nil
}

func firstSheet(book *excelize.File) string {
	sheets := book.GetSheetMap()
	first := 0
	for idx := range sheets {
		if first == 0 || idx < first {
			first = idx
		}
	}
	return sheets[first]
}

func indexHeader(header []string) map[string]int {
	columns := make(map[string]int, len(header))
	for i, cell := range header {
		key := strings.ToLower(strings.ReplaceAll(strings.TrimSpace(cell), " ", ""))
		if alias, ok := headerAliases[key]; ok {
			key = alias
		}
		if _, seen := columns[key]; !seen && key != "" {
			columns[key] = i
		}
	}
	return columns
}

func blank(cells []string) bool {
	for _, c := range cells {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

func parseDecimal(s string) decimal.Decimal {
	if s == "" {
		return decimal.Zero
	}
	if d, err := decimal.NewFromString(strings.ReplaceAll(s, ",", ".")); err == nil {
		return d
	}
	f, err := cast.ToFloat64E(s)
	if err != nil {
		return decimal.Zero
	}
	return decimal.NewFromFloat(f)
}

func parseQty(s string) int64 {
	if s == "" {
		return 0
	}
	if n, err := cast.ToInt64E(s); err == nil {
		return n
	}
	// Числа в xlsx часто приходят как "5.0"
	f, err := cast.ToFloat64E(s)
	if err != nil || f != math.Trunc(f) {
		return 0
	}
	return int64(f)
}

// parseDate понимает серийные даты Excel и текстовые даты в распространённых форматах.
func parseDate(s string) *time.Time {
	if s == "" {
		return nil
	}

	if serial, err := cast.ToFloat64E(s); err == nil && serial < maxExcelSerial {
		if serial <= 0 {
			return nil
		}
		t := excelEpoch.AddDate(0, 0, int(serial))
		return &t
	}

	t, err := dateparse.ParseIn(s, time.UTC)
	if err != nil {
		return nil
	}
	t = time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	return &t
}
