package excel

import (
	"bytes"
	"errors"
	"strconv"
	"testing"
	"time"

	"github.com/360EntSecGroup-Skylar/excelize"
	"github.com/DRSN-tech/inventory-backend/pkg/e"
)

func workbook(t *testing.T, rows [][]any) *bytes.Buffer {
	t.Helper()

	book := excelize.NewFile()
	for r, row := range rows {
		for c, val := range row {
			axis := excelize.ToAlphaString(c) + strconv.Itoa(r+1)
			book.SetCellValue("Sheet1", axis, val)
		}
	}

	buf, err := book.WriteToBuffer()
	if err != nil {
		t.Fatalf("WriteToBuffer: %v", err)
	}
	return buf
}

func TestParse(t *testing.T) {
	buf := workbook(t, [][]any{
		{"Brand", "Category", "Name", "Description", "Price", "Weight", "Qty", "ManufactureDate", "Expire Date"},
		{"Acme", "Lips", "Lipstick A", "red", "12.5", "5g", 10, "2024-01-15", "2026-01-15"},
		{"", "", "", "", "", "", "", "", ""},
		{"Acme", "Lips", "Lipstick B", "", "3", "", "4.0", "45306", ""},
		{"Acme", "Lips", "Broken", "", "abc", "", "many", "not a date", ""},
	})

	rows, err := NewParser().Parse(buf)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("got %d rows, want 3", len(rows))
	}

	first := rows[0]
	if first.Line != 2 || first.Name != "Lipstick A" || first.Brand != "Acme" || first.Weight != "5g" {
		t.Errorf("first row = %+v", first)
	}
	if first.Qty != 10 || first.Price.String() != "12.5" {
		t.Errorf("first row qty/price = %d/%s", first.Qty, first.Price)
	}
	wantMfg := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
	if first.ManufactureDate == nil || !first.ManufactureDate.Equal(wantMfg) {
		t.Errorf("manufacture date = %v, want %v", first.ManufactureDate, wantMfg)
	}
	if first.ExpiryDate == nil || first.ExpiryDate.Year() != 2026 {
		t.Errorf("expiry date = %v", first.ExpiryDate)
	}

	second := rows[1]
	if second.Line != 4 {
		t.Errorf("second line = %d, want 4 (blank row keeps numbering)", second.Line)
	}
	if second.Qty != 4 {
		t.Errorf("qty from 4.0 = %d, want 4", second.Qty)
	}
	if second.ManufactureDate == nil || !second.ManufactureDate.Equal(wantMfg) {
		t.Errorf("serial date = %v, want %v", second.ManufactureDate, wantMfg)
	}
	if second.ExpiryDate != nil {
		t.Errorf("empty expiry date = %v, want nil", second.ExpiryDate)
	}

	broken := rows[2]
	if broken.Qty != 0 || !broken.Price.IsZero() || broken.ManufactureDate != nil {
		t.Errorf("unparseable cells = %+v", broken)
	}
}

func TestParseErrors(t *testing.T) {
	noQty := workbook(t, [][]any{{"Name", "Price"}, {"Lipstick", "1"}})
	if _, err := NewParser().Parse(noQty); !errors.Is(err, e.ErrImportHeader) {
		t.Errorf("missing Qty: err = %v, want ErrImportHeader", err)
	}

	headerOnly := workbook(t, [][]any{{"Name", "Qty"}})
	if _, err := NewParser().Parse(headerOnly); !errors.Is(err, e.ErrEmptyImport) {
		t.Errorf("header only: err = %v, want ErrEmptyImport", err)
	}

	if _, err := NewParser().Parse(bytes.NewBufferString("not a zip")); !errors.Is(err, e.ErrImportMalformed) {
		t.Errorf("garbage: err = %v, want ErrImportMalformed", err)
	}
}
