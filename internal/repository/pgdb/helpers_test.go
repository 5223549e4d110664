package pgdb

import (
	"reflect"
	"testing"

	"github.com/DRSN-tech/inventory-backend/pkg/pagination"
)

func TestEscapeLike(t *testing.T) {
	tests := map[string]string{
		"lipstick": "lipstick",
		"50%":      `50\%`,
		"a_b":      `a\_b`,
		`c:\dir`:   `c:\\dir`,
	}
	for in, want := range tests {
		if got := escapeLike(in); got != want {
			t.Errorf("escapeLike(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestTextFilter(t *testing.T) {
	sql, args, err := textFilter(map[string]string{
		"name":        "Lip",
		"description": "",
		"note":        "  50% ",
	}).ToSql()
	if err != nil {
		t.Fatalf("ToSql: %v", err)
	}

	if want := "(name ILIKE ? AND note ILIKE ?)"; sql != want {
		t.Errorf("sql = %q, want %q", sql, want)
	}
	if want := []any{"%Lip%", `%50\%%`}; !reflect.DeepEqual(args, want) {
		t.Errorf("args = %v, want %v", args, want)
	}
}

func TestApplyWindow(t *testing.T) {
	base := psql.Select("id").From("brands")

	sql, _, err := applyWindow(base, pagination.Resolve(0, 0)).ToSql()
	if err != nil {
		t.Fatalf("ToSql: %v", err)
	}
	if sql != "SELECT id FROM brands" {
		t.Errorf("unpaged sql = %q", sql)
	}

	sql, _, err = applyWindow(base, pagination.Resolve(3, 10)).ToSql()
	if err != nil {
		t.Fatalf("ToSql: %v", err)
	}
	if sql != "SELECT id FROM brands LIMIT 10 OFFSET 20" {
		t.Errorf("paged sql = %q", sql)
	}
}
