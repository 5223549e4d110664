package converter

import (
	"reflect"
	"testing"

	"github.com/DRSN-tech/inventory-backend/internal/domain"
)

func TestStockConverter(t *testing.T) {
	conv := StockConverterImpl{}
	stock := domain.StockMap{3: 7, 1: 0, 2: 15}

	models := conv.ToRedisModels(stock)
	want := []StockRedisModel{
		{ProductID: 1, Quantity: 0},
		{ProductID: 2, Quantity: 15},
		{ProductID: 3, Quantity: 7},
	}
	if !reflect.DeepEqual(models, want) {
		t.Fatalf("ToRedisModels = %+v, want %+v", models, want)
	}

	if got := conv.ToStockMap(models); !reflect.DeepEqual(got, stock) {
		t.Errorf("ToStockMap = %v, want %v", got, stock)
	}
}
