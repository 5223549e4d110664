package converter

// StockRedisModel — закэшированный остаток одного товара.
type StockRedisModel struct {
	ProductID int64 `json:"product_id"`
	Quantity  int64 `json:"quantity"`
}
