package kafka

import (
	"time"

	"github.com/DRSN-tech/inventory-backend/internal/usecase"
	"github.com/DRSN-tech/inventory-backend/pkg/e"
	"github.com/jimlawless/whereami"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"
)

// ProtoEncoder кодирует события outbox в google.protobuf.Struct.
type ProtoEncoder struct {
	now func() time.Time
}

func NewProtoEncoder() *ProtoEncoder {
	return &ProtoEncoder{now: time.Now}
}

// EncodePurchasePosted кодирует проведённую закупку: заголовок и по строке на каждую проводку.
func (p *ProtoEncoder) EncodePurchasePosted(eventID string, info *usecase.PurchaseInfo) ([]byte, error) {
	purchase := info.Purchase

	postings := make([]any, 0, len(info.Postings))
	for _, posting := range info.Postings {
		postings = append(postings, map[string]any{
			"productId":     float64(posting.ProductID),
			"quantity":      float64(posting.Quantity),
			"purchasePrice": posting.PurchasePrice.String(),
			"itemCost":      posting.ItemCost.String(),
		})
	}

	body := map[string]any{
		"eventId":      eventID,
		"eventType":    string(usecase.PurchasePosted),
		"occurredAt":   p.now().UTC().Format(time.RFC3339Nano),
		"purchaseId":   float64(purchase.ID),
		"orderNumber":  purchase.OrderNumber,
		"purchaseDate": purchase.PurchaseDate.UTC().Format(time.RFC3339),
		"exchangeRate": purchase.ExchangeRate.String(),
		"extraCost":    purchase.ExtraCost.String(),
		"postings":     postings,
	}
	if purchase.CurrencyID != nil {
		body["currencyId"] = float64(*purchase.CurrencyID)
	}

	msg, err := structpb.NewStruct(body)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return proto.Marshal(msg)
}
