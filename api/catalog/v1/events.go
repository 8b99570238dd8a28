package catalogv1

// StockChangedSubject carries StockChangedEvent payloads as JSON.
const StockChangedSubject = "catalog.stock.changed"

type StockChangedEvent struct {
	ProductID  string `json:"product_id"`
	Available  bool   `json:"available"`
	Price      int64  `json:"price"`
	OccurredAt int64  `json:"occurred_at"`
}
