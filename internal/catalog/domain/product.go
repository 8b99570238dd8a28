package domain

import "time"

type Money struct {
	Currency string
	Amount   int64
}

type LocalizedName struct {
	EN string
	KO string
}

type Product struct {
	ID           string
	Name         LocalizedName
	Description  string
	Price        Money
	ThumbnailURL string
	SellerID     string
	SellerName   string
	Stock        int32
	MaxPerOrder  int32
	Discontinued bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Available reports whether the product can currently be bought.
func (p Product) Available() bool {
	return !p.Discontinued && p.Stock > 0
}

type StockStatus struct {
	ProductID    string
	Available    bool
	Price        *int64
	Discontinued bool
}

type StockChanged struct {
	ProductID  string
	Available  bool
	Price      int64
	OccurredAt time.Time
}
