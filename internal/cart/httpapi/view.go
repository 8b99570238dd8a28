package httpapi

import (
	"time"

	"github.com/dwikikusuma/videoshop-cart/internal/cart/app"
	"github.com/dwikikusuma/videoshop-cart/internal/cart/domain"
)

type itemView struct {
	ID           string `json:"id"`
	ProductID    string `json:"product_id"`
	Name         string `json:"name"`
	ThumbnailURL string `json:"thumbnail_url,omitempty"`
	UnitPrice    int64  `json:"unit_price"`
	Quantity     int32  `json:"quantity"`
	MaxQuantity  int32  `json:"max_quantity"`
	LineTotal    int64  `json:"line_total"`
	SellerID     string `json:"seller_id"`
	SellerName   string `json:"seller_name"`
	InStock      bool   `json:"in_stock"`
	PendingPrice *int64 `json:"pending_price,omitempty"`
}

type cartView struct {
	Items          []itemView `json:"items"`
	Currency       string     `json:"currency"`
	SubtotalAmount int64      `json:"subtotal_amount"`
	ShippingAmount int64      `json:"shipping_amount"`
	DiscountAmount int64      `json:"discount_amount"`
	TotalAmount    int64      `json:"total_amount"`
	DiscountCode   string     `json:"discount_code,omitempty"`
	OutOfStock     int        `json:"out_of_stock_count"`
	HasOutOfStock  bool       `json:"has_out_of_stock"`
	PendingPrices  int        `json:"pending_price_changes"`
	ViewActive     bool       `json:"view_active"`
	Revision       int64      `json:"revision"`
	UpdatedAt      *time.Time `json:"updated_at,omitempty"`
}

func toCartView(c domain.Cart, locale string, viewActive bool) cartView {
	v := cartView{
		Items:          make([]itemView, 0, len(c.Items)),
		Currency:       c.Currency,
		SubtotalAmount: c.SubtotalAmount,
		ShippingAmount: c.ShippingAmount,
		DiscountAmount: c.DiscountAmount,
		TotalAmount:    c.TotalAmount,
		DiscountCode:   c.DiscountCode(),
		OutOfStock:     c.OutOfStockCount(),
		HasOutOfStock:  c.HasOutOfStock(),
		ViewActive:     viewActive,
		Revision:       c.Revision,
	}
	if !c.UpdatedAt.IsZero() {
		t := c.UpdatedAt
		v.UpdatedAt = &t
	}
	for _, it := range c.Items {
		if it.PendingPrice != nil {
			v.PendingPrices++
		}
		v.Items = append(v.Items, itemView{
			ID:           it.ID,
			ProductID:    it.ProductID,
			Name:         it.Name.In(locale),
			ThumbnailURL: it.ThumbnailURL,
			UnitPrice:    it.UnitPrice,
			Quantity:     it.Quantity,
			MaxQuantity:  it.MaxQuantity,
			LineTotal:    it.LineTotal(),
			SellerID:     it.SellerID,
			SellerName:   it.SellerName,
			InStock:      it.InStock,
			PendingPrice: it.PendingPrice,
		})
	}
	return v
}

type syncView struct {
	Skipped          bool `json:"skipped"`
	Discarded        bool `json:"discarded"`
	Checked          int  `json:"checked"`
	MarkedOutOfStock int  `json:"marked_out_of_stock"`
	Restocked        int  `json:"restocked"`
	PriceUpdated     int  `json:"price_updated"`
	PriceFlagged     int  `json:"price_flagged"`
	Removed          int  `json:"removed"`
}

func toSyncView(r app.SyncReport) syncView {
	return syncView{
		Skipped:          r.Skipped,
		Discarded:        r.Discarded,
		Checked:          r.Checked,
		MarkedOutOfStock: r.MarkedOutOfStock,
		Restocked:        r.Restocked,
		PriceUpdated:     r.PriceUpdated,
		PriceFlagged:     r.PriceFlagged,
		Removed:          r.Removed,
	}
}

type productView struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Description  string `json:"description,omitempty"`
	ThumbnailURL string `json:"thumbnail_url,omitempty"`
	Currency     string `json:"currency"`
	Price        int64  `json:"price"`
	SellerID     string `json:"seller_id"`
	SellerName   string `json:"seller_name"`
	MaxPerOrder  int32  `json:"max_per_order"`
	Available    bool   `json:"available"`
}

func toProductView(p app.Product, locale string) productView {
	return productView{
		ID:           p.ID,
		Name:         p.Name.In(locale),
		Description:  p.Description,
		ThumbnailURL: p.ThumbnailURL,
		Currency:     p.Currency,
		Price:        p.Price,
		SellerID:     p.SellerID,
		SellerName:   p.SellerName,
		MaxPerOrder:  p.MaxPerOrder,
		Available:    p.Available,
	}
}
