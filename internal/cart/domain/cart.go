package domain

import (
	"strings"
	"time"
)

type LocalizedName struct {
	EN string `json:"en"`
	KO string `json:"ko"`
}

// In returns the name for locale, falling back to whichever name is set.
func (n LocalizedName) In(locale string) string {
	if strings.HasPrefix(strings.ToLower(locale), "ko") && n.KO != "" {
		return n.KO
	}
	if n.EN == "" {
		return n.KO
	}
	return n.EN
}

type CartItem struct {
	ID           string        `json:"id"`
	ProductID    string        `json:"product_id"`
	Name         LocalizedName `json:"name"`
	ThumbnailURL string        `json:"thumbnail_url"`
	UnitPrice    int64         `json:"unit_price"`
	Quantity     int32         `json:"quantity"`
	MaxQuantity  int32         `json:"max_quantity"`
	SellerID     string        `json:"seller_id"`
	SellerName   string        `json:"seller_name"`
	InStock      bool          `json:"in_stock"`

	// PendingPrice is the backend price when it differs from UnitPrice and
	// the cart is configured to flag price changes instead of applying them.
	PendingPrice *int64 `json:"pending_price,omitempty"`
}

func (i CartItem) LineTotal() int64 {
	return i.UnitPrice * int64(i.Quantity)
}

// SameLine reports whether o describes the same product from the same seller.
func (i CartItem) SameLine(o CartItem) bool {
	return i.ProductID == o.ProductID && i.SellerID == o.SellerID
}

// Valid checks the line invariants: 0 < Quantity <= MaxQuantity, non-negative price.
func (i CartItem) Valid() bool {
	return i.ID != "" &&
		i.ProductID != "" &&
		i.UnitPrice >= 0 &&
		i.MaxQuantity > 0 &&
		i.Quantity > 0 &&
		i.Quantity <= i.MaxQuantity
}

type DiscountKind string

const (
	DiscountFixed   DiscountKind = "fixed"
	DiscountPercent DiscountKind = "percent"
)

type Discount struct {
	Code  string       `json:"code"`
	Kind  DiscountKind `json:"kind"`
	Value int64        `json:"value"`
}

// AmountFor returns the discount for a given subtotal.
func (d Discount) AmountFor(subtotal int64) int64 {
	switch d.Kind {
	case DiscountPercent:
		pct := min(max(d.Value, 0), 100)
		return subtotal * pct / 100
	default:
		return max(d.Value, 0)
	}
}

type ShippingPolicy struct {
	Fee int64
	// FreeFrom waives the fee once the subtotal reaches it. Zero disables.
	FreeFrom int64
}

func (p ShippingPolicy) For(subtotal int64, lines int) int64 {
	if lines == 0 {
		return 0
	}
	if p.FreeFrom > 0 && subtotal >= p.FreeFrom {
		return 0
	}
	return p.Fee
}

type Cart struct {
	Items    []CartItem `json:"items"`
	Currency string     `json:"currency"`

	SubtotalAmount int64 `json:"subtotal_amount"`
	ShippingAmount int64 `json:"shipping_amount"`
	DiscountAmount int64 `json:"discount_amount"`
	TotalAmount    int64 `json:"total_amount"`

	AppliedDiscount *Discount `json:"applied_discount,omitempty"`

	Revision  int64     `json:"revision"`
	UpdatedAt time.Time `json:"updated_at"`
}

func NewCart(currency string) Cart {
	return Cart{Items: []CartItem{}, Currency: currency}
}

// Recalculate derives every amount from the items, the shipping policy and
// the applied discount. It is the only place totals are written.
func (c *Cart) Recalculate(shipping ShippingPolicy) {
	var subtotal int64
	for _, it := range c.Items {
		subtotal += it.LineTotal()
	}

	var discount int64
	if c.AppliedDiscount != nil {
		discount = c.AppliedDiscount.AmountFor(subtotal)
	}

	c.SubtotalAmount = subtotal
	c.DiscountAmount = discount
	c.ShippingAmount = shipping.For(subtotal, len(c.Items))
	c.TotalAmount = max(subtotal-discount+c.ShippingAmount, 0)
}

func (c Cart) DiscountCode() string {
	if c.AppliedDiscount == nil {
		return ""
	}
	return c.AppliedDiscount.Code
}

func (c Cart) IndexOf(itemID string) int {
	for i, it := range c.Items {
		if it.ID == itemID {
			return i
		}
	}
	return -1
}

func (c Cart) OutOfStockCount() int {
	n := 0
	for _, it := range c.Items {
		if !it.InStock {
			n++
		}
	}
	return n
}

func (c Cart) HasOutOfStock() bool {
	return c.OutOfStockCount() > 0
}

// ProductIDs returns the distinct product ids in display order.
func (c Cart) ProductIDs() []string {
	seen := make(map[string]struct{}, len(c.Items))
	ids := make([]string, 0, len(c.Items))
	for _, it := range c.Items {
		if _, ok := seen[it.ProductID]; ok {
			continue
		}
		seen[it.ProductID] = struct{}{}
		ids = append(ids, it.ProductID)
	}
	return ids
}

func (c Cart) Contains(productID string) bool {
	for _, it := range c.Items {
		if it.ProductID == productID {
			return true
		}
	}
	return false
}

// Clone returns a deep copy safe to hand outside the store.
func (c Cart) Clone() Cart {
	out := c
	out.Items = make([]CartItem, len(c.Items))
	for i, it := range c.Items {
		if it.PendingPrice != nil {
			p := *it.PendingPrice
			it.PendingPrice = &p
		}
		out.Items[i] = it
	}
	if c.AppliedDiscount != nil {
		d := *c.AppliedDiscount
		out.AppliedDiscount = &d
	}
	return out
}
