package app

import (
	"context"

	"github.com/dwikikusuma/videoshop-cart/internal/cart/domain"
)

// StateStorage is durable key-value storage for serialized carts.
type StateStorage interface {
	Load(ctx context.Context, key string) ([]byte, error)
	Save(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Keys(ctx context.Context, prefix string) ([]string, error)
}

type StockStatus struct {
	ProductID    string
	Available    bool
	Price        *int64
	Discontinued bool
}

// StockChecker is the authoritative source of availability and price.
type StockChecker interface {
	CheckStock(ctx context.Context, productIDs []string) ([]StockStatus, error)
}

// DiscountRules resolves a normalised code. Unknown codes return ErrInvalidDiscountCode.
type DiscountRules interface {
	Lookup(ctx context.Context, code string) (domain.Discount, error)
}

// Product is the catalog's view of something a shopper can add to the cart.
type Product struct {
	ID           string
	Name         domain.LocalizedName
	Description  string
	ThumbnailURL string
	Currency     string
	Price        int64
	SellerID     string
	SellerName   string
	MaxPerOrder  int32
	Available    bool
	Discontinued bool
}

// Line builds the cart line for adding quantity units of p.
func (p Product) Line(quantity int32) domain.CartItem {
	return domain.CartItem{
		ProductID:    p.ID,
		Name:         p.Name,
		ThumbnailURL: p.ThumbnailURL,
		UnitPrice:    p.Price,
		Quantity:     quantity,
		MaxQuantity:  p.MaxPerOrder,
		SellerID:     p.SellerID,
		SellerName:   p.SellerName,
	}
}

// ProductReader looks up products. A missing product returns ErrNotFound.
type ProductReader interface {
	GetProduct(ctx context.Context, id string) (Product, error)
	ListProducts(ctx context.Context, query string, limit int, cursor string) ([]Product, string, error)
}
