package app

import (
	"context"

	"github.com/dwikikusuma/videoshop-cart/internal/catalog/domain"
)

type ProductRepo interface {
	Create(ctx context.Context, p domain.Product) (domain.Product, error)
	Get(ctx context.Context, id string) (domain.Product, error)
	List(ctx context.Context, query string, limit int, cursor string) ([]domain.Product, string, error)
	GetMany(ctx context.Context, ids []string) ([]domain.Product, error)
	UpdateStock(ctx context.Context, id string, stock int32) (domain.Product, error)
	UpdatePrice(ctx context.Context, id string, amount int64) (domain.Product, error)
}

// StockEvents receives stock and price changes after they are committed.
type StockEvents interface {
	PublishStockChanged(ctx context.Context, ev domain.StockChanged) error
}

type noopEvents struct{}

func (noopEvents) PublishStockChanged(context.Context, domain.StockChanged) error { return nil }
