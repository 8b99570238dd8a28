package adapter

import (
	"context"
	"fmt"

	catalogv1 "github.com/dwikikusuma/videoshop-cart/api/catalog/v1"
	"github.com/dwikikusuma/videoshop-cart/internal/cart/app"
	"github.com/dwikikusuma/videoshop-cart/internal/cart/domain"
	"github.com/dwikikusuma/videoshop-cart/pkg/grpcjson"
	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
)

const maxConcurrentBatches = 4

// CatalogClient reads products and stock from the catalog service over gRPC.
type CatalogClient struct {
	c catalogv1.CatalogServiceClient
}

func NewCatalogClient(c catalogv1.CatalogServiceClient) *CatalogClient {
	return &CatalogClient{c: c}
}

// DialCatalog opens a client connection to the catalog service at addr.
func DialCatalog(addr string) (*grpc.ClientConn, error) {
	conn, err := grpc.NewClient(addr,
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithDefaultCallOptions(grpcjson.CallOption()),
	)
	if err != nil {
		return nil, fmt.Errorf("dial catalog %s: %w", addr, err)
	}
	return conn, nil
}

// CheckStock asks the catalog in batches of at most MaxCheckStockIDs ids and
// merges the answers in request order.
func (r *CatalogClient) CheckStock(ctx context.Context, productIDs []string) ([]app.StockStatus, error) {
	if len(productIDs) <= catalogv1.MaxCheckStockIDs {
		return r.checkStock(ctx, productIDs)
	}

	batches := make([][]app.StockStatus, (len(productIDs)+catalogv1.MaxCheckStockIDs-1)/catalogv1.MaxCheckStockIDs)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentBatches)
	for i := range batches {
		start := i * catalogv1.MaxCheckStockIDs
		ids := productIDs[start:min(start+catalogv1.MaxCheckStockIDs, len(productIDs))]
		g.Go(func() error {
			out, err := r.checkStock(gctx, ids)
			batches[i] = out
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := make([]app.StockStatus, 0, len(productIDs))
	for _, b := range batches {
		out = append(out, b...)
	}
	return out, nil
}

func (r *CatalogClient) checkStock(ctx context.Context, productIDs []string) ([]app.StockStatus, error) {
	resp, err := r.c.CheckStock(ctx, &catalogv1.CheckStockRequest{ProductIDs: productIDs})
	if err != nil {
		return nil, fmt.Errorf("catalog check stock: %w", err)
	}

	out := make([]app.StockStatus, 0, len(resp.Items))
	for _, it := range resp.Items {
		if it == nil {
			continue
		}
		out = append(out, app.StockStatus{
			ProductID:    it.ProductID,
			Available:    it.Available,
			Price:        it.Price,
			Discontinued: it.Discontinued,
		})
	}
	return out, nil
}

func (r *CatalogClient) GetProduct(ctx context.Context, id string) (app.Product, error) {
	resp, err := r.c.GetProduct(ctx, &catalogv1.GetProductRequest{ID: id})
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return app.Product{}, fmt.Errorf("%w: product %q", app.ErrNotFound, id)
		}
		return app.Product{}, fmt.Errorf("catalog get product: %w", err)
	}
	if resp.Product == nil {
		return app.Product{}, fmt.Errorf("%w: product %q", app.ErrNotFound, id)
	}
	return fromProto(resp.Product), nil
}

func (r *CatalogClient) ListProducts(ctx context.Context, query string, limit int, cursor string) ([]app.Product, string, error) {
	resp, err := r.c.ListProducts(ctx, &catalogv1.ListProductsRequest{
		Query:  query,
		Limit:  int32(limit),
		Cursor: cursor,
	})
	if err != nil {
		return nil, "", fmt.Errorf("catalog list products: %w", err)
	}

	products := make([]app.Product, 0, len(resp.Products))
	for _, p := range resp.Products {
		if p != nil {
			products = append(products, fromProto(p))
		}
	}
	return products, resp.NextCursor, nil
}

func fromProto(p *catalogv1.Product) app.Product {
	out := app.Product{
		ID:           p.ID,
		Name:         domain.LocalizedName{EN: p.NameEN, KO: p.NameKO},
		Description:  p.Description,
		ThumbnailURL: p.ThumbnailURL,
		SellerID:     p.SellerID,
		SellerName:   p.SellerName,
		MaxPerOrder:  p.MaxPerOrder,
		Available:    !p.Discontinued && p.Stock > 0,
		Discontinued: p.Discontinued,
	}
	if p.Price != nil {
		out.Currency = p.Price.Currency
		out.Price = p.Price.Amount
	}
	return out
}
