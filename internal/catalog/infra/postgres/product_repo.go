package postgres

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/dwikikusuma/videoshop-cart/internal/catalog/app"
	"github.com/dwikikusuma/videoshop-cart/internal/catalog/domain"
	"github.com/dwikikusuma/videoshop-cart/internal/catalog/infra/postgres/catalogdb"
	"github.com/google/uuid"
)

type ProductRepo struct {
	q *catalogdb.Queries
}

func NewProductRepo(db *sql.DB) *ProductRepo {
	return &ProductRepo{q: catalogdb.New(db)}
}

func (r *ProductRepo) Create(ctx context.Context, p domain.Product) (domain.Product, error) {
	row, err := r.q.CreateProduct(ctx, catalogdb.CreateProductParams{
		NameEn:       p.Name.EN,
		NameKo:       p.Name.KO,
		Description:  p.Description,
		PriceAmount:  p.Price.Amount,
		Currency:     p.Price.Currency,
		ThumbnailUrl: p.ThumbnailURL,
		SellerID:     p.SellerID,
		SellerName:   p.SellerName,
		Stock:        p.Stock,
		MaxPerOrder:  p.MaxPerOrder,
	})
	if err != nil {
		return domain.Product{}, err
	}

	return toDomain(row), nil
}

func (r *ProductRepo) Get(ctx context.Context, id string) (domain.Product, error) {
	prodID, err := uuid.Parse(id)
	if err != nil {
		return domain.Product{}, app.ErrNotFound
	}

	product, err := r.q.GetProduct(ctx, prodID)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Product{}, app.ErrNotFound
	}
	if err != nil {
		return domain.Product{}, err
	}

	return toDomain(product), nil
}

// GetMany skips ids that are not valid UUIDs; callers treat them as unknown.
func (r *ProductRepo) GetMany(ctx context.Context, ids []string) ([]domain.Product, error) {
	valid := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, err := uuid.Parse(id); err == nil {
			valid = append(valid, id)
		}
	}
	if len(valid) == 0 {
		return nil, nil
	}

	rows, err := r.q.GetProductsByIDs(ctx, valid)
	if err != nil {
		return nil, err
	}

	out := make([]domain.Product, 0, len(rows))
	for _, row := range rows {
		out = append(out, toDomain(row))
	}
	return out, nil
}

func (r *ProductRepo) List(ctx context.Context, query string, limit int, cursor string) ([]domain.Product, string, error) {
	var cur uuid.NullUUID
	if strings.TrimSpace(cursor) != "" {
		uid, err := uuid.Parse(strings.TrimSpace(cursor))
		if err != nil {
			return nil, "", app.ErrInvalidInput
		}
		cur = uuid.NullUUID{UUID: uid, Valid: true}
	}

	rows, err := r.q.ListProducts(ctx, catalogdb.ListProductsParams{
		Query:  strings.TrimSpace(query),
		Limit:  int32(limit),
		Cursor: cur,
	})
	if err != nil {
		return nil, "", err
	}

	out := make([]domain.Product, 0, len(rows))
	var nextCursor string

	for _, row := range rows {
		out = append(out, toDomain(row))
		nextCursor = row.ID.String()
	}

	if len(out) < limit {
		nextCursor = ""
	}

	return out, nextCursor, nil
}

func (r *ProductRepo) UpdateStock(ctx context.Context, id string, stock int32) (domain.Product, error) {
	prodID, err := uuid.Parse(id)
	if err != nil {
		return domain.Product{}, app.ErrNotFound
	}

	row, err := r.q.UpdateStock(ctx, catalogdb.UpdateStockParams{ID: prodID, Stock: stock})
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Product{}, app.ErrNotFound
	}
	if err != nil {
		return domain.Product{}, err
	}
	return toDomain(row), nil
}

func (r *ProductRepo) UpdatePrice(ctx context.Context, id string, amount int64) (domain.Product, error) {
	prodID, err := uuid.Parse(id)
	if err != nil {
		return domain.Product{}, app.ErrNotFound
	}

	row, err := r.q.UpdatePrice(ctx, catalogdb.UpdatePriceParams{ID: prodID, PriceAmount: amount})
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Product{}, app.ErrNotFound
	}
	if err != nil {
		return domain.Product{}, err
	}
	return toDomain(row), nil
}

func toDomain(row catalogdb.Product) domain.Product {
	return domain.Product{
		ID:          row.ID.String(),
		Name:        domain.LocalizedName{EN: row.NameEn, KO: row.NameKo},
		Description: row.Description,
		Price: domain.Money{
			Amount:   row.PriceAmount,
			Currency: row.Currency,
		},
		ThumbnailURL: row.ThumbnailUrl,
		SellerID:     row.SellerID,
		SellerName:   row.SellerName,
		Stock:        row.Stock,
		MaxPerOrder:  row.MaxPerOrder,
		Discontinued: row.Discontinued,
		CreatedAt:    row.CreatedAt,
		UpdatedAt:    row.UpdatedAt,
	}
}
