package catalogdb

import (
	"context"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

const productColumns = `id, name_en, name_ko, description, price_amount, currency, thumbnail_url, seller_id, seller_name, stock, max_per_order, discontinued, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanProduct(row rowScanner) (Product, error) {
	var i Product
	err := row.Scan(
		&i.ID,
		&i.NameEn,
		&i.NameKo,
		&i.Description,
		&i.PriceAmount,
		&i.Currency,
		&i.ThumbnailUrl,
		&i.SellerID,
		&i.SellerName,
		&i.Stock,
		&i.MaxPerOrder,
		&i.Discontinued,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const createProduct = `-- name: CreateProduct :one
INSERT INTO products (name_en, name_ko, description, price_amount, currency, thumbnail_url, seller_id, seller_name, stock, max_per_order)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
RETURNING ` + productColumns

type CreateProductParams struct {
	NameEn       string
	NameKo       string
	Description  string
	PriceAmount  int64
	Currency     string
	ThumbnailUrl string
	SellerID     string
	SellerName   string
	Stock        int32
	MaxPerOrder  int32
}

func (q *Queries) CreateProduct(ctx context.Context, arg CreateProductParams) (Product, error) {
	row := q.db.QueryRowContext(ctx, createProduct,
		arg.NameEn,
		arg.NameKo,
		arg.Description,
		arg.PriceAmount,
		arg.Currency,
		arg.ThumbnailUrl,
		arg.SellerID,
		arg.SellerName,
		arg.Stock,
		arg.MaxPerOrder,
	)
	return scanProduct(row)
}

const getProduct = `-- name: GetProduct :one
SELECT ` + productColumns + ` FROM products WHERE id = $1`

func (q *Queries) GetProduct(ctx context.Context, id uuid.UUID) (Product, error) {
	row := q.db.QueryRowContext(ctx, getProduct, id)
	return scanProduct(row)
}

const getProductsByIDs = `-- name: GetProductsByIDs :many
SELECT ` + productColumns + ` FROM products WHERE id = ANY($1::uuid[])`

func (q *Queries) GetProductsByIDs(ctx context.Context, ids []string) ([]Product, error) {
	rows, err := q.db.QueryContext(ctx, getProductsByIDs, pq.Array(ids))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Product
	for rows.Next() {
		i, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const listProducts = `-- name: ListProducts :many
SELECT ` + productColumns + ` FROM products
WHERE ($1::text = '' OR name_en ILIKE '%' || $1 || '%' OR name_ko ILIKE '%' || $1 || '%')
  AND ($3::uuid IS NULL OR id > $3)
ORDER BY id
LIMIT $2`

type ListProductsParams struct {
	Query  string
	Limit  int32
	Cursor uuid.NullUUID
}

func (q *Queries) ListProducts(ctx context.Context, arg ListProductsParams) ([]Product, error) {
	rows, err := q.db.QueryContext(ctx, listProducts, arg.Query, arg.Limit, arg.Cursor)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Product
	for rows.Next() {
		i, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const updateStock = `-- name: UpdateStock :one
UPDATE products SET stock = $2, updated_at = now() WHERE id = $1
RETURNING ` + productColumns

type UpdateStockParams struct {
	ID    uuid.UUID
	Stock int32
}

func (q *Queries) UpdateStock(ctx context.Context, arg UpdateStockParams) (Product, error) {
	row := q.db.QueryRowContext(ctx, updateStock, arg.ID, arg.Stock)
	return scanProduct(row)
}

const updatePrice = `-- name: UpdatePrice :one
UPDATE products SET price_amount = $2, updated_at = now() WHERE id = $1
RETURNING ` + productColumns

type UpdatePriceParams struct {
	ID          uuid.UUID
	PriceAmount int64
}

func (q *Queries) UpdatePrice(ctx context.Context, arg UpdatePriceParams) (Product, error) {
	row := q.db.QueryRowContext(ctx, updatePrice, arg.ID, arg.PriceAmount)
	return scanProduct(row)
}
