// Package catalogv1 declares the catalog.v1.CatalogService wire contract.
// Messages travel as JSON (see pkg/grpcjson).
package catalogv1

type Money struct {
	Currency string `json:"currency"`
	Amount   int64  `json:"amount"`
}

type Product struct {
	ID            string `json:"id"`
	NameEN        string `json:"name_en"`
	NameKO        string `json:"name_ko"`
	Description   string `json:"description"`
	Price         *Money `json:"price"`
	ThumbnailURL  string `json:"thumbnail_url"`
	SellerID      string `json:"seller_id"`
	SellerName    string `json:"seller_name"`
	Stock         int32  `json:"stock"`
	MaxPerOrder   int32  `json:"max_per_order"`
	Discontinued  bool   `json:"discontinued"`
	CreatedAtUnix int64  `json:"created_at_unix"`
	UpdatedAtUnix int64  `json:"updated_at_unix"`
}

type CreateProductRequest struct {
	NameEN       string `json:"name_en"`
	NameKO       string `json:"name_ko"`
	Description  string `json:"description"`
	Price        *Money `json:"price"`
	ThumbnailURL string `json:"thumbnail_url"`
	SellerID     string `json:"seller_id"`
	SellerName   string `json:"seller_name"`
	Stock        int32  `json:"stock"`
	MaxPerOrder  int32  `json:"max_per_order"`
}

type CreateProductResponse struct {
	Product *Product `json:"product"`
}

type GetProductRequest struct {
	ID string `json:"id"`
}

func (r *GetProductRequest) GetID() string {
	if r == nil {
		return ""
	}
	return r.ID
}

type GetProductResponse struct {
	Product *Product `json:"product"`
}

type ListProductsRequest struct {
	Query  string `json:"query"`
	Limit  int32  `json:"limit"`
	Cursor string `json:"cursor"`
}

type ListProductsResponse struct {
	Products   []*Product `json:"products"`
	NextCursor string     `json:"next_cursor"`
}

// MaxCheckStockIDs bounds the distinct product ids in one CheckStockRequest.
// The catalog service rejects larger requests.
const MaxCheckStockIDs = 200

type CheckStockRequest struct {
	ProductIDs []string `json:"product_ids"`
}

type StockStatus struct {
	ProductID    string `json:"product_id"`
	Available    bool   `json:"available"`
	Price        *int64 `json:"price,omitempty"`
	Discontinued bool   `json:"discontinued"`
}

type CheckStockResponse struct {
	Items []*StockStatus `json:"items"`
}

type UpdateStockRequest struct {
	ProductID string `json:"product_id"`
	Stock     int32  `json:"stock"`
}

type UpdatePriceRequest struct {
	ProductID string `json:"product_id"`
	Amount    int64  `json:"amount"`
}

type UpdateProductResponse struct {
	Product *Product `json:"product"`
}
