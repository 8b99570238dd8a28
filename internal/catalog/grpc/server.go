package grpc

import (
	"context"
	"errors"

	catalogv1 "github.com/dwikikusuma/videoshop-cart/api/catalog/v1"
	"github.com/dwikikusuma/videoshop-cart/internal/catalog/app"
	"github.com/dwikikusuma/videoshop-cart/internal/catalog/domain"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type Server struct {
	catalogv1.UnimplementedCatalogServiceServer
	svc *app.Service
}

func NewServer(svc *app.Service) *Server {
	return &Server{svc: svc}
}

func (s *Server) CreateProduct(ctx context.Context, req *catalogv1.CreateProductRequest) (*catalogv1.CreateProductResponse, error) {
	if req == nil || req.Price == nil {
		return nil, status.Error(codes.InvalidArgument, "missing body/price")
	}
	product, err := s.svc.CreateProduct(ctx, app.CreateProductInput{
		NameEN:       req.NameEN,
		NameKO:       req.NameKO,
		Description:  req.Description,
		Currency:     req.Price.Currency,
		Amount:       req.Price.Amount,
		ThumbnailURL: req.ThumbnailURL,
		SellerID:     req.SellerID,
		SellerName:   req.SellerName,
		Stock:        req.Stock,
		MaxPerOrder:  req.MaxPerOrder,
	})
	if err != nil {
		return nil, mapErr(err)
	}
	return &catalogv1.CreateProductResponse{
		Product: toProto(product),
	}, nil
}

func (s *Server) GetProduct(ctx context.Context, req *catalogv1.GetProductRequest) (*catalogv1.GetProductResponse, error) {
	p, err := s.svc.GetProduct(ctx, req.GetID())
	if err != nil {
		return nil, mapErr(err)
	}
	return &catalogv1.GetProductResponse{Product: toProto(p)}, nil
}

func (s *Server) ListProducts(ctx context.Context, req *catalogv1.ListProductsRequest) (*catalogv1.ListProductsResponse, error) {
	products, next, err := s.svc.ListProducts(ctx, req.Query, int(req.Limit), req.Cursor)
	if err != nil {
		return nil, mapErr(err)
	}

	out := make([]*catalogv1.Product, 0, len(products))
	for _, p := range products {
		out = append(out, toProto(p))
	}

	return &catalogv1.ListProductsResponse{Products: out, NextCursor: next}, nil
}

func (s *Server) CheckStock(ctx context.Context, req *catalogv1.CheckStockRequest) (*catalogv1.CheckStockResponse, error) {
	statuses, err := s.svc.CheckStock(ctx, req.ProductIDs)
	if err != nil {
		return nil, mapErr(err)
	}

	items := make([]*catalogv1.StockStatus, 0, len(statuses))
	for _, st := range statuses {
		items = append(items, &catalogv1.StockStatus{
			ProductID:    st.ProductID,
			Available:    st.Available,
			Price:        st.Price,
			Discontinued: st.Discontinued,
		})
	}
	return &catalogv1.CheckStockResponse{Items: items}, nil
}

func (s *Server) UpdateStock(ctx context.Context, req *catalogv1.UpdateStockRequest) (*catalogv1.UpdateProductResponse, error) {
	p, err := s.svc.UpdateStock(ctx, req.ProductID, req.Stock)
	if err != nil {
		return nil, mapErr(err)
	}
	return &catalogv1.UpdateProductResponse{Product: toProto(p)}, nil
}

func (s *Server) UpdatePrice(ctx context.Context, req *catalogv1.UpdatePriceRequest) (*catalogv1.UpdateProductResponse, error) {
	p, err := s.svc.UpdatePrice(ctx, req.ProductID, req.Amount)
	if err != nil {
		return nil, mapErr(err)
	}
	return &catalogv1.UpdateProductResponse{Product: toProto(p)}, nil
}

func toProto(p domain.Product) *catalogv1.Product {
	return &catalogv1.Product{
		ID:          p.ID,
		NameEN:      p.Name.EN,
		NameKO:      p.Name.KO,
		Description: p.Description,
		Price: &catalogv1.Money{
			Currency: p.Price.Currency,
			Amount:   p.Price.Amount,
		},
		ThumbnailURL:  p.ThumbnailURL,
		SellerID:      p.SellerID,
		SellerName:    p.SellerName,
		Stock:         p.Stock,
		MaxPerOrder:   p.MaxPerOrder,
		Discontinued:  p.Discontinued,
		CreatedAtUnix: p.CreatedAt.Unix(),
		UpdatedAtUnix: p.UpdatedAt.Unix(),
	}
}

func mapErr(err error) error {
	if errors.Is(err, app.ErrInvalidInput) {
		return status.Error(codes.InvalidArgument, err.Error())
	}
	if errors.Is(err, app.ErrNotFound) {
		return status.Error(codes.NotFound, err.Error())
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return status.Error(codes.DeadlineExceeded, err.Error())
	}
	return status.Error(codes.Internal, "internal error")
}
