package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/dwikikusuma/videoshop-cart/internal/catalog/domain"
	"golang.org/x/sync/errgroup"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("not found")
)

const (
	maxStockCheckIDs   = 200
	stockCheckChunk    = 50
	defaultMaxPerOrder = 10
)

type Service struct {
	repo   ProductRepo
	events StockEvents
	log    *slog.Logger

	maxConcurrent int
}

type Option func(*Service)

func WithEvents(ev StockEvents) Option {
	return func(s *Service) {
		if ev != nil {
			s.events = ev
		}
	}
}

func WithLogger(log *slog.Logger) Option {
	return func(s *Service) {
		if log != nil {
			s.log = log
		}
	}
}

func WithMaxConcurrent(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.maxConcurrent = n
		}
	}
}

func NewService(repo ProductRepo, opts ...Option) *Service {
	s := &Service{
		repo:          repo,
		events:        noopEvents{},
		log:           slog.Default(),
		maxConcurrent: 4,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

type CreateProductInput struct {
	NameEN       string
	NameKO       string
	Description  string
	Currency     string
	Amount       int64
	ThumbnailURL string
	SellerID     string
	SellerName   string
	Stock        int32
	MaxPerOrder  int32
}

func (s *Service) CreateProduct(ctx context.Context, in CreateProductInput) (domain.Product, error) {
	name := strings.TrimSpace(in.NameEN)
	currency := strings.TrimSpace(in.Currency)

	if name == "" || currency == "" || in.Amount <= 0 || in.Stock < 0 || in.MaxPerOrder < 0 {
		return domain.Product{}, ErrInvalidInput
	}

	maxPerOrder := in.MaxPerOrder
	if maxPerOrder == 0 {
		maxPerOrder = defaultMaxPerOrder
	}

	p := domain.Product{
		Name: domain.LocalizedName{
			EN: name,
			KO: strings.TrimSpace(in.NameKO),
		},
		Description: in.Description,
		Price: domain.Money{
			Currency: currency,
			Amount:   in.Amount,
		},
		ThumbnailURL: in.ThumbnailURL,
		SellerID:     strings.TrimSpace(in.SellerID),
		SellerName:   in.SellerName,
		Stock:        in.Stock,
		MaxPerOrder:  maxPerOrder,
	}

	product, err := s.repo.Create(ctx, p)
	if err != nil {
		return domain.Product{}, err
	}

	return product, nil
}

func (s *Service) GetProduct(ctx context.Context, id string) (domain.Product, error) {
	if strings.TrimSpace(id) == "" {
		return domain.Product{}, ErrInvalidInput
	}
	return s.repo.Get(ctx, id)
}

func (s *Service) ListProducts(ctx context.Context, query string, limit int, cursor string) ([]domain.Product, string, error) {
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	return s.repo.List(ctx, query, limit, cursor)
}

// CheckStock returns one status per distinct requested id, in request order.
// Unknown and discontinued products are reported as discontinued.
func (s *Service) CheckStock(ctx context.Context, ids []string) ([]domain.StockStatus, error) {
	ids = dedupe(ids)
	if len(ids) == 0 || len(ids) > maxStockCheckIDs {
		return nil, fmt.Errorf("%w: between 1 and %d product ids required, got %d", ErrInvalidInput, maxStockCheckIDs, len(ids))
	}

	var (
		mu    sync.Mutex
		found = make(map[string]domain.Product, len(ids))
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.maxConcurrent)

	for start := 0; start < len(ids); start += stockCheckChunk {
		end := min(start+stockCheckChunk, len(ids))
		chunk := ids[start:end]
		g.Go(func() error {
			products, err := s.repo.GetMany(gctx, chunk)
			if err != nil {
				return fmt.Errorf("failed to load products %d..%d: %w", start, end, err)
			}
			mu.Lock()
			for _, p := range products {
				found[p.ID] = p
			}
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := make([]domain.StockStatus, 0, len(ids))
	for _, id := range ids {
		p, ok := found[id]
		if !ok || p.Discontinued {
			out = append(out, domain.StockStatus{ProductID: id, Discontinued: true})
			continue
		}
		price := p.Price.Amount
		out = append(out, domain.StockStatus{
			ProductID: id,
			Available: p.Available(),
			Price:     &price,
		})
	}
	return out, nil
}

func (s *Service) UpdateStock(ctx context.Context, id string, stock int32) (domain.Product, error) {
	if strings.TrimSpace(id) == "" || stock < 0 {
		return domain.Product{}, ErrInvalidInput
	}

	p, err := s.repo.UpdateStock(ctx, id, stock)
	if err != nil {
		return domain.Product{}, err
	}
	s.publish(ctx, p)
	return p, nil
}

func (s *Service) UpdatePrice(ctx context.Context, id string, amount int64) (domain.Product, error) {
	if strings.TrimSpace(id) == "" || amount <= 0 {
		return domain.Product{}, ErrInvalidInput
	}

	p, err := s.repo.UpdatePrice(ctx, id, amount)
	if err != nil {
		return domain.Product{}, err
	}
	s.publish(ctx, p)
	return p, nil
}

// publish is best effort: the change is already committed and carts also
// pick it up on their next scheduled reconciliation.
func (s *Service) publish(ctx context.Context, p domain.Product) {
	ev := domain.StockChanged{
		ProductID:  p.ID,
		Available:  p.Available(),
		Price:      p.Price.Amount,
		OccurredAt: time.Now().UTC(),
	}
	if err := s.events.PublishStockChanged(ctx, ev); err != nil {
		s.log.Warn("stock event publish failed", slog.String("product_id", p.ID), slog.Any("err", err))
	}
}

func dedupe(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
