package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dwikikusuma/videoshop-cart/internal/cart/domain"
	"github.com/google/uuid"
)

type PriceChangePolicy string

const (
	PriceAutoApply PriceChangePolicy = "auto-apply"
	PriceFlagOnly  PriceChangePolicy = "flag-only"
)

func ParsePriceChangePolicy(s string) (PriceChangePolicy, error) {
	switch p := PriceChangePolicy(strings.ToLower(strings.TrimSpace(s))); p {
	case PriceAutoApply, PriceFlagOnly:
		return p, nil
	default:
		return "", fmt.Errorf("%w: unknown price change policy %q", ErrValidation, s)
	}
}

type StoreConfig struct {
	// Key addresses the cart in StateStorage.
	Key                string
	Currency           string
	Shipping           domain.ShippingPolicy
	DefaultMaxQuantity int32
	PriceChangePolicy  PriceChangePolicy
	// SyncTimeout bounds a single backend stock call. Zero means no bound.
	SyncTimeout time.Duration
}

type Deps struct {
	Storage StateStorage
	Stock   StockChecker
	Rules   DiscountRules
	Logger  *slog.Logger
	Metrics *Metrics
}

// Store holds one shopper's cart. Every mutation recalculates totals,
// persists the cart and notifies subscribers.
type Store struct {
	cfg     StoreConfig
	storage StateStorage
	stock   StockChecker
	rules   DiscountRules
	log     *slog.Logger
	metrics *Metrics

	now   func() time.Time
	newID func() string

	mu      sync.Mutex
	cart    domain.Cart
	subs    map[int]func(domain.Cart)
	nextSub int

	syncing atomic.Bool
}

func NewStore(cfg StoreConfig, deps Deps) *Store {
	if cfg.DefaultMaxQuantity <= 0 {
		cfg.DefaultMaxQuantity = 10
	}
	if cfg.PriceChangePolicy == "" {
		cfg.PriceChangePolicy = PriceFlagOnly
	}
	log := deps.Logger
	if log == nil {
		log = slog.Default()
	}

	return &Store{
		cfg:     cfg,
		storage: deps.Storage,
		stock:   deps.Stock,
		rules:   deps.Rules,
		log:     log.With(slog.String("cart", cfg.Key)),
		metrics: deps.Metrics,
		now:     time.Now,
		newID:   uuid.NewString,
		cart:    domain.NewCart(cfg.Currency),
		subs:    make(map[int]func(domain.Cart)),
	}
}

func (s *Store) Snapshot() domain.Cart {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cart.Clone()
}

func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.cart.Items)
}

func (s *Store) HasOutOfStock() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cart.HasOutOfStock()
}

func (s *Store) OutOfStockCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cart.OutOfStockCount()
}

// Subscribe registers fn to receive a snapshot after every change. fn runs
// on the mutating goroutine and must not call back into the store's mutators.
func (s *Store) Subscribe(fn func(domain.Cart)) (unsubscribe func()) {
	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}

func (s *Store) AddItem(ctx context.Context, item domain.CartItem) (domain.Cart, error) {
	item.ProductID = strings.TrimSpace(item.ProductID)
	if item.ProductID == "" {
		return s.Snapshot(), fmt.Errorf("%w: product id is required", ErrValidation)
	}
	if item.UnitPrice < 0 {
		return s.Snapshot(), fmt.Errorf("%w: unit price cannot be negative, got %d", ErrValidation, item.UnitPrice)
	}
	if item.Quantity < 1 {
		return s.Snapshot(), fmt.Errorf("%w: quantity must be positive, got %d", ErrValidation, item.Quantity)
	}
	if item.MaxQuantity <= 0 {
		item.MaxQuantity = s.cfg.DefaultMaxQuantity
	}

	return s.mutate(ctx, "add_item", func(c *domain.Cart) error {
		for i := range c.Items {
			existing := &c.Items[i]
			if !existing.SameLine(item) {
				continue
			}
			existing.Quantity = min(existing.Quantity+item.Quantity, existing.MaxQuantity)
			return nil
		}

		item.ID = s.newID()
		item.Quantity = min(item.Quantity, item.MaxQuantity)
		item.InStock = true
		item.PendingPrice = nil
		c.Items = append(c.Items, item)
		return nil
	})
}

func (s *Store) RemoveItem(ctx context.Context, itemID string) (domain.Cart, error) {
	return s.mutate(ctx, "remove_item", func(c *domain.Cart) error {
		idx := c.IndexOf(itemID)
		if idx < 0 {
			return fmt.Errorf("%w: cart item %q", ErrNotFound, itemID)
		}
		c.Items = append(c.Items[:idx], c.Items[idx+1:]...)
		return nil
	})
}

func (s *Store) UpdateQuantity(ctx context.Context, itemID string, quantity int32) (domain.Cart, error) {
	return s.mutate(ctx, "update_quantity", func(c *domain.Cart) error {
		idx := c.IndexOf(itemID)
		if idx < 0 {
			return fmt.Errorf("%w: cart item %q", ErrNotFound, itemID)
		}
		it := &c.Items[idx]
		if quantity < 1 || quantity > it.MaxQuantity {
			return fmt.Errorf("%w: quantity must be between 1 and %d, got %d", ErrValidation, it.MaxQuantity, quantity)
		}
		it.Quantity = quantity
		return nil
	})
}

func (s *Store) Clear(ctx context.Context) domain.Cart {
	c, _ := s.mutate(ctx, "clear", func(c *domain.Cart) error {
		c.Items = []domain.CartItem{}
		c.AppliedDiscount = nil
		return nil
	})
	return c
}

var discountCodePattern = regexp.MustCompile(`^[A-Za-z0-9_-]{1,32}$`)

func (s *Store) ApplyDiscountCode(ctx context.Context, code string) (domain.Cart, error) {
	code = strings.TrimSpace(code)
	if !discountCodePattern.MatchString(code) {
		return s.Snapshot(), fmt.Errorf("%w: malformed discount code", ErrValidation)
	}
	code = strings.ToUpper(code)

	if s.rules == nil {
		return s.Snapshot(), ErrInvalidDiscountCode
	}
	d, err := s.rules.Lookup(ctx, code)
	if err != nil {
		if errors.Is(err, ErrInvalidDiscountCode) {
			return s.Snapshot(), err
		}
		return s.Snapshot(), fmt.Errorf("discount lookup: %w", err)
	}
	d.Code = code

	return s.mutate(ctx, "apply_discount", func(c *domain.Cart) error {
		c.AppliedDiscount = &d
		return nil
	})
}

func (s *Store) RemoveDiscountCode(ctx context.Context) domain.Cart {
	c, _ := s.mutate(ctx, "remove_discount", func(c *domain.Cart) error {
		c.AppliedDiscount = nil
		return nil
	})
	return c
}

// AcceptPriceChanges moves every flagged backend price into UnitPrice.
func (s *Store) AcceptPriceChanges(ctx context.Context) domain.Cart {
	c, _ := s.mutate(ctx, "accept_prices", func(c *domain.Cart) error {
		for i := range c.Items {
			it := &c.Items[i]
			if it.PendingPrice == nil {
				continue
			}
			it.UnitPrice = *it.PendingPrice
			it.PendingPrice = nil
		}
		return nil
	})
	return c
}

// mutate applies fn to a copy of the cart and commits it only when fn succeeds.
func (s *Store) mutate(ctx context.Context, op string, fn func(c *domain.Cart) error) (domain.Cart, error) {
	s.mu.Lock()
	next := s.cart.Clone()
	if err := fn(&next); err != nil {
		snap := s.cart.Clone()
		s.mu.Unlock()
		return snap, err
	}
	snap, subs := s.commitLocked(ctx, op, next)
	s.mu.Unlock()

	notify(subs, snap)
	return snap, nil
}

func (s *Store) commitLocked(ctx context.Context, op string, next domain.Cart) (domain.Cart, []func(domain.Cart)) {
	next.Currency = s.cfg.Currency
	next.Recalculate(s.cfg.Shipping)
	next.Revision = s.cart.Revision + 1
	next.UpdatedAt = s.now().UTC()
	s.cart = next

	s.persistLocked(ctx, op)

	subs := make([]func(domain.Cart), 0, len(s.subs))
	for _, fn := range s.subs {
		subs = append(subs, fn)
	}
	return s.cart.Clone(), subs
}

// persistLocked writes the cart. Failures are logged and absorbed so a
// storage outage never blocks shopping.
func (s *Store) persistLocked(ctx context.Context, op string) {
	if s.storage == nil {
		return
	}
	data, err := encodeCart(s.cart)
	if err != nil {
		s.log.Error("cart encode failed", slog.String("op", op), slog.Any("err", err))
		return
	}
	if err := s.storage.Save(context.WithoutCancel(ctx), s.cfg.Key, data); err != nil {
		s.log.Warn("cart persist failed", slog.String("op", op), slog.Any("err", err))
	}
}

func notify(subs []func(domain.Cart), snap domain.Cart) {
	for _, fn := range subs {
		fn(snap.Clone())
	}
}

// Load restores the persisted cart. Missing state yields an empty cart;
// unreadable or corrupt state is logged, reset to empty and never returned
// as an error.
func (s *Store) Load(ctx context.Context) domain.Cart {
	restored := domain.NewCart(s.cfg.Currency)
	reset := false

	if s.storage != nil {
		data, err := s.storage.Load(ctx, s.cfg.Key)
		switch {
		case errors.Is(err, ErrStateNotFound):
		case err != nil:
			s.log.Warn("cart storage read failed, starting empty", slog.Any("err", err))
		default:
			c, derr := decodeCart(data, s.cfg.Currency)
			if derr != nil {
				s.log.Warn("discarding stored cart", slog.Any("err", derr))
				reset = true
			} else {
				restored = c
			}
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	restored.Currency = s.cfg.Currency
	restored.Recalculate(s.cfg.Shipping)
	s.cart = restored
	if reset {
		s.persistLocked(ctx, "reset_corrupt")
	}
	return s.cart.Clone()
}

const stateVersion = 1

type persistedCart struct {
	Version int         `json:"version"`
	Cart    domain.Cart `json:"cart"`
}

func encodeCart(c domain.Cart) ([]byte, error) {
	return json.Marshal(persistedCart{Version: stateVersion, Cart: c})
}

func decodeCart(data []byte, currency string) (domain.Cart, error) {
	var p persistedCart
	if err := json.Unmarshal(data, &p); err != nil {
		return domain.Cart{}, fmt.Errorf("%w: %v", ErrStorageCorrupt, err)
	}
	if p.Version != stateVersion {
		return domain.Cart{}, fmt.Errorf("%w: unsupported version %d", ErrStorageCorrupt, p.Version)
	}

	c := p.Cart
	if c.Currency != "" && c.Currency != currency {
		return domain.Cart{}, fmt.Errorf("%w: currency %q, want %q", ErrStorageCorrupt, c.Currency, currency)
	}
	if c.Items == nil {
		c.Items = []domain.CartItem{}
	}

	ids := make(map[string]struct{}, len(c.Items))
	for i, it := range c.Items {
		if !it.Valid() {
			return domain.Cart{}, fmt.Errorf("%w: item %d violates line invariants", ErrStorageCorrupt, i)
		}
		if _, dup := ids[it.ID]; dup {
			return domain.Cart{}, fmt.Errorf("%w: duplicate item id %q", ErrStorageCorrupt, it.ID)
		}
		ids[it.ID] = struct{}{}
	}
	return c, nil
}
