package app

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"

	"github.com/dwikikusuma/videoshop-cart/internal/cart/domain"
	"github.com/dwikikusuma/videoshop-cart/pkg/logger"
)

type memStorage struct {
	mu      sync.Mutex
	data    map[string][]byte
	saves   int
	saveErr error
	loadErr error
}

func newMemStorage() *memStorage {
	return &memStorage{data: map[string][]byte{}}
}

func (m *memStorage) Load(ctx context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	v, ok := m.data[key]
	if !ok {
		return nil, ErrStateNotFound
	}
	return append([]byte(nil), v...), nil
}

func (m *memStorage) Save(ctx context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saves++
	if m.saveErr != nil {
		return m.saveErr
	}
	m.data[key] = append([]byte(nil), value...)
	return nil
}

func (m *memStorage) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

func (m *memStorage) Keys(ctx context.Context, prefix string) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var keys []string
	for k := range m.data {
		if strings.HasPrefix(k, prefix) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys, nil
}

func (m *memStorage) saveCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saves
}

// fakeStock answers from a fixed table unless fn is set.
type fakeStock struct {
	mu       sync.Mutex
	statuses map[string]StockStatus
	err      error
	fn       func(ctx context.Context, ids []string) ([]StockStatus, error)
	calls    int
	called   chan struct{}
}

func newFakeStock() *fakeStock {
	return &fakeStock{statuses: map[string]StockStatus{}, called: make(chan struct{}, 64)}
}

func (f *fakeStock) set(productID string, available bool, price int64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p := price
	f.statuses[productID] = StockStatus{ProductID: productID, Available: available, Price: &p}
}

func (f *fakeStock) discontinue(productID string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.statuses[productID] = StockStatus{ProductID: productID, Discontinued: true}
}

func (f *fakeStock) setErr(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.err = err
}

func (f *fakeStock) CheckStock(ctx context.Context, ids []string) ([]StockStatus, error) {
	f.mu.Lock()
	f.calls++
	fn := f.fn
	err := f.err
	var out []StockStatus
	for _, id := range ids {
		if st, ok := f.statuses[id]; ok {
			out = append(out, st)
		}
	}
	f.mu.Unlock()

	select {
	case f.called <- struct{}{}:
	default:
	}

	if fn != nil {
		return fn(ctx, ids)
	}
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (f *fakeStock) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

type fakeRules map[string]domain.Discount

func (r fakeRules) Lookup(ctx context.Context, code string) (domain.Discount, error) {
	d, ok := r[code]
	if !ok {
		return domain.Discount{}, ErrInvalidDiscountCode
	}
	return d, nil
}

var errBackendDown = errors.New("backend down")

func testConfig() StoreConfig {
	return StoreConfig{
		Key:                "cart:test",
		Currency:           "KRW",
		Shipping:           domain.ShippingPolicy{Fee: 10},
		DefaultMaxQuantity: 5,
		PriceChangePolicy:  PriceFlagOnly,
	}
}

func newTestStore(storage StateStorage, stock StockChecker, cfg StoreConfig) *Store {
	return NewStore(cfg, Deps{
		Storage: storage,
		Stock:   stock,
		Rules: fakeRules{
			"SAVE20": {Kind: domain.DiscountFixed, Value: 20},
			"TEN":    {Kind: domain.DiscountPercent, Value: 10},
		},
		Logger: logger.Discard(),
	})
}

func item(productID string, price int64, qty int32) domain.CartItem {
	return domain.CartItem{
		ProductID:  productID,
		Name:       domain.LocalizedName{EN: "Product " + productID},
		UnitPrice:  price,
		Quantity:   qty,
		SellerID:   "seller-1",
		SellerName: "Seller One",
	}
}
