package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/dwikikusuma/videoshop-cart/internal/cart/domain"
)

type SyncReport struct {
	// Skipped is set when another reconciliation was already running.
	Skipped bool
	// Discarded is set when the backend answered after the caller gave up.
	Discarded bool

	Checked          int
	MarkedOutOfStock int
	Restocked        int
	PriceUpdated     int
	PriceFlagged     int
	Removed          int

	// Err records a backend failure. The cart is left untouched when set.
	Err error
}

func (r SyncReport) Changed() bool {
	return r.MarkedOutOfStock+r.Restocked+r.PriceUpdated+r.PriceFlagged+r.Removed > 0
}

// SyncWithBackend reconciles the cart with the stock backend. Failures are
// reported in the SyncReport and logged; they never alter the cart.
func (s *Store) SyncWithBackend(ctx context.Context) SyncReport {
	return s.sync(ctx, nil)
}

// sync runs one reconciliation. apply, when set, is consulted under the store
// lock right before results are written; returning false discards them.
func (s *Store) sync(ctx context.Context, apply func() bool) SyncReport {
	if !s.syncing.CompareAndSwap(false, true) {
		s.metrics.syncResult("skipped")
		return SyncReport{Skipped: true}
	}
	defer s.syncing.Store(false)

	s.mu.Lock()
	ids := s.cart.ProductIDs()
	s.mu.Unlock()

	report := SyncReport{Checked: len(ids)}
	if len(ids) == 0 {
		return report
	}
	if s.stock == nil {
		report.Err = fmt.Errorf("%w: no stock checker configured", ErrBackendUnavailable)
		s.metrics.syncResult("failed")
		return report
	}

	callCtx := ctx
	if s.cfg.SyncTimeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, s.cfg.SyncTimeout)
		defer cancel()
	}

	statuses, err := s.stock.CheckStock(callCtx, ids)
	if err != nil {
		report.Err = fmt.Errorf("%w: %w", ErrBackendUnavailable, err)
		s.metrics.syncResult("failed")
		s.log.Warn("stock reconciliation failed", slog.Int("products", len(ids)), slog.Any("err", err))
		return report
	}

	byProduct := make(map[string]StockStatus, len(statuses))
	for _, st := range statuses {
		byProduct[st.ProductID] = st
	}

	s.mu.Lock()
	if apply != nil && !apply() {
		s.mu.Unlock()
		report.Discarded = true
		s.metrics.syncResult("discarded")
		return report
	}

	next := s.cart.Clone()
	changed := s.reconcileItems(&next, byProduct, &report)
	if !changed {
		s.mu.Unlock()
		s.metrics.syncResult("ok")
		return report
	}
	snap, subs := s.commitLocked(ctx, "sync", next)
	s.mu.Unlock()

	notify(subs, snap)
	s.metrics.syncResult("ok")
	s.metrics.report(report)
	s.log.Info("cart reconciled",
		slog.Int("out_of_stock", report.MarkedOutOfStock),
		slog.Int("restocked", report.Restocked),
		slog.Int("price_updated", report.PriceUpdated),
		slog.Int("price_flagged", report.PriceFlagged),
		slog.Int("removed", report.Removed),
	)
	return report
}

// reconcileItems applies backend truth to c. Products missing from the
// response are left as they are.
func (s *Store) reconcileItems(c *domain.Cart, byProduct map[string]StockStatus, r *SyncReport) bool {
	changed := false
	kept := make([]domain.CartItem, 0, len(c.Items))

	for _, it := range c.Items {
		st, ok := byProduct[it.ProductID]
		if !ok {
			kept = append(kept, it)
			continue
		}
		if st.Discontinued {
			r.Removed++
			changed = true
			continue
		}

		if it.InStock != st.Available {
			if st.Available {
				r.Restocked++
			} else {
				r.MarkedOutOfStock++
			}
			it.InStock = st.Available
			changed = true
		}

		if st.Price != nil && *st.Price >= 0 {
			if s.applyPrice(&it, *st.Price, r) {
				changed = true
			}
		}
		kept = append(kept, it)
	}

	c.Items = kept
	return changed
}

func (s *Store) applyPrice(it *domain.CartItem, price int64, r *SyncReport) bool {
	if s.cfg.PriceChangePolicy == PriceAutoApply {
		changed := it.PendingPrice != nil
		it.PendingPrice = nil
		if it.UnitPrice != price {
			it.UnitPrice = price
			r.PriceUpdated++
			changed = true
		}
		return changed
	}

	if it.UnitPrice == price {
		if it.PendingPrice != nil {
			it.PendingPrice = nil
			return true
		}
		return false
	}
	if it.PendingPrice != nil && *it.PendingPrice == price {
		return false
	}
	p := price
	it.PendingPrice = &p
	r.PriceFlagged++
	return true
}
