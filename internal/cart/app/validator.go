package app

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

const DefaultSyncInterval = 30 * time.Second

// Validator keeps a cart's availability and prices fresh while its view is
// active by reconciling with the stock backend on a fixed interval.
type Validator struct {
	store    *Store
	interval time.Duration
	log      *slog.Logger
}

func NewValidator(store *Store, interval time.Duration, log *slog.Logger) *Validator {
	if interval <= 0 {
		interval = DefaultSyncInterval
	}
	if log == nil {
		log = store.log
	}
	return &Validator{store: store, interval: interval, log: log}
}

// ValidatorHandle controls one running validation loop. Stop is the only
// way to end it.
type ValidatorHandle struct {
	cancel  context.CancelFunc
	done    chan struct{}
	trigger chan struct{}
	once    sync.Once
}

// Start runs one reconciliation right away when the cart has items, then one
// per interval until the handle is stopped or ctx ends.
func (v *Validator) Start(ctx context.Context) *ValidatorHandle {
	ctx, cancel := context.WithCancel(ctx)
	h := &ValidatorHandle{
		cancel:  cancel,
		done:    make(chan struct{}),
		trigger: make(chan struct{}, 1),
	}
	go v.run(ctx, h)
	return h
}

func (v *Validator) run(ctx context.Context, h *ValidatorHandle) {
	defer close(h.done)

	ticker := time.NewTicker(v.interval)
	defer ticker.Stop()

	v.reconcile(ctx, "activate")
	// The next tick is due one interval after a call returns, so a tick that
	// came due while any call was in flight is dropped.
	ticker.Reset(v.interval)

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			v.reconcile(ctx, "interval")
		case <-h.trigger:
			v.reconcile(ctx, "trigger")
		}
		ticker.Reset(v.interval)
	}
}

func (v *Validator) reconcile(ctx context.Context, reason string) {
	if ctx.Err() != nil || v.store.Len() == 0 {
		return
	}

	report := v.store.sync(ctx, func() bool { return ctx.Err() == nil })
	if report.Skipped {
		v.log.Debug("reconciliation skipped, another is in flight", slog.String("reason", reason))
		return
	}
	if report.Err != nil {
		// Best effort: the next tick tries again.
		return
	}
	v.log.Debug("reconciliation done",
		slog.String("reason", reason),
		slog.Int("checked", report.Checked),
		slog.Bool("changed", report.Changed()),
		slog.Bool("discarded", report.Discarded),
	)
}

// Trigger asks for an out-of-schedule reconciliation. Requests made while
// one is pending are coalesced.
func (h *ValidatorHandle) Trigger() {
	select {
	case h.trigger <- struct{}{}:
	default:
	}
}

// Stop cancels the loop and waits for it to exit. Results of a call that
// was in flight are discarded. Safe to call more than once.
func (h *ValidatorHandle) Stop() {
	h.once.Do(func() {
		h.cancel()
		<-h.done
	})
}

// Done is closed once the loop has exited.
func (h *ValidatorHandle) Done() <-chan struct{} {
	return h.done
}
