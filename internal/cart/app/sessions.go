package app

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
)

const sessionKeyPrefix = "cart:"

var sessionIDPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)

func ValidateSessionID(id string) error {
	if !sessionIDPattern.MatchString(id) {
		return fmt.Errorf("%w: malformed session id", ErrValidation)
	}
	return nil
}

func SessionKey(sessionID string) string {
	return sessionKeyPrefix + sessionID
}

const DefaultIdleCarts = 1024

type SessionsConfig struct {
	// Store is the template for every session's store; Key is filled per session.
	Store        StoreConfig
	SyncInterval time.Duration
	// IdleCarts caps how many carts without an active view stay in memory.
	IdleCarts    int
}

// Sessions owns one Store per shopper session and the validator of every
// active cart view. Carts with an active view are pinned; the rest live in
// a bounded LRU and are reloaded from storage after eviction.
type Sessions struct {
	cfg  SessionsConfig
	deps Deps
	log  *slog.Logger

	ctx    context.Context
	cancel context.CancelFunc

	mu     sync.Mutex
	active map[string]*Store
	idle   *lru.Cache[string, *Store]
	views  map[string]*ValidatorHandle
}

func NewSessions(cfg SessionsConfig, deps Deps) *Sessions {
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	if cfg.IdleCarts <= 0 {
		cfg.IdleCarts = DefaultIdleCarts
	}
	idle, err := lru.New[string, *Store](cfg.IdleCarts)
	if err != nil {
		panic(err) // only for a non-positive size
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Sessions{
		cfg:    cfg,
		deps:   deps,
		log:    deps.Logger,
		ctx:    ctx,
		cancel: cancel,
		active: make(map[string]*Store),
		idle:   idle,
		views:  make(map[string]*ValidatorHandle),
	}
}

// Cart returns the session's store, restoring it from storage on first use.
// Storage is read without holding the registry lock.
func (s *Sessions) Cart(ctx context.Context, sessionID string) (*Store, error) {
	if err := ValidateSessionID(sessionID); err != nil {
		return nil, err
	}

	s.mu.Lock()
	st, ok := s.lookupLocked(sessionID)
	s.mu.Unlock()
	if ok {
		return st, nil
	}

	cfg := s.cfg.Store
	cfg.Key = SessionKey(sessionID)
	loaded := NewStore(cfg, s.deps)
	loaded.Load(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	// Another request may have loaded the same session meanwhile.
	if st, ok := s.lookupLocked(sessionID); ok {
		return st, nil
	}
	s.idle.Add(sessionID, loaded)
	return loaded, nil
}

func (s *Sessions) lookupLocked(sessionID string) (*Store, bool) {
	if st, ok := s.active[sessionID]; ok {
		return st, true
	}
	return s.idle.Get(sessionID)
}

// Resident reports how many carts are held in memory.
func (s *Sessions) Resident() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.active) + s.idle.Len()
}

// ActivateView starts the session's stock validator. It reports false when
// the view was already active.
func (s *Sessions) ActivateView(ctx context.Context, sessionID string) (bool, error) {
	loaded, err := s.Cart(ctx, sessionID)
	if err != nil {
		return false, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, active := s.views[sessionID]; active {
		return false, nil
	}
	st, ok := s.lookupLocked(sessionID)
	if !ok {
		st = loaded
	}
	s.idle.Remove(sessionID)
	s.active[sessionID] = st

	v := NewValidator(st, s.cfg.SyncInterval, s.log.With(slog.String("session", sessionID)))
	s.views[sessionID] = v.Start(s.ctx)
	s.deps.Metrics.viewStarted()
	return true, nil
}

// DeactivateView stops the session's validator and waits for it to exit.
func (s *Sessions) DeactivateView(sessionID string) bool {
	s.mu.Lock()
	h, ok := s.views[sessionID]
	delete(s.views, sessionID)
	if st, pinned := s.active[sessionID]; pinned {
		delete(s.active, sessionID)
		s.idle.Add(sessionID, st)
	}
	s.mu.Unlock()

	if !ok {
		return false
	}
	h.Stop()
	s.deps.Metrics.viewStopped()
	return true
}

func (s *Sessions) ViewActive(sessionID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.views[sessionID]
	return ok
}

// NotifyProductChanged triggers an early reconciliation for every active view
// whose cart holds productID. It returns how many views were triggered.
func (s *Sessions) NotifyProductChanged(productID string) int {
	productID = strings.TrimSpace(productID)
	if productID == "" {
		return 0
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	n := 0
	for sessionID, h := range s.views {
		st, ok := s.active[sessionID]
		if !ok {
			continue
		}
		if st.Snapshot().Contains(productID) {
			h.Trigger()
			n++
		}
	}
	return n
}

// List returns the ids of every persisted cart.
func (s *Sessions) List(ctx context.Context) ([]string, error) {
	if s.deps.Storage == nil {
		return nil, nil
	}
	keys, err := s.deps.Storage.Keys(ctx, sessionKeyPrefix)
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(keys))
	for _, k := range keys {
		ids = append(ids, strings.TrimPrefix(k, sessionKeyPrefix))
	}
	return ids, nil
}

// Close stops every running validator.
func (s *Sessions) Close() {
	s.mu.Lock()
	views := s.views
	s.views = make(map[string]*ValidatorHandle)
	s.mu.Unlock()

	s.cancel()
	for _, h := range views {
		h.Stop()
		s.deps.Metrics.viewStopped()
	}
}
