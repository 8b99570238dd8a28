package natsbus

import (
	"encoding/json"
	"fmt"
	"log/slog"

	catalogv1 "github.com/dwikikusuma/videoshop-cart/api/catalog/v1"
	"github.com/nats-io/nats.go"
)

// Notifier is told which product changed; *app.Sessions satisfies it.
type Notifier interface {
	NotifyProductChanged(productID string) int
}

// Subscriber turns catalog stock events into early cart reconciliations.
type Subscriber struct {
	notifier Notifier
	log      *slog.Logger
}

func NewSubscriber(notifier Notifier, log *slog.Logger) *Subscriber {
	if log == nil {
		log = slog.Default()
	}
	return &Subscriber{notifier: notifier, log: log}
}

// Handle processes one raw event payload. Malformed payloads are logged and dropped.
func (s *Subscriber) Handle(data []byte) {
	var ev catalogv1.StockChangedEvent
	if err := json.Unmarshal(data, &ev); err != nil {
		s.log.Warn("dropping malformed stock event", slog.Any("err", err))
		return
	}
	if ev.ProductID == "" {
		s.log.Warn("dropping stock event without product id")
		return
	}

	n := s.notifier.NotifyProductChanged(ev.ProductID)
	s.log.Debug("stock event",
		slog.String("product_id", ev.ProductID),
		slog.Bool("available", ev.Available),
		slog.Int("views_triggered", n),
	)
}

// Subscribe attaches the subscriber to conn. Drain or Unsubscribe the
// returned subscription on shutdown.
func (s *Subscriber) Subscribe(conn *nats.Conn) (*nats.Subscription, error) {
	sub, err := conn.Subscribe(catalogv1.StockChangedSubject, func(m *nats.Msg) {
		s.Handle(m.Data)
	})
	if err != nil {
		return nil, fmt.Errorf("subscribe %s: %w", catalogv1.StockChangedSubject, err)
	}
	return sub, nil
}
