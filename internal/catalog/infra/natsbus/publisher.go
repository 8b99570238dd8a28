package natsbus

import (
	"context"
	"encoding/json"
	"fmt"

	catalogv1 "github.com/dwikikusuma/videoshop-cart/api/catalog/v1"
	"github.com/dwikikusuma/videoshop-cart/internal/catalog/domain"
)

// Conn is the subset of *nats.Conn the publisher needs.
type Conn interface {
	Publish(subj string, data []byte) error
}

type Publisher struct {
	conn    Conn
	subject string
}

func NewPublisher(conn Conn) *Publisher {
	return &Publisher{conn: conn, subject: catalogv1.StockChangedSubject}
}

func (p *Publisher) PublishStockChanged(ctx context.Context, ev domain.StockChanged) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := json.Marshal(catalogv1.StockChangedEvent{
		ProductID:  ev.ProductID,
		Available:  ev.Available,
		Price:      ev.Price,
		OccurredAt: ev.OccurredAt.Unix(),
	})
	if err != nil {
		return fmt.Errorf("marshal stock event: %w", err)
	}

	if err := p.conn.Publish(p.subject, data); err != nil {
		return fmt.Errorf("publish %s: %w", p.subject, err)
	}
	return nil
}
