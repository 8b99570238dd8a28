package natsbus

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	catalogv1 "github.com/dwikikusuma/videoshop-cart/api/catalog/v1"
	"github.com/dwikikusuma/videoshop-cart/internal/catalog/domain"
)

type fakeConn struct {
	subject string
	data    []byte
	err     error
}

func (c *fakeConn) Publish(subj string, data []byte) error {
	c.subject = subj
	c.data = data
	return c.err
}

func TestPublishStockChanged(t *testing.T) {
	conn := &fakeConn{}
	pub := NewPublisher(conn)

	at := time.Unix(1700000000, 0)
	err := pub.PublishStockChanged(context.Background(), domain.StockChanged{
		ProductID: "p-1", Available: false, Price: 1200, OccurredAt: at,
	})
	if err != nil {
		t.Fatalf("publish: %v", err)
	}
	if conn.subject != catalogv1.StockChangedSubject {
		t.Fatalf("subject %q", conn.subject)
	}

	var ev catalogv1.StockChangedEvent
	if err := json.Unmarshal(conn.data, &ev); err != nil {
		t.Fatalf("payload: %v", err)
	}
	if ev.ProductID != "p-1" || ev.Available || ev.Price != 1200 || ev.OccurredAt != at.Unix() {
		t.Fatalf("payload %+v", ev)
	}
}

func TestPublishError(t *testing.T) {
	conn := &fakeConn{err: errors.New("disconnected")}
	pub := NewPublisher(conn)

	if err := pub.PublishStockChanged(context.Background(), domain.StockChanged{ProductID: "p"}); err == nil {
		t.Fatal("expected error")
	}
}
