package orders

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	kafkax "github.com/ariefcatur/go-shop-backend.git/internal/kafka"
	"github.com/google/uuid"
	kafkago "github.com/segmentio/kafka-go"
	"github.com/shopspring/decimal"
)

var (
	ErrUserRequired  = errors.New("user identity required")
	ErrInvalidAmount = errors.New("amount must be non-negative")
	ErrPersistence   = errors.New("order persistence failed")
)

type Store interface {
	Create(ctx context.Context, userID string, amount decimal.Decimal) (Order, error)
}

// Publisher is the queue side of order placement. Best-effort: a failed
// publish never undoes a persisted order.
type Publisher interface {
	Publish(key, value []byte, headers ...kafkago.Header) error
}

type Service struct {
	Store   Store
	Pub     Publisher
	Service string // producer name stamped on envelopes
}

// PlaceOrder runs the two phases of checkout: persist the PENDING order
// durably, then notify downstream. Phase two failure is logged and swallowed,
// and the persisted order is returned either way.
func (s *Service) PlaceOrder(ctx context.Context, userID string, amount decimal.Decimal, traceID string) (Order, error) {
	if userID == "" {
		return Order{}, ErrUserRequired
	}
	if amount.IsNegative() {
		return Order{}, ErrInvalidAmount
	}

	o, err := s.Store.Create(ctx, userID, amount)
	if err != nil {
		return Order{}, fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	ev := Envelope{
		EventID:       uuid.NewString(),
		EventVersion:  1,
		EventType:     EventOrderPlaced,
		OccurredAt:    time.Now().UTC(),
		Producer:      s.Service,
		TraceID:       traceID,
		CorrelationID: o.ID,
		Payload: kafkax.MustMarshal(OrderPlacedPayload{
			OrderID: o.ID,
			UserID:  o.UserID,
			Amount:  o.Amount,
			Status:  string(o.Status),
		}),
	}
	err = s.Pub.Publish(PartitionKey(o.ID), kafkax.MustMarshal(ev),
		kafkago.Header{Key: "x-event-type", Value: []byte(EventOrderPlaced)},
		kafkago.Header{Key: "x-event-version", Value: []byte("1")},
	)
	if err != nil {
		// order already exists; downstream reconciles missed events
		log.Printf("order %s placed but publish failed: %v", o.ID, err)
	}
	return o, nil
}
