package orders

import (
	"time"

	"github.com/shopspring/decimal"
)

type Status string

// Only PENDING is ever written by this service; later transitions belong to
// the downstream consumers of order.placed.
const StatusPending Status = "PENDING"

// Order is immutable once persisted: amount and owner are fixed at creation.
type Order struct {
	ID        string          `json:"id"`
	UserID    string          `json:"user_id"`
	Amount    decimal.Decimal `json:"amount"`
	Status    Status          `json:"status"`
	CreatedAt time.Time       `json:"created_at"`
}
