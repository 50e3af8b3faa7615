package orders

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

type Repo struct{ DB *pgxpool.Pool }

// Create persists a new PENDING order and returns it with the generated id.
func (r *Repo) Create(ctx context.Context, userID string, amount decimal.Decimal) (Order, error) {
	o := Order{
		ID:     uuid.NewString(),
		UserID: userID,
		Amount: amount,
		Status: StatusPending,
	}
	err := r.DB.QueryRow(ctx, `
		INSERT INTO orders(id, user_id, amount, status)
		VALUES ($1,$2,$3,$4)
		RETURNING created_at`,
		o.ID, o.UserID, o.Amount, string(o.Status)).Scan(&o.CreatedAt)
	if err != nil {
		return Order{}, err
	}
	return o, nil
}
