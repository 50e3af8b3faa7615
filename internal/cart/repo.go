package cart

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repo struct{ DB *pgxpool.Pool }

// ApplyDelta adds a signed quantity to the (owner, product) line and returns
// the resulting quantity (0 when the line ends up removed). The row lock
// taken by the upsert/update serializes concurrent deltas on the same line,
// so no update is lost. A quantity <= 0 is deleted inside the same
// transaction and is never visible outside it.
func (r *Repo) ApplyDelta(ctx context.Context, owner Owner, productID string, delta int) (int, error) {
	tx, err := r.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return 0, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var qty int
	if delta > 0 {
		err = tx.QueryRow(ctx, `
			INSERT INTO cart_items(owner_kind, owner_id, product_id, qty)
			VALUES ($1,$2,$3,$4)
			ON CONFLICT (owner_kind, owner_id, product_id)
			DO UPDATE SET qty = cart_items.qty + EXCLUDED.qty, updated_at = now()
			RETURNING qty`,
			owner.Kind(), owner.ID(), productID, delta).Scan(&qty)
		if err != nil {
			return 0, err
		}
	} else {
		err = tx.QueryRow(ctx, `
			UPDATE cart_items SET qty = qty + $4, updated_at = now()
			WHERE owner_kind=$1 AND owner_id=$2 AND product_id=$3
			RETURNING qty`,
			owner.Kind(), owner.ID(), productID, delta).Scan(&qty)
		if errors.Is(err, pgx.ErrNoRows) {
			// nothing to remove
			return 0, tx.Commit(ctx)
		}
		if err != nil {
			return 0, err
		}
	}

	if qty <= 0 {
		if _, err := tx.Exec(ctx, `
			DELETE FROM cart_items
			WHERE owner_kind=$1 AND owner_id=$2 AND product_id=$3`,
			owner.Kind(), owner.ID(), productID); err != nil {
			return 0, err
		}
		qty = 0
	}
	return qty, tx.Commit(ctx)
}

// List returns the owner's lines in insertion order.
func (r *Repo) List(ctx context.Context, owner Owner) ([]Line, error) {
	rows, err := r.DB.Query(ctx, `
		SELECT product_id, qty FROM cart_items
		WHERE owner_kind=$1 AND owner_id=$2
		ORDER BY created_at, id`,
		owner.Kind(), owner.ID())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Line
	for rows.Next() {
		var l Line
		if err := rows.Scan(&l.ProductID, &l.Qty); err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

func (r *Repo) Clear(ctx context.Context, owner Owner) error {
	_, err := r.DB.Exec(ctx, `
		DELETE FROM cart_items WHERE owner_kind=$1 AND owner_id=$2`,
		owner.Kind(), owner.ID())
	return err
}

// MergeInto folds the src cart into dst, summing quantities on shared
// products, then deletes src. Both halves commit together so an anonymous
// cart is never half-merged or orphaned.
func (r *Repo) MergeInto(ctx context.Context, dst, src Owner) error {
	tx, err := r.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, `
		INSERT INTO cart_items(owner_kind, owner_id, product_id, qty)
		SELECT $3, $4, product_id, qty FROM cart_items
		WHERE owner_kind=$1 AND owner_id=$2
		ORDER BY created_at, id
		ON CONFLICT (owner_kind, owner_id, product_id)
		DO UPDATE SET qty = cart_items.qty + EXCLUDED.qty, updated_at = now()`,
		src.Kind(), src.ID(), dst.Kind(), dst.ID()); err != nil {
		return err
	}
	if _, err := tx.Exec(ctx, `
		DELETE FROM cart_items WHERE owner_kind=$1 AND owner_id=$2`,
		src.Kind(), src.ID()); err != nil {
		return err
	}
	return tx.Commit(ctx)
}
