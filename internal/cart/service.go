package cart

import (
	"context"
	"errors"
	"log"

	"golang.org/x/sync/singleflight"
)

var (
	ErrIdentityRequired = errors.New("user or session identity required")
	ErrProductNotFound  = errors.New("product not found")
)

// Store is the authoritative cart persistence.
type Store interface {
	ApplyDelta(ctx context.Context, owner Owner, productID string, delta int) (int, error)
	List(ctx context.Context, owner Owner) ([]Line, error)
	Clear(ctx context.Context, owner Owner) error
	MergeInto(ctx context.Context, dst, src Owner) error
}

// ProductChecker answers whether a product exists in the catalog.
type ProductChecker interface {
	Exists(ctx context.Context, productID string) (bool, error)
}

type Service struct {
	Store    Store
	Cache    Cache // optional accelerator, may be nil
	Products ProductChecker
	sfg      singleflight.Group
}

// resolve picks the acting owner. When an authenticated request still
// carries a session token, the anonymous cart is merged into the user's
// before the operation proceeds, so nothing is lost on login.
func (s *Service) resolve(ctx context.Context, id Identity) (Owner, bool, error) {
	owner, ok := id.Owner()
	if !ok {
		return Owner{}, false, nil
	}
	if owner.IsUser() && id.SessionID != "" {
		src := SessionOwner(id.SessionID)
		if err := s.Store.MergeInto(ctx, owner, src); err != nil {
			return Owner{}, false, err
		}
		s.invalidate(ctx, owner, src)
	}
	return owner, true, nil
}

// AddItem applies a signed quantity delta to the owner's line for productID.
// A positive delta on an absent line creates it; a cumulative quantity <= 0
// removes it; a nonpositive delta on an absent line is a no-op.
func (s *Service) AddItem(ctx context.Context, id Identity, productID string, delta int) error {
	owner, ok, err := s.resolve(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return ErrIdentityRequired
	}

	exists, err := s.Products.Exists(ctx, productID)
	if err != nil {
		return err
	}
	if !exists {
		return ErrProductNotFound
	}

	if _, err := s.Store.ApplyDelta(ctx, owner, productID, delta); err != nil {
		return err
	}
	s.invalidate(ctx, owner)
	return nil
}

// GetCart returns the owner's lines in insertion order. An unresolvable
// identity reads as an empty cart, never an error.
func (s *Service) GetCart(ctx context.Context, id Identity) ([]Line, error) {
	owner, ok, err := s.resolve(ctx, id)
	if err != nil {
		return nil, err
	}
	if !ok {
		return []Line{}, nil
	}
	if s.Cache == nil {
		return s.Store.List(ctx, owner)
	}

	// singleflight collapses concurrent misses for the same owner
	v, err, _ := s.sfg.Do(owner.Key(), func() (any, error) {
		lines, err := s.Cache.Lines(ctx, owner)
		if err == nil {
			return lines, nil
		}
		if !errors.Is(err, ErrCacheMiss) {
			log.Printf("cart cache read: %v", err)
		}
		lines, err = s.Store.List(ctx, owner)
		if err != nil {
			return nil, err
		}
		if err := s.Cache.Replace(ctx, owner, lines); err != nil {
			log.Printf("cart cache fill: %v", err)
		}
		return lines, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]Line), nil
}

// ClearCart deletes every line for the owner. Clearing an empty cart
// succeeds silently.
func (s *Service) ClearCart(ctx context.Context, id Identity) error {
	owner, ok, err := s.resolve(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return ErrIdentityRequired
	}
	if err := s.Store.Clear(ctx, owner); err != nil {
		return err
	}
	s.invalidate(ctx, owner)
	return nil
}

func (s *Service) invalidate(ctx context.Context, owners ...Owner) {
	if s.Cache == nil {
		return
	}
	for _, o := range owners {
		if err := s.Cache.Delete(ctx, o); err != nil {
			log.Printf("cart cache invalidate %s: %v", o.Key(), err)
		}
	}
}
