package redisx

import "time"

const (
	// Mirror of a cart: cart:{owner_kind}:{owner_id} -> list of CartLine JSON
	KeyCart = "cart:%s"
)

var (
	TTLCart = 15 * time.Minute
)
