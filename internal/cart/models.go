package cart

// Line is one product's quantity within a cart. A persisted line always has
// qty > 0; a delta driving it to zero or below deletes it instead.
type Line struct {
	ProductID string `json:"product_id"`
	Qty       int    `json:"qty"`
}
