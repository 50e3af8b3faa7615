package httpx

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/ariefcatur/go-shop-backend.git/internal/cart"
	"github.com/go-chi/chi/v5"
)

// CartAPI is what the handler needs from the cart service.
type CartAPI interface {
	GetCart(ctx context.Context, id cart.Identity) ([]cart.Line, error)
	AddItem(ctx context.Context, id cart.Identity, productID string, delta int) error
	ClearCart(ctx context.Context, id cart.Identity) error
}

type CartHandler struct {
	Cart CartAPI
}

type AddItemReq struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
	SessionID string `json:"session_id,omitempty"`
}

func (h *CartHandler) Register(r *chi.Mux) {
	r.Get("/cart", h.getCart)
	r.Post("/cart/add", h.addItem)
	r.Delete("/cart", h.clearCart)
}

// X-User-ID is set by the auth gateway for authenticated requests; sessionId
// names an anonymous cart. Body session_id wins over the query param.
func identityFrom(r *http.Request, sessionID string) cart.Identity {
	if sessionID == "" {
		sessionID = r.URL.Query().Get("sessionId")
	}
	return cart.Identity{
		UserID:    r.Header.Get("X-User-ID"),
		SessionID: sessionID,
	}
}

func (h *CartHandler) getCart(w http.ResponseWriter, r *http.Request) {
	id := identityFrom(r, "")
	if id.UserID == "" && id.SessionID == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "user or sessionId required"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	lines, err := h.Cart.GetCart(ctx, id)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	if lines == nil {
		lines = []cart.Line{}
	}
	writeJSON(w, http.StatusOK, lines)
}

func (h *CartHandler) addItem(w http.ResponseWriter, r *http.Request) {
	var req AddItemReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}
	if req.ProductID == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "product_id required"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	err := h.Cart.AddItem(ctx, identityFrom(r, req.SessionID), req.ProductID, req.Quantity)
	switch {
	case errors.Is(err, cart.ErrIdentityRequired):
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "user or session ID required"})
	case errors.Is(err, cart.ErrProductNotFound):
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "product not found"})
	case err != nil:
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
	default:
		writeJSON(w, http.StatusOK, map[string]string{"message": "item added to cart"})
	}
}

func (h *CartHandler) clearCart(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	err := h.Cart.ClearCart(ctx, identityFrom(r, ""))
	if err != nil && !errors.Is(err, cart.ErrIdentityRequired) {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	// no identity means nothing to clear; still a cleared cart
	writeJSON(w, http.StatusOK, map[string]string{"message": "cart cleared"})
}
