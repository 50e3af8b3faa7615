package httpx

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/ariefcatur/go-shop-backend.git/internal/orders"
	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
)

type OrdersAPI interface {
	PlaceOrder(ctx context.Context, userID string, amount decimal.Decimal, traceID string) (orders.Order, error)
}

type OrdersHandler struct {
	Orders OrdersAPI
}

func (h *OrdersHandler) Register(r *chi.Mux) {
	r.Post("/orders/{username}", h.placeOrder)
}

func (h *OrdersHandler) placeOrder(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")
	amount, err := decimal.NewFromString(r.URL.Query().Get("amount"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid amount"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	o, err := h.Orders.PlaceOrder(ctx, username, amount, r.Header.Get("X-Request-Id"))
	switch {
	case errors.Is(err, orders.ErrUserRequired), errors.Is(err, orders.ErrInvalidAmount):
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
	case err != nil:
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
	default:
		writeJSON(w, http.StatusCreated, o)
	}
}
