package httpx

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ariefcatur/go-shop-backend.git/internal/orders"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeOrders struct {
	err error
}

func (f *fakeOrders) PlaceOrder(_ context.Context, userID string, amount decimal.Decimal, _ string) (orders.Order, error) {
	if f.err != nil {
		return orders.Order{}, f.err
	}
	return orders.Order{
		ID:        "ord-1",
		UserID:    userID,
		Amount:    amount,
		Status:    orders.StatusPending,
		CreatedAt: time.Now().UTC(),
	}, nil
}

func newOrdersServer(f *fakeOrders) *httptest.Server {
	r := NewRouter()
	(&OrdersHandler{Orders: f}).Register(r)
	return httptest.NewServer(r)
}

func TestPlaceOrderReturnsPersistedOrder(t *testing.T) {
	srv := newOrdersServer(&fakeOrders{})
	defer srv.Close()

	resp, err := http.Post(srv.URL+"/orders/bob?amount=49.99", "application/json", nil)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var o orders.Order
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&o))
	assert.Equal(t, "ord-1", o.ID)
	assert.Equal(t, "bob", o.UserID)
	assert.True(t, o.Amount.Equal(decimal.RequireFromString("49.99")))
	assert.Equal(t, orders.StatusPending, o.Status)
	assert.False(t, o.CreatedAt.IsZero())
}

func TestPlaceOrderInvalidAmountIs400(t *testing.T) {
	srv := newOrdersServer(&fakeOrders{})
	defer srv.Close()

	for _, amount := range []string{"", "abc", "12.3.4"} {
		resp, err := http.Post(srv.URL+"/orders/bob?amount="+amount, "application/json", nil)
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode, "amount=%q", amount)
	}
}

func TestPlaceOrderNegativeAmountIs400(t *testing.T) {
	srv := newOrdersServer(&fakeOrders{err: orders.ErrInvalidAmount})
	defer srv.Close()

	resp, err := http.Post(srv.URL+"/orders/bob?amount=-1", "application/json", nil)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestPlaceOrderPersistenceFailureIs500(t *testing.T) {
	srv := newOrdersServer(&fakeOrders{err: orders.ErrPersistence})
	defer srv.Close()

	resp, err := http.Post(srv.URL+"/orders/bob?amount=10", "application/json", nil)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
}
