package checkout

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRazorpayGateway_CreateOrder(t *testing.T) {
	var got OrderRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/orders", r.URL.Path)
		user, pass, ok := r.BasicAuth()
		assert.True(t, ok)
		assert.Equal(t, "rzp_key", user)
		assert.Equal(t, "rzp_secret", pass)
		assert.Equal(t, "acc_123", r.Header.Get("X-Razorpay-Account"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"order_EKwxwAgItmmXdp","entity":"order","amount":35000,"currency":"INR","receipt":"R1-1","status":"created","notes":{"userId":"1"}}`))
	}))
	defer srv.Close()

	gw := NewRazorpayGateway(srv.URL+"/v1/", "rzp_key", "rzp_secret", "acc_123", time.Second)
	order, err := gw.CreateOrder(context.Background(), OrderRequest{
		Amount: 35000, Currency: "INR", Receipt: "R1-1", Notes: map[string]string{"userId": "1"},
	})

	require.NoError(t, err)
	assert.Equal(t, "order_EKwxwAgItmmXdp", order.ID)
	assert.Equal(t, int64(35000), order.Amount)
	assert.Equal(t, "created", order.Status)
	assert.Equal(t, map[string]string{"userId": "1"}, order.Notes)

	assert.Equal(t, int64(35000), got.Amount)
	assert.Equal(t, "INR", got.Currency)
	assert.Equal(t, "R1-1", got.Receipt)
	assert.Equal(t, "razorpay", gw.Name())
}

func TestRazorpayGateway_EmptyNotesArray(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"order_1","amount":100,"currency":"INR","receipt":"r","status":"created","notes":[]}`))
	}))
	defer srv.Close()

	gw := NewRazorpayGateway(srv.URL, "k", "s", "", time.Second)
	order, err := gw.CreateOrder(context.Background(), OrderRequest{Amount: 100, Currency: "INR", Receipt: "r"})

	require.NoError(t, err)
	assert.Empty(t, order.Notes)
}

func TestRazorpayGateway_ErrorResponse(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":{"code":"BAD_REQUEST_ERROR","description":"The amount must be atleast INR 1.00"}}`))
	}))
	defer srv.Close()

	gw := NewRazorpayGateway(srv.URL, "k", "s", "", time.Second)
	_, err := gw.CreateOrder(context.Background(), OrderRequest{Amount: 0, Currency: "INR", Receipt: "r"})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "BAD_REQUEST_ERROR")
	assert.Equal(t, 1, calls)
}

func TestRazorpayGateway_Timeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	gw := NewRazorpayGateway(srv.URL, "k", "s", "", 50*time.Millisecond)
	start := time.Now()
	_, err := gw.CreateOrder(context.Background(), OrderRequest{Amount: 100, Currency: "INR", Receipt: "r"})

	require.Error(t, err)
	assert.Less(t, time.Since(start), 2*time.Second)
}

func TestRazorpayGateway_FetchOrder(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		w.Header().Set("Content-Type", "application/json")
		if r.URL.Path != "/v1/orders/order_EKwxwAgItmmXdp" {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"error":{"code":"BAD_REQUEST_ERROR","description":"The id provided does not exist"}}`))
			return
		}
		_, _ = w.Write([]byte(`{"id":"order_EKwxwAgItmmXdp","entity":"order","amount":35000,"currency":"INR","receipt":"R1-1","status":"paid","notes":{"userId":"1"}}`))
	}))
	defer srv.Close()

	gw := NewRazorpayGateway(srv.URL+"/v1", "k", "s", "", time.Second)

	order, err := gw.FetchOrder(context.Background(), "order_EKwxwAgItmmXdp")
	require.NoError(t, err)
	assert.Equal(t, int64(35000), order.Amount)
	assert.Equal(t, "paid", order.Status)
	assert.Equal(t, "1", order.Notes["userId"])

	_, err = gw.FetchOrder(context.Background(), "order_missing")
	assert.ErrorIs(t, err, ErrOrderNotFound)
}

func TestRazorpayGateway_FetchOrderServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := NewRazorpayGateway(srv.URL, "k", "s", "", time.Second).FetchOrder(context.Background(), "order_1")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrOrderNotFound)
}

func TestSandboxGateway_FetchOrder(t *testing.T) {
	gw := NewSandboxGateway()
	issued, err := gw.CreateOrder(context.Background(), OrderRequest{Amount: 900, Currency: "INR", Receipt: "R3-1", Notes: map[string]string{"userId": "3"}})
	require.NoError(t, err)

	got, err := gw.FetchOrder(context.Background(), issued.ID)
	require.NoError(t, err)
	assert.Equal(t, *issued, *got)

	_, err = gw.FetchOrder(context.Background(), "order_unknown")
	assert.ErrorIs(t, err, ErrOrderNotFound)
}

func TestSandboxGateway_CreateOrder(t *testing.T) {
	gw := NewSandboxGateway()
	req := OrderRequest{Amount: 5000, Currency: "INR", Receipt: "R2-9", Notes: map[string]string{"userId": "2"}}

	a, err := gw.CreateOrder(context.Background(), req)
	require.NoError(t, err)
	b, err := gw.CreateOrder(context.Background(), req)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(a.ID, "order_"))
	assert.Len(t, a.ID, len("order_")+14)
	assert.NotEqual(t, a.ID, b.ID)
	assert.Equal(t, int64(5000), a.Amount)
	assert.Equal(t, "R2-9", a.Receipt)
}

func TestSandboxGateway_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewSandboxGateway().CreateOrder(ctx, OrderRequest{Amount: 1})
	assert.ErrorIs(t, err, context.Canceled)
}
