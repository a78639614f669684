package checkout

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// OrderRequest is what we ask the payment gateway to open
type OrderRequest struct {
	Amount   int64             `json:"amount"` // paise
	Currency string            `json:"currency"`
	Receipt  string            `json:"receipt"`
	Notes    map[string]string `json:"notes,omitempty"`
}

// Order is the gateway's order descriptor as returned to the client
type Order struct {
	ID       string            `json:"orderId"`
	Amount   int64             `json:"amount"`
	Currency string            `json:"currency"`
	Receipt  string            `json:"receipt"`
	Status   string            `json:"status,omitempty"`
	Notes    map[string]string `json:"notes,omitempty"`
}

// ErrOrderNotFound is returned by FetchOrder when the gateway never issued the order
var ErrOrderNotFound = errors.New("order not found")

// Gateway opens orders with a payment provider and reads them back
type Gateway interface {
	Name() string
	CreateOrder(ctx context.Context, req OrderRequest) (*Order, error)
	FetchOrder(ctx context.Context, orderID string) (*Order, error)
}

// RazorpayGateway talks to the Razorpay orders API
type RazorpayGateway struct {
	client *resty.Client
}

type razorpayOrder struct {
	ID       string          `json:"id"`
	Entity   string          `json:"entity"`
	Amount   int64           `json:"amount"`
	Currency string          `json:"currency"`
	Receipt  string          `json:"receipt"`
	Status   string          `json:"status"`
	Notes    json.RawMessage `json:"notes"`
}

type razorpayError struct {
	Error struct {
		Code        string `json:"code"`
		Description string `json:"description"`
	} `json:"error"`
}

// NewRazorpayGateway builds a client with basic auth and a bounded timeout.
// Order creation is never retried.
func NewRazorpayGateway(baseURL, keyID, keySecret, merchantID string, timeout time.Duration) *RazorpayGateway {
	client := resty.New().
		SetBaseURL(strings.TrimRight(baseURL, "/")).
		SetBasicAuth(keyID, keySecret).
		SetTimeout(timeout).
		SetRetryCount(0).
		SetHeader("Content-Type", "application/json")
	if merchantID != "" {
		client.SetHeader("X-Razorpay-Account", merchantID)
	}
	return &RazorpayGateway{client: client}
}

func (g *RazorpayGateway) Name() string {
	return "razorpay"
}

func (g *RazorpayGateway) CreateOrder(ctx context.Context, req OrderRequest) (*Order, error) {
	var out razorpayOrder
	var apiErr razorpayError

	resp, err := g.client.R().
		SetContext(ctx).
		SetBody(req).
		SetResult(&out).
		SetError(&apiErr).
		Post("/orders")
	if err != nil {
		return nil, errors.Wrap(err, "razorpay create order")
	}
	if resp.IsError() {
		return nil, errors.Errorf("razorpay create order: status %d: %s %s",
			resp.StatusCode(), apiErr.Error.Code, apiErr.Error.Description)
	}
	if out.ID == "" {
		return nil, errors.New("razorpay create order: empty order id")
	}

	return out.toOrder(), nil
}

func (g *RazorpayGateway) FetchOrder(ctx context.Context, orderID string) (*Order, error) {
	var out razorpayOrder
	var apiErr razorpayError

	resp, err := g.client.R().
		SetContext(ctx).
		SetPathParam("orderId", orderID).
		SetResult(&out).
		SetError(&apiErr).
		Get("/orders/{orderId}")
	if err != nil {
		return nil, errors.Wrap(err, "razorpay fetch order")
	}
	switch {
	case resp.StatusCode() == http.StatusNotFound, resp.StatusCode() == http.StatusBadRequest:
		return nil, errors.Wrapf(ErrOrderNotFound, "razorpay fetch order %s: %s", orderID, apiErr.Error.Description)
	case resp.IsError():
		return nil, errors.Errorf("razorpay fetch order: status %d: %s %s",
			resp.StatusCode(), apiErr.Error.Code, apiErr.Error.Description)
	}
	if out.ID != orderID {
		return nil, errors.Errorf("razorpay fetch order: got order %q", out.ID)
	}
	return out.toOrder(), nil
}

func (o razorpayOrder) toOrder() *Order {
	return &Order{
		ID:       o.ID,
		Amount:   o.Amount,
		Currency: o.Currency,
		Receipt:  o.Receipt,
		Status:   o.Status,
		Notes:    decodeNotes(o.Notes),
	}
}

// Razorpay sends an empty array instead of an object when there are no notes
func decodeNotes(raw json.RawMessage) map[string]string {
	notes := map[string]string{}
	if len(raw) == 0 {
		return notes
	}
	var generic map[string]any
	if err := json.Unmarshal(raw, &generic); err != nil {
		return notes
	}
	for k, v := range generic {
		switch val := v.(type) {
		case string:
			notes[k] = val
		default:
			b, _ := json.Marshal(val)
			notes[k] = string(b)
		}
	}
	return notes
}

// SandboxGateway fabricates orders locally for development and tests.
// It remembers every order it issued so FetchOrder behaves like the real API.
type SandboxGateway struct {
	mu     sync.RWMutex
	orders map[string]Order
}

func NewSandboxGateway() *SandboxGateway {
	return &SandboxGateway{orders: map[string]Order{}}
}

func (g *SandboxGateway) Name() string {
	return "sandbox"
}

func (g *SandboxGateway) CreateOrder(ctx context.Context, req OrderRequest) (*Order, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	order := Order{
		ID:       "order_" + strings.ReplaceAll(uuid.NewString(), "-", "")[:14],
		Amount:   req.Amount,
		Currency: req.Currency,
		Receipt:  req.Receipt,
		Status:   "created",
		Notes:    req.Notes,
	}

	g.mu.Lock()
	g.orders[order.ID] = order
	g.mu.Unlock()
	return &order, nil
}

func (g *SandboxGateway) FetchOrder(ctx context.Context, orderID string) (*Order, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	g.mu.RLock()
	order, ok := g.orders[orderID]
	g.mu.RUnlock()
	if !ok {
		return nil, errors.Wrapf(ErrOrderNotFound, "sandbox order %s", orderID)
	}
	return &order, nil
}
