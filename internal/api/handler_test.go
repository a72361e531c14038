package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	metricnoop "go.opentelemetry.io/otel/metric/noop"
	tracenoop "go.opentelemetry.io/otel/trace/noop"

	"github.com/xenking/pos-checkout/internal/catalog"
	"github.com/xenking/pos-checkout/internal/checkout"
	"github.com/xenking/pos-checkout/internal/pricing"
	"github.com/xenking/pos-checkout/internal/session"
)

// Response shapes are declared locally so the tests stay black-box over the
// wire format.

type productResponse struct {
	SKU   string  `json:"sku"`
	Name  string  `json:"name"`
	Price float64 `json:"price"`
}

type cartItemResponse struct {
	Product  productResponse `json:"product"`
	Quantity int             `json:"quantity"`
}

type sessionResponse struct {
	SessionID string `json:"sessionId"`
	CreatedAt string `json:"createdAt"`
	Message   string `json:"message"`
}

type scanResponse struct {
	SessionID string             `json:"sessionId"`
	CartItems []cartItemResponse `json:"cartItems"`
	Message   string             `json:"message"`
}

type totalResponse struct {
	SessionID string             `json:"sessionId"`
	CartItems []cartItemResponse `json:"cartItems"`
	Total     float64            `json:"total"`
}

type errorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type rulesResponse struct {
	PricingRules []struct {
		SKU  string `json:"sku"`
		Name string `json:"name"`
		Type string `json:"type"`
	} `json:"pricingRules"`
	Count int `json:"count"`
}

func newTestMux(t *testing.T) *http.ServeMux {
	t.Helper()

	cat, err := catalog.Load()
	require.NoError(t, err)
	svc := checkout.NewService(cat, session.NewRegistry(cat), pricing.DefaultRules())

	h, err := NewHandler(svc, tracenoop.NewTracerProvider(), metricnoop.NewMeterProvider())
	require.NoError(t, err)

	mux := http.NewServeMux()
	h.Register(mux)
	return mux
}

func do(t *testing.T, mux *http.ServeMux, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(w.Body).Decode(&v))
	return v
}

func createSession(t *testing.T, mux *http.ServeMux) string {
	t.Helper()
	w := do(t, mux, http.MethodPost, "/api/checkout", "")
	require.Equal(t, http.StatusCreated, w.Code)
	resp := decode[sessionResponse](t, w)
	require.NotEmpty(t, resp.SessionID)
	return resp.SessionID
}

func TestCreateSession(t *testing.T) {
	mux := newTestMux(t)

	w := do(t, mux, http.MethodPost, "/api/checkout", "")
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

	resp := decode[sessionResponse](t, w)
	assert.NotEmpty(t, resp.SessionID)
	assert.NotEmpty(t, resp.CreatedAt)
	assert.Equal(t, "Checkout session created successfully", resp.Message)
}

func TestScanItem(t *testing.T) {
	mux := newTestMux(t)
	id := createSession(t, mux)

	w := do(t, mux, http.MethodPost, "/api/checkout/"+id+"/scan", `{"sku":"atv"}`)
	require.Equal(t, http.StatusOK, w.Code)

	resp := decode[scanResponse](t, w)
	assert.Equal(t, id, resp.SessionID)
	require.Len(t, resp.CartItems, 1)
	assert.Equal(t, "atv", resp.CartItems[0].Product.SKU)
	assert.Equal(t, 1, resp.CartItems[0].Quantity)
	assert.InDelta(t, 109.50, resp.CartItems[0].Product.Price, 0.001)
	assert.Equal(t, "Item atv scanned successfully", resp.Message)
}

func TestScanItem_UnknownSKU(t *testing.T) {
	mux := newTestMux(t)
	id := createSession(t, mux)

	w := do(t, mux, http.MethodPost, "/api/checkout/"+id+"/scan", `{"sku":"dvd"}`)
	require.Equal(t, http.StatusNotFound, w.Code)

	resp := decode[errorResponse](t, w)
	assert.Equal(t, http.StatusNotFound, resp.Code)
	assert.Contains(t, resp.Message, "dvd")
}

func TestScanItem_InvalidBody(t *testing.T) {
	mux := newTestMux(t)
	id := createSession(t, mux)

	tests := []struct {
		name string
		body string
	}{
		{"not json", "not-json"},
		{"missing sku", `{}`},
		{"empty sku", `{"sku":""}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(t, mux, http.MethodPost, "/api/checkout/"+id+"/scan", tt.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
}

func TestScanItem_InvalidSessionID(t *testing.T) {
	mux := newTestMux(t)

	w := do(t, mux, http.MethodPost, "/api/checkout/not-a-uuid/scan", `{"sku":"atv"}`)
	require.Equal(t, http.StatusBadRequest, w.Code)

	resp := decode[errorResponse](t, w)
	assert.Contains(t, resp.Message, "UUID")
}

func TestScanItem_SessionNotFound(t *testing.T) {
	mux := newTestMux(t)

	w := do(t, mux, http.MethodPost,
		"/api/checkout/3c62cb2e-9a22-4f76-a7b3-54a94c98f4c6/scan", `{"sku":"atv"}`)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSessionTotal(t *testing.T) {
	mux := newTestMux(t)
	id := createSession(t, mux)

	for _, sku := range []string{"atv", "atv", "atv", "vga"} {
		w := do(t, mux, http.MethodPost, "/api/checkout/"+id+"/scan", `{"sku":"`+sku+`"}`)
		require.Equal(t, http.StatusOK, w.Code)
	}

	w := do(t, mux, http.MethodGet, "/api/checkout/"+id+"/total", "")
	require.Equal(t, http.StatusOK, w.Code)

	resp := decode[totalResponse](t, w)
	assert.Equal(t, id, resp.SessionID)
	assert.InDelta(t, 249.00, resp.Total, 0.001)
	require.Len(t, resp.CartItems, 2)
	assert.Equal(t, 3, resp.CartItems[0].Quantity)
}

func TestSessionTotal_EmptyCart(t *testing.T) {
	mux := newTestMux(t)
	id := createSession(t, mux)

	w := do(t, mux, http.MethodGet, "/api/checkout/"+id+"/total", "")
	require.Equal(t, http.StatusOK, w.Code)

	resp := decode[totalResponse](t, w)
	assert.Zero(t, resp.Total)
	assert.Empty(t, resp.CartItems)
}

func TestDeleteSession(t *testing.T) {
	mux := newTestMux(t)
	id := createSession(t, mux)

	w := do(t, mux, http.MethodDelete, "/api/checkout/"+id, "")
	require.Equal(t, http.StatusOK, w.Code)

	// Gone now: total on the deleted session is a 404.
	w = do(t, mux, http.MethodGet, "/api/checkout/"+id+"/total", "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	// And a second delete reports not found.
	w = do(t, mux, http.MethodDelete, "/api/checkout/"+id, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestListProducts(t *testing.T) {
	mux := newTestMux(t)

	w := do(t, mux, http.MethodGet, "/api/products", "")
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Products []productResponse `json:"products"`
		Count    int               `json:"count"`
	}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Equal(t, 4, resp.Count)
	require.Len(t, resp.Products, 4)
	assert.Equal(t, "ipd", resp.Products[0].SKU)
	assert.InDelta(t, 549.99, resp.Products[0].Price, 0.001)
}

func TestGetProduct(t *testing.T) {
	mux := newTestMux(t)

	w := do(t, mux, http.MethodGet, "/api/products/mbp", "")
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Product productResponse `json:"product"`
	}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Equal(t, "MacBook Pro", resp.Product.Name)
	assert.InDelta(t, 1399.99, resp.Product.Price, 0.001)
}

func TestGetProduct_NotFound(t *testing.T) {
	mux := newTestMux(t)

	w := do(t, mux, http.MethodGet, "/api/products/dvd", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestListRules(t *testing.T) {
	mux := newTestMux(t)

	w := do(t, mux, http.MethodGet, "/api/pricing-rules", "")
	require.Equal(t, http.StatusOK, w.Code)

	resp := decode[rulesResponse](t, w)
	assert.Equal(t, 2, resp.Count)
	require.Len(t, resp.PricingRules, 2)
	assert.Equal(t, "atv", resp.PricingRules[0].SKU)
	assert.Equal(t, "quantity_based", resp.PricingRules[0].Type)
	assert.Equal(t, "ipd", resp.PricingRules[1].SKU)
	assert.Equal(t, "bulk_threshold", resp.PricingRules[1].Type)
}
