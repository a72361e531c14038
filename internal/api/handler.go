// Package api is the HTTP adapter over the checkout service. It owns request
// decoding, response encoding, parameter validation, and the mapping of
// domain errors to status codes; no pricing or session logic lives here.
package api

import (
	"net/http"

	"github.com/go-faster/errors"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/xenking/pos-checkout/internal/checkout"
)

// Handler serves the checkout API.
type Handler struct {
	service *checkout.Service
	tracer  trace.Tracer

	scannedItems   metric.Int64Counter
	activeSessions metric.Int64UpDownCounter
}

// NewHandler constructs a Handler around the checkout service, creating its
// telemetry instruments from the given providers.
func NewHandler(svc *checkout.Service, tp trace.TracerProvider, mp metric.MeterProvider) (*Handler, error) {
	meter := mp.Meter("pos-checkout/api")

	scanned, err := meter.Int64Counter("checkout.items.scanned",
		metric.WithDescription("Items scanned into carts"))
	if err != nil {
		return nil, errors.Wrap(err, "create scanned counter")
	}
	active, err := meter.Int64UpDownCounter("checkout.sessions.active",
		metric.WithDescription("Live checkout sessions"))
	if err != nil {
		return nil, errors.Wrap(err, "create sessions counter")
	}

	return &Handler{
		service:        svc,
		tracer:         tp.Tracer("pos-checkout/api"),
		scannedItems:   scanned,
		activeSessions: active,
	}, nil
}

// Register mounts all API routes on the given mux.
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/checkout", h.createSession)
	mux.HandleFunc("POST /api/checkout/{sessionId}/scan", h.scanItem)
	mux.HandleFunc("GET /api/checkout/{sessionId}/total", h.sessionTotal)
	mux.HandleFunc("DELETE /api/checkout/{sessionId}", h.deleteSession)
	mux.HandleFunc("GET /api/products", h.listProducts)
	mux.HandleFunc("GET /api/products/{sku}", h.getProduct)
	mux.HandleFunc("GET /api/pricing-rules", h.listRules)
}
