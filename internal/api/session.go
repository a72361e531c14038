package api

import (
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// maxScanBodySize bounds the scan request body; the payload is a single SKU.
const maxScanBodySize = 4 << 10

// createSession handles POST /api/checkout.
func (h *Handler) createSession(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "Checkout.CreateSession")
	defer span.End()

	s := h.service.CreateSession(ctx)
	h.activeSessions.Add(ctx, 1)

	writeJSON(w, http.StatusCreated, func(e *jx.Encoder) {
		e.ObjStart()
		e.FieldStart("sessionId")
		e.Str(s.ID)
		e.FieldStart("createdAt")
		e.Str(s.CreatedAt.UTC().Format(time.RFC3339Nano))
		e.FieldStart("message")
		e.Str("Checkout session created successfully")
		e.ObjEnd()
	})
}

// scanItem handles POST /api/checkout/{sessionId}/scan.
func (h *Handler) scanItem(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := sessionIDParam(w, r)
	if !ok {
		return
	}

	sku, err := decodeScanRequest(r.Body)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	ctx, span := h.tracer.Start(r.Context(), "Checkout.ScanItem",
		trace.WithAttributes(attribute.String("checkout.sku", sku)))
	defer span.End()

	items, err := h.service.ScanItem(ctx, sessionID, sku)
	if err != nil {
		writeServiceError(ctx, w, err)
		return
	}
	h.scannedItems.Add(ctx, 1, metric.WithAttributes(attribute.String("sku", sku)))

	writeJSON(w, http.StatusOK, func(e *jx.Encoder) {
		e.ObjStart()
		e.FieldStart("sessionId")
		e.Str(sessionID)
		e.FieldStart("cartItems")
		encodeCartItems(e, items)
		e.FieldStart("message")
		e.Str(fmt.Sprintf("Item %s scanned successfully", sku))
		e.ObjEnd()
	})
}

// sessionTotal handles GET /api/checkout/{sessionId}/total.
func (h *Handler) sessionTotal(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := sessionIDParam(w, r)
	if !ok {
		return
	}

	ctx, span := h.tracer.Start(r.Context(), "Checkout.SessionDetails")
	defer span.End()

	details, err := h.service.SessionDetails(ctx, sessionID)
	if err != nil {
		writeServiceError(ctx, w, err)
		return
	}

	writeJSON(w, http.StatusOK, func(e *jx.Encoder) {
		e.ObjStart()
		e.FieldStart("sessionId")
		e.Str(sessionID)
		e.FieldStart("cartItems")
		encodeCartItems(e, details.Items)
		e.FieldStart("total")
		e.Float64(details.Total.InexactFloat64())
		e.ObjEnd()
	})
}

// deleteSession handles DELETE /api/checkout/{sessionId}.
func (h *Handler) deleteSession(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := sessionIDParam(w, r)
	if !ok {
		return
	}

	ctx, span := h.tracer.Start(r.Context(), "Checkout.DeleteSession")
	defer span.End()

	if !h.service.DeleteSession(ctx, sessionID) {
		writeError(w, http.StatusNotFound, "Checkout session not found")
		return
	}
	h.activeSessions.Add(ctx, -1)

	writeJSON(w, http.StatusOK, func(e *jx.Encoder) {
		e.ObjStart()
		e.FieldStart("message")
		e.Str("Checkout session deleted successfully")
		e.ObjEnd()
	})
}

// sessionIDParam extracts and validates the sessionId path parameter. On
// failure it writes a 400 response and returns ok=false.
func sessionIDParam(w http.ResponseWriter, r *http.Request) (string, bool) {
	id := r.PathValue("sessionId")
	if _, err := uuid.Parse(id); err != nil {
		writeError(w, http.StatusBadRequest, "sessionId must be a valid UUID")
		return "", false
	}
	return id, true
}

// decodeScanRequest parses the scan request body {"sku":"..."}.
func decodeScanRequest(body io.Reader) (string, error) {
	data, err := io.ReadAll(io.LimitReader(body, maxScanBodySize))
	if err != nil {
		return "", errors.Wrap(err, "read body")
	}

	var sku string
	d := jx.DecodeBytes(data)
	if err := d.Obj(func(d *jx.Decoder, key string) error {
		switch key {
		case "sku":
			v, err := d.Str()
			sku = v
			return err
		default:
			return d.Skip()
		}
	}); err != nil {
		return "", errors.New("request body must be a JSON object with a sku field")
	}
	if sku == "" {
		return "", errors.New("sku is required")
	}
	return sku, nil
}
