package api

import (
	"context"
	"net/http"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"

	"github.com/xenking/pos-checkout/internal/cart"
	"github.com/xenking/pos-checkout/internal/catalog"
	"github.com/xenking/pos-checkout/internal/checkout"
)

// writeJSON encodes a response body with jx and writes it with the given
// status code.
func writeJSON(w http.ResponseWriter, status int, encode func(e *jx.Encoder)) {
	e := &jx.Encoder{}
	encode(e)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(e.Bytes())
}

// writeError writes the standard error body {"code":N,"message":"..."}.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, func(e *jx.Encoder) {
		e.ObjStart()
		e.FieldStart("code")
		e.Int(status)
		e.FieldStart("message")
		e.Str(message)
		e.ObjEnd()
	})
}

// writeServiceError maps checkout errors to status codes: not-found kinds to
// 404, anything unexpected to 500. Unexpected errors are logged, never leaked.
func writeServiceError(ctx context.Context, w http.ResponseWriter, err error) {
	var (
		productErr *checkout.ProductNotFoundError
		sessionErr *checkout.SessionNotFoundError
	)
	switch {
	case errors.As(err, &productErr):
		writeError(w, http.StatusNotFound, productErr.Error())
	case errors.As(err, &sessionErr):
		writeError(w, http.StatusNotFound, sessionErr.Error())
	default:
		zctx.From(ctx).Error("Unhandled service error", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}

func encodeProduct(e *jx.Encoder, p catalog.Product) {
	e.ObjStart()
	e.FieldStart("sku")
	e.Str(p.SKU)
	e.FieldStart("name")
	e.Str(p.Name)
	e.FieldStart("price")
	e.Float64(p.Price.InexactFloat64())
	e.ObjEnd()
}

func encodeCartItems(e *jx.Encoder, items []cart.Item) {
	e.ArrStart()
	for _, item := range items {
		e.ObjStart()
		e.FieldStart("product")
		encodeProduct(e, item.Product)
		e.FieldStart("quantity")
		e.Int(item.Quantity)
		e.ObjEnd()
	}
	e.ArrEnd()
}
