package api

import (
	"net/http"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"

	"github.com/xenking/pos-checkout/internal/catalog"
)

// listProducts handles GET /api/products.
func (h *Handler) listProducts(w http.ResponseWriter, r *http.Request) {
	products := h.service.Catalog().List()

	writeJSON(w, http.StatusOK, func(e *jx.Encoder) {
		e.ObjStart()
		e.FieldStart("products")
		e.ArrStart()
		for _, p := range products {
			encodeProduct(e, p)
		}
		e.ArrEnd()
		e.FieldStart("count")
		e.Int(len(products))
		e.ObjEnd()
	})
}

// getProduct handles GET /api/products/{sku}.
func (h *Handler) getProduct(w http.ResponseWriter, r *http.Request) {
	sku := r.PathValue("sku")

	p, err := h.service.Catalog().Lookup(sku)
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			writeError(w, http.StatusNotFound, "product not found")
			return
		}
		writeServiceError(r.Context(), w, err)
		return
	}

	writeJSON(w, http.StatusOK, func(e *jx.Encoder) {
		e.ObjStart()
		e.FieldStart("product")
		encodeProduct(e, p)
		e.ObjEnd()
	})
}
