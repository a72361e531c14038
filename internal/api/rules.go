package api

import (
	"net/http"

	"github.com/go-faster/jx"
)

// listRules handles GET /api/pricing-rules. It exposes each configured rule's
// SKU, name, and strategy kind for introspection.
func (h *Handler) listRules(w http.ResponseWriter, r *http.Request) {
	rules := h.service.Rules()

	writeJSON(w, http.StatusOK, func(e *jx.Encoder) {
		e.ObjStart()
		e.FieldStart("pricingRules")
		e.ArrStart()
		for _, rule := range rules {
			e.ObjStart()
			e.FieldStart("sku")
			e.Str(rule.SKU())
			e.FieldStart("name")
			e.Str(rule.Name())
			e.FieldStart("type")
			e.Str(string(rule.Kind()))
			e.ObjEnd()
		}
		e.ArrEnd()
		e.FieldStart("count")
		e.Int(len(rules))
		e.ObjEnd()
	})
}
