package controllers

import (
	"net/http"
	"strings"

	"github.com/angelmondragon/casecraft-backend/api/responses"
	"github.com/angelmondragon/casecraft-backend/api/validators"
	"github.com/angelmondragon/casecraft-backend/internal/pricing"
	"github.com/angelmondragon/casecraft-backend/pkg/logger"
)

const maxQuoteQuantity = 10000

// PricingTable returns the rule table the storefront prices against.
func PricingTable(table *pricing.Table) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteSuccess(w, map[string]any{
			"materials":             table.Materials(),
			"shipping_options":      table.ShippingOptions(),
			"discount_bands":        table.Bands(),
			"default_material_id":   table.DefaultMaterialID(),
			"default_shipping_id":   table.CheapestShippingID(),
			"free_shipping_min_qty": pricing.FreeShippingMinQty,
		})
	}
}

// PricingQuote prices material, quantity and shipping from the query string,
// falling back to the table defaults for anything omitted.
func PricingQuote(table *pricing.Table, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		quantity, err := validators.ParseQueryInt(r, "quantity", 1, 1, maxQuoteQuantity)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		materialID := validators.SanitizeString(r.URL.Query().Get("material"), 64)
		if materialID == "" {
			materialID = table.DefaultMaterialID()
		}
		shippingID := strings.TrimSpace(r.URL.Query().Get("shipping"))
		if shippingID == "" {
			shippingID = table.CheapestShippingID()
		}

		quote, err := table.Quote(materialID, quantity, validators.SanitizeString(shippingID, 64))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"quote": quote})
	}
}
