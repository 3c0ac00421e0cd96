package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/angelmondragon/casecraft-backend/api/responses"
	"github.com/angelmondragon/casecraft-backend/api/validators"
	"github.com/angelmondragon/casecraft-backend/internal/orders"
	"github.com/angelmondragon/casecraft-backend/internal/pricing"
	pkgerrors "github.com/angelmondragon/casecraft-backend/pkg/errors"
	"github.com/angelmondragon/casecraft-backend/pkg/logger"
	"github.com/angelmondragon/casecraft-backend/pkg/types"
)

type createOrderRequest struct {
	DesignID     string             `json:"design_id" validate:"required,uuid"`
	CustomerInfo types.CustomerInfo `json:"customer_info" validate:"-"`
	MaterialID   string             `json:"material_id"`
	ShippingID   string             `json:"shipping_id"`
	Quantity     int                `json:"quantity" validate:"omitempty,min=1"`
}

// CreateOrder places an order for a stored design. The total is quoted from
// the pricing table using the submitted selection, defaulting any blank field.
func CreateOrder(svc orders.Service, table *pricing.Table, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload createOrderRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		designID, err := uuid.Parse(payload.DesignID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid design_id"))
			return
		}

		quote, err := quoteSelection(table, payload.MaterialID, payload.Quantity, payload.ShippingID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := svc.Submit(r.Context(), orders.SubmitInput{
			DesignID:    designID,
			Customer:    payload.CustomerInfo,
			MaterialID:  quote.MaterialID,
			ShippingID:  quote.ShippingID,
			Quantity:    quote.Quantity,
			TotalAmount: quote.TotalAmount,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, map[string]any{"success": true, "order": order, "quote": quote})
	}
}

func GetOrder(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := parseUUIDParam(r, "orderId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		order, err := svc.Get(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"order": order})
	}
}

func quoteSelection(table *pricing.Table, materialID string, quantity int, shippingID string) (pricing.Quote, error) {
	if materialID = validators.SanitizeString(materialID, 64); materialID == "" {
		materialID = table.DefaultMaterialID()
	}
	if shippingID = validators.SanitizeString(shippingID, 64); shippingID == "" {
		shippingID = table.CheapestShippingID()
	}
	if quantity == 0 {
		quantity = 1
	}
	return table.Quote(materialID, quantity, shippingID)
}
