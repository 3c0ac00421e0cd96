// Package sessions exposes the customization engine over HTTP. Every handler
// answers with the full session view so clients never reconcile partial state.
package sessions

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/angelmondragon/casecraft-backend/api/responses"
	"github.com/angelmondragon/casecraft-backend/api/validators"
	"github.com/angelmondragon/casecraft-backend/internal/catalog"
	"github.com/angelmondragon/casecraft-backend/internal/placement"
	"github.com/angelmondragon/casecraft-backend/internal/session"
	"github.com/angelmondragon/casecraft-backend/internal/workflow"
	pkgerrors "github.com/angelmondragon/casecraft-backend/pkg/errors"
	"github.com/angelmondragon/casecraft-backend/pkg/logger"
	"github.com/angelmondragon/casecraft-backend/pkg/types"
)

// Registry is the session store the handlers read from.
type Registry interface {
	Create(ctx context.Context) (*session.Engine, error)
	Get(id string) (*session.Engine, error)
	Delete(ctx context.Context, id string)
}

type selectModelRequest struct {
	ModelID string `json:"model_id" validate:"required"`
}

type selectDesignRequest struct {
	DesignID string `json:"design_id" validate:"required"`
}

type uploadDesignRequest struct {
	ImageURL string `json:"image_url" validate:"required"`
}

type placementRequest struct {
	X        int     `json:"x"`
	Y        int     `json:"y"`
	Scale    float64 `json:"scale"`
	Rotation int     `json:"rotation"`
}

type pricingRequest struct {
	MaterialID *string `json:"material_id"`
	Quantity   *int    `json:"quantity"`
	ShippingID *string `json:"shipping_id"`
}

type stepRequest struct {
	Step int `json:"step" validate:"required"`
}

type completeRequest struct {
	CustomerInfo types.CustomerInfo `json:"customer_info" validate:"-"`
}

type sessionResponse struct {
	Session session.View `json:"session"`
}

type completeResponse struct {
	Order   session.OrderReceipt `json:"order"`
	Session session.View         `json:"session"`
}

func Create(reg Registry, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		engine, err := reg.Create(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, sessionResponse{Session: engine.View()})
	}
}

func Get(reg Registry, logg *logger.Logger) http.HandlerFunc {
	return withEngine(reg, logg, func(w http.ResponseWriter, r *http.Request, engine *session.Engine) {
		responses.WriteSuccess(w, sessionResponse{Session: engine.View()})
	})
}

func Delete(reg Registry, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := sessionID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		reg.Delete(r.Context(), id)
		w.WriteHeader(http.StatusNoContent)
	}
}

// SelectModel resolves the model against the catalog before handing it to the
// session, so unknown ids never reach the engine.
func SelectModel(reg Registry, cat catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return withEngine(reg, logg, func(w http.ResponseWriter, r *http.Request, engine *session.Engine) {
		var payload selectModelRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		model, err := cat.FindPhoneModel(r.Context(), validators.SanitizeString(payload.ModelID, 64))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		writeView(w, r, logg)(engine.SelectModel(r.Context(), model))
	})
}

func SelectDesign(reg Registry, cat catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return withEngine(reg, logg, func(w http.ResponseWriter, r *http.Request, engine *session.Engine) {
		var payload selectDesignRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		design, err := cat.FindDesign(r.Context(), validators.SanitizeString(payload.DesignID, 64))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		writeView(w, r, logg)(engine.SelectDesign(r.Context(), design))
	})
}

// UploadDesign takes an image URL previously returned by the upload endpoint.
func UploadDesign(reg Registry, logg *logger.Logger) http.HandlerFunc {
	return withEngine(reg, logg, func(w http.ResponseWriter, r *http.Request, engine *session.Engine) {
		var payload uploadDesignRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		writeView(w, r, logg)(engine.UploadDesign(r.Context(), validators.SanitizeString(payload.ImageURL, 2048)))
	})
}

// ApplyPlacement leaves bound checks to the engine so out-of-range values
// surface as placement errors.
func ApplyPlacement(reg Registry, logg *logger.Logger) http.HandlerFunc {
	return withEngine(reg, logg, func(w http.ResponseWriter, r *http.Request, engine *session.Engine) {
		var payload placementRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		p := placement.Placement{X: payload.X, Y: payload.Y, Scale: payload.Scale, Rotation: payload.Rotation}
		writeView(w, r, logg)(engine.ApplyPlacement(r.Context(), p))
	})
}

func Undo(reg Registry, logg *logger.Logger) http.HandlerFunc {
	return simple(reg, logg, (*session.Engine).Undo)
}

func Redo(reg Registry, logg *logger.Logger) http.HandlerFunc {
	return simple(reg, logg, (*session.Engine).Redo)
}

func ResetPlacement(reg Registry, logg *logger.Logger) http.HandlerFunc {
	return simple(reg, logg, (*session.Engine).ResetPlacement)
}

func Lock(reg Registry, logg *logger.Logger) http.HandlerFunc {
	return simple(reg, logg, (*session.Engine).Lock)
}

func Unlock(reg Registry, logg *logger.Logger) http.HandlerFunc {
	return simple(reg, logg, (*session.Engine).Unlock)
}

// SetPricing applies any subset of material, quantity and shipping. Omitted
// fields keep their current values and the change is all-or-nothing.
func SetPricing(reg Registry, logg *logger.Logger) http.HandlerFunc {
	return withEngine(reg, logg, func(w http.ResponseWriter, r *http.Request, engine *session.Engine) {
		var payload pricingRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		update := session.PricingUpdate{Quantity: payload.Quantity}
		if payload.MaterialID != nil {
			id := strings.TrimSpace(*payload.MaterialID)
			update.MaterialID = &id
		}
		if payload.ShippingID != nil {
			id := strings.TrimSpace(*payload.ShippingID)
			update.ShippingID = &id
		}
		writeView(w, r, logg)(engine.UpdatePricing(r.Context(), update))
	})
}

func EnterStep(reg Registry, logg *logger.Logger) http.HandlerFunc {
	return withEngine(reg, logg, func(w http.ResponseWriter, r *http.Request, engine *session.Engine) {
		var payload stepRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		step, err := workflow.ParseStep(payload.Step)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid step").
				WithDetails(map[string]any{"step": payload.Step}))
			return
		}
		writeView(w, r, logg)(engine.EnterStep(r.Context(), step))
	})
}

func Commit(reg Registry, logg *logger.Logger) http.HandlerFunc {
	return simple(reg, logg, (*session.Engine).CommitPlacement)
}

// Complete submits the order. The response carries the receipt and the
// session view after it was reset for the next case.
func Complete(reg Registry, logg *logger.Logger) http.HandlerFunc {
	return withEngine(reg, logg, func(w http.ResponseWriter, r *http.Request, engine *session.Engine) {
		var payload completeRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		receipt, view, err := engine.CompleteOrder(r.Context(), payload.CustomerInfo)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, completeResponse{Order: receipt, Session: view})
	})
}

func simple(reg Registry, logg *logger.Logger, op func(*session.Engine, context.Context) (session.View, error)) http.HandlerFunc {
	return withEngine(reg, logg, func(w http.ResponseWriter, r *http.Request, engine *session.Engine) {
		writeView(w, r, logg)(op(engine, r.Context()))
	})
}

func withEngine(reg Registry, logg *logger.Logger, fn func(http.ResponseWriter, *http.Request, *session.Engine)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := sessionID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		engine, err := reg.Get(id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if logg != nil {
			r = r.WithContext(logg.WithSessionID(r.Context(), id))
		}
		fn(w, r, engine)
	}
}

func writeView(w http.ResponseWriter, r *http.Request, logg *logger.Logger) func(session.View, error) {
	return func(view session.View, err error) {
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, sessionResponse{Session: view})
	}
}

func sessionID(r *http.Request) (string, error) {
	id := strings.TrimSpace(chi.URLParam(r, "sessionId"))
	if id == "" {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "session id is required")
	}
	return id, nil
}
