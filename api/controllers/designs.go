package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/angelmondragon/casecraft-backend/api/responses"
	"github.com/angelmondragon/casecraft-backend/api/validators"
	"github.com/angelmondragon/casecraft-backend/internal/designs"
	"github.com/angelmondragon/casecraft-backend/internal/placement"
	"github.com/angelmondragon/casecraft-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/casecraft-backend/pkg/errors"
	"github.com/angelmondragon/casecraft-backend/pkg/logger"
)

type positionRequest struct {
	X        int     `json:"x" validate:"min=-50,max=50"`
	Y        int     `json:"y" validate:"min=-50,max=50"`
	Scale    float64 `json:"scale" validate:"min=0.1,max=3"`
	Rotation int     `json:"rotation" validate:"min=-180,max=180"`
}

type createDesignRequest struct {
	PhoneModel      string           `json:"phone_model" validate:"required"`
	DesignType      string           `json:"design_type" validate:"required,oneof=gallery upload"`
	GalleryDesignID string           `json:"gallery_design_id"`
	ImageURL        string           `json:"image_url" validate:"required"`
	Position        *positionRequest `json:"position"`
	TextOverlay     map[string]any   `json:"text_overlay"`
}

func (p *positionRequest) placement() placement.Placement {
	if p == nil {
		return placement.Default()
	}
	return placement.Placement{X: p.X, Y: p.Y, Scale: p.Scale, Rotation: p.Rotation}
}

// CreateDesign stores a design outside of a session. A missing position
// defaults to the identity placement.
func CreateDesign(svc designs.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload createDesignRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		design, err := svc.Create(r.Context(), designs.CreateInput{
			PhoneModelID:    validators.SanitizeString(payload.PhoneModel, 64),
			DesignType:      enums.DesignOrigin(payload.DesignType),
			GalleryDesignID: validators.SanitizeString(payload.GalleryDesignID, 64),
			ImageURL:        validators.SanitizeString(payload.ImageURL, 2048),
			Position:        payload.Position.placement(),
			TextOverlay:     payload.TextOverlay,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, map[string]any{"success": true, "design": design})
	}
}

func GetDesign(svc designs.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := parseUUIDParam(r, "designId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		design, err := svc.Get(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"design": design})
	}
}

func parseUUIDParam(r *http.Request, name string) (uuid.UUID, error) {
	raw := strings.TrimSpace(chi.URLParam(r, name))
	if raw == "" {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeValidation, name+" is required")
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid "+name)
	}
	return id, nil
}
