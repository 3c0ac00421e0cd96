package designs

import (
	"time"

	"github.com/angelmondragon/casecraft-backend/internal/placement"
	"github.com/angelmondragon/casecraft-backend/pkg/db/models"
	"github.com/angelmondragon/casecraft-backend/pkg/enums"
	"github.com/google/uuid"
)

// CreateInput is a design ready to be stored.
type CreateInput struct {
	PhoneModelID    string
	DesignType      enums.DesignOrigin
	GalleryDesignID string
	ImageURL        string
	Position        placement.Placement
	TextOverlay     map[string]any
}

// DesignDTO is the public shape of a committed design.
type DesignDTO struct {
	ID              uuid.UUID           `json:"id"`
	PhoneModelID    string              `json:"phone_model_id"`
	DesignType      enums.DesignOrigin  `json:"design_type"`
	GalleryDesignID *string             `json:"gallery_design_id,omitempty"`
	ImageURL        string              `json:"image_url"`
	Position        placement.Placement `json:"position"`
	TextOverlay     map[string]any      `json:"text_overlay,omitempty"`
	CreatedAt       time.Time           `json:"created_at"`
}

func toDTO(m *models.CustomDesign) *DesignDTO {
	dto := &DesignDTO{
		ID:              m.ID,
		PhoneModelID:    m.PhoneModelID,
		DesignType:      m.DesignType,
		GalleryDesignID: m.GalleryDesignID,
		ImageURL:        m.ImageURL,
		Position: placement.Placement{
			X:        m.Position.X,
			Y:        m.Position.Y,
			Scale:    m.Position.Scale,
			Rotation: m.Position.Rotation,
		},
		CreatedAt: m.CreatedAt,
	}
	if m.TextOverlay != nil {
		dto.TextOverlay = map[string]any(m.TextOverlay)
	}
	return dto
}
