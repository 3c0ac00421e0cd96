package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/angelmondragon/casecraft-backend/pkg/enums"
	"github.com/angelmondragon/casecraft-backend/pkg/types"
)

// CustomDesign is a committed case design: the chosen model, artwork and
// where the artwork sits on the case.
type CustomDesign struct {
	ID              uuid.UUID            `gorm:"column:id;type:uuid;primaryKey"`
	PhoneModelID    string               `gorm:"column:phone_model_id;not null;index"`
	DesignType      enums.DesignOrigin   `gorm:"column:design_type;type:text;not null"`
	GalleryDesignID *string              `gorm:"column:gallery_design_id"`
	ImageURL        string               `gorm:"column:image_url;not null"`
	Position        types.DesignPosition `gorm:"column:position;type:jsonb;not null"`
	TextOverlay     types.JSONMap        `gorm:"column:text_overlay;type:jsonb"`
	CreatedAt       time.Time            `gorm:"column:created_at;autoCreateTime"`
}
