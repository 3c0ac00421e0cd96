package catalog

import "github.com/angelmondragon/casecraft-backend/pkg/enums"

// Dimensions are the physical phone dimensions in millimetres.
type Dimensions struct {
	Width     float64 `json:"width"`
	Height    float64 `json:"height"`
	Thickness float64 `json:"thickness"`
}

// PhoneModel is immutable reference data; sessions hold pointers to it.
type PhoneModel struct {
	ID         string      `json:"id"`
	Name       string      `json:"name"`
	Brand      string      `json:"brand"`
	ImageURL   string      `json:"image_url"`
	Dimensions *Dimensions `json:"dimensions,omitempty"`
	Popular    bool        `json:"popular"`
}

// DesignAsset is an artwork that can be placed on a case.
type DesignAsset struct {
	ID           string             `json:"id"`
	Title        string             `json:"title"`
	ImageURL     string             `json:"image_url"`
	ThumbnailURL string             `json:"thumbnail_url,omitempty"`
	Origin       enums.DesignOrigin `json:"origin"`
	Category     string             `json:"category,omitempty"`
	Trending     bool               `json:"trending"`
	Customizable bool               `json:"customizable"`
}

// UploadedDesignID is the id given to every design synthesized from an upload.
const UploadedDesignID = "custom-upload"

// NewUploadedDesign wraps an opaque image reference as a design asset. The
// reference is not inspected.
func NewUploadedDesign(imageRef string) *DesignAsset {
	return &DesignAsset{
		ID:           UploadedDesignID,
		Title:        "Your image",
		ImageURL:     imageRef,
		Origin:       enums.DesignOriginUpload,
		Customizable: true,
	}
}
