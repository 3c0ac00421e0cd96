package session

import (
	"github.com/angelmondragon/casecraft-backend/internal/catalog"
	"github.com/angelmondragon/casecraft-backend/internal/placement"
	"github.com/angelmondragon/casecraft-backend/internal/pricing"
	"github.com/angelmondragon/casecraft-backend/internal/workflow"
)

// View is the complete derived state of a session. Every mutation returns one
// and observers receive one, so consumers never see a partial update.
type View struct {
	SessionID      string               `json:"session_id"`
	Step           workflow.Step        `json:"step"`
	CompletedSteps []workflow.Step      `json:"completed_steps"`
	Model          *catalog.PhoneModel  `json:"model"`
	Design         *catalog.DesignAsset `json:"design"`
	Placement      placement.Placement  `json:"placement"`
	Locked         bool                 `json:"locked"`
	CanUndo        bool                 `json:"can_undo"`
	CanRedo        bool                 `json:"can_redo"`
	MaterialID     string               `json:"material_id"`
	Quantity       int                  `json:"quantity"`
	ShippingID     string               `json:"shipping_id"`
	Quote          pricing.Quote        `json:"quote"`
	DesignID       *string              `json:"design_id"`
	Pending        bool                 `json:"pending"`
}

// Observer receives every emitted view. Observers must not call mutating
// engine methods synchronously; reading View is fine.
type Observer func(View)

// OrderReceipt describes a completed order.
type OrderReceipt struct {
	OrderID  string        `json:"order_id"`
	DesignID string        `json:"design_id"`
	Quote    pricing.Quote `json:"quote"`
}
