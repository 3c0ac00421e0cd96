package orders

import (
	"time"

	"github.com/angelmondragon/casecraft-backend/pkg/db/models"
	"github.com/angelmondragon/casecraft-backend/pkg/enums"
	"github.com/angelmondragon/casecraft-backend/pkg/types"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SubmitInput is an order as the storefront sends it.
type SubmitInput struct {
	DesignID    uuid.UUID
	Customer    types.CustomerInfo
	MaterialID  string
	ShippingID  string
	Quantity    int
	TotalAmount decimal.Decimal
}

// OrderDTO is the public shape of an order.
type OrderDTO struct {
	ID          uuid.UUID          `json:"id"`
	DesignID    uuid.UUID          `json:"design_id"`
	Customer    types.CustomerInfo `json:"customer_info"`
	MaterialID  string             `json:"material_id,omitempty"`
	ShippingID  string             `json:"shipping_id,omitempty"`
	Quantity    int                `json:"quantity"`
	TotalAmount decimal.Decimal    `json:"total_amount"`
	Currency    enums.Currency     `json:"currency"`
	Status      enums.OrderStatus  `json:"status"`
	CreatedAt   time.Time          `json:"created_at"`
}

func toDTO(m *models.Order) *OrderDTO {
	return &OrderDTO{
		ID:          m.ID,
		DesignID:    m.DesignID,
		Customer:    m.Customer,
		MaterialID:  m.MaterialID,
		ShippingID:  m.ShippingID,
		Quantity:    m.Quantity,
		TotalAmount: m.TotalAmount,
		Currency:    m.Currency,
		Status:      m.Status,
		CreatedAt:   m.CreatedAt,
	}
}
