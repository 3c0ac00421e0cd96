package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/casecraft-backend/pkg/enums"
	"github.com/angelmondragon/casecraft-backend/pkg/types"
)

// Order is a submitted case order. Amounts are the client quote recorded at
// submission time.
type Order struct {
	ID          uuid.UUID          `gorm:"column:id;type:uuid;primaryKey"`
	DesignID    uuid.UUID          `gorm:"column:design_id;type:uuid;not null;index"`
	Customer    types.CustomerInfo `gorm:"column:customer_info;type:jsonb;not null"`
	MaterialID  string             `gorm:"column:material_id"`
	ShippingID  string             `gorm:"column:shipping_id"`
	Quantity    int                `gorm:"column:quantity;not null;default:1"`
	TotalAmount decimal.Decimal    `gorm:"column:total_amount;type:numeric(10,2);not null;default:0"`
	Currency    enums.Currency     `gorm:"column:currency;type:text;not null;default:'BRL'"`
	Status      enums.OrderStatus  `gorm:"column:status;type:text;not null;default:'pending'"`
	CreatedAt   time.Time          `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time          `gorm:"column:updated_at;autoUpdateTime"`
}
