package orders

import (
	"context"

	"github.com/angelmondragon/casecraft-backend/pkg/db/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository defines persistence operations for the orders table.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, order *models.Order) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error)
	Count(ctx context.Context) (int64, error)
}

// DesignChecker reports whether a committed design exists.
type DesignChecker interface {
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
}
