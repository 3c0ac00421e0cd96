package designs

import (
	"context"

	"github.com/angelmondragon/casecraft-backend/internal/repo"
	"github.com/angelmondragon/casecraft-backend/pkg/db/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository persists committed designs.
type Repository struct {
	repo.Base
}

// NewRepository constructs a designs repository bound to the provided gorm DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{Base: repo.NewBase(db)}
}

func (r *Repository) Create(ctx context.Context, design *models.CustomDesign) error {
	return r.DB(ctx).Create(design).Error
}

// FindByID returns gorm.ErrRecordNotFound when the design does not exist.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.CustomDesign, error) {
	var design models.CustomDesign
	if err := r.DB(ctx).Where("id = ?", id).First(&design).Error; err != nil {
		return nil, err
	}
	return &design, nil
}

func (r *Repository) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	var count int64
	if err := r.DB(ctx).Model(&models.CustomDesign{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *Repository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.DB(ctx).Model(&models.CustomDesign{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
