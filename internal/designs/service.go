package designs

import (
	"context"
	"errors"
	"strings"

	"github.com/angelmondragon/casecraft-backend/internal/catalog"
	"github.com/angelmondragon/casecraft-backend/pkg/db"
	"github.com/angelmondragon/casecraft-backend/pkg/db/models"
	"github.com/angelmondragon/casecraft-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/casecraft-backend/pkg/errors"
	"github.com/angelmondragon/casecraft-backend/pkg/logger"
	"github.com/angelmondragon/casecraft-backend/pkg/types"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ModelLookup resolves phone model ids against the catalog.
type ModelLookup interface {
	FindPhoneModel(ctx context.Context, id string) (*catalog.PhoneModel, error)
}

// ServiceParams groups dependencies for the designs service.
type ServiceParams struct {
	Repo    *Repository
	Catalog ModelLookup
	Logger  *logger.Logger
}

// Service stores and reads committed designs.
type Service interface {
	Create(ctx context.Context, input CreateInput) (*DesignDTO, error)
	Get(ctx context.Context, id uuid.UUID) (*DesignDTO, error)
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
	Count(ctx context.Context) (int64, error)
}

type service struct {
	repo    *Repository
	catalog ModelLookup
	logg    *logger.Logger
	newID   func() uuid.UUID
}

// NewService builds a designs service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "designs repo is required")
	}
	if params.Catalog == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "catalog is required")
	}
	if params.Logger == nil {
		params.Logger = logger.Nop()
	}
	return &service{
		repo:    params.Repo,
		catalog: params.Catalog,
		logg:    params.Logger,
		newID:   uuid.New,
	}, nil
}

// Create validates and stores a design.
func (s *service) Create(ctx context.Context, input CreateInput) (*DesignDTO, error) {
	if err := s.validate(ctx, input); err != nil {
		return nil, err
	}

	record := &models.CustomDesign{
		ID:           s.newID(),
		PhoneModelID: input.PhoneModelID,
		DesignType:   input.DesignType,
		ImageURL:     strings.TrimSpace(input.ImageURL),
		Position: types.DesignPosition{
			X:        input.Position.X,
			Y:        input.Position.Y,
			Scale:    input.Position.Scale,
			Rotation: input.Position.Rotation,
		},
	}
	if id := strings.TrimSpace(input.GalleryDesignID); id != "" {
		record.GalleryDesignID = &id
	}
	if len(input.TextOverlay) > 0 {
		record.TextOverlay = types.JSONMap(input.TextOverlay)
	}

	if err := s.repo.Create(ctx, record); err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.Wrap(pkgerrors.CodeConflict, err, "design already exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "store design")
	}

	s.logg.Info(s.logg.WithDesignID(ctx, record.ID.String()), "design created")
	return toDTO(record), nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*DesignDTO, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "design id is required")
	}
	record, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "design not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load design")
	}
	return toDTO(record), nil
}

func (s *service) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	ok, err := s.repo.Exists(ctx, id)
	if err != nil {
		return false, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check design")
	}
	return ok, nil
}

func (s *service) Count(ctx context.Context) (int64, error) {
	count, err := s.repo.Count(ctx)
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count designs")
	}
	return count, nil
}

func (s *service) validate(ctx context.Context, input CreateInput) error {
	if strings.TrimSpace(input.PhoneModelID) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "phone model id is required")
	}
	if !input.DesignType.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "design type must be gallery or upload").
			WithDetails(map[string]any{"design_type": input.DesignType})
	}
	if strings.TrimSpace(input.ImageURL) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "image url is required")
	}
	if input.DesignType == enums.DesignOriginGallery && strings.TrimSpace(input.GalleryDesignID) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "gallery designs need a gallery design id")
	}
	if err := input.Position.Validate(); err != nil {
		return err
	}
	if _, err := s.catalog.FindPhoneModel(ctx, input.PhoneModelID); err != nil {
		if pkgerrors.IsCode(err, pkgerrors.CodeNotFound) {
			return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "unknown phone model").
				WithDetails(map[string]any{"phone_model_id": input.PhoneModelID})
		}
		return err
	}
	return nil
}
