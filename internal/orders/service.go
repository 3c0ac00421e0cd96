package orders

import (
	"context"
	"errors"

	"github.com/angelmondragon/casecraft-backend/pkg/db"
	"github.com/angelmondragon/casecraft-backend/pkg/db/models"
	"github.com/angelmondragon/casecraft-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/casecraft-backend/pkg/errors"
	"github.com/angelmondragon/casecraft-backend/pkg/logger"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ServiceParams groups dependencies for the orders service.
type ServiceParams struct {
	Repo    Repository
	Designs DesignChecker
	Logger  *logger.Logger
}

// Service places and reads case orders.
type Service interface {
	Submit(ctx context.Context, input SubmitInput) (*OrderDTO, error)
	Get(ctx context.Context, id uuid.UUID) (*OrderDTO, error)
	Count(ctx context.Context) (int64, error)
}

type service struct {
	repo    Repository
	designs DesignChecker
	logg    *logger.Logger
	newID   func() uuid.UUID
}

// NewService builds an orders service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "orders repo is required")
	}
	if params.Designs == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "design checker is required")
	}
	if params.Logger == nil {
		params.Logger = logger.Nop()
	}
	return &service{
		repo:    params.Repo,
		designs: params.Designs,
		logg:    params.Logger,
		newID:   uuid.New,
	}, nil
}

// Submit validates the customer block, confirms the design exists and stores
// a pending order.
func (s *service) Submit(ctx context.Context, input SubmitInput) (*OrderDTO, error) {
	if input.DesignID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "design id is required")
	}
	if err := ValidateCustomer(input.Customer); err != nil {
		return nil, err
	}
	if input.Quantity < 1 {
		input.Quantity = 1
	}

	exists, err := s.designs.Exists(ctx, input.DesignID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "design not found").
			WithDetails(map[string]any{"design_id": input.DesignID.String()})
	}

	record := &models.Order{
		ID:          s.newID(),
		DesignID:    input.DesignID,
		Customer:    input.Customer,
		MaterialID:  input.MaterialID,
		ShippingID:  input.ShippingID,
		Quantity:    input.Quantity,
		TotalAmount: input.TotalAmount.Round(2),
		Currency:    enums.CurrencyBRL,
		Status:      enums.OrderStatusPending,
	}
	if err := s.repo.Create(ctx, record); err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.Wrap(pkgerrors.CodeConflict, err, "order already exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "store order")
	}

	s.logg.Info(s.logg.WithOrderID(s.logg.WithDesignID(ctx, input.DesignID.String()), record.ID.String()), "order created")
	return toDTO(record), nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*OrderDTO, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id is required")
	}
	record, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}
	return toDTO(record), nil
}

func (s *service) Count(ctx context.Context) (int64, error) {
	count, err := s.repo.Count(ctx)
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count orders")
	}
	return count, nil
}
