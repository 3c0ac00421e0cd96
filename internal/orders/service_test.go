package orders

import (
	"context"
	"testing"

	"github.com/angelmondragon/casecraft-backend/internal/pricing"
	"github.com/angelmondragon/casecraft-backend/internal/session"
	"github.com/angelmondragon/casecraft-backend/pkg/db/models"
	"github.com/angelmondragon/casecraft-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/casecraft-backend/pkg/errors"
	"github.com/angelmondragon/casecraft-backend/pkg/types"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func TestSubmitStoresPendingOrder(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	designID := uuid.New()
	svc := newTestService(t, stubDesigns{known: designID})

	order, err := svc.Submit(ctx, SubmitInput{
		DesignID:    designID,
		Customer:    validCustomer(),
		MaterialID:  "premium",
		ShippingID:  "express",
		Quantity:    3,
		TotalAmount: decimal.RequireFromString("134.73"),
	})
	require.NoError(t, err)
	assert.Equal(t, enums.OrderStatusPending, order.Status)
	assert.Equal(t, enums.CurrencyBRL, order.Currency)

	got, err := svc.Get(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, designID, got.DesignID)
	assert.Equal(t, "ana@example.com", got.Customer.Email)
	assert.Equal(t, "Sao Paulo", got.Customer.Address.City)
	assert.Equal(t, 3, got.Quantity)
	assert.True(t, got.TotalAmount.Equal(decimal.RequireFromString("134.73")))

	count, err := svc.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestSubmitRejectsUnknownDesign(t *testing.T) {
	t.Parallel()

	svc := newTestService(t, stubDesigns{known: uuid.New()})
	_, err := svc.Submit(context.Background(), SubmitInput{DesignID: uuid.New(), Customer: validCustomer()})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))
}

func TestSubmitSurfacesCheckerFailure(t *testing.T) {
	t.Parallel()

	svc := newTestService(t, stubDesigns{err: pkgerrors.New(pkgerrors.CodeDependency, "db down")})
	_, err := svc.Submit(context.Background(), SubmitInput{DesignID: uuid.New(), Customer: validCustomer()})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeDependency))
}

func TestValidateCustomer(t *testing.T) {
	t.Parallel()

	require.NoError(t, ValidateCustomer(validCustomer()))

	info := validCustomer()
	info.Email = "ana.example.com"
	info.Phone = "  "
	info.Address.ZipCode = ""
	err := ValidateCustomer(info)
	require.Error(t, err)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeInvalidCustomerInfo))

	details, ok := pkgerrors.As(err).Details().(map[string]string)
	require.True(t, ok)
	assert.Equal(t, "must contain @", details["email"])
	assert.Equal(t, "is required", details["phone"])
	assert.Equal(t, "is required", details["address.zip_code"])
	assert.NotContains(t, details, "name")
}

func TestValidateCustomerAgreesWithMissingFields(t *testing.T) {
	t.Parallel()

	info := types.CustomerInfo{Email: "ana@example.com", Address: types.CustomerAddress{City: " "}}
	err := ValidateCustomer(info)
	require.Error(t, err)
	details, ok := pkgerrors.As(err).Details().(map[string]string)
	require.True(t, ok)

	var required []string
	for field, msg := range details {
		if msg == "is required" {
			required = append(required, field)
		}
	}
	assert.ElementsMatch(t, info.MissingFields(), required)
	assert.ElementsMatch(t, []string{"name", "phone", "address.street", "address.city", "address.zip_code"}, required)
}

func TestSubmitterBridgesSessionRequest(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	designID := uuid.New()
	svc := newTestService(t, stubDesigns{known: designID})
	quote, err := pricing.DefaultTable().Quote("luxury", 1, "premium")
	require.NoError(t, err)

	id, err := Submitter(svc).SubmitOrder(ctx, session.OrderRequest{
		DesignID: designID.String(),
		Customer: validCustomer(),
		Quote:    quote,
	})
	require.NoError(t, err)

	orderID, err := uuid.Parse(id)
	require.NoError(t, err)
	got, err := svc.Get(ctx, orderID)
	require.NoError(t, err)
	assert.Equal(t, "luxury", got.MaterialID)
	assert.True(t, got.TotalAmount.Equal(decimal.RequireFromString("109.80")))

	_, err = Submitter(svc).SubmitOrder(ctx, session.OrderRequest{DesignID: "D1", Customer: validCustomer()})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
}

func TestGetOrderNotFound(t *testing.T) {
	t.Parallel()

	svc := newTestService(t, stubDesigns{})
	_, err := svc.Get(context.Background(), uuid.New())
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))
}

func newTestService(t *testing.T, designs DesignChecker) Service {
	t.Helper()
	dsn := "file:orders_" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Order{}))

	svc, err := NewService(ServiceParams{Repo: NewRepository(db), Designs: designs})
	require.NoError(t, err)
	return svc
}

func validCustomer() types.CustomerInfo {
	return types.CustomerInfo{
		Name:  "Ana",
		Email: "ana@example.com",
		Phone: "+55 11 99999-0000",
		Address: types.CustomerAddress{
			Street:  "Rua A, 10",
			City:    "Sao Paulo",
			State:   "SP",
			ZipCode: "01000-000",
		},
	}
}

type stubDesigns struct {
	known uuid.UUID
	err   error
}

func (s stubDesigns) Exists(_ context.Context, id uuid.UUID) (bool, error) {
	if s.err != nil {
		return false, s.err
	}
	return id == s.known, nil
}

