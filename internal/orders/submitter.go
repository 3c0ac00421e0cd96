package orders

import (
	"context"

	"github.com/angelmondragon/casecraft-backend/internal/session"
	pkgerrors "github.com/angelmondragon/casecraft-backend/pkg/errors"
	"github.com/google/uuid"
)

// Submitter exposes the service as the session's order step.
func Submitter(svc Service) session.OrderSubmitter {
	return session.OrderSubmitterFunc(func(ctx context.Context, req session.OrderRequest) (string, error) {
		designID, err := uuid.Parse(req.DesignID)
		if err != nil {
			return "", pkgerrors.Wrap(pkgerrors.CodeValidation, err, "design id is not a uuid")
		}
		order, err := svc.Submit(ctx, SubmitInput{
			DesignID:    designID,
			Customer:    req.Customer,
			MaterialID:  req.Quote.MaterialID,
			ShippingID:  req.Quote.ShippingID,
			Quantity:    req.Quote.Quantity,
			TotalAmount: req.Quote.TotalAmount,
		})
		if err != nil {
			return "", err
		}
		return order.ID.String(), nil
	})
}
