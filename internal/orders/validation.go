package orders

import (
	pkgerrors "github.com/angelmondragon/casecraft-backend/pkg/errors"
	"github.com/angelmondragon/casecraft-backend/pkg/types"
	"github.com/go-playground/validator/v10"
)

// ValidateCustomer checks the checkout contact block. Blank strings count as
// missing.
func ValidateCustomer(info types.CustomerInfo) error {
	errs := info.FieldErrors()
	if len(errs) == 0 {
		return nil
	}
	details := make(map[string]string, len(errs))
	for _, fieldErr := range errs {
		details[types.FieldPath(fieldErr.Namespace())] = customerMessage(fieldErr)
	}
	return pkgerrors.New(pkgerrors.CodeInvalidCustomerInfo, "customer info is incomplete").WithDetails(details)
}

func customerMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "contains":
		return "must contain " + fe.Param()
	}
	return "is invalid"
}
