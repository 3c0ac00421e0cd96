package types

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// CustomerAddress is the delivery address captured at checkout.
type CustomerAddress struct {
	Street  string `json:"street" validate:"required"`
	City    string `json:"city" validate:"required"`
	State   string `json:"state"`
	ZipCode string `json:"zip_code" validate:"required"`
}

// CustomerInfo is the buyer contact block attached to an order.
type CustomerInfo struct {
	Name    string          `json:"name" validate:"required"`
	Email   string          `json:"email" validate:"required,contains=@"`
	Phone   string          `json:"phone" validate:"required"`
	Address CustomerAddress `json:"address"`
}

var customerValidate = newCustomerValidator()

func newCustomerValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		tag := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if tag == "" {
			return f.Name
		}
		return tag
	})
	return v
}

// FieldErrors runs the struct tags against a whitespace-trimmed copy, so blank
// strings count as missing. Errors come back in field order.
func (c CustomerInfo) FieldErrors() validator.ValidationErrors {
	if err := customerValidate.Struct(c.trimmed()); err != nil {
		var errs validator.ValidationErrors
		if errors.As(err, &errs) {
			return errs
		}
	}
	return nil
}

// MissingFields lists the required fields that are blank, using json paths
// such as "address.city".
func (c CustomerInfo) MissingFields() []string {
	var missing []string
	for _, fe := range c.FieldErrors() {
		if fe.Tag() == "required" {
			missing = append(missing, FieldPath(fe.Namespace()))
		}
	}
	return missing
}

// FieldPath drops the root type name from a validator namespace.
func FieldPath(namespace string) string {
	if idx := strings.Index(namespace, "."); idx >= 0 {
		return namespace[idx+1:]
	}
	return namespace
}

func (c CustomerInfo) trimmed() CustomerInfo {
	return CustomerInfo{
		Name:  strings.TrimSpace(c.Name),
		Email: strings.TrimSpace(c.Email),
		Phone: strings.TrimSpace(c.Phone),
		Address: CustomerAddress{
			Street:  strings.TrimSpace(c.Address.Street),
			City:    strings.TrimSpace(c.Address.City),
			State:   strings.TrimSpace(c.Address.State),
			ZipCode: strings.TrimSpace(c.Address.ZipCode),
		},
	}
}

// Value serializes the customer block to JSON.
func (c CustomerInfo) Value() (driver.Value, error) {
	return json.Marshal(c)
}

// Scan decodes a JSON column into the customer block.
func (c *CustomerInfo) Scan(value interface{}) error {
	if value == nil {
		*c = CustomerInfo{}
		return nil
	}
	raw, err := asJSON(value)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, c)
}
