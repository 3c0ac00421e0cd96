package pricing

import (
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"

	pkgerrors "github.com/angelmondragon/casecraft-backend/pkg/errors"
)

// Quantities at or above this threshold ship for free regardless of tier.
const FreeShippingMinQty = 2

const minorUnits = 2

// Quote is the derived price breakdown for one material/quantity/shipping
// selection. It is never stored; callers recompute it from its inputs.
type Quote struct {
	MaterialID        string
	ShippingID        string
	Quantity          int
	UnitMaterialPrice decimal.Decimal
	BaseAmount        decimal.Decimal
	DiscountFraction  decimal.Decimal
	DiscountAmount    decimal.Decimal
	ShippingAmount    decimal.Decimal
	TotalAmount       decimal.Decimal
}

type quoteJSON struct {
	MaterialID        string `json:"material_id"`
	ShippingID        string `json:"shipping_id"`
	Quantity          int    `json:"quantity"`
	UnitMaterialPrice string `json:"unit_material_price"`
	BaseAmount        string `json:"base_amount"`
	DiscountFraction  string `json:"discount_fraction"`
	DiscountAmount    string `json:"discount_amount"`
	ShippingAmount    string `json:"shipping_amount"`
	TotalAmount       string `json:"total_amount"`
}

// MarshalJSON renders money with fixed minor-unit precision.
func (q Quote) MarshalJSON() ([]byte, error) {
	return json.Marshal(quoteJSON{
		MaterialID:        q.MaterialID,
		ShippingID:        q.ShippingID,
		Quantity:          q.Quantity,
		UnitMaterialPrice: q.UnitMaterialPrice.StringFixed(minorUnits),
		BaseAmount:        q.BaseAmount.StringFixed(minorUnits),
		DiscountFraction:  q.DiscountFraction.String(),
		DiscountAmount:    q.DiscountAmount.StringFixed(minorUnits),
		ShippingAmount:    q.ShippingAmount.StringFixed(minorUnits),
		TotalAmount:       q.TotalAmount.StringFixed(minorUnits),
	})
}

// Quote prices a selection. It has no side effects and is cheap enough to run
// on every input change.
func (t *Table) Quote(materialID string, quantity int, shippingID string) (Quote, error) {
	material, ok := t.Material(materialID)
	if !ok {
		return Quote{}, pkgerrors.New(pkgerrors.CodeUnknownMaterial, fmt.Sprintf("material %q is not in the catalog", materialID)).
			WithDetails(map[string]any{"material_id": materialID})
	}
	if quantity < 1 {
		return Quote{}, pkgerrors.New(pkgerrors.CodeInvalidQuantity, fmt.Sprintf("quantity must be a positive integer, got %d", quantity)).
			WithDetails(map[string]any{"quantity": quantity})
	}
	shipping, ok := t.Shipping(shippingID)
	if !ok {
		return Quote{}, pkgerrors.New(pkgerrors.CodeUnknownShipping, fmt.Sprintf("shipping option %q is not available", shippingID)).
			WithDetails(map[string]any{"shipping_id": shippingID})
	}
	band, ok := t.BandFor(quantity)
	if !ok {
		// NewTable guarantees full coverage of the positive integers.
		return Quote{}, pkgerrors.New(pkgerrors.CodeInternal, fmt.Sprintf("no discount band covers quantity %d", quantity))
	}

	base := roundMoney(material.UnitPrice.Mul(decimal.NewFromInt(int64(quantity))))
	rawDiscount := base.Mul(band.Fraction)
	shippingAmount := decimal.Zero
	if quantity < FreeShippingMinQty {
		shippingAmount = roundMoney(shipping.UnitPrice)
	}

	return Quote{
		MaterialID:        material.ID,
		ShippingID:        shipping.ID,
		Quantity:          quantity,
		UnitMaterialPrice: roundMoney(material.UnitPrice),
		BaseAmount:        base,
		DiscountFraction:  band.Fraction,
		DiscountAmount:    roundMoney(rawDiscount),
		ShippingAmount:    shippingAmount,
		TotalAmount:       roundMoney(base.Sub(rawDiscount).Add(shippingAmount)),
	}, nil
}

// roundMoney rounds half-up to the currency's minor unit. Amounts are never
// negative here, so decimal's half-away-from-zero rounding is half-up.
func roundMoney(d decimal.Decimal) decimal.Decimal {
	return d.Round(minorUnits)
}
