package pricing

import "github.com/shopspring/decimal"

// DefaultTable returns the storefront's standard price list.
func DefaultTable() *Table {
	t, err := NewTable(DefaultMaterials(), DefaultShippingOptions(), DefaultBands())
	if err != nil {
		panic(err)
	}
	return t
}

func DefaultMaterials() []Material {
	return []Material{
		{
			ID:          "basic",
			Name:        "Basic",
			Description: "Flexible silicone",
			UnitPrice:   decimal.RequireFromString("29.90"),
			Features:    []string{"Basic protection", "Vibrant colors"},
		},
		{
			ID:          "premium",
			Name:        "Premium",
			Description: "TPU + rigid PC",
			UnitPrice:   decimal.RequireFromString("49.90"),
			Features:    []string{"Superior protection", "Premium finish", "Anti-yellowing"},
			Popular:     true,
		},
		{
			ID:          "luxury",
			Name:        "Luxury",
			Description: "Synthetic leather",
			UnitPrice:   decimal.RequireFromString("79.90"),
			Features:    []string{"Maximum protection", "Premium texture", "Card holder"},
		},
	}
}

func DefaultShippingOptions() []ShippingOption {
	return []ShippingOption{
		{ID: "standard", Name: "Standard", Estimate: "5-7 business days", UnitPrice: decimal.Zero},
		{ID: "express", Name: "Express", Estimate: "2-3 business days", UnitPrice: decimal.RequireFromString("15.90")},
		{ID: "premium", Name: "Premium", Estimate: "1-2 business days", UnitPrice: decimal.RequireFromString("29.90")},
	}
}

func DefaultBands() []DiscountBand {
	return []DiscountBand{
		{MinQty: 1, MaxQty: 1, Fraction: decimal.Zero, Label: "1 unit"},
		{MinQty: 2, MaxQty: 4, Fraction: decimal.RequireFromString("0.10"), Label: "2-4 units (10% off)"},
		{MinQty: 5, MaxQty: 9, Fraction: decimal.RequireFromString("0.15"), Label: "5-9 units (15% off)"},
		{MinQty: 10, Fraction: decimal.RequireFromString("0.20"), Label: "10+ units (20% off)"},
	}
}
