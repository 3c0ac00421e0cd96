// Package pricing computes client-side quotes from material, quantity band
// and shipping selections.
package pricing

import (
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"
	"go.uber.org/multierr"
)

// Material is one case material tier.
type Material struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Features    []string        `json:"features"`
	Popular     bool            `json:"popular"`
}

// ShippingOption is one delivery tier.
type ShippingOption struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Estimate  string          `json:"estimate"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

// DiscountBand applies Fraction to every quantity in [MinQty, MaxQty].
// MaxQty of zero means the band is unbounded above.
type DiscountBand struct {
	MinQty   int             `json:"min_qty"`
	MaxQty   int             `json:"max_qty,omitempty"`
	Fraction decimal.Decimal `json:"fraction"`
	Label    string          `json:"label"`
}

// Contains reports whether qty falls inside the band.
func (b DiscountBand) Contains(qty int) bool {
	if qty < b.MinQty {
		return false
	}
	return b.Unbounded() || qty <= b.MaxQty
}

func (b DiscountBand) Unbounded() bool {
	return b.MaxQty == 0
}

// Table is the immutable set of pricing rules. It is safe for concurrent reads.
type Table struct {
	materials      []Material
	materialByID   map[string]Material
	shipping       []ShippingOption
	shippingByID   map[string]ShippingOption
	bands          []DiscountBand
	defaultMatID   string
	cheapestShipID string
}

// NewTable validates the rule set and returns a Table. Every problem found is
// reported, not just the first one.
func NewTable(materials []Material, shipping []ShippingOption, bands []DiscountBand) (*Table, error) {
	var errs error
	if len(materials) == 0 {
		errs = multierr.Append(errs, fmt.Errorf("at least one material is required"))
	}
	if len(shipping) == 0 {
		errs = multierr.Append(errs, fmt.Errorf("at least one shipping option is required"))
	}

	t := &Table{
		materialByID: make(map[string]Material, len(materials)),
		shippingByID: make(map[string]ShippingOption, len(shipping)),
	}

	for _, m := range materials {
		id := strings.TrimSpace(m.ID)
		switch {
		case id == "":
			errs = multierr.Append(errs, fmt.Errorf("material id is required"))
			continue
		case !m.UnitPrice.IsPositive():
			errs = multierr.Append(errs, fmt.Errorf("material %q: unit price must be positive", id))
		case !m.UnitPrice.Equal(m.UnitPrice.Round(2)):
			errs = multierr.Append(errs, fmt.Errorf("material %q: unit price has more than two decimals", id))
		}
		if _, dup := t.materialByID[id]; dup {
			errs = multierr.Append(errs, fmt.Errorf("material %q declared twice", id))
			continue
		}
		m.ID = id
		m.Features = append([]string(nil), m.Features...)
		t.materials = append(t.materials, m)
		t.materialByID[id] = m
		if m.Popular && t.defaultMatID == "" {
			t.defaultMatID = id
		}
	}
	if t.defaultMatID == "" && len(t.materials) > 0 {
		t.defaultMatID = t.materials[0].ID
	}

	for _, s := range shipping {
		id := strings.TrimSpace(s.ID)
		if id == "" {
			errs = multierr.Append(errs, fmt.Errorf("shipping id is required"))
			continue
		}
		if s.UnitPrice.IsNegative() {
			errs = multierr.Append(errs, fmt.Errorf("shipping %q: unit price must not be negative", id))
		}
		if _, dup := t.shippingByID[id]; dup {
			errs = multierr.Append(errs, fmt.Errorf("shipping %q declared twice", id))
			continue
		}
		s.ID = id
		t.shipping = append(t.shipping, s)
		t.shippingByID[id] = s
		if t.cheapestShipID == "" || s.UnitPrice.LessThan(t.shippingByID[t.cheapestShipID].UnitPrice) {
			t.cheapestShipID = id
		}
	}

	sorted, bandErr := validateBands(bands)
	errs = multierr.Append(errs, bandErr)
	t.bands = sorted

	if errs != nil {
		return nil, fmt.Errorf("invalid pricing table: %w", errs)
	}
	return t, nil
}

// validateBands checks that the bands partition the positive integers with no
// gaps and no overlaps.
func validateBands(bands []DiscountBand) ([]DiscountBand, error) {
	if len(bands) == 0 {
		return nil, fmt.Errorf("at least one quantity band is required")
	}
	sorted := append([]DiscountBand(nil), bands...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].MinQty < sorted[j].MinQty })

	var errs error
	one := decimal.NewFromInt(1)
	next := 1
	for i, b := range sorted {
		if b.Fraction.IsNegative() || b.Fraction.GreaterThanOrEqual(one) {
			errs = multierr.Append(errs, fmt.Errorf("band %d: discount fraction must be in [0, 1)", b.MinQty))
		}
		if b.MinQty != next {
			errs = multierr.Append(errs, fmt.Errorf("band starting at %d: expected start %d (gap or overlap)", b.MinQty, next))
		}
		if b.Unbounded() {
			if i != len(sorted)-1 {
				errs = multierr.Append(errs, fmt.Errorf("band starting at %d: only the last band may be unbounded", b.MinQty))
			}
			next = -1
			continue
		}
		if b.MaxQty < b.MinQty {
			errs = multierr.Append(errs, fmt.Errorf("band starting at %d: max %d below min", b.MinQty, b.MaxQty))
		}
		next = b.MaxQty + 1
	}
	if next != -1 {
		errs = multierr.Append(errs, fmt.Errorf("last band must be unbounded so every quantity is covered"))
	}
	return sorted, errs
}

// Material looks up a material by id.
func (t *Table) Material(id string) (Material, bool) {
	m, ok := t.materialByID[id]
	return m, ok
}

// Shipping looks up a shipping option by id.
func (t *Table) Shipping(id string) (ShippingOption, bool) {
	s, ok := t.shippingByID[id]
	return s, ok
}

// BandFor returns the unique band containing qty.
func (t *Table) BandFor(qty int) (DiscountBand, bool) {
	for _, b := range t.bands {
		if b.Contains(qty) {
			return b, true
		}
	}
	return DiscountBand{}, false
}

// DefaultMaterialID is the first material flagged popular, else the first one.
func (t *Table) DefaultMaterialID() string { return t.defaultMatID }

// CheapestShippingID is the lowest-priced shipping option; ties keep table order.
func (t *Table) CheapestShippingID() string { return t.cheapestShipID }

func (t *Table) Materials() []Material {
	return append([]Material(nil), t.materials...)
}

func (t *Table) ShippingOptions() []ShippingOption {
	return append([]ShippingOption(nil), t.shipping...)
}

func (t *Table) Bands() []DiscountBand {
	return append([]DiscountBand(nil), t.bands...)
}
