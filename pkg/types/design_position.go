package types

import (
	"database/sql/driver"
	"encoding/json"
)

// DesignPosition is the stored form of a design placement.
type DesignPosition struct {
	X        int     `json:"x"`
	Y        int     `json:"y"`
	Scale    float64 `json:"scale"`
	Rotation int     `json:"rotation"`
}

// Value serializes the position to JSON.
func (p DesignPosition) Value() (driver.Value, error) {
	return json.Marshal(p)
}

// Scan decodes a JSON column into the position.
func (p *DesignPosition) Scan(value interface{}) error {
	if value == nil {
		*p = DesignPosition{}
		return nil
	}
	raw, err := asJSON(value)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, p)
}
