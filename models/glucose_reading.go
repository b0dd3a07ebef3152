package models

import (
	"encoding/json"
	"fmt"
)

// GlucoseReading is one sensor glucose entry (mg/dL) from /api/v1/entries.json.
type GlucoseReading struct {
	Value      int    `json:"sgv"`
	DateString string `json:"dateString"`
}

// UnmarshalJSON rejects entries without sgv or dateString; extra fields are ignored.
func (g *GlucoseReading) UnmarshalJSON(data []byte) error {
	var aux struct {
		Value      *int    `json:"sgv"`
		DateString *string `json:"dateString"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	if aux.Value == nil {
		return fmt.Errorf("glucose reading: missing required field %q", "sgv")
	}
	if aux.DateString == nil {
		return fmt.Errorf("glucose reading: missing required field %q", "dateString")
	}

	g.Value = *aux.Value
	g.DateString = *aux.DateString
	return nil
}

// Timestamp returns the raw dateString; it is always present.
func (g GlucoseReading) Timestamp() (string, bool) {
	return g.DateString, true
}
