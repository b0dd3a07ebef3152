package models

import (
	"encoding/json"
	"fmt"
)

// CarbTreatment is a "Carb Correction" record from /api/v1/treatments.json.
type CarbTreatment struct {
	EventKind string   `json:"eventType"`
	CreatedAt *string  `json:"created_at,omitempty"`
	Grams     *float64 `json:"carbs,omitempty"`
}

func (t *CarbTreatment) UnmarshalJSON(data []byte) error {
	type Alias CarbTreatment
	aux := &struct {
		EventKind *string `json:"eventType"`
		*Alias
	}{
		Alias: (*Alias)(t),
	}
	if err := json.Unmarshal(data, aux); err != nil {
		return err
	}
	if aux.EventKind == nil {
		return fmt.Errorf("carb treatment: missing required field %q", "eventType")
	}
	t.EventKind = *aux.EventKind
	return nil
}

// Timestamp returns created_at, if the record carries one.
func (t CarbTreatment) Timestamp() (string, bool) {
	if t.CreatedAt == nil {
		return "", false
	}
	return *t.CreatedAt, true
}

// GramsOrZero returns the carb amount, treating an absent amount as zero.
func (t CarbTreatment) GramsOrZero() float64 {
	if t.Grams == nil {
		return 0
	}
	return *t.Grams
}
