package models

import (
	"encoding/json"
	"fmt"
)

// InsulinTreatment is an "Insulin Injection" record from /api/v1/treatments.json.
type InsulinTreatment struct {
	EventKind string   `json:"eventType"`
	CreatedAt *string  `json:"created_at,omitempty"`
	Units     *float64 `json:"insulin,omitempty"`
}

func (t *InsulinTreatment) UnmarshalJSON(data []byte) error {
	type Alias InsulinTreatment
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
		return fmt.Errorf("insulin treatment: missing required field %q", "eventType")
	}
	t.EventKind = *aux.EventKind
	return nil
}

// Timestamp returns created_at, if the record carries one.
func (t InsulinTreatment) Timestamp() (string, bool) {
	if t.CreatedAt == nil {
		return "", false
	}
	return *t.CreatedAt, true
}

// UnitsOrZero returns the insulin amount, treating an absent amount as zero.
func (t InsulinTreatment) UnitsOrZero() float64 {
	if t.Units == nil {
		return 0
	}
	return *t.Units
}
