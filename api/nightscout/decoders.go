package nightscout

import (
	"errors"

	"ns-advisor/api"
	"ns-advisor/models"
)

// DecodeReadings decodes an entries.json array. Any malformed element fails the whole decode.
func DecodeReadings(data []byte) ([]models.GlucoseReading, error) {
	return decodeArray[models.GlucoseReading](data, "glucose readings")
}

// DecodeInsulinTreatments decodes a treatments.json array of insulin records.
func DecodeInsulinTreatments(data []byte) ([]models.InsulinTreatment, error) {
	return decodeArray[models.InsulinTreatment](data, "insulin treatments")
}

// DecodeCarbTreatments decodes a treatments.json array of carb records.
func DecodeCarbTreatments(data []byte) ([]models.CarbTreatment, error) {
	return decodeArray[models.CarbTreatment](data, "carb treatments")
}

// decodeArray requires the body to be a JSON array; a top-level null is a DecodeError.
func decodeArray[T any](data []byte, kind string) ([]T, error) {
	var records *[]T
	if err := api.DecodeJSON(data, &records); err != nil {
		return nil, err
	}
	if records == nil {
		return nil, &api.DecodeError{Err: errors.New("expected a JSON array of " + kind + ", got null")}
	}
	if *records == nil {
		return []T{}, nil
	}
	return *records, nil
}
