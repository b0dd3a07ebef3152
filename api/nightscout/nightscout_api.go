package nightscout

import (
	"context"

	"ns-advisor/models"
)

// NightscoutAPI defines the interface for reading today's data from a Nightscout site
type NightscoutAPI interface {
	FetchReadings(ctx context.Context, startDate string) ([]models.GlucoseReading, error)
	FetchInsulin(ctx context.Context, startDate string) ([]models.InsulinTreatment, error)
	FetchCarbs(ctx context.Context, startDate string) ([]models.CarbTreatment, error)
	SetCredentials(baseURL string, apiSecret string)
}
