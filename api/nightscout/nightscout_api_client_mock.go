package nightscout

import (
	"context"
	"fmt"
	"os"

	"ns-advisor/applog"
	"ns-advisor/config"
	"ns-advisor/models"
)

// NightscoutApiClientMock serves canned responses from the resources directory.
type NightscoutApiClientMock struct {
	entriesPath string
	insulinPath string
	carbsPath   string
}

// NewNightscoutApiClientMock creates a new instance of NightscoutApiClientMock
func NewNightscoutApiClientMock() *NightscoutApiClientMock {
	return &NightscoutApiClientMock{
		entriesPath: config.GetResourcePath(config.ENTRIES_RESPONSE_RESOURCE),
		insulinPath: config.GetResourcePath(config.INSULIN_TREATMENTS_RESPONSE_RESOURCE),
		carbsPath:   config.GetResourcePath(config.CARB_TREATMENTS_RESPONSE_RESOURCE),
	}
}

func (c *NightscoutApiClientMock) FetchReadings(ctx context.Context, startDate string) ([]models.GlucoseReading, error) {
	data, err := readFixture(ctx, c.entriesPath)
	if err != nil {
		return nil, err
	}
	return DecodeReadings(data)
}

func (c *NightscoutApiClientMock) FetchInsulin(ctx context.Context, startDate string) ([]models.InsulinTreatment, error) {
	data, err := readFixture(ctx, c.insulinPath)
	if err != nil {
		return nil, err
	}
	return DecodeInsulinTreatments(data)
}

func (c *NightscoutApiClientMock) FetchCarbs(ctx context.Context, startDate string) ([]models.CarbTreatment, error) {
	data, err := readFixture(ctx, c.carbsPath)
	if err != nil {
		return nil, err
	}
	return DecodeCarbTreatments(data)
}

// SetCredentials is a no-op; the mock never talks to a server.
func (c *NightscoutApiClientMock) SetCredentials(baseURL string, apiSecret string) {}

func readFixture(ctx context.Context, path string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		applog.Errorf("[NightscoutApiClientMock] Could not read fixture %s: %v", path, err)
		return nil, fmt.Errorf("failed to read file %q: %w", path, err)
	}
	return data, nil
}
