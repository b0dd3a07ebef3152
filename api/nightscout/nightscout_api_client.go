package nightscout

import (
	"context"
	"errors"
	"strconv"

	"ns-advisor/api"
	"ns-advisor/applog"
	"ns-advisor/config"
	"ns-advisor/models"
)

// NightscoutApiClient embeds the common HTTPClient
type NightscoutApiClient struct {
	*api.HTTPClient
}

// NewNightscoutApiClient creates a new instance of NightscoutApiClient
func NewNightscoutApiClient(httpClient *api.HTTPClient) *NightscoutApiClient {
	return &NightscoutApiClient{
		HTTPClient: httpClient,
	}
}

// FetchReadings retrieves up to NIGHTSCOUT_ENTRIES_COUNT glucose entries dated on or after startDate.
func (c *NightscoutApiClient) FetchReadings(ctx context.Context, startDate string) ([]models.GlucoseReading, error) {
	params := []api.QueryParam{
		{Name: "count", Value: strconv.Itoa(config.NIGHTSCOUT_ENTRIES_COUNT)},
		{Name: "find[dateString][$gte]", Value: startDate},
	}
	data, err := c.fetch(ctx, config.NIGHTSCOUT_ENTRIES_PATH, params)
	if err != nil {
		return nil, err
	}
	return DecodeReadings(data)
}

// FetchInsulin retrieves insulin injections, created on or after startDate when it is not empty.
func (c *NightscoutApiClient) FetchInsulin(ctx context.Context, startDate string) ([]models.InsulinTreatment, error) {
	data, err := c.fetch(ctx, config.NIGHTSCOUT_TREATMENTS_PATH, treatmentParams(config.INSULIN_EVENT_TYPE, startDate))
	if err != nil {
		return nil, err
	}
	return DecodeInsulinTreatments(data)
}

// FetchCarbs retrieves carb corrections, created on or after startDate when it is not empty.
func (c *NightscoutApiClient) FetchCarbs(ctx context.Context, startDate string) ([]models.CarbTreatment, error) {
	data, err := c.fetch(ctx, config.NIGHTSCOUT_TREATMENTS_PATH, treatmentParams(config.CARB_EVENT_TYPE, startDate))
	if err != nil {
		return nil, err
	}
	return DecodeCarbTreatments(data)
}

func treatmentParams(eventType, startDate string) []api.QueryParam {
	params := []api.QueryParam{{Name: "find[eventType]", Value: eventType}}
	if startDate != "" {
		params = append(params, api.QueryParam{Name: "find[created_at][$gte]", Value: startDate})
	}
	return params
}

func (c *NightscoutApiClient) fetch(ctx context.Context, path string, params []api.QueryParam) ([]byte, error) {
	data, err := c.Get(ctx, path, params)
	if err != nil {
		var statusErr *api.UnsuccessfulStatusError
		if errors.Is(err, context.Canceled) {
			applog.Debugw("[NightscoutApiClient] request canceled", "path", path)
		} else if errors.As(err, &statusErr) {
			applog.Errorw("[NightscoutApiClient] request rejected", "path", path, "status", statusErr.StatusCode)
		} else {
			applog.Errorw("[NightscoutApiClient] request failed", "path", path, "error", err)
		}
		return nil, err
	}
	applog.Debugw("[NightscoutApiClient] request succeeded", "path", path, "bytes", len(data))
	return data, nil
}
