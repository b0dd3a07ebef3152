package nightscout

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNightscoutApiClientMock_ServesFixtures(t *testing.T) {
	t.Setenv("PROJECT_ROOT", "../..")
	client := NewNightscoutApiClientMock()
	ctx := context.Background()

	readings, err := client.FetchReadings(ctx, "2024-05-01")
	require.NoError(t, err)
	insulin, err := client.FetchInsulin(ctx, "2024-05-01")
	require.NoError(t, err)
	carbs, err := client.FetchCarbs(ctx, "2024-05-01")
	require.NoError(t, err)

	assert.Len(t, readings, 3)
	assert.Len(t, insulin, 2)
	assert.Len(t, carbs, 1)
	assert.Equal(t, "Carb Correction", carbs[0].EventKind)
}

func TestNightscoutApiClientMock_MissingFixture(t *testing.T) {
	t.Setenv("PROJECT_ROOT", t.TempDir())
	client := NewNightscoutApiClientMock()

	readings, err := client.FetchReadings(context.Background(), "2024-05-01")

	assert.Error(t, err)
	assert.Nil(t, readings)
}
