package sensor

import (
	"context"
	"testing"

	"flo2mqtt/pkg/flowater"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestRateSensorUpdate(t *testing.T) {

	require := require.New(t)

	svc := flowater.NewTestFloService()
	s := NewRateSensor(svc, "icd_1", zap.NewNop())

	require.NoError(s.Update(context.Background()))

	// rate is not rounded, total_flow is rounded to 1 decimal
	assert.Equal(t, 3.25, s.Rate())
	assert.Equal(t, 3.25, s.State())
	assert.Equal(t, 12.3, s.Attributes()["total_flow"])
	assert.Equal(t, "2024-05-01T12:00:00Z", s.Attributes()["time"])
	assert.Equal(t, "gpm", s.Unit())
}

func TestTempAndPressureRounding(t *testing.T) {

	require := require.New(t)

	svc := flowater.NewTestFloService()

	temp := NewTempSensor(svc, "icd_1", zap.NewNop())
	require.NoError(temp.Update(context.Background()))
	assert.Equal(t, 68.6, temp.Temperature())
	assert.Equal(t, "°F", temp.Unit())

	pressure := NewPressureSensor(svc, "icd_1", zap.NewNop())
	require.NoError(pressure.Update(context.Background()))
	assert.Equal(t, 55.1, pressure.Pressure())
	assert.Equal(t, "psi", pressure.Unit())
}

func TestAttributesMergedNeverCleared(t *testing.T) {

	require := require.New(t)

	svc := flowater.NewTestFloService()
	s := NewRateSensor(svc, "icd_1", zap.NewNop())
	s.mergeAttrs(map[string]any{"custom": "kept"})

	require.NoError(s.Update(context.Background()))
	require.NoError(s.Update(context.Background()))

	assert.Equal(t, "kept", s.Attributes()["custom"])
	assert.Equal(t, 12.3, s.Attributes()["total_flow"])
}

func TestUpdateErrorPropagates(t *testing.T) {

	svc := flowater.NewTestFloService()
	svc.MeasurementError = flowater.ErrMalformedResponse
	s := NewPressureSensor(svc, "icd_1", zap.NewNop())

	err := s.Update(context.Background())
	require.ErrorIs(t, err, flowater.ErrMalformedResponse)
	// state untouched on failed refresh
	assert.Equal(t, 0.0, s.Pressure())
}

func TestSetMode(t *testing.T) {

	svc := flowater.NewTestFloService()
	s := NewMonitoringModeSensor(svc, "icd_1", zap.NewNop())

	assert.Equal(t, "", s.Mode())

	assert.True(t, s.SetMode("away"))
	assert.Equal(t, "away", s.Mode())

	// invalid candidates leave the state unchanged
	assert.False(t, s.SetMode("invalid"))
	assert.Equal(t, "away", s.Mode())
}

func TestModeRefreshNeverMutatesMode(t *testing.T) {

	require := require.New(t)

	svc := flowater.NewTestFloService()
	svc.RawResponse = []byte(`{"mode":"sleep"}`)
	s := NewMonitoringModeSensor(svc, "icd_1", zap.NewNop())
	s.SetMode("home")

	require.NoError(s.Update(context.Background()))

	// the refresh only logs the alarm rules payload
	assert.Equal(t, "home", s.Mode())
	assert.Equal(t, []string{AlarmNotificationRulesPath}, svc.GetCalls)
}
