package events

import (
	"context"
	"testing"

	. "flo2mqtt/internal/core/domain"
	"flo2mqtt/internal/core/sensor"
	"flo2mqtt/pkg/flowater"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestRateSensorToUpdateEvents(t *testing.T) {

	require := require.New(t)

	svc := flowater.NewTestFloService()
	s := sensor.NewRateSensor(svc, "icd_1", zap.NewNop())
	require.NoError(s.Update(context.Background()))

	evs := SensorToUpdateEvents(s)
	require.Len(evs, 2)

	value, ok := evs[0].(FloatSensorUpdateEvent)
	require.True(ok)
	assert.Equal(t, s.EntityId(), value.Id)
	assert.Equal(t, 3.25, value.Value)
	assert.Equal(t, uint(2), value.Decimals)

	attrs, ok := evs[1].(AttributesSensorUpdateEvent)
	require.True(ok)
	assert.Equal(t, 12.3, attrs.Attributes["total_flow"])
}

func TestModeSensorEventOnlyWhenSet(t *testing.T) {

	svc := flowater.NewTestFloService()
	s := sensor.NewMonitoringModeSensor(svc, "icd_1", zap.NewNop())

	// unset mode publishes nothing
	assert.Len(t, SensorToUpdateEvents(s), 0)

	s.SetMode(flowater.ModeHome)
	evs := SensorToUpdateEvents(s)
	require.Len(t, evs, 1)

	sel, ok := evs[0].(SelectSensorUpdateEvent)
	require.True(t, ok)
	assert.Equal(t, flowater.ModeHome, sel.Value)
}
