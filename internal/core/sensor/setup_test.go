package sensor

import (
	"context"
	"testing"

	"flo2mqtt/pkg/flowater"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func twoDeviceService() *flowater.TestFloService {
	svc := flowater.NewTestFloService()
	svc.Locations[0].Devices = append(svc.Locations[0].Devices, flowater.Device{
		Id:       "icd_2",
		Nickname: "Garden supply",
	})
	return svc
}

func TestSetupBuildsFourSensorsPerDevice(t *testing.T) {

	require := require.New(t)

	svc := twoDeviceService()
	logger := zap.NewNop()

	var registered []Sensor
	calls := 0
	ok, err := Setup(context.Background(), svc, "loc_1", func(sensors []Sensor) {
		registered = sensors
		calls++
	}, logger)

	require.NoError(err)
	require.True(ok)
	require.Equal(1, calls)
	require.Len(registered, 8)

	// fixed per-device order: rate, temperature, pressure, mode
	for i, deviceId := range []string{"icd_1", "icd_2"} {
		base := i * 4
		assert.IsType(t, &RateSensor{}, registered[base])
		assert.IsType(t, &TempSensor{}, registered[base+1])
		assert.IsType(t, &PressureSensor{}, registered[base+2])
		assert.IsType(t, &MonitoringModeSensor{}, registered[base+3])
		for j := 0; j < 4; j++ {
			assert.Equal(t, deviceId, registered[base+j].DeviceId())
		}
	}
}

func TestSetupRefreshesBeforeRegistration(t *testing.T) {

	require := require.New(t)

	svc := flowater.NewTestFloService()

	ok, err := Setup(context.Background(), svc, "loc_1", func(sensors []Sensor) {
		// initial state must already be valid when the host sees the entities
		rate := sensors[0].(*RateSensor)
		require.Equal(3.25, rate.Rate())
		require.Equal(12.3, rate.Attributes()["total_flow"])
		require.Equal("2024-05-01T12:00:00Z", rate.Attributes()["time"])

		temp := sensors[1].(*TempSensor)
		require.Equal(68.6, temp.Temperature())
		require.Equal("2024-05-01T12:00:00Z", temp.Attributes()["time"])

		pressure := sensors[2].(*PressureSensor)
		require.Equal(55.1, pressure.Pressure())
	}, zap.NewNop())

	require.NoError(err)
	require.True(ok)
	// rate, temperature and pressure each fetch the measurement on their own
	require.Equal(3, svc.MeasurementCalls)
	// the mode sensor reads the alarm rules endpoint instead
	require.Equal([]string{AlarmNotificationRulesPath}, svc.GetCalls)
}

func TestSetupUnknownLocation(t *testing.T) {

	require := require.New(t)

	svc := flowater.NewTestFloService()

	calls := 0
	ok, err := Setup(context.Background(), svc, "loc_unknown", func([]Sensor) {
		calls++
	}, zap.NewNop())

	require.NoError(err)
	require.False(ok)
	require.Equal(0, calls)
}

func TestSetupDisconnectedService(t *testing.T) {

	require := require.New(t)

	svc := flowater.NewTestFloService()
	svc.Connected = false

	calls := 0
	ok, err := Setup(context.Background(), svc, "loc_1", func([]Sensor) {
		calls++
	}, zap.NewNop())

	require.NoError(err)
	require.False(ok)
	require.Equal(0, calls)
	// no location lookup may be attempted on a disconnected handle
	require.Equal(0, svc.LocationCalls)
}

func TestSetupPropagatesRefreshError(t *testing.T) {

	require := require.New(t)

	svc := flowater.NewTestFloService()
	svc.MeasurementError = flowater.ErrMalformedResponse

	calls := 0
	ok, err := Setup(context.Background(), svc, "loc_1", func([]Sensor) {
		calls++
	}, zap.NewNop())

	require.Error(err)
	require.ErrorIs(err, flowater.ErrMalformedResponse)
	require.False(ok)
	require.Equal(0, calls)
}
