package sensor

import (
	"context"

	"flo2mqtt/internal/core/port"

	"go.uber.org/zap"
)

// Setup builds the sensor platform for one location: four sensors per
// device, in the fixed order flow rate, temperature, pressure, monitoring
// mode, with devices in listing order. Each sensor is refreshed once
// synchronously before the register callback receives the full list.
//
// A disconnected service handle or an unknown location logs a warning and
// returns false with a nil error; nothing is registered. A refresh failure
// is returned as the error for the caller's polling policy to handle.
func Setup(ctx context.Context, svc port.FloService, locationID string, register func([]Sensor), logger *zap.Logger) (bool, error) {
	if svc == nil || !svc.IsConnected() {
		logger.Warn("no connection to Flo service, ignoring setup of platform sensors")
		return false, nil
	}

	location, err := svc.Location(ctx, locationID)
	if err != nil {
		logger.Warn("Flo location lookup failed, ignoring creation of Flo sensors",
			zap.String("location_id", locationID), zap.Error(err))
		return false, nil
	}
	if location == nil {
		logger.Warn("Flo location not found, ignoring creation of Flo sensors",
			zap.String("location_id", locationID))
		return false, nil
	}

	var sensors []Sensor
	for _, device := range location.Devices {
		sensors = append(sensors,
			NewRateSensor(svc, device.Id, logger),
			NewTempSensor(svc, device.Id, logger),
			NewPressureSensor(svc, device.Id, logger),
			NewMonitoringModeSensor(svc, device.Id, logger),
		)
	}

	for _, s := range sensors {
		if err := s.Update(ctx); err != nil {
			return false, err
		}
	}

	register(sensors)
	return true, nil
}
