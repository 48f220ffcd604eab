package events

import (
	. "flo2mqtt/internal/core/domain"
	"flo2mqtt/internal/core/sensor"
)

// SensorToUpdateEvents converts the current state of one refreshed sensor
// into MQTT update events. The attribute map rides along as a JSON
// attributes event for the kinds that carry one.
func SensorToUpdateEvents(s sensor.Sensor) []any {
	var events []any

	switch sns := s.(type) {
	case *sensor.RateSensor:
		events = append(events, FloatSensorUpdateEvent{
			SensorUpdateEventMixIn: SensorUpdateEventMixIn{
				Id: sns.EntityId(),
			},
			Value:    sns.Rate(),
			Decimals: 2,
		})
		events = append(events, attributesEvent(sns))
	case *sensor.TempSensor:
		events = append(events, FloatSensorUpdateEvent{
			SensorUpdateEventMixIn: SensorUpdateEventMixIn{
				Id: sns.EntityId(),
			},
			Value:    sns.Temperature(),
			Decimals: 1,
		})
		events = append(events, attributesEvent(sns))
	case *sensor.PressureSensor:
		events = append(events, FloatSensorUpdateEvent{
			SensorUpdateEventMixIn: SensorUpdateEventMixIn{
				Id: sns.EntityId(),
			},
			Value:    sns.Pressure(),
			Decimals: 1,
		})
		events = append(events, attributesEvent(sns))
	case *sensor.MonitoringModeSensor:
		// the mode starts unset; nothing to publish until a mode is known
		if sns.Mode() != "" {
			events = append(events, SelectSensorUpdateEvent{
				SensorUpdateEventMixIn: SensorUpdateEventMixIn{
					Id: sns.EntityId(),
				},
				Value: sns.Mode(),
			})
		}
	}

	return events
}

// SensorsToUpdateEvents maps a full refresh pass, keeping sensor
// construction order.
func SensorsToUpdateEvents(sensors []sensor.Sensor) []any {
	var events []any
	for _, s := range sensors {
		events = append(events, SensorToUpdateEvents(s)...)
	}
	return events
}

func ModeUpdateEvent(entityId, mode string) any {
	return SelectSensorUpdateEvent{
		SensorUpdateEventMixIn: SensorUpdateEventMixIn{
			Id: entityId,
		},
		Value: mode,
	}
}

func attributesEvent(s sensor.Sensor) any {
	return AttributesSensorUpdateEvent{
		SensorUpdateEventMixIn: SensorUpdateEventMixIn{
			Id: s.EntityId(),
		},
		Attributes: s.Attributes(),
	}
}
