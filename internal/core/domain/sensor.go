package domain

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"

	"flo2mqtt/pkg/flowater"

	"github.com/carlmjohnson/versioninfo"
)

const (
	SENSOR_ID_BRIDGE_STATE = "bridge"

	SENSOR_KIND_FLOW_RATE       = "water_flow_rate"
	SENSOR_KIND_TEMPERATURE     = "water_temperature"
	SENSOR_KIND_PRESSURE        = "water_pressure"
	SENSOR_KIND_MONITORING_MODE = "monitoring_mode"

	STATE_CLASS_MEASUREMENT      = "measurement"
	STATE_CLASS_TOTAL_INCREASING = "total_increasing"
	DEVICE_CLASS_TEMPERATURE     = "temperature"
	DEVICE_CLASS_PRESSURE        = "pressure"
	DEVICE_CLASS_CONNECTIVITY    = "connectivity"
	ENTITY_CLASS_DIAGNOSTIC      = "diagnostic"
	SENSOR_TYPE_SENSOR           = "sensor"
	SENSOR_TYPE_BINARY           = "binary_sensor"

	UNIT_GPM        = "gpm"
	UNIT_FAHRENHEIT = "°F"
	UNIT_PSI        = "psi"
)

// SensorId builds the entity id of one sensor kind of one device. Up to
// four entities share a device id, so the kind disambiguates.
func SensorId(deviceId, kind string) string {
	return fmt.Sprintf("flo_%s_%s", md5HashShort(deviceId), kind)
}

func BridgeDevice(baseTopic string) Device {
	return Device{
		Id:           fmt.Sprintf("flo2mqtt_bridge_%s", md5HashShort(baseTopic)),
		Manufacturer: "flo2mqtt",
		Model:        "Flo2MQTT",
		Version:      versioninfo.Short(),
		Name:         fmt.Sprintf("Flo2MQTT %s", md5HashShort(baseTopic)),
	}
}

func WaterDevice(info flowater.Device) Device {
	name := info.Nickname
	if name == "" {
		name = fmt.Sprintf("Flo Water Monitor %s", md5HashShort(info.Id))
	}
	return Device{
		Id:           fmt.Sprintf("flo_device_%s", md5HashShort(info.Id)),
		Version:      info.FirmwareVer,
		Manufacturer: "Flo Technologies",
		Model:        info.DeviceType,
		Name:         name,
	}
}

func IdDevice(device Device) Device {
	return Device{
		Id:   device.Id,
		Name: device.Name,
	}
}

// WaterDeviceSensors builds the three measurement entities of one device,
// in the fixed platform order: flow rate, temperature, pressure. The
// monitoring mode entity is a select, see MonitoringModeSelect.
func WaterDeviceSensors(waterDevice Device, info flowater.Device) []GenericSensor {

	var sensors []GenericSensor

	// Water Flow Rate
	sensors = append(sensors, GenericSensor{
		Device:            waterDevice,
		Id:                SensorId(info.Id, SENSOR_KIND_FLOW_RATE),
		SensorType:        SENSOR_TYPE_SENSOR,
		Name:              "Flo Water Flow Rate",
		StateClass:        STATE_CLASS_MEASUREMENT,
		UnitOfMeasurement: UNIT_GPM,
		Icon:              "mdi:water-pump",
		JsonAttributes:    true,
		UniqueId:          uniqueId(waterDevice.Id, SensorId(info.Id, SENSOR_KIND_FLOW_RATE)),
	})

	// Water Temperature
	sensors = append(sensors, GenericSensor{
		Device:            waterDevice,
		Id:                SensorId(info.Id, SENSOR_KIND_TEMPERATURE),
		SensorType:        SENSOR_TYPE_SENSOR,
		Name:              "Flo Water Temperature",
		StateClass:        STATE_CLASS_MEASUREMENT,
		DeviceClass:       DEVICE_CLASS_TEMPERATURE,
		UnitOfMeasurement: UNIT_FAHRENHEIT,
		Icon:              "mdi:thermometer",
		JsonAttributes:    true,
		UniqueId:          uniqueId(waterDevice.Id, SensorId(info.Id, SENSOR_KIND_TEMPERATURE)),
	})

	// Water Pressure
	sensors = append(sensors, GenericSensor{
		Device:            waterDevice,
		Id:                SensorId(info.Id, SENSOR_KIND_PRESSURE),
		SensorType:        SENSOR_TYPE_SENSOR,
		Name:              "Flo Water Pressure",
		StateClass:        STATE_CLASS_MEASUREMENT,
		DeviceClass:       DEVICE_CLASS_PRESSURE,
		UnitOfMeasurement: UNIT_PSI,
		Icon:              "mdi:gauge",
		JsonAttributes:    true,
		UniqueId:          uniqueId(waterDevice.Id, SensorId(info.Id, SENSOR_KIND_PRESSURE)),
	})

	return sensors
}

func MonitoringModeSelect(waterDevice Device, info flowater.Device) GenericSelect {
	return GenericSelect{
		Device:   waterDevice,
		Id:       SensorId(info.Id, SENSOR_KIND_MONITORING_MODE),
		Name:     "Flo Monitoring Mode",
		UniqueId: uniqueId(waterDevice.Id, SensorId(info.Id, SENSOR_KIND_MONITORING_MODE)),
		Icon:     "mdi:shield-search",
		Options:  flowater.Modes,
	}
}

func BridgeSensors(bridgeDevice Device) []GenericSensor {

	var sensors []GenericSensor

	// Connection state
	sensors = append(sensors, GenericSensor{
		Device:         bridgeDevice,
		Id:             SENSOR_ID_BRIDGE_STATE,
		SensorType:     SENSOR_TYPE_BINARY,
		Name:           "Connection state",
		DeviceClass:    DEVICE_CLASS_CONNECTIVITY,
		EntityCategory: ENTITY_CLASS_DIAGNOSTIC,
		UniqueId:       uniqueId(bridgeDevice.Id, SENSOR_ID_BRIDGE_STATE),
	})

	return sensors
}

func uniqueId(baseId, id string) string {
	return fmt.Sprintf("uid_%s_%s", baseId, id)
}

func md5Hash(text string) string {
	hash := md5.Sum([]byte(text))
	return hex.EncodeToString(hash[:])
}

func md5HashShort(text string) string {
	hash := md5Hash(text)
	return hash[0:8]
}
