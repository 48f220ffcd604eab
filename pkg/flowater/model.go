package flowater

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrMalformedResponse marks upstream payloads that are missing fields the
// sensor layer depends on. Callers can match it with errors.Is.
var ErrMalformedResponse = errors.New("malformed flo response")

const (
	ModeHome  = "home"
	ModeAway  = "away"
	ModeSleep = "sleep"
)

// Modes are the valid alarm-sensitivity profiles of a Flo device.
var Modes = []string{ModeHome, ModeAway, ModeSleep}

func ValidMode(mode string) bool {
	for _, m := range Modes {
		if m == mode {
			return true
		}
	}
	return false
}

type Location struct {
	Id       string   `json:"location_id"`
	Address  string   `json:"address"`
	City     string   `json:"city"`
	State    string   `json:"state"`
	Timezone string   `json:"timezone"`
	Devices  []Device `json:"devices"`
}

type Device struct {
	Id           string `json:"device_id"`
	Nickname     string `json:"nickname"`
	FirmwareVer  string `json:"fw_version"`
	DeviceType   string `json:"device_type"`
	SerialNumber string `json:"serial_number"`
}

// WaterflowMeasurement is one rolled-up telemetry sample for a device.
type WaterflowMeasurement struct {
	AverageFlowRate    float64
	TotalFlow          float64
	AverageTemperature float64
	AveragePressure    float64
	Time               string
}

type rawMeasurement struct {
	AverageFlowRate    *float64 `json:"average_flowrate"`
	TotalFlow          *float64 `json:"total_flow"`
	AverageTemperature *float64 `json:"average_temperature"`
	AveragePressure    *float64 `json:"average_pressure"`
	Time               *string  `json:"time"`
}

func parseMeasurement(payload []byte) (*WaterflowMeasurement, error) {
	var raw rawMeasurement
	if err := json.Unmarshal(payload, &raw); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrMalformedResponse, err)
	}
	return raw.toMeasurement()
}

func (raw rawMeasurement) toMeasurement() (*WaterflowMeasurement, error) {
	if raw.AverageFlowRate == nil {
		return nil, missingField("average_flowrate")
	}
	if raw.TotalFlow == nil {
		return nil, missingField("total_flow")
	}
	if raw.AverageTemperature == nil {
		return nil, missingField("average_temperature")
	}
	if raw.AveragePressure == nil {
		return nil, missingField("average_pressure")
	}
	if raw.Time == nil {
		return nil, missingField("time")
	}
	return &WaterflowMeasurement{
		AverageFlowRate:    *raw.AverageFlowRate,
		TotalFlow:          *raw.TotalFlow,
		AverageTemperature: *raw.AverageTemperature,
		AveragePressure:    *raw.AveragePressure,
		Time:               *raw.Time,
	}, nil
}

func missingField(name string) error {
	return fmt.Errorf("%w: missing field %s", ErrMalformedResponse, name)
}
