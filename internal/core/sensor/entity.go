package sensor

import (
	"context"
	"math"

	"flo2mqtt/internal/core/domain"
	"flo2mqtt/internal/core/port"
	"flo2mqtt/pkg/flowater"

	"go.uber.org/zap"
)

// AlarmNotificationRulesPath is the raw endpoint consulted by the
// monitoring mode sensor on refresh.
const AlarmNotificationRulesPath = "/icdalarmnotificationdeliveryrules/scan"

// Sensor is one platform entity: a device-scoped scalar with an auxiliary
// attribute map. State and attributes are written only by the sensor's own
// Update (or SetMode for the monitoring mode sensor).
type Sensor interface {
	EntityId() string
	DeviceId() string
	Name() string
	Unit() string
	Icon() string
	State() any
	Attributes() map[string]any
	Update(ctx context.Context) error
}

// floEntity carries the device-scoped service handle and the shared
// attribute storage of every sensor kind.
type floEntity struct {
	svc      port.FloService
	deviceId string
	entityId string
	name     string
	attrs    map[string]any
	logger   *zap.Logger
}

func newFloEntity(svc port.FloService, deviceId, kind, name string, logger *zap.Logger) floEntity {
	return floEntity{
		svc:      svc,
		deviceId: deviceId,
		entityId: domain.SensorId(deviceId, kind),
		name:     name,
		attrs:    map[string]any{},
		logger:   logger,
	}
}

func (e *floEntity) EntityId() string {
	return e.entityId
}

func (e *floEntity) DeviceId() string {
	return e.deviceId
}

func (e *floEntity) Name() string {
	return e.name
}

// Attributes returns the auxiliary attribute map. Entries are merged on
// every update, never cleared.
func (e *floEntity) Attributes() map[string]any {
	return e.attrs
}

func (e *floEntity) mergeAttrs(attrs map[string]any) {
	for k, v := range attrs {
		e.attrs[k] = v
	}
}

// RateSensor exposes the average water flow rate of a device.
type RateSensor struct {
	floEntity
	rate float64
}

func NewRateSensor(svc port.FloService, deviceId string, logger *zap.Logger) *RateSensor {
	return &RateSensor{
		floEntity: newFloEntity(svc, deviceId, domain.SENSOR_KIND_FLOW_RATE, "Flo Water Flow Rate", logger),
	}
}

func (s *RateSensor) Unit() string {
	// gallons per minute
	return domain.UNIT_GPM
}

func (s *RateSensor) Icon() string {
	return "mdi:water-pump"
}

func (s *RateSensor) State() any {
	return s.rate
}

func (s *RateSensor) Rate() float64 {
	return s.rate
}

func (s *RateSensor) Update(ctx context.Context) error {
	m, err := s.svc.WaterflowMeasurement(ctx, s.deviceId)
	if err != nil {
		return err
	}
	s.rate = m.AverageFlowRate
	s.mergeAttrs(map[string]any{
		"total_flow": round1(m.TotalFlow),
		"time":       m.Time,
	})
	s.logger.Info("updated sensor", zap.String("name", s.name), zap.Float64("value", s.rate), zap.String("unit", s.Unit()))
	return nil
}

// TempSensor exposes the average water temperature of a device.
type TempSensor struct {
	floEntity
	temperature float64
}

func NewTempSensor(svc port.FloService, deviceId string, logger *zap.Logger) *TempSensor {
	return &TempSensor{
		floEntity: newFloEntity(svc, deviceId, domain.SENSOR_KIND_TEMPERATURE, "Flo Water Temperature", logger),
	}
}

func (s *TempSensor) Unit() string {
	// fixed label, not derived from the device configuration
	return domain.UNIT_FAHRENHEIT
}

func (s *TempSensor) Icon() string {
	return "mdi:thermometer"
}

func (s *TempSensor) State() any {
	return s.temperature
}

func (s *TempSensor) Temperature() float64 {
	return s.temperature
}

func (s *TempSensor) Update(ctx context.Context) error {
	// re-fetches the same measurement payload the rate sensor already
	// fetched; no cross-sensor cache
	m, err := s.svc.WaterflowMeasurement(ctx, s.deviceId)
	if err != nil {
		return err
	}
	s.temperature = round1(m.AverageTemperature)
	s.mergeAttrs(map[string]any{
		"time": m.Time,
	})
	s.logger.Info("updated sensor", zap.String("name", s.name), zap.Float64("value", s.temperature), zap.String("unit", s.Unit()))
	return nil
}

// PressureSensor exposes the average water pressure of a device.
type PressureSensor struct {
	floEntity
	pressure float64
}

func NewPressureSensor(svc port.FloService, deviceId string, logger *zap.Logger) *PressureSensor {
	return &PressureSensor{
		floEntity: newFloEntity(svc, deviceId, domain.SENSOR_KIND_PRESSURE, "Flo Water Pressure", logger),
	}
}

func (s *PressureSensor) Unit() string {
	// pounds per square inch
	return domain.UNIT_PSI
}

func (s *PressureSensor) Icon() string {
	return "mdi:gauge"
}

func (s *PressureSensor) State() any {
	return s.pressure
}

func (s *PressureSensor) Pressure() float64 {
	return s.pressure
}

func (s *PressureSensor) Update(ctx context.Context) error {
	m, err := s.svc.WaterflowMeasurement(ctx, s.deviceId)
	if err != nil {
		return err
	}
	s.pressure = round1(m.AveragePressure)
	s.mergeAttrs(map[string]any{
		"time": m.Time,
	})
	s.logger.Info("updated sensor", zap.String("name", s.name), zap.Float64("value", s.pressure), zap.String("unit", s.Unit()))
	return nil
}

// MonitoringModeSensor exposes the alarm-sensitivity profile of a device:
// home, away or sleep. Initially unset.
type MonitoringModeSensor struct {
	floEntity
	mode string
}

func NewMonitoringModeSensor(svc port.FloService, deviceId string, logger *zap.Logger) *MonitoringModeSensor {
	return &MonitoringModeSensor{
		floEntity: newFloEntity(svc, deviceId, domain.SENSOR_KIND_MONITORING_MODE, "Flo Monitoring Mode", logger),
	}
}

func (s *MonitoringModeSensor) Unit() string {
	return "mode"
}

func (s *MonitoringModeSensor) Icon() string {
	return "mdi:shield-search"
}

func (s *MonitoringModeSensor) State() any {
	return s.mode
}

func (s *MonitoringModeSensor) Mode() string {
	return s.mode
}

// Update fetches the alarm notification delivery rules and logs them. It
// never assigns mode from the response.
// TODO: derive the current mode from the delivery rules payload once the
// response schema is confirmed.
func (s *MonitoringModeSensor) Update(ctx context.Context) error {
	payload, err := s.svc.Get(ctx, AlarmNotificationRulesPath)
	if err != nil {
		return err
	}
	s.logger.Info("flo alarm notification rules", zap.ByteString("payload", payload))
	return nil
}

// SetMode assigns the monitoring mode locally. Invalid candidates are
// rejected with a logged error and leave the state unchanged. The remote
// update call is still missing.
func (s *MonitoringModeSensor) SetMode(mode string) bool {
	if !flowater.ValidMode(mode) {
		s.logger.Error("invalid monitoring mode", zap.String("mode", mode), zap.Strings("valid", flowater.Modes))
		return false
	}
	s.mode = mode
	return true
}

func round1(value float64) float64 {
	return math.Round(value*10) / 10
}
