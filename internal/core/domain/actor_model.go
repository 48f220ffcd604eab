package domain

import "flo2mqtt/pkg/flowater"

const (
	ACTOR_ID_MASTER       = "master"
	ACTOR_ID_FLO          = "flo"
	ACTOR_ID_MONITOR      = "monitor"
	ACTOR_ID_MQTT         = "mqtt"
	ACTOR_ID_MODE_CONTROL = "mode_control"
	ACTOR_ID_HA_DISCOVERY = "hadiscovery"
)

// Flo actor messages

type GetLocationInfoRequest struct {
	ActorRequestMixIn
}

type GetLocationInfoResponse struct {
	ActorResponseMixIn
	Location *flowater.Location
	// Sensors lists the platform sensors in construction order, 4 per
	// device. Empty when platform setup failed.
	Sensors []SensorDescriptor
}

// SensorDescriptor is the host-facing identity of one platform sensor.
type SensorDescriptor struct {
	EntityId string
	DeviceId string
	Kind     string
	Name     string
	Unit     string
	Icon     string
}

type RefreshSensorsRequest struct {
	ActorRequestMixIn
}

type RefreshSensorsResponse struct {
	ActorResponseMixIn
	// Events holds the sensor update events produced by one full refresh
	// pass, in sensor construction order.
	Events []any
}

type SetMonitoringModeRequest struct {
	ActorRequestMixIn
	// EntityId identifies the monitoring mode entity, following the id
	// extracted from the MQTT command topic.
	EntityId string
	Mode     string
}

type SetMonitoringModeResponse struct {
	ActorResponseMixIn
	// Changed is false when the candidate mode was rejected.
	Changed bool
	Mode    string
}

// MQTT actor messages

type PublishMessageRequest struct {
	ActorRequestMixIn
	Topic   string
	Payload string
	Retain  bool
}

type PublishMessageResponse struct {
	ActorResponseMixIn
}

type PublishSensorUpdateRequest struct {
	ActorRequestMixIn
	Event  SensorUpdateEvent
	Retain bool
}

type PublishSensorUpdateResponse struct {
	ActorResponseMixIn
}

type PublishDiscoveryRequest struct {
	ActorRequestMixIn
	Sensors []GenericSensor
	Selects []GenericSelect
}

type PublishDiscoveryResponse struct {
	ActorResponseMixIn
}

// Health checks

type ActorHealthRequest struct {
	ActorRequestMixIn
}

type ActorHealthResponse struct {
	ActorResponseMixIn
	Id      string
	Healthy bool
	State   string
}
