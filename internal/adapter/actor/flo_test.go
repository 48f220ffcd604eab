package actor

import (
	"testing"
	"time"

	"flo2mqtt/internal/core/domain"
	"flo2mqtt/internal/util/actorutil"
	"flo2mqtt/pkg/flowater"

	"github.com/asynkron/protoactor-go/actor"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestGetLocationInfoFloActor(t *testing.T) {

	assert := assert.New(t)

	svc := flowater.NewTestFloService()

	logger := zap.Must(zap.NewDevelopment())

	as := actorutil.NewActorSystemWithZapLogger(logger)

	context := as.Root

	props := actor.PropsFromProducer(func() actor.Actor { return NewFloActor(svc, "loc_1", logger) })
	pid := context.Spawn(props)

	time.Sleep(1 * time.Second)

	msg := domain.GetLocationInfoRequest{}
	result, err := context.RequestFuture(pid, msg, 15*time.Second).Result()
	if err != nil {
		t.Error(err)
		return
	}
	resp := result.(domain.GetLocationInfoResponse)

	assert.NotNil(resp.Location, "location resolved")
	assert.Equal(resp.Location.Id, "loc_1", "location id")
	assert.Equal(len(resp.Sensors), 4, "four sensors per device")
	assert.Equal(resp.Sensors[0].Kind, domain.SENSOR_KIND_FLOW_RATE, "sensor order")
	assert.Equal(resp.Sensors[1].Kind, domain.SENSOR_KIND_TEMPERATURE, "sensor order")
	assert.Equal(resp.Sensors[2].Kind, domain.SENSOR_KIND_PRESSURE, "sensor order")
	assert.Equal(resp.Sensors[3].Kind, domain.SENSOR_KIND_MONITORING_MODE, "sensor order")

	context.Stop(pid)

	as.Shutdown()
}

func TestRefreshSensorsFloActor(t *testing.T) {

	assert := assert.New(t)

	svc := flowater.NewTestFloService()

	logger := zap.Must(zap.NewDevelopment())

	as := actorutil.NewActorSystemWithZapLogger(logger)
	context := as.Root

	props := actor.PropsFromProducer(func() actor.Actor { return NewFloActor(svc, "loc_1", logger) })
	pid := context.Spawn(props)

	time.Sleep(1 * time.Second)

	msg := domain.RefreshSensorsRequest{}

	result, err := context.RequestFuture(pid, msg, 15*time.Second).Result()
	if err != nil {
		t.Error(err)
		return
	}
	resp := result.(domain.RefreshSensorsResponse)

	assert.False(resp.HasResponseError(), "refresh ok")
	assert.True(len(resp.Events) > 0, "events produced")

	first, isFloat := resp.Events[0].(domain.FloatSensorUpdateEvent)
	assert.True(isFloat, "first event is the flow rate")
	assert.Equal(first.Value, 3.25, "flow rate value")
	assert.Equal(first.Decimals, uint(2), "flow rate decimals")

	context.Stop(pid)

	as.Shutdown()
}

func TestSetMonitoringModeFloActor(t *testing.T) {

	assert := assert.New(t)

	svc := flowater.NewTestFloService()

	logger := zap.Must(zap.NewDevelopment())

	as := actorutil.NewActorSystemWithZapLogger(logger)
	context := as.Root

	props := actor.PropsFromProducer(func() actor.Actor { return NewFloActor(svc, "loc_1", logger) })
	pid := context.Spawn(props)

	time.Sleep(1 * time.Second)

	entityId := domain.SensorId("icd_1", domain.SENSOR_KIND_MONITORING_MODE)

	msg := domain.SetMonitoringModeRequest{
		EntityId: entityId,
		Mode:     flowater.ModeAway,
	}
	result, err := context.RequestFuture(pid, msg, 15*time.Second).Result()
	if err != nil {
		t.Error(err)
		return
	}
	resp := result.(domain.SetMonitoringModeResponse)

	assert.True(resp.Changed, "mode accepted")
	assert.Equal(resp.Mode, flowater.ModeAway, "mode value")

	// invalid candidate keeps the previous mode
	badMsg := domain.SetMonitoringModeRequest{
		EntityId: entityId,
		Mode:     "panic",
	}
	result, err = context.RequestFuture(pid, badMsg, 15*time.Second).Result()
	if err != nil {
		t.Error(err)
		return
	}
	resp = result.(domain.SetMonitoringModeResponse)

	assert.False(resp.Changed, "mode rejected")
	assert.Equal(resp.Mode, flowater.ModeAway, "mode unchanged")

	context.Stop(pid)

	as.Shutdown()
}
