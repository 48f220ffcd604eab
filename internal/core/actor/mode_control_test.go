package actor

import (
	"errors"
	"sync"
	"testing"
	"time"

	adactor "flo2mqtt/internal/adapter/actor"
	"flo2mqtt/internal/config"
	"flo2mqtt/internal/core/domain"
	"flo2mqtt/internal/util/actorutil"
	"flo2mqtt/pkg/flowater"

	"github.com/asynkron/protoactor-go/actor"
	"github.com/asynkron/protoactor-go/eventstream"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestModeControlFlow(t *testing.T) {

	logger := zap.Must(zap.NewDevelopment())

	as := actorutil.NewActorSystemWithZapLogger(logger)

	context := as.Root

	cfg := config.Config{}

	es := eventstream.EventStream{}

	var mu sync.Mutex
	var published []domain.SelectSensorUpdateEvent
	sub := es.Subscribe(func(value any) {
		if ev, ok := value.(domain.SelectSensorUpdateEvent); ok {
			mu.Lock()
			published = append(published, ev)
			mu.Unlock()
		}
	})
	defer es.Unsubscribe(sub)

	// flo actor
	floProps := actor.PropsFromProducer(func() actor.Actor {
		return adactor.NewFloActor(flowater.NewTestFloService(), "loc_1", logger)
	})
	floActorPID := context.Spawn(floProps)

	// modeControl actor
	modeCtrlProps := actor.PropsFromProducer(func() actor.Actor {
		return NewModeControlActor(&cfg, floActorPID, &es, logger)
	})
	mcActorPID := context.Spawn(modeCtrlProps)

	time.Sleep(2 * time.Second)

	entityId := domain.SensorId("icd_1", domain.SENSOR_KIND_MONITORING_MODE)

	// accepted mode produces a select event
	context.Send(mcActorPID, domain.SetMonitoringModeRequest{
		EntityId: entityId,
		Mode:     flowater.ModeSleep,
	})

	time.Sleep(500 * time.Millisecond)

	mu.Lock()
	assert.Equal(t, 1, len(published), "one select event")
	assert.Equal(t, entityId, published[0].Id, "event entity id")
	assert.Equal(t, flowater.ModeSleep, published[0].Value, "event mode")
	mu.Unlock()

	// rejected mode publishes nothing
	context.Send(mcActorPID, domain.SetMonitoringModeRequest{
		EntityId: entityId,
		Mode:     "panic",
	})

	time.Sleep(500 * time.Millisecond)

	mu.Lock()
	assert.Equal(t, 1, len(published), "still one select event")
	mu.Unlock()

	hcr, err := healthCheck(context, mcActorPID)
	if err != nil {
		t.Error(err)
		return
	}
	assert.True(t, hcr.Healthy, "actor should be healthy")

	context.Stop(mcActorPID)
	context.Stop(floActorPID)

	as.Shutdown()
}

func healthCheck(ctx *actor.RootContext, pid *actor.PID) (*domain.ActorHealthResponse, error) {
	resp, err := ctx.RequestFuture(pid, domain.ActorHealthRequest{}, 2*time.Second).Result()
	if err != nil {
		return nil, err
	}
	hcr, ok := resp.(domain.ActorHealthResponse)
	if !ok {
		return nil, errors.New("unexpcted response type")
	}
	return &hcr, nil
}
