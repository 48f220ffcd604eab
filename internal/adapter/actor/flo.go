package actor

import (
	"context"
	"fmt"
	"time"

	"flo2mqtt/internal/core/domain"
	"flo2mqtt/internal/core/events"
	"flo2mqtt/internal/core/port"
	"flo2mqtt/internal/core/sensor"
	"flo2mqtt/internal/util/actorutil"
	"flo2mqtt/pkg/flowater"

	"github.com/asynkron/protoactor-go/actor"
	"github.com/reugn/go-quartz/logger"
	"go.uber.org/zap"
)

// FloActor owns the Flo cloud service handle and the sensor platform
// built from it. All upstream I/O runs through background tasks so the
// mailbox stays responsive.
type FloActor struct {
	behavior   actor.Behavior
	stash      *actorutil.Stash
	service    port.FloService
	locationId string
	location   *flowater.Location
	sensors    []sensor.Sensor
	logger     *zap.Logger
}

type backgroundTaskResult struct {
	message any
	replyTo *actor.PID
}

func NewFloActor(service port.FloService, locationId string, log *zap.Logger) *FloActor {
	act := &FloActor{
		service:    service,
		locationId: locationId,
		behavior:   actor.NewBehavior(),
		stash:      &actorutil.Stash{},
		logger:     actorutil.ActorLogger(domain.ACTOR_ID_FLO, log),
	}
	act.behavior.Become(act.StartingReceive)
	return act
}

func (state *FloActor) Receive(context actor.Context) {
	state.behavior.Receive(context)
}

func (state *FloActor) StartingReceive(ctx actor.Context) {
	switch msg := ctx.Message().(type) {
	case *actor.Started:
		state.logger.Debug("flo@starting started")

		ok, err := sensor.Setup(context.Background(), state.service, state.locationId, func(sensors []sensor.Sensor) {
			state.sensors = sensors
		}, state.logger)
		if err != nil {
			panic(err)
		}
		if ok {
			location, err := state.service.Location(context.Background(), state.locationId)
			if err == nil {
				state.location = location
			}
		}

		state.behavior.Become(state.DefaultReceive)
		state.stash.UnstashAll(ctx)
	default:
		state.logger.Debug("flo@starting: stash", zap.String("type", fmt.Sprintf("%T", msg)))
		state.stash.Stash(ctx, msg)
	}
}

func (state *FloActor) DefaultReceive(ctx actor.Context) {
	switch msg := ctx.Message().(type) {
	case domain.ActorHealthRequest:
		state.logger.Debug("flo@default: ActorHealthRequest")
		ctx.Respond(domain.ActorHealthResponse{
			Id:      domain.ACTOR_ID_FLO,
			Healthy: true,
			State:   "idle",
		})
	case domain.GetLocationInfoRequest:
		state.logger.Debug("flo@default: GetLocationInfoRequest")
		actorutil.ForRequest(msg).Respond(ctx, domain.GetLocationInfoResponse{
			Location: state.location,
			Sensors:  state.sensorDescriptors(),
		})
	case domain.RefreshSensorsRequest:
		state.logger.Debug("flo@default: RefreshSensorsRequest")
		sender := actorutil.ForRequest(msg).ReplyTo(ctx)

		actorutil.MapBackgroundTask(actorutil.NewBackgroundTask(ctx, state.refreshSensors),
			mapTaskResult[domain.RefreshSensorsResponse](sender)).Recover(func(err error) backgroundTaskResult {
			return backgroundTaskResult{
				message: domain.RefreshSensorsResponse{
					ActorResponseMixIn: domain.ActorResponseMixIn{
						ResponseError: err,
					},
				},
				replyTo: sender,
			}
		}).WithTimeout(30 * time.Second).PipeTo(ctx.Self())
		state.behavior.BecomeStacked(state.WaitingFlo)
	case domain.SetMonitoringModeRequest:
		state.logger.Debug("flo@default: SetMonitoringModeRequest",
			zap.String("entity_id", msg.EntityId), zap.String("mode", msg.Mode))
		actorutil.ForRequest(msg).Respond(ctx, state.setMonitoringMode(msg.EntityId, msg.Mode))
	default:
		state.logger.Debug("flo@default default recv", zap.String("type", fmt.Sprintf("%T", msg)))
	}
}

func (state *FloActor) WaitingFlo(ctx actor.Context) {
	switch msg := ctx.Message().(type) {
	case backgroundTaskResult:
		state.logger.Debug("flo@waitingFlo backgroundTaskResult", zap.String("type", fmt.Sprintf("%T", msg.message)))
		ctx.Send(msg.replyTo, msg.message)
		state.behavior.UnbecomeStacked()
		state.stash.UnstashAll(ctx)
	default:
		state.logger.Debug("flo@waitingFlo stash", zap.String("type", fmt.Sprintf("%T", msg)))
		state.stash.Stash(ctx, msg)
	}
}

// refreshSensors updates every sensor in construction order. The first
// refresh error aborts the pass and travels back as the response error.
func (a *FloActor) refreshSensors() (*domain.RefreshSensorsResponse, error) {
	for _, s := range a.sensors {
		if err := s.Update(context.Background()); err != nil {
			logger.Error(err)
			return nil, err
		}
	}
	return &domain.RefreshSensorsResponse{
		Events: events.SensorsToUpdateEvents(a.sensors),
	}, nil
}

func (a *FloActor) setMonitoringMode(entityId, mode string) domain.SetMonitoringModeResponse {
	for _, s := range a.sensors {
		modeSensor, isMode := s.(*sensor.MonitoringModeSensor)
		if !isMode || modeSensor.EntityId() != entityId {
			continue
		}
		changed := modeSensor.SetMode(mode)
		return domain.SetMonitoringModeResponse{
			Changed: changed,
			Mode:    modeSensor.Mode(),
		}
	}
	return domain.SetMonitoringModeResponse{
		ActorResponseMixIn: domain.ActorResponseMixIn{
			ResponseError: fmt.Errorf("unknown monitoring mode entity %s", entityId),
		},
	}
}

func (a *FloActor) sensorDescriptors() []domain.SensorDescriptor {
	var descriptors []domain.SensorDescriptor
	for _, s := range a.sensors {
		descriptors = append(descriptors, domain.SensorDescriptor{
			EntityId: s.EntityId(),
			DeviceId: s.DeviceId(),
			Kind:     sensorKind(s),
			Name:     s.Name(),
			Unit:     s.Unit(),
			Icon:     s.Icon(),
		})
	}
	return descriptors
}

func sensorKind(s sensor.Sensor) string {
	switch s.(type) {
	case *sensor.RateSensor:
		return domain.SENSOR_KIND_FLOW_RATE
	case *sensor.TempSensor:
		return domain.SENSOR_KIND_TEMPERATURE
	case *sensor.PressureSensor:
		return domain.SENSOR_KIND_PRESSURE
	case *sensor.MonitoringModeSensor:
		return domain.SENSOR_KIND_MONITORING_MODE
	default:
		return ""
	}
}

func mapTaskResult[T any](sender *actor.PID) func(t *T) *backgroundTaskResult {
	return func(t *T) *backgroundTaskResult {
		return &backgroundTaskResult{
			message: *t,
			replyTo: sender,
		}
	}
}
