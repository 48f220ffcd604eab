package actor

import (
	"fmt"
	"time"

	"flo2mqtt/internal/config"
	"flo2mqtt/internal/core/domain"
	"flo2mqtt/internal/core/events"
	. "flo2mqtt/internal/util/actorutil"

	"github.com/asynkron/protoactor-go/actor"
	"github.com/asynkron/protoactor-go/eventstream"
	"go.uber.org/zap"
)

// ModeControlActor applies monitoring mode commands coming from the MQTT
// side and reflects accepted changes back on the event stream.
type ModeControlActor struct {
	behavior actor.Behavior
	stash    *Stash

	floActor    *actor.PID
	config      *config.Config
	eventStream *eventstream.EventStream

	pendingEntityId string

	logger *zap.Logger
}

func NewModeControlActor(config *config.Config, floActor *actor.PID, eventStream *eventstream.EventStream, logger *zap.Logger) *ModeControlActor {
	act := &ModeControlActor{
		config:      config,
		floActor:    floActor,
		behavior:    actor.NewBehavior(),
		stash:       &Stash{},
		logger:      ActorLogger(domain.ACTOR_ID_MODE_CONTROL, logger),
		eventStream: eventStream,
	}
	act.behavior.Become(act.StartingReceive)
	return act
}

func (state *ModeControlActor) Receive(context actor.Context) {
	state.behavior.Receive(context)
}

func (state *ModeControlActor) StartingReceive(ctx actor.Context) {
	switch msg := ctx.Message().(type) {
	case *actor.Started:
		state.logger.Debug("mode_control@starting started")
		state.behavior.Become(state.DefaultReceive)
		state.stash.UnstashAll(ctx)
	case *actor.Restarting:
	default:
		state.logger.Debug("mode_control@starting: stash", zap.String("type", fmt.Sprintf("%T", msg)))
		state.stash.Stash(ctx, msg)
	}
}

func (state *ModeControlActor) DefaultReceive(ctx actor.Context) {
	switch msg := ctx.Message().(type) {
	case domain.ActorHealthRequest:
		state.logger.Debug("mode_control@default: ActorHealthRequest")
		ctx.Respond(domain.ActorHealthResponse{
			Id:      domain.ACTOR_ID_MODE_CONTROL,
			Healthy: true,
			State:   "idle",
		})
	case domain.SetMonitoringModeRequest:
		state.logger.Debug("mode_control@default: SetMonitoringModeRequest",
			zap.String("entity_id", msg.EntityId), zap.String("mode", msg.Mode))
		state.pendingEntityId = msg.EntityId
		PipeToSelfWithRecover(ctx, ctx.RequestFuture(state.floActor, msg, 5*time.Second), func(err error) any {
			return domain.SetMonitoringModeResponse{
				ActorResponseMixIn: domain.ActorResponseMixIn{
					ResponseError: err,
				},
			}
		})
		state.behavior.BecomeStacked(state.WaitingModeReceive)
	default:
		state.logger.Debug("mode_control@default: stash", zap.String("type", fmt.Sprintf("%T", msg)))
		state.stash.Stash(ctx, msg)
	}
}

func (state *ModeControlActor) WaitingModeReceive(ctx actor.Context) {
	switch msg := ctx.Message().(type) {
	case domain.SetMonitoringModeResponse:
		if msg.HasResponseError() {
			state.logger.Error("mode_control@waiting SetMonitoringModeResponse error", zap.Error(msg.GetResponseError()))
		} else if msg.Changed {
			state.eventStream.Publish(events.ModeUpdateEvent(state.pendingEntityId, msg.Mode))
		} else {
			state.logger.Warn("mode_control@waiting mode rejected", zap.String("mode", msg.Mode))
		}
		state.pendingEntityId = ""
		state.behavior.UnbecomeStacked()
		state.stash.UnstashAll(ctx)
	default:
		state.logger.Debug("mode_control@waiting: stash", zap.String("type", fmt.Sprintf("%T", msg)))
		state.stash.Stash(ctx, msg)
	}
}
