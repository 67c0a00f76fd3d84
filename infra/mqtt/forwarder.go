package mqtt

import (
	"context"
	"time"

	"github.com/kilianp07/blendplan/core/events"
	coremqtt "github.com/kilianp07/blendplan/core/mqtt"
	"github.com/kilianp07/blendplan/infra/logger"
	"github.com/kilianp07/blendplan/internal/eventbus"
)

// StartPlanForwarder subscribes to the bus and publishes every successful
// plan. It stops when ctx is canceled or the bus is closed; the returned
// channel is closed once the goroutine has exited.
func StartPlanForwarder(ctx context.Context, bus *eventbus.TypedBus[events.PlanEvent], pub coremqtt.Publisher, log logger.Logger) <-chan struct{} {
	done := make(chan struct{})
	if bus == nil || pub == nil {
		close(done)
		return done
	}
	if log == nil {
		log = logger.NopLogger{}
	}
	sub := bus.Subscribe()
	go func() {
		defer close(done)
		defer bus.Unsubscribe(sub)
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-sub:
				if !ok {
					return
				}
				if !ev.OK() {
					continue
				}
				pctx, cancel := context.WithTimeout(ctx, 10*time.Second)
				if err := pub.PublishPlan(pctx, ev.Plan); err != nil {
					log.Errorf("forward plan %s: %v", ev.RunID, err)
				}
				cancel()
			}
		}
	}()
	return done
}
