package scheduler

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/sitepress/internal/adapters/telemetry" //nolint:depguard // Wired in engine wiring
	"go.trai.ch/sitepress/internal/core/ports"
)

// NodeID is the unique identifier for the scheduler Graft node.
const NodeID graft.ID = "engine.scheduler"

// Factory creates a scheduler for an executor. The task catalog is built per
// project, so the executor is only known after the configuration is loaded.
type Factory func(executor ports.Executor) *Scheduler

func init() {
	graft.Register(graft.Node[Factory]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{telemetry.TracerNodeID},
		Run: func(ctx context.Context) (Factory, error) {
			tracer, err := graft.Dep[ports.Tracer](ctx)
			if err != nil {
				return nil, err
			}

			return func(executor ports.Executor) *Scheduler {
				return NewScheduler(executor, tracer)
			}, nil
		},
	})
}
