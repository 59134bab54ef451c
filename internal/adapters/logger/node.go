package logger

import (
	"context"
	"os"

	"github.com/grindlemire/graft"
	"go.trai.ch/sitepress/internal/core/ports"
)

// NodeID is the unique identifier for the logger Graft node.
const NodeID graft.ID = "adapter.logger"

// LevelEnv selects the minimum log level: debug, info, warn or error.
const LevelEnv = "SITEPRESS_LOG_LEVEL"

func init() {
	graft.Register(graft.Node[ports.Logger]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.Logger, error) {
			level, err := ParseLevel(os.Getenv(LevelEnv))
			if err != nil {
				return nil, err
			}
			return New(WithLevel(level)), nil
		},
	})
}
