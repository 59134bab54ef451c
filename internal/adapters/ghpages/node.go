package ghpages

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/sitepress/internal/core/ports"
)

// NodeID is the unique identifier for the publisher Graft node.
const NodeID graft.ID = "adapter.ghpages"

func init() {
	graft.Register(graft.Node[ports.Publisher]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.Publisher, error) {
			return NewPublisher(), nil
		},
	})
}
