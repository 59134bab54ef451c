package images

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/sitepress/internal/core/ports"
)

// NodeID is the unique identifier for the image codec Graft node.
const NodeID graft.ID = "adapter.images"

func init() {
	graft.Register(graft.Node[ports.ImageCodec]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.ImageCodec, error) {
			return NewCodec(), nil
		},
	})
}
