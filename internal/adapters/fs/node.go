package fs

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/sitepress/internal/core/ports"
)

const (
	// ResolverNodeID is the unique identifier for the file resolver Graft node.
	ResolverNodeID graft.ID = "adapter.fs.resolver"
	// SyncerNodeID is the unique identifier for the file syncer Graft node.
	SyncerNodeID graft.ID = "adapter.fs.syncer"
)

func init() {
	graft.Register(graft.Node[ports.FileResolver]{
		ID:        ResolverNodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.FileResolver, error) {
			return NewResolver(NewWalker()), nil
		},
	})

	graft.Register(graft.Node[ports.FileSyncer]{
		ID:        SyncerNodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.FileSyncer, error) {
			return NewSyncer(NewHasher()), nil
		},
	})
}
