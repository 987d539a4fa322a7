package fs

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/bob/internal/core/ports"
)

// SnapshotterNodeID is the unique identifier for the snapshotter Graft node.
const SnapshotterNodeID graft.ID = "adapter.fs.snapshotter"

func init() {
	graft.Register(graft.Node[ports.Snapshotter]{
		ID:        SnapshotterNodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.Snapshotter, error) {
			return NewSnapshotter(), nil
		},
	})
}
