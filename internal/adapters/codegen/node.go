package codegen

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/kiln/internal/core/ports"
)

// NodeID is the unique identifier for the project generator Graft node.
const NodeID graft.ID = "adapter.project_generator"

func init() {
	graft.Register(graft.Node[ports.ProjectGenerator]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.ProjectGenerator, error) {
			return NewGenerator(), nil
		},
	})
}
