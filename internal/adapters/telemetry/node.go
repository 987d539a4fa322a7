package telemetry

import (
	"context"
	"os"

	"github.com/grindlemire/graft"
	"github.com/mattn/go-isatty"
	"go.trai.ch/bob/internal/core/ports"
)

// TracerNodeID is the unique identifier for the tracer Graft node.
const TracerNodeID graft.ID = "adapter.tracer"

func init() {
	graft.Register(graft.Node[ports.Tracer]{
		ID:        TracerNodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.Tracer, error) {
			if prettyOutput() {
				return NewPretty(), nil
			}
			return NewLinear(os.Stdout), nil
		},
	})
}

// prettyOutput mirrors the classic NO_COLOR/CI gate: the rich recorder
// only runs on an interactive terminal.
func prettyOutput() bool {
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return false
	}
	if _, ok := os.LookupEnv("CI"); ok {
		return false
	}
	return isatty.IsTerminal(os.Stdout.Fd())
}
