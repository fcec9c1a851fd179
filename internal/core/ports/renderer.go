package ports

import (
	"context"
	"time"
)

// Renderer is the abstraction for progress rendering. It decouples
// telemetry collection from presentation, so the same span stream can
// drive either a rich TUI or linear CI logs.
//
//go:generate go run go.uber.org/mock/mockgen -source=renderer.go -destination=mocks/mock_renderer.go -package=mocks
type Renderer interface {
	// Start initializes the renderer and begins its lifecycle. For
	// asynchronous renderers (the TUI), this launches background
	// goroutines.
	Start(ctx context.Context) error

	// Stop signals the renderer to stop accepting new events and flush
	// buffered output.
	Stop() error

	// Wait blocks until the renderer has fully terminated. Synchronous
	// renderers return immediately.
	Wait() error

	// OnPlanEmit is called once the pipeline stages for a run are known.
	OnPlanEmit(stages []string)

	// OnStageStart is called when a pipeline stage begins.
	OnStageStart(spanID, parentID, name string, startTime time.Time)

	// OnStageLog is called when a stage emits output. Data may contain
	// partial lines.
	OnStageLog(spanID string, data []byte)

	// OnStageComplete is called when a stage finishes. err is nil on
	// success.
	OnStageComplete(spanID string, endTime time.Time, err error)
}
