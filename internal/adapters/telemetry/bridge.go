package telemetry

import (
	"context"
	"errors"

	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
	"go.trai.ch/kiln/internal/core/ports"
)

var _ sdktrace.SpanProcessor = (*Bridge)(nil)

// Bridge is a span processor that turns stage span lifecycle into
// renderer callbacks: span start becomes OnStageStart and span end
// becomes OnStageComplete, with a failed span's status carried over
// as the stage error.
type Bridge struct {
	renderer ports.Renderer
}

// NewBridge returns a Bridge forwarding to renderer. A nil renderer
// makes the bridge inert.
func NewBridge(renderer ports.Renderer) *Bridge {
	return &Bridge{renderer: renderer}
}

func (b *Bridge) OnStart(parent context.Context, s sdktrace.ReadWriteSpan) {
	if b.renderer == nil || !s.SpanContext().IsValid() {
		return
	}
	b.renderer.OnStageStart(
		s.SpanContext().SpanID().String(),
		parentSpanID(parent),
		s.Name(),
		s.StartTime(),
	)
}

func (b *Bridge) OnEnd(s sdktrace.ReadOnlySpan) {
	if b.renderer == nil || !s.SpanContext().IsValid() {
		return
	}
	b.renderer.OnStageComplete(
		s.SpanContext().SpanID().String(),
		s.EndTime(),
		stageError(s.Status()),
	)
}

// ForceFlush does nothing; events are forwarded as they happen.
func (b *Bridge) ForceFlush(_ context.Context) error {
	return nil
}

// Shutdown does nothing.
func (b *Bridge) Shutdown(_ context.Context) error {
	return nil
}

// parentSpanID resolves the enclosing stage's span ID, or "" for a
// top-level stage.
func parentSpanID(ctx context.Context) string {
	sc := trace.SpanFromContext(ctx).SpanContext()
	if !sc.IsValid() {
		return ""
	}
	return sc.SpanID().String()
}

// stageError maps a span status onto the error handed to the
// renderer. Spans that end without an error status map to nil.
func stageError(status sdktrace.Status) error {
	if status.Code != codes.Error {
		return nil
	}
	if status.Description == "" {
		return errors.New("stage failed")
	}
	return errors.New(status.Description)
}
