package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"go.trai.ch/kiln/internal/adapters/telemetry"
	"go.trai.ch/kiln/internal/core/ports"
)

var _ ports.Renderer = (*Renderer)(nil)

// Renderer wraps the TUI Bubble Tea model as a ports.Renderer.
type Renderer struct {
	program *tea.Program
	model   *Model
	errCh   chan error
}

// NewRenderer creates a new TUI renderer.
func NewRenderer(model *Model, opts ...tea.ProgramOption) *Renderer {
	program := tea.NewProgram(model, opts...)
	return &Renderer{
		program: program,
		model:   model,
		errCh:   make(chan error, 1),
	}
}

// Start launches the TUI in a background goroutine.
func (r *Renderer) Start(_ context.Context) error {
	go func() {
		_, err := r.program.Run()
		r.errCh <- err
	}()
	return nil
}

// Stop signals the TUI to quit.
func (r *Renderer) Stop() error {
	r.program.Quit()
	return nil
}

// Wait blocks until the TUI has terminated.
func (r *Renderer) Wait() error {
	return <-r.errCh
}

// OnPlanEmit forwards plan initialization to the TUI.
func (r *Renderer) OnPlanEmit(stages []string) {
	r.program.Send(telemetry.MsgInitStages{
		Stages: stages,
	})
}

// OnStageStart forwards stage start events to the TUI.
func (r *Renderer) OnStageStart(spanID, parentID, name string, startTime time.Time) {
	r.program.Send(telemetry.MsgStageStart{
		SpanID:    spanID,
		ParentID:  parentID,
		Name:      name,
		StartTime: startTime,
	})
}

// OnStageLog forwards stage log data to the TUI.
func (r *Renderer) OnStageLog(spanID string, data []byte) {
	r.program.Send(telemetry.MsgStageLog{
		SpanID: spanID,
		Data:   data,
	})
}

// OnStageComplete forwards stage completion events to the TUI.
func (r *Renderer) OnStageComplete(spanID string, endTime time.Time, err error) {
	r.program.Send(telemetry.MsgStageComplete{
		SpanID:  spanID,
		EndTime: endTime,
		Err:     err,
	})
}

// Program returns the underlying tea.Program for testing.
func (r *Renderer) Program() *tea.Program {
	return r.program
}
