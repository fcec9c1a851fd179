package telemetry

import (
	"time"
)

// MsgStageStart indicates a new pipeline stage (span) has started.
type MsgStageStart struct {
	SpanID    string
	ParentID  string // May be empty if root
	Name      string
	StartTime time.Time
}

// MsgStageComplete indicates a pipeline stage (span) has finished.
type MsgStageComplete struct {
	SpanID  string
	EndTime time.Time
	Err     error
}

// MsgStageLog carries a chunk of output for a specific stage.
type MsgStageLog struct {
	SpanID string
	Data   []byte
}

// MsgInitStages serves as a signal to initialize or reset the stage list in the UI.
type MsgInitStages struct {
	Stages []string
}
