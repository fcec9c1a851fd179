package domain

// CellResult is the outcome of executing one cell. Exactly one
// CellResult exists per notebook cell, in cell order, regardless of
// build or execution outcome.
type CellResult struct {
	Success bool
	Output  string
	Error   string
}

// ExecutionResult is the per-notebook aggregate outcome.
type ExecutionResult struct {
	Success      bool
	ErrorMessage string
	Cells        []CellResult
}

// NoOutputPlaceholder is assigned to Code cells when the executed
// artifact exited cleanly but left no output capture behind.
const NoOutputPlaceholder = "(no output captured)"

// FailedResult returns an ExecutionResult with every cell of the
// notebook marked failed uniformly. Used when the build or the
// execution as a whole fails; per-cell attribution is not attempted.
func FailedResult(n *Notebook, message string) ExecutionResult {
	cells := make([]CellResult, len(n.Cells))
	for i := range cells {
		cells[i] = CellResult{Success: false, Error: message}
	}
	return ExecutionResult{
		Success:      false,
		ErrorMessage: message,
		Cells:        cells,
	}
}

// CommandResult is the outcome of one external command invocation.
// TimedOut is reported distinctly from a plain non-zero exit so that
// callers can surface "timed out after Ns" instead of a generic
// failure.
type CommandResult struct {
	ExitCode int
	Output   string
	TimedOut bool
}

// OK reports whether the command completed within its budget and
// exited zero.
func (r CommandResult) OK() bool {
	return !r.TimedOut && r.ExitCode == 0
}
