package pipeline

import (
	"bytes"
	"fmt"
	"os"
	"strconv"

	"go.trai.ch/kiln/internal/core/domain"
)

// captureEnvVar names the environment variable through which the
// executed artifact learns where to write its capture file.
const captureEnvVar = "KILN_CAPTURE"

// recordHeader starts each capture record: "%%cell <len>\n" followed
// by exactly len payload bytes and a trailing newline.
var recordHeader = []byte("%%cell ")

// demux maps the capture file onto the notebook's cells. The mapping
// is deliberately lenient: the run already exited zero, so capture
// mismatches are cosmetic and must not fail the notebook.
//
//   - absent capture file: every Code cell succeeds with a placeholder
//   - fewer records than Code cells: trailing Code cells succeed empty
//   - more records than Code cells: surplus records are discarded
//   - Markdown cells always succeed with empty output
func (p *Pipeline) demux(capturePath string, nb *domain.Notebook) domain.ExecutionResult {
	data, err := os.ReadFile(capturePath)
	if err != nil {
		if !os.IsNotExist(err) {
			p.logger.Warn(fmt.Sprintf("failed to read capture file %s: %v", capturePath, err))
		}
		return placeholderResult(nb)
	}

	records, ok := parseRecords(data)
	if !ok {
		p.logger.Warn(fmt.Sprintf("capture file %s is malformed after %d record(s)", capturePath, len(records)))
	}

	cells := make([]domain.CellResult, len(nb.Cells))
	next := 0
	for i, cell := range nb.Cells {
		cells[i] = domain.CellResult{Success: true}
		if cell.Kind != domain.CellKindCode {
			continue
		}
		if next < len(records) {
			cells[i].Output = records[next]
			next++
		}
	}

	return domain.ExecutionResult{Success: true, Cells: cells}
}

// placeholderResult marks every Code cell successful with the
// no-output placeholder. Used when the artifact exited zero without
// writing a capture file.
func placeholderResult(nb *domain.Notebook) domain.ExecutionResult {
	cells := make([]domain.CellResult, len(nb.Cells))
	for i, cell := range nb.Cells {
		cells[i] = domain.CellResult{Success: true}
		if cell.Kind == domain.CellKindCode {
			cells[i].Output = domain.NoOutputPlaceholder
		}
	}
	return domain.ExecutionResult{Success: true, Cells: cells}
}

// parseRecords decodes the sequence of length-framed records. It
// returns the records decoded before the first malformed byte; ok is
// false when trailing data could not be decoded.
func parseRecords(data []byte) (records []string, ok bool) {
	for len(data) > 0 {
		if !bytes.HasPrefix(data, recordHeader) {
			return records, false
		}
		rest := data[len(recordHeader):]

		nl := bytes.IndexByte(rest, '\n')
		if nl < 0 {
			return records, false
		}
		n, err := strconv.Atoi(string(rest[:nl]))
		if err != nil || n < 0 {
			return records, false
		}

		payload := rest[nl+1:]
		if len(payload) < n {
			return records, false
		}
		records = append(records, string(payload[:n]))

		data = payload[n:]
		// The generator terminates each payload with a newline that is
		// not part of the recorded length.
		if len(data) > 0 && data[0] == '\n' {
			data = data[1:]
		}
	}
	return records, true
}
