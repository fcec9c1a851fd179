// Package report renders execution results as a markdown report placed
// next to the notebook.
package report

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.trai.ch/kiln/internal/core/domain"
	"go.trai.ch/zerr"
)

// Suffix is appended to the notebook base name for the report file.
const Suffix = ".out.md"

// Writer renders ExecutionResults to markdown.
type Writer struct{}

// NewWriter creates a report Writer.
func NewWriter() *Writer {
	return &Writer{}
}

// Path returns the report path for a notebook path, e.g. demo.md
// becomes demo.out.md.
func Path(notebookPath string) string {
	base := strings.TrimSuffix(notebookPath, filepath.Ext(notebookPath))
	return base + Suffix
}

// Write renders the result and writes it next to the notebook. It
// returns the report path.
func (w *Writer) Write(nb *domain.Notebook, result domain.ExecutionResult) (string, error) {
	path := Path(nb.Path)
	if err := os.WriteFile(path, w.Render(nb, result), domain.FilePerm); err != nil {
		return "", zerr.With(zerr.Wrap(err, "failed to write report"), "path", path)
	}
	return path, nil
}

// Render produces the markdown report. Output is deterministic: it
// depends only on the notebook and the result.
func (w *Writer) Render(nb *domain.Notebook, result domain.ExecutionResult) []byte {
	var b bytes.Buffer

	fmt.Fprintf(&b, "# %s\n\n", title(nb))

	if !result.Success {
		msg := result.ErrorMessage
		if msg == "" {
			msg = "run failed"
		}
		fmt.Fprintf(&b, "> **Run failed:** %s\n\n", msg)
	}

	for i, cell := range nb.Cells {
		var res domain.CellResult
		if i < len(result.Cells) {
			res = result.Cells[i]
		}

		if cell.Kind == domain.CellKindMarkdown {
			b.WriteString(strings.TrimRight(cell.Content, "\n"))
			b.WriteString("\n\n")
			continue
		}

		fmt.Fprintf(&b, "```\n%s\n```\n\n", strings.TrimRight(cell.Content, "\n"))
		if res.Success && res.Output != "" {
			fmt.Fprintf(&b, "Output:\n\n```\n%s\n```\n\n", strings.TrimRight(res.Output, "\n"))
		}
	}

	out := bytes.TrimRight(b.Bytes(), "\n")
	return append(out, '\n')
}

func title(nb *domain.Notebook) string {
	if nb.Title != "" {
		return nb.Title
	}
	if nb.Path != "" {
		base := filepath.Base(nb.Path)
		return strings.TrimSuffix(base, filepath.Ext(base))
	}
	return "Notebook"
}
