// Package domain contains the core types of the notebook pipeline.
package domain

// CellKind distinguishes executable code cells from prose.
type CellKind string

const (
	// CellKindCode marks a cell whose content is executed.
	CellKindCode CellKind = "code"
	// CellKindMarkdown marks a prose cell. Markdown cells never execute
	// and always yield empty output.
	CellKindMarkdown CellKind = "markdown"
)

// Cell is a single unit of notebook content.
type Cell struct {
	Kind    CellKind
	Content string
}

// Notebook is an ordered sequence of cells. Its identity is its cells,
// not the file it was loaded from; Path is carried for diagnostics and
// report placement only.
type Notebook struct {
	Path  string
	Title string
	Cells []Cell

	// Toolchain optionally overrides the configured toolchain for this
	// notebook (set from front matter).
	Toolchain string
}

// CodeCells returns the Code-cell subsequence in notebook order.
func (n *Notebook) CodeCells() []Cell {
	cells := make([]Cell, 0, len(n.Cells))
	for _, c := range n.Cells {
		if c.Kind == CellKindCode {
			cells = append(cells, c)
		}
	}
	return cells
}

// Fingerprint is the deterministic cache key derived from a notebook's
// full ordered cell content. It is safe for use as a path segment.
type Fingerprint string

// String returns the fingerprint as a string.
func (f Fingerprint) String() string {
	return string(f)
}

// Short returns a truncated fingerprint for display.
func (f Fingerprint) Short() string {
	const n = 12
	if len(f) <= n {
		return string(f)
	}
	return string(f[:n])
}
