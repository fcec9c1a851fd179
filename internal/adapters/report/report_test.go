package report_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/kiln/internal/adapters/report"
	"go.trai.ch/kiln/internal/core/domain"
)

func TestWriter_Render(t *testing.T) {
	tests := []struct {
		name       string
		notebook   *domain.Notebook
		result     domain.ExecutionResult
		goldenName string
	}{
		{
			name: "successful run",
			notebook: &domain.Notebook{
				Path:  "demo.md",
				Title: "Demo",
				Cells: []domain.Cell{
					{Kind: domain.CellKindMarkdown, Content: "# Intro\n\nSome prose."},
					{Kind: domain.CellKindCode, Content: "echo $((1 + 1))"},
					{Kind: domain.CellKindCode, Content: "echo done"},
				},
			},
			result: domain.ExecutionResult{
				Success: true,
				Cells: []domain.CellResult{
					{Success: true},
					{Success: true, Output: "2"},
					{Success: true, Output: "done"},
				},
			},
			goldenName: "success",
		},
		{
			name: "failed build",
			notebook: &domain.Notebook{
				Path: "/tmp/broken.md",
				Cells: []domain.Cell{
					{Kind: domain.CellKindCode, Content: "echo oops"},
				},
			},
			result: domain.FailedResult(&domain.Notebook{
				Cells: []domain.Cell{{Kind: domain.CellKindCode, Content: "echo oops"}},
			}, "build failed: syntax error near line 3"),
			goldenName: "build_failure",
		},
		{
			name: "no output captured",
			notebook: &domain.Notebook{
				Path: "quiet.md",
				Cells: []domain.Cell{
					{Kind: domain.CellKindCode, Content: "true"},
				},
			},
			result: domain.ExecutionResult{
				Success: true,
				Cells: []domain.CellResult{
					{Success: true, Output: domain.NoOutputPlaceholder},
				},
			},
			goldenName: "no_output",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := report.NewWriter()
			g := goldie.New(t)
			g.Assert(t, tt.goldenName, w.Render(tt.notebook, tt.result))
		})
	}
}

func TestWriter_Write(t *testing.T) {
	dir := t.TempDir()
	nb := &domain.Notebook{
		Path:  filepath.Join(dir, "demo.md"),
		Title: "Demo",
		Cells: []domain.Cell{
			{Kind: domain.CellKindCode, Content: "echo hi"},
		},
	}
	result := domain.ExecutionResult{
		Success: true,
		Cells:   []domain.CellResult{{Success: true, Output: "hi"}},
	}

	w := report.NewWriter()
	path, err := w.Write(nb, result)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "demo.out.md"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "# Demo")
	assert.Contains(t, string(data), "echo hi")
	assert.Contains(t, string(data), "hi")
}

func TestPath(t *testing.T) {
	assert.Equal(t, "demo.out.md", report.Path("demo.md"))
	assert.Equal(t, "/a/b/nb.out.md", report.Path("/a/b/nb.markdown"))
	assert.Equal(t, "plain.out.md", report.Path("plain"))
}
