package markdown

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/kiln/internal/core/domain"
)

func TestParseBytes_CodeAndProse(t *testing.T) {
	doc := "# Demo\n\nSome intro text.\n\n```sh\necho one\n```\n\nMiddle prose.\n\n```sh\necho two\necho three\n```\n\nClosing words.\n"

	p := NewParser()
	nb, err := p.ParseBytes("demo.md", []byte(doc))
	require.NoError(t, err)

	require.Len(t, nb.Cells, 5)
	assert.Equal(t, domain.CellKindMarkdown, nb.Cells[0].Kind)
	assert.Contains(t, nb.Cells[0].Content, "# Demo")
	assert.Contains(t, nb.Cells[0].Content, "Some intro text.")

	assert.Equal(t, domain.CellKindCode, nb.Cells[1].Kind)
	assert.Equal(t, "echo one", nb.Cells[1].Content)

	assert.Equal(t, domain.CellKindMarkdown, nb.Cells[2].Kind)
	assert.Equal(t, "Middle prose.", nb.Cells[2].Content)

	assert.Equal(t, domain.CellKindCode, nb.Cells[3].Kind)
	assert.Equal(t, "echo two\necho three", nb.Cells[3].Content)

	assert.Equal(t, domain.CellKindMarkdown, nb.Cells[4].Kind)
	assert.Equal(t, "Closing words.", nb.Cells[4].Content)
}

func TestParseBytes_FrontMatter(t *testing.T) {
	doc := "---\ntitle: Release checks\ntoolchain: shell\n---\n\n```sh\ntrue\n```\n"

	nb, err := NewParser().ParseBytes("rel.md", []byte(doc))
	require.NoError(t, err)

	assert.Equal(t, "Release checks", nb.Title)
	assert.Equal(t, "shell", nb.Toolchain)
	require.Len(t, nb.Cells, 1)
	assert.Equal(t, domain.CellKindCode, nb.Cells[0].Kind)
}

func TestParseBytes_FrontMatterInvalidYAML(t *testing.T) {
	doc := "---\ntitle: [unclosed\n---\n\nbody\n"

	_, err := NewParser().ParseBytes("bad.md", []byte(doc))
	require.Error(t, err)
	assert.ErrorContains(t, err, domain.ErrNotebookParseFailed.Error())
}

func TestParseBytes_NoFrontMatterDashesArePreserved(t *testing.T) {
	// A thematic break in the middle of the document is not front matter.
	doc := "Intro.\n\n---\n\nMore prose.\n"

	nb, err := NewParser().ParseBytes("plain.md", []byte(doc))
	require.NoError(t, err)

	require.Len(t, nb.Cells, 1)
	assert.Equal(t, domain.CellKindMarkdown, nb.Cells[0].Kind)
	assert.Empty(t, nb.Title)
}

func TestParseBytes_CRLFNormalized(t *testing.T) {
	unix := "```sh\necho hi\n```\n"
	windows := "```sh\r\necho hi\r\n```\r\n"

	a, err := NewParser().ParseBytes("a.md", []byte(unix))
	require.NoError(t, err)
	b, err := NewParser().ParseBytes("b.md", []byte(windows))
	require.NoError(t, err)

	assert.Equal(t, a.Cells, b.Cells)
}

func TestParseBytes_OnlyProse(t *testing.T) {
	nb, err := NewParser().ParseBytes("prose.md", []byte("Just words, no code.\n"))
	require.NoError(t, err)

	require.Len(t, nb.Cells, 1)
	assert.Equal(t, domain.CellKindMarkdown, nb.Cells[0].Kind)
	assert.Empty(t, nb.CodeCells())
}

func TestParseBytes_Empty(t *testing.T) {
	nb, err := NewParser().ParseBytes("empty.md", nil)
	require.NoError(t, err)
	assert.Empty(t, nb.Cells)
}

func TestParse_MissingFile(t *testing.T) {
	_, err := NewParser().Parse("/nonexistent/notebook.md")
	require.Error(t, err)
	assert.ErrorContains(t, err, domain.ErrNotebookParseFailed.Error())
}
