// Package markdown parses markdown notebook documents into cells.
package markdown

import (
	"bytes"
	"os"
	"strings"

	"github.com/yuin/goldmark"
	gmast "github.com/yuin/goldmark/ast"
	gmtext "github.com/yuin/goldmark/text"
	"go.trai.ch/kiln/internal/core/domain"
	"go.trai.ch/kiln/internal/core/ports"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

var _ ports.DocumentParser = (*Parser)(nil)

// Parser implements ports.DocumentParser for markdown notebooks. Every
// top-level fenced code block becomes a Code cell; the prose between
// code blocks is grouped into Markdown cells. An optional yaml front
// matter block selects the notebook title and toolchain.
type Parser struct{}

// NewParser creates a new Parser.
func NewParser() *Parser {
	return &Parser{}
}

// frontMatter is the yaml header of a notebook document.
type frontMatter struct {
	Title     string `yaml:"title"`
	Toolchain string `yaml:"toolchain"`
}

// Parse reads and parses the notebook at path.
func (p *Parser) Parse(path string) (*domain.Notebook, error) {
	//nolint:gosec // Path is provided by the invoking user
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrNotebookParseFailed.Error()), "path", path)
	}
	return p.ParseBytes(path, data)
}

// ParseBytes parses an in-memory notebook document. Cell content is
// normalized to LF line endings before it is returned, so fingerprints
// are stable across checkout styles.
func (p *Parser) ParseBytes(path string, data []byte) (*domain.Notebook, error) {
	data = normalizeLineEndings(data)

	notebook := &domain.Notebook{Path: path}

	body, fm, err := splitFrontMatter(data)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrNotebookParseFailed.Error()), "path", path)
	}
	notebook.Title = fm.Title
	notebook.Toolchain = fm.Toolchain

	md := goldmark.New()
	root := md.Parser().Parse(gmtext.NewReader(body))

	var cells []domain.Cell
	proseStart := 0

	for node := root.FirstChild(); node != nil; node = node.NextSibling() {
		fenced, ok := node.(*gmast.FencedCodeBlock)
		if !ok {
			continue
		}

		start, stop := nodeSpan(fenced, body)

		if prose := strings.TrimSpace(string(body[proseStart:start])); prose != "" {
			cells = append(cells, domain.Cell{Kind: domain.CellKindMarkdown, Content: prose})
		}
		proseStart = stop

		cells = append(cells, domain.Cell{
			Kind:    domain.CellKindCode,
			Content: fencedContent(fenced, body),
		})
	}

	if prose := strings.TrimSpace(string(body[proseStart:])); prose != "" {
		cells = append(cells, domain.Cell{Kind: domain.CellKindMarkdown, Content: prose})
	}

	notebook.Cells = cells
	return notebook, nil
}

// splitFrontMatter strips a leading "---" yaml block, when present.
func splitFrontMatter(data []byte) ([]byte, frontMatter, error) {
	var fm frontMatter

	const delim = "---\n"
	if !bytes.HasPrefix(data, []byte(delim)) {
		return data, fm, nil
	}

	rest := data[len(delim):]
	end := bytes.Index(rest, []byte("\n"+delim))
	closing := len("\n" + delim)
	if end < 0 {
		// Allow a closing delimiter without trailing newline at EOF.
		if bytes.HasSuffix(rest, []byte("\n---")) {
			end = len(rest) - len("\n---")
			closing = len("\n---")
		} else {
			return data, fm, nil
		}
	}

	if err := yaml.Unmarshal(rest[:end], &fm); err != nil {
		return nil, fm, err
	}

	return rest[end+closing:], fm, nil
}

// nodeSpan returns the byte range of a fenced code block including its
// fence lines, suitable for carving the surrounding prose.
func nodeSpan(fenced *gmast.FencedCodeBlock, source []byte) (start, stop int) {
	lines := fenced.Lines()

	if lines.Len() == 0 {
		// Empty block: fall back to the info line.
		if info := fenced.Info; info != nil {
			seg := info.Segment
			start = lineStartBefore(source, seg.Start)
			stop = seg.Stop
			return start, stop
		}
		return 0, 0
	}

	first := lines.At(0)
	last := lines.At(lines.Len() - 1)

	// Expand to cover the fence lines themselves.
	start = lineStartBefore(source, prevLineStart(source, first.Start))
	stop = last.Stop
	if next := bytes.IndexByte(source[stop:], '\n'); next >= 0 {
		stop += next + 1
	} else {
		stop = len(source)
	}
	return start, stop
}

// prevLineStart returns the start offset of the line preceding the line
// that begins at off.
func prevLineStart(source []byte, off int) int {
	if off == 0 {
		return 0
	}
	return lineStartBefore(source, off-1)
}

// lineStartBefore returns the start offset of the line containing off.
func lineStartBefore(source []byte, off int) int {
	if off <= 0 {
		return 0
	}
	if i := bytes.LastIndexByte(source[:off], '\n'); i >= 0 {
		return i + 1
	}
	return 0
}

// fencedContent extracts the literal content of a fenced code block
// without its fences, trailing newline trimmed.
func fencedContent(fenced *gmast.FencedCodeBlock, source []byte) string {
	var buf bytes.Buffer
	lines := fenced.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		buf.Write(seg.Value(source))
	}
	return strings.TrimSuffix(buf.String(), "\n")
}

func normalizeLineEndings(data []byte) []byte {
	data = bytes.ReplaceAll(data, []byte("\r\n"), []byte("\n"))
	return bytes.ReplaceAll(data, []byte("\r"), []byte("\n"))
}
