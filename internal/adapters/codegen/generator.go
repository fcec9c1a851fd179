// Package codegen renders a notebook's code cells into a buildable
// project tree.
package codegen

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"text/template"

	"go.trai.ch/kiln/internal/core/domain"
	"go.trai.ch/kiln/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.ProjectGenerator = (*Generator)(nil)

// Generator implements ports.ProjectGenerator using text/template. The
// rendered source file, together with the toolchain's build command,
// forms the buildable project; the run command executes the built
// artifact, which appends one self-describing record per Code cell to
// the capture file named by $KILN_CAPTURE.
type Generator struct{}

// NewGenerator creates a new Generator.
func NewGenerator() *Generator {
	return &Generator{}
}

// templateCell is the per-cell view passed to the source template.
type templateCell struct {
	Index   int
	Content string
}

// templateData is the root view passed to the source template.
type templateData struct {
	Title string
	Cells []templateCell
}

// Generate renders the toolchain's source template plus a manifest of
// the notebook into dir. Only Code cells participate.
func (g *Generator) Generate(notebook *domain.Notebook, toolchain domain.Toolchain, dir string) error {
	tmplSrc := toolchain.Template
	if tmplSrc == "" {
		builtin, ok := builtinTemplates[toolchain.Name]
		if !ok {
			return zerr.With(domain.ErrUnknownToolchain, "toolchain", toolchain.Name)
		}
		tmplSrc = builtin
	}

	tmpl, err := template.New(toolchain.SourceFile).Parse(tmplSrc)
	if err != nil {
		return zerr.Wrap(err, domain.ErrGenerateFailed.Error())
	}

	code := notebook.CodeCells()
	data := templateData{
		Title: notebook.Title,
		Cells: make([]templateCell, len(code)),
	}
	for i, cell := range code {
		data.Cells[i] = templateCell{Index: i, Content: cell.Content}
	}

	var rendered bytes.Buffer
	if err := tmpl.Execute(&rendered, data); err != nil {
		return zerr.Wrap(err, domain.ErrGenerateFailed.Error())
	}

	source := filepath.Join(dir, toolchain.SourceFile)
	if err := os.WriteFile(source, rendered.Bytes(), domain.FilePerm); err != nil {
		return zerr.Wrap(err, domain.ErrGenerateFailed.Error())
	}

	if err := g.writeManifest(notebook, dir); err != nil {
		return err
	}

	return nil
}

// manifest records what the project tree was generated from. It is a
// debugging aid inside cached artifact directories, not an input to
// the build.
type manifest struct {
	Title     string   `json:"title,omitempty"`
	Toolchain string   `json:"toolchain,omitempty"`
	CellKinds []string `json:"cell_kinds"`
}

func (g *Generator) writeManifest(notebook *domain.Notebook, dir string) error {
	m := manifest{
		Title:     notebook.Title,
		Toolchain: notebook.Toolchain,
		CellKinds: make([]string, len(notebook.Cells)),
	}
	for i, cell := range notebook.Cells {
		m.CellKinds[i] = string(cell.Kind)
	}

	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return zerr.Wrap(err, domain.ErrGenerateFailed.Error())
	}
	if err := os.WriteFile(filepath.Join(dir, "manifest.json"), data, domain.FilePerm); err != nil {
		return zerr.Wrap(err, domain.ErrGenerateFailed.Error())
	}
	return nil
}
