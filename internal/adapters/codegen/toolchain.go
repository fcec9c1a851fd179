package codegen

import "go.trai.ch/kiln/internal/core/domain"

// shellTemplate is the built-in POSIX shell toolchain source. Each Code
// cell becomes a function; the driver runs them in order, mirrors their
// output to stdout, and appends one self-describing record per cell to
// the capture file named by $KILN_CAPTURE. The record framing
// ("%%cell <len>" header followed by exactly len payload bytes and a
// newline) is what the output demultiplexer parses.
const shellTemplate = `#!/bin/sh
# Generated by kiln{{if .Title}} from "{{.Title}}"{{end}}. Do not edit.
set -u

: "${KILN_CAPTURE:?KILN_CAPTURE not set}"
: > "$KILN_CAPTURE"

kiln_emit() {
	kiln_len=$(printf '%s' "$1" | wc -c | tr -d ' 	')
	printf '%%%%cell %s\n' "$kiln_len" >> "$KILN_CAPTURE"
	printf '%s\n' "$1" >> "$KILN_CAPTURE"
}
{{range .Cells}}
kiln_cell_{{.Index}}() {
{{.Content}}
}
{{end}}
{{range .Cells}}
kiln_out=$(kiln_cell_{{.Index}}) || exit $?
printf '%s\n' "$kiln_out"
kiln_emit "$kiln_out"
{{end}}`

// builtinTemplates maps toolchain names to their built-in source
// templates.
var builtinTemplates = map[string]string{
	domain.DefaultToolchainName: shellTemplate,
}

// DefaultToolchains returns the toolchains available without any
// configuration.
func DefaultToolchains() map[string]domain.Toolchain {
	return map[string]domain.Toolchain{
		domain.DefaultToolchainName: {
			Name:       domain.DefaultToolchainName,
			SourceFile: "main.sh",
			Build: domain.CommandSpec{
				Argv:    []string{"sh", "-n", "main.sh"},
				Timeout: domain.DefaultBuildTimeout,
			},
			Run: domain.CommandSpec{
				Argv:    []string{"sh", "main.sh"},
				Timeout: domain.DefaultRunTimeout,
			},
		},
	}
}
