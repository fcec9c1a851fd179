package domain

import "time"

// Default wall-clock budgets for the external toolchain.
const (
	DefaultBuildTimeout = 2 * time.Minute
	DefaultRunTimeout   = 1 * time.Minute
)

// DefaultToolchainName is used when neither config nor notebook front
// matter selects a toolchain.
const DefaultToolchainName = "shell"

// CommandSpec describes one external command invocation: a structured
// argument vector run in an explicit working directory under a fixed
// wall-clock budget. No shell-string composition takes place.
type CommandSpec struct {
	Argv    []string
	Timeout time.Duration
}

// Toolchain describes how a notebook becomes a runnable artifact: the
// source file the generator renders, the template used to render it,
// and the build/run commands invoked against the generated tree.
type Toolchain struct {
	Name string

	// SourceFile is the file the generator renders inside the project
	// directory.
	SourceFile string

	// Template is the text/template source for SourceFile. Empty selects
	// the built-in template for the toolchain name.
	Template string

	Build CommandSpec
	Run   CommandSpec
}

// Settings is the resolved runtime configuration of the pipeline.
type Settings struct {
	// CacheRoot is the single shared mutable resource of the pipeline.
	CacheRoot string

	// Toolchains by name. Always contains DefaultToolchainName.
	Toolchains map[string]Toolchain

	// DefaultToolchain names the toolchain used when a notebook does not
	// pick one.
	DefaultToolchain string

	// Env holds extra KEY=VALUE pairs passed to build and run commands.
	Env []string

	// Verbose controls diagnostic emission only; it has no behavioral
	// effect on the pipeline.
	Verbose bool
}

// ToolchainFor resolves the toolchain for a notebook, preferring the
// notebook's own front-matter selection over the configured default.
func (s *Settings) ToolchainFor(n *Notebook) (Toolchain, bool) {
	name := s.DefaultToolchain
	if name == "" {
		name = DefaultToolchainName
	}
	if n != nil && n.Toolchain != "" {
		name = n.Toolchain
	}
	tc, ok := s.Toolchains[name]
	return tc, ok
}
